package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"

	"latribu-backend/internal/models"

	"github.com/gin-gonic/gin"
)

const maxRevenueShifts = 200

// Ответы админских эндпоинтов
const (
	msgCacheCleared     = "Caché limpiada"
	msgRedisClearFailed = "No se pudo limpiar la caché de Redis"
	msgInvalidShiftIDs  = "Lista de turnos inválida"
)

// PopularRoutes источник популярных направлений
type PopularRoutes interface {
	Popular(ctx context.Context, limit int) ([]models.PopularRoute, error)
}

// RevenueSource выручка по turnos
type RevenueSource interface {
	Revenue(ctx context.Context, ids []int64) models.RevenueSummary
}

// CacheTargets что очищает DELETE /api/admin/cache; nil поля пропускаются
type CacheTargets struct {
	Routes   interface{ Clear() }
	Geocoder interface{ Clear() }
	Redis    interface {
		Enabled() bool
		Clear(ctx context.Context) error
	}
	Catalog interface{ Refresh() }
}

// GetPopularSearches GET /api/busquedas/populares?limit=
func GetPopularSearches(repo PopularRoutes) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		routes, err := repo.Popular(c.Request.Context(), limit)
		if err != nil {
			log.Printf("[busquedas] %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener las búsquedas populares"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": routes})
	}
}

// ClearCaches DELETE /api/admin/cache
func ClearCaches(t CacheTargets) gin.HandlerFunc {
	return func(c *gin.Context) {
		if t.Routes != nil {
			t.Routes.Clear()
		}
		if t.Geocoder != nil {
			t.Geocoder.Clear()
		}
		redisCleared := false
		if t.Redis != nil && t.Redis.Enabled() {
			if err := t.Redis.Clear(c.Request.Context()); err != nil {
				log.Printf("[admin] ошибка при очистке Redis: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": msgRedisClearFailed})
				return
			}
			redisCleared = true
		}
		if t.Catalog != nil {
			t.Catalog.Refresh()
		}

		log.Printf("[admin] кэши очищены (redis=%v)", redisCleared)
		c.JSON(http.StatusOK, gin.H{"message": msgCacheCleared, "redis": redisCleared})
	}
}

// GetShiftRevenue GET /api/admin/turnos/ingresos?ids=1,2,3
func GetShiftRevenue(svc RevenueSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		ids, ok := parseIDs(c.Query("ids"))
		if !ok || len(ids) == 0 || len(ids) > maxRevenueShifts {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidShiftIDs})
			return
		}
		c.JSON(http.StatusOK, svc.Revenue(c.Request.Context(), ids))
	}
}

func parseIDs(raw string) ([]int64, bool) {
	ids := []int64{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}
