package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"latribu-backend/internal/apperr"
	"latribu-backend/internal/cache"
	"latribu-backend/internal/models"
	"latribu-backend/internal/services/mapbox"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb/geojson"
)

const (
	staticMapWidth  = 600
	staticMapHeight = 400
)

// StaticMapper ссылка на статичную карту сцены
type StaticMapper interface {
	StaticMapURL(fc *geojson.FeatureCollection, width, height int) (string, error)
}

// Geocoder обратное геокодирование
type Geocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (string, error)
}

// CalculateRoute POST /api/rutas/calcular
// Строит маршрут origen -> paradas -> destino, отдает сводку, GeoJSON сцену и статичную карту
func CalculateRoute(source mapbox.DirectionsSource, store cache.Store[models.RouteResult], static StaticMapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RouteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Formato de solicitud inválido"})
			return
		}
		for _, p := range req.Points() {
			if !validPoint(p.Lat, p.Lng) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Coordenadas inválidas"})
				return
			}
		}

		scene := mapbox.NewScene()
		renderer := mapbox.NewRenderer(source, store, scene, nil)
		defer renderer.Close()

		res, err := renderer.Render(c.Request.Context(), req)
		if err != nil {
			if apperr.IsSuperseded(err) {
				c.Abort()
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": apperr.UserMessage(err, mapbox.MsgRouteFailed)})
			return
		}

		resp := gin.H{"info": res.Info, "scene": scene}
		if static != nil {
			if u, err := static.StaticMapURL(scene.FeatureCollection(), staticMapWidth, staticMapHeight); err == nil {
				resp["staticMapUrl"] = u
			} else {
				log.Printf("[rutas] %v", err)
			}
		}
		c.JSON(http.StatusOK, resp)
	}
}

// ReverseGeocode GET /api/geocoding/reverse?lat=&lng=
func ReverseGeocode(g Geocoder) gin.HandlerFunc {
	return func(c *gin.Context) {
		lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
		lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
		if errLat != nil || errLng != nil || !validPoint(lat, lng) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Coordenadas inválidas"})
			return
		}

		address, err := g.Reverse(c.Request.Context(), lat, lng)
		if err != nil {
			if apperr.IsSuperseded(err) {
				c.Abort()
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": apperr.UserMessage(err, mapbox.MsgGeocodeFailed)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"address": address})
	}
}

func validPoint(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180 && !(lat == 0 && lng == 0)
}
