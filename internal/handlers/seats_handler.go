package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"latribu-backend/internal/apperr"
	"latribu-backend/internal/middleware"
	"latribu-backend/internal/models"
	"latribu-backend/internal/services/seats"
	"latribu-backend/internal/services/trips"

	"github.com/gin-gonic/gin"
)

// TripFetcher одна поездка с занятыми местами
type TripFetcher interface {
	Trip(ctx context.Context, id int64) (models.Trip, error)
}

type seatSelectionRequest struct {
	Seats []int `json:"asientos"`
}

// GetTripSeats GET /api/viajes/:id/asientos
func GetTripSeats(svc TripFetcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		trip, ok := loadTrip(c, svc)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"trip":  trip,
			"seats": seats.GenerateSeats(trip.Vehicle.Capacity, trip.OccupiedSeats),
		})
	}
}

// SelectSeats POST /api/viajes/:id/seleccion
// Проверяет выбор по актуальной схеме и возвращает ссылку на оформление
func SelectSeats(svc TripFetcher, cfg seats.HandoffConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req seatSelectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Formato de solicitud inválido"})
			return
		}
		if len(req.Seats) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Selecciona al menos un asiento"})
			return
		}

		trip, ok := loadTrip(c, svc)
		if !ok {
			return
		}

		m := seats.NewMap()
		m.Open(trip)
		seen := make(map[int]bool, len(req.Seats))
		for _, id := range req.Seats {
			if seen[id] {
				continue
			}
			seen[id] = true
			if !m.Toggle(id) {
				c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("El asiento %d no está disponible", id)})
				return
			}
		}

		selected := m.Selected()
		c.JSON(http.StatusOK, gin.H{
			"selected":   selected,
			"totalPrice": m.TotalPrice(),
			"handoff":    seats.Handoff(cfg, trip, selected, middleware.UserID(c) > 0),
		})
	}
}

func loadTrip(c *gin.Context, svc TripFetcher) (models.Trip, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identificador de viaje inválido"})
		return models.Trip{}, false
	}

	trip, err := svc.Trip(c.Request.Context(), id)
	if err != nil {
		switch {
		case apperr.IsSuperseded(err):
			c.Abort()
		case upstreamStatus(err) == http.StatusNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": trips.MsgTripNotFound})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": apperr.UserMessage(err, trips.MsgSeatsFailed)})
		}
		return models.Trip{}, false
	}
	return trip, true
}
