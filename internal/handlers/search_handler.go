package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"latribu-backend/internal/apperr"
	"latribu-backend/internal/models"
	"latribu-backend/internal/services/search"
	"latribu-backend/internal/services/trips"

	"github.com/gin-gonic/gin"
)

// TripSearcher поиск поездок туда и обратно
type TripSearcher interface {
	SearchRoundTrip(ctx context.Context, q models.TripQuery) (trips.RoundTrip, error)
}

// SearchRecorder история поисков
type SearchRecorder interface {
	Record(ctx context.Context, q models.TripQuery, results int, clientIP string)
}

type validateRequest struct {
	models.SearchCriteria
	RequireIDs bool `json:"requireIds"`
}

// ValidateSearch POST /api/busqueda/validar
func ValidateSearch(now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Formato de solicitud inválido"})
			return
		}

		errs := search.Validate(req.SearchCriteria, req.RequireIDs, now())
		resp := gin.H{"valid": len(errs) == 0, "errors": errs}
		if len(errs) == 0 {
			resp["params"] = search.Encode(req.SearchCriteria).Encode()
		}
		c.JSON(http.StatusOK, resp)
	}
}

// SearchTrips GET /api/viajes?origen=&destino=&origenId=&destinoId=&fecha=&fechaRegreso=&franja=
func SearchTrips(svc TripSearcher, recorder SearchRecorder, now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		criteria := search.Decode(c.Request.URL.Query())
		if errs := search.Validate(criteria, false, now()); len(errs) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
			return
		}

		franja, ok := trips.ParseFranja(c.Query("franja"))
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Franja horaria inválida"})
			return
		}

		q := search.ToQuery(criteria)
		res, err := svc.SearchRoundTrip(c.Request.Context(), q)
		if err != nil {
			if apperr.IsSuperseded(err) {
				// клиент ушел, отвечать некому
				c.Abort()
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{
				"trips":       []models.Trip{},
				"returnTrips": []models.Trip{},
				"franja":      franja,
				"error":       apperr.UserMessage(err, trips.MsgLoadFailed),
			})
			return
		}

		if recorder != nil {
			recorder.Record(c.Request.Context(), q, len(res.Outbound), c.ClientIP())
		}
		log.Printf("[viajes] %s -> %s %s: %d turnos", q.OriginText, q.DestinationText, q.Date, len(res.Outbound))

		resp := gin.H{
			"trips":  trips.FilterByFranja(res.Outbound, franja),
			"franja": franja,
		}
		if res.Return != nil {
			resp["returnTrips"] = trips.FilterByFranja(res.Return, franja)
		}
		c.JSON(http.StatusOK, resp)
	}
}
