package handlers

import (
	"context"
	"net/http"
	"strings"

	"latribu-backend/internal/models"
	"latribu-backend/internal/services/autocomplete"

	"github.com/gin-gonic/gin"
)

// LocationCatalog каталог локаций
type LocationCatalog interface {
	Load(ctx context.Context) []models.Location
	Ready() bool
	Available() bool
}

// GetLocations GET /api/ubicaciones
func GetLocations(catalog LocationCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		locs := catalog.Load(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"data":      locs,
			"ready":     catalog.Ready(),
			"available": catalog.Available(),
		})
	}
}

// GetCitySuggestions GET /api/ciudades/sugerencias?q=
// Без каталога подсказки идут из встроенного списка городов.
func GetCitySuggestions(catalog LocationCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("q")
		items := autocomplete.Filter(query, autocomplete.Source(catalog.Load(c.Request.Context())))
		c.JSON(http.StatusOK, gin.H{
			"suggestions": items,
			"groups":      autocomplete.GroupByRegion(items),
			"noResults":   len(items) == 0 && strings.TrimSpace(query) != "",
		})
	}
}
