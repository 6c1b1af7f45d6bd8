package routes

import (
	"context"
	"time"

	"latribu-backend/internal/cache"
	"latribu-backend/internal/handlers"
	"latribu-backend/internal/middleware"
	"latribu-backend/internal/models"
	"latribu-backend/internal/repository"
	"latribu-backend/internal/services/booking"
	"latribu-backend/internal/services/catalog"
	"latribu-backend/internal/services/history"
	"latribu-backend/internal/services/mapbox"
	"latribu-backend/internal/services/seats"
	"latribu-backend/internal/services/trips"
	"latribu-backend/internal/websocket"

	"github.com/gin-gonic/gin"
)

// Deps собранные в main сервисы
type Deps struct {
	JWTSecret  string
	Catalog    *catalog.Catalog
	Trips      *trips.Service
	History    *history.Recorder
	Searches   *repository.SearchHistoryRepository
	Mapbox     *mapbox.Client
	RouteStore cache.Store[models.RouteResult]
	Geocoder   *mapbox.Geocoder
	MapCache   *mapbox.CacheService
	Handoff    seats.HandoffConfig
	Sessions   *websocket.Manager
	Debounce   time.Duration
	BlurGrace  time.Duration
	Now        func() time.Time
}

func SetupRoutes(r *gin.Engine, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}

	api := r.Group("/api")
	api.Use(middleware.OptionalJWT(d.JWTSecret))
	{
		// Каталог и подсказки городов
		api.GET("/ubicaciones", handlers.GetLocations(d.Catalog))
		api.GET("/ciudades/sugerencias", handlers.GetCitySuggestions(d.Catalog))

		// Поиск поездок
		api.POST("/busqueda/validar", handlers.ValidateSearch(d.Now))
		api.GET("/viajes", handlers.SearchTrips(d.Trips, d.History, d.Now))
		api.GET("/busquedas/populares", handlers.GetPopularSearches(d.Searches))

		// Схема мест и передача в checkout
		api.GET("/viajes/:id/asientos", handlers.GetTripSeats(d.Trips))
		api.POST("/viajes/:id/seleccion", handlers.SelectSeats(d.Trips, d.Handoff))

		// Карта
		api.POST("/rutas/calcular", handlers.CalculateRoute(d.Mapbox, d.RouteStore, d.Mapbox))
		api.GET("/geocoding/reverse", handlers.ReverseGeocode(d.Geocoder))
	}

	admin := api.Group("/admin")
	admin.Use(middleware.RequireAdmin(d.JWTSecret))
	{
		admin.DELETE("/cache", handlers.ClearCaches(handlers.CacheTargets{
			Routes:   d.RouteStore,
			Geocoder: d.Geocoder,
			Redis:    d.MapCache,
			Catalog:  d.Catalog,
		}))
		admin.GET("/turnos/ingresos", handlers.GetShiftRevenue(d.Trips))
	}

	// WebSocket сессия бронирования; токен необязателен и нужен только для checkout
	r.GET("/ws", middleware.OptionalJWT(d.JWTSecret), websocket.Handler(d.Sessions, booking.Deps{
		Catalog:    d.Catalog,
		Trips:      d.Trips,
		Directions: d.Mapbox,
		RouteStore: d.RouteStore,
		Handoff:    d.Handoff,
		Debounce:   d.Debounce,
		BlurGrace:  d.BlurGrace,
		Now:        d.Now,
		OnSearch: func(q models.TripQuery, results int) {
			d.History.Record(context.Background(), q, results, "")
		},
	}))
}
