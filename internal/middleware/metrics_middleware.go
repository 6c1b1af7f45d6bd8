package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal - общее количество запросов
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Общее количество HTTP запросов",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration - длительность запросов
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Длительность HTTP запросов в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// RequestsInFlight - количество запросов в обработке
	RequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Текущее количество запросов в обработке",
		},
	)

	// UpstreamRequestsTotal - запросы к бэкенду La Tribu и Mapbox
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Общее количество запросов к внешним сервисам",
		},
		[]string{"service", "endpoint", "status", "cached"},
	)

	// UpstreamRequestDuration - длительность запросов к внешним сервисам
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Длительность запросов к внешним сервисам в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "endpoint", "cached"},
	)

	// WebSocketSessions - открытые сессии бронирования
	WebSocketSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "booking_ws_sessions",
			Help: "Текущее количество WebSocket сессий бронирования",
		},
	)
)

// PrometheusMiddleware собирает метрики для HTTP запросов
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Увеличиваем счетчик запросов в обработке
		RequestsInFlight.Inc()
		defer RequestsInFlight.Dec()

		// Фиксируем время начала запроса
		start := time.Now()

		// Обрабатываем запрос
		c.Next()

		// Вычисляем длительность запроса
		duration := time.Since(start).Seconds()

		// Получаем статус код и эндпоинт
		status := strconv.Itoa(c.Writer.Status())
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}

		// Увеличиваем счетчик запросов
		RequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()

		// Добавляем длительность запроса
		RequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(duration)
	}
}

// TrackUpstreamRequest отслеживает запрос к внешнему сервису (backend, mapbox)
func TrackUpstreamRequest(service, endpoint, status string, cached bool, duration time.Duration) {
	cachedStr := strconv.FormatBool(cached)
	UpstreamRequestsTotal.WithLabelValues(service, endpoint, status, cachedStr).Inc()

	UpstreamRequestDuration.WithLabelValues(service, endpoint, cachedStr).Observe(duration.Seconds())
}
