package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"latribu-backend/internal/cache"
	"latribu-backend/internal/config"
	"latribu-backend/internal/db"
	"latribu-backend/internal/middleware"
	"latribu-backend/internal/models"
	"latribu-backend/internal/repository"
	"latribu-backend/internal/routes"
	"latribu-backend/internal/services"
	"latribu-backend/internal/services/backend"
	"latribu-backend/internal/services/catalog"
	"latribu-backend/internal/services/history"
	"latribu-backend/internal/services/mapbox"
	"latribu-backend/internal/services/seats"
	"latribu-backend/internal/services/trips"
	"latribu-backend/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()

	// Устанавливаем режим релиза для продакшена
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Настраиваем логирование
	if cfg.LogFormat == "json" {
		log.SetFlags(0)
	}

	// Подключение к базе данных (история поисков); без DB_HOST работаем без нее
	database, err := db.ConnectPostgres(cfg, 5, 5*time.Second)
	switch {
	case errors.Is(err, db.ErrNotConfigured):
		log.Println("DB_HOST не задан, история поисков отключена")
	case err != nil:
		log.Fatal("Ошибка подключения к базе данных:", err)
	default:
		if err := database.AutoMigrate(&models.SearchRecord{}); err != nil {
			log.Fatal("Ошибка миграции базы данных:", err)
		}
	}

	// Подключение к Redis для кэша Mapbox
	var redisClient *redis.Client
	if cfg.CacheEnabled {
		redisClient, err = db.NewRedisClient(cfg)
		if err != nil {
			log.Println("Предупреждение: Redis недоступен, продолжаем без кэширования:", err)
			redisClient = nil
		} else {
			log.Println("Успешное подключение к Redis")
		}
	}

	mapCache := mapbox.NewCacheService(redisClient, cfg.CacheTTL)
	mapboxClient := mapbox.NewClient(mapbox.Options{
		Token:      cfg.MapboxToken,
		BaseURL:    cfg.MapboxBaseURL,
		DailyLimit: cfg.MapboxDailyLimit,
		Pace:       cfg.MapboxPace,
		Cache:      mapCache,
	})
	defer mapboxClient.Close()
	if cfg.MapboxToken == "" {
		log.Println("Предупреждение: MAPBOX_TOKEN не задан, маршруты и геокодирование недоступны")
	}

	policy := cache.ParsePolicy(cfg.CachePolicy)
	routeStore := cache.New[models.RouteResult](cfg.RouteCacheSize, policy)
	geocoder := mapbox.NewGeocoder(mapboxClient, cache.New[string](cfg.GeocodeCacheSize, policy))

	api := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout)
	locations := catalog.New(api, cfg.CatalogRefresh)
	tripService := trips.NewService(api, services.NewArrivalEstimator(cfg.AverageSpeedKmh))
	searches := repository.NewSearchHistoryRepository(database)
	recorder := history.NewRecorder(searches, api, cfg.BackendTimeout)

	// Прогреваем каталог, чтобы первые подсказки не ждали бэкенд
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.BackendTimeout)
		defer cancel()
		log.Printf("[catalog] загружено %d локаций", len(locations.Load(ctx)))
	}()

	// Запускаем менеджер WebSocket сессий
	sessions := websocket.NewManager()
	sessions.Start()

	// Создаем Gin роутер
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())

	// Добавляем middleware для сбора метрик
	r.Use(middleware.PrometheusMiddleware())

	// Настройка доверенных прокси
	r.SetTrustedProxies([]string{"127.0.0.1"})

	// Настройка CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Добавляем эндпоинт для метрик Prometheus
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Проверка работоспособности системы
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"time":     time.Now().Format(time.RFC3339),
			"catalog":  locations.Available(),
			"history":  searches.Enabled(),
			"cache":    mapCache.Enabled(),
			"sessions": sessions.Count(),
		})
	})

	routes.SetupRoutes(r, routes.Deps{
		JWTSecret:  cfg.JWTSecret,
		Catalog:    locations,
		Trips:      tripService,
		History:    recorder,
		Searches:   searches,
		Mapbox:     mapboxClient,
		RouteStore: routeStore,
		Geocoder:   geocoder,
		MapCache:   mapCache,
		Handoff:    seats.HandoffConfig{CheckoutURL: cfg.CheckoutURL, LoginURL: cfg.LoginURL},
		Sessions:   sessions,
		Debounce:   cfg.AutocompleteDelay,
		BlurGrace:  cfg.AutocompleteBlur,
	})

	// Создаем HTTP сервер с настроенными таймаутами
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Сервер запущен на порту %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Ошибка запуска сервера: %s", err)
		}
	}()

	// Ожидаем сигнал для graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Получен сигнал завершения, закрываем соединения...")

	sessions.Stop()

	// Даем 30 секунд на завершение текущих запросов
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Ошибка при graceful shutdown: %s", err)
	}

	if database != nil {
		if sqlDB, err := database.DB(); err == nil {
			sqlDB.Close()
		}
	}

	log.Println("Сервер корректно завершил работу")
}
