package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config собирает все параметры сервиса из окружения
type Config struct {
	Port      string
	GinMode   string
	LogFormat string

	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	RedisHost     string
	RedisPort     string
	RedisPassword string
	CacheEnabled  bool
	CacheTTL      time.Duration

	BackendURL     string
	BackendTimeout time.Duration

	MapboxToken      string
	MapboxBaseURL    string
	MapboxDailyLimit int
	MapboxPace       time.Duration
	GeocodeCacheSize int
	RouteCacheSize   int
	CachePolicy      string

	CatalogRefresh     time.Duration
	AutocompleteDelay  time.Duration
	AutocompleteBlur   time.Duration
	AverageSpeedKmh    float64
	CheckoutURL        string
	LoginURL           string
	JWTSecret          string
	CORSAllowedOrigins []string
}

// Load читает .env (если есть) и переменные окружения
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Файл .env не найден, используем переменные окружения")
	}

	return Config{
		Port:      getString("PORT", "8080"),
		GinMode:   getString("GIN_MODE", ""),
		LogFormat: getString("LOG_FORMAT", ""),

		DBHost:            getString("DB_HOST", ""),
		DBPort:            getString("DB_PORT", "5432"),
		DBUser:            getString("DB_USER", ""),
		DBPassword:        getString("DB_PASSWORD", ""),
		DBName:            getString("DB_NAME", ""),
		DBMaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 100),
		DBMaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLifetime: time.Duration(getInt("DB_CONN_MAX_LIFETIME_MINUTES", 60)) * time.Minute,

		RedisHost:     getString("REDIS_HOST", "localhost"),
		RedisPort:     getString("REDIS_PORT", "6379"),
		RedisPassword: getString("REDIS_PASSWORD", ""),
		CacheEnabled:  os.Getenv("CACHE_ENABLED") == "true",
		CacheTTL:      time.Duration(getInt("MAPBOX_CACHE_DURATION", 86400)) * time.Second,

		BackendURL:     strings.TrimRight(getString("BACKEND_URL", "http://localhost:3000/api"), "/"),
		BackendTimeout: time.Duration(getInt("BACKEND_TIMEOUT_SECONDS", 15)) * time.Second,

		MapboxToken:      getString("MAPBOX_TOKEN", ""),
		MapboxBaseURL:    strings.TrimRight(getString("MAPBOX_BASE_URL", "https://api.mapbox.com"), "/"),
		MapboxDailyLimit: getInt("MAPBOX_DAILY_LIMIT", 50000),
		MapboxPace:       time.Duration(getInt("MAPBOX_MIN_INTERVAL_MS", 100)) * time.Millisecond,
		GeocodeCacheSize: getInt("GEOCODE_CACHE_SIZE", 100),
		RouteCacheSize:   getInt("ROUTE_CACHE_SIZE", 500),
		CachePolicy:      strings.ToLower(getString("CACHE_POLICY", "fifo")),

		CatalogRefresh:     time.Duration(getInt("CATALOG_REFRESH_MINUTES", 30)) * time.Minute,
		AutocompleteDelay:  time.Duration(getInt("AUTOCOMPLETE_DEBOUNCE_MS", 150)) * time.Millisecond,
		AutocompleteBlur:   time.Duration(getInt("AUTOCOMPLETE_BLUR_MS", 200)) * time.Millisecond,
		AverageSpeedKmh:    float64(getInt("AVERAGE_SPEED_KMH", 60)),
		CheckoutURL:        getString("CHECKOUT_URL", "https://latribu.co/checkout"),
		LoginURL:           getString("LOGIN_URL", "https://latribu.co/login"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		CORSAllowedOrigins: splitList(getString("CORS_ALLOWED_ORIGINS", "*")),
	}
}

// PostgresDSN возвращает строку подключения или пустую строку, если БД не настроена
func (c Config) PostgresDSN() string {
	if c.DBHost == "" {
		return ""
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

// RedisAddr адрес Redis в формате host:port
func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func getString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val, err := strconv.Atoi(os.Getenv(key)); err == nil && val > 0 {
		return val
	}
	return fallback
}

func splitList(raw string) []string {
	out := []string{}
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
