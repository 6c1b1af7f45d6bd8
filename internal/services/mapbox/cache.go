package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"latribu-backend/internal/models"
)

// CacheService второй уровень кэша ответов Mapbox в Redis.
// Без клиента Redis кэш выключен и все методы ничего не делают.
type CacheService struct {
	redisClient *redis.Client
	ttl         time.Duration
	enabled     bool
}

func NewCacheService(client *redis.Client, ttl time.Duration) *CacheService {
	if client == nil {
		return &CacheService{enabled: false}
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CacheService{redisClient: client, ttl: ttl, enabled: true}
}

// Enabled включен ли кэш
func (c *CacheService) Enabled() bool {
	return c.enabled
}

// Get получает данные из кэша
func (c *CacheService) Get(ctx context.Context, key string, result interface{}) (bool, error) {
	if !c.enabled {
		return false, nil
	}

	val, err := c.redisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("ошибка при получении данных из кэша: %w", err)
	}

	if err := json.Unmarshal([]byte(val), result); err != nil {
		return false, fmt.Errorf("ошибка при десериализации данных из кэша: %w", err)
	}
	return true, nil
}

// Set сохраняет данные в кэш
func (c *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	if !c.enabled {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("ошибка при сериализации данных для кэша: %w", err)
	}
	if err := c.redisClient.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("ошибка при сохранении данных в кэш: %w", err)
	}
	return nil
}

// Clear удаляет все ключи Mapbox
func (c *CacheService) Clear(ctx context.Context) error {
	if !c.enabled {
		return nil
	}
	iter := c.redisClient.Scan(ctx, 0, "mapbox:*", 200).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("ошибка при сканировании кэша: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.redisClient.Del(ctx, keys...).Err()
}

// RouteKey ключ маршрута для Redis
func (c *CacheService) RouteKey(points []models.LatLng) string {
	return "mapbox:route:" + RouteKey(points)
}

// GeocodeKey ключ обратного геокодирования для Redis
func (c *CacheService) GeocodeKey(lat, lng float64) string {
	return "mapbox:geocode:" + GeocodeKey(lat, lng)
}

// Close закрывает соединение с Redis
func (c *CacheService) Close() error {
	if c.enabled {
		return c.redisClient.Close()
	}
	return nil
}

// RouteKey координаты всех точек, округленные до 4 знаков, по порядку
func RouteKey(points []models.LatLng) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = GeocodeKey(p.Lat, p.Lng)
	}
	return strings.Join(parts, ";")
}

// GeocodeKey "lat,lng" с точностью 4 знака (~11 м)
func GeocodeKey(lat, lng float64) string {
	return fmt.Sprintf("%.4f,%.4f", round4(lat), round4(lng))
}

func round4(v float64) float64 {
	r := math.Round(v*1e4) / 1e4
	if r == 0 {
		// -0.0000 и 0.0000 должны давать один ключ
		return 0
	}
	return r
}
