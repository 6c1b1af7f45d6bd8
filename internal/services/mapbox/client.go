package mapbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/paulmach/orb/geojson"

	"latribu-backend/internal/apperr"
	"latribu-backend/internal/middleware"
	"latribu-backend/internal/models"
)

const (
	serviceName    = "mapbox"
	defaultBaseURL = "https://api.mapbox.com"
	staticStyle    = "mapbox/streets-v12"
)

// Сообщения для пользователя
const (
	MsgRouteFailed   = "No se pudo calcular la ruta"
	MsgGeocodeFailed = "No se pudo obtener la dirección"
)

// Client клиент Mapbox Directions / Geocoding / Static Images
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	cache      *CacheService

	requestsMutex sync.Mutex
	requestsCount int
	requestsLimit int
	resetTime     time.Time
	pace          time.Duration
	lastRequest   time.Time
}

type Options struct {
	Token      string
	BaseURL    string
	Timeout    time.Duration
	DailyLimit int
	// Pace минимальный интервал между запросами к API
	Pace  time.Duration
	Cache *CacheService
}

// DirectionsResponse ответ Directions API (geometries=geojson)
type DirectionsResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][2]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// GeocodingResponse ответ обратного геокодирования
type GeocodingResponse struct {
	Features []struct {
		PlaceName string `json:"place_name"`
		Text      string `json:"text"`
	} `json:"features"`
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.DailyLimit <= 0 {
		opts.DailyLimit = 50000
	}
	if opts.Cache == nil {
		opts.Cache = NewCacheService(nil, 0)
	}
	return &Client{
		token:         opts.Token,
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		httpClient:    &http.Client{Timeout: opts.Timeout},
		cache:         opts.Cache,
		requestsLimit: opts.DailyLimit,
		resetTime:     time.Now().Add(24 * time.Hour),
		pace:          opts.Pace,
	}
}

// checkRateLimit проверяет дневной лимит и выдерживает интервал между запросами
func (c *Client) checkRateLimit(ctx context.Context) error {
	c.requestsMutex.Lock()
	defer c.requestsMutex.Unlock()

	if time.Now().After(c.resetTime) {
		c.requestsCount = 0
		c.resetTime = time.Now().Add(24 * time.Hour)
	}
	if c.requestsCount >= c.requestsLimit {
		return fmt.Errorf("превышен дневной лимит запросов к API Mapbox (%d)", c.requestsLimit)
	}

	if c.pace > 0 {
		if wait := c.pace - time.Since(c.lastRequest); wait > 0 {
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		c.lastRequest = time.Now()
	}

	c.requestsCount++
	return nil
}

// Directions маршрут по дорогам через все точки по порядку
func (c *Client) Directions(ctx context.Context, points []models.LatLng) (models.RouteResult, error) {
	if len(points) < 2 {
		return models.RouteResult{}, apperr.UpstreamError{Service: serviceName, Message: MsgRouteFailed, Err: fmt.Errorf("нужно минимум 2 точки, получено %d", len(points))}
	}
	start := time.Now()
	cacheKey := c.cache.RouteKey(points)

	var result models.RouteResult
	found, err := c.cache.Get(ctx, cacheKey, &result)
	if err != nil {
		log.Printf("[mapbox] ошибка при получении маршрута из кэша: %v", err)
	} else if found {
		middleware.TrackUpstreamRequest(serviceName, "directions", "200", true, time.Since(start))
		return result, nil
	}

	if err := c.checkRateLimit(ctx); err != nil {
		return models.RouteResult{}, c.fail(ctx, err, MsgRouteFailed)
	}

	coords := make([]string, len(points))
	for i, p := range points {
		coords[i] = formatLngLat(p)
	}
	params := url.Values{}
	params.Set("geometries", "geojson")
	params.Set("overview", "full")
	params.Set("access_token", c.token)
	u := fmt.Sprintf("%s/directions/v5/mapbox/driving/%s?%s", c.baseURL, strings.Join(coords, ";"), params.Encode())

	var resp DirectionsResponse
	if err := c.getJSON(ctx, u, "directions", start, &resp); err != nil {
		return models.RouteResult{}, c.fail(ctx, err, MsgRouteFailed)
	}
	if len(resp.Routes) == 0 {
		return models.RouteResult{}, apperr.UpstreamError{Service: serviceName, Message: MsgRouteFailed, Err: fmt.Errorf("маршрут не найден: %s %s", resp.Code, resp.Message)}
	}

	route := resp.Routes[0]
	minutes := int(math.Round(route.Duration / 60))
	result = models.RouteResult{
		Info: models.RouteInfo{
			DistanceKm:        math.Round(route.Distance/100) / 10,
			DurationMinutes:   minutes,
			DurationFormatted: FormatDuration(minutes),
		},
		Geometry: route.Geometry.Coordinates,
	}

	if err := c.cache.Set(ctx, cacheKey, result); err != nil {
		log.Printf("[mapbox] ошибка при сохранении маршрута в кэш: %v", err)
	}
	return result, nil
}

// ReverseGeocode адрес точки (language=es, limit=1); пустая строка, если ничего не найдено
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	start := time.Now()
	cacheKey := c.cache.GeocodeKey(lat, lng)

	var address string
	found, err := c.cache.Get(ctx, cacheKey, &address)
	if err != nil {
		log.Printf("[mapbox] ошибка при получении адреса из кэша: %v", err)
	} else if found {
		middleware.TrackUpstreamRequest(serviceName, "geocoding", "200", true, time.Since(start))
		return address, nil
	}

	if err := c.checkRateLimit(ctx); err != nil {
		return "", c.fail(ctx, err, MsgGeocodeFailed)
	}

	params := url.Values{}
	params.Set("access_token", c.token)
	params.Set("language", "es")
	params.Set("limit", "1")
	u := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?%s", c.baseURL, formatLngLat(models.LatLng{Lat: lat, Lng: lng}), params.Encode())

	var resp GeocodingResponse
	if err := c.getJSON(ctx, u, "geocoding", start, &resp); err != nil {
		return "", c.fail(ctx, err, MsgGeocodeFailed)
	}
	if len(resp.Features) > 0 {
		address = resp.Features[0].PlaceName
		if address == "" {
			address = resp.Features[0].Text
		}
	}

	if err := c.cache.Set(ctx, cacheKey, address); err != nil {
		log.Printf("[mapbox] ошибка при сохранении адреса в кэш: %v", err)
	}
	return address, nil
}

// StaticMapURL ссылка на статичную картинку с наложенной сценой (маркеры и линия маршрута)
func (c *Client) StaticMapURL(fc *geojson.FeatureCollection, width, height int) (string, error) {
	overlay, err := fc.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("ошибка при сериализации сцены: %w", err)
	}
	params := url.Values{}
	params.Set("access_token", c.token)
	return fmt.Sprintf("%s/styles/v1/%s/static/geojson(%s)/auto/%dx%d?%s",
		c.baseURL, staticStyle, url.PathEscape(string(overlay)), width, height, params.Encode()), nil
}

// Close закрывает соединение с Redis
func (c *Client) Close() error {
	return c.cache.Close()
}

func (c *Client) getJSON(ctx context.Context, u, endpoint string, start time.Time, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("ошибка при создании запроса: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		middleware.TrackUpstreamRequest(serviceName, endpoint, "error", false, time.Since(start))
		return fmt.Errorf("ошибка при выполнении запроса: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка при чтении ответа: %w", err)
	}
	middleware.TrackUpstreamRequest(serviceName, endpoint, strconv.Itoa(resp.StatusCode), false, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		log.Printf("[mapbox] %s вернул статус %d: %s", endpoint, resp.StatusCode, truncate(body, 300))
		return apperr.UpstreamError{Service: serviceName, Status: resp.StatusCode}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("ошибка при декодировании ответа: %w", err)
	}
	return nil
}

func (c *Client) fail(ctx context.Context, err error, msg string) error {
	if ctx.Err() != nil || apperr.IsSuperseded(err) {
		return apperr.ErrSuperseded
	}
	log.Printf("[mapbox] %v", err)
	var up apperr.UpstreamError
	if errors.As(err, &up) {
		up.Message = msg
		return up
	}
	return apperr.UpstreamError{Service: serviceName, Message: msg, Err: err}
}

func formatLngLat(p models.LatLng) string {
	return strconv.FormatFloat(p.Lng, 'f', 6, 64) + "," + strconv.FormatFloat(p.Lat, 'f', 6, 64)
}

// FormatDuration "45 min", "2 h", "2 h 5 min"
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%d h", h)
	}
	return fmt.Sprintf("%d h %d min", h, m)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
