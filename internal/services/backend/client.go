package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"latribu-backend/internal/apperr"
	"latribu-backend/internal/middleware"
	"latribu-backend/internal/models"
)

const serviceName = "backend"

// Client клиент REST API La Tribu (ubicaciones, turnos, busquedas)
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewClient создает клиент; timeout ограничивает каждый вызов
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithToken возвращает копию клиента, подписывающую запросы токеном пользователя
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// envelope бэкенд отвечает либо голым массивом/объектом, либо {data: ...}
type envelope struct {
	Data json.RawMessage `json:"data"`
}

func unwrap(body []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err == nil && len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		return env.Data
	}
	return trimmed
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload interface{}, endpoint string) (json.RawMessage, error) {
	start := time.Now()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("ошибка при сериализации запроса: %w", err)
		}
		body = bytes.NewReader(data)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("ошибка при создании запроса: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		middleware.TrackUpstreamRequest(serviceName, endpoint, "error", false, time.Since(start))
		log.Printf("[backend] %s %s: %v", method, path, err)
		return nil, apperr.UpstreamError{Service: serviceName, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.UpstreamError{Service: serviceName, Err: fmt.Errorf("ошибка при чтении ответа: %w", err)}
	}

	middleware.TrackUpstreamRequest(serviceName, endpoint, strconv.Itoa(resp.StatusCode), false, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[backend] %s %s вернул статус %d: %s", method, path, resp.StatusCode, truncate(raw, 300))
		return nil, apperr.UpstreamError{Service: serviceName, Status: resp.StatusCode}
	}
	return unwrap(raw), nil
}

func decodeList[T any](data json.RawMessage) ([]T, error) {
	out := []T{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, apperr.UpstreamError{Service: serviceName, Err: fmt.Errorf("ошибка при декодировании ответа: %w", err)}
	}
	return out, nil
}

// Locations GET /ubicaciones; записи возвращаются как есть для адаптера каталога
func (c *Client) Locations(ctx context.Context) ([]map[string]interface{}, error) {
	data, err := c.do(ctx, http.MethodGet, "/ubicaciones", nil, nil, "/ubicaciones")
	if err != nil {
		return nil, err
	}
	return decodeList[map[string]interface{}](data)
}

// SearchShifts POST /turnos/buscar по идентификаторам или по тексту
func (c *Client) SearchShifts(ctx context.Context, q models.TripQuery) ([]models.Shift, error) {
	payload := map[string]interface{}{"fecha": q.Date}
	if q.ByID() {
		payload["origenId"] = q.OriginID
		payload["destinoId"] = q.DestinationID
	} else {
		payload["origen"] = q.OriginText
		payload["destino"] = q.DestinationText
	}

	data, err := c.do(ctx, http.MethodPost, "/turnos/buscar", nil, payload, "/turnos/buscar")
	if err != nil {
		return nil, err
	}
	return decodeList[models.Shift](data)
}

// Shift GET /turnos/:id
func (c *Client) Shift(ctx context.Context, id int64) (*models.Shift, error) {
	data, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/turnos/%d", id), nil, nil, "/turnos/:id")
	if err != nil {
		return nil, err
	}
	var shift models.Shift
	if err := json.Unmarshal(data, &shift); err != nil {
		return nil, apperr.UpstreamError{Service: serviceName, Err: fmt.Errorf("ошибка при декодировании turno: %w", err)}
	}
	if shift.ID == 0 {
		shift.ID = id
	}
	return &shift, nil
}

// ShiftSeats GET /turnos/:id/asientos; ответ бывает списком pasajes или списком номеров
func (c *Client) ShiftSeats(ctx context.Context, id int64) ([]models.ShiftTicket, error) {
	data, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/turnos/%d/asientos", id), nil, nil, "/turnos/:id/asientos")
	if err != nil {
		return nil, err
	}

	if tickets, err := decodeList[models.ShiftTicket](data); err == nil {
		return tickets, nil
	}

	var values []json.RawMessage
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, apperr.UpstreamError{Service: serviceName, Err: fmt.Errorf("ошибка при декодировании asientos: %w", err)}
	}
	tickets := make([]models.ShiftTicket, 0, len(values))
	for _, v := range values {
		var n json.Number
		var s string
		switch {
		case json.Unmarshal(v, &n) == nil:
			tickets = append(tickets, models.ShiftTicket{Seat: models.SeatLabel(n.String())})
		case json.Unmarshal(v, &s) == nil:
			tickets = append(tickets, models.ShiftTicket{Seat: models.SeatLabel(s)})
		}
	}
	return tickets, nil
}

// RecordSearch POST /busquedas
func (c *Client) RecordSearch(ctx context.Context, rec models.SearchRecord) error {
	_, err := c.do(ctx, http.MethodPost, "/busquedas", nil, rec, "/busquedas")
	return err
}

// IsNotFound бэкенд вернул 404
func IsNotFound(err error) bool {
	var up apperr.UpstreamError
	return errors.As(err, &up) && up.Status == http.StatusNotFound
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
