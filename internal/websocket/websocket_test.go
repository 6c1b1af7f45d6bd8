package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"latribu-backend/internal/models"
	"latribu-backend/internal/services/booking"
	"latribu-backend/internal/services/trips"
)

type stubCatalog struct{}

func (stubCatalog) Load(context.Context) []models.Location {
	return []models.Location{{ID: 1, City: "Medellín", Department: "Antioquia", Active: true}}
}
func (stubCatalog) Available() bool { return true }

type stubTrips struct{}

func (stubTrips) SearchRoundTrip(context.Context, models.TripQuery) (trips.RoundTrip, error) {
	return trips.RoundTrip{Outbound: []models.Trip{}}, nil
}
func (stubTrips) Trip(context.Context, int64) (models.Trip, error) { return models.Trip{}, nil }

func newTestServer(t *testing.T) (*httptest.Server, *Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	m := NewManager()
	m.Start()
	t.Cleanup(m.Stop)

	r := gin.New()
	r.GET("/ws", Handler(m, booking.Deps{
		Catalog:  stubCatalog{},
		Trips:    stubTrips{},
		Debounce: 5 * time.Millisecond,
	}))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, m
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readType(t *testing.T, conn *websocket.Conn, typ string) map[string]interface{} {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read error waiting for %s: %v", typ, err)
		}
		var msg map[string]interface{}
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("bad json: %s", data)
		}
		if msg["type"] == typ {
			return msg
		}
	}
}

func TestPingPong(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv)

	if err := conn.WriteJSON(booking.Command{Type: booking.CmdPing}); err != nil {
		t.Fatalf("write error: %v", err)
	}
	readType(t, conn, booking.TypePong)
}

func TestSessionSuggestions(t *testing.T) {
	srv, m := newTestServer(t)
	conn := dial(t, srv)

	conn.WriteJSON(booking.Command{Type: booking.CmdInput, Field: booking.FieldOrigin, Value: "med"})
	for {
		msg := readType(t, conn, booking.TypeSuggestions)
		payload := msg["payload"].(map[string]interface{})
		if payload["field"] != "origen" {
			t.Fatalf("payload = %v", payload)
		}
		state := payload["state"].(map[string]interface{})
		items, _ := state["suggestions"].([]interface{})
		if len(items) == 0 {
			continue
		}
		if len(items) != 1 {
			t.Fatalf("suggestions = %v", items)
		}
		break
	}
	if m.Count() != 1 {
		t.Fatalf("sessions = %d", m.Count())
	}
}

func TestInvalidJSON(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv)

	conn.WriteMessage(websocket.TextMessage, []byte("{not json"))
	readType(t, conn, booking.TypeError)
}

func TestPlainHTTPRejected(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/ws")
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestSessionClosedOnDisconnect(t *testing.T) {
	srv, m := newTestServer(t)
	conn := dial(t, srv)
	conn.WriteJSON(booking.Command{Type: booking.CmdPing})
	readType(t, conn, booking.TypePong)

	conn.Close()
	deadline := time.Now().Add(time.Second)
	for m.Count() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("session not unregistered")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
