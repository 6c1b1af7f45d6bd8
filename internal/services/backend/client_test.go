package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"latribu-backend/internal/apperr"
	"latribu-backend/internal/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second)
}

func TestLocationsAcceptsBareArrayAndEnvelope(t *testing.T) {
	bodies := []string{
		`[{"idUbicacion":1,"ciudad":"Medellín"}]`,
		`{"data":[{"idUbicacion":1,"ciudad":"Medellín"}]}`,
	}
	for _, body := range bodies {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/ubicaciones" {
				t.Errorf("path = %s", r.URL.Path)
			}
			w.Write([]byte(body))
		})
		locs, err := c.Locations(context.Background())
		if err != nil {
			t.Fatalf("Locations(%s) error: %v", body, err)
		}
		if len(locs) != 1 || locs[0]["ciudad"] != "Medellín" {
			t.Fatalf("Locations(%s) = %v", body, locs)
		}
	}
}

func TestSearchShiftsPrefersIDs(t *testing.T) {
	var got map[string]interface{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/turnos/buscar" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"data":[{"idTurno":7,"hora":"14:30","precio":45000,"cuposDisponibles":3}]}`))
	})

	shifts, err := c.SearchShifts(context.Background(), models.TripQuery{
		OriginID: 1, DestinationID: 2, OriginText: "Medellín", DestinationText: "Bogotá", Date: "2026-10-20",
	})
	if err != nil {
		t.Fatalf("SearchShifts error: %v", err)
	}
	if len(shifts) != 1 || shifts[0].ID != 7 || shifts[0].Price != 45000 {
		t.Fatalf("shifts = %+v", shifts)
	}
	if got["origenId"] != float64(1) || got["destinoId"] != float64(2) {
		t.Fatalf("payload = %v", got)
	}
	if _, ok := got["origen"]; ok {
		t.Fatalf("text fields must not be sent in id mode: %v", got)
	}
}

func TestSearchShiftsTextMode(t *testing.T) {
	var got map[string]interface{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`[]`))
	})
	shifts, err := c.SearchShifts(context.Background(), models.TripQuery{OriginText: "Cali", DestinationText: "Pasto", Date: "2026-10-20"})
	if err != nil || shifts == nil || len(shifts) != 0 {
		t.Fatalf("shifts = %v, err = %v", shifts, err)
	}
	if got["origen"] != "Cali" || got["destino"] != "Pasto" || got["fecha"] != "2026-10-20" {
		t.Fatalf("payload = %v", got)
	}
}

func TestNon2xxBecomesUpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})
	_, err := c.Shift(context.Background(), 9)
	if !apperr.IsUpstream(err) || !IsNotFound(err) {
		t.Fatalf("err = %v", err)
	}
}

func TestShiftSeatsAcceptsNumbersAndTickets(t *testing.T) {
	for body, want := range map[string]int{
		`[2, "3", "A1"]`: 3,
		`{"data":[{"asiento":"4"},{"asiento":"5"}]}`: 2,
		`[{"idPasaje":7,"asiento":6}]`:               1,
	} {
		body := body
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})
		tickets, err := c.ShiftSeats(context.Background(), 1)
		if err != nil {
			t.Fatalf("ShiftSeats(%s) error: %v", body, err)
		}
		if len(tickets) != want {
			t.Fatalf("ShiftSeats(%s) = %+v", body, tickets)
		}
	}
}

func TestCancelledContextIsNotUpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.Write([]byte(`[]`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Locations(ctx)
	if !apperr.IsSuperseded(err) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
