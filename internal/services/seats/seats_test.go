package seats

import (
	"net/url"
	"testing"

	"latribu-backend/internal/models"
)

func TestGenerateSeatsLayout(t *testing.T) {
	for c := 1; c <= 20; c++ {
		seats := GenerateSeats(c, nil)
		if len(seats) != c {
			t.Fatalf("capacity %d: %d seats", c, len(seats))
		}
		drivers := 0
		for _, s := range seats {
			if s.IsDriver {
				drivers++
			}
		}
		if drivers != 1 || !seats[0].IsDriver || seats[0].ID != 1 || seats[0].Row != 1 || seats[0].Position != models.SeatLeft {
			t.Fatalf("capacity %d: bad driver seat %+v", c, seats[0])
		}
		for i := 1; i < c; i++ {
			s := seats[i]
			wantRow := (i+1)/2 + 1
			wantPos := models.SeatRight
			if i%2 == 1 {
				wantPos = models.SeatLeft
			}
			if s.ID != i+1 || s.Row != wantRow || s.Position != wantPos || s.IsDriver {
				t.Fatalf("capacity %d passenger %d = %+v", c, i, s)
			}
		}
	}
	if len(GenerateSeats(0, nil)) != 0 {
		t.Fatalf("capacity 0 produced seats")
	}
}

func TestOccupiedSeatsNeverSelectable(t *testing.T) {
	occupied := []int{1, 3, 4, 11}
	seats := GenerateSeats(11, occupied)
	for _, id := range []int{3, 4, 11} {
		if !seats[id-1].Occupied {
			t.Fatalf("seat %d not occupied", id)
		}
	}

	m := NewMap()
	m.Open(models.Trip{ID: 1, Price: 1000, Vehicle: models.TripVehicle{Capacity: 11}, OccupiedSeats: occupied})
	for _, id := range append(occupied, 0, 12, -1) {
		if m.Toggle(id) {
			t.Fatalf("seat %d toggled", id)
		}
	}
	if len(m.Selected()) != 0 || m.TotalPrice() != 0 {
		t.Fatalf("selection not empty")
	}
}

func TestToggleAndTotal(t *testing.T) {
	m := NewMap()
	m.Open(models.Trip{ID: 1, Price: 45000, Vehicle: models.TripVehicle{Capacity: 5}})

	m.Toggle(2)
	m.Toggle(5)
	if got := m.TotalPrice(); got != 90000 {
		t.Fatalf("total = %v", got)
	}
	m.Toggle(2)
	sel := m.Selected()
	if len(sel) != 1 || sel[0] != 5 || m.TotalPrice() != Total(1, 45000) {
		t.Fatalf("selected = %v", sel)
	}
}

func TestReopenForDifferentTripResetsSelection(t *testing.T) {
	m := NewMap()
	a := models.Trip{ID: 1, Price: 10, Vehicle: models.TripVehicle{Capacity: 5}}
	b := models.Trip{ID: 2, Price: 20, Vehicle: models.TripVehicle{Capacity: 5}}

	m.Open(a)
	m.Toggle(3)
	m.Open(b)
	if len(m.Selected()) != 0 {
		t.Fatalf("selection survived trip change")
	}

	m.Toggle(4)
	m.Close()
	if m.Toggle(2) {
		t.Fatalf("toggle on closed map")
	}
	m.Open(b)
	if len(m.Selected()) != 0 {
		t.Fatalf("selection survived close")
	}
}

func TestOpenSameTripReusesLayout(t *testing.T) {
	m := NewMap()
	trip := models.Trip{ID: 1, Vehicle: models.TripVehicle{Capacity: 5}, OccupiedSeats: []int{2}}
	first := m.Open(trip)
	m.Toggle(3)
	second := m.Open(trip)
	if len(first) != len(second) || len(m.Selected()) != 1 {
		t.Fatalf("layout or selection changed on reopen")
	}

	trip.OccupiedSeats = []int{2, 3}
	seats := m.Open(trip)
	if !seats[2].Occupied || len(m.Selected()) != 0 {
		t.Fatalf("newly occupied seat kept in selection: %v", m.Selected())
	}
}

func TestHandoff(t *testing.T) {
	cfg := HandoffConfig{CheckoutURL: "https://latribu.co/checkout", LoginURL: "https://latribu.co/login"}
	trip := models.Trip{ID: 7, Date: "2026-10-19", Price: 50000}

	h := Handoff(cfg, trip, []int{2, 5}, true)
	u, err := url.Parse(h.URL)
	if err != nil || h.RequiresLogin {
		t.Fatalf("handoff = %+v", h)
	}
	q := u.Query()
	if q.Get("turno") != "7" || q.Get("asientos") != "2,5" || q.Get("total") != "100000" {
		t.Fatalf("checkout query = %v", q)
	}

	h = Handoff(cfg, trip, []int{2}, false)
	u, _ = url.Parse(h.URL)
	if !h.RequiresLogin || u.Path != "/login" {
		t.Fatalf("login handoff = %+v", h)
	}
	redirect, err := url.Parse(u.Query().Get("redirect"))
	if err != nil || redirect.Path != "/checkout" || redirect.Query().Get("asientos") != "2" {
		t.Fatalf("redirect = %v", redirect)
	}
}
