package trips

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"latribu-backend/internal/apperr"
	"latribu-backend/internal/models"
)

type fakeBackend struct {
	mu       sync.Mutex
	queries  []models.TripQuery
	shifts   map[string][]models.Shift
	byID     map[int64]*models.Shift
	seats    map[int64][]models.ShiftTicket
	err      error
	seatsErr error
	delay    time.Duration

	inFlight, maxInFlight int32
}

func (f *fakeBackend) SearchShifts(ctx context.Context, q models.TripQuery) ([]models.Shift, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.shifts[q.Date], nil
}

func (f *fakeBackend) Shift(ctx context.Context, id int64) (*models.Shift, error) {
	n := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		max := atomic.LoadInt32(&f.maxInFlight)
		if n <= max || atomic.CompareAndSwapInt32(&f.maxInFlight, max, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	sh, ok := f.byID[id]
	if !ok {
		return nil, apperr.UpstreamError{Service: "backend", Status: 404}
	}
	cp := *sh
	return &cp, nil
}

func (f *fakeBackend) ShiftSeats(ctx context.Context, id int64) ([]models.ShiftTicket, error) {
	if f.seatsErr != nil {
		return nil, f.seatsErr
	}
	return f.seats[id], nil
}

type fixedEstimator int

func (e fixedEstimator) Duration(models.Shift) (int, bool) { return int(e), e > 0 }

func sampleShift() models.Shift {
	return models.Shift{
		ID:             7,
		Date:           "2026-10-19T00:00:00.000Z",
		Hour:           "14:30",
		Price:          50000,
		AvailableSeats: 3,
		Category:       "Preferencial",
		Vehicle:        models.ShiftVehicle{Plate: "ABC123", Brand: "Toyota", Model: "Hiace", PassengerCapacity: 10},
		Driver:         models.ShiftDriver{FirstName: "Ana", LastName: "Pérez"},
		Route: models.ShiftRoute{
			Origin:      models.ShiftLocation{City: "Pasto", Terminal: "Terminal Pasto"},
			Destination: models.ShiftLocation{City: "Ipiales"},
		},
		Tickets: []models.ShiftTicket{
			{Seat: "3"}, {Seat: "A1"}, {Seat: "5", Status: "Cancelado"}, {Seat: " 2 "}, {Seat: "3"},
		},
	}
}

func TestNormalizeHoraDisplay(t *testing.T) {
	cases := map[string]string{
		"14:30":       "2:30 PM",
		"4:00 AM":     "4:00 AM",
		"00:05":       "12:05 AM",
		"12:00":       "12:00 PM",
		"12:15 am":    "12:15 AM",
		"07:45:00":    "7:45 AM",
		"9:10 p.m.":   "9:10 PM",
		"por definir": "por definir",
	}
	for in, want := range cases {
		if got := NormalizeHoraDisplay(in); got != want {
			t.Errorf("NormalizeHoraDisplay(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseClockRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "25:00", "13:00 PM", "0:30 AM", "10:7", "10:60", "abc", "10"} {
		if _, ok := ParseClock(in); ok {
			t.Errorf("ParseClock(%q) accepted", in)
		}
	}
}

func TestIconFor(t *testing.T) {
	cases := map[string]string{
		"00:00":    IconDawn,
		"5:59 AM":  IconDawn,
		"06:00":    IconMorning,
		"11:59":    IconMorning,
		"12:00":    IconAfternoon,
		"5:59 PM":  IconAfternoon,
		"18:00":    IconEvening,
		"11:59 PM": IconEvening,
		"??":       IconUnknown,
	}
	for in, want := range cases {
		if got := IconFor(in); got != want {
			t.Errorf("IconFor(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClassifyBoundaries(t *testing.T) {
	cases := map[string]Franja{
		"5:59 AM":  FranjaMadrugada,
		"6:00 AM":  FranjaManana,
		"11:59":    FranjaManana,
		"12:00":    FranjaTarde,
		"17:59":    FranjaTarde,
		"18:00":    FranjaNoche,
		"23:59":    FranjaNoche,
		"00:00":    FranjaMadrugada,
		"sin hora": FranjaTodos,
	}
	for in, want := range cases {
		if got := Classify(models.Trip{DepartureTime: in}); got != want {
			t.Errorf("Classify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFilterByFranjaFailsOpen(t *testing.T) {
	list := []models.Trip{
		{ID: 1, DepartureTime: "7:00 AM"},
		{ID: 2, DepartureTime: "8:00 PM"},
		{ID: 3, DepartureTime: "pendiente"},
	}
	got := FilterByFranja(list, FranjaNoche)
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 3 {
		t.Fatalf("noche = %+v", got)
	}
	if got := FilterByFranja(list, FranjaTodos); len(got) != 3 {
		t.Fatalf("todos = %+v", got)
	}
}

func TestParseFranja(t *testing.T) {
	if f, ok := ParseFranja("Mañana"); !ok || f != FranjaManana {
		t.Fatalf("ParseFranja(Mañana) = %q, %v", f, ok)
	}
	if f, ok := ParseFranja(""); !ok || f != FranjaTodos {
		t.Fatalf("empty franja = %q, %v", f, ok)
	}
	if _, ok := ParseFranja("mediodia"); ok {
		t.Fatalf("unknown franja accepted")
	}
}

func TestMapShift(t *testing.T) {
	trip := MapShift(sampleShift(), nil)

	if trip.DepartureTime != "2:30 PM" || trip.ArrivalTime != "2:30 PM" {
		t.Fatalf("times = %s / %s", trip.DepartureTime, trip.ArrivalTime)
	}
	if trip.Date != "2026-10-19" {
		t.Fatalf("date = %s", trip.Date)
	}
	if trip.PreviousPrice != 60000 {
		t.Fatalf("previousPrice = %v", trip.PreviousPrice)
	}
	if trip.Vehicle.Capacity != 11 || trip.Vehicle.Model != "Toyota Hiace" {
		t.Fatalf("vehicle = %+v", trip.Vehicle)
	}
	if len(trip.OccupiedSeats) != 2 || trip.OccupiedSeats[0] != 2 || trip.OccupiedSeats[1] != 3 {
		t.Fatalf("occupied = %v", trip.OccupiedSeats)
	}
	if !trip.Available || trip.Driver != "Ana Pérez" || trip.Icon != IconAfternoon {
		t.Fatalf("trip = %+v", trip)
	}
	if trip.OriginTerminal != "Terminal Pasto" || trip.DestinationTerminal != "Ipiales" {
		t.Fatalf("terminals = %s / %s", trip.OriginTerminal, trip.DestinationTerminal)
	}
}

func TestMapShiftArrivalFromDuration(t *testing.T) {
	s := sampleShift()
	s.Hour = "22:30"
	trip := MapShift(s, fixedEstimator(150))
	if trip.ArrivalTime != "1:00 AM" {
		t.Fatalf("arrival = %s", trip.ArrivalTime)
	}
}

func TestMapShiftUnavailable(t *testing.T) {
	s := sampleShift()
	s.AvailableSeats = 0
	s.Price = 0
	s.Route.BasePrice = 42000
	trip := MapShift(s, nil)
	if trip.Available || trip.Price != 42000 {
		t.Fatalf("trip = %+v", trip)
	}
}

func TestSearchMapsShifts(t *testing.T) {
	fb := &fakeBackend{shifts: map[string][]models.Shift{"2026-10-19": {sampleShift()}}}
	svc := NewService(fb, nil)

	trips, err := svc.Search(context.Background(), models.TripQuery{OriginID: 1, DestinationID: 2, Date: "2026-10-19"})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(trips) != 1 || trips[0].ID != 7 {
		t.Fatalf("trips = %+v", trips)
	}
}

func TestSearchFailureReturnsEmptyListAndMessage(t *testing.T) {
	fb := &fakeBackend{err: apperr.UpstreamError{Service: "backend", Status: 500}}
	trips, err := NewService(fb, nil).Search(context.Background(), models.TripQuery{Date: "2026-10-19"})
	if trips == nil || len(trips) != 0 {
		t.Fatalf("expected empty list, got %v", trips)
	}
	if apperr.UserMessage(err, "") != MsgLoadFailed {
		t.Fatalf("err = %v", err)
	}
	if len(fb.queries) != 1 {
		t.Fatalf("retried %d times", len(fb.queries))
	}
}

func TestSearchCancelledIsSuperseded(t *testing.T) {
	fb := &fakeBackend{delay: time.Second}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewService(fb, nil).Search(ctx, models.TripQuery{})
	if !errors.Is(err, apperr.ErrSuperseded) {
		t.Fatalf("err = %v", err)
	}
}

func TestSearchRoundTrip(t *testing.T) {
	fb := &fakeBackend{shifts: map[string][]models.Shift{
		"2026-10-19": {sampleShift()},
		"2026-10-22": {sampleShift(), sampleShift()},
	}}
	q := models.TripQuery{OriginID: 1, DestinationID: 2, Date: "2026-10-19", ReturnDate: "2026-10-22"}
	res, err := NewService(fb, nil).SearchRoundTrip(context.Background(), q)
	if err != nil {
		t.Fatalf("round trip error: %v", err)
	}
	if len(res.Outbound) != 1 || len(res.Return) != 2 {
		t.Fatalf("result = %d / %d", len(res.Outbound), len(res.Return))
	}
	for _, sent := range fb.queries {
		if sent.Date == "2026-10-22" && (sent.OriginID != 2 || sent.DestinationID != 1) {
			t.Fatalf("return leg not reversed: %+v", sent)
		}
	}
}

func TestTripMergesSeats(t *testing.T) {
	sh := sampleShift()
	fb := &fakeBackend{
		byID:  map[int64]*models.Shift{7: &sh},
		seats: map[int64][]models.ShiftTicket{7: {{Seat: "9"}}},
	}
	trip, err := NewService(fb, nil).Trip(context.Background(), 7)
	if err != nil {
		t.Fatalf("trip error: %v", err)
	}
	if len(trip.OccupiedSeats) != 3 || trip.OccupiedSeats[2] != 9 {
		t.Fatalf("occupied = %v", trip.OccupiedSeats)
	}
}

func TestTripNotFound(t *testing.T) {
	_, err := NewService(&fakeBackend{}, nil).Trip(context.Background(), 99)
	if apperr.UserMessage(err, "") != MsgTripNotFound {
		t.Fatalf("err = %v", err)
	}
}

func TestRevenueChunksAndReportsFailures(t *testing.T) {
	byID := map[int64]*models.Shift{}
	ids := []int64{}
	for i := int64(1); i <= 13; i++ {
		sh := sampleShift()
		sh.ID = i
		byID[i] = &sh
		ids = append(ids, i)
	}
	ids = append(ids, 404)
	fb := &fakeBackend{byID: byID}

	sum := NewService(fb, nil).Revenue(context.Background(), ids)
	if sum.Shifts != 13 || sum.SeatsSold != 26 || sum.Revenue != 26*50000 {
		t.Fatalf("summary = %+v", sum)
	}
	if len(sum.Failed) != 1 || sum.Failed[0] != 404 {
		t.Fatalf("failed = %v", sum.Failed)
	}
	if fb.maxInFlight > 6 {
		t.Fatalf("max concurrency = %d", fb.maxInFlight)
	}
}
