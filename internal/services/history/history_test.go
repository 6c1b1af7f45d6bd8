package history

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"latribu-backend/internal/models"
)

type memStore struct {
	mu      sync.Mutex
	enabled bool
	records []models.SearchRecord
}

func (s *memStore) Enabled() bool { return s.enabled }

func (s *memStore) Record(ctx context.Context, rec *models.SearchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, *rec)
	return nil
}

type chanForwarder struct {
	got chan models.SearchRecord
	err error
}

func (f *chanForwarder) RecordSearch(ctx context.Context, rec models.SearchRecord) error {
	f.got <- rec
	return f.err
}

func TestRecordStoresAndForwards(t *testing.T) {
	store := &memStore{enabled: true}
	fwd := &chanForwarder{got: make(chan models.SearchRecord, 1), err: errors.New("backend down")}
	r := NewRecorder(store, fwd, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	q := models.TripQuery{OriginID: 1, DestinationID: 2, OriginText: "Medellín", DestinationText: "Bogotá", Date: "2026-10-20"}
	r.Record(ctx, q, 3, "10.0.0.1")
	cancel()

	if len(store.records) != 1 || store.records[0].ResultsCount != 3 || store.records[0].ClientIP != "10.0.0.1" {
		t.Fatalf("records = %+v", store.records)
	}
	select {
	case rec := <-fwd.got:
		if rec.OriginID != 1 || rec.DepartureDate != "2026-10-20" {
			t.Fatalf("forwarded = %+v", rec)
		}
	case <-time.After(time.Second):
		t.Fatalf("search was not forwarded")
	}
}

func TestRecordSkipsDisabledStore(t *testing.T) {
	store := &memStore{}
	r := NewRecorder(store, nil, 0)
	r.Record(context.Background(), models.TripQuery{Date: "2026-10-20"}, 0, "")
	if len(store.records) != 0 {
		t.Fatalf("disabled store received %d records", len(store.records))
	}
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	r.Record(context.Background(), models.TripQuery{}, 0, "")
}
