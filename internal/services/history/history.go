package history

import (
	"context"
	"log"
	"time"

	"latribu-backend/internal/models"
)

// Store локальное хранилище истории (Postgres)
type Store interface {
	Enabled() bool
	Record(ctx context.Context, rec *models.SearchRecord) error
}

// Forwarder отправка истории в бэкенд La Tribu (POST /busquedas)
type Forwarder interface {
	RecordSearch(ctx context.Context, rec models.SearchRecord) error
}

// Recorder пишет историю локально и дублирует в бэкенд без ожидания.
// Ошибки только логируются: история не должна ломать поиск.
type Recorder struct {
	store   Store
	forward Forwarder
	timeout time.Duration
}

func NewRecorder(store Store, forward Forwarder, timeout time.Duration) *Recorder {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Recorder{store: store, forward: forward, timeout: timeout}
}

// NewRecord собирает запись из запроса поиска
func NewRecord(q models.TripQuery, results int, clientIP string) models.SearchRecord {
	return models.SearchRecord{
		OriginText:      q.OriginText,
		OriginID:        q.OriginID,
		DestinationText: q.DestinationText,
		DestinationID:   q.DestinationID,
		DepartureDate:   q.Date,
		ReturnDate:      q.ReturnDate,
		ResultsCount:    results,
		ClientIP:        clientIP,
	}
}

// Record сохраняет поиск. Локальная запись синхронная, пересылка в бэкенд в фоне
// и не зависит от отмены ctx вызывающего.
func (r *Recorder) Record(ctx context.Context, q models.TripQuery, results int, clientIP string) {
	if r == nil {
		return
	}
	rec := NewRecord(q, results, clientIP)

	if r.store != nil && r.store.Enabled() {
		if err := r.store.Record(ctx, &rec); err != nil {
			log.Printf("[history] %v", err)
		}
	}

	if r.forward == nil {
		return
	}
	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	go func() {
		defer cancel()
		if err := r.forward.RecordSearch(fctx, rec); err != nil {
			log.Printf("[history] не удалось отправить поиск в бэкенд: %v", err)
		}
	}()
}
