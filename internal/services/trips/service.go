package trips

import (
	"context"
	"errors"
	"log"
	"net/http"

	"golang.org/x/sync/errgroup"

	"latribu-backend/internal/apperr"
	"latribu-backend/internal/async"
	"latribu-backend/internal/models"
	"latribu-backend/internal/services/backend"
)

// Сообщения для пользователя
const (
	MsgLoadFailed   = "No se pudieron cargar los viajes"
	MsgSeatsFailed  = "No se pudo cargar el mapa de asientos"
	MsgTripNotFound = "El viaje no existe"
	serviceName     = "trips"
)

// Backend часть REST клиента, нужная поиску
type Backend interface {
	SearchShifts(ctx context.Context, q models.TripQuery) ([]models.Shift, error)
	Shift(ctx context.Context, id int64) (*models.Shift, error)
	ShiftSeats(ctx context.Context, id int64) ([]models.ShiftTicket, error)
}

type Service struct {
	backend   Backend
	estimator DurationEstimator
}

func NewService(b Backend, est DurationEstimator) *Service {
	return &Service{backend: b, estimator: est}
}

// RoundTrip результаты туда и обратно
type RoundTrip struct {
	Outbound []models.Trip `json:"trips"`
	Return   []models.Trip `json:"returnTrips,omitempty"`
}

// Search ищет поездки. При ошибке возвращается пустой список и ошибка с сообщением
// для пользователя; повторов нет. Отмененный запрос дает apperr.ErrSuperseded.
func (s *Service) Search(ctx context.Context, q models.TripQuery) ([]models.Trip, error) {
	shifts, err := s.backend.SearchShifts(ctx, q)
	if err != nil {
		return []models.Trip{}, s.wrap(ctx, err, MsgLoadFailed)
	}

	trips := make([]models.Trip, 0, len(shifts))
	for _, sh := range shifts {
		trips = append(trips, MapShift(sh, s.estimator))
	}
	mode := "texto"
	if q.ByID() {
		mode = "id"
	}
	log.Printf("[trips] найдено %d turnos (%s, fecha %s)", len(trips), mode, q.Date)
	return trips, nil
}

// SearchRoundTrip ищет рейс туда и, если задана дата возврата, обратно, параллельно
func (s *Service) SearchRoundTrip(ctx context.Context, q models.TripQuery) (RoundTrip, error) {
	res := RoundTrip{Outbound: []models.Trip{}}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		trips, err := s.Search(gctx, q)
		res.Outbound = trips
		return err
	})
	if q.ReturnDate != "" {
		res.Return = []models.Trip{}
		g.Go(func() error {
			trips, err := s.Search(gctx, q.Reversed())
			res.Return = trips
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return res, err
	}
	return res, nil
}

// Trip одна поездка с занятыми местами из /turnos/:id/asientos
func (s *Service) Trip(ctx context.Context, id int64) (models.Trip, error) {
	shift, err := s.backend.Shift(ctx, id)
	if err != nil {
		if backend.IsNotFound(err) {
			return models.Trip{}, apperr.UpstreamError{Service: serviceName, Status: http.StatusNotFound, Message: MsgTripNotFound, Err: err}
		}
		return models.Trip{}, s.wrap(ctx, err, MsgSeatsFailed)
	}

	tickets, err := s.backend.ShiftSeats(ctx, id)
	switch {
	case err == nil:
		shift.Tickets = append(shift.Tickets, tickets...)
	case backend.IsNotFound(err):
		// старые версии бэкенда без /asientos: хватает pasajes из turno
	default:
		return models.Trip{}, s.wrap(ctx, err, MsgSeatsFailed)
	}
	return MapShift(*shift, s.estimator), nil
}

// Details загружает turnos пачками по async.DefaultChunkSize параллельных запросов
func (s *Service) Details(ctx context.Context, ids []int64) ([]*models.Shift, []error) {
	return async.Chunked(ctx, ids, async.DefaultChunkSize, s.backend.Shift)
}

// Revenue выручка по проданным местам; turnos, которые не удалось загрузить, перечисляются в Failed
func (s *Service) Revenue(ctx context.Context, ids []int64) models.RevenueSummary {
	shifts, errs := s.Details(ctx, ids)

	var sum models.RevenueSummary
	for i, sh := range shifts {
		if errs[i] != nil || sh == nil {
			if !apperr.IsSuperseded(errs[i]) {
				log.Printf("[trips] не удалось загрузить turno %d: %v", ids[i], errs[i])
			}
			sum.Failed = append(sum.Failed, ids[i])
			continue
		}
		trip := MapShift(*sh, nil)
		sold := len(trip.OccupiedSeats)
		sum.Shifts++
		sum.SeatsSold += sold
		sum.Revenue += float64(sold) * trip.Price
	}
	return sum
}

func (s *Service) wrap(ctx context.Context, err error, msg string) error {
	if ctx.Err() != nil || apperr.IsSuperseded(err) {
		return apperr.ErrSuperseded
	}
	var up apperr.UpstreamError
	if errors.As(err, &up) {
		up.Message = msg
		log.Printf("[trips] %v", up)
		return up
	}
	log.Printf("[trips] %v", err)
	return apperr.UpstreamError{Service: serviceName, Message: msg, Err: err}
}
