package mapbox

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"latribu-backend/internal/apperr"
	"latribu-backend/internal/async"
	"latribu-backend/internal/cache"
	"latribu-backend/internal/models"
)

// ErrUnmounted рендерер уже закрыт
var ErrUnmounted = errors.New("рендерер маршрута закрыт")

// DirectionsSource источник маршрутов
type DirectionsSource interface {
	Directions(ctx context.Context, points []models.LatLng) (models.RouteResult, error)
}

// Renderer рисует маркеры и маршрут на Surface и сообщает расстояние и время через onInfo.
// В каждый момент у рендерера не больше одного запроса маршрута: новый отменяет предыдущий.
type Renderer struct {
	source    DirectionsSource
	store     cache.Store[models.RouteResult]
	surface   Surface
	onInfo    func(models.RouteInfo)
	latest    async.Latest
	unmounted atomic.Bool

	// рисует только последний начатый Render
	drawMu sync.Mutex
	ticket atomic.Uint64
}

func NewRenderer(source DirectionsSource, store cache.Store[models.RouteResult], surface Surface, onInfo func(models.RouteInfo)) *Renderer {
	return &Renderer{source: source, store: store, surface: surface, onInfo: onInfo}
}

// Render ставит маркеры, берет маршрут из кэша или из API и рисует его
func (r *Renderer) Render(ctx context.Context, req models.RouteRequest) (models.RouteResult, error) {
	if r.unmounted.Load() {
		return models.RouteResult{}, ErrUnmounted
	}

	ticket := r.ticket.Add(1)
	markers := markersFor(req)
	r.apply(func(s Surface) { s.SetMarkers(markers) })

	points := req.Points()
	key := RouteKey(points)
	if res, ok := r.store.Get(key); ok {
		// незавершенный старый запрос не должен перерисовать карту
		r.latest.Cancel()
		if !r.draw(ticket, res, markers) {
			return models.RouteResult{}, apperr.ErrSuperseded
		}
		return res, nil
	}

	res, err := async.Run(&r.latest, ctx, func(ctx context.Context) (models.RouteResult, error) {
		return r.source.Directions(ctx, points)
	})
	if err != nil {
		if apperr.IsSuperseded(err) {
			return models.RouteResult{}, apperr.ErrSuperseded
		}
		r.apply(func(s Surface) { s.ClearRoute() })
		return models.RouteResult{}, err
	}

	r.store.Set(key, res)
	if !r.draw(ticket, res, markers) {
		return models.RouteResult{}, apperr.ErrSuperseded
	}
	return res, nil
}

// Close после закрытия ни один вызов Surface и onInfo не выполняется
func (r *Renderer) Close() {
	r.unmounted.Store(true)
	r.latest.Cancel()
}

// draw false, если после этого Render уже начат более новый
func (r *Renderer) draw(ticket uint64, res models.RouteResult, markers []Marker) bool {
	r.drawMu.Lock()
	defer r.drawMu.Unlock()
	if r.ticket.Load() != ticket {
		return false
	}
	r.apply(func(s Surface) { s.DrawRoute(res.Geometry) })
	r.apply(func(s Surface) { s.FitBounds(boundFor(res.Geometry, markers)) })
	if r.onInfo != nil && !r.unmounted.Load() {
		r.onInfo(res.Info)
	}
	return true
}

func (r *Renderer) apply(fn func(Surface)) {
	if r.surface == nil || r.unmounted.Load() {
		return
	}
	fn(r.surface)
}
