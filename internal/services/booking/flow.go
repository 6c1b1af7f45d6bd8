package booking

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"latribu-backend/internal/apperr"
	"latribu-backend/internal/async"
	"latribu-backend/internal/cache"
	"latribu-backend/internal/models"
	"latribu-backend/internal/services/autocomplete"
	"latribu-backend/internal/services/mapbox"
	"latribu-backend/internal/services/search"
	"latribu-backend/internal/services/seats"
	"latribu-backend/internal/services/trips"
)

const msgNoSeats = "Selecciona al menos un asiento"

// Catalog каталог локаций для подсказок и режима проверки формы
type Catalog interface {
	Load(ctx context.Context) []models.Location
	Available() bool
}

// TripSearcher поиск поездок
type TripSearcher interface {
	SearchRoundTrip(ctx context.Context, q models.TripQuery) (trips.RoundTrip, error)
	Trip(ctx context.Context, id int64) (models.Trip, error)
}

// Deps общие для всех сессий зависимости
type Deps struct {
	Catalog    Catalog
	Trips      TripSearcher
	Directions mapbox.DirectionsSource
	RouteStore cache.Store[models.RouteResult]
	Handoff    seats.HandoffConfig
	Debounce   time.Duration
	BlurGrace  time.Duration
	Now        func() time.Time
	// OnSearch вызывается после успешного поиска (история)
	OnSearch func(q models.TripQuery, results int)
}

// Flow сценарий бронирования одной сессии: подсказки, форма, поиск, места, маршрут.
// Не зависит от транспорта: команды приходят в Handle, ответы уходят в send.
type Flow struct {
	deps          Deps
	send          func(Message)
	authenticated bool

	ctx    context.Context
	cancel context.CancelFunc
	closed atomic.Bool

	origin      *autocomplete.Session
	destination *autocomplete.Session
	form        *search.Form
	seatMap     *seats.Map
	scene       *mapbox.Scene
	renderer    *mapbox.Renderer

	searches async.Latest
	seatLoad async.Latest

	mu      sync.Mutex
	results trips.RoundTrip
	franja  trips.Franja
	lastErr string
}

func NewFlow(ctx context.Context, deps Deps, authenticated bool, send func(Message)) *Flow {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.RouteStore == nil {
		deps.RouteStore = cache.New[models.RouteResult](100, cache.PolicyFIFO)
	}
	ctx, cancel := context.WithCancel(ctx)

	f := &Flow{
		deps:          deps,
		send:          send,
		authenticated: authenticated,
		ctx:           ctx,
		cancel:        cancel,
		form:          search.NewForm(deps.Now()),
		seatMap:       seats.NewMap(),
		scene:         mapbox.NewScene(),
		franja:        trips.FranjaTodos,
	}

	source := func() []autocomplete.Suggestion {
		return autocomplete.Source(deps.Catalog.Load(f.ctx))
	}
	f.origin = autocomplete.NewSession(source, autocomplete.Options{
		Debounce:  deps.Debounce,
		BlurGrace: deps.BlurGrace,
		OnChange:  f.suggestionsSender(FieldOrigin),
		OnSelect: func(s autocomplete.Suggestion) {
			f.form.SelectOrigin(s.ID, s.City)
			f.sendForm()
		},
	})
	f.destination = autocomplete.NewSession(source, autocomplete.Options{
		Debounce:  deps.Debounce,
		BlurGrace: deps.BlurGrace,
		OnChange:  f.suggestionsSender(FieldDestination),
		OnSelect: func(s autocomplete.Suggestion) {
			f.form.SelectDestination(s.ID, s.City)
			f.sendForm()
		},
	})

	if deps.Directions != nil {
		f.renderer = mapbox.NewRenderer(deps.Directions, deps.RouteStore, f.scene, func(info models.RouteInfo) {
			f.emit(TypeRouteInfo, map[string]interface{}{"info": info, "scene": f.scene})
		})
	}
	return f
}

// Handle выполняет команду клиента. Поиск, загрузка мест и маршрут идут в фоне,
// чтобы следующая команда могла отменить незавершенный запрос.
func (f *Flow) Handle(cmd Command) {
	if f.closed.Load() {
		return
	}

	switch cmd.Type {
	case CmdPing:
		f.emit(TypePong, map[string]int64{"time": f.deps.Now().Unix()})

	case CmdInput:
		session, ok := f.session(cmd.Field)
		if !ok {
			return
		}
		if cmd.Field == FieldOrigin {
			f.form.SetOrigin(cmd.Value)
		} else {
			f.form.SetDestination(cmd.Value)
		}
		session.Input(cmd.Value)

	case CmdKey:
		if session, ok := f.session(cmd.Field); ok {
			session.Key(autocomplete.Key(cmd.Key))
		}

	case CmdFocus:
		if session, ok := f.session(cmd.Field); ok {
			session.Focus()
		}

	case CmdBlur:
		if session, ok := f.session(cmd.Field); ok {
			session.Blur()
		}

	case CmdSelect:
		if session, ok := f.session(cmd.Field); ok {
			session.SelectIndex(cmd.Index)
		}

	case CmdSwap:
		f.form.Swap()
		c := f.form.Criteria()
		f.origin.SetValue(c.OriginText)
		f.destination.SetValue(c.DestinationText)
		f.sendForm()

	case CmdDate:
		f.form.SetDate(cmd.Value)
		f.sendForm()

	case CmdQuickDate:
		f.form.QuickDate(f.deps.Now(), cmd.Days)
		f.sendForm()

	case CmdReturnDate:
		f.form.SetReturnDate(cmd.Value)
		f.sendForm()

	case CmdSubmit:
		f.submit()

	case CmdFilter:
		franja, ok := trips.ParseFranja(cmd.Franja)
		if !ok {
			f.emitError("Filtro de horario desconocido")
			return
		}
		f.mu.Lock()
		f.franja = franja
		f.mu.Unlock()
		f.sendResults()

	case CmdOpenSeats:
		go f.openSeats(cmd.TripID)

	case CmdToggleSeat:
		if f.seatMap.Toggle(cmd.Seat) {
			f.sendSeatMap()
		}

	case CmdCloseSeats:
		f.seatLoad.Cancel()
		f.seatMap.Close()
		f.sendSeatMap()

	case CmdCheckout:
		f.checkout()

	case CmdRoute:
		if cmd.Route == nil || f.renderer == nil {
			f.emitError(mapbox.MsgRouteFailed)
			return
		}
		go f.route(*cmd.Route)

	default:
		log.Printf("[booking] неизвестная команда %q", cmd.Type)
	}
}

// Close останавливает таймеры и фоновые запросы; после него ничего не отправляется
func (f *Flow) Close() {
	if f.closed.Swap(true) {
		return
	}
	// сначала прерываем сетевые вызовы, чтобы закрытие сессий не ждало бэкенд
	f.cancel()
	f.origin.Close()
	f.destination.Close()
	f.searches.Cancel()
	f.seatLoad.Cancel()
	if f.renderer != nil {
		f.renderer.Close()
	}
}

// Criteria текущее состояние формы
func (f *Flow) Criteria() models.SearchCriteria {
	return f.form.Criteria()
}

func (f *Flow) submit() {
	q, err := f.form.Submit(f.deps.Catalog.Available(), f.deps.Now())
	if err != nil {
		var verr apperr.ValidationError
		if errors.As(err, &verr) {
			f.emit(TypeValidationErrors, verr.Fields)
		}
		return
	}
	go f.search(q)
}

func (f *Flow) search(q models.TripQuery) {
	res, err := async.Run(&f.searches, f.ctx, func(ctx context.Context) (trips.RoundTrip, error) {
		return f.deps.Trips.SearchRoundTrip(ctx, q)
	})
	if apperr.IsSuperseded(err) {
		return
	}

	f.mu.Lock()
	f.results = res
	f.lastErr = ""
	if err != nil {
		f.lastErr = apperr.UserMessage(err, trips.MsgLoadFailed)
	}
	f.mu.Unlock()

	if err == nil && f.deps.OnSearch != nil {
		f.deps.OnSearch(q, len(res.Outbound))
	}
	f.sendResults()
}

func (f *Flow) openSeats(id int64) {
	trip, ok := f.findTrip(id)
	if !ok {
		var err error
		trip, err = async.Run(&f.seatLoad, f.ctx, func(ctx context.Context) (models.Trip, error) {
			return f.deps.Trips.Trip(ctx, id)
		})
		if apperr.IsSuperseded(err) {
			return
		}
		if err != nil {
			f.emitError(apperr.UserMessage(err, trips.MsgSeatsFailed))
			return
		}
	}
	f.seatMap.Open(trip)
	f.sendSeatMap()
}

func (f *Flow) checkout() {
	selected := f.seatMap.Selected()
	if !f.seatMap.IsOpen() || len(selected) == 0 {
		f.emitError(msgNoSeats)
		return
	}
	f.emit(TypeCheckout, seats.Handoff(f.deps.Handoff, f.seatMap.Trip(), selected, f.authenticated))
}

func (f *Flow) route(req models.RouteRequest) {
	_, err := f.renderer.Render(f.ctx, req)
	if err == nil || apperr.IsSuperseded(err) || errors.Is(err, mapbox.ErrUnmounted) {
		return
	}
	f.emitError(apperr.UserMessage(err, mapbox.MsgRouteFailed))
}

func (f *Flow) findTrip(id int64) (models.Trip, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, list := range [][]models.Trip{f.results.Outbound, f.results.Return} {
		for _, t := range list {
			if t.ID == id {
				return t, true
			}
		}
	}
	return models.Trip{}, false
}

func (f *Flow) session(field string) (*autocomplete.Session, bool) {
	switch field {
	case FieldOrigin:
		return f.origin, true
	case FieldDestination:
		return f.destination, true
	}
	return nil, false
}

func (f *Flow) suggestionsSender(field string) func(autocomplete.State) {
	return func(st autocomplete.State) {
		f.emit(TypeSuggestions, map[string]interface{}{"field": field, "state": st})
	}
}

func (f *Flow) sendForm() {
	c := f.form.Criteria()
	f.emit(TypeFormState, FormPayload{Criteria: c, Query: search.Encode(c).Encode()})
}

func (f *Flow) sendResults() {
	f.mu.Lock()
	payload := ResultsPayload{
		Trips:  trips.FilterByFranja(f.results.Outbound, f.franja),
		Franja: string(f.franja),
		Error:  f.lastErr,
	}
	if f.results.Return != nil {
		payload.ReturnTrips = trips.FilterByFranja(f.results.Return, f.franja)
	}
	f.mu.Unlock()
	f.emit(TypeSearchResults, payload)
}

func (f *Flow) sendSeatMap() {
	if !f.seatMap.IsOpen() {
		f.emit(TypeSeatMap, SeatMapPayload{Selected: []int{}})
		return
	}
	trip := f.seatMap.Trip()
	f.emit(TypeSeatMap, SeatMapPayload{
		Open:       true,
		Trip:       &trip,
		Seats:      f.seatMap.Seats(),
		Selected:   f.seatMap.Selected(),
		TotalPrice: f.seatMap.TotalPrice(),
	})
}

func (f *Flow) emitError(msg string) {
	f.emit(TypeError, ErrorPayload{Message: msg})
}

func (f *Flow) emit(typ string, payload interface{}) {
	if f.closed.Load() || f.send == nil {
		return
	}
	f.send(Message{Type: typ, Payload: payload})
}
