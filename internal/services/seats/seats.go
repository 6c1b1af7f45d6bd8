package seats

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"latribu-backend/internal/models"
)

// DriverSeatID место водителя, выбрать его нельзя
const DriverSeatID = 1

// GenerateSeats схема салона: место 1 водитель, дальше пассажиры по двое в ряду (A слева, B справа)
func GenerateSeats(capacity int, occupied []int) []models.Seat {
	if capacity < 1 {
		return []models.Seat{}
	}
	taken := make(map[int]bool, len(occupied))
	for _, id := range occupied {
		taken[id] = true
	}

	seats := make([]models.Seat, 0, capacity)
	seats = append(seats, models.Seat{ID: DriverSeatID, Row: 1, Position: models.SeatLeft, IsDriver: true})
	for i := 1; i < capacity; i++ {
		pos := models.SeatRight
		if i%2 == 1 {
			pos = models.SeatLeft
		}
		id := i + 1
		seats = append(seats, models.Seat{
			ID:       id,
			Row:      (i+1)/2 + 1,
			Position: pos,
			Occupied: taken[id],
		})
	}
	return seats
}

// Total стоимость выбранных мест
func Total(count int, price float64) float64 {
	return float64(count) * price
}

// Map выбор мест для одной открытой поездки
type Map struct {
	mu       sync.Mutex
	key      string
	trip     models.Trip
	seats    []models.Seat
	selected map[int]bool
	open     bool
}

func NewMap() *Map {
	return &Map{selected: make(map[int]bool)}
}

// Open открывает схему поездки. Места пересчитываются только если поменялась поездка
// (id, вместимость или занятые места); для другой поездки выбор сбрасывается.
func (m *Map) Open(trip models.Trip) []models.Seat {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := identity(trip)
	if key != m.key || m.seats == nil {
		if trip.ID != m.trip.ID {
			m.selected = make(map[int]bool)
		}
		m.seats = GenerateSeats(trip.Vehicle.Capacity, trip.OccupiedSeats)
		m.key = key
		// занятые с прошлого открытия места выпадают из выбора
		for id := range m.selected {
			if !m.selectableLocked(id) {
				delete(m.selected, id)
			}
		}
	}
	m.trip = trip
	m.open = true
	return m.copySeats()
}

// Toggle добавляет или убирает место; водитель, занятые и несуществующие места молча игнорируются
func (m *Map) Toggle(id int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.open || !m.selectableLocked(id) {
		return false
	}
	if m.selected[id] {
		delete(m.selected, id)
	} else {
		m.selected[id] = true
	}
	return true
}

// Selected выбранные места по возрастанию
func (m *Map) Selected() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selectedLocked()
}

func (m *Map) TotalPrice() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Total(len(m.selected), m.trip.Price)
}

// Close закрывает модальное окно и очищает выбор
func (m *Map) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = false
	m.selected = make(map[int]bool)
}

func (m *Map) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

func (m *Map) Trip() models.Trip {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.trip
}

func (m *Map) Seats() []models.Seat {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.copySeats()
}

func (m *Map) selectableLocked(id int) bool {
	if id < 1 || id > len(m.seats) {
		return false
	}
	return m.seats[id-1].Selectable()
}

func (m *Map) selectedLocked() []int {
	out := make([]int, 0, len(m.selected))
	for id := range m.selected {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

func (m *Map) copySeats() []models.Seat {
	out := make([]models.Seat, len(m.seats))
	copy(out, m.seats)
	return out
}

func identity(trip models.Trip) string {
	return fmt.Sprintf("%d|%d|%v", trip.ID, trip.Vehicle.Capacity, trip.OccupiedSeats)
}

// HandoffConfig адреса внешнего checkout и страницы входа
type HandoffConfig struct {
	CheckoutURL string
	LoginURL    string
}

// Handoff ссылка на оплату; без авторизации сначала страница входа с redirect на checkout
func Handoff(cfg HandoffConfig, trip models.Trip, selected []int, authenticated bool) models.Handoff {
	ids := make([]string, 0, len(selected))
	for _, id := range selected {
		ids = append(ids, strconv.Itoa(id))
	}
	q := url.Values{}
	q.Set("turno", strconv.FormatInt(trip.ID, 10))
	q.Set("asientos", strings.Join(ids, ","))
	q.Set("fecha", trip.Date)
	q.Set("total", strconv.FormatFloat(Total(len(selected), trip.Price), 'f', -1, 64))

	checkout := withQuery(cfg.CheckoutURL, q)
	if authenticated {
		return models.Handoff{URL: checkout}
	}
	return models.Handoff{
		URL:           withQuery(cfg.LoginURL, url.Values{"redirect": {checkout}}),
		RequiresLogin: true,
	}
}

func withQuery(base string, q url.Values) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + q.Encode()
}
