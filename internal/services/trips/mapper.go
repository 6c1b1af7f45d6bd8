package trips

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"latribu-backend/internal/models"
)

// DurationEstimator оценка длительности поездки в минутах
type DurationEstimator interface {
	Duration(shift models.Shift) (int, bool)
}

// Статусы pasaje, которые не занимают место
var releasedStatuses = map[string]bool{
	"cancelado":   true,
	"anulado":     true,
	"cancelled":   true,
	"reembolsado": true,
}

// MapShift переводит turno в поездку для отображения. est может быть nil:
// тогда время прибытия совпадает со временем отправления.
func MapShift(s models.Shift, est DurationEstimator) models.Trip {
	price := s.Price
	if price <= 0 {
		price = s.Route.BasePrice
	}

	return models.Trip{
		ID:                  s.ID,
		DepartureTime:       NormalizeHoraDisplay(s.Hour),
		ArrivalTime:         arrivalTime(s, est),
		Date:                datePart(s.Date),
		OriginTerminal:      terminal(s.OriginTerminal, s.Route.Origin),
		DestinationTerminal: terminal(s.DestinationTerminal, s.Route.Destination),
		Price:               price,
		PreviousPrice:       math.Round(price*120) / 100,
		Vehicle: models.TripVehicle{
			Plate: s.Vehicle.Plate,
			Model: strings.TrimSpace(s.Vehicle.Brand + " " + s.Vehicle.Model),
			// +1 место водителя
			Capacity: s.Vehicle.PassengerCapacity + 1,
		},
		Driver:         strings.TrimSpace(s.Driver.FirstName + " " + s.Driver.LastName),
		OccupiedSeats:  OccupiedSeats(s.Tickets),
		AvailableSeats: s.AvailableSeats,
		Available:      s.AvailableSeats > 0,
		Category:       s.Category,
		Icon:           IconFor(s.Hour),
	}
}

// OccupiedSeats номера занятых мест; нечисловые и отмененные pasajes отбрасываются
func OccupiedSeats(tickets []models.ShiftTicket) []int {
	seen := make(map[int]bool, len(tickets))
	out := []int{}
	for _, t := range tickets {
		if releasedStatuses[strings.ToLower(strings.TrimSpace(t.Status))] {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(string(t.Seat)))
		if err != nil || n <= 0 || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

func arrivalTime(s models.Shift, est DurationEstimator) string {
	departure := NormalizeHoraDisplay(s.Hour)
	if est == nil {
		return departure
	}
	start, ok := ParseClock(s.Hour)
	if !ok {
		return departure
	}
	d, ok := est.Duration(s)
	if !ok || d <= 0 {
		return departure
	}
	return FormatClock(start + d)
}

// datePart "2026-10-19T00:00:00.000Z" -> "2026-10-19"
func datePart(d string) string {
	d = strings.TrimSpace(d)
	if len(d) > 10 && d[10] == 'T' {
		return d[:10]
	}
	return d
}

func terminal(explicit string, loc models.ShiftLocation) string {
	if explicit != "" {
		return explicit
	}
	if loc.Terminal != "" {
		return loc.Terminal
	}
	return loc.City
}
