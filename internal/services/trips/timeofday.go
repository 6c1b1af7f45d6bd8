package trips

import (
	"latribu-backend/internal/models"
	"latribu-backend/internal/utils"
)

// Franja интервал времени суток для фильтра списка
type Franja string

const (
	FranjaTodos     Franja = "todos"
	FranjaManana    Franja = "manana"
	FranjaTarde     Franja = "tarde"
	FranjaNoche     Franja = "noche"
	FranjaMadrugada Franja = "madrugada"
)

// ParseFranja принимает значения с диакритикой и без; пустое значение это todos
func ParseFranja(s string) (Franja, bool) {
	switch Franja(utils.Fold(s)) {
	case "", FranjaTodos:
		return FranjaTodos, true
	case FranjaManana:
		return FranjaManana, true
	case FranjaTarde:
		return FranjaTarde, true
	case FranjaNoche:
		return FranjaNoche, true
	case FranjaMadrugada:
		return FranjaMadrugada, true
	}
	return FranjaTodos, false
}

// ClassifyHora полуинтервалы: madrugada [0,6), mañana [6,12), tarde [12,18), noche [18,24).
// Нераспознанное время дает todos.
func ClassifyHora(hora string) Franja {
	minutes, ok := ParseClock(hora)
	if !ok {
		return FranjaTodos
	}
	switch h := minutes / 60; {
	case h < 6:
		return FranjaMadrugada
	case h < 12:
		return FranjaManana
	case h < 18:
		return FranjaTarde
	default:
		return FranjaNoche
	}
}

func Classify(trip models.Trip) Franja {
	return ClassifyHora(trip.DepartureTime)
}

// Matches поездки с нераспознанным временем проходят любой фильтр
func Matches(trip models.Trip, f Franja) bool {
	if f == "" || f == FranjaTodos {
		return true
	}
	c := Classify(trip)
	return c == FranjaTodos || c == f
}

// FilterByFranja фильтрует список на стороне сервиса, без запроса в бэкенд
func FilterByFranja(trips []models.Trip, f Franja) []models.Trip {
	out := make([]models.Trip, 0, len(trips))
	for _, t := range trips {
		if Matches(t, f) {
			out = append(out, t)
		}
	}
	return out
}
