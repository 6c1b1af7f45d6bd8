package services

import (
	"math"

	"latribu-backend/internal/models"
)

const earthRadiusKm = 6371.0

// ArrivalEstimator оценивает длительность поездки по turno
type ArrivalEstimator struct {
	speedKmh float64
}

// NewArrivalEstimator speedKmh средняя скорость для оценки по координатам
func NewArrivalEstimator(speedKmh float64) *ArrivalEstimator {
	if speedKmh <= 0 {
		speedKmh = 60
	}
	return &ArrivalEstimator{speedKmh: speedKmh}
}

// Duration длительность в минутах: из turno, из ruta, иначе по прямой через все paradas.
// ok == false, если оценить нечем.
func (e *ArrivalEstimator) Duration(shift models.Shift) (int, bool) {
	if shift.DurationMinutes > 0 {
		return shift.DurationMinutes, true
	}
	if shift.Route.DurationMinutes > 0 {
		return shift.Route.DurationMinutes, true
	}

	origin, okO := point(shift.Route.Origin)
	dest, okD := point(shift.Route.Destination)
	if !okO || !okD {
		return 0, false
	}

	points := make([]models.LatLng, 0, len(shift.Route.Stops)+2)
	points = append(points, origin)
	points = append(points, shift.Route.Stops...)
	points = append(points, dest)

	km := PathKm(points)
	if km <= 0 {
		return 0, false
	}
	return int(math.Ceil(km / e.speedKmh * 60)), true
}

// PathKm сумма расстояний между соседними точками
func PathKm(points []models.LatLng) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += HaversineKm(points[i-1], points[i])
	}
	return total
}

// HaversineKm расстояние по формуле гаверсинуса
func HaversineKm(from, to models.LatLng) float64 {
	φ1 := from.Lat * math.Pi / 180
	φ2 := to.Lat * math.Pi / 180
	dφ := (to.Lat - from.Lat) * math.Pi / 180
	dλ := (to.Lng - from.Lng) * math.Pi / 180

	a := math.Sin(dφ/2)*math.Sin(dφ/2) +
		math.Cos(φ1)*math.Cos(φ2)*math.Sin(dλ/2)*math.Sin(dλ/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func point(l models.ShiftLocation) (models.LatLng, bool) {
	if l.Latitude == nil || l.Longitude == nil {
		return models.LatLng{}, false
	}
	return models.LatLng{Lat: *l.Latitude, Lng: *l.Longitude}, true
}
