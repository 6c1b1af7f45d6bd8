package models

// LatLng точка на карте
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RouteRequest запрос на построение маршрута: origen -> paradas -> destino
type RouteRequest struct {
	Origin      LatLng   `json:"origin" binding:"required"`
	Destination LatLng   `json:"destination" binding:"required"`
	Waypoints   []LatLng `json:"waypoints"`
}

// Points возвращает точки маршрута по порядку
func (r RouteRequest) Points() []LatLng {
	points := make([]LatLng, 0, len(r.Waypoints)+2)
	points = append(points, r.Origin)
	points = append(points, r.Waypoints...)
	return append(points, r.Destination)
}

// RouteInfo сводка, отдаваемая через callback рендерера
type RouteInfo struct {
	DistanceKm        float64 `json:"distanceKm"`
	DurationMinutes   int     `json:"durationMinutes"`
	DurationFormatted string  `json:"durationFormatted"`
}

// RouteResult геометрия ([lng, lat]) и сводка маршрута
type RouteResult struct {
	Info     RouteInfo    `json:"info"`
	Geometry [][2]float64 `json:"geometry"`
}
