package models

// Location каноническая форма записи каталога ubicaciones
type Location struct {
	ID         int64    `json:"idLocation"`
	City       string   `json:"city"`
	Department string   `json:"department"`
	Active     bool     `json:"active"`
	Latitude   *float64 `json:"lat,omitempty"`
	Longitude  *float64 `json:"lng,omitempty"`
}

// HasCoordinates сообщает, известны ли координаты локации
func (l Location) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// Point возвращает координаты локации
func (l Location) Point() LatLng {
	if !l.HasCoordinates() {
		return LatLng{}
	}
	return LatLng{Lat: *l.Latitude, Lng: *l.Longitude}
}
