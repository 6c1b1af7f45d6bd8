package mapbox

import (
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"latribu-backend/internal/models"
)

// Типы маркеров
const (
	MarkerOrigin      = "origin"
	MarkerDestination = "destination"
	MarkerWaypoint    = "waypoint"
)

// Цвета маркеров для статичной карты (simplestyle)
var markerColors = map[string]string{
	MarkerOrigin:      "#2e7d32",
	MarkerDestination: "#c62828",
	MarkerWaypoint:    "#f9a825",
}

// Marker маркер на карте; Index порядковый номер parada
type Marker struct {
	Kind  string        `json:"kind"`
	Index int           `json:"index"`
	Point models.LatLng `json:"point"`
}

// Surface то, на чем рисует Renderer
type Surface interface {
	SetMarkers(markers []Marker)
	DrawRoute(coordinates [][2]float64)
	ClearRoute()
	FitBounds(bound orb.Bound)
}

// Scene Surface в памяти; отдается клиенту как GeoJSON FeatureCollection
type Scene struct {
	mu      sync.Mutex
	markers []Marker
	route   orb.LineString
	bound   *orb.Bound
}

func NewScene() *Scene {
	return &Scene{}
}

func (s *Scene) SetMarkers(markers []Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers = append([]Marker(nil), markers...)
}

func (s *Scene) DrawRoute(coordinates [][2]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := make(orb.LineString, len(coordinates))
	for i, c := range coordinates {
		line[i] = orb.Point(c)
	}
	s.route = line
}

func (s *Scene) ClearRoute() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.route = nil
}

func (s *Scene) FitBounds(bound orb.Bound) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bound = &bound
}

// Bounds область, под которую подогнан вид
func (s *Scene) Bounds() (orb.Bound, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bound == nil {
		return orb.Bound{}, false
	}
	return *s.bound, true
}

func (s *Scene) Markers() []Marker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Marker(nil), s.markers...)
}

// FeatureCollection маркеры как Point и маршрут как LineString
func (s *Scene) FeatureCollection() *geojson.FeatureCollection {
	s.mu.Lock()
	defer s.mu.Unlock()

	fc := geojson.NewFeatureCollection()
	for _, m := range s.markers {
		f := geojson.NewFeature(orb.Point{m.Point.Lng, m.Point.Lat})
		f.Properties["kind"] = m.Kind
		f.Properties["index"] = m.Index
		f.Properties["marker-color"] = markerColors[m.Kind]
		fc.Append(f)
	}
	if len(s.route) > 1 {
		f := geojson.NewFeature(s.route)
		f.Properties["kind"] = "route"
		f.Properties["stroke"] = "#1565c0"
		f.Properties["stroke-width"] = 4
		fc.Append(f)
	}
	if s.bound != nil {
		fc.BBox = geojson.NewBBox(*s.bound)
	}
	return fc
}

// MarshalJSON сцена как GeoJSON
func (s *Scene) MarshalJSON() ([]byte, error) {
	return s.FeatureCollection().MarshalJSON()
}

func markersFor(req models.RouteRequest) []Marker {
	markers := make([]Marker, 0, len(req.Waypoints)+2)
	markers = append(markers, Marker{Kind: MarkerOrigin, Point: req.Origin})
	for i, w := range req.Waypoints {
		markers = append(markers, Marker{Kind: MarkerWaypoint, Index: i + 1, Point: w})
	}
	return append(markers, Marker{Kind: MarkerDestination, Point: req.Destination})
}

// boundFor охватывает линию маршрута и все маркеры
func boundFor(geometry [][2]float64, markers []Marker) orb.Bound {
	var pts orb.MultiPoint
	for _, c := range geometry {
		pts = append(pts, orb.Point(c))
	}
	for _, m := range markers {
		pts = append(pts, orb.Point{m.Point.Lng, m.Point.Lat})
	}
	return pts.Bound()
}
