package catalog

import (
	"encoding/json"
	"strconv"
	"strings"

	"latribu-backend/internal/models"
)

// Псевдонимы полей, встречающиеся в разных ответах бэкенда
var (
	idKeys         = []string{"idUbicacion", "idLocation", "id_ubicacion", "idCiudad", "id"}
	cityKeys       = []string{"ciudad", "city", "nombreCiudad", "nombre", "municipio", "name"}
	departmentKeys = []string{"departamento", "department", "region", "estado_region"}
	activeKeys     = []string{"activo", "active", "estado", "status"}
	latKeys        = []string{"latitud", "lat", "latitude"}
	lngKeys        = []string{"longitud", "lng", "lon", "longitude"}
)

// Normalize единственный адаптер сырой записи ubicación к models.Location.
// Записи без идентификатора или города отбрасываются (ok == false).
func Normalize(raw map[string]interface{}) (models.Location, bool) {
	id, ok := firstInt(raw, idKeys)
	if !ok || id <= 0 {
		return models.Location{}, false
	}
	city := firstString(raw, cityKeys)
	if city == "" {
		return models.Location{}, false
	}

	loc := models.Location{
		ID:         id,
		City:       city,
		Department: firstString(raw, departmentKeys),
		Active:     true,
	}
	if v, found := first(raw, activeKeys); found {
		loc.Active = parseActive(v)
	}
	if lat, ok := firstFloat(raw, latKeys); ok {
		loc.Latitude = &lat
	}
	if lng, ok := firstFloat(raw, lngKeys); ok {
		loc.Longitude = &lng
	}
	return loc, true
}

// NormalizeAll применяет Normalize к списку, сохраняя порядок каталога
func NormalizeAll(raw []map[string]interface{}) []models.Location {
	out := make([]models.Location, 0, len(raw))
	for _, r := range raw {
		if loc, ok := Normalize(r); ok {
			out = append(out, loc)
		}
	}
	return out
}

func first(raw map[string]interface{}, keys []string) (interface{}, bool) {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func firstString(raw map[string]interface{}, keys []string) string {
	for _, k := range keys {
		if s, ok := raw[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func firstInt(raw map[string]interface{}, keys []string) (int64, bool) {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case float64:
			return int64(v), true
		case int:
			return int64(v), true
		case int64:
			return v, true
		case json.Number:
			if n, err := v.Int64(); err == nil {
				return n, true
			}
		case string:
			if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

func firstFloat(raw map[string]interface{}, keys []string) (float64, bool) {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case float64:
			return v, true
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return f, true
			}
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func parseActive(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "0", "false", "inactivo", "inactive", "no":
			return false
		}
		return true
	}
	return true
}
