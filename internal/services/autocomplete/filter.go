package autocomplete

import (
	"strings"

	"latribu-backend/internal/models"
	"latribu-backend/internal/utils"
)

// MaxSuggestions больше подсказок не показывается
const MaxSuggestions = 8

const otherRegion = "Otras ciudades"

// Suggestion подсказка города; ID заполнен только для записей каталога
type Suggestion struct {
	ID     int64  `json:"id,omitempty"`
	City   string `json:"city"`
	Region string `json:"region"`
}

// Group подсказки одного департамента
type Group struct {
	Region string       `json:"region"`
	Items  []Suggestion `json:"items"`
}

// FromLocations переводит активные локации каталога в подсказки, сохраняя порядок
func FromLocations(locs []models.Location) []Suggestion {
	out := make([]Suggestion, 0, len(locs))
	for _, l := range locs {
		if !l.Active {
			continue
		}
		out = append(out, Suggestion{ID: l.ID, City: l.City, Region: l.Department})
	}
	return out
}

// Source каталог, если он не пуст, иначе статический справочник
func Source(locs []models.Location) []Suggestion {
	if s := FromLocations(locs); len(s) > 0 {
		return s
	}
	return DefaultCities()
}

// Filter подстрочный поиск без учета регистра и диакритики по городу и департаменту.
// Порядок источника сохраняется, результат не длиннее MaxSuggestions.
func Filter(query string, source []Suggestion) []Suggestion {
	out := []Suggestion{}
	q := utils.Fold(query)
	if q == "" {
		return out
	}
	for _, s := range source {
		if strings.Contains(utils.Fold(s.City), q) || strings.Contains(utils.Fold(s.Region), q) {
			out = append(out, s)
			if len(out) == MaxSuggestions {
				break
			}
		}
	}
	return out
}

// GroupByRegion группирует подсказки по департаменту в порядке первого появления
func GroupByRegion(items []Suggestion) []Group {
	groups := []Group{}
	index := make(map[string]int)
	for _, s := range items {
		region := s.Region
		if region == "" {
			region = otherRegion
		}
		i, ok := index[region]
		if !ok {
			i = len(groups)
			index[region] = i
			groups = append(groups, Group{Region: region})
		}
		groups[i].Items = append(groups[i].Items, s)
	}
	return groups
}
