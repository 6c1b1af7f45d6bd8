package search

import (
	"net/url"
	"strconv"
	"strings"

	"latribu-backend/internal/models"
)

// Параметры URL страницы результатов
const (
	ParamOrigin        = "origen"
	ParamDestination   = "destino"
	ParamOriginID      = "origenId"
	ParamDestinationID = "destinoId"
	ParamDate          = "fecha"
	ParamReturnDate    = "fechaRegreso"
)

// Encode сериализует критерии в параметры запроса; пустые значения пропускаются
func Encode(c models.SearchCriteria) url.Values {
	v := url.Values{}
	setIf(v, ParamOrigin, strings.TrimSpace(c.OriginText))
	setIf(v, ParamDestination, strings.TrimSpace(c.DestinationText))
	if c.OriginID > 0 {
		v.Set(ParamOriginID, strconv.FormatInt(c.OriginID, 10))
	}
	if c.DestinationID > 0 {
		v.Set(ParamDestinationID, strconv.FormatInt(c.DestinationID, 10))
	}
	setIf(v, ParamDate, c.DepartureDate)
	setIf(v, ParamReturnDate, c.ReturnDate)
	return v
}

// Decode все параметры необязательны; некорректный id считается отсутствующим
func Decode(v url.Values) models.SearchCriteria {
	return models.SearchCriteria{
		OriginText:      strings.TrimSpace(v.Get(ParamOrigin)),
		OriginID:        parseID(v.Get(ParamOriginID)),
		DestinationText: strings.TrimSpace(v.Get(ParamDestination)),
		DestinationID:   parseID(v.Get(ParamDestinationID)),
		DepartureDate:   strings.TrimSpace(v.Get(ParamDate)),
		ReturnDate:      strings.TrimSpace(v.Get(ParamReturnDate)),
	}
}

// ToQuery поиск по id, только если разрешены оба города, иначе по тексту
func ToQuery(c models.SearchCriteria) models.TripQuery {
	q := models.TripQuery{
		OriginText:      strings.TrimSpace(c.OriginText),
		DestinationText: strings.TrimSpace(c.DestinationText),
		Date:            c.DepartureDate,
		ReturnDate:      c.ReturnDate,
	}
	if c.OriginID > 0 && c.DestinationID > 0 {
		q.OriginID = c.OriginID
		q.DestinationID = c.DestinationID
	}
	return q
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func parseID(s string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}
