package models

// SearchCriteria состояние формы поиска
type SearchCriteria struct {
	OriginText      string `json:"origen" form:"origen"`
	OriginID        int64  `json:"origenId,omitempty" form:"origenId"`
	DestinationText string `json:"destino" form:"destino"`
	DestinationID   int64  `json:"destinoId,omitempty" form:"destinoId"`
	DepartureDate   string `json:"fecha" form:"fecha"`
	ReturnDate      string `json:"fechaRegreso,omitempty" form:"fechaRegreso"`
}

// TripQuery проверенный запрос поиска, отправляемый в бэкенд
type TripQuery struct {
	OriginID        int64  `json:"origenId,omitempty"`
	DestinationID   int64  `json:"destinoId,omitempty"`
	OriginText      string `json:"origen,omitempty"`
	DestinationText string `json:"destino,omitempty"`
	Date            string `json:"fecha"`
	ReturnDate      string `json:"fechaRegreso,omitempty"`
}

// ByID сообщает, что поиск идет по идентификаторам локаций
func (q TripQuery) ByID() bool {
	return q.OriginID > 0 && q.DestinationID > 0
}

// Reversed возвращает запрос обратного направления на дату возврата
func (q TripQuery) Reversed() TripQuery {
	return TripQuery{
		OriginID:        q.DestinationID,
		DestinationID:   q.OriginID,
		OriginText:      q.DestinationText,
		DestinationText: q.OriginText,
		Date:            q.ReturnDate,
	}
}
