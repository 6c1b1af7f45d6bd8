package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SearchRecord запись истории поиска (зеркало POST /busquedas)
type SearchRecord struct {
	ID              string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OriginText      string    `json:"origen" gorm:"type:varchar(120);index:idx_search_route"`
	OriginID        int64     `json:"origenId"`
	DestinationText string    `json:"destino" gorm:"type:varchar(120);index:idx_search_route"`
	DestinationID   int64     `json:"destinoId"`
	DepartureDate   string    `json:"fecha" gorm:"type:varchar(10)"`
	ReturnDate      string    `json:"fechaRegreso,omitempty" gorm:"type:varchar(10)"`
	ResultsCount    int       `json:"resultados"`
	ClientIP        string    `json:"-" gorm:"type:varchar(64)"`
	CreatedAt       time.Time `json:"created_at"`
}

func (SearchRecord) TableName() string {
	return "search_records"
}

// BeforeCreate проставляет UUID, если он не задан
func (r *SearchRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// PopularRoute агрегат самых частых направлений
type PopularRoute struct {
	OriginText      string `json:"origen"`
	DestinationText string `json:"destino"`
	Total           int64  `json:"total"`
}
