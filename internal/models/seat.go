package models

type SeatPosition string

const (
	SeatLeft  SeatPosition = "A" // Левое место в ряду
	SeatRight SeatPosition = "B" // Правое место в ряду
)

// Seat место в схеме салона; место 1 всегда водитель
type Seat struct {
	ID       int          `json:"id"`
	Row      int          `json:"row"`
	Position SeatPosition `json:"position"`
	Occupied bool         `json:"occupied"`
	IsDriver bool         `json:"isDriver"`
}

// Selectable можно ли выбрать место
func (s Seat) Selectable() bool {
	return !s.IsDriver && !s.Occupied
}

// Handoff передача выбора во внешний checkout или на страницу входа
type Handoff struct {
	URL           string `json:"url"`
	RequiresLogin bool   `json:"requiresLogin"`
}
