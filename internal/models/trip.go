package models

// Trip готовая к отображению поездка, построенная из Shift
type Trip struct {
	ID                  int64       `json:"id"`
	DepartureTime       string      `json:"departureTime"`
	ArrivalTime         string      `json:"arrivalTime"`
	Date                string      `json:"date"`
	OriginTerminal      string      `json:"originTerminal"`
	DestinationTerminal string      `json:"destinationTerminal"`
	Price               float64     `json:"price"`
	PreviousPrice       float64     `json:"previousPrice"`
	Vehicle             TripVehicle `json:"vehicle"`
	Driver              string      `json:"driver"`
	OccupiedSeats       []int       `json:"occupiedSeats"`
	AvailableSeats      int         `json:"availableSeats"`
	Available           bool        `json:"available"`
	Category            string      `json:"category"`
	Icon                string      `json:"icon"`
}

type TripVehicle struct {
	Plate    string `json:"plate"`
	Model    string `json:"model"`
	Capacity int    `json:"capacity"`
}

// RevenueSummary агрегат по проданным местам для админки
type RevenueSummary struct {
	Shifts    int     `json:"shifts"`
	SeatsSold int     `json:"seatsSold"`
	Revenue   float64 `json:"revenue"`
	Failed    []int64 `json:"failed,omitempty"`
}
