package models

import (
	"bytes"
	"encoding/json"
)

// Shift сырая запись turno из REST бэкенда
type Shift struct {
	ID                  int64         `json:"idTurno"`
	Date                string        `json:"fecha"`
	Hour                string        `json:"hora"`
	Price               float64       `json:"precio"`
	AvailableSeats      int           `json:"cuposDisponibles"`
	Category            string        `json:"categoria"`
	Vehicle             ShiftVehicle  `json:"vehiculo"`
	Driver              ShiftDriver   `json:"conductor"`
	Route               ShiftRoute    `json:"ruta"`
	Tickets             []ShiftTicket `json:"pasajes"`
	DurationMinutes     int           `json:"duracionMinutos,omitempty"`
	OriginTerminal      string        `json:"terminalOrigen,omitempty"`
	DestinationTerminal string        `json:"terminalDestino,omitempty"`
}

type ShiftVehicle struct {
	ID                int64  `json:"idVehiculo"`
	Plate             string `json:"placa"`
	Model             string `json:"modelo"`
	Brand             string `json:"marca"`
	PassengerCapacity int    `json:"capacidadPasajeros"`
	Type              string `json:"tipo"`
}

type ShiftDriver struct {
	ID        int64  `json:"idConductor"`
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
}

type ShiftRoute struct {
	ID              int64         `json:"idRuta"`
	Origin          ShiftLocation `json:"origen"`
	Destination     ShiftLocation `json:"destino"`
	BasePrice       float64       `json:"precioBase"`
	DurationMinutes int           `json:"duracionMinutos,omitempty"`
	Stops           []LatLng      `json:"paradas,omitempty"`
}

type ShiftLocation struct {
	ID        int64    `json:"idUbicacion"`
	City      string   `json:"ciudad"`
	Terminal  string   `json:"terminal,omitempty"`
	Latitude  *float64 `json:"latitud,omitempty"`
	Longitude *float64 `json:"longitud,omitempty"`
}

// ShiftTicket билет пассажира (pasaje)
type ShiftTicket struct {
	ID     int64     `json:"idPasaje"`
	Seat   SeatLabel `json:"asiento"`
	Status string    `json:"estado,omitempty"`
}

// SeatLabel номер места; бэкенд отдает его то числом, то строкой
type SeatLabel string

func (l *SeatLabel) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = SeatLabel(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*l = SeatLabel(n.String())
	return nil
}
