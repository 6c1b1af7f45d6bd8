package booking

import "latribu-backend/internal/models"

// Входящие команды
const (
	CmdPing       = "ping"
	CmdInput      = "input"
	CmdKey        = "key"
	CmdFocus      = "focus"
	CmdBlur       = "blur"
	CmdSelect     = "select"
	CmdSwap       = "swap"
	CmdDate       = "date"
	CmdQuickDate  = "quick_date"
	CmdReturnDate = "return_date"
	CmdSubmit     = "submit"
	CmdFilter     = "filter"
	CmdOpenSeats  = "open_seats"
	CmdToggleSeat = "toggle_seat"
	CmdCloseSeats = "close_seats"
	CmdCheckout   = "checkout"
	CmdRoute      = "route"
)

// Исходящие сообщения
const (
	TypePong             = "pong"
	TypeSuggestions      = "SUGGESTIONS"
	TypeFormState        = "FORM_STATE"
	TypeValidationErrors = "VALIDATION_ERRORS"
	TypeSearchResults    = "SEARCH_RESULTS"
	TypeSeatMap          = "SEAT_MAP"
	TypeCheckout         = "CHECKOUT"
	TypeRouteInfo        = "ROUTE_INFO"
	TypeError            = "ERROR"
)

// Поля формы с автодополнением
const (
	FieldOrigin      = "origen"
	FieldDestination = "destino"
)

// Command сообщение клиента; заполняются только поля, нужные для Type
type Command struct {
	Type   string               `json:"type"`
	Field  string               `json:"field,omitempty"`
	Value  string               `json:"value,omitempty"`
	Key    string               `json:"key,omitempty"`
	Index  int                  `json:"index,omitempty"`
	Days   int                  `json:"days,omitempty"`
	Franja string               `json:"franja,omitempty"`
	TripID int64                `json:"tripId,omitempty"`
	Seat   int                  `json:"seat,omitempty"`
	Route  *models.RouteRequest `json:"route,omitempty"`
}

// Message сообщение сервера
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

type FormPayload struct {
	Criteria models.SearchCriteria `json:"criteria"`
	// Query параметры страницы результатов
	Query string `json:"query"`
}

type ResultsPayload struct {
	Trips       []models.Trip `json:"trips"`
	ReturnTrips []models.Trip `json:"returnTrips,omitempty"`
	Franja      string        `json:"franja"`
	Error       string        `json:"error,omitempty"`
}

type SeatMapPayload struct {
	Open       bool          `json:"open"`
	Trip       *models.Trip  `json:"trip,omitempty"`
	Seats      []models.Seat `json:"seats,omitempty"`
	Selected   []int         `json:"selected"`
	TotalPrice float64       `json:"totalPrice"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
