package search

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"latribu-backend/internal/models"
	"latribu-backend/internal/utils"
)

// DateLayout формат дат формы и параметров URL
const DateLayout = "2006-01-02"

// Поля формы, по которым возвращаются ошибки
const (
	FieldOrigin      = "origen"
	FieldDestination = "destino"
	FieldDate        = "fecha"
	FieldReturnDate  = "fechaRegreso"
)

const (
	msgOriginRequired      = "Ingresa la ciudad de origen"
	msgDestinationRequired = "Ingresa la ciudad de destino"
	msgOriginFromList      = "Selecciona una ciudad de origen de la lista"
	msgDestinationFromList = "Selecciona una ciudad de destino de la lista"
	msgTooShort            = "Debe tener al menos 2 caracteres"
	msgSameCity            = "El destino debe ser diferente al origen"
	msgDateRequired        = "Selecciona la fecha de viaje"
	msgDateInvalid         = "Fecha inválida"
	msgDatePast            = "La fecha no puede ser anterior a hoy"
	msgReturnBeforeDepart  = "La fecha de regreso no puede ser anterior a la fecha de ida"
)

// Validate проверяет критерии поиска и возвращает ошибки по полям.
// requireResolvedIDs: каталог загружен, города нужно выбирать из подсказок.
func Validate(c models.SearchCriteria, requireResolvedIDs bool, now time.Time) map[string]string {
	errs := make(map[string]string)

	originText := strings.TrimSpace(c.OriginText)
	destText := strings.TrimSpace(c.DestinationText)

	if msg := validateCity(originText, c.OriginID, requireResolvedIDs, msgOriginRequired, msgOriginFromList); msg != "" {
		errs[FieldOrigin] = msg
	}
	if msg := validateCity(destText, c.DestinationID, requireResolvedIDs, msgDestinationRequired, msgDestinationFromList); msg != "" {
		errs[FieldDestination] = msg
	}

	if _, bad := errs[FieldOrigin]; !bad {
		if _, bad := errs[FieldDestination]; !bad && sameCity(c, originText, destText) {
			errs[FieldDestination] = msgSameCity
		}
	}

	departure, err := ParseDate(c.DepartureDate, now.Location())
	switch {
	case strings.TrimSpace(c.DepartureDate) == "":
		errs[FieldDate] = msgDateRequired
	case err != nil:
		errs[FieldDate] = msgDateInvalid
	case departure.Before(startOfDay(now)):
		errs[FieldDate] = msgDatePast
	}

	if strings.TrimSpace(c.ReturnDate) != "" {
		ret, err := ParseDate(c.ReturnDate, now.Location())
		switch {
		case err != nil:
			errs[FieldReturnDate] = msgDateInvalid
		case ret.Before(startOfDay(now)):
			errs[FieldReturnDate] = msgDatePast
		case errs[FieldDate] == "" && ret.Before(departure):
			errs[FieldReturnDate] = msgReturnBeforeDepart
		}
	}
	return errs
}

func validateCity(text string, id int64, requireResolvedIDs bool, required, fromList string) string {
	if text == "" && id <= 0 {
		return required
	}
	if requireResolvedIDs {
		if id <= 0 {
			return fromList
		}
		return ""
	}
	if len([]rune(text)) < 2 && id <= 0 {
		return msgTooShort
	}
	return ""
}

// sameCity по id, если оба разрешены, иначе по тексту без регистра
func sameCity(c models.SearchCriteria, originText, destText string) bool {
	if c.OriginID > 0 && c.DestinationID > 0 {
		return c.OriginID == c.DestinationID
	}
	return originText != "" && utils.Fold(originText) == utils.Fold(destText)
}

// ParseDate разбирает YYYY-MM-DD как полночь локального дня в loc, минуя UTC
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return time.Time{}, fmt.Errorf("неверный формат даты %q", s)
	}
	y, errY := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	d, errD := strconv.Atoi(parts[2])
	if errY != nil || errM != nil || errD != nil {
		return time.Time{}, fmt.Errorf("неверный формат даты %q", s)
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, loc)
	// time.Date нормализует 2026-02-31 в март
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, fmt.Errorf("несуществующая дата %q", s)
	}
	return t, nil
}

// IsPastDate дата строго раньше сегодняшнего локального дня; нераспознанная дата не считается прошедшей
func IsPastDate(date string, now time.Time) bool {
	t, err := ParseDate(date, now.Location())
	if err != nil {
		return false
	}
	return t.Before(startOfDay(now))
}

// DateAfter локальная дата через days дней ("Hoy" = 0, "Mañana" = 1)
func DateAfter(now time.Time, days int) string {
	return startOfDay(now).AddDate(0, 0, days).Format(DateLayout)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
