package search

import (
	"strings"
	"sync"
	"time"

	"latribu-backend/internal/apperr"
	"latribu-backend/internal/models"
)

// Form состояние формы поиска одной сессии
type Form struct {
	mu sync.Mutex
	c  models.SearchCriteria
}

// NewForm форма по умолчанию: пустые города, сегодняшняя дата
func NewForm(now time.Time) *Form {
	return &Form{c: models.SearchCriteria{DepartureDate: DateAfter(now, 0)}}
}

func (f *Form) Criteria() models.SearchCriteria {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.c
}

// Load заменяет состояние целиком (например, из параметров URL)
func (f *Form) Load(c models.SearchCriteria) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.c = c
}

// SetOrigin ввод текста; выбранный ранее id сбрасывается, если текст изменился
func (f *Form) SetOrigin(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if text != f.c.OriginText {
		f.c.OriginID = 0
	}
	f.c.OriginText = text
}

func (f *Form) SetDestination(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if text != f.c.DestinationText {
		f.c.DestinationID = 0
	}
	f.c.DestinationText = text
}

// SelectOrigin выбор подсказки каталога
func (f *Form) SelectOrigin(id int64, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.OriginID = id
	f.c.OriginText = text
}

func (f *Form) SelectDestination(id int64, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.DestinationID = id
	f.c.DestinationText = text
}

// Swap меняет местами origen и destino вместе с id
func (f *Form) Swap() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.OriginText, f.c.DestinationText = f.c.DestinationText, f.c.OriginText
	f.c.OriginID, f.c.DestinationID = f.c.DestinationID, f.c.OriginID
}

// QuickDate кнопки "Hoy" / "Mañana"
func (f *Form) QuickDate(now time.Time, days int) {
	f.SetDate(DateAfter(now, days))
}

func (f *Form) SetDate(date string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.DepartureDate = strings.TrimSpace(date)
}

// SetReturnDate пустая строка убирает обратный рейс
func (f *Form) SetReturnDate(date string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.ReturnDate = strings.TrimSpace(date)
}

// Submit проверяет форму; при ошибках запрос не формируется
func (f *Form) Submit(requireResolvedIDs bool, now time.Time) (models.TripQuery, error) {
	c := f.Criteria()
	if errs := Validate(c, requireResolvedIDs, now); len(errs) > 0 {
		return models.TripQuery{}, apperr.ValidationError{Fields: errs}
	}
	return ToQuery(c), nil
}
