package apperr

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrSuperseded запрос заменен более новым того же типа
var ErrSuperseded = errors.New("запрос заменен более новым")

// ValidationError ошибки формы по полям
type ValidationError struct {
	Fields map[string]string
}

func (e ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation error"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return strings.Join(parts, "; ")
}

// UpstreamError ошибка внешнего сервиса с сообщением для пользователя
type UpstreamError struct {
	Service string
	Status  int
	Message string
	Err     error
}

func (e UpstreamError) Error() string {
	switch {
	case e.Err != nil && e.Status > 0:
		return fmt.Sprintf("%s: статус %d: %v", e.Service, e.Status, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Service, e.Err)
	case e.Status > 0:
		return fmt.Sprintf("%s: статус %d", e.Service, e.Status)
	default:
		return e.Service + ": ошибка"
	}
}

func (e UpstreamError) Unwrap() error { return e.Err }

// UserMessage текст для показа пользователю
func UserMessage(err error, fallback string) string {
	var up UpstreamError
	if errors.As(err, &up) && up.Message != "" {
		return up.Message
	}
	return fallback
}

// IsSuperseded отмененные и замененные запросы не считаются ошибкой
func IsSuperseded(err error) bool {
	return errors.Is(err, ErrSuperseded) || errors.Is(err, context.Canceled)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsUpstream(err error) bool {
	var target UpstreamError
	return errors.As(err, &target)
}
