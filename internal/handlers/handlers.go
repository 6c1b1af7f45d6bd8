package handlers

import (
	"errors"

	"latribu-backend/internal/apperr"
)

// upstreamStatus HTTP статус внешнего сервиса или 0
func upstreamStatus(err error) int {
	var up apperr.UpstreamError
	if errors.As(err, &up) {
		return up.Status
	}
	return 0
}
