package db

import (
	"errors"
	"testing"
	"time"

	"latribu-backend/internal/config"
)

func TestConnectPostgresWithoutHost(t *testing.T) {
	_, err := ConnectPostgres(config.Config{}, 3, time.Millisecond)
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v", err)
	}
}
