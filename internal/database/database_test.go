package database

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"rider-fleet-backend/internal/ports"
)

func TestNotFoundTranslatesNoRows(t *testing.T) {
	if err := notFound(sql.ErrNoRows, "booking"); !errors.Is(err, ErrNotFound) || !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("notFound(ErrNoRows) = %v, want ErrNotFound", err)
	}

	wrapped := fmt.Errorf("scan: %w", sql.ErrNoRows)
	if err := notFound(wrapped, "booking"); !errors.Is(err, ErrNotFound) {
		t.Errorf("notFound(wrapped ErrNoRows) = %v, want ErrNotFound", err)
	}

	boom := errors.New("connection refused")
	err := notFound(boom, "booking")
	if errors.Is(err, ErrNotFound) || !errors.Is(err, boom) {
		t.Errorf("notFound(other) = %v, want wrapped original error", err)
	}
}
