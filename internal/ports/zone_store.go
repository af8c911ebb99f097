package ports

import (
	"context"

	"rider-fleet-backend/internal/models"
)

// Port: durable home of the demand zones loaded at startup.
type ZoneStore interface {
	LoadZones(ctx context.Context) ([]models.DemandZone, error)
	SaveWeight(ctx context.Context, zoneID string, weight int) error
}
