package ports

import (
	"context"

	"rider-fleet-backend/internal/geo"
)

// NearbyRider is a rider returned by a radius query on the live cache.
type NearbyRider struct {
	RiderID        string  `json:"rider_id"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	DistanceMeters float64 `json:"distance_meters"`
}

// Port: shared mirror of live rider positions for cross-instance reads.
type LivePositionCache interface {
	Set(ctx context.Context, riderID string, p geo.Point) error
	Nearby(ctx context.Context, center geo.Point, radiusMeters float64, limit int) ([]NearbyRider, error)
}
