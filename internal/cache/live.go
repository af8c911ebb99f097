// Package cache mirrors live rider positions into Redis so other instances
// and dashboards can run radius queries.
package cache

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"rider-fleet-backend/internal/geo"
	"rider-fleet-backend/internal/ports"
)

const liveRidersKey = "riders:live"

// LivePositions is a Redis GEO set of the latest position per rider
type LivePositions struct {
	rdb *redis.Client
}

// NewLivePositions wraps a connected client
func NewLivePositions(rdb *redis.Client) *LivePositions {
	return &LivePositions{rdb: rdb}
}

// Set records the rider's current position, replacing the previous one
func (l *LivePositions) Set(ctx context.Context, riderID string, p geo.Point) error {
	return l.rdb.GeoAdd(ctx, liveRidersKey, &redis.GeoLocation{
		Name:      riderID,
		Longitude: p.Lon,
		Latitude:  p.Lat,
	}).Err()
}

// Nearby returns riders within radiusMeters of center, closest first
func (l *LivePositions) Nearby(ctx context.Context, center geo.Point, radiusMeters float64, limit int) ([]ports.NearbyRider, error) {
	res, err := l.rdb.GeoRadius(ctx, liveRidersKey, center.Lon, center.Lat, &redis.GeoRadiusQuery{
		Radius:    radiusMeters,
		Unit:      "m",
		WithCoord: true,
		WithDist:  true,
		Count:     limit,
		Sort:      "ASC",
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	riders := make([]ports.NearbyRider, 0, len(res))
	for _, item := range res {
		riders = append(riders, ports.NearbyRider{
			RiderID:        item.Name,
			Lat:            item.Latitude,
			Lon:            item.Longitude,
			DistanceMeters: item.Dist,
		})
	}
	return riders, nil
}

// Ping checks the connection
func (l *LivePositions) Ping(ctx context.Context) error {
	return l.rdb.Ping(ctx).Err()
}
