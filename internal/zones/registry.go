// Package zones keeps the in-memory demand zone registry and derives zone
// pressure from live rider positions.
package zones

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"rider-fleet-backend/internal/geo"
	"rider-fleet-backend/internal/models"
	"rider-fleet-backend/internal/ports"
)

var ErrZoneNotFound = errors.New("zone not found")

// Registry holds the demand zones in a fixed enumeration order. Order matters:
// a rider inside overlapping zones is counted for the first one only.
type Registry struct {
	mu    sync.RWMutex
	zones []models.DemandZone

	// Optional write-through for weight updates
	store ports.ZoneStore
}

// NewRegistry creates a registry from zones, clamping every weight. store may be nil.
func NewRegistry(zones []models.DemandZone, store ports.ZoneStore) *Registry {
	cp := make([]models.DemandZone, len(zones))
	for i, z := range zones {
		z.Weight = models.ClampWeight(z.Weight)
		cp[i] = z
	}
	return &Registry{zones: cp, store: store}
}

// List returns a copy of all zones in registry order
func (r *Registry) List() []models.DemandZone {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.DemandZone, len(r.zones))
	copy(out, r.zones)
	return out
}

// Active returns a copy of the zones flagged active, in registry order
func (r *Registry) Active() []models.DemandZone {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.DemandZone, 0, len(r.zones))
	for _, z := range r.zones {
		if z.Active {
			out = append(out, z)
		}
	}
	return out
}

// Get looks a zone up by id
func (r *Registry) Get(zoneID string) (models.DemandZone, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, z := range r.zones {
		if z.ID == zoneID {
			return z, true
		}
	}
	return models.DemandZone{}, false
}

// UpdateWeight sets a zone's weight, clamped to [1,5]. Unknown ids return
// ErrZoneNotFound and change nothing.
func (r *Registry) UpdateWeight(ctx context.Context, zoneID string, weight int) (models.DemandZone, error) {
	if _, ok := r.Get(zoneID); !ok {
		return models.DemandZone{}, fmt.Errorf("update weight %q: %w", zoneID, ErrZoneNotFound)
	}

	clamped := models.ClampWeight(weight)
	if r.store != nil {
		if err := r.store.SaveWeight(ctx, zoneID, clamped); err != nil {
			return models.DemandZone{}, fmt.Errorf("persist weight for %q: %w", zoneID, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.zones {
		if r.zones[i].ID == zoneID {
			r.zones[i].Weight = clamped
			log.Printf("⚖️  Zone %s weight set to %d (requested %d)", zoneID, clamped, weight)
			return r.zones[i], nil
		}
	}
	return models.DemandZone{}, fmt.Errorf("update weight %q: %w", zoneID, ErrZoneNotFound)
}

// Pressure computes the current load of every zone from rider positions
func (r *Registry) Pressure(positions []geo.Point) map[string]Pressure {
	return ComputePressure(r.List(), positions)
}

// NearestUnderServed returns the closest zone to (lat, lon) whose pressure is
// below 1.0. ok is false when no zone qualifies or no riders are tracked.
func (r *Registry) NearestUnderServed(lat, lon float64, positions []geo.Point) (models.DemandZone, bool) {
	zones := r.List()
	loads := ComputePressure(zones, positions)

	var best models.DemandZone
	bestDist := -1.0
	for _, z := range zones {
		load, ok := loads[z.ID]
		if !ok || load.Pressure >= 1.0 {
			continue
		}
		dist := geo.DistanceMeters(lat, lon, z.Latitude, z.Longitude)
		if bestDist < 0 || dist < bestDist {
			best = z
			bestDist = dist
		}
	}
	return best, bestDist >= 0
}

// Status builds the zone status board consumed by the dashboard
func (r *Registry) Status(positions []geo.Point) []models.ZoneStatusResponse {
	zones := r.List()
	loads := ComputePressure(zones, positions)

	out := make([]models.ZoneStatusResponse, 0, len(zones))
	for _, z := range zones {
		load := loads[z.ID]
		status, color := ClassifyPressure(load.Pressure)
		out = append(out, models.ZoneStatusResponse{
			ID:       z.ID,
			Name:     z.Name,
			Lat:      z.Latitude,
			Lon:      z.Longitude,
			Radius:   z.RadiusMeters,
			Weight:   z.Weight,
			Current:  load.Current,
			Target:   load.Target,
			Pressure: load.Pressure,
			Status:   status,
			Color:    color,
		})
	}
	return out
}

// Contains reports whether p lies inside the zone's circle
func Contains(z models.DemandZone, p geo.Point) bool {
	return geo.DistanceMeters(p.Lat, p.Lon, z.Latitude, z.Longitude) <= z.RadiusMeters
}
