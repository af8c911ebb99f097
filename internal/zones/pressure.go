package zones

import (
	"rider-fleet-backend/internal/geo"
	"rider-fleet-backend/internal/models"
)

// Pressure status thresholds
const (
	UnderServedBelow = 0.8
	OverServedAbove  = 1.2
)

// Pressure is a zone's actual versus fair-share occupancy
type Pressure struct {
	Current  int     `json:"current"`
	Target   float64 `json:"target"`
	Pressure float64 `json:"pressure"`
}

// ComputePressure assigns every rider to the first zone (in slice order)
// containing it and compares each zone's count with its weighted share of
// all tracked riders. With no riders the result is empty.
func ComputePressure(zones []models.DemandZone, positions []geo.Point) map[string]Pressure {
	result := make(map[string]Pressure)
	totalRiders := len(positions)
	if totalRiders == 0 || len(zones) == 0 {
		return result
	}

	totalWeight := 0
	counts := make(map[string]int, len(zones))
	for _, z := range zones {
		totalWeight += z.Weight
		counts[z.ID] = 0
	}

	for _, p := range positions {
		for _, z := range zones {
			if Contains(z, p) {
				counts[z.ID]++
				break
			}
		}
	}

	for _, z := range zones {
		target := 0.0
		if totalWeight > 0 {
			target = float64(totalRiders) * float64(z.Weight) / float64(totalWeight)
		}
		current := counts[z.ID]

		pressure := 0.0
		if target > 0 {
			pressure = geo.Round(float64(current)/target, 2)
		}

		result[z.ID] = Pressure{
			Current:  current,
			Target:   geo.Round(target, 1),
			Pressure: pressure,
		}
	}
	return result
}

// ClassifyPressure maps a pressure ratio to its display status and color
func ClassifyPressure(pressure float64) (status, color string) {
	switch {
	case pressure < UnderServedBelow:
		return "under-served", "green"
	case pressure <= OverServedAbove:
		return "balanced", "yellow"
	default:
		return "over-served", "red"
	}
}
