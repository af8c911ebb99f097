package models

// Zone weight bounds; weights outside are clamped.
const (
	MinZoneWeight = 1
	MaxZoneWeight = 5
)

// DemandZone is a circular geofence whose weight sets its fair share of riders
type DemandZone struct {
	ID           string  `json:"id" db:"id"`
	Name         string  `json:"name" db:"name"`
	Latitude     float64 `json:"lat" db:"latitude"`
	Longitude    float64 `json:"lon" db:"longitude"`
	RadiusMeters float64 `json:"radius" db:"radius_meters"`
	Weight       int     `json:"weight" db:"weight"`
	Active       bool    `json:"active" db:"is_active"`
}

// ClampWeight bounds a requested weight to [MinZoneWeight, MaxZoneWeight]
func ClampWeight(weight int) int {
	if weight < MinZoneWeight {
		return MinZoneWeight
	}
	if weight > MaxZoneWeight {
		return MaxZoneWeight
	}
	return weight
}

// ZoneStatusResponse is one row of the live zone status board
type ZoneStatusResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Radius   float64 `json:"radius"`
	Weight   int     `json:"weight"`
	Current  int     `json:"current"`
	Target   float64 `json:"target"`
	Pressure float64 `json:"pressure"`
	Status   string  `json:"status"` // under-served, balanced, over-served
	Color    string  `json:"color"`  // green, yellow, red
}
