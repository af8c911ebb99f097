package tracking

// Outbound message types pushed over rider and observer connections
const (
	TypeStationaryWarning = "STATIONARY_WARNING"
	TypeRedirectToZone    = "REDIRECT_TO_ZONE"
)

// Alert is a push message the engine decided to send to a rider
type Alert interface {
	AlertType() string
}

// StationaryWarning tells a rider it has not moved for too long
type StationaryWarning struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (StationaryWarning) AlertType() string { return TypeStationaryWarning }

// RedirectSuggestion points a stationary rider at an under-served zone
type RedirectSuggestion struct {
	Type    string  `json:"type"`
	ZoneID  string  `json:"zone_id"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Title   string  `json:"title"`
	Message string  `json:"message"`
}

func (RedirectSuggestion) AlertType() string { return TypeRedirectToZone }

// PositionBroadcast is what observers receive for every accepted sample
type PositionBroadcast struct {
	RiderID string  `json:"rider_id"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}
