package tracking

import (
	"context"
	"fmt"
	"log"
	"time"

	"rider-fleet-backend/internal/geo"
	"rider-fleet-backend/internal/models"
	"rider-fleet-backend/internal/ports"
	"rider-fleet-backend/internal/zones"
)

const (
	// StationaryThreshold is how long a rider may stay put before alerting
	StationaryThreshold = 480 * time.Second

	StationaryCooldown = 900 * time.Second
	RedirectCooldown   = 900 * time.Second

	// PostDeliveryCooldown is tracked on every rider but no rule fires it yet
	PostDeliveryCooldown = 20 * time.Minute

	stationaryMessage = "You seem idle. Checking nearby high-demand areas."
	redirectTitle     = "High demand nearby"

	storeTimeout = 3 * time.Second
)

// Dispatcher delivers messages to connected riders and observers.
// *websocket.Hub satisfies it.
type Dispatcher interface {
	SendTo(id string, data interface{}) error
	BroadcastToObservers(data interface{})
}

// EngineDeps bundles what the engine needs. Telemetry and Live are optional.
type EngineDeps struct {
	Tracker    *Tracker
	Zones      *zones.Registry
	Dispatcher Dispatcher
	Telemetry  ports.TelemetryStore
	Live       ports.LivePositionCache
	Clock      func() time.Time
}

// Engine turns accepted GPS samples into tracker updates, observer
// broadcasts and stationary/redirect alerts.
type Engine struct {
	tracker    *Tracker
	zones      *zones.Registry
	dispatcher Dispatcher
	telemetry  ports.TelemetryStore
	live       ports.LivePositionCache
	now        func() time.Time
}

// NewEngine creates an engine. A nil Tracker gets a fresh one.
func NewEngine(deps EngineDeps) *Engine {
	if deps.Tracker == nil {
		deps.Tracker = NewTracker()
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &Engine{
		tracker:    deps.Tracker,
		zones:      deps.Zones,
		dispatcher: deps.Dispatcher,
		telemetry:  deps.Telemetry,
		live:       deps.Live,
		now:        deps.Clock,
	}
}

// Tracker exposes the live position state
func (e *Engine) Tracker() *Tracker {
	return e.tracker
}

// HandleSample processes one position report from a rider and returns the
// alerts that fired for it. Samples are stamped with the engine clock.
func (e *Engine) HandleSample(ctx context.Context, riderID string, lat, lon float64) ([]Alert, error) {
	if riderID == "" {
		return nil, fmt.Errorf("rider id is required")
	}
	if !validCoordinate(lat, lon) {
		return nil, fmt.Errorf("coordinate out of range: lat=%f lon=%f", lat, lon)
	}

	now := e.now()
	state, moved := e.tracker.Update(riderID, lat, lon, now)
	if moved {
		log.Printf("📍 Rider %s moved to (%.6f, %.6f)", riderID, lat, lon)
	}

	e.persist(ctx, riderID, lat, lon, now)

	if e.dispatcher != nil {
		e.dispatcher.BroadcastToObservers(PositionBroadcast{
			RiderID: riderID,
			Lat:     lat,
			Lon:     lon,
		})
	}

	alerts := e.evaluate(riderID, state, lat, lon, now)
	for _, alert := range alerts {
		e.send(riderID, alert)
	}
	return alerts, nil
}

// persist stores the raw sample and mirrors it into the live cache.
// Neither failure stops the sample from being processed.
func (e *Engine) persist(ctx context.Context, riderID string, lat, lon float64, now time.Time) {
	if e.telemetry != nil {
		sctx, cancel := context.WithTimeout(ctx, storeTimeout)
		err := e.telemetry.Append(sctx, models.GPSSample{
			RiderID:   riderID,
			Latitude:  lat,
			Longitude: lon,
			Timestamp: now,
		})
		cancel()
		if err != nil {
			log.Printf("❌ Error saving GPS sample for rider %s: %v", riderID, err)
		}
	}

	if e.live != nil {
		sctx, cancel := context.WithTimeout(ctx, storeTimeout)
		err := e.live.Set(sctx, riderID, geo.Point{Lat: lat, Lon: lon})
		cancel()
		if err != nil {
			log.Printf("⚠️ Live cache update failed for rider %s: %v", riderID, err)
		}
	}
}

func (e *Engine) evaluate(riderID string, state RiderState, lat, lon float64, now time.Time) []Alert {
	if now.Sub(state.LastMoveTime) <= StationaryThreshold {
		return nil
	}

	var alerts []Alert

	if e.tracker.TryFire(riderID, AlertStationary, now, StationaryCooldown) {
		alerts = append(alerts, StationaryWarning{
			Type:    TypeStationaryWarning,
			Message: stationaryMessage,
		})
	}

	if e.zones == nil || !e.tracker.CooldownElapsed(riderID, AlertRedirect, now, RedirectCooldown) {
		return alerts
	}

	zone, ok := e.zones.NearestUnderServed(lat, lon, e.tracker.Positions())
	if !ok {
		return alerts
	}
	if e.tracker.TryFire(riderID, AlertRedirect, now, RedirectCooldown) {
		alerts = append(alerts, RedirectSuggestion{
			Type:    TypeRedirectToZone,
			ZoneID:  zone.ID,
			Lat:     zone.Latitude,
			Lon:     zone.Longitude,
			Title:   redirectTitle,
			Message: fmt.Sprintf("%s has fewer riders. Moving there may increase orders.", zone.ID),
		})
	}
	return alerts
}

func (e *Engine) send(riderID string, alert Alert) {
	if e.dispatcher == nil {
		return
	}
	if err := e.dispatcher.SendTo(riderID, alert); err != nil {
		log.Printf("⚠️ Could not deliver %s to rider %s: %v", alert.AlertType(), riderID, err)
		return
	}
	log.Printf("📤 Sent %s to rider %s", alert.AlertType(), riderID)
}

func validCoordinate(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
