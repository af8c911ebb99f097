// Package notify sends cooldown-gated idle and zone nudges to riders after
// their attendance has been classified.
package notify

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"rider-fleet-backend/internal/geo"
	"rider-fleet-backend/internal/models"
	"rider-fleet-backend/internal/ports"
	"rider-fleet-backend/internal/zones"
)

const (
	// IdleAfter is the sample age past which a rider counts as idle
	IdleAfter = 10 * time.Minute
	// Cooldown applies per rider across all nudge messages
	Cooldown = 30 * time.Minute

	IdleMessage = "You are idle. Move towards a high-demand zone to get more orders."
	ZoneMessage = "High demand nearby. Move towards a red zone to increase orders."
)

// ActiveZones lists the zones a rider should be inside
type ActiveZones interface {
	Active() []models.DemandZone
}

// LiveSender delivers a message to a connected rider
type LiveSender interface {
	SendTo(id string, data interface{}) error
}

// Pusher delivers a nudge to a rider's devices
type Pusher interface {
	SendZoneNudge(ctx context.Context, tokens []string, n models.Notification) error
}

// Deps bundles the notifier's collaborators. Live, Tokens and Pusher are optional.
type Deps struct {
	Telemetry     ports.TelemetryStore
	Notifications ports.NotificationStore
	Zones         ActiveZones
	Live          LiveSender
	Tokens        ports.DeviceTokenStore
	Pusher        Pusher
	Clock         func() time.Time
}

// Notifier decides whether a rider should be nudged and records the nudge.
type Notifier struct {
	deps Deps

	mu    sync.Mutex
	locks map[string]*sync.Mutex // Key: rider_id
}

// New creates a notifier
func New(deps Deps) *Notifier {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &Notifier{
		deps:  deps,
		locks: make(map[string]*sync.Mutex),
	}
}

// riderLock serializes checks for one rider so the cooldown read and the
// insert cannot interleave.
func (n *Notifier) riderLock(riderID string) *sync.Mutex {
	n.mu.Lock()
	defer n.mu.Unlock()
	l, ok := n.locks[riderID]
	if !ok {
		l = &sync.Mutex{}
		n.locks[riderID] = l
	}
	return l
}

// Check evaluates the rider's latest sample and persists a nudge when one is
// due. It returns nil when nothing was sent.
func (n *Notifier) Check(ctx context.Context, riderID string) (*models.Notification, error) {
	lock := n.riderLock(riderID)
	lock.Lock()
	defer lock.Unlock()

	latest, ok, err := n.deps.Telemetry.Latest(ctx, riderID)
	if err != nil {
		return nil, fmt.Errorf("load latest sample: %w", err)
	}
	if !ok {
		return nil, nil
	}

	now := n.deps.Clock()
	message := n.messageFor(latest, now)
	if message == "" {
		return nil, nil
	}

	recent, err := n.deps.Notifications.RecentExists(ctx, riderID, now.Add(-Cooldown))
	if err != nil {
		return nil, fmt.Errorf("check notification cooldown: %w", err)
	}
	if recent {
		return nil, nil
	}

	notification := models.Notification{
		ID:        uuid.NewString(),
		RiderID:   riderID,
		Message:   message,
		Type:      models.NotificationZoneNudge,
		CreatedAt: now,
	}
	if err := n.deps.Notifications.Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("save notification: %w", err)
	}
	log.Printf("🔔 Nudge queued for rider %s: %s", riderID, message)

	n.push(ctx, notification)
	return &notification, nil
}

// messageFor picks the nudge for a sample, or "" when the rider is fine
func (n *Notifier) messageFor(latest models.GPSSample, now time.Time) string {
	if now.Sub(latest.Timestamp) > IdleAfter {
		return IdleMessage
	}

	p := geo.Point{Lat: latest.Latitude, Lon: latest.Longitude}
	for _, z := range n.deps.Zones.Active() {
		if zones.Contains(z, p) {
			return ""
		}
	}
	return ZoneMessage
}

// push delivers the stored notification over every available channel.
// Failures are logged; the notification is already recorded.
func (n *Notifier) push(ctx context.Context, notification models.Notification) {
	if n.deps.Live != nil {
		if err := n.deps.Live.SendTo(notification.RiderID, notification); err != nil {
			log.Printf("⚠️ Rider %s not reachable over websocket: %v", notification.RiderID, err)
		}
	}

	if n.deps.Pusher == nil || n.deps.Tokens == nil {
		return
	}
	tokens, err := n.deps.Tokens.TokensFor(ctx, notification.RiderID)
	if err != nil {
		log.Printf("❌ Error loading FCM tokens for rider %s: %v", notification.RiderID, err)
		return
	}
	if len(tokens) == 0 {
		return
	}
	if err := n.deps.Pusher.SendZoneNudge(ctx, tokens, notification); err != nil {
		log.Printf("❌ FCM push failed for rider %s: %v", notification.RiderID, err)
	}
}
