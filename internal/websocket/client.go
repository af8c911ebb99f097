package websocket

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"rider-fleet-backend/internal/tracking"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 2048

	sendBufferSize = 256
)

// SampleHandler consumes position samples read from rider connections
type SampleHandler interface {
	HandleSample(ctx context.Context, riderID string, lat, lon float64) ([]tracking.Alert, error)
}

// Client represents a WebSocket client connection
type Client struct {
	ID      string
	Role    string // "rider" or "observer"
	conn    *websocket.Conn
	hub     *Hub
	send    chan []byte
	samples SampleHandler
}

// NewClient creates a new WebSocket client. samples may be nil for observers.
func NewClient(id, role string, conn *websocket.Conn, hub *Hub, samples SampleHandler) *Client {
	return &Client{
		ID:      id,
		Role:    role,
		conn:    conn,
		hub:     hub,
		send:    make(chan []byte, sendBufferSize),
		samples: samples,
	}
}

// ReadPump pumps messages from the WebSocket connection into the engine.
// It returns when the peer disconnects or ctx is cancelled.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
		if ctx.Err() != nil {
			return
		}

		// Observers only listen
		if c.Role != RoleRider || c.samples == nil {
			continue
		}

		lat, lon, ok := parseSample(message)
		if !ok {
			continue
		}
		if _, err := c.samples.HandleSample(ctx, c.ID, lat, lon); err != nil {
			log.Printf("❌ Rejected sample from rider %s: %v", c.ID, err)
		}
	}
}

// WritePump pumps messages from the hub to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One JSON document per frame
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// parseSample extracts a {lat, lon} position from a raw frame. Keep-alives
// and anything malformed are dropped.
func parseSample(message []byte) (lat, lon float64, ok bool) {
	var data map[string]interface{}
	if err := json.Unmarshal(message, &data); err != nil {
		log.Printf("Invalid message format: %v", err)
		return 0, 0, false
	}

	if t, isString := data["type"].(string); isString && strings.EqualFold(t, "ping") {
		return 0, 0, false
	}

	lat, latOK := data["lat"].(float64)
	lon, lonOK := data["lon"].(float64)
	if !latOK || !lonOK {
		log.Printf("❌ Invalid lat/lon in sample: %s", truncate(message, 120))
		return 0, 0, false
	}
	return lat, lon, true
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
