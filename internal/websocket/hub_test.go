package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"rider-fleet-backend/internal/tracking"
	"rider-fleet-backend/internal/zones"
)

func testClient(id, role string, buffer int) *Client {
	return &Client{ID: id, Role: role, send: make(chan []byte, buffer)}
}

func TestSendToUnknownClient(t *testing.T) {
	h := NewHub()
	if err := h.SendTo("nobody", map[string]string{"type": "x"}); !errors.Is(err, ErrClientNotFound) {
		t.Errorf("err = %v, want ErrClientNotFound", err)
	}
}

func TestSendToDeliversJSON(t *testing.T) {
	h := NewHub()
	c := testClient("r1", RoleRider, 1)
	h.Register(c)

	if err := h.SendTo("r1", map[string]string{"type": "STATIONARY_WARNING"}); err != nil {
		t.Fatalf("SendTo: %v", err)
	}
	if got := string(<-c.send); got != `{"type":"STATIONARY_WARNING"}` {
		t.Errorf("payload = %s", got)
	}
}

func TestSendToFullBufferDisconnects(t *testing.T) {
	h := NewHub()
	c := testClient("r1", RoleRider, 1)
	h.Register(c)

	h.SendTo("r1", "first")
	if err := h.SendTo("r1", "second"); !errors.Is(err, ErrSendBufferFull) {
		t.Fatalf("err = %v, want ErrSendBufferFull", err)
	}
	if h.IsConnected("r1") {
		t.Error("client with full buffer should be removed")
	}
}

func TestUnregisterOnlyRemovesSameConnection(t *testing.T) {
	h := NewHub()
	old := testClient("r1", RoleRider, 1)
	h.Register(old)

	fresh := testClient("r1", RoleRider, 1)
	h.Register(fresh)

	// Old connection's teardown runs after the reconnect
	h.Unregister(old)

	if !h.IsConnected("r1") {
		t.Fatal("reconnected client was evicted by stale teardown")
	}
	if err := h.SendTo("r1", "hello"); err != nil {
		t.Fatalf("SendTo: %v", err)
	}
	if len(fresh.send) != 1 {
		t.Error("message should reach the new connection")
	}

	h.Unregister(fresh)
	if h.IsConnected("r1") {
		t.Error("Unregister of the current connection should remove it")
	}
}

func TestBroadcastToObserversPrunesSlowObservers(t *testing.T) {
	h := NewHub()
	fast := testClient("obs-fast", RoleObserver, 4)
	slow := testClient("obs-slow", RoleObserver, 1)
	rider := testClient("r1", RoleRider, 4)
	h.Register(fast)
	h.Register(slow)
	h.Register(rider)

	slow.send <- []byte("backlog")

	h.BroadcastToObservers(tracking.PositionBroadcast{RiderID: "r1", Lat: 52.52, Lon: 13.405})

	if h.IsConnected("obs-slow") {
		t.Error("observer with full buffer should be pruned")
	}
	if !h.IsConnected("obs-fast") {
		t.Error("healthy observer should stay connected")
	}
	if len(rider.send) != 0 {
		t.Error("riders must not receive observer broadcasts")
	}

	var got map[string]interface{}
	if err := json.Unmarshal(<-fast.send, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 3 || got["rider_id"] != "r1" || got["lat"] != 52.52 || got["lon"] != 13.405 {
		t.Errorf("payload = %v, want exactly rider_id/lat/lon", got)
	}
}

func TestHubConcurrentAccess(t *testing.T) {
	h := NewHub()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := testClient(string(rune('a'+i)), RoleObserver, 64)
			h.Register(c)
			for j := 0; j < 20; j++ {
				h.BroadcastToObservers(map[string]int{"n": j})
			}
			h.Unregister(c)
		}(i)
	}
	wg.Wait()

	if n := h.GetClientCount(); n != 0 {
		t.Errorf("GetClientCount = %d, want 0", n)
	}
}

func TestParseSample(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		wantOK bool
	}{
		{"sample", `{"lat":52.52,"lon":13.405}`, true},
		{"ping", `{"type":"PING"}`, false},
		{"lowercase ping", `{"type":"ping"}`, false},
		{"missing lon", `{"lat":52.52}`, false},
		{"string coordinates", `{"lat":"52.52","lon":"13.4"}`, false},
		{"not json", `hello`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, ok := parseSample([]byte(tt.in))
			if ok != tt.wantOK {
				t.Errorf("parseSample(%s) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
		})
	}
}

func TestRiderSampleReachesObserver(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	engine := tracking.NewEngine(tracking.EngineDeps{
		Zones:      zones.NewRegistry(zones.DefaultZones(), nil),
		Dispatcher: hub,
	})

	r := chi.NewRouter()
	r.Get("/ws/rider/{riderID}", HandleRiderSocket(ctx, hub, engine))
	r.Get("/ws/admin", HandleObserverSocket(ctx, hub))
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	observer, _, err := websocket.DefaultDialer.Dial(wsURL+"/ws/admin", nil)
	if err != nil {
		t.Fatalf("dial observer: %v", err)
	}
	defer observer.Close()

	rider, _, err := websocket.DefaultDialer.Dial(wsURL+"/ws/rider/r42", nil)
	if err != nil {
		t.Fatalf("dial rider: %v", err)
	}
	defer rider.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.GetClientCount() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if err := rider.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	if err := rider.WriteMessage(websocket.TextMessage, []byte(`{"lat":52.52,"lon":13.405}`)); err != nil {
		t.Fatalf("write sample: %v", err)
	}

	observer.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := observer.ReadMessage()
	if err != nil {
		t.Fatalf("observer read: %v", err)
	}

	var got tracking.PositionBroadcast
	if err := json.Unmarshal(msg, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.RiderID != "r42" || got.Lat != 52.52 || got.Lon != 13.405 {
		t.Errorf("broadcast = %+v", got)
	}
	if _, ok := engine.Tracker().Get("r42"); !ok {
		t.Error("rider should be tracked after its first sample")
	}
}
