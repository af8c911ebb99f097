package websocket

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origins are restricted by the CORS layer for HTTP; sockets accept all
		return true
	},
}

// HandleRiderSocket upgrades /ws/rider/{riderID} and streams the rider's
// samples into the engine. ctx bounds the connection's lifetime.
func HandleRiderSocket(ctx context.Context, hub *Hub, samples SampleHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		riderID := chi.URLParam(r, "riderID")
		if riderID == "" {
			http.Error(w, "rider id is required", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("❌ WebSocket upgrade failed: %v", err)
			return
		}

		client := NewClient(riderID, RoleRider, conn, hub, samples)
		hub.Register(client)

		go client.WritePump()
		go client.ReadPump(ctx)
	}
}

// HandleObserverSocket upgrades /ws/admin. Observers receive every
// accepted rider position.
func HandleObserverSocket(ctx context.Context, hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("❌ WebSocket upgrade failed: %v", err)
			return
		}

		client := NewClient(uuid.NewString(), RoleObserver, conn, hub, nil)
		hub.Register(client)

		go client.WritePump()
		go client.ReadPump(ctx)
	}
}
