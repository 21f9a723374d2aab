package config

import (
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
)

// DefaultReadLimit caps a single command script message.
const DefaultReadLimit = 64 << 10

type WebSocket struct {
	Upgrader  websocket.Upgrader
	ReadLimit int64
}

// NewWebSocket accepts upgrades from origins, or from any origin when the
// list is empty.
func NewWebSocket(origins []string) *WebSocket {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return len(origins) == 0 || origin == "" || slices.Contains(origins, origin)
		},
	}
	return &WebSocket{Upgrader: upgrader, ReadLimit: DefaultReadLimit}
}
