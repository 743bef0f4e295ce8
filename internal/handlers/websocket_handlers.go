package handlers

import (
	"log"
	"net/http"

	"ink-well/internal/middleware"
	"ink-well/internal/websocket"

	gorilla "github.com/gorilla/websocket"
)

var upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The CORS allowlist is enforced at the HTTP layer; the upgrade itself
	// is gated by the admin token below.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleDashboardSocket upgrades an admin connection to a websocket and
// streams dashboard events to it. Browsers cannot set headers on websocket
// requests, so the JWT rides in the token query parameter.
func (s *Server) HandleDashboardSocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "Authentication token required", http.StatusUnauthorized)
			return
		}

		claims, err := middleware.ValidateToken(token)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}
		if !claims.IsAdmin {
			http.Error(w, "Admin access required", http.StatusForbidden)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade error: %v", err)
			return
		}

		client := &websocket.Client{Hub: s.Hub, Conn: conn, Send: make(chan []byte, 256)}
		s.Hub.Register <- client

		go client.WritePump()
		go client.ReadPump()
	}
}
