package ws

import (
	"net/http"
	"strings"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/newsroom/internal/ports"
)

var connectedMsg = []byte(`{"type":"connected"}`)

func tokenFrom(r *http.Request) string {
	if t := r.URL.Query().Get("token"); t != "" {
		return t
	}
	if t, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return t
	}
	return r.Header.Get("X-Auth")
}

// WSHandler upgrades an authenticated request and joins the caller's user
// room. Browsers cannot set headers on the handshake, so the token may come
// as ?token=.
func WSHandler(hub *Hub, auth ports.AuthService, log *logger.ZapLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := auth.ValidateToken(r.Context(), tokenFrom(r))
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Log(logger.LogEntry{Level: "warn", Message: "ws upgrade failed", Error: err})
			return
		}

		room := UserRoom(claims.UserID)
		client := hub.Register(room, conn)
		log.Log(logger.LogEntry{
			Level:   "debug",
			Message: "ws connected",
			Fields:  map[string]any{"user_id": claims.UserID},
		})
		defer func() {
			hub.Unregister(room, client)
			log.Log(logger.LogEntry{
				Level:   "debug",
				Message: "ws disconnected",
				Fields:  map[string]any{"user_id": claims.UserID},
			})
		}()

		hub.Send(client, connectedMsg)

		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})

		// clients only send pongs and keepalives
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}
