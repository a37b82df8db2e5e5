package realtime

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"scouthub/internal/platform/config"
)

// Serve runs the pumps for one websocket connection until the transport
// drops. It blocks, so the HTTP handler calls it on its own goroutine (the
// request goroutine) after a successful upgrade.
func Serve(hub *Hub, ws *websocket.Conn, userID string, cfg config.RealtimeConfig) {
	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	pingInterval := cfg.PingInterval
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}

	conn := hub.Attach(userID)

	done := make(chan struct{})
	go writePump(ws, conn, writeTimeout, pingInterval, done)

	// Read loop: the client sends nothing we act on, but reading is what
	// surfaces close frames and dead transports.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	hub.Detach(conn)
	close(done)
	ws.Close()
}

func writePump(ws *websocket.Conn, conn *Conn, writeTimeout, pingInterval time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case e, ok := <-conn.Events():
			if !ok {
				return
			}
			ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := ws.WriteJSON(e); err != nil {
				log.Debug().Str("user_id", conn.UserID).Err(err).Msg("realtime write failed")
				ws.Close()
				return
			}
		case <-ticker.C:
			ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				ws.Close()
				return
			}
		case <-done:
			return
		}
	}
}
