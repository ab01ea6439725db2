package ws

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jmylchreest/hued/internal/events"
)

// The listener is local and guarded by the API key middleware, so any
// origin is accepted.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// ParseTypes parses a comma-separated list of event type names
func ParseTypes(list string) ([]events.EventType, error) {
	var types []events.EventType
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		t, ok := events.ParseType(name)
		if !ok {
			return nil, fmt.Errorf("unknown event type %q", name)
		}
		types = append(types, t)
	}
	return types, nil
}

// Handler upgrades requests to WebSocket connections attached to hub. The
// optional "types" query parameter restricts which events are pushed.
func Handler(hub *Hub, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		types, err := ParseTypes(r.URL.Query().Get("types"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("ws: upgrade failed", "error", err, "remote_addr", r.RemoteAddr)
			return
		}

		client := hub.NewClient(conn, types...)
		if err := hub.Attach(client); err != nil {
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error()),
				time.Now().Add(writeWait))
			conn.Close()
			return
		}

		go client.writePump()
		go client.readPump()
	}
}
