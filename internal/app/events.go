package app

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/specialistvlad/framegraph/internal/event"
)

const eventWriteTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// eventStream pushes bus events to websocket clients as JSON messages. The
// optional "kind" query parameter is a comma-separated filter.
type eventStream struct {
	bus    *event.Bus
	logger *slog.Logger
}

func (s *eventStream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var kinds map[event.Kind]bool
	if q := r.URL.Query().Get("kind"); q != "" {
		kinds = make(map[event.Kind]bool)
		for _, k := range strings.Split(q, ",") {
			kinds[event.Kind(strings.TrimSpace(k))] = true
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Event stream upgrade failed.", "remote_addr", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()

	events, cancel := s.bus.Subscribe(0)
	defer cancel()
	s.logger.Debug("Event stream client connected.", "remote_addr", r.RemoteAddr)

	// The read loop only detects the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			s.logger.Debug("Event stream client disconnected.", "remote_addr", r.RemoteAddr)
			return
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if kinds != nil && !kinds[ev.Kind] {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(eventWriteTimeout))
			if err := conn.WriteJSON(ev); err != nil {
				s.logger.Debug("Event stream write failed.", "error", err)
				return
			}
		}
	}
}
