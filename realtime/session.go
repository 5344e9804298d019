package realtime

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"pairchat/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 256
)

// Session is the transient handle for one live connection. It is owned by
// exactly one identity for its whole lifetime; a reconnecting user gets a
// brand-new Session.
type Session struct {
	identity domain.Identity
	conn     *websocket.Conn
	send     chan []byte
	done     chan struct{}
	once     sync.Once
	log      *slog.Logger
}

func NewSession(log *slog.Logger, conn *websocket.Conn, identity domain.Identity) *Session {
	return &Session{
		identity: identity,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		done:     make(chan struct{}),
		log:      log,
	}
}

func (s *Session) Identity() domain.Identity {
	return s.identity
}

// SendMessage pushes a delivery or acknowledgment event. Returns false when
// the session can no longer accept frames (full buffer or closed).
func (s *Session) SendMessage(message domain.Message) bool {
	return s.enqueue(ServerEvent{Type: EventMessage, Message: &message})
}

func (s *Session) SendPresence(online []string) bool {
	return s.enqueue(ServerEvent{Type: EventPresence, Online: online})
}

func (s *Session) SendError(detail string) bool {
	return s.enqueue(ServerEvent{Type: EventError, Error: detail})
}

// enqueue is non-blocking: frames for a session that cannot keep up are
// refused rather than stalling the caller, and the hub drops the session.
func (s *Session) enqueue(event ServerEvent) bool {
	payload, err := json.Marshal(event)
	if err != nil {
		s.log.Error("failed to marshal server event", "error", err)
		return false
	}

	select {
	case <-s.done:
		return false
	case s.send <- payload:
		return true
	default:
		return false
	}
}

// Close terminates the session exactly once. Safe to call from any
// goroutine and from multiple paths (read error, hub eviction, shutdown).
func (s *Session) Close() {
	s.once.Do(func() {
		close(s.done)
		if s.conn != nil {
			_ = s.conn.Close()
		}
	})
}

// ReadPump consumes client frames until the transport closes and hands
// every submit_message to the handler. It must run on the connection's
// reader goroutine; gorilla/websocket allows a single concurrent reader.
func (s *Session) ReadPump(onSubmit func(to, content string)) {
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.log.Warn("websocket read failed", "user_id", s.identity.ID, "error", err)
			}
			return
		}

		event, err := DecodeClientEvent(payload)
		if err != nil {
			s.SendError("malformed event")
			continue
		}

		switch event.Type {
		case EventSubmitMessage:
			onSubmit(event.To, event.Content)
		default:
			s.SendError(fmt.Sprintf("unknown event type %q", event.Type))
		}
	}
}

// WritePump drains the send queue onto the wire and keeps the connection
// alive with periodic pings. Frames leave in enqueue order, so presence
// snapshots can never be observed out of causal order by this client.
func (s *Session) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.Close()
	}()

	for {
		select {
		case <-s.done:
			return
		case payload := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
