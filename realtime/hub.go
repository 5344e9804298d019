package realtime

import (
	"log/slog"
	"sort"
	"sync"

	"pairchat/domain"
)

// Hub couples registry mutations to presence broadcasts. Its mutex makes
// each mutation + snapshot + fan-out step atomic with respect to the next
// one, so every connection observes presence snapshots in causal order.
type Hub struct {
	mu       sync.Mutex
	registry *Registry
	log      *slog.Logger
}

func NewHub(log *slog.Logger, registry *Registry) *Hub {
	return &Hub{registry: registry, log: log}
}

// Register installs the session and broadcasts the new presence snapshot to
// every live connection, including the one that just joined.
func (h *Hub) Register(session *Session) {
	h.mu.Lock()
	previous := h.registry.Register(session)
	failed := h.broadcastPresence()
	h.mu.Unlock()

	if previous != nil {
		h.log.Info("superseding previous connection", "user_id", session.Identity().ID)
		previous.Close()
	}
	h.evict(failed)
}

// Unregister removes the session if it is still the registered handle for
// its user, broadcasting the shrunken snapshot. A stale handle (already
// superseded by a newer connection) is a no-op with no presence change.
func (h *Hub) Unregister(session *Session) {
	h.mu.Lock()
	removed := h.registry.Unregister(session)
	var failed []*Session
	if removed {
		failed = h.broadcastPresence()
	}
	h.mu.Unlock()

	h.evict(failed)
}

// Deliver pushes a message event to the recipient's live session, if any.
// Returns false when the recipient is offline; the caller skips silently
// and the message stays discoverable through history.
func (h *Hub) Deliver(userID string, message domain.Message) bool {
	session, ok := h.registry.Lookup(userID)
	if !ok {
		return false
	}
	if !session.SendMessage(message) {
		h.log.Warn("dropping unresponsive session", "user_id", userID)
		h.Unregister(session)
		session.Close()
		return false
	}
	return true
}

// Online returns the current presence snapshot, sorted for determinism.
func (h *Hub) Online() []string {
	online := h.registry.Snapshot()
	sort.Strings(online)
	return online
}

// broadcastPresence sends the full current snapshot to every registered
// session. Must be called with h.mu held: the snapshot is taken strictly
// after the triggering mutation, and no later mutation can interleave
// before all sessions have the frame queued.
func (h *Hub) broadcastPresence() []*Session {
	online := h.registry.Snapshot()
	sort.Strings(online)

	var failed []*Session
	for _, session := range h.registry.all() {
		if !session.SendPresence(online) {
			failed = append(failed, session)
		}
	}
	return failed
}

// evict drops sessions whose send buffer was full during a broadcast. Each
// eviction triggers its own presence change; the set of sessions is finite,
// so the cascade terminates.
func (h *Hub) evict(failed []*Session) {
	for _, session := range failed {
		h.log.Warn("dropping unresponsive session", "user_id", session.Identity().ID)
		h.Unregister(session)
		session.Close()
	}
}
