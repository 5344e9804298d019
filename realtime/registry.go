package realtime

import "sync"

// Registry maps each user id to their single live session. All operations
// are atomic with respect to each other; no caller ever observes a
// partially applied mutation.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Register installs the session as the current live connection for its
// user, superseding any previous one (last-writer-wins). The previous
// session is returned so the caller may close it; it is no longer a
// delivery target either way.
func (r *Registry) Register(session *Session) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous := r.sessions[session.Identity().ID]
	r.sessions[session.Identity().ID] = session
	return previous
}

// Unregister removes the mapping only if the registered session is this
// exact handle. This guards against the race where an old connection's
// teardown runs after a newer connection for the same user registered.
// Returns true when the mapping was actually removed.
func (r *Registry) Unregister(session *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.sessions[session.Identity().ID]
	if !ok || current != session {
		return false
	}
	delete(r.sessions, session.Identity().ID)
	return true
}

// Lookup returns the live session for a user, if any.
func (r *Registry) Lookup(userID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[userID]
	return session, ok
}

// Snapshot returns the ids of all currently registered users.
func (r *Registry) Snapshot() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	online := make([]string, 0, len(r.sessions))
	for userID := range r.sessions {
		online = append(online, userID)
	}
	return online
}

func (r *Registry) all() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]*Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		sessions = append(sessions, session)
	}
	return sessions
}
