package realtime

import (
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"pairchat/domain"
)

func testSession(userID string) *Session {
	return NewSession(slog.Default(), nil, domain.Identity{
		ID:       userID,
		Username: "user-" + userID[:8],
	})
}

func TestRegistry_Register_And_Lookup(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := uuid.NewString()
	session := testSession(userID)

	previous := registry.Register(session)
	req.Nil(previous)

	found, ok := registry.Lookup(userID)
	req.True(ok)
	req.Same(session, found)

	req.ElementsMatch([]string{userID}, registry.Snapshot())
}

func TestRegistry_Register_LastWriterWins(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := uuid.NewString()
	first := testSession(userID)
	second := testSession(userID)

	registry.Register(first)
	previous := registry.Register(second)
	req.Same(first, previous)

	found, ok := registry.Lookup(userID)
	req.True(ok)
	req.Same(second, found)

	// Only one entry per user, whatever the number of connections seen.
	req.Len(registry.Snapshot(), 1)
}

func TestRegistry_Unregister_OnlyMatchingHandle(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := uuid.NewString()
	old := testSession(userID)
	fresh := testSession(userID)

	registry.Register(old)
	registry.Register(fresh)

	// The old connection's teardown runs after the new one registered:
	// it must not remove the fresh mapping.
	req.False(registry.Unregister(old))
	found, ok := registry.Lookup(userID)
	req.True(ok)
	req.Same(fresh, found)

	req.True(registry.Unregister(fresh))
	_, ok = registry.Lookup(userID)
	req.False(ok)
	req.Empty(registry.Snapshot())
}
