package search

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"pairchat/domain"
)

func TestIndex_AddAndSearch(t *testing.T) {
	req := require.New(t)
	index, err := Open("", slog.Default())
	req.NoError(err)
	t.Cleanup(func() { _ = index.Close() })

	alice, bob, clara := uuid.NewString(), uuid.NewString(), uuid.NewString()
	conversationAB := domain.ConversationIDFor(alice, bob)
	conversationAC := domain.ConversationIDFor(alice, clara)

	messages := []domain.Message{
		{ID: uuid.New(), ConversationID: conversationAB, From: alice, To: bob, Content: "let's grab lunch tomorrow", CreatedAt: time.Now().UTC()},
		{ID: uuid.New(), ConversationID: conversationAB, From: bob, To: alice, Content: "lunch works for me", CreatedAt: time.Now().UTC()},
		{ID: uuid.New(), ConversationID: conversationAC, From: alice, To: clara, Content: "lunch some other day?", CreatedAt: time.Now().UTC()},
	}
	for _, message := range messages {
		req.NoError(index.Add(message))
	}

	hits, err := index.Search(context.Background(), conversationAB, "lunch", 10)
	req.NoError(err)
	req.Len(hits, 2)
	req.ElementsMatch(
		[]string{messages[0].ID.String(), messages[1].ID.String()},
		lo.Map(hits, func(h Hit, _ int) string { return h.MessageID }))

	hits, err = index.Search(context.Background(), conversationAB, "nonexistent", 10)
	req.NoError(err)
	req.Empty(hits)
}
