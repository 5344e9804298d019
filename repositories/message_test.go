package repositories

import (
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"pairchat/domain"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newMessage(conversationID, from, to, content string, at time.Time) domain.Message {
	return domain.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		From:           from,
		To:             to,
		Content:        content,
		CreatedAt:      at,
	}
}

func Test_Append_Then_Read_InOrder(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	alice, bob := uuid.NewString(), uuid.NewString()
	conversationID := domain.ConversationIDFor(alice, bob)
	at := time.Now().UTC()

	messages := []domain.Message{
		newMessage(conversationID, alice, bob, "hello", at),
		newMessage(conversationID, bob, alice, "hi yourself", at.Add(1*time.Second)),
		newMessage(conversationID, alice, bob, "how are you?", at.Add(2*time.Second)),
	}
	for _, message := range messages {
		req.NoError(repository.Append(message))
	}

	fetched, err := repository.Read(conversationID)
	req.NoError(err)
	req.Equal(messages, fetched)
}

func Test_Read_UnknownConversation_IsEmpty(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	fetched, err := repository.Read(domain.ConversationIDFor(uuid.NewString(), uuid.NewString()))
	req.NoError(err)
	req.Empty(fetched)
	req.NotNil(fetched)
}

func Test_Read_IsIdempotent(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	alice, bob := uuid.NewString(), uuid.NewString()
	conversationID := domain.ConversationIDFor(alice, bob)
	at := time.Now().UTC()
	for i := 0; i < 5; i++ {
		req.NoError(repository.Append(newMessage(conversationID, alice, bob,
			fmt.Sprintf("message %d", i), at.Add(time.Duration(i)*time.Millisecond))))
	}

	first, err := repository.Read(conversationID)
	req.NoError(err)
	second, err := repository.Read(conversationID)
	req.NoError(err)
	req.Equal(first, second)
}

// Concurrent appends against the same and different conversations must all
// survive: a read afterwards returns exactly the union of everything that
// was acknowledged, across repeated interleavings.
func Test_Concurrent_Appends_LoseNothing(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	alice, bob, clara := uuid.NewString(), uuid.NewString(), uuid.NewString()
	conversations := []string{
		domain.ConversationIDFor(alice, bob),
		domain.ConversationIDFor(alice, clara),
		domain.ConversationIDFor(bob, clara),
	}

	const writers = 8
	const perWriter = 25

	var mu sync.Mutex
	appended := make(map[string][]domain.Message)

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				conversationID := conversations[(w+i)%len(conversations)]
				message := newMessage(conversationID, alice, bob,
					fmt.Sprintf("writer %d message %d", w, i), time.Now().UTC())
				if err := repository.Append(message); err != nil {
					t.Error(err)
					return
				}
				mu.Lock()
				appended[conversationID] = append(appended[conversationID], message)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()

	total := 0
	for _, conversationID := range conversations {
		fetched, err := repository.Read(conversationID)
		req.NoError(err)
		req.ElementsMatch(appended[conversationID], fetched)
		total += len(fetched)
	}
	req.Equal(writers*perWriter, total)
}
