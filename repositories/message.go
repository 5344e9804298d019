//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"pairchat/domain"
	"pairchat/errors"
)

type IMessageRepository interface {
	Append(message domain.Message) error
	Read(conversationID string) ([]domain.Message, error)
}

// MessageRepository is the durable, append-only conversation log.
//
// Each message is written under its own key, so an append never reads or
// rewrites the rest of the collection: concurrent appends to the same or
// different conversations commit independently and none can be lost.
type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

// messageKey formats "conv:{conversation}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding
//     (lexicographical order).
//  2. Keep ordering stable via the UUID as a collision disconnector when two
//     messages carry the same nanosecond.
func messageKey(message domain.Message) []byte {
	return []byte(fmt.Sprintf("conv:%s:%019d:%s",
		message.ConversationID,
		message.CreatedAt.UnixNano(),
		message.ID,
	))
}

// Append durably records the message as the new tail of its conversation.
func (m MessageRepository) Append(message domain.Message) error {
	bytes, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	err = m.db.Update(func(txn *badger.Txn) error {
		return txn.Set(messageKey(message), bytes)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return nil
}

// Read returns the conversation log in insertion order, or an empty slice if
// the conversation has no history. The whole scan runs inside one read
// transaction, so a log mid-append is never observed.
func (m MessageRepository) Read(conversationID string) ([]domain.Message, error) {
	messages := []domain.Message{}
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte("conv:" + conversationID + ":")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var message domain.Message
				if err := json.Unmarshal(value, &message); err != nil {
					return err
				}
				messages = append(messages, message)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}
