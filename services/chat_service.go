package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"pairchat/auth"
	"pairchat/domain"
	"pairchat/errors"
	"pairchat/moderation"
	"pairchat/repositories"
	"pairchat/search"
)

// MessageSink receives the acknowledgment for a submission. The sender's
// own connection implements it, so the ack always reaches the handle that
// submitted, even if a newer connection superseded it in the registry.
type MessageSink interface {
	SendMessage(message domain.Message) bool
}

// Delivery pushes a message to a recipient's live connection, reporting
// false when the recipient is offline.
type Delivery interface {
	Deliver(userID string, message domain.Message) bool
}

type IChatService interface {
	Submit(ctx context.Context, from domain.Identity, to, content string, sender MessageSink) (domain.Message, error)
	History(conversationID string) ([]domain.Message, error)
	SearchMessages(ctx context.Context, conversationID, terms string, limit int) ([]search.Hit, error)
	Contacts(callerID string) ([]domain.Identity, error)
}

// ChatService is the message router: it owns the validate, moderate,
// persist, deliver, acknowledge pipeline for every submission.
type ChatService struct {
	log               *slog.Logger
	messageRepository repositories.IMessageRepository
	userRepository    repositories.IUserRepository
	moderator         *moderation.Moderator
	index             *search.Index
	delivery          Delivery
}

func NewChatService(log *slog.Logger, messages repositories.IMessageRepository,
	users repositories.IUserRepository, moderator *moderation.Moderator,
	index *search.Index, delivery Delivery) *ChatService {
	return &ChatService{
		log:               log,
		messageRepository: messages,
		userRepository:    users,
		moderator:         moderator,
		index:             index,
		delivery:          delivery,
	}
}

// Submit validates and persists an outgoing message, delivers it to the
// recipient if connected, and acknowledges the canonical message to the
// sender. Persistence happens strictly before any delivery or ack: a
// failed append aborts the whole operation.
func (s *ChatService) Submit(ctx context.Context, from domain.Identity, to, content string,
	sender MessageSink) (domain.Message, error) {
	if err := auth.ValidateSubmit(auth.SubmitRequest{To: to, Content: content}); err != nil {
		return domain.Message{}, errors.ErrValidation
	}

	censored := content
	if s.moderator != nil {
		censored = s.moderator.Censor(content)
	}

	message := domain.Message{
		ID:             uuid.New(),
		ConversationID: domain.ConversationIDFor(from.ID, to),
		From:           from.ID,
		To:             to,
		Content:        censored,
		Lang:           whatlanggo.LangToString(whatlanggo.Detect(censored).Lang),
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.messageRepository.Append(message); err != nil {
		s.log.Error("append failed, message not delivered",
			"conversation_id", message.ConversationID, "error", err)
		return domain.Message{}, err
	}

	// Indexing is best-effort: the message is durable either way.
	if s.index != nil {
		if err := s.index.Add(message); err != nil {
			s.log.Warn("failed to index message", "message_id", message.ID, "error", err)
		}
	}

	if !s.delivery.Deliver(to, message) {
		s.log.Debug("recipient offline, delivery skipped",
			"to", to, "message_id", message.ID)
	}

	if sender != nil {
		sender.SendMessage(message)
	}
	return message, nil
}

// History returns a conversation's log in insertion order.
func (s *ChatService) History(conversationID string) ([]domain.Message, error) {
	return s.messageRepository.Read(conversationID)
}

// SearchMessages runs a full-text query scoped to one conversation.
func (s *ChatService) SearchMessages(ctx context.Context, conversationID, terms string, limit int) ([]search.Hit, error) {
	if s.index == nil {
		return []search.Hit{}, nil
	}
	return s.index.Search(ctx, conversationID, terms, limit)
}

// Contacts lists every registered user except the caller.
func (s *ChatService) Contacts(callerID string) ([]domain.Identity, error) {
	users, err := s.userRepository.ListUsers()
	if err != nil {
		return nil, err
	}

	others := lo.Filter(users, func(u repositories.User, _ int) bool {
		return u.ID != callerID
	})
	return lo.Map(others, func(u repositories.User, _ int) domain.Identity {
		return toIdentity(u)
	}), nil
}
