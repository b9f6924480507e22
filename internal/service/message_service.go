package service

import (
	"context"
	"time"

	"github.com/courierhq/courier/internal/domain"
	"github.com/courierhq/courier/internal/repository"
)

type MessageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
}

func NewMessageService(messageRepo repository.MessageRepository, userRepo repository.UserRepository) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
	}
}

// OutboundMessage is a sent message with the recipient's identity attached.
type OutboundMessage struct {
	ID     uint                  `json:"id"`
	Body   string                `json:"body"`
	SentAt time.Time             `json:"sentAt"`
	ReadAt *time.Time            `json:"readAt"`
	ToUser domain.PublicIdentity `json:"toUser"`
}

// InboundMessage is a received message with the sender's identity attached.
type InboundMessage struct {
	ID       uint                  `json:"id"`
	Body     string                `json:"body"`
	SentAt   time.Time             `json:"sentAt"`
	ReadAt   *time.Time            `json:"readAt"`
	FromUser domain.PublicIdentity `json:"fromUser"`
}

// MessagesFrom lists messages sent by username, oldest first. Unlike
// Authenticate, an unknown user fails loudly with domain.ErrUserNotFound even
// though the underlying query would just come back empty; these endpoints owe
// the caller explicit 404 semantics.
func (s *MessageService) MessagesFrom(ctx context.Context, username string) ([]OutboundMessage, error) {
	if err := s.requireUser(ctx, username); err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.ListFrom(ctx, username)
	if err != nil {
		return nil, err
	}

	outbound := make([]OutboundMessage, 0, len(messages))
	for _, m := range messages {
		outbound = append(outbound, OutboundMessage{
			ID:     m.ID,
			Body:   m.Body,
			SentAt: m.SentAt,
			ReadAt: m.ReadAt,
			ToUser: m.ToUser.Public(),
		})
	}
	return outbound, nil
}

// MessagesTo lists messages received by username, oldest first.
func (s *MessageService) MessagesTo(ctx context.Context, username string) ([]InboundMessage, error) {
	if err := s.requireUser(ctx, username); err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.ListTo(ctx, username)
	if err != nil {
		return nil, err
	}

	inbound := make([]InboundMessage, 0, len(messages))
	for _, m := range messages {
		inbound = append(inbound, InboundMessage{
			ID:       m.ID,
			Body:     m.Body,
			SentAt:   m.SentAt,
			ReadAt:   m.ReadAt,
			FromUser: m.FromUser.Public(),
		})
	}
	return inbound, nil
}

func (s *MessageService) Send(ctx context.Context, from, to, body string) (*domain.Message, error) {
	message := &domain.Message{
		FromUsername: from,
		ToUsername:   to,
		Body:         body,
		SentAt:       time.Now(),
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *MessageService) Get(ctx context.Context, id uint) (*domain.Message, error) {
	return s.messageRepo.GetByID(ctx, id)
}

// MarkRead stamps read_at on a message and returns the new value.
func (s *MessageService) MarkRead(ctx context.Context, id uint) (time.Time, error) {
	now := time.Now()
	affected, err := s.messageRepo.MarkRead(ctx, id, now)
	if err != nil {
		return time.Time{}, err
	}
	if affected == 0 {
		return time.Time{}, domain.ErrMessageNotFound
	}
	return now, nil
}

func (s *MessageService) requireUser(ctx context.Context, username string) error {
	exists, err := s.userRepo.Exists(ctx, username)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrUserNotFound
	}
	return nil
}
