package service

import (
	"context"
	"errors"
	"strings"

	"hoyspace-api/apperr"
	"hoyspace-api/auth"
	"hoyspace-api/models"
	"hoyspace-api/notify"
	"hoyspace-api/repository"

	"github.com/jmoiron/sqlx"
)

// ChatService handles direct messages between two users.
type ChatService struct {
	messages *repository.MessageRepository
	users    *repository.UserRepository
	pub      notify.Publisher
}

func NewChatService(db *sqlx.DB, pub notify.Publisher) *ChatService {
	if pub == nil {
		pub = notify.Nop{}
	}
	return &ChatService{
		messages: repository.NewMessageRepository(db),
		users:    repository.NewUserRepository(db),
		pub:      pub,
	}
}

// Send stores a message and pushes it to the receiver.
func (s *ChatService) Send(ctx context.Context, actor auth.Identity, req models.SendMessageRequest) (*models.MessageDetail, error) {
	req.Content = strings.TrimSpace(req.Content)
	if err := validate.Struct(req); err != nil {
		return nil, apperr.Validation("Receiver and content are required")
	}
	if req.ReceiverID == actor.ID {
		return nil, apperr.Validation("Cannot send a message to yourself")
	}
	if _, err := s.users.FindByID(ctx, req.ReceiverID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Receiver not found")
		}
		return nil, apperr.Internal("load receiver", err)
	}

	msg := &models.Message{SenderID: actor.ID, ReceiverID: req.ReceiverID, Content: req.Content}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, apperr.Internal("create message", err)
	}
	detail, err := s.messages.FindByID(ctx, msg.ID)
	if err != nil {
		return nil, apperr.Internal("load message", err)
	}

	s.pub.Publish(req.ReceiverID, notify.Event{Type: notify.EventMessage, Data: detail})
	return detail, nil
}

// Thread returns the messages between the actor and another user, oldest first.
func (s *ChatService) Thread(ctx context.Context, actor auth.Identity, otherID int64) ([]models.MessageDetail, error) {
	list, err := s.messages.Thread(ctx, actor.ID, otherID)
	if err != nil {
		return nil, apperr.Internal("load thread", err)
	}
	return list, nil
}

func (s *ChatService) Conversations(ctx context.Context, actor auth.Identity) ([]models.Conversation, error) {
	list, err := s.messages.Conversations(ctx, actor.ID)
	if err != nil {
		return nil, apperr.Internal("list conversations", err)
	}
	return list, nil
}

// MarkRead flags every message otherID sent to the actor as read.
func (s *ChatService) MarkRead(ctx context.Context, actor auth.Identity, otherID int64) error {
	if _, err := s.messages.MarkThreadRead(ctx, actor.ID, otherID); err != nil {
		return apperr.Internal("mark messages read", err)
	}
	return nil
}
