package service

import (
	"context"
	"errors"

	"hoyspace-api/apperr"
	"hoyspace-api/auth"
	"hoyspace-api/metrics"
	"hoyspace-api/models"
	"hoyspace-api/notify"
	"hoyspace-api/repository"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
)

// NotificationService creates notifications and serves a user's inbox.
type NotificationService struct {
	db            *sqlx.DB
	notifications *repository.NotificationRepository
	users         *repository.UserRepository
	pub           notify.Publisher
}

func NewNotificationService(db *sqlx.DB, pub notify.Publisher) *NotificationService {
	if pub == nil {
		pub = notify.Nop{}
	}
	return &NotificationService{
		db:            db,
		notifications: repository.NewNotificationRepository(db),
		users:         repository.NewUserRepository(db),
		pub:           pub,
	}
}

// emit inserts n through q, which may be a transaction. The caller pushes the
// notification with push once q has committed.
func (s *NotificationService) emit(ctx context.Context, q sqlx.ExtContext, n *models.Notification) error {
	return repository.NewNotificationRepository(q).Create(ctx, n)
}

func (s *NotificationService) push(n models.Notification) {
	metrics.IncNotification(n.Type)
	s.pub.Publish(n.UserID, notify.Event{Type: notify.EventNotification, Data: n})
}

// Create stores a notification for userID. kind defaults to "system".
func (s *NotificationService) Create(ctx context.Context, userID int64, title, message, kind string) (*models.Notification, error) {
	n := &models.Notification{UserID: userID, Title: title, Message: message, Type: kind}
	if err := s.emit(ctx, s.db, n); err != nil {
		return nil, apperr.Internal("create notification", err)
	}
	s.push(*n)
	return n, nil
}

// Send lets an admin notify any existing user.
func (s *NotificationService) Send(ctx context.Context, actor auth.Identity, req models.CreateNotificationRequest) (*models.Notification, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) && fields[0].Field() == "Type" {
			return nil, apperr.Validation("Invalid notification type")
		}
		return nil, apperr.Validation("userId, title and message are required")
	}
	if _, err := s.users.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal("load user", err)
	}
	return s.Create(ctx, req.UserID, req.Title, req.Message, req.Type)
}

func (s *NotificationService) ListForUser(ctx context.Context, actor auth.Identity) ([]models.Notification, error) {
	list, err := s.notifications.FindByUser(ctx, actor.ID)
	if err != nil {
		return nil, apperr.Internal("list notifications", err)
	}
	return list, nil
}

// MarkRead flags one of the actor's notifications as read. Marking an already
// read notification succeeds; someone else's notification is reported missing.
func (s *NotificationService) MarkRead(ctx context.Context, actor auth.Identity, id int64) error {
	n, err := s.notifications.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && n.UserID != actor.ID) {
		return apperr.NotFound("Notification not found")
	}
	if err != nil {
		return apperr.Internal("load notification", err)
	}
	if _, err := s.notifications.MarkRead(ctx, id, actor.ID); err != nil {
		return apperr.Internal("mark notification read", err)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, actor auth.Identity) error {
	if _, err := s.notifications.MarkAllRead(ctx, actor.ID); err != nil {
		return apperr.Internal("mark notifications read", err)
	}
	return nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, actor auth.Identity) (int, error) {
	n, err := s.notifications.CountUnread(ctx, actor.ID)
	if err != nil {
		return 0, apperr.Internal("count notifications", err)
	}
	return n, nil
}
