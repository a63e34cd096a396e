package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hoyspace-api/models"

	"github.com/jmoiron/sqlx"
)

const notificationColumns = "id, user_id, title, message, type, is_read, created_at"

// NotificationRepository provides access to the notifications table.
type NotificationRepository struct {
	q sqlx.ExtContext
}

func NewNotificationRepository(q sqlx.ExtContext) *NotificationRepository {
	return &NotificationRepository{q: q}
}

// Create appends a notification. An empty type is stored as "system".
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.Type == "" {
		n.Type = models.NotificationSystem
	}
	ts := now()
	res, err := r.q.ExecContext(ctx,
		"INSERT INTO notifications (user_id, title, message, type, is_read, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		n.UserID, n.Title, n.Message, n.Type, false, ts)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	n.ID, n.IsRead, n.CreatedAt = id, false, ts
	return nil
}

func (r *NotificationRepository) FindByID(ctx context.Context, id int64) (*models.Notification, error) {
	var n models.Notification
	err := sqlx.GetContext(ctx, r.q, &n, "SELECT "+notificationColumns+" FROM notifications WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get notification: %w", err)
	}
	return &n, nil
}

// FindByUser lists a user's notifications, newest first.
func (r *NotificationRepository) FindByUser(ctx context.Context, userID int64) ([]models.Notification, error) {
	out := []models.Notification{}
	err := sqlx.SelectContext(ctx, r.q, &out,
		"SELECT "+notificationColumns+" FROM notifications WHERE user_id = ? ORDER BY created_at DESC, id DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

// MarkRead flags one of userID's notifications as read. Re-marking is harmless.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int64) (int64, error) {
	res, err := r.q.ExecContext(ctx, "UPDATE notifications SET is_read = ? WHERE id = ? AND user_id = ?", true, id, userID)
	if err != nil {
		return 0, fmt.Errorf("mark notification read: %w", err)
	}
	return res.RowsAffected()
}

// MarkAllRead flags every notification of userID as read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	res, err := r.q.ExecContext(ctx, "UPDATE notifications SET is_read = ? WHERE user_id = ? AND is_read = ?", true, userID, false)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return res.RowsAffected()
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n, "SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = ?", userID, false)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}
