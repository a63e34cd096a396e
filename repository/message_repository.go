package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hoyspace-api/models"

	"github.com/jmoiron/sqlx"
)

const messageSelect = `SELECT m.id, m.content, m.is_read, m.created_at,
	s.id AS sender_id, s.name AS sender_name, s.image AS sender_image,
	r.id AS receiver_id, r.name AS receiver_name, r.image AS receiver_image
	FROM messages m
	JOIN users s ON m.sender_id = s.id
	JOIN users r ON m.receiver_id = r.id`

type messageRow struct {
	ID            int64     `db:"id"`
	Content       string    `db:"content"`
	IsRead        bool      `db:"is_read"`
	CreatedAt     time.Time `db:"created_at"`
	SenderID      int64     `db:"sender_id"`
	SenderName    string    `db:"sender_name"`
	SenderImage   string    `db:"sender_image"`
	ReceiverID    int64     `db:"receiver_id"`
	ReceiverName  string    `db:"receiver_name"`
	ReceiverImage string    `db:"receiver_image"`
}

func (row messageRow) toDetail() models.MessageDetail {
	return models.MessageDetail{
		ID:        row.ID,
		Content:   row.Content,
		IsRead:    row.IsRead,
		Sender:    models.UserSummary{ID: row.SenderID, Name: row.SenderName, Image: row.SenderImage},
		Receiver:  models.UserSummary{ID: row.ReceiverID, Name: row.ReceiverName, Image: row.ReceiverImage},
		CreatedAt: row.CreatedAt,
	}
}

// MessageRepository provides access to the messages table.
type MessageRepository struct {
	q sqlx.ExtContext
}

func NewMessageRepository(q sqlx.ExtContext) *MessageRepository {
	return &MessageRepository{q: q}
}

func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	ts := now()
	res, err := r.q.ExecContext(ctx,
		"INSERT INTO messages (sender_id, receiver_id, content, is_read, created_at) VALUES (?, ?, ?, ?, ?)",
		m.SenderID, m.ReceiverID, m.Content, false, ts)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	m.ID, m.IsRead, m.CreatedAt = id, false, ts
	return nil
}

func (r *MessageRepository) FindByID(ctx context.Context, id int64) (*models.MessageDetail, error) {
	var row messageRow
	err := sqlx.GetContext(ctx, r.q, &row, messageSelect+" WHERE m.id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}
	d := row.toDetail()
	return &d, nil
}

// Thread returns the messages exchanged between a and b, oldest first.
func (r *MessageRepository) Thread(ctx context.Context, a, b int64) ([]models.MessageDetail, error) {
	var rows []messageRow
	err := sqlx.SelectContext(ctx, r.q, &rows,
		messageSelect+` WHERE (m.sender_id = ? AND m.receiver_id = ?) OR (m.sender_id = ? AND m.receiver_id = ?)
		ORDER BY m.created_at ASC, m.id ASC`,
		a, b, b, a)
	if err != nil {
		return nil, fmt.Errorf("list thread: %w", err)
	}
	out := make([]models.MessageDetail, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDetail())
	}
	return out, nil
}

type conversationRow struct {
	PartnerID    int64     `db:"partner_id"`
	PartnerName  string    `db:"partner_name"`
	PartnerImage string    `db:"partner_image"`
	PartnerEmail string    `db:"partner_email"`
	LastMessage  string    `db:"last_message"`
	Time         time.Time `db:"time"`
	UnreadCount  int       `db:"unread_count"`
}

// Conversations returns one entry per chat partner of userID: the partner,
// the latest message in either direction, and how many of the partner's
// messages userID has not read. Most recent conversation first.
func (r *MessageRepository) Conversations(ctx context.Context, userID int64) ([]models.Conversation, error) {
	const query = `
		SELECT
			u.id AS partner_id, u.name AS partner_name, u.image AS partner_image, u.email AS partner_email,
			m.content AS last_message, m.created_at AS time,
			(SELECT COUNT(*) FROM messages
			 WHERE receiver_id = ? AND sender_id = u.id AND is_read = ?) AS unread_count
		FROM users u
		JOIN (
			SELECT
				CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END AS partner_id,
				MAX(id) AS max_msg_id
			FROM messages
			WHERE sender_id = ? OR receiver_id = ?
			GROUP BY CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END
		) latest ON u.id = latest.partner_id
		JOIN messages m ON m.id = latest.max_msg_id
		ORDER BY m.created_at DESC, m.id DESC`

	var rows []conversationRow
	err := sqlx.SelectContext(ctx, r.q, &rows, query, userID, false, userID, userID, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	out := make([]models.Conversation, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.Conversation{
			User: models.UserSummary{
				ID:    row.PartnerID,
				Name:  row.PartnerName,
				Email: row.PartnerEmail,
				Image: row.PartnerImage,
			},
			LastMessage: row.LastMessage,
			Time:        row.Time,
			UnreadCount: row.UnreadCount,
		})
	}
	return out, nil
}

// MarkThreadRead flags every message from sender to receiver as read.
func (r *MessageRepository) MarkThreadRead(ctx context.Context, receiverID, senderID int64) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		"UPDATE messages SET is_read = ? WHERE receiver_id = ? AND sender_id = ? AND is_read = ?",
		true, receiverID, senderID, false)
	if err != nil {
		return 0, fmt.Errorf("mark thread read: %w", err)
	}
	return res.RowsAffected()
}
