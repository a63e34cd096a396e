package models

import "time"

// Message is one chat line between two users.
type Message struct {
	ID         int64     `json:"id" db:"id"`
	SenderID   int64     `json:"sender_id" db:"sender_id"`
	ReceiverID int64     `json:"receiver_id" db:"receiver_id"`
	Content    string    `json:"content" db:"content"`
	IsRead     bool      `json:"is_read" db:"is_read"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// MessageDetail carries both participants' summaries.
type MessageDetail struct {
	ID        int64       `json:"id"`
	Content   string      `json:"content"`
	IsRead    bool        `json:"is_read"`
	Sender    UserSummary `json:"sender"`
	Receiver  UserSummary `json:"receiver"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Conversation is the latest message with one partner plus the number of
// unread messages that partner sent.
type Conversation struct {
	User        UserSummary `json:"user"`
	LastMessage string      `json:"lastMessage"`
	Time        time.Time   `json:"time"`
	UnreadCount int         `json:"unreadCount"`
}

// SendMessageRequest is the body of POST /chat
type SendMessageRequest struct {
	ReceiverID int64  `json:"receiverId" validate:"required"`
	Content    string `json:"content" validate:"required"`
}
