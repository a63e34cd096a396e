package handlers

import (
	"context"
	"net/http"

	"hoyspace-api/auth"
	"hoyspace-api/models"
	"hoyspace-api/service"

	"go.uber.org/zap"
)

type NotificationHandler struct {
	notes *service.NotificationService
	out   Responder
}

func NewNotificationHandler(notes *service.NotificationService, out Responder) *NotificationHandler {
	return &NotificationHandler{notes: notes, out: out}
}

// GetNotifications handles GET /notifications
func (h *NotificationHandler) GetNotifications(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	actor, err := auth.IdentityFromContext(ctx)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	list, err := h.notes.ListForUser(ctx, actor)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	h.out.JSON(ctx, w, http.StatusOK, list)
}

// CreateNotification handles POST /notifications (admin)
func (h *NotificationHandler) CreateNotification(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	actor, err := auth.IdentityFromContext(ctx)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	var req models.CreateNotificationRequest
	if err := decode(r, &req); err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	n, err := h.notes.Send(ctx, actor, req)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	logRequest(ctx, "info", "Notification sent", zap.Int64("user_id", n.UserID))
	h.out.JSON(ctx, w, http.StatusCreated, n)
}

// MarkRead handles PUT /notifications/{id}/read
func (h *NotificationHandler) MarkRead(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	actor, err := auth.IdentityFromContext(ctx)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	if err := h.notes.MarkRead(ctx, actor, id); err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	h.out.Message(w, http.StatusOK, "Notification marked as read")
}

// MarkAllRead handles PUT /notifications/read-all
func (h *NotificationHandler) MarkAllRead(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	actor, err := auth.IdentityFromContext(ctx)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	if err := h.notes.MarkAllRead(ctx, actor); err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	h.out.Message(w, http.StatusOK, "All notifications marked as read")
}

// UnreadCount handles GET /notifications/unread-count
func (h *NotificationHandler) UnreadCount(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	actor, err := auth.IdentityFromContext(ctx)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	n, err := h.notes.UnreadCount(ctx, actor)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	h.out.JSON(ctx, w, http.StatusOK, map[string]int{"count": n})
}
