package handlers

import (
	"context"
	"net/http"

	"hoyspace-api/auth"
	"hoyspace-api/models"
	"hoyspace-api/notify"
	"hoyspace-api/service"

	"go.uber.org/zap"
)

type ChatHandler struct {
	chat *service.ChatService
	hub  *notify.Hub
	out  Responder
}

func NewChatHandler(chat *service.ChatService, hub *notify.Hub, out Responder) *ChatHandler {
	return &ChatHandler{chat: chat, hub: hub, out: out}
}

// SendMessage handles POST /chat
func (h *ChatHandler) SendMessage(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	actor, err := auth.IdentityFromContext(ctx)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	var req models.SendMessageRequest
	if err := decode(r, &req); err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	msg, err := h.chat.Send(ctx, actor, req)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	h.out.JSON(ctx, w, http.StatusCreated, msg)
}

// GetConversations handles GET /chat/conversations
func (h *ChatHandler) GetConversations(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	actor, err := auth.IdentityFromContext(ctx)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	list, err := h.chat.Conversations(ctx, actor)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	h.out.JSON(ctx, w, http.StatusOK, list)
}

// GetThread handles GET /chat/{userId}
func (h *ChatHandler) GetThread(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	actor, err := auth.IdentityFromContext(ctx)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	other, err := pathID(r, "userId")
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	list, err := h.chat.Thread(ctx, actor, other)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	h.out.JSON(ctx, w, http.StatusOK, list)
}

// MarkRead handles PUT /chat/{userId}/read
func (h *ChatHandler) MarkRead(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	actor, err := auth.IdentityFromContext(ctx)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	other, err := pathID(r, "userId")
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	if err := h.chat.MarkRead(ctx, actor, other); err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	h.out.Message(w, http.StatusOK, "Messages marked as read")
}

// Live handles GET /ws and streams notification and message events.
func (h *ChatHandler) Live(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	actor, err := auth.IdentityFromContext(ctx)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	if err := h.hub.ServeWS(w, r, actor.ID); err != nil {
		logRequest(ctx, "error", "WebSocket upgrade failed", zap.Error(err))
	}
}
