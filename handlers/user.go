package handlers

import (
	"context"
	"net/http"

	"hoyspace-api/auth"
	"hoyspace-api/models"
	"hoyspace-api/service"

	"go.uber.org/zap"
)

// HostCache forgets cached listings that show a user as their host.
type HostCache interface {
	ForgetHost(ctx context.Context, hostID int64)
}

type UserHandler struct {
	users *service.UserService
	hosts HostCache
	out   Responder
}

func NewUserHandler(users *service.UserService, hosts HostCache, out Responder) *UserHandler {
	return &UserHandler{users: users, hosts: hosts, out: out}
}

func (h *UserHandler) forgetHost(ctx context.Context, id int64) {
	if h.hosts != nil {
		h.hosts.ForgetHost(ctx, id)
	}
}

// GetUsers handles GET /users (admin)
func (h *UserHandler) GetUsers(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	actor, err := auth.IdentityFromContext(ctx)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	users, err := h.users.List(ctx, actor)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	logRequest(ctx, "info", "Users retrieved successfully", zap.Int("count", len(users)))
	h.out.JSON(ctx, w, http.StatusOK, users)
}

// CreateUser handles POST /users (admin)
func (h *UserHandler) CreateUser(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	actor, err := auth.IdentityFromContext(ctx)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	var req models.CreateUserRequest
	if err := decode(r, &req); err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	user, err := h.users.CreateUser(ctx, actor, req)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	logRequest(ctx, "info", "User created successfully", zap.Int64("user_id", user.ID))
	h.out.JSON(ctx, w, http.StatusCreated, user)
}

// GetStats handles GET /users/stats
func (h *UserHandler) GetStats(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	actor, err := auth.IdentityFromContext(ctx)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	stats, err := h.users.Stats(ctx, actor)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	h.out.JSON(ctx, w, http.StatusOK, stats)
}

// UpdateProfile handles PUT /users/profile
func (h *UserHandler) UpdateProfile(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	actor, err := auth.IdentityFromContext(ctx)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	var req models.ProfileUpdateRequest
	if err := decode(r, &req); err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	user, err := h.users.UpdateProfile(ctx, actor, req)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	h.forgetHost(ctx, user.ID)
	logRequest(ctx, "info", "Profile updated", zap.Int64("user_id", user.ID))
	h.out.JSON(ctx, w, http.StatusOK, user)
}

// UpdateUser handles PUT /users/{id} (admin)
func (h *UserHandler) UpdateUser(ctx context.Context, w http.ResponseWriter, r *http.Request) {
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
	var req models.AdminUserUpdateRequest
	if err := decode(r, &req); err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	user, err := h.users.AdminUpdate(ctx, actor, id, req)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	h.forgetHost(ctx, id)
	logRequest(ctx, "info", "User updated successfully", zap.Int64("user_id", id))
	h.out.JSON(ctx, w, http.StatusOK, user)
}

// DeleteUser handles DELETE /users/{id} (admin)
func (h *UserHandler) DeleteUser(ctx context.Context, w http.ResponseWriter, r *http.Request) {
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
	// Hosted spaces lose their host_id on delete, so forget them first.
	h.forgetHost(ctx, id)
	if err := h.users.Delete(ctx, actor, id); err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	h.forgetHost(ctx, id)
	logRequest(ctx, "info", "User deleted successfully", zap.Int64("user_id", id))
	h.out.Message(w, http.StatusOK, "User removed")
}
