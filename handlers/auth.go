package handlers

import (
	"context"
	"net/http"

	"hoyspace-api/auth"
	"hoyspace-api/models"
	"hoyspace-api/service"

	"go.uber.org/zap"
)

// AuthHandler serves registration, login and password reset.
type AuthHandler struct {
	auth *service.AuthService
	out  Responder
}

func NewAuthHandler(svc *service.AuthService, out Responder) *AuthHandler {
	return &AuthHandler{auth: svc, out: out}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decode(r, &req); err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	resp, err := h.auth.Register(ctx, req)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	logRequest(ctx, "info", "User registered", zap.Int64("user_id", resp.ID))
	h.out.JSON(ctx, w, http.StatusCreated, resp)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decode(r, &req); err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	resp, err := h.auth.Login(ctx, req)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	logRequest(ctx, "info", "Login successful", zap.Int64("user_id", resp.ID))
	h.out.JSON(ctx, w, http.StatusOK, resp)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	actor, err := auth.IdentityFromContext(ctx)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	resp, err := h.auth.Me(ctx, actor)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	h.out.JSON(ctx, w, http.StatusOK, resp)
}

// ForgotPassword handles POST /auth/forgot-password
func (h *AuthHandler) ForgotPassword(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := decode(r, &req); err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	res, err := h.auth.ForgotPassword(ctx, req)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	h.out.JSON(ctx, w, http.StatusOK, res)
}

// VerifyOTP handles POST /auth/verify-otp
func (h *AuthHandler) VerifyOTP(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.VerifyOTPRequest
	if err := decode(r, &req); err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	userID, err := h.auth.VerifyOTP(ctx, req)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	h.out.JSON(ctx, w, http.StatusOK, map[string]interface{}{
		"message": "OTP Verified successfully",
		"userId":  userID,
	})
}

// ResetPassword handles POST /auth/reset-password
func (h *AuthHandler) ResetPassword(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := decode(r, &req); err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	if err := h.auth.ResetPassword(ctx, req); err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	logRequest(ctx, "info", "Password reset", zap.String("email", req.Email))
	h.out.Message(w, http.StatusOK, "Password reset successful")
}
