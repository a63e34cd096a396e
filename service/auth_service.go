package service

import (
	"context"
	"errors"
	"time"

	"hoyspace-api/apperr"
	"hoyspace-api/auth"
	"hoyspace-api/models"
	"hoyspace-api/repository"

	"github.com/jmoiron/sqlx"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// ResetCodeResult is returned by ForgotPassword. DevOTP is only set when mail
// delivery failed and dev mode is enabled.
type ResetCodeResult struct {
	Message string `json:"message"`
	DevOTP  string `json:"devOtp,omitempty"`
}

type AuthService struct {
	users   *repository.UserRepository
	accts   *UserService
	tokens  *auth.TokenIssuer
	hasher  *auth.Hasher
	mailer  auth.Mailer
	otpTTL  time.Duration
	devMode bool
	now     func() time.Time
}

type AuthOptions struct {
	OTPTTL  time.Duration
	DevMode bool
}

func NewAuthService(db *sqlx.DB, accts *UserService, tokens *auth.TokenIssuer, hasher *auth.Hasher, mailer auth.Mailer, opts AuthOptions) *AuthService {
	if opts.OTPTTL == 0 {
		opts.OTPTTL = 10 * time.Minute
	}
	return &AuthService{
		users:   repository.NewUserRepository(db),
		accts:   accts,
		tokens:  tokens,
		hasher:  hasher,
		mailer:  mailer,
		otpTTL:  opts.OTPTTL,
		devMode: opts.DevMode,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a regular account and signs the caller in.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, apperr.Validation("Invalid user data")
	}
	u, err := s.accts.create(ctx, req.Name, req.Email, req.Password, req.Phone, models.RoleUser)
	if err != nil {
		return nil, err
	}
	return s.withToken(u)
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	u, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Unauthenticated("Invalid email or password")
	}
	if err != nil {
		return nil, apperr.Internal("load user", err)
	}
	if !s.hasher.Compare(u.Password, req.Password) {
		return nil, apperr.Unauthenticated("Invalid email or password")
	}
	return s.withToken(u)
}

// Me returns the actor's profile without a token.
func (s *AuthService) Me(ctx context.Context, actor auth.Identity) (*models.AuthResponse, error) {
	u, err := s.accts.Get(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return profile(u), nil
}

// ForgotPassword issues a six digit reset code valid for the configured TTL.
func (s *AuthService) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (*ResetCodeResult, error) {
	u, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, apperr.Internal("load user", err)
	}

	code, err := auth.NewOTP()
	if err != nil {
		return nil, apperr.Internal("generate otp", err)
	}
	if _, err := s.users.SaveOTP(ctx, u.ID, code, s.now().Add(s.otpTTL)); err != nil {
		return nil, apperr.Internal("save otp", err)
	}

	if err := s.mailer.SendResetCode(ctx, u.Email, u.Name, code); err != nil {
		logger.Error("Reset code delivery failed", zap.String("email", u.Email), zap.Error(err))
		if !s.devMode {
			return nil, apperr.Internal("send reset code", err)
		}
		return &ResetCodeResult{Message: "Email failed (Dev Mode: Check Console)", DevOTP: code}, nil
	}
	return &ResetCodeResult{Message: "Verification code sent to email"}, nil
}

// VerifyOTP checks a reset code without consuming it.
func (s *AuthService) VerifyOTP(ctx context.Context, req models.VerifyOTPRequest) (int64, error) {
	u, err := s.findByOTP(ctx, req.Email, req.OTP)
	if err != nil {
		return 0, err
	}
	return u.ID, nil
}

// ResetPassword sets a new password and clears the reset code.
func (s *AuthService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	if len(req.NewPassword) < 6 {
		return apperr.Validation("Password must be at least 6 characters")
	}
	u, err := s.findByOTP(ctx, req.Email, req.OTP)
	if err != nil {
		return err
	}
	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return apperr.Internal("hash password", err)
	}
	if _, err := s.users.Update(ctx, u.ID, models.UserUpdate{Password: &hash, ClearResetCode: true}); err != nil {
		return apperr.Internal("reset password", err)
	}
	return nil
}

func (s *AuthService) findByOTP(ctx context.Context, email, code string) (*models.User, error) {
	if email == "" || code == "" {
		return nil, apperr.Validation("Invalid or expired code")
	}
	u, err := s.users.FindByOTP(ctx, email, code, s.now())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Validation("Invalid or expired code")
	}
	if err != nil {
		return nil, apperr.Internal("load user", err)
	}
	return u, nil
}

func (s *AuthService) withToken(u *models.User) (*models.AuthResponse, error) {
	token, err := s.tokens.Generate(u.ID)
	if err != nil {
		return nil, apperr.Internal("issue token", err)
	}
	resp := profile(u)
	resp.Token = token
	return resp, nil
}

func profile(u *models.User) *models.AuthResponse {
	return &models.AuthResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Phone: u.Phone,
		Role:  u.Role,
		Image: u.Image,
	}
}
