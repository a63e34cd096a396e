package auth

import (
	"context"

	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// Mailer delivers password reset codes.
type Mailer interface {
	SendResetCode(ctx context.Context, to, name, code string) error
}

// LogMailer writes the reset code to the service log instead of sending mail.
type LogMailer struct{}

func (LogMailer) SendResetCode(ctx context.Context, to, name, code string) error {
	logger.Info("Password reset code issued",
		zap.String("to", to),
		zap.String("name", name),
		zap.String("code", code))
	return nil
}
