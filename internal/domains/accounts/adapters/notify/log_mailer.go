// Package notify holds development delivery channels for account mail.
package notify

import (
	"context"
	"log/slog"

	"github.com/adiwjy/go-procurement-api/internal/domains/accounts/ports"
)

// LogMailer logs verification mails instead of sending them. It stands in
// for a real mail channel in development and tests.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer builds a logging mailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendVerification(ctx context.Context, email string) error {
	m.logger.LogAttrs(ctx, slog.LevelInfo, "verification mail requested", slog.String("email", email))
	return nil
}

var _ ports.VerificationMailer = (*LogMailer)(nil)
