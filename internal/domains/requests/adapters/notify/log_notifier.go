package notify

import (
	"context"
	"log/slog"

	reqtypes "github.com/adiwjy/go-procurement-api/internal/domains/requests/application/types"
	"github.com/adiwjy/go-procurement-api/internal/domains/requests/ports"
)

var _ ports.Notifier = (*LogNotifier)(nil)

// LogNotifier records status changes on the structured log. It stands in
// for the mail/webhook channel, which is an external collaborator; delivery
// mechanics are out of this service's hands.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier wires a slog-backed notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// StatusChanged logs the committed transition.
func (n *LogNotifier) StatusChanged(ctx context.Context, event reqtypes.StatusChangeEvent) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.LogAttrs(ctx, slog.LevelInfo, "request status changed",
		slog.String("request.id", event.ID),
		slog.String("request.number", event.RequestNumber),
		slog.String("request.status", string(event.Status)),
	)
	return nil
}
