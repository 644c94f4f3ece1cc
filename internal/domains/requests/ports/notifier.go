package ports

import (
	"context"

	reqtypes "github.com/adiwjy/go-procurement-api/internal/domains/requests/application/types"
)

// Notifier is the fire-and-forget status-change side effect. A failure here
// must never roll back the already-committed record update; callers log and
// move on.
type Notifier interface {
	StatusChanged(ctx context.Context, event reqtypes.StatusChangeEvent) error
}

// NoopNotifier is a safe default when no notification channel is wired.
var NoopNotifier Notifier = noopNotifier{}

type noopNotifier struct{}

func (noopNotifier) StatusChanged(_ context.Context, _ reqtypes.StatusChangeEvent) error {
	return nil
}
