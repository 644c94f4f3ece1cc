package requests

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	reqtypes "github.com/adiwjy/go-procurement-api/internal/domains/requests/application/types"
	reqports "github.com/adiwjy/go-procurement-api/internal/domains/requests/ports"
)

// Activities groups activities that operate on the requests bounded context.
type Activities struct {
	notifier reqports.Notifier
	repo     reqports.Repository
}

// NewActivities wires the notification collaborators into the Temporal
// activities bundle.
func NewActivities(notifier reqports.Notifier, repo reqports.Repository) *Activities {
	return &Activities{notifier: notifier, repo: repo}
}

// NotifyStatusChange delivers one status-change notification. The record is
// re-read so the payload reflects the stored state at delivery time, not
// the state at enqueue time.
func (a *Activities) NotifyStatusChange(ctx context.Context, event reqtypes.StatusChangeEvent) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.notifier == nil {
		logger.Error("notification activity not initialized", "requestNumber", event.RequestNumber)
		return errors.New("notification activity not initialized")
	}
	if a.repo != nil {
		proj, err := a.repo.FindByNumber(ctx, event.RequestNumber)
		if err == nil && proj != nil && proj.Entity != nil {
			event.ID = proj.Entity.ID
			event.Status = proj.Entity.Status
		} else if err != nil && !errors.Is(err, reqports.ErrNotFound) {
			logger.Warn("could not refresh request before notifying", "requestNumber", event.RequestNumber, "error", err)
		}
	}
	logger.Info("NotifyStatusChange activity started", "requestNumber", event.RequestNumber, "status", string(event.Status))
	if err := a.notifier.StatusChanged(ctx, event); err != nil {
		logger.Error("NotifyStatusChange activity failed", "requestNumber", event.RequestNumber, "error", err)
		return err
	}
	logger.Info("NotifyStatusChange activity completed", "requestNumber", event.RequestNumber)
	return nil
}
