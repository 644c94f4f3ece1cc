package requests

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	reqtypes "github.com/adiwjy/go-procurement-api/internal/domains/requests/application/types"
)

const (
	// StatusNotificationWorkflowName is the public identifier for registering the workflow.
	StatusNotificationWorkflowName = "requests.workflows.StatusNotification"
	// StatusNotificationTaskQueue is the queue consumed by the worker processing request notifications.
	StatusNotificationTaskQueue = "REQUEST_STATUS_NOTIFICATION"
	// NotifyStatusChangeActivityName delivers one status-change notification.
	NotifyStatusChangeActivityName = "requests.activities.NotifyStatusChange"
)

// StatusNotificationWorkflowInput carries the committed transition to notify about.
type StatusNotificationWorkflowInput struct {
	Event   reqtypes.StatusChangeEvent
	TraceID string
}

// StatusNotificationWorkflow delivers the fire-and-forget status-change
// notification durably: the record update has already committed, so the
// only job left is to retry delivery until it lands or retries run out.
func StatusNotificationWorkflow(ctx workflow.Context, input StatusNotificationWorkflowInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("StatusNotificationWorkflow started",
		withTraceID(input.TraceID, "requestNumber", input.Event.RequestNumber, "status", string(input.Event.Status))...)

	activityCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval: time.Second,
			MaximumAttempts: 5,
		},
	})
	if err := workflow.ExecuteActivity(activityCtx, NotifyStatusChangeActivityName, input.Event).Get(ctx, nil); err != nil {
		logger.Error("StatusNotificationWorkflow failed",
			withTraceID(input.TraceID, "requestNumber", input.Event.RequestNumber, "error", err)...)
		return err
	}
	logger.Info("StatusNotificationWorkflow completed",
		withTraceID(input.TraceID, "requestNumber", input.Event.RequestNumber)...)
	return nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
