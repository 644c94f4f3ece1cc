package workflows

import (
	"context"
	"errors"
	"fmt"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	reqtypes "github.com/adiwjy/go-procurement-api/internal/domains/requests/application/types"
	"github.com/adiwjy/go-procurement-api/internal/domains/requests/ports"
	reqworkflows "github.com/adiwjy/go-procurement-api/internal/platform/temporal/workflows/requests"
)

var _ ports.Notifier = (*TemporalNotifier)(nil)

// TemporalNotifier hands status-change notifications to a Temporal workflow
// so delivery survives process restarts. Starting the workflow is the whole
// job; the caller never waits for delivery.
type TemporalNotifier struct {
	client    client.Client
	taskQueue string
}

// NewTemporalNotifier wires a Temporal client into the notifier.
func NewTemporalNotifier(c client.Client) *TemporalNotifier {
	return &TemporalNotifier{client: c, taskQueue: reqworkflows.StatusNotificationTaskQueue}
}

// StatusChanged starts the durable notification workflow. A workflow that is
// already running for the same transition is treated as success: the
// notification is on its way.
func (n *TemporalNotifier) StatusChanged(ctx context.Context, event reqtypes.StatusChangeEvent) error {
	if n == nil || n.client == nil {
		return errors.New("temporal notifier not configured")
	}
	traceComponent := notificationTraceComponent(ctx)
	options := client.StartWorkflowOptions{
		ID:        buildNotificationWorkflowID(event),
		TaskQueue: n.taskQueue,
	}
	_, err := n.client.ExecuteWorkflow(
		ctx,
		options,
		reqworkflows.StatusNotificationWorkflowName,
		reqworkflows.StatusNotificationWorkflowInput{Event: event, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			return nil
		}
		return err
	}
	return nil
}

// buildNotificationWorkflowID keys the workflow on the transition itself so
// a retry of the same committed transition deduplicates.
func buildNotificationWorkflowID(event reqtypes.StatusChangeEvent) string {
	return fmt.Sprintf("request-status-notification/%s/%s", event.RequestNumber, event.Status)
}

func notificationTraceComponent(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
