package interfaces

import (
	"context"

	"github.com/utilmon-lab/varsel/pkg/domain/event"
)

// OpsNotifier receives operational events from the dispatch and cleanup
// paths. Implementations can write to console, Slack, or discard events.
// Notification failures here must never fail the enclosing operation.
type OpsNotifier interface {
	// NotifyDispatch is called after a message batch was handed to the gateway
	NotifyDispatch(ctx context.Context, ev *event.DispatchEvent)

	// NotifyCleanup is called when a cleanup run finishes
	NotifyCleanup(ctx context.Context, ev *event.CleanupEvent)

	// NotifyError is called when an operation fails after partial side effects
	NotifyError(ctx context.Context, ev *event.ErrorEvent)
}
