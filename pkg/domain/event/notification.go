package event

import (
	"time"

	"github.com/utilmon-lab/varsel/pkg/domain/types"
)

// OpsEvent represents an operational event emitted by the dispatch and
// cleanup paths. These events are for operator visibility only; end-user
// messaging goes through the messaging gateway, never through here.
type OpsEvent interface {
	isOpsEvent()
}

// DispatchEvent is fired after a notification batch has been handed to the
// messaging gateway.
type DispatchEvent struct {
	Kind          types.NotificationKind
	Category      types.Category
	DisturbanceID types.DisturbanceID
	Candidates    int
	Sent          int
}

func (e *DispatchEvent) isOpsEvent() {}

// CleanupEvent is fired when a cleanup run finishes.
type CleanupEvent struct {
	Cutoff  time.Time
	Deleted int
}

func (e *CleanupEvent) isOpsEvent() {}

// ErrorEvent is fired when an operation fails after side effects may have
// been persisted (e.g. a gateway failure after audit rows were written).
type ErrorEvent struct {
	Category      types.Category
	DisturbanceID types.DisturbanceID
	Error         error
}

func (e *ErrorEvent) isOpsEvent() {}
