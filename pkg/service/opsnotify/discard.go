package opsnotify

import (
	"context"

	"github.com/utilmon-lab/varsel/pkg/domain/event"
	"github.com/utilmon-lab/varsel/pkg/domain/interfaces"
)

// Discard drops every event. Used in tests and quiet CLI runs.
type Discard struct{}

var _ interfaces.OpsNotifier = &Discard{}

func NewDiscard() *Discard {
	return &Discard{}
}

func (n *Discard) NotifyDispatch(ctx context.Context, ev *event.DispatchEvent) {}
func (n *Discard) NotifyCleanup(ctx context.Context, ev *event.CleanupEvent)   {}
func (n *Discard) NotifyError(ctx context.Context, ev *event.ErrorEvent)       {}
