package opsnotify

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/utilmon-lab/varsel/pkg/domain/event"
	"github.com/utilmon-lab/varsel/pkg/domain/interfaces"
)

// Console writes operational events to stdout with color formatting.
// Useful for CLI runs and local debugging.
type Console struct{}

var _ interfaces.OpsNotifier = &Console{}

func NewConsole() *Console {
	return &Console{}
}

func (n *Console) NotifyDispatch(ctx context.Context, ev *event.DispatchEvent) {
	blue := color.New(color.FgBlue, color.Bold)
	blue.Println("Notification dispatch:")
	fmt.Printf("  Kind: %s\n", ev.Kind)
	fmt.Printf("  Disturbance: %s/%s\n", ev.Category, ev.DisturbanceID)
	fmt.Printf("  Sent: %d of %d candidates\n\n", ev.Sent, ev.Candidates)
}

func (n *Console) NotifyCleanup(ctx context.Context, ev *event.CleanupEvent) {
	blue := color.New(color.FgBlue, color.Bold)
	blue.Println("Cleanup run:")
	fmt.Printf("  Cutoff: %s\n", ev.Cutoff.Format("2006-01-02 15:04:05"))
	fmt.Printf("  Deleted: %d\n\n", ev.Deleted)
}

func (n *Console) NotifyError(ctx context.Context, ev *event.ErrorEvent) {
	red := color.New(color.FgRed, color.Bold)
	red.Println("Dispatch error:")
	if ev.Category != "" {
		fmt.Printf("  Disturbance: %s/%s\n", ev.Category, ev.DisturbanceID)
	}
	fmt.Printf("  Error: %v\n\n", ev.Error)
}
