package opsnotify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
	"github.com/utilmon-lab/varsel/pkg/domain/event"
	"github.com/utilmon-lab/varsel/pkg/domain/interfaces"
	"github.com/utilmon-lab/varsel/pkg/utils/logging"
)

// Slack posts operational events to a Slack incoming webhook. Posting
// failures are logged, never propagated: operator visibility must not fail
// a dispatch that already succeeded.
type Slack struct {
	webhookURL string
}

var _ interfaces.OpsNotifier = &Slack{}

func NewSlack(webhookURL string) *Slack {
	return &Slack{webhookURL: webhookURL}
}

func (n *Slack) post(ctx context.Context, text string) {
	msg := &slack.WebhookMessage{Text: text}
	if err := slack.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		logging.From(ctx).Warn("failed to post ops event to Slack", "error", err)
	}
}

func (n *Slack) NotifyDispatch(ctx context.Context, ev *event.DispatchEvent) {
	n.post(ctx, fmt.Sprintf("*Notification dispatch* `%s` for `%s/%s`: sent %d of %d candidates",
		ev.Kind, ev.Category, ev.DisturbanceID, ev.Sent, ev.Candidates))
}

func (n *Slack) NotifyCleanup(ctx context.Context, ev *event.CleanupEvent) {
	n.post(ctx, fmt.Sprintf("*Cleanup run*: deleted %d closed disturbances older than %s",
		ev.Deleted, ev.Cutoff.Format("2006-01-02 15:04")))
}

func (n *Slack) NotifyError(ctx context.Context, ev *event.ErrorEvent) {
	n.post(ctx, fmt.Sprintf(":rotating_light: *Dispatch error* for `%s/%s`: %v",
		ev.Category, ev.DisturbanceID, ev.Error))
}
