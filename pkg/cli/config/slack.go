package config

import (
	"log/slog"

	"github.com/urfave/cli/v3"
	"github.com/utilmon-lab/varsel/pkg/domain/interfaces"
	"github.com/utilmon-lab/varsel/pkg/service/opsnotify"
)

// Slack configures the operational event notifier. Without a webhook the
// events go to the console.
type Slack struct {
	webhookURL string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL for operational events",
			Category:    "Slack",
			Sources:     cli.EnvVars("VARSEL_SLACK_WEBHOOK_URL"),
			Destination: &x.webhookURL,
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("webhook-url.len", len(x.webhookURL)),
	)
}

func (x *Slack) Configure() interfaces.OpsNotifier {
	if x.webhookURL == "" {
		return opsnotify.NewConsole()
	}
	return opsnotify.NewSlack(x.webhookURL)
}
