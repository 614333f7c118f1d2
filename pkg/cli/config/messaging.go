package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/utilmon-lab/varsel/pkg/adapter/messaging"
	"github.com/utilmon-lab/varsel/pkg/adapter/smtp"
	"github.com/utilmon-lab/varsel/pkg/domain/interfaces"
)

// Messaging selects the outbound transport. The messaging gateway is the
// normal choice; direct SMTP is a fallback for deployments without one.
type Messaging struct {
	gatewayURL   string
	gatewayToken string

	smtpHost     string
	smtpPort     int
	smtpUsername string
	smtpPassword string
}

func (x *Messaging) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gateway-url",
			Usage:       "Messaging gateway base URL",
			Category:    "Messaging",
			Sources:     cli.EnvVars("VARSEL_GATEWAY_URL"),
			Destination: &x.gatewayURL,
		},
		&cli.StringFlag{
			Name:        "gateway-token",
			Usage:       "Messaging gateway bearer token",
			Category:    "Messaging",
			Sources:     cli.EnvVars("VARSEL_GATEWAY_TOKEN"),
			Destination: &x.gatewayToken,
		},
		&cli.StringFlag{
			Name:        "smtp-host",
			Usage:       "SMTP server host (direct delivery fallback)",
			Category:    "Messaging",
			Sources:     cli.EnvVars("VARSEL_SMTP_HOST"),
			Destination: &x.smtpHost,
		},
		&cli.IntFlag{
			Name:        "smtp-port",
			Usage:       "SMTP server port",
			Category:    "Messaging",
			Sources:     cli.EnvVars("VARSEL_SMTP_PORT"),
			Value:       587,
			Destination: &x.smtpPort,
		},
		&cli.StringFlag{
			Name:        "smtp-username",
			Usage:       "SMTP username",
			Category:    "Messaging",
			Sources:     cli.EnvVars("VARSEL_SMTP_USERNAME"),
			Destination: &x.smtpUsername,
		},
		&cli.StringFlag{
			Name:        "smtp-password",
			Usage:       "SMTP password",
			Category:    "Messaging",
			Sources:     cli.EnvVars("VARSEL_SMTP_PASSWORD"),
			Destination: &x.smtpPassword,
		},
	}
}

func (x Messaging) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("gateway_url", x.gatewayURL),
		slog.Int("gateway_token.len", len(x.gatewayToken)),
		slog.String("smtp_host", x.smtpHost),
		slog.Int("smtp_port", x.smtpPort),
	)
}

func (x *Messaging) Configure() (interfaces.MessagingGateway, error) {
	if x.gatewayURL != "" {
		return messaging.New(x.gatewayURL, x.gatewayToken)
	}
	if x.smtpHost != "" {
		return smtp.New(x.smtpHost, x.smtpPort, x.smtpUsername, x.smtpPassword), nil
	}
	return nil, goerr.New("no messaging transport configured, set --gateway-url or --smtp-host")
}
