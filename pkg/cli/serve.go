package cli

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/utilmon-lab/varsel/pkg/cli/config"
	server "github.com/utilmon-lab/varsel/pkg/controller/http"
	"github.com/utilmon-lab/varsel/pkg/domain/interfaces"
	"github.com/utilmon-lab/varsel/pkg/repository"
	"github.com/utilmon-lab/varsel/pkg/usecase"
	"github.com/utilmon-lab/varsel/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var (
		addr         string
		sentryCfg    config.Sentry
		slackCfg     config.Slack
		firestoreCfg config.Firestore
		messagingCfg config.Messaging
		templatesCfg config.Templates
	)

	flags := joinFlags(
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Aliases:     []string{"a"},
				Sources:     cli.EnvVars("VARSEL_ADDR"),
				Usage:       "Listen address (default: 127.0.0.1:8080)",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
		},
		sentryCfg.Flags(),
		slackCfg.Flags(),
		firestoreCfg.Flags(),
		messagingCfg.Flags(),
		templatesCfg.Flags(),
	)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Run API server",
		Flags:   flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logging.Default().Info("starting server",
				"addr", addr,
				"sentry", sentryCfg,
				"slack", slackCfg,
				"firestore", firestoreCfg,
				"messaging", messagingCfg,
				"templates", templatesCfg,
			)

			if err := sentryCfg.Configure(); err != nil {
				return err
			}

			var repo interfaces.Repository
			if firestoreCfg.IsConfigured() {
				fs, err := firestoreCfg.Configure(ctx)
				if err != nil {
					return err
				}
				defer func() {
					if err := fs.Close(); err != nil {
						logging.From(ctx).Warn("failed to close firestore client", "error", err)
					}
				}()
				repo = fs
			} else {
				logging.Default().Warn("⚠️  Firestore is not configured, using in-memory repository",
					"recommendation", "Set --firestore-project-id for persistent storage")
				repo = repository.NewMemory()
			}

			gateway, err := messagingCfg.Configure()
			if err != nil {
				return err
			}

			tmpl, err := templatesCfg.Configure()
			if err != nil {
				return err
			}
			if len(tmpl.ActiveCategories()) == 0 {
				logging.Default().Warn("no active message templates, no notifications will be sent")
			}

			uc := usecase.New(
				usecase.WithRepository(repo),
				usecase.WithMessagingGateway(gateway),
				usecase.WithTemplates(tmpl),
				usecase.WithOpsNotifier(slackCfg.Configure()),
			)

			httpServer := http.Server{
				Addr:              addr,
				Handler:           server.New(uc),
				ReadTimeout:       30 * time.Second,
				ReadHeaderTimeout: 10 * time.Second,
				BaseContext: func(l net.Listener) context.Context {
					return ctx
				},
			}

			errCh := make(chan error, 1)
			go func() {
				defer close(errCh)
				if err := httpServer.ListenAndServe(); err != nil {
					errCh <- err
				}
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-sigCh:
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return httpServer.Shutdown(ctx)
			}
		},
	}
}
