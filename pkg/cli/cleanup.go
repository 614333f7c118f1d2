package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
	"github.com/utilmon-lab/varsel/pkg/cli/config"
	"github.com/utilmon-lab/varsel/pkg/usecase"
	"github.com/utilmon-lab/varsel/pkg/utils/clock"
	"github.com/utilmon-lab/varsel/pkg/utils/logging"
)

func cmdCleanup() *cli.Command {
	var (
		maxAge       time.Duration
		sentryCfg    config.Sentry
		slackCfg     config.Slack
		firestoreCfg config.Firestore
	)

	flags := joinFlags(
		[]cli.Flag{
			&cli.DurationFlag{
				Name:        "max-age",
				Usage:       "Remove closed disturbances last updated longer ago than this",
				Sources:     cli.EnvVars("VARSEL_CLEANUP_MAX_AGE"),
				Value:       30 * 24 * time.Hour,
				Destination: &maxAge,
			},
		},
		sentryCfg.Flags(),
		slackCfg.Flags(),
		firestoreCfg.Flags(),
	)

	return &cli.Command{
		Name:  "cleanup",
		Usage: "Remove closed disturbances and their feedback records",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logging.Default().Info("starting cleanup",
				"max-age", maxAge,
				"sentry", sentryCfg,
				"firestore", firestoreCfg,
			)

			if err := sentryCfg.Configure(); err != nil {
				return err
			}

			repo, err := firestoreCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.From(ctx).Warn("failed to close firestore client", "error", err)
				}
			}()

			uc := usecase.New(
				usecase.WithRepository(repo),
				usecase.WithOpsNotifier(slackCfg.Configure()),
			)

			deleted, err := uc.CleanupClosedDisturbances(ctx, maxAge)
			if err != nil {
				return err
			}

			cutoff := clock.Now(ctx).Add(-maxAge)
			fmt.Printf("Removed %d closed disturbances not updated since %s (%s)\n",
				deleted, cutoff.Format("2006-01-02 15:04:05"), humanize.Time(cutoff))
			return nil
		},
	}
}
