package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/utilmon-lab/varsel/pkg/domain/event"
	"github.com/utilmon-lab/varsel/pkg/domain/model/errs"
	"github.com/utilmon-lab/varsel/pkg/utils/clock"
	"github.com/utilmon-lab/varsel/pkg/utils/logging"
)

// CleanupClosedDisturbances physically removes CLOSED disturbances that have
// not been touched for maxAge, along with their feedback records. It is
// triggered by an external scheduler; the run itself is one shot.
func (uc *UseCases) CleanupClosedDisturbances(ctx context.Context, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, goerr.New("cleanup max age must be positive",
			goerr.T(errs.TagInvalidRequest), goerr.V("max_age", maxAge))
	}

	cutoff := clock.Now(ctx).Add(-maxAge)
	deleted, err := uc.repository.DeleteClosedBefore(ctx, cutoff)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to clean up closed disturbances",
			goerr.T(errs.TagDatabase), goerr.V("cutoff", cutoff))
	}

	logging.From(ctx).Info("cleaned up closed disturbances",
		"cutoff", cutoff, "deleted", deleted)

	uc.ops.NotifyCleanup(ctx, &event.CleanupEvent{
		Cutoff:  cutoff,
		Deleted: deleted,
	})
	return deleted, nil
}
