package notifier

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/utilmon-lab/varsel/pkg/domain/event"
	"github.com/utilmon-lab/varsel/pkg/domain/interfaces"
	"github.com/utilmon-lab/varsel/pkg/domain/model/disturbance"
	"github.com/utilmon-lab/varsel/pkg/domain/model/errs"
	"github.com/utilmon-lab/varsel/pkg/domain/model/feedback"
	"github.com/utilmon-lab/varsel/pkg/domain/model/message"
	"github.com/utilmon-lab/varsel/pkg/domain/types"
	"github.com/utilmon-lab/varsel/pkg/service/templates"
	"github.com/utilmon-lab/varsel/pkg/utils/errutil"
	"github.com/utilmon-lab/varsel/pkg/utils/logging"
)

// Dispatcher composes notification messages for eligible recipients and
// hands them to the messaging gateway as one batch.
type Dispatcher struct {
	repo      interfaces.Repository
	gateway   interfaces.MessagingGateway
	templates *templates.Service
	ops       interfaces.OpsNotifier
}

func New(repo interfaces.Repository, gateway interfaces.MessagingGateway, templates *templates.Service, ops interfaces.OpsNotifier) *Dispatcher {
	return &Dispatcher{
		repo:      repo,
		gateway:   gateway,
		templates: templates,
		ops:       ops,
	}
}

// Dispatch sends one message per eligible candidate. One audit row is
// written per composed message before the gateway call: the audit trail
// records attempted sends, not confirmed deliveries, so a gateway failure
// leaves the rows in place. An inactive or unconfigured category sends
// nothing and writes nothing.
func (x *Dispatcher) Dispatch(ctx context.Context, kind types.NotificationKind, d *disturbance.Disturbance, candidates []disturbance.Affected) error {
	logger := logging.From(ctx)

	if err := kind.Validate(); err != nil {
		return err
	}
	if len(candidates) == 0 {
		return nil
	}

	feedbacks, err := x.repo.GetFeedbacks(ctx, d.Category, d.ID)
	if err != nil {
		return goerr.Wrap(err, "failed to get feedback records",
			goerr.TV(errutil.CategoryKey, d.Category), goerr.TV(errutil.DisturbanceIDKey, d.ID))
	}

	eligible := Eligible(candidates, feedbacks)
	if len(eligible) == 0 {
		logger.Debug("no eligible recipients",
			"category", d.Category, "disturbance_id", d.ID, "kind", kind,
			"candidates", len(candidates))
		return nil
	}

	cfg := x.templates.Resolve(d.Category)
	if cfg == nil || !cfg.Active {
		logger.Debug("messaging disabled for category, skipping dispatch",
			"category", d.Category, "disturbance_id", d.ID, "kind", kind)
		return nil
	}

	messages := make([]*message.Message, 0, len(eligible))
	for _, affected := range eligible {
		msg, err := Render(kind, cfg, d, affected)
		if err != nil {
			return err
		}

		entry := feedback.NewHistoryEntry(ctx, d.Category, d.ID, affected.PartyID)
		if err := x.repo.PutHistoryEntry(ctx, *entry); err != nil {
			return goerr.Wrap(err, "failed to write feedback history entry",
				goerr.T(errs.TagDatabase),
				goerr.TV(errutil.CategoryKey, d.Category), goerr.TV(errutil.DisturbanceIDKey, d.ID),
				goerr.TV(errutil.PartyIDKey, affected.PartyID))
		}

		messages = append(messages, msg)
	}

	if len(messages) > 0 {
		if err := x.gateway.SendBatch(ctx, messages); err != nil {
			wrapped := goerr.Wrap(err, "messaging gateway rejected batch",
				goerr.T(errs.TagExternal),
				goerr.TV(errutil.CategoryKey, d.Category), goerr.TV(errutil.DisturbanceIDKey, d.ID),
				goerr.TV(errutil.KindKey, kind), goerr.TV(errutil.CountKey, len(messages)))
			if x.ops != nil {
				x.ops.NotifyError(ctx, &event.ErrorEvent{
					Category:      d.Category,
					DisturbanceID: d.ID,
					Error:         wrapped,
				})
			}
			return wrapped
		}
	}

	logger.Info("dispatched disturbance notifications",
		"category", d.Category, "disturbance_id", d.ID, "kind", kind,
		"candidates", len(candidates), "sent", len(messages))

	if x.ops != nil {
		x.ops.NotifyDispatch(ctx, &event.DispatchEvent{
			Kind:          kind,
			Category:      d.Category,
			DisturbanceID: d.ID,
			Candidates:    len(candidates),
			Sent:          len(messages),
		})
	}
	return nil
}
