package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/utilmon-lab/varsel/pkg/domain/model/errs"
	"github.com/utilmon-lab/varsel/pkg/domain/model/feedback"
	"github.com/utilmon-lab/varsel/pkg/domain/types"
	"github.com/utilmon-lab/varsel/pkg/utils/errutil"
	"github.com/utilmon-lab/varsel/pkg/utils/logging"
)

// CreateFeedback registers a party's opt-in for one disturbance. Feedback
// cannot be registered twice, nor against a closed disturbance.
func (uc *UseCases) CreateFeedback(ctx context.Context, category types.Category, id types.DisturbanceID, partyID string) (*feedback.Feedback, error) {
	if partyID == "" {
		return nil, goerr.New("empty party ID", goerr.T(errs.TagInvalidRequest),
			goerr.TV(errutil.CategoryKey, category), goerr.TV(errutil.DisturbanceIDKey, id))
	}

	d, err := uc.repository.GetDisturbance(ctx, category, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, goerr.New("disturbance not found",
			goerr.T(errs.TagNotFound),
			goerr.TV(errutil.CategoryKey, category), goerr.TV(errutil.DisturbanceIDKey, id))
	}
	if d.Closed() {
		return nil, goerr.New("cannot register feedback for a closed disturbance",
			goerr.T(errs.TagConflict),
			goerr.TV(errutil.CategoryKey, category), goerr.TV(errutil.DisturbanceIDKey, id),
			goerr.TV(errutil.PartyIDKey, partyID))
	}

	existing, err := uc.repository.GetFeedbackByParty(ctx, category, id, partyID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, goerr.New("feedback already registered",
			goerr.T(errs.TagConflict),
			goerr.TV(errutil.CategoryKey, category), goerr.TV(errutil.DisturbanceIDKey, id),
			goerr.TV(errutil.PartyIDKey, partyID))
	}

	fb := feedback.New(ctx, category, id, partyID)
	if err := uc.repository.PutFeedback(ctx, *fb); err != nil {
		return nil, goerr.Wrap(err, "failed to persist feedback",
			goerr.T(errs.TagDatabase),
			goerr.TV(errutil.CategoryKey, category), goerr.TV(errutil.DisturbanceIDKey, id),
			goerr.TV(errutil.PartyIDKey, partyID))
	}

	logging.From(ctx).Info("registered disturbance feedback",
		"category", category, "disturbance_id", id, "party_id", partyID)
	return fb, nil
}

// DeleteFeedback withdraws a party's opt-in.
func (uc *UseCases) DeleteFeedback(ctx context.Context, category types.Category, id types.DisturbanceID, partyID string) error {
	existing, err := uc.repository.GetFeedbackByParty(ctx, category, id, partyID)
	if err != nil {
		return err
	}
	if existing == nil {
		return goerr.New("feedback not found",
			goerr.T(errs.TagNotFound),
			goerr.TV(errutil.CategoryKey, category), goerr.TV(errutil.DisturbanceIDKey, id),
			goerr.TV(errutil.PartyIDKey, partyID))
	}

	if err := uc.repository.DeleteFeedbackByParty(ctx, category, id, partyID); err != nil {
		return goerr.Wrap(err, "failed to delete feedback",
			goerr.T(errs.TagDatabase),
			goerr.TV(errutil.CategoryKey, category), goerr.TV(errutil.DisturbanceIDKey, id),
			goerr.TV(errutil.PartyIDKey, partyID))
	}

	logging.From(ctx).Info("removed disturbance feedback",
		"category", category, "disturbance_id", id, "party_id", partyID)
	return nil
}
