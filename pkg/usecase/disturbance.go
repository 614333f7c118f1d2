package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/utilmon-lab/varsel/pkg/domain/model/disturbance"
	"github.com/utilmon-lab/varsel/pkg/domain/model/errs"
	"github.com/utilmon-lab/varsel/pkg/domain/types"
	"github.com/utilmon-lab/varsel/pkg/utils/errutil"
	"github.com/utilmon-lab/varsel/pkg/utils/logging"
)

// CreateRequest carries the initial state of a disturbance. The identity
// pair (category, ID) is supplied by the caller and is immutable afterwards.
type CreateRequest struct {
	ID               types.DisturbanceID     `json:"disturbanceId"`
	Status           types.DisturbanceStatus `json:"status,omitempty"`
	Title            string                  `json:"title"`
	Description      string                  `json:"description"`
	PlannedStartDate *time.Time              `json:"plannedStartDate,omitempty"`
	PlannedStopDate  *time.Time              `json:"plannedStopDate,omitempty"`
	Affecteds        []disturbance.Affected  `json:"affecteds,omitempty"`
}

// CreateDisturbance registers a new disturbance. A freshly created OPEN
// disturbance with affecteds announces itself with one NEW dispatch.
func (uc *UseCases) CreateDisturbance(ctx context.Context, category types.Category, req CreateRequest) (*disturbance.Disturbance, error) {
	existing, err := uc.repository.GetDisturbance(ctx, category, req.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, goerr.New("disturbance already exists",
			goerr.T(errs.TagConflict),
			goerr.TV(errutil.CategoryKey, category), goerr.TV(errutil.DisturbanceIDKey, req.ID))
	}

	d := disturbance.New(ctx, category, req.ID)
	if req.Status != "" {
		d.Status = req.Status
	}
	d.Title = req.Title
	d.Description = req.Description
	d.PlannedStartDate = req.PlannedStartDate
	d.PlannedStopDate = req.PlannedStopDate
	d.Affecteds = req.Affecteds

	if err := d.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid create request", goerr.T(errs.TagInvalidRequest))
	}

	// dispatch precedes the write, as in UpdateDisturbance; a failed dispatch
	// leaves nothing stored and the create can be retried
	if d.Status == types.DisturbanceStatusOpen && len(d.Affecteds) > 0 {
		if err := uc.dispatcher.Dispatch(ctx, types.NotificationKindNew, d, d.Affecteds); err != nil {
			return nil, err
		}
	}

	if err := uc.repository.PutDisturbance(ctx, *d); err != nil {
		return nil, goerr.Wrap(err, "failed to persist disturbance",
			goerr.T(errs.TagDatabase),
			goerr.TV(errutil.CategoryKey, category), goerr.TV(errutil.DisturbanceIDKey, req.ID))
	}

	logging.From(ctx).Info("created disturbance",
		"category", d.Category, "disturbance_id", d.ID, "status", d.Status,
		"affecteds", len(d.Affecteds))
	return d, nil
}

// UpdateDisturbance applies a partial update and fires the notifications the
// transition requires. The rules are evaluated in a fixed order; a closing
// update short-circuits everything after it, and a PLANNED disturbance going
// OPEN re-announces to every affected rather than only to additions.
func (uc *UseCases) UpdateDisturbance(ctx context.Context, category types.Category, id types.DisturbanceID, incoming disturbance.Update) (*disturbance.Disturbance, error) {
	if err := incoming.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid update request", goerr.T(errs.TagInvalidRequest))
	}

	old, err := uc.repository.GetDisturbance(ctx, category, id)
	if err != nil {
		return nil, err
	}
	if old == nil {
		return nil, goerr.New("disturbance not found",
			goerr.T(errs.TagNotFound),
			goerr.TV(errutil.CategoryKey, category), goerr.TV(errutil.DisturbanceIDKey, id))
	}

	// Rule 1: CLOSED is terminal
	if old.Closed() {
		return nil, goerr.New("disturbance is closed and cannot be updated",
			goerr.T(errs.TagConflict),
			goerr.TV(errutil.CategoryKey, category), goerr.TV(errutil.DisturbanceIDKey, id),
			goerr.TV(errutil.StatusKey, old.Status))
	}

	// Rule 2: diff the affected sets
	removed := disturbance.DiffRemoved(old.Affecteds, incoming.Affecteds)
	added := disturbance.DiffAdded(old.Affecteds, incoming.Affecteds)

	// Rule 3: a closing update notifies every stored affected and skips all
	// remaining rules
	if incoming.Status != nil && *incoming.Status == types.DisturbanceStatusClosed {
		if err := uc.dispatcher.Dispatch(ctx, types.NotificationKindClose, old, old.Affecteds); err != nil {
			return nil, err
		}
		return uc.persistMerged(ctx, old, incoming)
	}

	// Rules 4-5: removals win over additions; a PLANNED disturbance stays
	// silent either way
	if len(removed) > 0 && old.Status != types.DisturbanceStatusPlanned {
		if err := uc.dispatcher.Dispatch(ctx, types.NotificationKindClose, old, removed); err != nil {
			return nil, err
		}
	} else if len(added) > 0 && old.Status != types.DisturbanceStatusPlanned {
		if err := uc.dispatcher.Dispatch(ctx, types.NotificationKindNew, old, added); err != nil {
			return nil, err
		}
	}

	// Rule 6: content comparison happens against the pre-merge state
	contentChanged := old.ContentChanged(incoming)

	// Rule 7
	merged := old.Merge(ctx, incoming)

	// Rule 8: leaving planning re-announces to everyone, superseding the
	// added-only NEW above. Rule 9: content changes notify unless the
	// disturbance is (still) planned.
	if old.Status == types.DisturbanceStatusPlanned && merged.Status == types.DisturbanceStatusOpen {
		if err := uc.dispatcher.Dispatch(ctx, types.NotificationKindNew, merged, merged.Affecteds); err != nil {
			return nil, err
		}
	} else if contentChanged && merged.Status != types.DisturbanceStatusPlanned {
		if err := uc.dispatcher.Dispatch(ctx, types.NotificationKindUpdate, merged, merged.Affecteds); err != nil {
			return nil, err
		}
	}

	// Rule 10
	if err := uc.repository.PutDisturbance(ctx, *merged); err != nil {
		return nil, goerr.Wrap(err, "failed to persist disturbance",
			goerr.T(errs.TagDatabase),
			goerr.TV(errutil.CategoryKey, category), goerr.TV(errutil.DisturbanceIDKey, id))
	}

	logging.From(ctx).Info("updated disturbance",
		"category", merged.Category, "disturbance_id", merged.ID,
		"status", merged.Status, "added", len(added), "removed", len(removed))
	return merged, nil
}

func (uc *UseCases) persistMerged(ctx context.Context, old *disturbance.Disturbance, incoming disturbance.Update) (*disturbance.Disturbance, error) {
	merged := old.Merge(ctx, incoming)
	if err := uc.repository.PutDisturbance(ctx, *merged); err != nil {
		return nil, goerr.Wrap(err, "failed to persist disturbance",
			goerr.T(errs.TagDatabase),
			goerr.TV(errutil.CategoryKey, merged.Category), goerr.TV(errutil.DisturbanceIDKey, merged.ID))
	}

	logging.From(ctx).Info("closed disturbance",
		"category", merged.Category, "disturbance_id", merged.ID)
	return merged, nil
}

// DeleteDisturbance soft-deletes the disturbance and drops its feedback
// records. Deletion alone never notifies anyone; closing must go through the
// update path.
func (uc *UseCases) DeleteDisturbance(ctx context.Context, category types.Category, id types.DisturbanceID) error {
	d, err := uc.repository.GetDisturbance(ctx, category, id)
	if err != nil {
		return err
	}
	if d == nil {
		return goerr.New("disturbance not found",
			goerr.T(errs.TagNotFound),
			goerr.TV(errutil.CategoryKey, category), goerr.TV(errutil.DisturbanceIDKey, id))
	}

	d.Deleted = true
	if err := uc.repository.PutDisturbance(ctx, *d); err != nil {
		return goerr.Wrap(err, "failed to mark disturbance deleted",
			goerr.T(errs.TagDatabase),
			goerr.TV(errutil.CategoryKey, category), goerr.TV(errutil.DisturbanceIDKey, id))
	}

	count, err := uc.repository.DeleteFeedbacks(ctx, category, id)
	if err != nil {
		return goerr.Wrap(err, "failed to delete feedback records",
			goerr.T(errs.TagDatabase),
			goerr.TV(errutil.CategoryKey, category), goerr.TV(errutil.DisturbanceIDKey, id))
	}

	logging.From(ctx).Info("deleted disturbance",
		"category", category, "disturbance_id", id, "feedbacks_removed", count)
	return nil
}

func (uc *UseCases) GetDisturbance(ctx context.Context, category types.Category, id types.DisturbanceID) (*disturbance.Disturbance, error) {
	d, err := uc.repository.GetDisturbance(ctx, category, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, goerr.New("disturbance not found",
			goerr.T(errs.TagNotFound),
			goerr.TV(errutil.CategoryKey, category), goerr.TV(errutil.DisturbanceIDKey, id))
	}
	return d, nil
}

func (uc *UseCases) ListDisturbances(ctx context.Context, statuses []types.DisturbanceStatus, categories []types.Category) ([]*disturbance.Disturbance, error) {
	return uc.repository.FindDisturbances(ctx, statuses, categories)
}

func (uc *UseCases) ListDisturbancesByParty(ctx context.Context, partyID string, categories []types.Category, statuses []types.DisturbanceStatus) ([]*disturbance.Disturbance, error) {
	if partyID == "" {
		return nil, goerr.New("empty party ID", goerr.T(errs.TagInvalidRequest))
	}
	return uc.repository.FindDisturbancesByPartyID(ctx, partyID, categories, statuses)
}
