package firestore

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/utilmon-lab/varsel/pkg/domain/model/disturbance"
	"github.com/utilmon-lab/varsel/pkg/domain/model/errs"
	"github.com/utilmon-lab/varsel/pkg/domain/types"
	"github.com/utilmon-lab/varsel/pkg/utils/errutil"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (r *Firestore) GetDisturbance(ctx context.Context, category types.Category, id types.DisturbanceID) (*disturbance.Disturbance, error) {
	doc, err := r.db.Collection(collectionDisturbances).Doc(disturbanceDocID(category, id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, r.eb.Wrap(err, "failed to get disturbance",
			goerr.TV(errutil.CategoryKey, category),
			goerr.TV(errutil.DisturbanceIDKey, id),
			goerr.T(errs.TagDatabase))
	}

	var d disturbance.Disturbance
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to convert data to disturbance",
			goerr.TV(errutil.CategoryKey, category),
			goerr.TV(errutil.DisturbanceIDKey, id),
			goerr.T(errs.TagInternal))
	}
	if d.Deleted {
		return nil, nil
	}

	return &d, nil
}

func (r *Firestore) PutDisturbance(ctx context.Context, d disturbance.Disturbance) error {
	doc := r.db.Collection(collectionDisturbances).Doc(disturbanceDocID(d.Category, d.ID))
	if _, err := doc.Set(ctx, d); err != nil {
		return r.eb.Wrap(err, "failed to put disturbance",
			goerr.TV(errutil.CategoryKey, d.Category),
			goerr.TV(errutil.DisturbanceIDKey, d.ID),
			goerr.T(errs.TagDatabase))
	}
	return nil
}

func (r *Firestore) FindDisturbances(ctx context.Context, statuses []types.DisturbanceStatus, categories []types.Category) ([]*disturbance.Disturbance, error) {
	return r.findDisturbances(ctx, statuses, categories, "")
}

func (r *Firestore) FindDisturbancesByPartyID(ctx context.Context, partyID string, categories []types.Category, statuses []types.DisturbanceStatus) ([]*disturbance.Disturbance, error) {
	return r.findDisturbances(ctx, statuses, categories, partyID)
}

// findDisturbances scans non-deleted documents and narrows by the optional
// filters. The category and party comparisons are case-insensitive, which
// Firestore cannot express as a query, so they happen client side.
func (r *Firestore) findDisturbances(ctx context.Context, statuses []types.DisturbanceStatus, categories []types.Category, partyID string) ([]*disturbance.Disturbance, error) {
	q := r.db.Collection(collectionDisturbances).Where("deleted", "==", false)
	if len(statuses) > 0 {
		q = q.Where("status", "in", statuses)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var found []*disturbance.Disturbance
	for {
		doc, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, r.eb.Wrap(err, "failed to iterate disturbances", goerr.T(errs.TagDatabase))
		}

		var d disturbance.Disturbance
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to convert data to disturbance", goerr.T(errs.TagInternal))
		}

		if !matchCategory(categories, d.Category) {
			continue
		}
		if partyID != "" && !listsParty(&d, partyID) {
			continue
		}
		found = append(found, &d)
	}

	slices.SortFunc(found, func(a, b *disturbance.Disturbance) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return found, nil
}

func (r *Firestore) DeleteClosedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	iter := r.db.Collection(collectionDisturbances).
		Where("status", "==", types.DisturbanceStatusClosed).
		Where("updated_at", "<", cutoff).
		Documents(ctx)
	defer iter.Stop()

	var deleted int
	for {
		doc, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return deleted, r.eb.Wrap(err, "failed to iterate closed disturbances", goerr.T(errs.TagDatabase))
		}

		if err := r.deleteFeedbackDocs(ctx, doc.Ref); err != nil {
			return deleted, err
		}
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return deleted, r.eb.Wrap(err, "failed to delete disturbance",
				goerr.V("doc_id", doc.Ref.ID),
				goerr.T(errs.TagDatabase))
		}
		deleted++
	}

	return deleted, nil
}

func matchCategory(categories []types.Category, category types.Category) bool {
	if len(categories) == 0 {
		return true
	}
	for _, c := range categories {
		if c.Key() == category.Key() {
			return true
		}
	}
	return false
}

func listsParty(d *disturbance.Disturbance, partyID string) bool {
	for _, a := range d.Affecteds {
		if strings.EqualFold(a.PartyID, partyID) {
			return true
		}
	}
	return false
}
