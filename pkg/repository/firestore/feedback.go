package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/utilmon-lab/varsel/pkg/domain/model/errs"
	"github.com/utilmon-lab/varsel/pkg/domain/model/feedback"
	"github.com/utilmon-lab/varsel/pkg/domain/types"
	"github.com/utilmon-lab/varsel/pkg/utils/errutil"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Feedback records live in a subcollection of their disturbance document so
// that disturbance-scoped reads and bulk deletes stay single-parent.
func (r *Firestore) feedbackCollection(category types.Category, id types.DisturbanceID) *firestore.CollectionRef {
	return r.db.Collection(collectionDisturbances).
		Doc(disturbanceDocID(category, id)).
		Collection(subcollectionFeedbacks)
}

func (r *Firestore) GetFeedbacks(ctx context.Context, category types.Category, id types.DisturbanceID) ([]*feedback.Feedback, error) {
	iter := r.feedbackCollection(category, id).Documents(ctx)
	defer iter.Stop()

	var feedbacks []*feedback.Feedback
	for {
		doc, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, r.eb.Wrap(err, "failed to iterate feedbacks",
				goerr.TV(errutil.CategoryKey, category),
				goerr.TV(errutil.DisturbanceIDKey, id),
				goerr.T(errs.TagDatabase))
		}

		var fb feedback.Feedback
		if err := doc.DataTo(&fb); err != nil {
			return nil, goerr.Wrap(err, "failed to convert data to feedback", goerr.T(errs.TagInternal))
		}
		feedbacks = append(feedbacks, &fb)
	}

	return feedbacks, nil
}

func (r *Firestore) GetFeedbackByParty(ctx context.Context, category types.Category, id types.DisturbanceID, partyID string) (*feedback.Feedback, error) {
	doc, err := r.feedbackCollection(category, id).Doc(feedbackDocID(partyID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, r.eb.Wrap(err, "failed to get feedback",
			goerr.TV(errutil.CategoryKey, category),
			goerr.TV(errutil.DisturbanceIDKey, id),
			goerr.TV(errutil.PartyIDKey, partyID),
			goerr.T(errs.TagDatabase))
	}

	var fb feedback.Feedback
	if err := doc.DataTo(&fb); err != nil {
		return nil, goerr.Wrap(err, "failed to convert data to feedback", goerr.T(errs.TagInternal))
	}

	return &fb, nil
}

func (r *Firestore) PutFeedback(ctx context.Context, fb feedback.Feedback) error {
	doc := r.feedbackCollection(fb.Category, fb.DisturbanceID).Doc(feedbackDocID(fb.PartyID))
	if _, err := doc.Create(ctx, fb); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return goerr.New("feedback already exists",
				goerr.TV(errutil.CategoryKey, fb.Category),
				goerr.TV(errutil.DisturbanceIDKey, fb.DisturbanceID),
				goerr.TV(errutil.PartyIDKey, fb.PartyID),
				goerr.T(errs.TagConflict))
		}
		return r.eb.Wrap(err, "failed to put feedback",
			goerr.TV(errutil.CategoryKey, fb.Category),
			goerr.TV(errutil.DisturbanceIDKey, fb.DisturbanceID),
			goerr.T(errs.TagDatabase))
	}
	return nil
}

func (r *Firestore) DeleteFeedbacks(ctx context.Context, category types.Category, id types.DisturbanceID) (int, error) {
	iter := r.feedbackCollection(category, id).Documents(ctx)
	defer iter.Stop()

	var deleted int
	for {
		doc, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return deleted, r.eb.Wrap(err, "failed to iterate feedbacks",
				goerr.TV(errutil.CategoryKey, category),
				goerr.TV(errutil.DisturbanceIDKey, id),
				goerr.T(errs.TagDatabase))
		}
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return deleted, r.eb.Wrap(err, "failed to delete feedback",
				goerr.V("doc_id", doc.Ref.ID),
				goerr.T(errs.TagDatabase))
		}
		deleted++
	}

	return deleted, nil
}

func (r *Firestore) DeleteFeedbackByParty(ctx context.Context, category types.Category, id types.DisturbanceID, partyID string) error {
	doc := r.feedbackCollection(category, id).Doc(feedbackDocID(partyID))
	if _, err := doc.Delete(ctx); err != nil {
		return r.eb.Wrap(err, "failed to delete feedback",
			goerr.TV(errutil.CategoryKey, category),
			goerr.TV(errutil.DisturbanceIDKey, id),
			goerr.TV(errutil.PartyIDKey, partyID),
			goerr.T(errs.TagDatabase))
	}
	return nil
}

func (r *Firestore) PutHistoryEntry(ctx context.Context, entry feedback.HistoryEntry) error {
	doc := r.db.Collection(collectionHistories).Doc(entry.ID.String())
	if _, err := doc.Set(ctx, entry); err != nil {
		return r.eb.Wrap(err, "failed to put history entry",
			goerr.TV(errutil.CategoryKey, entry.Category),
			goerr.TV(errutil.DisturbanceIDKey, entry.DisturbanceID),
			goerr.T(errs.TagDatabase))
	}
	return nil
}

// deleteFeedbackDocs removes every feedback document under a disturbance ref.
func (r *Firestore) deleteFeedbackDocs(ctx context.Context, ref *firestore.DocumentRef) error {
	iter := ref.Collection(subcollectionFeedbacks).Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				return nil
			}
			return r.eb.Wrap(err, "failed to iterate feedbacks",
				goerr.V("doc_id", ref.ID),
				goerr.T(errs.TagDatabase))
		}
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return r.eb.Wrap(err, "failed to delete feedback",
				goerr.V("doc_id", doc.Ref.ID),
				goerr.T(errs.TagDatabase))
		}
	}
}
