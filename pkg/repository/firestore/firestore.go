package firestore

import (
	"context"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/utilmon-lab/varsel/pkg/domain/interfaces"
	"github.com/utilmon-lab/varsel/pkg/domain/types"
	"github.com/utilmon-lab/varsel/pkg/utils/errutil"
)

type Firestore struct {
	db *firestore.Client
	eb *goerr.Builder
}

var _ interfaces.Repository = &Firestore{}

func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	db, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	return &Firestore{
		db: db,
		eb: goerr.NewBuilder(
			goerr.TV(errutil.RepositoryKey, "firestore"),
			goerr.V("project_id", projectID),
			goerr.V("database_id", databaseID),
		),
	}, nil
}

func (r *Firestore) Close() error {
	return r.db.Close()
}

const (
	collectionDisturbances = "disturbances"
	collectionHistories    = "histories"
	subcollectionFeedbacks = "feedbacks"
)

// disturbanceDocID builds the document ID for the identity pair. The
// category side is case-insensitive so both halves are normalized.
func disturbanceDocID(category types.Category, id types.DisturbanceID) string {
	return category.Key().String() + ":" + id.String()
}

func feedbackDocID(partyID string) string {
	return strings.ToLower(partyID)
}
