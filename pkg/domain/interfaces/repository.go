package interfaces

import (
	"context"
	"time"

	"github.com/utilmon-lab/varsel/pkg/domain/model/disturbance"
	"github.com/utilmon-lab/varsel/pkg/domain/model/feedback"
	"github.com/utilmon-lab/varsel/pkg/domain/types"
)

type Repository interface {
	// GetDisturbance returns the non-deleted disturbance for the pair, or
	// (nil, nil) when none exists.
	GetDisturbance(ctx context.Context, category types.Category, id types.DisturbanceID) (*disturbance.Disturbance, error)
	PutDisturbance(ctx context.Context, d disturbance.Disturbance) error
	// FindDisturbances returns non-deleted disturbances, optionally narrowed
	// by status and category. Empty filter slices mean "any".
	FindDisturbances(ctx context.Context, statuses []types.DisturbanceStatus, categories []types.Category) ([]*disturbance.Disturbance, error)
	// FindDisturbancesByPartyID returns non-deleted disturbances that list
	// the party (case-insensitive) among their affecteds.
	FindDisturbancesByPartyID(ctx context.Context, partyID string, categories []types.Category, statuses []types.DisturbanceStatus) ([]*disturbance.Disturbance, error)
	// DeleteClosedBefore physically removes CLOSED disturbances last updated
	// before cutoff, together with their feedback records, and returns the
	// number of disturbances removed.
	DeleteClosedBefore(ctx context.Context, cutoff time.Time) (int, error)

	// For feedback management
	GetFeedbacks(ctx context.Context, category types.Category, id types.DisturbanceID) ([]*feedback.Feedback, error)
	// GetFeedbackByParty matches the party case-insensitively and returns
	// (nil, nil) when no record exists.
	GetFeedbackByParty(ctx context.Context, category types.Category, id types.DisturbanceID, partyID string) (*feedback.Feedback, error)
	PutFeedback(ctx context.Context, fb feedback.Feedback) error
	DeleteFeedbacks(ctx context.Context, category types.Category, id types.DisturbanceID) (int, error)
	// DeleteFeedbackByParty removes one party's opt-in; it is a no-op when
	// no record exists.
	DeleteFeedbackByParty(ctx context.Context, category types.Category, id types.DisturbanceID, partyID string) error

	// PutHistoryEntry appends one audit row. Write-only from this
	// subsystem's view.
	PutHistoryEntry(ctx context.Context, entry feedback.HistoryEntry) error
}
