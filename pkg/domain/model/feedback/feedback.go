package feedback

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/utilmon-lab/varsel/pkg/domain/types"
	"github.com/utilmon-lab/varsel/pkg/utils/clock"
	"github.com/utilmon-lab/varsel/pkg/utils/errutil"
)

// Feedback is a party's explicit opt-in to be notified about one specific
// disturbance. It is created once, never updated, and removed in bulk when
// the parent disturbance is deleted.
type Feedback struct {
	Category      types.Category      `json:"category" firestore:"category"`
	DisturbanceID types.DisturbanceID `json:"disturbanceId" firestore:"disturbance_id"`
	PartyID       string              `json:"partyId" firestore:"party_id"`
	CreatedAt     time.Time           `json:"createdAt" firestore:"created_at"`
}

func New(ctx context.Context, category types.Category, disturbanceID types.DisturbanceID, partyID string) *Feedback {
	return &Feedback{
		Category:      category,
		DisturbanceID: disturbanceID,
		PartyID:       partyID,
		CreatedAt:     clock.Now(ctx),
	}
}

func (f *Feedback) Validate() error {
	if err := f.Category.Validate(); err != nil {
		return err
	}
	if err := f.DisturbanceID.Validate(); err != nil {
		return err
	}
	if f.PartyID == "" {
		return goerr.New("feedback has empty party ID",
			goerr.TV(errutil.CategoryKey, f.Category), goerr.TV(errutil.DisturbanceIDKey, f.DisturbanceID))
	}
	return nil
}

// MatchesParty compares the opted-in party case-insensitively.
func (f *Feedback) MatchesParty(partyID string) bool {
	return strings.EqualFold(f.PartyID, partyID)
}

// HistoryEntry is one append-only audit row, written for every message that
// was composed and queued. It records the attempt, not a confirmed delivery,
// and is never read back by this subsystem.
type HistoryEntry struct {
	ID            types.HistoryEntryID `json:"id" firestore:"id"`
	Category      types.Category       `json:"category" firestore:"category"`
	DisturbanceID types.DisturbanceID  `json:"disturbanceId" firestore:"disturbance_id"`
	PartyID       string               `json:"partyId" firestore:"party_id"`
	Status        types.FeedbackStatus `json:"status" firestore:"status"`
	CreatedAt     time.Time            `json:"createdAt" firestore:"created_at"`
}

func NewHistoryEntry(ctx context.Context, category types.Category, disturbanceID types.DisturbanceID, partyID string) *HistoryEntry {
	return &HistoryEntry{
		ID:            types.NewHistoryEntryID(),
		Category:      category,
		DisturbanceID: disturbanceID,
		PartyID:       partyID,
		Status:        types.FeedbackStatusSent,
		CreatedAt:     clock.Now(ctx),
	}
}
