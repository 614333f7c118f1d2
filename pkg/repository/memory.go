package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/utilmon-lab/varsel/pkg/domain/interfaces"
	"github.com/utilmon-lab/varsel/pkg/domain/model/disturbance"
	"github.com/utilmon-lab/varsel/pkg/domain/model/errs"
	"github.com/utilmon-lab/varsel/pkg/domain/model/feedback"
	"github.com/utilmon-lab/varsel/pkg/domain/types"
	"github.com/utilmon-lab/varsel/pkg/utils/errutil"
)

type Memory struct {
	mu         sync.RWMutex
	feedbackMu sync.RWMutex
	historyMu  sync.RWMutex

	disturbances map[string]*disturbance.Disturbance
	feedbacks    map[string][]*feedback.Feedback
	history      []*feedback.HistoryEntry

	eb *goerr.Builder
}

var _ interfaces.Repository = &Memory{}

func NewMemory() *Memory {
	return &Memory{
		disturbances: make(map[string]*disturbance.Disturbance),
		feedbacks:    make(map[string][]*feedback.Feedback),
		eb:           goerr.NewBuilder(goerr.V("repository", "memory")),
	}
}

func pairKey(category types.Category, id types.DisturbanceID) string {
	return category.Key().String() + "/" + id.String()
}

func (r *Memory) GetDisturbance(ctx context.Context, category types.Category, id types.DisturbanceID) (*disturbance.Disturbance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.disturbances[pairKey(category, id)]
	if !ok || d.Deleted {
		return nil, nil
	}
	return d.Clone(), nil
}

func (r *Memory) PutDisturbance(ctx context.Context, d disturbance.Disturbance) error {
	if err := d.Validate(); err != nil {
		return r.eb.Wrap(err, "invalid disturbance")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.disturbances[pairKey(d.Category, d.ID)] = d.Clone()
	return nil
}

func matchStatus(statuses []types.DisturbanceStatus, s types.DisturbanceStatus) bool {
	return len(statuses) == 0 || slices.Contains(statuses, s)
}

func matchCategory(categories []types.Category, c types.Category) bool {
	if len(categories) == 0 {
		return true
	}
	for _, want := range categories {
		if want.Key() == c.Key() {
			return true
		}
	}
	return false
}

func (r *Memory) FindDisturbances(ctx context.Context, statuses []types.DisturbanceStatus, categories []types.Category) ([]*disturbance.Disturbance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found []*disturbance.Disturbance
	for _, d := range r.disturbances {
		if d.Deleted {
			continue
		}
		if !matchStatus(statuses, d.Status) || !matchCategory(categories, d.Category) {
			continue
		}
		found = append(found, d.Clone())
	}

	slices.SortFunc(found, func(a, b *disturbance.Disturbance) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return found, nil
}

func (r *Memory) FindDisturbancesByPartyID(ctx context.Context, partyID string, categories []types.Category, statuses []types.DisturbanceStatus) ([]*disturbance.Disturbance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found []*disturbance.Disturbance
	for _, d := range r.disturbances {
		if d.Deleted {
			continue
		}
		if !matchStatus(statuses, d.Status) || !matchCategory(categories, d.Category) {
			continue
		}
		for _, a := range d.Affecteds {
			if strings.EqualFold(a.PartyID, partyID) {
				found = append(found, d.Clone())
				break
			}
		}
	}

	slices.SortFunc(found, func(a, b *disturbance.Disturbance) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return found, nil
}

func (r *Memory) DeleteClosedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int
	for key, d := range r.disturbances {
		if d.Status != types.DisturbanceStatusClosed || !d.UpdatedAt.Before(cutoff) {
			continue
		}
		delete(r.disturbances, key)
		deleted++

		r.feedbackMu.Lock()
		delete(r.feedbacks, key)
		r.feedbackMu.Unlock()
	}
	return deleted, nil
}

func (r *Memory) GetFeedbacks(ctx context.Context, category types.Category, id types.DisturbanceID) ([]*feedback.Feedback, error) {
	r.feedbackMu.RLock()
	defer r.feedbackMu.RUnlock()

	stored := r.feedbacks[pairKey(category, id)]
	found := make([]*feedback.Feedback, 0, len(stored))
	for _, fb := range stored {
		fbCopy := *fb
		found = append(found, &fbCopy)
	}
	return found, nil
}

func (r *Memory) GetFeedbackByParty(ctx context.Context, category types.Category, id types.DisturbanceID, partyID string) (*feedback.Feedback, error) {
	r.feedbackMu.RLock()
	defer r.feedbackMu.RUnlock()

	for _, fb := range r.feedbacks[pairKey(category, id)] {
		if fb.MatchesParty(partyID) {
			fbCopy := *fb
			return &fbCopy, nil
		}
	}
	return nil, nil
}

func (r *Memory) PutFeedback(ctx context.Context, fb feedback.Feedback) error {
	if err := fb.Validate(); err != nil {
		return r.eb.Wrap(err, "invalid feedback")
	}

	r.feedbackMu.Lock()
	defer r.feedbackMu.Unlock()

	key := pairKey(fb.Category, fb.DisturbanceID)
	for _, existing := range r.feedbacks[key] {
		if existing.MatchesParty(fb.PartyID) {
			return r.eb.New("feedback already registered",
				goerr.T(errs.TagConflict),
				goerr.TV(errutil.CategoryKey, fb.Category),
				goerr.TV(errutil.DisturbanceIDKey, fb.DisturbanceID),
				goerr.TV(errutil.PartyIDKey, fb.PartyID))
		}
	}
	r.feedbacks[key] = append(r.feedbacks[key], &fb)
	return nil
}

func (r *Memory) DeleteFeedbacks(ctx context.Context, category types.Category, id types.DisturbanceID) (int, error) {
	r.feedbackMu.Lock()
	defer r.feedbackMu.Unlock()

	key := pairKey(category, id)
	count := len(r.feedbacks[key])
	delete(r.feedbacks, key)
	return count, nil
}

func (r *Memory) DeleteFeedbackByParty(ctx context.Context, category types.Category, id types.DisturbanceID, partyID string) error {
	r.feedbackMu.Lock()
	defer r.feedbackMu.Unlock()

	key := pairKey(category, id)
	stored := r.feedbacks[key]
	kept := stored[:0]
	for _, fb := range stored {
		if !fb.MatchesParty(partyID) {
			kept = append(kept, fb)
		}
	}
	if len(kept) == 0 {
		delete(r.feedbacks, key)
	} else {
		r.feedbacks[key] = kept
	}
	return nil
}

func (r *Memory) PutHistoryEntry(ctx context.Context, entry feedback.HistoryEntry) error {
	r.historyMu.Lock()
	defer r.historyMu.Unlock()

	r.history = append(r.history, &entry)
	return nil
}

// HistoryEntries returns a snapshot of the audit trail. Production code
// never reads it back; tests do.
func (r *Memory) HistoryEntries() []*feedback.HistoryEntry {
	r.historyMu.RLock()
	defer r.historyMu.RUnlock()

	entries := make([]*feedback.HistoryEntry, len(r.history))
	copy(entries, r.history)
	return entries
}
