package disturbance

import (
	"context"
	"strings"
	"time"

	"github.com/utilmon-lab/varsel/pkg/domain/types"
	"github.com/utilmon-lab/varsel/pkg/utils/clock"
)

// Update is a partial update of a disturbance. Nil fields leave the stored
// value untouched (PATCH semantics). A nil Affecteds list leaves the affected
// set untouched entirely; an empty non-nil list removes every entry.
type Update struct {
	Title            *string                  `json:"title,omitempty"`
	Description      *string                  `json:"description,omitempty"`
	Status           *types.DisturbanceStatus `json:"status,omitempty"`
	PlannedStartDate *time.Time               `json:"plannedStartDate,omitempty"`
	PlannedStopDate  *time.Time               `json:"plannedStopDate,omitempty"`
	Affecteds        []Affected               `json:"affecteds,omitempty"`
}

func (u Update) Validate() error {
	if u.Status != nil {
		if err := u.Status.Validate(); err != nil {
			return err
		}
	}
	for _, a := range u.Affecteds {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Merge applies incoming onto a copy of d and returns the next state. The
// receiver is never mutated. For the affected set, entries matched by the
// identity triple survive exactly as stored: an incoming entry that differs
// only in coordinates does not replace the stored one. Callers that need a
// coordinate change must remove the entry and add a replacement.
func (d *Disturbance) Merge(ctx context.Context, incoming Update) *Disturbance {
	next := d.Clone()

	if incoming.Title != nil {
		next.Title = *incoming.Title
	}
	if incoming.Description != nil {
		next.Description = *incoming.Description
	}
	if incoming.Status != nil {
		next.Status = *incoming.Status
	}
	if incoming.PlannedStartDate != nil {
		t := *incoming.PlannedStartDate
		next.PlannedStartDate = &t
	}
	if incoming.PlannedStopDate != nil {
		t := *incoming.PlannedStopDate
		next.PlannedStopDate = &t
	}

	if incoming.Affecteds != nil {
		removed := DiffRemoved(d.Affecteds, incoming.Affecteds)
		dropped := make(map[string]struct{}, len(removed))
		for _, a := range removed {
			dropped[a.Key()] = struct{}{}
		}

		merged := make([]Affected, 0, len(next.Affecteds))
		for _, a := range next.Affecteds {
			if _, ok := dropped[a.Key()]; ok {
				continue
			}
			merged = append(merged, a)
		}
		next.Affecteds = append(merged, DiffAdded(d.Affecteds, incoming.Affecteds)...)
	}

	next.UpdatedAt = clock.Now(ctx)
	return next
}

// ContentChanged reports whether incoming would change any user-visible
// content field. Comparison is case-insensitive, with planned dates compared
// as their formatted wire strings. A PLANNED disturbance going OPEN always
// counts as changed content.
func (d *Disturbance) ContentChanged(incoming Update) bool {
	if incoming.Description != nil && !strings.EqualFold(*incoming.Description, d.Description) {
		return true
	}
	if incoming.Title != nil && !strings.EqualFold(*incoming.Title, d.Title) {
		return true
	}
	if incoming.PlannedStartDate != nil &&
		!strings.EqualFold(FormatTimestamp(incoming.PlannedStartDate), FormatTimestamp(d.PlannedStartDate)) {
		return true
	}
	if incoming.PlannedStopDate != nil &&
		!strings.EqualFold(FormatTimestamp(incoming.PlannedStopDate), FormatTimestamp(d.PlannedStopDate)) {
		return true
	}
	if d.Status == types.DisturbanceStatusPlanned &&
		incoming.Status != nil && *incoming.Status == types.DisturbanceStatusOpen {
		return true
	}
	return false
}
