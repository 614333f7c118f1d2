package disturbance

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/utilmon-lab/varsel/pkg/domain/types"
	"github.com/utilmon-lab/varsel/pkg/utils/clock"
	"github.com/utilmon-lab/varsel/pkg/utils/errutil"
)

// TimestampFormat is the wire format for planned start/stop dates, both in
// outbound message bodies and for content-change comparison.
const TimestampFormat = "2006-01-02 15:04"

// FormatTimestamp renders an optional timestamp, "N/A" when absent.
func FormatTimestamp(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.Format(TimestampFormat)
}

// Affected is a party linked to a disturbance. It is owned by exactly one
// disturbance and has no identity of its own beyond the triple
// (PartyID, Reference, FacilityID), compared case-insensitively.
// Coordinates is not part of the identity.
type Affected struct {
	PartyID     string `json:"partyId" firestore:"party_id"`
	Reference   string `json:"reference,omitempty" firestore:"reference,omitempty"`
	FacilityID  string `json:"facilityId,omitempty" firestore:"facility_id,omitempty"`
	Coordinates string `json:"coordinates,omitempty" firestore:"coordinates,omitempty"`
}

// Key returns the canonical identity of the affected entry.
func (a Affected) Key() string {
	return strings.ToLower(a.PartyID) + "\x1f" + strings.ToLower(a.Reference) + "\x1f" + strings.ToLower(a.FacilityID)
}

// Same reports whether two entries refer to the same affected party.
func (a Affected) Same(other Affected) bool {
	return a.Key() == other.Key()
}

func (a Affected) Validate() error {
	if a.PartyID == "" {
		return goerr.New("affected entry has empty party ID")
	}
	return nil
}

// Disturbance is a tracked service interruption. Identity is the pair
// (Category, ID); at most one non-deleted disturbance exists per pair.
// A disturbance is only mutated through Merge; once the status reaches
// CLOSED no further mutation is permitted.
type Disturbance struct {
	Category         types.Category          `json:"category" firestore:"category"`
	ID               types.DisturbanceID     `json:"disturbanceId" firestore:"disturbance_id"`
	Status           types.DisturbanceStatus `json:"status" firestore:"status"`
	Title            string                  `json:"title" firestore:"title"`
	Description      string                  `json:"description" firestore:"description"`
	PlannedStartDate *time.Time              `json:"plannedStartDate,omitempty" firestore:"planned_start_date,omitempty"`
	PlannedStopDate  *time.Time              `json:"plannedStopDate,omitempty" firestore:"planned_stop_date,omitempty"`
	Affecteds        []Affected              `json:"affecteds" firestore:"affecteds"`

	CreatedAt time.Time `json:"createdAt" firestore:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updated_at"`
	Deleted   bool      `json:"-" firestore:"deleted"`
}

func New(ctx context.Context, category types.Category, id types.DisturbanceID) *Disturbance {
	now := clock.Now(ctx)
	return &Disturbance{
		Category:  category,
		ID:        id,
		Status:    types.DisturbanceStatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (d *Disturbance) Validate() error {
	if err := d.Category.Validate(); err != nil {
		return err
	}
	if err := d.ID.Validate(); err != nil {
		return err
	}
	if err := d.Status.Validate(); err != nil {
		return goerr.Wrap(err, "invalid disturbance status",
			goerr.TV(errutil.CategoryKey, d.Category), goerr.TV(errutil.DisturbanceIDKey, d.ID))
	}
	for _, a := range d.Affecteds {
		if err := a.Validate(); err != nil {
			return goerr.Wrap(err, "invalid affected entry",
				goerr.TV(errutil.CategoryKey, d.Category), goerr.TV(errutil.DisturbanceIDKey, d.ID))
		}
	}
	return nil
}

// Closed reports whether the disturbance has reached its terminal status.
func (d *Disturbance) Closed() bool {
	return d.Status == types.DisturbanceStatusClosed
}

// Clone returns a deep copy. Merge operates on a clone so that a cached read
// of the stored aggregate is never aliased by an in-flight update.
func (d *Disturbance) Clone() *Disturbance {
	next := *d
	if d.Affecteds != nil {
		next.Affecteds = make([]Affected, len(d.Affecteds))
		copy(next.Affecteds, d.Affecteds)
	}
	if d.PlannedStartDate != nil {
		t := *d.PlannedStartDate
		next.PlannedStartDate = &t
	}
	if d.PlannedStopDate != nil {
		t := *d.PlannedStopDate
		next.PlannedStopDate = &t
	}
	return &next
}
