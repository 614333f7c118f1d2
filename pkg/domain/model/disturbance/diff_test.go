package disturbance_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/utilmon-lab/varsel/pkg/domain/model/disturbance"
)

func TestDiffNilIncoming(t *testing.T) {
	old := []disturbance.Affected{
		{PartyID: "p1", Reference: "Main street 1"},
		{PartyID: "p2", Reference: "Main street 2"},
	}

	// an update that does not mention affecteds never adds or removes
	gt.Array(t, disturbance.DiffRemoved(old, nil)).Length(0)
	gt.Array(t, disturbance.DiffAdded(old, nil)).Length(0)
}

func TestDiffEmptyIncoming(t *testing.T) {
	old := []disturbance.Affected{
		{PartyID: "p1"},
		{PartyID: "p2"},
	}

	removed := disturbance.DiffRemoved(old, []disturbance.Affected{})
	gt.Array(t, removed).Length(2)
	gt.Value(t, removed[0].PartyID).Equal("p1")
	gt.Value(t, removed[1].PartyID).Equal("p2")
	gt.Array(t, disturbance.DiffAdded(old, []disturbance.Affected{})).Length(0)
}

func TestDiffNilOld(t *testing.T) {
	incoming := []disturbance.Affected{
		{PartyID: "p1"},
		{PartyID: "p2"},
	}

	added := disturbance.DiffAdded(nil, incoming)
	gt.Array(t, added).Length(2)
	gt.Array(t, disturbance.DiffRemoved(nil, incoming)).Length(0)
}

func TestDiffCaseInsensitiveIdentity(t *testing.T) {
	old := []disturbance.Affected{
		{PartyID: "P1", Reference: "MAIN STREET 1", FacilityID: "F-100"},
	}
	incoming := []disturbance.Affected{
		{PartyID: "p1", Reference: "main street 1", FacilityID: "f-100"},
	}

	gt.Array(t, disturbance.DiffRemoved(old, incoming)).Length(0)
	gt.Array(t, disturbance.DiffAdded(old, incoming)).Length(0)
}

func TestDiffCoordinatesNotIdentity(t *testing.T) {
	old := []disturbance.Affected{
		{PartyID: "p1", Reference: "r1", Coordinates: "62.39,17.30"},
	}
	incoming := []disturbance.Affected{
		{PartyID: "p1", Reference: "r1", Coordinates: "62.40,17.31"},
	}

	// coordinate-only changes are not an add/remove event
	gt.Array(t, disturbance.DiffRemoved(old, incoming)).Length(0)
	gt.Array(t, disturbance.DiffAdded(old, incoming)).Length(0)
}

func TestDiffAddedAndRemovedDisjoint(t *testing.T) {
	old := []disturbance.Affected{
		{PartyID: "p1", Reference: "r1"},
		{PartyID: "p2", Reference: "r2"},
		{PartyID: "p3", Reference: "r3"},
	}
	incoming := []disturbance.Affected{
		{PartyID: "p2", Reference: "r2"},
		{PartyID: "p3", Reference: "changed"},
		{PartyID: "p4", Reference: "r4"},
	}

	removed := disturbance.DiffRemoved(old, incoming)
	added := disturbance.DiffAdded(old, incoming)

	gt.Array(t, removed).Length(2)
	gt.Value(t, removed[0].PartyID).Equal("p1")
	gt.Value(t, removed[1].PartyID).Equal("p3")

	gt.Array(t, added).Length(2)
	gt.Value(t, added[0].Reference).Equal("changed")
	gt.Value(t, added[1].PartyID).Equal("p4")

	seen := map[string]bool{}
	for _, a := range removed {
		seen[a.Key()] = true
	}
	for _, a := range added {
		gt.False(t, seen[a.Key()])
	}
}

func TestDiffDeduplicatesIdentities(t *testing.T) {
	old := []disturbance.Affected{
		{PartyID: "p1", Reference: "r1"},
		{PartyID: "P1", Reference: "R1"},
	}
	incoming := []disturbance.Affected{
		{PartyID: "p9", Reference: "r9"},
		{PartyID: "P9", Reference: "R9"},
	}

	gt.Array(t, disturbance.DiffRemoved(old, incoming)).Length(1)
	gt.Array(t, disturbance.DiffAdded(old, incoming)).Length(1)
}

func TestDiffStableOrder(t *testing.T) {
	old := []disturbance.Affected{
		{PartyID: "c"}, {PartyID: "a"}, {PartyID: "b"},
	}
	incoming := []disturbance.Affected{
		{PartyID: "z"}, {PartyID: "x"}, {PartyID: "y"},
	}

	removed := disturbance.DiffRemoved(old, incoming)
	gt.Array(t, removed).Length(3)
	gt.Value(t, removed[0].PartyID).Equal("c")
	gt.Value(t, removed[1].PartyID).Equal("a")
	gt.Value(t, removed[2].PartyID).Equal("b")

	added := disturbance.DiffAdded(old, incoming)
	gt.Array(t, added).Length(3)
	gt.Value(t, added[0].PartyID).Equal("z")
	gt.Value(t, added[1].PartyID).Equal("x")
	gt.Value(t, added[2].PartyID).Equal("y")
}
