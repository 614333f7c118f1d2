package notifier

import (
	"github.com/utilmon-lab/varsel/pkg/domain/model/disturbance"
	"github.com/utilmon-lab/varsel/pkg/domain/model/feedback"
)

// Eligible narrows candidates to those whose party has an explicit opt-in
// record for the disturbance, matched case-insensitively on the party ID.
// This is the gate that keeps the system from messaging a party that never
// asked for updates, even when it is listed as affected. Order and identity
// of the candidates are preserved.
func Eligible(candidates []disturbance.Affected, feedbacks []*feedback.Feedback) []disturbance.Affected {
	if len(candidates) == 0 || len(feedbacks) == 0 {
		return nil
	}

	var eligible []disturbance.Affected
	for _, candidate := range candidates {
		for _, fb := range feedbacks {
			if fb.MatchesParty(candidate.PartyID) {
				eligible = append(eligible, candidate)
				break
			}
		}
	}
	return eligible
}
