package notifier

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/utilmon-lab/varsel/pkg/domain/model/disturbance"
	"github.com/utilmon-lab/varsel/pkg/domain/model/message"
	"github.com/utilmon-lab/varsel/pkg/domain/types"
	"github.com/utilmon-lab/varsel/pkg/utils/errutil"
)

// Template placeholders. Planned dates render as "N/A" when absent.
const (
	placeholderNewline          = "${newline}"
	placeholderTitle            = "${title}"
	placeholderDescription      = "${description}"
	placeholderPlannedStartDate = "${plannedStartDate}"
	placeholderPlannedStopDate  = "${plannedStopDate}"
	placeholderReference        = "${affected.reference}"
)

// Render composes one outbound message for an affected party from the
// category config's template pair for the given kind.
func Render(kind types.NotificationKind, cfg *message.Config, d *disturbance.Disturbance, affected disturbance.Affected) (*message.Message, error) {
	subject, body, err := cfg.Template(kind)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to select message template",
			goerr.TV(errutil.CategoryKey, d.Category), goerr.TV(errutil.DisturbanceIDKey, d.ID))
	}

	replacer := strings.NewReplacer(
		placeholderNewline, "\n",
		placeholderTitle, d.Title,
		placeholderDescription, d.Description,
		placeholderPlannedStartDate, disturbance.FormatTimestamp(d.PlannedStartDate),
		placeholderPlannedStopDate, disturbance.FormatTimestamp(d.PlannedStopDate),
		placeholderReference, affected.Reference,
	)

	return &message.Message{
		Sender: cfg.Sender,
		Headers: []message.Header{
			{Name: message.HeaderType, Values: []string{message.TypeDisturbance}},
			{Name: message.HeaderFacilityID, Values: []string{affected.FacilityID}},
			{Name: message.HeaderCategory, Values: []string{d.Category.String()}},
		},
		Party:   message.Party{PartyID: affected.PartyID},
		Subject: replacer.Replace(subject),
		Body:    replacer.Replace(body),
	}, nil
}
