package message

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/utilmon-lab/varsel/pkg/domain/types"
	"github.com/utilmon-lab/varsel/pkg/utils/errutil"
)

// Config is the per-category message configuration. It is supplied by
// external configuration at process start and never mutated by this
// subsystem. An inactive (or missing) config means no messages are sent for
// the category.
type Config struct {
	Category types.Category `json:"category" yaml:"category"`
	Active   bool           `json:"active" yaml:"active"`
	Sender   Sender         `json:"sender" yaml:"sender"`

	SubjectNew string `json:"subjectNew" yaml:"subject_new"`
	BodyNew    string `json:"bodyNew" yaml:"body_new"`

	SubjectUpdate string `json:"subjectUpdate" yaml:"subject_update"`
	BodyUpdate    string `json:"bodyUpdate" yaml:"body_update"`

	SubjectClose string `json:"subjectClose" yaml:"subject_close"`
	BodyClose    string `json:"bodyClose" yaml:"body_close"`
}

func (c *Config) Validate() error {
	if err := c.Category.Validate(); err != nil {
		return goerr.Wrap(err, "message config without category")
	}
	return nil
}

// Template returns the subject/body template pair for the given kind.
func (c *Config) Template(kind types.NotificationKind) (subject, body string, err error) {
	switch kind {
	case types.NotificationKindNew:
		return c.SubjectNew, c.BodyNew, nil
	case types.NotificationKindUpdate:
		return c.SubjectUpdate, c.BodyUpdate, nil
	case types.NotificationKindClose:
		return c.SubjectClose, c.BodyClose, nil
	}
	return "", "", goerr.New("invalid notification kind", goerr.TV(errutil.KindKey, kind))
}
