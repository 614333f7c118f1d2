package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Category is a service domain (e.g. electricity, water). Categories are
// externally supplied and compared case-insensitively.
type Category string

func (x Category) String() string {
	return string(x)
}

// Key returns the canonical lookup form of the category.
func (x Category) Key() Category {
	return Category(strings.ToUpper(string(x)))
}

func (x Category) Validate() error {
	if x == EmptyCategory {
		return goerr.New("empty category")
	}
	return nil
}

const (
	EmptyCategory Category = ""
)

// DisturbanceID identifies a disturbance within its category. It is assigned
// by the calling system, not generated here.
type DisturbanceID string

func (x DisturbanceID) String() string {
	return string(x)
}

func (x DisturbanceID) Validate() error {
	if x == EmptyDisturbanceID {
		return goerr.New("empty disturbance ID")
	}
	return nil
}

const (
	EmptyDisturbanceID DisturbanceID = ""
)

type DisturbanceStatus string

const (
	DisturbanceStatusOpen    DisturbanceStatus = "OPEN"
	DisturbanceStatusPlanned DisturbanceStatus = "PLANNED"
	DisturbanceStatusClosed  DisturbanceStatus = "CLOSED"
)

var disturbanceStatusLabels = map[DisturbanceStatus]string{
	DisturbanceStatusOpen:    "🔴 Open",
	DisturbanceStatusPlanned: "🗓️ Planned",
	DisturbanceStatusClosed:  "✅️ Closed",
}

func (s DisturbanceStatus) String() string {
	return string(s)
}

func (s DisturbanceStatus) Label() string {
	return disturbanceStatusLabels[s]
}

func (s DisturbanceStatus) Validate() error {
	switch s {
	case DisturbanceStatusOpen, DisturbanceStatusPlanned, DisturbanceStatusClosed:
		return nil
	}
	return goerr.New("invalid disturbance status", goerr.V("status", s))
}

// NotificationKind selects which template family applies to a dispatch.
type NotificationKind string

const (
	NotificationKindNew    NotificationKind = "NEW"
	NotificationKindUpdate NotificationKind = "UPDATE"
	NotificationKindClose  NotificationKind = "CLOSE"
)

func (k NotificationKind) String() string {
	return string(k)
}

func (k NotificationKind) Validate() error {
	switch k {
	case NotificationKindNew, NotificationKindUpdate, NotificationKindClose:
		return nil
	}
	return goerr.New("invalid notification kind", goerr.V("kind", k))
}
