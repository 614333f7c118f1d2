package types

import (
	"github.com/google/uuid"
)

// HistoryEntryID identifies one audit row in the feedback history.
type HistoryEntryID string

func (x HistoryEntryID) String() string {
	return string(x)
}

func NewHistoryEntryID() HistoryEntryID {
	id, err := uuid.NewV7()
	if err != nil {
		panic(err)
	}
	return HistoryEntryID(id.String())
}

const (
	EmptyHistoryEntryID HistoryEntryID = ""
)

// FeedbackStatus is the status recorded on a history entry. The subsystem
// only ever records attempted sends.
type FeedbackStatus string

const (
	FeedbackStatusSent FeedbackStatus = "SENT"
)

func (s FeedbackStatus) String() string {
	return string(s)
}
