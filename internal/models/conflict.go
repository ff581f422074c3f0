package models

import "fmt"

// ConflictType describes the kind of conflict detected between two entries.
type ConflictType string

const (
	ConflictDuplicateTask ConflictType = "duplicate_task"
	ConflictTimeOverlap   ConflictType = "time_overlap"
)

// Conflict details a pair of clashing entries that callers can present to
// users.
type Conflict struct {
	Type         ConflictType `json:"type"`
	EntryID      string       `json:"entry_id"`
	OtherEntryID string       `json:"other_entry_id"`
	Task         string       `json:"task,omitempty"`
	Assignee     string       `json:"assignee,omitempty"`
	Message      string       `json:"message"`
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s: %s", c.Type, c.Message)
}
