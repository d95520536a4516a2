package enums

import "fmt"

// RevisionStatus tracks a maintenance revision through the workshop.
type RevisionStatus string

const (
	RevisionStatusScheduled  RevisionStatus = "scheduled"
	RevisionStatusInProgress RevisionStatus = "in_progress"
	RevisionStatusCompleted  RevisionStatus = "completed"
	RevisionStatusCancelled  RevisionStatus = "cancelled"
)

var validRevisionStatuses = []RevisionStatus{
	RevisionStatusScheduled,
	RevisionStatusInProgress,
	RevisionStatusCompleted,
	RevisionStatusCancelled,
}

// String implements fmt.Stringer.
func (v RevisionStatus) String() string {
	return string(v)
}

// IsValid reports whether the value is a known RevisionStatus.
func (v RevisionStatus) IsValid() bool {
	for _, candidate := range validRevisionStatuses {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseRevisionStatus converts raw input into a RevisionStatus.
func ParseRevisionStatus(value string) (RevisionStatus, error) {
	for _, candidate := range validRevisionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid revision status %q", value)
}

// ChecklistEntryStatus is the inspection outcome of a single checklist item.
type ChecklistEntryStatus string

const (
	ChecklistEntryPending       ChecklistEntryStatus = "pending"
	ChecklistEntryOK            ChecklistEntryStatus = "ok"
	ChecklistEntryAttention     ChecklistEntryStatus = "attention"
	ChecklistEntryReplace       ChecklistEntryStatus = "replace"
	ChecklistEntryNotApplicable ChecklistEntryStatus = "not_applicable"
)

var validChecklistEntryStatuses = []ChecklistEntryStatus{
	ChecklistEntryPending,
	ChecklistEntryOK,
	ChecklistEntryAttention,
	ChecklistEntryReplace,
	ChecklistEntryNotApplicable,
}

// String implements fmt.Stringer.
func (v ChecklistEntryStatus) String() string {
	return string(v)
}

// IsValid reports whether the value is a known ChecklistEntryStatus.
func (v ChecklistEntryStatus) IsValid() bool {
	for _, candidate := range validChecklistEntryStatuses {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseChecklistEntryStatus converts raw input into a ChecklistEntryStatus.
func ParseChecklistEntryStatus(value string) (ChecklistEntryStatus, error) {
	for _, candidate := range validChecklistEntryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checklist entry status %q", value)
}
