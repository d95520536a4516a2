package enums

import "fmt"

// TicketStatus tracks a support ticket conversation.
type TicketStatus string

const (
	TicketStatusOpen            TicketStatus = "open"
	TicketStatusInProgress      TicketStatus = "in_progress"
	TicketStatusWaitingCustomer TicketStatus = "waiting_customer"
	TicketStatusResolved        TicketStatus = "resolved"
	TicketStatusClosed          TicketStatus = "closed"
)

var validTicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInProgress,
	TicketStatusWaitingCustomer,
	TicketStatusResolved,
	TicketStatusClosed,
}

// String implements fmt.Stringer.
func (v TicketStatus) String() string {
	return string(v)
}

// IsValid reports whether the value is a known TicketStatus.
func (v TicketStatus) IsValid() bool {
	for _, candidate := range validTicketStatuses {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseTicketStatus converts raw input into a TicketStatus.
func ParseTicketStatus(value string) (TicketStatus, error) {
	for _, candidate := range validTicketStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ticket status %q", value)
}

// TicketPriority orders the admin support queue.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityNormal TicketPriority = "normal"
	TicketPriorityHigh   TicketPriority = "high"
)

var validTicketPrioritys = []TicketPriority{
	TicketPriorityLow,
	TicketPriorityNormal,
	TicketPriorityHigh,
}

// String implements fmt.Stringer.
func (v TicketPriority) String() string {
	return string(v)
}

// IsValid reports whether the value is a known TicketPriority.
func (v TicketPriority) IsValid() bool {
	for _, candidate := range validTicketPrioritys {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseTicketPriority converts raw input into a TicketPriority.
func ParseTicketPriority(value string) (TicketPriority, error) {
	for _, candidate := range validTicketPrioritys {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ticket priority %q", value)
}

// TicketCategory groups tickets by subject area.
type TicketCategory string

const (
	TicketCategoryOrder    TicketCategory = "order"
	TicketCategoryRevision TicketCategory = "revision"
	TicketCategoryAccount  TicketCategory = "account"
	TicketCategoryLoyalty  TicketCategory = "loyalty"
	TicketCategoryOther    TicketCategory = "other"
)

var validTicketCategories = []TicketCategory{
	TicketCategoryOrder,
	TicketCategoryRevision,
	TicketCategoryAccount,
	TicketCategoryLoyalty,
	TicketCategoryOther,
}

// String implements fmt.Stringer.
func (v TicketCategory) String() string {
	return string(v)
}

// IsValid reports whether the value is a known TicketCategory.
func (v TicketCategory) IsValid() bool {
	for _, candidate := range validTicketCategories {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseTicketCategory converts raw input into a TicketCategory.
func ParseTicketCategory(value string) (TicketCategory, error) {
	for _, candidate := range validTicketCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ticket category %q", value)
}

// MessageAuthorType identifies which side wrote a support message.
type MessageAuthorType string

const (
	MessageAuthorCustomer MessageAuthorType = "customer"
	MessageAuthorAdmin    MessageAuthorType = "admin"
)

var validMessageAuthorTypes = []MessageAuthorType{
	MessageAuthorCustomer,
	MessageAuthorAdmin,
}

// String implements fmt.Stringer.
func (v MessageAuthorType) String() string {
	return string(v)
}

// IsValid reports whether the value is a known MessageAuthorType.
func (v MessageAuthorType) IsValid() bool {
	for _, candidate := range validMessageAuthorTypes {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseMessageAuthorType converts raw input into a MessageAuthorType.
func ParseMessageAuthorType(value string) (MessageAuthorType, error) {
	for _, candidate := range validMessageAuthorTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid message author type %q", value)
}
