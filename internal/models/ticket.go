package models

import "time"

// Ticket enums. The status field is a plain enum: any value may be set from
// any other value by direct staff action, there is no transition guard.
const (
	StatusReview     = "REVIEW"
	StatusPending    = "PENDING"
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"

	CategoryBug       = "BUG"
	CategoryMarketing = "MARKETING"
	CategoryFeature   = "FEATURE"
	CategoryOther     = "OTHER"

	PriorityLow    = "LOW"
	PriorityNormal = "NORMAL"
	PriorityHigh   = "HIGH"
	PriorityUrgent = "URGENT"

	BillingFixed  = "FIXED"
	BillingHourly = "HOURLY"
)

type Subtask struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Completed     bool   `json:"completed"`
	ClientVisible bool   `json:"clientVisible"`
}

type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// HistoryEntry is one line of a ticket's append-only audit log.
type HistoryEntry struct {
	Date time.Time `json:"date"`
	Text string    `json:"text"`
}

type Ticket struct {
	ID             string   `json:"id"`
	OrganizationID string   `json:"organizationId"`
	CreatedBy      string   `json:"createdByUserId"`
	ClientName     string   `json:"clientName"`
	Subject        string   `json:"subject"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	Status         string   `json:"status"`
	Priority       string   `json:"priority"`
	Price          *float64 `json:"price"`
	BillingType    *string  `json:"billingType"` // FIXED | HOURLY
	// BillingMonth is stamped at creation ("2006-01") and never recomputed,
	// so a ticket keeps billing against the month it was opened in.
	BillingMonth   string         `json:"billingMonth"`
	FolderID       *string        `json:"folderId"`
	AdminStartDate time.Time      `json:"adminStartDate"`
	AdminDeadline  *time.Time     `json:"adminDeadline"`
	InternalNotes  string         `json:"internalNotes"` // staff-only
	PublicNotes    string         `json:"publicNotes"`   // client-visible
	Subtasks       []Subtask      `json:"subtasks"`
	Attachments    []Attachment   `json:"attachments"`
	HistoryLog     []HistoryEntry `json:"historyLog"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// TicketDraft is the routable subset of a new ticket, evaluated against
// folder automation rules before the row exists.
type TicketDraft struct {
	CreatedBy   string
	Subject     string
	Description string
	Category    string
}

type SOP struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organizationId"`
	Title          string `json:"title"`
	Content        string `json:"content"`
}
