package models

// Automation rule types. Rules file new tickets into folders; evaluation is
// first-match-wins in stored order (see service.RouteTicket).
const (
	RuleFromUser = "FROM_USER"
	RuleKeyword  = "KEYWORD"
	RuleCategory = "CATEGORY"
)

// AutomationRule is one matching predicate attached to a folder. Stored as a
// JSONB array on the folder row. Unknown types survive a round-trip but never
// match anything.
type AutomationRule struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Valid reports whether the rule is well-formed enough to ever match.
func (r AutomationRule) Valid() bool {
	if r.Value == "" {
		return false
	}
	switch r.Type {
	case RuleFromUser, RuleKeyword, RuleCategory:
		return true
	}
	return false
}

type Folder struct {
	ID             string           `json:"id"`
	OrganizationID string           `json:"organizationId"`
	Name           string           `json:"name"`
	Color          string           `json:"color"`
	Position       int              `json:"position"`
	Rules          []AutomationRule `json:"automationRules"`
}
