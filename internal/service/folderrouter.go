package service

import (
	"strings"

	"agencydesk/internal/models"
)

// RouteTicket picks the folder a new ticket should be filed under, or nil
// for the implicit inbox. Folders are scanned in their stored order and each
// folder's rules in their stored order; the first matching rule decides and
// nothing after it is evaluated. There is no weighting: first match wins,
// not best match.
func RouteTicket(draft models.TicketDraft, folders []models.Folder) *string {
	for _, f := range folders {
		for _, rule := range f.Rules {
			if ruleMatches(rule, draft) {
				id := f.ID
				return &id
			}
		}
	}
	return nil
}

// ruleMatches evaluates one automation rule against a ticket draft.
// Malformed rules (empty value, unknown type) never match and never error.
func ruleMatches(r models.AutomationRule, d models.TicketDraft) bool {
	if !r.Valid() {
		return false
	}
	switch r.Type {
	case models.RuleFromUser:
		// Matches the creator's user id, not the display name.
		return r.Value == d.CreatedBy
	case models.RuleKeyword:
		kw := strings.ToLower(r.Value)
		return strings.Contains(strings.ToLower(d.Subject), kw) ||
			strings.Contains(strings.ToLower(d.Description), kw)
	case models.RuleCategory:
		return r.Value == d.Category
	}
	return false
}
