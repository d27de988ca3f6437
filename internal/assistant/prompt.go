package assistant

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"agencydesk/internal/models"
)

const systemPreamble = `You are the support assistant of an agency portal. You manage tickets
("zgłoszenia"), work timers and client data for the current organization.

Respond ONLY with a JSON array of objects, each either
  {"type":"MESSAGE","text":"..."} or
  {"type":"ACTION","action":"<NAME>","data":{...}}.
Allowed actions: CREATE_TICKET, UPDATE_TICKET, DELETE_TICKET, START_TIMER,
STOP_TIMER, UPDATE_CLIENT_DATA.
CREATE_TICKET data: subject, description, category (BUG|MARKETING|FEATURE|OTHER),
optional priority (LOW|NORMAL|HIGH|URGENT), optional clientName.
UPDATE_TICKET / DELETE_TICKET / START_TIMER data: ticketId plus fields to change.
UPDATE_CLIENT_DATA data: clientId plus fields to change.
Answer user questions with MESSAGE items in the user's language.`

// BuildSystemPrompt assembles the context block the model sees: recent
// tickets, the active ticket in detail, and the organization's SOP snippets.
func BuildSystemPrompt(recent []models.Ticket, active *models.Ticket, sops []models.SOP) string {
	var b strings.Builder
	b.WriteString(systemPreamble)

	if len(recent) > 0 {
		b.WriteString("\n\nRecent tickets:\n")
		for _, t := range recent {
			fmt.Fprintf(&b, "- [%s] %s (status %s, category %s)\n", t.ID, t.Subject, t.Status, t.Category)
		}
	}

	if active != nil {
		fmt.Fprintf(&b, "\nActive ticket [%s] %s\nStatus: %s  Priority: %s  Category: %s\nDescription: %s\n",
			active.ID, active.Subject, active.Status, active.Priority, active.Category, active.Description)
		if active.PublicNotes != "" {
			fmt.Fprintf(&b, "Notes: %s\n", active.PublicNotes)
		}
		for _, st := range active.Subtasks {
			done := " "
			if st.Completed {
				done = "x"
			}
			fmt.Fprintf(&b, "  [%s] %s\n", done, st.Title)
		}
	}

	if len(sops) > 0 {
		b.WriteString("\nProcedures:\n")
		for _, s := range sops {
			fmt.Fprintf(&b, "## %s\n%s\n", s.Title, snippet(s.Content, 600))
		}
	}
	return b.String()
}

// snippet truncates to at most max bytes without splitting a rune. SOP text
// is Polish; a byte-boundary cut would leave invalid UTF-8 in the prompt.
func snippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}
