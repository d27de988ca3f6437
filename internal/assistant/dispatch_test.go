package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"agencydesk/internal/models"
	"agencydesk/internal/service"
)

type fakeTicketOps struct {
	created []service.CreateTicketInput
	patches map[string]map[string]any
	deleted []string
	fail    bool
}

func (f *fakeTicketOps) Create(_ context.Context, _, _ string, in service.CreateTicketInput) (*models.Ticket, error) {
	if f.fail {
		return nil, errors.New("boom")
	}
	if in.Subject == "" || in.Category == "" || in.Description == "" {
		return nil, service.ErrMissingFields
	}
	f.created = append(f.created, in)
	return &models.Ticket{ID: "t-1", Subject: in.Subject}, nil
}

func (f *fakeTicketOps) UpdateFields(_ context.Context, _, id string, patch map[string]any) error {
	if f.patches == nil {
		f.patches = map[string]map[string]any{}
	}
	f.patches[id] = patch
	return nil
}

func (f *fakeTicketOps) Delete(_ context.Context, _, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeTimerOps struct {
	started []string
	stopped int
	running bool
}

func (f *fakeTimerOps) Start(_ context.Context, _, ticketID string) (models.ActiveTimer, error) {
	f.started = append(f.started, ticketID)
	f.running = true
	return models.ActiveTimer{TicketID: ticketID}, nil
}

func (f *fakeTimerOps) Stop(_ context.Context, _ string) (*models.WorkSession, error) {
	f.stopped++
	if !f.running {
		return nil, nil
	}
	f.running = false
	return &models.WorkSession{DurationSeconds: 90}, nil
}

type fakeClientOps struct{ updates []string }

func (f *fakeClientOps) UpdateClientData(_ context.Context, _, clientID string, _ map[string]any) error {
	f.updates = append(f.updates, clientID)
	return nil
}

func newDispatcher() (*Dispatcher, *fakeTicketOps, *fakeTimerOps, *fakeClientOps) {
	tk, tm, cl := &fakeTicketOps{}, &fakeTimerOps{}, &fakeClientOps{}
	return &Dispatcher{Tickets: tk, Timers: tm, Clients: cl}, tk, tm, cl
}

func TestRunActionThenMessageOrder(t *testing.T) {
	d, tk, _, _ := newDispatcher()
	items := []Item{
		{Kind: ItemAction, Action: ActionCreateTicket, Data: map[string]any{
			"subject": "Banner", "category": "MARKETING", "description": "New banner",
		}},
		{Kind: ItemMessage, Text: "done"},
	}
	out := d.Run(context.Background(), "org-1", "u1", items)
	if len(tk.created) != 1 {
		t.Fatalf("create not executed: %+v", tk.created)
	}
	if len(out) != 2 {
		t.Fatalf("expected confirmation + message, got %v", out)
	}
	if !strings.Contains(out[0], "Banner") {
		t.Fatalf("confirmation must come first and name the ticket: %q", out[0])
	}
	if out[1] != "done" {
		t.Fatalf("literal MESSAGE text must follow: %q", out[1])
	}
}

func TestRunSameValidationAsDirectPath(t *testing.T) {
	d, tk, _, _ := newDispatcher()
	items := []Item{
		{Kind: ItemAction, Action: ActionCreateTicket, Data: map[string]any{"subject": "only"}},
	}
	out := d.Run(context.Background(), "org-1", "u1", items)
	if len(tk.created) != 0 {
		t.Fatal("invalid create must not persist")
	}
	if len(out) != 1 || !strings.Contains(out[0], "Nie udało się") {
		t.Fatalf("expected an error line in the transcript: %v", out)
	}
}

func TestRunFailureDoesNotStopLaterItems(t *testing.T) {
	d, _, tm, _ := newDispatcher()
	d.Tickets = &fakeTicketOps{fail: true}
	items := []Item{
		{Kind: ItemAction, Action: ActionCreateTicket, Data: map[string]any{
			"subject": "s", "category": "BUG", "description": "d",
		}},
		{Kind: ItemAction, Action: ActionStartTimer, Data: map[string]any{"ticketId": "t-9"}},
	}
	out := d.Run(context.Background(), "org-1", "u1", items)
	if len(out) != 2 {
		t.Fatalf("both items must produce transcript lines: %v", out)
	}
	if len(tm.started) != 1 || tm.started[0] != "t-9" {
		t.Fatalf("second action must still run: %v", tm.started)
	}
}

func TestRunUpdateStripsTicketIDFromPatch(t *testing.T) {
	d, tk, _, _ := newDispatcher()
	items := []Item{
		{Kind: ItemAction, Action: ActionUpdateTicket, Data: map[string]any{
			"ticketId": "t-5", "internalNotes": "ping client",
		}},
	}
	d.Run(context.Background(), "org-1", "u1", items)
	patch := tk.patches["t-5"]
	if patch == nil {
		t.Fatal("update not executed")
	}
	if _, ok := patch["ticketId"]; ok {
		t.Fatal("ticketId must not leak into the patch")
	}
	if patch["internalNotes"] != "ping client" {
		t.Fatalf("patch lost fields: %v", patch)
	}
}

func TestRunStopTimerVariants(t *testing.T) {
	d, _, tm, _ := newDispatcher()
	// No timer running: still a success line, not an error.
	out := d.Run(context.Background(), "org-1", "u1", []Item{{Kind: ItemAction, Action: ActionStopTimer}})
	if len(out) != 1 || !strings.Contains(out[0], "Żaden timer") {
		t.Fatalf("no-op stop should say nothing was running: %v", out)
	}

	tm.running = true
	out = d.Run(context.Background(), "org-1", "u1", []Item{{Kind: ItemAction, Action: ActionStopTimer}})
	if len(out) != 1 || !strings.Contains(out[0], "90") {
		t.Fatalf("stop confirmation should carry the saved duration: %v", out)
	}
}

func TestRunDeleteAndClientData(t *testing.T) {
	d, tk, _, cl := newDispatcher()
	items := []Item{
		{Kind: ItemAction, Action: ActionDeleteTicket, Data: map[string]any{"ticketId": "t-3"}},
		{Kind: ItemAction, Action: ActionUpdateClientData, Data: map[string]any{"clientId": "c-1", "name": "Acme sp. z o.o."}},
	}
	out := d.Run(context.Background(), "org-1", "u1", items)
	if len(out) != 2 {
		t.Fatalf("expected 2 lines: %v", out)
	}
	if len(tk.deleted) != 1 || tk.deleted[0] != "t-3" {
		t.Fatalf("delete not executed: %v", tk.deleted)
	}
	if len(cl.updates) != 1 || cl.updates[0] != "c-1" {
		t.Fatalf("client update not executed: %v", cl.updates)
	}
}
