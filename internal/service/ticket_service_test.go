package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"agencydesk/internal/models"
	"agencydesk/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type fakeTicketRepo struct {
	tickets map[string]*models.Ticket
	patches []map[string]any
	nextID  int
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]*models.Ticket{}}
}

func (f *fakeTicketRepo) List(_ context.Context, orgID string, _ repository.TicketFilter) ([]models.Ticket, error) {
	var out []models.Ticket
	for _, t := range f.tickets {
		if t.OrganizationID == orgID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTicketRepo) Count(_ context.Context, orgID string, _ repository.TicketFilter) (int, error) {
	n := 0
	for _, t := range f.tickets {
		if t.OrganizationID == orgID {
			n++
		}
	}
	return n, nil
}

func (f *fakeTicketRepo) Get(_ context.Context, orgID, id string) (*models.Ticket, error) {
	t, ok := f.tickets[id]
	if !ok || t.OrganizationID != orgID {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTicketRepo) Create(_ context.Context, t *models.Ticket) error {
	f.nextID++
	t.ID = "t-" + strconv.Itoa(f.nextID)
	cp := *t
	f.tickets[t.ID] = &cp
	return nil
}

func (f *fakeTicketRepo) UpdateStatus(_ context.Context, orgID, id, status string) error {
	t, ok := f.tickets[id]
	if !ok || t.OrganizationID != orgID {
		return pgx.ErrNoRows
	}
	t.Status = status
	return nil
}

func (f *fakeTicketRepo) UpdateFields(_ context.Context, orgID, id string, patch map[string]any) error {
	t, ok := f.tickets[id]
	if !ok || t.OrganizationID != orgID {
		return pgx.ErrNoRows
	}
	f.patches = append(f.patches, patch)
	return nil
}

func (f *fakeTicketRepo) AppendHistory(_ context.Context, orgID, id string, e models.HistoryEntry) error {
	t, ok := f.tickets[id]
	if !ok || t.OrganizationID != orgID {
		return pgx.ErrNoRows
	}
	t.HistoryLog = append(t.HistoryLog, e)
	return nil
}

func (f *fakeTicketRepo) Delete(_ context.Context, orgID, id string) error {
	t, ok := f.tickets[id]
	if !ok || t.OrganizationID != orgID {
		return pgx.ErrNoRows
	}
	delete(f.tickets, id)
	return nil
}

type fakeFolderRepo struct{ folders []models.Folder }

func (f *fakeFolderRepo) ListByOrg(_ context.Context, orgID string) ([]models.Folder, error) {
	var out []models.Folder
	for _, fl := range f.folders {
		if fl.OrganizationID == orgID {
			out = append(out, fl)
		}
	}
	return out, nil
}

func (f *fakeFolderRepo) Get(_ context.Context, _, _ string) (*models.Folder, error) { return nil, nil }
func (f *fakeFolderRepo) Create(_ context.Context, _ *models.Folder) error           { return nil }
func (f *fakeFolderRepo) Update(_ context.Context, _ *models.Folder) error           { return nil }
func (f *fakeFolderRepo) Delete(_ context.Context, _, _ string) error                { return nil }

type recordingNotifier struct{ events []string }

func (n *recordingNotifier) Broadcast(orgID, event string) {
	n.events = append(n.events, orgID+":"+event)
}

func newTicketService(tr *fakeTicketRepo, fr *fakeFolderRepo, n Notifier) *TicketService {
	return NewTicketService(tr, fr, n, zerolog.Nop())
}

func TestCreateStampsDefaults(t *testing.T) {
	tr := newFakeTicketRepo()
	svc := newTicketService(tr, &fakeFolderRepo{}, nil)
	created := time.Date(2026, 8, 28, 10, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return created }

	tk, err := svc.Create(context.Background(), "org-1", "u1", CreateTicketInput{
		Subject: "Broken export", Description: "CSV export 500s", Category: models.CategoryBug,
	})
	if err != nil {
		t.Fatal(err)
	}
	if tk.Status != models.StatusReview {
		t.Fatalf("new tickets always start in REVIEW, got %s", tk.Status)
	}
	if tk.BillingMonth != "2026-08" {
		t.Fatalf("billing month must be the creation month, got %s", tk.BillingMonth)
	}
	if !tk.AdminStartDate.Equal(created) {
		t.Fatalf("admin start date must be creation time, got %v", tk.AdminStartDate)
	}
	if len(tk.HistoryLog) != 1 || tk.HistoryLog[0].Text != "Zgłoszenie utworzone" {
		t.Fatalf("creation history entry missing: %+v", tk.HistoryLog)
	}
	if tk.Priority != models.PriorityNormal {
		t.Fatalf("default priority wrong: %s", tk.Priority)
	}
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	svc := newTicketService(newFakeTicketRepo(), &fakeFolderRepo{}, nil)
	cases := []CreateTicketInput{
		{Description: "d", Category: "BUG"},
		{Subject: "s", Category: "BUG"},
		{Subject: "s", Description: "d"},
		{Subject: "   ", Description: "d", Category: "BUG"},
	}
	for i, in := range cases {
		if _, err := svc.Create(context.Background(), "org-1", "u1", in); err != ErrMissingFields {
			t.Errorf("case %d: expected ErrMissingFields, got %v", i, err)
		}
	}
}

func TestCreateRoutesIntoFolder(t *testing.T) {
	tr := newFakeTicketRepo()
	fr := &fakeFolderRepo{folders: []models.Folder{
		{ID: "f-bugs", OrganizationID: "org-1", Rules: []models.AutomationRule{
			{Type: models.RuleCategory, Value: models.CategoryBug},
		}},
	}}
	svc := newTicketService(tr, fr, nil)

	tk, err := svc.Create(context.Background(), "org-1", "u1", CreateTicketInput{
		Subject: "s", Description: "d", Category: models.CategoryBug,
	})
	if err != nil {
		t.Fatal(err)
	}
	if tk.FolderID == nil || *tk.FolderID != "f-bugs" {
		t.Fatalf("expected routed folder f-bugs, got %v", tk.FolderID)
	}

	unfiled, err := svc.Create(context.Background(), "org-1", "u1", CreateTicketInput{
		Subject: "s", Description: "d", Category: models.CategoryMarketing,
	})
	if err != nil {
		t.Fatal(err)
	}
	if unfiled.FolderID != nil {
		t.Fatalf("non-matching ticket must stay unfiled, got %v", *unfiled.FolderID)
	}
}

func TestUpdateStatusHasNoTransitionGuard(t *testing.T) {
	tr := newFakeTicketRepo()
	svc := newTicketService(tr, &fakeFolderRepo{}, nil)
	tk, _ := svc.Create(context.Background(), "org-1", "u1", CreateTicketInput{
		Subject: "s", Description: "d", Category: models.CategoryBug,
	})

	// DONE straight from REVIEW, then back to PENDING. Both are legal.
	for _, st := range []string{models.StatusDone, models.StatusPending} {
		if err := svc.UpdateStatus(context.Background(), "org-1", tk.ID, st); err != nil {
			t.Fatalf("status %s rejected: %v", st, err)
		}
	}
	if got := tr.tickets[tk.ID].Status; got != models.StatusPending {
		t.Fatalf("expected PENDING, got %s", got)
	}
}

func TestUpdateFieldsNormalizesAliases(t *testing.T) {
	tr := newFakeTicketRepo()
	svc := newTicketService(tr, &fakeFolderRepo{}, nil)
	tk, _ := svc.Create(context.Background(), "org-1", "u1", CreateTicketInput{
		Subject: "s", Description: "d", Category: models.CategoryBug,
	})

	err := svc.UpdateFields(context.Background(), "org-1", tk.ID, map[string]any{
		"internalNotes": "call the client",
		"billing_type":  models.BillingHourly,
		"billingMonth":  "2030-01", // server-owned, must be dropped
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(tr.patches) != 1 {
		t.Fatalf("expected one patch, got %d", len(tr.patches))
	}
	p := tr.patches[0]
	if p["internal_notes"] != "call the client" || p["billing_type"] != models.BillingHourly {
		t.Fatalf("aliases not normalized: %v", p)
	}
	if _, ok := p["billing_month"]; ok {
		t.Fatal("billing_month must never be client-writable")
	}
}

func TestMutationsBroadcastRevalidation(t *testing.T) {
	tr := newFakeTicketRepo()
	n := &recordingNotifier{}
	svc := newTicketService(tr, &fakeFolderRepo{}, n)

	tk, err := svc.Create(context.Background(), "org-1", "u1", CreateTicketInput{
		Subject: "s", Description: "d", Category: models.CategoryBug,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.UpdateStatus(context.Background(), "org-1", tk.ID, models.StatusDone); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(context.Background(), "org-1", tk.ID); err != nil {
		t.Fatal(err)
	}
	if len(n.events) != 3 {
		t.Fatalf("expected 3 broadcasts, got %v", n.events)
	}
	for _, e := range n.events {
		if e != "org-1:tickets.changed" {
			t.Fatalf("unexpected event %q", e)
		}
	}
}

func TestDeleteUnknownTicket(t *testing.T) {
	svc := newTicketService(newFakeTicketRepo(), &fakeFolderRepo{}, nil)
	if err := svc.Delete(context.Background(), "org-1", "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
