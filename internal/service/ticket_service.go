package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"agencydesk/internal/fieldmap"
	"agencydesk/internal/models"
	"agencydesk/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

var (
	ErrMissingFields = errors.New("subject, category and description are required")
	ErrNotFound      = errors.New("not found")
)

// Notifier pushes list-revalidation events to an organization's connected
// clients. Failures are log-only; the write already happened.
type Notifier interface {
	Broadcast(orgID string, event string)
}

// CreateTicketInput is what either entry point (HTTP form or assistant
// action) supplies for a new ticket.
type CreateTicketInput struct {
	Subject     string
	Description string
	Category    string
	Priority    string
	ClientName  string
	Price       *float64
	BillingType *string
}

// TicketService is the single write path for tickets, shared by the HTTP
// handlers and the assistant dispatcher.
type TicketService struct {
	tickets repository.TicketRepository
	folders repository.FolderRepository
	notify  Notifier
	log     zerolog.Logger
	now     func() time.Time
}

func NewTicketService(tickets repository.TicketRepository, folders repository.FolderRepository, notify Notifier, log zerolog.Logger) *TicketService {
	return &TicketService{tickets: tickets, folders: folders, notify: notify, log: log, now: time.Now}
}

const eventTicketsChanged = "tickets.changed"

// Create validates, routes and persists a new ticket. Caller-supplied status
// or billing month never survives: status is always REVIEW and billing_month
// is always the creation month.
func (s *TicketService) Create(ctx context.Context, orgID, userID string, in CreateTicketInput) (*models.Ticket, error) {
	in.Subject = strings.TrimSpace(in.Subject)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	if in.Subject == "" || in.Category == "" || in.Description == "" {
		return nil, ErrMissingFields
	}
	if in.Priority == "" {
		in.Priority = models.PriorityNormal
	}

	draft := models.TicketDraft{
		CreatedBy:   userID,
		Subject:     in.Subject,
		Description: in.Description,
		Category:    in.Category,
	}
	var folderID *string
	folders, err := s.folders.ListByOrg(ctx, orgID)
	if err != nil {
		// Routing is best-effort: a folder read failure files the ticket
		// unfiled rather than failing the create.
		s.log.Warn().Err(err).Str("org", orgID).Msg("folder routing skipped")
	} else {
		folderID = RouteTicket(draft, folders)
	}

	now := s.now()
	t := &models.Ticket{
		OrganizationID: orgID,
		CreatedBy:      userID,
		ClientName:     in.ClientName,
		Subject:        in.Subject,
		Description:    in.Description,
		Category:       in.Category,
		Status:         models.StatusReview,
		Priority:       in.Priority,
		Price:          in.Price,
		BillingType:    in.BillingType,
		BillingMonth:   now.Format("2006-01"),
		FolderID:       folderID,
		AdminStartDate: now,
		HistoryLog: []models.HistoryEntry{
			{Date: now, Text: "Zgłoszenie utworzone"},
		},
	}
	if err := s.tickets.Create(ctx, t); err != nil {
		return nil, err
	}
	s.broadcast(orgID)
	return t, nil
}

// UpdateStatus sets the status directly. Any value is reachable from any
// value; the status field is an enum, not a guarded state machine.
func (s *TicketService) UpdateStatus(ctx context.Context, orgID, id, status string) error {
	if err := s.tickets.UpdateStatus(ctx, orgID, id, status); err != nil {
		return mapNoRows(err)
	}
	if err := s.tickets.AppendHistory(ctx, orgID, id, models.HistoryEntry{
		Date: s.now(), Text: "Status: " + status,
	}); err != nil {
		s.log.Warn().Err(err).Str("ticket", id).Msg("history append failed")
	}
	s.broadcast(orgID)
	return nil
}

// UpdateFields merges a partial payload. Keys may arrive in camelCase or
// snake_case; fieldmap collapses them to canonical columns here, at the one
// boundary both the HTTP handler and the assistant dispatcher pass through.
func (s *TicketService) UpdateFields(ctx context.Context, orgID, id string, patch map[string]any) error {
	canonical := fieldmap.NormalizeTicketPatch(patch)
	if len(canonical) == 0 {
		return nil
	}
	if err := s.tickets.UpdateFields(ctx, orgID, id, canonical); err != nil {
		return mapNoRows(err)
	}
	s.broadcast(orgID)
	return nil
}

// Delete hard-deletes the ticket; its work sessions cascade with it.
func (s *TicketService) Delete(ctx context.Context, orgID, id string) error {
	if err := s.tickets.Delete(ctx, orgID, id); err != nil {
		return mapNoRows(err)
	}
	s.broadcast(orgID)
	return nil
}

func (s *TicketService) Get(ctx context.Context, orgID, id string) (*models.Ticket, error) {
	return s.tickets.Get(ctx, orgID, id)
}

func (s *TicketService) List(ctx context.Context, orgID string, f repository.TicketFilter) ([]models.Ticket, int, error) {
	items, err := s.tickets.List(ctx, orgID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.tickets.Count(ctx, orgID, f)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *TicketService) broadcast(orgID string) {
	if s.notify != nil {
		s.notify.Broadcast(orgID, eventTicketsChanged)
	}
}

func mapNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
