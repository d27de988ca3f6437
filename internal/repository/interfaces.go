package repository

import (
	"context"
	"time"

	"agencydesk/internal/models"
)

type TicketRepository interface {
	List(ctx context.Context, orgID string, f TicketFilter) ([]models.Ticket, error)
	Count(ctx context.Context, orgID string, f TicketFilter) (int, error)
	Get(ctx context.Context, orgID, id string) (*models.Ticket, error)
	Create(ctx context.Context, t *models.Ticket) error
	UpdateStatus(ctx context.Context, orgID, id, status string) error
	UpdateFields(ctx context.Context, orgID, id string, patch map[string]any) error
	AppendHistory(ctx context.Context, orgID, id string, entry models.HistoryEntry) error
	Delete(ctx context.Context, orgID, id string) error
}

type FolderRepository interface {
	ListByOrg(ctx context.Context, orgID string) ([]models.Folder, error)
	Get(ctx context.Context, orgID, id string) (*models.Folder, error)
	Create(ctx context.Context, f *models.Folder) error
	Update(ctx context.Context, f *models.Folder) error
	Delete(ctx context.Context, orgID, id string) error
}

type TimerRepository interface {
	Upsert(ctx context.Context, t models.ActiveTimer) error
	Get(ctx context.Context, userID string) (*models.ActiveTimer, error)
	ActiveByTicket(ctx context.Context, ticketID string) ([]models.ActiveTimer, error)
	Delete(ctx context.Context, userID string) error
	InsertSession(ctx context.Context, s *models.WorkSession) error
	ListSessions(ctx context.Context, ticketID string) ([]models.WorkSession, error)
	DeleteSession(ctx context.Context, id string) error
	TotalSeconds(ctx context.Context, ticketID string) (int64, error)
}

type OrganizationRepository interface {
	Get(ctx context.Context, id string) (*models.Organization, error)
	Create(ctx context.Context, o *models.Organization) error
	SetTier(ctx context.Context, id, tier string) error
}

type ProfileRepository interface {
	Create(ctx context.Context, email, name, role, passwordHash string) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, string /*passwordHash*/, error)
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	ListByOrg(ctx context.Context, orgID string) ([]models.Profile, error)
	Update(ctx context.Context, p *models.Profile) error
	ActivateMembers(ctx context.Context, orgID string) error
}

type SOPRepository interface {
	ListByOrg(ctx context.Context, orgID string) ([]models.SOP, error)
}

// RecentTickets is the slice of ticket context the assistant prompt embeds.
type RecentTickets interface {
	Recent(ctx context.Context, orgID string, limit int, since time.Time) ([]models.Ticket, error)
}
