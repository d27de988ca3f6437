package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"agencydesk/internal/models"
	"agencydesk/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TicketRepo struct{ db *pgxpool.Pool }

func NewTicketRepo(db *pgxpool.Pool) *TicketRepo { return &TicketRepo{db: db} }

const ticketCols = `
	id, organization_id, created_by_user_id, client_name, subject, description,
	category, status, priority, price, billing_type, billing_month, folder_id,
	admin_start_date, admin_deadline, internal_notes, public_notes,
	subtasks, attachments, history_log, created_at, updated_at`

func scanTicket(row pgx.Row) (*models.Ticket, error) {
	var t models.Ticket
	var subtasks, attachments, history []byte
	err := row.Scan(
		&t.ID, &t.OrganizationID, &t.CreatedBy, &t.ClientName, &t.Subject, &t.Description,
		&t.Category, &t.Status, &t.Priority, &t.Price, &t.BillingType, &t.BillingMonth, &t.FolderID,
		&t.AdminStartDate, &t.AdminDeadline, &t.InternalNotes, &t.PublicNotes,
		&subtasks, &attachments, &history, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(subtasks, &t.Subtasks); err != nil {
		return nil, fmt.Errorf("decode subtasks: %w", err)
	}
	if err := json.Unmarshal(attachments, &t.Attachments); err != nil {
		return nil, fmt.Errorf("decode attachments: %w", err)
	}
	if err := json.Unmarshal(history, &t.HistoryLog); err != nil {
		return nil, fmt.Errorf("decode history_log: %w", err)
	}
	return &t, nil
}

// -----------------------------------------------------------------------------
// Filtered listing with pagination + sort, always organization-scoped
// -----------------------------------------------------------------------------
func (r *TicketRepo) List(ctx context.Context, orgID string, f repository.TicketFilter) ([]models.Ticket, error) {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	whereSQL, args := buildTicketWhere(orgID, f)
	sortCol := sanitizeSort(f.Sort, "updated_at")
	sortOrd := sanitizeOrder(f.Order, "desc")

	sql := fmt.Sprintf(`SELECT %s FROM tickets %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		ticketCols, whereSQL, sortCol, sortOrd, len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// Count returns the total for the same filter set (for pagination).
func (r *TicketRepo) Count(ctx context.Context, orgID string, f repository.TicketFilter) (int, error) {
	whereSQL, args := buildTicketWhere(orgID, f)
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tickets `+whereSQL, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *TicketRepo) Get(ctx context.Context, orgID, id string) (*models.Ticket, error) {
	t, err := scanTicket(r.db.QueryRow(ctx,
		`SELECT `+ticketCols+` FROM tickets WHERE organization_id=$1 AND id=$2`, orgID, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

func (r *TicketRepo) Create(ctx context.Context, t *models.Ticket) error {
	subtasks, err := json.Marshal(emptyIfNilSubtasks(t.Subtasks))
	if err != nil {
		return err
	}
	attachments, err := json.Marshal(emptyIfNilAttachments(t.Attachments))
	if err != nil {
		return err
	}
	history, err := json.Marshal(emptyIfNilHistory(t.HistoryLog))
	if err != nil {
		return err
	}
	now := time.Now()
	return r.db.QueryRow(ctx, `
		INSERT INTO tickets (
			organization_id, created_by_user_id, client_name, subject, description,
			category, status, priority, price, billing_type, billing_month, folder_id,
			admin_start_date, admin_deadline, internal_notes, public_notes,
			subtasks, attachments, history_log, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
		RETURNING id, created_at, updated_at
	`,
		t.OrganizationID, t.CreatedBy, t.ClientName, t.Subject, t.Description,
		t.Category, t.Status, t.Priority, t.Price, t.BillingType, t.BillingMonth, t.FolderID,
		t.AdminStartDate, t.AdminDeadline, t.InternalNotes, t.PublicNotes,
		subtasks, attachments, history, now, now,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *TicketRepo) UpdateStatus(ctx context.Context, orgID, id, status string) error {
	ct, err := r.db.Exec(ctx, `
		UPDATE tickets SET status=$1, updated_at=now()
		WHERE organization_id=$2 AND id=$3`, status, orgID, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// patchColumns are the columns UpdateFields will write. The map doubles as an
// injection guard: patch keys come from fieldmap but the storage layer checks
// again before splicing a column name into SQL.
var patchColumns = map[string]bool{
	"client_name": true, "subject": true, "description": true, "category": true,
	"status": true, "priority": true, "price": true, "billing_type": true,
	"folder_id": true, "admin_start_date": true, "admin_deadline": true,
	"internal_notes": true, "public_notes": true, "subtasks": true, "attachments": true,
}

var jsonPatchColumns = map[string]bool{"subtasks": true, "attachments": true}

// UpdateFields merges a canonical-keyed partial update into the row.
func (r *TicketRepo) UpdateFields(ctx context.Context, orgID, id string, patch map[string]any) error {
	sets := []string{"updated_at=now()"}
	args := []any{}
	for col, v := range patch {
		if !patchColumns[col] {
			continue
		}
		if jsonPatchColumns[col] {
			b, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("encode %s: %w", col, err)
			}
			v = b
		}
		args = append(args, v)
		sets = append(sets, col+"=$"+itoa(len(args)))
	}
	if len(args) == 0 {
		return nil
	}
	args = append(args, orgID, id)
	sql := `UPDATE tickets SET ` + strings.Join(sets, ", ") +
		` WHERE organization_id=$` + itoa(len(args)-1) + ` AND id=$` + itoa(len(args))
	ct, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// AppendHistory pushes one entry onto the ticket's append-only log.
func (r *TicketRepo) AppendHistory(ctx context.Context, orgID, id string, entry models.HistoryEntry) error {
	b, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	ct, err := r.db.Exec(ctx, `
		UPDATE tickets SET history_log = history_log || $1::jsonb, updated_at=now()
		WHERE organization_id=$2 AND id=$3`, b, orgID, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete hard-deletes the row. Work sessions cascade at the schema level.
func (r *TicketRepo) Delete(ctx context.Context, orgID, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM tickets WHERE organization_id=$1 AND id=$2`, orgID, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Recent returns the newest tickets for assistant prompt context.
func (r *TicketRepo) Recent(ctx context.Context, orgID string, limit int, since time.Time) ([]models.Ticket, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+ticketCols+` FROM tickets
		WHERE organization_id=$1 AND created_at >= $2
		ORDER BY created_at DESC LIMIT $3`, orgID, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

// buildTicketWhere composes the WHERE clause and args for the filter.
func buildTicketWhere(orgID string, f repository.TicketFilter) (string, []any) {
	args := []any{orgID}
	clauses := []string{"organization_id = $1"}

	// free-text search (ILIKE)
	if s := strings.TrimSpace(f.Q); s != "" {
		p := "%" + s + "%"
		args = append(args, p, p)
		clauses = append(clauses, "(subject ILIKE $"+itoa(len(args)-1)+" OR description ILIKE $"+itoa(len(args))+")")
	}

	// exact filters
	for _, fl := range []struct{ col, val string }{
		{"status", f.Status},
		{"priority", f.Priority},
		{"category", f.Category},
		{"folder_id", f.FolderID},
		{"created_by_user_id", f.CreatedBy},
	} {
		if s := strings.TrimSpace(fl.val); s != "" {
			args = append(args, s)
			clauses = append(clauses, fl.col+" = $"+itoa(len(args)))
		}
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

func sanitizeSort(s, def string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "created_at", "updated_at", "priority":
		return strings.ToLower(strings.TrimSpace(s))
	default:
		return def
	}
}

func sanitizeOrder(o, def string) string {
	switch strings.ToLower(strings.TrimSpace(o)) {
	case "asc", "desc":
		return strings.ToLower(strings.TrimSpace(o))
	default:
		return def
	}
}

func emptyIfNilSubtasks(s []models.Subtask) []models.Subtask {
	if s == nil {
		return []models.Subtask{}
	}
	return s
}

func emptyIfNilAttachments(a []models.Attachment) []models.Attachment {
	if a == nil {
		return []models.Attachment{}
	}
	return a
}

func emptyIfNilHistory(h []models.HistoryEntry) []models.HistoryEntry {
	if h == nil {
		return []models.HistoryEntry{}
	}
	return h
}

// small helper to avoid fmt for performance-sensitive path.
func itoa(i int) string { return strconv.Itoa(i) }
