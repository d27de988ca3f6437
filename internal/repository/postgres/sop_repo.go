package postgres

import (
	"context"

	"agencydesk/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SOPRepo struct{ db *pgxpool.Pool }

func NewSOPRepo(db *pgxpool.Pool) *SOPRepo { return &SOPRepo{db: db} }

func (r *SOPRepo) ListByOrg(ctx context.Context, orgID string) ([]models.SOP, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, organization_id, title, content
		FROM sops WHERE organization_id=$1
		ORDER BY title ASC`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SOP
	for rows.Next() {
		var s models.SOP
		if err := rows.Scan(&s.ID, &s.OrganizationID, &s.Title, &s.Content); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
