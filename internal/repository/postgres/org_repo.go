package postgres

import (
	"context"

	"agencydesk/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrgRepo struct{ db *pgxpool.Pool }

func NewOrgRepo(db *pgxpool.Pool) *OrgRepo { return &OrgRepo{db: db} }

func (r *OrgRepo) Get(ctx context.Context, id string) (*models.Organization, error) {
	var o models.Organization
	err := r.db.QueryRow(ctx, `
		SELECT id, name, vip_status, created_at FROM organizations WHERE id=$1`, id).
		Scan(&o.ID, &o.Name, &o.VIPStatus, &o.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrgRepo) Create(ctx context.Context, o *models.Organization) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO organizations (name, vip_status)
		VALUES ($1,$2)
		RETURNING id, created_at`, o.Name, o.VIPStatus).Scan(&o.ID, &o.CreatedAt)
}

// SetTier is a plain field set; webhook replays re-run it harmlessly.
func (r *OrgRepo) SetTier(ctx context.Context, id, tier string) error {
	ct, err := r.db.Exec(ctx, `UPDATE organizations SET vip_status=$1 WHERE id=$2`, tier, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
