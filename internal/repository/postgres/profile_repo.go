package postgres

import (
	"context"

	"agencydesk/internal/models"
	"agencydesk/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileRepo struct{ db *pgxpool.Pool }

func NewProfileRepo(db *pgxpool.Pool) repository.ProfileRepository { return &ProfileRepo{db: db} }

// Create stores a new profile (bcrypt hash in password_h). New signups start
// unprovisioned: no organization until an invite or webhook attaches one.
func (r *ProfileRepo) Create(ctx context.Context, email, name, role, passwordHash string) (*models.Profile, error) {
	var p models.Profile
	err := r.db.QueryRow(ctx, `
		INSERT INTO profiles (email, name, role, role_in_org, password_h)
		VALUES ($1,$2,$3,'member',$4)
		RETURNING id, organization_id, email, name, role, role_in_org, is_active, created_at, updated_at`,
		email, name, role, passwordHash).
		Scan(&p.ID, &p.OrganizationID, &p.Email, &p.Name, &p.Role, &p.RoleInOrg, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (*models.Profile, string, error) {
	var p models.Profile
	var ph string
	err := r.db.QueryRow(ctx, `
		SELECT id, organization_id, email, name, role, role_in_org, is_active, password_h, created_at, updated_at
		FROM profiles WHERE email=$1`, email).
		Scan(&p.ID, &p.OrganizationID, &p.Email, &p.Name, &p.Role, &p.RoleInOrg, &p.Active, &ph, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", nil
		}
		return nil, "", err
	}
	return &p, ph, nil
}

func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	err := r.db.QueryRow(ctx, `
		SELECT id, organization_id, email, name, role, role_in_org, is_active, created_at, updated_at
		FROM profiles WHERE id=$1`, id).
		Scan(&p.ID, &p.OrganizationID, &p.Email, &p.Name, &p.Role, &p.RoleInOrg, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepo) ListByOrg(ctx context.Context, orgID string) ([]models.Profile, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, organization_id, email, name, role, role_in_org, is_active, created_at, updated_at
		FROM profiles WHERE organization_id=$1
		ORDER BY created_at ASC`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Profile
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.OrganizationID, &p.Email, &p.Name, &p.Role, &p.RoleInOrg, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update writes the admin-editable fields only; email and password have their
// own flows.
func (r *ProfileRepo) Update(ctx context.Context, p *models.Profile) error {
	ct, err := r.db.Exec(ctx, `
		UPDATE profiles SET name=$1, role=$2, role_in_org=$3, is_active=$4, organization_id=$5, updated_at=now()
		WHERE id=$6`,
		p.Name, p.Role, p.RoleInOrg, p.Active, p.OrganizationID, p.ID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ActivateMembers flips every member of the organization active; run by the
// payment webhook after a completed checkout.
func (r *ProfileRepo) ActivateMembers(ctx context.Context, orgID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE profiles SET is_active=true, updated_at=now() WHERE organization_id=$1`, orgID)
	return err
}
