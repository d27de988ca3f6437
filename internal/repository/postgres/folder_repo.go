package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"agencydesk/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FolderRepo struct{ db *pgxpool.Pool }

func NewFolderRepo(db *pgxpool.Pool) *FolderRepo { return &FolderRepo{db: db} }

// ListByOrg returns folders in stored (position) order; the router depends
// on this ordering for first-match-wins evaluation.
func (r *FolderRepo) ListByOrg(ctx context.Context, orgID string) ([]models.Folder, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, organization_id, name, color, position, automation_rules
		FROM folders WHERE organization_id=$1
		ORDER BY position ASC, id ASC`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Folder
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

func (r *FolderRepo) Get(ctx context.Context, orgID, id string) (*models.Folder, error) {
	f, err := scanFolder(r.db.QueryRow(ctx, `
		SELECT id, organization_id, name, color, position, automation_rules
		FROM folders WHERE organization_id=$1 AND id=$2`, orgID, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return f, nil
}

func (r *FolderRepo) Create(ctx context.Context, f *models.Folder) error {
	rules, err := json.Marshal(emptyIfNilRules(f.Rules))
	if err != nil {
		return err
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO folders (organization_id, name, color, position, automation_rules)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id`, f.OrganizationID, f.Name, f.Color, f.Position, rules).Scan(&f.ID)
}

func (r *FolderRepo) Update(ctx context.Context, f *models.Folder) error {
	rules, err := json.Marshal(emptyIfNilRules(f.Rules))
	if err != nil {
		return err
	}
	ct, err := r.db.Exec(ctx, `
		UPDATE folders SET name=$1, color=$2, position=$3, automation_rules=$4
		WHERE organization_id=$5 AND id=$6`,
		f.Name, f.Color, f.Position, rules, f.OrganizationID, f.ID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes the folder; tickets keep running unfiled (folder_id set NULL
// by the schema).
func (r *FolderRepo) Delete(ctx context.Context, orgID, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM folders WHERE organization_id=$1 AND id=$2`, orgID, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanFolder(row pgx.Row) (*models.Folder, error) {
	var f models.Folder
	var rules []byte
	if err := row.Scan(&f.ID, &f.OrganizationID, &f.Name, &f.Color, &f.Position, &rules); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(rules, &f.Rules); err != nil {
		return nil, fmt.Errorf("decode automation_rules: %w", err)
	}
	return &f, nil
}

func emptyIfNilRules(rules []models.AutomationRule) []models.AutomationRule {
	if rules == nil {
		return []models.AutomationRule{}
	}
	return rules
}
