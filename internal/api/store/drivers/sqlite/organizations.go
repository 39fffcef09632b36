package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/mcplanning/backend/internal/api/domain"
)

type organizationsRepo struct {
	q dbtx
}

const organizationColumns = `id, name, code, owner_id, planning_image_url, created_at, updated_at`

func scanOrganization(row interface{ Scan(dest ...any) error }) (domain.Organization, error) {
	var o domain.Organization
	var ownerID sql.NullInt64
	var imageURL sql.NullString
	err := row.Scan(&o.ID, &o.Name, &o.Code, &ownerID, &imageURL, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return domain.Organization{}, err
	}
	o.OwnerID = mapNullInt(ownerID)
	o.PlanningImageURL = mapNullString(imageURL)
	return o, nil
}

func (r *organizationsRepo) GetOrganizationByID(ctx context.Context, id int64) (domain.Organization, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+organizationColumns+` FROM organizations WHERE id = ?`, id)
	o, err := scanOrganization(row)
	if err != nil {
		return domain.Organization{}, mapNotFound(err)
	}
	return o, nil
}

func (r *organizationsRepo) GetOrganizationByCode(ctx context.Context, code string) (domain.Organization, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+organizationColumns+` FROM organizations WHERE code = ?`, code)
	o, err := scanOrganization(row)
	if err != nil {
		return domain.Organization{}, mapNotFound(err)
	}
	return o, nil
}

func (r *organizationsRepo) CreateOrganization(ctx context.Context, o domain.Organization) (int64, error) {
	now := time.Now().UTC()
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO organizations (name, code, owner_id, planning_image_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		o.Name, o.Code, mapOptionalInt(o.OwnerID), mapOptionalString(o.PlanningImageURL), now, now,
	)
	if err != nil {
		return 0, mapConstraint(err)
	}
	return res.LastInsertId()
}

func (r *organizationsRepo) SetOrganizationOwner(ctx context.Context, id, ownerID int64) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE organizations SET owner_id = ?, updated_at = ? WHERE id = ?`,
		ownerID, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *organizationsRepo) UpdatePlanningImage(ctx context.Context, id int64, imageURL string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE organizations SET planning_image_url = ?, updated_at = ? WHERE id = ?`,
		imageURL, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
