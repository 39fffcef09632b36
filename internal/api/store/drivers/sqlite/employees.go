package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/mcplanning/backend/internal/api/domain"
)

type employeesRepo struct {
	q dbtx
}

const employeeColumns = `id, name, email, role, status, password_hash, refresh_token_hash, organization_id, created_at, updated_at`

func scanEmployee(row interface{ Scan(dest ...any) error }) (domain.Employee, error) {
	var e domain.Employee
	var refreshHash sql.NullString
	err := row.Scan(
		&e.ID, &e.Name, &e.Email, &e.Role, &e.Status,
		&e.PasswordHash, &refreshHash, &e.OrganizationID,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return domain.Employee{}, err
	}
	e.RefreshTokenHash = mapNullString(refreshHash)
	return e, nil
}

func (r *employeesRepo) GetEmployeeByID(ctx context.Context, id int64) (domain.Employee, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id)
	e, err := scanEmployee(row)
	if err != nil {
		return domain.Employee{}, mapNotFound(err)
	}
	return e, nil
}

func (r *employeesRepo) GetEmployeeByEmail(ctx context.Context, email string) (domain.Employee, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE email = ?`, email)
	e, err := scanEmployee(row)
	if err != nil {
		return domain.Employee{}, mapNotFound(err)
	}
	return e, nil
}

func (r *employeesRepo) GetEmployeeInOrg(ctx context.Context, id, orgID int64) (domain.Employee, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE id = ? AND organization_id = ?`, id, orgID)
	e, err := scanEmployee(row)
	if err != nil {
		return domain.Employee{}, mapNotFound(err)
	}
	return e, nil
}

func (r *employeesRepo) GetEmployeeByEmailInOrg(
	ctx context.Context,
	email string,
	orgID int64,
) (domain.Employee, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE email = ? AND organization_id = ?`, email, orgID)
	e, err := scanEmployee(row)
	if err != nil {
		return domain.Employee{}, mapNotFound(err)
	}
	return e, nil
}

func (r *employeesRepo) ListEmployeesByOrg(ctx context.Context, orgID int64) ([]domain.Employee, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE organization_id = ? ORDER BY id`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *employeesRepo) CreateEmployee(ctx context.Context, e domain.Employee) (int64, error) {
	now := time.Now().UTC()
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO employees (name, email, role, status, password_hash, refresh_token_hash, organization_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Name, e.Email, e.Role, e.Status, e.PasswordHash,
		mapOptionalString(e.RefreshTokenHash), e.OrganizationID, now, now,
	)
	if err != nil {
		return 0, mapConstraint(err)
	}
	return res.LastInsertId()
}

func (r *employeesRepo) UpdateEmployeeProfile(
	ctx context.Context,
	id int64,
	name, email, role, status string,
) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE employees SET name = ?, email = ?, role = ?, status = ?, updated_at = ? WHERE id = ?`,
		name, email, role, status, time.Now().UTC(), id,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRowAffected(res)
}

func (r *employeesRepo) UpdatePasswordHash(ctx context.Context, id int64, newHash string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE employees SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *employeesRepo) UpdateRefreshTokenHash(ctx context.Context, id int64, hash *string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE employees SET refresh_token_hash = ?, updated_at = ? WHERE id = ?`,
		mapOptionalString(hash), time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// RotateRefreshTokenHash is the single conditional write that makes
// refresh rotation atomic: only the caller holding the current
// fingerprint can install the next one.
func (r *employeesRepo) RotateRefreshTokenHash(
	ctx context.Context,
	id int64,
	oldHash, newHash string,
) (bool, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE employees SET refresh_token_hash = ?, updated_at = ?
		 WHERE id = ? AND refresh_token_hash = ?`,
		newHash, time.Now().UTC(), id, oldHash,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *employeesRepo) DeleteEmployee(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
