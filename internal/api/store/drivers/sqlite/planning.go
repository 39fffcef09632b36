package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/mcplanning/backend/internal/api/domain"
	"github.com/mcplanning/backend/internal/api/store"
)

type planningRepo struct {
	q dbtx
}

const planningColumns = `id, date, shift, note, employee_id, organization_id, created_at, updated_at`

func scanPlanningEntry(row interface{ Scan(dest ...any) error }) (domain.PlanningEntry, error) {
	var e domain.PlanningEntry
	var note sql.NullString
	var employeeID sql.NullInt64
	err := row.Scan(&e.ID, &e.Date, &e.Shift, &note, &employeeID,
		&e.OrganizationID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return domain.PlanningEntry{}, err
	}
	e.Note = mapNullString(note)
	e.EmployeeID = mapNullInt(employeeID)
	return e, nil
}

func (r *planningRepo) CreatePlanningEntry(ctx context.Context, e domain.PlanningEntry) (int64, error) {
	now := time.Now().UTC()
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO planning_entries (date, shift, note, employee_id, organization_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Date.UTC(), e.Shift, mapOptionalString(e.Note), mapOptionalInt(e.EmployeeID),
		e.OrganizationID, now, now,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *planningRepo) GetPlanningEntryInOrg(ctx context.Context, id, orgID int64) (domain.PlanningEntry, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+planningColumns+` FROM planning_entries WHERE id = ? AND organization_id = ?`, id, orgID)
	e, err := scanPlanningEntry(row)
	if err != nil {
		return domain.PlanningEntry{}, mapNotFound(err)
	}
	return e, nil
}

func (r *planningRepo) ListPlanningEntries(
	ctx context.Context,
	q store.PlanningQuery,
) ([]domain.PlanningEntry, error) {
	query := `SELECT ` + planningColumns + ` FROM planning_entries WHERE organization_id = ?`
	args := []any{q.OrganizationID}

	if q.VisibleTo != nil {
		query += ` AND (employee_id = ? OR employee_id IS NULL)`
		args = append(args, *q.VisibleTo)
	}
	if q.Day != nil {
		dayStart := q.Day.UTC().Truncate(24 * time.Hour)
		query += ` AND date >= ? AND date < ?`
		args = append(args, dayStart, dayStart.Add(24*time.Hour))
	}
	query += ` ORDER BY date, id`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PlanningEntry
	for rows.Next() {
		e, err := scanPlanningEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *planningRepo) UpdatePlanningEntry(ctx context.Context, e domain.PlanningEntry) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE planning_entries SET date = ?, shift = ?, note = ?, employee_id = ?, updated_at = ?
		 WHERE id = ? AND organization_id = ?`,
		e.Date.UTC(), e.Shift, mapOptionalString(e.Note), mapOptionalInt(e.EmployeeID),
		time.Now().UTC(), e.ID, e.OrganizationID,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *planningRepo) DeletePlanningEntry(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM planning_entries WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
