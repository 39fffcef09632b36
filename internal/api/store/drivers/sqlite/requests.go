package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/mcplanning/backend/internal/api/domain"
	"github.com/mcplanning/backend/internal/api/store"
)

type requestsRepo struct {
	q dbtx
}

const requestColumns = `id, employee_id, type, status, message, document_url, admin_message, organization_id, created_at, updated_at`

func scanRequest(row interface{ Scan(dest ...any) error }) (domain.Request, error) {
	var req domain.Request
	var message, documentURL, adminMessage sql.NullString
	err := row.Scan(&req.ID, &req.EmployeeID, &req.Type, &req.Status,
		&message, &documentURL, &adminMessage, &req.OrganizationID,
		&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return domain.Request{}, err
	}
	req.Message = mapNullString(message)
	req.DocumentURL = mapNullString(documentURL)
	req.AdminMessage = mapNullString(adminMessage)
	return req, nil
}

func (r *requestsRepo) CreateRequest(ctx context.Context, req domain.Request) (int64, error) {
	now := time.Now().UTC()
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO requests (employee_id, type, status, message, document_url, admin_message, organization_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.EmployeeID, req.Type, req.Status, mapOptionalString(req.Message),
		mapOptionalString(req.DocumentURL), mapOptionalString(req.AdminMessage),
		req.OrganizationID, now, now,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *requestsRepo) GetRequestInOrg(ctx context.Context, id, orgID int64) (domain.Request, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM requests WHERE id = ? AND organization_id = ?`, id, orgID)
	req, err := scanRequest(row)
	if err != nil {
		return domain.Request{}, mapNotFound(err)
	}
	return req, nil
}

func (r *requestsRepo) ListRequests(ctx context.Context, q store.RequestQuery) ([]domain.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE organization_id = ?`
	args := []any{q.OrganizationID}

	if q.EmployeeID != nil {
		query += ` AND employee_id = ?`
		args = append(args, *q.EmployeeID)
	}
	query += ` ORDER BY id`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (r *requestsRepo) UpdateRequest(ctx context.Context, req domain.Request) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE requests SET status = ?, message = ?, document_url = ?, admin_message = ?, updated_at = ?
		 WHERE id = ? AND organization_id = ?`,
		req.Status, mapOptionalString(req.Message), mapOptionalString(req.DocumentURL),
		mapOptionalString(req.AdminMessage), time.Now().UTC(), req.ID, req.OrganizationID,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *requestsRepo) DeleteRequest(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM requests WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
