package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/mcplanning/backend/internal/api/domain"
)

type invitationsRepo struct {
	q dbtx
}

const invitationColumns = `id, token_hash, email, organization_id, expires_at, used_at, created_at`

func scanInvitation(row interface{ Scan(dest ...any) error }) (domain.Invitation, error) {
	var inv domain.Invitation
	var usedAt sql.NullTime
	err := row.Scan(&inv.ID, &inv.TokenHash, &inv.Email, &inv.OrganizationID,
		&inv.ExpiresAt, &usedAt, &inv.CreatedAt)
	if err != nil {
		return domain.Invitation{}, err
	}
	inv.UsedAt = mapNullTime(usedAt)
	return inv, nil
}

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO invitations (token_hash, email, organization_id, expires_at, used_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		inv.TokenHash, inv.Email, inv.OrganizationID, inv.ExpiresAt,
		mapOptionalTime(inv.UsedAt), time.Now().UTC(),
	)
	if err != nil {
		return 0, mapConstraint(err)
	}
	return res.LastInsertId()
}

func (r *invitationsRepo) GetInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE token_hash = ?`, hash)
	inv, err := scanInvitation(row)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitationsRepo) DeletePendingInvitations(ctx context.Context, email string, orgID int64) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM invitations WHERE email = ? AND organization_id = ? AND used_at IS NULL`,
		email, orgID,
	)
	return err
}

// MarkInvitationUsed is the conditional write that makes acceptance
// single-shot: used_at transitions null -> timestamp at most once.
func (r *invitationsRepo) MarkInvitationUsed(
	ctx context.Context,
	hash string,
	usedAt time.Time,
) (bool, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE invitations SET used_at = ? WHERE token_hash = ? AND used_at IS NULL`,
		usedAt.UTC(), hash,
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
