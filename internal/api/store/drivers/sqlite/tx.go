package sqlite

import (
	"context"
	"database/sql"

	"github.com/mcplanning/backend/internal/api/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// Close is a no-op; the caller commits or rolls back and the outer DB
// stays open.
func (t *txStore) Close() error { return nil }

// Ping is a no-op for transactions; the connection already exists.
func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

// ApplyMigrations is a no-op; migrations run before any transaction starts.
func (t *txStore) ApplyMigrations() error { return nil }

func (t *txStore) Employees() store.Employees             { return &employeesRepo{q: t.tx} }
func (t *txStore) Organizations() store.Organizations     { return &organizationsRepo{q: t.tx} }
func (t *txStore) Invitations() store.Invitations         { return &invitationsRepo{q: t.tx} }
func (t *txStore) PlanningEntries() store.PlanningEntries { return &planningRepo{q: t.tx} }
func (t *txStore) Requests() store.Requests               { return &requestsRepo{q: t.tx} }
