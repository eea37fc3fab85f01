package main

import (
	"context"
	"database/sql"
	"time"

	dErrors "claimbank/pkg/domain-errors"
	"claimbank/pkg/platform/tx"
)

const defaultClaimTxTimeout = 5 * time.Second

// claimPostgresTx runs a unit of work inside one SQL transaction,
// carried through the context so the claim store joins it.
type claimPostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newClaimPostgresTx(db *sql.DB) *claimPostgresTx {
	return &claimPostgresTx{db: db}
}

func (t *claimPostgresTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultClaimTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	sqlTx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	if err := fn(tx.WithTx(ctx, sqlTx)); err != nil {
		return err
	}
	return sqlTx.Commit()
}
