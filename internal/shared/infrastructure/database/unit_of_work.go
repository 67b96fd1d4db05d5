package database

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoTransaction is returned by Commit and Rollback outside Begin.
var ErrNoTransaction = errors.New("no transaction in context")

// GenericUnitOfWork implements application.UnitOfWork on top of a Connection.
// Nested Begin calls join the outer transaction; only the owner commits.
type GenericUnitOfWork struct {
	conn Connection
}

// NewUnitOfWork creates a new GenericUnitOfWork.
func NewUnitOfWork(conn Connection) *GenericUnitOfWork {
	return &GenericUnitOfWork{conn: conn}
}

// Begin starts a transaction and stores it in the context.
// If a transaction already exists in the context, it reuses it (nested transaction).
func (u *GenericUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if info, ok := TxInfoFromContext(ctx); ok {
		return WithTx(ctx, info.Tx, false), nil
	}

	tx, err := u.conn.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	return WithTx(ctx, tx, true), nil
}

// Commit commits the transaction if this unit owns it, then runs the hooks
// registered with AfterCommit.
func (u *GenericUnitOfWork) Commit(ctx context.Context) error {
	info, ok := TxInfoFromContext(ctx)
	if !ok {
		return ErrNoTransaction
	}
	if !info.Owned {
		return nil
	}
	if err := info.Tx.Commit(ctx); err != nil {
		info.hooks.drain()
		return err
	}
	hookCtx := withoutTx(ctx)
	for _, fn := range info.hooks.drain() {
		fn(hookCtx)
	}
	return nil
}

// Rollback rolls back the transaction if this unit owns it.
func (u *GenericUnitOfWork) Rollback(ctx context.Context) error {
	info, ok := TxInfoFromContext(ctx)
	if !ok {
		return ErrNoTransaction
	}
	if !info.Owned {
		return nil
	}
	info.hooks.drain()
	return info.Tx.Rollback(ctx)
}
