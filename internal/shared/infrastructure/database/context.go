package database

import (
	"context"
	"sync"
)

type txKey struct{}

// TxInfo holds the transaction in context and whether it is owned by the caller.
type TxInfo struct {
	Tx    Transaction
	Owned bool
	hooks *commitHooks
}

type commitHooks struct {
	mu  sync.Mutex
	fns []func(context.Context)
}

func (h *commitHooks) add(fn func(context.Context)) {
	h.mu.Lock()
	h.fns = append(h.fns, fn)
	h.mu.Unlock()
}

func (h *commitHooks) drain() []func(context.Context) {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	fns := h.fns
	h.fns = nil
	return fns
}

// WithTx stores transaction info in the context. Joined transactions share
// the owner's after-commit hooks.
func WithTx(ctx context.Context, tx Transaction, owned bool) context.Context {
	info := TxInfo{Tx: tx, Owned: owned}
	if outer, ok := TxInfoFromContext(ctx); ok && outer.Tx == tx {
		info.hooks = outer.hooks
	}
	if info.hooks == nil {
		info.hooks = &commitHooks{}
	}
	return context.WithValue(ctx, txKey{}, info)
}

// withoutTx hides any transaction from ctx.
func withoutTx(ctx context.Context) context.Context {
	return context.WithValue(ctx, txKey{}, TxInfo{})
}

// TxFromContext extracts transaction from the context.
// Returns nil if no transaction is present.
func TxFromContext(ctx context.Context) Transaction {
	info, ok := ctx.Value(txKey{}).(TxInfo)
	if !ok || info.Tx == nil {
		return nil
	}
	return info.Tx
}

// TxInfoFromContext extracts full transaction info from the context.
func TxInfoFromContext(ctx context.Context) (TxInfo, bool) {
	info, ok := ctx.Value(txKey{}).(TxInfo)
	if !ok || info.Tx == nil {
		return TxInfo{}, false
	}
	return info, true
}

// AfterCommit runs fn once the transaction in ctx commits, with a context
// that carries no transaction. Rolled back transactions drop fn. Outside a
// transaction fn runs immediately.
func AfterCommit(ctx context.Context, fn func(context.Context)) {
	info, ok := TxInfoFromContext(ctx)
	if !ok || info.hooks == nil {
		fn(ctx)
		return
	}
	info.hooks.add(fn)
}

// ExecutorFromContext returns the transaction if present, otherwise the connection.
// Repositories call this so the same code runs inside and outside a unit of work.
func ExecutorFromContext(ctx context.Context, conn Connection) Executor {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return conn
}
