package repositories

import "context"

// TxFn is a function that runs within a transaction.
type TxFn func(ctx context.Context) error

// TransactionManager handles database transactions. Archive and restore
// cascades run inside one transaction so a mid-cascade failure never leaves
// a subtree half-archived.
type TransactionManager interface {
	// ExecTx executes a function within a transaction.
	ExecTx(ctx context.Context, fn TxFn) error
}
