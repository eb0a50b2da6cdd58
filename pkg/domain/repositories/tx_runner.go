package repositories

import "context"

// TxRunner executes fn as one all-or-nothing unit of work.
// Repositories called with the ctx passed to fn join the transaction;
// a nested InTx joins the outer one.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
