package memory

import (
	"context"
	"sync"

	"github.com/vsinha/tpmrp/pkg/domain/repositories"
)

// Snapshotter captures a store's state and returns a function restoring it
type Snapshotter interface {
	Snapshot() (restore func())
}

type txKey struct{}

// TxRunner gives in-memory stores all-or-nothing semantics by snapshot and restore.
// Transactions are serialised; a nested InTx joins the outer transaction.
type TxRunner struct {
	mu     sync.Mutex
	stores []Snapshotter
}

// NewTxRunner creates a runner covering the given stores
func NewTxRunner(stores ...Snapshotter) *TxRunner {
	return &TxRunner{stores: stores}
}

// Verify interface compliance
var _ repositories.TxRunner = (*TxRunner)(nil)

func (r *TxRunner) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	restores := make([]func(), len(r.stores))
	for i, s := range r.stores {
		restores[i] = s.Snapshot()
	}
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
		return err
	}
	return nil
}
