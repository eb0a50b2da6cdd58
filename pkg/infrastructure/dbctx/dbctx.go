// Package dbctx carries an optional GORM transaction on a request context.
package dbctx

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// WithTx returns a context bound to tx
func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// Tx returns the transaction bound to ctx, or nil
func Tx(ctx context.Context) *gorm.DB {
	tx, _ := ctx.Value(txKey{}).(*gorm.DB)
	return tx
}

// DB picks the bound transaction when present, else the base handle
func DB(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx := Tx(ctx); tx != nil {
		return tx
	}
	return base.WithContext(ctx)
}
