package duckdb

import (
	"context"
	"database/sql"
)

type txKey struct{}

// WithTransaction scopes a transaction to the context so stores can
// join a caller-managed transaction without changing their signatures.
func WithTransaction(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func GetTransaction(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}
