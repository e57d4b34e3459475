package database

import (
	"context"

	"gorm.io/gorm"
)

// RunInTransaction executes fn with a context that carries a transaction, so
// every store using Database.Session(ctx) joins it. The transaction commits
// when fn returns nil and rolls back on error or panic. A context that
// already carries a transaction is reused, making nested calls part of the
// outer unit of work.
func RunInTransaction(ctx context.Context, db Database, fn func(ctx context.Context) error) error {
	if InTransaction(ctx) {
		return fn(ctx)
	}
	return db.Session(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// InTransaction reports whether ctx carries a transaction.
func InTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*gorm.DB)
	return ok
}
