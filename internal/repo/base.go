package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base is embedded by the account and step repositories and holds their GORM
// handle. The handle may be the shared pool or a transaction.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB binds the handle to the request context so cancellation propagates into
// queries.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}
