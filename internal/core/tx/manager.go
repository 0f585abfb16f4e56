// Package tx defines the transaction boundary used by domain services.
// The postgres implementation lives in infrastructure/storage; services
// only ever see these interfaces.
package tx

import (
	"context"
)

// Manager runs a function inside a database transaction. An error from
// fn rolls the transaction back, nil commits it. Calls made while a
// transaction is already active on the context join it instead of
// opening a nested one.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager adds read-only transactions for query paths. Writes
// inside ReadOnly fail at the database.
type ReadOnlyManager interface {
	Manager

	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
