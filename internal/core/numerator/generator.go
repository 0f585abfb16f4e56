// Package numerator defines the document numbering contract. The
// database-backed implementation lives in pkg/numerator.
package numerator

import (
	"context"
	"time"
)

// Generator hands out sequential document numbers such as QUO001 or
// INV-2024-0001.
type Generator interface {
	// GetNextNumber returns the next number for the sequence described
	// by cfg, scoped to the given period.
	GetNextNumber(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error)

	// SetNextNumber moves the sequence forward, used when importing
	// documents that already carry numbers.
	SetNextNumber(ctx context.Context, cfg Config, period time.Time, value int64) error
}
