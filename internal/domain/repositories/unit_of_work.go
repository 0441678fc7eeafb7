package repositories

import (
	"context"
)

// UnitOfWork defines the interface for atomic operations. Every mutating
// operation of the ledger runs inside exactly one Do scope: balances and
// ledger rows commit together or not at all.
type UnitOfWork interface {
	// Do executes the given function within a transaction scope
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
