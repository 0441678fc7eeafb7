package repositories

import (
	"context"

	"github.com/google/uuid"

	"wallet-kita.backend/internal/domain/entities"
)

// PendingTransactionRepository stages and resolves external settlements
type PendingTransactionRepository interface {
	Create(ctx context.Context, tx *entities.PendingTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.PendingTransaction, error)

	// LockByID acquires an exclusive row lock so that concurrent confirms
	// of the same pending transaction serialize. Must run inside a
	// UnitOfWork scope.
	LockByID(ctx context.Context, id uuid.UUID) (*entities.PendingTransaction, error)

	// CloseOut transitions pending -> newStatus. It fails with
	// ErrInvalidStatusTransition when the row is no longer pending.
	CloseOut(ctx context.Context, id uuid.UUID, newStatus entities.PendingTransactionStatus) error
}
