package repositories

import (
	"context"

	"github.com/google/uuid"

	"wallet-kita.backend/internal/domain/entities"
)

// TransactionRepository appends and reads the user ledger. Rows are
// immutable: there is no update or delete operation by design.
type TransactionRepository interface {
	Create(ctx context.Context, tx *entities.Transaction) error
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*entities.Transaction, error)
	GetByWalletID(ctx context.Context, walletID, ownerID uuid.UUID) ([]*entities.Transaction, error)
}

// ServiceTransactionRepository appends the operator-internal ledger
type ServiceTransactionRepository interface {
	Create(ctx context.Context, tx *entities.ServiceTransaction) error
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*entities.ServiceTransaction, error)
}
