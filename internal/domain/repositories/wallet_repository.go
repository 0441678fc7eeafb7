package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"wallet-kita.backend/internal/domain/entities"
)

// WalletRepository defines user wallet data operations
type WalletRepository interface {
	Create(ctx context.Context, wallet *entities.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error)
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*entities.Wallet, error)
	GetByOwnerAndCurrency(ctx context.Context, ownerID uuid.UUID, currencyID int) (*entities.Wallet, error)

	// LockMany acquires exclusive row locks on the given wallets in
	// canonical (ascending id) order, regardless of call-site ordering.
	// Must run inside a UnitOfWork scope.
	LockMany(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID]*entities.Wallet, error)

	// SaveBalances persists balance and reserved_balance of a locked wallet
	SaveBalances(ctx context.Context, wallet *entities.Wallet) error
}

// ServiceWalletRepository defines operator service wallet data operations
type ServiceWalletRepository interface {
	GetByOwnerAndCurrency(ctx context.Context, serviceUserID uuid.UUID, currencyID int) (*entities.ServiceWallet, error)
	LockByID(ctx context.Context, id uuid.UUID) (*entities.ServiceWallet, error)
	SaveBalances(ctx context.Context, wallet *entities.ServiceWallet) error
}

// ExternalWalletRepository defines operator external wallet data operations
type ExternalWalletRepository interface {
	GetByOwnerAndCurrency(ctx context.Context, serviceUserID uuid.UUID, currencyID int) (*entities.ExternalWallet, error)
	LockByID(ctx context.Context, id uuid.UUID) (*entities.ExternalWallet, error)
	SaveBalances(ctx context.Context, wallet *entities.ExternalWallet) error
}

// UserExternalWalletRepository tracks per-user external rail wallets
type UserExternalWalletRepository interface {
	GetByOwnerAndCurrency(ctx context.Context, ownerID uuid.UUID, currencyID int) (*entities.UserExternalWallet, error)
	AddWithdrawn(ctx context.Context, id uuid.UUID, net decimal.Decimal) error
}
