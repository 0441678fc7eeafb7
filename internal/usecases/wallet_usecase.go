package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"wallet-kita.backend/internal/domain/entities"
	domainerrors "wallet-kita.backend/internal/domain/errors"
	"wallet-kita.backend/internal/domain/repositories"
	"wallet-kita.backend/pkg/utils"
)

// WalletUsecase handles wallet provisioning and lookup
type WalletUsecase struct {
	walletRepo   repositories.WalletRepository
	currencyRepo repositories.CurrencyRepository
	uow          repositories.UnitOfWork
}

// NewWalletUsecase creates a new wallet usecase
func NewWalletUsecase(
	walletRepo repositories.WalletRepository,
	currencyRepo repositories.CurrencyRepository,
	uow repositories.UnitOfWork,
) *WalletUsecase {
	return &WalletUsecase{
		walletRepo:   walletRepo,
		currencyRepo: currencyRepo,
		uow:          uow,
	}
}

// Create provisions a wallet for (owner, currency). At most one wallet
// per pair.
func (u *WalletUsecase) Create(ctx context.Context, ownerID uuid.UUID, input *entities.CreateWalletInput) (*entities.Wallet, error) {
	currency, err := u.currencyRepo.GetBySymbol(ctx, input.CurrencySymbol)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.BadRequest("unknown currency " + input.CurrencySymbol)
		}
		return nil, err
	}

	wallet := &entities.Wallet{
		ID:              utils.GenerateUUIDv7(),
		OwnerID:         ownerID,
		CurrencyID:      currency.ID,
		Balance:         decimal.Zero,
		ReservedBalance: decimal.Zero,
	}

	err = u.uow.Do(ctx, func(ctx context.Context) error {
		existing, err := u.walletRepo.GetByOwnerAndCurrency(ctx, ownerID, currency.ID)
		if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
			return err
		}
		if existing != nil {
			return domainerrors.Conflict("wallet already exists for currency " + currency.Symbol)
		}
		return u.walletRepo.Create(ctx, wallet)
	})
	if err != nil {
		return nil, err
	}

	wallet.Currency = currency
	return wallet, nil
}

// List returns all wallets of the owner
func (u *WalletUsecase) List(ctx context.Context, ownerID uuid.UUID) ([]*entities.Wallet, error) {
	return u.walletRepo.GetByOwnerID(ctx, ownerID)
}

// Get fetches a single wallet with an ownership check
func (u *WalletUsecase) Get(ctx context.Context, walletID, actingUserID uuid.UUID) (*entities.Wallet, error) {
	wallet, err := u.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if err := wallet.AssertOwnedBy(actingUserID); err != nil {
		return nil, err
	}
	return wallet, nil
}
