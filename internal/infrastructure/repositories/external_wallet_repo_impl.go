package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"wallet-kita.backend/internal/domain/entities"
	domainerrors "wallet-kita.backend/internal/domain/errors"
	"wallet-kita.backend/internal/infrastructure/models"
)

// ExternalWalletRepository implements operator external wallet operations
type ExternalWalletRepository struct {
	db *gorm.DB
}

// NewExternalWalletRepository creates a new external wallet repository
func NewExternalWalletRepository(db *gorm.DB) *ExternalWalletRepository {
	return &ExternalWalletRepository{db: db}
}

func externalWalletToEntity(m *models.ExternalWallet) *entities.ExternalWallet {
	return &entities.ExternalWallet{
		Wallet: entities.Wallet{
			ID:              m.ID,
			OwnerID:         m.OwnerID,
			CurrencyID:      m.CurrencyID,
			Balance:         m.Balance,
			ReservedBalance: m.ReservedBalance,
		},
		CommissionRate: m.CommissionRate,
	}
}

// GetByOwnerAndCurrency resolves the operator's external wallet for a currency
func (r *ExternalWalletRepository) GetByOwnerAndCurrency(ctx context.Context, serviceUserID uuid.UUID, currencyID int) (*entities.ExternalWallet, error) {
	db := GetDB(ctx, r.db)

	var m models.ExternalWallet
	if err := db.Where("owner_id = ? AND currency_id = ?", serviceUserID, currencyID).First(&m).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return externalWalletToEntity(&m), nil
}

// LockByID loads an external wallet under an exclusive row lock
func (r *ExternalWalletRepository) LockByID(ctx context.Context, id uuid.UUID) (*entities.ExternalWallet, error) {
	db := GetDB(ctx, r.db)

	var m models.ExternalWallet
	if err := forUpdate(db).First(&m, "id = ?", id).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return externalWalletToEntity(&m), nil
}

// SaveBalances persists balance and reserved_balance of a locked wallet
func (r *ExternalWalletRepository) SaveBalances(ctx context.Context, wallet *entities.ExternalWallet) error {
	db := GetDB(ctx, r.db)

	res := db.Model(&models.ExternalWallet{}).Where("id = ?", wallet.ID).Updates(map[string]interface{}{
		"balance":          wallet.Balance,
		"reserved_balance": wallet.ReservedBalance,
		"updated_at":       time.Now(),
	})
	if res.Error != nil {
		return domainerrors.Persistence(res.Error)
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// UserExternalWalletRepository tracks per-user external rail wallets
type UserExternalWalletRepository struct {
	db *gorm.DB
}

// NewUserExternalWalletRepository creates a new user external wallet repository
func NewUserExternalWalletRepository(db *gorm.DB) *UserExternalWalletRepository {
	return &UserExternalWalletRepository{db: db}
}

// GetByOwnerAndCurrency resolves a user's external wallet for a currency
func (r *UserExternalWalletRepository) GetByOwnerAndCurrency(ctx context.Context, ownerID uuid.UUID, currencyID int) (*entities.UserExternalWallet, error) {
	db := GetDB(ctx, r.db)

	var m models.UserExternalWallet
	if err := db.Where("owner_id = ? AND currency_id = ?", ownerID, currencyID).First(&m).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return &entities.UserExternalWallet{
		ID:                  m.ID,
		OwnerID:             m.OwnerID,
		CurrencyID:          m.CurrencyID,
		WalletName:          m.WalletName,
		CumulativeWithdrawn: m.CumulativeWithdrawn,
	}, nil
}

// AddWithdrawn increments the lifetime withdrawn total
func (r *UserExternalWalletRepository) AddWithdrawn(ctx context.Context, id uuid.UUID, net decimal.Decimal) error {
	db := GetDB(ctx, r.db)

	res := db.Model(&models.UserExternalWallet{}).Where("id = ?", id).Updates(map[string]interface{}{
		"cumulative_withdrawn": gorm.Expr("cumulative_withdrawn + ?", net),
		"updated_at":           time.Now(),
	})
	if res.Error != nil {
		return domainerrors.Persistence(res.Error)
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}
