package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"wallet-kita.backend/internal/domain/entities"
	domainerrors "wallet-kita.backend/internal/domain/errors"
	"wallet-kita.backend/internal/infrastructure/models"
)

// ServiceWalletRepository implements operator service wallet operations
type ServiceWalletRepository struct {
	db *gorm.DB
}

// NewServiceWalletRepository creates a new service wallet repository
func NewServiceWalletRepository(db *gorm.DB) *ServiceWalletRepository {
	return &ServiceWalletRepository{db: db}
}

func serviceWalletToEntity(m *models.ServiceWallet) *entities.ServiceWallet {
	return &entities.ServiceWallet{
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

// GetByOwnerAndCurrency resolves the operator's service wallet for a currency
func (r *ServiceWalletRepository) GetByOwnerAndCurrency(ctx context.Context, serviceUserID uuid.UUID, currencyID int) (*entities.ServiceWallet, error) {
	db := GetDB(ctx, r.db)

	var m models.ServiceWallet
	if err := db.Where("owner_id = ? AND currency_id = ?", serviceUserID, currencyID).First(&m).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return serviceWalletToEntity(&m), nil
}

// LockByID loads a service wallet under an exclusive row lock
func (r *ServiceWalletRepository) LockByID(ctx context.Context, id uuid.UUID) (*entities.ServiceWallet, error) {
	db := GetDB(ctx, r.db)

	var m models.ServiceWallet
	if err := forUpdate(db).First(&m, "id = ?", id).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return serviceWalletToEntity(&m), nil
}

// SaveBalances persists balance and reserved_balance of a locked wallet
func (r *ServiceWalletRepository) SaveBalances(ctx context.Context, wallet *entities.ServiceWallet) error {
	db := GetDB(ctx, r.db)

	res := db.Model(&models.ServiceWallet{}).Where("id = ?", wallet.ID).Updates(map[string]interface{}{
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
