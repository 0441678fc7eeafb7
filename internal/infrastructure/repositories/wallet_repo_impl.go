package repositories

import (
	"bytes"
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"wallet-kita.backend/internal/domain/entities"
	domainerrors "wallet-kita.backend/internal/domain/errors"
	"wallet-kita.backend/internal/infrastructure/models"
	"wallet-kita.backend/pkg/utils"
)

// WalletRepository implements user wallet data operations
type WalletRepository struct {
	db *gorm.DB
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func walletToEntity(m *models.Wallet) *entities.Wallet {
	return &entities.Wallet{
		ID:              m.ID,
		OwnerID:         m.OwnerID,
		CurrencyID:      m.CurrencyID,
		Balance:         m.Balance,
		ReservedBalance: m.ReservedBalance,
	}
}

// Create creates a new wallet
func (r *WalletRepository) Create(ctx context.Context, wallet *entities.Wallet) error {
	if wallet.ID == uuid.Nil {
		wallet.ID = utils.GenerateUUIDv7()
	}

	m := &models.Wallet{
		ID:              wallet.ID,
		OwnerID:         wallet.OwnerID,
		CurrencyID:      wallet.CurrencyID,
		Balance:         wallet.Balance,
		ReservedBalance: wallet.ReservedBalance,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	db := GetDB(ctx, r.db)
	if err := db.Create(m).Error; err != nil {
		return domainerrors.Persistence(err)
	}
	return nil
}

// GetByID gets a wallet by ID
func (r *WalletRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error) {
	db := GetDB(ctx, r.db)

	var m models.Wallet
	if err := db.First(&m, "id = ?", id).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return walletToEntity(&m), nil
}

// GetByOwnerID gets all wallets of an owner
func (r *WalletRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*entities.Wallet, error) {
	db := GetDB(ctx, r.db)

	var ms []models.Wallet
	if err := db.Where("owner_id = ?", ownerID).Order("created_at").Find(&ms).Error; err != nil {
		return nil, domainerrors.Persistence(err)
	}

	wallets := make([]*entities.Wallet, 0, len(ms))
	for i := range ms {
		wallets = append(wallets, walletToEntity(&ms[i]))
	}
	return wallets, nil
}

// GetByOwnerAndCurrency gets the owner's wallet in one currency
func (r *WalletRepository) GetByOwnerAndCurrency(ctx context.Context, ownerID uuid.UUID, currencyID int) (*entities.Wallet, error) {
	db := GetDB(ctx, r.db)

	var m models.Wallet
	if err := db.Where("owner_id = ? AND currency_id = ?", ownerID, currencyID).First(&m).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return walletToEntity(&m), nil
}

// LockMany acquires exclusive row locks in canonical (ascending id) order.
// The ordering is independent of which wallet is source or target, so two
// opposite-direction transfers over the same pair cannot deadlock.
func (r *WalletRepository) LockMany(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID]*entities.Wallet, error) {
	sorted := make([]uuid.UUID, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i][:], sorted[j][:]) < 0
	})

	db := GetDB(ctx, r.db)
	out := make(map[uuid.UUID]*entities.Wallet, len(sorted))
	for _, id := range sorted {
		if _, ok := out[id]; ok {
			continue
		}
		var m models.Wallet
		if err := forUpdate(db).First(&m, "id = ?", id).Error; err != nil {
			return nil, wrapDBError(err)
		}
		out[id] = walletToEntity(&m)
	}
	return out, nil
}

// SaveBalances persists balance and reserved_balance of a locked wallet
func (r *WalletRepository) SaveBalances(ctx context.Context, wallet *entities.Wallet) error {
	db := GetDB(ctx, r.db)

	res := db.Model(&models.Wallet{}).Where("id = ?", wallet.ID).Updates(map[string]interface{}{
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
