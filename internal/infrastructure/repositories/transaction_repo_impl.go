package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"wallet-kita.backend/internal/domain/entities"
	domainerrors "wallet-kita.backend/internal/domain/errors"
	"wallet-kita.backend/internal/infrastructure/models"
	"wallet-kita.backend/pkg/utils"
)

// TransactionRepository implements the user ledger. Append and read only.
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func transactionToEntity(m *models.Transaction) *entities.Transaction {
	return &entities.Transaction{
		ID:              m.ID,
		FromWalletID:    m.FromWalletID,
		FromCurrencyID:  m.FromCurrencyID,
		Amount:          m.Amount,
		ToWalletID:      m.ToWalletID,
		ToCurrencyID:    m.ToCurrencyID,
		Rate:            m.Rate,
		ConvertedAmount: m.ConvertedAmount,
		Type:            entities.TransactionType(m.Type),
		Status:          entities.TransactionStatus(m.Status),
		Timestamp:       m.Timestamp,
		OwnerID:         m.OwnerID,
	}
}

// Create appends a ledger row
func (r *TransactionRepository) Create(ctx context.Context, tx *entities.Transaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = utils.GenerateUUIDv7()
	}
	if tx.Timestamp.IsZero() {
		tx.Timestamp = time.Now()
	}

	m := &models.Transaction{
		ID:              tx.ID,
		FromWalletID:    tx.FromWalletID,
		FromCurrencyID:  tx.FromCurrencyID,
		Amount:          tx.Amount,
		ToWalletID:      tx.ToWalletID,
		ToCurrencyID:    tx.ToCurrencyID,
		Rate:            tx.Rate,
		ConvertedAmount: tx.ConvertedAmount,
		Type:            string(tx.Type),
		Status:          string(tx.Status),
		Timestamp:       tx.Timestamp,
		OwnerID:         tx.OwnerID,
	}

	db := GetDB(ctx, r.db)
	if err := db.Create(m).Error; err != nil {
		return domainerrors.Persistence(err)
	}
	return nil
}

// GetByOwnerID lists an owner's ledger rows, newest first
func (r *TransactionRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*entities.Transaction, error) {
	db := GetDB(ctx, r.db)

	var ms []models.Transaction
	if err := db.Where("owner_id = ?", ownerID).
		Order("timestamp DESC").Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, domainerrors.Persistence(err)
	}

	out := make([]*entities.Transaction, 0, len(ms))
	for i := range ms {
		out = append(out, transactionToEntity(&ms[i]))
	}
	return out, nil
}

// GetByWalletID lists rows touching one wallet, scoped to its owner
func (r *TransactionRepository) GetByWalletID(ctx context.Context, walletID, ownerID uuid.UUID) ([]*entities.Transaction, error) {
	db := GetDB(ctx, r.db)

	var ms []models.Transaction
	if err := db.Where("owner_id = ? AND (from_wallet_id = ? OR to_wallet_id = ?)", ownerID, walletID, walletID).
		Order("timestamp DESC").
		Find(&ms).Error; err != nil {
		return nil, domainerrors.Persistence(err)
	}

	out := make([]*entities.Transaction, 0, len(ms))
	for i := range ms {
		out = append(out, transactionToEntity(&ms[i]))
	}
	return out, nil
}

// ServiceTransactionRepository implements the operator-internal ledger
type ServiceTransactionRepository struct {
	db *gorm.DB
}

// NewServiceTransactionRepository creates a new service transaction repository
func NewServiceTransactionRepository(db *gorm.DB) *ServiceTransactionRepository {
	return &ServiceTransactionRepository{db: db}
}

// Create appends an operator ledger row
func (r *ServiceTransactionRepository) Create(ctx context.Context, tx *entities.ServiceTransaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = utils.GenerateUUIDv7()
	}
	if tx.Timestamp.IsZero() {
		tx.Timestamp = time.Now()
	}

	m := &models.ServiceTransaction{
		ID:              tx.ID,
		FromWalletID:    tx.FromWalletID,
		FromCurrencyID:  tx.FromCurrencyID,
		Amount:          tx.Amount,
		ToWalletID:      tx.ToWalletID,
		ToCurrencyID:    tx.ToCurrencyID,
		Rate:            tx.Rate,
		ConvertedAmount: tx.ConvertedAmount,
		Type:            string(tx.Type),
		Status:          string(tx.Status),
		Timestamp:       tx.Timestamp,
		OwnerID:         tx.OwnerID,
	}

	db := GetDB(ctx, r.db)
	if err := db.Create(m).Error; err != nil {
		return domainerrors.Persistence(err)
	}
	return nil
}

// GetByOwnerID lists an operator's internal ledger rows, newest first
func (r *ServiceTransactionRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*entities.ServiceTransaction, error) {
	db := GetDB(ctx, r.db)

	var ms []models.ServiceTransaction
	if err := db.Where("owner_id = ?", ownerID).
		Order("timestamp DESC").Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, domainerrors.Persistence(err)
	}

	out := make([]*entities.ServiceTransaction, 0, len(ms))
	for i := range ms {
		m := &ms[i]
		out = append(out, &entities.ServiceTransaction{
			ID:              m.ID,
			FromWalletID:    m.FromWalletID,
			FromCurrencyID:  m.FromCurrencyID,
			Amount:          m.Amount,
			ToWalletID:      m.ToWalletID,
			ToCurrencyID:    m.ToCurrencyID,
			Rate:            m.Rate,
			ConvertedAmount: m.ConvertedAmount,
			Type:            entities.TransactionType(m.Type),
			Status:          entities.TransactionStatus(m.Status),
			Timestamp:       m.Timestamp,
			OwnerID:         m.OwnerID,
		})
	}
	return out, nil
}
