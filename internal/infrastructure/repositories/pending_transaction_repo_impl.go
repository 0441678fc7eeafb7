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

// PendingTransactionRepository implements staged settlement storage
type PendingTransactionRepository struct {
	db *gorm.DB
}

// NewPendingTransactionRepository creates a new pending transaction repository
func NewPendingTransactionRepository(db *gorm.DB) *PendingTransactionRepository {
	return &PendingTransactionRepository{db: db}
}

func pendingToEntity(m *models.PendingTransaction) *entities.PendingTransaction {
	return &entities.PendingTransaction{
		ID:                    m.ID,
		FromWalletID:          m.FromWalletID,
		FromCurrencyID:        m.FromCurrencyID,
		Amount:                m.Amount,
		ToWalletID:            m.ToWalletID,
		ToCurrencyID:          m.ToCurrencyID,
		Rate:                  m.Rate,
		ConvertedAmount:       m.ConvertedAmount,
		Type:                  entities.TransactionType(m.Type),
		Status:                entities.PendingTransactionStatus(m.Status),
		Timestamp:             m.Timestamp,
		OwnerID:               m.OwnerID,
		ExternalWalletID:      m.ExternalWalletID,
		ExternalTransactionID: m.ExternalTransactionID,
	}
}

// Create persists a new pending transaction. The unique index on
// external_transaction_id rejects a duplicate settlement token.
func (r *PendingTransactionRepository) Create(ctx context.Context, tx *entities.PendingTransaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = utils.GenerateUUIDv7()
	}
	if tx.Timestamp.IsZero() {
		tx.Timestamp = time.Now()
	}

	m := &models.PendingTransaction{
		ID:                    tx.ID,
		FromWalletID:          tx.FromWalletID,
		FromCurrencyID:        tx.FromCurrencyID,
		Amount:                tx.Amount,
		ToWalletID:            tx.ToWalletID,
		ToCurrencyID:          tx.ToCurrencyID,
		Rate:                  tx.Rate,
		ConvertedAmount:       tx.ConvertedAmount,
		Type:                  string(tx.Type),
		Status:                string(tx.Status),
		Timestamp:             tx.Timestamp,
		OwnerID:               tx.OwnerID,
		ExternalWalletID:      tx.ExternalWalletID,
		ExternalTransactionID: tx.ExternalTransactionID,
		UpdatedAt:             time.Now(),
	}

	db := GetDB(ctx, r.db)
	if err := db.Create(m).Error; err != nil {
		return domainerrors.Persistence(err)
	}
	return nil
}

// GetByID gets a pending transaction by ID
func (r *PendingTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.PendingTransaction, error) {
	db := GetDB(ctx, r.db)

	var m models.PendingTransaction
	if err := db.First(&m, "id = ?", id).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return pendingToEntity(&m), nil
}

// LockByID loads a pending transaction under an exclusive row lock so
// concurrent confirms serialize
func (r *PendingTransactionRepository) LockByID(ctx context.Context, id uuid.UUID) (*entities.PendingTransaction, error) {
	db := GetDB(ctx, r.db)

	var m models.PendingTransaction
	if err := forUpdate(db).First(&m, "id = ?", id).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return pendingToEntity(&m), nil
}

// CloseOut transitions pending -> newStatus. The guard on the current
// status makes the transition exactly-once: a second confirm matches
// zero rows and fails with ErrInvalidStatusTransition.
func (r *PendingTransactionRepository) CloseOut(ctx context.Context, id uuid.UUID, newStatus entities.PendingTransactionStatus) error {
	if !newStatus.Terminal() {
		return domainerrors.ErrInvalidStatusTransition
	}

	db := GetDB(ctx, r.db)
	res := db.Model(&models.PendingTransaction{}).
		Where("id = ? AND status = ?", id, string(entities.PendingStatusPending)).
		Updates(map[string]interface{}{
			"status":     string(newStatus),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return domainerrors.Persistence(res.Error)
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrInvalidStatusTransition
	}
	return nil
}
