package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PendingTransaction struct {
	ID                    uuid.UUID       `gorm:"type:uuid;primaryKey"`
	FromWalletID          uuid.UUID       `gorm:"type:uuid;not null"`
	FromCurrencyID        int             `gorm:"not null"`
	Amount                decimal.Decimal `gorm:"type:numeric(20,10);not null"`
	ToWalletID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	ToCurrencyID          int             `gorm:"not null"`
	Rate                  decimal.Decimal `gorm:"type:numeric(20,10);not null"`
	ConvertedAmount       decimal.Decimal `gorm:"type:numeric(20,10);not null"`
	Type                  string          `gorm:"type:varchar(50);not null"`
	Status                string          `gorm:"type:varchar(50);not null;index"`
	Timestamp             time.Time       `gorm:"not null"`
	OwnerID               uuid.UUID       `gorm:"type:uuid;not null;index"`
	ExternalWalletID      uuid.UUID       `gorm:"type:uuid;not null"`
	ExternalTransactionID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	UpdatedAt             time.Time
}
