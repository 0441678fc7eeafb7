package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction rows are append-only. No UpdatedAt, no DeletedAt: the
// ledger is never mutated after insert.
type Transaction struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	FromWalletID    *uuid.UUID      `gorm:"type:uuid;index"`
	FromCurrencyID  *int
	Amount          decimal.Decimal `gorm:"type:numeric(20,10);not null"`
	ToWalletID      *uuid.UUID      `gorm:"type:uuid;index"`
	ToCurrencyID    *int
	Rate            decimal.Decimal `gorm:"type:numeric(20,10);not null"`
	ConvertedAmount decimal.Decimal `gorm:"type:numeric(20,10);not null"`
	Type            string          `gorm:"type:varchar(50);not null"`
	Status          string          `gorm:"type:varchar(50);not null"`
	Timestamp       time.Time       `gorm:"not null;index"`
	OwnerID         uuid.UUID       `gorm:"type:uuid;not null;index"`
}

type ServiceTransaction struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	FromWalletID    *uuid.UUID      `gorm:"type:uuid;index"`
	FromCurrencyID  *int
	Amount          decimal.Decimal `gorm:"type:numeric(20,10);not null"`
	ToWalletID      *uuid.UUID      `gorm:"type:uuid;index"`
	ToCurrencyID    *int
	Rate            decimal.Decimal `gorm:"type:numeric(20,10);not null"`
	ConvertedAmount decimal.Decimal `gorm:"type:numeric(20,10);not null"`
	Type            string          `gorm:"type:varchar(50);not null"`
	Status          string          `gorm:"type:varchar(50);not null"`
	Timestamp       time.Time       `gorm:"not null;index"`
	OwnerID         uuid.UUID       `gorm:"type:uuid;not null;index"`
}
