package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Wallet struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	CurrencyID      int             `gorm:"not null;index"`
	Balance         decimal.Decimal `gorm:"type:numeric(20,10);not null"`
	ReservedBalance decimal.Decimal `gorm:"type:numeric(20,10);not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type ServiceWallet struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	CurrencyID      int             `gorm:"not null;index"`
	Balance         decimal.Decimal `gorm:"type:numeric(20,10);not null"`
	ReservedBalance decimal.Decimal `gorm:"type:numeric(20,10);not null"`
	CommissionRate  decimal.Decimal `gorm:"type:numeric(20,10);not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type ExternalWallet struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	CurrencyID      int             `gorm:"not null;index"`
	Balance         decimal.Decimal `gorm:"type:numeric(20,10);not null"`
	ReservedBalance decimal.Decimal `gorm:"type:numeric(20,10);not null"`
	CommissionRate  decimal.Decimal `gorm:"type:numeric(20,10);not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type UserExternalWallet struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID             uuid.UUID       `gorm:"type:uuid;not null;index"`
	CurrencyID          int             `gorm:"not null;index"`
	WalletName          string          `gorm:"type:varchar(255);not null"`
	CumulativeWithdrawn decimal.Decimal `gorm:"type:numeric(20,10);not null"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
