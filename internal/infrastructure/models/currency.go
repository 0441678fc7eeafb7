package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Currency struct {
	ID     int    `gorm:"primaryKey;autoIncrement"`
	Name   string `gorm:"type:varchar(255);not null"`
	Symbol string `gorm:"type:varchar(16);not null;uniqueIndex"`
}

type ExchangeRate struct {
	ID             int             `gorm:"primaryKey;autoIncrement"`
	FromCurrencyID int             `gorm:"not null;index:idx_rate_pair,unique"`
	ToCurrencyID   int             `gorm:"not null;index:idx_rate_pair,unique"`
	Rate           decimal.Decimal `gorm:"type:numeric(20,10);not null"`
	UpdatedAt      *time.Time
}
