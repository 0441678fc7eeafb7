package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType classifies a settled money movement
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdraw   TransactionType = "withdraw"
	TransactionTypeTransfer   TransactionType = "transfer"
	TransactionTypeReserve    TransactionType = "reserve"
	TransactionTypeRelease    TransactionType = "release"
	TransactionTypeCommission TransactionType = "commission"
)

// TransactionStatus is the terminal status recorded on a ledger row
type TransactionStatus string

const (
	TransactionStatusClosed TransactionStatus = "closed"
)

// Transaction is an immutable ledger row. Rows are appended on settlement
// or transfer and never revisited.
type Transaction struct {
	ID              uuid.UUID         `json:"id"`
	FromWalletID    *uuid.UUID        `json:"fromWalletId,omitempty"`
	FromCurrencyID  *int              `json:"fromCurrencyId,omitempty"`
	Amount          decimal.Decimal   `json:"amount"`
	ToWalletID      *uuid.UUID        `json:"toWalletId,omitempty"`
	ToCurrencyID    *int              `json:"toCurrencyId,omitempty"`
	Rate            decimal.Decimal   `json:"rate"`
	ConvertedAmount decimal.Decimal   `json:"convertedAmount"`
	Type            TransactionType   `json:"type"`
	Status          TransactionStatus `json:"status"`
	Timestamp       time.Time         `json:"timestamp"`
	OwnerID         uuid.UUID         `json:"ownerId"`
}

// ServiceTransaction has the same shape as Transaction but records
// operator-internal movements (rail-side settlement legs).
type ServiceTransaction struct {
	ID              uuid.UUID         `json:"id"`
	FromWalletID    *uuid.UUID        `json:"fromWalletId,omitempty"`
	FromCurrencyID  *int              `json:"fromCurrencyId,omitempty"`
	Amount          decimal.Decimal   `json:"amount"`
	ToWalletID      *uuid.UUID        `json:"toWalletId,omitempty"`
	ToCurrencyID    *int              `json:"toCurrencyId,omitempty"`
	Rate            decimal.Decimal   `json:"rate"`
	ConvertedAmount decimal.Decimal   `json:"convertedAmount"`
	Type            TransactionType   `json:"type"`
	Status          TransactionStatus `json:"status"`
	Timestamp       time.Time         `json:"timestamp"`
	OwnerID         uuid.UUID         `json:"ownerId"`
}

// TransferInput represents input for a wallet-to-wallet transfer
type TransferInput struct {
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	FromWalletID uuid.UUID       `json:"fromWalletId" binding:"required"`
	ToWalletID   uuid.UUID       `json:"toWalletId" binding:"required"`
}
