package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PendingTransactionStatus is the state of a staged settlement.
// pending -> paid and pending -> rejected are the only valid transitions,
// each taken at most once.
type PendingTransactionStatus string

const (
	PendingStatusPending  PendingTransactionStatus = "pending"
	PendingStatusPaid     PendingTransactionStatus = "paid"
	PendingStatusRejected PendingTransactionStatus = "rejected"
)

// Terminal reports whether the status admits no further transition
func (s PendingTransactionStatus) Terminal() bool {
	return s == PendingStatusPaid || s == PendingStatusRejected
}

// PendingTransaction stages an externally-initiated deposit or withdrawal
// until a trusted operator confirms it. ExternalTransactionID is the
// idempotency key: at most one settlement per pending transaction.
type PendingTransaction struct {
	ID                    uuid.UUID                `json:"id"`
	FromWalletID          uuid.UUID                `json:"fromWalletId"`
	FromCurrencyID        int                      `json:"fromCurrencyId"`
	Amount                decimal.Decimal          `json:"amount"`
	ToWalletID            uuid.UUID                `json:"toWalletId"`
	ToCurrencyID          int                      `json:"toCurrencyId"`
	Rate                  decimal.Decimal          `json:"rate"`
	ConvertedAmount       decimal.Decimal          `json:"convertedAmount"`
	Type                  TransactionType          `json:"type"`
	Status                PendingTransactionStatus `json:"status"`
	Timestamp             time.Time                `json:"timestamp"`
	OwnerID               uuid.UUID                `json:"ownerId"`
	ExternalWalletID      uuid.UUID                `json:"externalWalletId"`
	ExternalTransactionID uuid.UUID                `json:"externalTransactionId"`
}

// DepositInput represents input for staging a deposit
type DepositInput struct {
	WalletID      uuid.UUID       `json:"walletId" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	ServiceUserID uuid.UUID       `json:"serviceUserId" binding:"required"`
}

// WithdrawInput represents input for staging a withdrawal
type WithdrawInput struct {
	WalletID      uuid.UUID       `json:"walletId" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	ServiceUserID uuid.UUID       `json:"serviceUserId" binding:"required"`
}

// ConfirmInput represents an operator's confirmation verdict
type ConfirmInput struct {
	NewStatus     PendingTransactionStatus `json:"newStatus" binding:"required"`
	ServiceUserID uuid.UUID                `json:"serviceUserId" binding:"required"`
}
