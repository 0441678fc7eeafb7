package entities

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainerrors "wallet-kita.backend/internal/domain/errors"
)

// Wallet holds one owner's balance in one currency. Balance and
// ReservedBalance are never negative.
type Wallet struct {
	ID              uuid.UUID       `json:"id"`
	OwnerID         uuid.UUID       `json:"ownerId"`
	CurrencyID      int             `json:"currencyId"`
	Balance         decimal.Decimal `json:"balance"`
	ReservedBalance decimal.Decimal `json:"reservedBalance"`

	Currency *Currency `json:"currency,omitempty"`
}

// AdjustBalance applies delta to the spendable balance.
func (w *Wallet) AdjustBalance(delta decimal.Decimal) error {
	next := w.Balance.Add(delta)
	if next.IsNegative() {
		return domainerrors.ErrInsufficientFunds
	}
	w.Balance = next
	return nil
}

// AdjustReserved applies delta to the reserved balance.
func (w *Wallet) AdjustReserved(delta decimal.Decimal) error {
	next := w.ReservedBalance.Add(delta)
	if next.IsNegative() {
		return domainerrors.ErrInsufficientReservedFunds
	}
	w.ReservedBalance = next
	return nil
}

// AssertOwnedBy verifies the wallet belongs to the acting user.
func (w *Wallet) AssertOwnedBy(userID uuid.UUID) error {
	if w.OwnerID != userID {
		return domainerrors.ErrOwnershipMismatch
	}
	return nil
}

// ServiceWallet is an operator-owned wallet used to book commission and
// rail-side settlement legs.
type ServiceWallet struct {
	Wallet
	CommissionRate decimal.Decimal `json:"commissionRate"`
}

// ExternalWallet mirrors an external payment rail's balance on the
// operator side.
type ExternalWallet struct {
	Wallet
	CommissionRate decimal.Decimal `json:"commissionRate"`
}

// UserExternalWallet tracks a user's lifetime withdrawals to an external
// rail, for limit checks.
type UserExternalWallet struct {
	ID                  uuid.UUID       `json:"id"`
	OwnerID             uuid.UUID       `json:"ownerId"`
	CurrencyID          int             `json:"currencyId"`
	WalletName          string          `json:"walletName"`
	CumulativeWithdrawn decimal.Decimal `json:"cumulativeWithdrawn"`
}

// CreateWalletInput represents input for provisioning a wallet
type CreateWalletInput struct {
	CurrencySymbol string `json:"currency" binding:"required"`
}
