package usecases

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"wallet-kita.backend/internal/domain/entities"
	domainerrors "wallet-kita.backend/internal/domain/errors"
	"wallet-kita.backend/internal/domain/repositories"
	"wallet-kita.backend/pkg/logger"
	"wallet-kita.backend/pkg/metrics"
	"wallet-kita.backend/pkg/money"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// TransactionUsecase handles transfers, reservations and ledger history
type TransactionUsecase struct {
	walletRepo repositories.WalletRepository
	txRepo     repositories.TransactionRepository
	rateRepo   repositories.ExchangeRateRepository
	uow        repositories.UnitOfWork
}

// NewTransactionUsecase creates a new transaction usecase
func NewTransactionUsecase(
	walletRepo repositories.WalletRepository,
	txRepo repositories.TransactionRepository,
	rateRepo repositories.ExchangeRateRepository,
	uow repositories.UnitOfWork,
) *TransactionUsecase {
	return &TransactionUsecase{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		rateRepo:   rateRepo,
		uow:        uow,
	}
}

// Transfer moves amount from one wallet to another, converting currency
// when the wallets differ. Both wallets are locked in canonical order,
// balances and the ledger row commit in one transaction.
func (u *TransactionUsecase) Transfer(ctx context.Context, input *entities.TransferInput, actingUserID uuid.UUID) (*entities.Transaction, error) {
	if !input.Amount.IsPositive() {
		return nil, domainerrors.BadRequest("amount must be positive")
	}
	if input.FromWalletID == input.ToWalletID {
		return nil, domainerrors.BadRequest("cannot transfer to the same wallet")
	}

	var tx *entities.Transaction
	err := u.uow.Do(ctx, func(ctx context.Context) error {
		wallets, err := u.walletRepo.LockMany(ctx, input.FromWalletID, input.ToWalletID)
		if err != nil {
			return err
		}
		fromWallet, toWallet := wallets[input.FromWalletID], wallets[input.ToWalletID]

		if err := fromWallet.AssertOwnedBy(actingUserID); err != nil {
			return err
		}
		if fromWallet.Balance.LessThan(input.Amount) {
			return domainerrors.ErrInsufficientFunds
		}

		rate := decimal.NewFromInt(1)
		if fromWallet.CurrencyID != toWallet.CurrencyID {
			exchangeRate, err := u.rateRepo.GetRate(ctx, fromWallet.CurrencyID, toWallet.CurrencyID)
			if err != nil {
				return err
			}
			rate = exchangeRate.Rate
		}
		convertedAmount := money.Convert(input.Amount, rate)

		if err := fromWallet.AdjustBalance(input.Amount.Neg()); err != nil {
			return err
		}
		if err := toWallet.AdjustBalance(convertedAmount); err != nil {
			return err
		}
		if err := u.walletRepo.SaveBalances(ctx, fromWallet); err != nil {
			return err
		}
		if err := u.walletRepo.SaveBalances(ctx, toWallet); err != nil {
			return err
		}

		tx = &entities.Transaction{
			FromWalletID:    &fromWallet.ID,
			FromCurrencyID:  &fromWallet.CurrencyID,
			Amount:          input.Amount,
			ToWalletID:      &toWallet.ID,
			ToCurrencyID:    &toWallet.CurrencyID,
			Rate:            rate,
			ConvertedAmount: convertedAmount,
			Type:            entities.TransactionTypeTransfer,
			Status:          entities.TransactionStatusClosed,
			OwnerID:         actingUserID,
		}
		return u.txRepo.Create(ctx, tx)
	})
	if err != nil {
		metrics.TransfersTotal.WithLabelValues("failure").Inc()
		return nil, err
	}

	metrics.TransfersTotal.WithLabelValues("success").Inc()
	logger.Info(ctx, "transfer settled",
		zap.String("transaction_id", tx.ID.String()),
		zap.String("from_wallet", input.FromWalletID.String()),
		zap.String("to_wallet", input.ToWalletID.String()),
		zap.String("amount", input.Amount.String()),
		zap.String("converted_amount", tx.ConvertedAmount.String()),
	)
	return tx, nil
}

// Reserve moves amount from spendable balance into the reserved hold
func (u *TransactionUsecase) Reserve(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal, actingUserID uuid.UUID) (*entities.Transaction, error) {
	return u.moveHold(ctx, walletID, amount, actingUserID, entities.TransactionTypeReserve)
}

// Release moves amount from the reserved hold back into spendable balance
func (u *TransactionUsecase) Release(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal, actingUserID uuid.UUID) (*entities.Transaction, error) {
	return u.moveHold(ctx, walletID, amount, actingUserID, entities.TransactionTypeRelease)
}

func (u *TransactionUsecase) moveHold(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal, actingUserID uuid.UUID, txType entities.TransactionType) (*entities.Transaction, error) {
	if !amount.IsPositive() {
		return nil, domainerrors.BadRequest("amount must be positive")
	}

	var tx *entities.Transaction
	err := u.uow.Do(ctx, func(ctx context.Context) error {
		wallets, err := u.walletRepo.LockMany(ctx, walletID)
		if err != nil {
			return err
		}
		wallet := wallets[walletID]

		if err := wallet.AssertOwnedBy(actingUserID); err != nil {
			return err
		}

		switch txType {
		case entities.TransactionTypeReserve:
			if err := wallet.AdjustBalance(amount.Neg()); err != nil {
				return err
			}
			if err := wallet.AdjustReserved(amount); err != nil {
				return err
			}
		case entities.TransactionTypeRelease:
			if err := wallet.AdjustReserved(amount.Neg()); err != nil {
				return err
			}
			if err := wallet.AdjustBalance(amount); err != nil {
				return err
			}
		default:
			return domainerrors.ErrInvalidTransactionType
		}

		if err := u.walletRepo.SaveBalances(ctx, wallet); err != nil {
			return err
		}

		tx = &entities.Transaction{
			FromWalletID:    &wallet.ID,
			FromCurrencyID:  &wallet.CurrencyID,
			Amount:          amount,
			ToWalletID:      &wallet.ID,
			ToCurrencyID:    &wallet.CurrencyID,
			Rate:            decimal.NewFromInt(1),
			ConvertedAmount: amount,
			Type:            txType,
			Status:          entities.TransactionStatusClosed,
			OwnerID:         wallet.OwnerID,
		}
		return u.txRepo.Create(ctx, tx)
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// ListByOwner returns the acting user's ledger history, newest first
func (u *TransactionUsecase) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*entities.Transaction, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}
	return u.txRepo.GetByOwnerID(ctx, ownerID, limit, offset)
}

// ListByWallet returns one wallet's ledger history after an ownership check
func (u *TransactionUsecase) ListByWallet(ctx context.Context, walletID, actingUserID uuid.UUID) ([]*entities.Transaction, error) {
	wallet, err := u.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if err := wallet.AssertOwnedBy(actingUserID); err != nil {
		return nil, err
	}
	return u.txRepo.GetByWalletID(ctx, walletID, actingUserID)
}
