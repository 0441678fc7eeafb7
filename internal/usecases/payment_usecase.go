package usecases

import (
	"context"
	"errors"

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

// PaymentUsecase stages external deposits/withdrawals and settles them on
// operator confirmation. Every confirm branch runs as one atomic unit:
// the status transition commits together with every balance mutation, or
// none of it does.
type PaymentUsecase struct {
	walletRepo         repositories.WalletRepository
	serviceWalletRepo  repositories.ServiceWalletRepository
	externalWalletRepo repositories.ExternalWalletRepository
	userExternalRepo   repositories.UserExternalWalletRepository
	pendingRepo        repositories.PendingTransactionRepository
	txRepo             repositories.TransactionRepository
	serviceTxRepo      repositories.ServiceTransactionRepository
	serviceUserRepo    repositories.ServiceUserRepository
	uow                repositories.UnitOfWork
	rail               repositories.PaymentRail
	withdrawLimit      decimal.Decimal
}

// NewPaymentUsecase creates a new payment usecase
func NewPaymentUsecase(
	walletRepo repositories.WalletRepository,
	serviceWalletRepo repositories.ServiceWalletRepository,
	externalWalletRepo repositories.ExternalWalletRepository,
	userExternalRepo repositories.UserExternalWalletRepository,
	pendingRepo repositories.PendingTransactionRepository,
	txRepo repositories.TransactionRepository,
	serviceTxRepo repositories.ServiceTransactionRepository,
	serviceUserRepo repositories.ServiceUserRepository,
	uow repositories.UnitOfWork,
	rail repositories.PaymentRail,
	withdrawLimit decimal.Decimal,
) *PaymentUsecase {
	return &PaymentUsecase{
		walletRepo:         walletRepo,
		serviceWalletRepo:  serviceWalletRepo,
		externalWalletRepo: externalWalletRepo,
		userExternalRepo:   userExternalRepo,
		pendingRepo:        pendingRepo,
		txRepo:             txRepo,
		serviceTxRepo:      serviceTxRepo,
		serviceUserRepo:    serviceUserRepo,
		uow:                uow,
		rail:               rail,
		withdrawLimit:      withdrawLimit,
	}
}

// Deposit stages an external deposit. No balances move until an operator
// confirms; the rail token is the settlement idempotency key.
func (u *PaymentUsecase) Deposit(ctx context.Context, input *entities.DepositInput, actingUserID uuid.UUID) (*entities.PendingTransaction, error) {
	if !input.Amount.IsPositive() {
		return nil, domainerrors.BadRequest("amount must be positive")
	}

	wallet, err := u.walletRepo.GetByID(ctx, input.WalletID)
	if err != nil {
		return nil, err
	}
	if err := wallet.AssertOwnedBy(actingUserID); err != nil {
		return nil, err
	}

	// Both operator wallets must exist for the currency before anything
	// is staged, so a later confirm cannot fail on a missing wallet.
	if _, err := u.serviceWalletRepo.GetByOwnerAndCurrency(ctx, input.ServiceUserID, wallet.CurrencyID); err != nil {
		return nil, err
	}
	externalWallet, err := u.externalWalletRepo.GetByOwnerAndCurrency(ctx, input.ServiceUserID, wallet.CurrencyID)
	if err != nil {
		return nil, err
	}

	token, err := u.rail.CreateTransactionToken(ctx)
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}

	pending := &entities.PendingTransaction{
		FromWalletID:          externalWallet.ID,
		FromCurrencyID:        externalWallet.CurrencyID,
		Amount:                input.Amount,
		ToWalletID:            wallet.ID,
		ToCurrencyID:          wallet.CurrencyID,
		Rate:                  decimal.NewFromInt(1),
		ConvertedAmount:       input.Amount,
		Type:                  entities.TransactionTypeDeposit,
		Status:                entities.PendingStatusPending,
		OwnerID:               actingUserID,
		ExternalWalletID:      externalWallet.ID,
		ExternalTransactionID: token,
	}
	if err := u.pendingRepo.Create(ctx, pending); err != nil {
		return nil, err
	}

	metrics.PendingCreatedTotal.WithLabelValues(string(entities.TransactionTypeDeposit)).Inc()
	logger.Info(ctx, "pending deposit staged",
		zap.String("pending_id", pending.ID.String()),
		zap.String("wallet_id", wallet.ID.String()),
		zap.String("amount", input.Amount.String()),
	)
	return pending, nil
}

// Withdraw stages an external withdrawal. The amount is reserved on the
// user wallet immediately so it cannot be double-spent while the
// settlement is pending.
func (u *PaymentUsecase) Withdraw(ctx context.Context, input *entities.WithdrawInput, actingUserID uuid.UUID) (*entities.PendingTransaction, error) {
	if !input.Amount.IsPositive() {
		return nil, domainerrors.BadRequest("amount must be positive")
	}

	var pending *entities.PendingTransaction
	err := u.uow.Do(ctx, func(ctx context.Context) error {
		wallets, err := u.walletRepo.LockMany(ctx, input.WalletID)
		if err != nil {
			return err
		}
		wallet := wallets[input.WalletID]

		if err := wallet.AssertOwnedBy(actingUserID); err != nil {
			return err
		}
		if wallet.Balance.LessThan(input.Amount) {
			return domainerrors.ErrInsufficientFunds
		}

		userExternal, err := u.userExternalRepo.GetByOwnerAndCurrency(ctx, actingUserID, wallet.CurrencyID)
		if err != nil {
			return err
		}
		if userExternal.CumulativeWithdrawn.Add(input.Amount).GreaterThan(u.withdrawLimit) {
			return domainerrors.BadRequest("withdrawal limit exceeded")
		}

		externalWallet, err := u.externalWalletRepo.GetByOwnerAndCurrency(ctx, input.ServiceUserID, wallet.CurrencyID)
		if err != nil {
			return err
		}
		if !externalWallet.Balance.GreaterThan(input.Amount) {
			return domainerrors.ErrInsufficientExternalLiquidity
		}

		// Hold the funds until the operator's verdict.
		if err := wallet.AdjustBalance(input.Amount.Neg()); err != nil {
			return err
		}
		if err := wallet.AdjustReserved(input.Amount); err != nil {
			return err
		}
		if err := u.walletRepo.SaveBalances(ctx, wallet); err != nil {
			return err
		}
		reserveTx := &entities.Transaction{
			FromWalletID:    &wallet.ID,
			FromCurrencyID:  &wallet.CurrencyID,
			Amount:          input.Amount,
			ToWalletID:      &wallet.ID,
			ToCurrencyID:    &wallet.CurrencyID,
			Rate:            decimal.NewFromInt(1),
			ConvertedAmount: input.Amount,
			Type:            entities.TransactionTypeReserve,
			Status:          entities.TransactionStatusClosed,
			OwnerID:         actingUserID,
		}
		if err := u.txRepo.Create(ctx, reserveTx); err != nil {
			return err
		}

		token, err := u.rail.CreateTransactionToken(ctx)
		if err != nil {
			return domainerrors.InternalError(err)
		}

		pending = &entities.PendingTransaction{
			FromWalletID:          wallet.ID,
			FromCurrencyID:        wallet.CurrencyID,
			Amount:                input.Amount,
			ToWalletID:            externalWallet.ID,
			ToCurrencyID:          externalWallet.CurrencyID,
			Rate:                  decimal.NewFromInt(1),
			ConvertedAmount:       input.Amount,
			Type:                  entities.TransactionTypeWithdraw,
			Status:                entities.PendingStatusPending,
			OwnerID:               actingUserID,
			ExternalWalletID:      externalWallet.ID,
			ExternalTransactionID: token,
		}
		return u.pendingRepo.Create(ctx, pending)
	})
	if err != nil {
		return nil, err
	}

	metrics.PendingCreatedTotal.WithLabelValues(string(entities.TransactionTypeWithdraw)).Inc()
	logger.Info(ctx, "pending withdrawal staged",
		zap.String("pending_id", pending.ID.String()),
		zap.String("wallet_id", input.WalletID.String()),
		zap.String("amount", input.Amount.String()),
	)
	return pending, nil
}

// ConfirmDeposit resolves a pending deposit with the operator's verdict.
// On paid it books the rail leg, the user credit and the commission split
// in one transaction. Returns the settled transfer transaction, nil when
// rejected.
func (u *PaymentUsecase) ConfirmDeposit(ctx context.Context, pendingID uuid.UUID, input *entities.ConfirmInput) (*entities.Transaction, error) {
	if err := u.authorizeOperator(ctx, input.ServiceUserID); err != nil {
		return nil, err
	}
	if !input.NewStatus.Terminal() {
		return nil, domainerrors.ErrInvalidStatusTransition
	}

	var settled *entities.Transaction
	err := u.uow.Do(ctx, func(ctx context.Context) error {
		pending, err := u.pendingRepo.LockByID(ctx, pendingID)
		if err != nil {
			return err
		}
		if pending.Status != entities.PendingStatusPending {
			return domainerrors.ErrInvalidStatusTransition
		}
		if pending.Type != entities.TransactionTypeDeposit {
			return domainerrors.ErrInvalidTransactionType
		}

		if input.NewStatus == entities.PendingStatusRejected {
			// Nothing moved at staging time, only the state changes.
			return u.pendingRepo.CloseOut(ctx, pendingID, entities.PendingStatusRejected)
		}

		wallets, err := u.walletRepo.LockMany(ctx, pending.ToWalletID)
		if err != nil {
			return err
		}
		userWallet := wallets[pending.ToWalletID]

		serviceWallet, err := u.lockServiceWallet(ctx, input.ServiceUserID, pending.ToCurrencyID)
		if err != nil {
			return err
		}
		externalWallet, err := u.externalWalletRepo.LockByID(ctx, pending.ExternalWalletID)
		if err != nil {
			return err
		}

		// Rail received the gross amount; mirror it on the operator side.
		if err := externalWallet.AdjustBalance(pending.Amount); err != nil {
			return err
		}
		if err := serviceWallet.AdjustBalance(pending.ConvertedAmount); err != nil {
			return err
		}
		railLeg := &entities.ServiceTransaction{
			FromWalletID:    &externalWallet.ID,
			FromCurrencyID:  &externalWallet.CurrencyID,
			Amount:          pending.Amount,
			ToWalletID:      &serviceWallet.ID,
			ToCurrencyID:    &serviceWallet.CurrencyID,
			Rate:            pending.Rate,
			ConvertedAmount: pending.ConvertedAmount,
			Type:            entities.TransactionTypeDeposit,
			Status:          entities.TransactionStatusClosed,
			OwnerID:         input.ServiceUserID,
		}
		if err := u.serviceTxRepo.Create(ctx, railLeg); err != nil {
			return err
		}

		// Pass the converted amount through to the user.
		if err := serviceWallet.AdjustBalance(pending.ConvertedAmount.Neg()); err != nil {
			return err
		}
		if err := userWallet.AdjustBalance(pending.ConvertedAmount); err != nil {
			return err
		}
		settled = &entities.Transaction{
			FromWalletID:    &serviceWallet.ID,
			FromCurrencyID:  &serviceWallet.CurrencyID,
			Amount:          pending.Amount,
			ToWalletID:      &userWallet.ID,
			ToCurrencyID:    &userWallet.CurrencyID,
			Rate:            pending.Rate,
			ConvertedAmount: pending.ConvertedAmount,
			Type:            entities.TransactionTypeTransfer,
			Status:          entities.TransactionStatusClosed,
			OwnerID:         pending.OwnerID,
		}
		if err := u.txRepo.Create(ctx, settled); err != nil {
			return err
		}

		// Commission is borne by the user side and booked to the
		// operator's service wallet.
		commission := money.Commission(pending.ConvertedAmount, serviceWallet.CommissionRate)
		if commission.IsPositive() {
			if err := userWallet.AdjustBalance(commission.Neg()); err != nil {
				return err
			}
			if err := serviceWallet.AdjustBalance(commission); err != nil {
				return err
			}
			commissionTx := &entities.Transaction{
				FromWalletID:    &userWallet.ID,
				FromCurrencyID:  &userWallet.CurrencyID,
				Amount:          commission,
				ToWalletID:      &serviceWallet.ID,
				ToCurrencyID:    &serviceWallet.CurrencyID,
				Rate:            decimal.NewFromInt(1),
				ConvertedAmount: commission,
				Type:            entities.TransactionTypeCommission,
				Status:          entities.TransactionStatusClosed,
				OwnerID:         pending.OwnerID,
			}
			if err := u.txRepo.Create(ctx, commissionTx); err != nil {
				return err
			}
		}

		if err := u.walletRepo.SaveBalances(ctx, userWallet); err != nil {
			return err
		}
		if err := u.serviceWalletRepo.SaveBalances(ctx, serviceWallet); err != nil {
			return err
		}
		if err := u.externalWalletRepo.SaveBalances(ctx, externalWallet); err != nil {
			return err
		}
		return u.pendingRepo.CloseOut(ctx, pendingID, entities.PendingStatusPaid)
	})
	if err != nil {
		return nil, err
	}

	metrics.SettlementsTotal.WithLabelValues(string(entities.TransactionTypeDeposit), string(input.NewStatus)).Inc()
	logger.Info(ctx, "pending deposit resolved",
		zap.String("pending_id", pendingID.String()),
		zap.String("status", string(input.NewStatus)),
	)
	return settled, nil
}

// ConfirmWithdraw resolves a pending withdrawal with the operator's
// verdict. On paid the reserved hold is consumed, the net amount leaves
// through the external wallet and the commission stays with the
// operator. On rejected the hold is released back in full.
func (u *PaymentUsecase) ConfirmWithdraw(ctx context.Context, pendingID uuid.UUID, input *entities.ConfirmInput) (*entities.Transaction, error) {
	if err := u.authorizeOperator(ctx, input.ServiceUserID); err != nil {
		return nil, err
	}
	if !input.NewStatus.Terminal() {
		return nil, domainerrors.ErrInvalidStatusTransition
	}

	var settled *entities.Transaction
	err := u.uow.Do(ctx, func(ctx context.Context) error {
		pending, err := u.pendingRepo.LockByID(ctx, pendingID)
		if err != nil {
			return err
		}
		if pending.Status != entities.PendingStatusPending {
			return domainerrors.ErrInvalidStatusTransition
		}
		if pending.Type != entities.TransactionTypeWithdraw {
			return domainerrors.ErrInvalidTransactionType
		}

		wallets, err := u.walletRepo.LockMany(ctx, pending.FromWalletID)
		if err != nil {
			return err
		}
		userWallet := wallets[pending.FromWalletID]

		if input.NewStatus == entities.PendingStatusRejected {
			// Undo the hold in full, no ledger row beyond the state change.
			if err := userWallet.AdjustReserved(pending.ConvertedAmount.Neg()); err != nil {
				return err
			}
			if err := userWallet.AdjustBalance(pending.ConvertedAmount); err != nil {
				return err
			}
			if err := u.walletRepo.SaveBalances(ctx, userWallet); err != nil {
				return err
			}
			return u.pendingRepo.CloseOut(ctx, pendingID, entities.PendingStatusRejected)
		}

		serviceWallet, err := u.lockServiceWallet(ctx, input.ServiceUserID, pending.FromCurrencyID)
		if err != nil {
			return err
		}
		externalWallet, err := u.externalWalletRepo.LockByID(ctx, pending.ExternalWalletID)
		if err != nil {
			return err
		}

		commission := money.Commission(pending.ConvertedAmount, externalWallet.CommissionRate)
		netAmount := pending.ConvertedAmount.Sub(commission)

		if err := serviceWallet.AdjustBalance(commission); err != nil {
			return err
		}

		userExternal, err := u.userExternalRepo.GetByOwnerAndCurrency(ctx, pending.OwnerID, pending.FromCurrencyID)
		if err != nil {
			return err
		}
		if err := u.userExternalRepo.AddWithdrawn(ctx, userExternal.ID, netAmount); err != nil {
			return err
		}

		// Consume the hold: reserved drops by the full converted amount,
		// nothing returns to the spendable balance.
		if err := userWallet.AdjustReserved(pending.ConvertedAmount.Neg()); err != nil {
			return err
		}
		if err := externalWallet.AdjustBalance(netAmount.Neg()); err != nil {
			if errors.Is(err, domainerrors.ErrInsufficientFunds) {
				return domainerrors.ErrInsufficientExternalLiquidity
			}
			return err
		}

		settled = &entities.Transaction{
			FromWalletID:    &userWallet.ID,
			FromCurrencyID:  &userWallet.CurrencyID,
			Amount:          netAmount,
			ToWalletID:      &externalWallet.ID,
			ToCurrencyID:    &externalWallet.CurrencyID,
			Rate:            pending.Rate,
			ConvertedAmount: netAmount,
			Type:            entities.TransactionTypeWithdraw,
			Status:          entities.TransactionStatusClosed,
			OwnerID:         pending.OwnerID,
		}
		if err := u.txRepo.Create(ctx, settled); err != nil {
			return err
		}
		if commission.IsPositive() {
			commissionTx := &entities.Transaction{
				FromWalletID:    &userWallet.ID,
				FromCurrencyID:  &userWallet.CurrencyID,
				Amount:          commission,
				ToWalletID:      &serviceWallet.ID,
				ToCurrencyID:    &serviceWallet.CurrencyID,
				Rate:            decimal.NewFromInt(1),
				ConvertedAmount: commission,
				Type:            entities.TransactionTypeCommission,
				Status:          entities.TransactionStatusClosed,
				OwnerID:         pending.OwnerID,
			}
			if err := u.txRepo.Create(ctx, commissionTx); err != nil {
				return err
			}
		}
		railLeg := &entities.ServiceTransaction{
			FromWalletID:    &serviceWallet.ID,
			FromCurrencyID:  &serviceWallet.CurrencyID,
			Amount:          netAmount,
			ToWalletID:      &externalWallet.ID,
			ToCurrencyID:    &externalWallet.CurrencyID,
			Rate:            pending.Rate,
			ConvertedAmount: netAmount,
			Type:            entities.TransactionTypeWithdraw,
			Status:          entities.TransactionStatusClosed,
			OwnerID:         input.ServiceUserID,
		}
		if err := u.serviceTxRepo.Create(ctx, railLeg); err != nil {
			return err
		}

		if err := u.walletRepo.SaveBalances(ctx, userWallet); err != nil {
			return err
		}
		if err := u.serviceWalletRepo.SaveBalances(ctx, serviceWallet); err != nil {
			return err
		}
		if err := u.externalWalletRepo.SaveBalances(ctx, externalWallet); err != nil {
			return err
		}
		return u.pendingRepo.CloseOut(ctx, pendingID, entities.PendingStatusPaid)
	})
	if err != nil {
		return nil, err
	}

	metrics.SettlementsTotal.WithLabelValues(string(entities.TransactionTypeWithdraw), string(input.NewStatus)).Inc()
	logger.Info(ctx, "pending withdrawal resolved",
		zap.String("pending_id", pendingID.String()),
		zap.String("status", string(input.NewStatus)),
	)
	return settled, nil
}

// GetPending fetches a pending transaction with an ownership check
func (u *PaymentUsecase) GetPending(ctx context.Context, pendingID, actingUserID uuid.UUID) (*entities.PendingTransaction, error) {
	pending, err := u.pendingRepo.GetByID(ctx, pendingID)
	if err != nil {
		return nil, err
	}
	if pending.OwnerID != actingUserID {
		return nil, domainerrors.ErrOwnershipMismatch
	}
	return pending, nil
}

func (u *PaymentUsecase) authorizeOperator(ctx context.Context, serviceUserID uuid.UUID) error {
	if _, err := u.serviceUserRepo.GetByID(ctx, serviceUserID); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.ErrUnauthorized
		}
		return err
	}
	return nil
}

func (u *PaymentUsecase) lockServiceWallet(ctx context.Context, serviceUserID uuid.UUID, currencyID int) (*entities.ServiceWallet, error) {
	serviceWallet, err := u.serviceWalletRepo.GetByOwnerAndCurrency(ctx, serviceUserID, currencyID)
	if err != nil {
		return nil, err
	}
	return u.serviceWalletRepo.LockByID(ctx, serviceWallet.ID)
}
