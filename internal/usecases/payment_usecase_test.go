package usecases

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"wallet-kita.backend/internal/domain/entities"
	domainerrors "wallet-kita.backend/internal/domain/errors"
)

// paymentHarness seeds one user wallet plus the operator side wallets a
// settlement touches.
type paymentHarness struct {
	fx            *ledgerFixture
	userID        uuid.UUID
	serviceUserID uuid.UUID
	currencyID    int
	wallet        *entities.Wallet
}

func newPaymentHarness(t *testing.T, withdrawLimit, userBalance, serviceCommission, externalCommission string) *paymentHarness {
	t.Helper()
	fx := newLedgerFixture(t, decimal.RequireFromString(withdrawLimit))

	h := &paymentHarness{
		fx:            fx,
		userID:        uuid.New(),
		serviceUserID: fx.seedServiceUser(t),
	}
	h.currencyID = fx.seedCurrency(t, "USD")
	h.wallet = fx.seedWallet(t, h.userID, h.currencyID, userBalance)
	fx.seedServiceWallet(t, h.serviceUserID, h.currencyID, "0", serviceCommission)
	fx.seedExternalWallet(t, h.serviceUserID, h.currencyID, "1000", externalCommission)
	fx.seedUserExternalWallet(t, h.userID, h.currencyID)
	return h
}

func (h *paymentHarness) confirm(status entities.PendingTransactionStatus) *entities.ConfirmInput {
	return &entities.ConfirmInput{NewStatus: status, ServiceUserID: h.serviceUserID}
}

func TestPaymentUsecase_Deposit_Stages(t *testing.T) {
	h := newPaymentHarness(t, "100000", "50", "0.01", "0.02")
	ctx := context.Background()

	pending, err := h.fx.paymentUsecase.Deposit(ctx, &entities.DepositInput{
		WalletID:      h.wallet.ID,
		Amount:        decimal.NewFromInt(100),
		ServiceUserID: h.serviceUserID,
	}, h.userID)
	require.NoError(t, err)
	require.Equal(t, entities.PendingStatusPending, pending.Status)
	require.Equal(t, entities.TransactionTypeDeposit, pending.Type)
	require.NotEqual(t, uuid.Nil, pending.ExternalTransactionID)

	// Staging moves no funds.
	bal, reserved := h.fx.walletBalance(t, h.wallet.ID)
	requireDecimalEqual(t, "50", bal)
	requireDecimalEqual(t, "0", reserved)
}

func TestPaymentUsecase_ConfirmDeposit_Paid_CommissionSplit(t *testing.T) {
	h := newPaymentHarness(t, "100000", "0", "0.01", "0.02")
	ctx := context.Background()

	pending, err := h.fx.paymentUsecase.Deposit(ctx, &entities.DepositInput{
		WalletID:      h.wallet.ID,
		Amount:        decimal.NewFromInt(100),
		ServiceUserID: h.serviceUserID,
	}, h.userID)
	require.NoError(t, err)

	settled, err := h.fx.paymentUsecase.ConfirmDeposit(ctx, pending.ID, h.confirm(entities.PendingStatusPaid))
	require.NoError(t, err)
	require.NotNil(t, settled)
	requireDecimalEqual(t, "100", settled.ConvertedAmount)

	// 100 in, 1% commission: user keeps 99, the operator keeps 1 and the
	// rail side mirrors the gross amount.
	bal, _ := h.fx.walletBalance(t, h.wallet.ID)
	requireDecimalEqual(t, "99", bal)
	requireDecimalEqual(t, "1", h.fx.serviceWalletBalance(t, h.serviceUserID, h.currencyID))
	requireDecimalEqual(t, "1100", h.fx.externalWalletBalance(t, h.serviceUserID, h.currencyID))

	got, err := h.fx.pendingRepo.GetByID(ctx, pending.ID)
	require.NoError(t, err)
	require.Equal(t, entities.PendingStatusPaid, got.Status)

	// Transfer plus commission on the user ledger, one rail leg on the
	// operator ledger.
	txs, err := h.fx.txRepo.GetByOwnerID(ctx, h.userID, 10, 0)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	serviceTxs, err := h.fx.serviceTxRepo.GetByOwnerID(ctx, h.serviceUserID, 10, 0)
	require.NoError(t, err)
	require.Len(t, serviceTxs, 1)
	require.Equal(t, entities.TransactionTypeDeposit, serviceTxs[0].Type)
}

func TestPaymentUsecase_ConfirmDeposit_SecondConfirmFails(t *testing.T) {
	h := newPaymentHarness(t, "100000", "0", "0.01", "0.02")
	ctx := context.Background()

	pending, err := h.fx.paymentUsecase.Deposit(ctx, &entities.DepositInput{
		WalletID:      h.wallet.ID,
		Amount:        decimal.NewFromInt(100),
		ServiceUserID: h.serviceUserID,
	}, h.userID)
	require.NoError(t, err)

	_, err = h.fx.paymentUsecase.ConfirmDeposit(ctx, pending.ID, h.confirm(entities.PendingStatusPaid))
	require.NoError(t, err)

	for _, verdict := range []entities.PendingTransactionStatus{entities.PendingStatusPaid, entities.PendingStatusRejected} {
		_, err = h.fx.paymentUsecase.ConfirmDeposit(ctx, pending.ID, h.confirm(verdict))
		require.ErrorIs(t, err, domainerrors.ErrInvalidStatusTransition)
	}

	// The replays must not have moved anything again.
	bal, _ := h.fx.walletBalance(t, h.wallet.ID)
	requireDecimalEqual(t, "99", bal)
	requireDecimalEqual(t, "1", h.fx.serviceWalletBalance(t, h.serviceUserID, h.currencyID))
	requireDecimalEqual(t, "1100", h.fx.externalWalletBalance(t, h.serviceUserID, h.currencyID))
}

func TestPaymentUsecase_ConfirmDeposit_Rejected(t *testing.T) {
	h := newPaymentHarness(t, "100000", "25", "0.01", "0.02")
	ctx := context.Background()

	pending, err := h.fx.paymentUsecase.Deposit(ctx, &entities.DepositInput{
		WalletID:      h.wallet.ID,
		Amount:        decimal.NewFromInt(100),
		ServiceUserID: h.serviceUserID,
	}, h.userID)
	require.NoError(t, err)

	settled, err := h.fx.paymentUsecase.ConfirmDeposit(ctx, pending.ID, h.confirm(entities.PendingStatusRejected))
	require.NoError(t, err)
	require.Nil(t, settled)

	got, err := h.fx.pendingRepo.GetByID(ctx, pending.ID)
	require.NoError(t, err)
	require.Equal(t, entities.PendingStatusRejected, got.Status)

	bal, _ := h.fx.walletBalance(t, h.wallet.ID)
	requireDecimalEqual(t, "25", bal)
	requireDecimalEqual(t, "0", h.fx.serviceWalletBalance(t, h.serviceUserID, h.currencyID))
	requireDecimalEqual(t, "1000", h.fx.externalWalletBalance(t, h.serviceUserID, h.currencyID))

	txs, err := h.fx.txRepo.GetByOwnerID(ctx, h.userID, 10, 0)
	require.NoError(t, err)
	require.Empty(t, txs)
}

func TestPaymentUsecase_ConfirmDeposit_UnknownOperator(t *testing.T) {
	h := newPaymentHarness(t, "100000", "0", "0.01", "0.02")
	ctx := context.Background()

	pending, err := h.fx.paymentUsecase.Deposit(ctx, &entities.DepositInput{
		WalletID:      h.wallet.ID,
		Amount:        decimal.NewFromInt(100),
		ServiceUserID: h.serviceUserID,
	}, h.userID)
	require.NoError(t, err)

	_, err = h.fx.paymentUsecase.ConfirmDeposit(ctx, pending.ID, &entities.ConfirmInput{
		NewStatus:     entities.PendingStatusPaid,
		ServiceUserID: uuid.New(),
	})
	require.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestPaymentUsecase_ConfirmDeposit_NonTerminalVerdict(t *testing.T) {
	h := newPaymentHarness(t, "100000", "0", "0.01", "0.02")

	_, err := h.fx.paymentUsecase.ConfirmDeposit(context.Background(), uuid.New(), h.confirm(entities.PendingStatusPending))
	require.ErrorIs(t, err, domainerrors.ErrInvalidStatusTransition)
}

func TestPaymentUsecase_ConfirmDeposit_WrongType(t *testing.T) {
	h := newPaymentHarness(t, "100000", "100", "0.01", "0.02")
	ctx := context.Background()

	pending, err := h.fx.paymentUsecase.Withdraw(ctx, &entities.WithdrawInput{
		WalletID:      h.wallet.ID,
		Amount:        decimal.NewFromInt(40),
		ServiceUserID: h.serviceUserID,
	}, h.userID)
	require.NoError(t, err)

	_, err = h.fx.paymentUsecase.ConfirmDeposit(ctx, pending.ID, h.confirm(entities.PendingStatusPaid))
	require.ErrorIs(t, err, domainerrors.ErrInvalidTransactionType)
}

func TestPaymentUsecase_Withdraw_HoldsFunds(t *testing.T) {
	h := newPaymentHarness(t, "100000", "100", "0.01", "0.02")
	ctx := context.Background()

	pending, err := h.fx.paymentUsecase.Withdraw(ctx, &entities.WithdrawInput{
		WalletID:      h.wallet.ID,
		Amount:        decimal.NewFromInt(40),
		ServiceUserID: h.serviceUserID,
	}, h.userID)
	require.NoError(t, err)
	require.Equal(t, entities.TransactionTypeWithdraw, pending.Type)
	require.Equal(t, entities.PendingStatusPending, pending.Status)

	bal, reserved := h.fx.walletBalance(t, h.wallet.ID)
	requireDecimalEqual(t, "60", bal)
	requireDecimalEqual(t, "40", reserved)

	txs, err := h.fx.txRepo.GetByOwnerID(ctx, h.userID, 10, 0)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, entities.TransactionTypeReserve, txs[0].Type)
}

func TestPaymentUsecase_Withdraw_InsufficientFunds(t *testing.T) {
	h := newPaymentHarness(t, "100000", "10", "0.01", "0.02")

	_, err := h.fx.paymentUsecase.Withdraw(context.Background(), &entities.WithdrawInput{
		WalletID:      h.wallet.ID,
		Amount:        decimal.NewFromInt(11),
		ServiceUserID: h.serviceUserID,
	}, h.userID)
	require.ErrorIs(t, err, domainerrors.ErrInsufficientFunds)
}

func TestPaymentUsecase_Withdraw_LimitExceeded(t *testing.T) {
	h := newPaymentHarness(t, "50", "100", "0.01", "0.02")
	ctx := context.Background()

	_, err := h.fx.paymentUsecase.Withdraw(ctx, &entities.WithdrawInput{
		WalletID:      h.wallet.ID,
		Amount:        decimal.NewFromInt(51),
		ServiceUserID: h.serviceUserID,
	}, h.userID)
	require.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	// A failed limit check leaves no hold behind.
	bal, reserved := h.fx.walletBalance(t, h.wallet.ID)
	requireDecimalEqual(t, "100", bal)
	requireDecimalEqual(t, "0", reserved)
}

func TestPaymentUsecase_Withdraw_InsufficientExternalLiquidity(t *testing.T) {
	fx := newLedgerFixture(t, decimal.NewFromInt(100000))
	ctx := context.Background()

	userID := uuid.New()
	serviceUserID := fx.seedServiceUser(t)
	usd := fx.seedCurrency(t, "USD")
	wallet := fx.seedWallet(t, userID, usd, "100")
	fx.seedServiceWallet(t, serviceUserID, usd, "0", "0.01")
	fx.seedExternalWallet(t, serviceUserID, usd, "40", "0.02")
	fx.seedUserExternalWallet(t, userID, usd)

	_, err := fx.paymentUsecase.Withdraw(ctx, &entities.WithdrawInput{
		WalletID:      wallet.ID,
		Amount:        decimal.NewFromInt(40),
		ServiceUserID: serviceUserID,
	}, userID)
	require.ErrorIs(t, err, domainerrors.ErrInsufficientExternalLiquidity)

	bal, reserved := fx.walletBalance(t, wallet.ID)
	requireDecimalEqual(t, "100", bal)
	requireDecimalEqual(t, "0", reserved)
}

func TestPaymentUsecase_ConfirmWithdraw_Paid(t *testing.T) {
	h := newPaymentHarness(t, "100000", "100", "0.01", "0.02")
	ctx := context.Background()

	pending, err := h.fx.paymentUsecase.Withdraw(ctx, &entities.WithdrawInput{
		WalletID:      h.wallet.ID,
		Amount:        decimal.NewFromInt(40),
		ServiceUserID: h.serviceUserID,
	}, h.userID)
	require.NoError(t, err)

	settled, err := h.fx.paymentUsecase.ConfirmWithdraw(ctx, pending.ID, h.confirm(entities.PendingStatusPaid))
	require.NoError(t, err)
	require.NotNil(t, settled)

	// 40 held, 2% commission: 0.8 stays with the operator, 39.2 leaves
	// through the rail and counts against the withdrawal limit.
	requireDecimalEqual(t, "39.2", settled.Amount)

	bal, reserved := h.fx.walletBalance(t, h.wallet.ID)
	requireDecimalEqual(t, "60", bal)
	requireDecimalEqual(t, "0", reserved)
	requireDecimalEqual(t, "0.8", h.fx.serviceWalletBalance(t, h.serviceUserID, h.currencyID))
	requireDecimalEqual(t, "960.8", h.fx.externalWalletBalance(t, h.serviceUserID, h.currencyID))

	userExternal, err := h.fx.userExternalRepo.GetByOwnerAndCurrency(ctx, h.userID, h.currencyID)
	require.NoError(t, err)
	requireDecimalEqual(t, "39.2", userExternal.CumulativeWithdrawn)

	// Reserve at staging plus withdraw and commission at settlement.
	txs, err := h.fx.txRepo.GetByOwnerID(ctx, h.userID, 10, 0)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	serviceTxs, err := h.fx.serviceTxRepo.GetByOwnerID(ctx, h.serviceUserID, 10, 0)
	require.NoError(t, err)
	require.Len(t, serviceTxs, 1)
	require.Equal(t, entities.TransactionTypeWithdraw, serviceTxs[0].Type)
}

func TestPaymentUsecase_ConfirmWithdraw_Rejected_RestoresHold(t *testing.T) {
	h := newPaymentHarness(t, "100000", "100", "0.01", "0.02")
	ctx := context.Background()

	pending, err := h.fx.paymentUsecase.Withdraw(ctx, &entities.WithdrawInput{
		WalletID:      h.wallet.ID,
		Amount:        decimal.NewFromInt(40),
		ServiceUserID: h.serviceUserID,
	}, h.userID)
	require.NoError(t, err)

	settled, err := h.fx.paymentUsecase.ConfirmWithdraw(ctx, pending.ID, h.confirm(entities.PendingStatusRejected))
	require.NoError(t, err)
	require.Nil(t, settled)

	bal, reserved := h.fx.walletBalance(t, h.wallet.ID)
	requireDecimalEqual(t, "100", bal)
	requireDecimalEqual(t, "0", reserved)
	requireDecimalEqual(t, "1000", h.fx.externalWalletBalance(t, h.serviceUserID, h.currencyID))

	userExternal, err := h.fx.userExternalRepo.GetByOwnerAndCurrency(ctx, h.userID, h.currencyID)
	require.NoError(t, err)
	requireDecimalEqual(t, "0", userExternal.CumulativeWithdrawn)

	// Only the staging reserve row remains on the ledger.
	txs, err := h.fx.txRepo.GetByOwnerID(ctx, h.userID, 10, 0)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, entities.TransactionTypeReserve, txs[0].Type)
}

func TestPaymentUsecase_ConfirmWithdraw_WrongType(t *testing.T) {
	h := newPaymentHarness(t, "100000", "100", "0.01", "0.02")
	ctx := context.Background()

	pending, err := h.fx.paymentUsecase.Deposit(ctx, &entities.DepositInput{
		WalletID:      h.wallet.ID,
		Amount:        decimal.NewFromInt(100),
		ServiceUserID: h.serviceUserID,
	}, h.userID)
	require.NoError(t, err)

	_, err = h.fx.paymentUsecase.ConfirmWithdraw(ctx, pending.ID, h.confirm(entities.PendingStatusPaid))
	require.ErrorIs(t, err, domainerrors.ErrInvalidTransactionType)
}

func TestPaymentUsecase_GetPending_OwnershipCheck(t *testing.T) {
	h := newPaymentHarness(t, "100000", "100", "0.01", "0.02")
	ctx := context.Background()

	pending, err := h.fx.paymentUsecase.Deposit(ctx, &entities.DepositInput{
		WalletID:      h.wallet.ID,
		Amount:        decimal.NewFromInt(10),
		ServiceUserID: h.serviceUserID,
	}, h.userID)
	require.NoError(t, err)

	got, err := h.fx.paymentUsecase.GetPending(ctx, pending.ID, h.userID)
	require.NoError(t, err)
	require.Equal(t, pending.ID, got.ID)

	_, err = h.fx.paymentUsecase.GetPending(ctx, pending.ID, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrOwnershipMismatch)
}
