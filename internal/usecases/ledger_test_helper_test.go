package usecases

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"wallet-kita.backend/internal/domain/entities"
	"wallet-kita.backend/internal/domain/repositories"
	infrarepos "wallet-kita.backend/internal/infrastructure/repositories"
)

// tokenRail is an in-memory stand-in for the external payment rail
type tokenRail struct{}

func (tokenRail) CreateTransactionToken(ctx context.Context) (uuid.UUID, error) {
	return uuid.New(), nil
}

type ledgerFixture struct {
	db *gorm.DB

	walletRepo         *infrarepos.WalletRepository
	serviceWalletRepo  *infrarepos.ServiceWalletRepository
	externalWalletRepo *infrarepos.ExternalWalletRepository
	userExternalRepo   *infrarepos.UserExternalWalletRepository
	currencyRepo       *infrarepos.CurrencyRepository
	rateRepo           *infrarepos.ExchangeRateRepository
	txRepo             *infrarepos.TransactionRepository
	serviceTxRepo      *infrarepos.ServiceTransactionRepository
	pendingRepo        *infrarepos.PendingTransactionRepository
	uow                repositories.UnitOfWork

	txUsecase       *TransactionUsecase
	exchangeUsecase *ExchangeUsecase
	paymentUsecase  *PaymentUsecase
	walletUsecase   *WalletUsecase
}

func newLedgerFixture(t *testing.T, withdrawLimit decimal.Decimal) *ledgerFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	createLedgerSchema(t, db)

	fx := &ledgerFixture{
		db:                 db,
		walletRepo:         infrarepos.NewWalletRepository(db),
		serviceWalletRepo:  infrarepos.NewServiceWalletRepository(db),
		externalWalletRepo: infrarepos.NewExternalWalletRepository(db),
		userExternalRepo:   infrarepos.NewUserExternalWalletRepository(db),
		currencyRepo:       infrarepos.NewCurrencyRepository(db),
		rateRepo:           infrarepos.NewExchangeRateRepository(db),
		txRepo:             infrarepos.NewTransactionRepository(db),
		serviceTxRepo:      infrarepos.NewServiceTransactionRepository(db),
		pendingRepo:        infrarepos.NewPendingTransactionRepository(db),
		uow:                infrarepos.NewUnitOfWork(db),
	}

	fx.txUsecase = NewTransactionUsecase(fx.walletRepo, fx.txRepo, fx.rateRepo, fx.uow)
	fx.exchangeUsecase = NewExchangeUsecase(fx.currencyRepo, fx.rateRepo, fx.uow)
	fx.walletUsecase = NewWalletUsecase(fx.walletRepo, fx.currencyRepo, fx.uow)
	fx.paymentUsecase = NewPaymentUsecase(
		fx.walletRepo, fx.serviceWalletRepo, fx.externalWalletRepo, fx.userExternalRepo,
		fx.pendingRepo, fx.txRepo, fx.serviceTxRepo, infrarepos.NewServiceUserRepository(db),
		fx.uow, tokenRail{}, withdrawLimit,
	)
	return fx
}

func createLedgerSchema(t *testing.T, db *gorm.DB) {
	t.Helper()
	exec := func(q string) {
		require.NoError(t, db.Exec(q).Error, "exec failed: query=%s", q)
	}

	exec(`CREATE TABLE wallets (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		currency_id INTEGER NOT NULL,
		balance NUMERIC NOT NULL,
		reserved_balance NUMERIC NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	for _, table := range []string{"service_wallets", "external_wallets"} {
		exec(fmt.Sprintf(`CREATE TABLE %s (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			currency_id INTEGER NOT NULL,
			balance NUMERIC NOT NULL,
			reserved_balance NUMERIC NOT NULL,
			commission_rate NUMERIC NOT NULL,
			created_at DATETIME,
			updated_at DATETIME
		);`, table))
	}
	exec(`CREATE TABLE user_external_wallets (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		currency_id INTEGER NOT NULL,
		wallet_name TEXT NOT NULL,
		cumulative_withdrawn NUMERIC NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	exec(`CREATE TABLE currencies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		symbol TEXT NOT NULL UNIQUE
	);`)
	exec(`CREATE TABLE exchange_rates (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		from_currency_id INTEGER NOT NULL,
		to_currency_id INTEGER NOT NULL,
		rate NUMERIC NOT NULL,
		updated_at DATETIME,
		UNIQUE(from_currency_id, to_currency_id)
	);`)
	for _, table := range []string{"transactions", "service_transactions"} {
		exec(fmt.Sprintf(`CREATE TABLE %s (
			id TEXT PRIMARY KEY,
			from_wallet_id TEXT,
			from_currency_id INTEGER,
			amount NUMERIC NOT NULL,
			to_wallet_id TEXT,
			to_currency_id INTEGER,
			rate NUMERIC NOT NULL,
			converted_amount NUMERIC NOT NULL,
			type TEXT NOT NULL,
			status TEXT NOT NULL,
			timestamp DATETIME NOT NULL,
			owner_id TEXT NOT NULL
		);`, table))
	}
	exec(`CREATE TABLE pending_transactions (
		id TEXT PRIMARY KEY,
		from_wallet_id TEXT NOT NULL,
		from_currency_id INTEGER NOT NULL,
		amount NUMERIC NOT NULL,
		to_wallet_id TEXT NOT NULL,
		to_currency_id INTEGER NOT NULL,
		rate NUMERIC NOT NULL,
		converted_amount NUMERIC NOT NULL,
		type TEXT NOT NULL,
		status TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		owner_id TEXT NOT NULL,
		external_wallet_id TEXT NOT NULL,
		external_transaction_id TEXT NOT NULL UNIQUE,
		updated_at DATETIME
	);`)
	for _, table := range []string{"users", "service_users"} {
		exec(fmt.Sprintf(`CREATE TABLE %s (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at DATETIME,
			updated_at DATETIME
		);`, table))
	}
}

func (fx *ledgerFixture) seedCurrency(t *testing.T, symbol string) int {
	t.Helper()
	c, err := fx.currencyRepo.Upsert(context.Background(), symbol, symbol)
	require.NoError(t, err)
	return c.ID
}

func (fx *ledgerFixture) seedRate(t *testing.T, fromID, toID int, rate string) {
	t.Helper()
	require.NoError(t, fx.rateRepo.Upsert(context.Background(), fromID, toID, decimal.RequireFromString(rate), time.Now()))
}

func (fx *ledgerFixture) seedWallet(t *testing.T, ownerID uuid.UUID, currencyID int, balance string) *entities.Wallet {
	t.Helper()
	w := &entities.Wallet{
		OwnerID:         ownerID,
		CurrencyID:      currencyID,
		Balance:         decimal.RequireFromString(balance),
		ReservedBalance: decimal.Zero,
	}
	require.NoError(t, fx.walletRepo.Create(context.Background(), w))
	return w
}

func (fx *ledgerFixture) seedServiceUser(t *testing.T) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, fx.db.Exec(
		`INSERT INTO service_users (id, username, email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		id.String(), "operator-"+id.String()[:8], id.String()[:8]+"@op.example", "x",
	).Error)
	return id
}

func (fx *ledgerFixture) seedServiceWallet(t *testing.T, serviceUserID uuid.UUID, currencyID int, balance, commissionRate string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, fx.db.Exec(
		`INSERT INTO service_wallets (id, owner_id, currency_id, balance, reserved_balance, commission_rate, created_at, updated_at)
		 VALUES (?, ?, ?, ?, 0, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		id.String(), serviceUserID.String(), currencyID, balance, commissionRate,
	).Error)
	return id
}

func (fx *ledgerFixture) seedExternalWallet(t *testing.T, serviceUserID uuid.UUID, currencyID int, balance, commissionRate string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, fx.db.Exec(
		`INSERT INTO external_wallets (id, owner_id, currency_id, balance, reserved_balance, commission_rate, created_at, updated_at)
		 VALUES (?, ?, ?, ?, 0, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		id.String(), serviceUserID.String(), currencyID, balance, commissionRate,
	).Error)
	return id
}

func (fx *ledgerFixture) seedUserExternalWallet(t *testing.T, ownerID uuid.UUID, currencyID int) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, fx.db.Exec(
		`INSERT INTO user_external_wallets (id, owner_id, currency_id, wallet_name, cumulative_withdrawn, created_at, updated_at)
		 VALUES (?, ?, ?, ?, 0, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		id.String(), ownerID.String(), currencyID, "rail-account",
	).Error)
	return id
}

func (fx *ledgerFixture) walletBalance(t *testing.T, id uuid.UUID) (decimal.Decimal, decimal.Decimal) {
	t.Helper()
	w, err := fx.walletRepo.GetByID(context.Background(), id)
	require.NoError(t, err)
	return w.Balance, w.ReservedBalance
}

func (fx *ledgerFixture) serviceWalletBalance(t *testing.T, serviceUserID uuid.UUID, currencyID int) decimal.Decimal {
	t.Helper()
	w, err := fx.serviceWalletRepo.GetByOwnerAndCurrency(context.Background(), serviceUserID, currencyID)
	require.NoError(t, err)
	return w.Balance
}

func (fx *ledgerFixture) externalWalletBalance(t *testing.T, serviceUserID uuid.UUID, currencyID int) decimal.Decimal {
	t.Helper()
	w, err := fx.externalWalletRepo.GetByOwnerAndCurrency(context.Background(), serviceUserID, currencyID)
	require.NoError(t, err)
	return w.Balance
}

func requireDecimalEqual(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, got.Equal(decimal.RequireFromString(want)), "want %s, got %s", want, got)
}
