package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createWalletTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE wallets (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		currency_id INTEGER NOT NULL,
		balance NUMERIC NOT NULL,
		reserved_balance NUMERIC NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE service_wallets (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		currency_id INTEGER NOT NULL,
		balance NUMERIC NOT NULL,
		reserved_balance NUMERIC NOT NULL,
		commission_rate NUMERIC NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE external_wallets (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		currency_id INTEGER NOT NULL,
		balance NUMERIC NOT NULL,
		reserved_balance NUMERIC NOT NULL,
		commission_rate NUMERIC NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE user_external_wallets (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		currency_id INTEGER NOT NULL,
		wallet_name TEXT NOT NULL,
		cumulative_withdrawn NUMERIC NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createCurrencyTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE currencies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		symbol TEXT NOT NULL UNIQUE
	);`)
	mustExec(t, db, `CREATE TABLE exchange_rates (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		from_currency_id INTEGER NOT NULL,
		to_currency_id INTEGER NOT NULL,
		rate NUMERIC NOT NULL,
		updated_at DATETIME,
		UNIQUE(from_currency_id, to_currency_id)
	);`)
}

func createLedgerTables(t *testing.T, db *gorm.DB) {
	for _, table := range []string{"transactions", "service_transactions"} {
		mustExec(t, db, fmt.Sprintf(`CREATE TABLE %s (
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
}

func createPendingTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE pending_transactions (
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
}

func createUserTables(t *testing.T, db *gorm.DB) {
	for _, table := range []string{"users", "service_users"} {
		mustExec(t, db, fmt.Sprintf(`CREATE TABLE %s (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at DATETIME,
			updated_at DATETIME
		);`, table))
	}
}
