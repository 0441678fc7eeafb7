package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"wallet-kita.backend/internal/domain/entities"
)

// CurrencyRepository defines currency catalog operations
type CurrencyRepository interface {
	GetByID(ctx context.Context, id int) (*entities.Currency, error)
	GetBySymbol(ctx context.Context, symbol string) (*entities.Currency, error)
	List(ctx context.Context) ([]*entities.Currency, error)

	// Upsert is idempotent by symbol: it creates the currency if missing,
	// updates the name otherwise.
	Upsert(ctx context.Context, name, symbol string) (*entities.Currency, error)
}

// ExchangeRateRepository defines directed rate lookups and ingestion.
// Lookups are exact: no reciprocal fallback, no multi-hop path-finding.
type ExchangeRateRepository interface {
	GetRate(ctx context.Context, fromCurrencyID, toCurrencyID int) (*entities.ExchangeRate, error)
	GetRateBySymbols(ctx context.Context, fromSymbol, toSymbol string) (*entities.ExchangeRate, error)

	// Upsert is idempotent by (fromCurrencyID, toCurrencyID)
	Upsert(ctx context.Context, fromCurrencyID, toCurrencyID int, rate decimal.Decimal, updatedAt time.Time) error

	// LastUpdatedAt returns the most recent rate refresh time, if any
	LastUpdatedAt(ctx context.Context) (null.Time, error)
}
