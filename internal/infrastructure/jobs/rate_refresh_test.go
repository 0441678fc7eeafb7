package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"wallet-kita.backend/internal/infrastructure/repositories"
	"wallet-kita.backend/internal/usecases"
)

type stubFetcher struct {
	snap *usecases.RateSnapshot
	err  error

	calls atomic.Int32
}

func (f *stubFetcher) FetchLatest(ctx context.Context, base string) (*usecases.RateSnapshot, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.snap, nil
}

func newExchangeUsecase(t *testing.T) *usecases.ExchangeUsecase {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE currencies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		symbol TEXT NOT NULL UNIQUE
	);`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE exchange_rates (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		from_currency_id INTEGER NOT NULL,
		to_currency_id INTEGER NOT NULL,
		rate NUMERIC NOT NULL,
		updated_at DATETIME,
		UNIQUE(from_currency_id, to_currency_id)
	);`).Error)

	return usecases.NewExchangeUsecase(
		repositories.NewCurrencyRepository(db),
		repositories.NewExchangeRateRepository(db),
		repositories.NewUnitOfWork(db),
	)
}

func TestRateRefreshJob_AppliesSnapshotOnStartup(t *testing.T) {
	exchange := newExchangeUsecase(t)
	fetcher := &stubFetcher{
		snap: &usecases.RateSnapshot{
			Base: "USD",
			Rates: map[string]decimal.Decimal{
				"EUR": decimal.RequireFromString("0.91"),
			},
			FetchedAt: time.Now(),
		},
	}

	job := NewRateRefreshJob(fetcher, exchange, []string{"USD"}, time.Hour)

	done := make(chan struct{})
	go func() {
		job.Start(context.Background())
		close(done)
	}()

	require.Eventually(t, func() bool { return fetcher.calls.Load() >= 1 }, time.Second, 10*time.Millisecond)
	job.Stop()
	<-done

	currencies, err := exchange.ListCurrencies(context.Background())
	require.NoError(t, err)
	require.Len(t, currencies, 2)
}

func TestRateRefreshJob_KeepsRunningOnFetchError(t *testing.T) {
	exchange := newExchangeUsecase(t)
	fetcher := &stubFetcher{err: errors.New("feed down")}

	job := NewRateRefreshJob(fetcher, exchange, []string{"USD", "EUR"}, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()

	// Both bases are attempted even though every fetch fails.
	require.Eventually(t, func() bool { return fetcher.calls.Load() >= 2 }, time.Second, 10*time.Millisecond)
	cancel()
	<-done

	currencies, err := exchange.ListCurrencies(context.Background())
	require.NoError(t, err)
	require.Empty(t, currencies)
}
