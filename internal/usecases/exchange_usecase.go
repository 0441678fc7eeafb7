package usecases

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"wallet-kita.backend/internal/domain/entities"
	domainerrors "wallet-kita.backend/internal/domain/errors"
	"wallet-kita.backend/internal/domain/repositories"
	"wallet-kita.backend/pkg/logger"
	"wallet-kita.backend/pkg/money"
)

// RateSnapshot is one fetch of the external rate feed: directed rates
// from a base currency to each quoted symbol.
type RateSnapshot struct {
	Base      string
	Rates     map[string]decimal.Decimal
	FetchedAt time.Time
}

// ExchangeUsecase handles conversion previews and rate catalog ingestion
type ExchangeUsecase struct {
	currencyRepo repositories.CurrencyRepository
	rateRepo     repositories.ExchangeRateRepository
	uow          repositories.UnitOfWork
}

// NewExchangeUsecase creates a new exchange usecase
func NewExchangeUsecase(
	currencyRepo repositories.CurrencyRepository,
	rateRepo repositories.ExchangeRateRepository,
	uow repositories.UnitOfWork,
) *ExchangeUsecase {
	return &ExchangeUsecase{
		currencyRepo: currencyRepo,
		rateRepo:     rateRepo,
		uow:          uow,
	}
}

// PreviewConversion is a dry-run conversion: it reads the directed rate
// and truncates the product, moving no money. The lookup is exact, there
// is no reciprocal fallback.
func (u *ExchangeUsecase) PreviewConversion(ctx context.Context, amount decimal.Decimal, fromSymbol, toSymbol string) (*entities.ConversionPreview, error) {
	if !amount.IsPositive() {
		return nil, domainerrors.BadRequest("amount must be positive")
	}

	rate := decimal.NewFromInt(1)
	if fromSymbol != toSymbol {
		exchangeRate, err := u.rateRepo.GetRateBySymbols(ctx, fromSymbol, toSymbol)
		if err != nil {
			return nil, err
		}
		rate = exchangeRate.Rate
	}

	return &entities.ConversionPreview{
		FromCurrency:    fromSymbol,
		ToCurrency:      toSymbol,
		Amount:          amount,
		Rate:            rate,
		ConvertedAmount: money.Convert(amount, rate),
	}, nil
}

// LastUpdatedAt returns the most recent rate refresh time, if any rate
// has ever been refreshed.
func (u *ExchangeUsecase) LastUpdatedAt(ctx context.Context) (null.Time, error) {
	return u.rateRepo.LastUpdatedAt(ctx)
}

// ApplySnapshot ingests one rate feed snapshot: currencies are upserted
// by symbol, directed base->quote rates by (fromId, toId). The whole
// snapshot applies atomically, and re-applying it is a no-op apart from
// the refresh timestamp.
func (u *ExchangeUsecase) ApplySnapshot(ctx context.Context, snap *RateSnapshot) error {
	if snap.Base == "" || len(snap.Rates) == 0 {
		return domainerrors.BadRequest("empty rate snapshot")
	}

	err := u.uow.Do(ctx, func(ctx context.Context) error {
		base, err := u.currencyRepo.Upsert(ctx, snap.Base, snap.Base)
		if err != nil {
			return err
		}

		for symbol, rate := range snap.Rates {
			if symbol == snap.Base || !rate.IsPositive() {
				continue
			}
			quote, err := u.currencyRepo.Upsert(ctx, symbol, symbol)
			if err != nil {
				return err
			}
			if err := u.rateRepo.Upsert(ctx, base.ID, quote.ID, money.Truncate(rate), snap.FetchedAt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "rate snapshot applied",
		zap.String("base", snap.Base),
		zap.Int("rates", len(snap.Rates)),
		zap.Time("fetched_at", snap.FetchedAt),
	)
	return nil
}

// ListCurrencies returns the currency catalog
func (u *ExchangeUsecase) ListCurrencies(ctx context.Context) ([]*entities.Currency, error) {
	return u.currencyRepo.List(ctx)
}
