package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"wallet-kita.backend/internal/domain/entities"
	domainerrors "wallet-kita.backend/internal/domain/errors"
	"wallet-kita.backend/internal/infrastructure/models"
)

// CurrencyRepository implements the currency catalog
type CurrencyRepository struct {
	db *gorm.DB
}

// NewCurrencyRepository creates a new currency repository
func NewCurrencyRepository(db *gorm.DB) *CurrencyRepository {
	return &CurrencyRepository{db: db}
}

func currencyToEntity(m *models.Currency) *entities.Currency {
	return &entities.Currency{ID: m.ID, Name: m.Name, Symbol: m.Symbol}
}

// GetByID gets a currency by ID
func (r *CurrencyRepository) GetByID(ctx context.Context, id int) (*entities.Currency, error) {
	db := GetDB(ctx, r.db)

	var m models.Currency
	if err := db.First(&m, "id = ?", id).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return currencyToEntity(&m), nil
}

// GetBySymbol gets a currency by its unique symbol
func (r *CurrencyRepository) GetBySymbol(ctx context.Context, symbol string) (*entities.Currency, error) {
	db := GetDB(ctx, r.db)

	var m models.Currency
	if err := db.Where("symbol = ?", symbol).First(&m).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return currencyToEntity(&m), nil
}

// List returns the full currency catalog
func (r *CurrencyRepository) List(ctx context.Context) ([]*entities.Currency, error) {
	db := GetDB(ctx, r.db)

	var ms []models.Currency
	if err := db.Order("symbol").Find(&ms).Error; err != nil {
		return nil, domainerrors.Persistence(err)
	}

	out := make([]*entities.Currency, 0, len(ms))
	for i := range ms {
		out = append(out, currencyToEntity(&ms[i]))
	}
	return out, nil
}

// Upsert creates the currency if missing, updates the name otherwise.
// Idempotent by symbol.
func (r *CurrencyRepository) Upsert(ctx context.Context, name, symbol string) (*entities.Currency, error) {
	db := GetDB(ctx, r.db)

	var m models.Currency
	err := db.Where("symbol = ?", symbol).First(&m).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		m = models.Currency{Name: name, Symbol: symbol}
		if err := db.Create(&m).Error; err != nil {
			return nil, domainerrors.Persistence(err)
		}
	case err != nil:
		return nil, domainerrors.Persistence(err)
	default:
		if m.Name != name {
			m.Name = name
			if err := db.Model(&models.Currency{}).Where("id = ?", m.ID).Update("name", name).Error; err != nil {
				return nil, domainerrors.Persistence(err)
			}
		}
	}
	return currencyToEntity(&m), nil
}

// ExchangeRateRepository implements directed rate lookups and ingestion
type ExchangeRateRepository struct {
	db *gorm.DB
}

// NewExchangeRateRepository creates a new exchange rate repository
func NewExchangeRateRepository(db *gorm.DB) *ExchangeRateRepository {
	return &ExchangeRateRepository{db: db}
}

func rateToEntity(m *models.ExchangeRate) *entities.ExchangeRate {
	return &entities.ExchangeRate{
		ID:             m.ID,
		FromCurrencyID: m.FromCurrencyID,
		ToCurrencyID:   m.ToCurrencyID,
		Rate:           m.Rate,
		UpdatedAt:      null.TimeFromPtr(m.UpdatedAt),
	}
}

// GetRate performs an exact directed lookup. A missing pair fails with
// ErrExchangeRateNotFound; the reverse direction is never consulted.
func (r *ExchangeRateRepository) GetRate(ctx context.Context, fromCurrencyID, toCurrencyID int) (*entities.ExchangeRate, error) {
	db := GetDB(ctx, r.db)

	var m models.ExchangeRate
	err := db.Where("from_currency_id = ? AND to_currency_id = ?", fromCurrencyID, toCurrencyID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainerrors.ErrExchangeRateNotFound
	}
	if err != nil {
		return nil, domainerrors.Persistence(err)
	}
	return rateToEntity(&m), nil
}

// GetRateBySymbols looks up a directed rate through the currency catalog
func (r *ExchangeRateRepository) GetRateBySymbols(ctx context.Context, fromSymbol, toSymbol string) (*entities.ExchangeRate, error) {
	db := GetDB(ctx, r.db)

	var m models.ExchangeRate
	err := db.
		Joins("JOIN currencies fc ON fc.id = exchange_rates.from_currency_id AND fc.symbol = ?", fromSymbol).
		Joins("JOIN currencies tc ON tc.id = exchange_rates.to_currency_id AND tc.symbol = ?", toSymbol).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainerrors.ErrExchangeRateNotFound
	}
	if err != nil {
		return nil, domainerrors.Persistence(err)
	}
	return rateToEntity(&m), nil
}

// Upsert writes a directed rate, idempotent by (from, to)
func (r *ExchangeRateRepository) Upsert(ctx context.Context, fromCurrencyID, toCurrencyID int, rate decimal.Decimal, updatedAt time.Time) error {
	db := GetDB(ctx, r.db)

	var m models.ExchangeRate
	err := db.Where("from_currency_id = ? AND to_currency_id = ?", fromCurrencyID, toCurrencyID).First(&m).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		m = models.ExchangeRate{
			FromCurrencyID: fromCurrencyID,
			ToCurrencyID:   toCurrencyID,
			Rate:           rate,
			UpdatedAt:      &updatedAt,
		}
		if err := db.Create(&m).Error; err != nil {
			return domainerrors.Persistence(err)
		}
	case err != nil:
		return domainerrors.Persistence(err)
	default:
		res := db.Model(&models.ExchangeRate{}).Where("id = ?", m.ID).Updates(map[string]interface{}{
			"rate":       rate,
			"updated_at": updatedAt,
		})
		if res.Error != nil {
			return domainerrors.Persistence(res.Error)
		}
	}
	return nil
}

// LastUpdatedAt returns the most recent rate refresh time, if any
func (r *ExchangeRateRepository) LastUpdatedAt(ctx context.Context) (null.Time, error) {
	db := GetDB(ctx, r.db)

	var last *time.Time
	if err := db.Model(&models.ExchangeRate{}).Select("MAX(updated_at)").Scan(&last).Error; err != nil {
		return null.Time{}, domainerrors.Persistence(err)
	}
	return null.TimeFromPtr(last), nil
}
