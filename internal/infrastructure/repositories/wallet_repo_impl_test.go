package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"wallet-kita.backend/internal/domain/entities"
	domainerrors "wallet-kita.backend/internal/domain/errors"
)

func TestWalletRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	createWalletTables(t, db)
	repo := NewWalletRepository(db)
	ctx := context.Background()

	ownerID := uuid.New()
	wallet := &entities.Wallet{
		OwnerID:         ownerID,
		CurrencyID:      1,
		Balance:         decimal.NewFromInt(100),
		ReservedBalance: decimal.Zero,
	}
	require.NoError(t, repo.Create(ctx, wallet))
	require.NotEqual(t, uuid.Nil, wallet.ID, "Create assigns an id")

	got, err := repo.GetByID(ctx, wallet.ID)
	require.NoError(t, err)
	require.Equal(t, ownerID, got.OwnerID)
	require.True(t, got.Balance.Equal(decimal.NewFromInt(100)))

	byCurrency, err := repo.GetByOwnerAndCurrency(ctx, ownerID, 1)
	require.NoError(t, err)
	require.Equal(t, wallet.ID, byCurrency.ID)

	_, err = repo.GetByOwnerAndCurrency(ctx, ownerID, 99)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestWalletRepository_GetByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	createWalletTables(t, db)
	repo := NewWalletRepository(db)

	_, err := repo.GetByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestWalletRepository_GetByOwnerID(t *testing.T) {
	db := newTestDB(t)
	createWalletTables(t, db)
	repo := NewWalletRepository(db)
	ctx := context.Background()

	ownerID := uuid.New()
	for currency := 1; currency <= 3; currency++ {
		require.NoError(t, repo.Create(ctx, &entities.Wallet{
			OwnerID:         ownerID,
			CurrencyID:      currency,
			Balance:         decimal.Zero,
			ReservedBalance: decimal.Zero,
		}))
	}
	require.NoError(t, repo.Create(ctx, &entities.Wallet{
		OwnerID:         uuid.New(),
		CurrencyID:      1,
		Balance:         decimal.Zero,
		ReservedBalance: decimal.Zero,
	}))

	wallets, err := repo.GetByOwnerID(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, wallets, 3)
}

func TestWalletRepository_LockMany(t *testing.T) {
	db := newTestDB(t)
	createWalletTables(t, db)
	repo := NewWalletRepository(db)
	ctx := context.Background()

	a := &entities.Wallet{OwnerID: uuid.New(), CurrencyID: 1, Balance: decimal.NewFromInt(10), ReservedBalance: decimal.Zero}
	b := &entities.Wallet{OwnerID: uuid.New(), CurrencyID: 2, Balance: decimal.NewFromInt(20), ReservedBalance: decimal.Zero}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	// Order of ids must not matter, duplicates collapse.
	locked, err := repo.LockMany(ctx, b.ID, a.ID, b.ID)
	require.NoError(t, err)
	require.Len(t, locked, 2)
	require.True(t, locked[a.ID].Balance.Equal(decimal.NewFromInt(10)))
	require.True(t, locked[b.ID].Balance.Equal(decimal.NewFromInt(20)))

	_, err = repo.LockMany(ctx, a.ID, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestWalletRepository_SaveBalances(t *testing.T) {
	db := newTestDB(t)
	createWalletTables(t, db)
	repo := NewWalletRepository(db)
	ctx := context.Background()

	wallet := &entities.Wallet{OwnerID: uuid.New(), CurrencyID: 1, Balance: decimal.NewFromInt(50), ReservedBalance: decimal.Zero}
	require.NoError(t, repo.Create(ctx, wallet))

	wallet.Balance = decimal.NewFromInt(30)
	wallet.ReservedBalance = decimal.NewFromInt(20)
	require.NoError(t, repo.SaveBalances(ctx, wallet))

	got, err := repo.GetByID(ctx, wallet.ID)
	require.NoError(t, err)
	require.True(t, got.Balance.Equal(decimal.NewFromInt(30)))
	require.True(t, got.ReservedBalance.Equal(decimal.NewFromInt(20)))

	missing := &entities.Wallet{ID: uuid.New(), Balance: decimal.Zero, ReservedBalance: decimal.Zero}
	require.ErrorIs(t, repo.SaveBalances(ctx, missing), domainerrors.ErrNotFound)
}
