package persistence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/wallet"
)

func seedWallet(t *testing.T, repo *GormWalletRepository, userID int64, amount string, at time.Time) {
	t.Helper()
	_, err := repo.Append(context.Background(), userID, func([]wallet.Transaction) (*wallet.Transaction, error) {
		return &wallet.Transaction{
			ID:          uuid.New(),
			UserID:      userID,
			Type:        wallet.TypeIncoming,
			Amount:      decimal.RequireFromString(amount),
			Description: "Sale payout",
			Status:      wallet.StatusCompleted,
			Reference:   wallet.NewReference("PAY"),
			CreatedAt:   at,
		}, nil
	})
	require.NoError(t, err)
}

func TestGormWalletRepository_ListNewestFirst(t *testing.T) {
	repo := NewGormWalletRepository(setupTestDB(t))
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	seedWallet(t, repo, 5, "100", base)
	seedWallet(t, repo, 5, "250", base.Add(time.Hour))
	seedWallet(t, repo, 6, "999", base)

	txs, err := repo.List(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.True(t, decimal.NewFromInt(250).Equal(txs[0].Amount))
	assert.True(t, decimal.NewFromInt(350).Equal(wallet.Balance(txs)))
}

func TestGormWalletRepository_AppendWithdrawal(t *testing.T) {
	repo := NewGormWalletRepository(setupTestDB(t))
	ctx := context.Background()
	seedWallet(t, repo, 5, "1000", time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))

	created, err := repo.Append(ctx, 5, func(ledger []wallet.Transaction) (*wallet.Transaction, error) {
		return wallet.NewWithdrawal(ledger, 5, decimal.NewFromInt(600), "KBANK")
	})
	require.NoError(t, err)
	assert.Equal(t, wallet.StatusPending, created.Status)
	assert.True(t, decimal.NewFromInt(-600).Equal(created.Amount))

	_, err = repo.Append(ctx, 5, func(ledger []wallet.Transaction) (*wallet.Transaction, error) {
		return wallet.NewWithdrawal(ledger, 5, decimal.NewFromInt(600), "KBANK")
	})
	assert.ErrorIs(t, err, wallet.ErrInsufficientBalance, "pending withdrawal is reserved")

	txs, err := repo.List(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, txs, 2)
}

func TestGormWalletRepository_ConcurrentWithdrawals(t *testing.T) {
	db := setupTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the in-memory database shared and serializes writers
	sqlDB.SetMaxOpenConns(1)

	repo := NewGormWalletRepository(db)
	seedWallet(t, repo, 5, "1000", time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Append(context.Background(), 5, func(ledger []wallet.Transaction) (*wallet.Transaction, error) {
				return wallet.NewWithdrawal(ledger, 5, decimal.NewFromInt(400), "SCB")
			})
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, ok, "only two 400 withdrawals fit into 1000")
}
