package handler

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	walletapp "github.com/ppts2545/EcomerceStore-sub001/internal/application/wallet"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/wallet"
	"github.com/ppts2545/EcomerceStore-sub001/internal/interfaces/http/dto"
)

func walletEntry(userID int64, typ wallet.Type, amount string, status wallet.Status) wallet.Transaction {
	return wallet.Transaction{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      typ,
		Amount:    decimal.RequireFromString(amount),
		Status:    status,
		CreatedAt: time.Now(),
	}
}

func walletRouter(ledger *memoryLedger, mw ...gin.HandlerFunc) http.Handler {
	h := NewWalletHandler(walletapp.NewWalletService(ledger, nil))
	r := newRouter(mw...)
	r.GET("/wallet", h.Overview)
	r.GET("/wallet/banks", h.Banks)
	r.POST("/wallet/withdraw", h.Withdraw)
	return r
}

func sampleLedger() *memoryLedger {
	return newMemoryLedger(
		walletEntry(7, wallet.TypeIncoming, "1000", wallet.StatusCompleted),
		walletEntry(7, wallet.TypeBonus, "50", wallet.StatusCompleted),
		walletEntry(7, wallet.TypeOutgoing, "-200", wallet.StatusCompleted),
		walletEntry(7, wallet.TypeOutgoing, "-300", wallet.StatusPending),
		walletEntry(8, wallet.TypeIncoming, "9999", wallet.StatusCompleted),
	)
}

func TestWalletHandler_Overview(t *testing.T) {
	w := doRequest(walletRouter(sampleLedger(), asUser("7")), http.MethodGet, "/wallet?kind=outgoing", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got OverviewResponse
	decode(t, w, &got)
	assert.True(t, got.Summary.Balance.Equal(decimal.NewFromInt(850)))
	assert.True(t, got.Summary.Available.Equal(decimal.NewFromInt(550)))
	assert.True(t, got.Summary.TotalIncoming.Equal(decimal.NewFromInt(1050)))
	require.Len(t, got.Transactions, 2)
	for _, tx := range got.Transactions {
		assert.True(t, tx.Type.IsDebit())
	}
	require.NotNil(t, got.Meta)
	assert.Equal(t, int64(2), got.Meta.Total)
	assert.Equal(t, walletapp.DefaultPageSize, got.Meta.PageSize)
}

func TestWalletHandler_Overview_Errors(t *testing.T) {
	t.Run("unknown kind", func(t *testing.T) {
		w := doRequest(walletRouter(sampleLedger(), asUser("7")), http.MethodGet, "/wallet?kind=weird", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidInput, decode(t, w, nil).Error.Code)
	})

	t.Run("anonymous", func(t *testing.T) {
		w := doRequest(walletRouter(sampleLedger()), http.MethodGet, "/wallet", nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("empty ledger has an empty list", func(t *testing.T) {
		w := doRequest(walletRouter(sampleLedger(), asUser("99")), http.MethodGet, "/wallet", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"transactions":[]`)
	})
}

func TestWalletHandler_Withdraw(t *testing.T) {
	ledger := sampleLedger()
	r := walletRouter(ledger, asUser("7"))

	w := doRequest(r, http.MethodPost, "/wallet/withdraw", map[string]any{"amount": "500", "bank": "KBANK"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got wallet.Transaction
	decode(t, w, &got)
	assert.Equal(t, wallet.StatusPending, got.Status)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(-500)))
	assert.True(t, strings.HasPrefix(got.Reference, wallet.WithdrawalPrefix))
	assert.Len(t, got.Reference, len(wallet.WithdrawalPrefix)+9)

	entries, err := ledger.List(t.Context(), 7)
	require.NoError(t, err)
	assert.Len(t, entries, 5)

	// the pending withdrawal now reserves the rest of the balance
	w = doRequest(r, http.MethodPost, "/wallet/withdraw", map[string]any{"amount": "100", "bank": "KBANK"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeInsufficientBalance, decode(t, w, nil).Error.Code)
}

func TestWalletHandler_Withdraw_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		body     any
		wantCode int
		wantErr  string
	}{
		{name: "missing bank", body: map[string]any{"amount": "10"}, wantCode: http.StatusBadRequest, wantErr: dto.ErrCodeValidation},
		{name: "unknown bank", body: map[string]any{"amount": "10", "bank": "XYZ"}, wantCode: http.StatusBadRequest, wantErr: dto.ErrCodeInvalidInput},
		{name: "negative amount", body: map[string]any{"amount": "-5", "bank": "SCB"}, wantCode: http.StatusBadRequest, wantErr: dto.ErrCodeInvalidInput},
		{name: "more than available", body: map[string]any{"amount": "551", "bank": "SCB"}, wantCode: http.StatusUnprocessableEntity, wantErr: dto.ErrCodeInsufficientBalance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := sampleLedger()

			w := doRequest(walletRouter(ledger, asUser("7")), http.MethodPost, "/wallet/withdraw", tt.body)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantErr, decode(t, w, nil).Error.Code)
			entries, _ := ledger.List(t.Context(), 7)
			assert.Len(t, entries, 4)
		})
	}
}

func TestWalletHandler_Banks(t *testing.T) {
	w := doRequest(walletRouter(sampleLedger()), http.MethodGet, "/wallet/banks", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got []wallet.Bank
	decode(t, w, &got)
	assert.Len(t, got, 6)
	assert.Equal(t, "SCB", got[0].Code)
}
