package wallet

import (
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ledger() []Transaction {
	return []Transaction{
		{Type: TypeIncoming, Amount: d("2500"), Status: StatusCompleted},
		{Type: TypeOutgoing, Amount: d("-1000"), Status: StatusCompleted},
		{Type: TypeBonus, Amount: d("50"), Status: StatusCompleted},
		{Type: TypeRefund, Amount: d("-150"), Status: StatusCompleted},
		{Type: TypeIncoming, Amount: d("700"), Status: StatusPending},
		{Type: TypeOutgoing, Amount: d("-300"), Status: StatusPending},
		{Type: TypeOutgoing, Amount: d("-200"), Status: StatusFailed},
	}
}

func TestBalance(t *testing.T) {
	assert.True(t, d("1400").Equal(Balance(ledger())), Balance(ledger()).String())
	assert.True(t, Balance(nil).IsZero())
}

func TestAvailable(t *testing.T) {
	assert.True(t, d("1100").Equal(Available(ledger())), Available(ledger()).String())
}

func TestTotals(t *testing.T) {
	in, out := Totals(ledger())
	assert.True(t, d("2550").Equal(in), in.String())
	assert.True(t, d("1150").Equal(out), out.String())
}

func TestSummarize(t *testing.T) {
	s := Summarize(ledger())
	assert.True(t, d("1400").Equal(s.Balance))
	assert.True(t, d("1100").Equal(s.Available))
}

func TestFilter(t *testing.T) {
	txs := ledger()
	assert.Len(t, Filter(txs, KindAll), 7)
	assert.Len(t, Filter(txs, ""), 7)

	incoming := Filter(txs, KindIncoming)
	require.Len(t, incoming, 3)
	for _, tx := range incoming {
		assert.False(t, tx.Type.IsDebit())
	}

	outgoing := Filter(txs, KindOutgoing)
	require.Len(t, outgoing, 4)
	for _, tx := range outgoing {
		assert.True(t, tx.Type.IsDebit())
	}
}

func TestNewWithdrawal(t *testing.T) {
	tx, err := NewWithdrawal(ledger(), 42, d("500"), "KBANK")
	require.NoError(t, err)

	assert.Equal(t, int64(42), tx.UserID)
	assert.Equal(t, TypeOutgoing, tx.Type)
	assert.Equal(t, StatusPending, tx.Status)
	assert.True(t, d("-500").Equal(tx.Amount))
	assert.Equal(t, "Withdraw to KBANK", tx.Description)
	assert.Regexp(t, regexp.MustCompile(`^WTH[0-9A-Z]{9}$`), tx.Reference)
}

func TestNewWithdrawal_Errors(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		bank   string
		want   error
	}{
		{"zero amount", "0", "SCB", ErrInvalidAmount},
		{"negative amount", "-5", "SCB", ErrInvalidAmount},
		{"unknown bank", "100", "CITI", ErrUnknownBank},
		{"pending withdrawal is reserved", "1100.01", "SCB", ErrInsufficientBalance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWithdrawal(ledger(), 1, d(tt.amount), tt.bank)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewWithdrawal_ExactlyAvailable(t *testing.T) {
	_, err := NewWithdrawal(ledger(), 1, d("1100"), "BAY")
	assert.NoError(t, err)
}

func TestBanks(t *testing.T) {
	list := Banks()
	require.Len(t, list, 6)
	codes := make([]string, 0, len(list))
	for _, b := range list {
		codes = append(codes, b.Code)
	}
	assert.Equal(t, []string{"SCB", "KBANK", "BBL", "KTB", "TMB", "BAY"}, codes)
}
