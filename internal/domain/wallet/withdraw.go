package wallet

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bank is a Thai bank that accepts withdrawals
type Bank struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var banks = []Bank{
	{Code: "SCB", Name: "Siam Commercial Bank"},
	{Code: "KBANK", Name: "Kasikornbank"},
	{Code: "BBL", Name: "Bangkok Bank"},
	{Code: "KTB", Name: "Krungthai Bank"},
	{Code: "TMB", Name: "TMB Bank"},
	{Code: "BAY", Name: "Bank of Ayudhya (Krungsri)"},
}

// Banks returns the supported banks
func Banks() []Bank {
	out := make([]Bank, len(banks))
	copy(out, banks)
	return out
}

// LookupBank finds a bank by code
func LookupBank(code string) (Bank, bool) {
	for _, b := range banks {
		if b.Code == code {
			return b, true
		}
	}
	return Bank{}, false
}

const referenceAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewReference returns prefix followed by 9 random base-36 characters
func NewReference(prefix string) string {
	b := make([]byte, 9)
	for i := range b {
		b[i] = referenceAlphabet[rand.IntN(len(referenceAlphabet))]
	}
	return prefix + string(b)
}

// WithdrawalPrefix starts every withdrawal reference
const WithdrawalPrefix = "WTH"

// NewWithdrawal builds the pending debit for a withdrawal request against
// the user's ledger.
func NewWithdrawal(ledger []Transaction, userID int64, amount decimal.Decimal, bankCode string) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	bank, ok := LookupBank(bankCode)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBank, bankCode)
	}
	if amount.GreaterThan(Available(ledger)) {
		return nil, ErrInsufficientBalance
	}
	return &Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        TypeOutgoing,
		Amount:      amount.Neg(),
		Description: "Withdraw to " + bank.Code,
		Status:      StatusPending,
		Reference:   NewReference(WithdrawalPrefix),
		CreatedAt:   time.Now(),
	}, nil
}
