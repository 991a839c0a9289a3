package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/wallet"
)

// WalletTransactionModel is the persistence model for a wallet ledger entry.
// Entries are append-only.
type WalletTransactionModel struct {
	BaseModel
	UserID      int64           `gorm:"not null;index"`
	Type        string          `gorm:"type:varchar(20);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Description string          `gorm:"type:varchar(500)"`
	Status      string          `gorm:"type:varchar(20);not null"`
	Reference   string          `gorm:"type:varchar(64);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (WalletTransactionModel) TableName() string {
	return "wallet_transactions"
}

// ToDomain converts the model to a wallet transaction
func (m *WalletTransactionModel) ToDomain() wallet.Transaction {
	return wallet.Transaction{
		ID:          m.ID,
		UserID:      m.UserID,
		Type:        wallet.Type(m.Type),
		Amount:      m.Amount,
		Description: m.Description,
		Status:      wallet.Status(m.Status),
		Reference:   m.Reference,
		CreatedAt:   m.CreatedAt,
	}
}

// WalletTransactionModelFromDomain creates a model from a wallet transaction
func WalletTransactionModelFromDomain(t *wallet.Transaction) *WalletTransactionModel {
	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	m := &WalletTransactionModel{
		UserID:      t.UserID,
		Type:        string(t.Type),
		Amount:      t.Amount,
		Description: t.Description,
		Status:      string(t.Status),
		Reference:   t.Reference,
	}
	m.ID = t.ID
	m.CreatedAt = createdAt
	m.UpdatedAt = createdAt
	return m
}
