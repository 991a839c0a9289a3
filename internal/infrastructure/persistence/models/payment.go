package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/finance"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/payment"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/shared"
)

// PaymentTransactionModel is the persistence model for a checkout
type PaymentTransactionModel struct {
	BaseModel
	OrderID       string          `gorm:"type:varchar(64);not null;index"`
	TransactionID string          `gorm:"type:varchar(128);not null;uniqueIndex"`
	UserID        int64           `gorm:"not null;index"`
	CustomerName  string          `gorm:"type:varchar(200)"`
	CustomerEmail string          `gorm:"type:varchar(200)"`
	CustomerPhone string          `gorm:"type:varchar(50)"`
	Description   string          `gorm:"type:varchar(500)"`
	Method        string          `gorm:"type:varchar(32);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Status        string          `gorm:"type:varchar(20);not null;index"`
	PaymentURL    string          `gorm:"type:text"`
	QRCode        string          `gorm:"type:text"`
	Reference     string          `gorm:"type:varchar(128)"`
	PaidAt        *time.Time
}

// TableName returns the table name for GORM
func (PaymentTransactionModel) TableName() string {
	return "payment_transactions"
}

// ToDomain converts the model to a payment record
func (m *PaymentTransactionModel) ToDomain() *payment.Record {
	base := m.BaseModel.ToDomain()
	return &payment.Record{
		ID:            base.ID,
		OrderID:       m.OrderID,
		TransactionID: m.TransactionID,
		UserID:        m.UserID,
		CustomerName:  m.CustomerName,
		CustomerEmail: m.CustomerEmail,
		CustomerPhone: m.CustomerPhone,
		Description:   m.Description,
		Method:        payment.Method(m.Method),
		Amount:        m.Amount,
		PaidAmount:    m.PaidAmount,
		Status:        payment.Status(m.Status),
		PaymentURL:    m.PaymentURL,
		QRCode:        m.QRCode,
		Reference:     m.Reference,
		PaidAt:        m.PaidAt,
		CreatedAt:     base.CreatedAt,
		UpdatedAt:     base.UpdatedAt,
	}
}

// FromDomain populates the model from a payment record
func (m *PaymentTransactionModel) FromDomain(r *payment.Record) {
	m.FromDomainBaseEntity(shared.BaseEntity{ID: r.ID, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt})
	m.OrderID = r.OrderID
	m.TransactionID = r.TransactionID
	m.UserID = r.UserID
	m.CustomerName = r.CustomerName
	m.CustomerEmail = r.CustomerEmail
	m.CustomerPhone = r.CustomerPhone
	m.Description = r.Description
	m.Method = string(r.Method)
	m.Amount = r.Amount
	m.PaidAmount = r.PaidAmount
	m.Status = string(r.Status)
	m.PaymentURL = r.PaymentURL
	m.QRCode = r.QRCode
	m.Reference = r.Reference
	m.PaidAt = r.PaidAt
}

// PaymentTransactionModelFromDomain creates a model from a payment record
func PaymentTransactionModelFromDomain(r *payment.Record) *PaymentTransactionModel {
	m := &PaymentTransactionModel{}
	m.FromDomain(r)
	return m
}

// ToFinance projects the checkout onto the admin transaction view. A cancelled
// checkout is reported as failed.
func (m *PaymentTransactionModel) ToFinance() finance.Transaction {
	status := finance.TransactionStatus(m.Status)
	if m.Status == string(payment.StatusCancelled) {
		status = finance.StatusFailed
	}
	reference := m.Reference
	if reference == "" {
		reference = m.TransactionID
	}
	return finance.Transaction{
		ID:          m.ID.String(),
		UserID:      m.UserID,
		UserName:    m.CustomerName,
		UserEmail:   m.CustomerEmail,
		Amount:      m.Amount,
		Method:      m.Method,
		Status:      status,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		OrderID:     m.OrderID,
		Reference:   reference,
	}.WithFee()
}
