package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/finance"
	"github.com/ppts2545/EcomerceStore-sub001/internal/infrastructure/persistence/models"
)

// GormFinanceTransactionRepository reads the admin transaction view from the
// payment_transactions table
type GormFinanceTransactionRepository struct {
	db *gorm.DB
}

// NewGormFinanceTransactionRepository creates a new GormFinanceTransactionRepository
func NewGormFinanceTransactionRepository(db *gorm.DB) *GormFinanceTransactionRepository {
	return &GormFinanceTransactionRepository{db: db}
}

var _ finance.TransactionRepository = (*GormFinanceTransactionRepository)(nil)

// List returns the matching transactions, newest first. From is inclusive and
// To is exclusive.
func (r *GormFinanceTransactionRepository) List(ctx context.Context, filter finance.ListFilter) ([]finance.Transaction, error) {
	query := r.db.WithContext(ctx).Model(&models.PaymentTransactionModel{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}

	var rows []models.PaymentTransactionModel
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	txs := make([]finance.Transaction, 0, len(rows))
	for i := range rows {
		txs = append(txs, rows[i].ToFinance())
	}
	return txs, nil
}
