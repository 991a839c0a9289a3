package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/payment"
	"github.com/ppts2545/EcomerceStore-sub001/internal/infrastructure/persistence/models"
)

// GormPaymentRecordRepository implements payment.RecordRepository using GORM
type GormPaymentRecordRepository struct {
	db *gorm.DB
}

// NewGormPaymentRecordRepository creates a new GormPaymentRecordRepository
func NewGormPaymentRecordRepository(db *gorm.DB) *GormPaymentRecordRepository {
	return &GormPaymentRecordRepository{db: db}
}

var _ payment.RecordRepository = (*GormPaymentRecordRepository)(nil)

// Create inserts a new payment record
func (r *GormPaymentRecordRepository) Create(ctx context.Context, record *payment.Record) error {
	model := models.PaymentTransactionModelFromDomain(record)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create payment record: %w", err)
	}
	record.CreatedAt = model.CreatedAt
	record.UpdatedAt = model.UpdatedAt
	return nil
}

// Update saves every column of an existing payment record
func (r *GormPaymentRecordRepository) Update(ctx context.Context, record *payment.Record) error {
	model := models.PaymentTransactionModelFromDomain(record)
	result := r.db.WithContext(ctx).
		Model(&models.PaymentTransactionModel{}).
		Where("id = ?", record.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update payment record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return payment.ErrRecordNotFound
	}
	record.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByTransactionID finds a record by its gateway transaction id
func (r *GormPaymentRecordRepository) FindByTransactionID(ctx context.Context, transactionID string) (*payment.Record, error) {
	return r.findOne(ctx, "transaction_id = ?", transactionID)
}

// FindByOrderID finds the latest record of an order
func (r *GormPaymentRecordRepository) FindByOrderID(ctx context.Context, orderID string) (*payment.Record, error) {
	return r.findOne(ctx, "order_id = ?", orderID)
}

func (r *GormPaymentRecordRepository) findOne(ctx context.Context, query string, arg any) (*payment.Record, error) {
	var model models.PaymentTransactionModel
	err := r.db.WithContext(ctx).
		Where(query, arg).
		Order("created_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payment.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to find payment record: %w", err)
	}
	return model.ToDomain(), nil
}

type statusCount struct {
	Status string
	Count  int64
}

// CountPaymentsByStatus returns the number of stored payments per status
func (r *GormPaymentRecordRepository) CountPaymentsByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []statusCount
	err := r.db.WithContext(ctx).
		Model(&models.PaymentTransactionModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count payments by status: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
