package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/wallet"
	"github.com/ppts2545/EcomerceStore-sub001/internal/infrastructure/persistence/models"
)

// GormWalletRepository implements wallet.Repository using GORM
type GormWalletRepository struct {
	db *gorm.DB
}

// NewGormWalletRepository creates a new GormWalletRepository
func NewGormWalletRepository(db *gorm.DB) *GormWalletRepository {
	return &GormWalletRepository{db: db}
}

var _ wallet.Repository = (*GormWalletRepository)(nil)

// List returns the user's entries, newest first
func (r *GormWalletRepository) List(ctx context.Context, userID int64) ([]wallet.Transaction, error) {
	return listWallet(r.db.WithContext(ctx), userID)
}

// Append reads the ledger and inserts the entry built from it in a single
// transaction. On PostgreSQL a transaction-scoped advisory lock on the user id
// serializes concurrent appends for the same user.
func (r *GormWalletRepository) Append(ctx context.Context, userID int64, build func([]wallet.Transaction) (*wallet.Transaction, error)) (*wallet.Transaction, error) {
	var created *wallet.Transaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if isPostgres(tx) {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", userID).Error; err != nil {
				return fmt.Errorf("failed to lock wallet: %w", err)
			}
		}

		ledger, err := listWallet(tx, userID)
		if err != nil {
			return err
		}
		entry, err := build(ledger)
		if err != nil {
			return err
		}

		model := models.WalletTransactionModelFromDomain(entry)
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to append wallet transaction: %w", err)
		}
		out := model.ToDomain()
		created = &out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func listWallet(db *gorm.DB, userID int64) ([]wallet.Transaction, error) {
	var rows []models.WalletTransactionModel
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet transactions: %w", err)
	}

	txs := make([]wallet.Transaction, 0, len(rows))
	for i := range rows {
		txs = append(txs, rows[i].ToDomain())
	}
	return txs, nil
}
