package wallet

import (
	"context"
	"errors"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/pagination"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/shared"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/wallet"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultPageSize is the number of ledger entries per page
const DefaultPageSize = 20

// Overview is the wallet page: totals plus one page of history
type Overview struct {
	Summary      wallet.Summary                        `json:"summary"`
	Transactions shared.Paginated[wallet.Transaction] `json:"transactions"`
}

// WalletService reads the wallet ledger and files withdrawals
type WalletService struct {
	repo   wallet.Repository
	logger *zap.Logger
}

// NewWalletService creates a new WalletService
func NewWalletService(repo wallet.Repository, logger *zap.Logger) *WalletService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WalletService{repo: repo, logger: logger}
}

// Overview returns the user's totals and a filtered page of entries
func (s *WalletService) Overview(ctx context.Context, userID int64, kind wallet.Kind, page, pageSize int) (*Overview, error) {
	if userID <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "user id must be positive")
	}
	switch kind {
	case "", wallet.KindAll, wallet.KindIncoming, wallet.KindOutgoing:
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "filter must be all, incoming or outgoing")
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	ledger, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	filtered := wallet.Filter(ledger, kind)
	page = pagination.ClampPage(page, pagination.TotalPages(len(filtered), pageSize))

	return &Overview{
		Summary:      wallet.Summarize(ledger),
		Transactions: shared.NewPaginated(pagination.Slice(filtered, page, pageSize), int64(len(filtered)), page, pageSize),
	}, nil
}

// Withdraw files a pending withdrawal to a Thai bank account
func (s *WalletService) Withdraw(ctx context.Context, userID int64, amount decimal.Decimal, bank string) (*wallet.Transaction, error) {
	if userID <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "user id must be positive")
	}
	tx, err := s.repo.Append(ctx, userID, func(ledger []wallet.Transaction) (*wallet.Transaction, error) {
		return wallet.NewWithdrawal(ledger, userID, amount, bank)
	})
	switch {
	case errors.Is(err, wallet.ErrInsufficientBalance):
		return nil, shared.NewDomainError("INSUFFICIENT_BALANCE", err.Error())
	case errors.Is(err, wallet.ErrInvalidAmount), errors.Is(err, wallet.ErrUnknownBank):
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	case err != nil:
		return nil, err
	}

	s.logger.Info("withdrawal requested",
		zap.Int64("user_id", userID),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("bank", bank),
		zap.String("reference", tx.Reference))
	return tx, nil
}

// Banks lists the banks a withdrawal can go to
func (s *WalletService) Banks() []wallet.Bank {
	return wallet.Banks()
}
