package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	walletapp "github.com/ppts2545/EcomerceStore-sub001/internal/application/wallet"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/wallet"
	"github.com/ppts2545/EcomerceStore-sub001/internal/interfaces/http/dto"
)

// WalletHandler serves the caller's wallet
type WalletHandler struct {
	BaseHandler
	walletService *walletapp.WalletService
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(walletService *walletapp.WalletService) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// WithdrawRequest moves available balance to a bank account
type WithdrawRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Bank   string          `json:"bank" binding:"required"`
}

// OverviewResponse is the wallet summary plus one page of entries
type OverviewResponse struct {
	Summary      wallet.Summary       `json:"summary"`
	Transactions []wallet.Transaction `json:"transactions"`
	Meta         *dto.Meta            `json:"meta"`
}

// Overview returns balances and a filtered page of history
// GET /wallet?kind=all|incoming|outgoing&page=&page_size=
func (h *WalletHandler) Overview(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	kind := wallet.Kind(c.DefaultQuery("kind", string(wallet.KindAll)))
	pageSize, ok := h.boundedQueryInt(c, "page_size", walletapp.DefaultPageSize, MaxPageSize)
	if !ok {
		return
	}

	overview, err := h.walletService.Overview(c.Request.Context(), userID, kind,
		queryInt(c, "page", 1), pageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := overview.Transactions.Items
	if items == nil {
		items = []wallet.Transaction{}
	}
	h.Success(c, OverviewResponse{
		Summary:      overview.Summary,
		Transactions: items,
		Meta:         dto.NewPageMeta(overview.Transactions),
	})
}

// Withdraw files a pending withdrawal
// POST /wallet/withdraw
func (h *WalletHandler) Withdraw(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	tx, err := h.walletService.Withdraw(c.Request.Context(), userID, req.Amount, req.Bank)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tx)
}

// Banks lists the banks a withdrawal can go to
// GET /wallet/banks
func (h *WalletHandler) Banks(c *gin.Context) {
	h.Success(c, h.walletService.Banks())
}
