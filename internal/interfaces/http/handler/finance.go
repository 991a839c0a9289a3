package handler

import (
	"github.com/gin-gonic/gin"

	financeapp "github.com/ppts2545/EcomerceStore-sub001/internal/application/finance"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/finance"
)

// DefaultChartDays is the span of the revenue chart
const DefaultChartDays = 7

// FinanceHandler serves the admin finance dashboard and transaction history
type FinanceHandler struct {
	BaseHandler
	dashboardService *financeapp.DashboardService
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(dashboardService *financeapp.DashboardService) *FinanceHandler {
	return &FinanceHandler{dashboardService: dashboardService}
}

// Dashboard returns summary, chart and one page of transactions
// GET /admin/finance/dashboard?status=&search=&range=&sort_by=&sort_dir=&page=&page_size=&chart_days=
func (h *FinanceHandler) Dashboard(c *gin.Context) {
	var q finance.TransactionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.ValidationError(c, err)
		return
	}
	days := queryInt(c, "chart_days", DefaultChartDays)
	if days < 1 || days > 90 {
		h.BadRequest(c, "chart_days must be between 1 and 90")
		return
	}

	dashboard, err := h.dashboardService.Dashboard(c.Request.Context(), q, days)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dashboard)
}

// UserTransactions returns the history of one user
// GET /admin/finance/users/:id/transactions
func (h *FinanceHandler) UserTransactions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid user ID")
		return
	}
	h.history(c, id)
}

// MyTransactions returns the caller's own history
// GET /me/transactions
func (h *FinanceHandler) MyTransactions(c *gin.Context) {
	id, err := getUserID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.history(c, id)
}

func (h *FinanceHandler) history(c *gin.Context, userID int64) {
	var q finance.TransactionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.ValidationError(c, err)
		return
	}
	result, err := h.dashboardService.TransactionHistory(c.Request.Context(), userID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paged(c, result)
}
