package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/payment"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/shared"
	"github.com/ppts2545/EcomerceStore-sub001/internal/interfaces/http/dto"
	"github.com/ppts2545/EcomerceStore-sub001/internal/interfaces/http/middleware"
)

// SessionHeader carries the shopper's backend session. It is forwarded to the
// store backend unchanged.
const SessionHeader = "Cookie"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getUserID returns the numeric user id of the authenticated caller
func getUserID(c *gin.Context) (int64, error) {
	raw := middleware.GetJWTUserID(c)
	if raw == "" {
		return 0, shared.ErrUnauthorized
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, shared.NewDomainError("UNAUTHORIZED", "Token subject is not a user id")
	}
	return id, nil
}

// optionalUserID is getUserID for routes that also serve anonymous callers;
// it returns 0 when no token was presented.
func optionalUserID(c *gin.Context) (int64, error) {
	if middleware.GetJWTUserID(c) == "" {
		return 0, nil
	}
	return getUserID(c)
}

func getSession(c *gin.Context) string {
	return c.GetHeader(SessionHeader)
}

// pathID parses a positive integer path parameter
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryInt reads an integer query parameter, falling back to def when it is
// missing or malformed.
func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return v
}

// MaxPageSize bounds every page size and listing limit a client can request
const MaxPageSize = 100

// boundedQueryInt is queryInt that rejects values above limit with a 400.
func (h *BaseHandler) boundedQueryInt(c *gin.Context, name string, def, limit int) (int, bool) {
	v := queryInt(c, name, def)
	if v > limit {
		h.BadRequest(c, fmt.Sprintf("%s must be at most %d", name, limit))
		return 0, false
	}
	return v, true
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// paged sends one page of items with its meta and page control
func paged[T any](c *gin.Context, p shared.Paginated[T]) {
	c.JSON(http.StatusOK, dto.NewPagedResponse(p))
}

// mapPage converts the items of a page, keeping its counts
func mapPage[T, U any](p shared.Paginated[T], f func(T) U) shared.Paginated[U] {
	items := make([]U, len(p.Items))
	for i, item := range p.Items {
		items[i] = f(item)
	}
	return shared.Paginated[U]{
		Items:      items,
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
	}
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// ValidationError formats binding failures with per-field details
func (h *BaseHandler) ValidationError(c *gin.Context, err error) {
	middleware.HandleValidationError(c, err)
}

// paymentErrorCodes maps payment sentinel errors to API codes
var paymentErrorCodes = []struct {
	err  error
	code string
}{
	{payment.ErrRecordNotFound, dto.ErrCodeNotFound},
	{payment.ErrNotCancellable, dto.ErrCodeInvalidState},
	{payment.ErrUnderpaid, dto.ErrCodeInvalidState},
	{payment.ErrNotOwner, dto.ErrCodeForbidden},
	{payment.ErrInvalidOrderID, dto.ErrCodeInvalidInput},
	{payment.ErrInvalidAmount, dto.ErrCodeInvalidInput},
	{payment.ErrInvalidTransactionID, dto.ErrCodeInvalidInput},
	{payment.ErrInvalidStatus, dto.ErrCodeInvalidInput},
	{payment.ErrGatewayNotConfigured, dto.ErrCodeGatewayUnavailable},
	{payment.ErrGatewayUnavailable, dto.ErrCodeGatewayUnavailable},
	{payment.ErrGatewayRequestFailed, dto.ErrCodePaymentGateway},
	{payment.ErrGatewayInvalidResponse, dto.ErrCodePaymentGateway},
}

// HandleError converts domain and gateway errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		h.Error(c, dto.GetHTTPStatus(code), code, domainErr.Message)
		return
	}

	for _, pe := range paymentErrorCodes {
		if errors.Is(err, pe.err) {
			h.Error(c, dto.GetHTTPStatus(pe.code), pe.code, pe.err.Error())
			return
		}
	}

	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}
