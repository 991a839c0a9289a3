package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/payment"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/shared"
	"github.com/ppts2545/EcomerceStore-sub001/internal/interfaces/http/dto"
)

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"wrapped domain error", fmt.Errorf("load: %w", shared.ErrUpstreamUnavailable), http.StatusServiceUnavailable, dto.ErrCodeUpstreamUnavailable},
		{"insufficient balance", shared.NewDomainError("INSUFFICIENT_BALANCE", "too much"), http.StatusUnprocessableEntity, dto.ErrCodeInsufficientBalance},
		{"checkout in progress", shared.NewDomainError("CHECKOUT_IN_PROGRESS", "busy"), http.StatusConflict, dto.ErrCodeCheckoutInProgress},
		{"record not found", payment.ErrRecordNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"gateway down", fmt.Errorf("%w: dial tcp", payment.ErrGatewayUnavailable), http.StatusServiceUnavailable, dto.ErrCodeGatewayUnavailable},
		{"gateway rejected", fmt.Errorf("%w: status 400", payment.ErrGatewayRequestFailed), http.StatusBadGateway, dto.ErrCodePaymentGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			r := newRouter()
			r.GET("/x", func(c *gin.Context) { h.HandleError(c, tt.err) })

			w := doRequest(r, http.MethodGet, "/x", nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decode(t, w, nil)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.RequestID)
		})
	}
}

func TestBaseHandler_HandleErrorHidesInternalMessage(t *testing.T) {
	h := &BaseHandler{}
	r := newRouter()
	r.GET("/x", func(c *gin.Context) { h.HandleError(c, errors.New("pq: password authentication failed")) })

	w := doRequest(r, http.MethodGet, "/x", nil)

	assert.NotContains(t, w.Body.String(), "password")
}

func TestGetUserID(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		want    int64
		wantErr bool
	}{
		{"numeric", "42", 42, false},
		{"missing", "", 0, true},
		{"not a number", "abc", 0, true},
		{"zero", "0", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got int64
			var err error
			r := newRouter(asUser(tt.subject))
			r.GET("/x", func(c *gin.Context) {
				got, err = getUserID(c)
				c.Status(http.StatusOK)
			})
			doRequest(r, http.MethodGet, "/x", nil)

			if tt.wantErr {
				assert.ErrorIs(t, err, shared.ErrUnauthorized)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapPage(t *testing.T) {
	p := shared.NewPaginated([]int{1, 2}, 12, 2, 2)

	got := mapPage(p, func(i int) string { return fmt.Sprint(i * 10) })

	assert.Equal(t, []string{"10", "20"}, got.Items)
	assert.Equal(t, int64(12), got.Total)
	assert.Equal(t, 6, got.TotalPages)
}
