package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withTenant injects JWT context values the way the auth middleware would
func withTenant(tenantID, userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTTenantIDKey, tenantID.String())
		c.Set(middleware.JWTUserIDKey, userID.String())
		c.Next()
	}
}

func TestHandleError_DomainErrors(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, "ERR_NOT_FOUND"},
		{"already exists", shared.ErrAlreadyExists, http.StatusConflict, "ERR_ALREADY_EXISTS"},
		{"concurrency conflict", shared.ErrConcurrencyConflict, http.StatusConflict, "ERR_CONCURRENCY_CONFLICT"},
		{"invalid state", shared.ErrInvalidState, http.StatusUnprocessableEntity, "ERR_INVALID_STATE"},
		{"empty invoice", shared.ErrEmptyInvoice, http.StatusUnprocessableEntity, "ERR_EMPTY_INVOICE"},
		{"has payments", shared.ErrHasPayments, http.StatusUnprocessableEntity, "ERR_HAS_PAYMENTS"},
		{"overpayment", shared.ErrOverpayment, http.StatusUnprocessableEntity, "ERR_OVERPAYMENT"},
		{"invalid input", shared.ErrInvalidInput, http.StatusBadRequest, "ERR_INVALID_INPUT"},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, "ERR_INTERNAL"},
	}

	h := &BaseHandler{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedCode)
		})
	}
}

func TestHandleError_WrappedDomainError(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	wrapped := shared.ErrNotFound.WithMessage("invoice not found")
	h.HandleError(c, wrapped)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "invoice not found")
}

func TestHandleError_InternalErrorHidesDetails(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.HandleError(c, errors.New("pq: connection refused at 10.0.0.5"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
}

func TestGetTenantID(t *testing.T) {
	tenantID := uuid.New()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(middleware.JWTTenantIDKey, tenantID.String())

	got, err := getTenantID(c)
	assert.NoError(t, err)
	assert.Equal(t, tenantID, got)
}

func TestGetTenantID_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := getTenantID(c)
	assert.Error(t, err)
}

func TestGetTenantID_HeaderFallback(t *testing.T) {
	tenantID := uuid.New()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("X-Tenant-ID", tenantID.String())

	got, err := getTenantID(c)
	assert.NoError(t, err)
	assert.Equal(t, tenantID, got)
}

func TestGetUserID_Optional(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, getUserID(c))

	userID := uuid.New()
	c.Set(middleware.JWTUserIDKey, userID.String())
	got := getUserID(c)
	assert.NotNil(t, got)
	assert.Equal(t, userID, *got)
}
