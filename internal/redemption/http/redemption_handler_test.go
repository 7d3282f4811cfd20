package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/nailbliss/stampcard/internal/auth/domain"
	authHTTP "github.com/nailbliss/stampcard/internal/auth/http"
	"github.com/nailbliss/stampcard/internal/httputil"
	loyaltyDomain "github.com/nailbliss/stampcard/internal/loyalty/domain"
	qrtokenDomain "github.com/nailbliss/stampcard/internal/qrtoken/domain"
	redemptionDomain "github.com/nailbliss/stampcard/internal/redemption/domain"
	"github.com/nailbliss/stampcard/internal/redemption/http/dto"
	"github.com/nailbliss/stampcard/internal/redemption/usecase/mocks"
)

func setupTestHandler(t *testing.T, identity *authDomain.Identity) (*gin.Engine, *mocks.MockRedemptionUseCase) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	useCase := &mocks.MockRedemptionUseCase{}
	handler := NewRedemptionHandler(useCase, slog.New(slog.NewTextHandler(io.Discard, nil)))

	withIdentity := func(c *gin.Context) {
		if identity != nil {
			c.Request = c.Request.WithContext(authHTTP.WithIdentity(c.Request.Context(), identity))
		}
		c.Next()
	}

	router := gin.New()
	router.POST("/v1/redemptions/scan", withIdentity, handler.ScanHandler)
	router.GET("/v1/redemptions/current", withIdentity, handler.CurrentHandler)
	router.POST("/v1/redemptions/current/confirm", withIdentity, handler.ConfirmHandler)
	router.POST("/v1/redemptions/current/cancel", withIdentity, handler.CancelHandler)
	return router, useCase
}

func newAttempt(staffID uuid.UUID, points int) *redemptionDomain.Attempt {
	customerID := uuid.New()
	return &redemptionDomain.Attempt{
		ID:         uuid.New(),
		CustomerID: customerID,
		StaffID:    staffID,
		Status:     redemptionDomain.StatusPendingConfirmation,
		IssuedAt:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		TokenAge:   1500 * time.Millisecond,
		ScannedAt:  time.Date(2024, 5, 1, 12, 0, 1, 500, time.UTC),
		Snapshot: &loyaltyDomain.CustomerSnapshot{
			Profile: &loyaltyDomain.Profile{ID: customerID, Username: "ana"},
			Card:    &loyaltyDomain.LoyaltyCard{CustomerID: customerID, Points: points},
		},
		Token: "raw-token",
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var body httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRedemptionHandler_ScanHandler(t *testing.T) {
	staff := &authDomain.Identity{ID: uuid.New(), Role: authDomain.RoleStaff}

	t.Run("Success", func(t *testing.T) {
		router, useCase := setupTestHandler(t, staff)
		attempt := newAttempt(staff.ID, 3)
		useCase.On("Scan", mock.Anything, staff, "raw-token").Return(attempt, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/redemptions/scan",
			bytes.NewBufferString(`{"token":"raw-token"}`))
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		var body dto.AttemptResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, attempt.ID.String(), body.ID)
		assert.Equal(t, "pending_confirmation", body.Status)
		assert.Equal(t, int64(1500), body.TokenAgeMS)
		require.NotNil(t, body.Customer)
		assert.Equal(t, "ana", body.Customer.Profile.DisplayName)
		assert.Equal(t, 3, body.Customer.Card.Points)
		assert.NotContains(t, w.Body.String(), "raw-token")
	})

	t.Run("MissingToken", func(t *testing.T) {
		router, useCase := setupTestHandler(t, staff)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/redemptions/scan", bytes.NewBufferString(`{"token":"  "}`))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		useCase.AssertNotCalled(t, "Scan", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		router, _ := setupTestHandler(t, staff)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/redemptions/scan", bytes.NewBufferString(`{`))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("ExpiredCode", func(t *testing.T) {
		router, useCase := setupTestHandler(t, staff)
		useCase.On("Scan", mock.Anything, staff, "old").Return(nil, qrtokenDomain.ErrExpiredToken)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/redemptions/scan", bytes.NewBufferString(`{"token":"old"}`))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "expired_code", body.Error)
		assert.Equal(t, "Invalid or expired code", body.Message)
	})

	t.Run("Busy", func(t *testing.T) {
		router, useCase := setupTestHandler(t, staff)
		useCase.On("Scan", mock.Anything, staff, "raw").Return(nil, redemptionDomain.ErrRedemptionBusy)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/redemptions/scan", bytes.NewBufferString(`{"token":"raw"}`))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "redemption_in_progress", decodeError(t, w).Error)
	})

	t.Run("SignedOut", func(t *testing.T) {
		router, _ := setupTestHandler(t, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/redemptions/scan", bytes.NewBufferString(`{"token":"raw"}`))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRedemptionHandler_CurrentHandler(t *testing.T) {
	staff := &authDomain.Identity{ID: uuid.New(), Role: authDomain.RoleStaff}

	t.Run("Pending", func(t *testing.T) {
		router, useCase := setupTestHandler(t, staff)
		attempt := newAttempt(staff.ID, 1)
		attempt.LastError = "Failed to add loyalty point. Please try again."
		useCase.On("Current", mock.Anything, staff).Return(attempt, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/redemptions/current", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var body dto.AttemptResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, attempt.LastError, body.LastError)
	})

	t.Run("None", func(t *testing.T) {
		router, useCase := setupTestHandler(t, staff)
		useCase.On("Current", mock.Anything, staff).Return(nil, redemptionDomain.ErrNoAttempt)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/redemptions/current", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "no_attempt", decodeError(t, w).Error)
	})
}

func TestRedemptionHandler_ConfirmHandler(t *testing.T) {
	staff := &authDomain.Identity{ID: uuid.New(), Role: authDomain.RoleStaff}

	t.Run("Success", func(t *testing.T) {
		router, useCase := setupTestHandler(t, staff)
		attempt := newAttempt(staff.ID, 4)
		attempt.Status = redemptionDomain.StatusConfirmed
		after := &loyaltyDomain.CustomerSnapshot{
			Profile: attempt.Snapshot.Profile,
			Card:    &loyaltyDomain.LoyaltyCard{CustomerID: attempt.CustomerID, Points: 5},
		}
		useCase.On("Confirm", mock.Anything, staff).Return(&redemptionDomain.Result{Attempt: attempt, Snapshot: after}, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/redemptions/current/confirm", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var body dto.ResultResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "confirmed", body.Attempt.Status)
		require.NotNil(t, body.Customer)
		assert.Equal(t, 5, body.Customer.Card.Points)
		assert.True(t, body.Customer.Card.RewardReady)
	})

	t.Run("RefreshFailed", func(t *testing.T) {
		router, useCase := setupTestHandler(t, staff)
		attempt := newAttempt(staff.ID, 2)
		attempt.Status = redemptionDomain.StatusConfirmed
		useCase.On("Confirm", mock.Anything, staff).Return(&redemptionDomain.Result{Attempt: attempt}, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/redemptions/current/confirm", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"customer":null`)
	})

	t.Run("NotAuthorized", func(t *testing.T) {
		router, useCase := setupTestHandler(t, staff)
		useCase.On("Confirm", mock.Anything, staff).Return(nil, loyaltyDomain.ErrStaffNotAuthorized)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/redemptions/current/confirm", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "not_authorized", body.Error)
		assert.Equal(t, "You are not authorized to add stamps", body.Message)
	})

	t.Run("CreditFailed", func(t *testing.T) {
		router, useCase := setupTestHandler(t, staff)
		useCase.On("Confirm", mock.Anything, staff).Return(nil, loyaltyDomain.ErrCreditFailed)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/redemptions/current/confirm", nil))

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, "credit_failed", decodeError(t, w).Error)
	})
}

func TestRedemptionHandler_CancelHandler(t *testing.T) {
	staff := &authDomain.Identity{ID: uuid.New(), Role: authDomain.RoleStaff}
	router, useCase := setupTestHandler(t, staff)
	attempt := newAttempt(staff.ID, 2)
	attempt.Status = redemptionDomain.StatusCancelled
	useCase.On("Cancel", mock.Anything, staff).Return(attempt, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/redemptions/current/cancel", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body dto.AttemptResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "cancelled", body.Status)
}
