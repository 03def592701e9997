package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vtribe/internal/app/apperr"
	"vtribe/internal/app/model"
	storagemock "vtribe/internal/app/storage/mock"
)

func TestWalletBalance(t *testing.T) {
	user := &model.User{ID: uuid.New(), Email: "buyer@example.com"}

	t.Run("returns current balance", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		wallets := storagemock.NewMockWalletRepository(ctrl)
		wallets.EXPECT().ReadByUserID(gomock.Any(), user.ID).Return(&model.Wallet{
			ID:      uuid.New(),
			UserID:  user.ID,
			Balance: decimal.NewFromInt(1980),
		}, nil)

		h := NewWalletHandler(nil, wallets, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/user/wallet/balance", nil)
		req = req.WithContext(context.WithValue(req.Context(), ContextKeyUser{}, user))
		rec := httptest.NewRecorder()

		h.Balance(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		out := struct {
			Balance decimal.Decimal `json:"balance"`
		}{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		assert.True(t, out.Balance.Equal(decimal.NewFromInt(1980)))
	})

	t.Run("unauthorized without context user", func(t *testing.T) {
		h := NewWalletHandler(nil, nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/user/wallet/balance", nil)
		rec := httptest.NewRecorder()

		h.Balance(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestServiceErrorCode(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{apperr.ErrInvalidInput, http.StatusBadRequest},
		{apperr.ErrUnauthorized, http.StatusUnauthorized},
		{apperr.ErrInsufficientFunds, http.StatusPaymentRequired},
		{apperr.ErrNotFound, http.StatusNotFound},
		{apperr.ErrConflict, http.StatusConflict},
		{apperr.ErrAlreadyCompleted, http.StatusConflict},
		{apperr.ErrProviderUnavailable, http.StatusBadGateway},
		{assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.code, serviceErrorCode(tc.err), tc.err.Error())
	}
}
