package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vtribe/internal/app/apperr"
	"vtribe/internal/app/model"
)

func TestTransactionRepositoryTxCreate(t *testing.T) {
	insertSQL := regexp.QuoteMeta(`INSERT INTO transactions`)

	t.Run("success defaults to processing", func(t *testing.T) {
		tx, mock, closeFn := newTestTx(t)
		defer closeFn()

		m := &model.Transaction{
			TransactionID: "VTRIBE_TX_abc123",
			WalletID:      uuid.New(),
			SenderID:      uuid.New(),
			RecipientID:   uuid.New(),
			Amount:        decimal.NewFromInt(2000),
			TypeID:        model.TransactionTypeFunding,
			Description:   "Funded wallet with paystack",
		}

		mock.ExpectQuery(insertSQL).
			WithArgs(m.TransactionID, m.WalletID, m.SenderID, m.RecipientID,
				m.Amount, m.TypeID, model.TransactionStatusProcessing, m.Description).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).
				AddRow(uuid.New(), time.Now()))

		r := &TransactionRepository{}
		res, err := r.TxCreate(context.Background(), tx, m)
		require.NoError(t, err)
		assert.Equal(t, model.TransactionStatusProcessing, res.StatusID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty reference rejected", func(t *testing.T) {
		tx, _, closeFn := newTestTx(t)
		defer closeFn()

		r := &TransactionRepository{}
		_, err := r.TxCreate(context.Background(), tx, &model.Transaction{
			Amount: decimal.NewFromInt(100),
		})
		assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		tx, _, closeFn := newTestTx(t)
		defer closeFn()

		r := &TransactionRepository{}
		_, err := r.TxCreate(context.Background(), tx, &model.Transaction{
			TransactionID: "VTRIBE_TX_abc123",
			Amount:        decimal.Zero,
		})
		assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	})
}

func TestTransactionRepositoryTxReadByReferenceForUpdate(t *testing.T) {
	selectSQL := regexp.QuoteMeta(`WHERE lower(transaction_id)=lower($1)`)

	t.Run("found case-insensitively", func(t *testing.T) {
		tx, mock, closeFn := newTestTx(t)
		defer closeFn()

		id := uuid.New()
		walletID := uuid.New()
		userID := uuid.New()

		mock.ExpectQuery(selectSQL).
			WithArgs("vtribe_tx_ABC123").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "created_at", "transaction_id", "wallet_id", "sender_id",
				"recipient_id", "amount", "type_id", "status_id", "description",
			}).AddRow(
				id, time.Now(), "VTRIBE_TX_abc123", walletID, userID,
				userID, "2000", int(model.TransactionTypeFunding), int(model.TransactionStatusProcessing), "",
			))

		r := &TransactionRepository{}
		m, err := r.TxReadByReferenceForUpdate(context.Background(), tx, "vtribe_tx_ABC123")
		require.NoError(t, err)
		assert.Equal(t, id, m.ID)
		assert.Equal(t, "VTRIBE_TX_abc123", m.TransactionID)
		assert.True(t, m.Amount.Equal(decimal.NewFromInt(2000)))
	})

	t.Run("not found", func(t *testing.T) {
		tx, mock, closeFn := newTestTx(t)
		defer closeFn()

		mock.ExpectQuery(selectSQL).
			WithArgs("VTRIBE_TX_missing").
			WillReturnError(sql.ErrNoRows)

		r := &TransactionRepository{}
		_, err := r.TxReadByReferenceForUpdate(context.Background(), tx, "VTRIBE_TX_missing")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}
