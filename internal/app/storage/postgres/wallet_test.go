package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vtribe/internal/app/apperr"
)

func newTestTx(t *testing.T) (*sql.Tx, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)

	return tx, mock, func() { _ = db.Close() }
}

func TestWalletRepositoryTxDebit(t *testing.T) {
	walletID := uuid.New()
	debitSQL := regexp.QuoteMeta(`UPDATE wallets SET balance=balance-$1 WHERE id=$2 AND balance>=$1`)
	existsSQL := regexp.QuoteMeta(`SELECT 1 FROM wallets WHERE id=$1`)

	t.Run("success", func(t *testing.T) {
		tx, mock, closeFn := newTestTx(t)
		defer closeFn()

		mock.ExpectExec(debitSQL).
			WithArgs(decimal.NewFromInt(500), walletID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		r := &WalletRepository{}
		err := r.TxDebit(context.Background(), tx, walletID, decimal.NewFromInt(500))
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insufficient funds", func(t *testing.T) {
		tx, mock, closeFn := newTestTx(t)
		defer closeFn()

		mock.ExpectExec(debitSQL).
			WithArgs(decimal.NewFromInt(500), walletID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(existsSQL).
			WithArgs(walletID).
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

		r := &WalletRepository{}
		err := r.TxDebit(context.Background(), tx, walletID, decimal.NewFromInt(500))
		assert.ErrorIs(t, err, apperr.ErrInsufficientFunds)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing wallet", func(t *testing.T) {
		tx, mock, closeFn := newTestTx(t)
		defer closeFn()

		mock.ExpectExec(debitSQL).
			WithArgs(decimal.NewFromInt(500), walletID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(existsSQL).
			WithArgs(walletID).
			WillReturnError(sql.ErrNoRows)

		r := &WalletRepository{}
		err := r.TxDebit(context.Background(), tx, walletID, decimal.NewFromInt(500))
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		tx, _, closeFn := newTestTx(t)
		defer closeFn()

		r := &WalletRepository{}
		err := r.TxDebit(context.Background(), tx, walletID, decimal.Zero)
		assert.ErrorIs(t, err, apperr.ErrInvalidInput)

		err = r.TxDebit(context.Background(), tx, walletID, decimal.NewFromInt(-5))
		assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	})
}

func TestWalletRepositoryTxCredit(t *testing.T) {
	walletID := uuid.New()
	creditSQL := regexp.QuoteMeta(`UPDATE wallets SET balance=balance+$1 WHERE id=$2`)

	t.Run("success", func(t *testing.T) {
		tx, mock, closeFn := newTestTx(t)
		defer closeFn()

		mock.ExpectExec(creditSQL).
			WithArgs(decimal.NewFromInt(1980), walletID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		r := &WalletRepository{}
		err := r.TxCredit(context.Background(), tx, walletID, decimal.NewFromInt(1980))
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing wallet", func(t *testing.T) {
		tx, mock, closeFn := newTestTx(t)
		defer closeFn()

		mock.ExpectExec(creditSQL).
			WithArgs(decimal.NewFromInt(100), walletID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		r := &WalletRepository{}
		err := r.TxCredit(context.Background(), tx, walletID, decimal.NewFromInt(100))
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		tx, _, closeFn := newTestTx(t)
		defer closeFn()

		r := &WalletRepository{}
		err := r.TxCredit(context.Background(), tx, walletID, decimal.Zero)
		assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	})
}
