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

func TestProductRepositoryRead(t *testing.T) {
	selectSQL := regexp.QuoteMeta(`SELECT id, category_id, posted_by, title, price, commission, total_commission, status FROM products WHERE id=$1`)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		id := uuid.New()
		categoryID := uuid.New()
		postedBy := uuid.New()

		mock.ExpectQuery(selectSQL).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "category_id", "posted_by", "title", "price",
				"commission", "total_commission", "status",
			}).AddRow(
				id, categoryID, postedBy, "Vintage denim jacket", "1000",
				"5", "0", "Active",
			))

		r, err := NewProductRepository(db)
		require.NoError(t, err)

		m, err := r.Read(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, m.ID)
		assert.Equal(t, postedBy, m.PostedBy)
		assert.Equal(t, "Active", m.Status)
		assert.True(t, m.Price.Equal(decimal.NewFromInt(1000)))
		assert.True(t, m.Commission.Equal(decimal.NewFromInt(5)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		id := uuid.New()

		mock.ExpectQuery(selectSQL).
			WithArgs(id).
			WillReturnError(sql.ErrNoRows)

		r, err := NewProductRepository(db)
		require.NoError(t, err)

		_, err = r.Read(context.Background(), id)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestProductRepositoryTxRead(t *testing.T) {
	selectSQL := regexp.QuoteMeta(`SELECT id, category_id, posted_by, title, price, commission, total_commission, status FROM products WHERE id=$1`)

	tx, mock, closeFn := newTestTx(t)
	defer closeFn()

	id := uuid.New()

	mock.ExpectQuery(selectSQL).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "category_id", "posted_by", "title", "price",
			"commission", "total_commission", "status",
		}).AddRow(
			id, uuid.New(), uuid.New(), "Vintage denim jacket", "1000",
			"5", "250", "Active",
		))

	r := &ProductRepository{}
	m, err := r.TxRead(context.Background(), tx, id)
	require.NoError(t, err)
	assert.Equal(t, id, m.ID)
	assert.True(t, m.TotalCommission.Equal(decimal.NewFromInt(250)))
	assert.NoError(t, mock.ExpectationsWereMet())
}
