package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"vtribe/internal/app/apperr"
	"vtribe/internal/app/model"
	"vtribe/internal/app/storage"
)

// storage.ProductRepository interface implementation
var _ storage.ProductRepository = (*ProductRepository)(nil)

// storage.CategoryRepository interface implementation
var _ storage.CategoryRepository = (*CategoryRepository)(nil)

type ProductRepository struct {
	db *sql.DB
}

func (r *ProductRepository) LoggerComponent() string {
	return "ProductRepository"
}

func NewProductRepository(db *sql.DB) (*ProductRepository, error) {
	s := &ProductRepository{
		db: db,
	}
	return s, nil
}

const productColumns = `id, category_id, posted_by, title, price, commission, total_commission, status`

// Read implementation of interface storage.ProductRepository
func (r *ProductRepository) Read(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var SQL = `
		SELECT ` + productColumns + `
		FROM products
		WHERE id=$1
`
	return r.scanProduct(r.db.QueryRowContext(ctx, SQL, id))
}

// TxRead implementation of interface storage.ProductRepository
func (r *ProductRepository) TxRead(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*model.Product, error) {
	var SQL = `
		SELECT ` + productColumns + `
		FROM products
		WHERE id=$1
`
	return r.scanProduct(tx.QueryRowContext(ctx, SQL, id))
}

func (r *ProductRepository) scanProduct(row *sql.Row) (*model.Product, error) {
	m := &model.Product{}

	err := row.Scan(
		&m.ID, &m.CategoryID, &m.PostedBy, &m.Title,
		&m.Price, &m.Commission, &m.TotalCommission, &m.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("select: %w", err)
	}

	return m, nil
}

// TxAccrueCommission implementation of interface storage.ProductRepository
func (r *ProductRepository) TxAccrueCommission(ctx context.Context, tx *sql.Tx, id uuid.UUID, amount decimal.Decimal) error {
	const SQL = `UPDATE products SET total_commission=total_commission+$1 WHERE id=$2`

	res, err := tx.ExecContext(ctx, SQL, amount, id)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}

	return nil
}

type CategoryRepository struct {
	db *sql.DB
}

func (r *CategoryRepository) LoggerComponent() string {
	return "CategoryRepository"
}

func NewCategoryRepository(db *sql.DB) (*CategoryRepository, error) {
	s := &CategoryRepository{
		db: db,
	}
	return s, nil
}

// TxAccrueCommission implementation of interface storage.CategoryRepository
func (r *CategoryRepository) TxAccrueCommission(ctx context.Context, tx *sql.Tx, id uuid.UUID, amount decimal.Decimal) error {
	const SQL = `UPDATE categories SET commission=commission+$1 WHERE id=$2`

	res, err := tx.ExecContext(ctx, SQL, amount, id)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}

	return nil
}
