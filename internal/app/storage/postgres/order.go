package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	pg "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"vtribe/internal/app/apperr"
	"vtribe/internal/app/logger"
	"vtribe/internal/app/model"
	"vtribe/internal/app/storage"
)

// storage.OrderRepository interface implementation
var _ storage.OrderRepository = (*OrderRepository)(nil)

const orderColumns = `id, created_at, updated_at, user_id, product_id, quantity, size,
		delivery_first_name, delivery_last_name, delivery_phone, delivery_street, delivery_city, delivery_state,
		payment_option, total_price, commission_amount, status, tracking_number, delivery_fee, images`

type OrderRepository struct {
	db *sql.DB
}

func (r *OrderRepository) LoggerComponent() string {
	return "OrderRepository"
}

func NewOrderRepository(db *sql.DB) (*OrderRepository, error) {
	s := &OrderRepository{
		db: db,
	}
	return s, nil
}

func scanOrder(row interface {
	Scan(dest ...interface{}) error
}) (*model.Order, error) {
	m := &model.Order{}
	err := row.Scan(
		&m.ID, &m.CreatedAt, &m.UpdatedAt, &m.UserID, &m.ProductID, &m.Quantity, &m.Size,
		&m.DeliveryAddress.FirstName, &m.DeliveryAddress.LastName, &m.DeliveryAddress.PhoneNumber,
		&m.DeliveryAddress.Street, &m.DeliveryAddress.City, &m.DeliveryAddress.State,
		&m.PaymentOption, &m.TotalPrice, &m.CommissionAmount, &m.Status,
		&m.TrackingNumber, &m.DeliveryFee, &m.Images,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Create implementation of interface storage.OrderRepository
func (r *OrderRepository) Create(ctx context.Context, m *model.Order) (*model.Order, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelDefault,
	})
	if err != nil {
		return nil, fmt.Errorf("tx begin: %w", err)
	}

	res, err := r.TxCreate(ctx, tx, m)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("tx commit: %w", err)
	}

	return res, nil
}

// TxCreate implementation of interface storage.OrderRepository
func (r *OrderRepository) TxCreate(ctx context.Context, tx *sql.Tx, m *model.Order) (*model.Order, error) {
	if m.Quantity <= 0 || !m.TotalPrice.IsPositive() {
		return nil, apperr.ErrInvalidInput
	}

	if m.Status == "" {
		m.Status = model.OrderStatusPending
	}

	const SQL = `
		INSERT INTO orders (user_id, product_id, quantity, size,
			delivery_first_name, delivery_last_name, delivery_phone, delivery_street, delivery_city, delivery_state,
			payment_option, total_price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
`

	err := tx.QueryRowContext(ctx, SQL,
		m.UserID, m.ProductID, m.Quantity, m.Size,
		m.DeliveryAddress.FirstName, m.DeliveryAddress.LastName, m.DeliveryAddress.PhoneNumber,
		m.DeliveryAddress.Street, m.DeliveryAddress.City, m.DeliveryAddress.State,
		m.PaymentOption, m.TotalPrice, m.Status,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if pgErr, ok := err.(*pg.Error); ok {
			if pgerrcode.IsIntegrityConstraintViolation(string(pgErr.Code)) {
				return nil, apperr.ErrConflict
			}
		}

		return nil, fmt.Errorf("insert: %w", err)
	}

	return m, nil
}

// Read implementation of interface storage.OrderRepository
func (r *OrderRepository) Read(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var SQL = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id=$1
`
	m, err := scanOrder(r.db.QueryRowContext(ctx, SQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("select: %w", err)
	}

	return m, nil
}

// TxReadForUpdate implementation of interface storage.OrderRepository
func (r *OrderRepository) TxReadForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*model.Order, error) {
	var SQL = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id=$1
		FOR UPDATE
`
	m, err := scanOrder(tx.QueryRowContext(ctx, SQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("select: %w", err)
	}

	return m, nil
}

// UpdateShipping implementation of interface storage.OrderRepository
func (r *OrderRepository) UpdateShipping(ctx context.Context, id uuid.UUID, trackingNumber string, deliveryFee decimal.Decimal, images []string) error {
	const SQL = `
		UPDATE orders
		SET tracking_number=$1, delivery_fee=$2, images=$3, updated_at=NOW()
		WHERE id=$4
`

	res, err := r.db.ExecContext(ctx, SQL, trackingNumber, deliveryFee, pg.StringArray(images), id)
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

// UpdateStatus implementation of interface storage.OrderRepository
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error {
	const SQL = `UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2`

	res, err := r.db.ExecContext(ctx, SQL, status, id)
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

// TxComplete implementation of interface storage.OrderRepository
func (r *OrderRepository) TxComplete(ctx context.Context, tx *sql.Tx, id uuid.UUID, commission decimal.Decimal) error {
	const SQL = `
		UPDATE orders
		SET status=$1, commission_amount=$2, updated_at=NOW()
		WHERE id=$3
`

	res, err := tx.ExecContext(ctx, SQL, model.OrderStatusCompleted, commission, id)
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

// AllByUserID implementation of interface storage.OrderRepository
func (r *OrderRepository) AllByUserID(ctx context.Context, userID uuid.UUID) ([]*model.Order, error) {
	var SQL = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id=$1
		ORDER BY created_at DESC
`
	return r.queryOrders(ctx, SQL, userID)
}

// AllByUserIDAndStatus implementation of interface storage.OrderRepository
func (r *OrderRepository) AllByUserIDAndStatus(ctx context.Context, userID uuid.UUID, status model.OrderStatus) ([]*model.Order, error) {
	var SQL = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id=$1 AND status=$2
		ORDER BY created_at DESC
`
	return r.queryOrders(ctx, SQL, userID, status)
}

func (r *OrderRepository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*model.Order, error) {
	l := logger.Ctx(ctx).With().Str("method", "queryOrders").Logger()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return make([]*model.Order, 0), nil
		}
		return nil, fmt.Errorf("select: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	res := make([]*model.Order, 0)

	for rows.Next() {
		m, err := scanOrder(rows)
		if err != nil {
			l.Debug().Err(err).Send()
			return nil, fmt.Errorf("scan: %w", err)
		}
		res = append(res, m)
	}

	return res, nil
}
