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

// storage.OfferRepository interface implementation
var _ storage.OfferRepository = (*OfferRepository)(nil)

type OfferRepository struct {
	db *sql.DB
}

func (r *OfferRepository) LoggerComponent() string {
	return "OfferRepository"
}

func NewOfferRepository(db *sql.DB) (*OfferRepository, error) {
	s := &OfferRepository{
		db: db,
	}
	return s, nil
}

// Create implementation of interface storage.OfferRepository
func (r *OfferRepository) Create(ctx context.Context, m *model.Offer) (*model.Offer, error) {
	if !m.OfferPrice.IsPositive() {
		return nil, apperr.ErrInvalidInput
	}

	if m.Status == "" {
		m.Status = model.OfferStatusPending
	}

	const SQL = `
		INSERT INTO offers (product_id, user_id, offer_price, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
`

	err := r.db.QueryRowContext(ctx, SQL, m.ProductID, m.UserID, m.OfferPrice, m.Status).Scan(&m.ID, &m.CreatedAt)
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

// Read implementation of interface storage.OfferRepository
func (r *OfferRepository) Read(ctx context.Context, id uuid.UUID) (*model.Offer, error) {
	const SQL = `
		SELECT id, created_at, product_id, user_id, offer_price, status, best_price
		FROM offers
		WHERE id=$1
`
	m := &model.Offer{}

	err := r.db.QueryRowContext(ctx, SQL, id).Scan(
		&m.ID, &m.CreatedAt, &m.ProductID, &m.UserID, &m.OfferPrice, &m.Status, &m.BestPrice,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("select: %w", err)
	}

	return m, nil
}

// UpdateResponse implementation of interface storage.OfferRepository
func (r *OfferRepository) UpdateResponse(ctx context.Context, id uuid.UUID, status model.OfferStatus, bestPrice decimal.NullDecimal) (*model.Offer, error) {
	const SQL = `
		UPDATE offers
		SET status=$1, best_price=COALESCE($2, best_price)
		WHERE id=$3
		RETURNING id, created_at, product_id, user_id, offer_price, status, best_price
`
	m := &model.Offer{}

	err := r.db.QueryRowContext(ctx, SQL, status, bestPrice, id).Scan(
		&m.ID, &m.CreatedAt, &m.ProductID, &m.UserID, &m.OfferPrice, &m.Status, &m.BestPrice,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("update: %w", err)
	}

	return m, nil
}

// AllByUserID implementation of interface storage.OfferRepository
func (r *OfferRepository) AllByUserID(ctx context.Context, userID uuid.UUID) ([]*model.Offer, error) {
	const SQL = `
		SELECT id, created_at, product_id, user_id, offer_price, status, best_price
		FROM offers
		WHERE user_id=$1
		ORDER BY created_at DESC
`
	return r.queryOffers(ctx, SQL, userID)
}

// AllByProductOwner implementation of interface storage.OfferRepository
func (r *OfferRepository) AllByProductOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Offer, error) {
	const SQL = `
		SELECT o.id, o.created_at, o.product_id, o.user_id, o.offer_price, o.status, o.best_price
		FROM offers o
		JOIN products p ON p.id=o.product_id
		WHERE p.posted_by=$1
		ORDER BY o.created_at DESC
`
	return r.queryOffers(ctx, SQL, ownerID)
}

func (r *OfferRepository) queryOffers(ctx context.Context, query string, args ...interface{}) ([]*model.Offer, error) {
	l := logger.Ctx(ctx).With().Str("method", "queryOffers").Logger()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return make([]*model.Offer, 0), nil
		}
		return nil, fmt.Errorf("select: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	res := make([]*model.Offer, 0)

	for rows.Next() {
		m := &model.Offer{}
		if err := rows.Scan(
			&m.ID, &m.CreatedAt, &m.ProductID, &m.UserID, &m.OfferPrice, &m.Status, &m.BestPrice,
		); err != nil {
			l.Debug().Err(err).Send()
			return nil, fmt.Errorf("scan: %w", err)
		}
		res = append(res, m)
	}

	return res, nil
}
