package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	pg "github.com/lib/pq"

	"vtribe/internal/app/apperr"
	"vtribe/internal/app/logger"
	"vtribe/internal/app/model"
	"vtribe/internal/app/storage"
)

// storage.TransactionRepository interface implementation
var _ storage.TransactionRepository = (*TransactionRepository)(nil)

type TransactionRepository struct {
	db *sql.DB
}

func (r *TransactionRepository) LoggerComponent() string {
	return "TransactionRepository"
}

func NewTransactionRepository(db *sql.DB) (*TransactionRepository, error) {
	s := &TransactionRepository{
		db: db,
	}
	return s, nil
}

// Create implementation of interface storage.TransactionRepository
func (r *TransactionRepository) Create(ctx context.Context, m *model.Transaction) (*model.Transaction, error) {
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

// TxCreate implementation of interface storage.TransactionRepository
func (r *TransactionRepository) TxCreate(ctx context.Context, tx *sql.Tx, m *model.Transaction) (*model.Transaction, error) {
	l := logger.Ctx(ctx).With().
		Str("method", "TxCreate").
		Str("transaction_id", m.TransactionID).
		Logger()
	l.Debug().Msg("Creating transaction")

	if m.TransactionID == "" || !m.Amount.IsPositive() {
		return nil, apperr.ErrInvalidInput
	}

	if m.StatusID == 0 {
		m.StatusID = model.TransactionStatusProcessing
	}

	const SQL = `
		INSERT INTO transactions (transaction_id, wallet_id, sender_id, recipient_id, amount, type_id, status_id, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
`

	err := tx.QueryRowContext(ctx, SQL,
		m.TransactionID, m.WalletID, m.SenderID, m.RecipientID,
		m.Amount, m.TypeID, m.StatusID, m.Description,
	).Scan(&m.ID, &m.CreatedAt)
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

// TxReadByReferenceForUpdate implementation of interface storage.TransactionRepository
func (r *TransactionRepository) TxReadByReferenceForUpdate(ctx context.Context, tx *sql.Tx, reference string) (*model.Transaction, error) {
	const SQL = `
		SELECT id, created_at, transaction_id, wallet_id, sender_id, recipient_id, amount, type_id, status_id, description
		FROM transactions
		WHERE lower(transaction_id)=lower($1)
		FOR UPDATE
`
	m := &model.Transaction{}

	err := tx.QueryRowContext(ctx, SQL, reference).Scan(
		&m.ID, &m.CreatedAt, &m.TransactionID, &m.WalletID, &m.SenderID,
		&m.RecipientID, &m.Amount, &m.TypeID, &m.StatusID, &m.Description,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("select: %w", err)
	}

	return m, nil
}

// TxUpdateStatus implementation of interface storage.TransactionRepository
func (r *TransactionRepository) TxUpdateStatus(ctx context.Context, tx *sql.Tx, id uuid.UUID, status model.TransactionStatus) error {
	const SQL = `UPDATE transactions SET status_id=$1 WHERE id=$2`

	res, err := tx.ExecContext(ctx, SQL, status, id)
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

// AllByUserID implementation of interface storage.TransactionRepository
func (r *TransactionRepository) AllByUserID(ctx context.Context, userID uuid.UUID) ([]*model.Transaction, error) {
	l := logger.Ctx(ctx).With().Str("method", "AllByUserID").Logger()

	const SQL = `
		SELECT id, created_at, transaction_id, wallet_id, sender_id, recipient_id, amount, type_id, status_id, description
		FROM transactions
		WHERE sender_id=$1 OR recipient_id=$1
		ORDER BY created_at DESC
`
	res := make([]*model.Transaction, 0)

	rows, err := r.db.QueryContext(ctx, SQL, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return res, nil
		}
		return nil, fmt.Errorf("select: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		m := &model.Transaction{}
		if err := rows.Scan(
			&m.ID, &m.CreatedAt, &m.TransactionID, &m.WalletID, &m.SenderID,
			&m.RecipientID, &m.Amount, &m.TypeID, &m.StatusID, &m.Description,
		); err != nil {
			l.Debug().Err(err).Send()
			return nil, fmt.Errorf("scan: %w", err)
		}
		res = append(res, m)
	}

	return res, nil
}
