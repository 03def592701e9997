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

// storage.WalletRepository interface implementation
var _ storage.WalletRepository = (*WalletRepository)(nil)

type WalletRepository struct {
	db *sql.DB
}

func (r *WalletRepository) LoggerComponent() string {
	return "WalletRepository"
}

func NewWalletRepository(db *sql.DB) (*WalletRepository, error) {
	s := &WalletRepository{
		db: db,
	}
	return s, nil
}

// TxCreate implementation of interface storage.WalletRepository
func (r *WalletRepository) TxCreate(ctx context.Context, tx *sql.Tx, m *model.Wallet) (*model.Wallet, error) {
	const SQL = `
		INSERT INTO wallets (user_id, balance)
		VALUES ($1, $2)
		RETURNING id, created_at
`

	err := tx.QueryRowContext(ctx, SQL, m.UserID, m.Balance).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert: %w", err)
	}

	return m, nil
}

// ReadByUserID implementation of interface storage.WalletRepository
func (r *WalletRepository) ReadByUserID(ctx context.Context, userID uuid.UUID) (*model.Wallet, error) {
	const SQL = `
		SELECT id, created_at, user_id, balance
		FROM wallets
		WHERE user_id=$1
`
	m := &model.Wallet{}

	err := r.db.QueryRowContext(ctx, SQL, userID).Scan(&m.ID, &m.CreatedAt, &m.UserID, &m.Balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("select: %w", err)
	}

	return m, nil
}

// TxReadByUserIDForUpdate implementation of interface storage.WalletRepository
func (r *WalletRepository) TxReadByUserIDForUpdate(ctx context.Context, tx *sql.Tx, userID uuid.UUID) (*model.Wallet, error) {
	const SQL = `
		SELECT id, created_at, user_id, balance
		FROM wallets
		WHERE user_id=$1
		FOR UPDATE
`
	m := &model.Wallet{}

	err := tx.QueryRowContext(ctx, SQL, userID).Scan(&m.ID, &m.CreatedAt, &m.UserID, &m.Balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("select: %w", err)
	}

	return m, nil
}

// TxCredit implementation of interface storage.WalletRepository
func (r *WalletRepository) TxCredit(ctx context.Context, tx *sql.Tx, walletID uuid.UUID, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperr.ErrInvalidInput
	}

	const SQL = `UPDATE wallets SET balance=balance+$1 WHERE id=$2`

	res, err := tx.ExecContext(ctx, SQL, amount, walletID)
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

// TxDebit implementation of interface storage.WalletRepository
func (r *WalletRepository) TxDebit(ctx context.Context, tx *sql.Tx, walletID uuid.UUID, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperr.ErrInvalidInput
	}

	// The balance predicate is evaluated atomically with the write, two
	// concurrent debits against a low balance cannot both succeed.
	const SQL = `UPDATE wallets SET balance=balance-$1 WHERE id=$2 AND balance>=$1`

	res, err := tx.ExecContext(ctx, SQL, amount, walletID)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		const sqlExists = `SELECT 1 FROM wallets WHERE id=$1`
		var one int
		if err := tx.QueryRowContext(ctx, sqlExists, walletID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.ErrNotFound
			}
			return fmt.Errorf("select: %w", err)
		}
		return apperr.ErrInsufficientFunds
	}

	return nil
}
