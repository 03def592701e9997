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
	"vtribe/internal/app/model"
	"vtribe/internal/app/storage"
)

// storage.UserRepository interface implementation
var _ storage.UserRepository = (*UserRepository)(nil)

type UserRepository struct {
	db *sql.DB
}

func (r *UserRepository) LoggerComponent() string {
	return "UserRepository"
}

func NewUserRepository(db *sql.DB) (*UserRepository, error) {
	s := &UserRepository{
		db: db,
	}
	return s, nil
}

// Create implementation of interface storage.UserRepository
func (r *UserRepository) Create(ctx context.Context, m *model.User) (*model.User, error) {
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

// TxCreate implementation of interface storage.UserRepository
func (r *UserRepository) TxCreate(ctx context.Context, tx *sql.Tx, m *model.User) (*model.User, error) {
	const SQL = `
		INSERT INTO users (email, first_name, last_name, password)
		VALUES ($1, $2, $3, crypt($4, gen_salt('bf')))
		RETURNING id, created_at
`

	err := tx.QueryRowContext(ctx, SQL, m.Email, m.FirstName, m.LastName, m.Password).Scan(&m.ID, &m.CreatedAt)
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

// Read implementation of interface storage.UserRepository
func (r *UserRepository) Read(ctx context.Context, id uuid.UUID) (*model.User, error) {
	const SQL = `
		SELECT id, created_at, email, first_name, last_name
		FROM users
		WHERE id=$1
`
	m := &model.User{}

	err := r.db.QueryRowContext(ctx, SQL, id).Scan(&m.ID, &m.CreatedAt, &m.Email, &m.FirstName, &m.LastName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("select: %w", err)
	}

	return m, nil
}

// ReadByEmailAndPassword implementation of interface storage.UserRepository
func (r *UserRepository) ReadByEmailAndPassword(ctx context.Context, email string, password string) (*model.User, error) {
	const SQL = `
		SELECT id, created_at, email, first_name, last_name
		FROM users
		WHERE email=$1
		AND password=crypt($2, password)
`
	m := &model.User{}

	err := r.db.QueryRowContext(ctx, SQL, email, password).Scan(&m.ID, &m.CreatedAt, &m.Email, &m.FirstName, &m.LastName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("select: %w", err)
	}

	return m, nil
}
