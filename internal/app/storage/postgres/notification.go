package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"vtribe/internal/app/model"
	"vtribe/internal/app/storage"
)

// storage.NotificationRepository interface implementation
var _ storage.NotificationRepository = (*NotificationRepository)(nil)

type NotificationRepository struct {
	db *sql.DB
}

func (r *NotificationRepository) LoggerComponent() string {
	return "NotificationRepository"
}

func NewNotificationRepository(db *sql.DB) (*NotificationRepository, error) {
	s := &NotificationRepository{
		db: db,
	}
	return s, nil
}

// Create implementation of interface storage.NotificationRepository
func (r *NotificationRepository) Create(ctx context.Context, m *model.Notification) (*model.Notification, error) {
	const SQL = `
		INSERT INTO notifications (user_id, title, body, category)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
`

	err := r.db.QueryRowContext(ctx, SQL, m.UserID, m.Title, m.Body, m.Category).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert: %w", err)
	}

	return m, nil
}

// AllByUserID implementation of interface storage.NotificationRepository
func (r *NotificationRepository) AllByUserID(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error) {
	const SQL = `
		SELECT id, created_at, user_id, title, body, category
		FROM notifications
		WHERE user_id=$1
		ORDER BY created_at DESC
`
	res := make([]*model.Notification, 0)

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
		m := &model.Notification{}
		if err := rows.Scan(&m.ID, &m.CreatedAt, &m.UserID, &m.Title, &m.Body, &m.Category); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		res = append(res, m)
	}

	return res, nil
}
