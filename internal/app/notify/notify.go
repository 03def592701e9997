package notify

import (
	"context"

	"github.com/google/uuid"

	"vtribe/internal/app/logger"
	"vtribe/internal/app/model"
	"vtribe/internal/app/storage"
)

// Recorder persists a user facing notification. Implementations must never
// block or fail the operation that triggered the notification.
type Recorder interface {
	Record(ctx context.Context, userID uuid.UUID, title, body, category string)
}

// Service interface implementation
var _ Recorder = (*Service)(nil)

type Service struct {
	notifications storage.NotificationRepository
}

func (s *Service) LoggerComponent() string {
	return "Notify.Service"
}

func New(notifications storage.NotificationRepository) *Service {
	return &Service{
		notifications: notifications,
	}
}

// Record stores the notification, logging failures instead of returning them.
func (s *Service) Record(ctx context.Context, userID uuid.UUID, title, body, category string) {
	l := logger.Get(ctx, s)

	_, err := s.notifications.Create(ctx, &model.Notification{
		UserID:   userID,
		Title:    title,
		Body:     body,
		Category: category,
	})
	if err != nil {
		l.Error().Err(err).
			Str("user_id", userID.String()).
			Str("title", title).
			Msg("Notification record failed")
	}
}
