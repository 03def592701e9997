package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationCategoryAccountActivity = "ACCOUNT_ACTIVITY"
)

type Notification struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    uuid.UUID `json:"-"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Category  string    `json:"category"`
}
