package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet holds the internal balance of a single user. Balance is mutated only
// through the guarded credit/debit statements of the wallet repository.
type Wallet struct {
	ID        uuid.UUID       `json:"id"`
	CreatedAt time.Time       `json:"-"`
	UserID    uuid.UUID       `json:"-"`
	Balance   decimal.Decimal `json:"balance"`
}
