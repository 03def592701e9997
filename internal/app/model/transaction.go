package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is a ledger entry. Once the status reaches a terminal state the
// record is never changed again.
type Transaction struct {
	ID            uuid.UUID
	CreatedAt     time.Time
	TransactionID string
	WalletID      uuid.UUID
	SenderID      uuid.UUID
	RecipientID   uuid.UUID
	Amount        decimal.Decimal
	TypeID        TransactionType
	StatusID      TransactionStatus
	Description   string
}

type TransactionType int

const (
	TransactionTypeFunding TransactionType = iota + 1
	TransactionTypeWithdrawal
	TransactionTypePayment
)

func (t TransactionType) String() string {
	switch t {
	case TransactionTypeFunding:
		return "Wallet Funding"
	case TransactionTypeWithdrawal:
		return "Wallet Withdrawal"
	case TransactionTypePayment:
		return "Wallet Payment"
	}
	return "Unknown"
}

type TransactionStatus int

const (
	TransactionStatusProcessing TransactionStatus = iota + 1
	TransactionStatusSuccessful
	TransactionStatusFailed
)

func (s TransactionStatus) String() string {
	switch s {
	case TransactionStatusProcessing:
		return "Processing"
	case TransactionStatusSuccessful:
		return "Successful"
	case TransactionStatusFailed:
		return "Failed"
	}
	return "Unknown"
}

// Terminal reports whether no further status transition is allowed.
func (s TransactionStatus) Terminal() bool {
	return s == TransactionStatusSuccessful || s == TransactionStatusFailed
}

// MarshalJSON implements the json.Marshaler interface.
func (m Transaction) MarshalJSON() ([]byte, error) {
	o := struct {
		TransactionID string          `json:"transactionId"`
		CreatedAt     time.Time       `json:"createdAt"`
		Amount        decimal.Decimal `json:"amount"`
		Type          string          `json:"transactionType"`
		Status        string          `json:"transactionStatus"`
		Description   string          `json:"description,omitempty"`
	}{
		TransactionID: m.TransactionID,
		CreatedAt:     m.CreatedAt,
		Amount:        m.Amount,
		Type:          m.TypeID.String(),
		Status:        m.StatusID.String(),
		Description:   m.Description,
	}

	return json.Marshal(o)
}
