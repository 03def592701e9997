package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OfferStatus string

const (
	OfferStatusPending  OfferStatus = "Pending"
	OfferStatusAccepted OfferStatus = "Accepted"
	OfferStatusDeclined OfferStatus = "Declined"
)

// Offer is a buyer proposed price for a product. Accepting an offer moves no
// money, it only records the negotiated price for a later order placement.
type Offer struct {
	ID         uuid.UUID           `json:"id"`
	CreatedAt  time.Time           `json:"createdAt"`
	ProductID  uuid.UUID           `json:"productId"`
	UserID     uuid.UUID           `json:"userId"`
	OfferPrice decimal.Decimal     `json:"offerPrice"`
	Status     OfferStatus         `json:"status"`
	BestPrice  decimal.NullDecimal `json:"bestPrice,omitempty"`
}
