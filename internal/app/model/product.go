package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID         uuid.UUID       `json:"id"`
	CategoryID uuid.UUID       `json:"categoryId"`
	PostedBy   uuid.UUID       `json:"postedBy"`
	Title      string          `json:"title"`
	Price      decimal.Decimal `json:"price"`
	// Commission is the platform cut in percent of the order total.
	Commission      decimal.Decimal `json:"commission"`
	TotalCommission decimal.Decimal `json:"totalCommission"`
	Status          string          `json:"status"`
}

type Category struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Commission decimal.Decimal `json:"commission"`
}
