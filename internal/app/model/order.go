package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusPaid      OrderStatus = "Paid"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusCompleted OrderStatus = "Completed"
	OrderStatusAppeal    OrderStatus = "Appeal"
	OrderStatusFailed    OrderStatus = "Failed"
)

// Terminal reports whether no further automated transition is defined.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusFailed
}

type PaymentOption string

const (
	PaymentOptionWallet PaymentOption = "Wallet Balance"
	PaymentOptionCrypto PaymentOption = "Crypto-Currency"
	PaymentOptionBank   PaymentOption = "Bank Transfer"
)

type DeliveryAddress struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Street      string `json:"street" validate:"required"`
	City        string `json:"city" validate:"required"`
	State       string `json:"state" validate:"required"`
}

// Order tracks a buyer's purchase of one product through the order lifecycle.
// Orders are never deleted, they form the audit trail.
type Order struct {
	ID               uuid.UUID           `json:"id"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"-"`
	UserID           uuid.UUID           `json:"-"`
	ProductID        uuid.UUID           `json:"productId"`
	Quantity         int64               `json:"orderQuantity"`
	Size             string              `json:"size"`
	DeliveryAddress  DeliveryAddress     `json:"deliveryAddress"`
	PaymentOption    PaymentOption       `json:"paymentOption"`
	TotalPrice       decimal.Decimal     `json:"totalPrice"`
	CommissionAmount decimal.NullDecimal `json:"commissionAmount,omitempty"`
	Status           OrderStatus         `json:"status"`
	TrackingNumber   string              `json:"trackingNumber,omitempty"`
	DeliveryFee      decimal.NullDecimal `json:"deliveryFee,omitempty"`
	Images           pq.StringArray      `json:"images,omitempty"`
}
