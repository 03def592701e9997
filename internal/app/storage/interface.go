//go:generate mockgen -source=./interface.go -destination=./mock/storage.go -package=storagemock
package storage

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"vtribe/internal/app/model"
)

type UserRepository interface {
	// Create a new model.User
	Create(ctx context.Context, m *model.User) (*model.User, error)
	// TxCreate a new model.User within the tx
	TxCreate(ctx context.Context, tx *sql.Tx, m *model.User) (*model.User, error)
	// Read instance of model.User
	Read(ctx context.Context, id uuid.UUID) (*model.User, error)
	// ReadByEmailAndPassword instance of model.User
	ReadByEmailAndPassword(ctx context.Context, email string, password string) (*model.User, error)
}

// WalletRepository is the ledger primitive. Credits and debits are guarded,
// single statement updates so concurrent operations on the same wallet cannot
// lose updates or drive the balance negative.
type WalletRepository interface {
	// TxCreate a new model.Wallet within the tx
	TxCreate(ctx context.Context, tx *sql.Tx, m *model.Wallet) (*model.Wallet, error)
	// ReadByUserID instance of model.Wallet
	ReadByUserID(ctx context.Context, userID uuid.UUID) (*model.Wallet, error)
	// TxReadByUserIDForUpdate locks the wallet row for the duration of the tx
	TxReadByUserIDForUpdate(ctx context.Context, tx *sql.Tx, userID uuid.UUID) (*model.Wallet, error)
	// TxCredit increases the balance by amount, amount must be positive
	TxCredit(ctx context.Context, tx *sql.Tx, walletID uuid.UUID, amount decimal.Decimal) error
	// TxDebit decreases the balance by amount, failing when balance < amount
	TxDebit(ctx context.Context, tx *sql.Tx, walletID uuid.UUID, amount decimal.Decimal) error
}

type TransactionRepository interface {
	// Create a new model.Transaction
	Create(ctx context.Context, m *model.Transaction) (*model.Transaction, error)
	// TxCreate a new model.Transaction within the tx
	TxCreate(ctx context.Context, tx *sql.Tx, m *model.Transaction) (*model.Transaction, error)
	// TxReadByReferenceForUpdate locks and returns the transaction whose
	// external id matches reference case-insensitively
	TxReadByReferenceForUpdate(ctx context.Context, tx *sql.Tx, reference string) (*model.Transaction, error)
	// TxUpdateStatus moves the transaction to a new status
	TxUpdateStatus(ctx context.Context, tx *sql.Tx, id uuid.UUID, status model.TransactionStatus) error
	// AllByUserID returns transactions where the user is sender or recipient
	AllByUserID(ctx context.Context, userID uuid.UUID) ([]*model.Transaction, error)
}

type OrderRepository interface {
	// Create a new model.Order
	Create(ctx context.Context, m *model.Order) (*model.Order, error)
	// TxCreate a new model.Order within the tx
	TxCreate(ctx context.Context, tx *sql.Tx, m *model.Order) (*model.Order, error)
	// Read instance of model.Order
	Read(ctx context.Context, id uuid.UUID) (*model.Order, error)
	// TxReadForUpdate locks the order row for the duration of the tx
	TxReadForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*model.Order, error)
	// UpdateShipping attaches tracking number, delivery fee and proof images
	UpdateShipping(ctx context.Context, id uuid.UUID, trackingNumber string, deliveryFee decimal.Decimal, images []string) error
	// UpdateStatus moves the order to a new status
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error
	// TxComplete marks the order completed and stores the commission
	TxComplete(ctx context.Context, tx *sql.Tx, id uuid.UUID, commission decimal.Decimal) error
	// AllByUserID returns all orders of user, newest first
	AllByUserID(ctx context.Context, userID uuid.UUID) ([]*model.Order, error)
	// AllByUserIDAndStatus returns user orders filtered by status
	AllByUserIDAndStatus(ctx context.Context, userID uuid.UUID, status model.OrderStatus) ([]*model.Order, error)
}

type OfferRepository interface {
	// Create a new model.Offer
	Create(ctx context.Context, m *model.Offer) (*model.Offer, error)
	// Read instance of model.Offer
	Read(ctx context.Context, id uuid.UUID) (*model.Offer, error)
	// UpdateResponse stores the seller response on the offer
	UpdateResponse(ctx context.Context, id uuid.UUID, status model.OfferStatus, bestPrice decimal.NullDecimal) (*model.Offer, error)
	// AllByUserID returns offers made by the user
	AllByUserID(ctx context.Context, userID uuid.UUID) ([]*model.Offer, error)
	// AllByProductOwner returns offers received on products posted by owner
	AllByProductOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Offer, error)
}

type ProductRepository interface {
	// Read instance of model.Product
	Read(ctx context.Context, id uuid.UUID) (*model.Product, error)
	// TxRead instance of model.Product within the tx
	TxRead(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*model.Product, error)
	// TxAccrueCommission adds amount to the product running commission total
	TxAccrueCommission(ctx context.Context, tx *sql.Tx, id uuid.UUID, amount decimal.Decimal) error
}

type CategoryRepository interface {
	// TxAccrueCommission adds amount to the category running commission total
	TxAccrueCommission(ctx context.Context, tx *sql.Tx, id uuid.UUID, amount decimal.Decimal) error
}

type NotificationRepository interface {
	// Create a new model.Notification
	Create(ctx context.Context, m *model.Notification) (*model.Notification, error)
	// AllByUserID returns notifications of user, newest first
	AllByUserID(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error)
}
