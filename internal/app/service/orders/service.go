package orders

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/xid"
	"github.com/shopspring/decimal"

	"vtribe/internal/app/apperr"
	"vtribe/internal/app/logger"
	"vtribe/internal/app/model"
	"vtribe/internal/app/notify"
	"vtribe/internal/app/service/funding"
	"vtribe/internal/app/storage"
)

// Service drives the order lifecycle:
// Pending -> Paid -> Shipped -> Completed, with an Appeal side branch.
// Every money or commission movement runs inside one serializable DB
// transaction, a failed transition leaves no partial state behind.
type Service struct {
	db           *sql.DB
	orders       storage.OrderRepository
	products     storage.ProductRepository
	categories   storage.CategoryRepository
	wallets      storage.WalletRepository
	transactions storage.TransactionRepository
	notifier     notify.Recorder
}

func (s *Service) LoggerComponent() string {
	return "Orders.Service"
}

func New(
	db *sql.DB,
	orders storage.OrderRepository,
	products storage.ProductRepository,
	categories storage.CategoryRepository,
	wallets storage.WalletRepository,
	transactions storage.TransactionRepository,
	notifier notify.Recorder,
) *Service {
	return &Service{
		db:           db,
		orders:       orders,
		products:     products,
		categories:   categories,
		wallets:      wallets,
		transactions: transactions,
		notifier:     notifier,
	}
}

type PlaceArgs struct {
	ProductID       uuid.UUID
	Quantity        int64
	Size            string
	DeliveryAddress model.DeliveryAddress
	PaymentOption   model.PaymentOption
	TotalPrice      decimal.Decimal
}

// Place validates the submitted total against the server side price and
// creates the order. With the wallet payment option the debit, the payment
// transaction record and the Paid status are applied atomically, so an
// insufficient balance rejects the whole placement.
func (s *Service) Place(ctx context.Context, u *model.User, args PlaceArgs) (*model.Order, error) {
	l := logger.Get(ctx, s).With().
		Str("user_id", u.ID.String()).
		Str("product_id", args.ProductID.String()).
		Logger()

	p, err := s.products.Read(ctx, args.ProductID)
	if err != nil {
		return nil, fmt.Errorf("product read: %w", err)
	}

	total := p.Price.Mul(decimal.NewFromInt(args.Quantity))
	if !total.Equal(args.TotalPrice) {
		l.Debug().
			Str("submitted", args.TotalPrice.String()).
			Str("computed", total.String()).
			Msg("Price mismatch")
		return nil, fmt.Errorf("price manipulation detected: %w", apperr.ErrConflict)
	}

	m := &model.Order{
		UserID:          u.ID,
		ProductID:       p.ID,
		Quantity:        args.Quantity,
		Size:            args.Size,
		DeliveryAddress: args.DeliveryAddress,
		PaymentOption:   args.PaymentOption,
		TotalPrice:      total,
		Status:          model.OrderStatusPending,
	}

	if args.PaymentOption != model.PaymentOptionWallet {
		// settlement happens out of band, the order waits in Pending
		if _, err := s.orders.Create(ctx, m); err != nil {
			return nil, fmt.Errorf("order create: %w", err)
		}

		s.notifier.Record(ctx, u.ID, "Order Placed",
			"Your order was placed successfully, please wait for the seller to send the delivery cost",
			model.NotificationCategoryAccountActivity)

		return m, nil
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
	})
	if err != nil {
		return nil, fmt.Errorf("tx begin: %w", err)
	}

	w, err := s.wallets.TxReadByUserIDForUpdate(ctx, tx, u.ID)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("wallet read: %w", err)
	}

	if err := s.wallets.TxDebit(ctx, tx, w.ID, total); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("wallet debit: %w", err)
	}

	m.Status = model.OrderStatusPaid
	if _, err := s.orders.TxCreate(ctx, tx, m); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("order create: %w", err)
	}

	_, err = s.transactions.TxCreate(ctx, tx, &model.Transaction{
		TransactionID: funding.ReferencePrefix + xid.New().String(),
		WalletID:      w.ID,
		SenderID:      u.ID,
		RecipientID:   p.PostedBy,
		Amount:        total,
		TypeID:        model.TransactionTypePayment,
		StatusID:      model.TransactionStatusSuccessful,
		Description:   fmt.Sprintf("Payment for order of %q", p.Title),
	})
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("transaction create: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("tx commit: %w", err)
	}

	l.Info().Str("order_id", m.ID.String()).Str("total", total.String()).Msg("Order placed and paid")

	s.notifier.Record(ctx, u.ID, "Order Placed",
		"Your order was placed and paid from your wallet balance",
		model.NotificationCategoryAccountActivity)

	return m, nil
}

type ShippingDetails struct {
	TrackingNumber string
	DeliveryFee    decimal.Decimal
	Images         []string
}

// SubmitShippingDetails attaches tracking data to a paid order. It is a
// precondition for Ship and does not change the order status itself.
func (s *Service) SubmitShippingDetails(ctx context.Context, orderID uuid.UUID, details ShippingDetails) error {
	m, err := s.orders.Read(ctx, orderID)
	if err != nil {
		return fmt.Errorf("order read: %w", err)
	}

	if m.Status != model.OrderStatusPaid {
		return fmt.Errorf("order is %s, expected %s: %w", m.Status, model.OrderStatusPaid, apperr.ErrConflict)
	}

	if details.TrackingNumber == "" {
		return fmt.Errorf("tracking number required: %w", apperr.ErrInvalidInput)
	}

	if err := s.orders.UpdateShipping(ctx, orderID, details.TrackingNumber, details.DeliveryFee, details.Images); err != nil {
		return fmt.Errorf("shipping update: %w", err)
	}

	return nil
}

// Ship moves a paid order with shipping details to Shipped and notifies the
// buyer.
func (s *Service) Ship(ctx context.Context, orderID uuid.UUID) error {
	m, err := s.orders.Read(ctx, orderID)
	if err != nil {
		return fmt.Errorf("order read: %w", err)
	}

	if m.Status != model.OrderStatusPaid {
		return fmt.Errorf("order is %s, expected %s: %w", m.Status, model.OrderStatusPaid, apperr.ErrConflict)
	}
	if m.TrackingNumber == "" {
		return fmt.Errorf("shipping details missing: %w", apperr.ErrConflict)
	}

	if err := s.orders.UpdateStatus(ctx, orderID, model.OrderStatusShipped); err != nil {
		return fmt.Errorf("status update: %w", err)
	}

	s.notifier.Record(ctx, m.UserID, "Order Shipped",
		"Your order was shipped successfully, please complete the order once you receive it",
		model.NotificationCategoryAccountActivity)

	return nil
}

// Complete moves a shipped order to Completed and accrues the commission to
// the product and its category. The order row is locked so the accrual runs
// exactly once, a repeated call fails with apperr.ErrAlreadyCompleted.
func (s *Service) Complete(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	l := logger.Get(ctx, s).With().Str("order_id", orderID.String()).Logger()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("tx begin: %w", err)
	}

	m, err := s.orders.TxReadForUpdate(ctx, tx, orderID)
	if err != nil {
		_ = tx.Rollback()
		return decimal.Zero, fmt.Errorf("order read: %w", err)
	}

	if m.Status == model.OrderStatusCompleted {
		_ = tx.Rollback()
		return decimal.Zero, apperr.ErrAlreadyCompleted
	}
	if m.Status != model.OrderStatusShipped {
		_ = tx.Rollback()
		return decimal.Zero, fmt.Errorf("order is %s, expected %s: %w", m.Status, model.OrderStatusShipped, apperr.ErrConflict)
	}

	p, err := s.products.TxRead(ctx, tx, m.ProductID)
	if err != nil {
		_ = tx.Rollback()
		return decimal.Zero, fmt.Errorf("product read: %w", err)
	}

	commission := m.TotalPrice.Mul(p.Commission).Div(decimal.NewFromInt(100))

	if err := s.orders.TxComplete(ctx, tx, m.ID, commission); err != nil {
		_ = tx.Rollback()
		return decimal.Zero, fmt.Errorf("order complete: %w", err)
	}

	if err := s.products.TxAccrueCommission(ctx, tx, p.ID, commission); err != nil {
		_ = tx.Rollback()
		return decimal.Zero, fmt.Errorf("product commission: %w", err)
	}

	if err := s.categories.TxAccrueCommission(ctx, tx, p.CategoryID, commission); err != nil {
		_ = tx.Rollback()
		return decimal.Zero, fmt.Errorf("category commission: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return decimal.Zero, fmt.Errorf("tx commit: %w", err)
	}

	l.Info().Str("commission", commission.String()).Msg("Order completed")

	s.notifier.Record(ctx, m.UserID, "Order Completed",
		"The order was completed successfully and the money has been released to the seller",
		model.NotificationCategoryAccountActivity)

	return commission, nil
}

// Appeal moves any non terminal order to the Appeal branch. Resolution is a
// manual process outside this service.
func (s *Service) Appeal(ctx context.Context, orderID uuid.UUID) error {
	m, err := s.orders.Read(ctx, orderID)
	if err != nil {
		return fmt.Errorf("order read: %w", err)
	}

	if m.Status.Terminal() || m.Status == model.OrderStatusAppeal {
		return fmt.Errorf("order is %s: %w", m.Status, apperr.ErrConflict)
	}

	if err := s.orders.UpdateStatus(ctx, orderID, model.OrderStatusAppeal); err != nil {
		return fmt.Errorf("status update: %w", err)
	}

	return nil
}

// Read returns a single order.
func (s *Service) Read(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	return s.orders.Read(ctx, orderID)
}

// AllByUser returns the user orders, newest first.
func (s *Service) AllByUser(ctx context.Context, userID uuid.UUID) ([]*model.Order, error) {
	return s.orders.AllByUserID(ctx, userID)
}

// AllByUserAndStatus returns the user orders filtered by status.
func (s *Service) AllByUserAndStatus(ctx context.Context, userID uuid.UUID, status model.OrderStatus) ([]*model.Order, error) {
	return s.orders.AllByUserIDAndStatus(ctx, userID, status)
}
