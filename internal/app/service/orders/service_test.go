package orders

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vtribe/internal/app/apperr"
	"vtribe/internal/app/model"
	storagemock "vtribe/internal/app/storage/mock"
)

type recorderStub struct{}

func (recorderStub) Record(context.Context, uuid.UUID, string, string, string) {}

type fixture struct {
	orders       *storagemock.MockOrderRepository
	products     *storagemock.MockProductRepository
	categories   *storagemock.MockCategoryRepository
	wallets      *storagemock.MockWalletRepository
	transactions *storagemock.MockTransactionRepository

	svc *Service
}

func newFixture(t *testing.T) (*fixture, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	ctrl := gomock.NewController(t)

	f := &fixture{
		orders:       storagemock.NewMockOrderRepository(ctrl),
		products:     storagemock.NewMockProductRepository(ctrl),
		categories:   storagemock.NewMockCategoryRepository(ctrl),
		wallets:      storagemock.NewMockWalletRepository(ctrl),
		transactions: storagemock.NewMockTransactionRepository(ctrl),
	}
	f.svc = New(db, f.orders, f.products, f.categories, f.wallets, f.transactions, recorderStub{})

	return f, mock, func() {
		ctrl.Finish()
		_ = db.Close()
	}
}

func testAddress() model.DeliveryAddress {
	return model.DeliveryAddress{
		FirstName:   "Ada",
		LastName:    "Obi",
		PhoneNumber: "+2348012345678",
		Street:      "1 Marina Rd",
		City:        "Lagos",
		State:       "Lagos",
	}
}

func TestPlace(t *testing.T) {
	buyer := &model.User{ID: uuid.New(), Email: "buyer@example.com"}
	seller := uuid.New()

	product := func() *model.Product {
		return &model.Product{
			ID:         uuid.New(),
			CategoryID: uuid.New(),
			PostedBy:   seller,
			Title:      "Leather Tote",
			Price:      decimal.NewFromInt(500),
			Commission: decimal.NewFromInt(5),
		}
	}

	t.Run("price mismatch rejected", func(t *testing.T) {
		f, _, closeFn := newFixture(t)
		defer closeFn()

		p := product()
		f.products.EXPECT().Read(gomock.Any(), p.ID).Return(p, nil)

		_, err := f.svc.Place(context.Background(), buyer, PlaceArgs{
			ProductID:       p.ID,
			Quantity:        2,
			DeliveryAddress: testAddress(),
			PaymentOption:   model.PaymentOptionWallet,
			TotalPrice:      decimal.NewFromInt(900),
		})
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})

	t.Run("wallet payment debits and records atomically", func(t *testing.T) {
		f, mock, closeFn := newFixture(t)
		defer closeFn()

		p := product()
		wallet := &model.Wallet{ID: uuid.New(), UserID: buyer.ID, Balance: decimal.NewFromInt(1000)}

		f.products.EXPECT().Read(gomock.Any(), p.ID).Return(p, nil)

		mock.ExpectBegin()
		mock.ExpectCommit()

		f.wallets.EXPECT().TxReadByUserIDForUpdate(gomock.Any(), gomock.Any(), buyer.ID).Return(wallet, nil)
		f.wallets.EXPECT().
			TxDebit(gomock.Any(), gomock.Any(), wallet.ID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sql.Tx, _ uuid.UUID, amount decimal.Decimal) error {
				assert.True(t, amount.Equal(decimal.NewFromInt(1000)))
				return nil
			})

		f.orders.EXPECT().
			TxCreate(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sql.Tx, m *model.Order) (*model.Order, error) {
				assert.Equal(t, model.OrderStatusPaid, m.Status)
				m.ID = uuid.New()
				return m, nil
			})

		f.transactions.EXPECT().
			TxCreate(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sql.Tx, m *model.Transaction) (*model.Transaction, error) {
				assert.Equal(t, model.TransactionTypePayment, m.TypeID)
				assert.Equal(t, model.TransactionStatusSuccessful, m.StatusID)
				assert.Equal(t, buyer.ID, m.SenderID)
				assert.Equal(t, seller, m.RecipientID)
				assert.True(t, m.Amount.Equal(decimal.NewFromInt(1000)))
				return m, nil
			})

		m, err := f.svc.Place(context.Background(), buyer, PlaceArgs{
			ProductID:       p.ID,
			Quantity:        2,
			DeliveryAddress: testAddress(),
			PaymentOption:   model.PaymentOptionWallet,
			TotalPrice:      decimal.NewFromInt(1000),
		})
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusPaid, m.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insufficient balance rolls everything back", func(t *testing.T) {
		f, mock, closeFn := newFixture(t)
		defer closeFn()

		p := product()
		wallet := &model.Wallet{ID: uuid.New(), UserID: buyer.ID, Balance: decimal.NewFromInt(100)}

		f.products.EXPECT().Read(gomock.Any(), p.ID).Return(p, nil)

		mock.ExpectBegin()
		mock.ExpectRollback()

		f.wallets.EXPECT().TxReadByUserIDForUpdate(gomock.Any(), gomock.Any(), buyer.ID).Return(wallet, nil)
		f.wallets.EXPECT().
			TxDebit(gomock.Any(), gomock.Any(), wallet.ID, gomock.Any()).
			Return(apperr.ErrInsufficientFunds)

		_, err := f.svc.Place(context.Background(), buyer, PlaceArgs{
			ProductID:       p.ID,
			Quantity:        2,
			DeliveryAddress: testAddress(),
			PaymentOption:   model.PaymentOptionWallet,
			TotalPrice:      decimal.NewFromInt(1000),
		})
		assert.ErrorIs(t, err, apperr.ErrInsufficientFunds)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-wallet payment stays pending", func(t *testing.T) {
		f, _, closeFn := newFixture(t)
		defer closeFn()

		p := product()
		f.products.EXPECT().Read(gomock.Any(), p.ID).Return(p, nil)
		f.orders.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, m *model.Order) (*model.Order, error) {
				assert.Equal(t, model.OrderStatusPending, m.Status)
				return m, nil
			})

		m, err := f.svc.Place(context.Background(), buyer, PlaceArgs{
			ProductID:       p.ID,
			Quantity:        2,
			DeliveryAddress: testAddress(),
			PaymentOption:   model.PaymentOptionBank,
			TotalPrice:      decimal.NewFromInt(1000),
		})
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusPending, m.Status)
	})
}

func TestShip(t *testing.T) {
	orderID := uuid.New()

	t.Run("requires shipping details", func(t *testing.T) {
		f, _, closeFn := newFixture(t)
		defer closeFn()

		f.orders.EXPECT().Read(gomock.Any(), orderID).Return(&model.Order{
			ID:     orderID,
			Status: model.OrderStatusPaid,
		}, nil)

		err := f.svc.Ship(context.Background(), orderID)
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})

	t.Run("moves paid order to shipped", func(t *testing.T) {
		f, _, closeFn := newFixture(t)
		defer closeFn()

		f.orders.EXPECT().Read(gomock.Any(), orderID).Return(&model.Order{
			ID:             orderID,
			Status:         model.OrderStatusPaid,
			TrackingNumber: "TRK-1",
		}, nil)
		f.orders.EXPECT().UpdateStatus(gomock.Any(), orderID, model.OrderStatusShipped).Return(nil)

		err := f.svc.Ship(context.Background(), orderID)
		assert.NoError(t, err)
	})
}

func TestComplete(t *testing.T) {
	orderID := uuid.New()
	productID := uuid.New()
	categoryID := uuid.New()

	shipped := func() *model.Order {
		return &model.Order{
			ID:         orderID,
			ProductID:  productID,
			Status:     model.OrderStatusShipped,
			TotalPrice: decimal.NewFromInt(1000),
		}
	}

	t.Run("accrues commission once", func(t *testing.T) {
		f, mock, closeFn := newFixture(t)
		defer closeFn()

		mock.ExpectBegin()
		mock.ExpectCommit()

		f.orders.EXPECT().TxReadForUpdate(gomock.Any(), gomock.Any(), orderID).Return(shipped(), nil)
		f.products.EXPECT().TxRead(gomock.Any(), gomock.Any(), productID).Return(&model.Product{
			ID:         productID,
			CategoryID: categoryID,
			Commission: decimal.NewFromInt(5),
		}, nil)

		f.orders.EXPECT().
			TxComplete(gomock.Any(), gomock.Any(), orderID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sql.Tx, _ uuid.UUID, commission decimal.Decimal) error {
				assert.True(t, commission.Equal(decimal.NewFromInt(50)), "5%% of 1000, got %s", commission)
				return nil
			})
		f.products.EXPECT().TxAccrueCommission(gomock.Any(), gomock.Any(), productID, gomock.Any()).Return(nil)
		f.categories.EXPECT().TxAccrueCommission(gomock.Any(), gomock.Any(), categoryID, gomock.Any()).Return(nil)

		commission, err := f.svc.Complete(context.Background(), orderID)
		require.NoError(t, err)
		assert.True(t, commission.Equal(decimal.NewFromInt(50)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repeated completion rejected", func(t *testing.T) {
		f, mock, closeFn := newFixture(t)
		defer closeFn()

		done := shipped()
		done.Status = model.OrderStatusCompleted

		mock.ExpectBegin()
		mock.ExpectRollback()

		f.orders.EXPECT().TxReadForUpdate(gomock.Any(), gomock.Any(), orderID).Return(done, nil)

		_, err := f.svc.Complete(context.Background(), orderID)
		assert.ErrorIs(t, err, apperr.ErrAlreadyCompleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unshipped order rejected", func(t *testing.T) {
		f, mock, closeFn := newFixture(t)
		defer closeFn()

		paid := shipped()
		paid.Status = model.OrderStatusPaid

		mock.ExpectBegin()
		mock.ExpectRollback()

		f.orders.EXPECT().TxReadForUpdate(gomock.Any(), gomock.Any(), orderID).Return(paid, nil)

		_, err := f.svc.Complete(context.Background(), orderID)
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})
}

func TestAppeal(t *testing.T) {
	orderID := uuid.New()

	t.Run("non-terminal order can appeal", func(t *testing.T) {
		f, _, closeFn := newFixture(t)
		defer closeFn()

		f.orders.EXPECT().Read(gomock.Any(), orderID).Return(&model.Order{
			ID:     orderID,
			Status: model.OrderStatusShipped,
		}, nil)
		f.orders.EXPECT().UpdateStatus(gomock.Any(), orderID, model.OrderStatusAppeal).Return(nil)

		err := f.svc.Appeal(context.Background(), orderID)
		assert.NoError(t, err)
	})

	t.Run("completed order cannot appeal", func(t *testing.T) {
		f, _, closeFn := newFixture(t)
		defer closeFn()

		f.orders.EXPECT().Read(gomock.Any(), orderID).Return(&model.Order{
			ID:     orderID,
			Status: model.OrderStatusCompleted,
		}, nil)

		err := f.svc.Appeal(context.Background(), orderID)
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})
}
