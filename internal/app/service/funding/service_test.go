package funding

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vtribe/internal/app/apperr"
	"vtribe/internal/app/model"
	fundingmock "vtribe/internal/app/service/funding/mock"
	storagemock "vtribe/internal/app/storage/mock"
	"vtribe/pkg/paystack"
)

type recorderStub struct {
	messages []string
}

func (r *recorderStub) Record(_ context.Context, _ uuid.UUID, _ string, message string, _ string) {
	r.messages = append(r.messages, message)
}

type fixture struct {
	provider     *fundingmock.MockProvider
	wallets      *storagemock.MockWalletRepository
	transactions *storagemock.MockTransactionRepository
	notes        *recorderStub

	svc *Service
}

func newFixture(t *testing.T, feePercent int64) (*fixture, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	ctrl := gomock.NewController(t)

	f := &fixture{
		provider:     fundingmock.NewMockProvider(ctrl),
		wallets:      storagemock.NewMockWalletRepository(ctrl),
		transactions: storagemock.NewMockTransactionRepository(ctrl),
		notes:        &recorderStub{},
	}
	f.svc = New(db, f.provider, f.wallets, f.transactions, f.notes, feePercent, 100)

	return f, mock, func() {
		ctrl.Finish()
		_ = db.Close()
	}
}

func TestInitiate(t *testing.T) {
	user := &model.User{ID: uuid.New(), Email: "buyer@example.com"}
	wallet := &model.Wallet{ID: uuid.New(), UserID: user.ID}

	t.Run("below minimum rejected", func(t *testing.T) {
		f, _, closeFn := newFixture(t, 1)
		defer closeFn()

		_, err := f.svc.Initiate(context.Background(), user, decimal.NewFromInt(50))
		assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	})

	t.Run("fractional amount rejected", func(t *testing.T) {
		f, _, closeFn := newFixture(t, 1)
		defer closeFn()

		_, err := f.svc.Initiate(context.Background(), user, decimal.NewFromFloat(150.75))
		assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	})

	t.Run("creates processing transaction", func(t *testing.T) {
		f, _, closeFn := newFixture(t, 1)
		defer closeFn()

		f.wallets.EXPECT().ReadByUserID(gomock.Any(), user.ID).Return(wallet, nil)

		f.provider.EXPECT().
			InitializeTransaction(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in *paystack.InitializeRequest, out *paystack.InitializeResponse) error {
				assert.Equal(t, user.Email, in.Email)
				assert.Equal(t, int64(2000), in.Amount)
				out.Status = true
				out.Data.AuthorizationURL = "https://checkout.paystack.com/xyz"
				out.Data.Reference = in.Reference
				return nil
			})

		f.transactions.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, m *model.Transaction) (*model.Transaction, error) {
				assert.Equal(t, model.TransactionStatusProcessing, m.StatusID)
				assert.Equal(t, model.TransactionTypeFunding, m.TypeID)
				assert.Equal(t, wallet.ID, m.WalletID)
				assert.True(t, m.Amount.Equal(decimal.NewFromInt(2000)))
				return m, nil
			})

		intent, err := f.svc.Initiate(context.Background(), user, decimal.NewFromInt(2000))
		require.NoError(t, err)
		assert.Equal(t, "https://checkout.paystack.com/xyz", intent.AuthorizationURL)
		assert.NotEmpty(t, intent.Reference)
	})

	t.Run("breaker open maps to provider unavailable", func(t *testing.T) {
		f, _, closeFn := newFixture(t, 1)
		defer closeFn()

		f.wallets.EXPECT().ReadByUserID(gomock.Any(), user.ID).Return(wallet, nil)
		f.provider.EXPECT().
			InitializeTransaction(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(gobreaker.ErrOpenState)

		_, err := f.svc.Initiate(context.Background(), user, decimal.NewFromInt(2000))
		assert.ErrorIs(t, err, apperr.ErrProviderUnavailable)
	})
}

func TestVerify(t *testing.T) {
	userID := uuid.New()
	walletID := uuid.New()

	processing := func() *model.Transaction {
		return &model.Transaction{
			ID:            uuid.New(),
			TransactionID: ReferencePrefix + "ref1",
			WalletID:      walletID,
			SenderID:      userID,
			RecipientID:   userID,
			Amount:        decimal.NewFromInt(2000),
			TypeID:        model.TransactionTypeFunding,
			StatusID:      model.TransactionStatusProcessing,
		}
	}

	successResponse := func(out *paystack.VerifyResponse) {
		out.Status = true
		out.Data.Status = paystack.TransactionStatusSuccess
		out.Data.Reference = "ref1"
		out.Data.Amount = 2000
	}

	t.Run("credits net of fee", func(t *testing.T) {
		f, mock, closeFn := newFixture(t, 1)
		defer closeFn()

		f.provider.EXPECT().
			VerifyTransaction(gomock.Any(), "ref1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, out *paystack.VerifyResponse) error {
				successResponse(out)
				return nil
			})

		mock.ExpectBegin()
		mock.ExpectCommit()

		f.transactions.EXPECT().
			TxReadByReferenceForUpdate(gomock.Any(), gomock.Any(), ReferencePrefix+"ref1").
			Return(processing(), nil)

		f.wallets.EXPECT().
			TxCredit(gomock.Any(), gomock.Any(), walletID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sql.Tx, _ uuid.UUID, amount decimal.Decimal) error {
				assert.True(t, amount.Equal(decimal.NewFromInt(1980)), "net of 1%% fee, got %s", amount)
				return nil
			})

		f.transactions.EXPECT().
			TxUpdateStatus(gomock.Any(), gomock.Any(), gomock.Any(), model.TransactionStatusSuccessful).
			Return(nil)

		m, err := f.svc.Verify(context.Background(), "ref1")
		require.NoError(t, err)
		assert.Equal(t, model.TransactionStatusSuccessful, m.StatusID)
		require.Len(t, f.notes.messages, 1)
		assert.Contains(t, f.notes.messages[0], "1980", "notification reports the credited net amount")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already settled is a no-op", func(t *testing.T) {
		f, mock, closeFn := newFixture(t, 1)
		defer closeFn()

		f.provider.EXPECT().
			VerifyTransaction(gomock.Any(), "ref1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, out *paystack.VerifyResponse) error {
				successResponse(out)
				return nil
			})

		settled := processing()
		settled.StatusID = model.TransactionStatusSuccessful

		mock.ExpectBegin()
		mock.ExpectRollback()

		f.transactions.EXPECT().
			TxReadByReferenceForUpdate(gomock.Any(), gomock.Any(), ReferencePrefix+"ref1").
			Return(settled, nil)

		m, err := f.svc.Verify(context.Background(), "ref1")
		require.NoError(t, err)
		assert.Equal(t, model.TransactionStatusSuccessful, m.StatusID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("abandoned intent marks failed", func(t *testing.T) {
		f, mock, closeFn := newFixture(t, 1)
		defer closeFn()

		f.provider.EXPECT().
			VerifyTransaction(gomock.Any(), "ref1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, out *paystack.VerifyResponse) error {
				out.Status = true
				out.Data.Status = "abandoned"
				return nil
			})

		mock.ExpectBegin()
		mock.ExpectCommit()

		f.transactions.EXPECT().
			TxReadByReferenceForUpdate(gomock.Any(), gomock.Any(), ReferencePrefix+"ref1").
			Return(processing(), nil)

		f.transactions.EXPECT().
			TxUpdateStatus(gomock.Any(), gomock.Any(), gomock.Any(), model.TransactionStatusFailed).
			Return(nil)

		m, err := f.svc.Verify(context.Background(), "ref1")
		require.NoError(t, err)
		assert.Equal(t, model.TransactionStatusFailed, m.StatusID)
	})

	t.Run("breaker open maps to provider unavailable", func(t *testing.T) {
		f, _, closeFn := newFixture(t, 1)
		defer closeFn()

		f.provider.EXPECT().
			VerifyTransaction(gomock.Any(), "ref1", gomock.Any()).
			Return(gobreaker.ErrOpenState)

		_, err := f.svc.Verify(context.Background(), "ref1")
		assert.ErrorIs(t, err, apperr.ErrProviderUnavailable)
	})
}
