//go:generate mockgen -source=./service.go -destination=./mock/provider.go -package=fundingmock
package funding

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/xid"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"

	"vtribe/internal/app/apperr"
	"vtribe/internal/app/logger"
	"vtribe/internal/app/model"
	"vtribe/internal/app/notify"
	"vtribe/internal/app/storage"
	"vtribe/pkg/paystack"
)

// ReferencePrefix distinguishes our ledger ids from raw provider references.
const ReferencePrefix = "VTRIBE_TX_"

// Provider is the slice of the payment provider API this service consumes.
type Provider interface {
	InitializeTransaction(ctx context.Context, in *paystack.InitializeRequest, out *paystack.InitializeResponse) error
	VerifyTransaction(ctx context.Context, reference string, out *paystack.VerifyResponse) error
}

// Service bridges the payment provider and the wallet ledger. VerifyFunding
// is the single point where external money becomes internal balance.
type Service struct {
	db           *sql.DB
	provider     Provider
	wallets      storage.WalletRepository
	transactions storage.TransactionRepository
	notifier     notify.Recorder

	feePercent decimal.Decimal
	minAmount  decimal.Decimal
}

func (s *Service) LoggerComponent() string {
	return "Funding.Service"
}

func New(
	db *sql.DB,
	provider Provider,
	wallets storage.WalletRepository,
	transactions storage.TransactionRepository,
	notifier notify.Recorder,
	feePercent int64,
	minAmount int64,
) *Service {
	return &Service{
		db:           db,
		provider:     provider,
		wallets:      wallets,
		transactions: transactions,
		notifier:     notifier,
		feePercent:   decimal.NewFromInt(feePercent),
		minAmount:    decimal.NewFromInt(minAmount),
	}
}

// Intent is the redirect handle returned to the caller on initiation.
type Intent struct {
	AuthorizationURL string `json:"authorizationUrl"`
	Reference        string `json:"reference"`
}

// Initiate creates a Processing funding transaction tied to a provider
// payment intent. The ledger is not touched, funds are not guaranteed until
// Verify confirms them.
func (s *Service) Initiate(ctx context.Context, u *model.User, amount decimal.Decimal) (*Intent, error) {
	l := logger.Get(ctx, s).With().Str("user_id", u.ID.String()).Logger()

	if amount.LessThan(s.minAmount) {
		return nil, fmt.Errorf("amount below minimum %s: %w", s.minAmount, apperr.ErrInvalidInput)
	}
	if !amount.IsInteger() {
		return nil, fmt.Errorf("amount must be a whole number of minor units: %w", apperr.ErrInvalidInput)
	}

	w, err := s.wallets.ReadByUserID(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("wallet read: %w", err)
	}

	in := &paystack.InitializeRequest{
		Email:     u.Email,
		Amount:    amount.IntPart(),
		Reference: xid.New().String(),
		Metadata: paystack.Metadata{
			UserID:    u.ID.String(),
			FirstName: u.FirstName,
			LastName:  u.LastName,
		},
	}
	out := &paystack.InitializeResponse{}

	if err := s.provider.InitializeTransaction(ctx, in, out); err != nil {
		l.Error().Err(err).Msg("Provider initialize failed")
		return nil, providerError(err)
	}

	m := &model.Transaction{
		TransactionID: ReferencePrefix + out.Data.Reference,
		WalletID:      w.ID,
		SenderID:      u.ID,
		RecipientID:   u.ID,
		Amount:        amount,
		TypeID:        model.TransactionTypeFunding,
		StatusID:      model.TransactionStatusProcessing,
		Description:   "Funded wallet with paystack",
	}

	if _, err := s.transactions.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("transaction create: %w", err)
	}

	s.notifier.Record(ctx, u.ID, "Wallet Funding",
		fmt.Sprintf("You just initiated a wallet fund of %s, please complete your payment", amount),
		model.NotificationCategoryAccountActivity)

	return &Intent{
		AuthorizationURL: out.Data.AuthorizationURL,
		Reference:        out.Data.Reference,
	}, nil
}

// Verify queries the provider for the final status of the referenced intent
// and settles the local transaction. Safe to call repeatedly, a transaction
// already in a terminal state is returned as is without touching the ledger.
func (s *Service) Verify(ctx context.Context, reference string) (*model.Transaction, error) {
	l := logger.Get(ctx, s).With().Str("reference", reference).Logger()

	out := &paystack.VerifyResponse{}
	if err := s.provider.VerifyTransaction(ctx, reference, out); err != nil {
		var remoteErr *paystack.RemoteError
		if errors.As(err, &remoteErr) && remoteErr.StatusCode == 404 {
			// provider has no such intent
			return s.settleFailed(ctx, reference)
		}
		l.Error().Err(err).Msg("Provider verify failed")
		return nil, providerError(err)
	}

	if !out.Status || out.Data.Status != paystack.TransactionStatusSuccess {
		l.Debug().Str("intent_status", out.Data.Status).Msg("Provider reported failure")
		return s.settleFailed(ctx, reference)
	}

	return s.settleSuccessful(ctx, reference, decimal.NewFromInt(out.Data.Amount))
}

// settleSuccessful credits the net amount exactly once. The transaction row
// is locked so a concurrent verify of the same reference waits and then sees
// the terminal status.
func (s *Service) settleSuccessful(ctx context.Context, reference string, gross decimal.Decimal) (*model.Transaction, error) {
	l := logger.Get(ctx, s).With().Str("reference", reference).Logger()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
	})
	if err != nil {
		return nil, fmt.Errorf("tx begin: %w", err)
	}

	m, err := s.transactions.TxReadByReferenceForUpdate(ctx, tx, ReferencePrefix+reference)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("transaction read: %w", err)
	}

	if m.StatusID.Terminal() {
		_ = tx.Rollback()
		l.Debug().Str("status", m.StatusID.String()).Msg("Already settled, skipping")
		return m, nil
	}

	fee := gross.Mul(s.feePercent).Div(decimal.NewFromInt(100))
	net := gross.Sub(fee)

	if err := s.wallets.TxCredit(ctx, tx, m.WalletID, net); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("wallet credit: %w", err)
	}

	if err := s.transactions.TxUpdateStatus(ctx, tx, m.ID, model.TransactionStatusSuccessful); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("status update: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("tx commit: %w", err)
	}

	m.StatusID = model.TransactionStatusSuccessful

	l.Info().
		Str("net_amount", net.String()).
		Str("fee", fee.String()).
		Msg("Wallet funded")

	s.notifier.Record(ctx, m.RecipientID, "Wallet Funding",
		fmt.Sprintf("Your deposit of %s was successful", net),
		model.NotificationCategoryAccountActivity)

	return m, nil
}

// settleFailed marks the transaction failed unless it already reached a
// terminal state.
func (s *Service) settleFailed(ctx context.Context, reference string) (*model.Transaction, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
	})
	if err != nil {
		return nil, fmt.Errorf("tx begin: %w", err)
	}

	m, err := s.transactions.TxReadByReferenceForUpdate(ctx, tx, ReferencePrefix+reference)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("transaction read: %w", err)
	}

	if m.StatusID.Terminal() {
		_ = tx.Rollback()
		return m, nil
	}

	if err := s.transactions.TxUpdateStatus(ctx, tx, m.ID, model.TransactionStatusFailed); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("status update: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("tx commit: %w", err)
	}

	m.StatusID = model.TransactionStatusFailed

	return m, nil
}

// providerError maps transport and breaker failures to the retryable
// apperr.ErrProviderUnavailable. Remote 4xx responses keep their own error.
func providerError(err error) error {
	var remoteErr *paystack.RemoteError
	if errors.As(err, &remoteErr) && remoteErr.StatusCode < 500 {
		return fmt.Errorf("%s: %w", remoteErr.ResponseBody, apperr.ErrInvalidInput)
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("circuit open: %w", apperr.ErrProviderUnavailable)
	}
	return fmt.Errorf("%v: %w", err, apperr.ErrProviderUnavailable)
}
