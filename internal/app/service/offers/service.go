package offers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"vtribe/internal/app/apperr"
	"vtribe/internal/app/logger"
	"vtribe/internal/app/model"
	"vtribe/internal/app/notify"
	"vtribe/internal/app/storage"
)

// Service handles price negotiation between buyers and sellers. An offer is
// advisory, accepting one does not create an order or move money.
type Service struct {
	offers   storage.OfferRepository
	products storage.ProductRepository
	notifier notify.Recorder
}

func (s *Service) LoggerComponent() string {
	return "Offers.Service"
}

func New(offers storage.OfferRepository, products storage.ProductRepository, notifier notify.Recorder) *Service {
	return &Service{
		offers:   offers,
		products: products,
		notifier: notifier,
	}
}

// Make records a pending offer against an existing product and notifies the
// seller.
func (s *Service) Make(ctx context.Context, u *model.User, productID uuid.UUID, price decimal.Decimal) (*model.Offer, error) {
	l := logger.Get(ctx, s).With().
		Str("user_id", u.ID.String()).
		Str("product_id", productID.String()).
		Logger()

	if !price.IsPositive() {
		return nil, fmt.Errorf("offer price must be positive: %w", apperr.ErrInvalidInput)
	}

	p, err := s.products.Read(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("product read: %w", err)
	}

	m := &model.Offer{
		UserID:     u.ID,
		ProductID:  p.ID,
		OfferPrice: price,
		Status:     model.OfferStatusPending,
	}

	if _, err := s.offers.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("offer create: %w", err)
	}

	l.Info().Str("offer_id", m.ID.String()).Str("price", price.String()).Msg("Offer made")

	s.notifier.Record(ctx, p.PostedBy, "New Offer",
		fmt.Sprintf("You received an offer of %s for %q", price, p.Title),
		model.NotificationCategoryAccountActivity)

	return m, nil
}

// Respond sets the seller decision on a pending offer. A best price may be
// attached as a counter, it is recorded regardless of the decision. Offers
// already decided reject further responses.
func (s *Service) Respond(ctx context.Context, offerID uuid.UUID, status model.OfferStatus, bestPrice decimal.NullDecimal) (*model.Offer, error) {
	l := logger.Get(ctx, s).With().Str("offer_id", offerID.String()).Logger()

	switch status {
	case model.OfferStatusAccepted, model.OfferStatusDeclined, model.OfferStatusPending:
	default:
		return nil, fmt.Errorf("unknown offer status %q: %w", status, apperr.ErrInvalidInput)
	}

	if bestPrice.Valid && !bestPrice.Decimal.IsPositive() {
		return nil, fmt.Errorf("best price must be positive: %w", apperr.ErrInvalidInput)
	}

	m, err := s.offers.Read(ctx, offerID)
	if err != nil {
		return nil, fmt.Errorf("offer read: %w", err)
	}

	if m.Status != model.OfferStatusPending {
		return nil, fmt.Errorf("offer already %s: %w", m.Status, apperr.ErrConflict)
	}

	m, err = s.offers.UpdateResponse(ctx, offerID, status, bestPrice)
	if err != nil {
		return nil, fmt.Errorf("offer update: %w", err)
	}

	l.Info().Str("status", string(status)).Msg("Offer responded")

	s.notifier.Record(ctx, m.UserID, "Offer Response",
		fmt.Sprintf("The seller has responded to your offer: %s", status),
		model.NotificationCategoryAccountActivity)

	return m, nil
}

// AllByUser returns the offers the user has made, newest first.
func (s *Service) AllByUser(ctx context.Context, userID uuid.UUID) ([]*model.Offer, error) {
	return s.offers.AllByUserID(ctx, userID)
}

// AllOnUserProducts returns the offers made on products the user sells.
func (s *Service) AllOnUserProducts(ctx context.Context, userID uuid.UUID) ([]*model.Offer, error) {
	return s.offers.AllByProductOwner(ctx, userID)
}
