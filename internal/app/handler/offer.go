package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"vtribe/internal/app/logger"
	"vtribe/internal/app/model"
	"vtribe/internal/app/service/offers"
)

type OfferHandler struct {
	offers *offers.Service
}

func NewOfferHandler(offers *offers.Service) *OfferHandler {
	return &OfferHandler{
		offers: offers,
	}
}

func (h *OfferHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.Offer.Create")
	l.Debug().Send()

	u, err := ReadContextUser(ctx)
	if err != nil {
		l.Debug().Err(err).Msg("Unauthorized")
		WriteError(w, err, http.StatusUnauthorized)
		return
	}

	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		l.Debug().Err(err).Msg("Bad product id")
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	in := struct {
		OfferPrice decimal.Decimal `json:"offerPrice" validate:"required"`
	}{}

	if err := readBody(r, &in); err != nil {
		l.Debug().Err(err).Msg("Body read failed")
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	if !validateData(w, in) {
		return
	}

	m, err := h.offers.Make(ctx, u, productID, in.OfferPrice)
	if err != nil {
		l.Debug().Err(err).Send()
		writeServiceError(w, err)
		return
	}

	WriteResponse(w, m, http.StatusCreated)
}

// Respond records the seller decision on a pending offer.
func (h *OfferHandler) Respond(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.Offer.Respond")
	l.Debug().Send()

	if _, err := ReadContextUser(ctx); err != nil {
		l.Debug().Err(err).Msg("Unauthorized")
		WriteError(w, err, http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "offerID"))
	if err != nil {
		l.Debug().Err(err).Msg("Bad offer id")
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	in := struct {
		Status    model.OfferStatus   `json:"status" validate:"required,oneof=Accepted Declined Pending"`
		BestPrice decimal.NullDecimal `json:"bestPrice"`
	}{}

	if err := readBody(r, &in); err != nil {
		l.Debug().Err(err).Msg("Body read failed")
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	if !validateData(w, in) {
		return
	}

	m, err := h.offers.Respond(ctx, id, in.Status, in.BestPrice)
	if err != nil {
		l.Debug().Err(err).Send()
		writeServiceError(w, err)
		return
	}

	WriteResponse(w, m, http.StatusOK)
}

// ListMade lists the offers the user has made on other sellers products.
func (h *OfferHandler) ListMade(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.Offer.ListMade")
	l.Debug().Send()

	u, err := ReadContextUser(ctx)
	if err != nil {
		l.Debug().Err(err).Msg("Unauthorized")
		WriteError(w, err, http.StatusUnauthorized)
		return
	}

	mm, err := h.offers.AllByUser(ctx, u.ID)
	if err != nil {
		l.Debug().Err(err).Send()
		WriteError(w, err, http.StatusInternalServerError)
		return
	}

	if len(mm) == 0 {
		WriteResponse(w, struct{}{}, http.StatusNoContent)
		return
	}

	WriteResponse(w, mm, http.StatusOK)
}

// ListReceived lists the offers made on the user's own products.
func (h *OfferHandler) ListReceived(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.Offer.ListReceived")
	l.Debug().Send()

	u, err := ReadContextUser(ctx)
	if err != nil {
		l.Debug().Err(err).Msg("Unauthorized")
		WriteError(w, err, http.StatusUnauthorized)
		return
	}

	mm, err := h.offers.AllOnUserProducts(ctx, u.ID)
	if err != nil {
		l.Debug().Err(err).Send()
		WriteError(w, err, http.StatusInternalServerError)
		return
	}

	if len(mm) == 0 {
		WriteResponse(w, struct{}{}, http.StatusNoContent)
		return
	}

	WriteResponse(w, mm, http.StatusOK)
}
