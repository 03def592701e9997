package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"vtribe/internal/app/logger"
	"vtribe/internal/app/model"
	"vtribe/internal/app/service/orders"
)

type OrderHandler struct {
	orders *orders.Service
}

func NewOrderHandler(orders *orders.Service) *OrderHandler {
	return &OrderHandler{
		orders: orders,
	}
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.Order.Create")
	l.Debug().Send()

	u, err := ReadContextUser(ctx)
	if err != nil {
		l.Debug().Err(err).Msg("Unauthorized")
		WriteError(w, err, http.StatusUnauthorized)
		return
	}

	in := struct {
		ProductID       uuid.UUID             `json:"productId" validate:"required"`
		Quantity        int64                 `json:"orderQuantity" validate:"required,gt=0"`
		Size            string                `json:"size"`
		DeliveryAddress model.DeliveryAddress `json:"deliveryAddress" validate:"required"`
		PaymentOption   model.PaymentOption   `json:"paymentOption" validate:"required,oneof='Wallet Balance' 'Crypto-Currency' 'Bank Transfer'"`
		TotalPrice      decimal.Decimal       `json:"totalPrice" validate:"required"`
	}{}

	if err := readBody(r, &in); err != nil {
		l.Debug().Err(err).Msg("Body read failed")
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	if !validateData(w, in) {
		return
	}

	m, err := h.orders.Place(ctx, u, orders.PlaceArgs{
		ProductID:       in.ProductID,
		Quantity:        in.Quantity,
		Size:            in.Size,
		DeliveryAddress: in.DeliveryAddress,
		PaymentOption:   in.PaymentOption,
		TotalPrice:      in.TotalPrice,
	})
	if err != nil {
		l.Debug().Err(err).Send()
		writeServiceError(w, err)
		return
	}

	WriteResponse(w, m, http.StatusCreated)
}

func (h *OrderHandler) Read(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.Order.Read")
	l.Debug().Send()

	if _, err := ReadContextUser(ctx); err != nil {
		l.Debug().Err(err).Msg("Unauthorized")
		WriteError(w, err, http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		l.Debug().Err(err).Msg("Bad order id")
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	m, err := h.orders.Read(ctx, id)
	if err != nil {
		l.Debug().Err(err).Send()
		writeServiceError(w, err)
		return
	}

	WriteResponse(w, m, http.StatusOK)
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.Order.List")
	l.Debug().Send()

	u, err := ReadContextUser(ctx)
	if err != nil {
		l.Debug().Err(err).Msg("Unauthorized")
		WriteError(w, err, http.StatusUnauthorized)
		return
	}

	var mm []*model.Order
	if status := chi.URLParam(r, "status"); status != "" {
		mm, err = h.orders.AllByUserAndStatus(ctx, u.ID, model.OrderStatus(status))
	} else {
		mm, err = h.orders.AllByUser(ctx, u.ID)
	}

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

// SubmitShippingDetails records tracking data on a paid order.
func (h *OrderHandler) SubmitShippingDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.Order.SubmitShippingDetails")
	l.Debug().Send()

	if _, err := ReadContextUser(ctx); err != nil {
		l.Debug().Err(err).Msg("Unauthorized")
		WriteError(w, err, http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		l.Debug().Err(err).Msg("Bad order id")
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	in := struct {
		TrackingNumber string          `json:"trackingNumber" validate:"required"`
		DeliveryFee    decimal.Decimal `json:"deliveryFee"`
		Images         []string        `json:"images"`
	}{}

	if err := readBody(r, &in); err != nil {
		l.Debug().Err(err).Msg("Body read failed")
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	if !validateData(w, in) {
		return
	}

	err = h.orders.SubmitShippingDetails(ctx, id, orders.ShippingDetails{
		TrackingNumber: in.TrackingNumber,
		DeliveryFee:    in.DeliveryFee,
		Images:         in.Images,
	})
	if err != nil {
		l.Debug().Err(err).Send()
		writeServiceError(w, err)
		return
	}

	WriteResponse(w, struct{}{}, http.StatusOK)
}

func (h *OrderHandler) Ship(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Handler.Order.Ship", h.orders.Ship)
}

func (h *OrderHandler) Appeal(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Handler.Order.Appeal", h.orders.Appeal)
}

// Complete releases the order and returns the accrued commission.
func (h *OrderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.Order.Complete")
	l.Debug().Send()

	if _, err := ReadContextUser(ctx); err != nil {
		l.Debug().Err(err).Msg("Unauthorized")
		WriteError(w, err, http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		l.Debug().Err(err).Msg("Bad order id")
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	commission, err := h.orders.Complete(ctx, id)
	if err != nil {
		l.Debug().Err(err).Send()
		writeServiceError(w, err)
		return
	}

	out := struct {
		Status     model.OrderStatus `json:"status"`
		Commission decimal.Decimal   `json:"commissionEarned"`
	}{model.OrderStatusCompleted, commission}

	WriteResponse(w, out, http.StatusOK)
}

func (h *OrderHandler) transition(w http.ResponseWriter, r *http.Request, component string, fn func(ctx context.Context, id uuid.UUID) error) {
	ctx := r.Context()
	l := logger.Get(ctx, component)
	l.Debug().Send()

	if _, err := ReadContextUser(ctx); err != nil {
		l.Debug().Err(err).Msg("Unauthorized")
		WriteError(w, err, http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		l.Debug().Err(err).Msg("Bad order id")
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	if err := fn(ctx, id); err != nil {
		l.Debug().Err(err).Send()
		writeServiceError(w, err)
		return
	}

	WriteResponse(w, struct{}{}, http.StatusOK)
}
