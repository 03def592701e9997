package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"vtribe/internal/app/apperr"
	"vtribe/internal/app/logger"
	"vtribe/internal/app/service/funding"
	"vtribe/internal/app/storage"
)

type WalletHandler struct {
	funding      *funding.Service
	wallets      storage.WalletRepository
	transactions storage.TransactionRepository
}

func NewWalletHandler(funding *funding.Service, wallets storage.WalletRepository, transactions storage.TransactionRepository) *WalletHandler {
	return &WalletHandler{
		funding:      funding,
		wallets:      wallets,
		transactions: transactions,
	}
}

// Fund initiates a wallet top up through the payment provider and returns the
// authorization url the client must follow.
func (h *WalletHandler) Fund(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.Wallet.Fund")
	l.Debug().Send()

	u, err := ReadContextUser(ctx)
	if err != nil {
		l.Debug().Err(err).Msg("Unauthorized")
		WriteError(w, err, http.StatusUnauthorized)
		return
	}

	in := struct {
		Amount decimal.Decimal `json:"amount"`
	}{}

	if err := readBody(r, &in); err != nil {
		l.Debug().Err(err).Msg("Body read failed")
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	intent, err := h.funding.Initiate(ctx, u, in.Amount)
	if err != nil {
		l.Debug().Err(err).Send()
		writeServiceError(w, err)
		return
	}

	WriteResponse(w, intent, http.StatusOK)
}

// Verify settles a funding intent by its provider reference. Idempotent, a
// repeated call returns the already settled transaction.
func (h *WalletHandler) Verify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.Wallet.Verify")
	l.Debug().Send()

	if _, err := ReadContextUser(ctx); err != nil {
		l.Debug().Err(err).Msg("Unauthorized")
		WriteError(w, err, http.StatusUnauthorized)
		return
	}

	reference := r.URL.Query().Get("reference")
	if reference == "" {
		WriteError(w, apperr.ErrInvalidInput, http.StatusBadRequest)
		return
	}

	m, err := h.funding.Verify(ctx, reference)
	if err != nil {
		l.Debug().Err(err).Str("reference", reference).Send()
		writeServiceError(w, err)
		return
	}

	WriteResponse(w, m, http.StatusOK)
}

func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.Wallet.Balance")
	l.Debug().Send()

	u, err := ReadContextUser(ctx)
	if err != nil {
		l.Debug().Err(err).Msg("Unauthorized")
		WriteError(w, err, http.StatusUnauthorized)
		return
	}

	wm, err := h.wallets.ReadByUserID(ctx, u.ID)
	if err != nil {
		l.Debug().Err(err).Send()
		writeServiceError(w, err)
		return
	}

	out := struct {
		Balance decimal.Decimal `json:"balance"`
	}{wm.Balance}

	l.Debug().Msgf("sending balance %s", jsonString(out))
	WriteResponse(w, out, http.StatusOK)
}

// Transactions lists the ledger entries the user participated in, newest
// first.
func (h *WalletHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.Wallet.Transactions")
	l.Debug().Send()

	u, err := ReadContextUser(ctx)
	if err != nil {
		l.Debug().Err(err).Msg("Unauthorized")
		WriteError(w, err, http.StatusUnauthorized)
		return
	}

	mm, err := h.transactions.AllByUserID(ctx, u.ID)
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
