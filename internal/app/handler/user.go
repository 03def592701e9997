package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/hlog"
	"github.com/shopspring/decimal"

	"vtribe/internal/app/apperr"
	"vtribe/internal/app/logger"
	"vtribe/internal/app/model"
	"vtribe/internal/app/session"
	"vtribe/internal/app/storage"
)

type UserHandler struct {
	db      *sql.DB
	session session.Creator
	users   storage.UserRepository
	wallets storage.WalletRepository
}

func NewUserHandler(db *sql.DB, users storage.UserRepository, wallets storage.WalletRepository, sm session.Creator) *UserHandler {
	return &UserHandler{
		db:      db,
		session: sm,
		users:   users,
		wallets: wallets,
	}
}

// Register creates the user and an empty wallet in one transaction, a user
// without a wallet must not exist.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.Get(ctx, "Handler.User.Register")

	in := struct {
		Email     string `json:"email" validate:"required,email"`
		FirstName string `json:"firstName" validate:"required,max=64"`
		LastName  string `json:"lastName" validate:"required,max=64"`
		Password  string `json:"password" validate:"required,min=8,max=72"`
	}{}

	if err := readBody(r, &in); err != nil {
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	if !validateData(w, in) {
		return
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error().Err(err).Send()
		WriteError(w, err, http.StatusInternalServerError)
		return
	}

	u, err := h.users.TxCreate(ctx, tx, &model.User{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  in.Password,
	})

	if err != nil {
		_ = tx.Rollback()

		if errors.Is(err, apperr.ErrConflict) {
			log.Debug().Err(err).Send()
			WriteError(w, fmt.Errorf("email already registered: %w", err), http.StatusConflict)
			return
		}
		if errors.Is(err, apperr.ErrInvalidInput) {
			log.Debug().Err(err).Send()
			WriteError(w, err, http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Send()
		WriteError(w, err, http.StatusInternalServerError)
		return
	}

	if _, err := h.wallets.TxCreate(ctx, tx, &model.Wallet{
		UserID:  u.ID,
		Balance: decimal.Zero,
	}); err != nil {
		_ = tx.Rollback()
		log.Error().Err(err).Send()
		WriteError(w, err, http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(); err != nil {
		log.Error().Err(err).Send()
		WriteError(w, err, http.StatusInternalServerError)
		return
	}

	token, err := h.session.Create(ctx, u)
	if err != nil {
		WriteError(w, err, http.StatusInternalServerError)
		return
	}

	out := struct {
		Token string      `json:"token"`
		User  *model.User `json:"user"`
	}{token, u}

	w.Header().Add("Authorization", "Bearer "+token)

	WriteResponse(w, out, http.StatusCreated)
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	hlog.FromRequest(r).Debug().Msg("Handler.User.Login")

	in := struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8,max=72"`
	}{}

	if err := readBody(r, &in); err != nil {
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	if !validateData(w, in) {
		return
	}

	u, err := h.users.ReadByEmailAndPassword(r.Context(), in.Email, in.Password)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			WriteError(w, apperr.ErrUnauthorized, http.StatusUnauthorized)
			return
		}
		WriteError(w, err, http.StatusInternalServerError)
		return
	}

	token, err := h.session.Create(r.Context(), u)
	if err != nil {
		WriteError(w, err, http.StatusInternalServerError)
		return
	}

	out := struct {
		Token string      `json:"token"`
		User  *model.User `json:"user"`
	}{token, u}

	w.Header().Add("Authorization", "Bearer "+token)

	WriteResponse(w, out, http.StatusOK)
}
