package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"vtribe/internal/app/handler"
	"vtribe/internal/app/logger"
	mw "vtribe/internal/app/middleware"
	"vtribe/pkg/paystack"
)

// Local stand in for the paystack API, useful for manual testing without a
// real account. Initialized intents settle as successful most of the time,
// the rest abandon.

var (
	mu      sync.Mutex
	intents = map[string]int64{}
)

func main() {
	// setting up signal capturing
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		osCall := <-stop
		log.Printf("System call: %+v", osCall)
		cancel()
	}()

	l := logger.New(true, true)

	if err := runServer(ctx, "127.0.0.1:8090", l); err != nil {
		l.Fatal().Err(err).Msg("Server run failed")
	}
}

func runServer(ctx context.Context, listenAddr string, l logger.Logger) (err error) {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(mw.Log(l))
	r.Post("/transaction/initialize", InitializeTransaction)
	r.Get("/transaction/verify/{reference}", VerifyTransaction)

	srv := &http.Server{
		Addr:    listenAddr,
		Handler: r,
	}

	go func() {
		log.Printf("Listening on %s", listenAddr)
		if err = srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatal().Err(err).Msg("")
		}
	}()

	log.Printf("Server started")
	<-ctx.Done()
	log.Printf("Server stopped")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer func() {
		cancel()
	}()

	if err = srv.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Printf("Server exited properly")

	return
}

func InitializeTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Ctx(ctx).With().Str("method", "InitializeTransaction").Logger()

	in := &paystack.InitializeRequest{}
	err := json.NewDecoder(r.Body).Decode(in)
	_ = r.Body.Close()
	if err != nil {
		l.Debug().Err(err).Msg("Bad request body")
		handler.WriteError(w, err, http.StatusBadRequest)
		return
	}

	mu.Lock()
	intents[in.Reference] = in.Amount
	mu.Unlock()

	l.Info().Str("reference", in.Reference).Int64("amount", in.Amount).Msg("Intent created")

	handler.WriteResponse(w, &paystack.InitializeResponse{
		Status:  true,
		Message: "Authorization URL created",
		Data: paystack.InitializeResponseData{
			AuthorizationURL: "http://" + r.Host + "/pay/" + in.Reference,
			AccessCode:       in.Reference,
			Reference:        in.Reference,
		},
	}, http.StatusOK)
}

func VerifyTransaction(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")
	ctx := r.Context()
	l := logger.Ctx(ctx).With().Str("reference", reference).Str("method", "VerifyTransaction").Logger()

	mu.Lock()
	amount, ok := intents[reference]
	mu.Unlock()

	if !ok {
		handler.WriteError(w, fmt.Errorf("transaction reference not found"), http.StatusNotFound)
		return
	}

	status := paystack.TransactionStatusSuccess
	if rand.Intn(10) == 0 {
		status = "abandoned"
	}

	l.Info().Str("status", status).Msg("Intent verified")

	handler.WriteResponse(w, &paystack.VerifyResponse{
		Status:  true,
		Message: "Verification successful",
		Data: paystack.VerifyResponseData{
			Status:    status,
			Reference: reference,
			Amount:    amount,
		},
	}, http.StatusOK)
}
