package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"vtribe/internal/app/handler"
	mw "vtribe/internal/app/middleware"
)

func (a *App) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(mw.Log(a.logger))

	if a.config.RateLimit.Enabled {
		r.Use(mw.RateLimit(a.redis, a.config.RateLimit.Requests, a.config.RateLimit.Window))
	}

	auth := mw.Auth(a.session)

	uh := handler.NewUserHandler(a.db, a.users, a.wallets, a.session)
	wh := handler.NewWalletHandler(a.funding, a.wallets, a.transactions)
	oh := handler.NewOrderHandler(a.orderFlow)
	fh := handler.NewOfferHandler(a.negotiation)
	nh := handler.NewNotificationHandler(a.notifications)

	r.Route("/api/user", func(r chi.Router) {
		r.Post("/register", uh.Register)
		r.Post("/login", uh.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth)

			r.Route("/wallet", func(r chi.Router) {
				r.Post("/fund", wh.Fund)
				r.Get("/fund/verify", wh.Verify)
				r.Get("/balance", wh.Balance)
				r.Get("/transactions", wh.Transactions)
			})

			r.Route("/order", func(r chi.Router) {
				r.Post("/", oh.Create)
				r.Get("/{orderID}", oh.Read)
				r.Put("/ship/submit-details/{orderID}", oh.SubmitShippingDetails)
				r.Put("/ship/{orderID}", oh.Ship)
				r.Put("/complete/{orderID}", oh.Complete)
				r.Put("/appeal/{orderID}", oh.Appeal)
				r.Post("/offer/{productID}", fh.Create)
				r.Put("/offer/respond/{offerID}", fh.Respond)
			})

			r.Get("/orders", oh.List)
			r.Get("/orders/status/{status}", oh.List)

			r.Get("/offers/made", fh.ListMade)
			r.Get("/offers/received", fh.ListReceived)

			r.Get("/notifications", nh.List)
		})
	})

	return r
}
