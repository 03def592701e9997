package app

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/go-redis/redis/v8"

	"vtribe/internal/app/config"
	"vtribe/internal/app/logger"
	"vtribe/internal/app/notify"
	"vtribe/internal/app/service/funding"
	"vtribe/internal/app/service/offers"
	"vtribe/internal/app/service/orders"
	"vtribe/internal/app/session"
	"vtribe/internal/app/storage"
	"vtribe/internal/app/storage/postgres"
	"vtribe/pkg/paystack"
)

type App struct {
	config config.Config
	logger logger.Logger
	db     *sql.DB
	redis  *redis.Client

	users         storage.UserRepository
	wallets       storage.WalletRepository
	transactions  storage.TransactionRepository
	orders        storage.OrderRepository
	offers        storage.OfferRepository
	products      storage.ProductRepository
	categories    storage.CategoryRepository
	notifications storage.NotificationRepository

	funding     *funding.Service
	orderFlow   *orders.Service
	negotiation *offers.Service
	notifier    notify.Recorder
	session     session.Manager

	stopCh chan struct{}
}

func New(cfg config.Config, logger logger.Logger, e embed.FS) (*App, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}

	if err := applyMigrations(e, db); err != nil {
		return nil, fmt.Errorf("db migrate: %w", err)
	}

	users, err := postgres.NewUserRepository(db)
	if err != nil {
		return nil, fmt.Errorf("user repository init: %w", err)
	}

	wallets, err := postgres.NewWalletRepository(db)
	if err != nil {
		return nil, fmt.Errorf("wallet repository init: %w", err)
	}

	transactions, err := postgres.NewTransactionRepository(db)
	if err != nil {
		return nil, fmt.Errorf("transaction repository init: %w", err)
	}

	orderRepo, err := postgres.NewOrderRepository(db)
	if err != nil {
		return nil, fmt.Errorf("order repository init: %w", err)
	}

	offerRepo, err := postgres.NewOfferRepository(db)
	if err != nil {
		return nil, fmt.Errorf("offer repository init: %w", err)
	}

	products, err := postgres.NewProductRepository(db)
	if err != nil {
		return nil, fmt.Errorf("product repository init: %w", err)
	}

	categories, err := postgres.NewCategoryRepository(db)
	if err != nil {
		return nil, fmt.Errorf("category repository init: %w", err)
	}

	notifications, err := postgres.NewNotificationRepository(db)
	if err != nil {
		return nil, fmt.Errorf("notification repository init: %w", err)
	}

	provider, err := paystack.NewClient(
		cfg.Paystack.BaseURL,
		cfg.Paystack.SecretKey,
		paystack.WithLogger(logger.Logger),
	)
	if err != nil {
		return nil, fmt.Errorf("paystack client init: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	notifier := notify.New(notifications)

	a := &App{
		config:        cfg,
		logger:        logger,
		db:            db,
		redis:         rdb,
		stopCh:        make(chan struct{}),
		users:         users,
		wallets:       wallets,
		transactions:  transactions,
		orders:        orderRepo,
		offers:        offerRepo,
		products:      products,
		categories:    categories,
		notifications: notifications,
		notifier:      notifier,
		session:       session.NewMemory(cfg.SecretKey, users, session.WithIssuer("vtribe")),
		funding: funding.New(
			db, provider, wallets, transactions, notifier,
			cfg.Paystack.FeePercent, cfg.Paystack.MinFunding,
		),
		orderFlow:   orders.New(db, orderRepo, products, categories, wallets, transactions, notifier),
		negotiation: offers.New(offerRepo, products, notifier),
	}

	go func() {
		<-a.stopCh
		a.logger.Info().Msg("Shutting down application")
		_ = a.redis.Close()
		_ = a.db.Close()
	}()

	return a, nil
}

func (a *App) Stop() {
	close(a.stopCh)
}
