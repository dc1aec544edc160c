package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Karlson54/TelegramBot/internal/cart"
	"github.com/Karlson54/TelegramBot/internal/catalog"
	"github.com/Karlson54/TelegramBot/internal/checkout"
	"github.com/Karlson54/TelegramBot/internal/config"
	"github.com/Karlson54/TelegramBot/internal/domain"
	shophttp "github.com/Karlson54/TelegramBot/internal/http"
	"github.com/Karlson54/TelegramBot/internal/notify"
	"github.com/Karlson54/TelegramBot/internal/order"
	"github.com/Karlson54/TelegramBot/internal/payment"
	"github.com/Karlson54/TelegramBot/internal/session"
	"github.com/Karlson54/TelegramBot/internal/store"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg := config.Load()

	// Durable ledger: Postgres when configured, in-memory otherwise.
	var (
		catalogStore catalog.Store
		orderRepo    order.Repository
		paymentRepo  payment.Repository
	)
	if cfg.Postgres.Host != "" {
		db, err := store.Connect(&cfg.Postgres)
		if err != nil {
			logger.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer db.Close()

		if err := store.RunMigrations(db, &cfg.Postgres); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
		logger.Info("database migrations completed")

		catalogStore = catalog.NewPostgresStore(db)
		orderRepo = order.NewPostgresRepository(db)
		paymentRepo = payment.NewPostgresRepository(db)
	} else {
		logger.Warn("POSTGRES_HOST not set, using in-memory ledger")
		memCatalog := catalog.NewMemoryStore()
		seedDemoCatalog(memCatalog)
		catalogStore = memCatalog
		orderRepo = order.NewMemoryRepository()
		paymentRepo = payment.NewMemoryRepository()
	}
	catalogStore = catalog.NewBreakerStore(catalogStore)

	// Cart storage: Mongo when configured, in-memory otherwise.
	var cartStore cart.Store
	if cfg.MongoURI != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		mongoDB, err := cart.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		cancel()
		if err != nil {
			logger.Fatal("failed to connect to mongo", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			mongoDB.Client().Disconnect(ctx)
		}()

		mongoStore := cart.NewMongoStore(mongoDB)
		ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		if err := mongoStore.CreateIndexes(ctx); err != nil {
			logger.Fatal("failed to create mongo indexes", zap.Error(err))
		}
		cancel()
		cartStore = mongoStore
	} else {
		logger.Warn("MONGO_URI not set, using in-memory cart store")
		cartStore = cart.NewMemoryStore()
	}

	// Cart cache is optional.
	var cartCache cart.Cache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		cartCache = cart.NewRedisCache(redisClient)
	}

	bus := notify.NewBus(logger)
	if len(cfg.KafkaBrokers) > 0 {
		publisher := notify.NewKafkaPublisher(logger, cfg.KafkaBrokers...)
		defer publisher.Close()
		bus.Subscribe(publisher.Handle)
	}

	cartService := cart.NewService(catalogStore, cartStore, cartCache, logger)
	orderService := order.NewService(orderRepo, paymentRepo, bus, logger)
	paymentService := payment.NewService(paymentRepo, orderRepo, bus, logger)
	checkoutService := checkout.NewService(cartService, orderService, logger)

	tracker := session.NewTracker()
	defer tracker.Close()

	router := shophttp.NewRouter(shophttp.Handlers{
		Catalog:  shophttp.NewCatalogHandler(catalogStore),
		Cart:     shophttp.NewCartHandler(cartService),
		Checkout: shophttp.NewCheckoutHandler(checkoutService),
		Orders:   shophttp.NewOrdersHandler(orderService, catalogStore),
		Payments: shophttp.NewPaymentsHandler(paymentService),
		Sessions: shophttp.NewSessionHandler(tracker),
	}, logger, cfg.RequestTimeout)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		logger.Info("storefront listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down storefront")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	logger.Info("storefront stopped")
}

func seedDemoCatalog(s *catalog.MemoryStore) {
	for _, p := range []domain.Product{
		{ID: 1, Name: "Espresso Beans 1kg", Description: "Dark roast arabica", Price: 19.99, Available: true},
		{ID: 2, Name: "Filter Blend 500g", Description: "Light roast, washed", Price: 12.50, Available: true},
		{ID: 3, Name: "Cold Brew Kit", Description: "Seasonal, out of stock", Price: 34.00, Available: false},
	} {
		s.Put(p)
	}
}
