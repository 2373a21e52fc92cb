package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	c "github.com/Sunny955/Ecommerce-backend/internal/cache"
	"github.com/Sunny955/Ecommerce-backend/internal/catalog"
	"github.com/Sunny955/Ecommerce-backend/internal/config"
	"github.com/Sunny955/Ecommerce-backend/internal/coupons"
	"github.com/Sunny955/Ecommerce-backend/internal/events"
	h "github.com/Sunny955/Ecommerce-backend/internal/http"
	"github.com/Sunny955/Ecommerce-backend/internal/orderstore"
	"github.com/Sunny955/Ecommerce-backend/internal/repository"
	s "github.com/Sunny955/Ecommerce-backend/internal/service"
	"github.com/Sunny955/Ecommerce-backend/internal/users"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()
	ctx := context.Background()

	// MongoDB: carts, products, coupons, users
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	if err := repository.EnsureIndexes(ctx, mongoDB); err != nil {
		logger.Fatal("failed to create cart indexes", zap.Error(err))
	}
	logger.Info("connected to MongoDB", zap.String("uri", cfg.MongoURI))

	cartRepo := repository.NewMongoRepository(mongoDB)
	catalogLookup := catalog.NewMongoCatalog(mongoDB)
	couponLookup := coupons.NewMongoLookup(mongoDB)
	userLookup := users.NewMongoLookup(mongoDB)

	// Postgres: orders
	cred := &orderstore.Credentials{
		Host:              cfg.PGHost,
		Port:              cfg.PGPort,
		User:              cfg.PGUser,
		Password:          cfg.PGPassword,
		DBName:            cfg.PGDBName,
		MigrationsDirPath: cfg.MigrationsDirPath,
	}
	orderRepo, err := orderstore.NewRepository(cred)
	if err != nil {
		logger.Fatal("failed to connect to Postgres", zap.Error(err))
	}
	defer orderRepo.Close()
	if err := orderRepo.RunMigrations(cred); err != nil {
		logger.Fatal("failed to run order migrations", zap.Error(err))
	}
	logger.Info("connected to Postgres", zap.String("db", cfg.PGDBName))

	// Redis: cart read cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}
	cartCache := c.NewRedisCache(redisClient)

	// Kafka: entity-changed events + cache invalidation subscriber
	publisher := events.NewKafkaPublisher(logger, cfg.Brokers()...)
	defer publisher.Close()

	invalidator := events.NewInvalidator(cartCache, logger, cfg.Brokers()...)
	defer invalidator.Close()

	cartService := s.NewCartService(cartRepo, catalogLookup, couponLookup, cartCache, publisher, logger)
	orderService := s.NewOrderService(orderRepo, cartRepo, catalogLookup, userLookup, publisher, logger)
	reconciler := s.NewStockReconciler(orderRepo, catalogLookup, publisher, cfg.ReconcileInterval, logger)

	cartHandler := h.NewCartHandler(cartService, cfg.RequestTimeout)
	orderHandler := h.NewOrderHandler(orderService, cfg.RequestTimeout)

	// Setup router
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(h.AuthMiddleware)

		r.Route("/cart", func(r chi.Router) {
			r.Put("/", cartHandler.SubmitCart)
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.EmptyCart)
			r.Post("/items", cartHandler.MergeCart)
			r.Post("/coupon", cartHandler.ApplyCoupon)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orderHandler.PlaceOrder)
			r.Get("/", orderHandler.ListOrders)
			r.Get("/all", orderHandler.ListAllOrders)
			r.Put("/{order_id}/status", orderHandler.UpdateStatus)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "ecommerce-api"),
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
	}

	// Background loops
	bgCtx, bgCancel := context.WithCancel(ctx)
	defer bgCancel()
	go invalidator.Run(bgCtx)
	go reconciler.Run(bgCtx)

	go func() {
		logger.Info("API server starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	bgCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	if err := mongoDB.Client().Disconnect(shutdownCtx); err != nil {
		logger.Error("mongo disconnect failed", zap.Error(err))
	}
	logger.Info("server exited")
}
