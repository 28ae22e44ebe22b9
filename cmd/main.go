package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/monkamherman/restau--foodi-sub000/internal/checkout"
	"github.com/monkamherman/restau--foodi-sub000/internal/favorites"
	h "github.com/monkamherman/restau--foodi-sub000/internal/http"
	"github.com/monkamherman/restau--foodi-sub000/internal/menu"
	"github.com/monkamherman/restau--foodi-sub000/internal/notify"
	"github.com/monkamherman/restau--foodi-sub000/internal/payments"
	"github.com/monkamherman/restau--foodi-sub000/internal/repository"
)

type Config struct {
	HTTPPort           string
	MongoURI           string
	MongoDatabase      string
	MongoMaxPoolSize   int
	RedisAddr          string
	MenuDBPath         string
	MigrationsDirPath  string
	KafkaBrokers       []string
	PaymentApprovePct  int
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:      getEnv("MONGO_DATABASE", "foodi"),
		MongoMaxPoolSize:   getEnvInt("MONGO_MAX_POOL_SIZE", 20),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		MenuDBPath:         getEnv("MENU_DB_PATH", "foodi.db"),
		MigrationsDirPath:  getEnv("MIGRATIONS_DIR", "migrations"),
		KafkaBrokers:       strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		PaymentApprovePct:  getEnvInt("PAYMENT_APPROVE_PERCENT", 100),
		RequestTimeout:     30 * time.Second,
		ShutdownTimeout:    10 * time.Second,
		MaxRequestBodySize: 1 << 20, // 1MB
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Snapshot store (cart + favorites)
	store, err := repository.OpenMongoStore(ctx, repository.MongoConfig{
		URI:         cfg.MongoURI,
		Database:    cfg.MongoDatabase,
		MaxPoolSize: uint64(cfg.MongoMaxPoolSize),
	})
	if err != nil {
		log.Fatalf("failed to open snapshot store: %v", err)
	}
	defer store.Close(context.Background())

	// Menu catalog
	menuRepo, err := menu.NewRepository(cfg.MenuDBPath)
	if err != nil {
		log.Fatalf("failed to open menu database: %v", err)
	}
	defer menuRepo.Close()
	if err := menuRepo.RunMigrations(cfg.MigrationsDirPath); err != nil {
		log.Fatalf("failed to run menu migrations: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()
	menuSvc := menu.NewService(menuRepo, menu.NewRedisCache(redisClient))

	// Checkout pipeline
	notifier := notify.LogNotifier{}
	sessions := payments.NewSessionManager()
	defer sessions.Close()

	reporter := checkout.NewKafkaReporter(cfg.KafkaBrokers...)
	defer reporter.Close()

	policy := payments.SettlementPolicy(payments.AlwaysApprove{})
	if cfg.PaymentApprovePct < 100 {
		policy = payments.RandomOutcome{ApprovePercent: cfg.PaymentApprovePct}
	}

	checkoutSvc := checkout.NewService(store, sessions, reporter, notifier, payments.DefaultDelays(), policy)
	favoritesSvc := favorites.NewService(store)

	cartHandler := h.NewCartHandler(store, menuSvc, notifier, cfg.RequestTimeout)
	menuHandler := h.NewMenuHandler(menuSvc, cfg.RequestTimeout)
	checkoutHandler := h.NewCheckoutHandler(checkoutSvc, cfg.RequestTimeout)
	favoritesHandler := h.NewFavoritesHandler(favoritesSvc, menuSvc, cfg.RequestTimeout)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(h.SessionMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/menu", menuHandler.ListItems)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{item_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{item_id}", cartHandler.RemoveItem)
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", favoritesHandler.List)
			r.Post("/", favoritesHandler.Add)
			r.Delete("/{item_id}", favoritesHandler.Remove)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/providers", checkoutHandler.ListProviders)
			r.Post("/", checkoutHandler.Begin)
			r.Route("/{checkout_id}", func(r chi.Router) {
				r.Get("/", checkoutHandler.GetSession)
				r.Post("/input", checkoutHandler.SubmitInput)
				r.Post("/confirm", checkoutHandler.Confirm)
				r.Post("/back", checkoutHandler.Back)
				r.Delete("/", checkoutHandler.Cancel)
			})
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
