package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"badbaado/internal/admin"
	"badbaado/internal/auth"
	"badbaado/internal/donation"
	"badbaado/internal/hospital"
	"badbaado/internal/match"
	"badbaado/internal/notify"
	"badbaado/internal/platform/config"
	"badbaado/internal/platform/httpserver"
	"badbaado/internal/platform/logger"
	"badbaado/internal/platform/metrics"
	"badbaado/internal/platform/postgres"
	"badbaado/internal/platform/redis"
	"badbaado/internal/request"
	"badbaado/internal/settings"
	httptransport "badbaado/internal/transport/http"
	"badbaado/internal/user"
)

// main wires the dependency graph and owns lifecycle: the HTTP server, the
// notification worker, and graceful shutdown. Business logic lives in the
// internal services.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	redisClient, err := redis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Stores.
	var (
		userStore     user.Store
		adminStore    admin.Store
		requestStore  request.Store
		donationStore donation.Store
		hospitalStore hospital.Store
		settingStore  settings.Store
		inboxStore    notify.Store
	)
	if db != nil {
		userStore = user.NewPostgres(db)
		adminStore = admin.NewPostgres(db)
		requestStore = request.NewPostgres(db)
		donationStore = donation.NewPostgres(db)
		hospitalStore = hospital.NewPostgres(db)
		settingStore = settings.NewPostgres(db)
		inboxStore = notify.NewPostgresStore(db)
	} else {
		userStore = user.NewMemoryStore()
		adminStore = admin.NewMemoryStore()
		requestStore = request.NewMemoryStore()
		donationStore = donation.NewMemoryStore()
		hospitalStore = hospital.NewMemoryStore()
		settingStore = settings.NewMemoryStore()
		inboxStore = notify.NewMemoryStore()
	}

	// Auth.
	var revocation auth.RevocationList
	if redisClient != nil {
		revocation = auth.NewRedisRevocationList(redisClient.Client)
	} else {
		revocation = auth.NewMemoryRevocationList()
	}
	tokens := auth.NewTokenService(cfg.JWTSigningKey, cfg.TokenTTL, revocation)
	hasher := auth.NewHasher(cfg.BcryptCost)

	// Outbound messaging.
	var sender notify.Sender
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSender, err := notify.NewKafkaSender(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Error("kafka client failed", "error", err)
			os.Exit(1)
		}
		defer kafkaSender.Close()
		sender = kafkaSender
	} else {
		log.Warn("KAFKA_BROKERS not set, logging outbound messages instead")
		sender = notify.NewLogSender(log)
	}
	breaker := notify.NewCircuitBreaker(0, 0)
	dispatcher := notify.NewDispatcher(sender, inboxStore, breaker, cfg.OutboxBuffer, cfg.NotifyWorkers, m, log)

	// Services.
	userSvc := user.NewService(userStore, hasher, revocation, cfg.TokenTTL, m, log)
	matcher := match.NewMatcher(userStore, m)
	hospitalSvc := hospital.NewService(hospitalStore)
	settingSvc := settings.NewService(settingStore)

	adminSvc := admin.NewService(adminStore, hasher, userStore, nil, donationStore, log)

	requestSvc := request.NewService(requestStore, matcher, dispatcher, adminSvc, cfg.MatcherLimit, m, log)
	donationSvc := donation.NewService(donationStore, userStore, requestSvc, dispatcher, db, m, log)
	requestSvc.SetDonationBook(donationSvc)
	adminSvc.SetRequestCounter(requestSvc)

	handler := httptransport.NewHandler(httptransport.Config{
		Users:     userSvc,
		Admins:    adminSvc,
		Requests:  requestSvc,
		Donations: donationSvc,
		Hospitals: hospitalSvc,
		Settings:  settingSvc,
		Inbox:     inboxStore,
		Tokens:    tokens,
		Metrics:   m,
		Logger:    log,
		Health: func(ctx context.Context) error {
			if db != nil {
				if err := db.PingContext(ctx); err != nil {
					return err
				}
			}
			if redisClient != nil {
				return redisClient.Health(ctx)
			}
			return nil
		},
	})
	router := httptransport.NewRouter(handler)
	srv := httpserver.New(cfg.Addr, router)

	// Notification worker.
	workerCtx, stopWorker := context.WithCancel(context.Background())
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		if err := dispatcher.Run(workerCtx); err != nil {
			log.Error("notification worker stopped", "error", err)
		}
	}()

	log.Info("starting badbaado", "addr", cfg.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}

	// Stop the worker after the server so in-flight handlers can still queue;
	// Run drains the outbox before returning.
	stopWorker()
	<-workerDone
}
