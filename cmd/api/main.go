package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-preliminaries/internal/config"
	"github.com/xavierca1/ligue-preliminaries/internal/infra/database"
	"github.com/xavierca1/ligue-preliminaries/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-preliminaries/internal/infra/http/router"
	"github.com/xavierca1/ligue-preliminaries/internal/infra/integration/kommo"
	"github.com/xavierca1/ligue-preliminaries/internal/infra/logger"
	"github.com/xavierca1/ligue-preliminaries/internal/infra/mail"
	"github.com/xavierca1/ligue-preliminaries/internal/infra/queue"
	"github.com/xavierca1/ligue-preliminaries/internal/infra/ratelimit"
	"github.com/xavierca1/ligue-preliminaries/internal/infra/worker"
	"github.com/xavierca1/ligue-preliminaries/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logg, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer logg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Banco + migração (uma vez, na subida)
	db, err := database.NewDBConnection(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		logg.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	dialect, _ := database.DialectFor(cfg.DBDriver)
	if err := database.Migrate(ctx, db, dialect); err != nil {
		logg.Fatal("migration failed", zap.Error(err))
	}

	repo := database.NewPreliminaryLeadRepository(db, cfg.DBQueryTimeout)

	// 2. RabbitMQ (opcional)
	var publisher queue.EventPublisher = queue.NoopProducer{}
	var rabbitMQ *queue.RabbitMQ
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err = queue.NewRabbitMQ(cfg.RabbitMQURL, cfg.NotifyDelay)
		if err != nil {
			logg.Fatal("failed to connect to rabbitmq", zap.Error(err))
		}
		defer rabbitMQ.Close()
		publisher = queue.NewProducer(rabbitMQ.Ch)
	}

	// 3. Rate limiter: Redis quando configurado, senão em memória
	var limiter ratelimit.Limiter
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = ratelimit.NewRedisClient(cfg.RedisAddr)
		defer rdb.Close()
		limiter = ratelimit.NewRedisLimiter(rdb, cfg.RateLimitPerMin, time.Minute)
	} else {
		mem := ratelimit.NewMemoryLimiter(cfg.RateLimitPerMin, time.Minute)
		defer mem.Close()
		limiter = mem
	}

	// 4. UseCases
	captureUC := usecase.NewCaptureLeadUseCase(repo, publisher, logg)
	releaseUC := usecase.NewReleaseLeadUseCase(repo, publisher, logg)
	sweepUC := usecase.NewSweepExpiredUseCase(repo, publisher, logg, cfg.RetentionWindow())
	listUC := usecase.NewListPreliminariesUseCase(repo)

	// 5. Workers
	sweeper := worker.NewRetentionSweeper(sweepUC, logg, cfg.SweepInterval)
	go sweeper.Start(ctx)

	var notifiers queue.Notifiers
	if cfg.MailEnabled() {
		notifiers = append(notifiers, mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom, cfg.NotifyEmail))
	}
	if cfg.KommoEnabled() {
		notifiers = append(notifiers, kommo.NewClient(cfg.KommoBaseURL, cfg.KommoAPIToken, cfg.KommoStatusID, logg))
	}
	if rabbitMQ != nil && len(notifiers) > 0 {
		notifyWorker := queue.NewWorker(rabbitMQ.Ch, notifiers, repo, logg)
		go func() {
			if err := notifyWorker.Start(ctx, queue.NotifyQueue); err != nil {
				logg.Error("notification worker failed", zap.Error(err))
			}
		}()
	}

	// 6. Handlers + Router
	health := handlers.NewHealthHandler(db, nil, rdb)
	if rabbitMQ != nil {
		health.RabbitMQ = rabbitMQ.Conn
	}

	h := router.New(router.Options{
		Lead:           handlers.NewLeadHandler(captureUC, releaseUC, limiter, logg),
		Admin:          handlers.NewAdminHandler(listUC, cfg.ListLimit, cfg.RetentionDays, logg),
		Health:         health,
		AdminToken:     cfg.AdminToken,
		AllowedOrigins: cfg.AllowedOrigins(),
		TrustProxy:     cfg.TrustProxy,
		Logger:         logg,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 20 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("could not start server", zap.Error(err))
		}
	}()
	logg.Info("server started", zap.String("port", cfg.ServerPort), zap.String("db_driver", cfg.DBDriver))

	<-ctx.Done()
	logg.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("server forced to shutdown", zap.Error(err))
	}
	logg.Info("server exiting")
}
