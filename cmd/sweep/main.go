// Command sweep roda uma única limpeza de retenção e sai, para quando um
// agendador externo (cron, CronJob do Kubernetes) cuida da varredura.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-preliminaries/internal/config"
	"github.com/xavierca1/ligue-preliminaries/internal/infra/database"
	"github.com/xavierca1/ligue-preliminaries/internal/infra/logger"
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

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

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
	sweepUC := usecase.NewSweepExpiredUseCase(repo, nil, logg, cfg.RetentionWindow())

	out, err := worker.NewRetentionSweeper(sweepUC, logg, cfg.SweepInterval).RunOnce(ctx)
	if err != nil {
		logg.Error("sweep failed", zap.Error(err))
		db.Close()
		logg.Sync()
		os.Exit(1)
	}
	logg.Info("sweep finished", zap.Int64("deleted", out.Deleted), zap.Time("cutoff", out.Cutoff))
}
