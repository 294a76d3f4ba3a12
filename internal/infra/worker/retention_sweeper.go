package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-preliminaries/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-preliminaries/internal/usecase"
)

type Sweeper interface {
	Execute(ctx context.Context) (*usecase.SweepExpiredOutput, error)
}

// RetentionSweeper roda a limpeza de preliminares expirados uma vez ao
// iniciar e depois a cada tickInterval.
type RetentionSweeper struct {
	sweeper      Sweeper
	logger       *zap.Logger
	tickInterval time.Duration
}

func NewRetentionSweeper(sweeper Sweeper, logger *zap.Logger, tickInterval time.Duration) *RetentionSweeper {
	if tickInterval <= 0 {
		tickInterval = 24 * time.Hour
	}
	return &RetentionSweeper{
		sweeper:      sweeper,
		logger:       logger,
		tickInterval: tickInterval,
	}
}

func (w *RetentionSweeper) Start(ctx context.Context) {
	w.logger.Info("retention sweeper started", zap.Duration("interval", w.tickInterval))

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("retention sweeper stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce executa uma varredura. Falhas só são logadas; o próximo tick é a
// nova tentativa.
func (w *RetentionSweeper) RunOnce(ctx context.Context) (*usecase.SweepExpiredOutput, error) {
	out, err := w.sweeper.Execute(ctx)
	if err != nil {
		middleware.RecordStoreError("sweep")
		w.logger.Error("retention sweep failed", zap.Error(err))
		return nil, err
	}

	middleware.RecordSwept(out.Deleted)
	w.logger.Debug("retention sweep finished",
		zap.Int64("deleted", out.Deleted),
		zap.Time("cutoff", out.Cutoff),
	)
	return out, nil
}
