package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-preliminaries/internal/entity"
	"github.com/xavierca1/ligue-preliminaries/internal/infra/queue"
)

const DefaultRetentionWindow = 13 * 24 * time.Hour

type SweepExpiredUseCase struct {
	Repo            entity.PreliminaryLeadRepository
	Publisher       EventPublisher
	Logger          *zap.Logger
	RetentionWindow time.Duration
	Now             Clock
}

func NewSweepExpiredUseCase(repo entity.PreliminaryLeadRepository, publisher EventPublisher, logger *zap.Logger, retention time.Duration) *SweepExpiredUseCase {
	if publisher == nil {
		publisher = queue.NoopProducer{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if retention <= 0 {
		retention = DefaultRetentionWindow
	}
	return &SweepExpiredUseCase{
		Repo:            repo,
		Publisher:       publisher,
		Logger:          logger,
		RetentionWindow: retention,
		Now:             systemClock,
	}
}

// Execute apaga os preliminares sem atividade há mais que RetentionWindow.
// Uma captura concorrente pode ou não sobreviver à varredura em curso.
func (uc *SweepExpiredUseCase) Execute(ctx context.Context) (*SweepExpiredOutput, error) {
	cutoff := uc.Now().Add(-uc.RetentionWindow)

	deleted, err := uc.Repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return nil, storeError("falha ao limpar preliminares antigos", err)
	}

	if deleted > 0 {
		uc.Logger.Info("expired preliminaries removed", zap.Int64("deleted", deleted), zap.Time("cutoff", cutoff))

		event := queue.LeadEvent{Type: queue.EventSwept, Deleted: deleted, OccurredAt: uc.Now()}
		if err := uc.Publisher.Publish(ctx, event); err != nil {
			uc.Logger.Warn("lead.swept publish failed", zap.Error(err))
		}
	}

	return &SweepExpiredOutput{Cutoff: cutoff, Deleted: deleted}, nil
}
