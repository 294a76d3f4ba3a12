package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-preliminaries/internal/entity"
	"github.com/xavierca1/ligue-preliminaries/internal/infra/queue"
)

type ReleaseLeadUseCase struct {
	Repo      entity.PreliminaryLeadRepository
	Publisher EventPublisher
	Logger    *zap.Logger
	Now       Clock
}

func NewReleaseLeadUseCase(repo entity.PreliminaryLeadRepository, publisher EventPublisher, logger *zap.Logger) *ReleaseLeadUseCase {
	if publisher == nil {
		publisher = queue.NoopProducer{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReleaseLeadUseCase{
		Repo:      repo,
		Publisher: publisher,
		Logger:    logger,
		Now:       systemClock,
	}
}

// Execute remove o preliminar quando o formulário foi enviado. Pode ser
// chamado várias vezes para a mesma chave (submit, pagehide, página de
// obrigado): apagar zero linhas não é erro.
func (uc *ReleaseLeadUseCase) Execute(ctx context.Context, input ReleaseLeadInput) (*ReleaseLeadOutput, error) {
	digits := entity.NormalizePhone(input.Phone)
	if !entity.IsCompletePhone(digits) {
		return &ReleaseLeadOutput{Status: StatusIgnored, Reason: ReasonPhoneIncomplete, Phone: digits}, nil
	}

	landing := resolveReleaseLanding(input)

	deleted, err := uc.Repo.DeleteByKey(ctx, digits, landing)
	if err != nil {
		uc.Logger.Error("release failed", zap.String("phone", digits), zap.Error(err))
		return nil, storeError("falha ao remover preliminar", err)
	}

	uc.Logger.Debug("preliminary released",
		zap.String("phone", digits),
		zap.String("landing_url", landing),
		zap.Int64("deleted", deleted),
	)

	if deleted > 0 {
		event := queue.LeadEvent{
			Type:       queue.EventReleased,
			Phone:      digits,
			LandingURL: landing,
			Deleted:    deleted,
			OccurredAt: uc.Now(),
		}
		if err := uc.Publisher.Publish(ctx, event); err != nil {
			uc.Logger.Warn("lead.released publish failed", zap.String("phone", digits), zap.Error(err))
		}
	}

	return &ReleaseLeadOutput{Status: StatusDeleted, Phone: digits, Deleted: deleted}, nil
}

// landing_original vence: a página de obrigado não conhece a landing
// onde o preliminar foi capturado.
func resolveReleaseLanding(input ReleaseLeadInput) string {
	if l := SanitizeLanding(input.LandingOriginal); l != "" {
		return l
	}
	if l := SanitizeLanding(input.Landing); l != "" {
		return l
	}
	return SanitizeLanding(input.RequestURL)
}
