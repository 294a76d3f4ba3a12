package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-preliminaries/internal/entity"
	"github.com/xavierca1/ligue-preliminaries/internal/infra/queue"
)

type CaptureLeadUseCase struct {
	Repo      entity.PreliminaryLeadRepository
	Publisher EventPublisher
	Logger    *zap.Logger
	Now       Clock
}

func NewCaptureLeadUseCase(repo entity.PreliminaryLeadRepository, publisher EventPublisher, logger *zap.Logger) *CaptureLeadUseCase {
	if publisher == nil {
		publisher = queue.NoopProducer{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CaptureLeadUseCase{
		Repo:      repo,
		Publisher: publisher,
		Logger:    logger,
		Now:       systemClock,
	}
}

// Execute grava (ou atualiza) o preliminar da chave (telefone, landing).
// Telefones com menos de 10 dígitos são ignorados sem tocar no banco.
func (uc *CaptureLeadUseCase) Execute(ctx context.Context, input CaptureLeadInput) (*CaptureLeadOutput, error) {
	digits := entity.NormalizePhone(input.Phone)
	if !entity.IsCompletePhone(digits) {
		return &CaptureLeadOutput{Status: StatusIgnored, Reason: ReasonPhoneIncomplete, Phone: digits}, nil
	}

	// A landing informada é a chave, mesmo relativa; o fallback só entra
	// quando o campo veio vazio.
	landing := SanitizeLanding(input.Landing)
	if landing == "" {
		landing = SanitizeLanding(input.RequestURL)
	}

	lead := &entity.PreliminaryLead{
		Name:       SanitizeText(input.Name),
		Email:      SanitizeEmail(input.Email),
		Phone:      digits,
		LandingURL: landing,
	}

	now := uc.Now()
	created, err := uc.Repo.Upsert(ctx, lead, now)
	if err != nil {
		uc.Logger.Error("capture failed", zap.String("phone", digits), zap.Error(err))
		return nil, storeError("falha ao salvar preliminar", err)
	}

	uc.Logger.Debug("preliminary saved",
		zap.String("lead_id", lead.ID),
		zap.String("phone", digits),
		zap.String("landing_url", landing),
		zap.Bool("created", created),
	)

	event := queue.LeadEvent{
		Type:       queue.EventCaptured,
		LeadID:     lead.ID,
		Phone:      digits,
		LandingURL: landing,
		Name:       lead.Name,
		Email:      lead.Email,
		Created:    created,
		OccurredAt: now,
	}
	if err := uc.Publisher.Publish(ctx, event); err != nil {
		// O preliminar já está salvo; o evento é best-effort.
		uc.Logger.Warn("lead.captured publish failed", zap.String("lead_id", lead.ID), zap.Error(err))
	}

	return &CaptureLeadOutput{Status: StatusSaved, Phone: digits, LeadID: lead.ID}, nil
}
