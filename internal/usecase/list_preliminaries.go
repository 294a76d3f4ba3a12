package usecase

import (
	"context"

	"github.com/xavierca1/ligue-preliminaries/internal/entity"
)

const MaxListLimit = 200

type ListPreliminariesUseCase struct {
	Repo entity.PreliminaryLeadRepository
}

func NewListPreliminariesUseCase(repo entity.PreliminaryLeadRepository) *ListPreliminariesUseCase {
	return &ListPreliminariesUseCase{Repo: repo}
}

// Execute devolve os preliminares mais recentes primeiro, no máximo 200.
func (uc *ListPreliminariesUseCase) Execute(ctx context.Context, limit int) ([]*entity.PreliminaryLead, error) {
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}

	leads, err := uc.Repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, storeError("falha ao listar preliminares", err)
	}
	if leads == nil {
		leads = []*entity.PreliminaryLead{}
	}
	return leads, nil
}
