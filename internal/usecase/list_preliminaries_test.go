package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-preliminaries/internal/entity"
)

func TestListPreliminariesClampsLimit(t *testing.T) {
	for _, limit := range []int{0, -5, 201, 5000} {
		repo := new(MockPreliminaryLeadRepository)
		repo.On("ListRecent", context.Background(), MaxListLimit).Return(nil, nil)

		leads, err := NewListPreliminariesUseCase(repo).Execute(context.Background(), limit)

		require.NoError(t, err)
		assert.NotNil(t, leads)
		assert.Empty(t, leads)
		repo.AssertExpectations(t)
	}
}

func TestListPreliminariesPassesLimit(t *testing.T) {
	repo := new(MockPreliminaryLeadRepository)
	rows := []*entity.PreliminaryLead{{ID: "a"}, {ID: "b"}}
	repo.On("ListRecent", context.Background(), 2).Return(rows, nil)

	leads, err := NewListPreliminariesUseCase(repo).Execute(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, rows, leads)
}
