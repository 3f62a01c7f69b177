package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/elecciones/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/elecciones/internal/core/domain"
)

func newBoardStore() *memory.Store {
	return memory.NewStore(
		domain.Candidate{ID: uuid.New(), Name: "Rosa", Category: domain.CategoryPresidencial, VoteCount: 30},
		domain.Candidate{ID: uuid.New(), Name: "Carlos", Category: domain.CategoryPresidencial, VoteCount: 10},
		domain.Candidate{ID: uuid.New(), Name: "Jorge", Category: domain.CategoryDistrital, VoteCount: 5},
		domain.Candidate{ID: uuid.New(), Name: "Ana", Category: domain.CategoryRegional},
	)
}

func TestCandidateService_Board(t *testing.T) {
	svc := NewCandidateService(newBoardStore())

	board, err := svc.Board(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(45), board.TotalVotes)
	assert.Equal(t, 4, board.CandidateCount)
	require.Len(t, board.Categories, 3)

	presidencial := board.Categories[0]
	assert.Equal(t, domain.CategoryPresidencial, presidencial.Category)
	assert.Equal(t, "Presidencial", presidencial.Label)
	assert.Equal(t, int64(40), presidencial.TotalVotes)
	require.Len(t, presidencial.Candidates, 2)
	assert.Equal(t, "Rosa", presidencial.Candidates[0].Name)
	assert.Equal(t, 75.0, presidencial.Candidates[0].Percentage)
	assert.Equal(t, 25.0, presidencial.Candidates[1].Percentage)

	regional := board.Categories[2]
	assert.Equal(t, int64(0), regional.TotalVotes)
	assert.Equal(t, 0.0, regional.Candidates[0].Percentage)
}

func TestCandidateService_Standings(t *testing.T) {
	svc := NewCandidateService(newBoardStore())

	standings, err := svc.Standings(context.Background(), domain.CategoryDistrital)
	require.NoError(t, err)
	require.Len(t, standings.Candidates, 1)
	assert.Equal(t, 100.0, standings.Candidates[0].Percentage)

	_, err = svc.Standings(context.Background(), "municipal")
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)
}

func TestCandidateService_Get(t *testing.T) {
	store := newBoardStore()
	svc := NewCandidateService(store)
	carlos := candidateIn(t, store, domain.CategoryPresidencial, 1)

	got, err := svc.Get(context.Background(), carlos.ID)
	require.NoError(t, err)
	assert.Equal(t, "Carlos", got.Name)
	assert.Equal(t, 25.0, got.Percentage)

	_, err = svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrCandidateNotFound)
}
