package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/elecciones/internal/core/domain"
)

type CandidateRepository interface {
	// ListByCategory returns candidates ordered by vote_count descending.
	ListByCategory(ctx context.Context, category domain.Category) ([]domain.Candidate, error)
	ListAll(ctx context.Context) ([]domain.Candidate, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Candidate, error)
	// NamesByIDs resolves names in one round trip. Unknown ids are absent from the result.
	NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

type CandidateService interface {
	Board(ctx context.Context) (*domain.Board, error)
	Standings(ctx context.Context, category domain.Category) (*domain.CategoryStandings, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.CandidateStanding, error)
}
