package ports

import (
	"context"

	"github.com/vncsmyrnk/elecciones/internal/core/domain"
)

// VoteRepository is the votes side of the Vote Store.
type VoteRepository interface {
	// CastVote inserts the record and increments the candidate's vote_count
	// together. A second record for the same voter and category fails with
	// domain.ErrDuplicateSubmission.
	CastVote(ctx context.Context, record domain.VoteRecord) error
	VotedCategories(ctx context.Context, dni string) ([]domain.Category, error)
	ListByVoter(ctx context.Context, dni string) ([]domain.VoteRecord, error)
}
