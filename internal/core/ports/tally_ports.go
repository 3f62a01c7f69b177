package ports

import (
	"context"

	"github.com/vncsmyrnk/elecciones/internal/core/domain"
)

type TallyRepository interface {
	// ReconcileVoteCounts rewrites vote_count from the votes table for one
	// category and returns how many candidates were adjusted.
	ReconcileVoteCounts(ctx context.Context, category domain.Category) (int64, error)
}

type TallyService interface {
	ReconcileAll(ctx context.Context) (map[domain.Category]int64, error)
}

// TallyBroadcaster pushes refreshed results to live viewers.
type TallyBroadcaster interface {
	BroadcastTally(board *domain.Board)
}
