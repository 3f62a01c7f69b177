package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vncsmyrnk/elecciones/internal/core/domain"
	"github.com/vncsmyrnk/elecciones/internal/core/ports"
)

type tallyRepository struct {
	db *sql.DB
}

func NewTallyRepository(db *sql.DB) ports.TallyRepository {
	return &tallyRepository{
		db: db,
	}
}

func (r *tallyRepository) ReconcileVoteCounts(ctx context.Context, category domain.Category) (int64, error) {
	query := `
		UPDATE candidates c
		SET vote_count = counted.total
		FROM (
			SELECT cand.id, COUNT(v.id) AS total
			FROM candidates cand
			LEFT JOIN votes v ON v.candidate_id = cand.id AND v.category = cand.category
			WHERE cand.category = $1
			GROUP BY cand.id
		) counted
		WHERE c.id = counted.id AND c.vote_count <> counted.total
	`

	res, err := r.db.ExecContext(ctx, query, category)
	if err != nil {
		return 0, storeError(fmt.Sprintf("reconcile %s vote counts", category), err)
	}
	return res.RowsAffected()
}
