package postgres

import (
	"context"
	"database/sql"

	"github.com/vncsmyrnk/elecciones/internal/core/domain"
	"github.com/vncsmyrnk/elecciones/internal/core/ports"
)

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

// CastVote inserts the vote record, then increments the candidate counter, in
// one transaction.
func (r *voteRepository) CastVote(ctx context.Context, record domain.VoteRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storeError("begin transaction", err)
	}
	defer tx.Rollback()

	insertVote := `
		INSERT INTO votes (id, voter_dni, category, candidate_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = tx.ExecContext(ctx, insertVote, record.ID, record.VoterDNI, record.Category, record.CandidateID, record.CreatedAt)
	if err != nil {
		return storeError("insert vote", err)
	}

	incrementCount := `
		UPDATE candidates
		SET vote_count = vote_count + 1
		WHERE id = $1 AND category = $2
	`
	res, err := tx.ExecContext(ctx, incrementCount, record.CandidateID, record.Category)
	if err != nil {
		return storeError("increment vote count", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storeError("increment vote count", err)
	}
	if affected == 0 {
		return domain.ErrCandidateNotFound
	}

	if err := tx.Commit(); err != nil {
		return storeError("commit transaction", err)
	}

	return nil
}

func (r *voteRepository) VotedCategories(ctx context.Context, dni string) ([]domain.Category, error) {
	query := `SELECT category FROM votes WHERE voter_dni = $1`

	rows, err := r.db.QueryContext(ctx, query, dni)
	if err != nil {
		return nil, storeError("query voted categories", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c); err != nil {
			return nil, storeError("scan category", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate categories", err)
	}

	return categories, nil
}

func (r *voteRepository) ListByVoter(ctx context.Context, dni string) ([]domain.VoteRecord, error) {
	query := `
		SELECT id, voter_dni, category, candidate_id, created_at
		FROM votes
		WHERE voter_dni = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, dni)
	if err != nil {
		return nil, storeError("query votes", err)
	}
	defer rows.Close()

	var records []domain.VoteRecord
	for rows.Next() {
		var v domain.VoteRecord
		if err := rows.Scan(&v.ID, &v.VoterDNI, &v.Category, &v.CandidateID, &v.CreatedAt); err != nil {
			return nil, storeError("scan vote", err)
		}
		records = append(records, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate votes", err)
	}

	return records, nil
}
