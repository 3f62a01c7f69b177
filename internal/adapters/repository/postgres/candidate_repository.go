package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/vncsmyrnk/elecciones/internal/core/domain"
	"github.com/vncsmyrnk/elecciones/internal/core/ports"
)

const candidateColumns = `id, name, photo_url, description, party_name, party_logo_url, party_description,
		academic_formation, professional_experience, campaign_proposal, category, vote_count, created_at`

type candidateRepository struct {
	db *sql.DB
}

func NewCandidateRepository(db *sql.DB) ports.CandidateRepository {
	return &candidateRepository{
		db: db,
	}
}

func (r *candidateRepository) ListByCategory(ctx context.Context, category domain.Category) ([]domain.Candidate, error) {
	query := `
		SELECT ` + candidateColumns + `
		FROM candidates
		WHERE category = $1
		ORDER BY vote_count DESC, name
	`
	return r.list(ctx, query, category)
}

func (r *candidateRepository) ListAll(ctx context.Context) ([]domain.Candidate, error) {
	query := `
		SELECT ` + candidateColumns + `
		FROM candidates
		ORDER BY category, vote_count DESC, name
	`
	return r.list(ctx, query)
}

func (r *candidateRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Candidate, error) {
	query := `
		SELECT ` + candidateColumns + `
		FROM candidates
		WHERE id = $1
	`

	c, err := scanCandidate(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCandidateNotFound
		}
		return nil, storeError("get candidate", err)
	}
	return c, nil
}

func (r *candidateRepository) NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	query := `SELECT id, name FROM candidates WHERE id = ANY($1::uuid[])`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(raw))
	if err != nil {
		return nil, storeError("resolve candidate names", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, storeError("scan candidate name", err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate candidate names", err)
	}

	return names, nil
}

func (r *candidateRepository) list(ctx context.Context, query string, args ...any) ([]domain.Candidate, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError("list candidates", err)
	}
	defer rows.Close()

	var candidates []domain.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, storeError("scan candidate", err)
		}
		candidates = append(candidates, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate candidates", err)
	}

	return candidates, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row rowScanner) (*domain.Candidate, error) {
	var c domain.Candidate
	err := row.Scan(
		&c.ID, &c.Name, &c.PhotoURL, &c.Description, &c.PartyName, &c.PartyLogoURL, &c.PartyDescription,
		&c.AcademicFormation, &c.ProfessionalExperience, &c.CampaignProposal, &c.Category, &c.VoteCount, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
