package services

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/elecciones/internal/core/domain"
	"github.com/vncsmyrnk/elecciones/internal/core/ports"
)

type candidateService struct {
	repo ports.CandidateRepository
}

func NewCandidateService(repo ports.CandidateRepository) ports.CandidateService {
	return &candidateService{
		repo: repo,
	}
}

func (s *candidateService) Board(ctx context.Context) (*domain.Board, error) {
	candidates, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	grouped := make(map[domain.Category][]domain.Candidate, len(domain.Categories))
	for _, c := range candidates {
		grouped[c.Category] = append(grouped[c.Category], c)
	}

	board := &domain.Board{CandidateCount: len(candidates)}
	for _, category := range domain.Categories {
		standings := rank(category, grouped[category])
		board.TotalVotes += standings.TotalVotes
		board.Categories = append(board.Categories, standings)
	}
	return board, nil
}

func (s *candidateService) Standings(ctx context.Context, category domain.Category) (*domain.CategoryStandings, error) {
	if !category.Valid() {
		return nil, domain.ErrUnknownCategory
	}
	candidates, err := s.repo.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	standings := rank(category, candidates)
	return &standings, nil
}

func (s *candidateService) Get(ctx context.Context, id uuid.UUID) (*domain.CandidateStanding, error) {
	candidate, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	peers, err := s.repo.ListByCategory(ctx, candidate.Category)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, p := range peers {
		total += p.VoteCount
	}
	return &domain.CandidateStanding{
		Candidate:  *candidate,
		Percentage: domain.Percentage(candidate.VoteCount, total),
	}, nil
}

// rank orders candidates by vote count, highest first, and computes each share.
func rank(category domain.Category, candidates []domain.Candidate) domain.CategoryStandings {
	sorted := make([]domain.Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].VoteCount > sorted[j].VoteCount })

	standings := domain.CategoryStandings{
		Category:   category,
		Label:      category.Label(),
		Candidates: make([]domain.CandidateStanding, 0, len(sorted)),
	}
	for _, c := range sorted {
		standings.TotalVotes += c.VoteCount
	}
	for _, c := range sorted {
		standings.Candidates = append(standings.Candidates, domain.CandidateStanding{
			Candidate:  c,
			Percentage: domain.Percentage(c.VoteCount, standings.TotalVotes),
		})
	}
	return standings
}
