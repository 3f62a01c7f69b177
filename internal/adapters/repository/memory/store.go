package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/elecciones/internal/core/domain"
)

type voteKey struct {
	dni      string
	category domain.Category
}

// Store is an in-process Vote Store. It enforces one vote per voter and
// category the same way the votes table's unique constraint does.
type Store struct {
	mu sync.RWMutex

	candidates map[uuid.UUID]domain.Candidate
	votes      map[voteKey]domain.VoteRecord
}

func NewStore(candidates ...domain.Candidate) *Store {
	s := &Store{
		candidates: make(map[uuid.UUID]domain.Candidate, len(candidates)),
		votes:      make(map[voteKey]domain.VoteRecord),
	}
	for _, c := range candidates {
		s.AddCandidate(c)
	}
	return s
}

func (s *Store) AddCandidate(c domain.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	s.candidates[c.ID] = c
}

// RemoveCandidate deletes a candidate but keeps the votes that reference it.
func (s *Store) RemoveCandidate(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.candidates, id)
}

func (s *Store) CastVote(ctx context.Context, record domain.VoteRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := voteKey{dni: record.VoterDNI, category: record.Category}
	if _, exists := s.votes[key]; exists {
		return domain.ErrDuplicateSubmission
	}
	candidate, ok := s.candidates[record.CandidateID]
	if !ok || candidate.Category != record.Category {
		return domain.ErrCandidateNotFound
	}

	s.votes[key] = record
	candidate.VoteCount++
	s.candidates[candidate.ID] = candidate
	return nil
}

func (s *Store) VotedCategories(ctx context.Context, dni string) ([]domain.Category, error) {
	records, err := s.ListByVoter(ctx, dni)
	if err != nil {
		return nil, err
	}
	categories := make([]domain.Category, 0, len(records))
	for _, r := range records {
		categories = append(categories, r.Category)
	}
	return categories, nil
}

func (s *Store) ListByVoter(ctx context.Context, dni string) ([]domain.VoteRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []domain.VoteRecord
	for key, r := range s.votes {
		if key.dni == dni {
			records = append(records, r)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Category.Order() < records[j].Category.Order() })
	return records, nil
}

func (s *Store) ListByCategory(ctx context.Context, category domain.Category) ([]domain.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Candidate
	for _, c := range s.candidates {
		if c.Category == category {
			out = append(out, c)
		}
	}
	sortByVotes(out)
	return out, nil
}

func (s *Store) ListAll(ctx context.Context) ([]domain.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category.Order() < out[j].Category.Order()
		}
		if out[i].VoteCount != out[j].VoteCount {
			return out[i].VoteCount > out[j].VoteCount
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*domain.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.candidates[id]
	if !ok {
		return nil, domain.ErrCandidateNotFound
	}
	return &c, nil
}

func (s *Store) NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make(map[uuid.UUID]string, len(ids))
	for _, id := range ids {
		if c, ok := s.candidates[id]; ok {
			names[id] = c.Name
		}
	}
	return names, nil
}

// ReconcileVoteCounts recomputes vote_count from the stored votes.
func (s *Store) ReconcileVoteCounts(ctx context.Context, category domain.Category) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[uuid.UUID]int64)
	for key, r := range s.votes {
		if key.category == category {
			counts[r.CandidateID]++
		}
	}

	var adjusted int64
	for id, c := range s.candidates {
		if c.Category != category || c.VoteCount == counts[id] {
			continue
		}
		c.VoteCount = counts[id]
		s.candidates[id] = c
		adjusted++
	}
	return adjusted, nil
}

func sortByVotes(candidates []domain.Candidate) {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].VoteCount != candidates[j].VoteCount {
			return candidates[i].VoteCount > candidates[j].VoteCount
		}
		return candidates[i].Name < candidates[j].Name
	})
}
