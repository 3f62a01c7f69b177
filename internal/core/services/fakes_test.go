package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/elecciones/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/elecciones/internal/core/domain"
)

// recordingVotes wraps the memory store to count casts, inject failures and
// hold a confirmation open.
type recordingVotes struct {
	*memory.Store

	mu      sync.Mutex
	casts   int
	failFor map[domain.Category]error
	listErr error

	started chan domain.Category
	release chan struct{}
}

func newRecordingVotes(store *memory.Store) *recordingVotes {
	return &recordingVotes{Store: store, failFor: make(map[domain.Category]error)}
}

func (r *recordingVotes) CastVote(ctx context.Context, record domain.VoteRecord) error {
	r.mu.Lock()
	r.casts++
	err := r.failFor[record.Category]
	started, release := r.started, r.release
	r.mu.Unlock()

	if started != nil {
		started <- record.Category
	}
	if release != nil {
		<-release
	}
	if err != nil {
		return err
	}
	return r.Store.CastVote(ctx, record)
}

func (r *recordingVotes) VotedCategories(ctx context.Context, dni string) ([]domain.Category, error) {
	if err := r.listError(); err != nil {
		return nil, err
	}
	return r.Store.VotedCategories(ctx, dni)
}

func (r *recordingVotes) ListByVoter(ctx context.Context, dni string) ([]domain.VoteRecord, error) {
	if err := r.listError(); err != nil {
		return nil, err
	}
	return r.Store.ListByVoter(ctx, dni)
}

func (r *recordingVotes) castCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.casts
}

func (r *recordingVotes) listError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listErr
}

// stubVotes returns fixed records.
type stubVotes struct {
	records []domain.VoteRecord
	err     error
}

func (s *stubVotes) CastVote(ctx context.Context, record domain.VoteRecord) error { return s.err }

func (s *stubVotes) VotedCategories(ctx context.Context, dni string) ([]domain.Category, error) {
	var out []domain.Category
	for _, r := range s.records {
		out = append(out, r.Category)
	}
	return out, s.err
}

func (s *stubVotes) ListByVoter(ctx context.Context, dni string) ([]domain.VoteRecord, error) {
	return s.records, s.err
}

// failingNames makes candidate name resolution fail.
type failingNames struct {
	*memory.Store
	err error
}

func (f *failingNames) NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	return nil, f.err
}

type fakeIdentity struct {
	mu      sync.Mutex
	voters  map[string]domain.Voter
	err     error
	lookups int
}

func (f *fakeIdentity) Lookup(ctx context.Context, dni string) (*domain.Voter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.voters[dni]
	if !ok {
		return nil, domain.ErrVoterNotFound
	}
	return &v, nil
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	boards []*domain.Board
}

func (f *fakeBroadcaster) BroadcastTally(board *domain.Board) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.boards = append(f.boards, board)
}

func (f *fakeBroadcaster) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.boards)
}

func candidateIn(t *testing.T, store *memory.Store, category domain.Category, index int) domain.Candidate {
	t.Helper()
	list, err := store.ListByCategory(context.Background(), category)
	if err != nil || len(list) <= index {
		t.Fatalf("no candidate %d in %s: %v", index, category, err)
	}
	return list[index]
}

func selectionOf(c domain.Candidate) domain.Selection {
	return domain.Selection{CandidateID: c.ID, CandidateName: c.Name, Category: c.Category}
}
