package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vncsmyrnk/elecciones/internal/core/domain"
	"github.com/vncsmyrnk/elecciones/internal/core/ports"
	"github.com/vncsmyrnk/elecciones/internal/logger"
)

// Ballot is the selection state of one voter session. Voted categories are
// only ever taken from the store; selections live in memory until confirmed.
type Ballot struct {
	dni   string
	votes ports.VoteRepository
	log   logger.Logger

	mu         sync.Mutex
	voted      map[domain.Category]struct{}
	selections map[domain.Category]domain.Selection
	inFlight   map[domain.Category]struct{}
}

// ConfirmResult lists what a confirmation persisted and what it could not.
type ConfirmResult struct {
	Persisted []domain.Category
	Failures  map[domain.Category]error
}

func NewBallot(dni string, votes ports.VoteRepository, log logger.Logger) *Ballot {
	if log == nil {
		log = logger.NewNop()
	}
	return &Ballot{
		dni:        dni,
		votes:      votes,
		log:        log.With("dni", domain.MaskDNI(dni)),
		voted:      make(map[domain.Category]struct{}),
		selections: make(map[domain.Category]domain.Selection),
		inFlight:   make(map[domain.Category]struct{}),
	}
}

func (b *Ballot) DNI() string {
	return b.dni
}

// Select applies a choice. Choosing the current selection again clears it,
// any other candidate replaces the selection for its category.
func (b *Ballot) Select(sel domain.Selection) ([]domain.Selection, error) {
	if !sel.Category.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, sel.Category)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.voted[sel.Category]; ok {
		return nil, domain.ErrAlreadyVoted
	}
	if _, ok := b.inFlight[sel.Category]; ok {
		return nil, domain.ErrSubmissionInFlight
	}

	if current, ok := b.selections[sel.Category]; ok && current.CandidateID == sel.CandidateID {
		delete(b.selections, sel.Category)
	} else {
		b.selections[sel.Category] = sel
	}
	return b.selectionsLocked(), nil
}

// Confirm persists every pending selection, each in its own store
// transaction, then re-syncs voted categories from the store. When any
// category fails the returned error is a *domain.ConfirmError.
func (b *Ballot) Confirm(ctx context.Context) (*ConfirmResult, error) {
	b.mu.Lock()
	if len(b.selections) == 0 {
		b.mu.Unlock()
		return nil, domain.ErrNothingSelected
	}
	pending := make([]domain.Selection, 0, len(b.selections))
	for c, sel := range b.selections {
		if _, busy := b.inFlight[c]; busy {
			continue
		}
		pending = append(pending, sel)
		b.inFlight[c] = struct{}{}
	}
	b.mu.Unlock()

	if len(pending) == 0 {
		return nil, domain.ErrSubmissionInFlight
	}
	sortSelections(pending)

	result := &ConfirmResult{Failures: make(map[domain.Category]error)}
	for _, sel := range pending {
		err := b.votes.CastVote(ctx, domain.NewVoteRecord(b.dni, sel))
		switch {
		case err == nil:
			result.Persisted = append(result.Persisted, sel.Category)
			b.log.Info("vote cast", "category", sel.Category, "candidate_id", sel.CandidateID)
		case errors.Is(err, domain.ErrAlreadyVoted):
			result.Failures[sel.Category] = err
			b.log.Warn("duplicate submission", "category", sel.Category)
		default:
			result.Failures[sel.Category] = err
			b.log.Error("failed to cast vote", "category", sel.Category, "error", err)
		}
	}

	b.mu.Lock()
	for _, sel := range pending {
		delete(b.inFlight, sel.Category)
		err, failed := result.Failures[sel.Category]
		if failed && errors.Is(err, domain.ErrStoreUnavailable) {
			continue
		}
		if current, ok := b.selections[sel.Category]; ok && current.CandidateID == sel.CandidateID {
			delete(b.selections, sel.Category)
		}
	}
	b.mu.Unlock()

	var confirmErr error
	if len(result.Failures) > 0 {
		confirmErr = &domain.ConfirmError{Failures: result.Failures}
	}
	if err := b.Sync(ctx); err != nil {
		return result, errors.Join(confirmErr, fmt.Errorf("re-sync after confirm: %w", err))
	}
	return result, confirmErr
}

// Sync replaces voted categories with what the store reports and drops
// selections that can no longer be submitted.
func (b *Ballot) Sync(ctx context.Context) error {
	categories, err := b.votes.VotedCategories(ctx, b.dni)
	if err != nil {
		return err
	}

	voted := make(map[domain.Category]struct{}, len(categories))
	for _, c := range categories {
		voted[c] = struct{}{}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.voted = voted
	for c := range b.selections {
		if _, ok := voted[c]; ok {
			delete(b.selections, c)
		}
	}
	return nil
}

func (b *Ballot) VotedCategories() []domain.Category {
	b.mu.Lock()
	defer b.mu.Unlock()
	return sortedCategories(b.voted)
}

func (b *Ballot) InFlight() []domain.Category {
	b.mu.Lock()
	defer b.mu.Unlock()
	return sortedCategories(b.inFlight)
}

func (b *Ballot) Selections() []domain.Selection {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selectionsLocked()
}

func (b *Ballot) selectionsLocked() []domain.Selection {
	out := make([]domain.Selection, 0, len(b.selections))
	for _, sel := range b.selections {
		out = append(out, sel)
	}
	sortSelections(out)
	return out
}

func sortSelections(s []domain.Selection) {
	sort.Slice(s, func(i, j int) bool { return s[i].Category.Order() < s[j].Category.Order() })
}

func sortedCategories(set map[domain.Category]struct{}) []domain.Category {
	out := make([]domain.Category, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order() < out[j].Order() })
	return out
}
