package integration

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/elecciones/internal/core/domain"
)

func TestVoteRepository_CastVote(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)
	ctx := context.Background()

	x := app.firstCandidate(t, domain.CategoryPresidencial)
	sel := domain.Selection{CandidateID: x.ID, Category: x.Category}

	require.NoError(t, app.Votes.CastVote(ctx, domain.NewVoteRecord("45678912", sel)))

	err := app.Votes.CastVote(ctx, domain.NewVoteRecord("45678912", sel))
	assert.ErrorIs(t, err, domain.ErrDuplicateSubmission)
	assert.ErrorIs(t, err, domain.ErrAlreadyVoted)

	got, err := app.Candidates.GetByID(ctx, x.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.VoteCount)

	voted, err := app.Votes.VotedCategories(ctx, "45678912")
	require.NoError(t, err)
	assert.Equal(t, []domain.Category{domain.CategoryPresidencial}, voted)

	err = app.Votes.CastVote(ctx, domain.NewVoteRecord("45678912", domain.Selection{CandidateID: uuid.New(), Category: domain.CategoryRegional}))
	assert.ErrorIs(t, err, domain.ErrCandidateNotFound)

	records, err := app.Votes.ListByVoter(ctx, "45678912")
	require.NoError(t, err)
	assert.Len(t, records, 1, "a failed cast leaves no record behind")
}

func TestVoteRepository_ConcurrentConfirmFromTwoDevices(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)
	ctx := context.Background()

	x := app.firstCandidate(t, domain.CategoryDistrital)
	sel := domain.Selection{CandidateID: x.ID, Category: x.Category}

	const devices = 5
	var wg sync.WaitGroup
	errs := make(chan error, devices)
	for i := 0; i < devices; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- app.Votes.CastVote(ctx, domain.NewVoteRecord("10293847", sel))
		}()
	}
	wg.Wait()
	close(errs)

	var ok, duplicates int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrDuplicateSubmission):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, devices-1, duplicates)

	got, err := app.Candidates.GetByID(ctx, x.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.VoteCount)
}

func TestCandidateRepository_NamesByIDs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)
	ctx := context.Background()

	p := app.firstCandidate(t, domain.CategoryPresidencial)
	r := app.firstCandidate(t, domain.CategoryRegional)
	missing := uuid.New()

	names, err := app.Candidates.NamesByIDs(ctx, []uuid.UUID{p.ID, r.ID, missing})
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]string{p.ID: p.Name, r.ID: r.Name}, names)

	_, err = app.Candidates.GetByID(ctx, missing)
	assert.ErrorIs(t, err, domain.ErrCandidateNotFound)
}

func TestTallyService_ReconcileAll(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)
	ctx := context.Background()

	x := app.firstCandidate(t, domain.CategoryRegional)
	require.NoError(t, app.Votes.CastVote(ctx, domain.NewVoteRecord("45678912", domain.Selection{CandidateID: x.ID, Category: x.Category})))

	_, err := app.DB.Exec("UPDATE candidates SET vote_count = 40 WHERE id = $1", x.ID)
	require.NoError(t, err)

	adjusted, err := app.Tally.ReconcileAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), adjusted[domain.CategoryRegional])
	assert.Zero(t, adjusted[domain.CategoryPresidencial])

	got, err := app.Candidates.GetByID(ctx, x.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.VoteCount)
}
