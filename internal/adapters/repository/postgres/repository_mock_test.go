package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/elecciones/internal/core/domain"
)

var candidateRowColumns = []string{
	"id", "name", "photo_url", "description", "party_name", "party_logo_url", "party_description",
	"academic_formation", "professional_experience", "campaign_proposal", "category", "vote_count", "created_at",
}

func newMock(t *testing.T) (sqlmock.Sqlmock, func() *voteRepository, func() *candidateRepository, func() *tallyRepository) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return mock,
		func() *voteRepository { return &voteRepository{db: db} },
		func() *candidateRepository { return &candidateRepository{db: db} },
		func() *tallyRepository { return &tallyRepository{db: db} }
}

func testRecord() domain.VoteRecord {
	return domain.VoteRecord{
		ID:          uuid.New(),
		VoterDNI:    "12345678",
		Category:    domain.CategoryPresidencial,
		CandidateID: uuid.New(),
		CreatedAt:   time.Date(2026, 4, 12, 9, 30, 0, 0, time.UTC),
	}
}

func TestCastVote_InsertsThenIncrements(t *testing.T) {
	mock, votes, _, _ := newMock(t)
	rec := testRecord()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO votes")).
		WithArgs(rec.ID, rec.VoterDNI, "presidencial", rec.CandidateID, rec.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE candidates")).
		WithArgs(rec.CandidateID, "presidencial").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, votes().CastVote(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCastVote_UniqueViolationIsDuplicate(t *testing.T) {
	mock, votes, _, _ := newMock(t)
	rec := testRecord()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO votes")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "votes_voter_category_key"})
	mock.ExpectRollback()

	err := votes().CastVote(context.Background(), rec)

	assert.ErrorIs(t, err, domain.ErrDuplicateSubmission)
	assert.ErrorIs(t, err, domain.ErrAlreadyVoted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCastVote_UnknownCandidateRollsBack(t *testing.T) {
	mock, votes, _, _ := newMock(t)
	rec := testRecord()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO votes")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE candidates")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := votes().CastVote(context.Background(), rec)

	assert.ErrorIs(t, err, domain.ErrCandidateNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCastVote_IncrementFailureRollsBack(t *testing.T) {
	mock, votes, _, _ := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO votes")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE candidates")).WillReturnError(errors.New("connection reset by peer"))
	mock.ExpectRollback()

	err := votes().CastVote(context.Background(), testRecord())

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Contains(t, err.Error(), "increment vote count")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCastVote_BeginFailureIsUnavailable(t *testing.T) {
	mock, votes, _, _ := newMock(t)
	mock.ExpectBegin().WillReturnError(errors.New("dial tcp: connection refused"))

	err := votes().CastVote(context.Background(), testRecord())

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestCastVote_CheckViolationIsNotRetryable(t *testing.T) {
	mock, votes, _, _ := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO votes")).WillReturnError(&pq.Error{Code: "23514"})
	mock.ExpectRollback()

	err := votes().CastVote(context.Background(), testRecord())

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.NotErrorIs(t, err, domain.ErrAlreadyVoted)
}

func TestVotedCategories(t *testing.T) {
	mock, votes, _, _ := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT category FROM votes WHERE voter_dni = $1")).
		WithArgs("12345678").
		WillReturnRows(sqlmock.NewRows([]string{"category"}).AddRow("regional").AddRow("presidencial"))

	categories, err := votes().VotedCategories(context.Background(), "12345678")
	require.NoError(t, err)
	assert.Equal(t, []domain.Category{domain.CategoryRegional, domain.CategoryPresidencial}, categories)
}

func TestListByVoter(t *testing.T) {
	mock, votes, _, _ := newMock(t)
	rec := testRecord()

	mock.ExpectQuery("SELECT (.+) FROM votes").
		WithArgs(rec.VoterDNI).
		WillReturnRows(sqlmock.NewRows([]string{"id", "voter_dni", "category", "candidate_id", "created_at"}).
			AddRow(rec.ID.String(), rec.VoterDNI, "presidencial", rec.CandidateID.String(), rec.CreatedAt))

	records, err := votes().ListByVoter(context.Background(), rec.VoterDNI)
	require.NoError(t, err)
	assert.Equal(t, []domain.VoteRecord{rec}, records)
}

func TestListByVoter_QueryFailure(t *testing.T) {
	mock, votes, _, _ := newMock(t)
	mock.ExpectQuery("SELECT (.+) FROM votes").WillReturnError(errors.New("timeout"))

	_, err := votes().ListByVoter(context.Background(), "12345678")

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestListByCategory(t *testing.T) {
	mock, _, candidates, _ := newMock(t)
	created := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	first, second := uuid.New(), uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM candidates\\s+WHERE category = \\$1").
		WithArgs("distrital").
		WillReturnRows(sqlmock.NewRows(candidateRowColumns).
			AddRow(first.String(), "Jorge", "", "", "Frente Andino", nil, "Gremios", nil, nil, nil, "distrital", 12, created).
			AddRow(second.String(), "Elena", "", "", "Vecinos Primero", nil, nil, nil, nil, nil, "distrital", 3, created))

	list, err := candidates().ListByCategory(context.Background(), domain.CategoryDistrital)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, first, list[0].ID)
	assert.Equal(t, int64(12), list[0].VoteCount)
	assert.Equal(t, domain.CategoryDistrital, list[0].Category)
	require.NotNil(t, list[0].PartyDescription)
	assert.Equal(t, "Gremios", *list[0].PartyDescription)
	assert.Nil(t, list[1].PartyDescription)
}

func TestGetByID_NotFound(t *testing.T) {
	mock, _, candidates, _ := newMock(t)

	mock.ExpectQuery("SELECT (.+) FROM candidates\\s+WHERE id = \\$1").
		WillReturnRows(sqlmock.NewRows(candidateRowColumns))

	_, err := candidates().GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrCandidateNotFound)
}

func TestNamesByIDs(t *testing.T) {
	mock, _, candidates, _ := newMock(t)
	known, missing := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM candidates WHERE id = ANY($1::uuid[])")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(known.String(), "Rosa"))

	names, err := candidates().NamesByIDs(context.Background(), []uuid.UUID{known, missing})
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]string{known: "Rosa"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNamesByIDs_EmptySkipsQuery(t *testing.T) {
	mock, _, candidates, _ := newMock(t)

	names, err := candidates().NamesByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcileVoteCounts(t *testing.T) {
	mock, _, _, tally := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE candidates c")).
		WithArgs("regional").
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := tally().ReconcileVoteCounts(context.Background(), domain.CategoryRegional)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestReconcileVoteCounts_Failure(t *testing.T) {
	mock, _, _, tally := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE candidates c")).WillReturnError(errors.New("deadlock detected"))

	_, err := tally().ReconcileVoteCounts(context.Background(), domain.CategoryRegional)

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Contains(t, err.Error(), "reconcile regional vote counts")
}
