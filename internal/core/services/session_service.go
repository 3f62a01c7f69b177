package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/elecciones/internal/core/domain"
	"github.com/vncsmyrnk/elecciones/internal/core/ports"
	"github.com/vncsmyrnk/elecciones/internal/logger"
)

var _ ports.SessionService = (*SessionService)(nil)

type SessionService struct {
	identity   ports.IdentityLookup
	votes      ports.VoteRepository
	candidates ports.CandidateRepository
	board      ports.CandidateService
	broadcast  ports.TallyBroadcaster
	detector   *CompletionDetector
	tokens     *TokenIssuer
	registry   *sessionRegistry
	ttl        time.Duration
	log        logger.Logger
	now        func() time.Time
}

type SessionServiceConfig struct {
	Identity    ports.IdentityLookup
	Votes       ports.VoteRepository
	Candidates  ports.CandidateRepository
	Board       ports.CandidateService
	Broadcaster ports.TallyBroadcaster
	Tokens      *TokenIssuer
	TTL         time.Duration
	Logger      logger.Logger
}

func NewSessionService(cfg SessionServiceConfig) *SessionService {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &SessionService{
		identity:   cfg.Identity,
		votes:      cfg.Votes,
		candidates: cfg.Candidates,
		board:      cfg.Board,
		broadcast:  cfg.Broadcaster,
		detector:   NewCompletionDetector(cfg.Votes, cfg.Candidates, log),
		tokens:     cfg.Tokens,
		registry:   newSessionRegistry(),
		ttl:        cfg.TTL,
		log:        log,
		now:        time.Now,
	}
}

// Start looks the voter up and opens a session. Lookup failures are returned
// unchanged and no session is created.
func (s *SessionService) Start(ctx context.Context, dni string) (*ports.BallotView, string, error) {
	dni, err := domain.ValidateDNI(dni)
	if err != nil {
		return nil, "", err
	}

	voter, err := s.identity.Lookup(ctx, dni)
	if err != nil {
		return nil, "", err
	}
	voter.DNI = dni

	now := s.now()
	sess := &session{
		id:        uuid.New(),
		voter:     *voter,
		ballot:    NewBallot(dni, s.votes, s.log),
		expiresAt: now.Add(s.ttl),
	}
	if err := s.resync(ctx, sess); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(sess.id, dni, now)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue session token: %w", err)
	}
	s.registry.put(sess)

	s.log.Info("session started", "session_id", sess.id, "dni", domain.MaskDNI(dni), "phase", sess.phase())
	view := s.view(sess)
	return &view, token, nil
}

func (s *SessionService) Authenticate(token string) (uuid.UUID, error) {
	id, err := s.tokens.Parse(token)
	if err != nil {
		return uuid.Nil, err
	}
	if _, ok := s.registry.get(id, s.now()); !ok {
		return uuid.Nil, domain.ErrSessionNotFound
	}
	return id, nil
}

func (s *SessionService) View(ctx context.Context, sessionID uuid.UUID) (*ports.BallotView, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	view := s.view(sess)
	return &view, nil
}

func (s *SessionService) SelectCandidate(ctx context.Context, sessionID, candidateID uuid.UUID) (*ports.BallotView, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.phase() == domain.PhaseCompleted {
		return nil, domain.ErrSessionCompleted
	}

	candidate, err := s.candidates.GetByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	_, err = sess.ballot.Select(domain.Selection{
		CandidateID:   candidate.ID,
		CandidateName: candidate.Name,
		Category:      candidate.Category,
	})
	if err != nil {
		return nil, err
	}

	view := s.view(sess)
	return &view, nil
}

// Confirm persists the pending selections and evaluates completion once the
// store calls have returned. Per-category failures are reported in the
// outcome and in the returned *domain.ConfirmError.
func (s *SessionService) Confirm(ctx context.Context, sessionID uuid.UUID) (*ports.ConfirmOutcome, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.phase() == domain.PhaseCompleted {
		return nil, domain.ErrSessionCompleted
	}

	result, confirmErr := sess.ballot.Confirm(ctx)
	if result == nil {
		return nil, confirmErr
	}

	outcome := &ports.ConfirmOutcome{Persisted: result.Persisted}
	if len(result.Failures) > 0 {
		outcome.Failures = make(map[domain.Category]string, len(result.Failures))
		for c, err := range result.Failures {
			outcome.Failures[c] = err.Error()
		}
	}

	completion, err := s.detector.Evaluate(ctx, sess.ballot.DNI())
	if err != nil {
		s.log.Warn("failed to evaluate completion", "session_id", sess.id, "error", err)
	} else {
		sess.setCompletion(completion)
		outcome.Completion = completion
		if completion.Completed() {
			s.log.Info("ballot completed", "session_id", sess.id, "dni", domain.MaskDNI(sess.ballot.DNI()))
		}
	}

	if len(result.Persisted) > 0 {
		s.publishTally(ctx)
	}

	outcome.Ballot = s.view(sess)
	return outcome, confirmErr
}

// Sync re-derives voted categories and completion from the store.
func (s *SessionService) Sync(ctx context.Context, sessionID uuid.UUID) (*ports.BallotView, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.resync(ctx, sess); err != nil {
		return nil, err
	}
	view := s.view(sess)
	return &view, nil
}

func (s *SessionService) Summary(ctx context.Context, sessionID uuid.UUID) (*domain.Completion, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	if c := sess.getCompletion(); c.Completed() {
		return c, nil
	}

	completion, err := s.detector.Evaluate(ctx, sess.ballot.DNI())
	if err != nil {
		return nil, err
	}
	sess.setCompletion(completion)
	if !completion.Completed() {
		return completion, domain.ErrBallotIncomplete
	}
	return completion, nil
}

// Acknowledge closes a completed session.
func (s *SessionService) Acknowledge(ctx context.Context, sessionID uuid.UUID) error {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return err
	}
	if sess.phase() != domain.PhaseCompleted {
		return domain.ErrBallotIncomplete
	}
	return s.End(ctx, sessionID)
}

// End discards the voter identity and ballot.
func (s *SessionService) End(ctx context.Context, sessionID uuid.UUID) error {
	if !s.registry.remove(sessionID) {
		return domain.ErrSessionNotFound
	}
	s.log.Info("session ended", "session_id", sessionID)
	return nil
}

// RunJanitor removes expired sessions every interval until ctx is cancelled.
func (s *SessionService) RunJanitor(ctx context.Context, interval time.Duration) {
	s.registry.runJanitor(ctx, interval, s.now, func(n int) {
		s.log.Debug("expired sessions removed", "count", n)
	})
}

func (s *SessionService) lookup(id uuid.UUID) (*session, error) {
	sess, ok := s.registry.get(id, s.now())
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

func (s *SessionService) resync(ctx context.Context, sess *session) error {
	if err := sess.ballot.Sync(ctx); err != nil {
		return err
	}
	completion, err := s.detector.Evaluate(ctx, sess.ballot.DNI())
	if err != nil {
		return err
	}
	sess.setCompletion(completion)
	return nil
}

func (s *SessionService) publishTally(ctx context.Context) {
	if s.broadcast == nil || s.board == nil {
		return
	}
	board, err := s.board.Board(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.log.Warn("failed to refresh tally for broadcast", "error", err)
		}
		return
	}
	s.broadcast.BroadcastTally(board)
}

func (s *SessionService) view(sess *session) ports.BallotView {
	return ports.BallotView{
		SessionID:       sess.id,
		Voter:           sess.voter,
		VotedCategories: sess.ballot.VotedCategories(),
		Selections:      sess.ballot.Selections(),
		InFlight:        sess.ballot.InFlight(),
		Phase:           sess.phase(),
	}
}
