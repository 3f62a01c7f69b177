package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/elecciones/internal/core/domain"
)

// BallotView is a read-only snapshot of a voter session.
type BallotView struct {
	SessionID       uuid.UUID          `json:"session_id"`
	Voter           domain.Voter       `json:"voter"`
	VotedCategories []domain.Category  `json:"voted_categories"`
	Selections      []domain.Selection `json:"selections"`
	InFlight        []domain.Category  `json:"in_flight,omitempty"`
	Phase           domain.Phase       `json:"phase"`
}

type ConfirmOutcome struct {
	Ballot     BallotView                 `json:"ballot"`
	Persisted  []domain.Category          `json:"persisted"`
	Failures   map[domain.Category]string `json:"failures,omitempty"`
	Completion *domain.Completion         `json:"completion,omitempty"`
}

type SessionService interface {
	Start(ctx context.Context, dni string) (*BallotView, string, error)
	Authenticate(token string) (uuid.UUID, error)
	View(ctx context.Context, sessionID uuid.UUID) (*BallotView, error)
	SelectCandidate(ctx context.Context, sessionID, candidateID uuid.UUID) (*BallotView, error)
	Confirm(ctx context.Context, sessionID uuid.UUID) (*ConfirmOutcome, error)
	Sync(ctx context.Context, sessionID uuid.UUID) (*BallotView, error)
	Summary(ctx context.Context, sessionID uuid.UUID) (*domain.Completion, error)
	Acknowledge(ctx context.Context, sessionID uuid.UUID) error
	End(ctx context.Context, sessionID uuid.UUID) error
}

// ReceiptRenderer renders a completed summary as a scannable image.
type ReceiptRenderer interface {
	Render(voter domain.Voter, summary []domain.SummaryItem) ([]byte, error)
}
