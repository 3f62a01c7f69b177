package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/elecciones/internal/core/domain"
	"github.com/vncsmyrnk/elecciones/internal/core/ports"
	"github.com/vncsmyrnk/elecciones/internal/logger"
)

// CompletionDetector decides from the store whether a voter has finished
// every category.
type CompletionDetector struct {
	votes      ports.VoteRepository
	candidates ports.CandidateRepository
	log        logger.Logger
}

func NewCompletionDetector(votes ports.VoteRepository, candidates ports.CandidateRepository, log logger.Logger) *CompletionDetector {
	if log == nil {
		log = logger.NewNop()
	}
	return &CompletionDetector{votes: votes, candidates: candidates, log: log}
}

// Evaluate re-reads every vote of dni. The ballot is completed only when each
// category holds exactly one record. Names that cannot be resolved are
// replaced by domain.UnknownCandidateLabel.
func (d *CompletionDetector) Evaluate(ctx context.Context, dni string) (*domain.Completion, error) {
	records, err := d.votes.ListByVoter(ctx, dni)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[domain.Category][]domain.VoteRecord, len(domain.Categories))
	for _, r := range records {
		byCategory[r.Category] = append(byCategory[r.Category], r)
	}

	completion := &domain.Completion{Phase: domain.PhaseAwaitingCategories}
	for _, c := range domain.Categories {
		switch n := len(byCategory[c]); {
		case n == 0:
			completion.Missing = append(completion.Missing, c)
		case n > 1:
			d.log.Warn("multiple votes recorded for category", "dni", domain.MaskDNI(dni), "category", c, "count", n)
			completion.Missing = append(completion.Missing, c)
		}
	}
	if len(completion.Missing) > 0 {
		return completion, nil
	}

	ids := make([]uuid.UUID, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		ids = append(ids, byCategory[c][0].CandidateID)
	}
	names, err := d.candidates.NamesByIDs(ctx, ids)
	if err != nil {
		d.log.Warn("failed to resolve candidate names", "error", err)
		names = nil
	}

	for _, c := range domain.Categories {
		name, ok := names[byCategory[c][0].CandidateID]
		if !ok {
			name = domain.UnknownCandidateLabel
		}
		completion.Summary = append(completion.Summary, domain.SummaryItem{
			Category:      c,
			CategoryLabel: c.Label(),
			CandidateName: name,
			Resolved:      ok,
		})
	}
	completion.Phase = domain.PhaseCompleted
	return completion, nil
}
