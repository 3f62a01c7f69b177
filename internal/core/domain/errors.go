package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidDNI          = errors.New("dni must have 8 digits")
	ErrVoterNotFound       = errors.New("voter not found in registry")
	ErrUpstreamUnavailable = errors.New("identity registry unavailable")
	ErrStoreUnavailable    = errors.New("vote store unavailable")
	ErrAlreadyVoted        = errors.New("voter has already voted in this category")
	ErrDuplicateSubmission = fmt.Errorf("%w: duplicate submission rejected", ErrAlreadyVoted)
	ErrNothingSelected     = errors.New("at least one candidate must be selected")
	ErrSubmissionInFlight  = errors.New("a confirmation for this category is in progress")
	ErrCandidateNotFound   = errors.New("candidate not found")
	ErrUnknownCategory     = errors.New("unknown category")
	ErrSessionNotFound     = errors.New("voting session not found")
	ErrSessionCompleted    = errors.New("voting session already completed")
	ErrInvalidSession      = errors.New("invalid voting session token")
	ErrBallotIncomplete    = errors.New("ballot is not complete")
)

// ConfirmError reports the categories whose votes could not be persisted.
type ConfirmError struct {
	Failures map[Category]error
}

func (e *ConfirmError) Error() string {
	categories := make([]Category, 0, len(e.Failures))
	for c := range e.Failures {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Order() < categories[j].Order() })

	parts := make([]string, 0, len(categories))
	for _, c := range categories {
		parts = append(parts, fmt.Sprintf("%s: %v", c, e.Failures[c]))
	}
	return "failed to confirm votes: " + strings.Join(parts, "; ")
}

func (e *ConfirmError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, err := range e.Failures {
		errs = append(errs, err)
	}
	return errs
}

// Retryable reports whether every failure can be retried by the voter.
func (e *ConfirmError) Retryable() bool {
	for _, err := range e.Failures {
		if !errors.Is(err, ErrStoreUnavailable) {
			return false
		}
	}
	return len(e.Failures) > 0
}
