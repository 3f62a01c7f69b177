package ports

import (
	"context"

	"github.com/vncsmyrnk/elecciones/internal/core/domain"
)

// IdentityLookup resolves a DNI against the national registry. Errors are
// domain.ErrInvalidDNI, domain.ErrVoterNotFound or domain.ErrUpstreamUnavailable.
type IdentityLookup interface {
	Lookup(ctx context.Context, dni string) (*domain.Voter, error)
}
