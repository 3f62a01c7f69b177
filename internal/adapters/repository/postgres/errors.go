package postgres

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/vncsmyrnk/elecciones/internal/core/domain"
)

const uniqueViolation = "23505"

// storeError maps driver errors onto domain errors. Unique violations become
// duplicate submissions; integrity errors are returned as is; anything else
// is treated as the store being unavailable.
func storeError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == uniqueViolation {
			return domain.ErrDuplicateSubmission
		}
		if pqErr.Code.Class() == "23" {
			return fmt.Errorf("failed to %s: %w", op, err)
		}
	}
	return fmt.Errorf("%w: failed to %s: %w", domain.ErrStoreUnavailable, op, err)
}
