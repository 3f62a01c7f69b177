package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vncsmyrnk/elecciones/internal/core/domain"
	"github.com/vncsmyrnk/elecciones/internal/logger"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// errorStatuses is checked in order; the first match wins.
var errorStatuses = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrInvalidDNI, http.StatusBadRequest, "invalid_dni"},
	{domain.ErrUnknownCategory, http.StatusBadRequest, "unknown_category"},
	{domain.ErrInvalidSession, http.StatusUnauthorized, "invalid_session"},
	{domain.ErrSessionNotFound, http.StatusUnauthorized, "session_not_found"},
	{domain.ErrAlreadyVoted, http.StatusConflict, "already_voted"},
	{domain.ErrSubmissionInFlight, http.StatusConflict, "submission_in_flight"},
	{domain.ErrSessionCompleted, http.StatusConflict, "session_completed"},
	{domain.ErrBallotIncomplete, http.StatusConflict, "ballot_incomplete"},
	{domain.ErrNothingSelected, http.StatusUnprocessableEntity, "nothing_selected"},
	{domain.ErrVoterNotFound, http.StatusNotFound, "voter_not_found"},
	{domain.ErrCandidateNotFound, http.StatusNotFound, "candidate_not_found"},
	{domain.ErrUpstreamUnavailable, http.StatusServiceUnavailable, "identity_unavailable"},
	{domain.ErrStoreUnavailable, http.StatusServiceUnavailable, "store_unavailable"},
}

func classify(err error) (int, string) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status, e.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// respondError maps err to its HTTP status. Unexpected errors are logged and
// reported without detail.
func respondError(w http.ResponseWriter, log logger.Logger, err error) {
	status, code := classify(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Error("request failed", "error", err)
		message = "internal server error"
	}
	writeError(w, status, code, message)
}
