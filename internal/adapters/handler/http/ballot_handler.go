package http

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/elecciones/internal/core/ports"
	"github.com/vncsmyrnk/elecciones/internal/logger"
)

type BallotHandler struct {
	sessions ports.SessionService
	receipts ports.ReceiptRenderer
	cookies  CookieConfig
	log      logger.Logger
}

func NewBallotHandler(sessions ports.SessionService, receipts ports.ReceiptRenderer, cookies CookieConfig, log logger.Logger) *BallotHandler {
	return &BallotHandler{
		sessions: sessions,
		receipts: receipts,
		cookies:  cookies,
		log:      log,
	}
}

type selectCandidateRequest struct {
	CandidateID uuid.UUID `json:"candidate_id"`
}

type confirmResponse struct {
	*ports.ConfirmOutcome
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Get godoc
// @Summary      Current ballot
// @Description  Voter identity, categories already voted, pending selections and phase.
// @Tags         ballot
// @Produce      json
// @Success      200 {object} ports.BallotView
// @Failure      401 {object} errorResponse
// @Router       /ballot [get]
func (h *BallotHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}

	view, err := h.sessions.View(r.Context(), sessionID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Select godoc
// @Summary      Selects or deselects a candidate
// @Description  Selecting the current choice again clears it; another candidate of the same category replaces it.
// @Tags         ballot
// @Accept       json
// @Produce      json
// @Param        request body selectCandidateRequest true "Candidate"
// @Success      200 {object} ports.BallotView
// @Failure      404 {object} errorResponse
// @Failure      409 {object} errorResponse
// @Router       /ballot/selections [post]
func (h *BallotHandler) Select(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}

	var req selectCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CandidateID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "candidate_id is required")
		return
	}

	view, err := h.sessions.SelectCandidate(r.Context(), sessionID, req.CandidateID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Confirm godoc
// @Summary      Casts the selected votes
// @Description  Persists every pending selection. Categories that fail are listed in failures; the ballot is re-read from the store before responding.
// @Tags         ballot
// @Produce      json
// @Success      200 {object} ports.ConfirmOutcome
// @Failure      409 {object} confirmResponse
// @Failure      422 {object} errorResponse
// @Failure      503 {object} confirmResponse
// @Router       /ballot/confirm [post]
func (h *BallotHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}

	outcome, err := h.sessions.Confirm(r.Context(), sessionID)
	if outcome == nil {
		respondError(w, h.log, err)
		return
	}
	if err != nil {
		status, code := classify(err)
		if status == http.StatusInternalServerError {
			h.log.Error("confirm failed", "error", err)
		}
		writeJSON(w, status, confirmResponse{ConfirmOutcome: outcome, Error: code, Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, confirmResponse{ConfirmOutcome: outcome})
}

func (h *BallotHandler) Sync(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}

	view, err := h.sessions.Sync(r.Context(), sessionID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Summary godoc
// @Summary      Completed ballot summary
// @Tags         ballot
// @Produce      json
// @Success      200 {object} domain.Completion
// @Failure      409 {object} errorResponse
// @Router       /ballot/summary [get]
func (h *BallotHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}

	completion, err := h.sessions.Summary(r.Context(), sessionID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, completion)
}

func (h *BallotHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}

	view, err := h.sessions.View(r.Context(), sessionID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	completion, err := h.sessions.Summary(r.Context(), sessionID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	png, err := h.receipts.Render(view.Voter, completion.Summary)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// Acknowledge godoc
// @Summary      Acknowledges the completed ballot
// @Description  Closes the session and clears the session cookie.
// @Tags         ballot
// @Success      200
// @Failure      409 {object} errorResponse
// @Router       /ballot/acknowledge [post]
func (h *BallotHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := h.sessions.Acknowledge(r.Context(), sessionID); err != nil {
		respondError(w, h.log, err)
		return
	}

	expireSessionCookie(w, h.cookies)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *BallotHandler) session(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	sessionID, ok := sessionIDFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing_session", "Unauthorized: missing voter session")
	}
	return sessionID, ok
}
