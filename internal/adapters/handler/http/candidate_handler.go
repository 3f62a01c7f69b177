package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/elecciones/internal/core/domain"
	"github.com/vncsmyrnk/elecciones/internal/core/ports"
	"github.com/vncsmyrnk/elecciones/internal/logger"
)

type CandidateHandler struct {
	service ports.CandidateService
	log     logger.Logger
}

func NewCandidateHandler(service ports.CandidateService, log logger.Logger) *CandidateHandler {
	return &CandidateHandler{
		service: service,
		log:     log,
	}
}

// List godoc
// @Summary      Results board
// @Description  Candidates per category ordered by votes, with totals and percentages. Filter with ?category=.
// @Tags         candidates
// @Produce      json
// @Param        category query string false "presidencial, distrital or regional"
// @Success      200 {object} domain.Board
// @Failure      400 {object} errorResponse
// @Router       /candidates [get]
func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("category"); raw != "" {
		category, err := domain.ParseCategory(raw)
		if err != nil {
			respondError(w, h.log, err)
			return
		}
		standings, err := h.service.Standings(r.Context(), category)
		if err != nil {
			respondError(w, h.log, err)
			return
		}
		writeJSON(w, http.StatusOK, standings)
		return
	}

	board, err := h.service.Board(r.Context())
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (h *CandidateHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid candidate id")
		return
	}

	candidate, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, candidate)
}
