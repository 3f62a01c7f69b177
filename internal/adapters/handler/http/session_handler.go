package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vncsmyrnk/elecciones/internal/core/ports"
	"github.com/vncsmyrnk/elecciones/internal/logger"
)

// CookieConfig controls the voter session cookie.
type CookieConfig struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
	TTL      time.Duration
}

type SessionHandler struct {
	service ports.SessionService
	cookies CookieConfig
	log     logger.Logger
}

func NewSessionHandler(service ports.SessionService, cookies CookieConfig, log logger.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		cookies: cookies,
		log:     log,
	}
}

type startSessionRequest struct {
	DNI string `json:"dni"`
}

type startSessionResponse struct {
	Token  string            `json:"token"`
	Ballot *ports.BallotView `json:"ballot"`
}

// Start godoc
// @Summary      Identifies a voter by DNI
// @Description  Looks the DNI up in RENIEC, loads the categories already voted and opens a voting session. The session is returned as an HttpOnly cookie and as a bearer token.
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        request body startSessionRequest true "Voter DNI"
// @Success      201 {object} startSessionResponse
// @Failure      400 {object} errorResponse
// @Failure      404 {object} errorResponse
// @Failure      503 {object} errorResponse
// @Router       /session [post]
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	view, token, err := h.service.Start(r.Context(), req.DNI)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	setSessionCookie(w, h.cookies, token)
	writeJSON(w, http.StatusCreated, startSessionResponse{Token: token, Ballot: view})
}

// End godoc
// @Summary      Abandons the voting session
// @Tags         session
// @Success      200
// @Router       /session [delete]
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	if token := sessionToken(r); token != "" {
		if sessionID, err := h.service.Authenticate(token); err == nil {
			_ = h.service.End(r.Context(), sessionID)
		}
	}

	expireSessionCookie(w, h.cookies)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func setSessionCookie(w http.ResponseWriter, cfg CookieConfig, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Domain:   cfg.Domain,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: cfg.SameSite,
		MaxAge:   int(cfg.TTL.Seconds()),
	})
}

func expireSessionCookie(w http.ResponseWriter, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, MaxAge: -1, Path: "/", Domain: cfg.Domain})
}
