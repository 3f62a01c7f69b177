package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/vncsmyrnk/elecciones/internal/core/ports"
	"github.com/vncsmyrnk/elecciones/internal/logger"
)

type RouterConfig struct {
	Sessions       ports.SessionService
	Candidates     ports.CandidateService
	Receipts       ports.ReceiptRenderer
	LiveTally      http.HandlerFunc
	Cookies        CookieConfig
	AllowedOrigins []string
	Logger         logger.Logger
}

func NewHandler(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}

	sessionHandler := NewSessionHandler(cfg.Sessions, cfg.Cookies, log)
	ballotHandler := NewBallotHandler(cfg.Sessions, cfg.Receipts, cfg.Cookies, log)
	candidateHandler := NewCandidateHandler(cfg.Candidates, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if cfg.LiveTally != nil {
		r.Get("/ws", cfg.LiveTally)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("welcome"))
		})

		r.Route("/session", func(r chi.Router) {
			r.Post("/", sessionHandler.Start)
			r.Delete("/", sessionHandler.End)
		})

		r.Route("/candidates", func(r chi.Router) {
			r.Get("/", candidateHandler.List)
			r.Get("/{id}", candidateHandler.Get)
		})

		r.Route("/ballot", func(r chi.Router) {
			r.Use(RequireSession(cfg.Sessions, log))
			r.Get("/", ballotHandler.Get)
			r.Post("/selections", ballotHandler.Select)
			r.Post("/confirm", ballotHandler.Confirm)
			r.Post("/sync", ballotHandler.Sync)
			r.Get("/summary", ballotHandler.Summary)
			r.Get("/receipt.png", ballotHandler.Receipt)
			r.Post("/acknowledge", ballotHandler.Acknowledge)
		})
	})

	return r
}
