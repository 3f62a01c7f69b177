package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/elecciones/internal/adapters/handler/http"
	"github.com/vncsmyrnk/elecciones/internal/adapters/identity/decolecta"
	"github.com/vncsmyrnk/elecciones/internal/adapters/identity/registry"
	"github.com/vncsmyrnk/elecciones/internal/adapters/receipt"
	"github.com/vncsmyrnk/elecciones/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/elecciones/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/elecciones/internal/adapters/websocket"
	"github.com/vncsmyrnk/elecciones/internal/config"
	"github.com/vncsmyrnk/elecciones/internal/core/ports"
	"github.com/vncsmyrnk/elecciones/internal/core/services"
	"github.com/vncsmyrnk/elecciones/internal/logger"
)

const (
	janitorInterval = time.Minute
	receiptSize     = 256
)

type stores struct {
	votes      ports.VoteRepository
	candidates ports.CandidateRepository
	close      func() error
}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	log := logger.New(logger.ParseLevel(cfg.LogLevel))

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	identity, err := identityLookup(cfg, log)
	if err != nil {
		return err
	}

	candidateService := services.NewCandidateService(st.candidates)
	hub := websocket.New(log.With("component", "live_tally"), candidateService, cfg.AllowedOrigins)
	go hub.Run(ctx)

	sessionService := services.NewSessionService(services.SessionServiceConfig{
		Identity:    identity,
		Votes:       st.votes,
		Candidates:  st.candidates,
		Board:       candidateService,
		Broadcaster: hub,
		Tokens:      services.NewTokenIssuer(cfg.SessionSecret, cfg.SessionTTL),
		TTL:         cfg.SessionTTL,
		Logger:      log.With("component", "sessions"),
	})
	go sessionService.RunJanitor(ctx, janitorInterval)

	handler := http.NewHandler(http.RouterConfig{
		Sessions:   sessionService,
		Candidates: candidateService,
		Receipts:   receipt.NewQRRenderer(receiptSize),
		LiveTally:  hub.ServeWs,
		Cookies: http.CookieConfig{
			Domain:   cfg.CookieDomain,
			Secure:   cfg.CookieSecure,
			SameSite: stdhttp.SameSiteLaxMode,
			TTL:      cfg.SessionTTL,
		},
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         log,
	})

	server := &stdhttp.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", server.Addr, "store", cfg.VoteStore)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

func openStores(ctx context.Context, cfg config.Config, log logger.Logger) (*stores, error) {
	if cfg.VoteStore == config.StoreMemory {
		log.Warn("using the in-memory vote store, votes are lost on restart")
		store := memory.NewStore(memory.SeedCandidates()...)
		return &stores{votes: store, candidates: store, close: func() error { return nil }}, nil
	}

	db, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &stores{
		votes:      postgres.NewVoteRepository(db),
		candidates: postgres.NewCandidateRepository(db),
		close:      db.Close,
	}, nil
}

func identityLookup(cfg config.Config, log logger.Logger) (ports.IdentityLookup, error) {
	if cfg.ReniecToken != "" {
		return decolecta.NewClient(cfg.ReniecURL, cfg.ReniecToken, cfg.ReniecTimeout, log.With("component", "reniec")), nil
	}

	reg, err := registry.Load(cfg.RegistryFile)
	if err != nil {
		return nil, err
	}
	log.Warn("RENIEC token not set, using local voter registry", "file", cfg.RegistryFile, "voters", reg.Len())
	return reg, nil
}
