package integration

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	handler "github.com/vncsmyrnk/elecciones/internal/adapters/handler/http"
	"github.com/vncsmyrnk/elecciones/internal/adapters/receipt"
	repo "github.com/vncsmyrnk/elecciones/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/elecciones/internal/core/domain"
	"github.com/vncsmyrnk/elecciones/internal/core/ports"
	"github.com/vncsmyrnk/elecciones/internal/core/services"
)

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("elecciones"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

// applyMigrations runs every up migration in file name order.
func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dirPath, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

type staticIdentity map[string]string

func (s staticIdentity) Lookup(ctx context.Context, dni string) (*domain.Voter, error) {
	name, ok := s[dni]
	if !ok {
		return nil, domain.ErrVoterNotFound
	}
	return &domain.Voter{DNI: dni, FullName: name}, nil
}

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	Votes       ports.VoteRepository
	Candidates  ports.CandidateRepository
	Tally       ports.TallyService
	DBContainer testcontainers.Container
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()
	ctx := context.Background()

	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)
	require.NoError(t, applyMigrations(db))

	votes := repo.NewVoteRepository(db)
	candidates := repo.NewCandidateRepository(db)
	candidateSvc := services.NewCandidateService(candidates)

	sessionSvc := services.NewSessionService(services.SessionServiceConfig{
		Identity: staticIdentity{
			"45678912": "MARIA ELENA QUISPE HUAMAN",
			"10293847": "JUAN CARLOS PEREZ LOPEZ",
		},
		Votes:      votes,
		Candidates: candidates,
		Board:      candidateSvc,
		Tokens:     services.NewTokenIssuer("test-secret", 15*time.Minute),
		TTL:        15 * time.Minute,
	})

	router := handler.NewHandler(handler.RouterConfig{
		Sessions:       sessionSvc,
		Candidates:     candidateSvc,
		Receipts:       receipt.NewQRRenderer(128),
		Cookies:        handler.CookieConfig{TTL: 15 * time.Minute, SameSite: http.SameSiteLaxMode},
		AllowedOrigins: []string{"*"},
	})

	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		Votes:       votes,
		Candidates:  candidates,
		Tally:       services.NewTallyService(repo.NewTallyRepository(db)),
		DBContainer: dbContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	app.Server.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

func (app *TestApp) firstCandidate(t *testing.T, category domain.Category) domain.Candidate {
	t.Helper()
	list, err := app.Candidates.ListByCategory(context.Background(), category)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	return list[0]
}
