package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	defaultReniecURL = "https://api.decolecta.com/v1/reniec/dni"
)

type Config struct {
	Port int

	DBHost    string
	DBPort    string
	DBUser    string
	DBPass    string
	DBName    string
	DBSSLMode string
	VoteStore string

	ReniecURL     string
	ReniecToken   string
	ReniecTimeout time.Duration
	RegistryFile  string

	SessionSecret string
	SessionTTL    time.Duration
	CookieDomain  string
	CookieSecure  bool

	AllowedOrigins []string
	LogLevel       string
}

// Load reads .env (when present), then flags whose defaults come from the
// environment.
func Load(args []string) (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	var origins string

	fs := flag.NewFlagSet("elecciones", flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "port", envInt("PORT", 8080), "HTTP port")

	databaseFlags(fs, &cfg)
	fs.StringVar(&cfg.VoteStore, "store", envOr("VOTE_STORE", StorePostgres), "Vote store (postgres or memory)")

	fs.StringVar(&cfg.ReniecURL, "reniec-url", envOr("RENIEC_API_URL", defaultReniecURL), "RENIEC lookup endpoint")
	fs.StringVar(&cfg.ReniecToken, "reniec-token", os.Getenv("RENIEC_API_TOKEN"), "RENIEC API token (prefer env)")
	fs.DurationVar(&cfg.ReniecTimeout, "reniec-timeout", envDuration("RENIEC_TIMEOUT", 10*time.Second), "RENIEC request timeout")
	fs.StringVar(&cfg.RegistryFile, "registry-file", os.Getenv("VOTER_REGISTRY_FILE"), "Local voter registry used when no RENIEC token is set")

	fs.StringVar(&cfg.SessionSecret, "session-secret", os.Getenv("SESSION_SECRET"), "Session signing secret (prefer env)")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", envDuration("SESSION_TTL", 30*time.Minute), "Voter session lifetime")
	fs.StringVar(&cfg.CookieDomain, "cookie-domain", os.Getenv("COOKIE_DOMAIN"), "Session cookie domain")
	fs.BoolVar(&cfg.CookieSecure, "cookie-secure", envBool("COOKIE_SECURE", true), "Mark the session cookie Secure")

	fs.StringVar(&origins, "allowed-origins", envOr("ALLOWED_ORIGINS", "*"), "Comma separated CORS origins")
	fs.StringVar(&cfg.LogLevel, "log-level", envOr("LOG_LEVEL", "info"), "Log level")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.AllowedOrigins = splitList(origins)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDatabase reads only the Postgres settings, for the batch commands. The
// positional arguments left after the flags are returned.
func LoadDatabase(name string, args []string) (Config, []string, error) {
	_ = godotenv.Load()

	var cfg Config
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	databaseFlags(fs, &cfg)
	fs.StringVar(&cfg.LogLevel, "log-level", envOr("LOG_LEVEL", "info"), "Log level")
	if err := fs.Parse(args); err != nil {
		return Config{}, nil, err
	}

	if cfg.DBHost == "" || cfg.DBUser == "" || cfg.DBName == "" {
		return Config{}, nil, errors.New("POSTGRES_HOST, POSTGRES_USER and POSTGRES_DB are required")
	}
	cfg.VoteStore = StorePostgres
	return cfg, fs.Args(), nil
}

func databaseFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.DBHost, "db-host", os.Getenv("POSTGRES_HOST"), "Database host")
	fs.StringVar(&cfg.DBPort, "db-port", envOr("POSTGRES_PORT", "5432"), "Database port")
	fs.StringVar(&cfg.DBUser, "db-user", os.Getenv("POSTGRES_USER"), "Database user")
	fs.StringVar(&cfg.DBPass, "db-pass", os.Getenv("POSTGRES_PASSWORD"), "Database password")
	fs.StringVar(&cfg.DBName, "db-name", os.Getenv("POSTGRES_DB"), "Database name")
	fs.StringVar(&cfg.DBSSLMode, "db-sslmode", envOr("POSTGRES_SSLMODE", "disable"), "Database sslmode")
}

func (c Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	switch c.VoteStore {
	case StorePostgres:
		if c.DBHost == "" || c.DBUser == "" || c.DBName == "" {
			return errors.New("POSTGRES_HOST, POSTGRES_USER and POSTGRES_DB are required for the postgres store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown vote store %q", c.VoteStore)
	}
	if c.ReniecToken == "" && c.RegistryFile == "" {
		return errors.New("RENIEC_API_TOKEN or VOTER_REGISTRY_FILE is required")
	}
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET required")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	return nil
}

// PostgresDSN builds the lib/pq connection URL.
func (c Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPass),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

func (c Config) Addr() string {
	return "0.0.0.0:" + strconv.Itoa(c.Port)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
