package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DriverPostgres stores users and posts in PostgreSQL.
	DriverPostgres = "postgres"
	// DriverMemory keeps everything in process memory; intended for local runs.
	DriverMemory = "memory"
)

const minSecretLength = 16

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port          string
	APIPrefix     string
	StorageDriver string
	DatabaseURL   string
	JWTSecret     string
	JWTIssuer     string
	JWTTTL        time.Duration
	BcryptCost    int
	CORSOrigins   []string
	LogLevel      string
	Admin         AdminBootstrap
}

// AdminBootstrap describes the administrator created on startup when none exists yet.
type AdminBootstrap struct {
	Name     string
	Email    string
	Password string
}

// Enabled reports whether an administrator should be provisioned.
func (a AdminBootstrap) Enabled() bool {
	return a.Email != ""
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Port:          fallback(os.Getenv("PORT"), "8080"),
		APIPrefix:     fallback(os.Getenv("API_PREFIX"), "/api/v1"),
		StorageDriver: strings.ToLower(fallback(os.Getenv("STORAGE_DRIVER"), DriverPostgres)),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:     strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:     fallback(os.Getenv("JWT_ISSUER"), "blog-backend"),
		CORSOrigins:   parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		LogLevel:      strings.ToLower(fallback(os.Getenv("LOG_LEVEL"), "info")),
		Admin: AdminBootstrap{
			Name:     strings.TrimSpace(os.Getenv("ADMIN_NAME")),
			Email:    strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
	}

	seconds, err := positiveInt("JWT_TTL_SECONDS", fallback(os.Getenv("JWT_TTL_SECONDS"), "1800"))
	if err != nil {
		return Config{}, err
	}
	cfg.JWTTTL = time.Duration(seconds) * time.Second

	cost, err := positiveInt("BCRYPT_COST", fallback(os.Getenv("BCRYPT_COST"), strconv.Itoa(bcrypt.DefaultCost)))
	if err != nil {
		return Config{}, err
	}
	cfg.BcryptCost = cost

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	switch c.StorageDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if len(c.JWTSecret) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minSecretLength)
	}
	if !strings.HasPrefix(c.APIPrefix, "/") {
		return fmt.Errorf("API_PREFIX must start with '/', got %q", c.APIPrefix)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported LOG_LEVEL %q", c.LogLevel)
	}
	a := c.Admin
	if a.Name != "" || a.Email != "" || a.Password != "" {
		if a.Name == "" || a.Email == "" || a.Password == "" {
			return errors.New("ADMIN_NAME, ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
		}
	}
	return nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func positiveInt(name, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, raw)
	}
	return n, nil
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
