package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const minJWTSecretBytes = 32

type Config struct {
	Env         string
	Port        string
	DBDSN       string
	LogFile     string
	JWTSecret   string
	TokenTTL    time.Duration
	BcryptCost  int
	CORSOrigins string
}

// Load reads configuration from the process environment, after merging a
// .env file from the working directory if one exists. Variables already set in
// the environment win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[config] ignoring .env: %v", err)
	}

	cfg := Config{
		Env:         getString("APP_ENV", "development"),
		Port:        getString("PORT", "8080"),
		DBDSN:       getString("DB_DSN", "tickoff.db"), // sqlite file in project root
		LogFile:     getString("LOG_FILE", ""),
		JWTSecret:   strings.TrimSpace(os.Getenv("JWT_SECRET")),
		TokenTTL:    time.Duration(getInt("ACCESS_TOKEN_TTL_MIN", 30)) * time.Minute,
		BcryptCost:  clampCost(getInt("BCRYPT_COST", bcrypt.DefaultCost)),
		CORSOrigins: getString("CORS_ORIGINS", "*"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	log.Printf("[config] APP_ENV=%s PORT=%s DB_DSN=%s LOG_FILE=%s TOKEN_TTL=%s BCRYPT_COST=%d JWT_SECRET=%s",
		cfg.Env, cfg.Port, redactDSN(cfg.DBDSN), cfg.LogFile, cfg.TokenTTL, cfg.BcryptCost, mask(cfg.JWTSecret))
	return cfg, nil
}

// DSN resolves only DB_DSN, for commands that never serve requests and so
// need no signing secret.
func DSN() string {
	_ = godotenv.Load()
	return getString("DB_DSN", "tickoff.db")
}

func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if len(c.JWTSecret) < minJWTSecretBytes {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretBytes)
	}
	if c.TokenTTL <= 0 {
		return errors.New("ACCESS_TOKEN_TTL_MIN must be positive")
	}
	return nil
}

func getString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		log.Printf("[config] invalid value for %s: %v", key, err)
		return fallback
	}
	return n
}

func clampCost(c int) int {
	if c < bcrypt.MinCost {
		return bcrypt.MinCost
	}
	if c > bcrypt.MaxCost {
		return bcrypt.MaxCost
	}
	return c
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}

// redactDSN hides the password part of a postgres URL.
func redactDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	creds := dsn[scheme+3 : at]
	if i := strings.Index(creds, ":"); i >= 0 {
		return dsn[:scheme+3] + creds[:i] + ":***" + dsn[at:]
	}
	return dsn
}
