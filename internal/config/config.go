package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/muhammadolammi/keywordmatch/internal/keywords"
)

var ErrMissingEnv = errors.New("missing environment variable")

type R2Config struct {
	AccountID string
	Bucket    string
	AccessKey string
	SecretKey string
}

// Endpoint is the S3 compatible endpoint of the account.
func (r R2Config) Endpoint() string {
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r.AccountID)
}

type Config struct {
	DBURL       string
	RabbitMQURL string
	R2          R2Config

	Workers  int
	HTTPPort string

	RedisURL        string
	KeywordCacheTTL time.Duration

	OCRAPIURL string

	Limits keywords.Limits

	LogLevel  slog.Level
	LogFormat string
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found")
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from lookup, which has the os.LookupEnv shape.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	e := env{lookup: lookup}

	cfg := Config{
		DBURL:       e.required("DB_URL"),
		RabbitMQURL: e.required("RABBITMQ_URL"),
		R2: R2Config{
			AccountID: e.required("R2_ACCCOUNT_ID"),
			Bucket:    e.required("R2_BUCKET"),
			AccessKey: e.required("R2_ACCESS_KEY"),
			SecretKey: e.required("R2_SECRET_KEY"),
		},
		Workers:         e.num("WORKERS", 3),
		HTTPPort:        e.str("HTTP_PORT", ""),
		RedisURL:        e.str("REDIS_URL", ""),
		KeywordCacheTTL: e.dur("KEYWORD_CACHE_TTL", 24*time.Hour),
		OCRAPIURL:       e.str("OCR_API_URL", ""),
		Limits: keywords.Limits{
			JobText:    e.num("JOB_TEXT_LIMIT", keywords.DefaultJobTextLimit),
			ResumeText: e.num("RESUME_TEXT_LIMIT", keywords.DefaultResumeTextLimit),
		},
		LogLevel:  e.level("LOG_LEVEL", slog.LevelInfo),
		LogFormat: strings.ToLower(e.str("LOG_FORMAT", "text")),
	}
	if cfg.Workers < 1 {
		e.errs = append(e.errs, fmt.Errorf("WORKERS must be positive, got %d", cfg.Workers))
	}
	if cfg.Limits.JobText < 1 || cfg.Limits.ResumeText < 1 {
		e.errs = append(e.errs, errors.New("JOB_TEXT_LIMIT and RESUME_TEXT_LIMIT must be positive"))
	}

	return cfg, errors.Join(e.errs...)
}

type env struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (e *env) get(key string) string {
	v, _ := e.lookup(key)
	return strings.TrimSpace(v)
}

func (e *env) required(key string) string {
	v := e.get(key)
	if v == "" {
		e.errs = append(e.errs, fmt.Errorf("%w: %s", ErrMissingEnv, key))
	}
	return v
}

func (e *env) str(key, def string) string {
	if v := e.get(key); v != "" {
		return v
	}
	return def
}

func (e *env) num(key string, def int) int {
	v := e.get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return n
}

func (e *env) dur(key string, def time.Duration) time.Duration {
	v := e.get(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return d
}

func (e *env) level(key string, def slog.Level) slog.Level {
	v := e.get(key)
	if v == "" {
		return def
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(v)); err != nil {
		e.errs = append(e.errs, fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return l
}
