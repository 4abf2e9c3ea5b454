package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/lueurxax/news-medallion/internal/core/domain"
	apperrors "github.com/lueurxax/news-medallion/internal/core/errors"
)

// DetectLanguagesNone disables language detection.
const DetectLanguagesNone = "none"

const (
	maxTrendingTopN = 1000
	maxPort         = 65535
	minDetectLangs  = 2
)

// AppEnvLocal selects human-readable console logging.
const AppEnvLocal = "local"

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	PostgresDSN       string        `env:"POSTGRES_DSN"`
	MaxConnections    int32         `env:"DB_MAX_CONNECTIONS" envDefault:"25"`
	MinConnections    int32         `env:"DB_MIN_CONNECTIONS" envDefault:"5"`
	MaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	MaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	HealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
}

// EnrichmentConfig holds Silver stage settings.
type EnrichmentConfig struct {
	BatchSize       int      `env:"ENRICH_BATCH_SIZE" envDefault:"100"`
	DetectLanguages []string `env:"DETECT_LANGUAGES" envSeparator:"," envDefault:"pt,en,es,fr,de,it"`
	VocabularyFile  string   `env:"VOCABULARY_FILE"`
}

// AggregationConfig holds Gold stage settings.
type AggregationConfig struct {
	TrendingTopN        int    `env:"TRENDING_TOP_N" envDefault:"20"`
	TimelineGranularity string `env:"TIMELINE_GRANULARITY" envDefault:"daily"`
}

// PipelineConfig holds scheduling and coordination settings.
type PipelineConfig struct {
	Schedule string `env:"PIPELINE_SCHEDULE" envDefault:"0 * * * *"`
	LockID   int64  `env:"PIPELINE_LOCK_ID" envDefault:"727100"`
}

type Config struct {
	AppEnv     string `env:"APP_ENV" envDefault:"local"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	HealthPort int    `env:"HEALTH_PORT" envDefault:"8080"`

	Database    DatabaseConfig
	Enrichment  EnrichmentConfig
	Aggregation AggregationConfig
	Pipeline    PipelineConfig
}

func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional, error is expected when not present

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	applyAliases(cfg)
	normalize(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyAliases(cfg *Config) {
	if !hasEnv("POSTGRES_DSN") {
		setStringFromEnv("DATABASE_URL", &cfg.Database.PostgresDSN)
	}
}

func normalize(cfg *Config) {
	langs := make([]string, 0, len(cfg.Enrichment.DetectLanguages))

	for _, l := range cfg.Enrichment.DetectLanguages {
		if l = strings.ToLower(strings.TrimSpace(l)); l != "" && l != DetectLanguagesNone {
			langs = append(langs, l)
		}
	}

	cfg.Enrichment.DetectLanguages = langs
	cfg.Aggregation.TimelineGranularity = strings.ToLower(strings.TrimSpace(cfg.Aggregation.TimelineGranularity))
}

// Validate rejects values the pipeline cannot run with.
func (c *Config) Validate() error {
	var errs []error

	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", apperrors.ErrInvalidConfig, fmt.Sprintf(format, args...)))
	}

	if c.Database.PostgresDSN == "" {
		invalid("POSTGRES_DSN is required")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		invalid("DB_MIN_CONNECTIONS %d exceeds DB_MAX_CONNECTIONS %d", c.Database.MinConnections, c.Database.MaxConnections)
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		invalid("LOG_LEVEL %q", c.LogLevel)
	}

	if c.HealthPort <= 0 || c.HealthPort > maxPort {
		invalid("HEALTH_PORT %d", c.HealthPort)
	}

	if c.Enrichment.BatchSize <= 0 {
		invalid("ENRICH_BATCH_SIZE must be positive, got %d", c.Enrichment.BatchSize)
	}

	if n := len(c.Enrichment.DetectLanguages); n > 0 && n < minDetectLangs {
		invalid("DETECT_LANGUAGES needs at least %d languages or %q, got %d", minDetectLangs, DetectLanguagesNone, n)
	}

	if c.Aggregation.TrendingTopN <= 0 || c.Aggregation.TrendingTopN > maxTrendingTopN {
		invalid("TRENDING_TOP_N must be in 1..%d, got %d", maxTrendingTopN, c.Aggregation.TrendingTopN)
	}

	switch domain.Granularity(c.Aggregation.TimelineGranularity) {
	case domain.GranularityDaily, domain.GranularityWeekly, domain.GranularityMonthly:
	default:
		invalid("TIMELINE_GRANULARITY %q", c.Aggregation.TimelineGranularity)
	}

	if _, err := cron.ParseStandard(c.Pipeline.Schedule); err != nil {
		invalid("PIPELINE_SCHEDULE %q: %v", c.Pipeline.Schedule, err)
	}

	return apperrors.Join(errs...)
}

// IsLocal reports whether the process runs in a developer environment.
func (c *Config) IsLocal() bool {
	return c.AppEnv == AppEnvLocal
}

func hasEnv(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}

func setStringFromEnv(key string, target *string) {
	val, ok := os.LookupEnv(key)
	if !ok {
		return
	}

	val = strings.TrimSpace(val)
	if val == "" {
		return
	}

	*target = val
}
