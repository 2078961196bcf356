package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/vytor/wordladder/internal/ladder"
	"github.com/vytor/wordladder/internal/logger"
	"github.com/vytor/wordladder/internal/review"
)

type Config struct {
	Addr                string
	DBPath              string
	LogLevel            string
	HardCardThreshold   float64
	ExamPassAccuracy    int
	DemotionPolicy      string
	ArchiveOnGraduation bool
	SessionTTL          time.Duration
	MaintenanceInterval time.Duration
	MaintenanceWorkers  int
	MaintenanceQueue    int
	CleanupBatchSize    int
	AllowedOrigins      []string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                envOr("ADDR", ":8080"),
		DBPath:              envOr("DB_PATH", "file:wordladder.db"),
		LogLevel:            envOr("LOG_LEVEL", "INFO"),
		HardCardThreshold:   envFloatOr("HARD_CARD_THRESHOLD", 0.5),
		ExamPassAccuracy:    envIntOr("EXAM_PASS_ACCURACY", review.DefaultExamPassAccuracy),
		DemotionPolicy:      envOr("DEMOTION_POLICY", ladder.PolicyStep),
		ArchiveOnGraduation: envBoolOr("ARCHIVE_ON_GRADUATION", true),
		SessionTTL:          time.Duration(envIntOr("SESSION_TTL_MINUTES", 120)) * time.Minute,
		MaintenanceInterval: time.Duration(envIntOr("MAINTENANCE_INTERVAL_MINUTES", 60)) * time.Minute,
		MaintenanceWorkers:  envIntOr("MAINTENANCE_WORKER_COUNT", 1),
		MaintenanceQueue:    envIntOr("MAINTENANCE_QUEUE_SIZE", 16),
		CleanupBatchSize:    envIntOr("CLEANUP_BATCH_SIZE", 100),
		AllowedOrigins:      envListOr("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	if _, ok := logger.LookupLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q must be one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}
	if c.HardCardThreshold <= 0 || c.HardCardThreshold > 1 {
		errs = append(errs, fmt.Errorf("HARD_CARD_THRESHOLD must be in (0, 1], got %v", c.HardCardThreshold))
	}
	if c.ExamPassAccuracy < 1 || c.ExamPassAccuracy > 100 {
		errs = append(errs, fmt.Errorf("EXAM_PASS_ACCURACY must be in [1, 100], got %d", c.ExamPassAccuracy))
	}
	if _, err := ladder.PolicyByName(c.DemotionPolicy); err != nil {
		errs = append(errs, fmt.Errorf("DEMOTION_POLICY: %w", err))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL_MINUTES must be positive"))
	}
	if c.MaintenanceInterval <= 0 {
		errs = append(errs, errors.New("MAINTENANCE_INTERVAL_MINUTES must be positive"))
	}
	if c.MaintenanceWorkers <= 0 {
		errs = append(errs, errors.New("MAINTENANCE_WORKER_COUNT must be positive"))
	}
	if c.MaintenanceQueue <= 0 {
		errs = append(errs, errors.New("MAINTENANCE_QUEUE_SIZE must be positive"))
	}
	if c.CleanupBatchSize <= 0 {
		errs = append(errs, errors.New("CLEANUP_BATCH_SIZE must be positive"))
	}
	return errors.Join(errs...)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		logger.Warn("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envFloatOr(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		logger.Warn("invalid value for %s=%q, using default %v", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		logger.Warn("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
