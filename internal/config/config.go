package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"moviedash/internal/apperr"
)

// Config holds the core runtime configuration for the service.
// Values are sourced from environment variables (optionally via a .env
// file loaded in main), with sensible defaults.
type Config struct {
	ListenAddr string `validate:"required"`

	// Generation parameters. Together they key the snapshot cache.
	MovieCount int   `validate:"min=0,max=100000"`
	UserCount  int   `validate:"min=0,max=100000"`
	Seed       int64 `validate:"-"`

	// DataDir receives movies.csv and ratings.csv when PersistCSV is set.
	DataDir    string `validate:"required_if=PersistCSV true"`
	PersistCSV bool

	// CSVSource, when set, serves the dataset read from that directory
	// instead of generating one.
	CSVSource string

	// DatabaseURL enables the run archive. Empty disables it.
	DatabaseURL string `validate:"omitempty,startswith=postgres://|startswith=postgresql://|startswith=sqlite://|startswith=file:"`

	// RetainRuns is how many archived runs to keep. Zero keeps everything.
	RetainRuns int `validate:"min=0"`

	LogLevel  string `validate:"omitempty,oneof=trace debug info warn warning error disabled"`
	LogFormat string `validate:"omitempty,oneof=json console"`

	// parseErrs collects env values Load could not parse.
	parseErrs []error
}

// Load reads configuration from environment variables and applies defaults.
// Unparseable numbers and booleans keep their default and are reported by
// Validate.
func Load() *Config {
	var errs []error
	cfg := &Config{
		ListenAddr:  getenv("APP_LISTEN_ADDR", ":8080"),
		MovieCount:  getint("APP_MOVIE_COUNT", 100, &errs),
		UserCount:   getint("APP_USER_COUNT", 50, &errs),
		Seed:        getint64("APP_SEED", 42, &errs),
		DataDir:     getenv("APP_DATA_DIR", "data"),
		PersistCSV:  getbool("APP_PERSIST_CSV", true, &errs),
		CSVSource:   strings.TrimSpace(os.Getenv("APP_CSV_SOURCE")),
		DatabaseURL: strings.TrimSpace(os.Getenv("APP_DATABASE_URL")),
		RetainRuns:  getint("APP_RETAIN_RUNS", 10, &errs),
		LogLevel:    getenv("APP_LOG_LEVEL", "info"),
		LogFormat:   getenv("APP_LOG_FORMAT", "json"),
	}
	cfg.parseErrs = errs
	return cfg
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate reports env values Load could not parse and checks bounds.
// Failures wrap apperr.ErrInvalidInput.
func (c *Config) Validate() error {
	if len(c.parseErrs) > 0 {
		return fmt.Errorf("config: %v: %w", errors.Join(c.parseErrs...), apperr.ErrInvalidInput)
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %v: %w", err, apperr.ErrInvalidInput)
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int, errs *[]error) int {
	return int(getint64(key, int64(def), errs))
}

func getint64(key string, def int64, errs *[]error) int64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("%s=%q is not an integer", key, v))
			return def
		}
		return n
	}
	return def
}

func getbool(key string, def bool, errs *[]error) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("%s=%q is not a boolean", key, v))
			return def
		}
		return b
	}
	return def
}
