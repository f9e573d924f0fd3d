// Package config centralises runtime settings for the estimator.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Environment variable names.
const (
	EnvDefaultMarkup = "ESTIMATOR_DEFAULT_MARKUP"
	EnvMaxLineItems  = "ESTIMATOR_MAX_LINE_ITEMS"
	EnvMaxUploadMB   = "ESTIMATOR_MAX_UPLOAD_MB"
	EnvSeedSample    = "ESTIMATOR_SEED_SAMPLE"
)

// Settings contains the estimator configuration loaded from defaults and
// environment overrides.
type Settings struct {
	// DefaultMarkupPercent applies when a request does not name a markup.
	DefaultMarkupPercent decimal.Decimal
	// MaxLineItems caps the number of line items accepted per request.
	MaxLineItems int
	// MaxUploadBytes caps catalog uploads.
	MaxUploadBytes int64
	// SeedSampleCatalog inserts a sample catalog into an empty database.
	SeedSampleCatalog bool
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		DefaultMarkupPercent: decimal.NewFromInt(11),
		MaxLineItems:         30,
		MaxUploadBytes:       10 << 20,
		SeedSampleCatalog:    true,
	}
}

// LoadDotEnv reads a .env file into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load returns Default overridden by any environment variables that are set.
// Invalid values are reported and the default is kept.
func Load() (Settings, error) {
	s := Default()
	var errs []error

	if v, ok := lookup(EnvDefaultMarkup); ok {
		d, err := decimal.NewFromString(v)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("%s: %w", EnvDefaultMarkup, err))
		case d.IsNegative():
			errs = append(errs, fmt.Errorf("%s: must not be negative", EnvDefaultMarkup))
		default:
			s.DefaultMarkupPercent = d
		}
	}
	if v, ok := lookup(EnvMaxLineItems); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			errs = append(errs, fmt.Errorf("%s: want a positive integer, got %q", EnvMaxLineItems, v))
		} else {
			s.MaxLineItems = n
		}
	}
	if v, ok := lookup(EnvMaxUploadMB); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			errs = append(errs, fmt.Errorf("%s: want a positive integer, got %q", EnvMaxUploadMB, v))
		} else {
			s.MaxUploadBytes = int64(n) << 20
		}
	}
	if v, ok := lookup(EnvSeedSample); ok {
		s.SeedSampleCatalog = strings.EqualFold(v, "true") || v == "1"
	}

	return s, errors.Join(errs...)
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}
