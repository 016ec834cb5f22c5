package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

type Config struct {
	// Data backend
	Backend        string // "rest" talks to the remote API, "memory" runs offline
	APIBaseURL     string
	MemorySeedFile string
	// SessionFile persists the rest backend's login cookie between command
	// invocations; empty disables persistence.
	SessionFile string

	// Run archive
	ArchiveDBPath string

	// AMQP (optional; empty URL disables event publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets snapshot mirror (optional)
	GoogleSpreadsheetID string

	// Display preferences, embedded into exported documents and used by
	// the formatting helpers.
	Preferences Preferences
}

func Load() *Config {
	return &Config{
		Backend:        getEnv("MONETA_BACKEND", "memory"),
		APIBaseURL:     getEnv("MONETA_API_URL", ""),
		MemorySeedFile: getEnv("MONETA_SEED_FILE", ""),
		SessionFile:    getEnv("MONETA_SESSION_FILE", "./data/session.json"),

		ArchiveDBPath: getEnv("MONETA_DB_PATH", "./data/moneta.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "moneta"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "backup_runs"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),

		Preferences: Preferences{
			Currency:     getEnv("MONETA_CURRENCY", "USD"),
			DateFormat:   getEnv("MONETA_DATE_FORMAT", "YYYY-MM-DD"),
			NumberFormat: getEnv("MONETA_NUMBER_FORMAT", "1,234.56"),
			FirstDay:     getEnv("MONETA_FIRST_DAY", "monday"),
		},
	}
}

// Validate checks the configuration and returns every problem at once.
func (c *Config) Validate() error {
	var errs []string

	switch c.Backend {
	case "rest":
		if c.APIBaseURL == "" {
			errs = append(errs, "MONETA_API_URL is required when using the rest backend")
		} else if u, err := url.Parse(c.APIBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Sprintf("invalid API URL '%s': must be an http(s) URL", c.APIBaseURL))
		}
	case "memory":
		// Seed file is optional; a missing file just means an empty store.
	default:
		errs = append(errs, fmt.Sprintf("invalid backend '%s': must be one of [rest memory]", c.Backend))
	}

	if c.ArchiveDBPath != "" {
		dir := filepath.Dir(c.ArchiveDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create archive directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if err := c.Preferences.Validate(); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
