package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by LoadSettings.
const (
	EnvDatabaseURL   = "TAXDESK_DATABASE_URL"
	EnvOutputDir     = "TAXDESK_OUTPUT_DIR"
	EnvInvoiceFormat = "TAXDESK_INVOICE_FORMAT"
)

// Settings holds process configuration taken from the environment.
type Settings struct {
	// DatabaseURL selects the PostgreSQL store; empty means the in-memory store.
	DatabaseURL   string
	OutputDir     string
	InvoiceFormat string
}

// LoadSettings reads the given .env files (default ".env") into the process
// environment and returns the settings. Missing files are not an error;
// variables already set in the environment win.
func LoadSettings(files ...string) (Settings, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return Settings{
		DatabaseURL:   strings.TrimSpace(os.Getenv(EnvDatabaseURL)),
		OutputDir:     getenv(EnvOutputDir, "."),
		InvoiceFormat: getenv(EnvInvoiceFormat, "pdf"),
	}, nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
