package config

import (
	"fmt"
	"os"

	"github.com/freelancetax/taxdesk/internal/domain"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of ledger files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a ledger of users and income records from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Ledger, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates ledger bytes
func (ip *InputParser) Parse(data []byte) (*domain.Ledger, error) {
	var ledger domain.Ledger
	if err := yaml.Unmarshal(data, &ledger); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateLedger(&ledger); err != nil {
		return nil, fmt.Errorf("ledger validation failed: %w", err)
	}

	return &ledger, nil
}

// ValidateLedger normalizes and validates the loaded ledger
func (ip *InputParser) ValidateLedger(ledger *domain.Ledger) error {
	if len(ledger.Users) == 0 {
		return fmt.Errorf("no users provided")
	}

	ids := make(map[string]bool, len(ledger.Users))
	emails := make(map[string]string, len(ledger.Users))
	for i := range ledger.Users {
		u := &ledger.Users[i]
		u.Normalize()
		if err := u.Validate(); err != nil {
			return fmt.Errorf("user %d validation failed: %w", i, err)
		}
		if ids[u.ID] {
			return fmt.Errorf("user %d validation failed: %w", i, domain.NewValidationError("id", "%q is duplicated", u.ID))
		}
		if owner, taken := emails[u.Email]; taken {
			return fmt.Errorf("user %s validation failed: %w", u.ID,
				domain.NewValidationError("email", "already used by user %s", owner))
		}
		ids[u.ID] = true
		emails[u.Email] = u.ID
	}

	for i := range ledger.Incomes {
		rec := &ledger.Incomes[i]
		rec.Normalize()
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("income %d validation failed: %w", i, err)
		}
		if !ids[rec.UserID] {
			return fmt.Errorf("income %d references unknown user %q: %w", i, rec.UserID, domain.ErrNotFound)
		}
	}

	return nil
}
