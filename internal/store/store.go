// Package store holds the record-store collaborators used by the calculation
// engine: users with their bank details, and income records.
package store

import (
	"context"
	"fmt"

	"github.com/freelancetax/taxdesk/internal/domain"
)

// UserStore resolves freelancer profiles.
type UserStore interface {
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) error
}

// IncomeStore persists income records. ListIncome returns records ordered by date.
type IncomeStore interface {
	ListIncome(ctx context.Context, userID string) ([]domain.IncomeRecord, error)
	GetIncome(ctx context.Context, userID, incomeID string) (*domain.IncomeRecord, error)
	InsertIncome(ctx context.Context, rec *domain.IncomeRecord) error
	UpdateIncome(ctx context.Context, rec *domain.IncomeRecord) error
	DeleteIncome(ctx context.Context, userID, incomeID string) error
}

// Store is a combined user and income store.
type Store interface {
	UserStore
	IncomeStore
}

// unavailable wraps an infrastructure failure so callers can classify it
// with errors.Is(err, domain.ErrDependencyUnavailable).
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrDependencyUnavailable, err)
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, domain.ErrNotFound)
}

// Seed loads a ledger into s, creating users before their income records.
func Seed(ctx context.Context, s Store, ledger *domain.Ledger) error {
	for i := range ledger.Users {
		u := ledger.Users[i]
		if err := s.CreateUser(ctx, &u); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.ID, err)
		}
	}
	for i := range ledger.Incomes {
		rec := ledger.Incomes[i]
		if err := s.InsertIncome(ctx, &rec); err != nil {
			return fmt.Errorf("failed to seed income for %s: %w", rec.UserID, err)
		}
	}
	return nil
}
