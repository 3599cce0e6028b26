package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/freelancetax/taxdesk/internal/domain"
	"github.com/google/uuid"
)

// MemoryStore is an in-process Store. It backs the CLI when no database is
// configured and the engine tests.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[string]domain.User
	emails  map[string]string
	incomes map[string]domain.IncomeRecord
	Now     func() time.Time
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]domain.User),
		emails:  make(map[string]string),
		incomes: make(map[string]domain.IncomeRecord),
		Now:     time.Now,
	}
}

func (s *MemoryStore) GetUser(_ context.Context, userID string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, notFound("user", userID)
	}
	return &u, nil
}

func (s *MemoryStore) CreateUser(_ context.Context, user *domain.User) error {
	user.Normalize()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if err := user.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[user.ID]; exists {
		return domain.NewValidationError("id", "%q already exists", user.ID)
	}
	if owner, taken := s.emails[user.Email]; taken {
		return domain.NewValidationError("email", "already registered to user %s", owner)
	}
	s.users[user.ID] = *user
	s.emails[user.Email] = user.ID
	return nil
}

func (s *MemoryStore) ListIncome(_ context.Context, userID string) ([]domain.IncomeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.IncomeRecord, 0)
	for _, rec := range s.incomes {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID < out[j].ID
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func (s *MemoryStore) GetIncome(_ context.Context, userID, incomeID string) (*domain.IncomeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.incomes[incomeID]
	if !ok || rec.UserID != userID {
		return nil, notFound("income", incomeID)
	}
	return &rec, nil
}

func (s *MemoryStore) InsertIncome(_ context.Context, rec *domain.IncomeRecord) error {
	rec.Normalize()
	if err := rec.Validate(); err != nil {
		return err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Date.IsZero() {
		rec.Date = s.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[rec.UserID]; !ok {
		return notFound("user", rec.UserID)
	}
	if _, exists := s.incomes[rec.ID]; exists {
		return domain.NewValidationError("id", "%q already exists", rec.ID)
	}
	s.incomes[rec.ID] = *rec
	return nil
}

// UpdateIncome replaces every field of an existing record.
func (s *MemoryStore) UpdateIncome(_ context.Context, rec *domain.IncomeRecord) error {
	rec.Normalize()
	if err := rec.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.incomes[rec.ID]
	if !ok || existing.UserID != rec.UserID {
		return notFound("income", rec.ID)
	}
	if rec.Date.IsZero() {
		rec.Date = existing.Date
	}
	s.incomes[rec.ID] = *rec
	return nil
}

// DeleteIncome permanently removes a record.
func (s *MemoryStore) DeleteIncome(_ context.Context, userID, incomeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.incomes[incomeID]
	if !ok || rec.UserID != userID {
		return notFound("income", incomeID)
	}
	delete(s.incomes, incomeID)
	return nil
}

// String reports the store contents for debug logging.
func (s *MemoryStore) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf("memory store: %d users, %d income records", len(s.users), len(s.incomes))
}
