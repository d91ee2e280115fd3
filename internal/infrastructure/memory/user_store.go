package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/baechuer/useradmin/internal/domain"
)

// UserStore is an in-process users table keyed by trimmed email (case-sensitive, like a TEXT column).
type UserStore struct {
	mu      sync.RWMutex
	byEmail map[string]domain.User
	closes  int
}

func NewUserStore(seed ...domain.User) *UserStore {
	s := &UserStore{byEmail: make(map[string]domain.User)}
	for _, u := range seed {
		u.Email = domain.TrimEmail(u.Email)
		if u.Role == "" {
			u.Role = string(domain.RoleUser)
		}
		s.byEmail[u.Email] = u
	}
	return s
}

func (s *UserStore) UpdateByEmail(ctx context.Context, email string, ch domain.Changes) (domain.User, error) {
	email = domain.TrimEmail(email)
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if ch.Empty() {
		return domain.User{}, domain.ErrNoChanges()
	}
	if ch.Role != nil && !domain.IsValidRole(string(*ch.Role)) {
		return domain.User{}, domain.ErrInvalidRole(string(*ch.Role))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	ch.Apply(&u)
	s.byEmail[email] = u
	return u, nil
}

// FindMany returns every user ordered by email; the selection is applied by callers.
func (s *UserStore) FindMany(ctx context.Context, sel domain.Selection) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.User, 0, len(s.byEmail))
	for _, u := range s.byEmail {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (s *UserStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	return nil
}

// Get is a test helper returning the stored record.
func (s *UserStore) Get(email string) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byEmail[domain.TrimEmail(email)]
	return u, ok
}

// Closes reports how many times Close was called.
func (s *UserStore) Closes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closes
}
