package runner

import (
	"context"
	"errors"
	"sync"

	"github.com/baechuer/useradmin/internal/domain"
	"github.com/baechuer/useradmin/internal/infrastructure/memory"
)

// countingStore wraps the in-memory store and records every call.
type countingStore struct {
	*memory.UserStore

	mu        sync.Mutex
	updates   []domain.Changes
	finds     int
	closeErr  error
	updateErr error
	panicMsg  string
}

func newCountingStore(seed ...domain.User) *countingStore {
	return &countingStore{UserStore: memory.NewUserStore(seed...)}
}

func (s *countingStore) UpdateByEmail(ctx context.Context, email string, ch domain.Changes) (domain.User, error) {
	s.mu.Lock()
	s.updates = append(s.updates, ch)
	s.mu.Unlock()
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	if s.updateErr != nil {
		return domain.User{}, s.updateErr
	}
	return s.UserStore.UpdateByEmail(ctx, email, ch)
}

func (s *countingStore) FindMany(ctx context.Context, sel domain.Selection) ([]domain.User, error) {
	s.mu.Lock()
	s.finds++
	s.mu.Unlock()
	return s.UserStore.FindMany(ctx, sel)
}

func (s *countingStore) Close() error {
	_ = s.UserStore.Close()
	return s.closeErr
}

func (s *countingStore) updateCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.updates)
}

func connectTo(s *countingStore) Connector {
	return func(context.Context) (UserStore, error) { return s, nil }
}

type auditEntry struct {
	kind   string
	action string
	email  string
	code   string
	fields map[string]string
	count  int
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (a *fakeAudit) UserUpdated(_ context.Context, action, _, email string, fields map[string]string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, auditEntry{kind: "updated", action: action, email: email, fields: fields})
}

func (a *fakeAudit) UsersListed(_ context.Context, fields string, count int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, auditEntry{kind: "listed", action: ActionListUsers, count: count})
}

func (a *fakeAudit) ActionFailed(_ context.Context, action, email, code string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, auditEntry{kind: "failed", action: action, email: email, code: code})
}

// stubHasher is a deterministic stand-in; salting is covered by the bcrypt tests.
type stubHasher struct {
	err   error
	calls []string
}

func (h *stubHasher) Hash(pw string) (string, error) {
	h.calls = append(h.calls, pw)
	if h.err != nil {
		return "", h.err
	}
	return "HASH(" + pw + ")", nil
}

var errBoom = errors.New("boom")
