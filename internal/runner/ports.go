package runner

import (
	"context"

	"github.com/baechuer/useradmin/internal/domain"
)

/*
UserStore
---------
Persistence port for the users table.
One instance is one scoped connection: Close releases it.
*/
type UserStore interface {
	UpdateByEmail(ctx context.Context, email string, ch domain.Changes) (domain.User, error)
	FindMany(ctx context.Context, sel domain.Selection) ([]domain.User, error)
	Close() error
}

// Connector acquires a fresh UserStore for one run.
type Connector func(ctx context.Context) (UserStore, error)

/*
PasswordHasher
--------------
One-way salted hashing (bcrypt).
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
}

/*
AuditLogger
-----------
Receives one entry per run. Values are already display-safe.
*/
type AuditLogger interface {
	UserUpdated(ctx context.Context, action, userID, email string, fields map[string]string)
	UsersListed(ctx context.Context, fields string, count int)
	ActionFailed(ctx context.Context, action, email, code string)
}

/*
Operation
---------
Exactly one store call, optionally preceded by a pre-processing step.
*/
type Operation interface {
	Action() string
	// Target is the email an update addresses, "" for reads.
	Target() string
	Prepare(ctx context.Context) error
	Execute(ctx context.Context, store UserStore) (Report, error)
}
