package runner

import (
	"context"

	"github.com/baechuer/useradmin/internal/domain"
	"github.com/baechuer/useradmin/internal/infrastructure/security"
)

const (
	ActionUpdateUser    = "update_user"
	ActionPromote       = "promote"
	ActionResetPassword = "reset_password"
	ActionSetViewSwitch = "set_view_switch"
	ActionVerifyEmail   = "verify_email"
	ActionListUsers     = "list_users"
)

// Update writes a set of columns on the user matching an email.
type Update struct {
	action  string
	email   string
	changes domain.Changes

	// prepare derives values to write before the store call.
	prepare   func(ctx context.Context, u *Update) error
	generated string
}

// NewUpdate is the generic update-by-email operation.
func NewUpdate(action, email string, ch domain.Changes) (*Update, error) {
	u, err := newUpdate(action, email)
	if err != nil {
		return nil, err
	}
	if ch.Empty() {
		return nil, domain.ErrNoChanges()
	}
	if ch.Role != nil && !domain.IsValidRole(string(*ch.Role)) {
		return nil, domain.ErrInvalidRole(string(*ch.Role))
	}
	u.changes = ch
	return u, nil
}

func newUpdate(action, email string) (*Update, error) {
	if action == "" {
		action = ActionUpdateUser
	}
	email = domain.TrimEmail(email)
	if err := validateInput(targetInput{Email: email}); err != nil {
		return nil, err
	}
	return &Update{action: action, email: email}, nil
}

// Promote sets the user's role, admin unless told otherwise.
func Promote(email string, role domain.Role) (*Update, error) {
	if role == "" {
		role = domain.RoleAdmin
	}
	return NewUpdate(ActionPromote, email, domain.Changes{Role: &role})
}

// SetViewSwitch toggles whether the user may switch to the alternate view.
func SetViewSwitch(email string, enabled bool) (*Update, error) {
	return NewUpdate(ActionSetViewSwitch, email, domain.Changes{CanSwitchView: &enabled})
}

// VerifyEmail marks the user's email address as verified.
func VerifyEmail(email string) (*Update, error) {
	verified := true
	return NewUpdate(ActionVerifyEmail, email, domain.Changes{EmailVerified: &verified})
}

// ResetPassword hashes plaintext and stores the hash. An empty plaintext
// makes the operation generate one; only then is it reported back.
func ResetPassword(email, plaintext string, hasher PasswordHasher) (*Update, error) {
	u, err := newUpdate(ActionResetPassword, email)
	if err != nil {
		return nil, err
	}
	if hasher == nil {
		return nil, domain.ErrInternal(nil)
	}
	if plaintext != "" {
		if err := validateInput(passwordInput{Password: plaintext}); err != nil {
			return nil, err
		}
	}

	u.prepare = func(ctx context.Context, u *Update) error {
		pw := plaintext
		if pw == "" {
			gen, err := security.GeneratePassword(security.GeneratedPasswordBytes)
			if err != nil {
				return err
			}
			pw = gen
			u.generated = gen
		}
		hash, err := hasher.Hash(pw)
		if err != nil {
			if domain.Is(err, "hash_failed") {
				return err
			}
			return domain.ErrHashFailed(err)
		}
		u.changes.PasswordHash = &hash
		return nil
	}
	return u, nil
}

func (u *Update) Action() string { return u.action }
func (u *Update) Target() string { return u.email }

// Changes returns the columns the update will write (after Prepare).
func (u *Update) Changes() domain.Changes { return u.changes }

func (u *Update) Prepare(ctx context.Context) error {
	if u.prepare == nil {
		return nil
	}
	return u.prepare(ctx, u)
}

func (u *Update) Execute(ctx context.Context, store UserStore) (Report, error) {
	if u.changes.Empty() {
		return Report{}, domain.ErrNoChanges()
	}
	user, err := store.UpdateByEmail(ctx, u.email, u.changes)
	if err != nil {
		return Report{}, err
	}
	email := user.Email
	if email == "" {
		email = u.email
	}
	return Report{
		Action:            u.action,
		UserID:            user.ID,
		Email:             email,
		Changes:           u.changes.Display(),
		GeneratedPassword: u.generated,
	}, nil
}

// List reads the selected fields of every user.
type List struct {
	sel domain.Selection
}

func ListUsers(sel domain.Selection) *List {
	return &List{sel: sel}
}

func (l *List) Action() string                { return ActionListUsers }
func (l *List) Target() string                { return "" }
func (l *List) Prepare(context.Context) error { return nil }

func (l *List) Execute(ctx context.Context, store UserStore) (Report, error) {
	users, err := store.FindMany(ctx, l.sel)
	if err != nil {
		return Report{}, err
	}
	rows := make([]map[string]any, 0, len(users))
	for _, u := range users {
		rows = append(rows, l.sel.Project(u))
	}
	return Report{
		Action:    ActionListUsers,
		Read:      true,
		Selection: l.sel,
		Rows:      rows,
	}, nil
}
