package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/baechuer/useradmin/internal/domain"
)

// UserStore is the users table. It owns db and closes it.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// ---------- helpers ----------

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isConstraintViolation matches SQLSTATE class 23 (integrity constraint violation).
func isConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "23")
	}
	return false
}

func buildUpdate(ch domain.Changes) (string, []any) {
	// $1 is always the email filter
	args := []any{nil}
	var sets []string
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if ch.Name != nil {
		add("name", *ch.Name)
	}
	if ch.Role != nil {
		add("role", string(*ch.Role))
	}
	if ch.PasswordHash != nil {
		add("password_hash", *ch.PasswordHash)
	}
	if ch.CanSwitchView != nil {
		add("can_switch_view", *ch.CanSwitchView)
	}
	if ch.EmailVerified != nil {
		add("email_verified", *ch.EmailVerified)
	}

	q := "UPDATE users\nSET " + strings.Join(sets, ",\n    ") +
		"\nWHERE email = $1\nRETURNING " + userColumns + ";"
	return q, args
}

// ---------- runner.UserStore ----------

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

	q, args := buildUpdate(ch)
	args[0] = email

	var ur userRow
	err := s.db.QueryRowContext(ctx, q, args...).Scan(ur.dests()...)
	if err != nil {
		if isNoRows(err) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		if isConstraintViolation(err) {
			return domain.User{}, domain.ErrConstraintViolation(err)
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

// FindMany reads the selected columns of every user, ordered by email.
func (s *UserStore) FindMany(ctx context.Context, sel domain.Selection) ([]domain.User, error) {
	fields := sel.Fields()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = string(f)
	}

	q := "SELECT " + strings.Join(cols, ", ") + "\nFROM users\nORDER BY email;"

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var ur userRow
		dests := make([]any, len(fields))
		for i, f := range fields {
			dests[i] = ur.dest(f)
		}
		if err := rows.Scan(dests...); err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		users = append(users, toDomainUser(ur))
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return users, nil
}

func (s *UserStore) Close() error {
	return s.db.Close()
}
