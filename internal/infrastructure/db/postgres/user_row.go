package postgres

import (
	"database/sql"
	"time"

	"github.com/baechuer/useradmin/internal/domain"
)

type userRow struct {
	ID            string
	Email         string
	Name          sql.NullString
	PasswordHash  string
	Role          string
	CanSwitchView bool
	EmailVerified bool
	GoogleID      sql.NullString
	CreatedAt     time.Time
}

const userColumns = `id, email, name, password_hash, role, can_switch_view, email_verified, google_id, created_at`

func (ur *userRow) dests() []any {
	return []any{
		&ur.ID,
		&ur.Email,
		&ur.Name,
		&ur.PasswordHash,
		&ur.Role,
		&ur.CanSwitchView,
		&ur.EmailVerified,
		&ur.GoogleID,
		&ur.CreatedAt,
	}
}

// dest returns the scan target for a single selectable column.
func (ur *userRow) dest(f domain.Field) any {
	switch f {
	case domain.FieldID:
		return &ur.ID
	case domain.FieldEmail:
		return &ur.Email
	case domain.FieldName:
		return &ur.Name
	case domain.FieldRole:
		return &ur.Role
	case domain.FieldCanSwitchView:
		return &ur.CanSwitchView
	case domain.FieldEmailVerified:
		return &ur.EmailVerified
	case domain.FieldGoogleID:
		return &ur.GoogleID
	case domain.FieldCreatedAt:
		return &ur.CreatedAt
	default:
		return nil
	}
}

func toDomainUser(ur userRow) domain.User {
	u := domain.User{
		ID:            ur.ID,
		Email:         ur.Email,
		Name:          ur.Name.String,
		PasswordHash:  ur.PasswordHash,
		Role:          ur.Role,
		CanSwitchView: ur.CanSwitchView,
		EmailVerified: ur.EmailVerified,
		CreatedAt:     ur.CreatedAt,
	}
	if ur.GoogleID.Valid {
		id := ur.GoogleID.String
		u.GoogleID = &id
	}
	return u
}
