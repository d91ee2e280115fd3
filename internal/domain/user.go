package domain

import (
	"strconv"
	"strings"
	"time"
)

type User struct {
	ID            string
	Email         string
	Name          string
	PasswordHash  string
	Role          string
	CanSwitchView bool
	EmailVerified bool
	GoogleID      *string
	CreatedAt     time.Time
}

// TrimEmail strips surrounding whitespace. Case is kept: how addresses
// compare is up to the store's email column.
func TrimEmail(email string) string {
	return strings.TrimSpace(email)
}

// Changes is the set of columns an update writes. Nil fields are left untouched.
type Changes struct {
	Name          *string
	Role          *Role
	PasswordHash  *string
	CanSwitchView *bool
	EmailVerified *bool
}

func (c Changes) Empty() bool {
	return c.Name == nil && c.Role == nil && c.PasswordHash == nil &&
		c.CanSwitchView == nil && c.EmailVerified == nil
}

// Apply copies the non-nil fields of c onto u.
func (c Changes) Apply(u *User) {
	if c.Name != nil {
		u.Name = *c.Name
	}
	if c.Role != nil {
		u.Role = string(*c.Role)
	}
	if c.PasswordHash != nil {
		u.PasswordHash = *c.PasswordHash
	}
	if c.CanSwitchView != nil {
		u.CanSwitchView = *c.CanSwitchView
	}
	if c.EmailVerified != nil {
		u.EmailVerified = *c.EmailVerified
	}
}

// FieldValue is one rendered column of an update.
type FieldValue struct {
	Name  string
	Value string
}

const redacted = "[redacted]"

// Display lists the written columns in a fixed order. Secrets are redacted.
func (c Changes) Display() []FieldValue {
	var out []FieldValue
	if c.Name != nil {
		out = append(out, FieldValue{string(FieldName), *c.Name})
	}
	if c.Role != nil {
		out = append(out, FieldValue{string(FieldRole), string(*c.Role)})
	}
	if c.PasswordHash != nil {
		out = append(out, FieldValue{"password_hash", redacted})
	}
	if c.CanSwitchView != nil {
		out = append(out, FieldValue{string(FieldCanSwitchView), strconv.FormatBool(*c.CanSwitchView)})
	}
	if c.EmailVerified != nil {
		out = append(out, FieldValue{string(FieldEmailVerified), strconv.FormatBool(*c.EmailVerified)})
	}
	return out
}
