package domain

import (
	"strings"
	"time"
)

// Field is a selectable users column. password_hash is deliberately absent.
type Field string

const (
	FieldID            Field = "id"
	FieldEmail         Field = "email"
	FieldName          Field = "name"
	FieldRole          Field = "role"
	FieldCanSwitchView Field = "can_switch_view"
	FieldEmailVerified Field = "email_verified"
	FieldGoogleID      Field = "google_id"
	FieldCreatedAt     Field = "created_at"
)

var knownFields = []Field{
	FieldID,
	FieldEmail,
	FieldName,
	FieldRole,
	FieldCanSwitchView,
	FieldEmailVerified,
	FieldGoogleID,
	FieldCreatedAt,
}

func IsValidField(f string) bool {
	for _, k := range knownFields {
		if string(k) == f {
			return true
		}
	}
	return false
}

// KnownFieldNames lists every selectable field in column order, comma separated.
func KnownFieldNames() string {
	names := make([]string, len(knownFields))
	for i, f := range knownFields {
		names[i] = string(f)
	}
	return strings.Join(names, ",")
}

// Selection is a validated, ordered, duplicate-free list of fields.
type Selection struct {
	fields []Field
}

// DefaultSelection is used when no fields are requested.
func DefaultSelection() Selection {
	return Selection{fields: []Field{FieldEmail, FieldRole}}
}

// NewSelection validates fields against the users schema.
func NewSelection(fields ...Field) (Selection, error) {
	if len(fields) == 0 {
		return DefaultSelection(), nil
	}
	seen := make(map[Field]bool, len(fields))
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		if !IsValidField(string(f)) {
			return Selection{}, ErrInvalidField("fields", "unknown field "+string(f)+" (known: "+KnownFieldNames()+")")
		}
		if seen[f] {
			return Selection{}, ErrInvalidField("fields", "duplicate field "+string(f))
		}
		seen[f] = true
		out = append(out, f)
	}
	return Selection{fields: out}, nil
}

// ParseSelection accepts a comma separated list such as "email,role".
func ParseSelection(s string) (Selection, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultSelection(), nil
	}
	parts := strings.Split(s, ",")
	fields := make([]Field, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			return Selection{}, ErrInvalidField("fields", "empty field name")
		}
		fields = append(fields, Field(p))
	}
	return NewSelection(fields...)
}

func (s Selection) Fields() []Field {
	if len(s.fields) == 0 {
		return DefaultSelection().fields
	}
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

func (s Selection) String() string {
	fields := s.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return strings.Join(names, ",")
}

// Project returns only the selected fields of u, keyed by column name.
func (s Selection) Project(u User) map[string]any {
	out := make(map[string]any, len(s.Fields()))
	for _, f := range s.Fields() {
		switch f {
		case FieldID:
			out[string(f)] = u.ID
		case FieldEmail:
			out[string(f)] = u.Email
		case FieldName:
			out[string(f)] = u.Name
		case FieldRole:
			out[string(f)] = u.Role
		case FieldCanSwitchView:
			out[string(f)] = u.CanSwitchView
		case FieldEmailVerified:
			out[string(f)] = u.EmailVerified
		case FieldGoogleID:
			if u.GoogleID != nil {
				out[string(f)] = *u.GoogleID
			} else {
				out[string(f)] = nil
			}
		case FieldCreatedAt:
			out[string(f)] = u.CreatedAt.UTC().Format(time.RFC3339)
		}
	}
	return out
}
