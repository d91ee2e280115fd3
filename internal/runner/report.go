package runner

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/baechuer/useradmin/internal/domain"
)

// Report is what a run produced: the written values of an update, or the rows of a read.
type Report struct {
	Action string

	// update
	UserID  string
	Email   string
	Changes []domain.FieldValue
	// GeneratedPassword is set only when the tool created the password itself.
	GeneratedPassword string

	// read
	Read      bool
	Selection domain.Selection
	Rows      []map[string]any
}

// Changed reports whether the update wrote the named column.
func (r Report) Changed(name string) bool {
	for _, fv := range r.Changes {
		if fv.Name == name {
			return true
		}
	}
	return false
}

// ChangedFields returns the written columns as a map (display-safe values).
func (r Report) ChangedFields() map[string]string {
	out := make(map[string]string, len(r.Changes))
	for _, fv := range r.Changes {
		out[fv.Name] = fv.Value
	}
	return out
}

// Render writes plain status lines for updates and indented JSON for reads.
func (r Report) Render(w io.Writer) error {
	if r.Read {
		rows := r.Rows
		if rows == nil {
			rows = []map[string]any{}
		}
		b, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return fmt.Errorf("encode rows: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", b)
		return err
	}

	parts := make([]string, len(r.Changes))
	for i, fv := range r.Changes {
		parts[i] = fv.Name + "=" + fv.Value
	}
	if _, err := fmt.Fprintf(w, "updated user %s: %s\n", r.Email, strings.Join(parts, " ")); err != nil {
		return err
	}
	if r.GeneratedPassword != "" {
		if _, err := fmt.Fprintf(w, "generated password: %s\n", r.GeneratedPassword); err != nil {
			return err
		}
	}
	return nil
}
