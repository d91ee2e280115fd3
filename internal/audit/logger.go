package audit

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	runctx "github.com/baechuer/useradmin/internal/pkg/context"
)

// Logger provides structured audit logging for admin actions.
type Logger struct {
	log zerolog.Logger
}

// New creates a new audit logger
func New(log zerolog.Logger) *Logger {
	return &Logger{
		log: log.With().Bool("audit", true).Logger(),
	}
}

// UserUpdated logs a successful single-record update.
// fields holds only display-safe values.
func (l *Logger) UserUpdated(ctx context.Context, action, userID, email string, fields map[string]string) {
	ev := l.log.Warn().
		Str("action", action).
		Str("target_user_id", userID).
		Str("email", maskEmail(email)).
		Str("run_id", runctx.GetRunID(ctx))
	for k, v := range fields {
		ev = ev.Str("new_"+k, v)
	}
	ev.Msg("User record updated")
}

// UsersListed logs a read of the user table.
func (l *Logger) UsersListed(ctx context.Context, fields string, count int) {
	l.log.Info().
		Str("action", "list_users").
		Str("fields", fields).
		Int("count", count).
		Str("run_id", runctx.GetRunID(ctx)).
		Msg("Users listed")
}

// ActionFailed logs a rejected or failed run.
func (l *Logger) ActionFailed(ctx context.Context, action, email, code string) {
	l.log.Error().
		Str("action", action).
		Str("email", maskEmail(email)).
		Str("error_code", code).
		Str("run_id", runctx.GetRunID(ctx)).
		Msg("Admin action failed")
}

// maskEmail partially masks email for privacy in logs
func maskEmail(email string) string {
	if len(email) < 5 {
		return "***"
	}
	at := strings.IndexByte(email, '@')
	if at < 0 {
		return email[:2] + "***"
	}
	if at < 2 {
		return email[:1] + "***" + email[at:]
	}
	return email[:2] + "***" + email[at:]
}
