package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/baechuer/useradmin/internal/domain"
	runctx "github.com/baechuer/useradmin/internal/pkg/context"
)

// Hook runs after a successful update. Failures are logged, never returned.
type Hook struct {
	Name string
	Fn   func(ctx context.Context, rep Report) error
}

// Runner executes one Operation against a freshly acquired store and always releases it.
type Runner struct {
	connect Connector
	log     zerolog.Logger
	audit   AuditLogger
	hooks   []Hook
}

type Option func(*Runner)

func WithLogger(lg zerolog.Logger) Option {
	return func(r *Runner) { r.log = lg }
}

func WithAudit(a AuditLogger) Option {
	return func(r *Runner) { r.audit = a }
}

// WithAfterUpdate registers a best-effort hook; nil fn is ignored.
func WithAfterUpdate(name string, fn func(ctx context.Context, rep Report) error) Option {
	return func(r *Runner) {
		if fn != nil {
			r.hooks = append(r.hooks, Hook{Name: name, Fn: fn})
		}
	}
}

func New(connect Connector, opts ...Option) *Runner {
	r := &Runner{
		connect: connect,
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run acquires a store, prepares and executes op, and releases the store on every path.
func (r *Runner) Run(ctx context.Context, op Operation) (rep Report, err error) {
	if op == nil {
		return Report{}, domain.ErrInternal(errors.New("nil operation"))
	}
	if runctx.GetRunID(ctx) == "" {
		ctx, _ = runctx.WithNewRunID(ctx)
	}
	lg := r.log.With().
		Str("action", op.Action()).
		Str("run_id", runctx.GetRunID(ctx)).
		Logger()

	// registered first so it observes the final err, after release
	defer func() {
		if p := recover(); p != nil {
			err = domain.ErrInternal(fmt.Errorf("panic: %v", p))
			rep = Report{}
		}
		if err != nil && r.audit != nil {
			r.audit.ActionFailed(ctx, op.Action(), op.Target(), domain.Code(err))
		}
	}()

	if r.connect == nil {
		return Report{}, domain.ErrInternal(errors.New("no connector"))
	}
	store, err := r.connect(ctx)
	if err != nil {
		var de *domain.Error
		if !errors.As(err, &de) {
			err = domain.ErrDBUnavailable(err)
		}
		return Report{}, err
	}
	lg.Debug().Msg("store acquired")

	defer func() {
		if cerr := store.Close(); cerr != nil {
			lg.Warn().Err(cerr).Msg("store release failed")
			return
		}
		lg.Debug().Msg("store released")
	}()

	if err := op.Prepare(ctx); err != nil {
		return Report{}, err
	}

	rep, err = op.Execute(ctx, store)
	if err != nil {
		return Report{}, err
	}

	if rep.Read {
		if r.audit != nil {
			r.audit.UsersListed(ctx, rep.Selection.String(), len(rep.Rows))
		}
		lg.Info().Int("count", len(rep.Rows)).Msg("users listed")
		return rep, nil
	}

	if r.audit != nil {
		r.audit.UserUpdated(ctx, rep.Action, rep.UserID, rep.Email, rep.ChangedFields())
	}
	lg.Info().Str("user_id", rep.UserID).Msg("user updated")

	for _, h := range r.hooks {
		if herr := h.Fn(ctx, rep); herr != nil {
			lg.Warn().Err(herr).Str("hook", h.Name).Msg("after-update hook failed")
		}
	}
	return rep, nil
}
