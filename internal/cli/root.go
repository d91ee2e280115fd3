package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/baechuer/useradmin/internal/audit"
	"github.com/baechuer/useradmin/internal/config"
	"github.com/baechuer/useradmin/internal/domain"
	"github.com/baechuer/useradmin/internal/logger"
	runctx "github.com/baechuer/useradmin/internal/pkg/context"
	"github.com/baechuer/useradmin/internal/runner"
)

// Options replaces process-level dependencies, mostly for tests.
type Options struct {
	Out io.Writer
	Err io.Writer

	// Connect overrides the postgres connector built from DB_ADDR.
	Connect runner.Connector
}

type app struct {
	opts Options

	envFile string
	timeout time.Duration

	cfg *config.Config
	log zerolog.Logger
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return Run(ctx, os.Args[1:], Options{Out: os.Stdout, Err: os.Stderr})
}

// Run executes one invocation with args. Errors are logged once and yield exit code 1.
func Run(ctx context.Context, args []string, opts Options) int {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}

	a := &app{opts: opts, log: zerolog.New(opts.Err).With().Timestamp().Logger()}
	root := a.rootCmd()
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		a.log.Error().
			Err(err).
			Str("code", domain.Code(err)).
			Msg("useradmin failed")
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "useradmin",
		Short:         "One-shot maintenance commands for the users table",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetOut(a.opts.Out)
	root.SetErr(a.opts.Err)

	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 0, "upper bound for the run (default OP_TIMEOUT or 30s)")

	root.AddCommand(
		a.promoteCmd(),
		a.resetPasswordCmd(),
		a.setViewSwitchCmd(),
		a.verifyEmailCmd(),
		a.listUsersCmd(),
	)
	return root
}

func (a *app) setup() error {
	loaded, err := config.LoadEnvFile(a.envFile)
	if err != nil {
		return err
	}

	a.log = logger.Init(a.opts.Err)
	if loaded {
		a.log.Debug().Str("path", a.envFile).Msg("env file loaded")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg
	return nil
}

// run executes op through a fresh runner and renders its report to stdout.
func (a *app) run(cmd *cobra.Command, op runner.Operation) error {
	timeout := a.timeout
	if timeout <= 0 {
		timeout = a.cfg.OpTimeout
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	ctx, runID := runctx.WithNewRunID(ctx)
	a.log.Debug().Str("run_id", runID).Str("action", op.Action()).Dur("timeout", timeout).Msg("run started")

	r := runner.New(a.connector(), append([]runner.Option{
		runner.WithLogger(a.log),
		runner.WithAudit(audit.New(a.log)),
	}, a.hooks()...)...)

	rep, err := r.Run(ctx, op)
	if err != nil {
		return err
	}
	return rep.Render(cmd.OutOrStdout())
}

func (a *app) connector() runner.Connector {
	if a.opts.Connect != nil {
		return a.opts.Connect
	}
	return postgresConnector(a.cfg, a.log)
}

func (a *app) hooks() []runner.Option {
	var out []runner.Option
	if a.cfg.RedisAddr != "" {
		out = append(out, runner.WithAfterUpdate("revoke_sessions",
			revokeSessionsHook(a.cfg.RedisAddr, a.cfg.RedisPassword, a.cfg.RedisDB, a.log)))
	}
	if a.cfg.RabbitURL != "" {
		out = append(out, runner.WithAfterUpdate("publish_event",
			publishEventHook(a.cfg.RabbitURL, a.log)))
	}
	return out
}
