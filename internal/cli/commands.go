package cli

import (
	"github.com/spf13/cobra"

	"github.com/baechuer/useradmin/internal/domain"
	"github.com/baechuer/useradmin/internal/infrastructure/security"
	"github.com/baechuer/useradmin/internal/runner"
)

func (a *app) promoteCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "promote <email>",
		Short: "Set a user's role (admin by default)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := domain.ParseRole(role)
			if err != nil {
				return err
			}
			op, err := runner.Promote(args[0], r)
			if err != nil {
				return err
			}
			return a.run(cmd, op)
		},
	}
	cmd.Flags().StringVar(&role, "role", string(domain.RoleAdmin), "role to assign (user, moderator, admin)")
	return cmd
}

func (a *app) resetPasswordCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "reset-password <email>",
		Short: "Replace a user's password hash",
		Long: "Hashes the given password with bcrypt and stores the hash.\n" +
			"Without --password a random password is generated and printed once.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hasher := security.NewBcryptHasher(a.cfg.BcryptCost)
			op, err := runner.ResetPassword(args[0], password, hasher)
			if err != nil {
				return err
			}
			return a.run(cmd, op)
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "new plaintext password (at least 12 characters)")
	return cmd
}

func (a *app) setViewSwitchCmd() *cobra.Command {
	var enabled bool

	cmd := &cobra.Command{
		Use:   "set-view-switch <email>",
		Short: "Allow or forbid switching to the alternate view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := runner.SetViewSwitch(args[0], enabled)
			if err != nil {
				return err
			}
			return a.run(cmd, op)
		},
	}
	cmd.Flags().BoolVar(&enabled, "enabled", false, "new value of can_switch_view")
	_ = cmd.MarkFlagRequired("enabled")
	return cmd
}

func (a *app) verifyEmailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify-email <email>",
		Short: "Mark a user's email address as verified",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := runner.VerifyEmail(args[0])
			if err != nil {
				return err
			}
			return a.run(cmd, op)
		},
	}
}

func (a *app) listUsersCmd() *cobra.Command {
	var fields string

	cmd := &cobra.Command{
		Use:   "list-users",
		Short: "Print the selected fields of every user as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := domain.ParseSelection(fields)
			if err != nil {
				return err
			}
			return a.run(cmd, runner.ListUsers(sel))
		},
	}
	cmd.Flags().StringVar(&fields, "fields", domain.DefaultSelection().String(),
		"comma-separated columns to print, any of: "+domain.KnownFieldNames())
	return cmd
}
