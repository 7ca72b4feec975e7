package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zjrosen/signup/internal/availability"
	"github.com/zjrosen/signup/internal/config"
	"github.com/zjrosen/signup/internal/registration"
)

var errUsernameRejected = errors.New("username rejected")

var checkCmd = &cobra.Command{
	Use:   "check <username>",
	Short: "Check whether a username can be registered",
	Long: `Run the same username validation the wizard uses and print the verdict.

Exits with status 1 when the username is empty, already taken, or not in
the allowed format. Backend errors count as taken.

Examples:
  signup check ada_lovelace
  signup check ada --api-url https://register.example.com`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfgErr != nil {
			return cfgErr
		}
		if err := config.ValidateAPI(cfg.API); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		cleanup, err := initLogging("signup-check")
		if err != nil {
			return err
		}
		defer cleanup()

		b, err := newBackend(cfg)
		if err != nil {
			return err
		}
		defer b.Close()

		return checkUsername(cmd.Context(), cmd.OutOrStdout(), b.checker, args[0])
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// checkUsername prints the verdict for username and returns
// errUsernameRejected when it cannot be registered.
func checkUsername(ctx context.Context, out io.Writer, checker availability.Checker, username string) error {
	fe, ok := registration.ValidateUsernameRemote(ctx, checker, username)
	if ok {
		_, _ = fmt.Fprintf(out, "%q is available\n", username)
		return nil
	}

	_, _ = fmt.Fprintf(out, "%q: %s\n", username, fe.Message)
	return errUsernameRejected
}
