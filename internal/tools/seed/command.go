package seed

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/codereview-portal/internal/tools/common"
)

type options struct {
	envFile string
	plan    Plan
	ci      bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{Use: "seed", Short: "Demo data for local development"}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to env file")
	cmd.PersistentFlags().StringVar(&opts.plan.Email, "email", "demo@example.com", "demo user email")
	cmd.PersistentFlags().StringVar(&opts.plan.Name, "name", "Demo Reviewer", "demo user display name")
	cmd.PersistentFlags().StringVar(&opts.plan.Role, "role", "user", "demo user role: user|admin")
	cmd.PersistentFlags().IntVar(&opts.plan.Activities, "activities", 8, "activities to create for the demo user")
	cmd.PersistentFlags().IntVar(&opts.plan.Contacts, "contacts", 3, "unread contact inquiries to create")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")
	cmd.AddCommand(newApplyCommand(opts), newDryRunCommand(opts))
	return cmd
}

func newApplyCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Write demo data to the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.invoke("seed apply", func(ctx context.Context) ([]string, error) {
				rt, err := common.OpenStore(opts.envFile, slog.Default())
				if err != nil {
					return nil, err
				}
				defer func() { _ = rt.Backend.Close(context.Background()) }()
				return Apply(ctx, rt.Stores, opts.plan)
			})
		},
	}
}

func newDryRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dry-run",
		Short: "Show what seeding would do",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.invoke("seed dry-run", func(context.Context) ([]string, error) {
				return opts.plan.Describe()
			})
		},
	}
}

func (o *options) invoke(title string, fn func(context.Context) ([]string, error)) error {
	inv := common.Invocation{Tool: "seed", Title: title, CI: o.ci, Timeout: time.Minute}
	if err := inv.Run(fn); err != nil {
		if !o.ci {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(common.ExitStoreFailure)
	}
	return nil
}
