package loadgen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/codereview-portal/internal/tools/common"
)

const exitLoadFailed = 4

var errServerErrors = errors.New("portal answered with 5xx responses")

type options struct {
	cfg       Config
	failOn5xx bool
	ci        bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{Use: "loadgen", Short: "Drive synthetic traffic at a running portal"}
	f := cmd.PersistentFlags()
	f.StringVar(&opts.cfg.BaseURL, "base-url", "http://localhost:8080", "portal base URL")
	f.StringVar(&opts.cfg.Profile, "profile", "mixed", "traffic profile, see `loadgen profiles`")
	f.DurationVar(&opts.cfg.Duration, "duration", 15*time.Second, "how long to send traffic")
	f.IntVar(&opts.cfg.RPS, "rps", 20, "requests per second")
	f.IntVar(&opts.cfg.Concurrency, "concurrency", 6, "concurrent workers")
	f.Int64Var(&opts.cfg.Seed, "seed", 42, "random seed for generated bodies")
	f.StringVar(&opts.cfg.Cookie, "cookie", "", "Cookie header for authenticated routes, e.g. a copied session cookie")
	f.BoolVar(&opts.failOn5xx, "fail-on-5xx", false, "exit non-zero when any response is a 5xx")
	f.BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")
	cmd.AddCommand(newRunCommand(opts), newProfilesCommand())
	return cmd
}

func newRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Send traffic for --duration and print status counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			title := fmt.Sprintf("loadgen %s", opts.cfg.Profile)
			// The deadline runs past the traffic window so in-flight requests drain.
			inv := common.Invocation{Tool: "loadgen", Title: title, CI: opts.ci, Timeout: opts.cfg.Duration + 15*time.Second}
			err := inv.Run(func(ctx context.Context) ([]string, error) {
				res, err := Run(ctx, opts.cfg)
				if err != nil {
					return nil, err
				}
				if opts.failOn5xx && res.Status5xx > 0 {
					return res.Summary(), errServerErrors
				}
				return res.Summary(), nil
			})
			if err != nil {
				os.Exit(exitLoadFailed)
			}
			return nil
		},
	}
}

func newProfilesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List traffic profiles",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range Profiles {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", p.Name, p.Description)
			}
		},
	}
}
