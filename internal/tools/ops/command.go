package ops

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/codereview-portal/internal/repository"
	"github.com/sandeepkv93/codereview-portal/internal/service"
	"github.com/sandeepkv93/codereview-portal/internal/tools/common"
)

type options struct {
	envFile string
	timeout time.Duration
	ci      bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "ops",
		Short: "Operator tooling for the code review portal store",
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to env file")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "operation timeout")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")

	cmd.AddCommand(
		newStoreCommand(opts),
		newUsersCommand(opts),
		newContactsCommand(opts),
	)
	return cmd
}

func newStoreCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{Use: "store", Short: "Schema and connectivity"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "prepare",
			Short: "Create indexes or migrate tables for the configured driver",
			RunE: func(cmd *cobra.Command, args []string) error {
				return execute(opts, "store prepare", func(ctx context.Context, rt *common.StoreRuntime) ([]string, error) {
					details, err := rt.Backend.Prepare(ctx)
					return append([]string{"driver: " + rt.Backend.Driver}, details...), err
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Check the store is reachable",
			RunE: func(cmd *cobra.Command, args []string) error {
				return execute(opts, "store status", storeStatus)
			},
		},
	)
	return cmd
}

func newUsersCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "User administration"}

	var email, role string
	setRole := &cobra.Command{
		Use:   "set-role",
		Short: "Change a user's role and drop the shared role cache entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(opts, "users set-role", func(ctx context.Context, rt *common.StoreRuntime) ([]string, error) {
				return SetUserRole(ctx, rt, roleCacheFor(rt), email, role)
			})
		},
	}
	setRole.Flags().StringVar(&email, "email", "", "user email")
	setRole.Flags().StringVar(&role, "role", "admin", "role: user|admin")

	var page, pageSize int
	list := &cobra.Command{
		Use:   "list",
		Short: "List users newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(opts, "users list", func(ctx context.Context, rt *common.StoreRuntime) ([]string, error) {
				return ListUsers(ctx, rt, repository.PageRequest{Page: page, PageSize: pageSize})
			})
		},
	}
	list.Flags().IntVar(&page, "page", 1, "page number")
	list.Flags().IntVar(&pageSize, "page-size", 20, "page size")

	cmd.AddCommand(setRole, list)
	return cmd
}

func newContactsCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{Use: "contacts", Short: "Contact inbox"}

	var status string
	var page, pageSize int
	list := &cobra.Command{
		Use:   "list",
		Short: "List contacts newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(opts, "contacts list", func(ctx context.Context, rt *common.StoreRuntime) ([]string, error) {
				return ListContacts(ctx, rt, status, repository.PageRequest{Page: page, PageSize: pageSize})
			})
		},
	}
	list.Flags().StringVar(&status, "status", "", "filter: unread|read|replied")
	list.Flags().IntVar(&page, "page", 1, "page number")
	list.Flags().IntVar(&pageSize, "page-size", 20, "page size")

	var id, next string
	mark := &cobra.Command{
		Use:   "mark",
		Short: "Move a contact to another status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(opts, "contacts mark", func(ctx context.Context, rt *common.StoreRuntime) ([]string, error) {
				return MarkContact(ctx, rt, id, next)
			})
		},
	}
	mark.Flags().StringVar(&id, "id", "", "contact id")
	mark.Flags().StringVar(&next, "status", "read", "target status")

	var since time.Duration
	export := &cobra.Command{
		Use:   "export",
		Short: "Archive recent contacts to object storage as JSON lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(opts, "contacts export", func(ctx context.Context, rt *common.StoreRuntime) ([]string, error) {
				uploader, err := service.NewMinioUploader(rt.Config)
				if err != nil {
					return nil, err
				}
				return ExportContacts(ctx, rt, uploader, time.Now().Add(-since))
			})
		},
	}
	export.Flags().DurationVar(&since, "since", 24*time.Hour, "export contacts created within this window")

	cmd.AddCommand(list, mark, export)
	return cmd
}

// execute opens the store for fn and exits non-zero when it fails.
func execute(opts *options, title string, fn func(context.Context, *common.StoreRuntime) ([]string, error)) error {
	inv := common.Invocation{Tool: "ops", Title: title, CI: opts.ci, Timeout: opts.timeout}
	err := inv.Run(func(ctx context.Context) ([]string, error) {
		rt, err := common.OpenStore(opts.envFile, slog.Default())
		if err != nil {
			return nil, err
		}
		defer func() { _ = rt.Backend.Close(context.Background()) }()
		return fn(ctx, rt)
	})
	if err != nil {
		if !opts.ci {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(common.ExitStoreFailure)
	}
	return nil
}

// roleCacheFor returns the shared cache the API servers read, or nil when
// each server only caches in process.
func roleCacheFor(rt *common.StoreRuntime) service.RoleCacheStore {
	if !rt.Config.RedisEnabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     rt.Config.RedisAddr,
		Password: rt.Config.RedisPassword,
		DB:       rt.Config.RedisDB,
	})
	return service.NewRedisRoleCacheStore(client, rt.Config.RedisPrefix)
}
