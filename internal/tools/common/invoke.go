package common

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/sandeepkv93/codereview-portal/internal/observability"
	"github.com/sandeepkv93/codereview-portal/internal/tools/ui"
)

// ExitStoreFailure is the exit status of store tools whose action failed.
const ExitStoreFailure = 3

// Invocation describes one tool action. In CI mode the action runs under
// Timeout and its outcome is printed as a CIResult; otherwise the TUI
// drives it.
type Invocation struct {
	Tool    string
	Title   string
	CI      bool
	Timeout time.Duration
	Out     io.Writer
}

// Run executes fn and records the tool metrics. The returned error is fn's.
func (inv Invocation) Run(fn func(context.Context) ([]string, error)) error {
	start := time.Now()
	details, err := inv.run(fn)

	status := "success"
	if err != nil {
		status = "error"
	}
	observability.RecordToolCommandRun(context.Background(), inv.Tool, inv.Title, status)
	observability.RecordToolCommandDuration(context.Background(), inv.Tool, inv.Title, status, time.Since(start))

	if inv.CI {
		out := inv.Out
		if out == nil {
			out = os.Stdout
		}
		_ = WriteCIResult(out, NewCIResult(err == nil, inv.Title, details, err))
	}
	return err
}

func (inv Invocation) run(fn func(context.Context) ([]string, error)) ([]string, error) {
	if !inv.CI {
		return ui.Run(inv.Title, fn)
	}
	timeout := inv.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return fn(ctx)
}
