package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sandeepkv93/codereview-portal/internal/observability"
)

type CheckResult struct {
	Name      string `json:"name"`
	Healthy   bool   `json:"healthy"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

type Checker interface {
	Check(ctx context.Context) CheckResult
}

// ProbeRunner answers /health/ready. Only the backends the portal was
// configured with are probed; they run in parallel, each with its own timeout.
type ProbeRunner struct {
	checkers []Checker
	timeout  time.Duration
	readyAt  time.Time
	now      func() time.Time
}

// NewProbeRunner drops nil checkers so optional backends can be passed unconditionally.
func NewProbeRunner(timeout, gracePeriod time.Duration, checkers ...Checker) *ProbeRunner {
	if timeout <= 0 {
		timeout = time.Second
	}
	r := &ProbeRunner{timeout: timeout, now: time.Now}
	r.readyAt = r.now().Add(gracePeriod)
	for _, c := range checkers {
		if c != nil {
			r.checkers = append(r.checkers, c)
		}
	}
	return r
}

func (r *ProbeRunner) Ready(ctx context.Context) (bool, []CheckResult) {
	if r == nil {
		return true, nil
	}
	if wait := r.readyAt.Sub(r.now()); wait > 0 {
		return false, []CheckResult{{
			Name:  "startup_grace",
			Error: fmt.Sprintf("startup grace period active for %s", wait.Round(time.Millisecond)),
		}}
	}

	results := make([]CheckResult, len(r.checkers))
	var wg sync.WaitGroup
	for i, c := range r.checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = r.probe(ctx, c)
		}()
	}
	wg.Wait()

	ready := true
	for _, res := range results {
		ready = ready && res.Healthy
	}
	return ready, results
}

func (r *ProbeRunner) probe(ctx context.Context, c Checker) CheckResult {
	checkCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	start := time.Now()
	res := c.Check(checkCtx)
	elapsed := time.Since(start)
	res.LatencyMS = elapsed.Milliseconds()

	outcome := "healthy"
	if !res.Healthy {
		outcome = "unhealthy"
	}
	observability.RecordHealthCheckDuration(ctx, res.Name, elapsed)
	observability.RecordHealthCheckResult(ctx, res.Name, outcome)
	return res
}
