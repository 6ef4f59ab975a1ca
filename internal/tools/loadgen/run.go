package loadgen

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandeepkv93/codereview-portal/internal/observability"
)

type Config struct {
	BaseURL     string
	Profile     string
	Duration    time.Duration
	RPS         int
	Concurrency int
	Seed        int64
	// Cookie is sent verbatim on every request, e.g. a copied session cookie,
	// so authenticated routes can be exercised.
	Cookie string
	Client *http.Client
}

type Result struct {
	TotalRequests int64
	Failures      int64
	Status2xx     int64
	Status3xx     int64
	Status4xx     int64
	Status5xx     int64
	// Throttled counts 429 answers; they are also included in Status4xx.
	Throttled int64
}

// Summary renders the result as key=value lines for the terminal and CI output.
func (r Result) Summary() []string {
	return []string{
		fmt.Sprintf("total_requests=%d", r.TotalRequests),
		fmt.Sprintf("failures=%d", r.Failures),
		fmt.Sprintf("status_2xx=%d", r.Status2xx),
		fmt.Sprintf("status_3xx=%d", r.Status3xx),
		fmt.Sprintf("status_4xx=%d", r.Status4xx),
		fmt.Sprintf("status_5xx=%d", r.Status5xx),
		fmt.Sprintf("throttled=%d", r.Throttled),
	}
}

type request struct {
	method string
	path   string
	body   func(*rand.Rand) string
}

func (r request) build(ctx context.Context, baseURL, cookie string, rng *rand.Rand) (*http.Request, error) {
	var body *bytes.Reader
	if r.body != nil {
		body = bytes.NewReader([]byte(r.body(rng)))
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, baseURL+r.path, body)
	if err != nil {
		return nil, err
	}
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	return req, nil
}

func Run(ctx context.Context, cfg Config) (Result, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Duration <= 0 {
		cfg.Duration = 10 * time.Second
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 15
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}
	profile := strings.ToLower(cfg.Profile)
	if profile == "" {
		profile = "mixed"
	}
	requests := requestsForProfile(profile)
	if len(requests) == 0 {
		return Result{}, fmt.Errorf("unknown profile: %s", cfg.Profile)
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	// Guarded pages answer with redirects; count them rather than follow.
	noFollow := *client
	noFollow.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

	ctx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	var total, failures, s2xx, s3xx, s4xx, s5xx, throttled int64
	jobs := make(chan request, cfg.Concurrency*2)
	wg := sync.WaitGroup{}

	for i := 0; i < cfg.Concurrency; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(cfg.Seed + int64(worker)))
			for r := range jobs {
				req, err := r.build(ctx, cfg.BaseURL, cfg.Cookie, rng)
				if err != nil {
					atomic.AddInt64(&failures, 1)
					continue
				}
				resp, err := noFollow.Do(req)
				if err != nil {
					if ctx.Err() != nil {
						continue
					}
					atomic.AddInt64(&failures, 1)
					continue
				}
				_ = resp.Body.Close()
				atomic.AddInt64(&total, 1)
				class := statusClass(resp.StatusCode)
				switch class {
				case "2xx":
					atomic.AddInt64(&s2xx, 1)
				case "3xx":
					atomic.AddInt64(&s3xx, 1)
				case "4xx":
					atomic.AddInt64(&s4xx, 1)
					if resp.StatusCode == http.StatusTooManyRequests {
						atomic.AddInt64(&throttled, 1)
					}
				case "5xx":
					atomic.AddInt64(&s5xx, 1)
				}
				observability.RecordLoadgenRequest(ctx, class, profile)
			}
		}(i)
	}

	ticker := time.NewTicker(time.Second / time.Duration(cfg.RPS))
	defer ticker.Stop()
	i := 0
	for {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return Result{
				TotalRequests: atomic.LoadInt64(&total),
				Failures:      atomic.LoadInt64(&failures),
				Status2xx:     atomic.LoadInt64(&s2xx),
				Status3xx:     atomic.LoadInt64(&s3xx),
				Status4xx:     atomic.LoadInt64(&s4xx),
				Status5xx:     atomic.LoadInt64(&s5xx),
				Throttled:     atomic.LoadInt64(&throttled),
			}, nil
		case <-ticker.C:
			select {
			case jobs <- requests[i%len(requests)]:
				i++
			case <-ctx.Done():
			}
		}
	}
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	case code >= 200:
		return "2xx"
	default:
		return "other"
	}
}

func validContact(rng *rand.Rand) string {
	n := rng.Intn(100000)
	return fmt.Sprintf(`{"name":"Load %d","email":"load%d@example.com","subject":"Load test %d","message":"Generated inquiry number %d for traffic checks."}`, n, n, n, n)
}

func invalidContact(*rand.Rand) string {
	return `{"name":"","email":"not-an-email","subject":"","message":"short"}`
}

func newActivity(rng *rand.Rand) string {
	return fmt.Sprintf(`{"type":"comment_added","description":"Load comment %d","targetName":"loadgen#%d"}`, rng.Intn(1000), rng.Intn(50))
}

func malformed(*rand.Rand) string { return `{"type":` }

var (
	healthRequests = []request{
		{method: http.MethodGet, path: "/health/live"},
		{method: http.MethodGet, path: "/health/ready"},
	}
	pageRequests = []request{
		{method: http.MethodGet, path: "/"},
		{method: http.MethodGet, path: "/contact?lang=ja"},
		{method: http.MethodGet, path: "/auth/signin"},
		{method: http.MethodGet, path: "/dashboard"},
	}
	contactRequests = []request{
		{method: http.MethodPost, path: "/api/contact", body: validContact},
		{method: http.MethodPost, path: "/api/contact", body: invalidContact},
	}
	activityRequests = []request{
		{method: http.MethodGet, path: "/api/activities"},
		{method: http.MethodPost, path: "/api/activities", body: newActivity},
		{method: http.MethodGet, path: "/api/auth/session"},
	}
	errorRequests = []request{
		{method: http.MethodGet, path: "/api/auth/callback/google?state=bad&code=x"},
		{method: http.MethodPost, path: "/api/contact", body: malformed},
		{method: http.MethodPost, path: "/api/activities", body: malformed},
		{method: http.MethodGet, path: "/api/admin/contacts"},
		{method: http.MethodPost, path: "/api/auth/signout"},
	}
)

// Profiles lists the traffic shapes Run understands.
var Profiles = []struct{ Name, Description string }{
	{"mixed", "health probes, pages, contact submissions and activity calls"},
	{"health", "liveness and readiness probes only"},
	{"pages", "landing, contact, sign-in and dashboard pages"},
	{"contact", "valid and invalid contact submissions, trips the contact limiter"},
	{"activities", "activity feed reads and writes; needs --cookie"},
	{"error-heavy", "bad callbacks, malformed JSON and unauthenticated admin calls"},
}

func requestsForProfile(profile string) []request {
	switch profile {
	case "mixed":
		var all []request
		for _, set := range [][]request{healthRequests, pageRequests, contactRequests, activityRequests} {
			all = append(all, set...)
		}
		return all
	case "health":
		return healthRequests
	case "pages":
		return pageRequests
	case "contact":
		return contactRequests
	case "activities":
		return activityRequests
	case "error-heavy":
		return append(append([]request{}, errorRequests...), contactRequests[1])
	default:
		return nil
	}
}
