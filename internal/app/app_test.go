package app

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/codereview-portal/internal/config"
	"github.com/sandeepkv93/codereview-portal/internal/database"
	"github.com/sandeepkv93/codereview-portal/internal/observability"
	"github.com/sandeepkv93/codereview-portal/internal/repository"
	"github.com/sandeepkv93/codereview-portal/internal/service"
)

func newTestApp(t *testing.T, addr string) *App {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		StoreDriver:       config.StoreDriverSQLite,
		DatabaseURL:       "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared",
		ShutdownTimeout:   5 * time.Second,
		ShutdownHTTPDrain: time.Second,
	}
	store, err := database.OpenBackend(cfg, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	runtime, err := observability.InitRuntime(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("init observability: %v", err)
	}
	stores := repository.NewStores(store)
	contacts := service.NewContactService(stores.Contacts, service.NewDisabledNotifier(logger), time.Second, logger)
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }),
		ReadHeaderTimeout: time.Second,
	}
	return New(cfg, logger, srv, runtime, store, nil, nil, contacts)
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().String()
	_ = l.Close()
	return addr
}

func TestRunServesUntilCancelledThenShutsDown(t *testing.T) {
	addr := freeAddr(t)
	a := newTestApp(t, addr)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	var resp *http.Response
	var err error
	for i := 0; i < 50; i++ {
		resp, err = http.Get("http://" + addr + "/health/live")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never came up: %v", err)
	}
	_ = resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
	if _, err := http.Get("http://" + addr + "/health/live"); err == nil {
		t.Fatal("server still accepting after shutdown")
	}
}

func TestRunReportsListenFailure(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()

	a := newTestApp(t, l.Addr().String())
	err = a.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "http server") {
		t.Fatalf("expected listen error, got %v", err)
	}
}

func TestShutdownWithoutServeIsClean(t *testing.T) {
	a := newTestApp(t, freeAddr(t))
	if err := a.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
