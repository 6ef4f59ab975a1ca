package common

import (
	"log/slog"

	"github.com/sandeepkv93/codereview-portal/internal/config"
	"github.com/sandeepkv93/codereview-portal/internal/database"
	"github.com/sandeepkv93/codereview-portal/internal/repository"
)

// StoreRuntime is what the command line tools operate on.
type StoreRuntime struct {
	Config  *config.Config
	Backend *database.Backend
	Stores  repository.Stores
}

// OpenStore loads the env file and opens the configured backend without the
// web-only settings the API server requires.
func OpenStore(envFile string, logger *slog.Logger) (*StoreRuntime, error) {
	if err := LoadEnvFile(envFile); err != nil {
		return nil, err
	}
	cfg, err := config.LoadStore()
	if err != nil {
		return nil, err
	}
	backend, err := database.OpenBackend(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &StoreRuntime{Config: cfg, Backend: backend, Stores: repository.NewStores(backend)}, nil
}
