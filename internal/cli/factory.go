package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/aretw0/sysml/internal/adapters/file"
	"github.com/aretw0/sysml/internal/adapters/redis"
	"github.com/aretw0/sysml/internal/adapters/sqlite"
	"github.com/aretw0/sysml/internal/config"
	"github.com/aretw0/sysml/pkg/adapters/memory"
	"github.com/aretw0/sysml/pkg/ports"
)

// backend bundles what a storage driver provides.
type backend struct {
	repo   ports.ModelRepository
	locker ports.DistributedLocker
	closer io.Closer
}

// createBackend builds the repository and locker for the configured driver.
// Relative storage paths are resolved against dir.
func createBackend(cfg config.Storage, dir string) (*backend, error) {
	resolve := func(path, fallback string) string {
		if path == "" {
			path = fallback
		}
		if filepath.IsAbs(path) {
			return path
		}
		return filepath.Join(dir, path)
	}

	switch cfg.Driver {
	case config.DriverMemory:
		return &backend{repo: memory.NewStore(), locker: memory.NewLocker()}, nil

	case config.DriverFile:
		store := file.New(resolve(cfg.Path, filepath.Join(".sysml", "models")))
		return &backend{repo: store, locker: memory.NewLocker()}, nil

	case config.DriverSQLite:
		store, err := sqlite.New(resolve(cfg.Path, sqlite.DefaultPath))
		if err != nil {
			return nil, err
		}
		return &backend{repo: store, locker: memory.NewLocker(), closer: store}, nil

	case config.DriverRedis:
		opts := []redis.Option{redis.WithTTL(cfg.Redis.TTL)}
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		prefix := cfg.Redis.Prefix
		if prefix == "" {
			prefix = redis.DefaultPrefix
		}
		return &backend{
			repo:   store,
			locker: redis.NewLocker(store.Client(), prefix),
			closer: store,
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
