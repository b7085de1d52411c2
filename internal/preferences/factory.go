package preferences

import (
	"context"
	"fmt"

	"orianna-agent/internal/common/config"
	"orianna-agent/internal/common/database"
)

// Backend is an opened store plus the function that releases its connections.
type Backend struct {
	Store Store
	Name  string
	close func(ctx context.Context) error
}

func (b *Backend) Close(ctx context.Context) error {
	if b.close == nil {
		return nil
	}
	return b.close(ctx)
}

// Open connects the backend named by cfg.Preferences.Backend and verifies it.
func Open(ctx context.Context, cfg *config.Config, log Logger) (*Backend, error) {
	name := cfg.Preferences.Backend
	log = log.With(map[string]interface{}{"backend": name})

	var (
		store Store
		close func(ctx context.Context) error
	)

	switch name {
	case "redis":
		rc, err := database.OpenRedis(cfg.Database.Redis)
		if err != nil {
			return nil, err
		}
		store = NewRedisStore(rc, cfg.Database.Redis.KeyPrefix)
		close = func(context.Context) error { return rc.Close() }

	case "mongo":
		coll, mc, err := database.OpenMongoCollection(ctx, cfg.Database.Mongo)
		if err != nil {
			return nil, err
		}
		store = NewMongoStore(coll)
		close = mc.Disconnect

	case "postgres":
		pg, err := database.OpenPostgres(cfg.Database.Postgres)
		if err != nil {
			return nil, err
		}
		ps := NewPostgresStore(pg)
		if err := ps.EnsureSchema(ctx); err != nil {
			_ = pg.Close()
			return nil, err
		}
		store = ps
		close = func(context.Context) error { return pg.Close() }

	case "memory", "":
		name = "memory"
		store = NewMemoryStore()

	default:
		return nil, fmt.Errorf("unknown preferences backend %q", name)
	}

	if err := store.Ping(ctx); err != nil {
		if close != nil {
			_ = close(ctx)
		}
		return nil, fmt.Errorf("preferences backend %s unreachable: %w", name, err)
	}

	log.Info("Preference store ready", nil)
	return &Backend{
		Store: &instrumented{Store: store, backend: name},
		Name:  name,
		close: close,
	}, nil
}
