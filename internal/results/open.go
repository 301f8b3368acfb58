package results

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Config selects and locates the result store.
type Config struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// Open returns the Store named by cfg.Driver: "json" (default), "sqlite" or
// "postgres". SQL stores are migrated before they are returned.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", "json":
		zap.L().Debug("using json result store", zap.String("path", cfg.Path))
		return NewJSON(cfg.Path), nil

	case "sqlite":
		st, err := NewSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close() //nolint:errcheck
			return nil, err
		}
		return st, nil

	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, eris.New("results: store.database_url is required for postgres")
		}
		st, err := NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close() //nolint:errcheck
			return nil, err
		}
		return st, nil

	default:
		return nil, eris.Errorf("results: unknown store driver %q", cfg.Driver)
	}
}
