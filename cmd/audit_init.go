package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/precall-audit/internal/audit"
	"github.com/sells-group/precall-audit/internal/scan"
	"github.com/sells-group/precall-audit/internal/store"
	"github.com/sells-group/precall-audit/pkg/places"
	"github.com/sells-group/precall-audit/pkg/serp"
)

// auditEnv holds the initialized store and runner shared by the run, serve,
// and batch commands.
type auditEnv struct {
	Store  store.Store
	Runner *audit.Runner
}

// Close releases resources held by the environment.
func (e *auditEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initAudit sets up the cache store, provider clients, and the audit runner.
// Callers should defer env.Close().
func initAudit(ctx context.Context) (*auditEnv, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	var placesOpts []places.Option
	if cfg.Places.BaseURL != "" {
		placesOpts = append(placesOpts, places.WithBaseURL(cfg.Places.BaseURL))
	}
	placesClient := places.NewClient(cfg.Places.Key, placesOpts...)

	var serpOpts []serp.Option
	if cfg.Serp.BaseURL != "" {
		serpOpts = append(serpOpts, serp.WithBaseURL(cfg.Serp.BaseURL))
	}
	serpClient := serp.NewClient(cfg.Serp.Key, serpOpts...)

	scanner := scan.New(
		scan.WithRateLimit(rate.Limit(cfg.Scan.RatePerSecond), cfg.Scan.RateBurst),
		scan.WithTimeout(time.Duration(cfg.Scan.TimeoutSecs)*time.Second),
	)

	runner := audit.NewRunner(cfg, placesClient, serpClient, scanner, st)

	return &auditEnv{Store: st, Runner: runner}, nil
}

// initStore picks the cache backend from config. SQLite is the default;
// postgres is for shared deployments.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "", "sqlite":
		return store.NewSQLite(cfg.Store.SQLitePath)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
