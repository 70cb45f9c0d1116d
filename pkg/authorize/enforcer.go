package authorize

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"

	psqlwatcher "github.com/IguteChung/casbin-psql-watcher"
	casbin "github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	entadapter "github.com/casbin/ent-adapter"
	_ "github.com/lib/pq"
)

// policyLoadHealthy is false while the last watcher-triggered reload failed.
var policyLoadHealthy atomic.Bool

func init() {
	policyLoadHealthy.Store(true)
}

// IsPolicyHealthy reports whether the last policy reload succeeded.
func IsPolicyHealthy() bool {
	return policyLoadHealthy.Load()
}

// CleanupFunc is a function that cleans up resources.
type CleanupFunc func(ctx context.Context)

// LoadModel reads the casbin model from path, or ModelText when path is
// empty or missing.
func LoadModel(path string) (model.Model, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return model.NewModelFromFile(path)
		}
		slog.Warn("casbin model file not found, using built-in model", "path", path)
	}
	return model.NewModelFromString(ModelText)
}

// NewEnforcer creates a DistributedEnforcer backed by the casbin Postgres
// database. With policy sync on, a LISTEN/NOTIFY watcher reloads policy when
// another instance changes it.
func NewEnforcer(cfg Config, dsn string) (*casbin.DistributedEnforcer, CleanupFunc, error) {
	m, err := LoadModel(cfg.CasbinModelPath)
	if err != nil {
		return nil, nil, err
	}

	a, err := entadapter.NewAdapter("postgres", dsn)
	if err != nil {
		return nil, nil, err
	}

	e, err := casbin.NewDistributedEnforcer(m, a)
	if err != nil {
		return nil, nil, err
	}
	e.EnableAutoSave(true)
	e.EnableEnforce(true)

	var closeWatcher func()
	if cfg.PolicySyncEnabled {
		w, err := psqlwatcher.NewWatcherWithConnString(context.Background(), dsn, psqlwatcher.Option{
			Channel: "casbin_policy_update",
		})
		if err != nil {
			return nil, nil, err
		}

		err = w.SetUpdateCallback(func(msg string) {
			slog.Debug("casbin policy update received", "message", msg)
			if err := e.LoadPolicy(); err != nil {
				slog.Error("failed to reload policy after watcher notification", "error", err)
				policyLoadHealthy.Store(false)
				return
			}
			policyLoadHealthy.Store(true)
		})
		if err != nil {
			return nil, nil, err
		}
		if err := e.SetWatcher(w); err != nil {
			return nil, nil, err
		}
		closeWatcher = func() { w.Close() }
	}

	cleanup := func(ctx context.Context) {
		if closeWatcher != nil {
			closeWatcher()
		}
		e.StopAutoLoadPolicy()
		slog.Info("casbin enforcer cleanup completed")
	}

	return e, cleanup, nil
}
