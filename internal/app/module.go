package app

import (
	"context"

	"github.com/ifaasih/mvx/internal/bus"
	"github.com/ifaasih/mvx/internal/config"
	"github.com/ifaasih/mvx/internal/ingest"
	"github.com/ifaasih/mvx/internal/logging"
	"github.com/ifaasih/mvx/internal/paths"
	"github.com/ifaasih/mvx/internal/phone"
	"github.com/ifaasih/mvx/internal/search"
	"github.com/ifaasih/mvx/internal/status"
	"github.com/ifaasih/mvx/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Params holds the resolved invocation settings passed to the fx module.
type Params struct {
	ExportPath string
	ConfigPath string // optional override; empty = ~/.mvx/config.toml
	LogConsole bool   // also log to stderr (headless binaries only)
}

// Module returns the fx module for the viewer, composing all providers
// and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("viewer",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBus,
			provideStateMachine,
			provideStore,
			provideNormalizer,
			provideAggregator,
			provideWorker,
			NewLoader,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig(p Params) (*config.Config, error) {
	path := p.ConfigPath
	if path == "" {
		path = paths.ConfigPath()
	}
	return config.LoadOrDefault(path)
}

func provideLogger(p Params) (*zap.Logger, error) {
	if err := paths.EnsureDirs(); err != nil {
		return nil, err
	}
	return logging.New(paths.LogPath(), p.ExportPath, p.LogConsole)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideStateMachine(b *bus.Bus) *status.Machine {
	return status.NewMachine(b)
}

func provideStore(logger *zap.Logger) (*store.DB, error) {
	db, err := store.Open(":memory:")
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("store initialized", zap.Uint("schema_version", result.Version))
	return db, nil
}

func provideNormalizer(cfg *config.Config) *phone.Normalizer {
	return phone.New(cfg.DialPrefix, cfg.LocalNumberLength)
}

func provideAggregator(norm *phone.Normalizer, b *bus.Bus, logger *zap.Logger) *ingest.Aggregator {
	return ingest.New(norm, b, logger)
}

func provideWorker(cfg *config.Config, logger *zap.Logger) *search.Worker {
	return search.NewWorker(cfg.SearchTimeout(), cfg.SnippetContext, logger)
}

func registerLifecycle(lc fx.Lifecycle, loader *Loader, worker *search.Worker, db *store.DB, b *bus.Bus, machine *status.Machine, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			worker.Start(context.Background())
			if err := loader.Run(); err != nil {
				_ = machine.Transition(status.Error)
				return err
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			worker.Stop()
			if err := db.Close(); err != nil {
				logger.Warn("error closing store", zap.Error(err))
			}
			logger.Info("viewer stopped", zap.Uint64("events_dropped", b.Dropped()))
			_ = logger.Sync()
			return nil
		},
	})
}
