package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ifaasih/mvx/internal/app"
	"github.com/ifaasih/mvx/internal/bus"
	"github.com/ifaasih/mvx/internal/config"
	"github.com/ifaasih/mvx/internal/search"
	"github.com/ifaasih/mvx/internal/status"
	"github.com/ifaasih/mvx/internal/store"
	"github.com/ifaasih/mvx/internal/tui"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	exportFlag := flag.String("export", "", "path to the export JSON file")
	configFlag := flag.String("config", "", "config file path (overrides ~/.mvx/config.toml)")
	flag.Parse()

	if *exportFlag == "" {
		fmt.Fprintln(os.Stderr, "usage: mvx --export <file.json> [--config <path>]")
		os.Exit(1)
	}

	params := app.Params{
		ExportPath: *exportFlag,
		ConfigPath: *configFlag,
	}

	fxApp := fx.New(
		app.Module(params),
		fx.Invoke(registerTUI),
		fx.NopLogger,
	)

	fxApp.Run()
}

// registerTUI starts the viewer UI once the load pipeline is up, and
// shuts the whole application down when the UI exits.
func registerTUI(lc fx.Lifecycle, sd fx.Shutdowner, p app.Params, db *store.DB, worker *search.Worker, b *bus.Bus, machine *status.Machine, cfg *config.Config, logger *zap.Logger) {
	ui := tui.NewApp(db, worker, b, machine, cfg, p.ExportPath, logger)

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				if err := ui.Run(); err != nil {
					logger.Error("tui error", zap.Error(err))
				}
				_ = sd.Shutdown()
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			ui.Stop()
			return nil
		},
	})
}
