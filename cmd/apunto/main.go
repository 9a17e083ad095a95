package main

import (
	"fmt"
	"os"

	"github.com/apunto-labs/apunto-cli/internal/adapters/driven/backend"
	configfile "github.com/apunto-labs/apunto-cli/internal/adapters/driven/config/file"
	"github.com/apunto-labs/apunto-cli/internal/adapters/driven/connectivity"
	"github.com/apunto-labs/apunto-cli/internal/adapters/driven/storage/sqlite"
	"github.com/apunto-labs/apunto-cli/internal/adapters/driving/cli"
	"github.com/apunto-labs/apunto-cli/internal/core/services"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := configfile.NewStore("")
	if err != nil {
		return fmt.Errorf("initialising config store: %w", err)
	}
	cfg, err := configStore.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slot, err := sqlite.NewHistorySlot(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening history storage: %w", err)
	}
	defer slot.Close()

	client := backend.NewClient(cfg.API.BaseURL,
		backend.WithRequestsPerSecond(cfg.API.RequestsPerSecond))
	probe := connectivity.NewProbe(cfg.API.BaseURL)

	analysisService := services.NewAnalysisService(client, probe, cfg.API.Timeout())
	historyService := services.NewHistoryService(slot, client)

	return cli.Execute(cli.Options{
		Version:          Version,
		Analyzer:         analysisService,
		History:          historyService,
		UserID:           cfg.API.UserID,
		OuterTimeout:     cfg.API.OuterTimeout(),
		WatchDir:         cfg.Capture.WatchDir,
		WatchDescription: cfg.Capture.Description,
	})
}
