package cmd

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"stock-strategy/internal/repository"
	"stock-strategy/internal/service"

	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a one-shot watchlist scan and print the signals as JSON",
	Run:   runScanCmd,
}

func runScanCmd(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}
	defer appDep.Close()

	repo := repository.NewRepository(appDep.cfg, appDep.db.DB, appDep.log, appDep.cache)
	services := service.NewService(appDep.cfg, appDep.log, repo, appDep.cache, appDep.notifier)

	signals, err := services.ScannerService.Scan(ctx)
	if err != nil {
		log.Fatalf("Scan failed: %v", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(signals); err != nil {
		log.Fatalf("Failed to encode signals: %v", err)
	}
}
