package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"stock-strategy/internal/dto"
	"stock-strategy/internal/repository"
	"stock-strategy/internal/service"

	"github.com/spf13/cobra"
)

var (
	backtestSymbols string
	backtestCapital float64
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a one-shot backtest and print the result as JSON",
	Run:   runBacktestCmd,
}

func init() {
	backtestCmd.Flags().StringVar(&backtestSymbols, "symbols", "", "comma-separated symbols, e.g. AAPL,MSFT")
	backtestCmd.Flags().Float64Var(&backtestCapital, "capital", 0, "initial capital (defaults to config)")
}

func runBacktestCmd(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}
	defer appDep.Close()

	symbols := splitSymbols(backtestSymbols)
	if len(symbols) == 0 {
		log.Fatal("no symbols given, use --symbols AAPL,MSFT")
	}

	repo := repository.NewRepository(appDep.cfg, appDep.db.DB, appDep.log, appDep.cache)
	services := service.NewService(appDep.cfg, appDep.log, repo, appDep.cache, appDep.notifier)

	result, runID, err := services.BacktestService.RunBacktest(ctx, dto.BacktestRequest{
		Symbols:        symbols,
		InitialCapital: backtestCapital,
	})
	if err != nil {
		log.Fatalf("Backtest failed: %v", err)
	}

	fmt.Printf("Run #%d\n", runID)
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
}

func splitSymbols(raw string) []string {
	var symbols []string
	for _, part := range strings.Split(raw, ",") {
		symbol := strings.ToUpper(strings.TrimSpace(part))
		if symbol != "" {
			symbols = append(symbols, symbol)
		}
	}
	return symbols
}
