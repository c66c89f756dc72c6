package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"liquidation-planner/internal/analysis"
	"liquidation-planner/internal/config"
	"liquidation-planner/internal/execution"
	"liquidation-planner/internal/logger"
	"liquidation-planner/internal/solver"
	"liquidation-planner/internal/strategy"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch os.Args[1] {
	case "solve":
		cmdSolve(ctx, os.Args[2:])
	case "compare":
		cmdCompare(ctx, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli solve --config examples/config.yaml --out results/ledger.csv [--tables results] [--workers 4]")
	fmt.Println("  cli compare --config examples/config.yaml,examples/config_twap.yaml")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - solve outputs CSV with action=SELL/HOLD/LIQUIDATE per transition")
	fmt.Println("  - compare ranks configs by expected log-cost of the optimal schedule")
}

func cmdSolve(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("solve", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	outPath := fs.String("out", "results/ledger.csv", "Output ledger CSV path")
	tablesDir := fs.String("tables", "", "Optional: directory for value.csv and policy.csv")
	workers := fs.Int("workers", 0, "Optional: override solver.workers (0=use config)")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *workers > 0 {
		cfg.Solver.Workers = *workers
	}
	log := mustLogger(cfg.Log.Level, cfg.Log.Format)

	problem := cfg.ToProblem()
	opts := optimalParams(cfg, &log)
	res, err := solver.Solve(ctx, problem, opts.SolveOptions()...)
	if err != nil {
		log.Fatal().Err(err).Msg("solve failed")
	}

	strat, err := buildStrategy(ctx, cfg, res)
	if err != nil {
		log.Fatal().Err(err).Msg("build strategy")
	}
	exec, err := execution.New().Run(problem, strat)
	if err != nil {
		log.Fatal().Err(err).Msg("execute strategy")
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		log.Fatal().Err(err).Msg("create output directory")
	}
	if err := execution.WriteLedgerCSV(*outPath, exec.Ledger); err != nil {
		log.Fatal().Err(err).Msg("write ledger")
	}
	if *tablesDir != "" {
		if err := writeTables(*tablesDir, res); err != nil {
			log.Fatal().Err(err).Msg("write tables")
		}
	}

	s := analysis.Summarize(res)
	fmt.Printf("Wrote %d rows to %s\n", len(exec.Ledger), *outPath)
	fmt.Printf("Strategy=%s Trajectory=%v\n", exec.Strategy, exec.Trajectory())
	fmt.Printf("Execution cost=%.6f (running %.6f + terminal %.6f) Optimal log-cost=%s\n",
		exec.TotalCost, exec.RunningCost, exec.TerminalCost, fmtCost(s.LogCost))
	if err := res.OverflowErr(); err != nil {
		fmt.Printf("Warning: %v; set solver.log_space for finite costs\n", err)
	}
}

func cmdCompare(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	cfgPaths := fs.String("config", "", "Comma-separated YAML config paths")
	_ = fs.Parse(args)

	paths := splitPaths(*cfgPaths)
	if len(paths) == 0 {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	log := mustLogger("warn", "console")
	summaries := map[string]analysis.ScheduleSummary{}
	for _, p := range paths {
		cfg, err := config.Load(p)
		if err != nil {
			log.Fatal().Err(err).Str("config", p).Msg("load config")
		}
		opts := optimalParams(cfg, &log)
		opts.StrictOverflow = false
		res, err := solver.Solve(ctx, cfg.ToProblem(), opts.SolveOptions()...)
		if err != nil {
			log.Fatal().Err(err).Str("config", p).Msg("solve failed")
		}
		summaries[p] = analysis.Summarize(res)
	}

	ranked := analysis.RankByCost(summaries)
	fmt.Printf("%-4s %-36s %-8s %-10s %-12s %-10s %-9s %-8s\n", "rank", "config", "periods", "inventory", "log-cost", "liquidated", "frontload", "residual")
	for i, r := range ranked {
		fmt.Printf(
			"%-4d %-36s %-8d %-10d %-12s %-10d %-9.3f %-8d\n",
			i+1,
			r.Name,
			r.Periods,
			r.Inventory,
			fmtCost(r.LogCost),
			r.PeriodsToLiquidate,
			r.FrontLoad,
			r.Residual,
		)
	}
}

func mustLogger(level, format string) zerolog.Logger {
	log, err := logger.New(logger.Config{Level: level, Format: format})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return log
}

func optimalParams(cfg *config.Config, log *zerolog.Logger) strategy.OptimalParams {
	return strategy.OptimalParams{
		Workers:              cfg.Solver.Workers,
		LogSpace:             cfg.Solver.LogSpace,
		StrictOverflow:       cfg.Solver.StrictOverflow,
		ReplayFromPeriodZero: cfg.Solver.ReplayFromPeriodZero,
		Logger:               log,
	}
}

// buildStrategy reuses res for "optimal" so the problem is solved only once.
func buildStrategy(ctx context.Context, cfg *config.Config, res *solver.Result) (strategy.Strategy, error) {
	if cfg.Strategy.Name == "optimal" {
		return strategy.FromResult(res), nil
	}
	return strategy.Build(ctx, cfg.Strategy.Name, cfg.Strategy.Params, res.Problem, strategy.OptimalParams{})
}

func writeTables(dir string, res *solver.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := execution.WriteTableCSV(filepath.Join(dir, "value.csv"), res.Value.Rows()); err != nil {
		return fmt.Errorf("value table: %w", err)
	}
	if err := execution.WriteTableCSV(filepath.Join(dir, "policy.csv"), res.Policy.Rows()); err != nil {
		return fmt.Errorf("policy table: %w", err)
	}
	return nil
}

func fmtCost(c float64) string {
	if math.IsInf(c, 1) {
		return "overflow"
	}
	return fmt.Sprintf("%.6f", c)
}

func splitPaths(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
