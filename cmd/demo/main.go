package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"liquidation-planner/internal/config"
	"liquidation-planner/internal/execution"
	"liquidation-planner/internal/model"
	"liquidation-planner/internal/solver"
	"liquidation-planner/internal/strategy"
)

// Demo:
// - Solve the small reference problem (T=3, X=2)
// - Print the value and policy tables and the induced schedule
// - Replay the schedule through the execution engine to show the cost breakdown
func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (optional)")
	workers := flag.Int("workers", 1, "Goroutines per period")
	logSpace := flag.Bool("log-space", false, "Solve in additive log-cost space")
	outCSV := flag.String("out", "", "Optional path to write ledger CSV (e.g. results/ledger.csv)")
	flag.Parse()

	// Defaults (can be overridden via --config).
	problem := model.Problem{
		Periods:   3,
		Inventory: 2,
		Params: model.ImpactParams{
			Alpha: 1,
			Beta:  1,
			Gamma: 0.05,
			Eta:   0.1,
			Psi:   0.25,
			Sigma: model.DefaultSigma,
			Tau:   model.DefaultTau,
		},
	}
	if *cfgPath != "" {
		cfg, err := config.Load(*cfgPath)
		if err != nil {
			panic(err)
		}
		problem = cfg.ToProblem()
	}

	opts := []solver.Option{solver.WithWorkers(*workers)}
	if *logSpace {
		opts = append(opts, solver.WithLogSpace())
	}
	res, err := solver.Solve(context.Background(), problem, opts...)
	if err != nil {
		panic(err)
	}

	p := res.Problem.Params
	fmt.Printf("T=%d X=%d alpha=%g beta=%g gamma=%g eta=%g psi=%g sigma=%g tau=%g\n\n",
		problem.Periods, problem.Inventory, p.Alpha, p.Beta, p.Gamma, p.Eta, p.Psi, p.Sigma, p.Tau)

	fmt.Println("value[t][x]:")
	for t, row := range res.Value.Rows() {
		fmt.Printf("  t=%-3d", t)
		for _, v := range row {
			fmt.Printf(" %12.6g", v)
		}
		fmt.Println()
	}
	fmt.Println("policy[t][x]:")
	for t, row := range res.Policy.Rows() {
		fmt.Printf("  t=%-3d", t)
		for _, n := range row {
			fmt.Printf(" %4d", n)
		}
		fmt.Println()
	}

	fmt.Printf("\ntrajectory=%v trades=%v\n", res.Trajectory, res.TradeSchedule)
	if err := res.OverflowErr(); err != nil {
		fmt.Printf("warning: %v\n", err)
	}

	result, err := execution.New().Run(problem, strategy.FromResult(res))
	if err != nil {
		panic(err)
	}
	fmt.Println()
	for _, r := range result.Ledger {
		fmt.Printf(
			"period=%-3d action=%-9s  x=%4d→%-4d  n=%4d  perm=%9.5f  temp=%9.5f  risk=%9.5f  cum=%9.5f\n",
			r.Period,
			string(r.Action),
			r.InventoryStart,
			r.InventoryEnd,
			r.Shares,
			r.PermanentCost,
			r.TemporaryCost,
			r.RiskCost,
			r.CumCost,
		)
	}

	if *outCSV != "" {
		if err := execution.WriteLedgerCSV(*outCSV, result.Ledger); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("\nWrote CSV: %s\n", *outCSV)
	}

	fmt.Printf("\nDone. Residual=%d terminal=%.6f total=%.6f\n", result.ResidualInventory, result.TerminalCost, result.TotalCost)
}
