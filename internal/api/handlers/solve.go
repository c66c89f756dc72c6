package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"

	"github.com/creasty/defaults"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"liquidation-planner/internal/analysis"
	"liquidation-planner/internal/api/models"
	"liquidation-planner/internal/cache"
	"liquidation-planner/internal/config"
	"liquidation-planner/internal/execution"
	"liquidation-planner/internal/metrics"
	"liquidation-planner/internal/model"
	"liquidation-planner/internal/solver"
	"liquidation-planner/internal/strategy"
)

// SolveHandler handles solve-related requests
type SolveHandler struct {
	cfg     *config.ServerConfig
	presets *PresetHandler
	results *cache.ResultCache
	metrics *metrics.Recorder
	log     zerolog.Logger
}

// NewSolveHandler creates a new solve handler
func NewSolveHandler(cfg *config.ServerConfig, presets *PresetHandler, results *cache.ResultCache, rec *metrics.Recorder, log zerolog.Logger) *SolveHandler {
	return &SolveHandler{
		cfg:     cfg,
		presets: presets,
		results: results,
		metrics: rec,
		log:     log,
	}
}

// Solve handles POST /api/v1/solve
func (h *SolveHandler) Solve(c *gin.Context) {
	var req models.SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error(), nil)
		return
	}

	entry, cached, err := h.run(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, h.buildResponse(entry, cached, req.Options))
}

// GetLedger handles GET /api/v1/solve/:id/ledger
func (h *SolveHandler) GetLedger(c *gin.Context) {
	id := c.Param("id")
	entry, ok := h.results.Get(id)
	h.metrics.RecordCacheLookup(ok)
	if !ok {
		respondErr(c, fmt.Errorf("%w: %s", errSolveNotFound, id))
		return
	}

	exec := entry.Execution
	c.JSON(http.StatusOK, models.LedgerResponse{
		ID:                entry.ID,
		Strategy:          exec.Strategy,
		ResidualInventory: exec.ResidualInventory,
		TerminalCost:      exec.TerminalCost,
		TotalCost:         exec.TotalCost,
		Ledger:            convertLedger(exec.Ledger),
	})
}

// Compare handles POST /api/v1/solve/compare
func (h *SolveHandler) Compare(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error(), nil)
		return
	}

	seen := make(map[string]bool, len(req.Variations))
	for _, v := range req.Variations {
		if seen[v.Name] {
			respondError(c, http.StatusBadRequest, CodeInvalidRequest, fmt.Sprintf("duplicate variation name %q", v.Name), nil)
			return
		}
		seen[v.Name] = true
	}

	entries := make(map[string]*cache.Entry, len(req.Variations))
	summaries := make(map[string]analysis.ScheduleSummary, len(req.Variations))
	skipped := []models.SkippedVariation{}

	for _, variation := range req.Variations {
		entry, _, err := h.run(c.Request.Context(), mergeVariation(req.Base, variation))
		if err != nil {
			// A cancelled request aborts the whole comparison; bad variations are skipped.
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				respondErr(c, err)
				return
			}
			skipped = append(skipped, models.SkippedVariation{Name: variation.Name, Reason: err.Error()})
			continue
		}
		entries[variation.Name] = entry
		summaries[variation.Name] = analysis.Summarize(entry.Result)
	}

	ranked := analysis.RankByCost(summaries)
	comparison := make([]models.ComparisonResult, 0, len(ranked))
	for i, r := range ranked {
		entry := entries[r.Name]
		comparison = append(comparison, models.ComparisonResult{
			Rank:          i + 1,
			Name:          r.Name,
			Summary:       buildSummary(entry.Result, entry.Execution),
			Trajectory:    entry.Execution.Trajectory(),
			TradeSchedule: tradesOf(entry.Execution),
			Overflowed:    r.Overflowed,
		})
	}

	c.JSON(http.StatusOK, models.CompareResponse{
		Comparison: comparison,
		Skipped:    skipped,
	})
}

// run solves req (or reuses an identical cached solve) and executes its strategy.
func (h *SolveHandler) run(ctx context.Context, req models.SolveRequest) (*cache.Entry, bool, error) {
	problem, err := h.buildProblem(req)
	if err != nil {
		h.metrics.RecordSolve("invalid", spaceLabel(req.Options.LogSpace), 0, 0, 0)
		return nil, false, err
	}

	name := req.Strategy.Name
	if name == "" {
		name = "optimal"
	}
	key := cache.ProblemKey(problem, fmt.Sprintf("%s%v", name, req.Strategy.Params),
		req.Options.LogSpace, req.Options.ReplayFromPeriodZero)
	if entry, ok := h.results.Lookup(key); ok {
		h.metrics.RecordCacheLookup(true)
		if req.Options.StrictOverflow {
			if err := entry.Result.OverflowErr(); err != nil {
				return nil, false, err
			}
		}
		return entry, true, nil
	}
	h.metrics.RecordCacheLookup(false)

	opts := strategy.OptimalParams{
		Workers:              h.workers(req.Options.Workers),
		LogSpace:             req.Options.LogSpace,
		StrictOverflow:       req.Options.StrictOverflow,
		ReplayFromPeriodZero: req.Options.ReplayFromPeriodZero,
		Logger:               &h.log,
	}
	res, err := solver.Solve(ctx, problem, opts.SolveOptions()...)
	h.recordSolve(res, err, req.Options.LogSpace)
	if err != nil {
		return nil, false, err
	}

	var strat strategy.Strategy
	if name == "optimal" {
		strat = strategy.FromResult(res)
	} else {
		strat, err = strategy.Build(ctx, name, req.Strategy.Params, problem, opts)
		if err != nil {
			return nil, false, err
		}
	}

	exec, err := execution.New().Run(problem, strat)
	if err != nil {
		return nil, false, fmt.Errorf("execute %s: %w", name, err)
	}

	entry := &cache.Entry{
		ID:        uuid.NewString(),
		Key:       key,
		Result:    res,
		Execution: exec,
	}
	h.results.Set(entry)

	h.log.Info().
		Str("id", entry.ID).
		Str("strategy", name).
		Int("periods", problem.Periods).
		Int("inventory", problem.Inventory).
		Ints("trajectory", exec.Trajectory()).
		Dur("elapsed", res.Diagnostics.Elapsed).
		Msg("solve completed")
	return entry, false, nil
}

// buildProblem resolves the preset, overlays explicit params, fills defaults and applies
// the server's size limits.
func (h *SolveHandler) buildProblem(req models.SolveRequest) (model.Problem, error) {
	params := toParamsConfig(req.Params)
	if req.Preset != "" {
		base, err := h.presets.Load(req.Preset)
		if err != nil {
			return model.Problem{}, err
		}
		params = config.MergeParams(base, params)
	}
	if err := defaults.Set(&params); err != nil {
		return model.Problem{}, fmt.Errorf("apply defaults: %w", err)
	}

	problem, err := model.NewProblem(req.Periods, req.Inventory, params.ToModelParams())
	if err != nil {
		return model.Problem{}, err
	}
	if h.cfg.MaxPeriods > 0 && problem.Periods > h.cfg.MaxPeriods {
		return model.Problem{}, &model.ParamError{Field: "periods", Reason: fmt.Sprintf("must be <= %d", h.cfg.MaxPeriods)}
	}
	if h.cfg.MaxInventory > 0 && problem.Inventory > h.cfg.MaxInventory {
		return model.Problem{}, &model.ParamError{Field: "inventory", Reason: fmt.Sprintf("must be <= %d", h.cfg.MaxInventory)}
	}
	return *problem, nil
}

// workers resolves the goroutine count for one solve. Requests may lower the server
// limit (SolveWorkers, or GOMAXPROCS when unset) but never raise it.
func (h *SolveHandler) workers(requested int) int {
	limit := h.cfg.SolveWorkers
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	if requested > 0 && requested < limit {
		return requested
	}
	return limit
}

func (h *SolveHandler) recordSolve(res *solver.Result, err error, logSpace bool) {
	space := spaceLabel(logSpace)
	status := "ok"
	switch {
	case errors.Is(err, model.ErrNumericOverflow):
		status = "overflow"
	case errors.Is(err, model.ErrInvalidParameter):
		status = "invalid"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = "cancelled"
	case err != nil:
		status = "error"
	case res.Diagnostics.Overflowed():
		status = "overflow"
	}
	if res == nil {
		h.metrics.RecordSolve(status, space, 0, 0, 0)
		return
	}
	d := res.Diagnostics
	h.metrics.RecordSolve(status, space, d.Elapsed.Seconds(), d.Cells, d.OverflowCells)
}

func (h *SolveHandler) buildResponse(entry *cache.Entry, cached bool, opts models.SolveOptions) models.SolveResponse {
	res, exec := entry.Result, entry.Execution
	d := res.Diagnostics

	response := models.SolveResponse{
		ID:            entry.ID,
		Status:        "completed",
		Strategy:      exec.Strategy,
		Cached:        cached,
		Summary:       buildSummary(res, exec),
		Trajectory:    exec.Trajectory(),
		TradeSchedule: tradesOf(exec),
		Diagnostics: models.DiagnosticsInfo{
			Cells:               d.Cells,
			OverflowCells:       d.OverflowCells,
			FirstOverflowPeriod: d.FirstOverflowPeriod,
			Workers:             d.Workers,
			ElapsedMs:           float64(d.Elapsed.Microseconds()) / 1000,
			LogSpace:            res.LogSpace,
		},
	}
	if err := res.OverflowErr(); err != nil {
		response.Diagnostics.Warnings = append(response.Diagnostics.Warnings,
			err.Error()+"; set options.log_space for finite costs")
	}

	if opts.IncludeTables {
		response.ValueTable = toNumbers(res.Value.Rows())
		response.PolicyTable = res.Policy.Rows()
	}
	if opts.IncludeLedger {
		response.Ledger = convertLedger(exec.Ledger)
	}
	return response
}

// buildSummary describes the executed schedule; only OptimalLogCost comes from the solve.
func buildSummary(res *solver.Result, exec *execution.Result) models.SolveSummary {
	p := res.Problem
	s := analysis.SummarizeSchedule(p.Periods, p.Inventory, exec.Trajectory(), tradesOf(exec))
	return models.SolveSummary{
		Periods:            s.Periods,
		Inventory:          s.Inventory,
		OptimalLogCost:     models.Number(res.LogCost()),
		PeriodsToLiquidate: s.PeriodsToLiquidate,
		FrontLoad:          s.FrontLoad,
		MaxTrade:           s.MaxTrade,
		Residual:           s.Residual,
		RunningCost:        exec.RunningCost,
		TerminalCost:       exec.TerminalCost,
		ExecutionCost:      exec.TotalCost,
	}
}

func convertLedger(ledger []execution.LedgerRow) []models.LedgerRow {
	out := make([]models.LedgerRow, 0, len(ledger))
	for _, r := range ledger {
		out = append(out, models.LedgerRow{
			Index:           r.Index,
			Period:          r.Period,
			Action:          string(r.Action),
			InventoryStart:  r.InventoryStart,
			RequestedShares: r.RequestedShares,
			Shares:          r.Shares,
			InventoryEnd:    r.InventoryEnd,
			Rate:            r.Rate,
			PermanentCost:   r.PermanentCost,
			TemporaryCost:   r.TemporaryCost,
			RiskCost:        r.RiskCost,
			Hamiltonian:     r.Hamiltonian,
			CumCost:         r.CumCost,
		})
	}
	return out
}

func tradesOf(exec *execution.Result) []int {
	out := make([]int, 0, len(exec.Ledger))
	for _, r := range exec.Ledger {
		out = append(out, r.Shares)
	}
	return out
}

func toNumbers(rows [][]float64) [][]models.Number {
	out := make([][]models.Number, len(rows))
	for i, row := range rows {
		out[i] = make([]models.Number, len(row))
		for j, v := range row {
			out[i][j] = models.Number(v)
		}
	}
	return out
}

// mergeVariation overlays the fields set in v onto base.
func mergeVariation(base models.SolveRequest, v models.Variation) models.SolveRequest {
	merged := base
	if v.Periods != nil {
		merged.Periods = *v.Periods
	}
	if v.Inventory != nil {
		merged.Inventory = *v.Inventory
	}
	merged.Params = fromParamsConfig(config.MergeParams(toParamsConfig(base.Params), toParamsConfig(v.Params)))
	return merged
}

func spaceLabel(logSpace bool) string {
	if logSpace {
		return "log"
	}
	return "exp"
}
