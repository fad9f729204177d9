// Package solve drives github.com/gitrdm/gokanlogic's minikanren.Solver over
// a model produced by internal/builder, translating SPEC_FULL.md's solver
// knobs (time budget, worker count, seed) into the engine's own options the
// way the teacher's service layer translates request DTOs into repository
// calls.
package solve

import (
	"context"
	"errors"
	"time"

	"github.com/gitrdm/gokanlogic/pkg/minikanren"

	"github.com/noah-isme/classroom-scheduler-core/internal/builder"
	apperrors "github.com/noah-isme/classroom-scheduler-core/pkg/errors"
)

// Status mirrors spec.md §4.3's solve outcomes.
type Status string

const (
	StatusOptimal    Status = "optimal"
	StatusFeasible   Status = "feasible"
	StatusInfeasible Status = "infeasible"
	StatusUnknown    Status = "unknown"
)

// Options configures one solve attempt. A zero TimeBudget sets no time
// limit and a WorkerCount of 1 or less runs a single worker. Seed is passed
// unchanged (zero included) to the objective path's dom/deg heuristics; the
// feasibility path ignores it and uses the engine's DefaultSolverConfig.
type Options struct {
	TimeBudget  time.Duration
	WorkerCount int
	Seed        int64
}

// Result is what internal/extract and pkg/scheduler consume.
type Result struct {
	Status Status
	// Assignment maps each Placement's FDVariable.ID() to its solved value.
	// Empty when Status is StatusInfeasible or StatusUnknown.
	Assignment []int
	// MaxDailyLoad is the true (unshifted) optimal objective value, valid
	// only when Status is StatusOptimal and the model carried an objective.
	MaxDailyLoad int
	HasObjective bool
}

// Run solves built with the given options. It never returns (nil, nil): a
// structurally infeasible or cancelled search comes back as a Result with
// the appropriate Status, not as an error — only engine-internal failures
// (a malformed model) are reported as errors.
func Run(ctx context.Context, built *builder.Built, opts Options) (*Result, error) {
	solver := minikanren.NewSolver(built.Model)

	if built.ObjectiveVar != nil {
		return runOptimal(ctx, solver, built, opts)
	}
	return runFeasibility(ctx, solver, built, opts)
}

func runOptimal(ctx context.Context, solver *minikanren.Solver, built *builder.Built, opts Options) (*Result, error) {
	solveOpts := optimizeOptions(opts)

	solution, objective, err := solver.SolveOptimalWithOptions(ctx, built.ObjectiveVar, true, solveOpts...)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return nil, apperrors.Wrap(err, apperrors.ErrSolverInternal.Code, apperrors.ErrSolverInternal.Status, "optimal search failed")
	}

	if solution == nil {
		if err != nil {
			// Cancelled or timed out with no incumbent yet: budget was too
			// tight to even find a feasible schedule.
			return &Result{Status: StatusUnknown}, nil
		}
		return &Result{Status: StatusInfeasible}, nil
	}

	// objective is the BoolSum "count+1" encoding's shifted value; the true
	// max daily load is one less.
	status := StatusOptimal
	if err != nil {
		status = StatusFeasible
	}
	return &Result{
		Status:       status,
		Assignment:   solution,
		MaxDailyLoad: objective - 1,
		HasObjective: true,
	}, nil
}

// runFeasibility takes the no-objective path: plain Solve has no
// WithHeuristics-style option to carry opts.Seed, so it always searches
// with the engine's default ordering/seed. Determinism (spec.md §8's S6)
// still holds because that default is fixed, but opts.Seed is a no-op here
// — it only affects tie-breaking in the minimax-objective path below.
func runFeasibility(ctx context.Context, solver *minikanren.Solver, built *builder.Built, opts Options) (*Result, error) {
	if opts.TimeBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.TimeBudget)
		defer cancel()
	}

	solutions, err := solver.Solve(ctx, 1)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return &Result{Status: StatusUnknown}, nil
		}
		return nil, apperrors.Wrap(err, apperrors.ErrSolverInternal.Code, apperrors.ErrSolverInternal.Status, "feasibility search failed")
	}
	if len(solutions) == 0 {
		return &Result{Status: StatusInfeasible}, nil
	}
	return &Result{Status: StatusFeasible, Assignment: solutions[0]}, nil
}

func optimizeOptions(opts Options) []minikanren.OptimizeOption {
	var out []minikanren.OptimizeOption
	if opts.TimeBudget > 0 {
		out = append(out, minikanren.WithTimeLimit(opts.TimeBudget))
	}
	if opts.WorkerCount > 1 {
		out = append(out, minikanren.WithParallelWorkers(opts.WorkerCount))
	}
	out = append(out, minikanren.WithHeuristics(minikanren.HeuristicDomDeg, minikanren.ValueOrderAsc, opts.Seed))
	return out
}
