// Package scheduler is the classroom timetable solver's public entry
// point: spec.md §6's solve(SolveRequest) -> SolveResponse contract. It
// wires internal/domain, internal/builder, internal/solve,
// internal/extract, internal/metrics, internal/diagnose, and
// internal/advisor into one pipeline, the way the teacher's
// ScheduleGeneratorService wires its repositories and validator into one
// GenerateSchedule call.
package scheduler

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-scheduler-core/internal/advisor"
	"github.com/noah-isme/classroom-scheduler-core/internal/builder"
	"github.com/noah-isme/classroom-scheduler-core/internal/diagnose"
	"github.com/noah-isme/classroom-scheduler-core/internal/domain"
	"github.com/noah-isme/classroom-scheduler-core/internal/extract"
	"github.com/noah-isme/classroom-scheduler-core/internal/metrics"
	"github.com/noah-isme/classroom-scheduler-core/internal/obsmetrics"
	"github.com/noah-isme/classroom-scheduler-core/internal/solve"
	apperrors "github.com/noah-isme/classroom-scheduler-core/pkg/errors"
)

// Status mirrors spec.md §6's SolveResponse.Status enumeration.
type Status string

const (
	StatusSuccess     Status = "Success"
	StatusInfeasible  Status = "Infeasible"
	StatusTimeout     Status = "Timeout"
	StatusDataError   Status = "DataError"
	StatusInternalErr Status = "InternalError"
)

// ConstraintConfig is spec.md §6's ConstraintConfig.
type ConstraintConfig struct {
	RequireConsecutiveLabs     bool `json:"require_consecutive_labs"`
	MinimizeMaxLoad            bool `json:"minimize_max_load"`
	AllowClassroomKindMismatch bool `json:"allow_classroom_kind_mismatch"`
	// FacultyDailyCapOverride, when non-nil, replaces every faculty's own
	// MaxDailyHours in the Problem loaded for this solve; the Repository
	// itself is not written to.
	FacultyDailyCapOverride *int `json:"faculty_daily_cap_override,omitempty"`
}

// SolveRequest is spec.md §6's SolveRequest.
type SolveRequest struct {
	BatchIDs         []int            `json:"batch_ids" validate:"required,min=1,dive,min=0"`
	Constraints      ConstraintConfig `json:"constraints"`
	UseAISuggestions bool             `json:"use_ai_suggestions"`
	TimeBudgetMs     int              `json:"time_budget_ms" validate:"required,min=1"`
	Seed             int64            `json:"seed"`
}

// SolveResponse is spec.md §6's SolveResponse.
type SolveResponse struct {
	RunID       string               `json:"run_id"`
	Status      Status               `json:"status"`
	Assignments []domain.Assignment  `json:"assignments"`
	Metrics     metrics.Report       `json:"metrics"`
	Conflicts   []diagnose.Conflict  `json:"conflicts"`
	Suggestions []advisor.Suggestion `json:"suggestions"`
}

// Scheduler solves timetabling problems against a Repository. A Scheduler
// holds no solver state between calls — spec.md §9's "global solver state"
// design note is resolved by constructing a fresh internal/builder model
// and minikanren.Solver (inside internal/solve.Run) for every Solve, so concurrent callers with
// independent Repository instances never race (§5).
type Scheduler struct {
	repo        domain.Repository
	advisor     advisor.Advisor
	validator   *validator.Validate
	logger      *zap.Logger
	workerCount int
}

// Option configures a Scheduler at construction time.
type Option func(*Scheduler)

// WithAdvisor overrides the default NoopAdvisor with a caller-supplied one
// (e.g. internal/advisor.HeuristicAdvisor, or an external AI-backed one).
func WithAdvisor(a advisor.Advisor) Option {
	return func(s *Scheduler) { s.advisor = a }
}

// WithLogger overrides the default no-op zap.Logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWorkerCount sets the parallel solver-worker count (spec.md §6's
// worker_count config key, §4.2's "SHOULD expose parallel-worker count").
// Values below 1 are treated as 1 (no parallel portfolio).
func WithWorkerCount(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.workerCount = n
		}
	}
}

// New builds a Scheduler over repo. repo must not be shared across
// concurrent Solve calls (spec.md §5).
func New(repo domain.Repository, opts ...Option) *Scheduler {
	s := &Scheduler{
		repo:        repo,
		advisor:     advisor.NoopAdvisor{},
		validator:   validator.New(),
		logger:      zap.NewNop(),
		workerCount: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve runs one end-to-end solve: load -> build -> search -> extract ->
// metrics/diagnostics -> (optional) advisory suggestions -> persist.
//
// Per spec.md §7's propagation policy, DataError and InternalError come
// back as a non-nil error (an *apperrors.Error; check its Code) and an
// empty SolveResponse; Infeasible, Timeout, and Success are always
// returned as a populated SolveResponse with a nil error.
func (s *Scheduler) Solve(ctx context.Context, req SolveRequest) (SolveResponse, error) {
	runID := uuid.NewString()
	start := time.Now()

	if err := s.validator.Struct(req); err != nil {
		return SolveResponse{}, apperrors.Wrap(err, apperrors.ErrDataError.Code, apperrors.ErrDataError.Status, "invalid solve request")
	}

	s.logger.Info("solve started", zap.String("runId", runID), zap.Int("batchCount", len(req.BatchIDs)))

	resp := SolveResponse{RunID: runID}

	problem, err := domain.BuildProblem(ctx, s.repo, req.BatchIDs)
	if err != nil {
		s.logger.Warn("solve data error", zap.String("runId", runID), zap.Error(err))
		s.recordOutcome(StatusDataError, start)
		return SolveResponse{}, err
	}

	applyFacultyCapOverride(problem, req.Constraints.FacultyDailyCapOverride)

	built, err := builder.Build(problem, builder.Config{
		MinimizeMaxLoad:            req.Constraints.MinimizeMaxLoad,
		RequireConsecutiveLabs:     req.Constraints.RequireConsecutiveLabs,
		AllowClassroomKindMismatch: req.Constraints.AllowClassroomKindMismatch,
	})
	if err != nil {
		if apperrors.FromError(err).Code == apperrors.ErrInfeasible.Code {
			resp.Status = StatusInfeasible
			resp.Conflicts = diagnose.Run(problem)
			s.recordOutcome(StatusInfeasible, start)
			return resp, nil
		}
		s.recordOutcome(StatusDataError, start)
		return SolveResponse{}, err
	}

	obsmetrics.SolveVariables.WithLabelValues().Observe(float64(len(built.Placements)))

	result, err := solve.Run(ctx, built, solve.Options{
		TimeBudget:  time.Duration(req.TimeBudgetMs) * time.Millisecond,
		WorkerCount: s.workerCount,
		Seed:        req.Seed,
	})
	if err != nil {
		s.recordOutcome(StatusInternalErr, start)
		return SolveResponse{}, apperrors.Wrap(err, apperrors.ErrSolverInternal.Code, apperrors.ErrSolverInternal.Status, "solve failed")
	}

	switch result.Status {
	case solve.StatusOptimal, solve.StatusFeasible:
		resp.Status = StatusSuccess
		resp.Assignments = extract.Assignments(built.Placements, result.Assignment)
		resp.Metrics = metrics.Compute(problem, resp.Assignments)

		if req.UseAISuggestions {
			suggestions, sErr := s.advisor.Suggest(ctx, resp.Metrics, nil)
			if sErr == nil {
				resp.Suggestions = suggestions
			}
		}

		if err := s.repo.SaveAssignments(ctx, runID, resp.Assignments); err != nil {
			s.recordOutcome(StatusInternalErr, start)
			return SolveResponse{}, apperrors.Wrap(err, apperrors.ErrSolverInternal.Code, apperrors.ErrSolverInternal.Status, "persisting solution")
		}
		s.recordOutcome(StatusSuccess, start)
		s.logger.Info("solve succeeded", zap.String("runId", runID), zap.Int("assignments", len(resp.Assignments)))

	case solve.StatusInfeasible:
		resp.Status = StatusInfeasible
		resp.Conflicts = diagnose.Run(problem)
		if req.UseAISuggestions {
			if suggestions, sErr := s.advisor.Suggest(ctx, metrics.Report{}, resp.Conflicts); sErr == nil {
				resp.Suggestions = suggestions
			}
		}
		s.recordOutcome(StatusInfeasible, start)

	default: // solve.StatusUnknown
		resp.Status = StatusTimeout
		resp.Conflicts = diagnose.Run(problem)
		s.recordOutcome(StatusTimeout, start)
	}

	return resp, nil
}

func applyFacultyCapOverride(problem *domain.Problem, override *int) {
	if override == nil {
		return
	}
	for i := range problem.Faculty {
		problem.Faculty[i].MaxDailyHours = *override
	}
}

func (s *Scheduler) recordOutcome(status Status, start time.Time) {
	obsmetrics.SolveOutcomes.WithLabelValues(string(status)).Inc()
	obsmetrics.SolveDuration.WithLabelValues(string(status)).Observe(time.Since(start).Seconds())
}
