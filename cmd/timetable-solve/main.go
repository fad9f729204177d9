// Command timetable-solve runs one constraint-solver pass over either a
// built-in demo dataset or a Postgres-backed problem, the way the teacher's
// cmd/api-gateway wires config, logger, and storage together — minus the
// HTTP server this repo has no use for.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/classroom-scheduler-core/internal/advisor"
	"github.com/noah-isme/classroom-scheduler-core/internal/domain"
	"github.com/noah-isme/classroom-scheduler-core/internal/store/memory"
	"github.com/noah-isme/classroom-scheduler-core/internal/store/postgres"
	"github.com/noah-isme/classroom-scheduler-core/pkg/config"
	"github.com/noah-isme/classroom-scheduler-core/pkg/database"
	"github.com/noah-isme/classroom-scheduler-core/pkg/logger"
	"github.com/noah-isme/classroom-scheduler-core/pkg/scheduler"
)

func main() {
	store := flag.String("store", "memory", "backing store: memory (built-in demo dataset) or postgres")
	batchIDs := flag.String("batch-ids", "", "comma-separated batch IDs to solve for (postgres store only; memory store solves every demo batch)")
	useAI := flag.Bool("ai-suggestions", false, "ask the heuristic advisor for suggestions alongside the solution")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	repo, ids, err := buildRepository(*store, *batchIDs, cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare repository", "error", err)
	}

	sched := scheduler.New(repo,
		scheduler.WithLogger(logr),
		scheduler.WithAdvisor(advisorFor(*useAI)),
		scheduler.WithWorkerCount(cfg.Scheduler.WorkerCount),
	)

	resp, err := sched.Solve(context.Background(), scheduler.SolveRequest{
		BatchIDs:     ids,
		TimeBudgetMs: int(cfg.Scheduler.TimeBudget.Milliseconds()),
		Seed:         cfg.Scheduler.Seed,
		Constraints: scheduler.ConstraintConfig{
			MinimizeMaxLoad:        cfg.Scheduler.MinimizeMaxLoad,
			RequireConsecutiveLabs: cfg.Scheduler.RequireConsecutiveLabs,
		},
		UseAISuggestions: *useAI,
	})
	if err != nil {
		logr.Sugar().Fatalw("solve failed", "error", err)
	}

	logr.Sugar().Infow("solve finished", "runId", resp.RunID, "status", resp.Status, "assignments", len(resp.Assignments))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		logr.Sugar().Fatalw("failed to encode response", "error", err)
	}
}

func advisorFor(enabled bool) advisor.Advisor {
	if !enabled {
		return advisor.NoopAdvisor{}
	}
	return advisor.HeuristicAdvisor{}
}

// buildRepository wires either the in-memory demo dataset or a live Postgres
// connection, returning the repository and the batch IDs to solve for.
func buildRepository(store, batchIDsFlag string, cfg *config.Config, logr *zap.Logger) (domain.Repository, []int, error) {
	switch store {
	case "postgres":
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		ids, err := parseBatchIDs(batchIDsFlag)
		if err != nil {
			return nil, nil, err
		}
		if len(ids) == 0 {
			return nil, nil, fmt.Errorf("-batch-ids is required when -store=postgres")
		}
		return postgres.New(db), ids, nil
	case "memory", "":
		repo, ids := demoDataset()
		logr.Sugar().Infow("using built-in demo dataset", "batches", ids)
		return repo, ids, nil
	default:
		return nil, nil, fmt.Errorf("unknown -store %q (want memory or postgres)", store)
	}
}

func parseBatchIDs(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid batch id %q: %w", p, err)
		}
		out = append(out, id)
	}
	return out, nil
}

// demoDataset seeds a small but non-trivial timetabling problem: two
// batches, a lecture-plus-lab subject, and enough faculty/classroom supply
// to make it feasible but not slack, so the minimax objective and the
// consecutive-lab constraint both have something to do.
func demoDataset() (*memory.Repository, []int) {
	full := domain.FullAvailability()

	classrooms := []domain.Classroom{
		{ID: 1, Name: "Lecture Hall A", Capacity: 60, HasLab: false, Availability: full},
		{ID: 2, Name: "Lab B", Capacity: 50, HasLab: true, Availability: full},
	}
	faculty := []domain.Faculty{
		{ID: 1, Name: "Dr. Rao", MaxDailyHours: 4, Availability: full},
		{ID: 2, Name: "Dr. Iyer", MaxDailyHours: 4, Availability: full},
	}
	subjects := map[int]domain.Subject{
		1: {ID: 1, Name: "Data Structures", WeeklyHours: 4, LabHours: 0,
			QualifiedFacultyIDs: []int{1, 2}, EligibleClassroomIDs: []int{1}},
		2: {ID: 2, Name: "Data Structures Lab", WeeklyHours: 2, LabHours: 2,
			QualifiedFacultyIDs: []int{1, 2}, EligibleClassroomIDs: []int{2}},
	}
	subjectList := make([]domain.Subject, 0, len(subjects))
	for _, s := range subjects {
		subjectList = append(subjectList, s)
	}
	batches := []domain.Batch{
		{ID: 1, Name: "CSE-A", StudentCount: 45, SubjectIDs: []int{1, 2}},
		{ID: 2, Name: "CSE-B", StudentCount: 40, SubjectIDs: []int{1, 2}},
	}

	repo := memory.New(classrooms, faculty, subjectList, batches)
	return repo, []int{1, 2}
}
