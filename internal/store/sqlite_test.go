package store

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/me/schedsim/pkg/model"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
	st, err := NewSQLiteStore(":memory:", logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func sampleRun(id string, alg model.Algorithm, createdAt time.Time) *model.Run {
	return &model.Run{
		ID:        id,
		Algorithm: alg,
		Quantum:   2,
		Definitions: []model.ProcessDef{
			{ID: "P1", Order: 1, Arrival: 0, Burst: 5},
			{ID: "P2", Order: 2, Arrival: 1, Burst: 3},
		},
		Timeline: []string{"P1", "P1", "P1", "P1", "P1", "P2", "P2", "P2"},
		Processes: []model.ProcessStats{
			{ID: "P1", Arrival: 0, Burst: 5, StartTime: 0, FinishTime: 5, Waiting: 0, Turnaround: 5, Response: 0},
			{ID: "P2", Arrival: 1, Burst: 3, StartTime: 5, FinishTime: 8, Waiting: 4, Turnaround: 7, Response: 4},
		},
		Summary: model.Summary{
			Processes:         2,
			Makespan:          8,
			AverageWaiting:    2,
			AverageTurnaround: 6,
			AverageResponse:   2,
			Utilization:       1,
			Throughput:        0.25,
		},
		CreatedAt: createdAt.UTC().Truncate(time.Millisecond),
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	st := testStore(t)
	if err := st.Migrate(context.Background()); err != nil {
		t.Errorf("second migrate: %v", err)
	}
}

func TestCreateAndGetRun(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	run := sampleRun("run_1", model.AlgorithmFCFS, time.Now())

	if err := st.CreateRun(ctx, run); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	got, err := st.GetRun(ctx, "run_1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got == nil {
		t.Fatal("GetRun returned nil")
	}
	if !got.CreatedAt.Equal(run.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, run.CreatedAt)
	}
	got.CreatedAt = run.CreatedAt
	if !reflect.DeepEqual(got, run) {
		t.Errorf("GetRun = %+v\nwant %+v", got, run)
	}

	if err := st.CreateRun(ctx, run); err == nil {
		t.Error("duplicate CreateRun succeeded")
	}
}

func TestGetRun_NotFound(t *testing.T) {
	st := testStore(t)
	got, err := st.GetRun(context.Background(), "run_missing")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got != nil {
		t.Errorf("GetRun = %+v, want nil", got)
	}
}

func TestListRuns(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	base := time.Now()
	for i := 0; i < 5; i++ {
		alg := model.AlgorithmFCFS
		if i%2 == 1 {
			alg = model.AlgorithmRoundRobin
		}
		run := sampleRun(fmt.Sprintf("run_%d", i), alg, base.Add(time.Duration(i)*time.Second))
		if err := st.CreateRun(ctx, run); err != nil {
			t.Fatalf("CreateRun: %v", err)
		}
	}

	runs, total, err := st.ListRuns(ctx, model.ListOptions{Limit: 2})
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if total != 5 || len(runs) != 2 {
		t.Fatalf("total=%d len=%d, want 5/2", total, len(runs))
	}
	if runs[0].ID != "run_4" || runs[1].ID != "run_3" {
		t.Errorf("order = %s, %s; want newest first", runs[0].ID, runs[1].ID)
	}

	runs, total, err = st.ListRuns(ctx, model.ListOptions{Limit: 10, Algorithm: model.AlgorithmRoundRobin})
	if err != nil {
		t.Fatalf("ListRuns(RR): %v", err)
	}
	if total != 2 || len(runs) != 2 {
		t.Errorf("RR total=%d len=%d, want 2/2", total, len(runs))
	}
	for _, r := range runs {
		if r.Algorithm != model.AlgorithmRoundRobin {
			t.Errorf("filtered run %s has algorithm %s", r.ID, r.Algorithm)
		}
	}

	runs, _, err = st.ListRuns(ctx, model.ListOptions{Limit: 10, Offset: 4})
	if err != nil {
		t.Fatalf("ListRuns(offset): %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "run_0" {
		t.Errorf("offset page = %v", runs)
	}
}

func TestDeleteRun(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	if err := st.CreateRun(ctx, sampleRun("run_1", model.AlgorithmSJF, time.Now())); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	if err := st.DeleteRun(ctx, "run_1"); err != nil {
		t.Fatalf("DeleteRun: %v", err)
	}
	if got, _ := st.GetRun(ctx, "run_1"); got != nil {
		t.Error("run still present after delete")
	}
	if err := st.DeleteRun(ctx, "run_1"); err == nil {
		t.Error("deleting a missing run succeeded")
	}
}
