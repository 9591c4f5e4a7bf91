package timeline

import (
	"math"
	"reflect"
	"testing"

	"github.com/me/schedsim/internal/engine"
	"github.com/me/schedsim/pkg/model"
)

func TestSegments(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []model.Segment
	}{
		{"empty", nil, nil},
		{
			name: "single run",
			in:   []string{"P1", "P1", "P1"},
			want: []model.Segment{{Index: 0, ProcessID: "P1", Start: 0, End: 3}},
		},
		{
			name: "idle and alternation",
			in:   []string{"", "", "P1", "P2", "P2", "P1", ""},
			want: []model.Segment{
				{Index: 0, ProcessID: "", Idle: true, Start: 0, End: 2},
				{Index: 1, ProcessID: "P1", Start: 2, End: 3},
				{Index: 2, ProcessID: "P2", Start: 3, End: 5},
				{Index: 3, ProcessID: "P1", Start: 5, End: 6},
				{Index: 4, ProcessID: "", Idle: true, Start: 6, End: 7},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Segments(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Segments(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
			total := 0
			for _, s := range got {
				total += s.Length()
			}
			if total != len(tt.in) {
				t.Errorf("segments cover %d ticks, want %d", total, len(tt.in))
			}
		})
	}
}

func TestFinal(t *testing.T) {
	p := model.Process{
		ProcessDef: model.ProcessDef{ID: "P2", Arrival: 1, Burst: 3},
		StartTime:  5,
		FinishTime: 8,
		Completed:  true,
	}
	st := Final(p)
	if st.Turnaround != 7 || st.Waiting != 4 || st.Response != 4 {
		t.Errorf("Final = %+v, want turnaround 7, waiting 4, response 4", st)
	}
	if st.Provisional {
		t.Error("Final marked provisional")
	}

	p = model.Process{ProcessDef: model.ProcessDef{ID: "P3", Arrival: 0, Burst: 2}, StartTime: model.Unset, FinishTime: model.Unset, Remaining: 2}
	st = Final(p)
	if st.Turnaround != model.Unset || st.Waiting != model.Unset || st.Response != model.Unset {
		t.Errorf("Final(unstarted) = %+v, want unset values", st)
	}
}

func TestProvisional(t *testing.T) {
	tests := []struct {
		name       string
		p          model.Process
		now        int
		waiting    int
		turnaround int
		prov       bool
	}{
		{
			name:       "not started",
			p:          model.Process{ProcessDef: model.ProcessDef{Arrival: 2, Burst: 4}, Remaining: 4, StartTime: -1, FinishTime: -1},
			now:        6,
			waiting:    model.Unset,
			turnaround: model.Unset,
		},
		{
			name:       "running",
			p:          model.Process{ProcessDef: model.ProcessDef{Arrival: 1, Burst: 5}, Remaining: 3, StartTime: 4, FinishTime: -1},
			now:        6,
			waiting:    3, // (6-1) - 2 executed
			turnaround: 5,
			prov:       true,
		},
		{
			name:       "started at arrival",
			p:          model.Process{ProcessDef: model.ProcessDef{Arrival: 0, Burst: 5}, Remaining: 4, StartTime: 0, FinishTime: -1},
			now:        1,
			waiting:    0,
			turnaround: 1,
			prov:       true,
		},
		{
			name:       "finished",
			p:          model.Process{ProcessDef: model.ProcessDef{Arrival: 0, Burst: 5}, Remaining: 0, StartTime: 0, FinishTime: 5, Completed: true},
			now:        20,
			waiting:    0,
			turnaround: 5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := Provisional(tt.p, tt.now)
			if st.Waiting != tt.waiting || st.Turnaround != tt.turnaround || st.Provisional != tt.prov {
				t.Errorf("Provisional = waiting %d turnaround %d provisional %v, want %d %d %v",
					st.Waiting, st.Turnaround, st.Provisional, tt.waiting, tt.turnaround, tt.prov)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	defs := []model.ProcessDef{
		{ID: "P1", Order: 1, Arrival: 0, Burst: 5},
		{ID: "P2", Order: 2, Arrival: 1, Burst: 3},
	}
	res := engine.Preview(engine.FCFS{}, defs)
	sum, ok := Summarize(res.Processes, res.Timeline)
	if !ok {
		t.Fatal("Summarize returned false for finished schedule")
	}
	// P1: turnaround 5, waiting 0. P2: finish 8, turnaround 7, waiting 4.
	if sum.AverageTurnaround != 6 || sum.AverageWaiting != 2 {
		t.Errorf("averages = %v/%v, want 6/2", sum.AverageTurnaround, sum.AverageWaiting)
	}
	if sum.Makespan != 8 || sum.IdleTicks != 0 || sum.Utilization != 1 {
		t.Errorf("summary = %+v", sum)
	}
	if math.Abs(sum.Throughput-0.25) > 1e-9 {
		t.Errorf("throughput = %v, want 0.25", sum.Throughput)
	}
}

func TestSummarize_IdleTicks(t *testing.T) {
	defs := []model.ProcessDef{
		{ID: "P1", Order: 1, Arrival: 2, Burst: 2},
	}
	res := engine.Preview(engine.SJF{}, defs)
	sum, ok := Summarize(res.Processes, res.Timeline)
	if !ok {
		t.Fatal("Summarize returned false")
	}
	if sum.IdleTicks != 2 || sum.Makespan != 4 || sum.Utilization != 0.5 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestSummarize_Unfinished(t *testing.T) {
	if _, ok := Summarize(nil, nil); ok {
		t.Error("Summarize(nil) = true")
	}
	procs := []model.Process{{ProcessDef: model.ProcessDef{ID: "P1", Burst: 2}, Remaining: 1}}
	if _, ok := Summarize(procs, []string{"P1"}); ok {
		t.Error("Summarize(unfinished) = true")
	}
}

// TestCompletedStatsInvariants checks turnaround/waiting identities on every
// algorithm over the sample workload.
func TestCompletedStatsInvariants(t *testing.T) {
	defs := []model.ProcessDef{
		{ID: "P1", Order: 1, Arrival: 0, Burst: 5},
		{ID: "P2", Order: 2, Arrival: 1, Burst: 3},
		{ID: "P3", Order: 3, Arrival: 2, Burst: 8},
		{ID: "P4", Order: 4, Arrival: 3, Burst: 2},
		{ID: "P5", Order: 5, Arrival: 5, Burst: 4},
		{ID: "P6", Order: 6, Arrival: 6, Burst: 6},
	}
	for _, alg := range model.Algorithms {
		pol, err := engine.NewPolicy(alg, 2)
		if err != nil {
			t.Fatal(err)
		}
		res := engine.Preview(pol, defs)
		for _, p := range res.Processes {
			st := Final(p)
			if st.Turnaround != p.FinishTime-p.Arrival {
				t.Errorf("%s %s: turnaround %d != finish-arrival", alg, p.ID, st.Turnaround)
			}
			if st.Waiting != st.Turnaround-p.Burst {
				t.Errorf("%s %s: waiting %d != turnaround-burst", alg, p.ID, st.Waiting)
			}
			if st.Waiting < 0 {
				t.Errorf("%s %s: negative waiting %d", alg, p.ID, st.Waiting)
			}
		}
	}
}
