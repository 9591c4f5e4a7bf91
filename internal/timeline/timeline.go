// Package timeline derives Gantt segments and per-process statistics from the
// per-tick execution record produced by the engine.
package timeline

import "github.com/me/schedsim/pkg/model"

// Segments coalesces a timeline into maximal runs of identical entries.
func Segments(tl []string) []model.Segment {
	var segs []model.Segment
	for i := 0; i < len(tl); {
		start := i
		id := tl[i]
		for i < len(tl) && tl[i] == id {
			i++
		}
		segs = append(segs, model.Segment{
			Index:     len(segs),
			ProcessID: id,
			Idle:      id == model.Idle,
			Start:     start,
			End:       i,
		})
	}
	return segs
}

// Final returns the statistics of p that are fixed once it has finished.
// Waiting and turnaround stay Unset for unfinished processes.
func Final(p model.Process) model.ProcessStats {
	st := base(p)
	if p.FinishTime >= 0 {
		st.Turnaround = p.FinishTime - p.Arrival
		st.Waiting = st.Turnaround - p.Burst
	}
	return st
}

// Provisional returns statistics as observed at time now. Finished processes
// report their final values; started ones report running estimates.
func Provisional(p model.Process, now int) model.ProcessStats {
	if p.FinishTime >= 0 {
		return Final(p)
	}
	st := base(p)
	if p.StartTime >= 0 {
		st.Waiting = max(0, (now-p.Arrival)-p.Executed())
		st.Turnaround = max(0, now-p.Arrival)
		st.Provisional = true
	}
	return st
}

func base(p model.Process) model.ProcessStats {
	st := model.ProcessStats{
		ID:         p.ID,
		Arrival:    p.Arrival,
		Burst:      p.Burst,
		Remaining:  p.Remaining,
		StartTime:  p.StartTime,
		FinishTime: p.FinishTime,
		Waiting:    model.Unset,
		Turnaround: model.Unset,
		Response:   model.Unset,
	}
	if p.StartTime >= 0 {
		st.Response = p.StartTime - p.Arrival
	}
	return st
}

// Summarize aggregates a finished schedule. It returns false while any process
// is still unfinished, or when there are no processes.
func Summarize(procs []model.Process, tl []string) (model.Summary, bool) {
	if len(procs) == 0 {
		return model.Summary{}, false
	}
	var sum model.Summary
	var waiting, turnaround, response int
	for _, p := range procs {
		if !p.Completed {
			return model.Summary{}, false
		}
		st := Final(p)
		waiting += st.Waiting
		turnaround += st.Turnaround
		response += st.Response
		sum.Makespan = max(sum.Makespan, p.FinishTime)
	}
	for _, slot := range tl[:min(len(tl), sum.Makespan)] {
		if slot == model.Idle {
			sum.IdleTicks++
		}
	}

	n := float64(len(procs))
	sum.Processes = len(procs)
	sum.AverageWaiting = float64(waiting) / n
	sum.AverageTurnaround = float64(turnaround) / n
	sum.AverageResponse = float64(response) / n
	if sum.Makespan > 0 {
		sum.Utilization = float64(sum.Makespan-sum.IdleTicks) / float64(sum.Makespan)
		sum.Throughput = n / float64(sum.Makespan)
	}
	return sum, true
}
