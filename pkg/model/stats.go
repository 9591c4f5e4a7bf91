package model

// Idle is the timeline entry recorded for a tick on which the CPU ran nothing.
const Idle = ""

// Segment is a maximal run of identical timeline entries, [Start, End).
type Segment struct {
	Index     int    `json:"index"`
	ProcessID string `json:"process_id"`
	Idle      bool   `json:"idle"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
}

// Length returns the number of ticks covered by the segment.
func (s Segment) Length() int {
	return s.End - s.Start
}

// ProcessStats are the per-process metrics shown alongside a schedule.
// Waiting, Turnaround and Response are Unset until they can be computed.
type ProcessStats struct {
	ID          string `json:"id"`
	Arrival     int    `json:"arrival"`
	Burst       int    `json:"burst"`
	Remaining   int    `json:"remaining"`
	StartTime   int    `json:"start_time"`
	FinishTime  int    `json:"finish_time"`
	Waiting     int    `json:"waiting"`
	Turnaround  int    `json:"turnaround"`
	Response    int    `json:"response"`
	Provisional bool   `json:"provisional"`
}

// Summary aggregates a completed schedule.
type Summary struct {
	Processes         int     `json:"processes"`
	Makespan          int     `json:"makespan"`
	IdleTicks         int     `json:"idle_ticks"`
	AverageWaiting    float64 `json:"average_waiting"`
	AverageTurnaround float64 `json:"average_turnaround"`
	AverageResponse   float64 `json:"average_response"`
	Utilization       float64 `json:"cpu_utilization"`
	Throughput        float64 `json:"throughput"`
}
