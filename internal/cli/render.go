package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/me/schedsim/pkg/model"
)

func outputTitle(w io.Writer, title string) {
	fmt.Fprintln(w, strings.Repeat("-", len(title)+4))
	fmt.Fprintln(w, " ", title)
	fmt.Fprintln(w, strings.Repeat("-", len(title)+4))
}

// outputGantt prints coalesced segments as a one-line chart with the segment
// boundaries underneath.
func outputGantt(w io.Writer, segs []model.Segment) {
	fmt.Fprintln(w, "Gantt schedule")
	if len(segs) == 0 {
		fmt.Fprintln(w, "(empty)")
		fmt.Fprintln(w)
		return
	}
	var bar, axis strings.Builder
	bar.WriteString("|")
	for _, seg := range segs {
		label := seg.ProcessID
		if seg.Idle {
			label = "idle"
		}
		width := max(len(label)+2, 6)
		pad := width - len(label)
		bar.WriteString(strings.Repeat(" ", pad/2) + label + strings.Repeat(" ", pad-pad/2) + "|")
		start := strconv.Itoa(seg.Start)
		axis.WriteString(start + strings.Repeat(" ", max(1, width+1-len(start))))
	}
	axis.WriteString(strconv.Itoa(segs[len(segs)-1].End))
	fmt.Fprintln(w, bar.String())
	fmt.Fprintln(w, axis.String())
	fmt.Fprintln(w)
}

func cell(v int) string {
	if v == model.Unset {
		return "-"
	}
	return strconv.Itoa(v)
}

// outputStats prints per-process statistics with the averages in the footer
// once the schedule is complete.
func outputStats(w io.Writer, procs []model.ProcessStats, sum *model.Summary) {
	fmt.Fprintln(w, "Schedule table")
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Arrival", "Burst", "Remaining", "Start", "Finish", "Waiting", "Turnaround", "Response"})
	rows := make([][]string, 0, len(procs))
	for _, p := range procs {
		waiting := cell(p.Waiting)
		turnaround := cell(p.Turnaround)
		if p.Provisional {
			waiting += "*"
			turnaround += "*"
		}
		rows = append(rows, []string{
			p.ID, strconv.Itoa(p.Arrival), strconv.Itoa(p.Burst), strconv.Itoa(p.Remaining),
			cell(p.StartTime), cell(p.FinishTime), waiting, turnaround, cell(p.Response),
		})
	}
	table.AppendBulk(rows)
	if sum != nil {
		table.SetFooter([]string{"", "", "", "", "", "",
			fmt.Sprintf("Average\n%.2f", sum.AverageWaiting),
			fmt.Sprintf("Average\n%.2f", sum.AverageTurnaround),
			fmt.Sprintf("Average\n%.2f", sum.AverageResponse)})
	}
	table.Render()
}

func outputSummary(w io.Writer, sum *model.Summary) {
	if sum == nil {
		return
	}
	fmt.Fprintf(w, "Makespan: %d  Idle: %d  CPU utilization: %.1f%%  Throughput: %.3f/t\n",
		sum.Makespan, sum.IdleTicks, sum.Utilization*100, sum.Throughput)
}

func outputProcesses(w io.Writer, procs []model.Process) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "ID", "Arrival", "Burst", "State", "Remaining"})
	for i, p := range procs {
		table.Append([]string{
			strconv.Itoa(i), p.ID, strconv.Itoa(p.Arrival), strconv.Itoa(p.Burst),
			string(p.State), strconv.Itoa(p.Remaining),
		})
	}
	table.Render()
}

func outputRuns(w io.Writer, runs []model.Run) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Algorithm", "Quantum", "Processes", "Makespan", "Avg waiting", "Avg turnaround", "Created"})
	for _, r := range runs {
		table.Append([]string{
			r.ID, string(r.Algorithm), strconv.Itoa(r.Quantum), strconv.Itoa(len(r.Definitions)),
			strconv.Itoa(r.Summary.Makespan),
			fmt.Sprintf("%.2f", r.Summary.AverageWaiting),
			fmt.Sprintf("%.2f", r.Summary.AverageTurnaround),
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	table.Render()
}

func outputSnapshot(w io.Writer, snap model.Snapshot) {
	running := snap.Running
	if running == "" {
		running = "(idle)"
	}
	fmt.Fprintf(w, "State:     %s\n", snap.State)
	fmt.Fprintf(w, "Algorithm: %s (quantum %d)\n", snap.Algorithm.Description(), snap.Quantum)
	fmt.Fprintf(w, "Time:      %d\n", snap.Time)
	fmt.Fprintf(w, "Running:   %s\n", running)
	fmt.Fprintf(w, "Ready:     [%s]\n", strings.Join(snap.ReadyQueue, " "))
	fmt.Fprintln(w)
	outputGantt(w, snap.Segments)
	outputStats(w, snap.Processes, snap.Summary)
	outputSummary(w, snap.Summary)
}

func outputPreview(w io.Writer, pv model.Preview) {
	outputTitle(w, pv.Algorithm.Description())
	outputGantt(w, pv.Segments)
	outputStats(w, pv.Processes, pv.Summary)
	outputSummary(w, pv.Summary)
}

// formatEvents renders a tick's events as "ARRIVED P1, DISPATCHED P1".
func formatEvents(events []model.Event) string {
	parts := make([]string, 0, len(events))
	for _, ev := range events {
		if ev.Kind == model.EventExecuted || ev.Kind == model.EventIdle {
			continue
		}
		if ev.ProcessID == "" {
			parts = append(parts, string(ev.Kind))
			continue
		}
		parts = append(parts, string(ev.Kind)+" "+ev.ProcessID)
	}
	return strings.Join(parts, ", ")
}
