// Package observ measures the phases of a check run.
package observ

import (
	"fmt"
	"io"
	"time"
)

// Phase is one measured step of checking an entry file.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer records phases in the order they begin. A nil *Timer is valid
// and records nothing, so callers need not check whether timing is on.
type Timer struct {
	phases []Phase
}

func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 4)} }

// Begin starts a phase and returns its index, or -1 on a nil timer.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes the phase idx.
func (t *Timer) End(idx int, note string) {
	if t == nil || idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// PhaseReport представляет сжатую информацию о фазе таймера для сериализации.
type PhaseReport struct {
	Name       string  `json:"name" msgpack:"name"`
	DurationMS float64 `json:"duration_ms" msgpack:"duration_ms"`
	Note       string  `json:"note,omitempty" msgpack:"note,omitempty"`
	Count      int     `json:"count,omitempty" msgpack:"count,omitempty"`
}

// Report описывает агрегированные данные таймера.
type Report struct {
	TotalMS float64       `json:"total_ms" msgpack:"total_ms"`
	Phases  []PhaseReport `json:"phases" msgpack:"phases"`
}

// Report returns the finished phases; nil timers give an empty report.
func (t *Timer) Report() Report {
	if t == nil || len(t.phases) == 0 {
		return Report{}
	}
	report := Report{Phases: make([]PhaseReport, len(t.phases))}
	var total time.Duration
	for i, phase := range t.phases {
		total += phase.Dur
		report.Phases[i] = PhaseReport{
			Name:       phase.Name,
			DurationMS: durationToMillis(phase.Dur),
			Note:       phase.Note,
			Count:      1,
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

// Aggregate sums reports of several entry files phase by phase. Phases
// keep the order in which they first appear; notes are dropped since they
// describe a single file.
func Aggregate(reports []*Report) Report {
	var out Report
	index := make(map[string]int)
	for _, r := range reports {
		if r == nil {
			continue
		}
		out.TotalMS += r.TotalMS
		for _, p := range r.Phases {
			i, ok := index[p.Name]
			if !ok {
				i = len(out.Phases)
				index[p.Name] = i
				out.Phases = append(out.Phases, PhaseReport{Name: p.Name})
			}
			out.Phases[i].DurationMS += p.DurationMS
			out.Phases[i].Count += max(p.Count, 1)
		}
	}
	return out
}

// Write prints the report as an aligned table under the given heading.
func (r Report) Write(w io.Writer, heading string) error {
	if _, err := fmt.Fprintf(w, "%s:\n", heading); err != nil {
		return err
	}
	for _, p := range r.Phases {
		line := fmt.Sprintf("  %-12s %9.2f ms", p.Name, p.DurationMS)
		switch {
		case p.Note != "":
			line += "  // " + p.Note
		case p.Count > 1:
			line += fmt.Sprintf("  (%d files)", p.Count)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "  %-12s %9.2f ms\n", "total", r.TotalMS)
	return err
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
