package observ

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNilTimer(t *testing.T) {
	var timer *Timer
	idx := timer.Begin("parse")
	require.Equal(t, -1, idx)
	timer.End(idx, "ignored")
	require.Empty(t, timer.Report().Phases)
}

func TestTimerReport(t *testing.T) {
	timer := NewTimer()
	idx := timer.Begin("parse")
	time.Sleep(time.Millisecond)
	timer.End(idx, "files=2")
	timer.End(7, "out of range")

	r := timer.Report()
	require.Len(t, r.Phases, 1)
	require.Equal(t, "files=2", r.Phases[0].Note)
	require.Greater(t, r.Phases[0].DurationMS, 0.0)
	require.InDelta(t, r.Phases[0].DurationMS, r.TotalMS, 1e-9)
}

func TestAggregate(t *testing.T) {
	a := &Report{TotalMS: 3, Phases: []PhaseReport{{Name: "parse", DurationMS: 2, Count: 1}, {Name: "report", DurationMS: 1, Count: 1}}}
	b := &Report{TotalMS: 5, Phases: []PhaseReport{{Name: "modules", DurationMS: 1}, {Name: "parse", DurationMS: 4}}}

	got := Aggregate([]*Report{a, nil, b})
	require.InDelta(t, 8.0, got.TotalMS, 1e-9)
	require.Equal(t, []PhaseReport{
		{Name: "parse", DurationMS: 6, Count: 2},
		{Name: "report", DurationMS: 1, Count: 1},
		{Name: "modules", DurationMS: 1, Count: 1},
	}, got.Phases)

	var buf bytes.Buffer
	require.NoError(t, got.Write(&buf, "timings"))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Equal(t, "timings:", lines[0])
	require.Contains(t, lines[1], "(2 files)")
	require.True(t, strings.HasPrefix(lines[len(lines)-1], "  total"))
}
