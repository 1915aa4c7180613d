package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"plint/internal/driver"
)

func TestApplyEventCountsOnce(t *testing.T) {
	events := make(chan driver.ProgressEvent)
	m := NewProgressModel("checking", []string{"a.php", "b.php"}, events).(*progressModel)

	m.applyEvent(driver.ProgressEvent{Path: "a.php", Status: driver.ProgressStart})
	require.Equal(t, statusChecking, m.items[0].status)

	m.applyEvent(driver.ProgressEvent{Path: "a.php", Status: driver.ProgressDone, Failed: true})
	m.applyEvent(driver.ProgressEvent{Path: "a.php", Status: driver.ProgressDone, Failed: true})
	m.applyEvent(driver.ProgressEvent{Path: "b.php", Status: driver.ProgressDone, Cached: true})
	m.applyEvent(driver.ProgressEvent{Path: "unknown.php", Status: driver.ProgressDone})

	require.Equal(t, 2, m.finished)
	require.Equal(t, 1, m.failed)
	require.Equal(t, statusFailed, m.items[0].status)
	require.Equal(t, statusCached, m.items[1].status)
}

func TestViewAndQuit(t *testing.T) {
	events := make(chan driver.ProgressEvent, 1)
	m := NewProgressModel("checking", []string{"src/main.php"}, events)
	events <- driver.ProgressEvent{Path: "src/main.php", Status: driver.ProgressDone}
	close(events)

	listen := m.(*progressModel).listenForEvent()
	m, _ = m.Update(listen())
	_, cmd := m.Update(listen())
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())

	view := m.View()
	require.Contains(t, view, "done: checking")
	require.Contains(t, view, "src/main.php")
	require.Contains(t, view, "(1/1)")
}

func TestVisibleFitsHeight(t *testing.T) {
	files := []string{"a.php", "b.php", "c.php", "d.php", "e.php"}
	m := NewProgressModel("checking", files, nil).(*progressModel)
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 8})
	m.applyEvent(driver.ProgressEvent{Path: "c.php", Status: driver.ProgressStart})
	m.applyEvent(driver.ProgressEvent{Path: "a.php", Status: driver.ProgressDone})

	got := m.visible()
	require.Len(t, got, 2)
	require.Equal(t, "c.php", got[0].path)
	require.Equal(t, "a.php", got[1].path)
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate("short", 10))
	cut := truncate("very/long/path.php", 7)
	require.True(t, strings.HasSuffix(cut, "..."), cut)
	require.LessOrEqual(t, len(cut), 7)
	require.Equal(t, "ve", truncate("very", 2))
}
