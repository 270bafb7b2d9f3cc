package shell

import (
	"fmt"
	"image/color"
	"slices"

	"github.com/Garsondee/linewar-client/internal/palette"
	"github.com/Garsondee/linewar-client/internal/render"
	"github.com/Garsondee/linewar-client/internal/snapshot"
)

const (
	logMaxEntries = 60
	logLineHeight = 13
	logTitleH     = 18
	logRecent     = 3 // newest entries drawn with a highlight row
)

var (
	logPanelBg   = color.NRGBA{R: 12, G: 13, B: 18, A: 248}
	logTitleBg   = color.NRGBA{R: 24, G: 27, B: 38, A: 255}
	logSeparator = color.NRGBA{R: 60, G: 66, B: 86, A: 255}
	logRecentBg  = color.NRGBA{R: 34, G: 38, B: 52, A: 160}
	logText      = color.NRGBA{R: 220, G: 220, B: 228, A: 255}
	logTextOld   = color.NRGBA{R: 220, G: 220, B: 228, A: 140}
	logError     = color.NRGBA{R: 240, G: 90, B: 80, A: 255}
)

// LogEntry is a single line in the action log.
type LogEntry struct {
	Turn    int
	Tag     string // action or event tag, empty for notices
	Color   color.NRGBA
	Message string
	IsError bool
}

// ActionLog is a ring buffer of recent actions, turn events and transport
// notices rendered beside the board.
type ActionLog struct {
	entries []LogEntry
	head    int
	count   int
}

// NewActionLog creates an action log with a fixed capacity.
func NewActionLog() *ActionLog {
	return &ActionLog{entries: make([]LogEntry, logMaxEntries)}
}

// Add appends an entry, overwriting the oldest once full.
func (l *ActionLog) Add(e LogEntry) {
	l.entries[l.head] = e
	l.head = (l.head + 1) % logMaxEntries
	if l.count < logMaxEntries {
		l.count++
	}
}

// Notice appends an untagged line.
func (l *ActionLog) Notice(turn int, msg string) {
	l.Add(LogEntry{Turn: turn, Color: logText, Message: msg})
}

// Error appends a failure line.
func (l *ActionLog) Error(turn int, err error) {
	l.Add(LogEntry{Turn: turn, Color: logError, Message: err.Error(), IsError: true})
}

// Len returns the number of stored entries.
func (l *ActionLog) Len() int { return l.count }

// Clear drops every entry.
func (l *ActionLog) Clear() {
	l.head, l.count = 0, 0
}

// Recent returns entries in chronological order (oldest first).
func (l *ActionLog) Recent() []LogEntry {
	out := make([]LogEntry, l.count)
	for i := 0; i < l.count; i++ {
		idx := (l.head - l.count + i + logMaxEntries) % logMaxEntries
		out[i] = l.entries[idx]
	}
	return out
}

// Observe records what a newly applied snapshot carries: turn events when
// the turn advanced, the action that produced it, then any simulation log
// lines prev did not already end with.
func (l *ActionLog) Observe(prev, cur *snapshot.Snapshot) {
	if cur == nil {
		return
	}
	if prev != nil && cur.Turn > prev.Turn {
		for i := range cur.NewTurnEvents {
			ev := &cur.NewTurnEvents[i]
			team, _ := ev.Text("teamId")
			l.Add(LogEntry{Turn: cur.Turn, Tag: ev.Type, Color: palette.Team(cur, team), Message: "event"})
		}
	}
	if d := cur.LastActionDetails; d != nil {
		team, _ := d.Text("teamId")
		name := team
		if t, ok := cur.Team(team); ok && t.Name != "" {
			name = t.Name
		}
		l.Add(LogEntry{Turn: cur.Turn, Tag: d.Type, Color: palette.Team(cur, team), Message: name})
	}
	var seen []snapshot.LogEntry
	if prev != nil {
		seen = prev.GameLog
	}
	for _, e := range unseenLog(seen, cur.GameLog) {
		l.Add(LogEntry{Turn: cur.Turn, Color: palette.Team(cur, e.TeamID), Message: e.Message})
	}
}

// unseenLog returns the tail of cur that follows the longest suffix of prev
// it starts with. The server resends a rolling window, so only the overlap
// is skipped.
func unseenLog(prev, cur []snapshot.LogEntry) []snapshot.LogEntry {
	n := min(len(prev), len(cur))
	for ; n > 0; n-- {
		if slices.Equal(prev[len(prev)-n:], cur[:n]) {
			break
		}
	}
	return cur[n:]
}

// Draw renders the panel as a strip starting at panelX.
func (l *ActionLog) Draw(c render.Canvas, panelX, panelW, panelH int) {
	x, w, h := float32(panelX), float32(panelW), float32(panelH)
	c.FillRect(x, 0, w, h, logPanelBg)
	c.Line(x, 0, x, h, 1, logSeparator)

	c.FillRect(x, 0, w, logTitleH, logTitleBg)
	c.Text("ACTION LOG", x+8, 3, logText)
	c.Line(x, logTitleH, x+w, logTitleH, 1, logSeparator)

	entries := l.Recent()

	// Newest at the bottom.
	maxVisible := (panelH - logTitleH - 6) / logLineHeight
	if maxVisible < 0 {
		maxVisible = 0
	}
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}

	y := float32(logTitleH + 4)
	for i, e := range entries {
		isRecent := i >= len(entries)-logRecent
		if isRecent {
			c.FillRect(x+2, y, w-4, logLineHeight, logRecentBg)
		}
		c.FillRect(x+5, y+4, 3, 5, e.Color)

		col := logTextOld
		if isRecent {
			col = logText
		}
		if e.IsError {
			col = logError
		}
		c.Text(e.line(), x+12, y, col)
		y += logLineHeight
	}
}

func (e LogEntry) line() string {
	if e.Tag == "" {
		return fmt.Sprintf("%4d %s", e.Turn, e.Message)
	}
	return fmt.Sprintf("%4d [%s] %s", e.Turn, e.Tag, e.Message)
}
