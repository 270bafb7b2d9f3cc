package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/Garsondee/linewar-client/internal/fx"
	"github.com/Garsondee/linewar-client/internal/render"
	"github.com/Garsondee/linewar-client/internal/snapshot"
	"github.com/Garsondee/linewar-client/internal/transport"
)

type replayStats struct {
	snapshots int
	firstTurn int
	lastTurn  int
	finished  bool

	actions        map[string]int
	unknownActions map[string]int
	silentActions  map[string]int // recognised, but produced no effect and no highlight
	events         map[string]int
	unknownEvents  map[string]int
	effects        map[string]int

	peakLive   int
	drawOps    int
	peakOps    int
	peakOpsAt  int // snapshot index of the busiest frame
	frameCount int
}

func newReplayStats() replayStats {
	return replayStats{
		firstTurn:      -1,
		actions:        map[string]int{},
		unknownActions: map[string]int{},
		silentActions:  map[string]int{},
		events:         map[string]int{},
		unknownEvents:  map[string]int{},
		effects:        map[string]int{},
	}
}

func main() {
	var path string
	var step time.Duration
	var canvas int
	var frames int

	flag.StringVar(&path, "replay", "", "recorded session (.jsonl.zst)")
	flag.DurationVar(&step, "step", 800*time.Millisecond, "simulated time between snapshots")
	flag.IntVar(&canvas, "canvas", 800, "board size in pixels")
	flag.IntVar(&frames, "frames", 4, "frames rendered between snapshots")
	flag.Parse()

	if path == "" {
		fmt.Println("error: -replay is required")
		os.Exit(2)
	}
	if canvas <= 0 || frames <= 0 {
		fmt.Println("error: -canvas and -frames must be > 0")
		os.Exit(2)
	}

	src, err := transport.OpenReplay(path)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	ctx := context.Background()
	snaps := make([]*snapshot.Snapshot, 0, src.Len())
	for s, err := src.State(ctx); err == nil; s, err = src.NextAction(ctx) {
		snaps = append(snaps, s)
	}

	fmt.Printf("=== Headless Replay Report ===\n")
	fmt.Printf("replay=%s snapshots=%d step=%s canvas=%d frames=%d\n\n", path, len(snaps), step, canvas, frames)
	printReport(runReplay(snaps, step, canvas, frames))
}

// runReplay feeds every snapshot through the dispatcher with a manual clock,
// rendering a few frames between snapshots onto a recording canvas.
func runReplay(snaps []*snapshot.Snapshot, step time.Duration, canvas, frames int) replayStats {
	rs := newReplayStats()
	clock := fx.NewManualClock(time.Unix(0, 0))
	ctx := fx.NewContext(clock)
	ctx.Debug.ShowHulls = true
	r := render.New(canvas, canvas)
	rec := render.NewRecorder(canvas, canvas)

	var prev *snapshot.Snapshot
	for i, cur := range snaps {
		if cur.GridSize > 0 && (prev == nil || cur.Phase == snapshot.PhaseSetup) {
			r.Resize(cur.GridSize)
		}
		rs.observe(prev, cur)

		before := ctx.Effects.Len()
		fx.ProcessStateChange(prev, cur, ctx, r.CellSize())
		added := ctx.Effects.Records()[before:]
		for _, e := range added {
			rs.effects[e.Kind.String()]++
		}
		if d := cur.LastActionDetails; d != nil && fx.ParseActionKind(d.Type) != fx.ActionUnknown {
			if len(added) == 0 && !ctx.Highlight.Engaged(true) {
				rs.silentActions[d.Type]++
			}
		}
		if n := ctx.Effects.Len(); n > rs.peakLive {
			rs.peakLive = n
		}

		for f := 0; f < frames; f++ {
			clock.Advance(step / time.Duration(frames))
			ctx.Tick()
			rec.Reset()
			r.Render(rec, cur, ctx)
			n := len(rec.Ops)
			rs.drawOps += n
			rs.frameCount++
			if n > rs.peakOps {
				rs.peakOps, rs.peakOpsAt = n, i
			}
		}
		prev = cur
	}
	return rs
}

// observe tallies the tags a snapshot carries, using the same turn guard as
// the dispatcher.
func (rs *replayStats) observe(prev, cur *snapshot.Snapshot) {
	rs.snapshots++
	if rs.firstTurn < 0 {
		rs.firstTurn = cur.Turn
	}
	rs.lastTurn = cur.Turn
	rs.finished = cur.Phase == snapshot.PhaseFinished

	if d := cur.LastActionDetails; d != nil {
		rs.actions[d.Type]++
		if fx.ParseActionKind(d.Type) == fx.ActionUnknown {
			rs.unknownActions[d.Type]++
		}
	}
	if prev == nil || cur.Turn <= prev.Turn {
		return
	}
	for _, ev := range cur.NewTurnEvents {
		rs.events[ev.Type]++
		if fx.ParseEventKind(ev.Type) == fx.EventUnknown {
			rs.unknownEvents[ev.Type]++
		}
	}
}

func printReport(rs replayStats) {
	fmt.Printf("turns: %d..%d finished=%v snapshots=%d\n", rs.firstTurn, rs.lastTurn, rs.finished, rs.snapshots)
	fmt.Printf("actions: total=%d distinct=%d\n", sum(rs.actions), len(rs.actions))
	fmt.Printf("  top: %s\n", topN(rs.actions, 8))
	fmt.Printf("  unknown: %s\n", joinCounts(rs.unknownActions))
	fmt.Printf("  silent: %s\n", joinCounts(rs.silentActions))
	fmt.Printf("turn_events: total=%d distinct=%d\n", sum(rs.events), len(rs.events))
	fmt.Printf("  top: %s\n", topN(rs.events, 8))
	fmt.Printf("  unknown: %s\n", joinCounts(rs.unknownEvents))
	fmt.Printf("effects: total=%d peak_live=%d\n", sum(rs.effects), rs.peakLive)
	fmt.Printf("  top: %s\n", topN(rs.effects, 8))
	fmt.Printf("draw_ops: frames=%d avg=%.1f peak=%d (snapshot %d)\n",
		rs.frameCount, avg(rs.drawOps, rs.frameCount), rs.peakOps, rs.peakOpsAt)
}

func avg(total int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(total) / float64(n)
}

func sum(counts map[string]int) int {
	n := 0
	for _, v := range counts {
		n += v
	}
	return n
}

// topN lists the n most frequent keys, ties broken by name.
func topN(counts map[string]int, n int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s(%d)", k, counts[k])
	}
	return strings.Join(parts, " ")
}

func joinCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		keys[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(keys, ",")
}
