package shell

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Garsondee/linewar-client/internal/config"
	"github.com/Garsondee/linewar-client/internal/fx"
	"github.com/Garsondee/linewar-client/internal/render"
	"github.com/Garsondee/linewar-client/internal/snapshot"
	"github.com/Garsondee/linewar-client/internal/transport"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func snapDoc(phase string, turn int, action, events string) string {
	return fmt.Sprintf(`{"grid_size":10,"game_phase":%q,"turn":%d,"max_turns":20,`+
		`"teams":{"A":{"id":"A","name":"Red","color":"#ff0000"}},`+
		`"points":{"P1":{"id":"P1","x":1,"y":1,"teamId":"A"},"P2":{"id":"P2","x":3,"y":1,"teamId":"A"}},`+
		`"lines":[{"id":"L1","p1_id":"P1","p2_id":"P2","teamId":"A"}],`+
		`"last_action_details":{"type":%q,"teamId":"A","line":{"id":"L1","p1_id":"P1","p2_id":"P2","teamId":"A"}},`+
		`"new_turn_events":[%s]}`, phase, turn, action, events)
}

const collapse = `{"type":"point_collapse","teamId":"A","point":{"id":"P9","x":4,"y":4,"teamId":"A"}}`

func snaps(t *testing.T, docs ...string) []*snapshot.Snapshot {
	t.Helper()
	out := make([]*snapshot.Snapshot, len(docs))
	for i, d := range docs {
		s, err := snapshot.Decode([]byte(d))
		if err != nil {
			t.Fatalf("decode %d: %v", i, err)
		}
		out[i] = s
	}
	return out
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Game.GridSize = 10
	cfg.Game.AutoPlayInterval = 500 * time.Millisecond
	cfg.Server.RequestTimeout = 0
	return cfg
}

func newTestSession(t *testing.T, src transport.Source) (*Session, *fx.ManualClock) {
	t.Helper()
	clock := fx.NewManualClock(epoch)
	return NewSession(src, testConfig(), clock, 200, 200), clock
}

func await(t *testing.T, s *Session) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.Await(ctx)
}

func running(t *testing.T) *transport.ReplaySource {
	return transport.NewReplaySource(snaps(t,
		snapDoc("RUNNING", 1, "add_line", ""),
		snapDoc("RUNNING", 1, "extend_line", collapse),
		snapDoc("RUNNING", 2, "add_line", collapse),
	))
}

type failingSource struct {
	*transport.ReplaySource
	err error
}

func (f failingSource) NextAction(context.Context) (*snapshot.Snapshot, error) { return nil, f.err }

type capturingSource struct {
	*transport.ReplaySource
	got *transport.StartRequest
}

func (c capturingSource) StartGame(ctx context.Context, req transport.StartRequest) (*snapshot.Snapshot, error) {
	*c.got = req
	return c.ReplaySource.StartGame(ctx, req)
}

// --- Session flow ---

func TestSession_FetchAppliesSnapshot(t *testing.T) {
	s, _ := newTestSession(t, running(t))
	if s.Phase() != snapshot.PhaseSetup {
		t.Fatal("phase before the first response should be SETUP")
	}
	if !s.Fetch() {
		t.Fatal("fetch should start")
	}
	if s.Fetch() {
		t.Fatal("a second request must not start while one is pending")
	}
	if err := await(t, s); err != nil {
		t.Fatalf("await: %v", err)
	}
	if s.Snapshot() == nil || s.Phase() != snapshot.PhaseRunning {
		t.Fatalf("snapshot not applied: %+v", s.Snapshot())
	}
	if s.Renderer().CellSize() != 20 {
		t.Fatalf("cell size = %v, want 20", s.Renderer().CellSize())
	}
	if !s.Context().Highlight.HasLine("L1") {
		t.Fatal("the first snapshot's action should still be dispatched")
	}
	entries := s.Log().Recent()
	if len(entries) != 1 || entries[0].Tag != "add_line" || entries[0].Message != "Red" {
		t.Fatalf("log = %+v", entries)
	}
}

func TestSession_TurnEventsOnlyOnAdvance(t *testing.T) {
	s, _ := newTestSession(t, running(t))
	s.Fetch()
	_ = await(t, s)

	// Same turn: the collapse event must not be replayed or logged.
	s.Step()
	_ = await(t, s)
	if n := s.Context().Effects.Count(fx.EffectPointExplosion); n != 0 {
		t.Fatalf("same-turn events replayed: %d explosions", n)
	}
	for _, e := range s.Log().Recent() {
		if e.Tag == "point_collapse" {
			t.Fatal("same-turn event logged")
		}
	}

	s.Step()
	_ = await(t, s)
	if s.Context().Effects.Count(fx.EffectPointExplosion) == 0 {
		t.Fatal("advancing turn should process its events")
	}
	var tags []string
	for _, e := range s.Log().Recent() {
		tags = append(tags, e.Tag)
	}
	if got := strings.Join(tags, ","); got != "add_line,extend_line,point_collapse,add_line" {
		t.Fatalf("log tags = %s", got)
	}
}

func TestSession_EndOfReplay(t *testing.T) {
	s, _ := newTestSession(t, transport.NewReplaySource(snaps(t, snapDoc("RUNNING", 1, "add_line", ""))))
	s.Fetch()
	_ = await(t, s)
	s.ToggleAutoPlay()

	if !s.Step() {
		t.Fatal("step should start")
	}
	if err := await(t, s); !errors.Is(err, transport.ErrEndOfReplay) {
		t.Fatalf("expected end of replay, got %v", err)
	}
	if s.AutoPlay() {
		t.Fatal("end of replay should stop auto-play")
	}
	if s.Step() {
		t.Fatal("no more steps after the recording ends")
	}
	if s.Snapshot().Turn != 1 {
		t.Fatal("previous snapshot should stay in place")
	}
}

func TestSession_ErrorKeepsSnapshot(t *testing.T) {
	src := failingSource{ReplaySource: running(t), err: errors.New("connection refused")}
	s, _ := newTestSession(t, src)
	s.Fetch()
	_ = await(t, s)
	before := s.Snapshot()

	s.Step()
	if err := await(t, s); err == nil {
		t.Fatal("expected the source error")
	}
	if s.Snapshot() != before {
		t.Fatal("a failed request must leave the previous snapshot in place")
	}
	last := s.Log().Recent()[s.Log().Len()-1]
	if !last.IsError || !strings.Contains(last.Message, "connection refused") {
		t.Fatalf("error not logged: %+v", last)
	}
	if s.Pending() {
		t.Fatal("failed request should clear pending")
	}
}

func TestSession_AutoPlaySchedule(t *testing.T) {
	s, clock := newTestSession(t, running(t))
	s.Fetch()
	_ = await(t, s)

	s.Update()
	if s.Pending() {
		t.Fatal("no step without auto-play")
	}

	s.ToggleAutoPlay()
	s.Update()
	if !s.Pending() {
		t.Fatal("auto-play should step immediately")
	}
	_ = await(t, s)

	clock.Advance(200 * time.Millisecond)
	s.Update()
	if s.Pending() {
		t.Fatal("stepped before the interval elapsed")
	}
	clock.Advance(300 * time.Millisecond)
	s.Update()
	if !s.Pending() {
		t.Fatal("should step once the interval elapsed")
	}
	_ = await(t, s)

	s.ToggleAutoPlay()
	if s.Context().Effects.Len() == 0 {
		t.Fatal("the last step should have queued effects")
	}
	clock.Advance(5 * time.Second)
	s.Update()
	if s.Pending() {
		t.Fatal("stopped auto-play must not schedule requests")
	}
	if n := s.Context().Effects.Len(); n != 0 {
		t.Fatalf("effects should keep decaying after auto-play stops, %d left", n)
	}
}

func TestSession_UpdateExpiresHighlight(t *testing.T) {
	s, clock := newTestSession(t, running(t))
	s.Fetch()
	_ = await(t, s)
	if !s.Context().Highlight.HasLine("L1") {
		t.Fatal("highlight expected after dispatch")
	}
	clock.Advance(fx.HighlightWindow)
	s.Update()
	if s.Context().Highlight.Engaged(true) {
		t.Fatal("highlight should clear after its window")
	}
}

func TestSession_RestartClearsTimeline(t *testing.T) {
	s, _ := newTestSession(t, running(t))
	s.Fetch()
	_ = await(t, s)
	s.Step()
	_ = await(t, s)
	s.Step()
	_ = await(t, s)

	s.Restart()
	_ = await(t, s)
	if s.Snapshot().Turn != 1 {
		t.Fatalf("restart should rewind, turn=%d", s.Snapshot().Turn)
	}
	if n := s.Context().Effects.Count(fx.EffectPointExplosion); n != 0 {
		t.Fatalf("old timeline effects should be cleared, got %d", n)
	}
	if !s.Step() {
		t.Fatal("stepping should resume after a restart")
	}
	_ = await(t, s)
}

// --- Setup ---

func TestSession_SetupStaging(t *testing.T) {
	s, _ := newTestSession(t, running(t))
	setup := &s.Context().Setup
	if setup.SelectedTeam != "team-1" || len(setup.Teams) != 2 {
		t.Fatalf("setup not seeded from config: %+v", setup)
	}

	if !s.ClickBoard(45, 65) {
		t.Fatal("click on the board should stage a point")
	}
	if len(setup.Points) != 1 || setup.Points[0] != (fx.StagedPoint{X: 2, Y: 3, TeamID: "team-1"}) {
		t.Fatalf("staged = %+v", setup.Points)
	}
	if s.ClickBoard(250, 10) {
		t.Fatal("off-board click should be ignored")
	}

	s.SelectNextTeam()
	s.TogglePoint(8, 8)
	if setup.Points[1].TeamID != "team-2" {
		t.Fatal("point should belong to the newly selected team")
	}
	s.SelectNextTeam()
	if setup.SelectedTeam != "team-1" {
		t.Fatal("team selection should wrap")
	}

	s.TogglePoint(2, 3)
	if len(setup.Points) != 1 || setup.Points[0].X != 8 {
		t.Fatalf("second click should remove the point: %+v", setup.Points)
	}

	if !s.ResizeGrid(5) {
		t.Fatal("resize allowed during setup")
	}
	if len(setup.Points) != 0 || s.Renderer().CellSize() != 40 {
		t.Fatalf("points off the new grid should drop, cell=%v", s.Renderer().CellSize())
	}
}

func TestSession_StartSendsSetup(t *testing.T) {
	var got transport.StartRequest
	src := capturingSource{
		ReplaySource: transport.NewReplaySource(snaps(t, snapDoc("RUNNING", 1, "add_line", ""))),
		got:          &got,
	}
	s, _ := newTestSession(t, src)
	s.TogglePoint(1, 1)
	s.SelectNextTeam()
	s.TogglePoint(7, 7)

	if !s.Start() {
		t.Fatal("start should be allowed in setup")
	}
	if err := await(t, s); err != nil {
		t.Fatalf("await: %v", err)
	}
	if len(got.Teams) != 2 || len(got.Points) != 2 || got.GridSize != 10 || got.MaxTurns != 100 {
		t.Fatalf("start request = %+v", got)
	}
	if got.Points[1] != (transport.PointSpec{X: 7, Y: 7, TeamID: "team-2"}) {
		t.Fatalf("points = %+v", got.Points)
	}
	if len(s.Context().Setup.Points) != 0 {
		t.Fatal("staged points should clear once the game starts")
	}
	if s.Start() {
		t.Fatal("start is only valid in setup")
	}
	if s.ResizeGrid(12) {
		t.Fatal("grid is fixed once running")
	}
}

func TestSession_ResizeAfterSetupSnapshot(t *testing.T) {
	var got transport.StartRequest
	src := capturingSource{
		ReplaySource: transport.NewReplaySource(snaps(t, snapDoc("SETUP", 0, "add_line", ""))),
		got:          &got,
	}
	s, _ := newTestSession(t, src)
	s.Fetch()
	_ = await(t, s)
	if s.Renderer().GridSize() != 10 {
		t.Fatalf("grid = %d, want the server's 10", s.Renderer().GridSize())
	}

	if !s.ResizeGrid(5) {
		t.Fatal("resize allowed during setup")
	}
	v := s.View()
	if v.GridSize != 5 || s.Snapshot().GridSize != 10 {
		t.Fatalf("view grid = %d, snapshot grid = %d", v.GridSize, s.Snapshot().GridSize)
	}
	if _, ok := v.Point("P1"); !ok {
		t.Fatal("the view should keep the snapshot's entities")
	}

	rec := render.NewRecorder(200, 200)
	s.Renderer().Render(rec, v, s.Context())
	var extent float32
	for _, op := range rec.Ops {
		if op.Kind != "line" {
			continue
		}
		for _, a := range op.Args[:4] {
			if a > extent {
				extent = a
			}
		}
	}
	if extent != 200 {
		t.Fatalf("grid should span the 200px board, extent=%v", extent)
	}

	s.Start()
	_ = await(t, s)
	if got.GridSize != 5 {
		t.Fatalf("start sent grid %d, want 5", got.GridSize)
	}
}

func TestSession_LastActionJSON(t *testing.T) {
	s, _ := newTestSession(t, running(t))
	if _, ok := s.LastActionJSON(); ok {
		t.Fatal("no action before the first snapshot")
	}
	s.Fetch()
	_ = await(t, s)
	js, ok := s.LastActionJSON()
	if !ok || !strings.Contains(js, `"type": "add_line"`) || !strings.Contains(js, `"teamId": "A"`) {
		t.Fatalf("json = %s", js)
	}
}

func TestSession_ViewBeforeFirstSnapshot(t *testing.T) {
	s, _ := newTestSession(t, running(t))
	v := s.View()
	if v.Phase != snapshot.PhaseSetup || v.GridSize != 10 {
		t.Fatalf("placeholder view = %+v", v)
	}
	s.TogglePoint(3, 3)
	rec := render.NewRecorder(200, 200)
	s.Renderer().Render(rec, v, s.Context())
	if rec.Count("fill_circle") != 1 {
		t.Fatalf("staged point should draw on the placeholder board, got %d circles", rec.Count("fill_circle"))
	}
}

// --- Action log ---

func TestActionLog_RingBuffer(t *testing.T) {
	l := NewActionLog()
	for i := 0; i < logMaxEntries+5; i++ {
		l.Notice(i, fmt.Sprintf("n%d", i))
	}
	got := l.Recent()
	if len(got) != logMaxEntries {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Turn != 5 || got[len(got)-1].Turn != logMaxEntries+4 {
		t.Fatalf("order wrong: first=%d last=%d", got[0].Turn, got[len(got)-1].Turn)
	}
	l.Clear()
	if l.Len() != 0 || len(l.Recent()) != 0 {
		t.Fatal("clear should empty the log")
	}
}

func TestActionLog_GameLogSkipsOverlap(t *testing.T) {
	line := func(msgs ...string) []snapshot.LogEntry {
		out := make([]snapshot.LogEntry, len(msgs))
		for i, m := range msgs {
			out[i] = snapshot.LogEntry{Message: m, TeamID: "A"}
		}
		return out
	}
	first := &snapshot.Snapshot{Turn: 1, GameLog: line("a", "b", "c")}
	second := &snapshot.Snapshot{Turn: 2, GameLog: line("b", "c", "d", "e")}

	l := NewActionLog()
	l.Observe(nil, first)
	l.Observe(first, second)
	l.Observe(second, second)

	var msgs []string
	for _, e := range l.Recent() {
		if e.Tag != "" {
			t.Fatalf("log lines are untagged, got %q", e.Tag)
		}
		msgs = append(msgs, e.Message)
	}
	if got := strings.Join(msgs, ","); got != "a,b,c,d,e" {
		t.Fatalf("messages = %s", got)
	}
}

func TestUnseenLog(t *testing.T) {
	a := snapshot.LogEntry{Message: "a"}
	b := snapshot.LogEntry{Message: "b"}
	c := snapshot.LogEntry{Message: "c"}
	if got := unseenLog(nil, []snapshot.LogEntry{a, b}); len(got) != 2 {
		t.Fatalf("fresh log should be new, got %v", got)
	}
	if got := unseenLog([]snapshot.LogEntry{a, b}, []snapshot.LogEntry{c}); len(got) != 1 || got[0] != c {
		t.Fatalf("disjoint window should be new, got %v", got)
	}
	if got := unseenLog([]snapshot.LogEntry{a, b}, []snapshot.LogEntry{a, b}); len(got) != 0 {
		t.Fatalf("identical window should add nothing, got %v", got)
	}
}

func TestActionLog_Draw(t *testing.T) {
	l := NewActionLog()
	l.Add(LogEntry{Turn: 1, Tag: "add_line", Message: "Red"})
	l.Error(2, errors.New("boom"))

	rec := render.NewRecorder(600, 200)
	l.Draw(rec, 400, 200, 200)
	texts := rec.Texts()
	want := []string{"ACTION LOG", "   1 [add_line] Red", "   2 boom"}
	if strings.Join(texts, "|") != strings.Join(want, "|") {
		t.Fatalf("texts = %q", texts)
	}
	for _, op := range rec.Ops {
		if op.Kind == "text" && op.Text == "   2 boom" && op.Color != logError {
			t.Fatal("errors draw in the error colour")
		}
	}
}

func TestActionLog_DrawClipsToPanel(t *testing.T) {
	l := NewActionLog()
	for i := 0; i < 40; i++ {
		l.Notice(i, "x")
	}
	rec := render.NewRecorder(600, 100)
	l.Draw(rec, 400, 200, 100)
	// Title plus (100-18-6)/13 = 5 rows, newest last.
	texts := rec.Texts()
	if len(texts) != 6 || texts[len(texts)-1] != "  39 x" {
		t.Fatalf("texts = %q", texts)
	}
}
