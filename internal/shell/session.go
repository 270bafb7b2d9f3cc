// Package shell hosts the presentation engine: it owns the effect context,
// feeds snapshots from a transport source into the dispatcher, and drives
// the ebiten loop.
package shell

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Garsondee/linewar-client/internal/config"
	"github.com/Garsondee/linewar-client/internal/fx"
	"github.com/Garsondee/linewar-client/internal/render"
	"github.com/Garsondee/linewar-client/internal/snapshot"
	"github.com/Garsondee/linewar-client/internal/transport"
)

// requestKind names a transport call so its result can be applied the right
// way.
type requestKind int

const (
	reqState requestKind = iota
	reqStart
	reqNext
	reqRestart
	reqReset
)

var requestNames = [...]string{"state", "start", "next_action", "restart", "reset"}

func (k requestKind) String() string { return requestNames[k] }

type result struct {
	kind requestKind
	snap *snapshot.Snapshot
	err  error
}

// Session is the loop-owned state of one client. Every method except the
// request goroutines runs on the ebiten update goroutine.
type Session struct {
	src      transport.Source
	cfg      config.Config
	ctx      *fx.Context
	renderer *render.Renderer
	log      *ActionLog

	prev, cur *snapshot.Snapshot

	results chan result
	pending bool

	autoPlay bool
	lastStep time.Time
	finished bool // source reported no further actions
}

// NewSession wires a source to a fresh effect context. boardW and boardH are
// the canvas pixels available to the grid.
func NewSession(src transport.Source, cfg config.Config, clock fx.Clock, boardW, boardH int) *Session {
	ctx := fx.NewContext(clock)
	ctx.Debug = fx.Debug{
		ShowPointIDs:        cfg.Debug.ShowPointIDs,
		ShowLineIDs:         cfg.Debug.ShowLineIDs,
		HighlightLastAction: cfg.Debug.HighlightLastAction,
		ShowHulls:           cfg.Debug.ShowHulls,
	}
	s := &Session{
		src:      src,
		cfg:      cfg,
		ctx:      ctx,
		renderer: render.New(boardW, boardH),
		log:      NewActionLog(),
		results:  make(chan result, 4),
	}
	s.renderer.Resize(cfg.Game.GridSize)
	s.resetSetup()
	return s
}

// Context returns the effect context lent to dispatch and render.
func (s *Session) Context() *fx.Context { return s.ctx }

// Renderer returns the board renderer.
func (s *Session) Renderer() *render.Renderer { return s.renderer }

// Log returns the on-screen action log.
func (s *Session) Log() *ActionLog { return s.log }

// Snapshot returns the snapshot currently displayed, or nil before the first
// response.
func (s *Session) Snapshot() *snapshot.Snapshot { return s.cur }

// Pending reports whether a request is in flight.
func (s *Session) Pending() bool { return s.pending }

// AutoPlay reports whether actions are requested on a timer.
func (s *Session) AutoPlay() bool { return s.autoPlay }

// Phase is the current game phase; SETUP before any snapshot arrives.
func (s *Session) Phase() snapshot.Phase {
	if s.cur == nil || s.cur.Phase == "" {
		return snapshot.PhaseSetup
	}
	return s.cur.Phase
}

// View is the snapshot to draw: the current one, or an empty setup board
// before the first response. In SETUP the board follows the locally chosen
// grid size, which is what Start submits.
func (s *Session) View() *snapshot.Snapshot {
	if s.cur == nil {
		return &snapshot.Snapshot{GridSize: s.renderer.GridSize(), Phase: snapshot.PhaseSetup}
	}
	if s.Phase() == snapshot.PhaseSetup && s.cur.GridSize != s.renderer.GridSize() {
		v := *s.cur
		v.GridSize = s.renderer.GridSize()
		return &v
	}
	return s.cur
}

func (s *Session) turn() int {
	if s.cur == nil {
		return 0
	}
	return s.cur.Turn
}

// request starts fn on a goroutine unless another call is still in flight.
// It reports whether the call was started.
func (s *Session) request(kind requestKind, fn func(context.Context) (*snapshot.Snapshot, error)) bool {
	if s.pending {
		return false
	}
	s.pending = true
	timeout := s.cfg.Server.RequestTimeout
	go func() {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		snap, err := fn(ctx)
		s.results <- result{kind: kind, snap: snap, err: err}
	}()
	return true
}

// Fetch asks for the current state.
func (s *Session) Fetch() bool { return s.request(reqState, s.src.State) }

// Step asks for the next action.
func (s *Session) Step() bool {
	if s.cur == nil || s.cur.Phase == snapshot.PhaseFinished || s.finished {
		return false
	}
	return s.request(reqNext, s.src.NextAction)
}

// Restart replays the current setup from turn one.
func (s *Session) Restart() bool { return s.request(reqRestart, s.src.Restart) }

// Reset returns the server to an empty setup.
func (s *Session) Reset() bool { return s.request(reqReset, s.src.Reset) }

// Start submits the staged setup.
func (s *Session) Start() bool {
	if s.Phase() != snapshot.PhaseSetup {
		return false
	}
	req := s.startRequest()
	return s.request(reqStart, func(ctx context.Context) (*snapshot.Snapshot, error) {
		return s.src.StartGame(ctx, req)
	})
}

func (s *Session) startRequest() transport.StartRequest {
	setup := s.ctx.Setup
	req := transport.StartRequest{
		MaxTurns: s.cfg.Game.MaxTurns,
		GridSize: s.renderer.GridSize(),
	}
	for _, t := range setup.Teams {
		req.Teams = append(req.Teams, transport.TeamSpec{ID: t.ID, Name: t.Name, Color: t.Color, Trait: t.Trait})
	}
	for _, p := range setup.Points {
		req.Points = append(req.Points, transport.PointSpec{X: p.X, Y: p.Y, TeamID: p.TeamID})
	}
	return req
}

// ToggleAutoPlay flips timed stepping. Stopping it only stops scheduling
// requests; running effects keep decaying.
func (s *Session) ToggleAutoPlay() {
	s.autoPlay = !s.autoPlay
	s.lastStep = time.Time{}
}

// Update drains finished requests, schedules the next auto-play step and
// runs the per-frame effect maintenance.
func (s *Session) Update() {
	s.Poll()
	now := s.ctx.Now()
	if s.autoPlay && !s.pending && now.Sub(s.lastStep) >= s.cfg.Game.AutoPlayInterval {
		if s.Step() {
			s.lastStep = now
		}
	}
	s.ctx.Tick()
}

// Poll applies every result that has arrived without blocking.
func (s *Session) Poll() {
	for {
		select {
		case r := <-s.results:
			s.apply(r)
		default:
			return
		}
	}
}

// Await blocks until the in-flight request finishes and applies it.
func (s *Session) Await(ctx context.Context) error {
	if !s.pending {
		return nil
	}
	select {
	case r := <-s.results:
		s.apply(r)
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) apply(r result) {
	s.pending = false
	if r.err != nil {
		if errors.Is(r.err, transport.ErrEndOfReplay) {
			s.finished = true
			s.autoPlay = false
			s.log.Notice(s.turn(), "end of recording")
			return
		}
		log.Printf("shell: %s: %v", r.kind, r.err)
		s.log.Error(s.turn(), fmt.Errorf("%s: %w", r.kind, r.err))
		return
	}
	if r.snap == nil {
		return
	}

	switch r.kind {
	case reqRestart, reqReset, reqStart:
		// A new timeline: nothing from the old one may replay or linger.
		s.ctx.Reset()
		s.prev, s.cur = nil, nil
		s.finished = false
	}

	s.prev, s.cur = s.cur, r.snap
	if s.cur.Phase == snapshot.PhaseSetup || s.prev == nil {
		if s.cur.GridSize > 0 {
			s.renderer.Resize(s.cur.GridSize)
		}
	}
	switch {
	case r.kind == reqReset && s.cur.Phase == snapshot.PhaseSetup:
		s.resetSetup()
	case r.kind == reqStart:
		s.ctx.Setup.Points = nil
	}
	if s.cur.Phase == snapshot.PhaseFinished {
		s.autoPlay = false
	}

	fx.ProcessStateChange(s.prev, s.cur, s.ctx, s.renderer.CellSize())
	s.log.Observe(s.prev, s.cur)
}

// --- Setup ---

func (s *Session) resetSetup() {
	setup := fx.SetupState{}
	for _, t := range s.cfg.Game.Teams {
		setup.Teams = append(setup.Teams, fx.SetupTeam{ID: t.ID, Name: t.Name, Color: t.Color, Trait: t.Trait})
	}
	if len(setup.Teams) > 0 {
		setup.SelectedTeam = setup.Teams[0].ID
	}
	s.ctx.Setup = setup
}

// ResizeGrid changes the board size while still in SETUP. Staged points that
// fall off the new grid are dropped.
func (s *Session) ResizeGrid(n int) bool {
	if s.Phase() != snapshot.PhaseSetup || n < 2 {
		return false
	}
	s.renderer.Resize(n)
	kept := s.ctx.Setup.Points[:0]
	for _, p := range s.ctx.Setup.Points {
		if p.X < n && p.Y < n {
			kept = append(kept, p)
		}
	}
	s.ctx.Setup.Points = kept
	return true
}

// SelectNextTeam cycles the team that new staged points belong to.
func (s *Session) SelectNextTeam() {
	teams := s.ctx.Setup.Teams
	if len(teams) == 0 {
		return
	}
	next := 0
	for i, t := range teams {
		if t.ID == s.ctx.Setup.SelectedTeam {
			next = (i + 1) % len(teams)
			break
		}
	}
	s.ctx.Setup.SelectedTeam = teams[next].ID
}

// ClickBoard toggles a staged point for the selected team at the cell under
// the canvas position. Clicks outside SETUP or off the grid are ignored.
func (s *Session) ClickBoard(x, y int) bool {
	if s.Phase() != snapshot.PhaseSetup {
		return false
	}
	gx, gy, ok := s.renderer.CellAt(x, y)
	if !ok {
		return false
	}
	return s.TogglePoint(gx, gy)
}

// TogglePoint stages a point at (gx, gy), or removes the one already there.
func (s *Session) TogglePoint(gx, gy int) bool {
	setup := &s.ctx.Setup
	for i, p := range setup.Points {
		if p.X == gx && p.Y == gy {
			setup.Points = append(setup.Points[:i], setup.Points[i+1:]...)
			return true
		}
	}
	if setup.SelectedTeam == "" {
		return false
	}
	setup.Points = append(setup.Points, fx.StagedPoint{X: gx, Y: gy, TeamID: setup.SelectedTeam})
	return true
}

// LastActionJSON returns the last action's details as indented JSON.
func (s *Session) LastActionJSON() (string, bool) {
	if s.cur == nil || s.cur.LastActionDetails == nil {
		return "", false
	}
	b, err := json.MarshalIndent(s.cur.LastActionDetails, "", "  ")
	if err != nil {
		return "", false
	}
	return string(b), true
}
