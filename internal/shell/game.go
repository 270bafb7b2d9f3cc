package shell

import (
	"fmt"
	"image"
	"log"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/Garsondee/linewar-client/internal/config"
	"github.com/Garsondee/linewar-client/internal/fx"
	"github.com/Garsondee/linewar-client/internal/render"
	"github.com/Garsondee/linewar-client/internal/snapshot"
	"github.com/Garsondee/linewar-client/internal/transport"
)

// Game adapts a Session to ebiten's Update/Draw loop.
type Game struct {
	session *Session

	boardW, boardH int
	panelW         int

	showHUD  bool
	prevKeys map[ebiten.Key]bool
}

// New creates the game and asks the source for its current state.
func New(src transport.Source, cfg config.Config) *Game {
	boardW := cfg.Window.Width
	boardH := cfg.Window.Height
	g := &Game{
		session:  NewSession(src, cfg, fx.SystemClock{}, boardW, boardH),
		boardW:   boardW,
		boardH:   boardH,
		panelW:   cfg.Window.LogPanelWidth,
		showHUD:  true,
		prevKeys: make(map[ebiten.Key]bool),
	}
	g.session.Fetch()
	return g
}

// Session returns the loop-owned session.
func (g *Game) Session() *Session { return g.session }

func (g *Game) Update() error {
	g.handleInput()
	g.session.Update()
	return nil
}

// handleInput processes keypresses (edge-triggered) and board clicks.
func (g *Game) handleInput() {
	currentKeys := map[ebiten.Key]bool{}
	pressed := func(k ebiten.Key) bool {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		return currentKeys[k] && !g.prevKeys[k]
	}
	s := g.session
	dbg := &s.Context().Debug

	// Debug toggles.
	if pressed(ebiten.KeyI) {
		dbg.ShowPointIDs = !dbg.ShowPointIDs
	}
	if pressed(ebiten.KeyL) {
		dbg.ShowLineIDs = !dbg.ShowLineIDs
	}
	if pressed(ebiten.KeyG) {
		dbg.HighlightLastAction = !dbg.HighlightLastAction
	}
	if pressed(ebiten.KeyV) {
		dbg.ShowHulls = !dbg.ShowHulls
	}
	if pressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}

	// Flow control.
	if pressed(ebiten.KeySpace) {
		s.Step()
	}
	if pressed(ebiten.KeyP) {
		s.ToggleAutoPlay()
	}
	if pressed(ebiten.KeyR) {
		s.Restart()
	}
	if pressed(ebiten.KeyBackspace) {
		s.Reset()
	}
	if pressed(ebiten.KeyC) {
		g.copyLastAction()
	}

	// Setup screen.
	if s.Phase() == snapshot.PhaseSetup {
		if pressed(ebiten.KeyTab) {
			s.SelectNextTeam()
		}
		if pressed(ebiten.KeyEnter) {
			s.Start()
		}
		if pressed(ebiten.KeyEqual) {
			s.ResizeGrid(s.Renderer().GridSize() + 1)
		}
		if pressed(ebiten.KeyMinus) {
			s.ResizeGrid(s.Renderer().GridSize() - 1)
		}
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			mx, my := ebiten.CursorPosition()
			s.ClickBoard(mx, my)
		}
	}

	g.prevKeys = currentKeys
}

func (g *Game) copyLastAction() {
	s := g.session
	js, ok := s.LastActionJSON()
	if !ok {
		return
	}
	if err := clipboard.WriteAll(js); err != nil {
		log.Printf("shell: clipboard: %v", err)
		s.Log().Error(s.turn(), err)
		return
	}
	s.Log().Notice(s.turn(), "copied last action")
}

func (g *Game) Draw(screen *ebiten.Image) {
	s := g.session
	board := screen.SubImage(image.Rect(0, 0, g.boardW, g.boardH)).(*ebiten.Image)
	s.Renderer().Render(render.NewEbitenCanvas(board), s.View(), s.Context())
	s.Log().Draw(render.NewEbitenCanvas(screen), g.boardW, g.panelW, g.boardH)

	if g.showHUD {
		lines := g.hudLines()
		for i, line := range lines {
			ebitenutil.DebugPrintAt(screen, line, 6, g.boardH-14*(len(lines)-i)-4)
		}
	}
}

func (g *Game) hudLines() []string {
	s := g.session
	snap := s.View()
	dbg := s.Context().Debug
	status := "idle"
	switch {
	case s.Pending():
		status = "waiting"
	case s.AutoPlay():
		status = "auto"
	}
	lines := []string{
		fmt.Sprintf("%s  turn %d/%d  %s", snap.Phase, snap.Turn, snap.MaxTurns, status),
		fmt.Sprintf("[I]ids %s [L]lines %s [G]highlight %s [V]hulls %s",
			onOff(dbg.ShowPointIDs), onOff(dbg.ShowLineIDs), onOff(dbg.HighlightLastAction), onOff(dbg.ShowHulls)),
		"SPACE=step  P=auto  R=restart  BKSP=reset  C=copy action  H=hud",
	}
	if s.Phase() == snapshot.PhaseSetup {
		lines = append(lines, fmt.Sprintf("setup: team %s  grid %d  TAB=team  +/-=grid  click=place  ENTER=start",
			s.Context().Setup.SelectedTeam, s.Renderer().GridSize()))
	}
	return lines
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.boardW + g.panelW, g.boardH
}
