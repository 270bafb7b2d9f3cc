package render

import (
	"image/color"
	"math"
	"time"

	"github.com/Garsondee/linewar-client/internal/fx"
	"github.com/Garsondee/linewar-client/internal/geom"
	"github.com/Garsondee/linewar-client/internal/palette"
	"github.com/Garsondee/linewar-client/internal/snapshot"
)

// DimAlpha is the opacity of entities outside the highlight set while it is
// engaged.
const DimAlpha = 0.2

var (
	background = color.NRGBA{R: 18, G: 20, B: 26, A: 255}
	gridMinor  = color.NRGBA{R: 40, G: 44, B: 54, A: 255}
	gridMajor  = color.NRGBA{R: 56, G: 62, B: 76, A: 255}
	labelColor = color.NRGBA{R: 230, G: 230, B: 230, A: 255}
)

// Renderer owns only the canvas geometry. Everything it draws comes from the
// snapshot and context passed to Render.
type Renderer struct {
	width, height int
	gridSize      int
	cellSize      float64
}

// New creates a renderer for a canvas of the given size.
func New(canvasWidth, canvasHeight int) *Renderer {
	return &Renderer{width: canvasWidth, height: canvasHeight}
}

// Resize recomputes the cell size for a new grid. The shell only calls it
// during setup, when the grid size can still change.
func (r *Renderer) Resize(gridSize int) {
	if gridSize <= 0 {
		return
	}
	r.gridSize = gridSize
	r.cellSize = float64(r.width) / float64(gridSize)
}

// SetCanvasSize records a new canvas size and rescales the current grid.
func (r *Renderer) SetCanvasSize(w, h int) {
	r.width, r.height = w, h
	r.Resize(r.gridSize)
}

// CellSize is the side of one grid cell in canvas pixels.
func (r *Renderer) CellSize() float64 { return r.cellSize }

// GridSize is the grid the cell size was last computed for.
func (r *Renderer) GridSize() int { return r.gridSize }

// CellAt maps a canvas position to the grid cell under it.
func (r *Renderer) CellAt(x, y int) (int, int, bool) {
	if r.cellSize <= 0 {
		return 0, 0, false
	}
	gx := int(float64(x) / r.cellSize)
	gy := int(float64(y) / r.cellSize)
	if gx < 0 || gy < 0 || gx >= r.gridSize || gy >= r.gridSize {
		return 0, 0, false
	}
	return gx, gy, true
}

// frame is the per-call drawing state shared by every layer.
type frame struct {
	c       Canvas
	snap    *snapshot.Snapshot
	ctx     *fx.Context
	cell    float64
	now     time.Time
	engaged bool
	hl      *fx.HighlightSet
}

func (f *frame) at(c snapshot.Coord) geom.Vec { return geom.CellCenter(c, f.cell) }
func (f *frame) of(p snapshot.Point) geom.Vec { return geom.PointCenter(p, f.cell) }
func (f *frame) team(id string) color.NRGBA { return palette.Team(f.snap, id) }

// dim returns c at full opacity for members and DimAlpha for everything else
// while the highlight is engaged.
func (f *frame) dim(c color.NRGBA, member bool) color.NRGBA {
	if f.engaged && !member {
		return palette.Alpha(c, DimAlpha)
	}
	return c
}

func (f *frame) pointMember(id string) bool     { return f.hl != nil && f.hl.HasPoint(id) }
func (f *frame) lineMember(id string) bool      { return f.hl != nil && f.hl.HasLine(id) }
func (f *frame) structureMember(id string) bool { return f.hl != nil && f.hl.HasStructure(id) }

// anyPoint reports whether any of ids is highlighted; structures count as
// highlighted when one of their member points is.
func (f *frame) anyPoint(ids []string) bool {
	for _, id := range ids {
		if f.pointMember(id) {
			return true
		}
	}
	return false
}

// pulse oscillates in [0,1] with the given period, driven by the context
// clock.
func (f *frame) pulse(period time.Duration) float64 {
	if period <= 0 {
		return 1
	}
	phase := float64(f.now.UnixNano()%int64(period)) / float64(period)
	return 0.5 + 0.5*math.Sin(2*math.Pi*phase)
}

func (f *frame) positions(ids []string) []geom.Vec {
	pts := f.snap.ResolvePoints(ids)
	out := make([]geom.Vec, len(pts))
	for i, p := range pts {
		out[i] = f.of(p)
	}
	return out
}

func (f *frame) line(a, b geom.Vec, width float32, c color.NRGBA) {
	x1, y1 := a.F32()
	x2, y2 := b.F32()
	f.c.Line(x1, y1, x2, y2, width, c)
}

func (f *frame) polyline(pts []geom.Vec, width float32, c color.NRGBA, closed bool) {
	for i := 1; i < len(pts); i++ {
		f.line(pts[i-1], pts[i], width, c)
	}
	if closed && len(pts) > 2 {
		f.line(pts[len(pts)-1], pts[0], width, c)
	}
}

func (f *frame) dashed(a, b geom.Vec, dash float64, width float32, c color.NRGBA) {
	d := b.Sub(a)
	n := int(d.Len() / dash)
	if n < 1 {
		f.line(a, b, width, c)
		return
	}
	for i := 0; i < n; i += 2 {
		t0 := float64(i) / float64(n)
		t1 := math.Min(float64(i+1)/float64(n), 1)
		f.line(a.Lerp(b, t0), a.Lerp(b, t1), width, c)
	}
}

func (f *frame) circle(center geom.Vec, r float64, c color.NRGBA) {
	x, y := center.F32()
	f.c.FillCircle(x, y, float32(r), c)
}

func (f *frame) ring(center geom.Vec, r float64, width float32, c color.NRGBA) {
	x, y := center.F32()
	f.c.StrokeCircle(x, y, float32(r), width, c)
}

// layer is one pass of the fixed draw order. present reports whether the
// layer has anything to draw; absent layers are skipped entirely.
type layer struct {
	name    string
	present func(f *frame) bool
	draw    func(f *frame)
}

var layers = []layer{
	{"grid", func(f *frame) bool { return f.snap.GridSize > 0 }, drawGrid},
	{"territories", func(f *frame) bool { return len(f.snap.Territories) > 0 }, drawTerritories},
	{"monoliths", func(f *frame) bool { return len(f.snap.Monoliths) > 0 }, drawMonoliths},
	{"trebuchets", func(f *frame) bool { return len(f.snap.Trebuchets) > 0 }, drawTrebuchets},
	{"prisms", func(f *frame) bool { return len(f.snap.Prisms) > 0 }, drawPrisms},
	{"runes", func(f *frame) bool { return len(f.snap.Runes) > 0 }, drawRunes},
	{"nexuses", func(f *frame) bool { return len(f.snap.Nexuses) > 0 }, drawNexuses},
	{"heartwoods", func(f *frame) bool { return len(f.snap.Heartwoods) > 0 }, drawHeartwoods},
	{"wonders", func(f *frame) bool { return len(f.snap.Wonders) > 0 }, drawWonders},
	{"rift_spires", func(f *frame) bool { return len(f.snap.RiftSpires) > 0 }, drawRiftSpires},
	{"rift_traps", func(f *frame) bool { return len(f.snap.RiftTraps) > 0 }, drawRiftTraps},
	{"fissures", func(f *frame) bool { return len(f.snap.Fissures) > 0 }, drawFissures},
	{"barricades", func(f *frame) bool { return len(f.snap.Barricades) > 0 }, drawBarricades},
	{"scorched_zones", func(f *frame) bool { return len(f.snap.ScorchedZones) > 0 }, drawScorchedZones},
	{"ley_lines", func(f *frame) bool { return len(f.snap.LeyLines) > 0 }, drawLeyLines},
	{"lines", func(f *frame) bool { return len(f.snap.Lines) > 0 }, drawLines},
	{"points", func(f *frame) bool { return len(f.snap.Points) > 0 }, drawPoints},
	{"hulls", func(f *frame) bool {
		return f.snap.Phase == snapshot.PhaseFinished && f.ctx.Debug.ShowHulls && len(f.snap.Points) > 0
	}, drawHulls},
}

// LayerNames lists the static layers in draw order. Effects and setup
// overlays always draw after them.
func LayerNames() []string {
	out := make([]string, len(layers))
	for i, l := range layers {
		out[i] = l.name
	}
	return out
}

// Render redraws everything: background, static layers in their fixed order,
// setup overlays, then effects on top. It never mutates snap and never
// schedules effects.
func (r *Renderer) Render(c Canvas, snap *snapshot.Snapshot, ctx *fx.Context) {
	w, h := c.Size()
	c.FillRect(0, 0, float32(w), float32(h), background)
	if ctx == nil {
		ctx = fx.NewContext(nil)
	}
	if snap == nil {
		snap = &snapshot.Snapshot{}
	}
	cell := r.cellSize
	if cell <= 0 && snap.GridSize > 0 {
		cell = float64(r.width) / float64(snap.GridSize)
	}
	f := &frame{
		c:       c,
		snap:    snap,
		ctx:     ctx,
		cell:    cell,
		now:     ctx.Now(),
		hl:      ctx.Highlight,
		engaged: ctx.Highlight.Engaged(ctx.Debug.HighlightLastAction),
	}
	for _, l := range layers {
		if l.present(f) {
			l.draw(f)
		}
	}
	if snap.Phase == snapshot.PhaseSetup {
		drawStagedPoints(f)
	}
	drawLabels(f)
	drawEffects(f)
}
