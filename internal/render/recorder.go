package render

import (
	"fmt"
	"image/color"

	"github.com/Garsondee/linewar-client/internal/geom"
)

// Op is one recorded draw call.
type Op struct {
	Kind  string
	Args  []float32
	Color color.NRGBA
	Text  string
}

func (o Op) String() string {
	if o.Text != "" {
		return fmt.Sprintf("%s %q %v %v", o.Kind, o.Text, o.Args, o.Color)
	}
	return fmt.Sprintf("%s %v %v", o.Kind, o.Args, o.Color)
}

// Recorder is a Canvas that stores draw calls instead of rasterising them.
// Tests compare recorded sequences; the headless replay tool counts them.
type Recorder struct {
	W, H int
	Ops  []Op
}

// NewRecorder creates a recorder reporting the given size.
func NewRecorder(w, h int) *Recorder {
	return &Recorder{W: w, H: h}
}

func (r *Recorder) Size() (int, int) { return r.W, r.H }

func (r *Recorder) add(kind string, c color.NRGBA, args ...float32) {
	r.Ops = append(r.Ops, Op{Kind: kind, Args: args, Color: c})
}

func (r *Recorder) FillRect(x, y, w, h float32, c color.NRGBA) {
	r.add("fill_rect", c, x, y, w, h)
}

func (r *Recorder) StrokeRect(x, y, w, h, width float32, c color.NRGBA) {
	r.add("stroke_rect", c, x, y, w, h, width)
}

func (r *Recorder) Line(x1, y1, x2, y2, width float32, c color.NRGBA) {
	r.add("line", c, x1, y1, x2, y2, width)
}

func (r *Recorder) FillCircle(cx, cy, rad float32, c color.NRGBA) {
	r.add("fill_circle", c, cx, cy, rad)
}

func (r *Recorder) StrokeCircle(cx, cy, rad, width float32, c color.NRGBA) {
	r.add("stroke_circle", c, cx, cy, rad, width)
}

func (r *Recorder) FillPolygon(pts []geom.Vec, c color.NRGBA) {
	args := make([]float32, 0, 2*len(pts))
	for _, p := range pts {
		x, y := p.F32()
		args = append(args, x, y)
	}
	r.add("fill_polygon", c, args...)
}

func (r *Recorder) Text(s string, x, y float32, c color.NRGBA) {
	r.Ops = append(r.Ops, Op{Kind: "text", Args: []float32{x, y}, Color: c, Text: s})
}

// Reset drops all recorded calls.
func (r *Recorder) Reset() { r.Ops = r.Ops[:0] }

// Count returns how many calls of kind were recorded.
func (r *Recorder) Count(kind string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Texts returns every recorded label in draw order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Ops {
		if op.Kind == "text" {
			out = append(out, op.Text)
		}
	}
	return out
}
