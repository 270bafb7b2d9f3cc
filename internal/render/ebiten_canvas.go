package render

import (
	"bytes"
	"image/color"
	"log"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/Garsondee/linewar-client/internal/geom"
)

// LabelSize is the point size of debug id labels.
const LabelSize = 10

var (
	faceOnce sync.Once
	faceSrc  *text.GoTextFaceSource
)

func labelFace() *text.GoTextFace {
	faceOnce.Do(func() {
		src, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
		if err != nil {
			log.Printf("render: label font: %v", err)
			return
		}
		faceSrc = src
	})
	if faceSrc == nil {
		return nil
	}
	return &text.GoTextFace{Source: faceSrc, Size: LabelSize}
}

// EbitenCanvas draws onto an ebiten image with the vector package.
type EbitenCanvas struct {
	dst  *ebiten.Image
	face *text.GoTextFace
}

// NewEbitenCanvas wraps dst, normally the screen passed to Draw.
func NewEbitenCanvas(dst *ebiten.Image) *EbitenCanvas {
	return &EbitenCanvas{dst: dst, face: labelFace()}
}

func (c *EbitenCanvas) Size() (int, int) {
	b := c.dst.Bounds()
	return b.Dx(), b.Dy()
}

func (c *EbitenCanvas) FillRect(x, y, w, h float32, col color.NRGBA) {
	vector.FillRect(c.dst, x, y, w, h, col, false)
}

func (c *EbitenCanvas) StrokeRect(x, y, w, h, width float32, col color.NRGBA) {
	vector.StrokeRect(c.dst, x, y, w, h, width, col, false)
}

func (c *EbitenCanvas) Line(x1, y1, x2, y2, width float32, col color.NRGBA) {
	vector.StrokeLine(c.dst, x1, y1, x2, y2, width, col, true)
}

func (c *EbitenCanvas) FillCircle(cx, cy, r float32, col color.NRGBA) {
	if r <= 0 {
		return
	}
	vector.FillCircle(c.dst, cx, cy, r, col, true)
}

func (c *EbitenCanvas) StrokeCircle(cx, cy, r, width float32, col color.NRGBA) {
	if r <= 0 {
		return
	}
	vector.StrokeCircle(c.dst, cx, cy, r, width, col, true)
}

func (c *EbitenCanvas) FillPolygon(pts []geom.Vec, col color.NRGBA) {
	if len(pts) < 3 {
		return
	}
	var path vector.Path
	x, y := pts[0].F32()
	path.MoveTo(x, y)
	for _, p := range pts[1:] {
		x, y = p.F32()
		path.LineTo(x, y)
	}
	path.Close()

	op := &vector.DrawPathOptions{AntiAlias: true}
	op.ColorScale.ScaleWithColor(col)
	vector.FillPath(c.dst, &path, &vector.FillOptions{}, op)
}

func (c *EbitenCanvas) Text(s string, x, y float32, col color.NRGBA) {
	if c.face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(col)
	text.Draw(c.dst, s, c.face, op)
}
