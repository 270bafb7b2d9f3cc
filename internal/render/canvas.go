// Package render draws a snapshot plus the live effect state onto a 2D
// canvas, layer by layer.
package render

import (
	"image/color"

	"github.com/Garsondee/linewar-client/internal/geom"
)

// Canvas is the drawing surface. Coordinates are canvas pixels.
type Canvas interface {
	Size() (w, h int)
	FillRect(x, y, w, h float32, c color.NRGBA)
	StrokeRect(x, y, w, h, width float32, c color.NRGBA)
	Line(x1, y1, x2, y2, width float32, c color.NRGBA)
	FillCircle(cx, cy, r float32, c color.NRGBA)
	StrokeCircle(cx, cy, r, width float32, c color.NRGBA)
	FillPolygon(pts []geom.Vec, c color.NRGBA)
	Text(s string, x, y float32, c color.NRGBA)
}
