package render

import (
	"image/color"
	"math"
	"time"

	"github.com/Garsondee/linewar-client/internal/geom"
	"github.com/Garsondee/linewar-client/internal/palette"
	"github.com/Garsondee/linewar-client/internal/snapshot"
)

// ShapeKind selects how a point is drawn.
type ShapeKind int

const (
	ShapeCircle ShapeKind = iota
	ShapeBastionCore
	ShapePurifier
	ShapeSentryEye
	ShapeBastionProng
	ShapeMonolith
	ShapeFortified
	ShapeSentryPost
	ShapeTrebuchet
	ShapeAnchor
	ShapeNexus
	shapeKindCount
)

var shapeNames = [shapeKindCount]string{
	"circle", "bastion_core", "purifier", "sentry_eye", "bastion_prong",
	"monolith", "fortified", "sentry_post", "trebuchet", "anchor", "nexus",
}

func (k ShapeKind) String() string {
	if k < 0 || k >= shapeKindCount {
		return "unknown"
	}
	return shapeNames[k]
}

// ShapeFor picks one shape for a point carrying any number of capability
// flags. The first matching flag in priority order wins.
func ShapeFor(p snapshot.Point) ShapeKind {
	switch {
	case p.IsBastionCore:
		return ShapeBastionCore
	case p.IsPurifierPoint:
		return ShapePurifier
	case p.IsSentryEye:
		return ShapeSentryEye
	case p.IsBastionProng:
		return ShapeBastionProng
	case p.IsMonolithPoint:
		return ShapeMonolith
	case p.IsFortified:
		return ShapeFortified
	case p.IsSentryPost:
		return ShapeSentryPost
	case p.IsTrebuchet:
		return ShapeTrebuchet
	case p.IsAnchor:
		return ShapeAnchor
	case p.IsNexusPoint:
		return ShapeNexus
	}
	return ShapeCircle
}

type shapeDrawer func(f *frame, center geom.Vec, r float64, c color.NRGBA)

var shapeDrawers = [shapeKindCount]shapeDrawer{
	ShapeCircle: func(f *frame, center geom.Vec, r float64, c color.NRGBA) {
		f.circle(center, r, c)
	},
	ShapeBastionCore: func(f *frame, center geom.Vec, r float64, c color.NRGBA) {
		sq := square(center, r*1.3)
		f.c.FillPolygon(sq, c)
		f.polyline(sq, 2, palette.Lighten(c, 0.6), true)
	},
	ShapePurifier: func(f *frame, center geom.Vec, r float64, c color.NRGBA) {
		f.c.FillPolygon(star(center, r*1.4, r*0.7, 4), c)
		f.circle(center, r*0.35, palette.Lighten(c, 0.8))
	},
	ShapeSentryEye: func(f *frame, center geom.Vec, r float64, c color.NRGBA) {
		f.circle(center, r*1.1, c)
		f.circle(center, r*0.45, palette.Lighten(c, 0.9))
		f.ring(center, r*1.5, 1, palette.Alpha(c, 0.6))
	},
	ShapeBastionProng: func(f *frame, center geom.Vec, r float64, c color.NRGBA) {
		f.c.FillPolygon(square(center, r), c)
	},
	ShapeMonolith: func(f *frame, center geom.Vec, r float64, c color.NRGBA) {
		x, y := center.F32()
		w, h := float32(r*0.8), float32(r*1.6)
		f.c.FillRect(x-w/2, y-h/2, w, h, c)
	},
	ShapeFortified: func(f *frame, center geom.Vec, r float64, c color.NRGBA) {
		f.circle(center, r, c)
		f.ring(center, r*1.4, 2, palette.Lighten(c, 0.4))
	},
	ShapeSentryPost: func(f *frame, center geom.Vec, r float64, c color.NRGBA) {
		f.c.FillPolygon(diamond(center, r*0.8, r*1.2), c)
	},
	ShapeTrebuchet: func(f *frame, center geom.Vec, r float64, c color.NRGBA) {
		f.c.FillPolygon(regular(center, r*1.2, 3, -math.Pi/2), c)
	},
	ShapeAnchor: func(f *frame, center geom.Vec, r float64, c color.NRGBA) {
		f.circle(center, r, c)
		f.ring(center, r*1.6, 1.5, palette.Alpha(c, 0.7))
		f.ring(center, r*2.1, 1, palette.Alpha(c, 0.35))
	},
	ShapeNexus: func(f *frame, center geom.Vec, r float64, c color.NRGBA) {
		f.c.FillPolygon(regular(center, r*1.2, 6, 0), c)
	},
}

func square(center geom.Vec, half float64) []geom.Vec {
	return []geom.Vec{
		{X: center.X - half, Y: center.Y - half},
		{X: center.X + half, Y: center.Y - half},
		{X: center.X + half, Y: center.Y + half},
		{X: center.X - half, Y: center.Y + half},
	}
}

func coordOf(x, y int) snapshot.Coord {
	return snapshot.Coord{X: float64(x), Y: float64(y)}
}

// glowPeriod drives the breathing halo on highlighted entities.
const glowPeriod = 1200 * time.Millisecond

// drawLines strokes every line whose endpoints both exist. Strength thickens
// the stroke; shields and bastion walls get an outer band.
func drawLines(f *frame) {
	for _, l := range f.snap.Lines {
		p1, p2, ok := f.snap.LineEndpoints(l)
		if !ok {
			continue
		}
		member := f.lineMember(l.ID)
		base := f.team(l.TeamID)
		c := f.dim(base, member)
		a, b := f.of(p1), f.of(p2)
		width := float32(2 + l.Strength)
		if f.engaged && member {
			glow := 0.25 + 0.25*f.pulse(glowPeriod)
			f.line(a, b, width+6, palette.Alpha(palette.Lighten(base, 0.5), glow))
		}
		if l.IsShielded {
			f.line(a, b, width+4, palette.Alpha(palette.Lighten(c, 0.7), 0.45))
		}
		if l.IsBastionLine {
			f.line(a, b, width+2, palette.Alpha(palette.Lighten(c, 0.2), 0.6))
		}
		f.line(a, b, width, c)
	}
}

// drawPoints draws every point in stable id order using its shape.
func drawPoints(f *frame) {
	r := f.cell * 0.25
	for _, id := range f.snap.PointIDs() {
		p := f.snap.Points[id]
		member := f.pointMember(id)
		base := f.team(p.TeamID)
		c := f.dim(base, member)
		center := f.of(p)
		if f.engaged && member {
			glow := 0.3 + 0.3*f.pulse(glowPeriod)
			f.circle(center, r*2.4, palette.Alpha(palette.Lighten(base, 0.5), glow))
		}
		shapeDrawers[ShapeFor(p)](f, center, r, c)
		if p.IsIsolated {
			rr := r * 1.9
			for i := 0; i < 8; i += 2 {
				a0 := float64(i) * math.Pi / 4
				a1 := float64(i+1) * math.Pi / 4
				f.line(
					center.Add(geom.Vec{X: math.Cos(a0) * rr, Y: math.Sin(a0) * rr}),
					center.Add(geom.Vec{X: math.Cos(a1) * rr, Y: math.Sin(a1) * rr}),
					1, palette.Alpha(c, 0.7))
			}
		}
		if p.IsStasis {
			f.ring(center, r*1.7, 2, f.dim(color.NRGBA{R: 180, G: 220, B: 255, A: 220}, member))
		}
	}
}
