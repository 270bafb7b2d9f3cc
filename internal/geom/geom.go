// Package geom converts grid coordinates to canvas pixels and provides the
// small amount of planar geometry the renderer needs.
package geom

import (
	"math"
	"sort"

	"github.com/Garsondee/linewar-client/internal/snapshot"
)

// Vec is a pixel-space position.
type Vec struct {
	X, Y float64
}

func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Scale(k float64) Vec { return Vec{v.X * k, v.Y * k} }
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }
func (v Vec) Lerp(o Vec, t float64) Vec {
	return Vec{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

// F32 returns the components as float32 for vector drawing calls.
func (v Vec) F32() (float32, float32) { return float32(v.X), float32(v.Y) }

// CellCenter maps grid cell (x,y) to the pixel centre of that cell.
func CellCenter(c snapshot.Coord, cellSize float64) Vec {
	return Vec{X: (c.X + 0.5) * cellSize, Y: (c.Y + 0.5) * cellSize}
}

// PointCenter is CellCenter for a point.
func PointCenter(p snapshot.Point, cellSize float64) Vec {
	return CellCenter(p.Coord(), cellSize)
}

// Centroid returns the arithmetic mean of vs, or the zero vector for none.
func Centroid(vs []Vec) Vec {
	if len(vs) == 0 {
		return Vec{}
	}
	var c Vec
	for _, v := range vs {
		c = c.Add(v)
	}
	return c.Scale(1 / float64(len(vs)))
}

// Midpoint of a and b.
func Midpoint(a, b Vec) Vec { return a.Lerp(b, 0.5) }

// ConvexHull returns the hull of vs in counter-clockwise order (monotone
// chain). Collinear points are dropped. Fewer than three distinct inputs are
// returned as-is after sorting.
func ConvexHull(vs []Vec) []Vec {
	pts := make([]Vec, len(vs))
	copy(pts, vs)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})
	pts = dedupe(pts)
	if len(pts) < 3 {
		return pts
	}
	cross := func(o, a, b Vec) float64 {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}
	hull := make([]Vec, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

func dedupe(sorted []Vec) []Vec {
	if len(sorted) == 0 {
		return sorted
	}
	out := sorted[:1]
	for _, p := range sorted[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}

// Perp returns the unit perpendicular of the segment a→b, or zero for a
// degenerate segment.
func Perp(a, b Vec) Vec {
	d := b.Sub(a)
	l := d.Len()
	if l < 1e-9 {
		return Vec{}
	}
	return Vec{-d.Y / l, d.X / l}
}
