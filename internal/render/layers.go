package render

import (
	"image/color"
	"math"
	"sort"
	"time"

	"github.com/Garsondee/linewar-client/internal/geom"
	"github.com/Garsondee/linewar-client/internal/palette"
)

var (
	scorchFill   = color.NRGBA{R: 110, G: 50, B: 20, A: 90}
	scorchEdge   = color.NRGBA{R: 160, G: 80, B: 30, A: 200}
	fissureColor = color.NRGBA{R: 12, G: 10, B: 8, A: 255}
	fissureEdge  = color.NRGBA{R: 120, G: 90, B: 60, A: 220}
	riftColor    = color.NRGBA{R: 170, G: 80, B: 230, A: 255}
)

// drawGrid rules every cell, with a heavier line every fifth cell.
func drawGrid(f *frame) {
	n := f.snap.GridSize
	span := float32(f.cell * float64(n))
	for i := 0; i <= n; i++ {
		c := gridMinor
		if i%5 == 0 {
			c = gridMajor
		}
		p := float32(f.cell * float64(i))
		f.c.Line(p, 0, p, span, 1, c)
		f.c.Line(0, p, span, p, 1, c)
	}
}

func drawTerritories(f *frame) {
	for _, t := range f.snap.Territories {
		pts := f.positions(t.PointIDs)
		if len(pts) < 3 {
			continue
		}
		member := f.structureMember(t.ID) || f.anyPoint(t.PointIDs)
		c := f.dim(f.team(t.TeamID), member)
		f.c.FillPolygon(pts, palette.Alpha(c, 0.25))
	}
}

func drawMonoliths(f *frame) {
	for _, m := range f.snap.Monoliths {
		member := f.structureMember(m.ID) || f.anyPoint(m.PointIDs)
		c := f.dim(f.team(m.TeamID), member)
		center := f.at(m.CenterCoords)
		hw := float32(f.cell * 0.35)
		hh := float32(f.cell * 0.9)
		x, y := center.F32()
		f.c.FillRect(x-hw, y-hh, 2*hw, 2*hh, palette.Alpha(c, 0.5))
		f.c.StrokeRect(x-hw, y-hh, 2*hw, 2*hh, 1.5, palette.Lighten(c, 0.3))
		f.polyline(f.positions(m.PointIDs), 1, palette.Alpha(c, 0.35), true)
		// One notch per stored charge.
		for i := 0; i < m.ChargeCount; i++ {
			ny := y + hh - float32(i+1)*float32(f.cell*0.25)
			f.c.Line(x-hw*0.6, ny, x+hw*0.6, ny, 1, palette.Lighten(c, 0.6))
		}
	}
}

func drawTrebuchets(f *frame) {
	for _, t := range f.snap.Trebuchets {
		pts := f.positions(t.PointIDs)
		if len(pts) < 2 {
			continue
		}
		member := f.structureMember(t.ID) || f.anyPoint(t.PointIDs)
		c := f.dim(f.team(t.TeamID), member)
		f.polyline(pts, 2, palette.Alpha(c, 0.6), true)
		if apex, ok := f.snap.Point(t.ApexID); ok {
			base := geom.Centroid(pts)
			f.line(base, f.of(apex), 3, palette.Lighten(c, 0.2))
		}
	}
}

func drawPrisms(f *frame) {
	for _, p := range f.snap.Prisms {
		pts := f.positions(p.PointIDs)
		if len(pts) < 3 {
			continue
		}
		member := f.structureMember(p.ID) || f.anyPoint(p.PointIDs)
		c := f.dim(f.team(p.TeamID), member)
		f.c.FillPolygon(pts, palette.Alpha(palette.Lighten(c, 0.5), 0.3))
		f.polyline(pts, 1.5, palette.Lighten(c, 0.4), true)
	}
}

func drawNexuses(f *frame) {
	for _, n := range f.snap.Nexuses {
		member := f.structureMember(n.ID) || f.anyPoint(n.PointIDs)
		c := f.dim(f.team(n.TeamID), member)
		center := f.at(n.CenterCoords)
		r := f.cell * 0.8
		if n.IsAttuned {
			r *= 1 + 0.15*f.pulse(1500*time.Millisecond)
			f.circle(center, r*1.4, palette.Alpha(c, 0.15))
		}
		f.ring(center, r, 2, c)
		for _, p := range f.positions(n.PointIDs) {
			f.line(center, p, 1, palette.Alpha(c, 0.3))
		}
	}
}

// drawHeartwoods grows the canopy with the growth counter.
func drawHeartwoods(f *frame) {
	for _, h := range f.snap.Heartwoods {
		c := f.dim(f.team(h.TeamID), f.structureMember(h.ID))
		center := f.at(h.CenterCoords)
		r := f.cell * (0.6 + 0.1*math.Min(float64(h.GrowthCounter), 5))
		f.circle(center, r*1.6, palette.Alpha(c, 0.12))
		f.circle(center, r, palette.Alpha(c, 0.7))
		for i := 0; i < 6; i++ {
			a := float64(i) * math.Pi / 3
			tip := center.Add(geom.Vec{X: math.Cos(a), Y: math.Sin(a)}.Scale(r * 1.5))
			f.line(center, tip, 1.5, palette.Lighten(c, 0.3))
		}
	}
}

func drawWonders(f *frame) {
	for _, w := range f.snap.Wonders {
		c := f.dim(f.team(w.TeamID), f.structureMember(w.ID))
		center := f.at(w.Coords)
		r := f.cell * 1.2
		glow := 0.2 + 0.2*f.pulse(2*time.Second)
		f.circle(center, r*1.5, palette.Alpha(palette.Lighten(c, 0.5), glow))
		f.c.FillPolygon(star(center, r, r*0.45, 5), c)
	}
}

func drawRiftSpires(f *frame) {
	for _, s := range f.snap.RiftSpires {
		member := f.structureMember(s.ID) || f.pointMember(s.PointID)
		c := f.dim(f.team(s.TeamID), member)
		center := f.at(s.Coords)
		r := f.cell * 0.7
		f.c.FillPolygon(diamond(center, r*0.6, r*1.3), palette.Alpha(c, 0.8))
		if s.Charged {
			f.ring(center, r*(1+0.2*f.pulse(time.Second)), 2, f.dim(riftColor, member))
		}
	}
}

func drawRiftTraps(f *frame) {
	for _, t := range f.snap.RiftTraps {
		c := f.dim(riftColor, f.structureMember(t.ID))
		center := f.at(t.Coords)
		r := f.cell * 0.5
		f.ring(center, r, 1.5, palette.Alpha(c, 0.6))
		f.ring(center, r*0.5, 1, palette.Alpha(c, 0.4))
	}
}

func drawFissures(f *frame) {
	for _, fi := range f.snap.Fissures {
		member := f.structureMember(fi.ID)
		a, b := f.at(fi.P1), f.at(fi.P2)
		f.line(a, b, float32(f.cell*0.3), f.dim(fissureEdge, member))
		f.line(a, b, float32(f.cell*0.15), f.dim(fissureColor, member))
	}
}

func drawBarricades(f *frame) {
	for _, b := range f.snap.Barricades {
		c := f.dim(f.team(b.TeamID), f.structureMember(b.ID))
		p1, p2 := f.at(b.P1), f.at(b.P2)
		f.line(p1, p2, float32(f.cell*0.25), palette.Alpha(c, 0.7))
		f.dashed(p1, p2, f.cell*0.3, 1, palette.Lighten(c, 0.5))
	}
}

func drawScorchedZones(f *frame) {
	for _, z := range f.snap.ScorchedZones {
		if len(z.Polygon) < 3 {
			continue
		}
		member := f.structureMember(z.ID)
		pts := make([]geom.Vec, len(z.Polygon))
		for i, c := range z.Polygon {
			pts[i] = f.at(c)
		}
		f.c.FillPolygon(pts, f.dim(scorchFill, member))
		f.polyline(pts, 1, f.dim(scorchEdge, member), true)
	}
}

func drawLeyLines(f *frame) {
	for _, l := range f.snap.LeyLines {
		pts := f.positions(l.PointIDs)
		if len(pts) < 2 {
			continue
		}
		c := f.dim(f.team(l.TeamID), f.structureMember(l.ID))
		f.polyline(pts, float32(f.cell*0.3), palette.Alpha(palette.Lighten(c, 0.4), 0.25), false)
		f.polyline(pts, 1, palette.Lighten(c, 0.5), false)
	}
}

// drawHulls outlines each team's convex hull; only reached once the game has
// finished and the hull toggle is on.
func drawHulls(f *frame) {
	for _, team := range f.snap.TeamIDs() {
		pts := f.snap.TeamPoints(team)
		vs := make([]geom.Vec, len(pts))
		for i, p := range pts {
			vs[i] = f.of(p)
		}
		hull := geom.ConvexHull(vs)
		if len(hull) < 3 {
			continue
		}
		c := f.team(team)
		f.c.FillPolygon(hull, palette.Alpha(c, 0.1))
		f.polyline(hull, 2, palette.Alpha(c, 0.8), true)
	}
}

// drawStagedPoints shows points placed during setup that the server has not
// accepted yet.
func drawStagedPoints(f *frame) {
	setup := &f.ctx.Setup
	for _, sp := range setup.Points {
		c := palette.Neutral
		if t, ok := setup.Team(sp.TeamID); ok {
			c = palette.Parse(t.Color)
		}
		center := geom.CellCenter(coordOf(sp.X, sp.Y), f.cell)
		r := f.cell * 0.3
		f.circle(center, r, palette.Alpha(c, 0.6))
		f.ring(center, r, 1, c)
	}
}

// drawLabels prints point and line ids when the debug toggles ask for them.
func drawLabels(f *frame) {
	dbg := f.ctx.Debug
	if dbg.ShowPointIDs {
		for _, id := range f.snap.PointIDs() {
			p := f.snap.Points[id]
			x, y := f.of(p).F32()
			f.c.Text(id, x+float32(f.cell*0.3), y-float32(f.cell*0.5), labelColor)
		}
	}
	if dbg.ShowLineIDs {
		ids := make([]string, 0, len(f.snap.Lines))
		mids := make(map[string]geom.Vec, len(f.snap.Lines))
		for _, l := range f.snap.Lines {
			p1, p2, ok := f.snap.LineEndpoints(l)
			if !ok {
				continue
			}
			ids = append(ids, l.ID)
			mids[l.ID] = geom.Midpoint(f.of(p1), f.of(p2))
		}
		sort.Strings(ids)
		for _, id := range ids {
			x, y := mids[id].F32()
			f.c.Text(id, x, y, palette.Alpha(labelColor, 0.8))
		}
	}
}

func star(center geom.Vec, outer, inner float64, spikes int) []geom.Vec {
	out := make([]geom.Vec, 0, spikes*2)
	for i := 0; i < spikes*2; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := -math.Pi/2 + float64(i)*math.Pi/float64(spikes)
		out = append(out, center.Add(geom.Vec{X: math.Cos(a) * r, Y: math.Sin(a) * r}))
	}
	return out
}

func diamond(center geom.Vec, hw, hh float64) []geom.Vec {
	return []geom.Vec{
		{X: center.X, Y: center.Y - hh},
		{X: center.X + hw, Y: center.Y},
		{X: center.X, Y: center.Y + hh},
		{X: center.X - hw, Y: center.Y},
	}
}

func regular(center geom.Vec, r float64, sides int, rot float64) []geom.Vec {
	out := make([]geom.Vec, sides)
	for i := range out {
		a := rot + float64(i)*2*math.Pi/float64(sides)
		out[i] = center.Add(geom.Vec{X: math.Cos(a) * r, Y: math.Sin(a) * r})
	}
	return out
}
