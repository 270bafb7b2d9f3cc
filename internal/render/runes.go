package render

import (
	"image/color"
	"sort"

	"github.com/Garsondee/linewar-client/internal/geom"
	"github.com/Garsondee/linewar-client/internal/palette"
)

// RuneKind is the closed set of rune formations the client can draw.
type RuneKind int

const (
	RuneUnknown RuneKind = iota
	RuneCross
	RuneV
	RuneShield
	RuneHourglass
	RuneTrident
	RuneT
	RuneStar
	RuneParallel
	RunePlus
	runeKindCount
)

var runeTags = [runeKindCount]string{
	RuneCross:     "cross",
	RuneV:         "v_shape",
	RuneShield:    "shield",
	RuneHourglass: "hourglass",
	RuneTrident:   "trident",
	RuneT:         "t_shape",
	RuneStar:      "star",
	RuneParallel:  "parallel",
	RunePlus:      "plus",
}

// ParseRuneKind maps a wire kind to a RuneKind; unknown kinds return
// RuneUnknown and are not drawn.
func ParseRuneKind(s string) RuneKind {
	for k := RuneKind(1); k < runeKindCount; k++ {
		if runeTags[k] == s {
			return k
		}
	}
	return RuneUnknown
}

func (k RuneKind) String() string {
	if k <= RuneUnknown || k >= runeKindCount {
		return "unknown"
	}
	return runeTags[k]
}

type runeDrawer func(f *frame, pts []geom.Vec, c color.NRGBA)

var runeDrawers = [runeKindCount]runeDrawer{
	RuneUnknown:   nil,
	RuneCross:     drawRuneSpokes,
	RuneV:         drawRuneOpen,
	RuneShield:    drawRuneClosed,
	RuneHourglass: drawRuneHourglass,
	RuneTrident:   drawRuneSpokes,
	RuneT:         drawRuneSpokes,
	RuneStar:      drawRuneStar,
	RuneParallel:  drawRunePairs,
	RunePlus:      drawRuneSpokes,
}

func drawRunes(f *frame) {
	for _, team := range sortedKeys(f.snap.Runes) {
		for _, r := range f.snap.Runes[team] {
			draw := runeDrawers[ParseRuneKind(r.Kind)]
			if draw == nil {
				continue
			}
			pts := f.positions(r.PointIDs)
			if len(pts) < 2 {
				continue
			}
			teamID := r.TeamID
			if teamID == "" {
				teamID = team
			}
			member := f.structureMember(r.ID) || f.anyPoint(r.PointIDs)
			c := palette.Alpha(palette.Lighten(f.dim(f.team(teamID), member), 0.35), 0.55)
			draw(f, pts, c)
		}
	}
}

// drawRuneSpokes joins every member point to the formation centre.
func drawRuneSpokes(f *frame, pts []geom.Vec, c color.NRGBA) {
	center := geom.Centroid(pts)
	for _, p := range pts {
		f.dashed(center, p, f.cell*0.2, 1.5, c)
	}
	f.ring(center, f.cell*0.3, 1, c)
}

func drawRuneOpen(f *frame, pts []geom.Vec, c color.NRGBA) {
	f.polyline(pts, 1.5, c, false)
}

func drawRuneClosed(f *frame, pts []geom.Vec, c color.NRGBA) {
	hull := geom.ConvexHull(pts)
	if len(hull) >= 3 {
		f.c.FillPolygon(hull, palette.Alpha(c, 0.3))
	}
	f.polyline(hull, 1.5, c, true)
}

// drawRuneHourglass crosses the two halves of the formation.
func drawRuneHourglass(f *frame, pts []geom.Vec, c color.NRGBA) {
	f.polyline(pts, 1.5, c, true)
	if len(pts) >= 4 {
		f.line(pts[0], pts[2], 1, c)
		f.line(pts[1], pts[3], 1, c)
	}
}

func drawRuneStar(f *frame, pts []geom.Vec, c color.NRGBA) {
	n := len(pts)
	for i := range pts {
		f.line(pts[i], pts[(i+2)%n], 1.2, c)
	}
}

func drawRunePairs(f *frame, pts []geom.Vec, c color.NRGBA) {
	for i := 0; i+1 < len(pts); i += 2 {
		f.line(pts[i], pts[i+1], 2, c)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
