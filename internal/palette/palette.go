// Package palette resolves team colours and derives the tints used for
// highlighting, glows and fades.
package palette

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Garsondee/linewar-client/internal/snapshot"
)

// Neutral is used for entities whose team is unknown.
var Neutral = color.NRGBA{R: 150, G: 150, B: 150, A: 255}

var white = colorful.Color{R: 1, G: 1, B: 1}

// Parse converts "#rrggbb" or "#rgb" to an opaque colour, falling back to
// Neutral for anything else.
func Parse(hex string) color.NRGBA {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Neutral
	}
	return fromColorful(c, 255)
}

// Team returns the colour of teamID in s.
func Team(s *snapshot.Snapshot, teamID string) color.NRGBA {
	t, ok := s.Team(teamID)
	if !ok {
		return Neutral
	}
	return Parse(t.Color)
}

// Alpha returns c with its alpha multiplied by a (clamped to [0,1]).
func Alpha(c color.NRGBA, a float64) color.NRGBA {
	a = clamp01(a)
	c.A = uint8(float64(c.A)*a + 0.5)
	return c
}

// Lighten blends c toward white in Lab space by t. Glow halos use it so
// dark team colours still read against the background.
func Lighten(c color.NRGBA, t float64) color.NRGBA {
	cc := toColorful(c)
	return fromColorful(cc.BlendLab(white, clamp01(t)).Clamped(), c.A)
}

// Blend mixes a toward b by t in Lab space; alpha is interpolated linearly.
func Blend(a, b color.NRGBA, t float64) color.NRGBA {
	t = clamp01(t)
	switch t {
	case 0:
		return a
	case 1:
		return b
	}
	out := toColorful(a).BlendLab(toColorful(b), t).Clamped()
	alpha := float64(a.A) + (float64(b.A)-float64(a.A))*t
	return fromColorful(out, uint8(alpha+0.5))
}

func toColorful(c color.NRGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(c colorful.Color, a uint8) color.NRGBA {
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
