package render

import (
	"image/color"
	"math"

	"github.com/Garsondee/linewar-client/internal/fx"
	"github.com/Garsondee/linewar-client/internal/geom"
	"github.com/Garsondee/linewar-client/internal/palette"
)

var (
	hotCore   = color.NRGBA{R: 255, G: 255, B: 230, A: 255}
	zapColor  = color.NRGBA{R: 200, G: 230, B: 255, A: 255}
	growColor = color.NRGBA{R: 120, G: 200, B: 90, A: 255}
)

type effectDrawer func(f *frame, p *fx.Payload, t float64)

var effectDrawers = [fx.NumEffectKinds]effectDrawer{
	fx.EffectLineAppear:      drawLineAppear,
	fx.EffectLineExtend:      drawLineAppear,
	fx.EffectLineFlash:       drawLineFlash,
	fx.EffectLineShield:      drawLineShield,
	fx.EffectLineStrengthen:  drawLineStrengthen,
	fx.EffectPointAppear:     drawPointAppear,
	fx.EffectPointExplosion:  drawExplosion,
	fx.EffectPointImplode:    drawImplode,
	fx.EffectPointMove:       drawPointMove,
	fx.EffectPointConvert:    drawPointConvert,
	fx.EffectRay:             drawRay,
	fx.EffectZap:             drawZap,
	fx.EffectProjectile:      drawProjectile,
	fx.EffectNova:            drawNova,
	fx.EffectPulseWave:       drawPulseWave,
	fx.EffectTerritoryFill:   drawTerritoryFill,
	fx.EffectTerritoryFade:   drawTerritoryFade,
	fx.EffectStructureAppear: drawStructureAppear,
	fx.EffectStructureFade:   drawStructureFade,
	fx.EffectMirrorAxis:      drawMirrorAxis,
	fx.EffectWhirlpool:       drawWhirlpool,
	fx.EffectRiftOpen:        drawRiftOpen,
	fx.EffectTrapTrigger:     drawTrapTrigger,
	fx.EffectTrapFade:        drawStructureFade,
	fx.EffectFissure:         drawFissureCrack,
	fx.EffectBarricade:       drawBarricadeRise,
	fx.EffectGrowth:          drawGrowth,
	fx.EffectLeyLineFade:     drawLeyLineFade,
}

// drawEffects draws every live record on top of the static layers, in
// insertion order.
func drawEffects(f *frame) {
	if f.ctx.Effects == nil {
		return
	}
	f.ctx.Effects.Each(f.now, func(rec *fx.Record, t float64) {
		if int(rec.Kind) < 0 || int(rec.Kind) >= len(effectDrawers) {
			return
		}
		if draw := effectDrawers[rec.Kind]; draw != nil {
			draw(f, &rec.Payload, t)
		}
	})
}

func fade(c color.NRGBA, t float64) color.NRGBA { return palette.Alpha(c, 1-t) }

// drawLineAppear grows the segment from From toward To.
func drawLineAppear(f *frame, p *fx.Payload, t float64) {
	tip := p.From.Lerp(p.To, t)
	f.line(p.From, tip, 3, p.Color)
	f.circle(tip, 3, palette.Lighten(p.Color, 0.7))
}

func drawLineFlash(f *frame, p *fx.Payload, t float64) {
	f.line(p.From, p.To, float32(4+6*t), fade(palette.Lighten(p.Color, 0.6), t))
	f.line(p.From, p.To, 1, fade(hotCore, t))
}

func drawLineShield(f *frame, p *fx.Payload, t float64) {
	a := math.Sin(t * math.Pi)
	f.line(p.From, p.To, 10, palette.Alpha(palette.Lighten(p.Color, 0.7), 0.5*a))
	// A bright band travels along the line.
	mid := p.From.Lerp(p.To, t)
	f.circle(mid, 5, palette.Alpha(hotCore, a))
}

func drawLineStrengthen(f *frame, p *fx.Payload, t float64) {
	a := math.Sin(t * math.Pi)
	f.line(p.From, p.To, float32(3+5*a), palette.Alpha(palette.Lighten(p.Color, 0.4), 0.7*a))
}

func drawPointAppear(f *frame, p *fx.Payload, t float64) {
	r := p.Radius * t
	f.circle(p.Center, r, palette.Alpha(p.Color, 0.5+0.5*t))
	f.ring(p.Center, p.Radius*(1+t), 1.5, fade(palette.Lighten(p.Color, 0.6), t))
}

// drawExplosion follows the gunfire bloom: concentric discs shrinking as they
// fade, with a hot core.
func drawExplosion(f *frame, p *fx.Payload, t float64) {
	k := 1 - t
	base := palette.Lighten(p.Color, 0.3)
	f.circle(p.Center, p.Radius*(0.6+0.8*t), palette.Alpha(base, 0.25*k))
	f.circle(p.Center, p.Radius*(0.4+0.5*t), palette.Alpha(base, 0.45*k))
	f.circle(p.Center, p.Radius*0.25*k, palette.Alpha(hotCore, 0.8*k))
}

func drawImplode(f *frame, p *fx.Payload, t float64) {
	pos := p.From.Lerp(p.To, t)
	f.circle(pos, p.Radius*(1-t), fade(p.Color, t*0.7))
	f.ring(pos, p.Radius*(2-t), 1, fade(palette.Lighten(p.Color, 0.5), t))
}

func drawPointMove(f *frame, p *fx.Payload, t float64) {
	pos := p.From.Lerp(p.To, t)
	f.dashed(p.From, pos, 4, 1, palette.Alpha(p.Color, 0.5*(1-t)))
	f.circle(pos, p.Radius, p.Color)
}

func drawPointConvert(f *frame, p *fx.Payload, t float64) {
	a := math.Sin(t * math.Pi)
	f.ring(p.Center, p.Radius*(1+0.5*t), 2, palette.Alpha(p.Color, a))
	f.circle(p.Center, p.Radius*0.5, palette.Alpha(palette.Lighten(p.Color, 0.5), a*0.6))
}

// drawRay shoots a beam head from From to To, leaving a fading trail.
func drawRay(f *frame, p *fx.Payload, t float64) {
	head := p.From.Lerp(p.To, t)
	f.line(p.From, head, 5, palette.Alpha(palette.Lighten(p.Color, 0.3), 0.35*(1-t*0.5)))
	f.line(p.From, head, 2, palette.Lighten(p.Color, 0.6))
	f.circle(head, 3, hotCore)
}

// drawZap jitters a lightning bolt between the two ends. The jitter is a
// function of progress, so frames are reproducible under a frozen clock.
func drawZap(f *frame, p *fx.Payload, t float64) {
	const segs = 6
	d := p.To.Sub(p.From)
	n := geom.Perp(p.From, p.To)
	amp := d.Len() * 0.06
	prev := p.From
	for i := 1; i <= segs; i++ {
		s := float64(i) / segs
		pt := p.From.Add(d.Scale(s))
		if i < segs {
			off := math.Sin(float64(i)*2.3+t*20) * amp
			pt = pt.Add(n.Scale(off))
		}
		f.line(prev, pt, 2, fade(zapColor, t))
		prev = pt
	}
}

// drawProjectile arcs a shot over the battlefield.
func drawProjectile(f *frame, p *fx.Payload, t float64) {
	pos := p.From.Lerp(p.To, t)
	height := p.From.Sub(p.To).Len() * 0.25
	pos.Y -= math.Sin(t*math.Pi) * height
	f.circle(pos, p.Radius*1.8, palette.Alpha(p.Color, 0.3))
	f.circle(pos, p.Radius, palette.Lighten(p.Color, 0.5))
}

func drawNova(f *frame, p *fx.Payload, t float64) {
	r := p.Radius * t
	f.circle(p.Center, r, palette.Alpha(palette.Lighten(p.Color, 0.5), 0.3*(1-t)))
	f.ring(p.Center, r, 3, fade(hotCore, t))
}

// drawPulseWave expands a ring outward, or collapses it inward when the
// payload is reversed.
func drawPulseWave(f *frame, p *fx.Payload, t float64) {
	k := t
	if p.Reverse {
		k = 1 - t
	}
	f.ring(p.Center, p.Radius*k, 2.5, fade(palette.Lighten(p.Color, 0.4), t))
	f.ring(p.Center, p.Radius*k*0.8, 1, fade(p.Color, t))
}

func drawTerritoryFill(f *frame, p *fx.Payload, t float64) {
	if len(p.Path) < 3 {
		return
	}
	f.c.FillPolygon(p.Path, palette.Alpha(p.Color, 0.45*t))
	f.polyline(p.Path, 2, palette.Alpha(palette.Lighten(p.Color, 0.5), 1-t), true)
}

func drawTerritoryFade(f *frame, p *fx.Payload, t float64) {
	if len(p.Path) < 3 {
		return
	}
	f.c.FillPolygon(p.Path, palette.Alpha(p.Color, 0.4*(1-t)))
}

func drawStructureAppear(f *frame, p *fx.Payload, t float64) {
	f.ring(p.Center, p.Radius*t, 2, palette.Alpha(palette.Lighten(p.Color, 0.5), 1-t*0.5))
	f.circle(p.Center, p.Radius*t, palette.Alpha(p.Color, 0.2*(1-t)))
}

func drawStructureFade(f *frame, p *fx.Payload, t float64) {
	f.circle(p.Center, p.Radius*(1-0.5*t), fade(palette.Alpha(p.Color, 0.4), t))
	f.ring(p.Center, p.Radius, 1.5, fade(p.Color, t))
}

// drawMirrorAxis extends the axis past both ends while it flickers.
func drawMirrorAxis(f *frame, p *fx.Payload, t float64) {
	d := p.To.Sub(p.From)
	ext := 1 + 2*t
	mid := geom.Midpoint(p.From, p.To)
	a := mid.Sub(d.Scale(ext / 2))
	b := mid.Add(d.Scale(ext / 2))
	f.dashed(a, b, 6, 1.5, palette.Alpha(palette.Lighten(p.Color, 0.6), math.Sin(t*math.Pi)))
}

func drawWhirlpool(f *frame, p *fx.Payload, t float64) {
	const arms = 4
	a := math.Sin(t * math.Pi)
	for i := 0; i < arms; i++ {
		base := t*4*math.Pi + float64(i)*2*math.Pi/arms
		prev := p.Center
		for s := 1; s <= 8; s++ {
			frac := float64(s) / 8
			ang := base + frac*math.Pi
			pt := p.Center.Add(geom.Vec{X: math.Cos(ang), Y: math.Sin(ang)}.Scale(p.Radius * frac))
			f.line(prev, pt, 1.5, palette.Alpha(p.Color, a*(1-frac*0.5)))
			prev = pt
		}
	}
}

func drawRiftOpen(f *frame, p *fx.Payload, t float64) {
	f.c.FillPolygon(diamond(p.Center, p.Radius*0.3*t, p.Radius*t), palette.Alpha(riftColor, 0.7))
	f.ring(p.Center, p.Radius*(0.5+t), 1.5, fade(p.Color, t))
}

func drawTrapTrigger(f *frame, p *fx.Payload, t float64) {
	f.ring(p.Center, p.Radius*t, 3, fade(riftColor, t))
	f.circle(p.Center, p.Radius*0.4*(1-t), palette.Alpha(hotCore, 1-t))
}

func drawFissureCrack(f *frame, p *fx.Payload, t float64) {
	mid := geom.Midpoint(p.From, p.To)
	a := mid.Lerp(p.From, t)
	b := mid.Lerp(p.To, t)
	f.line(a, b, float32(2+3*t), fissureColor)
	f.line(a, b, 1, fade(fissureEdge, t))
}

func drawBarricadeRise(f *frame, p *fx.Payload, t float64) {
	f.line(p.From, p.To, float32(f.cell*0.25*t), palette.Alpha(p.Color, 0.8))
	f.line(p.From, p.To, 1, fade(hotCore, t))
}

func drawGrowth(f *frame, p *fx.Payload, t float64) {
	f.circle(p.Center, p.Radius*t, palette.Alpha(growColor, 0.3*(1-t)))
	for i := 0; i < 6; i++ {
		a := float64(i)*math.Pi/3 + t
		tip := p.Center.Add(geom.Vec{X: math.Cos(a), Y: math.Sin(a)}.Scale(p.Radius * t))
		f.line(p.Center, tip, 1.5, palette.Blend(growColor, p.Color, t))
	}
}

func drawLeyLineFade(f *frame, p *fx.Payload, t float64) {
	f.polyline(p.Path, float32(6*(1-t)), fade(palette.Lighten(p.Color, 0.5), t), false)
}
