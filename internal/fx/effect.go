// Package fx turns snapshot deltas into short-lived visual effects and a
// highlight set, and owns their lifetimes.
package fx

import (
	"image/color"
	"time"

	"github.com/Garsondee/linewar-client/internal/geom"
)

// EffectKind identifies how an effect record is drawn.
type EffectKind int

const (
	EffectLineAppear EffectKind = iota
	EffectLineExtend
	EffectLineFlash
	EffectLineShield
	EffectLineStrengthen
	EffectPointAppear
	EffectPointExplosion
	EffectPointImplode
	EffectPointMove
	EffectPointConvert
	EffectRay
	EffectZap
	EffectProjectile
	EffectNova
	EffectPulseWave
	EffectTerritoryFill
	EffectTerritoryFade
	EffectStructureAppear
	EffectStructureFade
	EffectMirrorAxis
	EffectWhirlpool
	EffectRiftOpen
	EffectTrapTrigger
	EffectTrapFade
	EffectFissure
	EffectBarricade
	EffectGrowth
	EffectLeyLineFade
	effectKindCount
)

// NumEffectKinds sizes per-kind lookup tables outside this package.
const NumEffectKinds = int(effectKindCount)

type kindSpec struct {
	name     string
	duration time.Duration
	easing   Easing
}

// kindSpecs declares each kind's default lifetime and easing. Motion uses
// EaseOut, fades use EaseIn.
var kindSpecs = [effectKindCount]kindSpec{
	EffectLineAppear:      {"line_appear", 900 * time.Millisecond, EaseOut},
	EffectLineExtend:      {"line_extend", 700 * time.Millisecond, EaseOut},
	EffectLineFlash:       {"line_flash", 800 * time.Millisecond, EaseIn},
	EffectLineShield:      {"line_shield", 1200 * time.Millisecond, Linear},
	EffectLineStrengthen:  {"line_strengthen", 1000 * time.Millisecond, Linear},
	EffectPointAppear:     {"point_appear", 600 * time.Millisecond, EaseOut},
	EffectPointExplosion:  {"point_explosion", 900 * time.Millisecond, EaseIn},
	EffectPointImplode:    {"point_implode", 700 * time.Millisecond, EaseIn},
	EffectPointMove:       {"point_move", 600 * time.Millisecond, EaseOut},
	EffectPointConvert:    {"point_convert", 1000 * time.Millisecond, Linear},
	EffectRay:             {"ray", 500 * time.Millisecond, EaseOut},
	EffectZap:             {"zap", 450 * time.Millisecond, Linear},
	EffectProjectile:      {"projectile", 800 * time.Millisecond, EaseOut},
	EffectNova:            {"nova", 1000 * time.Millisecond, EaseOut},
	EffectPulseWave:       {"pulse_wave", 1100 * time.Millisecond, EaseOut},
	EffectTerritoryFill:   {"territory_fill", 1200 * time.Millisecond, Linear},
	EffectTerritoryFade:   {"territory_fade", 1200 * time.Millisecond, EaseIn},
	EffectStructureAppear: {"structure_appear", 1200 * time.Millisecond, EaseOut},
	EffectStructureFade:   {"structure_fade", 1200 * time.Millisecond, EaseIn},
	EffectMirrorAxis:      {"mirror_axis", 900 * time.Millisecond, Linear},
	EffectWhirlpool:       {"whirlpool", 1500 * time.Millisecond, Linear},
	EffectRiftOpen:        {"rift_open", 1000 * time.Millisecond, EaseOut},
	EffectTrapTrigger:     {"trap_trigger", 800 * time.Millisecond, EaseOut},
	EffectTrapFade:        {"trap_fade", 1000 * time.Millisecond, EaseIn},
	EffectFissure:         {"fissure", 1000 * time.Millisecond, EaseOut},
	EffectBarricade:       {"barricade", 900 * time.Millisecond, EaseOut},
	EffectGrowth:          {"growth", 1400 * time.Millisecond, EaseOut},
	EffectLeyLineFade:     {"ley_line_fade", 1200 * time.Millisecond, EaseIn},
}

func (k EffectKind) String() string {
	if k < 0 || k >= effectKindCount {
		return "unknown"
	}
	return kindSpecs[k].name
}

// Duration returns the default lifetime of k.
func (k EffectKind) Duration() time.Duration {
	if k < 0 || k >= effectKindCount {
		return 0
	}
	return kindSpecs[k].duration
}

// Ease applies k's easing to linear progress t.
func (k EffectKind) Ease(t float64) float64 {
	if k < 0 || k >= effectKindCount {
		return t
	}
	return kindSpecs[k].easing(t)
}

// Payload carries everything a drawer needs. Positions are canvas pixels
// captured at dispatch time.
type Payload struct {
	From, To Vec
	Center   Vec
	Path     []Vec
	Radius   float64
	Color    color.NRGBA
	Reverse  bool // play inward: pulls, implosions

	LineID      string
	PointID     string
	StructureID string
}

// Vec is re-exported so effect construction reads naturally.
type Vec = geom.Vec

// Record is one self-timing effect.
type Record struct {
	Kind     EffectKind
	Start    time.Time
	Duration time.Duration
	Payload  Payload
}

// End is the instant at which r expires.
func (r Record) End() time.Time { return r.Start.Add(r.Duration) }

// Expired reports whether now ≥ Start+Duration.
func (r Record) Expired(now time.Time) bool { return !now.Before(r.End()) }

// RawProgress is (now-Start)/Duration without clamping; negative before a
// delayed record starts.
func (r Record) RawProgress(now time.Time) float64 {
	if r.Duration <= 0 {
		return 1
	}
	return float64(now.Sub(r.Start)) / float64(r.Duration)
}

// Registry is the ordered collection of live effect records.
type Registry struct {
	records []Record
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add schedules kind starting now with its default duration.
func (r *Registry) Add(kind EffectKind, p Payload, now time.Time) {
	r.AddDelayed(kind, p, now, 0)
}

// AddDelayed schedules kind to start delay after now, used to sequence
// multi-stage animations (a projectile, then its explosion).
func (r *Registry) AddDelayed(kind EffectKind, p Payload, now time.Time, delay time.Duration) {
	r.AddRecord(Record{Kind: kind, Start: now.Add(delay), Duration: kind.Duration(), Payload: p})
}

// AddRecord appends rec as-is.
func (r *Registry) AddRecord(rec Record) {
	r.records = append(r.records, rec)
}

// Prune drops every record whose window has elapsed and returns how many
// were removed. It is the only place records leave the registry.
func (r *Registry) Prune(now time.Time) int {
	kept := r.records[:0]
	for _, rec := range r.records {
		if !rec.Expired(now) {
			kept = append(kept, rec)
		}
	}
	removed := len(r.records) - len(kept)
	for i := len(kept); i < len(r.records); i++ {
		r.records[i] = Record{}
	}
	r.records = kept
	return removed
}

// Each visits live records in insertion order with eased progress. Records
// that have not started yet or have already elapsed are skipped.
func (r *Registry) Each(now time.Time, fn func(rec *Record, t float64)) {
	for i := range r.records {
		rec := &r.records[i]
		raw := rec.RawProgress(now)
		if raw < 0 || rec.Expired(now) {
			continue
		}
		fn(rec, rec.Kind.Ease(clamp01(raw)))
	}
}

// Len returns the number of resident records, including delayed ones.
func (r *Registry) Len() int { return len(r.records) }

// Records returns a copy of the resident records.
func (r *Registry) Records() []Record {
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Count returns how many resident records have kind.
func (r *Registry) Count(kind EffectKind) int {
	n := 0
	for _, rec := range r.records {
		if rec.Kind == kind {
			n++
		}
	}
	return n
}

// Clear drops every record.
func (r *Registry) Clear() {
	r.records = r.records[:0]
}
