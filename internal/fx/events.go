package fx

import (
	"image/color"

	"github.com/Garsondee/linewar-client/internal/palette"
	"github.com/Garsondee/linewar-client/internal/snapshot"
)

// EventKind is the closed set of background turn events.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventPointCollapse
	EventHeartwoodGrowth
	EventMonolithWave
	EventRiftTrapTrigger
	EventRiftTrapExpire
	EventAttunedNexusFade
	EventLeyLineFade
	EventScorchedZoneFade
	EventBarricadeExpire
	EventWhirlpoolCollapse
	eventKindCount
)

var eventTags = [eventKindCount]string{
	EventPointCollapse:     "point_collapse",
	EventHeartwoodGrowth:   "heartwood_growth",
	EventMonolithWave:      "monolith_wave",
	EventRiftTrapTrigger:   "rift_trap_trigger",
	EventRiftTrapExpire:    "rift_trap_expire",
	EventAttunedNexusFade:  "attuned_nexus_fade",
	EventLeyLineFade:       "ley_line_fade",
	EventScorchedZoneFade:  "scorched_zone_fade",
	EventBarricadeExpire:   "barricade_expire",
	EventWhirlpoolCollapse: "whirlpool_collapse",
}

// ParseEventKind maps a wire tag to its kind; unrecognised tags return
// EventUnknown.
func ParseEventKind(tag string) EventKind {
	for k := EventKind(1); k < eventKindCount; k++ {
		if eventTags[k] == tag {
			return k
		}
	}
	return EventUnknown
}

func (k EventKind) String() string {
	if k <= EventUnknown || k >= eventKindCount {
		return "unknown"
	}
	return eventTags[k]
}

// ProcessTurnEvents visualises the background events delivered with a new
// turn. Each event yields its records from its own fields; only a rift trap
// expiring touches the highlight set, which is then armed like an action's.
// It returns the ids of the points it highlighted.
func ProcessTurnEvents(events []snapshot.TurnEvent, snap *snapshot.Snapshot, ctx *Context, cellSize float64) []string {
	if ctx == nil {
		return nil
	}
	now := ctx.Now()
	var freed []string
	for i := range events {
		ev := &events[i]
		e := &actionEnv{d: ev, snap: snap, ctx: ctx, cell: cellSize, now: now}
		switch ParseEventKind(ev.Type) {
		case EventPointCollapse:
			onPointCollapse(e)
		case EventHeartwoodGrowth:
			onHeartwoodGrowth(e)
		case EventMonolithWave:
			onMonolithWave(e)
		case EventRiftTrapTrigger:
			onRiftTrapTrigger(e)
		case EventRiftTrapExpire:
			if id := onRiftTrapExpire(e); id != "" {
				freed = append(freed, id)
			}
		case EventAttunedNexusFade:
			onNexusFade(e)
		case EventLeyLineFade:
			onLeyLineFade(e)
		case EventScorchedZoneFade:
			onScorchedZoneFade(e)
		case EventBarricadeExpire:
			onBarricadeExpire(e)
		case EventWhirlpoolCollapse:
			onWhirlpoolCollapse(e)
		default:
			// Newer simulation events are ignored.
		}
	}
	if len(freed) > 0 {
		ctx.Highlight.AddPoints(freed...)
		ctx.Highlight.Arm(now)
	}
	return freed
}

// eventColor resolves the team colour named by the event's teamId field.
func (e *actionEnv) eventColor() color.NRGBA {
	team, _ := e.d.Text("teamId")
	return palette.Team(e.snap, team)
}

func onPointCollapse(e *actionEnv) {
	p, ok := e.d.Point("point")
	if !ok {
		c, okc := e.d.Coord("point_coords")
		if !okc {
			return
		}
		team, _ := e.d.Text("teamId")
		p = snapshot.Point{X: int(c.X), Y: int(c.Y), TeamID: team}
	}
	e.implode(p, e.of(p), 0)
	e.explode(p, EffectPointImplode.Duration()/2)
}

func onHeartwoodGrowth(e *actionEnv) {
	c, hasCenter := e.d.Coord("center_coords")
	if hasCenter {
		id, _ := e.d.Text("heartwood_id")
		e.emit(EffectGrowth, Payload{Center: e.at(c), Radius: e.cell * 2, Color: e.eventColor(), StructureID: id})
	}
	if np, ok := e.d.Point("new_point"); ok && np.ID != "" {
		p := Payload{Center: e.of(np), Radius: e.cell * 0.6, Color: e.color(np.TeamID), PointID: np.ID}
		if hasCenter {
			p.From = e.at(c)
		}
		e.emitAfter(EffectPointAppear, p, EffectGrowth.Duration()/3)
	}
}

func onMonolithWave(e *actionEnv) {
	c, ok := e.d.Coord("center_coords")
	if !ok {
		return
	}
	r := e.cell * 3
	if rr, ok := e.d.Float("radius"); ok {
		r = rr * e.cell
	}
	id, _ := e.d.Text("monolith_id")
	e.emit(EffectPulseWave, Payload{Center: e.at(c), Radius: r, Color: e.eventColor(), StructureID: id})
	if ls, ok := e.d.Lines("strengthened_lines"); ok {
		for _, l := range ls {
			if p1, p2, live := e.snap.LineEndpoints(l); live {
				e.emitAfter(EffectLineStrengthen, Payload{From: e.of(p1), To: e.of(p2), Color: e.color(l.TeamID), LineID: l.ID}, EffectPulseWave.Duration()/3)
			}
		}
	}
}

func onRiftTrapTrigger(e *actionEnv) {
	c, ok := e.d.Coord("trap_coords")
	if !ok {
		return
	}
	e.emit(EffectTrapTrigger, Payload{Center: e.at(c), Radius: e.cell * 1.5, Color: e.eventColor()})
	if p, ok := e.d.Point("destroyed_point"); ok {
		e.explode(p, EffectTrapTrigger.Duration()/3)
	}
}

// onRiftTrapExpire fades the trap and returns the id of the point it leaves
// behind, if any.
func onRiftTrapExpire(e *actionEnv) string {
	c, ok := e.d.Coord("trap_coords")
	if ok {
		e.emit(EffectTrapFade, Payload{Center: e.at(c), Radius: e.cell, Color: e.eventColor()})
	}
	np, ok := e.d.Point("new_point")
	if !ok || np.ID == "" {
		return ""
	}
	e.emitAfter(EffectPointAppear, Payload{Center: e.of(np), Radius: e.cell * 0.6, Color: e.color(np.TeamID), PointID: np.ID}, EffectTrapFade.Duration()/2)
	return np.ID
}

func onNexusFade(e *actionEnv) {
	c, ok := e.d.Coord("center_coords")
	if !ok {
		return
	}
	id, _ := e.d.Text("nexus_id")
	e.emit(EffectStructureFade, Payload{Center: e.at(c), Radius: e.cell * 2, Color: e.eventColor(), StructureID: id})
}

func onLeyLineFade(e *actionEnv) {
	var path []Vec
	if cs, ok := e.d.Coords("path"); ok {
		for _, c := range cs {
			path = append(path, e.at(c))
		}
	} else if ids, ok := e.d.IDs("point_ids"); ok {
		path = e.positions(e.snap.ResolvePoints(ids))
	}
	if len(path) < 2 {
		return
	}
	id, _ := e.d.Text("ley_line_id")
	e.emit(EffectLeyLineFade, Payload{Path: path, Color: e.eventColor(), StructureID: id})
}

func onScorchedZoneFade(e *actionEnv) {
	cs, ok := e.d.Coords("polygon")
	if !ok || len(cs) < 3 {
		return
	}
	path := make([]Vec, len(cs))
	for i, c := range cs {
		path[i] = e.at(c)
	}
	e.emit(EffectTerritoryFade, Payload{Path: path, Color: scorchColor})
}

func onBarricadeExpire(e *actionEnv) {
	a, okA := e.d.Coord("p1")
	b, okB := e.d.Coord("p2")
	if !okA || !okB {
		return
	}
	id, _ := e.d.Text("barricade_id")
	e.emit(EffectLineFlash, Payload{From: e.at(a), To: e.at(b), Color: e.eventColor(), StructureID: id})
}

func onWhirlpoolCollapse(e *actionEnv) {
	c, ok := e.d.Coord("coords")
	if !ok {
		return
	}
	r := e.cell * 2
	if rr, ok := e.d.Float("radius"); ok {
		r = rr * e.cell
	}
	center := e.at(c)
	e.emit(EffectPulseWave, Payload{Center: center, Radius: r, Color: e.eventColor(), Reverse: true})
	e.emitAfter(EffectStructureFade, Payload{Center: center, Radius: r / 2, Color: e.eventColor()}, EffectPulseWave.Duration()/2)
}
