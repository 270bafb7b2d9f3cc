package fx

import (
	"image/color"
	"time"

	"github.com/Garsondee/linewar-client/internal/geom"
	"github.com/Garsondee/linewar-client/internal/snapshot"
)

// scorchColor tints freshly scorched ground.
var scorchColor = color.NRGBA{R: 110, G: 50, B: 20, A: 255}

// Sacrifice actions.

// handlePurifyTerritory beams from the purifier into the cleansed
// territory, which then fades in its former owner's colour.
func handlePurifyTerritory(e *actionEnv) {
	ids, _ := e.d.IDs("purifier_point_ids")
	src, hasSrc := e.centroidOf(ids)
	e.livePoints(ids)
	t, ok := e.d.Territory("cleansed_territory")
	if !ok {
		return
	}
	pts := e.snap.ResolvePoints(t.PointIDs)
	if len(pts) < 3 {
		return
	}
	path := e.positions(pts)
	if hasSrc {
		e.beam(EffectRay, src, geom.Centroid(path), e.actingTeam(""), 0)
	}
	e.emitAfter(EffectTerritoryFade, Payload{Path: path, Color: e.color(t.TeamID), StructureID: t.ID}, impactDelay)
}

func handleSpawnRiftTrap(e *actionEnv) {
	c, ok := e.d.Coord("trap_coords")
	if !ok {
		return
	}
	center := e.at(c)
	if p, ok := e.d.Point("sacrificed_point"); ok {
		e.implode(p, center, 0)
	}
	id, _ := e.d.Text("trap_id")
	e.hlStructures(id)
	e.emitAfter(EffectRiftOpen, Payload{Center: center, Radius: e.cell, Color: e.color(e.actingTeam("")), StructureID: id}, EffectPointImplode.Duration()/2)
}

func handleRazeTerritory(e *actionEnv) {
	if t, ok := e.d.Territory("razed_territory"); ok {
		if pts := e.snap.ResolvePoints(t.PointIDs); len(pts) >= 3 {
			e.emit(EffectTerritoryFade, Payload{Path: e.positions(pts), Color: e.color(t.TeamID), StructureID: t.ID})
		}
	}
	if poly, ok := e.d.Coords("scorched_polygon"); ok && len(poly) >= 3 {
		path := make([]Vec, len(poly))
		for i, c := range poly {
			path[i] = e.at(c)
		}
		e.emitAfter(EffectTerritoryFill, Payload{Path: path, Color: scorchColor}, EffectTerritoryFade.Duration()/2)
	}
	e.consequences(0)
}

func handleSacrificeForLine(e *actionEnv) {
	p, ok := e.d.Point("sacrificed_point")
	if !ok {
		return
	}
	to := e.of(p)
	if l, ok := e.d.Line("bonus_line"); ok {
		if p1, p2, live := e.snap.LineEndpoints(l); live {
			to = geom.Midpoint(e.of(p1), e.of(p2))
		}
	}
	e.implode(p, to, 0)
}

func handleCultivateHeartwood(e *actionEnv) {
	id, _ := e.d.Text("heartwood_id")
	for _, h := range e.snap.Heartwoods {
		if h.ID == id {
			e.structure(EffectGrowth, h.ID, e.at(h.CenterCoords), e.cell*2, h.TeamID, 0)
			break
		}
	}
	pts, _ := e.d.Points("new_points")
	for i, p := range pts {
		e.appear(p, EffectGrowth.Duration()/4+EffectPointAppear.Duration()/3*time.Duration(i))
	}
}

// Rune actions.

func (e *actionEnv) runePoints() []Vec {
	ids, _ := e.d.IDs("rune_points")
	return e.positions(e.livePoints(ids))
}

func handleRuneShootBisector(e *actionEnv) {
	e.runePoints()
	if a, b, ok := e.d.Ray("attack_ray"); ok {
		e.beam(EffectRay, e.at(a), e.at(b), e.actingTeam(""), 0)
	}
	e.consequences(impactDelay)
}

func handleRuneImpale(e *actionEnv) {
	e.runePoints()
	if a, b, ok := e.d.Ray("attack_ray"); ok {
		team := e.actingTeam("")
		e.beam(EffectRay, e.at(a), e.at(b), team, 0)
		e.beam(EffectZap, e.at(a), e.at(b), team, impactDelay/2)
	}
	e.consequences(impactDelay)
}

func handleRuneHourglass(e *actionEnv) {
	e.runePoints()
	target, ok := e.d.Point("target_point")
	if !ok {
		return
	}
	if live, ok := e.snap.Point(target.ID); ok {
		target = live
		e.hlPoints(target.ID)
	}
	e.emit(EffectStructureAppear, Payload{Center: e.of(target), Radius: e.cell * 1.2, Color: e.color(e.actingTeam(target.TeamID)), PointID: target.ID})
}

// handleRunePush serves both the shield pulse and the T-hammer slam: a wave
// out of the rune centre and every pushed point sliding away.
func handleRunePush(e *actionEnv) {
	pts := e.runePoints()
	center, ok := e.d.Coord("center_coords")
	var c Vec
	switch {
	case ok:
		c = e.at(center)
	case len(pts) > 0:
		c = geom.Centroid(pts)
	default:
		e.pulled("pushed_points", 0)
		return
	}
	e.emit(EffectPulseWave, Payload{Center: c, Radius: e.cell * 4, Color: e.color(e.actingTeam(""))})
	e.pulled("pushed_points", EffectPulseWave.Duration()/5)
}

func handleRuneAreaShield(e *actionEnv) {
	e.runePoints()
	ls, _ := e.d.Lines("shielded_lines")
	for i, l := range ls {
		e.line(EffectLineShield, l, EffectLineShield.Duration()/10*time.Duration(i))
	}
}

func handleRuneFocusBeam(e *actionEnv) {
	e.runePoints()
	if a, b, ok := e.d.Ray("beam_ray"); ok {
		e.beam(EffectRay, e.at(a), e.at(b), e.actingTeam(""), 0)
	}
	if sid, ok := e.d.Text("destroyed_structure_id"); ok {
		if c, ok := e.d.Coord("structure_coords"); ok {
			e.emitAfter(EffectStructureFade, Payload{Center: e.at(c), Radius: e.cell * 2, Color: e.color(e.actingTeam("")), StructureID: sid}, impactDelay)
		}
	}
	e.consequences(impactDelay)
}

// handleRuneCardinalPulse fires one zap per cardinal ray; new points sprout
// where rays reached the border.
func handleRuneCardinalPulse(e *actionEnv) {
	e.runePoints()
	team := e.actingTeam("")
	rays, _ := snapshot.Field[[][]snapshot.Coord](e.d, "rays")
	for _, ray := range rays {
		if len(ray) < 2 {
			continue
		}
		e.beam(EffectZap, e.at(ray[0]), e.at(ray[1]), team, 0)
	}
	if pts, ok := e.d.Points("created_points"); ok {
		for _, p := range pts {
			e.appear(p, EffectZap.Duration())
		}
	}
	e.consequences(EffectZap.Duration() / 2)
}

func handleRuneStarlightCascade(e *actionEnv) {
	pts := e.runePoints()
	if len(pts) == 0 {
		e.consequences(0)
		return
	}
	c := geom.Centroid(pts)
	e.emit(EffectNova, Payload{Center: c, Radius: e.cell * 5, Color: e.color(e.actingTeam(""))})
	if ls, ok := e.d.Lines("damaged_lines"); ok {
		for _, l := range ls {
			e.line(EffectLineStrengthen, l, EffectNova.Duration()/4)
		}
	}
	e.consequences(EffectNova.Duration() / 3)
}

func handleRuneParallelDischarge(e *actionEnv) {
	pts := e.runePoints()
	team := e.actingTeam("")
	for i := 0; i+1 < len(pts); i += 2 {
		e.beam(EffectZap, pts[i], pts[i+1], team, 0)
	}
	if len(pts) > 0 {
		e.emit(EffectPulseWave, Payload{Center: geom.Centroid(pts), Radius: e.cell * 3, Color: e.color(team)})
	}
	e.consequences(EffectZap.Duration())
}

func handleRuneGravityWell(e *actionEnv) {
	pts := e.runePoints()
	c, ok := e.d.Coord("center_coords")
	if ok || len(pts) > 0 {
		center := geom.Centroid(pts)
		if ok {
			center = e.at(c)
		}
		e.emit(EffectPulseWave, Payload{Center: center, Radius: e.cell * 5, Color: e.color(e.actingTeam("")), Reverse: true})
	}
	e.pulled("pulled_points", EffectPulseWave.Duration()/4)
}
