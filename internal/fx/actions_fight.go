package fx

import (
	"time"

	"github.com/Garsondee/linewar-client/internal/geom"
	"github.com/Garsondee/linewar-client/internal/snapshot"
)

// impactDelay is the gap between a ray leaving its source and the target
// reacting.
var impactDelay = EffectRay.Duration() * 3 / 4

// handleAttackLine fires from the attacking line toward the intersection and
// flashes the destroyed line on impact.
func handleAttackLine(e *actionEnv) {
	atk, ok := e.d.Line("attacker_line")
	if !ok {
		e.consequences(0)
		return
	}
	p1, p2, live := e.snap.LineEndpoints(atk)
	if live {
		e.hlLines(atk.ID)
		e.hlPoints(p1.ID, p2.ID)
		from, to := e.of(p1), e.of(p2)
		if a, b, ok := e.d.Ray("attack_ray"); ok {
			from, to = e.at(a), e.at(b)
		} else if hit, ok := e.d.Coord("intersection_point"); ok {
			to = e.at(hit)
		}
		e.beam(EffectRay, from, to, atk.TeamID, 0)
	}
	e.consequences(impactDelay)
}

func handlePincerAttack(e *actionEnv) {
	target, ok := e.d.Point("destroyed_point")
	if !ok {
		return
	}
	var ids []string
	for _, key := range []string{"attacker_p1_id", "attacker_p2_id"} {
		if id, ok := e.d.Text(key); ok {
			ids = append(ids, id)
		}
	}
	for _, p := range e.livePoints(ids) {
		e.beam(EffectRay, e.of(p), e.of(target), p.TeamID, 0)
	}
	e.explode(target, impactDelay)
}

func handleTerritoryStrike(e *actionEnv) {
	ids, _ := e.d.IDs("territory_point_ids")
	pts := e.livePoints(ids)
	if tid, ok := e.d.Text("territory_id"); ok {
		e.hlStructures(tid)
	}
	if target, ok := e.d.Point("destroyed_point"); ok && len(pts) > 0 {
		e.beam(EffectRay, geom.Centroid(e.positions(pts)), e.of(target), e.teamOf(pts), 0)
	}
	e.consequences(impactDelay)
}

func handleSentryZap(e *actionEnv) {
	ids, _ := e.d.IDs("sentry_points")
	pts := e.livePoints(ids)
	if a, b, ok := e.d.Ray("attack_ray"); ok {
		e.beam(EffectZap, e.at(a), e.at(b), e.actingTeam(e.teamOf(pts)), 0)
	}
	e.consequences(EffectZap.Duration() / 2)
}

// handleRefractionBeam draws the incoming ray, then the refracted ray once
// it reaches the prism.
func handleRefractionBeam(e *actionEnv) {
	ids, _ := e.d.IDs("prism_point_ids")
	pts := e.livePoints(ids)
	team := e.actingTeam(e.teamOf(pts))
	if pid, ok := e.d.Text("prism_id"); ok {
		e.hlStructures(pid)
	}
	if a, b, ok := e.d.Ray("source_ray"); ok {
		e.beam(EffectRay, e.at(a), e.at(b), team, 0)
	}
	if a, b, ok := e.d.Ray("refracted_ray"); ok {
		e.beam(EffectRay, e.at(a), e.at(b), team, impactDelay)
	}
	e.consequences(2 * impactDelay)
}

// handleNovaBurst blows a sacrificed point outward; lines inside the blast
// flash as they go.
func handleNovaBurst(e *actionEnv) {
	p, ok := e.d.Point("sacrificed_point")
	if !ok {
		return
	}
	radius := e.cell * 3
	if r, ok := e.d.Float("radius"); ok {
		radius = r * e.cell
	}
	e.emit(EffectNova, Payload{Center: e.of(p), Radius: radius, Color: e.color(p.TeamID), PointID: p.ID})
	e.consequences(EffectNova.Duration() / 4)
}

func handleTrebuchetAttack(e *actionEnv) {
	ids, _ := e.d.IDs("trebuchet_points")
	pts := e.livePoints(ids)
	if tid, ok := e.d.Text("trebuchet_id"); ok {
		e.hlStructures(tid)
	}
	from, ok := e.launchFrom(pts)
	if !ok {
		e.consequences(0)
		return
	}
	e.lob(from, e.actingTeam(e.teamOf(pts)))
}

func handleLaunchPayload(e *actionEnv) {
	id, _ := e.d.Text("launch_point_id")
	pts := e.livePoints([]string{id})
	if len(pts) == 0 {
		e.consequences(0)
		return
	}
	e.lob(e.of(pts[0]), pts[0].TeamID)
}

// launchFrom picks the explicit launch point if still present, otherwise the
// centroid of the launching structure.
func (e *actionEnv) launchFrom(pts []snapshot.Point) (Vec, bool) {
	if id, ok := e.d.Text("launch_point_id"); ok {
		if p, live := e.snap.Point(id); live {
			return e.of(p), true
		}
	}
	if len(pts) == 0 {
		return Vec{}, false
	}
	return geom.Centroid(e.positions(pts)), true
}

// lob arcs a projectile from from to the destroyed target and explodes it on
// arrival.
func (e *actionEnv) lob(from Vec, team string) {
	target, ok := e.d.Point("destroyed_point")
	if !ok {
		if c, okc := e.d.Coord("target_coords"); okc {
			e.emit(EffectProjectile, Payload{From: from, To: e.at(c), Radius: e.cell * 0.25, Color: e.color(team)})
		}
		return
	}
	e.emit(EffectProjectile, Payload{From: from, To: e.of(target), Radius: e.cell * 0.25, Color: e.color(team), PointID: target.ID})
	e.explode(target, EffectProjectile.Duration())
}

func handleBastionPulse(e *actionEnv) {
	if bid, ok := e.d.Text("bastion_id"); ok {
		e.hlStructures(bid)
	}
	core, ok := e.d.Point("core_point")
	if !ok {
		id, _ := e.d.Text("core_point_id")
		core, ok = e.snap.Point(id)
	}
	if ok {
		e.hlPoints(core.ID)
		e.emit(EffectPulseWave, Payload{Center: e.of(core), Radius: e.cell * 4, Color: e.color(core.TeamID), PointID: core.ID})
	}
	if prong, ok := e.d.Point("sacrificed_prong"); ok {
		e.explode(prong, 0)
	}
	e.consequences(EffectPulseWave.Duration() / 3)
}

// handleChainLightning arcs point to point along the chain, one hop at a
// time, and blows the final target.
func handleChainLightning(e *actionEnv) {
	ids, _ := e.d.IDs("chain_point_ids")
	pts := e.livePoints(ids)
	hop := EffectZap.Duration() / 3
	var last Vec
	for i, p := range pts {
		if i > 0 {
			e.beam(EffectZap, last, e.of(p), p.TeamID, hop*time.Duration(i-1))
		}
		last = e.of(p)
	}
	if target, ok := e.d.Point("destroyed_point"); ok && len(pts) > 0 {
		delay := hop * time.Duration(len(pts)-1)
		e.beam(EffectZap, last, e.of(target), e.teamOf(pts), delay)
		e.explode(target, delay+hop)
	}
}

func handleRiftSpireAttack(e *actionEnv) {
	if sid, ok := e.d.Text("spire_id"); ok {
		e.hlStructures(sid)
	}
	team := e.actingTeam("")
	if a, b, ok := e.d.Ray("attack_ray"); ok {
		e.beam(EffectZap, e.at(a), e.at(b), team, 0)
	}
	e.consequences(EffectZap.Duration() / 2)
}

func handleWhirlpoolPull(e *actionEnv) {
	if c, ok := e.d.Coord("whirlpool_coords"); ok {
		r := e.cell * 2
		if rr, ok := e.d.Float("radius"); ok {
			r = rr * e.cell
		}
		id, _ := e.d.Text("whirlpool_id")
		e.structure(EffectWhirlpool, id, e.at(c), r, e.actingTeam(""), 0)
	}
	e.pulled("pulled_points", 0)
	e.consequences(EffectWhirlpool.Duration() / 2)
}

func handleIsolatePoint(e *actionEnv) {
	target, ok := e.d.Point("isolated_point")
	if !ok {
		return
	}
	if live, ok := e.snap.Point(target.ID); ok {
		target = live
		e.hlPoints(target.ID)
	}
	if id, ok := e.d.Text("isolator_point_id"); ok {
		for _, src := range e.livePoints([]string{id}) {
			e.beam(EffectRay, e.of(src), e.of(target), src.TeamID, 0)
		}
	}
	e.emitAfter(EffectStructureAppear, Payload{Center: e.of(target), Radius: e.cell * 0.9, Color: e.color(target.TeamID), PointID: target.ID}, impactDelay)
}

// handleConvertPoint flashes the converted point in its new team colour.
func handleConvertPoint(e *actionEnv) {
	p, ok := e.d.Point("converted_point")
	if !ok {
		return
	}
	if live, ok := e.snap.Point(p.ID); ok {
		p = live
		e.hlPoints(p.ID)
	}
	e.emit(EffectPointConvert, Payload{Center: e.of(p), Radius: e.cell * 0.9, Color: e.color(p.TeamID), PointID: p.ID})
	if l, ok := e.d.Line("sacrificed_line"); ok {
		e.lineFlash(l, 0)
	}
}
