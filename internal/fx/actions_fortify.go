package fx

import (
	"time"

	"github.com/Garsondee/linewar-client/internal/geom"
	"github.com/Garsondee/linewar-client/internal/snapshot"
)

func handleShieldLine(e *actionEnv) {
	if l, ok := e.d.Line("shielded_line"); ok {
		e.line(EffectLineShield, l, 0)
	}
}

func handleReinforceLine(e *actionEnv) {
	if l, ok := e.d.Line("strengthened_line"); ok {
		e.line(EffectLineStrengthen, l, 0)
	}
}

func handleClaimTerritory(e *actionEnv) {
	t, ok := e.d.Territory("territory")
	if !ok {
		return
	}
	pts := e.livePoints(t.PointIDs)
	if len(pts) < 3 {
		return
	}
	e.hlStructures(t.ID)
	e.emit(EffectTerritoryFill, Payload{Path: e.positions(pts), Color: e.color(t.TeamID), StructureID: t.ID})
}

// formed is the shared shape of most "form_*" actions: highlight the
// structure and its member points, then bloom a ring at its centre.
func (e *actionEnv) formed(id, team string, pointIDs []string, center *snapshot.Coord, radiusCells float64) {
	pts := e.livePoints(pointIDs)
	if team == "" {
		team = e.teamOf(pts)
	}
	var c Vec
	switch {
	case center != nil:
		c = e.at(*center)
	case len(pts) > 0:
		c = geom.Centroid(e.positions(pts))
	default:
		return
	}
	e.structure(EffectStructureAppear, id, c, e.cell*radiusCells, team, 0)
}

func handleFormBastion(e *actionEnv) {
	type bastion struct {
		ID       string   `json:"id"`
		TeamID   string   `json:"teamId"`
		CoreID   string   `json:"core_id"`
		ProngIDs []string `json:"prong_ids"`
	}
	b, ok := snapshot.Field[bastion](e.d, "new_bastion")
	if !ok {
		return
	}
	core, live := e.snap.Point(b.CoreID)
	if !live {
		e.formed(b.ID, b.TeamID, b.ProngIDs, nil, 2)
		return
	}
	e.livePoints(b.ProngIDs)
	e.hlPoints(core.ID)
	c := core.Coord()
	e.formed(b.ID, b.TeamID, nil, &c, 2)
}

func handleFormMonolith(e *actionEnv) {
	m, ok := snapshot.Field[snapshot.Monolith](e.d, "monolith")
	if !ok {
		return
	}
	e.formed(m.ID, m.TeamID, m.PointIDs, &m.CenterCoords, 2.5)
}

func handleFormPurifier(e *actionEnv) {
	type purifier struct {
		ID       string   `json:"id"`
		TeamID   string   `json:"teamId"`
		PointIDs []string `json:"point_ids"`
	}
	p, ok := snapshot.Field[purifier](e.d, "purifier")
	if !ok {
		return
	}
	e.formed(p.ID, p.TeamID, p.PointIDs, nil, 2)
}

func handleFormRiftSpire(e *actionEnv) {
	s, ok := snapshot.Field[snapshot.RiftSpire](e.d, "rift_spire")
	if !ok {
		return
	}
	e.hlStructures(s.ID)
	if _, live := e.snap.Point(s.PointID); live {
		e.hlPoints(s.PointID)
	}
	ids, _ := e.d.IDs("sacrificed_point_ids")
	center := e.at(s.Coords)
	for _, p := range e.snapshotOrDetails("sacrificed_points", ids) {
		e.implode(p, center, 0)
	}
	e.emitAfter(EffectRiftOpen, Payload{Center: center, Radius: e.cell * 1.2, Color: e.color(s.TeamID), StructureID: s.ID}, EffectPointImplode.Duration()/2)
}

func handleFormNexus(e *actionEnv) {
	n, ok := snapshot.Field[snapshot.Nexus](e.d, "nexus")
	if !ok {
		return
	}
	e.formed(n.ID, n.TeamID, n.PointIDs, &n.CenterCoords, 2)
}

func handleFormTrebuchet(e *actionEnv) {
	t, ok := snapshot.Field[snapshot.Trebuchet](e.d, "trebuchet")
	if !ok {
		return
	}
	e.formed(t.ID, t.TeamID, t.PointIDs, nil, 1.8)
}

func handleFormPrism(e *actionEnv) {
	p, ok := snapshot.Field[snapshot.Prism](e.d, "prism")
	if !ok {
		return
	}
	e.formed(p.ID, p.TeamID, p.PointIDs, nil, 2)
}

// handleFormHeartwood sucks the sacrificed points into the centre, then
// sprouts the heartwood.
func handleFormHeartwood(e *actionEnv) {
	h, ok := snapshot.Field[snapshot.Heartwood](e.d, "heartwood")
	if !ok {
		return
	}
	center := e.at(h.CenterCoords)
	sacrificed, _ := e.d.Points("sacrificed_points")
	for _, p := range sacrificed {
		e.implode(p, center, 0)
	}
	e.hlStructures(h.ID)
	e.emitAfter(EffectGrowth, Payload{Center: center, Radius: e.cell * 2.5, Color: e.color(h.TeamID), StructureID: h.ID}, EffectPointImplode.Duration())
}

func handleFormWonder(e *actionEnv) {
	w, ok := snapshot.Field[snapshot.Wonder](e.d, "wonder")
	if !ok {
		return
	}
	center := e.at(w.Coords)
	sacrificed, _ := e.d.Points("sacrificed_points")
	for i, p := range sacrificed {
		e.implode(p, center, EffectPointImplode.Duration()/8*time.Duration(i))
	}
	e.hlStructures(w.ID)
	e.emitAfter(EffectStructureAppear, Payload{Center: center, Radius: e.cell * 3, Color: e.color(w.TeamID), StructureID: w.ID}, EffectPointImplode.Duration())
	e.emitAfter(EffectNova, Payload{Center: center, Radius: e.cell * 4, Color: e.color(w.TeamID), StructureID: w.ID}, EffectPointImplode.Duration())
}

func handleBuildBarricade(e *actionEnv) {
	b, ok := snapshot.Field[snapshot.Barricade](e.d, "barricade")
	if !ok {
		return
	}
	e.hlStructures(b.ID)
	e.emit(EffectBarricade, Payload{From: e.at(b.P1), To: e.at(b.P2), Color: e.color(b.TeamID), StructureID: b.ID})
	if p, ok := e.d.Point("sacrificed_point"); ok {
		e.implode(p, geom.Midpoint(e.at(b.P1), e.at(b.P2)), 0)
	}
}

// handleFormLeyLine traces the ley line point by point.
func handleFormLeyLine(e *actionEnv) {
	l, ok := snapshot.Field[snapshot.LeyLine](e.d, "ley_line")
	if !ok {
		return
	}
	e.hlStructures(l.ID)
	pts := e.livePoints(l.PointIDs)
	step := EffectLineExtend.Duration() / 2
	for i := 1; i < len(pts); i++ {
		e.emitAfter(EffectLineExtend, Payload{From: e.of(pts[i-1]), To: e.of(pts[i]), Color: e.color(l.TeamID), StructureID: l.ID}, step*time.Duration(i-1))
	}
}

func handleCreateFissure(e *actionEnv) {
	f, ok := snapshot.Field[snapshot.Fissure](e.d, "fissure")
	if !ok {
		return
	}
	e.hlStructures(f.ID)
	e.emit(EffectFissure, Payload{From: e.at(f.P1), To: e.at(f.P2), Color: e.color(e.actingTeam("")), StructureID: f.ID})
}

func handleCreateWhirlpool(e *actionEnv) {
	w, ok := snapshot.Field[snapshot.Whirlpool](e.d, "whirlpool")
	if !ok {
		return
	}
	center := e.at(w.Coords)
	if p, ok := e.d.Point("sacrificed_point"); ok {
		e.implode(p, center, 0)
	}
	radius := w.Radius * e.cell
	if radius <= 0 {
		radius = e.cell * 2
	}
	e.hlStructures(w.ID)
	e.emitAfter(EffectWhirlpool, Payload{Center: center, Radius: radius, Color: e.color(w.TeamID), StructureID: w.ID}, EffectPointImplode.Duration()/2)
}

func handleAttuneNexus(e *actionEnv) {
	n, ok := snapshot.Field[snapshot.Nexus](e.d, "nexus")
	if !ok {
		return
	}
	e.formed(n.ID, n.TeamID, n.PointIDs, &n.CenterCoords, 2)
	if l, ok := e.d.Line("sacrificed_line"); ok {
		e.lineFlash(l, 0)
	}
	e.emitAfter(EffectPulseWave, Payload{Center: e.at(n.CenterCoords), Radius: e.cell * 3, Color: e.color(n.TeamID), StructureID: n.ID}, EffectStructureAppear.Duration()/3)
}

func handleFormSentry(e *actionEnv) {
	type sentry struct {
		ID      string   `json:"id"`
		TeamID  string   `json:"teamId"`
		EyeID   string   `json:"eye_id"`
		PostIDs []string `json:"post_ids"`
	}
	s, ok := snapshot.Field[sentry](e.d, "sentry")
	if !ok {
		return
	}
	eye, live := e.snap.Point(s.EyeID)
	e.livePoints(s.PostIDs)
	if !live {
		e.formed(s.ID, s.TeamID, s.PostIDs, nil, 1.5)
		return
	}
	e.hlPoints(eye.ID)
	c := eye.Coord()
	e.formed(s.ID, s.TeamID, nil, &c, 1.5)
}

func handleFortifyPoint(e *actionEnv) {
	p, ok := e.d.Point("fortified_point")
	if !ok {
		return
	}
	if live, ok := e.snap.Point(p.ID); ok {
		p = live
		e.hlPoints(p.ID)
	}
	e.emit(EffectStructureAppear, Payload{Center: e.of(p), Radius: e.cell * 0.9, Color: e.color(p.TeamID), PointID: p.ID})
}

// snapshotOrDetails returns the points listed under key in the details, or
// failing that the live points for ids.
func (e *actionEnv) snapshotOrDetails(key string, ids []string) []snapshot.Point {
	if pts, ok := e.d.Points(key); ok {
		return pts
	}
	return e.snap.ResolvePoints(ids)
}
