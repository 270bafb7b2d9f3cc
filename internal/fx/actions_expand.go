package fx

import (
	"time"

	"github.com/Garsondee/linewar-client/internal/geom"
)

func handleAddLine(e *actionEnv) {
	if l, ok := e.d.Line("line"); ok {
		e.line(EffectLineAppear, l, 0)
	}
}

// handleExtendLine draws the new segment growing out of its surviving
// endpoint, then pops the new point once the segment is mostly drawn.
func handleExtendLine(e *actionEnv) {
	np, hasPoint := e.d.Point("new_point")
	l, ok := e.d.Line("new_line")
	if !ok {
		l, ok = e.d.Line("line")
	}
	if ok {
		if p1, p2, live := e.snap.LineEndpoints(l); live {
			if hasPoint && p1.ID == np.ID {
				p1, p2 = p2, p1
			}
			e.hlLines(l.ID)
			e.hlPoints(p1.ID, p2.ID)
			e.emit(EffectLineExtend, Payload{From: e.of(p1), To: e.of(p2), Color: e.color(l.TeamID), LineID: l.ID})
		}
	}
	if hasPoint {
		e.appear(np, EffectLineExtend.Duration()*3/5)
	}
}

func handleFractureLine(e *actionEnv) {
	if old, ok := e.d.Line("old_line"); ok {
		e.lineFlash(old, 0)
	}
	for _, key := range []string{"new_line1", "new_line2"} {
		if l, ok := e.d.Line(key); ok {
			e.line(EffectLineAppear, l, EffectLineFlash.Duration()/3)
		}
	}
	if np, ok := e.d.Point("new_point"); ok {
		e.appear(np, 0)
	}
}

func handleBisectAngle(e *actionEnv) {
	handleExtendLine(e)
	if id, ok := e.d.Text("vertex_point_id"); ok {
		if _, live := e.snap.Point(id); live {
			e.hlPoints(id)
		}
	}
}

// handleOrthocenter converges faint rays from the source triangle onto the
// newly created point.
func handleOrthocenter(e *actionEnv) {
	np, ok := e.d.Point("new_point")
	if !ok {
		return
	}
	ids, _ := e.d.IDs("source_point_ids")
	for _, p := range e.livePoints(ids) {
		e.beam(EffectRay, e.of(p), e.of(np), np.TeamID, 0)
	}
	e.appear(np, EffectRay.Duration())
}

func handleSpawnPoint(e *actionEnv) {
	if np, ok := e.d.Point("new_point"); ok {
		e.appear(np, 0)
	}
}

func handleMirror(e *actionEnv) {
	a, okA := e.d.Text("axis_p1_id")
	b, okB := e.d.Text("axis_p2_id")
	team := e.actingTeam("")
	if okA && okB {
		pa, liveA := e.snap.Point(a)
		pb, liveB := e.snap.Point(b)
		if liveA && liveB {
			e.hlPoints(a, b)
			if team == "" {
				team = pa.TeamID
			}
			e.beam(EffectMirrorAxis, e.of(pa), e.of(pb), team, 0)
		}
	}
	pts, _ := e.d.Points("new_points")
	step := EffectMirrorAxis.Duration() / 6
	for i, p := range pts {
		e.appear(p, EffectMirrorAxis.Duration()/3+step*time.Duration(i))
	}
}

func handleCreateAnchor(e *actionEnv) {
	p, ok := e.d.Point("anchor_point")
	if !ok {
		return
	}
	if live, ok := e.snap.Point(p.ID); ok {
		p = live
		e.hlPoints(p.ID)
	}
	e.emit(EffectStructureAppear, Payload{Center: e.of(p), Radius: e.cell * 1.5, Color: e.color(p.TeamID), PointID: p.ID})
}

// handleReposition animates a point sliding from its previous cell.
func handleReposition(e *actionEnv) {
	p, ok := e.d.Point("moved_point")
	if !ok {
		return
	}
	old, ok := e.d.Coord("old_coords")
	if !ok {
		return
	}
	if pivot, ok := e.d.Text("pivot_point_id"); ok {
		if _, live := e.snap.Point(pivot); live {
			e.hlPoints(pivot)
		}
	}
	e.move(p, e.at(old), 0)
}

// handleGraviticPull collapses a ring onto the anchor while every pulled
// point slides inward.
func handleGraviticPull(e *actionEnv) {
	center, ok := e.d.Point("center_point")
	if !ok {
		center, ok = e.d.Point("anchor_point")
	}
	if ok {
		e.hlPoints(center.ID)
		e.emit(EffectPulseWave, Payload{Center: e.of(center), Radius: e.cell * 5, Color: e.color(center.TeamID), Reverse: true, PointID: center.ID})
	}
	e.pulled("pulled_points", EffectPulseWave.Duration()/4)
}

func handlePhaseShift(e *actionEnv) {
	p, ok := e.d.Point("moved_point")
	if !ok {
		return
	}
	if old, ok := e.d.Coord("old_coords"); ok {
		ghost := p
		ghost.X, ghost.Y = int(old.X), int(old.Y)
		e.implode(ghost, e.at(old), 0)
	}
	e.appear(p, EffectPointImplode.Duration()/2)
	if l, ok := e.d.Line("sacrificed_line"); ok {
		e.lineFlash(l, 0)
	}
}

// pulled animates each {id, old_coords} record under key toward the point's
// current position. Points destroyed in the same action are skipped.
func (e *actionEnv) pulled(key string, delay time.Duration) {
	for _, sub := range e.d.Each(key) {
		id, _ := sub.Text("id")
		live, ok := e.snap.Point(id)
		if !ok {
			continue
		}
		old, ok := sub.Coord("old_coords")
		if !ok {
			continue
		}
		e.move(live, e.at(old), delay)
	}
}

// centroidOf returns the pixel centroid of the live points among ids.
func (e *actionEnv) centroidOf(ids []string) (geom.Vec, bool) {
	pts := e.snap.ResolvePoints(ids)
	if len(pts) == 0 {
		return geom.Vec{}, false
	}
	return geom.Centroid(e.positions(pts)), true
}
