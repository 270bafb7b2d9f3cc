package snapshot

import (
	"encoding/json"
	"testing"
)

const sampleJSON = `{
  "grid_size": 10,
  "game_phase": "RUNNING",
  "turn": 3,
  "teams": {
    "t2": {"id": "t2", "name": "Blue", "color": "#3366ff"},
    "t1": {"id": "t1", "name": "Red", "color": "#ff3333"}
  },
  "points": {
    "p2": {"id": "p2", "x": 4, "y": 5, "teamId": "t1", "is_fortified": true},
    "p1": {"id": "p1", "x": 1, "y": 2, "teamId": "t1"}
  },
  "lines": [{"id": "l1", "p1_id": "p1", "p2_id": "p2", "teamId": "t1"}],
  "last_action_details": {
    "type": "add_line",
    "line": {"id": "l1", "p1_id": "p1", "p2_id": "p2", "teamId": "t1"},
    "attack_ray": [{"x": 1, "y": 2}, {"x": 4.5, "y": 5}]
  },
  "new_turn_events": [{"type": "point_collapse", "point_id": "p9"}]
}`

func TestDecode_BuildsStableOrders(t *testing.T) {
	s, err := Decode([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	ids := s.PointIDs()
	if len(ids) != 2 || ids[0] != "p1" || ids[1] != "p2" {
		t.Fatalf("expected sorted point ids [p1 p2], got %v", ids)
	}
	teams := s.TeamIDs()
	if teams[0] != "t1" {
		t.Fatalf("expected t1 first, got %v", teams)
	}
	if _, ok := s.Line("l1"); !ok {
		t.Fatal("expected l1 to resolve")
	}
	if _, ok := s.Line("missing"); ok {
		t.Fatal("missing line must not resolve")
	}
}

func TestDecode_InvalidJSON(t *testing.T) {
	if _, err := Decode([]byte("{")); err == nil {
		t.Fatal("expected error for truncated json")
	}
}

func TestLineEndpoints_MissingPoint(t *testing.T) {
	s, _ := Decode([]byte(sampleJSON))
	_, _, ok := s.LineEndpoints(Line{P1ID: "p1", P2ID: "gone"})
	if ok {
		t.Fatal("endpoints with a destroyed point must report !ok")
	}
}

func TestTagged_Accessors(t *testing.T) {
	s, _ := Decode([]byte(sampleJSON))
	d := s.LastActionDetails
	if d == nil || d.Type != "add_line" {
		t.Fatalf("expected add_line details, got %+v", d)
	}
	l, ok := d.Line("line")
	if !ok || l.P1ID != "p1" || l.P2ID != "p2" {
		t.Fatalf("unexpected line %+v ok=%v", l, ok)
	}
	a, b, ok := d.Ray("attack_ray")
	if !ok || a.X != 1 || b.X != 4.5 {
		t.Fatalf("unexpected ray %v %v ok=%v", a, b, ok)
	}
	if _, ok := d.Coord("nope"); ok {
		t.Fatal("absent key must report !ok")
	}
	if _, ok := d.Text("line"); ok {
		t.Fatal("object field must not decode as string")
	}
	if len(s.NewTurnEvents) != 1 || s.NewTurnEvents[0].Type != "point_collapse" {
		t.Fatalf("unexpected turn events %+v", s.NewTurnEvents)
	}
}

func TestTagged_NilSafe(t *testing.T) {
	var d *Tagged
	if d.Has("x") {
		t.Fatal("nil record has no fields")
	}
	if _, ok := d.Line("line"); ok {
		t.Fatal("nil record must not decode")
	}
}

func TestTagged_MarshalKeepsUnknownFields(t *testing.T) {
	d := MustTagged("future_action", map[string]any{"shiny": 3})
	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Tagged
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Type != "future_action" {
		t.Fatalf("type lost: %q", back.Type)
	}
	if n, ok := back.Int("shiny"); !ok || n != 3 {
		t.Fatalf("unknown field lost: %d %v", n, ok)
	}
}

func TestTagged_Each(t *testing.T) {
	d := MustTagged("gravitic_pull", map[string]any{
		"pulled_points": []map[string]any{
			{"id": "p1", "old_coords": map[string]float64{"x": 1, "y": 1}},
			{"id": "p2", "old_coords": map[string]float64{"x": 2, "y": 2}},
		},
	})
	subs := d.Each("pulled_points")
	if len(subs) != 2 {
		t.Fatalf("expected 2 nested records, got %d", len(subs))
	}
	if id, _ := subs[1].Text("id"); id != "p2" {
		t.Fatalf("expected p2, got %q", id)
	}
}
