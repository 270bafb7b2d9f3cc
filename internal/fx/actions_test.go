package fx

import (
	"slices"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/Garsondee/linewar-client/internal/snapshot"
)

func TestParseActionKind_RoundTrip(t *testing.T) {
	for k := ActionKind(1); k < actionKindCount; k++ {
		if got := ParseActionKind(k.String()); got != k {
			t.Fatalf("tag %q parsed to %v, want %v", k.String(), got, k)
		}
		if actionHandlers[k] == nil {
			t.Fatalf("no handler for %s", k)
		}
	}
	if ParseActionKind("definitely_not_an_action") != ActionUnknown {
		t.Fatal("unknown tag should map to ActionUnknown")
	}
	if ParseActionKind("") != ActionUnknown {
		t.Fatal("empty tag should map to ActionUnknown")
	}
}

func TestDispatchAction_AddLine(t *testing.T) {
	ctx, _ := newTestContext()
	d := snapshot.MustTagged("add_line", map[string]any{
		"line": snapshot.Line{ID: "L1", P1ID: "P1", P2ID: "P2", TeamID: "A"},
	})
	DispatchAction(d, fixture(), ctx, testCell)

	if len(ctx.Highlight.Lines) != 1 || !ctx.Highlight.HasLine("L1") {
		t.Fatalf("expected lines={L1}, got %v", ctx.Highlight.Lines)
	}
	if !ctx.Highlight.HasPoint("P1") || !ctx.Highlight.HasPoint("P2") {
		t.Fatalf("expected endpoints highlighted, got %v", ctx.Highlight.Points)
	}
	recs := ctx.Effects.Records()
	if len(recs) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(recs))
	}
	if recs[0].Kind != EffectLineAppear || recs[0].Payload.LineID != "L1" {
		t.Fatalf("expected line_appear for L1, got %s for %q", recs[0].Kind, recs[0].Payload.LineID)
	}
	// P1 (1,1) → P2 (3,1) at 20px cells.
	if recs[0].Payload.From != (Vec{X: 30, Y: 30}) || recs[0].Payload.To != (Vec{X: 70, Y: 30}) {
		t.Fatalf("unexpected endpoints %+v → %+v", recs[0].Payload.From, recs[0].Payload.To)
	}
	if recs[0].Payload.Color.R != 255 || recs[0].Payload.Color.B != 0 {
		t.Fatalf("expected team A red, got %+v", recs[0].Payload.Color)
	}
}

func TestDispatchAction_UnknownTag(t *testing.T) {
	ctx, _ := newTestContext()
	snap := fixture()
	DispatchAction(snapshot.MustTagged("add_line", map[string]any{
		"line": snapshot.Line{ID: "L1", P1ID: "P1", P2ID: "P2", TeamID: "A"},
	}), snap, ctx, testCell)
	before := ctx.Effects.Len()

	DispatchAction(snapshot.MustTagged("unrecognized_tag", map[string]any{"whatever": 1}), snap, ctx, testCell)

	if ctx.Effects.Len() != before {
		t.Fatalf("unknown tag changed the registry: %d → %d", before, ctx.Effects.Len())
	}
	if !ctx.Highlight.Empty() {
		t.Fatal("unknown tag should still clear the highlight")
	}
}

func TestDispatchAction_NilDetails(t *testing.T) {
	ctx, _ := newTestContext()
	ctx.Highlight.AddPoints("P1")
	DispatchAction(nil, fixture(), ctx, testCell)
	if !ctx.Highlight.Empty() || ctx.Effects.Len() != 0 {
		t.Fatal("nil details should clear the highlight and add nothing")
	}
	DispatchAction(snapshot.MustTagged("add_line", nil), nil, ctx, testCell)
	DispatchAction(nil, nil, nil, testCell)
}

func TestDispatchAction_AttackDestroysLine(t *testing.T) {
	ctx, _ := newTestContext()
	snap := fixture()
	snap.Lines = append(snap.Lines, snapshot.Line{ID: "M1", P1ID: "P2", P2ID: "P3", TeamID: "A"})
	snap.Reindex()
	d := snapshot.MustTagged("attack_line", map[string]any{
		"attacker_line":      snapshot.Line{ID: "L1", P1ID: "P1", P2ID: "P2", TeamID: "A"},
		"destroyed_line":     snapshot.Line{ID: "X9", P1ID: "Q1", P2ID: "P3", TeamID: "B"},
		"intersection_point": snapshot.Coord{X: 5, Y: 5},
	})
	DispatchAction(d, snap, ctx, testCell)

	if ctx.Effects.Count(EffectRay) != 1 {
		t.Fatalf("expected one ray, got %d", ctx.Effects.Count(EffectRay))
	}
	if ctx.Effects.Count(EffectLineFlash) != 1 {
		t.Fatalf("expected the destroyed line to flash, got %d", ctx.Effects.Count(EffectLineFlash))
	}
	for _, rec := range ctx.Effects.Records() {
		if rec.Kind == EffectLineFlash && !rec.Start.After(epoch) {
			t.Fatal("impact flash should be delayed behind the ray")
		}
	}
	if !ctx.Highlight.HasLine("L1") {
		t.Fatal("attacker line should be highlighted")
	}
}

func TestDispatchAction_MissingEntitiesSkipped(t *testing.T) {
	ctx, _ := newTestContext()
	snap := fixture()
	cases := []*snapshot.ActionDetails{
		snapshot.MustTagged("add_line", map[string]any{
			"line": snapshot.Line{ID: "L7", P1ID: "gone", P2ID: "P2", TeamID: "A"},
		}),
		snapshot.MustTagged("shield_line", map[string]any{
			"shielded_line": snapshot.Line{ID: "L8", P1ID: "P1", P2ID: "gone", TeamID: "A"},
		}),
		snapshot.MustTagged("attack_line", map[string]any{
			"attacker_line":  snapshot.Line{ID: "L9", P1ID: "gone", P2ID: "gone2"},
			"destroyed_line": snapshot.Line{ID: "X1", P1ID: "gone", P2ID: "P1"},
		}),
		snapshot.MustTagged("claim_territory", map[string]any{
			"territory": snapshot.Territory{ID: "T1", PointIDs: []string{"P1", "gone", "gone2"}, TeamID: "A"},
		}),
		snapshot.MustTagged("chain_lightning", map[string]any{
			"chain_point_ids": []string{"gone"},
		}),
	}
	for _, d := range cases {
		ctx.Effects.Clear()
		DispatchAction(d, snap, ctx, testCell)
		if ctx.Effects.Len() != 0 {
			t.Fatalf("%s: expected nothing drawn for missing entities, got %d records", d.Type, ctx.Effects.Len())
		}
		if ctx.Highlight.HasPoint("gone") {
			t.Fatalf("%s: missing point highlighted", d.Type)
		}
	}
}

func TestDispatchAction_MalformedFields(t *testing.T) {
	ctx, _ := newTestContext()
	snap := fixture()
	for k := ActionKind(1); k < actionKindCount; k++ {
		d := snapshot.MustTagged(k.String(), map[string]any{
			"line":            "not a line",
			"new_point":       42,
			"attack_ray":      []int{1},
			"pulled_points":   "nope",
			"rays":            map[string]int{"x": 1},
			"destroyed_point": []string{"a"},
		})
		DispatchAction(d, snap, ctx, testCell)
	}
}

func TestDispatchAction_BonusLines(t *testing.T) {
	ctx, _ := newTestContext()
	snap := fixture()
	snap.Lines = append(snap.Lines, snapshot.Line{ID: "L2", P1ID: "P2", P2ID: "P3", TeamID: "A"})
	snap.Reindex()
	d := snapshot.MustTagged("pass", map[string]any{
		"bonus_lines": []snapshot.Line{
			{ID: "L1", P1ID: "P1", P2ID: "P2", TeamID: "A"},
			{ID: "L2", P1ID: "P2", P2ID: "P3", TeamID: "A"},
		},
	})
	DispatchAction(d, snap, ctx, testCell)
	if ctx.Effects.Count(EffectLineAppear) != 2 {
		t.Fatalf("expected two bonus line_appear records, got %d", ctx.Effects.Count(EffectLineAppear))
	}
	if !ctx.Highlight.HasLine("L1") || !ctx.Highlight.HasLine("L2") {
		t.Fatalf("bonus lines should be highlighted, got %v", ctx.Highlight.Lines)
	}
}

func TestDispatchAction_ExtendLineSequencesPoint(t *testing.T) {
	ctx, _ := newTestContext()
	snap := fixture()
	snap.Points["P9"] = snapshot.Point{ID: "P9", X: 5, Y: 1, TeamID: "A"}
	snap.Lines = append(snap.Lines, snapshot.Line{ID: "L3", P1ID: "P9", P2ID: "P2", TeamID: "A"})
	snap.Reindex()
	d := snapshot.MustTagged("extend_line", map[string]any{
		"new_line":  snapshot.Line{ID: "L3", P1ID: "P9", P2ID: "P2", TeamID: "A"},
		"new_point": snapshot.Point{ID: "P9", X: 5, Y: 1, TeamID: "A"},
	})
	DispatchAction(d, snap, ctx, testCell)

	var extend, appear *Record
	recs := ctx.Effects.Records()
	for i := range recs {
		switch recs[i].Kind {
		case EffectLineExtend:
			extend = &recs[i]
		case EffectPointAppear:
			appear = &recs[i]
		}
	}
	if extend == nil || appear == nil {
		t.Fatalf("expected line_extend and point_appear, got %d records", len(recs))
	}
	// The segment grows out of the surviving endpoint toward the new point.
	if extend.Payload.To != (Vec{X: 110, Y: 30}) {
		t.Fatalf("extension should end at the new point, got %+v", extend.Payload.To)
	}
	if !appear.Start.After(extend.Start) {
		t.Fatal("new point should pop after the segment starts growing")
	}
}

func TestDispatchAction_GraviticPullMovesPoints(t *testing.T) {
	ctx, _ := newTestContext()
	d := snapshot.MustTagged("gravitic_pull", map[string]any{
		"center_point": snapshot.Point{ID: "P1", X: 1, Y: 1, TeamID: "A"},
		"pulled_points": []map[string]any{
			{"id": "Q1", "old_coords": snapshot.Coord{X: 9, Y: 9}},
			{"id": "gone", "old_coords": snapshot.Coord{X: 0, Y: 0}},
		},
	})
	DispatchAction(d, fixture(), ctx, testCell)
	if ctx.Effects.Count(EffectPointMove) != 1 {
		t.Fatalf("expected one move (missing point skipped), got %d", ctx.Effects.Count(EffectPointMove))
	}
	if ctx.Effects.Count(EffectPulseWave) != 1 {
		t.Fatal("expected an inward pulse")
	}
	if !ctx.Highlight.HasPoint("Q1") || !ctx.Highlight.HasPoint("P1") {
		t.Fatalf("expected pulled and centre points highlighted, got %v", ctx.Highlight.Points)
	}
}

func TestDispatchAction_EffectsSelfTerminate(t *testing.T) {
	ctx, clock := newTestContext()
	snap := fixture()
	for k := ActionKind(1); k < actionKindCount; k++ {
		DispatchAction(snapshot.MustTagged(k.String(), map[string]any{
			"line":            snapshot.Line{ID: "L1", P1ID: "P1", P2ID: "P2", TeamID: "A"},
			"destroyed_point": snapshot.Point{ID: "Q1", X: 7, Y: 7, TeamID: "B"},
			"new_point":       snapshot.Point{ID: "P3", X: 2, Y: 3, TeamID: "A"},
		}), snap, ctx, testCell)
	}
	clock.Advance(time.Minute)
	ctx.Tick()
	if ctx.Effects.Len() != 0 {
		t.Fatalf("expected every record to expire, %d left", ctx.Effects.Len())
	}
	if !ctx.Highlight.Empty() {
		t.Fatal("highlight should have expired")
	}
}

// --- Per-group payloads ---

func ids(set map[string]struct{}) string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return strings.Join(out, ",")
}

func kinds(recs []Record) []EffectKind {
	out := make([]EffectKind, len(recs))
	for i, r := range recs {
		out[i] = r.Kind
	}
	return out
}

func TestDispatchAction_WellFormedPayloads(t *testing.T) {
	runes := []string{"P1", "P2", "P3"}
	cases := []struct {
		kind       ActionKind
		fields     map[string]any
		points     string
		lines      string
		structures string
		effects    []EffectKind
	}{
		{
			kind:    ActionFortifyPoint,
			fields:  map[string]any{"fortified_point": snapshot.Point{ID: "P3", X: 2, Y: 3, TeamID: "A"}},
			points:  "P3",
			effects: []EffectKind{EffectStructureAppear},
		},
		{
			kind:   ActionShieldLine,
			fields: map[string]any{
				"shielded_line": snapshot.Line{ID: "L1", P1ID: "P1", P2ID: "P2", TeamID: "A"},
			},
			points:  "P1,P2",
			lines:   "L1",
			effects: []EffectKind{EffectLineShield},
		},
		{
			kind:   ActionFormMonolith,
			fields: map[string]any{"monolith": snapshot.Monolith{
				ID: "M1", TeamID: "A", PointIDs: runes, CenterCoords: snapshot.Coord{X: 2, Y: 2},
			}},
			points:     "P1,P2,P3",
			structures: "M1",
			effects:    []EffectKind{EffectStructureAppear},
		},
		{
			kind:   ActionBuildBarricade,
			fields: map[string]any{"barricade": snapshot.Barricade{
				ID: "B1", TeamID: "A", P1: snapshot.Coord{X: 0, Y: 5}, P2: snapshot.Coord{X: 3, Y: 5},
			}},
			structures: "B1",
			effects:    []EffectKind{EffectBarricade},
		},
		{
			kind:       ActionFormLeyLine,
			fields:     map[string]any{"ley_line": snapshot.LeyLine{ID: "LL1", TeamID: "A", PointIDs: runes}},
			points:     "P1,P2,P3",
			structures: "LL1",
			effects:    []EffectKind{EffectLineExtend, EffectLineExtend},
		},
		{
			kind:   ActionSpawnRiftTrap,
			fields: map[string]any{
				"teamId":           "A",
				"trap_id":          "RT1",
				"trap_coords":      snapshot.Coord{X: 5, Y: 5},
				"sacrificed_point": snapshot.Point{ID: "X9", X: 5, Y: 5, TeamID: "A"},
			},
			structures: "RT1",
			effects:    []EffectKind{EffectPointImplode, EffectRiftOpen},
		},
		{
			kind:   ActionRuneHourglassStasis,
			fields: map[string]any{
				"rune_points":  runes,
				"target_point": snapshot.Point{ID: "Q1", X: 7, Y: 7, TeamID: "B"},
			},
			points:  "P1,P2,P3,Q1",
			effects: []EffectKind{EffectStructureAppear},
		},
		{
			kind:   ActionRuneAreaShield,
			fields: map[string]any{
				"rune_points":    runes,
				"shielded_lines": []snapshot.Line{{ID: "L1", P1ID: "P1", P2ID: "P2", TeamID: "A"}},
			},
			points:  "P1,P2,P3",
			lines:   "L1",
			effects: []EffectKind{EffectLineShield},
		},
		{
			kind:   ActionRuneGravityWell,
			fields: map[string]any{
				"rune_points":   runes,
				"pulled_points": []map[string]any{{"id": "Q1", "old_coords": snapshot.Coord{X: 9, Y: 9}}},
			},
			points:  "P1,P2,P3,Q1",
			effects: []EffectKind{EffectPulseWave, EffectPointMove},
		},
		{
			kind:   ActionIsolatePoint,
			fields: map[string]any{
				"isolated_point":    snapshot.Point{ID: "Q1", X: 7, Y: 7, TeamID: "B"},
				"isolator_point_id": "P3",
			},
			points:  "P3,Q1",
			effects: []EffectKind{EffectRay, EffectStructureAppear},
		},
		{
			kind:    ActionConvertPoint,
			fields:  map[string]any{"converted_point": snapshot.Point{ID: "Q1", X: 7, Y: 7, TeamID: "A"}},
			points:  "Q1",
			effects: []EffectKind{EffectPointConvert},
		},
	}

	for _, tc := range cases {
		ctx, _ := newTestContext()
		DispatchAction(snapshot.MustTagged(tc.kind.String(), tc.fields), fixture(), ctx, testCell)
		h := ctx.Highlight
		if ids(h.Points) != tc.points || ids(h.Lines) != tc.lines || ids(h.Structures) != tc.structures {
			t.Fatalf("%s: highlight points=%q lines=%q structures=%q", tc.kind, ids(h.Points), ids(h.Lines), ids(h.Structures))
		}
		if got := kinds(ctx.Effects.Records()); !slices.Equal(got, tc.effects) {
			t.Fatalf("%s: effects %v, want %v", tc.kind, got, tc.effects)
		}
	}
}

func TestDispatchAction_PointTargetsNeedLivePoint(t *testing.T) {
	gone := snapshot.Point{ID: "gone", X: 5, Y: 5, TeamID: "B"}
	cases := []*snapshot.ActionDetails{
		snapshot.MustTagged("isolate_point", map[string]any{"isolated_point": gone}),
		snapshot.MustTagged("convert_point", map[string]any{"converted_point": gone}),
		snapshot.MustTagged("fortify_point", map[string]any{"fortified_point": gone}),
		snapshot.MustTagged("create_anchor", map[string]any{"anchor_point": gone}),
		snapshot.MustTagged(ActionRuneHourglassStasis.String(), map[string]any{"target_point": gone}),
	}
	for _, d := range cases {
		ctx, _ := newTestContext()
		DispatchAction(d, fixture(), ctx, testCell)
		if !ctx.Highlight.Empty() {
			t.Fatalf("%s: missing point highlighted points=%v structures=%v", d.Type, ctx.Highlight.Points, ctx.Highlight.Structures)
		}
	}
}
