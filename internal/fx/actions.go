package fx

import (
	"image/color"
	"time"

	"github.com/Garsondee/linewar-client/internal/geom"
	"github.com/Garsondee/linewar-client/internal/palette"
	"github.com/Garsondee/linewar-client/internal/snapshot"
)

// ActionKind is the closed set of action tags this client knows how to
// visualise. Tags the simulation adds later parse to ActionUnknown.
type ActionKind int

const (
	ActionUnknown ActionKind = iota

	// Expand.
	ActionAddLine
	ActionExtendLine
	ActionGrowLine
	ActionFractureLine
	ActionBisectAngle
	ActionCreateOrthocenter
	ActionSpawnPoint
	ActionMirrorStructure
	ActionCreateAnchor
	ActionRepositionPoint
	ActionRotatePoint
	ActionGraviticPull
	ActionPhaseShift
	ActionPass

	// Fight.
	ActionAttackLine
	ActionPincerAttack
	ActionTerritoryStrike
	ActionSentryZap
	ActionRefractionBeam
	ActionNovaBurst
	ActionTrebuchetAttack
	ActionLaunchPayload
	ActionBastionPulse
	ActionChainLightning
	ActionRiftSpireAttack
	ActionWhirlpoolPull
	ActionIsolatePoint
	ActionConvertPoint

	// Fortify.
	ActionShieldLine
	ActionReinforceLine
	ActionClaimTerritory
	ActionFormBastion
	ActionFormMonolith
	ActionFormPurifier
	ActionFormRiftSpire
	ActionFormNexus
	ActionFormTrebuchet
	ActionFormPrism
	ActionFormHeartwood
	ActionFormWonder
	ActionBuildBarricade
	ActionFormLeyLine
	ActionCreateFissure
	ActionCreateWhirlpool
	ActionAttuneNexus
	ActionFormSentry
	ActionFortifyPoint

	// Sacrifice.
	ActionPurifyTerritory
	ActionSpawnRiftTrap
	ActionRazeTerritory
	ActionSacrificeForLine
	ActionCultivateHeartwood

	// Rune.
	ActionRuneShootBisector
	ActionRuneImpale
	ActionRuneHourglassStasis
	ActionRuneShieldPulse
	ActionRuneAreaShield
	ActionRuneFocusBeam
	ActionRuneCardinalPulse
	ActionRuneTHammerSlam
	ActionRuneStarlightCascade
	ActionRuneParallelDischarge
	ActionRuneGravityWell

	actionKindCount
)

var actionTags = [actionKindCount]string{
	ActionUnknown:               "",
	ActionAddLine:               "add_line",
	ActionExtendLine:            "extend_line",
	ActionGrowLine:              "grow_line",
	ActionFractureLine:          "fracture_line",
	ActionBisectAngle:           "bisect_angle",
	ActionCreateOrthocenter:     "create_orthocenter",
	ActionSpawnPoint:            "spawn_point",
	ActionMirrorStructure:       "mirror_structure",
	ActionCreateAnchor:          "create_anchor",
	ActionRepositionPoint:       "reposition_point",
	ActionRotatePoint:           "rotate_point",
	ActionGraviticPull:          "gravitic_pull",
	ActionPhaseShift:            "phase_shift",
	ActionPass:                  "pass",
	ActionAttackLine:            "attack_line",
	ActionPincerAttack:          "pincer_attack",
	ActionTerritoryStrike:       "territory_strike",
	ActionSentryZap:             "sentry_zap",
	ActionRefractionBeam:        "refraction_beam",
	ActionNovaBurst:             "nova_burst",
	ActionTrebuchetAttack:       "trebuchet_attack",
	ActionLaunchPayload:         "launch_payload",
	ActionBastionPulse:          "bastion_pulse",
	ActionChainLightning:        "chain_lightning",
	ActionRiftSpireAttack:       "rift_spire_attack",
	ActionWhirlpoolPull:         "whirlpool_pull",
	ActionIsolatePoint:          "isolate_point",
	ActionConvertPoint:          "convert_point",
	ActionShieldLine:            "shield_line",
	ActionReinforceLine:         "reinforce_line",
	ActionClaimTerritory:        "claim_territory",
	ActionFormBastion:           "form_bastion",
	ActionFormMonolith:          "form_monolith",
	ActionFormPurifier:          "form_purifier",
	ActionFormRiftSpire:         "form_rift_spire",
	ActionFormNexus:             "form_nexus",
	ActionFormTrebuchet:         "form_trebuchet",
	ActionFormPrism:             "form_prism",
	ActionFormHeartwood:         "form_heartwood",
	ActionFormWonder:            "form_wonder",
	ActionBuildBarricade:        "build_barricade",
	ActionFormLeyLine:           "form_ley_line",
	ActionCreateFissure:         "create_fissure",
	ActionCreateWhirlpool:       "create_whirlpool",
	ActionAttuneNexus:           "attune_nexus",
	ActionFormSentry:            "form_sentry",
	ActionFortifyPoint:          "fortify_point",
	ActionPurifyTerritory:       "purify_territory",
	ActionSpawnRiftTrap:         "spawn_rift_trap",
	ActionRazeTerritory:         "raze_territory",
	ActionSacrificeForLine:      "sacrifice_for_line",
	ActionCultivateHeartwood:    "cultivate_heartwood",
	ActionRuneShootBisector:     "rune_shoot_bisector",
	ActionRuneImpale:            "rune_impale",
	ActionRuneHourglassStasis:   "rune_hourglass_stasis",
	ActionRuneShieldPulse:       "rune_shield_pulse",
	ActionRuneAreaShield:        "rune_area_shield",
	ActionRuneFocusBeam:         "rune_focus_beam",
	ActionRuneCardinalPulse:     "rune_cardinal_pulse",
	ActionRuneTHammerSlam:       "rune_t_hammer_slam",
	ActionRuneStarlightCascade:  "rune_starlight_cascade",
	ActionRuneParallelDischarge: "rune_parallel_discharge",
	ActionRuneGravityWell:       "rune_gravity_well",
}

var actionByTag = func() map[string]ActionKind {
	m := make(map[string]ActionKind, actionKindCount)
	for k := ActionKind(1); k < actionKindCount; k++ {
		m[actionTags[k]] = k
	}
	return m
}()

// ParseActionKind maps a wire tag to its kind; unrecognised tags return
// ActionUnknown.
func ParseActionKind(tag string) ActionKind {
	return actionByTag[tag]
}

func (k ActionKind) String() string {
	if k <= ActionUnknown || k >= actionKindCount {
		return "unknown"
	}
	return actionTags[k]
}

// actionHandlers is indexed by ActionKind. The ActionUnknown slot is a
// deliberate no-op.
var actionHandlers = [actionKindCount]func(e *actionEnv){
	ActionUnknown: func(*actionEnv) {},

	ActionAddLine:           handleAddLine,
	ActionExtendLine:        handleExtendLine,
	ActionGrowLine:          handleExtendLine,
	ActionFractureLine:      handleFractureLine,
	ActionBisectAngle:       handleBisectAngle,
	ActionCreateOrthocenter: handleOrthocenter,
	ActionSpawnPoint:        handleSpawnPoint,
	ActionMirrorStructure:   handleMirror,
	ActionCreateAnchor:      handleCreateAnchor,
	ActionRepositionPoint:   handleReposition,
	ActionRotatePoint:       handleReposition,
	ActionGraviticPull:      handleGraviticPull,
	ActionPhaseShift:        handlePhaseShift,
	ActionPass:              func(*actionEnv) {},

	ActionAttackLine:      handleAttackLine,
	ActionPincerAttack:    handlePincerAttack,
	ActionTerritoryStrike: handleTerritoryStrike,
	ActionSentryZap:       handleSentryZap,
	ActionRefractionBeam:  handleRefractionBeam,
	ActionNovaBurst:       handleNovaBurst,
	ActionTrebuchetAttack: handleTrebuchetAttack,
	ActionLaunchPayload:   handleLaunchPayload,
	ActionBastionPulse:    handleBastionPulse,
	ActionChainLightning:  handleChainLightning,
	ActionRiftSpireAttack: handleRiftSpireAttack,
	ActionWhirlpoolPull:   handleWhirlpoolPull,
	ActionIsolatePoint:    handleIsolatePoint,
	ActionConvertPoint:    handleConvertPoint,

	ActionShieldLine:      handleShieldLine,
	ActionReinforceLine:   handleReinforceLine,
	ActionClaimTerritory:  handleClaimTerritory,
	ActionFormBastion:     handleFormBastion,
	ActionFormMonolith:    handleFormMonolith,
	ActionFormPurifier:    handleFormPurifier,
	ActionFormRiftSpire:   handleFormRiftSpire,
	ActionFormNexus:       handleFormNexus,
	ActionFormTrebuchet:   handleFormTrebuchet,
	ActionFormPrism:       handleFormPrism,
	ActionFormHeartwood:   handleFormHeartwood,
	ActionFormWonder:      handleFormWonder,
	ActionBuildBarricade:  handleBuildBarricade,
	ActionFormLeyLine:     handleFormLeyLine,
	ActionCreateFissure:   handleCreateFissure,
	ActionCreateWhirlpool: handleCreateWhirlpool,
	ActionAttuneNexus:     handleAttuneNexus,
	ActionFormSentry:      handleFormSentry,
	ActionFortifyPoint:    handleFortifyPoint,

	ActionPurifyTerritory:    handlePurifyTerritory,
	ActionSpawnRiftTrap:      handleSpawnRiftTrap,
	ActionRazeTerritory:      handleRazeTerritory,
	ActionSacrificeForLine:   handleSacrificeForLine,
	ActionCultivateHeartwood: handleCultivateHeartwood,

	ActionRuneShootBisector:     handleRuneShootBisector,
	ActionRuneImpale:            handleRuneImpale,
	ActionRuneHourglassStasis:   handleRuneHourglass,
	ActionRuneShieldPulse:       handleRunePush,
	ActionRuneAreaShield:        handleRuneAreaShield,
	ActionRuneFocusBeam:         handleRuneFocusBeam,
	ActionRuneCardinalPulse:     handleRuneCardinalPulse,
	ActionRuneTHammerSlam:       handleRunePush,
	ActionRuneStarlightCascade:  handleRuneStarlightCascade,
	ActionRuneParallelDischarge: handleRuneParallelDischarge,
	ActionRuneGravityWell:       handleRuneGravityWell,
}

// DispatchAction visualises the most recent action. The highlight set is
// replaced unconditionally, whatever the tag, and re-armed afterwards.
func DispatchAction(d *snapshot.ActionDetails, snap *snapshot.Snapshot, ctx *Context, cellSize float64) {
	if ctx == nil {
		return
	}
	now := ctx.Now()
	ctx.Highlight.Reset()
	if d != nil && snap != nil {
		e := &actionEnv{d: d, snap: snap, ctx: ctx, cell: cellSize, now: now}
		actionHandlers[ParseActionKind(d.Type)](e)
		e.bonusLines()
	}
	ctx.Highlight.Arm(now)
}

// actionEnv bundles the inputs every handler needs and the helpers they
// share. Helpers skip silently when an entity is missing from the snapshot.
type actionEnv struct {
	d    *snapshot.ActionDetails
	snap *snapshot.Snapshot
	ctx  *Context
	cell float64
	now  time.Time
}

func (e *actionEnv) at(c snapshot.Coord) Vec { return geom.CellCenter(c, e.cell) }
func (e *actionEnv) of(p snapshot.Point) Vec { return geom.PointCenter(p, e.cell) }
func (e *actionEnv) color(team string) color.NRGBA { return palette.Team(e.snap, team) }

func (e *actionEnv) emit(kind EffectKind, p Payload) {
	e.ctx.Effects.Add(kind, p, e.now)
}

func (e *actionEnv) emitAfter(kind EffectKind, p Payload, delay time.Duration) {
	e.ctx.Effects.AddDelayed(kind, p, e.now, delay)
}

func (e *actionEnv) hlPoints(ids ...string) { e.ctx.Highlight.AddPoints(ids...) }
func (e *actionEnv) hlLines(ids ...string) { e.ctx.Highlight.AddLines(ids...) }
func (e *actionEnv) hlStructures(ids ...string) { e.ctx.Highlight.AddStructures(ids...) }

// livePoints resolves ids against the snapshot and highlights the survivors.
func (e *actionEnv) livePoints(ids []string) []snapshot.Point {
	pts := e.snap.ResolvePoints(ids)
	for _, p := range pts {
		e.hlPoints(p.ID)
	}
	return pts
}

func (e *actionEnv) positions(pts []snapshot.Point) []Vec {
	out := make([]Vec, len(pts))
	for i, p := range pts {
		out[i] = e.of(p)
	}
	return out
}

// teamOf returns the first non-empty team id found on the listed points.
func (e *actionEnv) teamOf(pts []snapshot.Point) string {
	for _, p := range pts {
		if p.TeamID != "" {
			return p.TeamID
		}
	}
	return ""
}

// actingTeam reads the acting team from the details, falling back to fallback.
func (e *actionEnv) actingTeam(fallback string) string {
	if t, ok := e.d.Text("teamId"); ok && t != "" {
		return t
	}
	return fallback
}

// line emits kind along a line that still exists and highlights it with its
// endpoints.
func (e *actionEnv) line(kind EffectKind, l snapshot.Line, delay time.Duration) bool {
	p1, p2, ok := e.snap.LineEndpoints(l)
	if !ok {
		return false
	}
	e.hlLines(l.ID)
	e.hlPoints(p1.ID, p2.ID)
	e.emitAfter(kind, Payload{From: e.of(p1), To: e.of(p2), Color: e.color(l.TeamID), LineID: l.ID}, delay)
	return true
}

// lineFlash marks a destroyed line. The line itself is gone, so its endpoints
// must be resolved from the snapshot; if either is gone too, nothing is drawn.
func (e *actionEnv) lineFlash(l snapshot.Line, delay time.Duration) {
	p1, p2, ok := e.snap.LineEndpoints(l)
	if !ok {
		return
	}
	e.emitAfter(EffectLineFlash, Payload{From: e.of(p1), To: e.of(p2), Color: e.color(l.TeamID), LineID: l.ID}, delay)
}

// explode marks a destroyed point using the coordinates carried in the
// details payload.
func (e *actionEnv) explode(p snapshot.Point, delay time.Duration) {
	e.emitAfter(EffectPointExplosion, Payload{Center: e.of(p), Radius: e.cell * 1.4, Color: e.color(p.TeamID), PointID: p.ID}, delay)
}

func (e *actionEnv) appear(p snapshot.Point, delay time.Duration) {
	if p.ID == "" {
		return
	}
	e.hlPoints(p.ID)
	e.emitAfter(EffectPointAppear, Payload{Center: e.of(p), Radius: e.cell * 0.6, Color: e.color(p.TeamID), PointID: p.ID}, delay)
}

func (e *actionEnv) implode(p snapshot.Point, toward Vec, delay time.Duration) {
	e.emitAfter(EffectPointImplode, Payload{From: e.of(p), To: toward, Radius: e.cell * 0.5, Color: e.color(p.TeamID), PointID: p.ID}, delay)
}

func (e *actionEnv) beam(kind EffectKind, from, to Vec, team string, delay time.Duration) {
	e.emitAfter(kind, Payload{From: from, To: to, Color: e.color(team)}, delay)
}

func (e *actionEnv) structure(kind EffectKind, id string, center Vec, radius float64, team string, delay time.Duration) {
	e.hlStructures(id)
	e.emitAfter(kind, Payload{Center: center, Radius: radius, Color: e.color(team), StructureID: id}, delay)
}

func (e *actionEnv) move(p snapshot.Point, from Vec, delay time.Duration) {
	e.hlPoints(p.ID)
	e.emitAfter(EffectPointMove, Payload{From: from, To: e.of(p), Radius: e.cell * 0.3, Color: e.color(p.TeamID), PointID: p.ID}, delay)
}

// consequences visualises the common destroyed_* fields after delay.
func (e *actionEnv) consequences(delay time.Duration) {
	if p, ok := e.d.Point("destroyed_point"); ok && p.ID != "" {
		e.explode(p, delay)
	}
	if ps, ok := e.d.Points("destroyed_points"); ok {
		for _, p := range ps {
			e.explode(p, delay)
		}
	}
	if l, ok := e.d.Line("destroyed_line"); ok && l.ID != "" {
		e.lineFlash(l, delay)
	}
	if ls, ok := e.d.Lines("destroyed_lines"); ok {
		for _, l := range ls {
			e.lineFlash(l, delay)
		}
	}
}

// bonusLines applies to every action: some actions grant an extra line.
func (e *actionEnv) bonusLines() {
	if l, ok := e.d.Line("bonus_line"); ok && l.ID != "" {
		e.line(EffectLineAppear, l, 0)
	}
	if ls, ok := e.d.Lines("bonus_lines"); ok {
		for _, l := range ls {
			e.line(EffectLineAppear, l, 0)
		}
	}
}
