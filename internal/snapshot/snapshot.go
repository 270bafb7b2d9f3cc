// Package snapshot holds the read-only game state returned by the simulation
// after every accepted action.
package snapshot

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Phase is the coarse lifecycle stage of a game.
type Phase string

const (
	PhaseSetup    Phase = "SETUP"
	PhaseRunning  Phase = "RUNNING"
	PhaseFinished Phase = "FINISHED"
)

// Team is one player faction.
type Team struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"` // "#rrggbb"
	Trait string `json:"trait"`
}

// Point is a vertex owned by a team. A point may carry several capability
// flags at once; the renderer picks one shape by a fixed priority.
type Point struct {
	ID     string `json:"id"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	TeamID string `json:"teamId"`

	IsFortified     bool `json:"is_fortified,omitempty"`
	IsAnchor        bool `json:"is_anchor,omitempty"`
	IsBastionCore   bool `json:"is_bastion_core,omitempty"`
	IsBastionProng  bool `json:"is_bastion_prong,omitempty"`
	IsSentryEye     bool `json:"is_sentry_eye,omitempty"`
	IsSentryPost    bool `json:"is_sentry_post,omitempty"`
	IsMonolithPoint bool `json:"is_monolith_point,omitempty"`
	IsPurifierPoint bool `json:"is_purifier_point,omitempty"`
	IsTrebuchet     bool `json:"is_trebuchet_point,omitempty"`
	IsNexusPoint    bool `json:"is_nexus_point,omitempty"`
	IsIsolated      bool `json:"is_isolated,omitempty"`
	IsStasis        bool `json:"is_stasis,omitempty"`
}

// Coord returns the point's grid position as a Coord.
func (p Point) Coord() Coord {
	return Coord{X: float64(p.X), Y: float64(p.Y)}
}

// Line connects two points of the same team.
type Line struct {
	ID            string `json:"id"`
	P1ID          string `json:"p1_id"`
	P2ID          string `json:"p2_id"`
	TeamID        string `json:"teamId"`
	IsShielded    bool   `json:"is_shielded,omitempty"`
	IsBastionLine bool   `json:"is_bastion_line,omitempty"`
	Strength      int    `json:"strength,omitempty"`
}

// Coord is a grid-space position. Rays and structure centres may fall
// between cells, so the components are floats.
type Coord struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Snapshot is one complete description of game state. It is never mutated
// after Decode.
type Snapshot struct {
	GridSize     int              `json:"grid_size"`
	Phase        Phase            `json:"game_phase"`
	Turn         int              `json:"turn"`
	MaxTurns     int              `json:"max_turns"`
	ActionInTurn int              `json:"action_in_turn"`
	Teams        map[string]Team  `json:"teams"`
	Points       map[string]Point `json:"points"`
	Lines        []Line           `json:"lines"`

	Territories   []Territory       `json:"territories,omitempty"`
	Runes         map[string][]Rune `json:"runes,omitempty"`
	Monoliths     []Monolith        `json:"monoliths,omitempty"`
	Trebuchets    []Trebuchet       `json:"trebuchets,omitempty"`
	Whirlpools    []Whirlpool       `json:"whirlpools,omitempty"`
	Nexuses       []Nexus           `json:"nexuses,omitempty"`
	RiftSpires    []RiftSpire       `json:"rift_spires,omitempty"`
	RiftTraps     []RiftTrap        `json:"rift_traps,omitempty"`
	Fissures      []Fissure         `json:"fissures,omitempty"`
	Barricades    []Barricade       `json:"barricades,omitempty"`
	LeyLines      []LeyLine         `json:"ley_lines,omitempty"`
	Wonders       []Wonder          `json:"wonders,omitempty"`
	Prisms        []Prism           `json:"prisms,omitempty"`
	Heartwoods    []Heartwood       `json:"heartwoods,omitempty"`
	ScorchedZones []ScorchedZone    `json:"scorched_zones,omitempty"`

	LastActionDetails *ActionDetails `json:"last_action_details,omitempty"`
	NewTurnEvents     []TurnEvent    `json:"new_turn_events,omitempty"`
	GameLog           []LogEntry     `json:"game_log,omitempty"`

	pointOrder []string
	teamOrder  []string
	lineIdx    map[string]int
}

// LogEntry is one line of the simulation's own narrative log.
type LogEntry struct {
	Message string `json:"message"`
	TeamID  string `json:"teamId,omitempty"`
}

// Decode parses a snapshot and builds its lookup indexes.
func Decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	s.Reindex()
	return &s, nil
}

// Reindex rebuilds the sorted id orders and the line index. Decode calls it;
// snapshots assembled by hand should call it once before use.
func (s *Snapshot) Reindex() {
	s.pointOrder = sortedKeys(s.Points)
	s.teamOrder = sortedKeys(s.Teams)
	s.lineIdx = make(map[string]int, len(s.Lines))
	for i, l := range s.Lines {
		s.lineIdx[l.ID] = i
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PointIDs returns all point ids in a stable order.
func (s *Snapshot) PointIDs() []string {
	if s.pointOrder == nil || len(s.pointOrder) != len(s.Points) {
		return sortedKeys(s.Points)
	}
	return s.pointOrder
}

// TeamIDs returns all team ids in a stable order.
func (s *Snapshot) TeamIDs() []string {
	if s.teamOrder == nil || len(s.teamOrder) != len(s.Teams) {
		return sortedKeys(s.Teams)
	}
	return s.teamOrder
}

// Point looks up a point by id.
func (s *Snapshot) Point(id string) (Point, bool) {
	if s == nil || id == "" {
		return Point{}, false
	}
	p, ok := s.Points[id]
	return p, ok
}

// Line looks up a line by id.
func (s *Snapshot) Line(id string) (Line, bool) {
	if s == nil || id == "" {
		return Line{}, false
	}
	if s.lineIdx != nil {
		if i, ok := s.lineIdx[id]; ok && i < len(s.Lines) && s.Lines[i].ID == id {
			return s.Lines[i], true
		}
		return Line{}, false
	}
	for _, l := range s.Lines {
		if l.ID == id {
			return l, true
		}
	}
	return Line{}, false
}

// Team looks up a team by id.
func (s *Snapshot) Team(id string) (Team, bool) {
	if s == nil {
		return Team{}, false
	}
	t, ok := s.Teams[id]
	return t, ok
}

// LineEndpoints resolves both endpoints of a line. ok is false when either
// endpoint no longer exists.
func (s *Snapshot) LineEndpoints(l Line) (Point, Point, bool) {
	p1, ok1 := s.Point(l.P1ID)
	p2, ok2 := s.Point(l.P2ID)
	return p1, p2, ok1 && ok2
}

// ResolvePoints returns the points for ids, skipping ids that are missing.
func (s *Snapshot) ResolvePoints(ids []string) []Point {
	out := make([]Point, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.Point(id); ok {
			out = append(out, p)
		}
	}
	return out
}

// TeamPoints returns a team's points in stable id order.
func (s *Snapshot) TeamPoints(teamID string) []Point {
	var out []Point
	for _, id := range s.PointIDs() {
		p := s.Points[id]
		if p.TeamID == teamID {
			out = append(out, p)
		}
	}
	return out
}
