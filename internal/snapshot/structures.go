package snapshot

// Territory is a claimed triangle of three points.
type Territory struct {
	ID       string   `json:"id,omitempty"`
	PointIDs []string `json:"point_ids"`
	TeamID   string   `json:"teamId"`
}

// Rune is a geometric formation that unlocks special actions.
type Rune struct {
	ID       string   `json:"id,omitempty"`
	Kind     string   `json:"kind"`
	PointIDs []string `json:"point_ids"`
	TeamID   string   `json:"teamId"`
}

type Monolith struct {
	ID           string   `json:"id"`
	TeamID       string   `json:"teamId"`
	PointIDs     []string `json:"point_ids"`
	CenterCoords Coord    `json:"center_coords"`
	ChargeCount  int      `json:"charge_counter,omitempty"`
}

type Trebuchet struct {
	ID       string   `json:"id"`
	TeamID   string   `json:"teamId"`
	PointIDs []string `json:"point_ids"`
	ApexID   string   `json:"apex_id,omitempty"`
}

type Whirlpool struct {
	ID        string  `json:"id"`
	TeamID    string  `json:"teamId"`
	Coords    Coord   `json:"coords"`
	Radius    float64 `json:"radius"` // grid cells
	TurnsLeft int     `json:"turns_left"`
}

type Nexus struct {
	ID           string   `json:"id"`
	TeamID       string   `json:"teamId"`
	PointIDs     []string `json:"point_ids"`
	CenterCoords Coord    `json:"center_coords"`
	IsAttuned    bool     `json:"is_attuned,omitempty"`
}

type RiftSpire struct {
	ID      string `json:"id"`
	TeamID  string `json:"teamId"`
	PointID string `json:"point_id"`
	Coords  Coord  `json:"coords"`
	Charge  int    `json:"charge"`
	Charged bool   `json:"is_charged,omitempty"`
}

type RiftTrap struct {
	ID        string `json:"id"`
	TeamID    string `json:"teamId"`
	Coords    Coord  `json:"coords"`
	TurnsLeft int    `json:"turns_left"`
}

type Fissure struct {
	ID        string `json:"id"`
	P1        Coord  `json:"p1"`
	P2        Coord  `json:"p2"`
	TurnsLeft int    `json:"turns_left"`
}

type Barricade struct {
	ID        string `json:"id"`
	TeamID    string `json:"teamId"`
	P1        Coord  `json:"p1"`
	P2        Coord  `json:"p2"`
	TurnsLeft int    `json:"turns_left"`
}

type LeyLine struct {
	ID        string   `json:"id"`
	TeamID    string   `json:"teamId"`
	PointIDs  []string `json:"point_ids"`
	TurnsLeft int      `json:"turns_left"`
}

type Wonder struct {
	ID             string `json:"id"`
	TeamID         string `json:"teamId"`
	Kind           string `json:"type,omitempty"`
	Coords         Coord  `json:"coords"`
	TurnsToVictory int    `json:"turns_to_victory"`
}

type Prism struct {
	ID       string   `json:"id"`
	TeamID   string   `json:"teamId"`
	PointIDs []string `json:"point_ids"`
}

type Heartwood struct {
	ID            string `json:"id"`
	TeamID        string `json:"teamId"`
	CenterCoords  Coord  `json:"center_coords"`
	GrowthCounter int    `json:"growth_counter"`
}

// ScorchedZone is an area that no team may build in until it fades.
type ScorchedZone struct {
	ID        string  `json:"id,omitempty"`
	Polygon   []Coord `json:"polygon"`
	TurnsLeft int     `json:"turns_left"`
}
