// Package transport fetches snapshots from the simulation server, and records
// and replays them.
package transport

import (
	"context"
	"errors"

	"github.com/Garsondee/linewar-client/internal/snapshot"
)

// ErrEndOfReplay is returned by a replay source once every recorded snapshot
// has been served.
var ErrEndOfReplay = errors.New("transport: end of replay")

// Source yields one complete snapshot per call.
type Source interface {
	State(ctx context.Context) (*snapshot.Snapshot, error)
	StartGame(ctx context.Context, req StartRequest) (*snapshot.Snapshot, error)
	NextAction(ctx context.Context) (*snapshot.Snapshot, error)
	Restart(ctx context.Context) (*snapshot.Snapshot, error)
	Reset(ctx context.Context) (*snapshot.Snapshot, error)
}

// TeamSpec is one team configured on the setup screen.
type TeamSpec struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Trait string `json:"trait,omitempty"`
}

// PointSpec is one starting point placed on the setup screen.
type PointSpec struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	TeamID string `json:"teamId"`
}

// StartRequest is the body of a start-game call.
type StartRequest struct {
	Teams    []TeamSpec  `json:"teams"`
	Points   []PointSpec `json:"points"`
	MaxTurns int         `json:"max_turns"`
	GridSize int         `json:"grid_size"`
}
