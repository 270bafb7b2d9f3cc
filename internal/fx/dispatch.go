package fx

import "github.com/Garsondee/linewar-client/internal/snapshot"

// ProcessStateChange is called once per snapshot received from the server.
// Turn events replay only when the turn strictly advanced, so a restart or a
// re-fetched state never animates the same events twice. The last action is
// always dispatched: the server rewrites it for every accepted action.
// Points freed by this turn's events stay highlighted alongside the action's
// own ids and share its clear deadline.
func ProcessStateChange(prev, cur *snapshot.Snapshot, ctx *Context, cellSize float64) {
	if cur == nil || ctx == nil {
		return
	}
	var freed []string
	if turnAdvanced(prev, cur) && len(cur.NewTurnEvents) > 0 {
		freed = ProcessTurnEvents(cur.NewTurnEvents, cur, ctx, cellSize)
	}
	if cur.LastActionDetails != nil {
		DispatchAction(cur.LastActionDetails, cur, ctx, cellSize)
		ctx.Highlight.AddPoints(freed...)
	}
}

func turnAdvanced(prev, cur *snapshot.Snapshot) bool {
	return prev != nil && cur.Turn > prev.Turn
}
