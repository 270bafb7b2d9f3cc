package fx

import "time"

// Debug holds the user-facing rendering toggles.
type Debug struct {
	ShowPointIDs        bool
	ShowLineIDs         bool
	HighlightLastAction bool
	ShowHulls           bool
}

// SetupTeam is a team staged locally before the game starts.
type SetupTeam struct {
	ID    string
	Name  string
	Color string
	Trait string
}

// StagedPoint is a point placed during SETUP that the server has not yet
// accepted.
type StagedPoint struct {
	X, Y   int
	TeamID string
}

// SetupState is the scratch state of the setup screen.
type SetupState struct {
	Teams        []SetupTeam
	Points       []StagedPoint
	SelectedTeam string
}

// Team returns the staged team with id.
func (s *SetupState) Team(id string) (SetupTeam, bool) {
	for _, t := range s.Teams {
		if t.ID == id {
			return t, true
		}
	}
	return SetupTeam{}, false
}

// Context is owned by the hosting shell and lent to every dispatch and
// render call.
type Context struct {
	Debug     Debug
	Highlight *HighlightSet
	Effects   *Registry
	Setup     SetupState
	Clock     Clock
}

// NewContext creates a context with empty effect state. A nil clock means
// the system clock.
func NewContext(clock Clock) *Context {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Context{
		Debug:     Debug{HighlightLastAction: true},
		Highlight: NewHighlightSet(),
		Effects:   NewRegistry(),
		Clock:     clock,
	}
}

// Now reads the context clock.
func (c *Context) Now() time.Time {
	if c.Clock == nil {
		return time.Now()
	}
	return c.Clock.Now()
}

// Tick is the per-frame maintenance step: prune elapsed effects and clear
// the highlight once its deadline passes. It never enqueues anything.
func (c *Context) Tick() {
	now := c.Now()
	c.Effects.Prune(now)
	c.Highlight.Expire(now)
}

// Reset drops every effect and the highlight, for example after a game
// restart. Debug toggles and setup staging belong to the shell and survive.
func (c *Context) Reset() {
	c.Effects.Clear()
	c.Highlight.Reset()
}
