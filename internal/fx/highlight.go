package fx

import "time"

// HighlightWindow is how long the entities touched by an action stay
// emphasised.
const HighlightWindow = 2000 * time.Millisecond

// HighlightSet holds the ids touched by the most recent action. It is
// replaced, never merged, each time a new action is dispatched.
type HighlightSet struct {
	Points     map[string]struct{}
	Lines      map[string]struct{}
	Structures map[string]struct{}

	clearAt time.Time
	armed   bool
}

// NewHighlightSet creates an empty set.
func NewHighlightSet() *HighlightSet {
	return &HighlightSet{
		Points:     make(map[string]struct{}),
		Lines:      make(map[string]struct{}),
		Structures: make(map[string]struct{}),
	}
}

// Reset empties all three sets and cancels any pending clear.
func (h *HighlightSet) Reset() {
	clear(h.Points)
	clear(h.Lines)
	clear(h.Structures)
	h.armed = false
	h.clearAt = time.Time{}
}

// Arm schedules an automatic clear HighlightWindow after now, replacing any
// earlier deadline.
func (h *HighlightSet) Arm(now time.Time) {
	h.clearAt = now.Add(HighlightWindow)
	h.armed = true
}

// Deadline returns the pending clear time, if any.
func (h *HighlightSet) Deadline() (time.Time, bool) {
	return h.clearAt, h.armed
}

// Expire clears the set once the armed deadline has passed. It reports
// whether a clear happened.
func (h *HighlightSet) Expire(now time.Time) bool {
	if !h.armed || now.Before(h.clearAt) {
		return false
	}
	h.Reset()
	return true
}

func (h *HighlightSet) AddPoints(ids ...string) { addAll(h.Points, ids) }
func (h *HighlightSet) AddLines(ids ...string) { addAll(h.Lines, ids) }
func (h *HighlightSet) AddStructures(ids ...string) { addAll(h.Structures, ids) }

func addAll(set map[string]struct{}, ids []string) {
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
}

func (h *HighlightSet) HasPoint(id string) bool {
	_, ok := h.Points[id]
	return ok
}

func (h *HighlightSet) HasLine(id string) bool {
	_, ok := h.Lines[id]
	return ok
}

func (h *HighlightSet) HasStructure(id string) bool {
	_, ok := h.Structures[id]
	return ok
}

// Empty reports whether all three sets are empty.
func (h *HighlightSet) Empty() bool {
	return len(h.Points) == 0 && len(h.Lines) == 0 && len(h.Structures) == 0
}

// Engaged reports whether highlighting applies: the preference is on and at
// least one set is non-empty.
func (h *HighlightSet) Engaged(enabled bool) bool {
	return h != nil && enabled && !h.Empty()
}
