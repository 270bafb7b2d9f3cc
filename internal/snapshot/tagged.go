package snapshot

import (
	"encoding/json"
	"fmt"
)

// Tagged is a loosely-typed record identified by its "type" field. The
// simulation adds new fields and tags over time, so the remaining fields are
// kept raw and decoded on demand.
type Tagged struct {
	Type   string
	fields map[string]json.RawMessage
}

// ActionDetails describes the most recent accepted action and its concrete
// consequences (destroyed and created entities, rays, coordinates).
type ActionDetails = Tagged

// TurnEvent is a background state change that happened without being the
// active player's action.
type TurnEvent = Tagged

// NewTagged builds a record from plain Go values. It is mostly used by tests
// and the replay tooling.
func NewTagged(typ string, fields map[string]any) (*Tagged, error) {
	t := &Tagged{Type: typ, fields: make(map[string]json.RawMessage, len(fields)+1)}
	for k, v := range fields {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		t.fields[k] = raw
	}
	t.fields["type"], _ = json.Marshal(typ)
	return t, nil
}

// MustTagged is NewTagged for literals known to be encodable.
func MustTagged(typ string, fields map[string]any) *Tagged {
	t, err := NewTagged(typ, fields)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Tagged) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	t.fields = m
	t.Type = ""
	if raw, ok := m["type"]; ok {
		if err := json.Unmarshal(raw, &t.Type); err != nil {
			return fmt.Errorf("type tag: %w", err)
		}
	}
	return nil
}

func (t Tagged) MarshalJSON() ([]byte, error) {
	if t.fields == nil {
		return json.Marshal(map[string]string{"type": t.Type})
	}
	return json.Marshal(t.fields)
}

// Has reports whether key is present and not null.
func (t *Tagged) Has(key string) bool {
	if t == nil {
		return false
	}
	raw, ok := t.fields[key]
	return ok && string(raw) != "null"
}

// Field decodes the value stored under key. ok is false when the key is
// absent, null, or does not fit T.
func Field[T any](t *Tagged, key string) (T, bool) {
	var v T
	if !t.Has(key) {
		return v, false
	}
	if err := json.Unmarshal(t.fields[key], &v); err != nil {
		return v, false
	}
	return v, true
}

func (t *Tagged) Text(key string) (string, bool) { return Field[string](t, key) }
func (t *Tagged) Float(key string) (float64, bool) { return Field[float64](t, key) }
func (t *Tagged) Int(key string) (int, bool) { return Field[int](t, key) }
func (t *Tagged) IDs(key string) ([]string, bool) { return Field[[]string](t, key) }
func (t *Tagged) Line(key string) (Line, bool) { return Field[Line](t, key) }
func (t *Tagged) Lines(key string) ([]Line, bool) { return Field[[]Line](t, key) }
func (t *Tagged) Point(key string) (Point, bool) { return Field[Point](t, key) }
func (t *Tagged) Points(key string) ([]Point, bool) {
	return Field[[]Point](t, key)
}
func (t *Tagged) Coord(key string) (Coord, bool) { return Field[Coord](t, key) }
func (t *Tagged) Coords(key string) ([]Coord, bool) { return Field[[]Coord](t, key) }

// Ray decodes a two-element coordinate list.
func (t *Tagged) Ray(key string) (Coord, Coord, bool) {
	cs, ok := t.Coords(key)
	if !ok || len(cs) < 2 {
		return Coord{}, Coord{}, false
	}
	return cs[0], cs[1], true
}

// Territory decodes a territory object.
func (t *Tagged) Territory(key string) (Territory, bool) { return Field[Territory](t, key) }

// Each decodes key as a list of nested records, for example the per-point
// displacement entries of a pull action.
func (t *Tagged) Each(key string) []*Tagged {
	raws, ok := Field[[]json.RawMessage](t, key)
	if !ok {
		return nil
	}
	out := make([]*Tagged, 0, len(raws))
	for _, raw := range raws {
		var sub Tagged
		if err := json.Unmarshal(raw, &sub); err != nil {
			continue
		}
		out = append(out, &sub)
	}
	return out
}
