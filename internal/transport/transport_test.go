package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Garsondee/linewar-client/internal/snapshot"
)

func snapJSON(turn int, action string) string {
	return fmt.Sprintf(`{"grid_size":10,"game_phase":"RUNNING","turn":%d,"teams":{"A":{"id":"A","color":"#ff0000"}},`+
		`"points":{"P1":{"id":"P1","x":1,"y":2,"teamId":"A"}},"lines":[],`+
		`"last_action_details":{"type":%q,"teamId":"A"}}`, turn, action)
}

// --- HTTP client ---

func TestHTTPClient_Endpoints(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	var startBody StartRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Method+" "+r.URL.Path)
		if r.URL.Path == pathStart {
			b, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(b, &startBody)
		}
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, snapJSON(3, "add_line"))
	}))
	defer srv.Close()

	c, err := NewHTTPClient(srv.URL+"/", time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	ctx := context.Background()
	calls := []func() (*snapshot.Snapshot, error){
		func() (*snapshot.Snapshot, error) { return c.State(ctx) },
		func() (*snapshot.Snapshot, error) {
			return c.StartGame(ctx, StartRequest{
				Teams:    []TeamSpec{{ID: "A", Name: "Red", Color: "#ff0000"}},
				Points:   []PointSpec{{X: 1, Y: 2, TeamID: "A"}},
				MaxTurns: 50,
				GridSize: 10,
			})
		},
		func() (*snapshot.Snapshot, error) { return c.NextAction(ctx) },
		func() (*snapshot.Snapshot, error) { return c.Restart(ctx) },
		func() (*snapshot.Snapshot, error) { return c.Reset(ctx) },
	}
	for i, call := range calls {
		s, err := call()
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if s.Turn != 3 || s.LastActionDetails == nil || s.LastActionDetails.Type != "add_line" {
			t.Fatalf("call %d: unexpected snapshot %+v", i, s)
		}
		if p, ok := s.Point("P1"); !ok || p.Y != 2 {
			t.Fatalf("call %d: point not decoded", i)
		}
	}

	want := []string{
		"GET " + pathState,
		"POST " + pathStart,
		"POST " + pathNextAction,
		"POST " + pathRestart,
		"POST " + pathReset,
	}
	mu.Lock()
	defer mu.Unlock()
	if len(seen) != len(want) {
		t.Fatalf("seen %v", seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("request %d = %q, want %q", i, seen[i], want[i])
		}
	}
	if len(startBody.Teams) != 1 || startBody.GridSize != 10 || len(startBody.Points) != 1 {
		t.Fatalf("start body not sent: %+v", startBody)
	}
}

func TestHTTPClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "game over", http.StatusConflict)
	}))
	defer srv.Close()

	c, err := NewHTTPClient(srv.URL, time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := c.NextAction(context.Background()); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}

func TestHTTPClient_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "{not json")
	}))
	defer srv.Close()

	c, err := NewHTTPClient(srv.URL, 0)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := c.State(context.Background()); err == nil {
		t.Fatal("expected a decode error")
	}
}

// --- Record / replay ---

func decodeAll(t *testing.T, docs ...string) []*snapshot.Snapshot {
	t.Helper()
	out := make([]*snapshot.Snapshot, len(docs))
	for i, d := range docs {
		s, err := snapshot.Decode([]byte(d))
		if err != nil {
			t.Fatalf("decode %d: %v", i, err)
		}
		out[i] = s
	}
	return out
}

func TestReplay_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions", "game.jsonl.zst")
	src := NewReplaySource(decodeAll(t,
		snapJSON(1, "add_line"),
		snapJSON(1, "attack_line"),
		snapJSON(2, "form_monolith"),
	))
	rec, err := NewRecorder(src, path)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	ctx := context.Background()
	if _, err := rec.State(ctx); err != nil {
		t.Fatalf("state: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := rec.NextAction(ctx); err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
	}
	if _, err := rec.NextAction(ctx); !errors.Is(err, ErrEndOfReplay) {
		t.Fatalf("expected end of replay from the wrapped source, got %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	replay, err := OpenReplay(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if replay.Len() != 3 {
		t.Fatalf("expected 3 recorded snapshots, got %d", replay.Len())
	}
	first, err := replay.State(ctx)
	if err != nil || first.LastActionDetails.Type != "add_line" {
		t.Fatalf("first = %+v, %v", first, err)
	}
	wantTags := []string{"attack_line", "form_monolith"}
	for _, want := range wantTags {
		s, err := replay.NextAction(ctx)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if s.LastActionDetails.Type != want {
			t.Fatalf("got %s, want %s", s.LastActionDetails.Type, want)
		}
		if tid, _ := s.LastActionDetails.Text("teamId"); tid != "A" {
			t.Fatal("extra action fields lost in the round trip")
		}
	}
	if _, err := replay.NextAction(ctx); !errors.Is(err, ErrEndOfReplay) {
		t.Fatalf("expected ErrEndOfReplay, got %v", err)
	}

	s, err := replay.Restart(ctx)
	if err != nil || s.LastActionDetails.Type != "add_line" || replay.Position() != 0 {
		t.Fatal("restart should rewind to the first snapshot")
	}
}

func TestReplay_Empty(t *testing.T) {
	r := NewReplaySource(nil)
	if _, err := r.State(context.Background()); !errors.Is(err, ErrEndOfReplay) {
		t.Fatalf("expected ErrEndOfReplay, got %v", err)
	}
	if _, err := r.NextAction(context.Background()); !errors.Is(err, ErrEndOfReplay) {
		t.Fatalf("expected ErrEndOfReplay, got %v", err)
	}
}

func TestOpenReplay_Missing(t *testing.T) {
	if _, err := OpenReplay(filepath.Join(t.TempDir(), "nope.zst")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
