package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "linewar.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoad_OverridesDefaults(t *testing.T) {
	p := writeFile(t, `
window:
  width: 1000
server:
  base_url: http://example.test:8080
  request_timeout: 2s
game:
  grid_size: 20
  auto_play_interval: 250ms
debug:
  show_hulls: true
`)
	c, err := Load(p, false)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Window.Width != 1000 || c.Window.Height != 800 {
		t.Fatalf("window = %+v", c.Window)
	}
	if c.Server.BaseURL != "http://example.test:8080" || c.Server.RequestTimeout != 2*time.Second {
		t.Fatalf("server = %+v", c.Server)
	}
	if c.Game.GridSize != 20 || c.Game.AutoPlayInterval != 250*time.Millisecond {
		t.Fatalf("game = %+v", c.Game)
	}
	if !c.Debug.ShowHulls || !c.Debug.HighlightLastAction {
		t.Fatalf("debug toggles = %+v", c.Debug)
	}
	if len(c.Game.Teams) != 2 {
		t.Fatal("default teams should survive when the file omits them")
	}
}

func TestLoad_Missing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.yaml")
	if _, err := Load(missing, true); err != nil {
		t.Fatalf("optional missing file should fall back to defaults: %v", err)
	}
	if _, err := Load(missing, false); err == nil {
		t.Fatal("required missing file should fail")
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"syntax":      "window: [",
		"grid":        "game:\n  grid_size: 1\n",
		"mode":        "server:\n  mode: carrier-pigeon\n",
		"replay path": "server:\n  mode: replay\n",
	}
	for name, body := range cases {
		if _, err := Load(writeFile(t, body), false); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}
}
