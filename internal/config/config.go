// Package config loads the client settings file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Source modes.
const (
	ModeHTTP   = "http"
	ModeReplay = "replay"
)

type Config struct {
	Window Window `yaml:"window"`
	Server Server `yaml:"server"`
	Game   Game   `yaml:"game"`
	Replay Replay `yaml:"replay"`
	Debug  Debug  `yaml:"debug"`
}

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	// LogPanelWidth is the width of the action log strip beside the board.
	LogPanelWidth int `yaml:"log_panel_width"`
}

type Server struct {
	Mode           string        `yaml:"mode"`
	BaseURL        string        `yaml:"base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type Game struct {
	GridSize         int           `yaml:"grid_size"`
	MaxTurns         int           `yaml:"max_turns"`
	AutoPlayInterval time.Duration `yaml:"auto_play_interval"`
	Teams            []Team        `yaml:"teams"`
}

type Team struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
	Trait string `yaml:"trait"`
}

type Replay struct {
	// Path is read in replay mode.
	Path string `yaml:"path"`
	// RecordPath, when set in http mode, records every received snapshot.
	RecordPath string `yaml:"record_path"`
}

type Debug struct {
	ShowPointIDs        bool `yaml:"show_point_ids"`
	ShowLineIDs         bool `yaml:"show_line_ids"`
	HighlightLastAction bool `yaml:"highlight_last_action"`
	ShowHulls           bool `yaml:"show_hulls"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Window: Window{Width: 800, Height: 800, Title: "Linewar", LogPanelWidth: 320},
		Server: Server{Mode: ModeHTTP, BaseURL: "http://127.0.0.1:5000", RequestTimeout: 5 * time.Second},
		Game: Game{
			GridSize:         30,
			MaxTurns:         100,
			AutoPlayInterval: 800 * time.Millisecond,
			Teams: []Team{
				{ID: "team-1", Name: "Crimson", Color: "#f44336"},
				{ID: "team-2", Name: "Azure", Color: "#2196f3"},
			},
		},
		Debug: Debug{HighlightLastAction: true},
	}
}

// Load reads path over the defaults. A missing file is not an error when
// optional is set.
func Load(path string, optional bool) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return c, nil
		}
		return c, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// Validate rejects settings the client cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("window size %dx%d", c.Window.Width, c.Window.Height)
	case c.Game.GridSize < 2:
		return fmt.Errorf("grid_size %d", c.Game.GridSize)
	case c.Server.Mode != ModeHTTP && c.Server.Mode != ModeReplay:
		return fmt.Errorf("unknown server mode %q", c.Server.Mode)
	case c.Server.Mode == ModeReplay && c.Replay.Path == "":
		return errors.New("replay mode needs replay.path")
	}
	return nil
}
