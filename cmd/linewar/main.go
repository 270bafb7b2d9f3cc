package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/linewar-client/internal/config"
	"github.com/Garsondee/linewar-client/internal/shell"
	"github.com/Garsondee/linewar-client/internal/transport"
)

func main() {
	configPath := flag.String("config", "linewar.yaml", "settings file (optional)")
	server := flag.String("server", "", "simulation server base URL (overrides config)")
	replay := flag.String("replay", "", "play back a recorded session instead of a server")
	record := flag.String("record", "", "record received snapshots to this .jsonl.zst file")
	flag.Parse()

	cfg, err := config.Load(*configPath, true)
	if err != nil {
		log.Fatal(err)
	}
	if *server != "" {
		cfg.Server.Mode = config.ModeHTTP
		cfg.Server.BaseURL = *server
	}
	if *replay != "" {
		cfg.Server.Mode = config.ModeReplay
		cfg.Replay.Path = *replay
	}
	if *record != "" {
		cfg.Replay.RecordPath = *record
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	src, closeSrc, err := openSource(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeSrc()

	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width+cfg.Window.LogPanelWidth, cfg.Window.Height)
	if err := ebiten.RunGame(shell.New(src, cfg)); err != nil {
		log.Fatal(err)
	}
}

func openSource(cfg config.Config) (transport.Source, func(), error) {
	if cfg.Server.Mode == config.ModeReplay {
		r, err := transport.OpenReplay(cfg.Replay.Path)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("replaying %d snapshots from %s", r.Len(), cfg.Replay.Path)
		return r, func() {}, nil
	}

	c, err := transport.NewHTTPClient(cfg.Server.BaseURL, cfg.Server.RequestTimeout)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Replay.RecordPath == "" {
		return c, func() {}, nil
	}
	rec, err := transport.NewRecorder(c, cfg.Replay.RecordPath)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("recording to %s", cfg.Replay.RecordPath)
	return rec, func() {
		if err := rec.Close(); err != nil {
			log.Printf("close recording: %v", err)
		}
	}, nil
}
