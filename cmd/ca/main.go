//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"diversim/internal/app"
	"diversim/internal/logging"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	resolved, err := cfg.Resolve()
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.NewLogger(resolved.Logging.Level, os.Stderr)
	world, err := app.NewWorld(resolved, logger)
	if err != nil {
		log.Fatal(err)
	}

	game := app.New(world, cfg.Scale, cfg.SPS, cfg.PanelWidth, resolved.World.Seed)
	w, h := game.Layout(0, 0)

	ebiten.SetWindowTitle("diversim: " + world.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
