//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"

	"seam-lattice/internal/app"
	"seam-lattice/internal/config"
	"seam-lattice/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	var env config.Env
	if err := config.ParseEnv(&env); err != nil {
		config.Exitf("seam: %v", err)
	}
	cfg.ApplyEnv(env)

	sim, err := cfg.Build()
	if err != nil {
		log.Fatal(err)
	}

	size := sim.Size()
	scale := cfg.ScaleFor(size)
	game := app.New(sim, scale, cfg.Seed, cfg.HUDWidth)

	ebiten.SetWindowTitle("seam lattice: " + sim.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(size.W*scale+max(0, cfg.HUDWidth), size.H*scale+ui.StatusHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
