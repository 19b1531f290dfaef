//go:build ebiten

package app

import (
	"image/color"
	"time"

	"diversim/internal/core"
	"diversim/internal/render"
	"diversim/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type paletteProvider interface {
	Palette() []color.RGBA
}

// maxStepsPerFrame caps catch-up after a stalled frame.
const maxStepsPerFrame = 8

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	palette []color.RGBA
	timer   *core.FixedStep

	scale    int
	sps      int
	panel    int
	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the provided simulation. panel is the width of
// the control panel drawn right of the grid; zero hides it.
func New(sim core.Sim, scale, sps, panel int, seed int64) *Game {
	size := sim.Size()
	g := &Game{
		sim:     sim,
		painter: render.NewGridPainter(size.W, size.H),
		overlay: ui.NewOverlay(sim, scale),
		timer:   core.NewFixedStep(sps),
		scale:   scale,
		sps:     sps,
		panel:   panel,
		seed:    seed,
	}
	if panel > 0 {
		g.hud = ui.NewHUD(sim, panel)
	}
	if p, ok := sim.(paletteProvider); ok {
		g.palette = p.Palette()
	} else {
		g.palette = []color.RGBA{{A: 255}, {R: 255, G: 255, B: 255, A: 255}}
	}
	return g
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		g.setRate(g.sps * 2)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) {
		g.setRate(g.sps / 2)
	}

	g.overlay.Update()
	g.hud.Update(g.gridWidth())

	due := g.timer.Due(maxStepsPerFrame)
	switch {
	case g.tickOnce:
		g.sim.Step()
		g.tickOnce = false
	case !g.paused:
		for i := 0; i < due; i++ {
			g.sim.Step()
		}
	}
	return nil
}

func (g *Game) setRate(sps int) {
	g.sps = min(max(sps, 1), 1920)
	g.timer.SetRate(g.sps)
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.sim.Cells(), g.palette, g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.gridWidth(), g.scale)
}

func (g *Game) gridWidth() int { return g.sim.Size().W * g.scale }

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W*g.scale + g.panel, max(s.H*g.scale, g.hud.MinHeight())
}
