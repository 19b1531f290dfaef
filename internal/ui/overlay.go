//go:build ebiten

package ui

import (
	"image/color"

	"diversim/internal/core"
	"diversim/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type dissatisfactionProvider interface {
	Dissatisfaction() []float64
}

type mixingProvider interface {
	Mixing() []float64
}

// Overlay shades per-vertex diagnostics on top of the base simulation.
type Overlay struct {
	sim   core.Sim
	scale int

	showDissatisfied bool
	showMixing       bool
	painter          *render.GridPainter
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	size := sim.Size()
	return &Overlay{
		sim:     sim,
		scale:   scale,
		painter: render.NewGridPainter(size.W, size.H),
	}
}

// Update toggles the layers: 1 shades dissatisfied vertices, 2 shades mixed
// neighborhoods.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showDissatisfied = !o.showDissatisfied
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showMixing = !o.showMixing
	}
}

// Draw renders the enabled layers onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if o.showDissatisfied {
		if p, ok := o.sim.(dissatisfactionProvider); ok {
			o.painter.Shade(screen, p.Dissatisfaction(), color.RGBA{R: 20, G: 20, B: 24, A: 255}, 170, o.scale)
		}
	}
	if o.showMixing {
		if p, ok := o.sim.(mixingProvider); ok {
			o.painter.Shade(screen, p.Mixing(), color.RGBA{R: 255, G: 255, B: 255, A: 255}, 140, o.scale)
		}
	}
}
