//go:build ebiten

package ui

import (
	"fmt"
	"image"
	"image/color"

	"diversim/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

var (
	panelBackground = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	textColor       = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	mutedColor      = color.RGBA{R: 160, G: 160, B: 170, A: 255}
)

type parameterProvider interface {
	Parameters() core.ParameterSnapshot
}

// HUD renders the control panel to the right of the simulation view.
type HUD struct {
	sim      core.Sim
	width    int
	panel    *ebiten.Image
	pixel    *ebiten.Image
	snapshot core.ParameterSnapshot
	title    string

	controls []control
	floats   core.FloatParameterSetter
	choices  core.ChoiceParameterSetter
}

// NewHUD constructs a HUD for the provided simulation and panel width.
func NewHUD(sim core.Sim, width int) *HUD {
	h := &HUD{sim: sim, width: max(width, 0), title: sim.Name() + " controls"}
	if h.width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	if p, ok := sim.(core.ParameterControlsProvider); ok {
		h.controls = newControls(p.ParameterControls())
	}
	h.floats, _ = sim.(core.FloatParameterSetter)
	h.choices, _ = sim.(core.ChoiceParameterSetter)
	return h
}

// Update refreshes the snapshot and applies a click on the panel, which
// starts at x = offsetX on screen.
func (h *HUD) Update(offsetX int) {
	if h == nil {
		return
	}
	if p, ok := h.sim.(parameterProvider); ok {
		h.snapshot = p.Parameters()
	}
	for i := range h.controls {
		h.controls[i].sync(h.snapshot)
	}
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	click := image.Pt(mx-offsetX, my)
	for i := range h.controls {
		minus, plus := buttons(i, h.width)
		switch {
		case click.In(minus):
			h.controls[i].apply(-1, h.floats, h.choices)
			return
		case click.In(plus):
			h.controls[i].apply(1, h.floats, h.choices)
			return
		}
	}
}

// MinHeight is the panel height needed to show every control and statistic.
func (h *HUD) MinHeight() int {
	if h == nil {
		return 0
	}
	return rowsTop + len(h.controls)*rowHeight + statsLines*statsSpacing + panelPadding
}

// Draw paints the panel at offsetX, to the right of the grid.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	height := max(h.sim.Size().H*max(scale, 1), h.MinHeight())
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(panelBackground)

	face := basicfont.Face7x13
	text.Draw(h.panel, h.title, face, panelPadding, panelPadding+headerBaseline, mutedColor)
	for i := range h.controls {
		c := &h.controls[i]
		y := rowsTop + i*rowHeight + labelBaseline
		minus, plus := buttons(i, h.width)
		text.Draw(h.panel, c.def.Label, face, panelPadding, y, textColor)
		col := textColor
		if !c.known {
			col = mutedColor
		}
		text.Draw(h.panel, c.value, face, minus.Min.X-buttonGap-text.BoundString(face, c.value).Dx(), y, col)

		down, up := "<", ">"
		if c.def.Type == core.ParamTypeFloat {
			down, up = "-", "+"
		}
		h.drawButton(minus, down, h.enabled(c, -1))
		h.drawButton(plus, up, h.enabled(c, 1))
	}
	h.drawStats(face)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) enabled(c *control, dir int) bool {
	if _, _, ok := c.next(dir); !ok {
		return false
	}
	if c.def.Type == core.ParamTypeFloat {
		return h.floats != nil
	}
	return h.choices != nil
}

// drawStats lists the live run statistics below the controls.
func (h *HUD) drawStats(face *basicfont.Face) {
	y := rowsTop + len(h.controls)*rowHeight + statsSpacing
	for _, g := range h.snapshot.Groups {
		if g.Name != "Run" {
			continue
		}
		if g.Summary != "" {
			text.Draw(h.panel, g.Summary, face, panelPadding, y, mutedColor)
			y += statsSpacing
		}
		for _, p := range g.Params {
			text.Draw(h.panel, fmt.Sprintf("%-16s %s", p.Label, p.Value), face, panelPadding, y, textColor)
			y += statsSpacing
		}
	}
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	bg, fg := color.RGBA{R: 54, G: 56, B: 64, A: 255}, color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg, fg = color.RGBA{R: 32, G: 34, B: 40, A: 255}, color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	b := text.BoundString(face, label)
	text.Draw(h.panel, label, face, rect.Min.X+(rect.Dx()-b.Dx())/2, rect.Min.Y+(rect.Dy()+b.Dy())/2, fg)
}
