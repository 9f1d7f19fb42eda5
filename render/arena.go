// Package render draws simulation snapshots onto a tcell screen
package render

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/arena/agent"
	"github.com/lixenwraith/arena/engine"
	"github.com/lixenwraith/arena/roster"
)

const (
	hudRows = 1

	glyphBody  = '█'
	glyphSmall = '●'
	glyphDying = '·'

	// labelMaxAlive is the living count under which names are drawn next to agents
	labelMaxAlive = 12
)

// Arena maps world coordinates onto the screen below a one-row HUD
type Arena struct {
	screen tcell.Screen

	base  tcell.Style
	hud   tcell.Style
	label tcell.Style
	dying tcell.Style

	banner string
}

func NewArena(screen tcell.Screen) *Arena {
	base := tcell.StyleDefault.Background(RGBBackground.Color())
	return &Arena{
		screen: screen,
		base:   base,
		hud:    base.Foreground(RGBHUD.Color()),
		label:  base.Foreground(RGBLabel.Color()),
		dying:  base.Foreground(RGBDying.Color()),
	}
}

// SetBanner shows text centered over the arena until cleared with ""
func (a *Arena) SetBanner(text string) { a.banner = text }

// viewport is the world to cell transform of one frame
type viewport struct {
	cols, rows int
	sx, sy     float64
}

func (v viewport) cell(x, y float64) (int, int) {
	cx := int(x * v.sx)
	cy := int(y * v.sy)
	return min(max(cx, 0), v.cols-1), min(max(cy, 0), v.rows-1) + hudRows
}

// Draw renders one snapshot; participants supplies labels by agent index and may be shorter than the population
func (a *Arena) Draw(sn *engine.Snapshot, participants []roster.Participant) {
	w, h := a.screen.Size()
	a.fill(w, h)

	rows := h - hudRows
	if w <= 0 || rows <= 0 || sn == nil || sn.Width <= 0 || sn.Height <= 0 {
		a.screen.Show()
		return
	}
	v := viewport{cols: w, rows: rows, sx: float64(w) / sn.Width, sy: float64(rows) / sn.Height}

	// Dying first so living agents draw over fading ones
	for i := 0; i < sn.Len(); i++ {
		if sn.State[i] == agent.Dying {
			cx, cy := v.cell(sn.X[i], sn.Y[i])
			a.screen.SetContent(cx, cy, glyphDying, nil, a.dying)
		}
	}
	for i := 0; i < sn.Len(); i++ {
		if sn.State[i] == agent.Alive {
			a.disc(v, sn.X[i], sn.Y[i], sn.R[i], a.base.Foreground(HealthColor(sn.Health[i]).Color()))
		}
	}
	if sn.Alive <= labelMaxAlive {
		for i := 0; i < sn.Len(); i++ {
			if sn.State[i] != agent.Alive {
				continue
			}
			cx, cy := v.cell(sn.X[i]+sn.R[i], sn.Y[i])
			a.text(cx+1, cy, labelFor(participants, i), a.label)
		}
	}

	a.drawHUD(sn, w)
	if a.banner != "" {
		a.text((w-len([]rune(a.banner)))/2, hudRows+rows/2, a.banner, a.base.Foreground(RGBBanner.Color()).Bold(true))
	}
	a.screen.Show()
}

func labelFor(participants []roster.Participant, i int) string {
	if i < len(participants) {
		return participants[i].Label(i)
	}
	return roster.Participant{}.Label(i)
}

// disc fills every cell whose center lies inside the ellipse the circle maps to
func (a *Arena) disc(v viewport, x, y, r float64, style tcell.Style) {
	rx, ry := r*v.sx, r*v.sy
	if rx < 1 && ry < 1 {
		cx, cy := v.cell(x, y)
		a.screen.SetContent(cx, cy, glyphSmall, nil, style)
		return
	}
	ccx, ccy := x*v.sx, y*v.sy
	x0, x1 := int(math.Floor(ccx-rx)), int(math.Ceil(ccx+rx))
	y0, y1 := int(math.Floor(ccy-ry)), int(math.Ceil(ccy+ry))
	drawn := false
	for cy := max(y0, 0); cy <= min(y1, v.rows-1); cy++ {
		for cx := max(x0, 0); cx <= min(x1, v.cols-1); cx++ {
			dx := (float64(cx) + 0.5 - ccx) / rx
			dy := (float64(cy) + 0.5 - ccy) / ry
			if dx*dx+dy*dy <= 1 {
				a.screen.SetContent(cx, cy+hudRows, glyphBody, nil, style)
				drawn = true
			}
		}
	}
	if !drawn {
		cx, cy := v.cell(x, y)
		a.screen.SetContent(cx, cy, glyphSmall, nil, style)
	}
}

func (a *Arena) fill(w, h int) {
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a.screen.SetContent(x, y, ' ', nil, a.base)
		}
	}
}

func (a *Arena) drawHUD(sn *engine.Snapshot, w int) {
	flags := ""
	if sn.Paused {
		flags += " [paused]"
	}
	if sn.Endless {
		flags += " [endless]"
	}
	if !sn.Collisions {
		flags += " [no collisions]"
	}
	line := fmt.Sprintf(" alive %d/%d  tick %d  scale %.2f%s", sn.Alive, sn.Len(), sn.Tick, sn.Scale, flags)
	a.text(0, 0, line, a.hud)
	hint := "space pause  r reset  e endless  c collisions  d dying  q quit "
	if len(line)+len(hint) < w {
		a.text(w-len(hint), 0, hint, a.hud.Dim(true))
	}
}

func (a *Arena) text(x, y int, s string, style tcell.Style) {
	w, _ := a.screen.Size()
	for _, r := range s {
		if x >= w {
			return
		}
		if x >= 0 {
			a.screen.SetContent(x, y, r, nil, style)
		}
		x++
	}
}
