package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/cardstack/pkg/geom"
	"github.com/matzehuels/cardstack/pkg/render"
)

const (
	headerLines = 1
	footerLines = 2
)

var (
	playErrorStyle       = lipgloss.NewStyle().Foreground(colorRed)
	playPlaceholderStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// boxRunes are the border characters of one card outline.
type boxRunes struct {
	h, v, tl, tr, bl, br rune
}

var (
	boxRound       = boxRunes{'─', '│', '╭', '╮', '╰', '╯'}
	boxSelected    = boxRunes{'═', '║', '╔', '╗', '╚', '╝'}
	boxHeavy       = boxRunes{'━', '┃', '┏', '┓', '┗', '┛'}
	boxPlaceholder = boxRunes{'┄', '┆', '┌', '┐', '└', '┘'}
)

// =============================================================================
// View
// =============================================================================

func (m *playModel) View() string {
	var b strings.Builder

	b.WriteString(m.headerLine())
	b.WriteString("\n")
	b.WriteString(m.canvas().String())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(m.helpLine()))

	return b.String()
}

func (m *playModel) headerLine() string {
	arrangement := string(m.snap.Arrangement)
	if i, ok := m.ctrl.Exposed().Get(); ok {
		arrangement = fmt.Sprintf("%s %d", arrangement, i)
	}
	info := fmt.Sprintf("  %d cards · %s · offset %.0f", m.deck.Count(), arrangement, m.snap.Viewport.Offset.Y)
	if m.dirty {
		info += " · unsaved"
	}
	return StyleTitle.Render(m.deck.Name) + StyleDim.Render(info)
}

func (m *playModel) statusLine() string {
	if m.err != nil {
		return playErrorStyle.Render(iconError + " " + m.err.Error())
	}
	if m.status == "" {
		return ""
	}
	return styleIconInfo.Render(iconInfo) + " " + m.status
}

func (m *playModel) helpLine() string {
	if m.ctrl.Dragging() {
		return "↑/↓ move  ⏎ drop  esc cancel"
	}
	if m.ctrl.Exposed().IsSet() {
		return "↑/↓ select  ⏎ expose/collapse  esc collapse  p pin  s save  q quit"
	}
	return "↑/↓ select  pgup/pgdn scroll  ⏎ expose  m move  p pin  s save  q quit"
}

// =============================================================================
// Coordinates
// =============================================================================

func (m *playModel) rows() int { return max(1, m.termH-headerLines-footerLines) }

func (m *playModel) cols() int { return max(1, m.termW) }

// unitX is the content width of one terminal column.
func (m *playModel) unitX() float64 {
	if m.snap.Viewport.Size.W <= 0 {
		return 1
	}
	return m.snap.Viewport.Size.W / float64(m.cols())
}

// unitY is the content height of one terminal row.
func (m *playModel) unitY() float64 {
	if m.snap.Viewport.Size.H <= 0 {
		return 1
	}
	return m.snap.Viewport.Size.H / float64(m.rows())
}

// dragStep is how far one key press moves the dragged card.
func (m *playModel) dragStep() float64 {
	return math.Max(m.ctrl.Config().Stacked.Reveal/2, m.unitY())
}

// contentPoint maps a terminal cell to the content point at its center.
func (m *playModel) contentPoint(x, y int) (geom.Point, bool) {
	row := y - headerLines
	if row < 0 || row >= m.rows() || x < 0 || x >= m.cols() {
		return geom.Point{}, false
	}
	off := m.snap.Viewport.Offset
	return geom.Pt(off.X+(float64(x)+0.5)*m.unitX(), off.Y+(float64(row)+0.5)*m.unitY()), true
}

// =============================================================================
// Canvas
// =============================================================================

type cell struct {
	r     rune
	style int
}

// textCanvas is a character grid in which every cell carries a style.
type textCanvas struct {
	cells  [][]cell
	styles []lipgloss.Style
	origin geom.Point
	ux, uy float64
}

func newTextCanvas(cols, rows int, origin geom.Point, ux, uy float64) *textCanvas {
	cells := make([][]cell, rows)
	for y := range cells {
		cells[y] = make([]cell, cols)
		for x := range cells[y] {
			cells[y][x] = cell{r: ' '}
		}
	}
	return &textCanvas{
		cells:  cells,
		styles: []lipgloss.Style{lipgloss.NewStyle()},
		origin: origin,
		ux:     ux,
		uy:     uy,
	}
}

// addStyle registers a style and returns its id.
func (t *textCanvas) addStyle(s lipgloss.Style) int {
	t.styles = append(t.styles, s)
	return len(t.styles) - 1
}

// box paints the outline of r with its label on the top edge. Later boxes
// overwrite earlier ones.
func (t *textCanvas) box(r geom.Rect, label string, border boxRunes, style int) {
	x0 := int(math.Floor((r.X - t.origin.X) / t.ux))
	x1 := int(math.Ceil((r.MaxX()-t.origin.X)/t.ux)) - 1
	y0 := int(math.Floor((r.Y - t.origin.Y) / t.uy))
	y1 := int(math.Ceil((r.MaxY()-t.origin.Y)/t.uy)) - 1
	x1 = max(x1, x0+1)
	y1 = max(y1, y0)

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			var ch rune
			switch {
			case y == y0 && x == x0:
				ch = border.tl
			case y == y0 && x == x1:
				ch = border.tr
			case y == y0:
				ch = border.h
			case y == y1 && x == x0:
				ch = border.bl
			case y == y1 && x == x1:
				ch = border.br
			case y == y1:
				ch = border.h
			case x == x0 || x == x1:
				ch = border.v
			default:
				ch = ' '
			}
			t.set(x, y, ch, style)
		}
	}

	room := x1 - x0 - 3
	if room <= 0 || label == "" {
		return
	}
	text := []rune(" " + label + " ")
	if len(text) > room {
		text = append(text[:room-1], '…')
	}
	for i, ch := range text {
		t.set(x0+2+i, y0, ch, style)
	}
}

func (t *textCanvas) set(x, y int, r rune, style int) {
	if y < 0 || y >= len(t.cells) || x < 0 || x >= len(t.cells[y]) {
		return
	}
	t.cells[y][x] = cell{r: r, style: style}
}

// String renders the grid, styling runs of cells that share a style.
func (t *textCanvas) String() string {
	var b strings.Builder
	for y, row := range t.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].style == row[start].style {
				continue
			}
			var run strings.Builder
			for _, c := range row[start:x] {
				run.WriteRune(c.r)
			}
			if row[start].style == 0 {
				b.WriteString(run.String())
			} else {
				b.WriteString(t.styles[row[start].style].Render(run.String()))
			}
			start = x
		}
	}
	return b.String()
}

// canvas paints the current snapshot. The moving card's slot is drawn as a
// placeholder and the card itself floats at the drag pointer.
func (m *playModel) canvas() *textCanvas {
	t := newTextCanvas(m.cols(), m.rows(), m.snap.Viewport.Offset, m.unitX(), m.unitY())

	colors := make([]string, m.deck.Count())
	for i, c := range m.deck.Cards {
		colors[i] = c.Color
	}
	cards := render.OnScreen(render.Cards(m.snap, m.deck.Titles(), colors, render.DefaultStyle()), m.snap)

	var floating *render.Card
	for i, c := range cards {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Fill))
		border := boxRound
		label := c.Label
		if c.Index < len(m.deck.Cards) && m.deck.Cards[c.Index].Pinned {
			label = iconPin + " " + label
		}
		switch {
		case c.Moving:
			floating = &cards[i]
			t.box(c.Frame, "", boxPlaceholder, t.addStyle(playPlaceholderStyle))
			continue
		case c.Index == m.cursor:
			border = boxSelected
			style = style.Bold(true)
		}
		t.box(c.ScaledFrame(), label, border, t.addStyle(style))
	}

	if floating != nil && m.ctrl.Dragging() {
		f := floating.ScaledFrame()
		f.Y = m.pointer.Y - f.H/2
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(floating.Fill)).Bold(true)
		t.box(f, floating.Label, boxHeavy, t.addStyle(style))
	}
	return t
}
