package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/cardstack/pkg/geom"
	"github.com/matzehuels/cardstack/pkg/layout"
)

// Style controls how cards are painted.
type Style struct {
	Palette      []string
	Background   string
	Stroke       string
	Text         string
	Viewport     string
	StrokeWidth  float64
	CornerRadius float64
	FontSize     float64
}

// DefaultStyle returns the style used when none is given.
func DefaultStyle() Style {
	return Style{
		Palette:      []string{"#457b9d", "#e63946", "#2a9d8f", "#f4a261", "#6d597a", "#8ab17d"},
		Background:   "#f8f9fa",
		Stroke:       "#1d3557",
		Text:         "#ffffff",
		Viewport:     "#adb5bd",
		StrokeWidth:  1.5,
		CornerRadius: 10,
		FontSize:     14,
	}
}

// Fill returns the fill color for item i: colors[i] when given, otherwise
// the palette color.
func (s Style) Fill(i int, colors []string) string {
	if i < len(colors) && colors[i] != "" {
		return colors[i]
	}
	if len(s.Palette) == 0 {
		return "#888888"
	}
	return s.Palette[i%len(s.Palette)]
}

// Card is one item ready to paint.
type Card struct {
	Index  int
	Label  string
	Fill   string
	Frame  geom.Rect
	Scale  float64
	Moving bool
}

// Cards returns the items of s to paint, bottom-most first. Hidden items
// are skipped, except the moving item, which is painted as the placeholder
// of its drop slot. Items without a label are named by their index.
func Cards(s layout.Snapshot, labels, colors []string, style Style) []Card {
	order := s.DrawOrder()
	out := make([]Card, 0, len(order))
	for _, a := range order {
		if a.Hidden && !s.Moving.Is(a.Index) {
			continue
		}
		label := strconv.Itoa(a.Index)
		if a.Index < len(labels) {
			label = labels[a.Index]
		}
		// A zero transform, as decoded from a document that omits it, is
		// drawn unscaled.
		scale := 1.0
		if !a.Transform.IsIdentity() && a.Transform.Scale > 0 {
			scale = a.Transform.Scale
		}
		out = append(out, Card{
			Index:  a.Index,
			Label:  label,
			Fill:   style.Fill(a.Index, colors),
			Frame:  a.Frame,
			Scale:  scale,
			Moving: s.Moving.Is(a.Index),
		})
	}
	return out
}

// OnScreen keeps the cards whose frames intersect the viewport of s, for
// hosts that only paint what is visible. The moving card is always kept.
func OnScreen(cards []Card, s layout.Snapshot) []Card {
	visible := make(map[int]bool, len(cards))
	for _, i := range s.VisibleItems() {
		visible[i] = true
	}
	out := cards[:0:0]
	for _, c := range cards {
		if visible[c.Index] || c.Moving {
			out = append(out, c)
		}
	}
	return out
}

// Canvas returns the area a renderer must cover: the union of the content
// extent, the visible viewport and every item frame. Its X origin is 0.
func Canvas(s layout.Snapshot) geom.Rect {
	vis := s.Viewport.Visible()
	minY := math.Min(0, vis.MinY())
	maxY := math.Max(s.Extent.H, vis.MaxY())
	maxX := math.Max(s.Extent.W, vis.MaxX())
	for _, a := range s.Attributes {
		minY = math.Min(minY, a.Frame.MinY())
		maxY = math.Max(maxY, a.Frame.MaxY())
		maxX = math.Max(maxX, a.Frame.MaxX())
	}
	return geom.R(0, minY, maxX, maxY-minY)
}

// ScaledFrame applies a card's scale about the frame center.
func (c Card) ScaledFrame() geom.Rect {
	if c.Scale == 1 {
		return c.Frame
	}
	w, h := c.Frame.W*c.Scale, c.Frame.H*c.Scale
	ctr := c.Frame.Center()
	return geom.R(ctr.X-w/2, ctr.Y-h/2, w, h)
}

// ParseHex parses "#rgb" or "#rrggbb" into components in [0,1].
func ParseHex(s string) (r, g, b float64, err error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return float64(v>>16&0xff) / 255, float64(v>>8&0xff) / 255, float64(v&0xff) / 255, nil
}

// EscapeXML escapes s for use in SVG text and attributes.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
