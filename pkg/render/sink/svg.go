package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/cardstack/pkg/layout"
	"github.com/matzehuels/cardstack/pkg/render"
)

const cardCSS = `
    .card rect { stroke-width: %.1f; }
    .card.moving { opacity: 0.4; }
    .card.moving rect { stroke-dasharray: 4 3; }
    .card.exposed rect { stroke-width: %.1f; }
    .viewport { fill: none; stroke-dasharray: 6 4; }`

// RenderSVG renders the snapshot as an SVG document.
func RenderSVG(s layout.Snapshot, opts ...Option) []byte {
	r := newRenderer(opts...)
	canvas := render.Canvas(s)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		canvas.X, canvas.Y, canvas.W, canvas.H, canvas.W, canvas.H)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", fmt.Sprintf(cardCSS, r.style.StrokeWidth, 2*r.style.StrokeWidth))
	fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		canvas.X, canvas.Y, canvas.W, canvas.H, r.style.Background)

	for _, c := range render.Cards(s, r.labels, r.colors, r.style) {
		renderCardSVG(&buf, r.style, c, s.Exposed.Is(c.Index))
	}

	if r.showViewport {
		v := s.Viewport.Visible()
		fmt.Fprintf(&buf, `  <rect class="viewport" x="%.1f" y="%.1f" width="%.1f" height="%.1f" stroke="%s"/>`+"\n",
			v.X, v.Y, v.W, v.H, r.style.Viewport)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderCardSVG(buf *bytes.Buffer, style render.Style, c render.Card, exposed bool) {
	class := "card"
	if c.Moving {
		class += " moving"
	}
	if exposed {
		class += " exposed"
	}

	f := c.ScaledFrame()
	fmt.Fprintf(buf, `  <g id="card-%d" class="%s">`+"\n", c.Index, class)
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="%s" stroke="%s"/>`+"\n",
		f.X, f.Y, f.W, f.H, style.CornerRadius*c.Scale, c.Fill, style.Stroke)
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-family="monospace" font-size="%.1f" fill="%s">%s</text>`+"\n",
		f.X+style.CornerRadius, f.Y+style.FontSize+style.CornerRadius/2, style.FontSize*c.Scale, style.Text, render.EscapeXML(c.Label))
	buf.WriteString("  </g>\n")
}
