package sink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/cardstack/pkg/layout"
	"github.com/matzehuels/cardstack/pkg/render"
)

// Overlap is one occlusion edge: Upper is painted over part of Lower.
type Overlap struct {
	Upper, Lower int
}

// Occlusions returns every pair of visible cards whose frames overlap,
// ordered by the upper card's paint order.
func Occlusions(s layout.Snapshot) []Overlap {
	cards := render.Cards(s, nil, nil, render.Style{})
	var out []Overlap
	for i := len(cards) - 1; i >= 0; i-- {
		for j := i - 1; j >= 0; j-- {
			if cards[i].Frame.Intersects(cards[j].Frame) {
				out = append(out, Overlap{Upper: cards[i].Index, Lower: cards[j].Index})
			}
		}
	}
	return out
}

// ToDOT converts the snapshot's occlusion graph to Graphviz DOT.
func ToDOT(s layout.Snapshot, opts ...Option) string {
	r := newRenderer(opts...)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"monospace\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, c := range render.Cards(s, r.labels, r.colors, r.style) {
		attrs := []string{
			fmt.Sprintf("label=%q", fmt.Sprintf("%s\nz=%d", c.Label, s.At(c.Index).ZIndex)),
			fmt.Sprintf("fillcolor=%q", c.Fill),
			fmt.Sprintf("fontcolor=%q", r.style.Text),
		}
		if s.Exposed.Is(c.Index) {
			attrs = append(attrs, "penwidth=3")
		}
		if c.Moving {
			attrs = append(attrs, "style=\"rounded,filled,dashed\"")
		}
		fmt.Fprintf(&buf, "  \"card%d\" [%s];\n", c.Index, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, o := range Occlusions(s) {
		fmt.Fprintf(&buf, "  \"card%d\" -> \"card%d\";\n", o.Upper, o.Lower)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderDOTSVG renders a DOT graph to SVG using Graphviz.
func RenderDOTSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized svg tag with one whose
// width and height match the viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
