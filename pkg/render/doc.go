// Package render provides the visual vocabulary shared by snapshot renderers.
//
// # Overview
//
// A layout snapshot only carries geometry. Renderers in the [sink]
// subpackage turn it into pictures; this package holds what they have in
// common:
//
//   - [Style]: palette, stroke, corner radius and font size
//   - [Cards]: the snapshot's items in paint order, with labels and fills
//   - [Canvas]: the drawing area covering both viewport and content
//   - Color and XML helpers
//
// A renderer paints the cards bottom-most first:
//
//	cards := render.Cards(snap, labels, colors, render.DefaultStyle())
//	for _, c := range cards {
//	    // paint c.Frame with c.Fill, bottom-most first
//	}
//
// [sink]: github.com/matzehuels/cardstack/pkg/render/sink
package render
