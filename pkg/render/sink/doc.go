// Package sink renders layout snapshots to output formats.
//
// # Overview
//
// A "sink" transforms a computed [layout.Snapshot] into a final output
// format:
//
//   - SVG: vector drawing of the cards in paint order, with the viewport outline
//   - PNG: raster drawing via fogleman/gg, labels set in Go Mono
//   - DOT: the occlusion graph (which card covers which) in Graphviz DOT
//   - JSON: the snapshot document from [io]
//
// All renderers accept the same [Option] values:
//
//	svg := sink.RenderSVG(snap, sink.WithLabels(titles...))
//	png, err := sink.RenderPNG(snap, sink.WithLabels(titles...), sink.WithScale(2))
//
// # Occlusion Graph
//
// [ToDOT] emits one node per visible card and an edge from each card to every
// card it overlaps from above. In a stacked pass with reveal smaller than the
// card height this is a chain; in an exposed pass the pinned cards form
// separate clusters. [RenderDOTSVG] lays the graph out with Graphviz.
//
// [layout.Snapshot]: github.com/matzehuels/cardstack/pkg/layout.Snapshot
// [io]: github.com/matzehuels/cardstack/pkg/io
package sink
