// Package layout computes card-stack geometry.
//
// Two engines produce a [Snapshot] of per-item [Attributes] (frame, z-order,
// scale, hidden flag) for a given item count and [Viewport]:
//
//   - [Stacked] collapses every item into an overlapping stack that scrolls
//     with the content offset, including rubber-band compression when the
//     offset runs past either content edge.
//   - An [ExposedArranger] enlarges one item to the full available rectangle
//     and arranges the remaining items above and below it according to a
//     [PinningMode].
//
// Both engines are pure functions of their inputs: no state survives between
// passes, every pass is linear in the item count, and the only allocation is
// the attributes slice. Contract violations (negative counts, out-of-range
// indices, invalid configuration) are reported as coded errors from
// github.com/matzehuels/cardstack/pkg/errors; degenerate inputs such as zero
// items or a zero-size viewport yield valid, possibly empty, layouts.
//
// # Coordinates
//
// Frames are expressed in the viewport's coordinate space, whose origin is
// the top of the scrollable content; the visible region of a viewport is
// [Viewport.Visible]. Pointer locations passed to [Snapshot.Candidate] use
// the same space.
//
// # Usage
//
//	cfg := layout.DefaultConfig()
//	vp := layout.Viewport{Size: geom.Sz(320, 480)}
//	snap, err := layout.Stacked(cfg.Stacked, 12, vp, layout.DragState{})
//
//	exposed := layout.NewExposedArranger(cfg.Exposed)
//	snap, err = exposed.Arrange(12, 3, vp)
package layout
