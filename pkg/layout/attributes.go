package layout

import (
	"cmp"
	"slices"

	"github.com/matzehuels/cardstack/pkg/geom"
)

// Arrangement names the engine that produced a snapshot.
type Arrangement string

const (
	ArrangementStacked Arrangement = "stacked"
	ArrangementExposed Arrangement = "exposed"
)

// Transform is the visual transform applied to an item. A scale of 1 is the
// identity.
type Transform struct {
	Scale float64 `json:"scale"`
}

// Identity is the identity transform.
var Identity = Transform{Scale: 1}

// IsIdentity reports whether t leaves the item unchanged.
func (t Transform) IsIdentity() bool { return t.Scale == 1 }

// Attributes describes one item in one layout pass.
type Attributes struct {
	Index     int       `json:"index"`
	Frame     geom.Rect `json:"frame"`
	ZIndex    int       `json:"z_index"`
	Transform Transform `json:"transform"`
	// Hidden is set for the item being dragged; the host draws it in an
	// overlay instead.
	Hidden bool `json:"hidden,omitempty"`
}

// Viewport is the host viewport as seen by one layout pass.
type Viewport struct {
	Size   geom.Size  `json:"size"`
	Offset geom.Point `json:"offset"`
}

// Visible returns the region of content currently shown by the viewport.
func (v Viewport) Visible() geom.Rect {
	return geom.Rect{X: v.Offset.X, Y: v.Offset.Y, W: v.Size.W, H: v.Size.H}
}

// DragState is the in-progress drag as seen by the stacked engine.
type DragState struct {
	Moving  Index      `json:"moving"`
	Pointer geom.Point `json:"pointer"`
}

// Snapshot is the output of one layout pass.
type Snapshot struct {
	Arrangement Arrangement  `json:"arrangement"`
	Viewport    Viewport     `json:"viewport"`
	Extent      geom.Size    `json:"extent"`
	Exposed     Index        `json:"exposed"`
	Moving      Index        `json:"moving"`
	Attributes  []Attributes `json:"attributes"`
}

// Len returns the number of items in the snapshot.
func (s Snapshot) Len() int { return len(s.Attributes) }

// At returns the attributes of item i.
func (s Snapshot) At(i int) Attributes { return s.Attributes[i] }

// DrawOrder returns the attributes sorted bottom-most first, the order in
// which a renderer paints them.
func (s Snapshot) DrawOrder() []Attributes {
	out := slices.Clone(s.Attributes)
	slices.SortStableFunc(out, func(a, b Attributes) int {
		return cmp.Compare(a.ZIndex, b.ZIndex)
	})
	return out
}

// VisibleItems returns the indices of items whose frames intersect the
// viewport, in index order. Hidden items are included.
func (s Snapshot) VisibleItems() []int {
	visible := s.Viewport.Visible()
	var out []int
	for _, a := range s.Attributes {
		if a.Frame.Intersects(visible) {
			out = append(out, a.Index)
		}
	}
	return out
}
