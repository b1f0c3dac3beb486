package layout

import (
	"math"

	errs "github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/geom"
)

// Stacked computes the collapsed arrangement of count items for the given
// viewport. Items overlap by cfg.Reveal, later items on top. When the content
// offset runs past either content edge, items are displaced to produce the
// rubber-band effect. A set drag.Moving marks that item hidden and scaled;
// it keeps its slot, which is where it will drop.
func Stacked(cfg StackedConfig, count int, vp Viewport, drag DragState) (Snapshot, error) {
	if err := errs.ValidateCount(count); err != nil {
		return Snapshot{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Snapshot{}, err
	}
	moving, dragging := drag.Moving.Get()
	if dragging {
		if err := errs.ValidateIndex("moving", moving, count); err != nil {
			return Snapshot{}, err
		}
	}

	m := cfg.Margin
	size := resolveItemSize(cfg.ItemSize, m, vp.Size)
	metrics := stackMetrics(cfg, count, vp.Size, size)

	snap := Snapshot{
		Arrangement: ArrangementStacked,
		Viewport:    vp,
		Extent:      geom.Size{W: vp.Size.W, H: metrics.extent},
		Moving:      drag.Moving,
		Attributes:  make([]Attributes, count),
	}

	overscroll := bounceOverscroll(cfg, vp, metrics.extent)
	for i := range count {
		y := metrics.top + float64(i)*metrics.reveal
		if overscroll != 0 {
			y += overscroll * cfg.BounceFactor * bounceWeight(i, count, overscroll)
		}
		a := Attributes{
			Index:     i,
			Frame:     geom.Rect{X: m.Left, Y: y, W: size.W, H: size.H},
			ZIndex:    i,
			Transform: Identity,
		}
		if dragging && i == moving {
			a.Hidden = true
			a.Transform = Transform{Scale: cfg.MovingItemScale}
		}
		snap.Attributes[i] = a
	}
	return snap, nil
}

// metrics are the per-pass quantities shared by every item.
type metrics struct {
	top    float64 // top of item 0 before bounce
	reveal float64 // effective reveal
	extent float64 // content height
}

func stackMetrics(cfg StackedConfig, count int, bounds, size geom.Size) metrics {
	m := cfg.Margin
	available := math.Max(0, bounds.H-m.Vertical())
	mt := metrics{top: m.Top, reveal: cfg.Reveal}

	if count == 0 {
		mt.extent = m.Vertical()
		return mt
	}

	if cfg.FillHeight && stackHeight(count, mt.reveal, size.H) < available {
		mt.reveal = available / float64(count)
	}

	if count == 1 && cfg.CenterSingleItem {
		mt.top = m.Top + math.Max(0, (available-size.H)/2)
		mt.extent = math.Max(m.Top+size.H+m.Bottom, mt.top+size.H+m.Bottom)
		return mt
	}

	mt.extent = m.Top + stackHeight(count, mt.reveal, size.H) + m.Bottom
	return mt
}

// stackHeight is the height from the top of the first item to the bottom of
// the last, which is never overlapped.
func stackHeight(count int, reveal, itemHeight float64) float64 {
	if count == 0 {
		return 0
	}
	return float64(count-1)*reveal + itemHeight
}

// bounceOverscroll returns the signed distance the offset extends past the
// nearest content edge (negative past the top), or zero when no compression
// applies.
func bounceOverscroll(cfg StackedConfig, vp Viewport, extent float64) float64 {
	if cfg.BounceFactor == 0 {
		return 0
	}
	if extent < vp.Size.H && !cfg.AlwaysBounce {
		return 0
	}
	maxOffset := math.Max(0, extent-vp.Size.H)
	switch y := vp.Offset.Y; {
	case y < 0:
		return y
	case y > maxOffset:
		return y - maxOffset
	}
	return 0
}

// bounceWeight is 1 for the item at the bounced edge and falls off linearly
// to 1/count at the far end.
func bounceWeight(i, count int, overscroll float64) float64 {
	n := float64(count)
	if overscroll < 0 {
		return (n - float64(i)) / n
	}
	return float64(i+1) / n
}
