package pipeline

import (
	"slices"

	"github.com/matzehuels/cardstack/pkg/geom"
	"github.com/matzehuels/cardstack/pkg/layout"
	"github.com/matzehuels/cardstack/pkg/stackview"
)

// =============================================================================
// Layout Generation
// =============================================================================

// Layout is the output of the layout stage: one snapshot and the items in
// the order the snapshot shows them.
type Layout struct {
	Snapshot layout.Snapshot `json:"snapshot"`
	Labels   []string        `json:"labels,omitempty"`
	Colors   []string        `json:"colors,omitempty"`
	Moves    int             `json:"moves,omitempty"`
}

// GenerateLayout runs the layout controller once for the options.
//
// With Exposed set the item is exposed before the pass. With Moving set a
// drag of that item begins; when Pointer is also set the item is dragged
// there, which may reorder the labels and colors.
func GenerateLayout(opts Options) (Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return Layout{}, err
	}

	items := newItemList(opts)
	vp := layout.Viewport{
		Size:   geom.Sz(opts.Width, opts.Height),
		Offset: geom.Pt(0, opts.Offset),
	}
	ctrl, err := stackview.New(*opts.Config,
		stackview.WithViewport(func() layout.Viewport { return vp }),
		stackview.WithItems(items),
		stackview.WithMoveHost(items),
		stackview.WithLogger(opts.Logger),
	)
	if err != nil {
		return Layout{}, err
	}

	if i, ok := opts.Exposed.Get(); ok {
		if err := ctrl.Expose(i); err != nil {
			return Layout{}, err
		}
	}
	if i, ok := opts.Moving.Get(); ok {
		if _, err := ctrl.BeginDrag(i); err != nil {
			return Layout{}, err
		}
		if opts.Pointer != nil {
			step, err := ctrl.DragTo(*opts.Pointer)
			if err != nil {
				return Layout{}, err
			}
			opts.Logger.Debug("simulated drag", "from", i, "outcome", step.Outcome, "to", step.To)
		}
	}

	snap, err := ctrl.Refresh()
	if err != nil {
		return Layout{}, err
	}
	return Layout{
		Snapshot: snap,
		Labels:   items.labels,
		Colors:   items.trimmedColors(),
		Moves:    items.moves,
	}, nil
}

// itemList is the host of a simulated drag. Every card may move anywhere;
// accepted moves reorder the labels and colors.
type itemList struct {
	count  int
	labels []string
	colors []string
	moves  int
}

func newItemList(opts Options) *itemList {
	l := &itemList{count: opts.Count}
	if opts.Labels != nil {
		l.labels = slices.Clone(opts.Labels)
	}
	if len(opts.Colors) > 0 {
		l.colors = make([]string, opts.Count)
		copy(l.colors, opts.Colors)
	}
	return l
}

func (l *itemList) Count() int                            { return l.count }
func (l *itemList) CanMove(int) bool                      { return true }
func (l *itemList) Retarget(_, proposed int) layout.Index { return layout.IndexOf(proposed) }

func (l *itemList) OnMove(from, to int) {
	l.labels = moveItem(l.labels, from, to)
	l.colors = moveItem(l.colors, from, to)
	l.moves++
}

func (l *itemList) trimmedColors() []string {
	end := len(l.colors)
	for end > 0 && l.colors[end-1] == "" {
		end--
	}
	if end == 0 {
		return nil
	}
	return l.colors[:end]
}

func moveItem(s []string, from, to int) []string {
	if s == nil {
		return nil
	}
	v := s[from]
	s = slices.Delete(s, from, from+1)
	return slices.Insert(s, to, v)
}
