// Package stackview selects between the stacked and exposed arrangements and
// coordinates expose, collapse and drag on behalf of a host view.
//
// The Controller owns two pieces of state: which item, if any, is exposed,
// and the drag in progress, if any (through a [move.Controller]). Every call
// to [Controller.Layout] or [Controller.Refresh] runs the engine for the
// current state; nothing is cached between passes.
//
// A drag is only possible in the stacked arrangement, and exposing while a
// drag is in progress is a contract violation. Drag hit-testing uses the
// content offset of the last [Controller.Layout] pass, so it matches the
// frames the host last drew.
//
// Hosts that drive the controller with Layout alone may omit [WithItems]:
// Expose, BeginDrag and Tap then validate against the count of the last
// Layout pass, which is 0 before the first one.
package stackview

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/geom"
	"github.com/matzehuels/cardstack/pkg/layout"
	"github.com/matzehuels/cardstack/pkg/move"
	"github.com/matzehuels/cardstack/pkg/observability"
)

// Controller is the layout selector for one host view.
type Controller struct {
	cfg        layout.Config
	viewport   ViewportFunc
	items      ItemSource
	moveHost   MoveHost
	observer   ExposeObserver
	factory    layout.ExposedFactory
	logger     *log.Logger
	selectable bool

	arranger layout.ExposedArranger
	mover    *move.Controller
	exposed  layout.Index

	override    geom.Point
	hasOverride bool

	// Count and offset of the last Layout pass.
	laidOut    int
	lastOffset geom.Point
	hasLayout  bool
}

// New returns a Controller in the stacked arrangement.
func New(cfg layout.Config, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{
		cfg:      cfg,
		viewport: func() layout.Viewport { return layout.Viewport{} },
		factory:  layout.NewExposedArranger,
		logger:   log.New(io.Discard),
	}
	c.items = CountFunc(func() int { return c.laidOut })
	for _, opt := range opts {
		opt(c)
	}
	c.arranger = c.factory(cfg.Exposed)

	moveOpts := []move.Option{move.WithLogger(c.logger)}
	if c.moveHost != nil {
		moveOpts = append(moveOpts,
			move.WithChecker(c.moveHost),
			move.WithRetargeter(c.moveHost),
			move.WithMover(c.moveHost),
		)
	}
	c.mover = move.New(c.arrangeStacked, moveOpts...)
	return c, nil
}

// Config returns the geometry configuration.
func (c *Controller) Config() layout.Config { return c.cfg }

// Exposed returns the exposed item, if any.
func (c *Controller) Exposed() layout.Index { return c.exposed }

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool { return c.mover.State() != move.Idle }

// Drag returns the drag in progress.
func (c *Controller) Drag() layout.DragState { return c.mover.Drag() }

// Expose makes index the exposed item. Switching directly from one exposed
// item to another collapses the old one in the same transition: the
// observer sees begin(old,false), begin(new,true), end(old,false),
// end(new,true). Exposing the item that is already exposed does nothing.
func (c *Controller) Expose(index int) error {
	if c.Dragging() {
		return errs.New(errs.ErrCodeInvalidState, "cannot expose item %d while dragging", index)
	}
	if err := errs.ValidateIndex("exposed", index, c.items.Count()); err != nil {
		return err
	}
	if c.exposed.Is(index) {
		return nil
	}
	c.transition(layout.IndexOf(index))
	return nil
}

// Collapse returns to the stacked arrangement. It does nothing when no item
// is exposed.
func (c *Controller) Collapse() error {
	if c.Dragging() {
		return errs.New(errs.ErrCodeInvalidState, "cannot collapse while dragging")
	}
	if !c.exposed.IsSet() {
		return nil
	}
	c.transition(layout.NoIndex)
	return nil
}

func (c *Controller) transition(next layout.Index) {
	prev := c.exposed
	c.logger.Debug("expose transition", "from", prev, "to", next)

	if i, ok := prev.Get(); ok {
		c.notifyBegin(i, false)
	}
	if i, ok := next.Get(); ok {
		c.notifyBegin(i, true)
	}
	c.exposed = next
	if i, ok := prev.Get(); ok {
		c.notifyEnd(i, false)
	}
	if i, ok := next.Get(); ok {
		c.notifyEnd(i, true)
	}
}

func (c *Controller) notifyBegin(index int, exposing bool) {
	if c.observer != nil {
		c.observer.OnExposeBegin(index, exposing)
	}
	observability.Interaction().OnExposeChange(index, exposing)
}

func (c *Controller) notifyEnd(index int, exposing bool) {
	if c.observer != nil {
		c.observer.OnExposeEnd(index, exposing)
	}
}

// SetContentOffsetOverride makes subsequent passes use p instead of the
// viewport's content offset, for hosts that lay out ahead of a scroll.
func (c *Controller) SetContentOffsetOverride(p geom.Point) {
	c.override, c.hasOverride = p, true
}

// ClearContentOffsetOverride restores the viewport's content offset.
func (c *Controller) ClearContentOffsetOverride() {
	c.override, c.hasOverride = geom.Point{}, false
}

// Layout computes the arrangement for count items at the given content
// offset, dispatching to the exposed engine when an item is exposed and to
// the stacked engine otherwise.
func (c *Controller) Layout(count int, offset geom.Point) (layout.Snapshot, error) {
	start := time.Now()
	vp := c.viewport()
	vp.Offset = offset
	if c.hasOverride {
		vp.Offset = c.override
	}

	var (
		snap layout.Snapshot
		err  error
	)
	if i, ok := c.exposed.Get(); ok {
		snap, err = c.arranger.Arrange(count, i, vp)
	} else {
		snap, err = layout.Stacked(c.cfg.Stacked, count, vp, c.mover.Drag())
	}
	if err != nil {
		return layout.Snapshot{}, err
	}
	c.laidOut, c.lastOffset, c.hasLayout = count, vp.Offset, true
	observability.Interaction().OnLayoutPass(string(snap.Arrangement), count, time.Since(start))
	return snap, nil
}

// Refresh lays out the host's current items at the viewport's current
// offset.
func (c *Controller) Refresh() (layout.Snapshot, error) {
	return c.Layout(c.items.Count(), c.viewport().Offset)
}

// arrangeStacked is the move controller's view of the stacked engine. The
// offset comes from the override, then the last Layout pass, then the
// viewport.
func (c *Controller) arrangeStacked(count int, drag layout.DragState) (layout.Snapshot, error) {
	vp := c.viewport()
	switch {
	case c.hasOverride:
		vp.Offset = c.override
	case c.hasLayout:
		vp.Offset = c.lastOffset
	}
	return layout.Stacked(c.cfg.Stacked, count, vp, drag)
}

// BeginDrag starts dragging item index. It reports false when the host
// denies the move.
func (c *Controller) BeginDrag(index int) (bool, error) {
	if c.exposed.IsSet() {
		return false, errs.New(errs.ErrCodeInvalidState, "cannot drag while item %s is exposed", c.exposed)
	}
	return c.mover.Begin(index, c.items.Count())
}

// DragTo moves the drag pointer to p, given in content coordinates.
func (c *Controller) DragTo(p geom.Point) (move.Step, error) {
	return c.mover.Update(p)
}

// EndDrag finishes the drag, cancelling it when commit is false.
func (c *Controller) EndDrag(commit bool) (move.Result, error) {
	return c.mover.End(commit)
}

// CancelDrag aborts the drag, for hosts that withdraw permission to move
// after the drag began.
func (c *Controller) CancelDrag() (move.Result, error) {
	return c.mover.Cancel()
}

// Tap handles a tap at p in content coordinates and returns the item that
// became exposed, if any. Tapping the exposed item collapses it. Tapping
// another item exposes it when nothing is exposed, or when unexposed items
// are selectable.
func (c *Controller) Tap(p geom.Point) (layout.Index, error) {
	if c.Dragging() {
		return layout.NoIndex, errs.New(errs.ErrCodeInvalidState, "cannot tap while dragging")
	}
	snap, err := c.Refresh()
	if err != nil {
		return layout.NoIndex, err
	}
	i, ok := snap.ItemAt(p)
	if !ok {
		return layout.NoIndex, nil
	}

	switch {
	case c.exposed.Is(i):
		return layout.NoIndex, c.Collapse()
	case c.exposed.IsSet() && !c.selectable:
		return layout.NoIndex, nil
	}
	if err := c.Expose(i); err != nil {
		return layout.NoIndex, err
	}
	return layout.IndexOf(i), nil
}
