package move

import (
	"io"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/geom"
	"github.com/matzehuels/cardstack/pkg/layout"
	"github.com/matzehuels/cardstack/pkg/observability"
)

// Controller tracks at most one drag at a time.
type Controller struct {
	arrange    ArrangeFunc
	checker    Checker
	retargeter Retargeter
	mover      Mover
	logger     *log.Logger

	state    State
	count    int
	original int
	moves    int
	drag     layout.DragState
}

// Option configures a Controller.
type Option func(*Controller)

// WithChecker sets the can-move query. Nil keeps the default, which allows
// every item.
func WithChecker(c Checker) Option {
	return func(m *Controller) {
		if c != nil {
			m.checker = c
		}
	}
}

// WithRetargeter sets the retarget query. Nil keeps the default, which
// accepts every proposal.
func WithRetargeter(r Retargeter) Option {
	return func(m *Controller) {
		if r != nil {
			m.retargeter = r
		}
	}
}

// WithMover sets the move notification receiver.
func WithMover(mv Mover) Option {
	return func(m *Controller) {
		if mv != nil {
			m.mover = mv
		}
	}
}

// WithLogger sets the debug logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Controller) {
		if l != nil {
			m.logger = l
		}
	}
}

// New returns an idle Controller that lays out items with arrange.
func New(arrange ArrangeFunc, opts ...Option) *Controller {
	c := &Controller{
		arrange:    arrange,
		checker:    AllowAll,
		retargeter: AcceptProposed,
		mover:      IgnoreMoves,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Drag returns the current drag state; Moving is absent when idle.
func (c *Controller) Drag() layout.DragState { return c.drag }

// Begin starts dragging item index of count items. The Checker is asked
// exactly once per drag, here. Begin returns false, with the controller
// still idle, when the Checker denies the move. Starting a
// second drag or naming a nonexistent item is an error.
func (c *Controller) Begin(index, count int) (bool, error) {
	if c.state != Idle {
		return false, errs.New(errs.ErrCodeInvalidState, "drag already in progress (state %s)", c.state)
	}
	if err := errs.ValidateIndex("drag", index, count); err != nil {
		return false, err
	}
	if !c.checker.CanMove(index) {
		c.logger.Debug("drag denied", "index", index)
		return false, nil
	}

	c.state = Dragging
	c.count = count
	c.original = index
	c.moves = 0
	c.drag = layout.DragState{Moving: layout.IndexOf(index)}
	c.logger.Debug("drag began", "index", index, "count", count)
	observability.Interaction().OnDragBegin(index)
	return true, nil
}

// Update moves the pointer to p. It lays the items out afresh, resolves p to
// a candidate destination and, when that differs from the current position,
// consults the Retargeter. The Checker is not consulted again; a host that
// withdraws permission mid-drag calls Cancel. An accepted destination is reported to the Mover
// exactly once and becomes the new position.
func (c *Controller) Update(p geom.Point) (Step, error) {
	if c.state != Dragging {
		return Step{}, errs.New(errs.ErrCodeInvalidState, "no drag in progress (state %s)", c.state)
	}
	current, _ := c.drag.Moving.Get()

	c.drag.Pointer = p
	snap, err := c.arrange(c.count, c.drag)
	if err != nil {
		return Step{}, err
	}
	candidate, _ := snap.Candidate(p)
	step := Step{Outcome: Unchanged, Candidate: candidate, Snapshot: snap}
	if candidate == current {
		return step, nil
	}

	dest, ok := c.retargeter.Retarget(current, candidate).Get()
	switch {
	case !ok:
		step.Outcome = Rejected
		return step, nil
	case dest == current:
		return step, nil
	}
	if err := errs.ValidateIndex("retarget", dest, c.count); err != nil {
		return Step{}, err
	}

	c.mover.OnMove(current, dest)
	observability.Interaction().OnMove(current, dest)
	c.logger.Debug("item moved", "from", current, "to", dest, "candidate", candidate)
	c.drag.Moving = layout.IndexOf(dest)
	c.moves++

	snap, err = c.arrange(c.count, c.drag)
	if err != nil {
		return Step{}, err
	}
	step.Outcome = Moved
	step.From, step.To = current, dest
	step.Snapshot = snap
	return step, nil
}

// End finishes the drag. With commit false the drag is cancelled; moves
// already reported stay in effect either way. The controller is idle
// afterwards even when the final layout pass fails.
func (c *Controller) End(commit bool) (Result, error) {
	if c.state != Dragging {
		return Result{}, errs.New(errs.ErrCodeInvalidState, "no drag in progress (state %s)", c.state)
	}
	if commit {
		c.state = Committing
	} else {
		c.state = Cancelling
	}

	final, _ := c.drag.Moving.Get()
	res := Result{
		Original:  c.original,
		Final:     final,
		Moves:     c.moves,
		Cancelled: !commit,
	}
	c.logger.Debug("drag ended", "state", c.state, "original", res.Original, "final", res.Final, "moves", res.Moves)

	count := c.count
	c.reset()
	observability.Interaction().OnDragEnd(res.Original, res.Final, res.Moves, res.Cancelled)

	snap, err := c.arrange(count, layout.DragState{})
	if err != nil {
		return res, err
	}
	res.Snapshot = snap
	return res, nil
}

// Cancel aborts the drag, for example when the host revokes permission to
// move. It is End(false).
func (c *Controller) Cancel() (Result, error) { return c.End(false) }

func (c *Controller) reset() {
	c.state = Idle
	c.count = 0
	c.original = 0
	c.moves = 0
	c.drag = layout.DragState{}
}
