// Package move implements the interactive move controller: the state machine
// that tracks a single drag over a stacked layout, hit-tests the pointer
// against a fresh layout pass, asks the host whether a proposed destination
// is acceptable, and reports accepted moves.
//
// Every accepted retarget is real: the host reorders its backing data in
// [Mover.OnMove] immediately, and the controller continues from the new
// index. Cancelling a drag therefore unhides the item but never reorders;
// [Result] carries the original and final index so a host that wants
// transactional drags can move the item back itself.
//
// The controller is synchronous and single-threaded. Collaborators are
// consulted inline and must return before the next pointer update.
package move

import (
	"fmt"

	"github.com/matzehuels/cardstack/pkg/layout"
)

// State is the controller's drag state.
type State int

const (
	// Idle means no drag is in progress.
	Idle State = iota
	// Dragging means an item follows the pointer.
	Dragging
	// Committing is the transient state while a drag ends normally.
	Committing
	// Cancelling is the transient state while a drag is aborted.
	Cancelling
)

var stateNames = [...]string{"idle", "dragging", "committing", "cancelling"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Checker decides whether an item may be dragged.
type Checker interface {
	CanMove(index int) bool
}

// Retargeter decides where a dragged item may go. Returning
// [layout.NoIndex] rejects the proposal and keeps the current position;
// returning another index redirects the move there.
type Retargeter interface {
	Retarget(source, proposed int) layout.Index
}

// Mover is told about every accepted move. The host reorders its own data.
type Mover interface {
	OnMove(from, to int)
}

// CheckerFunc adapts a function to [Checker].
type CheckerFunc func(index int) bool

func (f CheckerFunc) CanMove(index int) bool { return f(index) }

// RetargeterFunc adapts a function to [Retargeter].
type RetargeterFunc func(source, proposed int) layout.Index

func (f RetargeterFunc) Retarget(source, proposed int) layout.Index { return f(source, proposed) }

// MoverFunc adapts a function to [Mover].
type MoverFunc func(from, to int)

func (f MoverFunc) OnMove(from, to int) { f(from, to) }

// AllowAll permits every item to move.
var AllowAll Checker = CheckerFunc(func(int) bool { return true })

// AcceptProposed accepts every proposed destination unchanged.
var AcceptProposed Retargeter = RetargeterFunc(func(_, proposed int) layout.Index {
	return layout.IndexOf(proposed)
})

// IgnoreMoves discards move notifications.
var IgnoreMoves Mover = MoverFunc(func(int, int) {})

// ArrangeFunc produces the current stacked layout for count items with the
// given drag state. The controller calls it for every hit-test so it never
// tests against stale frames.
type ArrangeFunc func(count int, drag layout.DragState) (layout.Snapshot, error)

// Outcome classifies what one pointer update did.
type Outcome int

const (
	// Unchanged means the pointer still resolves to the current position.
	Unchanged Outcome = iota
	// Moved means a retarget was accepted and reported to the [Mover].
	Moved
	// Rejected means the [Retargeter] refused the proposed destination.
	Rejected
)

var outcomeNames = [...]string{"unchanged", "moved", "rejected"}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
	return outcomeNames[o]
}

// Step is the result of one pointer update.
type Step struct {
	Outcome Outcome
	// Candidate is the index the pointer resolved to.
	Candidate int
	// From and To are set for Moved; To may differ from Candidate when the
	// Retargeter redirected the move.
	From, To int
	// Snapshot is the layout after the update.
	Snapshot layout.Snapshot
}

// Result summarizes a finished drag.
type Result struct {
	Original  int
	Final     int
	Moves     int
	Cancelled bool
	// Snapshot is the layout after the drag, with the item visible again.
	Snapshot layout.Snapshot
}
