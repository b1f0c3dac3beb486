package stackview

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/cardstack/pkg/layout"
	"github.com/matzehuels/cardstack/pkg/move"
)

// ViewportFunc reports the host viewport: its bounds size and current
// content offset.
type ViewportFunc func() layout.Viewport

// ItemSource reports how many items the host currently shows.
type ItemSource interface {
	Count() int
}

// CountFunc adapts a function to [ItemSource].
type CountFunc func() int

func (f CountFunc) Count() int { return f() }

// MoveHost answers the drag collaborator queries.
type MoveHost interface {
	move.Checker
	move.Retargeter
	move.Mover
}

// ExposeObserver is told when items start and finish being exposed or
// collapsed. exposing is true for the item becoming exposed and false for
// the item being collapsed.
type ExposeObserver interface {
	OnExposeBegin(index int, exposing bool)
	OnExposeEnd(index int, exposing bool)
}

// Option configures a Controller.
type Option func(*Controller)

// WithViewport sets the viewport query. Without it the viewport is empty.
func WithViewport(f ViewportFunc) Option {
	return func(c *Controller) {
		if f != nil {
			c.viewport = f
		}
	}
}

// WithItems sets the item count source used by Refresh, Expose, drags and
// taps. Without it the count of the last Layout pass is used.
func WithItems(s ItemSource) Option {
	return func(c *Controller) {
		if s != nil {
			c.items = s
		}
	}
}

// WithMoveHost sets the drag collaborators.
func WithMoveHost(h MoveHost) Option {
	return func(c *Controller) { c.moveHost = h }
}

// WithExposeObserver sets the receiver of expose notifications.
func WithExposeObserver(o ExposeObserver) Option {
	return func(c *Controller) { c.observer = o }
}

// WithExposedFactory replaces the built-in exposed arrangement strategies.
func WithExposedFactory(f layout.ExposedFactory) Option {
	return func(c *Controller) {
		if f != nil {
			c.factory = f
		}
	}
}

// WithLogger sets the debug logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithUnexposedItemsSelectable lets a tap on a partly visible item expose it
// while another item is exposed. By default the exposed item has to be
// collapsed first.
func WithUnexposedItemsSelectable(on bool) Option {
	return func(c *Controller) { c.selectable = on }
}
