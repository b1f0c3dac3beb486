package layout

import (
	errs "github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/geom"
)

// ExposedArranger computes the arrangement in which item exposed fills the
// available rectangle and the remaining items are placed around it.
type ExposedArranger interface {
	Arrange(count, exposed int, vp Viewport) (Snapshot, error)
}

// ExposedFactory builds an ExposedArranger from configuration. Hosts supply
// their own factory to replace the built-in strategies.
type ExposedFactory func(cfg ExposedConfig) ExposedArranger

// NewExposedArranger returns the built-in arranger for cfg.PinningMode.
func NewExposedArranger(cfg ExposedConfig) ExposedArranger {
	switch cfg.PinningMode {
	case PinBelow:
		return pinBelow{cfg}
	case PinAll:
		return pinAll{cfg}
	default:
		return pinNone{cfg}
	}
}

var _ ExposedFactory = NewExposedArranger

// exposedPass is the shared scaffolding of one exposed pass.
type exposedPass struct {
	count    int
	exposed  int
	vp       Viewport
	cfg      ExposedConfig
	rect     geom.Rect   // the exposed item's frame
	frames   []geom.Rect // per item
	priority []int       // items from topmost to bottom-most
}

func newExposedPass(cfg ExposedConfig, count, exposed int, vp Viewport) (*exposedPass, error) {
	if err := errs.ValidateCount(count); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := errs.ValidateIndex("exposed", exposed, count); err != nil {
		return nil, err
	}
	size := resolveItemSize(cfg.ItemSize, cfg.Margin, vp.Size)
	p := &exposedPass{
		count:    count,
		exposed:  exposed,
		vp:       vp,
		cfg:      cfg,
		rect:     geom.Rect{X: cfg.Margin.Left, Y: cfg.Margin.Top, W: size.W, H: size.H},
		frames:   make([]geom.Rect, count),
		priority: make([]int, 0, count),
	}
	p.frames[exposed] = p.rect
	p.priority = append(p.priority, exposed)
	return p, nil
}

// above returns the number of items above the exposed one.
func (p *exposedPass) above() int { return p.exposed }

// below returns the number of items below the exposed one.
func (p *exposedPass) below() int { return p.count - 1 - p.exposed }

// stackAbove places item e-k at k*TopOverlap above the exposed item's top.
func (p *exposedPass) stackAbove() {
	for k := 1; k <= p.above(); k++ {
		p.frames[p.exposed-k] = p.rect.Translate(0, -float64(k)*p.cfg.TopOverlap)
	}
}

// pinnedRect returns the frame at position j of v items pinned to the
// viewport's bottom edge.
func (p *exposedPass) pinnedRect(j, v int) geom.Rect {
	y := p.vp.Size.H - float64(v-j)*p.cfg.BottomOverlap
	return geom.Rect{X: p.rect.X, Y: y, W: p.rect.W, H: p.rect.H}
}

func (p *exposedPass) snapshot() Snapshot {
	snap := Snapshot{
		Arrangement: ArrangementExposed,
		Viewport:    p.vp,
		Extent:      p.vp.Size,
		Exposed:     IndexOf(p.exposed),
		Attributes:  make([]Attributes, p.count),
	}
	for i, f := range p.frames {
		snap.Attributes[i] = Attributes{Index: i, Frame: f, Transform: Identity}
	}
	for rank, i := range p.priority {
		snap.Attributes[i].ZIndex = p.count - 1 - rank
	}
	return snap
}

// pinNone stacks items above upward and at most BottomOverlapCount items
// below downward, both peeking out from behind the exposed item.
type pinNone struct{ cfg ExposedConfig }

func (a pinNone) Arrange(count, exposed int, vp Viewport) (Snapshot, error) {
	p, err := newExposedPass(a.cfg, count, exposed, vp)
	if err != nil {
		return Snapshot{}, err
	}
	p.stackAbove()

	last := p.rect
	for k := 1; k <= p.below(); k++ {
		if k <= a.cfg.BottomOverlapCount {
			last = p.rect.Translate(0, float64(k)*a.cfg.BottomOverlap)
		}
		p.frames[p.exposed+k] = last
	}

	// Nearer items draw above farther ones; below wins ties.
	for d := 1; d <= max(p.above(), p.below()); d++ {
		if d <= p.below() {
			p.priority = append(p.priority, p.exposed+d)
		}
		if d <= p.above() {
			p.priority = append(p.priority, p.exposed-d)
		}
	}
	return p.snapshot(), nil
}

// pinBelow stacks items above like pinNone and pins the nearest
// BottomPinningCount items below to the viewport's bottom edge.
type pinBelow struct{ cfg ExposedConfig }

func (a pinBelow) Arrange(count, exposed int, vp Viewport) (Snapshot, error) {
	p, err := newExposedPass(a.cfg, count, exposed, vp)
	if err != nil {
		return Snapshot{}, err
	}
	p.stackAbove()

	pinned := min(a.cfg.BottomPinningCount, p.below())
	last := p.rect
	for k := 1; k <= p.below(); k++ {
		if k <= pinned {
			last = p.pinnedRect(k-1, pinned)
		}
		p.frames[p.exposed+k] = last
	}

	for k := pinned; k >= 1; k-- {
		p.priority = append(p.priority, p.exposed+k)
	}
	for k := pinned + 1; k <= p.below(); k++ {
		p.priority = append(p.priority, p.exposed+k)
	}
	for k := 1; k <= p.above(); k++ {
		p.priority = append(p.priority, p.exposed-k)
	}
	return p.snapshot(), nil
}

// pinAll pins the nearest TopPinningCount items above and
// BottomPinningCount items below to the viewport's bottom edge, in index
// order.
type pinAll struct{ cfg ExposedConfig }

func (a pinAll) Arrange(count, exposed int, vp Viewport) (Snapshot, error) {
	p, err := newExposedPass(a.cfg, count, exposed, vp)
	if err != nil {
		return Snapshot{}, err
	}

	top := min(a.cfg.TopPinningCount, p.above())
	bottom := min(a.cfg.BottomPinningCount, p.below())
	visible := make([]int, 0, top+bottom)
	for i := exposed - top; i < exposed; i++ {
		visible = append(visible, i)
	}
	for i := exposed + 1; i <= exposed+bottom; i++ {
		visible = append(visible, i)
	}

	v := len(visible)
	for j, i := range visible {
		p.frames[i] = p.pinnedRect(j, v)
	}
	first, last := p.rect, p.rect
	if v > 0 {
		first, last = p.frames[visible[0]], p.frames[visible[v-1]]
	}
	for i := 0; i < exposed-top; i++ {
		p.frames[i] = first
	}
	for i := exposed + bottom + 1; i < count; i++ {
		p.frames[i] = last
	}

	for j := v - 1; j >= 0; j-- {
		p.priority = append(p.priority, visible[j])
	}
	for i := exposed + bottom + 1; i < count; i++ {
		p.priority = append(p.priority, i)
	}
	for i := exposed - top - 1; i >= 0; i-- {
		p.priority = append(p.priority, i)
	}
	return p.snapshot(), nil
}
