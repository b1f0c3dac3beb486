package layout

import (
	"fmt"
	"math"
	"strings"

	errs "github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/geom"
)

// Default geometry values.
const (
	DefaultStackedMarginTop   = 20.0
	DefaultExposedMarginTop   = 40.0
	DefaultReveal             = 120.0
	DefaultBounceFactor       = 0.2
	DefaultTopOverlap         = 20.0
	DefaultBottomOverlap      = 20.0
	DefaultBottomOverlapCount = 1
	DefaultTopPinningCount    = 2
	DefaultBottomPinningCount = 2
	DefaultMovingItemScale    = 0.95
)

// PinningMode selects where non-exposed items go while an item is exposed.
type PinningMode int

const (
	// PinNone stacks items above the exposed item upward and items below it
	// downward, both relative to the exposed item's edges.
	PinNone PinningMode = iota
	// PinBelow keeps items above as in PinNone and pins items below flush to
	// the viewport's bottom edge.
	PinBelow
	// PinAll pins every non-exposed item to the viewport's bottom edge.
	PinAll
)

var pinningNames = [...]string{"none", "below", "all"}

// String returns the mode's configuration name.
func (m PinningMode) String() string {
	if m < 0 || int(m) >= len(pinningNames) {
		return fmt.Sprintf("PinningMode(%d)", int(m))
	}
	return pinningNames[m]
}

// ParsePinningMode parses "none", "below" or "all" (case-insensitive).
func ParsePinningMode(s string) (PinningMode, error) {
	for i, name := range pinningNames {
		if strings.EqualFold(s, name) {
			return PinningMode(i), nil
		}
	}
	return PinNone, errs.New(errs.ErrCodeInvalidConfig, "unknown pinning mode %q (must be none, below or all)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m PinningMode) MarshalText() ([]byte, error) {
	if m < 0 || int(m) >= len(pinningNames) {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown pinning mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *PinningMode) UnmarshalText(text []byte) error {
	v, err := ParsePinningMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// StackedConfig holds the parameters of the stacked arrangement.
type StackedConfig struct {
	// Margin between the viewport and the stack.
	Margin geom.Insets `json:"margin" toml:"margin"`
	// ItemSize, per axis, when non-zero; a zero axis fills the viewport
	// minus margins.
	ItemSize geom.Size `json:"item_size" toml:"item_size"`
	// Reveal is the visible span of each collapsed item before the next one
	// overlaps it.
	Reveal float64 `json:"reveal" toml:"reveal"`
	// BounceFactor scales overscroll into item displacement. In [0,1].
	BounceFactor float64 `json:"bounce_factor" toml:"bounce_factor"`
	// FillHeight spreads items evenly over the viewport when the natural
	// stack is shorter than the available height.
	FillHeight bool `json:"fill_height" toml:"fill_height"`
	// AlwaysBounce compresses items on overscroll even when the content is
	// shorter than the viewport.
	AlwaysBounce bool `json:"always_bounce" toml:"always_bounce"`
	// CenterSingleItem centers a lone item vertically within the margins.
	CenterSingleItem bool `json:"center_single_item" toml:"center_single_item"`
	// MovingItemScale is the scale applied to the item being dragged.
	MovingItemScale float64 `json:"moving_item_scale" toml:"moving_item_scale"`
}

// ExposedConfig holds the parameters of the exposed arrangement.
type ExposedConfig struct {
	Margin             geom.Insets `json:"margin" toml:"margin"`
	ItemSize           geom.Size   `json:"item_size" toml:"item_size"`
	TopOverlap         float64     `json:"top_overlap" toml:"top_overlap"`
	BottomOverlap      float64     `json:"bottom_overlap" toml:"bottom_overlap"`
	BottomOverlapCount int         `json:"bottom_overlap_count" toml:"bottom_overlap_count"`
	PinningMode        PinningMode `json:"pinning_mode" toml:"pinning_mode"`
	TopPinningCount    int         `json:"top_pinning_count" toml:"top_pinning_count"`
	BottomPinningCount int         `json:"bottom_pinning_count" toml:"bottom_pinning_count"`
}

// Config is the complete geometry configuration. It is passed by value into
// every pass and never mutated by the engines.
type Config struct {
	Stacked StackedConfig `json:"stacked" toml:"stacked"`
	Exposed ExposedConfig `json:"exposed" toml:"exposed"`
}

// DefaultStackedConfig returns the stacked defaults.
func DefaultStackedConfig() StackedConfig {
	return StackedConfig{
		Margin:          geom.Insets{Top: DefaultStackedMarginTop},
		Reveal:          DefaultReveal,
		BounceFactor:    DefaultBounceFactor,
		MovingItemScale: DefaultMovingItemScale,
	}
}

// DefaultExposedConfig returns the exposed defaults.
func DefaultExposedConfig() ExposedConfig {
	return ExposedConfig{
		Margin:             geom.Insets{Top: DefaultExposedMarginTop},
		TopOverlap:         DefaultTopOverlap,
		BottomOverlap:      DefaultBottomOverlap,
		BottomOverlapCount: DefaultBottomOverlapCount,
		PinningMode:        PinNone,
		TopPinningCount:    DefaultTopPinningCount,
		BottomPinningCount: DefaultBottomPinningCount,
	}
}

// DefaultConfig returns the full default configuration.
func DefaultConfig() Config {
	return Config{
		Stacked: DefaultStackedConfig(),
		Exposed: DefaultExposedConfig(),
	}
}

// Validate checks the configuration invariants.
func (c Config) Validate() error {
	if err := c.Stacked.Validate(); err != nil {
		return err
	}
	return c.Exposed.Validate()
}

// Validate checks the stacked configuration invariants.
func (c StackedConfig) Validate() error {
	if err := validateBox("stacked", c.Margin, c.ItemSize); err != nil {
		return err
	}
	if err := errs.ValidateLength("stacked reveal", c.Reveal); err != nil {
		return err
	}
	if err := errs.ValidateUnit("bounce factor", c.BounceFactor); err != nil {
		return err
	}
	if math.IsNaN(c.MovingItemScale) || c.MovingItemScale <= 0 || c.MovingItemScale > 1 {
		return errs.New(errs.ErrCodeInvalidConfig, "moving item scale must be in (0,1], got %v", c.MovingItemScale)
	}
	return nil
}

// Validate checks the exposed configuration invariants.
func (c ExposedConfig) Validate() error {
	if err := validateBox("exposed", c.Margin, c.ItemSize); err != nil {
		return err
	}
	lengths := []struct {
		name string
		v    float64
	}{
		{"top overlap", c.TopOverlap},
		{"bottom overlap", c.BottomOverlap},
	}
	for _, l := range lengths {
		if err := errs.ValidateLength(l.name, l.v); err != nil {
			return err
		}
	}
	counts := []struct {
		name string
		v    int
	}{
		{"bottom overlap count", c.BottomOverlapCount},
		{"top pinning count", c.TopPinningCount},
		{"bottom pinning count", c.BottomPinningCount},
	}
	for _, n := range counts {
		if err := errs.ValidateNonNegative(n.name, n.v); err != nil {
			return err
		}
	}
	if c.PinningMode < PinNone || c.PinningMode > PinAll {
		return errs.New(errs.ErrCodeInvalidConfig, "unknown pinning mode %d", int(c.PinningMode))
	}
	return nil
}

func validateBox(prefix string, m geom.Insets, size geom.Size) error {
	values := []struct {
		name string
		v    float64
	}{
		{"margin top", m.Top},
		{"margin left", m.Left},
		{"margin bottom", m.Bottom},
		{"margin right", m.Right},
		{"item width", size.W},
		{"item height", size.H},
	}
	for _, v := range values {
		if err := errs.ValidateLength(prefix+" "+v.name, v.v); err != nil {
			return err
		}
	}
	return nil
}

// resolveItemSize returns the configured size per axis, filling zero axes
// with the viewport minus margins (never negative).
func resolveItemSize(configured geom.Size, m geom.Insets, bounds geom.Size) geom.Size {
	size := configured
	if size.W == 0 {
		size.W = math.Max(0, bounds.W-m.Horizontal())
	}
	if size.H == 0 {
		size.H = math.Max(0, bounds.H-m.Vertical())
	}
	return size
}
