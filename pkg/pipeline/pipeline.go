// Package pipeline provides the layout → render pipeline for cardstack.
//
// This package implements the snapshot and artifact stages that the CLI and
// the preview server share. By centralizing this logic, both entry points
// cache and render identically.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Layout: Run the layout controller for a viewport, optionally exposing
//     an item or simulating a drag, and capture the snapshot
//  2. Render: Generate output in several formats (SVG, PNG, DOT, occlusion
//     graph SVG, JSON) concurrently
//
// Each stage is cached independently: the layout by its inputs, the artifacts
// by the content hash of the layout they were rendered from.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Labels:  []string{"Inbox", "Today", "Later"},
//	    Exposed: layout.IndexOf(1),
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cardstack/pkg/cache"
	errs "github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/geom"
	"github.com/matzehuels/cardstack/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default viewport width in points.
	DefaultWidth = 320.0

	// DefaultHeight is the default viewport height in points.
	DefaultHeight = 480.0

	// DefaultScale is the default raster scale factor.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG   = "svg"
	FormatPNG   = "png"
	FormatDOT   = "dot"
	FormatGraph = "graph"
	FormatJSON  = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:   true,
	FormatPNG:   true,
	FormatDOT:   true,
	FormatGraph: true,
	FormatJSON:  true,
}

// FormatNames returns the supported formats, sorted.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Layout options
	Config  *layout.Config `json:"config,omitempty"` // nil uses layout.DefaultConfig
	Count   int            `json:"count"`            // 0 with labels means len(Labels)
	Width   float64        `json:"width,omitempty"`
	Height  float64        `json:"height,omitempty"`
	Offset  float64        `json:"offset,omitempty"` // vertical content offset
	Exposed layout.Index   `json:"exposed"`
	Moving  layout.Index   `json:"moving"`
	Pointer *geom.Point    `json:"pointer,omitempty"` // drag pointer for Moving
	Refresh bool           `json:"refresh,omitempty"`

	// Item options
	Labels []string `json:"labels,omitempty"`
	Colors []string `json:"colors,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the snapshot and the items in their final order.
	Layout Layout

	// LayoutHash is the content hash of Layout.
	LayoutHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ItemCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Config == nil {
		cfg := layout.DefaultConfig()
		o.Config = &cfg
	}
	if o.Count == 0 {
		o.Count = len(o.Labels)
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := errs.ValidateCount(o.Count); err != nil {
		return err
	}
	if o.Width < 0 || o.Height < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "viewport %.0fx%.0f must not be negative", o.Width, o.Height)
	}
	if o.Labels != nil && len(o.Labels) != o.Count {
		return errs.New(errs.ErrCodeInvalidInput, "%d labels for %d items", len(o.Labels), o.Count)
	}
	if len(o.Colors) > o.Count {
		return errs.New(errs.ErrCodeInvalidInput, "%d colors for %d items", len(o.Colors), o.Count)
	}
	if o.Exposed.IsSet() && o.Moving.IsSet() {
		return errs.New(errs.ErrCodeInvalidState, "cannot expose item %s while moving item %s", o.Exposed, o.Moving)
	}
	if o.Pointer != nil && !o.Moving.IsSet() {
		return errs.New(errs.ErrCodeInvalidInput, "pointer given without a moving item")
	}
	if i, ok := o.Exposed.Get(); ok {
		if err := errs.ValidateIndex("exposed", i, o.Count); err != nil {
			return err
		}
	}
	if i, ok := o.Moving.Get(); ok {
		if err := errs.ValidateIndex("moving", i, o.Count); err != nil {
			return err
		}
	}
	return o.Config.Validate()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.Scale < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "scale %g must be positive", o.Scale)
	}
	return ValidateFormats(o.Formats)
}

// Arrangement returns the arrangement these options produce.
func (o *Options) Arrangement() layout.Arrangement {
	if o.Exposed.IsSet() {
		return layout.ArrangementExposed
	}
	return layout.ArrangementStacked
}

// SnapshotKeyOpts returns cache key options for the layout stage.
func (o *Options) SnapshotKeyOpts() (cache.SnapshotKeyOpts, error) {
	cfgHash, err := cache.HashJSON(o.Config)
	if err != nil {
		return cache.SnapshotKeyOpts{}, err
	}
	itemsHash, err := cache.HashJSON([][]string{o.Labels, o.Colors})
	if err != nil {
		return cache.SnapshotKeyOpts{}, err
	}
	k := cache.SnapshotKeyOpts{
		ConfigHash: cfgHash,
		Count:      o.Count,
		Width:      o.Width,
		Height:     o.Height,
		OffsetY:    o.Offset,
		Exposed:    indexKey(o.Exposed),
		Moving:     indexKey(o.Moving),
		ItemsHash:  itemsHash,
	}
	if o.Pointer != nil {
		k.Dragged, k.PointerX, k.PointerY = true, o.Pointer.X, o.Pointer.Y
	}
	return k, nil
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Labels: len(o.Labels) > 0}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}

func indexKey(x layout.Index) int {
	if i, ok := x.Get(); ok {
		return i
	}
	return -1
}
