package sink

import "github.com/matzehuels/cardstack/pkg/render"

// Option configures a renderer.
type Option func(*renderer)

type renderer struct {
	style        render.Style
	labels       []string
	colors       []string
	scale        float64
	showViewport bool
}

// WithStyle sets the card style.
func WithStyle(s render.Style) Option { return func(r *renderer) { r.style = s } }

// WithLabels sets one label per item.
func WithLabels(labels ...string) Option { return func(r *renderer) { r.labels = labels } }

// WithColors overrides the palette per item. Empty entries use the palette.
func WithColors(colors ...string) Option { return func(r *renderer) { r.colors = colors } }

// WithScale sets the raster scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) Option { return func(r *renderer) { r.scale = s } }

// WithoutViewport omits the viewport outline.
func WithoutViewport() Option { return func(r *renderer) { r.showViewport = false } }

func newRenderer(opts ...Option) renderer {
	r := renderer{style: render.DefaultStyle(), scale: 2.0, showViewport: true}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		r.scale = 1
	}
	return r
}
