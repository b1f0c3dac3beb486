package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardstack/pkg/config"
	"github.com/matzehuels/cardstack/pkg/geom"
	"github.com/matzehuels/cardstack/pkg/layout"
	"github.com/matzehuels/cardstack/pkg/pipeline"
)

// stackFlags are the flags shared by the layout and render commands.
type stackFlags struct {
	count   int
	labels  string
	colors  string
	deckID  string
	width   float64
	height  float64
	offset  float64
	exposed int
	moving  int
	pointer string
	pinning string
	noCache bool
	refresh bool
}

func newStackFlags() *stackFlags {
	return &stackFlags{exposed: -1, moving: -1}
}

// register adds the flags to cmd.
func (f *stackFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVarP(&f.count, "count", "n", f.count, "number of cards (default: number of labels)")
	fs.StringVarP(&f.labels, "labels", "l", "", "card labels (comma-separated)")
	fs.StringVar(&f.colors, "colors", "", "card fill colors as #rrggbb (comma-separated)")
	fs.StringVarP(&f.deckID, "deck", "d", "", "take labels and colors from a stored deck")
	fs.Float64Var(&f.width, "width", 0, "viewport width (default: config)")
	fs.Float64Var(&f.height, "height", 0, "viewport height (default: config)")
	fs.Float64Var(&f.offset, "offset", 0, "vertical content offset (negative overscrolls the top)")
	fs.IntVarP(&f.exposed, "exposed", "e", f.exposed, "index of the exposed card (-1 for none)")
	fs.IntVarP(&f.moving, "moving", "m", f.moving, "index of the card being dragged (-1 for none)")
	fs.StringVar(&f.pointer, "pointer", "", "drag the moving card to x,y in content coordinates")
	fs.StringVar(&f.pinning, "pinning", "", "pinning mode for the exposed arrangement: none, below, all")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fs.BoolVar(&f.refresh, "refresh", false, "recompute even when cached")
}

// options builds pipeline options from the flags on top of cfg.
func (f *stackFlags) options(ctx context.Context, cfg config.Config) (pipeline.Options, error) {
	layoutCfg := cfg.Layout
	if f.pinning != "" {
		mode, err := layout.ParsePinningMode(f.pinning)
		if err != nil {
			return pipeline.Options{}, err
		}
		layoutCfg.Exposed.PinningMode = mode
	}

	opts := pipeline.Options{
		Config:  &layoutCfg,
		Count:   f.count,
		Width:   orDefault(f.width, cfg.Viewport.Width),
		Height:  orDefault(f.height, cfg.Viewport.Height),
		Offset:  f.offset,
		Exposed: optionalIndex(f.exposed),
		Moving:  optionalIndex(f.moving),
		Labels:  splitList(f.labels),
		Colors:  splitList(f.colors),
		Refresh: f.refresh,
	}

	if f.deckID != "" {
		if opts.Labels != nil {
			return pipeline.Options{}, fmt.Errorf("--deck and --labels are mutually exclusive")
		}
		store, err := newDeckStore(ctx, cfg)
		if err != nil {
			return pipeline.Options{}, fmt.Errorf("open deck store: %w", err)
		}
		defer store.Close()
		d, err := loadDeck(ctx, store, f.deckID)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Labels = d.Titles()
		opts.Colors = make([]string, len(d.Cards))
		for i, card := range d.Cards {
			opts.Colors[i] = card.Color
		}
	}

	if f.pointer != "" {
		p, err := parsePoint(f.pointer)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Pointer = &p
	}
	return opts, nil
}

// parsePoint parses "x,y".
func parsePoint(s string) (geom.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return geom.Point{}, fmt.Errorf("invalid point %q (want x,y)", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return geom.Pt(x, y), nil
}

func optionalIndex(i int) layout.Index {
	if i < 0 {
		return layout.NoIndex
	}
	return layout.IndexOf(i)
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
