package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/cardstack/pkg/render/sink"
)

// Render generates output artifacts in the requested formats. Formats are
// rendered concurrently from the same immutable snapshot.
func Render(ctx context.Context, l Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	sinkOpts := buildSinkOptions(l, opts)

	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(opts.Formats))
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, err := renderFormat(ctx, l, format, sinkOpts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, l Layout, format string, opts []sink.Option) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderSVG(l.Snapshot, opts...), nil
	case FormatPNG:
		return sink.RenderPNG(l.Snapshot, opts...)
	case FormatDOT:
		return []byte(sink.ToDOT(l.Snapshot, opts...)), nil
	case FormatGraph:
		return sink.RenderDOTSVG(ctx, sink.ToDOT(l.Snapshot, opts...))
	case FormatJSON:
		return sink.RenderJSON(l.Snapshot, opts...)
	default:
		return nil, ValidateFormat(format)
	}
}

func buildSinkOptions(l Layout, opts Options) []sink.Option {
	sinkOpts := []sink.Option{sink.WithScale(opts.Scale)}
	if l.Labels != nil {
		sinkOpts = append(sinkOpts, sink.WithLabels(l.Labels...))
	}
	if l.Colors != nil {
		sinkOpts = append(sinkOpts, sink.WithColors(l.Colors...))
	}
	return sinkOpts
}
