package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardstack/pkg/pipeline"
)

// renderCommand creates the render command for generating output files.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		scale      float64
	)
	flags := newStackFlags()

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a card stack to SVG, PNG, DOT or JSON",
		Long: `Render a card stack to one or more output files.

Formats:
  svg    vector drawing of the cards in draw order
  png    raster drawing (see --scale)
  dot    Graphviz source of the occlusion graph
  graph  occlusion graph laid out by Graphviz, as SVG
  json   layout snapshot

Output files are named <output>.<format>; the graph format is written to
<output>.graph.svg. Formats are rendered concurrently and cached by the
content hash of the layout.`,
		Example: `  cardstack render -n 6 -f svg,png
  cardstack render --deck 2f1c... --exposed 2 -o exposed -f png --scale 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), flags, formats, scale, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "cardstack", "output base path")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): "+strings.Join(pipeline.FormatNames(), ", ")+" (comma-separated, default svg)")
	cmd.Flags().Float64Var(&scale, "scale", pipeline.DefaultScale, "raster scale factor for png")
	flags.register(cmd)

	return cmd
}

// runRender computes the layout and writes one file per format.
func (c *CLI) runRender(ctx context.Context, flags *stackFlags, formats []string, scale float64, output string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts, err := flags.options(ctx, cfg)
	if err != nil {
		return err
	}
	opts.Formats = formats
	opts.Scale = scale
	opts.Logger = c.Logger

	runner, err := c.newRunner(ctx, cfg, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newStageSpinner(ctx, os.Stderr, "Loading cached layout...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if spinner.Cancelled() {
		return ctx.Err()
	}
	c.Logger.Debug("pipeline stages", "stages", spinner.Stages())

	base := basePath(output)
	var paths []string
	for _, format := range formats {
		path := outputPath(base, format)
		if err := writeFile(path, result.Artifacts[format]); err != nil {
			return err
		}
		c.Logger.Debugf("Wrote %s: %d bytes", path, len(result.Artifacts[format]))
		paths = append(paths, path)
	}

	printSuccess("Rendered %d file(s)", len(paths))
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.ItemCount, string(result.Layout.Snapshot.Arrangement), result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	return nil
}

// basePath strips a known format extension from the output path.
func basePath(output string) string {
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath returns the file name for one format.
func outputPath(base, format string) string {
	if format == pipeline.FormatGraph {
		return base + ".graph.svg"
	}
	return base + "." + format
}

// writeFile writes data to path, creating parent directories.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
