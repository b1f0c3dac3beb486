package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardstack/pkg/io"
	"github.com/matzehuels/cardstack/pkg/pipeline"
)

// layoutCommand creates the layout command for computing one layout pass.
func (c *CLI) layoutCommand() *cobra.Command {
	var output string
	flags := newStackFlags()

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute the layout of a card stack",
		Long: `Compute the layout of a card stack.

The layout command runs one layout pass for the given viewport and prints the
frame, z-index and scale of every card. With --exposed the exposed arrangement
is computed instead of the stack; with --moving and --pointer a drag is
simulated, which may reorder the cards.

Use -o to write the snapshot as JSON (same format as 'render -f json').

Results are cached locally for faster subsequent runs.`,
		Example: `  cardstack layout -l Inbox,Today,Later
  cardstack layout -n 12 --offset 300
  cardstack layout -n 8 --exposed 3 --pinning below
  cardstack layout -n 5 --moving 0 --pointer 150,360 -o drag.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), flags, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the snapshot as JSON to this file")
	flags.register(cmd)

	return cmd
}

// runLayout computes the layout and prints or writes it.
func (c *CLI) runLayout(ctx context.Context, flags *stackFlags, output string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts, err := flags.options(ctx, cfg)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	l, cacheHit, err := runner.GenerateLayoutWithCacheInfo(ctx, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	prog.done(fmt.Sprintf("Computed %s layout", l.Snapshot.Arrangement), "cards", l.Snapshot.Len(), "cached", cacheHit)

	if output != "" {
		if err := io.ExportJSON(l.Snapshot, l.Labels, output); err != nil {
			return fmt.Errorf("write output %s: %w", output, err)
		}
		printSuccess("Layout complete")
		printFile(output)
		printStats(l.Snapshot.Len(), string(l.Snapshot.Arrangement), cacheHit)
		printNewline()
		printNextStep("Render", "cardstack render -f svg,png "+flagHint(flags))
		return nil
	}

	fmt.Fprintln(os.Stdout, snapshotTable(l))
	printStats(l.Snapshot.Len(), string(l.Snapshot.Arrangement), cacheHit)
	if l.Moves > 0 {
		printDetail("%d move(s) accepted during the drag", l.Moves)
	}
	return nil
}

// snapshotTable renders the snapshot attributes as a table, one row per card.
func snapshotTable(l pipeline.Layout) string {
	s := l.Snapshot
	rows := make([][]string, 0, s.Len())
	for _, a := range s.Attributes {
		label := ""
		if a.Index < len(l.Labels) {
			label = l.Labels[a.Index]
		}
		state := ""
		switch {
		case s.Moving.Is(a.Index):
			state = "moving"
		case s.Exposed.Is(a.Index):
			state = "exposed"
		case a.Hidden:
			state = "hidden"
		}
		rows = append(rows, []string{
			fmt.Sprint(a.Index),
			label,
			fmt.Sprintf("%.1f", a.Frame.X),
			fmt.Sprintf("%.1f", a.Frame.Y),
			fmt.Sprintf("%.1f", a.Frame.W),
			fmt.Sprintf("%.1f", a.Frame.H),
			fmt.Sprint(a.ZIndex),
			fmt.Sprintf("%.2f", a.Transform.Scale),
			state,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Label", "X", "Y", "W", "H", "Z", "Scale", "State").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if col >= 2 && col <= 7 {
				base = base.Align(lipgloss.Right)
			}
			if row < 0 || row >= len(rows) {
				return base
			}
			switch rows[row][8] {
			case "exposed":
				return base.Foreground(colorGreen).Bold(true)
			case "moving":
				return base.Foreground(colorYellow)
			case "hidden":
				return base.Foreground(colorDim)
			}
			if col == 0 {
				return base.Foreground(colorCyan)
			}
			return base
		})
	return t.Render()
}

// flagHint reproduces the item flags for a suggested follow-up command.
func flagHint(f *stackFlags) string {
	switch {
	case f.deckID != "":
		return "--deck " + f.deckID
	case f.labels != "":
		return fmt.Sprintf("--labels %q", f.labels)
	default:
		return fmt.Sprintf("--count %d", f.count)
	}
}
