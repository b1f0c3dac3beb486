package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardstack/pkg/deck"
)

// deckCommand creates the deck management command.
func (c *CLI) deckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deck",
		Short: "Manage stored decks",
		Long: `Manage stored decks.

Decks are kept in the store selected by the [deck] section of the
configuration: JSON files (default), Redis or MongoDB.`,
	}

	cmd.AddCommand(c.deckNewCommand())
	cmd.AddCommand(c.deckListCommand())
	cmd.AddCommand(c.deckShowCommand())
	cmd.AddCommand(c.deckRemoveCommand())

	return cmd
}

// withDeckStore opens the configured store for the duration of fn.
func (c *CLI) withDeckStore(ctx context.Context, fn func(deck.Store) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	store, err := newDeckStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open deck store: %w", err)
	}
	defer store.Close()
	return fn(store)
}

// deckNewCommand creates the "deck new" subcommand.
func (c *CLI) deckNewCommand() *cobra.Command {
	var (
		name   string
		sample int
		paste  bool
	)

	cmd := &cobra.Command{
		Use:   "new [title...]",
		Short: "Create a deck with one card per title",
		Example: `  cardstack deck new --name chores Laundry Dishes Groceries
  cardstack deck new --sample 12
  cardstack deck new --paste --name groceries`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if paste {
				titles, err := clipboardTitles()
				if err != nil {
					return err
				}
				args = append(args, titles...)
			}

			var d *deck.Deck
			switch {
			case sample > 0 && len(args) > 0:
				return fmt.Errorf("--sample cannot be combined with titles")
			case sample > 0:
				d = deck.Sample(sample)
			case len(args) == 0:
				return fmt.Errorf("give at least one card title or --sample")
			default:
				d = deck.New("deck", args...)
			}
			if name != "" {
				d.Name = name
			}

			return c.withDeckStore(cmd.Context(), func(store deck.Store) error {
				if err := store.Set(cmd.Context(), d); err != nil {
					return fmt.Errorf("save deck: %w", err)
				}
				printSuccess("Created deck %s", StyleHighlight.Render(d.Name))
				printKeyValue("id", d.ID)
				printKeyValue("cards", strconv.Itoa(d.Count()))
				printNewline()
				printNextStep("Play", "cardstack play "+d.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "deck name")
	cmd.Flags().IntVar(&sample, "sample", 0, "create n numbered sample cards")
	cmd.Flags().BoolVar(&paste, "paste", false, "add one card per non-empty line of the clipboard")
	return cmd
}

// deckListCommand creates the "deck list" subcommand.
func (c *CLI) deckListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored decks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withDeckStore(ctx, func(store deck.Store) error {
				ids, err := store.List(ctx)
				if err != nil {
					return fmt.Errorf("list decks: %w", err)
				}
				if len(ids) == 0 {
					printInfo("No decks yet")
					printNextStep("Create one", "cardstack deck new --sample 8")
					return nil
				}
				for _, id := range ids {
					d, err := store.Get(ctx, id)
					if err != nil {
						printWarning("%s: %v", id, err)
						continue
					}
					if d == nil {
						continue
					}
					fmt.Println(deckLine(d))
				}
				return nil
			})
		},
	}
}

// deckShowCommand creates the "deck show" subcommand.
func (c *CLI) deckShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "show <id>",
		Short:             "Print the cards of a deck",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeDeckIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withDeckStore(ctx, func(store deck.Store) error {
				d, err := loadDeck(ctx, store, args[0])
				if err != nil {
					return err
				}
				printDeck(d)
				return nil
			})
		},
	}
}

// deckRemoveCommand creates the "deck rm" subcommand.
func (c *CLI) deckRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "rm <id>",
		Aliases:           []string{"delete"},
		Short:             "Delete a deck",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeDeckIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withDeckStore(ctx, func(store deck.Store) error {
				if err := store.Delete(ctx, args[0]); err != nil {
					return fmt.Errorf("delete deck: %w", err)
				}
				printSuccess("Deleted deck %s", args[0])
				return nil
			})
		},
	}
}

// clipboardTitles reads card titles from the system clipboard.
func clipboardTitles() ([]string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read clipboard: %w", err)
	}
	titles := titlesFromText(text)
	if len(titles) == 0 {
		return nil, fmt.Errorf("clipboard holds no card titles")
	}
	return titles, nil
}

// titlesFromText splits pasted text into titles: one per line, trimmed,
// with blank lines and list bullets ("- ", "* ") dropped.
func titlesFromText(text string) []string {
	var titles []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimLeft(line, "-*•"))
		if line != "" {
			titles = append(titles, line)
		}
	}
	return titles
}
