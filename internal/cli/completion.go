package cli

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardstack/pkg/deck"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for cardstack.

Deck IDs complete from the configured deck store, so "cardstack play <TAB>"
offers the stored decks with their names.

  bash:        source <(cardstack completion bash)
  zsh:         cardstack completion zsh > "${fpath[1]}/_cardstack"
  fish:        cardstack completion fish | source
  powershell:  cardstack completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(os.Stdout, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}

// completionTimeout bounds the deck store lookup so a slow remote store
// cannot hang the shell.
const completionTimeout = 2 * time.Second

// completeDeckIDs completes the first positional argument with the IDs of
// stored decks, described by their names.
func (c *CLI) completeDeckIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	ctx, cancel := context.WithTimeout(context.Background(), completionTimeout)
	defer cancel()
	store, err := newDeckStore(ctx, cfg)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer store.Close()

	return deckCompletions(ctx, store, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// deckCompletions returns "id\tname" entries for the decks whose ID starts
// with prefix.
func deckCompletions(ctx context.Context, store deck.Store, prefix string) []string {
	ids, err := store.List(ctx)
	if err != nil {
		return nil
	}
	var out []string
	for _, id := range ids {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		d, err := store.Get(ctx, id)
		if err != nil || d == nil {
			continue
		}
		out = append(out, id+"\t"+d.Name)
	}
	return out
}
