package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardstack/internal/server"
	"github.com/matzehuels/cardstack/pkg/deck"
)

// serveCommand creates the serve command for the preview server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		namespace string
		noCache   bool
		noDecks   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered layouts over HTTP",
		Long: `Run the preview server.

Routes:
  GET /healthz
  GET /layout                      snapshot document (JSON)
  GET /render.{svg,png,dot,graph,json}
  GET /decks/{id}/layout
  GET /decks/{id}/render.{format}

Query parameters: count, labels, colors, width, height, offset, exposed,
moving, pointer (x,y), pinning, scale, refresh.`,
		Example: `  cardstack serve --addr :8080
  curl 'localhost:8080/render.svg?count=6&exposed=2'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, namespace, noCache, noDecks)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: config server.addr)")
	cmd.Flags().StringVar(&namespace, "namespace", "", "key prefix for the shared cache and deck store (default: config cache.prefix)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noDecks, "no-decks", false, "do not open the deck store")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, namespace string, noCache, noDecks bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}
	if namespace != "" {
		cfg.Cache.Prefix = namespace
	}

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var store deck.Store
	if !noDecks {
		store, err = newDeckStore(ctx, cfg)
		if err != nil {
			c.Logger.Warn("deck routes disabled", "store", cfg.Deck.Store, "err", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	printInfo("Serving on %s", StyleLink.Render("http://"+addr))
	printDetail("cache: %s · decks: %s", cfg.Cache.Backend, deckStoreName(store, cfg.Deck.Store))
	if cfg.Cache.Prefix != "" {
		printDetail("namespace: %s", cfg.Cache.Prefix)
	}

	return server.New(runner, cfg, store, c.Logger).ListenAndServe(ctx, addr)
}

func deckStoreName(store deck.Store, name string) string {
	if store == nil {
		return "off"
	}
	return name
}
