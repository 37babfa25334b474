package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"baggedflix/internal/catalog"
	"baggedflix/internal/media"
	"baggedflix/internal/paginator"
	"baggedflix/internal/ui"
)

var flagGenre string

var browseCmd = &cobra.Command{
	Use:   "browse [movies|series]",
	Short: "Browse the catalog",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		contentType := media.Movie
		if len(args) == 1 {
			contentType = media.ParseContentType(args[0])
		}
		return browseCatalog(cmd.Context(), paginator.Query{Type: contentType, Genre: flagGenre})
	},
}

func init() {
	browseCmd.Flags().StringVarP(&flagGenre, "genre", "g", "", "Filter by genre")
	rootCmd.AddCommand(browseCmd)
}

// browseRun is the default command: baggedflix [query]
//
// With a query it searches directly; without one it opens the interactive
// catalog browser.
func browseRun(cmd *cobra.Command, args []string) error {
	if query := strings.Join(args, " "); query != "" {
		if err := requireTTY(); err != nil {
			return err
		}
		cat := catalog.New(cfg.CatalogBase, cfg.MetaBase, logger)
		return searchPick(cmd.Context(), cat, query)
	}
	return browseCatalog(cmd.Context(), paginator.Query{Type: media.Movie})
}

// browseCatalog opens the interactive browser seeded with the given query.
func browseCatalog(ctx context.Context, query paginator.Query) error {
	if err := requireTTY(); err != nil {
		return err
	}

	cat := catalog.New(cfg.CatalogBase, cfg.MetaBase, logger)
	wl, err := openWatchlist()
	if err != nil {
		return err
	}

	item, err := ui.Browse(paginator.New(cat, query), wl)
	if err != nil {
		if err == ui.ErrCancelled {
			return nil
		}
		return err
	}

	return playItem(ctx, cat, item)
}

// searchPick runs one search and lets the user pick a result.
func searchPick(ctx context.Context, cat *catalog.Client, query string) error {
	logger.Debug().Str("query", query).Msg("searching")

	results := cat.Search(ctx, media.Movie, query)
	results = append(results, cat.Search(ctx, media.Series, query)...)

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	items := make([]string, len(results))
	for i, r := range results {
		items[i] = formatResult(r)
	}

	idx, err := ui.Select("Select", items)
	if err != nil {
		if err == ui.ErrCancelled {
			return nil
		}
		return err
	}

	return playItem(ctx, cat, &results[idx])
}

// formatResult renders one search result line.
func formatResult(item media.Item) string {
	label := fmt.Sprintf("%s [%s]", item.Name, item.Type)
	if item.Year != "" {
		label += " (" + item.Year + ")"
	}
	return label
}
