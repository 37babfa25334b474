package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"baggedflix/internal/catalog"
	"baggedflix/internal/ui"
)

var watchlistCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "Pick from your saved watchlist",
	RunE:  watchlistRun,
}

var watchlistRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove an item from the watchlist",
	Args:  cobra.ExactArgs(1),
	RunE:  watchlistRemoveRun,
}

func init() {
	watchlistCmd.AddCommand(watchlistRemoveCmd)
}

func watchlistRun(cmd *cobra.Command, args []string) error {
	if err := requireTTY(); err != nil {
		return err
	}

	wl, err := openWatchlist()
	if err != nil {
		return err
	}

	saved := wl.Items()
	if len(saved) == 0 {
		fmt.Println("Watchlist is empty.")
		return nil
	}

	items := make([]string, len(saved))
	for i, it := range saved {
		items[i] = formatResult(it)
	}

	idx, err := ui.Select("Watchlist", items)
	if err != nil {
		if err == ui.ErrCancelled {
			return nil
		}
		return err
	}

	cat := catalog.New(cfg.CatalogBase, cfg.MetaBase, logger)
	return playItem(cmd.Context(), cat, &saved[idx])
}

func watchlistRemoveRun(cmd *cobra.Command, args []string) error {
	wl, err := openWatchlist()
	if err != nil {
		return err
	}

	if !wl.Contains(args[0]) {
		fmt.Println("Not on the watchlist.")
		return nil
	}
	if err := wl.Remove(args[0]); err != nil {
		return fmt.Errorf("removing item: %w", err)
	}
	return nil
}
