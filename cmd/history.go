package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"baggedflix/internal/catalog"
	"baggedflix/internal/history"
	"baggedflix/internal/media"
	"baggedflix/internal/ui"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Resume from watch history",
	RunE:  historyRun,
}

var historyExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export watch history to a JSON file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  historyExportRun,
}

var historyImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge a previously exported history file",
	Args:  cobra.ExactArgs(1),
	RunE:  historyImportRun,
}

var historyRemoveCmd = &cobra.Command{
	Use:   "remove <key>",
	Short: "Remove one history entry",
	Args:  cobra.ExactArgs(1),
	RunE:  historyRemoveRun,
}

func init() {
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyImportCmd)
	historyCmd.AddCommand(historyRemoveCmd)
}

func historyRun(cmd *cobra.Command, args []string) error {
	if err := requireTTY(); err != nil {
		return err
	}

	hist, err := openHistory()
	if err != nil {
		return err
	}

	entries := hist.Entries()
	if len(entries) == 0 {
		fmt.Println("No history entries found.")
		return nil
	}

	items := history.FormatForDisplay(entries)
	idx, err := ui.Select("History", items)
	if err != nil {
		if err == ui.ErrCancelled {
			return nil
		}
		return err
	}

	selected := entries[idx]
	logger.Debug().Str("key", selected.ID).Str("metaId", selected.MetaID).Msg("resuming from history")

	cat := catalog.New(cfg.CatalogBase, cfg.MetaBase, logger)
	details := cat.FetchDetails(cmd.Context(), media.ParseContentType(selected.Type), selected.MetaID)
	if details == nil {
		fmt.Println("Title no longer available in the catalog.")
		return nil
	}

	return playContent(cmd.Context(), hist, details, selected.Season, selected.Episode, selected.Position)
}

func historyExportRun(cmd *cobra.Command, args []string) error {
	hist, err := openHistory()
	if err != nil {
		return err
	}

	path := fmt.Sprintf("baggedflix_history_%s.json", time.Now().Format("2006-01-02"))
	if len(args) == 1 {
		path = args[0]
	}

	doc, err := hist.Export()
	if err != nil {
		return fmt.Errorf("exporting history: %w", err)
	}
	if err := os.WriteFile(path, doc, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Fprintf(os.Stderr, "Exported %d entries to %s\n", hist.Len(), path)
	return nil
}

func historyImportRun(cmd *cobra.Command, args []string) error {
	hist, err := openHistory()
	if err != nil {
		return err
	}

	doc, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	n, err := hist.ImportMerge(doc)
	if err != nil {
		return fmt.Errorf("import rejected, history unchanged: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Imported %d entries\n", n)
	return nil
}

func historyRemoveRun(cmd *cobra.Command, args []string) error {
	hist, err := openHistory()
	if err != nil {
		return err
	}
	if err := hist.Remove(args[0]); err != nil {
		return fmt.Errorf("removing entry: %w", err)
	}
	return nil
}
