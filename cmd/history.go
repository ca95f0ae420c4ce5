package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"sakura/internal/config"
	"sakura/internal/history"
	"sakura/internal/provider"
	"sakura/internal/ui"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Resume from watch history",
	RunE:  historyRun,
}

func historyRun(cmd *cobra.Command, args []string) error {
	path, err := config.HistoryPath()
	if err != nil {
		return err
	}
	store, err := history.Open(path)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer store.Close()

	entries, err := store.List()
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No history entries found.")
		return nil
	}

	items := make([]string, len(entries))
	for i, e := range entries {
		items[i] = fmt.Sprintf("%s  线路%d 第%d集  (%.0fs)", e.Title, e.Line+1, e.Episode+1, e.Position)
	}
	idx, err := ui.Select("History", items)
	if err != nil {
		return err
	}

	selected := entries[idx]
	logrus.Debugf("resuming: %s (ID: %s)", selected.Title, selected.ID)

	// Re-resolve and play from the saved position
	flagContinue = true
	p := provider.NewDM569(cfg.Base, timeout())
	return resolveAndPlay(p, selected.ID, selected.Title, selected.Line, selected.Episode)
}
