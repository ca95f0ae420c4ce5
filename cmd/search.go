package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"sakura/internal/config"
	"sakura/internal/download"
	"sakura/internal/extract"
	"sakura/internal/history"
	"sakura/internal/httputil"
	"sakura/internal/media"
	"sakura/internal/player"
	"sakura/internal/provider"
	"sakura/internal/ui"
)

// searchRun is the default command: sakura <keyword>
func searchRun(cmd *cobra.Command, args []string) error {
	keyword := strings.Join(args, " ")

	if keyword == "" {
		// Prompt for keyword via fzf
		var err error
		keyword, err = ui.Input("Search")
		if err != nil {
			return fmt.Errorf("no search keyword provided")
		}
	}

	logrus.Debugf("searching for: %s", keyword)

	p := provider.NewDM569(cfg.Base, timeout())
	return playFlow(p, keyword)
}

// playFlow handles the full search -> select -> play flow.
func playFlow(p *provider.DM569, keyword string) error {
	results, err := p.Search(keyword)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	items := make([]string, len(results))
	for i, r := range results {
		items[i] = r.Title
	}

	idx, err := ui.Select("Select", items)
	if err != nil {
		return err
	}

	selected := results[idx]
	logrus.Debugf("selected: %s (ID: %s)", selected.Title, selected.ID)

	return resolveAndPlay(p, selected.ID, selected.Title, flagLine-1, flagEpisode-1)
}

// resolveAndPlay selects a line and episode (prompting where the indices
// are negative), resolves the stream URL, and plays, downloads, or prints
// it. Indices are zero-based.
func resolveAndPlay(p *provider.DM569, vid, title string, lineIdx, epIdx int) error {
	list, err := p.Episodes(vid)
	if err != nil {
		return fmt.Errorf("getting episodes: %w", err)
	}
	if title == "" {
		title = list.Title
	}

	if lineIdx < 0 {
		if len(list.Lines) == 1 {
			lineIdx = 0
		} else {
			lineItems := make([]string, len(list.Lines))
			for i, l := range list.Lines {
				lineItems[i] = fmt.Sprintf("%s (%d集)", l.Name, len(l.Episodes))
			}
			lineIdx, err = ui.Select("Line", lineItems)
			if err != nil {
				return err
			}
		}
	}
	if lineIdx >= len(list.Lines) {
		return fmt.Errorf("line %d out of range (%d lines)", lineIdx+1, len(list.Lines))
	}

	episodes := list.Lines[lineIdx].Episodes
	if epIdx < 0 {
		epItems := make([]string, len(episodes))
		for i, ep := range episodes {
			epItems[i] = ep.Name
		}
		epIdx, err = ui.Select("Episode", epItems)
		if err != nil {
			return err
		}
	}
	if epIdx >= len(episodes) {
		return fmt.Errorf("episode %d out of range (%d episodes)", epIdx+1, len(episodes))
	}

	episode := episodes[epIdx]
	displayTitle := fmt.Sprintf("%s %s", title, episode.Name)
	logrus.Debugf("resolving %s line=%d ep=%d", vid, lineIdx, epIdx)

	client := httputil.NewClient(timeout())
	resolver := extract.NewResolver(client, p, cfg.Base)

	playOnly := cfg.PlayOnly && !flagDownload && !flagJSON
	res := resolver.Resolve(vid, lineIdx, epIdx, playOnly)
	if !res.Success {
		return fmt.Errorf("resolving stream: %s", res.Err)
	}
	logrus.Debugf("stream URL: %s", res.StreamURL)

	referer := episode.URL

	// JSON output mode
	if flagJSON {
		out := map[string]interface{}{
			"title":      displayTitle,
			"stream_url": res.StreamURL,
			"referer":    referer,
		}
		if res.Playlist != "" {
			out["playlist_bytes"] = len(res.Playlist)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	// Download mode
	if flagDownload {
		dir := flagOutDir
		if dir == "" {
			dir, err = cfg.ExpandDownloadDir()
			if err != nil {
				return fmt.Errorf("resolving download dir: %w", err)
			}
		}
		outputPath, err := download.Download(res.StreamURL, displayTitle, referer, dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Downloaded: %s\n", outputPath)
		return nil
	}

	// Play
	var store *history.Store
	if cfg.History {
		if path, err := config.HistoryPath(); err == nil {
			if store, err = history.Open(path); err != nil {
				logrus.Debugf("opening history: %v", err)
				store = nil
			} else {
				defer store.Close()
			}
		}
	}

	var startPos float64
	if flagContinue && store != nil {
		if entry, ok, _ := store.Get(vid, lineIdx, epIdx); ok {
			startPos = entry.Position
			logrus.Debugf("resuming from position: %.0fs", startPos)
		}
	}

	pl := player.New(cfg.Player)
	if !pl.Available() {
		return fmt.Errorf("player %q not found in PATH", cfg.Player)
	}

	lastPos, err := pl.Play(res.StreamURL, displayTitle, referer, startPos)
	if err != nil {
		return fmt.Errorf("playback failed: %w", err)
	}

	if store != nil {
		entry := media.HistoryEntry{
			ID:       vid,
			Title:    title,
			Line:     lineIdx,
			Episode:  epIdx,
			Position: lastPos,
		}
		if err := store.Save(entry); err != nil {
			logrus.Debugf("saving history failed: %v", err)
		}
	}

	return nil
}
