package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sakura/internal/provider"
)

var episodesCmd = &cobra.Command{
	Use:   "episodes <video-id>",
	Short: "List playback lines and episodes for a series",
	Args:  cobra.ExactArgs(1),
	RunE:  episodesRun,
}

func episodesRun(cmd *cobra.Command, args []string) error {
	p := provider.NewDM569(cfg.Base, timeout())

	list, err := p.Episodes(args[0])
	if err != nil {
		return fmt.Errorf("getting episodes: %w", err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	fmt.Println(list.Title)
	for _, line := range list.Lines {
		fmt.Printf("  %s (%d集)\n", line.Name, len(line.Episodes))
		for _, ep := range line.Episodes {
			fmt.Printf("    %3d  %s\n", ep.Index, ep.Name)
		}
	}
	return nil
}

var detailCmd = &cobra.Command{
	Use:   "detail <video-id>",
	Short: "Show series metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  detailRun,
}

func detailRun(cmd *cobra.Command, args []string) error {
	p := provider.NewDM569(cfg.Base, timeout())

	detail, err := p.Detail(args[0])
	if err != nil {
		return fmt.Errorf("getting detail: %w", err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(detail)
	}

	fmt.Println(detail.Title)
	if detail.Alias != "" {
		fmt.Printf("  别名: %s\n", detail.Alias)
	}
	if len(detail.Tags) > 0 {
		fmt.Printf("  分类: %v\n", detail.Tags)
	}
	if detail.Area != "" {
		fmt.Printf("  地区: %s\n", detail.Area)
	}
	if detail.Year != "" {
		fmt.Printf("  年份: %s\n", detail.Year)
	}
	if detail.Updated != "" {
		fmt.Printf("  更新: %s\n", detail.Updated)
	}
	if detail.Intro != "" {
		fmt.Printf("  %s\n", detail.Intro)
	}
	return nil
}
