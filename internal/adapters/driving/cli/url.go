package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	urlQuery  string
	urlOrigin string
	urlRecord bool
)

var urlCmd = &cobra.Command{
	Use:   "url [tags...]",
	Short: "Build the search URL for tags and a query",
	Long: `Builds the site search URL for the given tags and free search text.

Child tags are mapped onto their parents and duplicates are dropped, the
same way the interactive widget selects them.

Examples:
  tagsearch url "Wage & Hour" Overtime
  tagsearch url Overtime --query pay --record`,
	RunE: runURL,
}

func init() {
	urlCmd.Flags().StringVarP(&urlQuery, "query", "q", "", "free search text")
	urlCmd.Flags().StringVar(&urlOrigin, "origin", "", "site origin (default from config)")
	urlCmd.Flags().BoolVar(&urlRecord, "record", false, "add the search to the history")
	rootCmd.AddCommand(urlCmd)
}

func runURL(cmd *cobra.Command, args []string) error {
	engine, err := newEngine(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("building url failed: %w", err)
	}
	engine.Filter(urlQuery)

	origin := urlOrigin
	if origin == "" {
		origin = siteOrigin()
	}
	url := engine.BuildSubmitURL(origin)

	if urlRecord {
		if searchLogService == nil {
			return fmt.Errorf("search log service not configured")
		}
		if _, err := searchLogService.Record(cmd.Context(), engine.Selection(), strings.TrimSpace(urlQuery), url); err != nil {
			return fmt.Errorf("failed to record search: %w", err)
		}
	}

	cmd.Println(url)
	return nil
}

func joinTags(tags []string) string {
	return strings.Join(tags, ", ")
}
