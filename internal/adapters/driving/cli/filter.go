package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tagsearch/internal/core/domain"
)

var (
	filterSelected []string
	filterLimit    int
	filterJSON     bool
	filterRemote   bool
)

var filterCmd = &cobra.Command{
	Use:   "filter [query]",
	Short: "Rank catalog tags against a query",
	Long: `Ranks catalog tags against partial input, best match first.

Tags passed with --selected are selected first; they and their child tags
are left out of the results. With --remote the remote search endpoint is
asked for extra suggestions when one is configured.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFilter,
}

func init() {
	filterCmd.Flags().StringArrayVarP(&filterSelected, "selected", "s", nil, "already selected tag (repeatable)")
	filterCmd.Flags().IntVarP(&filterLimit, "limit", "n", 20, "maximum number of matches")
	filterCmd.Flags().BoolVar(&filterJSON, "json", false, "output matches as JSON")
	filterCmd.Flags().BoolVar(&filterRemote, "remote", false, "merge suggestions from the remote search endpoint")
	rootCmd.AddCommand(filterCmd)
}

func runFilter(cmd *cobra.Command, args []string) error {
	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	engine, err := newEngine(cmd.Context(), filterSelected)
	if err != nil {
		return fmt.Errorf("filter failed: %w", err)
	}

	result := engine.Filter(query)
	if filterRemote && newPredictor != nil {
		predictor := newPredictor(engine)
		if ticket, ok := predictor.Begin(query); ok {
			if predictor.Apply(ticket, predictor.Fetch(cmd.Context(), ticket)) {
				result = engine.Filter(query)
			}
		}
		predictor.Close()
	}

	if filterLimit > 0 && len(result.Matches) > filterLimit {
		result.Matches = result.Matches[:filterLimit]
	}

	if filterJSON {
		return outputFilterJSON(cmd, result)
	}
	return outputFilterTable(cmd, result, engine.Selection())
}

func outputFilterJSON(cmd *cobra.Command, result domain.FilterResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputFilterTable(cmd *cobra.Command, result domain.FilterResult, selected []string) error {
	if len(selected) > 0 {
		cmd.Printf("Selected: %s\n", joinTags(selected))
	}
	if result.Len() == 0 {
		cmd.Println("No matching tags.")
		return nil
	}

	for _, m := range result.Matches {
		marker := ""
		if m.Candidate.IsParent {
			marker = " (parent)"
		}
		cmd.Printf("%6.1f  %s%s\n", m.Score, m.Candidate.Label(), marker)
	}
	return nil
}
