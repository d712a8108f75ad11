package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently submitted searches",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of searches")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output searches as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if searchLogService == nil {
		return errors.New("search log service not configured")
	}

	entries, err := searchLogService.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if historyJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal history: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(entries) == 0 {
		cmd.Println("No searches yet.")
		return nil
	}

	for _, e := range entries {
		what := joinTags(e.Tags)
		if e.Query != "" {
			if what != "" {
				what += "  "
			}
			what += fmt.Sprintf("%q", e.Query)
		}
		if what == "" {
			what = "(empty search)"
		}
		cmd.Printf("%s  %s\n", e.SubmittedAt.Local().Format("2006-01-02 15:04"), what)
		cmd.Printf("    %s\n", e.URL)
	}
	return nil
}
