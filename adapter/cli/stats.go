package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task statistics",
	Long: `Display task counts by status and priority, the categories in use
and the id the next task will receive.

Examples:
  todo stats
  todo stats --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireStore()
		if err != nil {
			return err
		}

		stats := app.Store.Statistics()
		out := cmd.OutOrStdout()

		if statsJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(stats.Map())
		}

		fmt.Fprintln(out, "Task Statistics")
		fmt.Fprintln(out, strings.Repeat("=", 40))
		fmt.Fprintf(out, "  Total:      %d\n", stats.Total)
		fmt.Fprintf(out, "  Completed:  %d\n", stats.Completed)
		fmt.Fprintf(out, "  Pending:    %d\n", stats.Pending)
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  High:       %d\n", stats.High)
		fmt.Fprintf(out, "  Medium:     %d\n", stats.Medium)
		fmt.Fprintf(out, "  Low:        %d\n", stats.Low)
		fmt.Fprintln(out)

		categories := app.Store.Categories()
		if len(categories) == 0 {
			fmt.Fprintln(out, "  Categories: none")
		} else {
			fmt.Fprintf(out, "  Categories: %s\n", strings.Join(categories, ", "))
		}
		fmt.Fprintf(out, "  Next ID:    %d\n", app.Store.NextID())
		return nil
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the categories in use",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireStore()
		if err != nil {
			return err
		}
		for _, c := range app.Store.Categories() {
			fmt.Fprintln(cmd.OutOrStdout(), c)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print statistics as JSON")
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(categoriesCmd)
}
