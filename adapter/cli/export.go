package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/todo/internal/shared/infrastructure/security"
	"github.com/felixgeelhaar/todo/internal/tasks/infrastructure/export"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tasks to various formats",
	Long: `Export every task as JSON, CSV, iCalendar (one VTODO per task) or a
printable PDF report.

Examples:
  todo export                          # JSON to stdout
  todo export --format csv -o tasks.csv
  todo export --format ics -o tasks.ics
  todo export --format pdf -o tasks.pdf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireStore()
		if err != nil {
			return err
		}

		exporter, err := export.ForFormat(exportFormat)
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if exportOutput != "" {
			f, err := security.SafeCreate(exportOutput, 0o600)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()
			w = f
		}

		tasks := app.Store.All()
		if err := exporter.Export(w, tasks); err != nil {
			return fmt.Errorf("failed to export tasks: %w", err)
		}

		if exportOutput != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d tasks to %s\n", len(tasks), exportOutput)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json",
		"export format ("+strings.Join(export.Formats(), ", ")+")")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	rootCmd.AddCommand(exportCmd)
}
