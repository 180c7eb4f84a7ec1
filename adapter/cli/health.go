package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/todo/pkg/observability"
)

var (
	healthJSON  bool
	healthCheck string
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check storage health",
	Long: `Run the storage health checks: the database or Redis connection when one
is configured, and whether the saved snapshot is readable.

Examples:
  todo health
  todo health --json
  todo health --check snapshot`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Health == nil {
			return ErrNotInitialized
		}

		if healthCheck != "" {
			return runSingleCheck(cmd, app.Health, healthCheck)
		}

		health := app.Health.GetOverallHealth(cmd.Context())
		out := cmd.OutOrStdout()

		if healthJSON {
			data, err := health.ToJSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
		} else {
			fmt.Fprintf(out, "storage: %s (%s)\n", app.StorageDriver, health.Status)
			names := make([]string, 0, len(health.Checks))
			for name := range health.Checks {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				check := health.Checks[name]
				fmt.Fprintf(out, "  %-9s %-9s %s\n", name, check.Status, check.Message)
			}
		}

		if health.Status == observability.HealthStatusUnhealthy {
			return fmt.Errorf("storage is unhealthy")
		}
		return nil
	},
}

func runSingleCheck(cmd *cobra.Command, registry *observability.HealthRegistry, name string) error {
	result, ok := registry.CheckOne(cmd.Context(), name)
	if !ok {
		return fmt.Errorf("unknown health check %q", name)
	}

	out := cmd.OutOrStdout()
	if healthJSON {
		data, err := json.Marshal(result)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	} else {
		fmt.Fprintf(out, "%s: %s %s\n", name, result.Status, result.Message)
	}

	if result.Status == observability.HealthStatusUnhealthy {
		return fmt.Errorf("%s is unhealthy", name)
	}
	return nil
}

func init() {
	healthCmd.Flags().BoolVar(&healthJSON, "json", false, "print health as JSON")
	healthCmd.Flags().StringVar(&healthCheck, "check", "", "run only the named check (database, redis, snapshot)")
	rootCmd.AddCommand(healthCmd)
}
