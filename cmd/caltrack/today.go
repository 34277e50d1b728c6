package caltrack

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Terry7788/caloric-intake-calculator/internal/service"
)

var (
	todayDate string
	todayJSON bool
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show a day's intake against its calorie target",
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := parseDayOrToday(todayDate)
		if err != nil {
			return fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", todayDate)
		}
		return withDB(func(sqldb *sql.DB) error {
			status, err := service.DayStatusFor(sqldb, target)
			if err != nil {
				return err
			}
			if todayJSON {
				b, err := json.MarshalIndent(status, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal day status json: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return nil
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Date: %s\n", status.Date)
			fmt.Fprintf(out, "Intake: %d kcal\n", status.Consumed)
			fmt.Fprintf(out, "Macros: P %.1fg | C %.1fg | F %.1fg\n", status.Macros.ProteinG, status.Macros.CarbsG, status.Macros.FatG)
			for _, m := range status.Meals {
				fmt.Fprintf(out, "  %s: %d kcal (%d entries)\n", m.Type, m.Calories, m.Entries)
			}
			if !status.Logged && !status.HasProfile {
				fmt.Fprintln(out, "Target: not set (run `caltrack profile set`)")
				return nil
			}
			fmt.Fprintf(out, "Target: %d kcal | P %dg | C %dg | F %dg\n", status.Target, status.Recommended.ProteinG, status.Recommended.CarbsG, status.Recommended.FatG)
			fmt.Fprintf(out, "Remaining: %d kcal | P %.1fg | C %.1fg | F %.1fg\n", status.Remaining, status.RemainingMacros.ProteinG, status.RemainingMacros.CarbsG, status.RemainingMacros.FatG)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(todayCmd)
	todayCmd.Flags().StringVar(&todayDate, "date", "", "Date YYYY-MM-DD (default today)")
	todayCmd.Flags().BoolVar(&todayJSON, "json", false, "Output JSON")
}
