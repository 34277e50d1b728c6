package caltrack

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Terry7788/caloric-intake-calculator/internal/intake"
	"github.com/Terry7788/caloric-intake-calculator/internal/service"
)

var (
	historyDays int
	historyEnd  string
	historyJSON bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Summarize intake against target for recent days",
	RunE: func(cmd *cobra.Command, args []string) error {
		end, err := parseDayOrToday(historyEnd)
		if err != nil {
			return fmt.Errorf("invalid --end %q (expected YYYY-MM-DD)", historyEnd)
		}
		return withDB(func(sqldb *sql.DB) error {
			n := historyDays
			if n <= 0 {
				if n, err = service.HistoryDays(sqldb); err != nil {
					return err
				}
			}
			w, err := intake.LastDays(end, n)
			if err != nil {
				return err
			}
			report, err := service.History(sqldb, w)
			if err != nil {
				return err
			}
			if historyJSON {
				b, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal history json: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return nil
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "DATE\tCONSUMED\tTARGET\tREMAINING")
			for _, d := range report.Days {
				mark := ""
				if d.OverTarget() {
					mark = "\tover"
				}
				fmt.Fprintf(out, "%s\t%d\t%d\t%d%s\n", d.Date, d.Consumed, d.Target, d.Remaining, mark)
			}
			fmt.Fprintf(out, "Total: %d / %d kcal over %d days (avg %.0f kcal/day, %d over target)\n",
				report.Totals.Consumed, report.Totals.Target, report.Totals.Days, report.Totals.AverageConsumed, report.Totals.DaysOverTarget)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyDays, "days", 0, "Number of days (default from config history_days)")
	historyCmd.Flags().StringVar(&historyEnd, "end", "", "Last day YYYY-MM-DD (default today)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Output JSON")
}
