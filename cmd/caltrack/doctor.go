package caltrack

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Terry7788/caloric-intake-calculator/internal/service"
)

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run data integrity checks on the day log",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.RunDoctor(sqldb, doctorFix)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Orphan entries: %d\n", report.OrphanEntries)
			fmt.Fprintf(out, "Unlisted meals: %d\n", report.UnlistedMeals)
			fmt.Fprintf(out, "Empty days: %d\n", report.EmptyDays)
			if doctorFix {
				fmt.Fprintf(out, "Removed orphans: %d | Registered meals: %d | Removed empty days: %d\n",
					report.RemovedOrphans, report.RegisteredMeals, report.RemovedEmptyDays)
				report, err = service.RunDoctor(sqldb, false)
				if err != nil {
					return err
				}
			}
			if report.OrphanEntries > 0 || report.UnlistedMeals > 0 || report.EmptyDays > 0 {
				return fmt.Errorf("doctor found integrity issues")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Attempt safe auto-fixes")
}
