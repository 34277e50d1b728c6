package caltrack

import (
	"database/sql"
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"

	"github.com/Terry7788/caloric-intake-calculator/internal/intake"
	"github.com/Terry7788/caloric-intake-calculator/internal/model"
	"github.com/Terry7788/caloric-intake-calculator/internal/service"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Log food eaten against a day's meals",
}

var (
	logDate     string
	logMeal     string
	logFood     string
	logQuantity float64
	logName     string
	logKcal     float64
	logEntryID  string
)

var logAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a catalog food (--food) or an ad-hoc item (--name, --calories)",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.LogFoodInput{
			Date:     logDate,
			Meal:     logMeal,
			FoodRef:  logFood,
			Quantity: logQuantity,
			EntryID:  logEntryID,
		}
		if logFood == "" {
			if logName == "" || !cmd.Flags().Changed("calories") {
				return fmt.Errorf("either --food or --name with --calories is required")
			}
			in.Food = &model.FoodItem{Name: logName, CaloriesPerServing: logKcal, ServingSize: "1 serving"}
		}
		return withDB(func(sqldb *sql.DB) error {
			res, err := service.LogFood(sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged entry %s\n", res.EntryID)
			printDayTotals(cmd.OutOrStdout(), res.Day)
			return nil
		})
	},
}

var logRemoveCmd = &cobra.Command{
	Use:   "remove <entry-id>",
	Short: "Remove a logged entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			day, err := service.RemoveLoggedFood(sqldb, logDate, logMeal, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed entry %s\n", args[0])
			printDayTotals(cmd.OutOrStdout(), day)
			return nil
		})
	},
}

var logReplaceCmd = &cobra.Command{
	Use:   "replace <entry-id>",
	Short: "Replace a logged entry's food and quantity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			day, err := service.ReplaceLoggedFood(sqldb, args[0], service.LogFoodInput{
				Date:     logDate,
				Meal:     logMeal,
				FoodRef:  logFood,
				Quantity: logQuantity,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Replaced entry %s\n", args[0])
			printDayTotals(cmd.OutOrStdout(), day)
			return nil
		})
	},
}

var logShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show every entry logged for a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := parseDayOrToday(logDate)
		if err != nil {
			return fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", logDate)
		}
		return withDB(func(sqldb *sql.DB) error {
			d, err := service.LoadDay(sqldb, day.String())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if d == nil {
				fmt.Fprintf(out, "Nothing logged for %s\n", day)
				return nil
			}
			for _, m := range d.Meals {
				fmt.Fprintf(out, "%s (%.0f kcal)\n", m.Type, m.TotalCalories())
				for _, e := range m.Entries {
					fmt.Fprintf(out, "  %s\t%s\tx%g\t%.1f kcal\n", e.ID, e.Food.Name, e.Quantity, e.Calories())
				}
			}
			printDayTotals(out, *d)
			return nil
		})
	},
}

func printDayTotals(w io.Writer, d model.DailyEntry) {
	consumed := int(math.Round(d.TotalCalories()))
	fmt.Fprintf(w, "%s: %d / %d kcal, %d remaining\n", d.Date, consumed, d.TargetCalories, intake.Remaining(consumed, d.TargetCalories))
}

func init() {
	rootCmd.AddCommand(logCmd)
	logCmd.AddCommand(logAddCmd, logRemoveCmd, logReplaceCmd, logShowCmd)

	for _, c := range []*cobra.Command{logAddCmd, logRemoveCmd, logReplaceCmd, logShowCmd} {
		c.Flags().StringVar(&logDate, "date", "", "Date YYYY-MM-DD (default today)")
	}
	for _, c := range []*cobra.Command{logAddCmd, logRemoveCmd, logReplaceCmd} {
		c.Flags().StringVar(&logMeal, "meal", "", "breakfast|lunch|dinner|snack")
		_ = c.MarkFlagRequired("meal")
	}
	for _, c := range []*cobra.Command{logAddCmd, logReplaceCmd} {
		c.Flags().StringVar(&logFood, "food", "", "Catalog food ID or name")
		c.Flags().Float64Var(&logQuantity, "quantity", 1, "Servings eaten")
	}
	logAddCmd.Flags().StringVar(&logName, "name", "", "Ad-hoc food name")
	logAddCmd.Flags().Float64Var(&logKcal, "calories", 0, "Ad-hoc calories per serving")
	logAddCmd.Flags().StringVar(&logEntryID, "id", "", "Entry ID (default generated)")
	_ = logReplaceCmd.MarkFlagRequired("food")
}
