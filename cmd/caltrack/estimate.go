package caltrack

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Terry7788/caloric-intake-calculator/internal/energy"
	"github.com/Terry7788/caloric-intake-calculator/internal/model"
	"github.com/Terry7788/caloric-intake-calculator/internal/service"
)

var (
	estAge        int
	estSex        string
	estHeight     float64
	estHeightUnit string
	estWeight     float64
	estWeightUnit string
	estActivity   string
	estGoal       string
	estDate       string
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate BMR, TDEE, and daily calorie target",
	Long:  "Estimate from the flags given, or from the stored profile in effect on --date when no measurements are passed.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("age") || cmd.Flags().Changed("weight") || cmd.Flags().Changed("height") {
			p, err := estimateProfileFromFlags()
			if err != nil {
				return err
			}
			est, err := energy.Estimate(p)
			if err != nil {
				return err
			}
			printEstimate(cmd.OutOrStdout(), est)
			return nil
		}
		day, err := parseDayOrToday(estDate)
		if err != nil {
			return fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", estDate)
		}
		return withDB(func(sqldb *sql.DB) error {
			est, err := service.EstimateForDate(sqldb, day)
			if err != nil {
				return err
			}
			printEstimate(cmd.OutOrStdout(), est)
			return nil
		})
	},
}

func estimateProfileFromFlags() (model.Profile, error) {
	heightCM, err := service.ConvertHeightToCm(estHeight, estHeightUnit)
	if err != nil {
		return model.Profile{}, err
	}
	weightKG, err := service.ConvertWeightToKg(estWeight, estWeightUnit)
	if err != nil {
		return model.Profile{}, err
	}
	return model.Profile{
		Age:           estAge,
		Sex:           model.Sex(estSex),
		HeightCM:      heightCM,
		WeightKG:      weightKG,
		ActivityLevel: model.ActivityLevel(estActivity),
		Goal:          model.Goal(estGoal),
	}, nil
}

func printEstimate(w io.Writer, est model.EnergyEstimate) {
	fmt.Fprintf(w, "BMR: %d kcal\n", est.BMR)
	fmt.Fprintf(w, "TDEE: %d kcal\n", est.TDEE)
	fmt.Fprintf(w, "Target: %d kcal\n", est.TargetCalories)
	fmt.Fprintf(w, "Macros: P %dg | C %dg | F %dg\n", est.RecommendedIntake.ProteinG, est.RecommendedIntake.CarbsG, est.RecommendedIntake.FatG)
}

func init() {
	rootCmd.AddCommand(estimateCmd)
	estimateCmd.Flags().IntVar(&estAge, "age", 0, "Age in years")
	estimateCmd.Flags().StringVar(&estSex, "sex", "male", "male|female")
	estimateCmd.Flags().Float64Var(&estHeight, "height", 0, "Height")
	estimateCmd.Flags().StringVar(&estHeightUnit, "height-unit", "cm", "cm|m|in|ft")
	estimateCmd.Flags().Float64Var(&estWeight, "weight", 0, "Weight")
	estimateCmd.Flags().StringVar(&estWeightUnit, "weight-unit", "kg", "kg|lb")
	estimateCmd.Flags().StringVar(&estActivity, "activity", "moderate", "sedentary|light|moderate|active|very_active")
	estimateCmd.Flags().StringVar(&estGoal, "goal", "maintain", "lose|maintain|gain")
	estimateCmd.Flags().StringVar(&estDate, "date", "", "Use the stored profile in effect on YYYY-MM-DD (default today)")
}
