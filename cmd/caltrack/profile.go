package caltrack

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Terry7788/caloric-intake-calculator/internal/energy"
	"github.com/Terry7788/caloric-intake-calculator/internal/service"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the body profile used for calorie targets",
}

var (
	profileName       string
	profileAge        int
	profileSex        string
	profileHeight     float64
	profileHeightUnit string
	profileWeight     float64
	profileWeightUnit string
	profileActivity   string
	profileGoal       string
	profileEffective  string
	profileShowDate   string
	profileShowUnit   string
)

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set profile effective from a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			p, err := service.SetProfile(sqldb, service.SetProfileInput{
				Name:          profileName,
				Age:           profileAge,
				Sex:           profileSex,
				Height:        profileHeight,
				HeightUnit:    profileHeightUnit,
				Weight:        profileWeight,
				WeightUnit:    profileWeightUnit,
				ActivityLevel: profileActivity,
				Goal:          profileGoal,
				EffectiveDate: profileEffective,
			})
			if err != nil {
				return err
			}
			est, err := energy.Estimate(p.Profile)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set profile effective %s: target %d kcal/day\n", p.EffectiveDate, est.TargetCalories)
			return nil
		})
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the profile in effect on a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			p, err := service.CurrentProfile(sqldb, profileShowDate)
			if err != nil {
				return err
			}
			if p == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No profile set (run `caltrack profile set`)")
				return nil
			}
			weight, err := service.WeightFromKg(p.Profile.WeightKG, profileShowUnit)
			if err != nil {
				return err
			}
			est, err := energy.Estimate(p.Profile)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if p.Name != "" {
				fmt.Fprintf(out, "Name: %s\n", p.Name)
			}
			fmt.Fprintf(out, "Effective: %s\n", p.EffectiveDate)
			fmt.Fprintf(out, "Age: %d | Sex: %s | Height: %.1f cm | Weight: %.1f %s\n", p.Profile.Age, p.Profile.Sex, p.Profile.HeightCM, weight, profileShowUnit)
			fmt.Fprintf(out, "Activity: %s | Goal: %s\n", p.Profile.ActivityLevel, p.Profile.Goal)
			printEstimate(out, est)
			return nil
		})
	},
}

var profileHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List profile versions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			items, err := service.ProfileHistory(sqldb)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No profile history")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "EFFECTIVE\tWEIGHT_KG\tACTIVITY\tGOAL\tTARGET")
			for _, p := range items {
				est, err := energy.Estimate(p.Profile)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.1f\t%s\t%s\t%d\n", p.EffectiveDate, p.Profile.WeightKG, p.Profile.ActivityLevel, p.Profile.Goal, est.TargetCalories)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileSetCmd, profileShowCmd, profileHistoryCmd)

	profileSetCmd.Flags().StringVar(&profileName, "name", "", "Display name")
	profileSetCmd.Flags().IntVar(&profileAge, "age", 0, "Age in years")
	profileSetCmd.Flags().StringVar(&profileSex, "sex", "", "male|female")
	profileSetCmd.Flags().Float64Var(&profileHeight, "height", 0, "Height")
	profileSetCmd.Flags().StringVar(&profileHeightUnit, "height-unit", "cm", "cm|m|in|ft")
	profileSetCmd.Flags().Float64Var(&profileWeight, "weight", 0, "Weight")
	profileSetCmd.Flags().StringVar(&profileWeightUnit, "weight-unit", "kg", "kg|g|lb|st")
	profileSetCmd.Flags().StringVar(&profileActivity, "activity", "moderate", "sedentary|light|moderate|active|very_active")
	profileSetCmd.Flags().StringVar(&profileGoal, "goal", "maintain", "lose|maintain|gain")
	profileSetCmd.Flags().StringVar(&profileEffective, "effective-date", "", "Effective date YYYY-MM-DD (default today)")
	_ = profileSetCmd.MarkFlagRequired("age")
	_ = profileSetCmd.MarkFlagRequired("sex")
	_ = profileSetCmd.MarkFlagRequired("height")
	_ = profileSetCmd.MarkFlagRequired("weight")

	profileShowCmd.Flags().StringVar(&profileShowDate, "date", "", "Date YYYY-MM-DD (default today)")
	profileShowCmd.Flags().StringVar(&profileShowUnit, "weight-unit", "kg", "kg|g|lb|st")
}
