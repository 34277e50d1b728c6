package caltrack

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Terry7788/caloric-intake-calculator/internal/model"
	"github.com/Terry7788/caloric-intake-calculator/internal/provider/openfoodfacts"
	"github.com/Terry7788/caloric-intake-calculator/internal/service"
)

const lookupTimeout = 15 * time.Second

var foodCmd = &cobra.Command{
	Use:   "food",
	Short: "Manage the local food catalog",
}

var (
	foodName    string
	foodKcal    float64
	foodServing string
	foodProtein float64
	foodCarbs   float64
	foodFat     float64
	foodBrand   string
	foodBarcode string
	foodLimit   int
	foodJSON    bool
	foodOnline  bool
)

var foodAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a food to the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			id, err := service.AddFood(sqldb, service.AddFoodInput{
				Name:               foodName,
				CaloriesPerServing: foodKcal,
				ServingSize:        foodServing,
				ProteinG:           optionalFloat(cmd, "protein", foodProtein),
				CarbsG:             optionalFloat(cmd, "carbs", foodCarbs),
				FatG:               optionalFloat(cmd, "fat", foodFat),
				Brand:              foodBrand,
				Barcode:            foodBarcode,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added food %d: %s\n", id, strings.TrimSpace(foodName))
			return nil
		})
	},
}

var foodListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog foods",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			items, err := service.ListFoods(sqldb, foodLimit)
			if err != nil {
				return err
			}
			return printFoods(cmd.OutOrStdout(), items)
		})
	},
}

var foodSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search foods by name, brand, or barcode",
	Long:  "Search the local catalog, or Open Food Facts with --online.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if !foodOnline {
				items, err := service.SearchFoods(sqldb, args[0], foodLimit)
				if err != nil {
					return err
				}
				return printFoods(cmd.OutOrStdout(), items)
			}
			client, err := openFoodFactsClient(sqldb)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), lookupTimeout)
			defer cancel()
			results, err := client.SearchFoods(ctx, args[0], foodLimit)
			if err != nil {
				return err
			}
			items := make([]model.FoodItem, 0, len(results))
			for _, r := range results {
				items = append(items, r.FoodItem())
			}
			return printFoods(cmd.OutOrStdout(), items)
		})
	},
}

var foodLookupCmd = &cobra.Command{
	Use:   "lookup <barcode>",
	Short: "Lookup a barcode on Open Food Facts without saving it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			client, err := openFoodFactsClient(sqldb)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), lookupTimeout)
			defer cancel()
			result, err := client.LookupBarcode(ctx, strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			if foodJSON {
				b, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal barcode lookup json: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return nil
			}
			printLookup(cmd.OutOrStdout(), result)
			return nil
		})
	},
}

var foodImportCmd = &cobra.Command{
	Use:   "import <barcode>",
	Short: "Import a product from Open Food Facts into the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			client, err := openFoodFactsClient(sqldb)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), lookupTimeout)
			defer cancel()
			food, err := service.ImportFoodByBarcode(ctx, sqldb, client, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported food %d: %s (%.0f kcal per %s)\n", food.ID, food.Name, food.CaloriesPerServing, food.ServingSize)
			return nil
		})
	},
}

func printFoods(w io.Writer, items []model.FoodItem) error {
	if foodJSON {
		b, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal foods json: %w", err)
		}
		fmt.Fprintln(w, string(b))
		return nil
	}
	if len(items) == 0 {
		fmt.Fprintln(w, "No foods found")
		return nil
	}
	fmt.Fprintln(w, "ID\tNAME\tBRAND\tSERVING\tKCAL\tP\tC\tF")
	for _, it := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.1f\t%s\t%s\t%s\n", it.ID, it.Name, it.Brand, it.ServingSize, it.CaloriesPerServing, formatMacro(it.ProteinG), formatMacro(it.CarbsG), formatMacro(it.FatG))
	}
	return nil
}

func printLookup(w io.Writer, r openfoodfacts.FoodLookup) {
	fmt.Fprintf(w, "Barcode: %s\n", r.Code)
	fmt.Fprintf(w, "Food: %s\n", r.Name)
	fmt.Fprintf(w, "Brand: %s\n", r.Brand)
	fmt.Fprintf(w, "Serving: %s\n", r.ServingSize)
	fmt.Fprintf(w, "Calories: %.1f\nProtein: %sg\nCarbs: %sg\nFat: %sg\n", r.Calories, formatMacro(r.ProteinG), formatMacro(r.CarbsG), formatMacro(r.FatG))
}

func init() {
	rootCmd.AddCommand(foodCmd)
	foodCmd.AddCommand(foodAddCmd, foodListCmd, foodSearchCmd, foodLookupCmd, foodImportCmd)

	foodAddCmd.Flags().StringVar(&foodName, "name", "", "Food name")
	foodAddCmd.Flags().Float64Var(&foodKcal, "calories", 0, "Calories per serving")
	foodAddCmd.Flags().StringVar(&foodServing, "serving", "", "Serving size label (default \"1 serving\")")
	foodAddCmd.Flags().Float64Var(&foodProtein, "protein", 0, "Protein grams per serving")
	foodAddCmd.Flags().Float64Var(&foodCarbs, "carbs", 0, "Carbs grams per serving")
	foodAddCmd.Flags().Float64Var(&foodFat, "fat", 0, "Fat grams per serving")
	foodAddCmd.Flags().StringVar(&foodBrand, "brand", "", "Brand")
	foodAddCmd.Flags().StringVar(&foodBarcode, "barcode", "", "Barcode")
	_ = foodAddCmd.MarkFlagRequired("name")
	_ = foodAddCmd.MarkFlagRequired("calories")

	for _, c := range []*cobra.Command{foodListCmd, foodSearchCmd} {
		c.Flags().IntVar(&foodLimit, "limit", 0, "Max results (default 100 for list, 20 for search)")
		c.Flags().BoolVar(&foodJSON, "json", false, "Output JSON")
	}
	foodSearchCmd.Flags().BoolVar(&foodOnline, "online", false, "Search Open Food Facts instead of the local catalog")
	foodLookupCmd.Flags().BoolVar(&foodJSON, "json", false, "Output JSON")
}
