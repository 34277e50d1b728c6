package caltrack

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Terry7788/caloric-intake-calculator/internal/app"
	"github.com/Terry7788/caloric-intake-calculator/internal/db"
	"github.com/Terry7788/caloric-intake-calculator/internal/model"
	"github.com/Terry7788/caloric-intake-calculator/internal/provider/openfoodfacts"
	"github.com/Terry7788/caloric-intake-calculator/internal/service"
)

func withDB(run func(*sql.DB) error) error {
	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	if err := app.EnsureDBDir(path); err != nil {
		return err
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		return err
	}
	return run(sqldb)
}

func resolveDBPath() (string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.ResolveDBPath(dbPath)
}

func parseDayOrToday(value string) (model.Day, error) {
	if strings.TrimSpace(value) == "" {
		return model.Today(), nil
	}
	return model.ParseDay(value)
}

// optionalFloat returns nil unless the flag was set explicitly, so an unset
// macro stays unknown rather than zero.
func optionalFloat(cmd *cobra.Command, name string, value float64) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v := value
	return &v
}

// openFoodFactsClient picks the base URL from the app_config table, then
// CALTRACK_OFF_URL, then the public service.
func openFoodFactsClient(sqldb *sql.DB) (*openfoodfacts.Client, error) {
	base, ok, err := service.GetConfig(sqldb, service.ConfigOpenFoodFactsBaseURL)
	if err != nil {
		return nil, err
	}
	if !ok {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		base = cfg.OpenFoodFactsURL
	}
	return &openfoodfacts.Client{BaseURL: base}, nil
}

func formatMacro(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}
