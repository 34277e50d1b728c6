package caltrack

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Terry7788/caloric-intake-calculator/internal/app"
)

var (
	dbPath  string
	envFile string
)

var rootCmd = &cobra.Command{
	Use:          "caltrack",
	Short:        "caltrack estimates your daily calorie needs and tracks what you eat",
	Long:         "caltrack is a local-first calorie tracker: it estimates BMR, TDEE, and a goal-adjusted target from your profile, logs meals against that target, and serves the same data over a local HTTP API.",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database (default $CALTRACK_DB or the user config dir)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file with CALTRACK_* settings")
}

func loadConfig() (*app.Config, error) {
	return app.LoadConfig(envFile)
}
