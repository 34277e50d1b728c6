package caltrack

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Terry7788/caloric-intake-calculator/internal/api"
)

var (
	serveAddr      string
	serveEphemeral bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the calorie calculator and day log over HTTP",
	Long:  "Serve the JSON API. Profiles and foods always live in the database; with --ephemeral the day log is kept in memory and lost on exit.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		addr := serveAddr
		if addr == "" {
			addr = cfg.Addr
		}
		return withDB(func(sqldb *sql.DB) error {
			var days api.DayStore = api.NewSQLDayStore(sqldb)
			if serveEphemeral {
				days = api.NewLedgerDayStore(sqldb)
			}
			client, err := openFoodFactsClient(sqldb)
			if err != nil {
				return err
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           api.NewServer(sqldb, days, client).Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Printf("[serve] listening on %s", addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			log.Printf("[serve] shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default $CALTRACK_ADDR or localhost:8080)")
	serveCmd.Flags().BoolVar(&serveEphemeral, "ephemeral", false, "Keep the day log in memory instead of the database")
}
