package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/saymore/speech-analysis/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP analysis server",
	Long: `Serves the analysis engine over HTTP.

POST /test accepts {"file_name": ..., "test_type": "speaking"|"stutter",
"lan_flag": ...} and responds with the analysis result. GET /health and
GET /metrics support liveness checks and Prometheus scraping.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		application, err := app.NewApp(newAppContext())
		if err != nil {
			return err
		}

		return application.RunServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
