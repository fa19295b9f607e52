package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/saymore/speech-analysis/internal/app"
)

var scoreCmd = &cobra.Command{
	Use:   "score <audio-reference>",
	Short: "Score the public speaking delivery of a recording",
	Long: `Analyzes one recording and reports its public speaking scores.

The audio reference is a WAV file path (resolved against the configured
storage root) or an http(s) URL. The recording is transcribed and measured
acoustically, then scored for voice quality and vocal energy and composed
into a final 0-100 score with feedback.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		application, err := app.NewApp(newAppContext())
		if err != nil {
			return err
		}

		return application.RunScore(ctx, args[0])
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}

// newAppContext builds the application context from the parsed global flags
func newAppContext() *app.Context {
	return &app.Context{
		OutputFile:   outputFile,
		OutputFormat: outputFormat,
		Language:     languageFlag,
		LogLevel:     logLevel,
		Verbose:      verbose,
		Quiet:        quiet,
	}
}
