package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/saymore/speech-analysis/internal/app"
)

var stutterCmd = &cobra.Command{
	Use:   "stutter <audio-reference>",
	Short: "Screen a recording for stuttering patterns",
	Long: `Transcribes one recording and screens the transcript for stuttering:
sound and word repetitions, prolongations, blocks and cluttering. Reports
the disfluent words, a fluency score and the model's confidence.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		application, err := app.NewApp(newAppContext())
		if err != nil {
			return err
		}

		return application.RunStutter(ctx, args[0])
	},
}

func init() {
	rootCmd.AddCommand(stutterCmd)
}
