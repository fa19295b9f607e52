// Package app wires configuration, logging and the analysis collaborators
// into runnable commands.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/saymore/speech-analysis/configs"
	"github.com/saymore/speech-analysis/internal/api"
	"github.com/saymore/speech-analysis/internal/scoring"
	"github.com/saymore/speech-analysis/internal/storage"
	"github.com/saymore/speech-analysis/internal/stutter"
	"github.com/saymore/speech-analysis/internal/transcribe"
	"github.com/saymore/speech-analysis/pkg/audio/acoustic"
	"github.com/saymore/speech-analysis/pkg/logging"
	"github.com/saymore/speech-analysis/pkg/output"
)

// Context holds the CLI arguments and runtime state of one invocation
type Context struct {
	// CLI arguments
	OutputFile   string
	OutputFormat string
	Language     string
	LogLevel     string
	Verbose      bool
	Quiet        bool

	// Runtime context
	Logger logging.Logger
	Config *configs.Config
}

// App handles the analysis application lifecycle
type App struct {
	ctx      *Context
	config   *configs.Config
	logger   logging.Logger
	pipeline *scoring.Pipeline
}

// NewApp creates an application from the parsed CLI context
func NewApp(ctx *Context) (*App, error) {
	logger := setupLogging(ctx)
	ctx.Logger = logger

	config, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	ctx.Config = config

	app := &App{
		ctx:    ctx,
		config: config,
		logger: logger,
	}
	app.pipeline = app.buildPipeline()

	logger.Debug("application initialized", logging.Fields{
		"output_format": ctx.OutputFormat,
		"storage_root":  config.Storage.Root,
	})

	return app, nil
}

// buildPipeline assembles the scoring pipeline from configuration. A
// transcriber that cannot be created (typically missing credentials) is
// logged and left out; scoring then runs acoustic-only.
func (app *App) buildPipeline() *scoring.Pipeline {
	source := storage.NewRoutingSource(
		storage.NewLocalSource(app.config.Storage.Root, app.logger),
		storage.NewHTTPSource(app.config.Storage.FetchTimeout, app.logger),
	)

	var transcriber transcribe.Transcriber
	googleTranscriber, err := transcribe.NewGoogleTranscriber(
		context.Background(),
		app.config.Transcription.Language,
		app.config.Transcription.Timeout,
		app.logger,
	)
	if err != nil {
		app.logger.Warn("transcription unavailable, scores will be acoustic-only", logging.Fields{
			"reason": err.Error(),
		})
	} else {
		transcriber = googleTranscriber
	}

	fluency := stutter.NewAnalyzer(
		app.config.Stutter.Endpoint,
		app.config.Stutter.Model,
		os.Getenv(app.config.Stutter.APIKeyEnv),
		app.config.Stutter.Timeout,
		app.logger,
	)

	opts := scoring.Options{
		SegmentWidth:  app.config.Audio.SegmentDuration,
		IdealSpeedWPM: app.config.Scoring.IdealSpeedWPM,
		EnergyCeiling: app.config.Scoring.EnergyCeiling,
		Acoustic: acoustic.Config{
			FrameSize:   app.config.Audio.FrameSize,
			HopSize:     app.config.Audio.HopSize,
			FormantStep: app.config.Audio.FormantStep,
		},
	}

	return scoring.NewPipeline(source, transcriber, fluency, opts, app.logger)
}

// RunScore analyzes one recording and writes the scoring result
func (app *App) RunScore(ctx context.Context, audioRef string) error {
	record, err := app.pipeline.Score(ctx, audioRef, app.ctx.Language)
	if err != nil {
		return fmt.Errorf("scoring failed: %w", err)
	}

	if err := app.outputResults(record); err != nil {
		return fmt.Errorf("failed to output results: %w", err)
	}

	if !app.ctx.Quiet {
		app.printScoreSummary(record)
	}

	return nil
}

// RunStutter runs a fluency analysis on one recording and writes the result
func (app *App) RunStutter(ctx context.Context, audioRef string) error {
	result, err := app.pipeline.ScoreStutter(ctx, audioRef, app.ctx.Language)
	if err != nil {
		return fmt.Errorf("fluency analysis failed: %w", err)
	}

	if err := app.outputResults(result); err != nil {
		return fmt.Errorf("failed to output results: %w", err)
	}

	if !app.ctx.Quiet {
		app.printStutterSummary(result)
	}

	return nil
}

// RunServe starts the HTTP analysis server and blocks until shutdown
func (app *App) RunServe(ctx context.Context) error {
	server := api.NewServer(app.pipeline, app.config.Server, app.logger)
	return server.Run(ctx)
}

// setupLogging configures logging based on context
func setupLogging(ctx *Context) logging.Logger {
	return logging.NewLoggerWithLevel(resolveLogLevel(ctx))
}

// resolveLogLevel picks the effective log level. Verbose and quiet are
// explicit user intent and win over the configured level.
func resolveLogLevel(ctx *Context) string {
	if ctx.Verbose {
		return "debug"
	}
	if ctx.Quiet {
		return "error"
	}
	if ctx.LogLevel != "" {
		return ctx.LogLevel
	}
	return "info"
}

// outputResults formats the result and writes it to the output file or stdout
func (app *App) outputResults(data any) error {
	formatter := output.NewFormatter(app.ctx.OutputFormat)

	formatted, err := formatter.Format(data, app.config.Output.Pretty)
	if err != nil {
		return fmt.Errorf("failed to format output data: %w", err)
	}

	if app.ctx.OutputFile != "" {
		return app.writeToFile(formatted)
	}

	_, err = os.Stdout.Write(formatted)
	return err
}

// writeToFile writes data to the configured output file
func (app *App) writeToFile(data []byte) error {
	dir := filepath.Dir(app.ctx.OutputFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(app.ctx.OutputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	app.logger.Info("results written to file", logging.Fields{
		"output_file": app.ctx.OutputFile,
		"size_bytes":  len(data),
	})

	return nil
}

// printScoreSummary prints a human-readable summary to stderr so it never
// mixes with formatted output on stdout
func (app *App) printScoreSummary(record *scoring.ResultRecord) {
	w := os.Stderr

	fmt.Fprintf(w, "\nPUBLIC SPEAKING ANALYSIS\n")
	fmt.Fprintf(w, "========================\n")
	fmt.Fprintf(w, "Recording:   %s (%.1fs)\n", record.AudioReference, record.DurationSec)
	fmt.Fprintf(w, "Final Score: %.2f\n", record.FinalScore)
	fmt.Fprintf(w, "Confidence:  %.2f\n", record.OverallConfidence)
	fmt.Fprintf(w, "Verdict:     %s\n", record.FinalFeedback)

	if voice := record.VoiceQuality; voice != nil {
		fmt.Fprintf(w, "\nVOICE QUALITY\n")
		fmt.Fprintf(w, "=============\n")
		if voice.Error != "" {
			fmt.Fprintf(w, "ERROR: %s\n", voice.Error)
		} else {
			fmt.Fprintf(w, "Category Score:  %.2f\n", voice.Score)
			fmt.Fprintf(w, "Pitch Variation: %.2f\n", voice.VariationScore)
			fmt.Fprintf(w, "Speaking Speed:  %.0f WPM (score %.2f)\n", voice.SpeakingSpeedWPM, voice.SpeedScore)
			fmt.Fprintf(w, "Clarity:         %.2f\n", voice.ClarityScore)
			fmt.Fprintf(w, "Stability:       %.2f\n", voice.StabilityScore)
		}
	}

	if energy := record.Energy; energy != nil {
		fmt.Fprintf(w, "\nENERGY\n")
		fmt.Fprintf(w, "======\n")
		if energy.Error != "" {
			fmt.Fprintf(w, "ERROR: %s\n", energy.Error)
		} else {
			fmt.Fprintf(w, "Category Score:  %.2f\n", energy.Score)
			fmt.Fprintf(w, "Intensity:       %.2f\n", energy.IntensityScore)
			fmt.Fprintf(w, "Energy:          %.2f\n", energy.EnergyScore)
			fmt.Fprintf(w, "Dynamics:        %.2f\n", energy.VariationScore)
		}
	}

	fmt.Fprintf(w, "\n")
}

// printStutterSummary prints a human-readable fluency summary to stderr
func (app *App) printStutterSummary(result *scoring.StutterResult) {
	w := os.Stderr

	fmt.Fprintf(w, "\nFLUENCY ANALYSIS\n")
	fmt.Fprintf(w, "================\n")
	fmt.Fprintf(w, "Recording:     %s\n", result.AudioReference)

	if fluency := result.Fluency; fluency != nil {
		fmt.Fprintf(w, "Language:      %s\n", fluency.Language)
		fmt.Fprintf(w, "Fluency Score: %.2f\n", fluency.FluencyScore)
		fmt.Fprintf(w, "Stutters:      %d\n", fluency.StutterCount)
		fmt.Fprintf(w, "Cluttering:    %t\n", fluency.ClutteringDetected)
		for _, word := range fluency.StutteredWords {
			fmt.Fprintf(w, "  - %s (%s)\n", word.Word, word.Type)
		}
	}

	fmt.Fprintf(w, "\n")
}
