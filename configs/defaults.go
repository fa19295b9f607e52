package configs

import (
	"github.com/spf13/viper"
)

// SetDefaults registers default configuration values with viper
func SetDefaults() {
	// Application defaults
	viper.SetDefault("verbose", false)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("output_format", "json")

	// Audio analysis defaults
	viper.SetDefault("audio.segment_duration", 2.0)
	viper.SetDefault("audio.formant_step", 0.01)
	viper.SetDefault("audio.frame_size", 1024)
	viper.SetDefault("audio.hop_size", 256)

	// Scoring calibration defaults. Empirical anchors, subject to
	// recalibration against rated recordings.
	viper.SetDefault("scoring.ideal_speed_wpm", 130.0)
	viper.SetDefault("scoring.energy_ceiling", 250.0)

	// Transcription defaults
	viper.SetDefault("transcription.provider", "google")
	viper.SetDefault("transcription.language", "en-US")
	viper.SetDefault("transcription.timeout", "90s")

	// Stutter analysis defaults
	viper.SetDefault("stutter.endpoint", "https://generativelanguage.googleapis.com/v1beta/models")
	viper.SetDefault("stutter.model", "gemini-2.0-flash")
	viper.SetDefault("stutter.api_key_env", "SAYMORE_LLM_API_KEY")
	viper.SetDefault("stutter.timeout", "30s")

	// Storage defaults
	viper.SetDefault("storage.root", ".")
	viper.SetDefault("storage.fetch_timeout", "30s")

	// Server defaults
	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "5m")

	// Output defaults
	viper.SetDefault("output.precision", 2)
	viper.SetDefault("output.pretty", true)
}
