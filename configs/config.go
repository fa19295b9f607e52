package configs

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose"`
	LogLevel     string `mapstructure:"log_level"`
	OutputFormat string `mapstructure:"output_format"`

	// Audio segmentation and frame analysis
	Audio AudioConfig `mapstructure:"audio"`

	// Scoring calibration constants
	Scoring ScoringConfig `mapstructure:"scoring"`

	// Transcription collaborator
	Transcription TranscriptionConfig `mapstructure:"transcription"`

	// Stutter analysis collaborator
	Stutter StutterConfig `mapstructure:"stutter"`

	// Audio source
	Storage StorageConfig `mapstructure:"storage"`

	// HTTP server
	Server ServerConfig `mapstructure:"server"`

	// Output configuration
	Output OutputConfig `mapstructure:"output"`
}

// AudioConfig contains segmentation and frame-analysis settings
type AudioConfig struct {
	// SegmentDuration is the width in seconds of the fixed analysis windows
	SegmentDuration float64 `mapstructure:"segment_duration"`
	// FormantStep is the sampling interval in seconds for formant trajectories
	FormantStep float64 `mapstructure:"formant_step"`
	// FrameSize and HopSize control the pitch-tracking analysis frames
	FrameSize int `mapstructure:"frame_size"`
	HopSize   int `mapstructure:"hop_size"`
}

// ScoringConfig contains empirical calibration constants. These are not
// physical laws; they are tunable anchors kept out of the score composers
// so they can be recalibrated without touching the formulas.
type ScoringConfig struct {
	// IdealSpeedWPM is the speaking rate that earns a full speed score
	IdealSpeedWPM float64 `mapstructure:"ideal_speed_wpm"`
	// EnergyCeiling is the assumed maximum of the log-energy scale
	EnergyCeiling float64 `mapstructure:"energy_ceiling"`
}

// TranscriptionConfig contains speech-to-text settings
type TranscriptionConfig struct {
	Provider string        `mapstructure:"provider"`
	Language string        `mapstructure:"language"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// StutterConfig contains settings for the hosted stutter-analysis model
type StutterConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Model    string `mapstructure:"model"`
	// APIKeyEnv names the environment variable holding the API key,
	// so credentials never live in config files
	APIKeyEnv string        `mapstructure:"api_key_env"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// StorageConfig contains audio source settings
type StorageConfig struct {
	// Root is the directory resolved against for local file references
	Root string `mapstructure:"root"`
	// FetchTimeout bounds HTTP audio fetches
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	Precision int  `mapstructure:"precision"`
	Pretty    bool `mapstructure:"pretty"`
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	config := &Config{}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Audio.SegmentDuration <= 0 {
		return fmt.Errorf("audio segment duration must be positive")
	}

	if c.Audio.FormantStep <= 0 {
		return fmt.Errorf("formant step must be positive")
	}

	if c.Audio.FrameSize <= 0 || c.Audio.HopSize <= 0 {
		return fmt.Errorf("frame size and hop size must be positive")
	}

	if c.Scoring.IdealSpeedWPM <= 0 {
		return fmt.Errorf("ideal speaking speed must be positive")
	}

	if c.Scoring.EnergyCeiling <= 0 {
		return fmt.Errorf("energy ceiling must be positive")
	}

	if c.Transcription.Timeout <= 0 {
		return fmt.Errorf("transcription timeout must be positive")
	}

	if c.Output.Precision < 0 {
		return fmt.Errorf("output precision cannot be negative")
	}

	return nil
}
