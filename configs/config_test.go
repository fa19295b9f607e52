package configs

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadDefaultConfig(t *testing.T) *Config {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	config, err := LoadConfig()
	require.NoError(t, err)
	return config
}

func TestDefaultsProduceValidConfig(t *testing.T) {
	config := loadDefaultConfig(t)
	require.NoError(t, config.Validate())

	assert.Equal(t, 2.0, config.Audio.SegmentDuration)
	assert.Equal(t, 1024, config.Audio.FrameSize)
	assert.Equal(t, 256, config.Audio.HopSize)
	assert.Equal(t, 130.0, config.Scoring.IdealSpeedWPM)
	assert.Equal(t, 250.0, config.Scoring.EnergyCeiling)
	assert.Equal(t, "google", config.Transcription.Provider)
	assert.Equal(t, "en-US", config.Transcription.Language)
	assert.Equal(t, 90*time.Second, config.Transcription.Timeout)
	assert.Equal(t, ":8080", config.Server.Address)
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero segment duration", func(c *Config) { c.Audio.SegmentDuration = 0 }},
		{"negative formant step", func(c *Config) { c.Audio.FormantStep = -0.01 }},
		{"zero frame size", func(c *Config) { c.Audio.FrameSize = 0 }},
		{"zero ideal speed", func(c *Config) { c.Scoring.IdealSpeedWPM = 0 }},
		{"zero energy ceiling", func(c *Config) { c.Scoring.EnergyCeiling = 0 }},
		{"zero transcription timeout", func(c *Config) { c.Transcription.Timeout = 0 }},
		{"negative precision", func(c *Config) { c.Output.Precision = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := loadDefaultConfig(t)
			tt.mutate(config)
			assert.Error(t, config.Validate())
		})
	}
}

func TestEnvironmentOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("SAYMORE_SCORING_IDEAL_SPEED_WPM", "150")
	viper.SetEnvPrefix("SAYMORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
	SetDefaults()

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 150.0, config.Scoring.IdealSpeedWPM)
}
