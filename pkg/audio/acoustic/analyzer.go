// Package acoustic adapts the sonido-sonar DSP algorithms to the frame and
// segment measurements the scoring extractors consume. It is the only package
// that talks to the signal-processing library directly; everything above it
// works in FrameSeries and plain scalars.
package acoustic

import (
	"math"

	"github.com/RyanBlaney/sonido-sonar/algorithms/speech"
	"github.com/RyanBlaney/sonido-sonar/algorithms/tonal"

	"github.com/saymore/speech-analysis/pkg/logging"
)

// Voiced-frame acceptance thresholds. Frames below these are treated as
// unvoiced and never reach pitch statistics.
const (
	minVoicing    = 0.5
	minConfidence = 0.5
	minPitchHz    = 50.0
	maxPitchHz    = 500.0
)

// Config controls frame-level analysis granularity
type Config struct {
	// FrameSize and HopSize are in samples and drive pitch and RMS tracking
	FrameSize int
	HopSize   int
	// FormantStep is the formant sampling interval in seconds
	FormantStep float64
}

// DefaultConfig returns the analysis granularity used when none is given
func DefaultConfig() Config {
	return Config{
		FrameSize:   1024,
		HopSize:     256,
		FormantStep: 0.01,
	}
}

// Analyzer extracts frame-level acoustic measurements from mono PCM
type Analyzer struct {
	sampleRate int
	config     Config
	logger     logging.Logger

	pitchDetector   *tonal.PitchDetector
	formantAnalyzer *speech.FormantAnalyzer
	voiceQuality    *speech.VoiceQualityAnalyzer
}

// NewAnalyzer creates an analyzer for the given sample rate
func NewAnalyzer(sampleRate int, config Config, logger logging.Logger) *Analyzer {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	if config.FrameSize <= 0 || config.HopSize <= 0 || config.FormantStep <= 0 {
		config = DefaultConfig()
	}

	return &Analyzer{
		sampleRate: sampleRate,
		config:     config,
		logger: logger.WithFields(logging.Fields{
			"component": "acoustic_analyzer",
		}),
		pitchDetector:   tonal.NewPitchDetector(sampleRate),
		formantAnalyzer: speech.NewFormantAnalyzer(sampleRate),
		voiceQuality:    speech.NewVoiceQualityAnalyzer(sampleRate),
	}
}

// SampleRate returns the sample rate this analyzer was built for
func (a *Analyzer) SampleRate() int {
	return a.sampleRate
}

// PitchTrack returns the voiced pitch frames (Hz) of the signal. Unvoiced
// and unreliable frames are excluded here so that downstream pitch
// statistics only ever see voiced data.
func (a *Analyzer) PitchTrack(samples []float64) FrameSeries {
	var track FrameSeries

	frameSize := a.config.FrameSize
	hopSize := a.config.HopSize

	for i := 0; i+frameSize <= len(samples); i += hopSize {
		frame := samples[i : i+frameSize]

		result, err := a.pitchDetector.DetectPitch(frame)
		if err != nil {
			continue
		}

		if result.Voicing <= minVoicing || result.Confidence <= minConfidence {
			continue
		}
		if result.Pitch < minPitchHz || result.Pitch > maxPitchHz {
			continue
		}

		track = append(track, Frame{
			Time:  float64(i) / float64(a.sampleRate),
			Value: result.Pitch,
		})
	}

	return track
}

// Formants returns the F1 and F2 trajectories sampled every FormantStep
// seconds. Windows where formant estimation fails are skipped.
func (a *Analyzer) Formants(samples []float64) (FrameSeries, FrameSeries) {
	var f1Track, f2Track FrameSeries

	// LPC formant estimation needs roughly a pitch period's worth of
	// context; 25 ms covers the full analysis range.
	windowSize := int(0.025 * float64(a.sampleRate))
	step := int(a.config.FormantStep * float64(a.sampleRate))
	if step <= 0 {
		step = 1
	}

	for i := 0; i+windowSize <= len(samples); i += step {
		window := samples[i : i+windowSize]

		formants, err := a.formantAnalyzer.GetFormantFrequencies(window)
		if err != nil || len(formants) < 2 {
			continue
		}

		t := float64(i) / float64(a.sampleRate)
		if formants[0] > 0 {
			f1Track = append(f1Track, Frame{Time: t, Value: formants[0]})
		}
		if formants[1] > 0 {
			f2Track = append(f2Track, Frame{Time: t, Value: formants[1]})
		}
	}

	return f1Track, f2Track
}

// VoiceQuality measures local jitter and shimmer (as fractions, not percent)
// and the mean harmonics-to-noise ratio in dB for one segment of audio.
// Segments too short or too aperiodic to measure return NaN for all three,
// which the aggregation layer skips rather than counting as zero.
func (a *Analyzer) VoiceQuality(segmentSamples []float64) (jitter, shimmer, hnr float64) {
	result, err := a.voiceQuality.AnalyzeVoiceQuality(segmentSamples)
	if err != nil {
		a.logger.Debug("voice quality unavailable for segment", logging.Fields{
			"segment_samples": len(segmentSamples),
			"reason":          err.Error(),
		})
		nan := math.NaN()
		return nan, nan, nan
	}

	// The library reports perturbation as percentages
	return result.Jitter / 100.0, result.Shimmer / 100.0, result.HNR
}

// RMSTrack returns the root-mean-square amplitude per analysis hop
func (a *Analyzer) RMSTrack(samples []float64) FrameSeries {
	var track FrameSeries

	frameSize := a.config.FrameSize
	hopSize := a.config.HopSize

	for i := 0; i < len(samples); i += hopSize {
		end := i + frameSize
		if end > len(samples) {
			end = len(samples)
		}

		sum := 0.0
		for _, s := range samples[i:end] {
			sum += s * s
		}

		track = append(track, Frame{
			Time:  float64(i) / float64(a.sampleRate),
			Value: math.Sqrt(sum / float64(end-i)),
		})
	}

	return track
}
