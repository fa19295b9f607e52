package scoring

import (
	"encoding/json"

	"github.com/saymore/speech-analysis/internal/stutter"
	"github.com/saymore/speech-analysis/internal/transcribe"
	"github.com/saymore/speech-analysis/pkg/audio/extractors"
)

// VoiceQualityCategory reports the voice quality scores of one analysis.
// When Error is set the whole category failed and the numeric fields are
// meaningless; it then serializes as just the error.
type VoiceQualityCategory struct {
	Error string `json:"error,omitempty"`

	Score    float64 `json:"final_voice_score"`
	Feedback string  `json:"feedback"`

	MonotonyScore  float64 `json:"monotony_score"`
	VariationScore float64 `json:"pitch_variation_score"`

	SpeakingSpeedWPM float64 `json:"speaking_speed_wpm"`
	SpeedScore       float64 `json:"speed_score"`

	ClarityScore float64 `json:"clarity_score"`

	AvgJitter      float64 `json:"avg_jitter"`
	AvgShimmer     float64 `json:"avg_shimmer"`
	AvgHNR         float64 `json:"avg_hnr"`
	JitterScore    float64 `json:"jitter_score"`
	ShimmerScore   float64 `json:"shimmer_score"`
	HNRScore       float64 `json:"hnr_score"`
	StabilityScore float64 `json:"stability_score"`

	PitchSegments   []extractors.SegmentPitchStats   `json:"pitch_per_segment,omitempty"`
	QualitySegments []extractors.SegmentVoiceQuality `json:"voice_quality_per_segment,omitempty"`
}

// MarshalJSON collapses a failed category to its error, matching the shape
// consumers expect in the error slot
func (c *VoiceQualityCategory) MarshalJSON() ([]byte, error) {
	if c.Error != "" {
		return json.Marshal(categoryError{Error: c.Error})
	}
	type category VoiceQualityCategory
	return json.Marshal((*category)(c))
}

// EnergyCategory reports the loudness and dynamics scores of one analysis
type EnergyCategory struct {
	Error string `json:"error,omitempty"`

	Score    float64 `json:"final_energy_score"`
	Feedback string  `json:"feedback"`

	AvgIntensity   float64 `json:"avg_intensity"`
	AvgEnergy      float64 `json:"avg_energy"`
	IntensityScore float64 `json:"intensity_score"`
	EnergyScore    float64 `json:"energy_score"`
	VariationScore float64 `json:"energy_variation_score"`

	Segments []extractors.SegmentLoudness `json:"loudness_per_segment,omitempty"`
}

func (c *EnergyCategory) MarshalJSON() ([]byte, error) {
	if c.Error != "" {
		return json.Marshal(categoryError{Error: c.Error})
	}
	type category EnergyCategory
	return json.Marshal((*category)(c))
}

type categoryError struct {
	Error string `json:"error"`
}

// ResultRecord is the complete verdict for one scored recording. Category
// failures appear in the category slots; the final composite is only
// present when both categories scored.
type ResultRecord struct {
	ID             string  `json:"analysis_id"`
	AudioReference string  `json:"audio_reference"`
	DurationSec    float64 `json:"duration_seconds"`

	FinalScore    float64 `json:"final_public_speaking_score"`
	FinalFeedback string  `json:"final_public_speaking_feedback"`

	OverallConfidence float64               `json:"overall_confidence"`
	Transcription     []transcribe.Segment  `json:"transcription"`
	VoiceQuality      *VoiceQualityCategory `json:"voice_quality"`
	Energy            *EnergyCategory       `json:"energy"`
}

// Complete reports whether both categories produced scores
func (r *ResultRecord) Complete() bool {
	return r.VoiceQuality != nil && r.VoiceQuality.Error == "" &&
		r.Energy != nil && r.Energy.Error == ""
}

// StutterResult is the verdict of a fluency analysis
type StutterResult struct {
	ID             string               `json:"analysis_id"`
	AudioReference string               `json:"audio_reference"`
	Transcription  []transcribe.Segment `json:"transcription"`
	Fluency        *stutter.Record      `json:"fluency"`
}
