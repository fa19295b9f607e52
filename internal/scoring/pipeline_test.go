package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/saymore/speech-analysis/internal/storage"
	"github.com/saymore/speech-analysis/internal/stutter"
	"github.com/saymore/speech-analysis/internal/transcribe"
	"github.com/saymore/speech-analysis/pkg/audio/acoustic"
)

type fakeSource struct {
	clip *storage.Clip
	err  error
}

func (s *fakeSource) Fetch(ctx context.Context, ref string) (*storage.Clip, error) {
	return s.clip, s.err
}

type fakeTranscriber struct {
	segments []transcribe.Segment
	err      error
}

func (t *fakeTranscriber) Transcribe(ctx context.Context, clip *storage.Clip, languageHint string) ([]transcribe.Segment, error) {
	return t.segments, t.err
}

type fakeFluency struct {
	record *stutter.Record
	err    error
}

func (f *fakeFluency) Analyze(ctx context.Context, transcript string) (*stutter.Record, error) {
	return f.record, f.err
}

// fakeAnalyzer returns canned measurements regardless of input
type fakeAnalyzer struct {
	pitch   acoustic.FrameSeries
	f1, f2  acoustic.FrameSeries
	rms     acoustic.FrameSeries
	jitter  float64
	shimmer float64
	hnr     float64
	panics  bool
}

func (a *fakeAnalyzer) PitchTrack(samples []float64) acoustic.FrameSeries {
	if a.panics {
		panic("frame size exceeds signal length")
	}
	return a.pitch
}

func (a *fakeAnalyzer) Formants(samples []float64) (acoustic.FrameSeries, acoustic.FrameSeries) {
	return a.f1, a.f2
}

func (a *fakeAnalyzer) RMSTrack(samples []float64) acoustic.FrameSeries {
	return a.rms
}

func (a *fakeAnalyzer) VoiceQuality(segmentSamples []float64) (float64, float64, float64) {
	return a.jitter, a.shimmer, a.hnr
}

type PipelineTestSuite struct {
	suite.Suite

	clip     *storage.Clip
	analyzer *fakeAnalyzer
}

func TestPipelineTestSuite(t *testing.T) {
	suite.Run(t, new(PipelineTestSuite))
}

func (s *PipelineTestSuite) SetupTest() {
	// Four seconds at a 100 Hz sample rate, half scale throughout
	samples := make([]float64, 400)
	for i := range samples {
		samples[i] = 0.5
	}
	s.clip = &storage.Clip{Samples: samples, SampleRate: 100}

	s.analyzer = &fakeAnalyzer{
		pitch: acoustic.FrameSeries{
			{Time: 0.5, Value: 100},
			{Time: 1.5, Value: 200},
			{Time: 2.5, Value: 100},
			{Time: 3.5, Value: 200},
		},
		f1: acoustic.FrameSeries{{Time: 0, Value: 500}, {Time: 1, Value: 500}},
		f2: acoustic.FrameSeries{{Time: 0, Value: 1500}, {Time: 1, Value: 1500}},
		rms: acoustic.FrameSeries{
			{Time: 0.5, Value: 0.5},
			{Time: 1.5, Value: 0.5},
			{Time: 2.5, Value: 0.5},
			{Time: 3.5, Value: 0.5},
		},
		jitter:  0.01,
		shimmer: 0.05,
		hnr:     20,
	}
}

func (s *PipelineTestSuite) newPipeline(source storage.Source, transcriber transcribe.Transcriber, fluency FluencyAnalyzer) *Pipeline {
	p := NewPipeline(source, transcriber, fluency, DefaultOptions(), nil)
	return p.WithAnalyzerFactory(func(sampleRate int) AcousticAnalyzer {
		return s.analyzer
	})
}

func (s *PipelineTestSuite) TestScoreCompleteAnalysis() {
	transcriber := &fakeTranscriber{segments: []transcribe.Segment{
		{Transcript: "hello there world", Confidence: 90},
		{Transcript: "how are you", Confidence: 80},
	}}
	pipeline := s.newPipeline(&fakeSource{clip: s.clip}, transcriber, nil)

	record, err := pipeline.Score(context.Background(), "talk.wav", "")
	s.Require().NoError(err)
	s.Require().True(record.Complete())

	s.NotEmpty(record.ID)
	s.Equal("talk.wav", record.AudioReference)
	s.InDelta(4.0, record.DurationSec, 1e-9)
	s.InDelta(85.0, record.OverallConfidence, 1e-9)
	s.Len(record.Transcription, 2)

	voice := record.VoiceQuality
	s.Require().NotNil(voice)
	s.Empty(voice.Error)

	// Alternating octaves: half variation, half monotony
	s.InDelta(50.0, voice.MonotonyScore, 0.01)
	s.InDelta(50.0, voice.VariationScore, 0.01)

	// 6 words over 4 seconds is 90 WPM, 40 under the ideal pace
	s.InDelta(90.0, voice.SpeakingSpeedWPM, 1e-9)
	s.InDelta(60.0, voice.SpeedScore, 1e-9)

	// Steady canned formants are perfectly clear
	s.Equal(100.0, voice.ClarityScore)

	s.InDelta(0.01, voice.AvgJitter, 1e-9)
	s.Equal(NormalizeJitter(0.01), voice.JitterScore)
	s.Equal(StabilityScore(0.01, 0.05, 20), voice.StabilityScore)
	s.Equal(VoiceScore(voice.VariationScore, voice.SpeedScore, voice.ClarityScore, voice.StabilityScore), voice.Score)

	energy := record.Energy
	s.Require().NotNil(energy)
	s.Empty(energy.Error)
	s.InDelta(100.0, energy.AvgIntensity, 1e-6)
	s.Equal(IntensityScore(energy.AvgIntensity), energy.IntensityScore)
	s.Equal(EnergyCategoryScore(energy.IntensityScore, energy.EnergyScore, energy.VariationScore), energy.Score)

	s.Equal(FinalScore(voice.Score, energy.Score, record.OverallConfidence), record.FinalScore)
	s.Equal(BandFeedback(record.FinalScore), record.FinalFeedback)
	s.Len(voice.PitchSegments, 2)
	s.Len(energy.Segments, 2)
}

func (s *PipelineTestSuite) TestScoreFetchFailureIsFatal() {
	source := &fakeSource{err: storage.NewSourceError(storage.ErrCodeNotFound, "gone.wav", "audio file not found", nil)}
	pipeline := s.newPipeline(source, &fakeTranscriber{}, nil)

	record, err := pipeline.Score(context.Background(), "gone.wav", "")
	s.Require().Error(err)
	s.Nil(record)

	sourceErr, ok := storage.AsSourceError(err)
	s.Require().True(ok)
	s.Equal(storage.ErrCodeNotFound, sourceErr.Code)
}

func (s *PipelineTestSuite) TestScoreTranscriptionFailureDegrades() {
	transcriber := &fakeTranscriber{err: errors.New("quota exhausted")}
	pipeline := s.newPipeline(&fakeSource{clip: s.clip}, transcriber, nil)

	record, err := pipeline.Score(context.Background(), "talk.wav", "")
	s.Require().NoError(err)
	s.Require().True(record.Complete())

	// No transcript means full assumed confidence and zero speaking speed
	s.Equal(100.0, record.OverallConfidence)
	s.Empty(record.Transcription)
	s.Equal(0.0, record.VoiceQuality.SpeakingSpeedWPM)
	s.Equal(0.0, record.VoiceQuality.SpeedScore)
}

func (s *PipelineTestSuite) TestScoreNoVoicedPitch() {
	s.analyzer.pitch = nil
	pipeline := s.newPipeline(&fakeSource{clip: s.clip}, &fakeTranscriber{}, nil)

	record, err := pipeline.Score(context.Background(), "silence.wav", "")
	s.Require().NoError(err)
	s.Require().False(record.Complete())

	s.Equal("No voiced pitch detected.", record.VoiceQuality.Error)
	s.Equal("No voiced pitch detected.", record.FinalFeedback)
	s.Equal(0.0, record.FinalScore)

	// The energy category still scores on its own
	s.Require().NotNil(record.Energy)
	s.Empty(record.Energy.Error)
	s.Greater(record.Energy.Score, 0.0)
}

func (s *PipelineTestSuite) TestScoreRecoversFromPanic() {
	// The panicking path runs inside the concurrent extraction stage, so
	// recovery must happen on that goroutine for the process to survive.
	s.analyzer.panics = true
	pipeline := s.newPipeline(&fakeSource{clip: s.clip}, &fakeTranscriber{}, nil)

	record, err := pipeline.Score(context.Background(), "corrupt.wav", "")
	s.Require().Error(err)
	s.Nil(record)
	s.Contains(err.Error(), "corrupt.wav")

	// The panic detail is logged, never surfaced to the caller
	s.NotContains(err.Error(), "frame size")
	s.Contains(err.Error(), "internal error")
}

func (s *PipelineTestSuite) TestScoreSurvivesRepeatedPanics() {
	// A long-lived server scores many recordings; one poisoned clip must
	// not affect the next analysis.
	s.analyzer.panics = true
	pipeline := s.newPipeline(&fakeSource{clip: s.clip}, &fakeTranscriber{}, nil)

	_, err := pipeline.Score(context.Background(), "corrupt.wav", "")
	s.Require().Error(err)

	s.analyzer.panics = false
	record, err := pipeline.Score(context.Background(), "talk.wav", "")
	s.Require().NoError(err)
	s.True(record.Complete())
}

func (s *PipelineTestSuite) TestNewPipelineDefaultsOnlyZeroOptions() {
	opts := Options{
		EnergyCeiling: 500,
		Acoustic:      acoustic.Config{FrameSize: 2048, HopSize: 512, FormantStep: 0.02},
	}
	pipeline := NewPipeline(&fakeSource{clip: s.clip}, nil, nil, opts, nil)

	// Unset fields pick up defaults, caller-provided values survive
	s.Equal(2.0, pipeline.opts.SegmentWidth)
	s.Equal(130.0, pipeline.opts.IdealSpeedWPM)
	s.Equal(500.0, pipeline.opts.EnergyCeiling)
	s.Equal(2048, pipeline.opts.Acoustic.FrameSize)
}

func (s *PipelineTestSuite) TestScoreStutter() {
	transcriber := &fakeTranscriber{segments: []transcribe.Segment{
		{Transcript: "b-but I wanted to", Confidence: 92},
	}}
	fluency := &fakeFluency{record: &stutter.Record{
		Language:     "English",
		StutterCount: 1,
		FluencyScore: 85,
	}}
	pipeline := s.newPipeline(&fakeSource{clip: s.clip}, transcriber, fluency)

	result, err := pipeline.ScoreStutter(context.Background(), "talk.wav", "en-US")
	s.Require().NoError(err)

	s.NotEmpty(result.ID)
	s.Equal("talk.wav", result.AudioReference)
	s.Equal(1, result.Fluency.StutterCount)
	s.Len(result.Transcription, 1)
}

func (s *PipelineTestSuite) TestScoreStutterTranscriptionFailureIsFatal() {
	transcriber := &fakeTranscriber{err: errors.New("quota exhausted")}
	pipeline := s.newPipeline(&fakeSource{clip: s.clip}, transcriber, &fakeFluency{record: &stutter.Record{}})

	_, err := pipeline.ScoreStutter(context.Background(), "talk.wav", "")
	s.Require().Error(err)
	s.Contains(err.Error(), "transcription failed")
}

func TestFailedCategorySerializesAsError(t *testing.T) {
	category := &VoiceQualityCategory{Error: "No voiced pitch detected."}

	data, err := json.Marshal(category)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error": "No voiced pitch detected."}`, string(data))
}

func TestHealthyCategorySerializesScores(t *testing.T) {
	category := &EnergyCategory{Score: 72.5, Feedback: "fine"}

	data, err := json.Marshal(category)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 72.5, decoded["final_energy_score"])
	assert.NotContains(t, decoded, "error")
}
