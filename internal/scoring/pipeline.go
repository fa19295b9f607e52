package scoring

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/saymore/speech-analysis/internal/storage"
	"github.com/saymore/speech-analysis/internal/stutter"
	"github.com/saymore/speech-analysis/internal/transcribe"
	"github.com/saymore/speech-analysis/pkg/audio/acoustic"
	"github.com/saymore/speech-analysis/pkg/audio/extractors"
	"github.com/saymore/speech-analysis/pkg/logging"
)

// AcousticAnalyzer is the frame-level measurement surface the pipeline
// needs from the signal layer
type AcousticAnalyzer interface {
	PitchTrack(samples []float64) acoustic.FrameSeries
	Formants(samples []float64) (acoustic.FrameSeries, acoustic.FrameSeries)
	RMSTrack(samples []float64) acoustic.FrameSeries
	VoiceQuality(segmentSamples []float64) (jitter, shimmer, hnr float64)
}

// AnalyzerFactory builds an acoustic analyzer for a clip's sample rate
type AnalyzerFactory func(sampleRate int) AcousticAnalyzer

// FluencyAnalyzer assesses stuttering from a transcript
type FluencyAnalyzer interface {
	Analyze(ctx context.Context, transcript string) (*stutter.Record, error)
}

// Options tunes the analysis and calibration parameters of a pipeline
type Options struct {
	// SegmentWidth is the analysis window width in seconds
	SegmentWidth float64
	// IdealSpeedWPM anchors the speaking speed score
	IdealSpeedWPM float64
	// EnergyCeiling anchors the energy score's 100-point mark
	EnergyCeiling float64
	// Acoustic controls frame-level analysis granularity
	Acoustic acoustic.Config
}

// DefaultOptions returns the calibration used when none is configured
func DefaultOptions() Options {
	return Options{
		SegmentWidth:  2.0,
		IdealSpeedWPM: 130.0,
		EnergyCeiling: 250.0,
		Acoustic:      acoustic.DefaultConfig(),
	}
}

// Pipeline runs the full analysis for one audio reference: fetch, then
// transcription and acoustic extraction concurrently, then score
// composition. Pipelines are safe for concurrent use.
type Pipeline struct {
	source      storage.Source
	transcriber transcribe.Transcriber
	fluency     FluencyAnalyzer
	newAnalyzer AnalyzerFactory
	opts        Options
	logger      logging.Logger
}

// NewPipeline assembles a pipeline from its collaborators. The transcriber
// and fluency analyzer may be nil; scoring then degrades to acoustic-only
// metrics and ScoreStutter reports an error.
func NewPipeline(source storage.Source, transcriber transcribe.Transcriber, fluency FluencyAnalyzer, opts Options, logger logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	defaults := DefaultOptions()
	if opts.SegmentWidth <= 0 {
		opts.SegmentWidth = defaults.SegmentWidth
	}
	if opts.IdealSpeedWPM <= 0 {
		opts.IdealSpeedWPM = defaults.IdealSpeedWPM
	}
	if opts.EnergyCeiling <= 0 {
		opts.EnergyCeiling = defaults.EnergyCeiling
	}
	if opts.Acoustic.FrameSize <= 0 || opts.Acoustic.HopSize <= 0 || opts.Acoustic.FormantStep <= 0 {
		opts.Acoustic = defaults.Acoustic
	}

	p := &Pipeline{
		source:      source,
		transcriber: transcriber,
		fluency:     fluency,
		opts:        opts,
		logger: logger.WithFields(logging.Fields{
			"component": "scoring_pipeline",
		}),
	}
	p.newAnalyzer = func(sampleRate int) AcousticAnalyzer {
		return acoustic.NewAnalyzer(sampleRate, opts.Acoustic, logger)
	}
	return p
}

// WithAnalyzerFactory overrides how acoustic analyzers are built
func (p *Pipeline) WithAnalyzerFactory(factory AnalyzerFactory) *Pipeline {
	p.newAnalyzer = factory
	return p
}

// acousticFeatures carries everything the extraction stage measured
type acousticFeatures struct {
	pitch    *extractors.PitchResult
	pitchErr error

	quality *extractors.VoiceQualityResult
	clarity float64

	loudness    *extractors.LoudnessResult
	loudnessErr error
}

// Score analyzes one audio reference end to end. A fetch failure is fatal;
// transcription and per-category extraction failures degrade the result
// instead of aborting it.
func (p *Pipeline) Score(ctx context.Context, ref, languageHint string) (record *ResultRecord, err error) {
	// The DSP layer operates on unvalidated audio; a malformed clip must
	// surface as an error on this one analysis, not take down the server.
	// The panic detail goes to the log only; callers get a generic error.
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error(fmt.Errorf("%v", r), "analysis panicked", logging.Fields{
				"audio_ref": ref,
			})
			record = nil
			err = fmt.Errorf("internal error analyzing %q", ref)
		}
	}()

	clip, err := p.source.Fetch(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("audio fetch failed: %w", err)
	}

	record = &ResultRecord{
		ID:             uuid.NewString(),
		AudioReference: ref,
		DurationSec:    round2(clip.Duration()),
		Transcription:  []transcribe.Segment{},
	}

	var (
		features acousticFeatures
		segments []transcribe.Segment
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if p.transcriber == nil {
			return nil
		}
		result, terr := p.transcriber.Transcribe(gctx, clip, languageHint)
		if terr != nil {
			// Recoverable: scoring proceeds on acoustic evidence
			// alone with full confidence assumed.
			p.logger.Warn("transcription failed, continuing without transcript", logging.Fields{
				"audio_ref": ref,
				"reason":    terr.Error(),
			})
			return nil
		}
		segments = result
		return nil
	})

	g.Go(func() (extractErr error) {
		// This closure runs on its own goroutine, so a panic here would
		// escape the deferred recover in Score and kill the process.
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error(fmt.Errorf("%v", r), "acoustic extraction panicked", logging.Fields{
					"audio_ref": ref,
				})
				extractErr = fmt.Errorf("internal error analyzing %q", ref)
			}
		}()
		features = p.extractFeatures(clip)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if segments != nil {
		record.Transcription = segments
	}
	record.OverallConfidence = round2(transcribe.AverageConfidence(segments))

	transcript := transcribe.JoinTranscripts(segments)
	wpm := extractors.WordsPerMinute(transcript, clip.Duration())

	record.VoiceQuality = p.buildVoiceCategory(&features, wpm)
	record.Energy = p.buildEnergyCategory(&features)

	if record.Complete() {
		record.FinalScore = FinalScore(record.VoiceQuality.Score, record.Energy.Score, record.OverallConfidence)
		record.FinalFeedback = BandFeedback(record.FinalScore)
	} else if record.VoiceQuality.Error != "" {
		record.FinalFeedback = record.VoiceQuality.Error
	} else {
		record.FinalFeedback = record.Energy.Error
	}

	p.logger.Info("analysis complete", logging.Fields{
		"audio_ref":   ref,
		"analysis_id": record.ID,
		"final_score": record.FinalScore,
		"complete":    record.Complete(),
	})

	return record, nil
}

// extractFeatures runs every acoustic extractor over the clip
func (p *Pipeline) extractFeatures(clip *storage.Clip) acousticFeatures {
	analyzer := p.newAnalyzer(clip.SampleRate)
	duration := clip.Duration()

	var features acousticFeatures

	pitchExtractor := extractors.NewPitchExtractor(p.opts.SegmentWidth, p.logger)
	features.pitch, features.pitchErr = pitchExtractor.Extract(analyzer.PitchTrack(clip.Samples), duration)

	qualityExtractor := extractors.NewVoiceQualityExtractor(analyzer, p.opts.SegmentWidth, p.logger)
	features.quality = qualityExtractor.Extract(clip.Samples, clip.SampleRate)

	f1, f2 := analyzer.Formants(clip.Samples)
	features.clarity = extractors.ClarityScore(f1, f2)

	loudnessExtractor := extractors.NewLoudnessExtractor(p.opts.SegmentWidth, p.logger)
	features.loudness, features.loudnessErr = loudnessExtractor.Extract(clip.Samples, clip.SampleRate, analyzer.RMSTrack(clip.Samples))

	return features
}

func (p *Pipeline) buildVoiceCategory(features *acousticFeatures, wpm float64) *VoiceQualityCategory {
	if features.pitchErr != nil {
		return &VoiceQualityCategory{Error: features.pitchErr.Error()}
	}

	quality := features.quality
	speedScore := SpeedScore(wpm, p.opts.IdealSpeedWPM)
	stability := StabilityScore(quality.Jitter, quality.Shimmer, quality.HNR)

	category := &VoiceQualityCategory{
		MonotonyScore:  features.pitch.MonotonyScore,
		VariationScore: features.pitch.VariationScore,

		SpeakingSpeedWPM: round2(wpm),
		SpeedScore:       speedScore,

		ClarityScore: features.clarity,

		AvgJitter:      round2(quality.Jitter),
		AvgShimmer:     round2(quality.Shimmer),
		AvgHNR:         round2(quality.HNR),
		JitterScore:    NormalizeJitter(quality.Jitter),
		ShimmerScore:   NormalizeShimmer(quality.Shimmer),
		HNRScore:       NormalizeHNR(quality.HNR),
		StabilityScore: stability,

		PitchSegments:   features.pitch.Segments,
		QualitySegments: quality.Segments,
	}

	category.Score = VoiceScore(category.VariationScore, speedScore, category.ClarityScore, stability)
	category.Feedback = VoiceFeedback(category.VariationScore, speedScore, category.ClarityScore, stability)
	return category
}

func (p *Pipeline) buildEnergyCategory(features *acousticFeatures) *EnergyCategory {
	if features.loudnessErr != nil {
		return &EnergyCategory{Error: features.loudnessErr.Error()}
	}

	loudness := features.loudness
	intensityScore := IntensityScore(loudness.AvgIntensity)
	energyScore := EnergyScore(loudness.AvgEnergy, p.opts.EnergyCeiling)
	variationScore := EnergyVariationScore(loudness.IntensityStd, loudness.EnergyStd)

	category := &EnergyCategory{
		AvgIntensity:   round2(loudness.AvgIntensity),
		AvgEnergy:      round2(loudness.AvgEnergy),
		IntensityScore: intensityScore,
		EnergyScore:    energyScore,
		VariationScore: variationScore,
		Segments:       loudness.Segments,
	}

	category.Score = EnergyCategoryScore(intensityScore, energyScore, variationScore)
	category.Feedback = EnergyFeedback(intensityScore, energyScore, variationScore)
	return category
}

// ScoreStutter transcribes one audio reference and assesses its fluency.
// Unlike Score, transcription failures here are fatal: there is no verdict
// without a transcript.
func (p *Pipeline) ScoreStutter(ctx context.Context, ref, languageHint string) (*StutterResult, error) {
	if p.transcriber == nil {
		return nil, fmt.Errorf("no transcriber configured")
	}
	if p.fluency == nil {
		return nil, fmt.Errorf("no fluency analyzer configured")
	}

	clip, err := p.source.Fetch(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("audio fetch failed: %w", err)
	}

	segments, err := p.transcriber.Transcribe(ctx, clip, languageHint)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	record, err := p.fluency.Analyze(ctx, transcribe.JoinTranscripts(segments))
	if err != nil {
		return nil, fmt.Errorf("fluency analysis failed: %w", err)
	}

	if segments == nil {
		segments = []transcribe.Segment{}
	}

	return &StutterResult{
		ID:             uuid.NewString(),
		AudioReference: ref,
		Transcription:  segments,
		Fluency:        record,
	}, nil
}
