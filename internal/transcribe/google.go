package transcribe

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"golang.org/x/text/language"

	"github.com/saymore/speech-analysis/internal/storage"
	"github.com/saymore/speech-analysis/pkg/logging"
)

// GoogleTranscriber recognizes speech with the Google Cloud Speech-to-Text
// API. Credentials come from the standard GOOGLE_APPLICATION_CREDENTIALS
// environment.
type GoogleTranscriber struct {
	client          *speech.Client
	defaultLanguage string
	timeout         time.Duration
	logger          logging.Logger
}

// NewGoogleTranscriber creates a transcriber with the given default language
// tag and per-request timeout
func NewGoogleTranscriber(ctx context.Context, defaultLanguage string, timeout time.Duration, logger logging.Logger) (*GoogleTranscriber, error) {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	client, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}

	return &GoogleTranscriber{
		client:          client,
		defaultLanguage: defaultLanguage,
		timeout:         timeout,
		logger: logger.WithFields(logging.Fields{
			"component": "google_transcriber",
		}),
	}, nil
}

// Close releases the underlying gRPC connection
func (t *GoogleTranscriber) Close() error {
	return t.client.Close()
}

// Transcribe runs synchronous recognition over the clip and returns one
// segment per recognition result, confidence scaled to 0-100
func (t *GoogleTranscriber) Transcribe(ctx context.Context, clip *storage.Clip, languageHint string) ([]Segment, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	languageCode := t.resolveLanguage(languageHint)

	resp, err := t.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz: int32(clip.SampleRate),
			LanguageCode:    languageCode,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{
				Content: encodeLinear16(clip.Samples),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("recognition request failed: %w", err)
	}

	var segments []Segment
	for _, result := range resp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		top := result.Alternatives[0]
		segments = append(segments, Segment{
			Transcript: top.Transcript,
			Confidence: float64(top.Confidence) * 100,
		})
	}

	t.logger.Debug("transcription complete", logging.Fields{
		"language": languageCode,
		"segments": len(segments),
	})

	return segments, nil
}

// resolveLanguage validates the hint as a BCP 47 tag and falls back to the
// configured default when it does not parse
func (t *GoogleTranscriber) resolveLanguage(hint string) string {
	if hint == "" {
		return t.defaultLanguage
	}

	tag, err := language.Parse(hint)
	if err != nil {
		t.logger.Warn("unparseable language hint, using default", logging.Fields{
			"hint":    hint,
			"default": t.defaultLanguage,
		})
		return t.defaultLanguage
	}
	return tag.String()
}

// encodeLinear16 converts normalized float64 samples to 16-bit signed
// little-endian PCM
func encodeLinear16(samples []float64) []byte {
	buf := make([]byte, 0, len(samples)*2)
	for _, s := range samples {
		scaled := math.Max(-1, math.Min(1, s)) * 32767
		buf = binary.LittleEndian.AppendUint16(buf, uint16(int16(scaled)))
	}
	return buf
}
