// Package stutter rates speech fluency by sending a transcript to a
// generative language model trained on pathology-style annotation and
// parsing its structured verdict.
package stutter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/saymore/speech-analysis/pkg/logging"
)

const systemPrompt = `You are a certified speech-language pathologist reviewing a transcript of spoken audio.
Identify stuttering patterns: sound repetitions, syllable repetitions, word repetitions, prolongations and blocks.
Also judge whether the overall delivery shows cluttering (rapid, disorganized speech).
Respond with ONLY a JSON object, no prose, using exactly these keys:
{"language": "<ISO language name>", "stutter_count": <int>, "stuttered_words": [{"word": "<word>", "type": "<repetition|prolongation|block>"}], "cluttering_detected": <bool>, "fluency_score": <0-100>, "confidence_score": <0-100>}`

// StutteredWord is one disfluent token with its classified stutter type
type StutteredWord struct {
	Word string `json:"word"`
	Type string `json:"type"`
}

// Record is the model's fluency verdict for one transcript
type Record struct {
	Language           string          `json:"language"`
	StutterCount       int             `json:"stutter_count"`
	StutteredWords     []StutteredWord `json:"stuttered_words"`
	ClutteringDetected bool            `json:"cluttering_detected"`
	FluencyScore       float64         `json:"fluency_score"`
	ConfidenceScore    float64         `json:"confidence_score"`
}

// Analyzer submits transcripts for fluency assessment
type Analyzer struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
	logger   logging.Logger
}

// NewAnalyzer creates a fluency analyzer against a generateContent-style
// endpoint
func NewAnalyzer(endpoint, model, apiKey string, timeout time.Duration, logger logging.Logger) *Analyzer {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Analyzer{
		endpoint: strings.TrimRight(endpoint, "/"),
		model:    model,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
		logger: logger.WithFields(logging.Fields{
			"component": "stutter_analyzer",
		}),
	}
}

type generateRequest struct {
	SystemInstruction *content  `json:"system_instruction,omitempty"`
	Contents          []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Analyze sends the transcript for assessment and parses the structured
// verdict. An empty transcript short-circuits to a perfect fluency record;
// there is nothing to stutter in.
func (a *Analyzer) Analyze(ctx context.Context, transcript string) (*Record, error) {
	if strings.TrimSpace(transcript) == "" {
		return &Record{
			StutterCount:    0,
			StutteredWords:  []StutteredWord{},
			FluencyScore:    100,
			ConfidenceScore: 100,
		}, nil
	}

	body, err := json.Marshal(generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: systemPrompt}}},
		Contents:          []content{{Parts: []part{{Text: transcript}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent", a.endpoint, a.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fluency request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fluency endpoint returned status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response envelope: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("fluency response contained no candidates")
	}

	record, err := parseVerdict(parsed.Candidates[0].Content.Parts[0].Text)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("fluency assessed", logging.Fields{
		"stutter_count": record.StutterCount,
		"fluency_score": record.FluencyScore,
	})

	return record, nil
}

// parseVerdict unmarshals the model's JSON verdict, tolerating a markdown
// code fence around it
func parseVerdict(text string) (*Record, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}

	var record Record
	if err := json.Unmarshal([]byte(text), &record); err != nil {
		return nil, fmt.Errorf("failed to parse fluency verdict: %w", err)
	}
	if record.StutteredWords == nil {
		record.StutteredWords = []StutteredWord{}
	}
	return &record, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
