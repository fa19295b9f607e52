package stutter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func verdictServer(t *testing.T, verdict string, gotBody *generateRequest) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, ":generateContent")
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		if gotBody != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(gotBody))
		}

		resp := generateResponse{}
		resp.Candidates = append(resp.Candidates, struct {
			Content content `json:"content"`
		}{Content: content{Parts: []part{{Text: verdict}}}})
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestAnalyzeParsesVerdict(t *testing.T) {
	verdict := `{"language": "English", "stutter_count": 2,
		"stuttered_words": [{"word": "b-but", "type": "repetition"}, {"word": "sssso", "type": "prolongation"}],
		"cluttering_detected": false, "fluency_score": 78, "confidence_score": 91}`

	var body generateRequest
	server := verdictServer(t, verdict, &body)
	defer server.Close()

	analyzer := NewAnalyzer(server.URL, "test-model", "test-key", 5*time.Second, nil)

	record, err := analyzer.Analyze(context.Background(), "b-but I sssso wanted to")
	require.NoError(t, err)

	assert.Equal(t, "English", record.Language)
	assert.Equal(t, 2, record.StutterCount)
	require.Len(t, record.StutteredWords, 2)
	assert.Equal(t, "b-but", record.StutteredWords[0].Word)
	assert.False(t, record.ClutteringDetected)
	assert.Equal(t, 78.0, record.FluencyScore)
	assert.Equal(t, 91.0, record.ConfidenceScore)

	// The transcript travels in the user content, the rubric in the
	// system instruction
	require.NotNil(t, body.SystemInstruction)
	require.Len(t, body.Contents, 1)
	assert.Equal(t, "b-but I sssso wanted to", body.Contents[0].Parts[0].Text)
}

func TestAnalyzeToleratesMarkdownFence(t *testing.T) {
	verdict := "```json\n{\"language\": \"English\", \"stutter_count\": 0, \"stuttered_words\": [], \"cluttering_detected\": false, \"fluency_score\": 100, \"confidence_score\": 95}\n```"

	server := verdictServer(t, verdict, nil)
	defer server.Close()

	analyzer := NewAnalyzer(server.URL, "test-model", "test-key", 5*time.Second, nil)

	record, err := analyzer.Analyze(context.Background(), "clean fluent speech")
	require.NoError(t, err)
	assert.Equal(t, 0, record.StutterCount)
	assert.Equal(t, 100.0, record.FluencyScore)
}

func TestAnalyzeEmptyTranscript(t *testing.T) {
	// No HTTP server: an empty transcript must never reach the network
	analyzer := NewAnalyzer("http://127.0.0.1:0", "test-model", "test-key", time.Second, nil)

	record, err := analyzer.Analyze(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, 0, record.StutterCount)
	assert.Equal(t, 100.0, record.FluencyScore)
	assert.NotNil(t, record.StutteredWords)
}

func TestAnalyzeEndpointFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	analyzer := NewAnalyzer(server.URL, "test-model", "test-key", 5*time.Second, nil)

	_, err := analyzer.Analyze(context.Background(), "some speech")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestAnalyzeUnparseableVerdict(t *testing.T) {
	server := verdictServer(t, "I am sorry, I cannot help with that.", nil)
	defer server.Close()

	analyzer := NewAnalyzer(server.URL, "test-model", "test-key", 5*time.Second, nil)

	_, err := analyzer.Analyze(context.Background(), "some speech")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verdict")
}
