package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
	Flag  bool    `json:"flag"`
}

func TestNewFormatter(t *testing.T) {
	assert.IsType(t, &JSONFormatter{}, NewFormatter("json"))
	assert.IsType(t, &YAMLFormatter{}, NewFormatter("yaml"))
	assert.IsType(t, &TableFormatter{}, NewFormatter("table"))
	// Unknown formats fall back to JSON
	assert.IsType(t, &JSONFormatter{}, NewFormatter("xml"))
	assert.IsType(t, &JSONFormatter{}, NewFormatter(""))
}

func TestJSONFormatter(t *testing.T) {
	formatter := &JSONFormatter{}
	data := sample{Name: "talk", Score: 81.5, Flag: true}

	compact, err := formatter.Format(data, false)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name": "talk", "score": 81.5, "flag": true}`, string(compact))
	assert.NotContains(t, string(compact), "\n  ")

	pretty, err := formatter.Format(data, true)
	require.NoError(t, err)
	assert.JSONEq(t, string(compact), string(pretty))
	assert.Contains(t, string(pretty), "\n  ")
}

func TestYAMLFormatter(t *testing.T) {
	formatter := &YAMLFormatter{}

	out, err := formatter.Format(map[string]any{"score": 81.5}, false)
	require.NoError(t, err)
	assert.Contains(t, string(out), "score: 81.5")
}

func TestTableFormatter(t *testing.T) {
	formatter := &TableFormatter{}

	out, err := formatter.Format(sample{Name: "talk", Score: 81.5, Flag: true}, false)
	require.NoError(t, err)

	rendered := string(out)
	assert.Contains(t, rendered, "name")
	assert.Contains(t, rendered, "talk")
	assert.Contains(t, rendered, "81.50")
	assert.Contains(t, rendered, "true")
}

func TestTableFormatterRejectsNonObject(t *testing.T) {
	formatter := &TableFormatter{}

	_, err := formatter.Format([]int{1, 2, 3}, false)
	assert.Error(t, err)
}
