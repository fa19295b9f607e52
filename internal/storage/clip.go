// Package storage fetches audio references and decodes them into mono PCM
// clips the analysis pipeline can consume. A reference is either a path
// under a configured root or an http(s) URL.
package storage

import "context"

// Clip is a decoded mono recording. Samples are normalized float64 in
// [-1, 1] regardless of the source encoding.
type Clip struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the clip length in seconds
func (c *Clip) Duration() float64 {
	if c.SampleRate <= 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.SampleRate)
}

// Source resolves an audio reference into a decoded clip
type Source interface {
	Fetch(ctx context.Context, ref string) (*Clip, error)
}
