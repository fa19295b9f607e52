package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/saymore/speech-analysis/pkg/logging"
)

// LocalSource resolves references as paths under a root directory
type LocalSource struct {
	root   string
	logger logging.Logger
}

// NewLocalSource creates a source rooted at the given directory
func NewLocalSource(root string, logger logging.Logger) *LocalSource {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &LocalSource{
		root: root,
		logger: logger.WithFields(logging.Fields{
			"component": "local_source",
		}),
	}
}

// Fetch reads and decodes a WAV file under the source root
func (s *LocalSource) Fetch(ctx context.Context, ref string) (*Clip, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewSourceError(ErrCodeTimeout, ref, "fetch canceled", err)
	}

	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.root, ref)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewSourceError(ErrCodeNotFound, ref, "audio file not found", err)
		}
		return nil, NewSourceError(ErrCodeIO, ref, "failed to read audio file", err)
	}

	clip, err := DecodeWAV(data)
	if err != nil {
		return nil, NewSourceError(ErrCodeDecodeFailed, ref, "failed to decode audio", err)
	}

	s.logger.Debug("audio fetched", logging.Fields{
		"ref":         ref,
		"sample_rate": clip.SampleRate,
		"duration":    clip.Duration(),
	})

	return clip, nil
}

// HTTPSource downloads references given as http(s) URLs
type HTTPSource struct {
	client *http.Client
	logger logging.Logger
}

// NewHTTPSource creates a source that downloads audio over HTTP with the
// given per-fetch timeout
func NewHTTPSource(timeout time.Duration, logger logging.Logger) *HTTPSource {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &HTTPSource{
		client: &http.Client{Timeout: timeout},
		logger: logger.WithFields(logging.Fields{
			"component": "http_source",
		}),
	}
}

// Fetch downloads and decodes a WAV resource
func (s *HTTPSource) Fetch(ctx context.Context, ref string) (*Clip, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, NewSourceError(ErrCodeIO, ref, "invalid audio URL", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, NewSourceError(ErrCodeIO, ref, "failed to download audio", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, NewSourceError(ErrCodeNotFound, ref, "audio resource not found", nil)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, NewSourceError(ErrCodeIO, ref, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewSourceError(ErrCodeIO, ref, "failed to read response body", err)
	}

	clip, err := DecodeWAV(data)
	if err != nil {
		return nil, NewSourceError(ErrCodeDecodeFailed, ref, "failed to decode audio", err)
	}

	s.logger.Debug("audio downloaded", logging.Fields{
		"ref":         ref,
		"bytes":       len(data),
		"sample_rate": clip.SampleRate,
	})

	return clip, nil
}

// ResolveSource picks the source matching a reference shape: URLs go to the
// HTTP source, everything else to the local one.
func ResolveSource(ref string, local *LocalSource, remote *HTTPSource) Source {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return remote
	}
	return local
}

// RoutingSource dispatches each fetch to the local or HTTP source by the
// shape of the reference
type RoutingSource struct {
	local  *LocalSource
	remote *HTTPSource
}

// NewRoutingSource creates a source that handles both path and URL
// references
func NewRoutingSource(local *LocalSource, remote *HTTPSource) *RoutingSource {
	return &RoutingSource{local: local, remote: remote}
}

// Fetch resolves the reference against the matching backend
func (s *RoutingSource) Fetch(ctx context.Context, ref string) (*Clip, error) {
	return ResolveSource(ref, s.local, s.remote).Fetch(ctx, ref)
}
