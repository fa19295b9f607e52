// Package api exposes the scoring pipeline over HTTP. One POST endpoint
// accepts analysis requests; health and metrics endpoints support
// operations.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/saymore/speech-analysis/configs"
	"github.com/saymore/speech-analysis/internal/scoring"
	"github.com/saymore/speech-analysis/internal/storage"
	"github.com/saymore/speech-analysis/pkg/logging"
)

// Scorer is the analysis surface the server fronts
type Scorer interface {
	Score(ctx context.Context, ref, languageHint string) (*scoring.ResultRecord, error)
	ScoreStutter(ctx context.Context, ref, languageHint string) (*scoring.StutterResult, error)
}

// Server serves analysis requests over HTTP
type Server struct {
	scorer     Scorer
	httpServer *http.Server
	logger     logging.Logger
}

// NewServer wires the routes and timeouts for an analysis server
func NewServer(scorer Scorer, config configs.ServerConfig, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	s := &Server{
		scorer: scorer,
		logger: logger.WithFields(logging.Fields{
			"component": "api_server",
		}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/test", s.handleTest)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:         config.Address,
		Handler:      mux,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	return s
}

// Handler exposes the route table for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until the context is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", logging.Fields{
			"address": s.httpServer.Addr,
		})
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.Info("server shutting down")
	return s.httpServer.Shutdown(shutdownCtx)
}

// testRequest is the analysis request body. TestType selects the scoring
// path; LanguageFlag is an optional BCP 47 transcription hint.
type testRequest struct {
	FileName     string `json:"file_name"`
	AccountID    string `json:"acc_id"`
	TestType     string `json:"test_type"`
	LanguageFlag string `json:"lan_flag"`
}

// resultEnvelope wraps every successful response body
type resultEnvelope struct {
	Result any `json:"result"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		s.writeError(w, "/test", http.StatusMethodNotAllowed, "only POST is supported")
		return
	}

	var req testRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "/test", http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FileName == "" {
		s.writeError(w, "/test", http.StatusBadRequest, "file_name is required")
		return
	}

	testType := req.TestType
	if testType == "" {
		testType = "speaking"
	}

	var (
		result any
		err    error
	)
	switch testType {
	case "speaking":
		result, err = s.scorer.Score(r.Context(), req.FileName, req.LanguageFlag)
	case "stutter":
		result, err = s.scorer.ScoreStutter(r.Context(), req.FileName, req.LanguageFlag)
	default:
		s.writeError(w, "/test", http.StatusBadRequest, fmt.Sprintf("unknown test_type %q", testType))
		return
	}

	if err != nil {
		analysesTotal.WithLabelValues(testType, "error").Inc()

		// The full failure detail is logged; internal errors cross the
		// wire as a fixed message so DSP and backend internals never
		// leak to callers.
		status := http.StatusInternalServerError
		message := "internal analysis error"
		if sourceErr, ok := storage.AsSourceError(err); ok && sourceErr.Code == storage.ErrCodeNotFound {
			status = http.StatusNotFound
			message = err.Error()
		}
		s.logger.Error(err, "analysis request failed", logging.Fields{
			"file_name": req.FileName,
			"test_type": testType,
		})
		s.writeError(w, "/test", status, message)
		return
	}

	analysesTotal.WithLabelValues(testType, "success").Inc()
	requestDuration.WithLabelValues("/test").Observe(time.Since(start).Seconds())
	s.writeJSON(w, "/test", http.StatusOK, resultEnvelope{Result: result})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, "/health", http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) writeJSON(w http.ResponseWriter, endpoint string, status int, body any) {
	requestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error(err, "failed to write response", logging.Fields{
			"endpoint": endpoint,
		})
	}
}

func (s *Server) writeError(w http.ResponseWriter, endpoint string, status int, message string) {
	s.writeJSON(w, endpoint, status, errorResponse{Error: message})
}
