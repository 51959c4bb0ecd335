package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"legal-assistant/internal/agents"
	"legal-assistant/internal/helper"
	"legal-assistant/internal/models"
)

// QueryProcessor is the retrieval half of the pipeline.
type QueryProcessor interface {
	Process(ctx context.Context, query string) (*agents.RetrievalContext, error)
}

// SummaryProcessor is the generation half of the pipeline.
type SummaryProcessor interface {
	Summarize(ctx context.Context, query string, rc *agents.RetrievalContext) (models.LegalResponse, error)
}

// Server wires the two agents behind the HTTP API. Either agent may be
// nil when its initialization failed; health reports that and the query
// endpoint refuses to serve.
type Server struct {
	queryAgent   QueryProcessor
	summaryAgent SummaryProcessor
}

func New(queryAgent QueryProcessor, summaryAgent SummaryProcessor) *Server {
	return &Server{queryAgent: queryAgent, summaryAgent: summaryAgent}
}

// Router builds the HTTP handler with request-id and logging middleware.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/process-query", s.handleProcessQuery)
	return requestLogger(mux)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		_ = writeJSON(w, http.StatusNotFound, Envelope{Status: "error", Message: "not found"})
		return
	}
	_ = writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Legal Assistant API is running",
	})
}

type healthResponse struct {
	Status string          `json:"status"`
	Agents map[string]bool `json:"agents"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	agentsUp := map[string]bool{
		"query_agent":   s.queryAgent != nil,
		"summary_agent": s.summaryAgent != nil,
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !agentsUp["query_agent"] || !agentsUp["summary_agent"] {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	_ = writeJSON(w, httpStatus, healthResponse{Status: status, Agents: agentsUp})
}

type queryRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleProcessQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		_ = writeFailure(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.queryAgent == nil || s.summaryAgent == nil {
		_ = writeFailure(w, http.StatusServiceUnavailable, "service not ready")
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = writeFailure(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		_ = writeFailure(w, http.StatusBadRequest, "query is required")
		return
	}

	rc, err := s.queryAgent.Process(r.Context(), req.Query)
	if err != nil {
		log.Error().Err(err).Msg("Error retrieving documents")
		_ = writeFailure(w, http.StatusInternalServerError,
			"An error occurred while processing your query. Please try again.")
		return
	}

	resp, err := s.summaryAgent.Summarize(r.Context(), req.Query, rc)
	if err != nil {
		log.Error().Err(err).Msg("Error summarizing documents")
		_ = writeFailure(w, http.StatusInternalServerError,
			"An error occurred while processing your query. Please try again.")
		return
	}

	_ = writeSuccess(w, resp)
}

// requestLogger tags every request with an id and logs method, path,
// status and duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID, _ := helper.GenerateUUID()

		logger := log.With().Str("request_id", requestID).Logger()
		r = r.WithContext(logger.WithContext(r.Context()))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
