// Package chi exposes the classifier over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchintent/internal/domain/intent/filter"
	"github.com/kailas-cloud/searchintent/internal/domain/intent/query"
	"github.com/kailas-cloud/searchintent/internal/domain/intent/result"
	"github.com/kailas-cloud/searchintent/internal/domain/slug"
	logpkg "github.com/kailas-cloud/searchintent/internal/logger"
	"github.com/kailas-cloud/searchintent/internal/version"
	classifyuc "github.com/kailas-cloud/searchintent/internal/usecase/classify"
	healthuc "github.com/kailas-cloud/searchintent/internal/usecase/health"
)

// maxBodyBytes caps the classify request body; longer queries are invalid anyway.
const maxBodyBytes = 2 * query.MaxQueryLength

// Server serves the classification API.
type Server struct {
	classifier *classifyuc.Service
	health     *healthuc.Service
	logger     *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(classifier *classifyuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	return &Server{classifier: classifier, health: health, logger: logger}
}

// Register mounts every route on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/api/search/classify", s.ClassifyQuery)
	r.Post("/api/search/classify", s.ClassifyBody)
	r.Get("/api/slugs/{slug}", s.DescribeSlug)
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())
}

// ClassifyQuery handles GET /api/search/classify?q=...&filter=...
func (s *Server) ClassifyQuery(w http.ResponseWriter, r *http.Request) {
	var text, f string
	params := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "q", params, &text); err != nil {
		logpkg.FromContext(r.Context()).Debug("Unreadable q parameter", zap.Error(err))
	}
	if err := runtime.BindQueryParameter("form", true, false, "filter", params, &f); err != nil {
		logpkg.FromContext(r.Context()).Debug("Unreadable filter parameter", zap.Error(err))
	}
	s.classify(w, r, text, f)
}

// ClassifyBody handles POST /api/search/classify.
// A body that cannot be decoded classifies as empty input.
func (s *Server) ClassifyBody(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		logpkg.FromContext(r.Context()).Debug("Malformed classify body", zap.Error(err))
		req = ClassifyRequest{}
	}
	s.classify(w, r, req.Query, req.Filter)
}

// classify always answers 200: invalid input and internal failures
// resolve to the search fallback.
func (s *Server) classify(w http.ResponseWriter, r *http.Request, text, f string) {
	log := logpkg.FromContext(r.Context())

	defer func() {
		if rvr := recover(); rvr != nil {
			log.Error("Classifier panic, serving fallback", zap.Any("panic", rvr), zap.Stack("stacktrace"))
			writeJSON(w, http.StatusOK, resultToResponse(result.Fallback()))
		}
	}()

	q, err := query.New(text, filter.Filter(f))
	if err != nil {
		log.Debug("Invalid classify input, serving fallback", zap.Error(err))
		writeJSON(w, http.StatusOK, resultToResponse(result.Fallback()))
		return
	}

	res := s.classifier.Classify(r.Context(), q)
	writeJSON(w, http.StatusOK, resultToResponse(res))
}

// DescribeSlug handles GET /api/slugs/{slug}.
func (s *Server) DescribeSlug(w http.ResponseWriter, r *http.Request) {
	var value string
	if err := runtime.BindStyledParameterWithOptions("simple", "slug", chi.URLParam(r, "slug"), &value,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true},
	); err != nil || !slug.Valid(value) {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "slug must be lowercase words joined by hyphens")
		return
	}

	m := s.classifier.Mapping()
	resp := SlugResponse{Slug: value, IsRepair: slug.IsRepairSlug(value)}
	if resp.IsRepair {
		resp.RepairSlug = value
		resp.CategorySlug = m.RepairSlugToCategorySlug(value)
	} else {
		resp.CategorySlug = value
		resp.RepairSlug = m.CategorySlugToRepairSlug(value)
	}
	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:  string(report.Status),
		Version: version.Version,
		Checks:  checks,
	})
}

func resultToResponse(res result.Result) ClassifyResponse {
	return ClassifyResponse{
		Type:        string(res.Type()),
		URL:         res.URL(),
		MatchedName: res.MatchedName(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
