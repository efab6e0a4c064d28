package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchbridge/internal/db"
	"github.com/kailas-cloud/searchbridge/internal/domain"
	"github.com/kailas-cloud/searchbridge/internal/domain/batch"
	"github.com/kailas-cloud/searchbridge/internal/domain/schema"
	"github.com/kailas-cloud/searchbridge/internal/domain/search/request"
	logpkg "github.com/kailas-cloud/searchbridge/internal/logger"
	"github.com/kailas-cloud/searchbridge/internal/metrics"
	"github.com/kailas-cloud/searchbridge/internal/transport/api"
	"github.com/kailas-cloud/searchbridge/internal/usecase/backend"
	healthuc "github.com/kailas-cloud/searchbridge/internal/usecase/health"
)

const maxBatchSize = 1000

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the searchbridge HTTP API.
type Server struct {
	backend       *backend.Service
	health        *healthuc.Service
	logger        *zap.Logger
	defaultLimit  int
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(svc *backend.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		backend:      svc,
		health:       health,
		logger:       logger,
		defaultLimit: request.DefaultLimit,
	}
	s.errorHandlers = []errorHandler{
		compileErrorHandler,
		detailHandler(domain.ErrInvalidSchema, http.StatusBadRequest, api.CodeValidationFailed),
		detailHandler(domain.ErrInvalidRequest, http.StatusBadRequest, api.CodeValidationFailed),
		sentinelHandler(db.ErrIndexExists, http.StatusConflict, api.CodeIndexExists),
		sentinelHandler(domain.ErrEngineCommunication, http.StatusBadGateway, api.CodeEngineError),
	}
	return s
}

// WithDefaultLimit sets the page size used when a search omits the limit.
func (s *Server) WithDefaultLimit(n int) *Server {
	if n > 0 {
		s.defaultLimit = n
	}
	return s
}

// Routes builds the router with the full middleware chain.
func (s *Server) Routes(apiKeys []string) http.Handler {
	r := gochi.NewRouter()
	r.Use(JSONRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware("/metrics", "/health"))
	r.Use(limitBody)

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/indexes/{index}", func(r gochi.Router) {
		r.Put("/", s.CreateIndex)
		r.Delete("/", s.DeleteIndex)
		r.Post("/clear", s.ClearIndex)
		r.Put("/mapping", s.UpdateMapping)
		r.Post("/mapping/compile", s.CompileMapping)
		r.Post("/items", s.IndexItems)
		r.Post("/items/delete", s.DeleteItems)
		r.Post("/search", s.Search)
		r.Post("/search/compile", s.CompileSearch)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, api.CodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, api.CodeBadRequest, "method not allowed")
	})
	return r
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// CreateIndex handles PUT /indexes/{index}.
func (s *Server) CreateIndex(w http.ResponseWriter, r *http.Request) {
	idx, ok := s.schemaRequest(w, r)
	if !ok {
		return
	}

	if err := s.backend.AddIndex(r.Context(), idx); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, s.indexInfo(idx))
}

// DeleteIndex handles DELETE /indexes/{index}.
func (s *Server) DeleteIndex(w http.ResponseWriter, r *http.Request) {
	name, ok := bindIndex(w, r)
	if !ok {
		return
	}

	if err := s.backend.RemoveIndex(r.Context(), name); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ClearIndex handles POST /indexes/{index}/clear.
func (s *Server) ClearIndex(w http.ResponseWriter, r *http.Request) {
	idx, ok := s.schemaRequest(w, r)
	if !ok {
		return
	}

	if err := s.backend.ClearIndex(r.Context(), idx); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, s.indexInfo(idx))
}

// UpdateMapping handles PUT /indexes/{index}/mapping.
func (s *Server) UpdateMapping(w http.ResponseWriter, r *http.Request) {
	idx, ok := s.schemaRequest(w, r)
	if !ok {
		return
	}

	if err := s.backend.UpdateIndex(r.Context(), idx); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, s.indexInfo(idx))
}

// CompileMapping handles POST /indexes/{index}/mapping/compile.
func (s *Server) CompileMapping(w http.ResponseWriter, r *http.Request) {
	idx, ok := s.schemaRequest(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, s.backend.CompileMapping(idx))
}

// IndexItems handles POST /indexes/{index}/items. With dry_run=true the
// compiled bulk lines are returned instead of being sent.
func (s *Server) IndexItems(w http.ResponseWriter, r *http.Request) {
	name, ok := bindIndex(w, r)
	if !ok {
		return
	}

	var dryRun bool
	if err := runtime.BindQueryParameter("form", true, false, "dry_run", r.URL.Query(), &dryRun); err != nil {
		writeError(w, http.StatusBadRequest, api.CodeBadRequest,
			fmt.Sprintf("Invalid format for parameter dry_run: %s", err))
		return
	}

	var req api.IndexItems
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Items) == 0 || len(req.Items) > maxBatchSize {
		writeError(w, http.StatusBadRequest, api.CodeValidationFailed,
			fmt.Sprintf("items count must be between 1 and %d", maxBatchSize))
		return
	}

	items, err := req.ToDomain()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	if dryRun {
		writeJSON(w, http.StatusOK, api.BulkLines{
			Index: s.backend.IndexName(name),
			Lines: s.backend.CompileBulk(name, items),
		})
		return
	}

	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID()
	}
	_, err = s.backend.IndexItems(r.Context(), name, items)
	s.writeBulk(w, r, ids, err)
}

// DeleteItems handles POST /indexes/{index}/items/delete.
func (s *Server) DeleteItems(w http.ResponseWriter, r *http.Request) {
	name, ok := bindIndex(w, r)
	if !ok {
		return
	}

	var req api.DeleteItems
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.IDs) == 0 || len(req.IDs) > maxBatchSize {
		writeError(w, http.StatusBadRequest, api.CodeValidationFailed,
			fmt.Sprintf("ids count must be between 1 and %d", maxBatchSize))
		return
	}

	err := s.backend.DeleteItems(r.Context(), name, req.IDs)
	s.writeBulk(w, r, req.IDs, err)
}

// writeBulk reports per-item outcomes. A request-level failure goes through
// the error table; rejected items yield 207.
func (s *Server) writeBulk(w http.ResponseWriter, r *http.Request, ids []string, err error) {
	if err != nil && !errors.Is(err, domain.ErrPartialBulkFailure) {
		s.handleDomainError(w, r, err)
		return
	}

	resp := api.FromBatch(batch.Outcomes(ids, err))
	status := http.StatusOK
	if resp.Failed > 0 {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, resp)
}

// Search handles POST /indexes/{index}/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	idx, req, ok := s.searchRequest(w, r)
	if !ok {
		return
	}

	set, err := s.backend.Search(r.Context(), idx, req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.FromResult(set))
}

// CompileSearch handles POST /indexes/{index}/search/compile.
func (s *Server) CompileSearch(w http.ResponseWriter, r *http.Request) {
	idx, req, ok := s.searchRequest(w, r)
	if !ok {
		return
	}

	built, err := s.backend.CompileSearch(idx, req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.FromBuilt(built))
}

func (s *Server) schemaRequest(w http.ResponseWriter, r *http.Request) (schema.Index, bool) {
	name, ok := bindIndex(w, r)
	if !ok {
		return schema.Index{}, false
	}

	var req api.Schema
	if !decodeBody(w, r, &req) {
		return schema.Index{}, false
	}
	req.Name = name

	idx, err := req.ToDomain()
	if err != nil {
		s.handleDomainError(w, r, err)
		return schema.Index{}, false
	}
	return idx, true
}

func (s *Server) searchRequest(w http.ResponseWriter, r *http.Request) (schema.Index, request.Request, bool) {
	name, ok := bindIndex(w, r)
	if !ok {
		return schema.Index{}, request.Request{}, false
	}

	var req api.Search
	if !decodeBody(w, r, &req) {
		return schema.Index{}, request.Request{}, false
	}

	idx, searchReq, err := req.ToDomain(name, s.defaultLimit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return schema.Index{}, request.Request{}, false
	}
	return idx, searchReq, true
}

func (s *Server) indexInfo(idx schema.Index) api.IndexInfo {
	return api.IndexInfo{
		Name:        idx.Name(),
		EngineIndex: s.backend.IndexName(idx.Name()),
		Fields:      len(idx.Fields()),
	}
}

// bindIndex binds the {index} path parameter.
func bindIndex(w http.ResponseWriter, r *http.Request) (string, bool) {
	var index string
	err := runtime.BindStyledParameterWithOptions("simple", "index", gochi.URLParam(r, "index"), &index,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, api.CodeBadRequest,
			fmt.Sprintf("Invalid format for parameter index: %s", err))
		return "", false
	}
	if err := schema.ValidateName(index); err != nil {
		writeError(w, http.StatusBadRequest, api.CodeValidationFailed, err.Error())
		return "", false
	}
	return index, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, api.CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, api.Error{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing engine internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		db.ErrIndexExists,
		domain.ErrEngineCommunication,
		domain.ErrPartialBulkFailure,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler matches a single sentinel and replies with the safe message.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// detailHandler matches a single input-validation sentinel and replies with
// the full error text.
func detailHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, _ string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}

// compileErrorHandler replies 400 with the compile failure details.
func compileErrorHandler(w http.ResponseWriter, err error, _ string) bool {
	var ce *domain.CompileError
	if !errors.As(err, &ce) {
		return false
	}
	writeError(w, http.StatusBadRequest, api.CodeCompileFailed, ce.Error())
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logpkg.FromContext(logpkg.With(r.Context(), zap.String("index", gochi.URLParam(r, "index"))))
	logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, api.CodeInternalError, "internal error")
}
