package api

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ThomasJButler/iAI-Assessment/internal/compare"
	"github.com/ThomasJButler/iAI-Assessment/internal/db"
	"github.com/ThomasJButler/iAI-Assessment/internal/httputil"
	"github.com/ThomasJButler/iAI-Assessment/internal/mapping"
	"github.com/ThomasJButler/iAI-Assessment/internal/version"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

type Server struct {
	db      *db.DB
	workers int
}

func NewServer(db *db.DB, workers int) *Server {
	return &Server{
		db:      db,
		workers: workers,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400 && statusCode < 500:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 500:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/compare", s.runComparison)
	mux.HandleFunc("/api/runs", s.listRuns)
	mux.HandleFunc("/api/run", s.showRun)
	mux.HandleFunc("/api/version", s.showVersion)
	mux.HandleFunc("/charts/jaccard", s.jaccardChart)
	mux.HandleFunc("/charts/frequency", s.frequencyChart)
	mux.HandleFunc("/charts/kappa", s.kappaChart)
	return mux
}

// compareRequest is the JSON body accepted by /api/compare. Each mapping
// uses the same wire format as the mapping files on disk.
type compareRequest struct {
	Mapping1 json.RawMessage `json:"mapping1"`
	Mapping2 json.RawMessage `json:"mapping2"`
	Label1   string          `json:"label1,omitempty"`
	Label2   string          `json:"label2,omitempty"`
}

type compareResponse struct {
	RunID  string          `json:"run_id"`
	Result *compare.Result `json:"result"`
}

func (s *Server) runComparison(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.BadRequest(w, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if len(req.Mapping1) == 0 || len(req.Mapping2) == 0 {
		httputil.BadRequest(w, "both mapping1 and mapping2 are required")
		return
	}

	m1, err := mapping.LoadBytes(req.Mapping1)
	if err != nil {
		httputil.BadRequest(w, fmt.Sprintf("mapping1: %v", err))
		return
	}
	m2, err := mapping.LoadBytes(req.Mapping2)
	if err != nil {
		httputil.BadRequest(w, fmt.Sprintf("mapping2: %v", err))
		return
	}

	pair, err := mapping.Align(m1, m2)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	result := compare.CompareWithOptions(pair, compare.Options{Workers: s.workers})

	label1 := req.Label1
	if label1 == "" {
		label1 = "mapping1"
	}
	label2 := req.Label2
	if label2 == "" {
		label2 = "mapping2"
	}

	runID := uuid.NewString()
	if err := s.db.SaveRun(runID, label1, label2, result); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to save run: %v", err))
		return
	}

	httputil.WriteJSONOK(w, compareResponse{RunID: runID, Result: result})
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	runs, err := s.db.ListRuns()
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to list runs: %v", err))
		return
	}
	if runs == nil {
		runs = []db.RunSummary{}
	}

	httputil.WriteJSONOK(w, runs)
}

func (s *Server) showRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	runID := r.URL.Query().Get("id")
	if runID == "" {
		httputil.BadRequest(w, "missing 'id' parameter")
		return
	}

	summary, result, err := s.db.GetRun(runID)
	if err == sql.ErrNoRows {
		httputil.NotFound(w, fmt.Sprintf("run %s not found", runID))
		return
	}
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to load run: %v", err))
		return
	}

	httputil.WriteJSONOK(w, map[string]interface{}{
		"summary": summary,
		"result":  result,
	})
}

func (s *Server) showVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	httputil.WriteJSONOK(w, map[string]string{
		"version":    version.Version,
		"git_sha":    version.GitSHA,
		"build_time": version.BuildTime,
	})
}
