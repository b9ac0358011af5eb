package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ThomasJButler/iAI-Assessment/internal/db"
)

func setupTestServer(t *testing.T) *Server {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	testDB, err := db.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	t.Cleanup(func() { testDB.Close() })
	return NewServer(testDB, 1)
}

const testCompareBody = `{
	"mapping1": [
		{"response_text": "more funding", "themes": ["Funding", "Resources"]},
		{"response_text": "smaller classes", "themes": ["Class Size"]}
	],
	"mapping2": [
		{"response_text": "more funding", "themes": ["Funding"]},
		{"response_text": "smaller classes", "themes": ["Class Size"]}
	]
}`

func TestRunComparison(t *testing.T) {
	server := setupTestServer(t)
	mux := server.ServeMux()

	req := httptest.NewRequest(http.MethodPost, "/api/compare", strings.NewReader(testCompareBody))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/compare status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp compareResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.RunID == "" {
		t.Error("run_id should be populated")
	}
	if len(resp.Result.PerResponse) != 2 {
		t.Errorf("PerResponse length = %d, want 2", len(resp.Result.PerResponse))
	}
	// Second response is identical in both mappings.
	if !resp.Result.PerResponse[1].ExactMatch {
		t.Error("second response should be an exact match")
	}

	// The run must now be retrievable.
	req = httptest.NewRequest(http.MethodGet, "/api/run?id="+resp.RunID, nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("GET /api/run status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestRunComparisonRejectsBadInput(t *testing.T) {
	server := setupTestServer(t)
	mux := server.ServeMux()

	tests := []struct {
		name string
		body string
	}{
		{"not JSON", "not json"},
		{"missing mappings", `{}`},
		{"length mismatch", `{"mapping1": [{"response_text": "a", "themes": []}], "mapping2": []}`},
		{"null themes", `{"mapping1": [{"response_text": "a", "themes": null}], "mapping2": [{"response_text": "a", "themes": []}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/compare", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400; body = %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestRunComparisonMethodNotAllowed(t *testing.T) {
	server := setupTestServer(t)
	mux := server.ServeMux()

	req := httptest.NewRequest(http.MethodGet, "/api/compare", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /api/compare status = %d, want 405", w.Code)
	}
}

func TestListRuns(t *testing.T) {
	server := setupTestServer(t)
	mux := server.ServeMux()

	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/runs status = %d", w.Code)
	}

	// Empty DB should return a JSON array, not null.
	var runs []db.RunSummary
	if err := json.NewDecoder(w.Body).Decode(&runs); err != nil {
		t.Fatalf("failed to decode runs: %v", err)
	}
	if runs == nil {
		t.Error("runs should decode to an empty slice")
	}
}

func TestShowRunNotFound(t *testing.T) {
	server := setupTestServer(t)
	mux := server.ServeMux()

	req := httptest.NewRequest(http.MethodGet, "/api/run?id=nope", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/run", nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing id: status = %d, want 400", w.Code)
	}
}

func TestChartHandlers(t *testing.T) {
	server := setupTestServer(t)
	mux := server.ServeMux()

	// Create a run to chart.
	req := httptest.NewRequest(http.MethodPost, "/api/compare", strings.NewReader(testCompareBody))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("setup compare failed: %d", w.Code)
	}
	var resp compareResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	for _, path := range []string{"/charts/jaccard", "/charts/frequency", "/charts/kappa"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path+"?id="+resp.RunID, nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
			}
			if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
				t.Errorf("Content-Type = %q, want text/html", ct)
			}
			if !strings.Contains(w.Body.String(), "echarts") {
				t.Error("chart response should embed echarts")
			}
		})

		t.Run(path+" missing run", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path+"?id=nope", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			if w.Code != http.StatusNotFound {
				t.Errorf("status = %d, want 404", w.Code)
			}
		})
	}
}
