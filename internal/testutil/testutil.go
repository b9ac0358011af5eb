// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ThomasJButler/iAI-Assessment/internal/mapping"
)

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// NewTestRequest creates a test HTTP request.
func NewTestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

// NewTestRecorder creates a test response recorder.
func NewTestRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

// MustMapping builds a mapping from response texts and their theme labels.
// Each entry of themes corresponds to the text at the same index.
func MustMapping(t *testing.T, texts []string, themes [][]string) *mapping.Mapping {
	t.Helper()
	if len(texts) != len(themes) {
		t.Fatalf("texts and themes must align: %d vs %d", len(texts), len(themes))
	}
	m := &mapping.Mapping{Records: make([]mapping.Record, len(texts))}
	for i := range texts {
		m.Records[i] = mapping.Record{
			Text:   texts[i],
			Themes: mapping.NewThemeSet(themes[i]...),
		}
	}
	return m
}

// MustPair aligns two theme-label matrices over shared response texts. The
// response texts are synthesised since only the labels matter to most tests.
func MustPair(t *testing.T, themes1, themes2 [][]string) *mapping.Pair {
	t.Helper()
	if len(themes1) != len(themes2) {
		t.Fatalf("mappings must align: %d vs %d", len(themes1), len(themes2))
	}
	texts := make([]string, len(themes1))
	for i := range texts {
		texts[i] = "response"
	}
	pair, err := mapping.Align(MustMapping(t, texts, themes1), MustMapping(t, texts, themes2))
	if err != nil {
		t.Fatalf("failed to align mappings: %v", err)
	}
	return pair
}
