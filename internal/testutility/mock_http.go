package testutility

import (
	"net/http"
	"net/http/httptest"
	"os"
	"slices"
	"strings"
	"sync"
	"testing"
)

// MockHTTPServer serves canned JSON responses keyed by URL path, and answers
// 404 for every other path.
type MockHTTPServer struct {
	*httptest.Server

	mu        sync.Mutex
	responses map[string][]byte // path without the leading slash -> body
	requested []string
}

// NewMockHTTPServer starts a server that is closed when the test ends.
func NewMockHTTPServer(t *testing.T) *MockHTTPServer {
	t.Helper()

	mock := &MockHTTPServer{responses: make(map[string][]byte)}
	mock.Server = httptest.NewServer(mock)
	t.Cleanup(mock.Close)

	return mock
}

// SetResponse makes the server answer requests for path with body.
func (m *MockHTTPServer) SetResponse(t *testing.T, path string, body []byte) {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.responses[strings.TrimPrefix(path, "/")] = body
}

// SetResponseFromFile makes the server answer requests for path with the
// contents of filename.
func (m *MockHTTPServer) SetResponseFromFile(t *testing.T, path string, filename string) {
	t.Helper()

	body, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("failed to read response file: %v", err)
	}

	m.SetResponse(t, path, body)
}

// Requested returns the path of every request made so far, in order.
func (m *MockHTTPServer) Requested() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.requested)
}

func (m *MockHTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.EscapedPath(), "/")

	m.mu.Lock()
	body, ok := m.responses[path]
	m.requested = append(m.requested, path)
	m.mu.Unlock()

	if !ok {
		http.Error(w, "not found", http.StatusNotFound)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}
