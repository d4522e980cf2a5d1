package testcmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync"
	"testing"

	"github.com/sbomscope/sbomscope/internal/testutility"
	"github.com/tidwall/gjson"
)

// FakeAPIs stands in for every remote service the commands talk to.
type FakeAPIs struct {
	// OSV answers queries with the advisories of a fixture file, keyed by
	// "<ecosystem>/<name>@<version>"
	OSV *httptest.Server
	// Registry answers package registry requests by path
	Registry *testutility.MockHTTPServer
	// Client sends requests for the public hosts of those services to the fakes
	Client *http.Client

	mu      sync.Mutex
	queries []string
}

// NewFakeAPIs starts the fake services, which are shut down when the test ends.
func NewFakeAPIs(t *testing.T, advisoriesPath string) *FakeAPIs {
	t.Helper()

	data, err := os.ReadFile(advisoriesPath)
	if err != nil {
		t.Fatalf("failed to read advisories: %v", err)
	}

	var advisories map[string][]json.RawMessage
	if err := json.Unmarshal(data, &advisories); err != nil {
		t.Fatalf("failed to parse advisories: %v", err)
	}

	fakes := &FakeAPIs{Registry: testutility.NewMockHTTPServer(t)}

	fakes.OSV = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil || r.URL.Path != "/v1/query" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		query := gjson.ParseBytes(body)
		key := fmt.Sprintf("%s/%s@%s",
			query.Get("package.ecosystem").String(),
			query.Get("package.name").String(),
			query.Get("version").String(),
		)

		fakes.mu.Lock()
		fakes.queries = append(fakes.queries, key)
		fakes.mu.Unlock()

		resp, _ := json.Marshal(map[string]any{"vulns": advisories[key]})
		_, _ = w.Write(resp)
	}))
	t.Cleanup(fakes.OSV.Close)

	fakes.Client = &http.Client{Transport: redirectTransport{
		"api.osv.dev":        mustParse(t, fakes.OSV.URL),
		"registry.npmjs.org": mustParse(t, fakes.Registry.URL),
		"pypi.org":           mustParse(t, fakes.Registry.URL),
		"rubygems.org":       mustParse(t, fakes.Registry.URL),
		"api.nuget.org":      mustParse(t, fakes.Registry.URL),
		"crates.io":          mustParse(t, fakes.Registry.URL),
	}}

	return fakes
}

// Queries returns every advisory query that has been made so far.
func (f *FakeAPIs) Queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.queries...)
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("failed to parse %s: %v", raw, err)
	}

	return u
}

// redirectTransport sends requests to the server registered for their host,
// and refuses any request to a host that has none.
type redirectTransport map[string]*url.URL

func (rt redirectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	target, ok := rt[req.URL.Host]
	if !ok {
		return nil, fmt.Errorf("unexpected request to %s", req.URL)
	}

	req = req.Clone(req.Context())
	req.URL.Scheme = target.Scheme
	req.URL.Host = target.Host
	req.Host = ""

	return http.DefaultTransport.RoundTrip(req)
}
