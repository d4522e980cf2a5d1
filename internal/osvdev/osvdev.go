// Package osvdev is a client for the query API of osv.dev.
package osvdev

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/ossf/osv-schema/bindings/go/osvschema"
	"github.com/tidwall/gjson"
	"google.golang.org/protobuf/encoding/protojson"
)

const (
	// DefaultBaseURL is the base URL of the public osv.dev API.
	DefaultBaseURL = "https://api.osv.dev"
	// QueryEndpoint is the URL for posting queries to OSV.
	QueryEndpoint = "/v1/query"

	// maxPageDepth bounds how many pages of results a single query may follow
	maxPageDepth = 50
)

type OSVClient struct {
	HTTPClient  *http.Client
	Config      ClientConfig
	BaseHostURL string
}

// DefaultClient returns a client for the public osv.dev API.
func DefaultClient() *OSVClient {
	return &OSVClient{
		HTTPClient:  http.DefaultClient,
		Config:      DefaultConfig(),
		BaseHostURL: DefaultBaseURL,
	}
}

var unmarshalOptions = protojson.UnmarshalOptions{DiscardUnknown: true}

// Query is an interface to this endpoint: https://google.github.io/osv.dev/post-v1-query/
//
// Only the single page of results asked for by the query is returned.
func (c *OSVClient) Query(ctx context.Context, query *Query) (*Response, error) {
	requestBytes, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	resp, err := c.makeRetryRequest(ctx, func(hc *http.Client) (*http.Response, error) {
		// Make sure request buffer is inside retry, if outside
		// http request would finish the buffer, and retried requests would be empty
		requestBuf := bytes.NewBuffer(requestBytes)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseHostURL+QueryEndpoint, requestBuf)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if c.Config.UserAgent != "" {
			req.Header.Set("User-Agent", c.Config.UserAgent)
		}

		return hc.Do(req)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return decodeResponse(body)
}

// QueryAll runs the query, following pagination until every matching
// vulnerability has been retrieved.
func (c *OSVClient) QueryAll(ctx context.Context, query *Query) ([]*osvschema.Vulnerability, error) {
	page := *query
	vulns := []*osvschema.Vulnerability{}

	for depth := 0; ; depth++ {
		if depth >= maxPageDepth {
			return nil, &ErrDuringPaging{PageDepth: depth, Inner: fmt.Errorf("more than %d pages of results", maxPageDepth)}
		}

		resp, err := c.Query(ctx, &page)
		if err != nil {
			if depth == 0 {
				return nil, err
			}

			return nil, &ErrDuringPaging{PageDepth: depth, Inner: err}
		}

		vulns = append(vulns, resp.Vulns...)

		if resp.NextPageToken == "" {
			return vulns, nil
		}
		page.PageToken = resp.NextPageToken
	}
}

func decodeResponse(body []byte) (*Response, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid response from server: %q", truncate(body))
	}

	parsed := gjson.ParseBytes(body)
	resp := &Response{
		Vulns:         []*osvschema.Vulnerability{},
		NextPageToken: parsed.Get("next_page_token").String(),
	}

	for _, raw := range parsed.Get("vulns").Array() {
		vuln := &osvschema.Vulnerability{}
		if err := unmarshalOptions.Unmarshal([]byte(raw.Raw), vuln); err != nil {
			return nil, fmt.Errorf("failed to decode vulnerability %s: %w", raw.Get("id").String(), err)
		}
		resp.Vulns = append(resp.Vulns, vuln)
	}

	return resp, nil
}

// makeRetryRequest will return an error on both network errors, and if the response is not 200.
// Waiting between attempts stops as soon as ctx is done.
func (c *OSVClient) makeRetryRequest(ctx context.Context, action func(client *http.Client) (*http.Response, error)) (*http.Response, error) {
	var lastErr error

	for i := range c.Config.MaxRetryAttempts {
		// rand is initialized with a random number (since go1.20), and is also safe to use concurrently
		// we do not need to use a cryptographically secure random jitter, this is just to spread out the retry requests
		// #nosec G404
		jitterAmount := rand.Float64() * c.Config.JitterMultiplier * float64(i)
		backoff := c.Config.BackoffDurationMultiplier * float64(i*i)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration((backoff+jitterAmount)*1000) * time.Millisecond):
		}

		resp, err := action(c.HTTPClient)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusOK {
			return resp, nil
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		// Client errors are not going to go away by retrying
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, fmt.Errorf("client error: status=%q body=%s", resp.Status, truncate(body))
		}

		lastErr = fmt.Errorf("server error: status=%q body=%s", resp.Status, truncate(body))
	}

	if lastErr == nil {
		return nil, ErrMaxRetriesExceeded
	}

	return nil, fmt.Errorf("%w: %w", ErrMaxRetriesExceeded, lastErr)
}

func truncate(body []byte) []byte {
	const limit = 512
	if len(body) > limit {
		return body[:limit]
	}

	return body
}
