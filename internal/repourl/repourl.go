// Package repourl finds the source repository of a package by asking the
// registry it was published to.
package repourl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sbomscope/sbomscope/internal/cmdlogger"
	"github.com/sbomscope/sbomscope/internal/config"
	"github.com/tidwall/gjson"
)

var (
	// ErrUnsupportedType is returned for package types that have no registry lookup.
	ErrUnsupportedType = errors.New("no registry lookup for package type")
	// ErrNotFound is returned when the registry does not know the package or
	// does not list a repository for it.
	ErrNotFound = errors.New("repository not found")
)

// maxResponseSize caps how much of a registry response is read.
const maxResponseSize = 10 << 20

type Resolver struct {
	HTTPClient *http.Client
	Registries config.RegistryConfig
	UserAgent  string
}

// New creates a resolver that talks to the given registries.
func New(client *http.Client, registries config.RegistryConfig, userAgent string) *Resolver {
	if client == nil {
		client = http.DefaultClient
	}

	return &Resolver{
		HTTPClient: client,
		Registries: registries,
		UserAgent:  userAgent,
	}
}

// Resolve returns the repository url listed by the registry of the given
// package-url type, for the package as named by the advisory feed.
func (r *Resolver) Resolve(ctx context.Context, purlType, name, version string) (string, error) {
	var (
		repo string
		err  error
	)

	switch purlType {
	case "npm":
		repo, err = r.npm(ctx, name, version)
	case "pypi":
		repo, err = r.pypi(ctx, name, version)
	case "gem":
		repo, err = r.rubyGems(ctx, name)
	case "nuget":
		repo, err = r.nuget(ctx, name, version)
	case "golang":
		repo, err = r.golang(ctx, name)
	case "cargo":
		repo, err = r.crates(ctx, name)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, purlType)
	}

	if err != nil {
		return "", fmt.Errorf("looking up %s in %s registry: %w", name, purlType, err)
	}
	if repo == "" {
		return "", fmt.Errorf("%w for %s in %s registry", ErrNotFound, name, purlType)
	}

	cmdlogger.Debugf("Looked up %s in %s registry: %s", name, purlType, repo)

	return repo, nil
}

func (r *Resolver) npm(ctx context.Context, name, version string) (string, error) {
	if version == "" {
		version = "latest"
	}

	data, err := r.getJSON(ctx, r.Registries.NPM+"/"+name+"/"+url.PathEscape(version))
	if err != nil {
		return "", err
	}

	repository := data.Get("repository")
	if repository.Type == gjson.String {
		return repository.String(), nil
	}

	return repository.Get("url").String(), nil
}

func (r *Resolver) pypi(ctx context.Context, name, version string) (string, error) {
	endpoint := r.Registries.PyPI + "/pypi/" + url.PathEscape(name)
	if version != "" {
		endpoint += "/" + url.PathEscape(version)
	}

	data, err := r.getJSON(ctx, endpoint+"/json")
	if err != nil {
		return "", err
	}

	urls := data.Get("info.project_urls")
	for _, key := range []string{"Source", "Source Code", "Homepage"} {
		if u := urls.Get(gjsonEscape(key)).String(); u != "" {
			return u, nil
		}
	}

	return "", nil
}

func (r *Resolver) rubyGems(ctx context.Context, name string) (string, error) {
	data, err := r.getJSON(ctx, r.Registries.RubyGems+"/api/v1/gems/"+url.PathEscape(name)+".json")
	if err != nil {
		return "", err
	}

	return firstString(data, "source_code_uri", "homepage_uri"), nil
}

func (r *Resolver) nuget(ctx context.Context, name, version string) (string, error) {
	// registrations are only listed per version
	if version == "" {
		return "", nil
	}

	registration, err := r.getJSON(ctx, fmt.Sprintf(
		"%s/v3/registration5-semver1/%s/%s.json",
		r.Registries.NuGet,
		url.PathEscape(strings.ToLower(name)),
		url.PathEscape(strings.ToLower(version)),
	))
	if err != nil {
		return "", err
	}

	catalogEntry := registration.Get("catalogEntry").String()
	if catalogEntry == "" {
		return "", nil
	}

	entry, err := r.getJSON(ctx, catalogEntry)
	if err != nil {
		return "", err
	}

	return firstString(entry, "repository.url", "projectUrl"), nil
}

func (r *Resolver) crates(ctx context.Context, name string) (string, error) {
	data, err := r.getJSON(ctx, r.Registries.CratesIO+"/api/v1/crates/"+url.PathEscape(name))
	if err != nil {
		return "", err
	}

	return data.Get("crate.repository").String(), nil
}

// getJSON fetches a JSON document, treating a 404 as the package not existing.
func (r *Resolver) getJSON(ctx context.Context, endpoint string) (gjson.Result, error) {
	body, err := r.get(ctx, endpoint, "application/json")
	if err != nil {
		return gjson.Result{}, err
	}

	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("invalid JSON from %s", endpoint)
	}

	return gjson.ParseBytes(body), nil
}

func (r *Resolver) get(ctx context.Context, endpoint string, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", accept)
	if r.UserAgent != "" {
		req.Header.Set("User-Agent", r.UserAgent)
	}

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %q from %s", resp.Status, endpoint)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
}

func firstString(data gjson.Result, paths ...string) string {
	for _, path := range paths {
		if s := data.Get(path).String(); s != "" {
			return s
		}
	}

	return ""
}

// gjsonEscape escapes the characters gjson treats as path syntax.
func gjsonEscape(key string) string {
	var sb strings.Builder
	for _, c := range key {
		switch c {
		case '.', '*', '?', '|', '#', '@', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteRune(c)
	}

	return sb.String()
}
