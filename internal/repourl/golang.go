package repourl

import (
	"bytes"
	"context"
	"strings"

	"golang.org/x/net/html"
)

// golang follows the go-import metadata of a module path to its repository.
func (r *Resolver) golang(ctx context.Context, modulePath string) (string, error) {
	if strings.HasPrefix(modulePath, "github.com/") {
		return "https://" + modulePath, nil
	}

	base := r.Registries.Go
	if base == "" {
		base = "https://" + modulePath
	} else {
		base += "/" + modulePath
	}

	body, err := r.get(ctx, base+"?go-get=1", "text/html")
	if err != nil {
		return "", err
	}

	return goImportRepo(body, modulePath)
}

// goImportRepo returns the repository root of the go-import meta tag that
// matches modulePath, falling back to the first go-import tag in the page.
func goImportRepo(page []byte, modulePath string) (string, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return "", err
	}

	var fallback string
	for n := range doc.Descendants() {
		if n.Type != html.ElementNode || n.Data != "meta" || attr(n, "name") != "go-import" {
			continue
		}

		fields := strings.Fields(attr(n, "content"))
		if len(fields) != 3 {
			continue
		}

		prefix, repo := fields[0], fields[2]
		if modulePath == prefix || strings.HasPrefix(modulePath, prefix+"/") {
			return repo, nil
		}
		if fallback == "" {
			fallback = repo
		}
	}

	return fallback, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}

	return ""
}
