package repourl

import (
	"net/url"
	"strings"
)

// projectHosts are the hosts whose repositories deps.dev keeps project data for.
var projectHosts = map[string]bool{
	"github.com":    true,
	"gitlab.com":    true,
	"bitbucket.org": true,
}

// Project identifies a repository on a known code host.
type Project struct {
	Host  string
	Owner string
	Name  string
}

// Key is the project in the "host/owner/name" form deps.dev uses.
func (p Project) Key() string {
	return p.Host + "/" + p.Owner + "/" + p.Name
}

// Normalize turns the many ways registries write repository urls into a plain
// https url, e.g. "git+ssh://git@github.com/owner/name.git" becomes
// "https://github.com/owner/name".
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "git+")

	// scp-like syntax
	if rest, ok := strings.CutPrefix(s, "git@"); ok && !strings.Contains(rest, "://") {
		s = "https://" + strings.Replace(rest, ":", "/", 1)
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return raw
	}

	u.Scheme = "https"
	u.User = nil
	u.RawQuery = ""
	u.Fragment = ""
	u.Path = strings.TrimSuffix(strings.TrimSuffix(u.Path, "/"), ".git")

	return u.String()
}

// ParseProject extracts the project from a repository url on a known code host.
func ParseProject(raw string) (Project, bool) {
	u, err := url.Parse(Normalize(raw))
	if err != nil {
		return Project{}, false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if !projectHosts[host] {
		return Project{}, false
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Project{}, false
	}

	return Project{Host: host, Owner: parts[0], Name: parts[1]}, true
}
