package osvdev

import "github.com/ossf/osv-schema/bindings/go/osvschema"

// Package identifies what a query is about, either by name and ecosystem or
// by purl.
type Package struct {
	PURL      string `json:"purl,omitempty"`
	Name      string `json:"name,omitempty"`
	Ecosystem string `json:"ecosystem,omitempty"`
}

// Query is the body of a POST to QueryEndpoint.
type Query struct {
	Package Package `json:"package,omitempty"`
	Version string  `json:"version,omitempty"`
	// PageToken asks for the page after the one whose response carried it
	PageToken string `json:"page_token,omitempty"`
}

// NewQuery returns a query for the vulnerabilities of one version of a package.
func NewQuery(name, ecosystem, version string) *Query {
	return &Query{
		Package: Package{Name: name, Ecosystem: ecosystem},
		Version: version,
	}
}

// Response is one page of the vulnerabilities matching a query.
type Response struct {
	Vulns         []*osvschema.Vulnerability
	NextPageToken string
}
