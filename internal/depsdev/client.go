package depsdev

import (
	"context"
	"errors"
	"fmt"
	"time"

	depsdevpb "deps.dev/api/v3"
	"github.com/ossf/osv-schema/bindings/go/osvconstants"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	// ErrUnsupportedEcosystem is returned for ecosystems deps.dev has no data for.
	ErrUnsupportedEcosystem = errors.New("ecosystem not known to deps.dev")
	// ErrNotFound is returned when deps.dev does not have the requested data.
	ErrNotFound = errors.New("not found in deps.dev")
)

// sourceRepoLabel is the label deps.dev gives links to the source repository.
const sourceRepoLabel = "SOURCE_REPO"

// Health describes the state of the project behind a package.
type Health struct {
	// ProjectKey is the project in "host/owner/name" form
	ProjectKey  string     `json:"projectKey"`
	Stars       int64      `json:"stars"`
	Forks       int64      `json:"forks"`
	OpenIssues  int64      `json:"openIssues"`
	License     string     `json:"license,omitempty"`
	Description string     `json:"description,omitempty"`
	Homepage    string     `json:"homepage,omitempty"`
	Scorecard   *Scorecard `json:"scorecard,omitempty"`
}

// Scorecard is the OpenSSF scorecard of a project.
type Scorecard struct {
	Date         time.Time        `json:"date"`
	OverallScore float64          `json:"overallScore"`
	Checks       []ScorecardCheck `json:"checks"`
}

type ScorecardCheck struct {
	Name   string `json:"name"`
	Score  int32  `json:"score"`
	Reason string `json:"reason,omitempty"`
}

// Client answers questions about packages and projects using deps.dev.
type Client struct {
	insights depsdevpb.InsightsClient
}

func NewClient(insights depsdevpb.InsightsClient) *Client {
	return &Client{insights: insights}
}

// versionQuery constructs a GetVersion request from the arguments.
func versionQuery(system depsdevpb.System, name string, version string) *depsdevpb.GetVersionRequest {
	if system == depsdevpb.System_GO && name != "stdlib" && version != "" && version[0] != 'v' {
		version = "v" + version
	}

	return &depsdevpb.GetVersionRequest{
		VersionKey: &depsdevpb.VersionKey{
			System:  system,
			Name:    name,
			Version: version,
		},
	}
}

// SourceRepo returns the source repository deps.dev links to the given
// version of a package.
func (c *Client) SourceRepo(ctx context.Context, eco osvconstants.Ecosystem, name, version string) (string, error) {
	system, ok := System[eco]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedEcosystem, eco)
	}

	resp, err := c.insights.GetVersion(ctx, versionQuery(system, name, version))
	if err != nil {
		return "", wrapStatus(err)
	}

	for _, link := range resp.GetLinks() {
		if link.GetLabel() == sourceRepoLabel && link.GetUrl() != "" {
			return link.GetUrl(), nil
		}
	}

	for _, related := range resp.GetRelatedProjects() {
		if related.GetRelationType().String() == sourceRepoLabel && related.GetProjectKey().GetId() != "" {
			return "https://" + related.GetProjectKey().GetId(), nil
		}
	}

	return "", ErrNotFound
}

// Project returns the health of the project hosted at host/owner/name.
func (c *Client) Project(ctx context.Context, host, owner, name string) (Health, error) {
	resp, err := c.insights.GetProject(ctx, &depsdevpb.GetProjectRequest{
		ProjectKey: &depsdevpb.ProjectKey{Id: host + "/" + owner + "/" + name},
	})
	if err != nil {
		return Health{}, wrapStatus(err)
	}

	health := Health{
		ProjectKey:  resp.GetProjectKey().GetId(),
		Stars:       int64(resp.GetStarsCount()),
		Forks:       int64(resp.GetForksCount()),
		OpenIssues:  int64(resp.GetOpenIssuesCount()),
		License:     resp.GetLicense(),
		Description: resp.GetDescription(),
		Homepage:    resp.GetHomepage(),
	}

	if sc := resp.GetScorecard(); sc != nil {
		health.Scorecard = &Scorecard{
			OverallScore: float64(sc.GetOverallScore()),
			Checks:       make([]ScorecardCheck, 0, len(sc.GetChecks())),
		}
		if sc.GetDate() != nil {
			health.Scorecard.Date = sc.GetDate().AsTime()
		}
		for _, check := range sc.GetChecks() {
			health.Scorecard.Checks = append(health.Scorecard.Checks, ScorecardCheck{
				Name:   check.GetName(),
				Score:  check.GetScore(),
				Reason: check.GetReason(),
			})
		}
	}

	return health, nil
}

func wrapStatus(err error) error {
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	return err
}
