// Package depsdev looks up source repositories and project health in the
// deps.dev API.
package depsdev

import (
	"crypto/x509"
	"fmt"

	depsdevpb "deps.dev/api/v3"
	"github.com/ossf/osv-schema/bindings/go/osvconstants"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
)

// DepsdevAPI is the URL to the deps.dev API. It is documented at
// docs.deps.dev/api.
const DepsdevAPI = "api.deps.dev:443"

// System maps from an advisory ecosystem to the depsdev API system.
var System = map[osvconstants.Ecosystem]depsdevpb.System{
	osvconstants.EcosystemNPM:      depsdevpb.System_NPM,
	osvconstants.EcosystemNuGet:    depsdevpb.System_NUGET,
	osvconstants.EcosystemCratesIO: depsdevpb.System_CARGO,
	osvconstants.EcosystemGo:       depsdevpb.System_GO,
	osvconstants.EcosystemMaven:    depsdevpb.System_MAVEN,
	osvconstants.EcosystemPyPI:     depsdevpb.System_PYPI,
	osvconstants.EcosystemRubyGems: depsdevpb.System_RUBYGEMS,
}

// NewInsightsClient creates a deps.dev InsightsClient with a custom address and userAgent.
func NewInsightsClient(addr string, userAgent string) (depsdevpb.InsightsClient, error) {
	certPool, err := x509.SystemCertPool()
	if err != nil {
		return nil, fmt.Errorf("getting system cert pool: %w", err)
	}
	creds := credentials.NewClientTLSFromCert(certPool, "")
	dialOpts := []grpc.DialOption{grpc.WithTransportCredentials(creds)}

	if userAgent != "" {
		dialOpts = append(dialOpts, grpc.WithUserAgent(userAgent))
	}

	conn, err := grpc.NewClient(addr, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("dialling %q: %w", addr, err)
	}

	return depsdevpb.NewInsightsClient(conn), nil
}
