package depsdev

import (
	"context"
	"errors"
	"fmt"

	"github.com/sbomscope/sbomscope/internal/cmdlogger"
	"github.com/sbomscope/sbomscope/internal/ecosystem"
	"github.com/sbomscope/sbomscope/internal/repourl"
	"github.com/sbomscope/sbomscope/pkg/models"
)

// ErrNoRepository is returned when no source repository could be found for a package.
var ErrNoRepository = errors.New("no source repository found")

// RepoResolver finds the repository of a package in the registry it was published to.
type RepoResolver interface {
	Resolve(ctx context.Context, purlType, name, version string) (string, error)
}

// Insights combines registry lookups with deps.dev to describe the project
// behind a package.
type Insights struct {
	Registries RepoResolver
	DepsDev    *Client
}

// Repository returns the source repository of a package, asking its registry
// first and deps.dev second.
func (in *Insights) Repository(ctx context.Context, pkg models.Package) (string, error) {
	target, ok := ecosystem.Resolve(pkg)
	if !ok {
		return "", ErrNoRepository
	}

	var errs []error

	if in.Registries != nil {
		repo, err := in.Registries.Resolve(ctx, target.PURLType, target.Name, target.Version)
		if err == nil {
			return repourl.Normalize(repo), nil
		}
		errs = append(errs, err)
	}

	if in.DepsDev != nil {
		repo, err := in.DepsDev.SourceRepo(ctx, target.Ecosystem, target.Name, target.Version)
		if err == nil {
			return repourl.Normalize(repo), nil
		}
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return "", fmt.Errorf("%w for %s", ErrNoRepository, pkg.Name)
	}

	return "", fmt.Errorf("%w for %s: %w", ErrNoRepository, pkg.Name, errors.Join(errs...))
}

// Health returns the repository of a package along with the health of its
// project, which is nil when deps.dev has nothing on it.
func (in *Insights) Health(ctx context.Context, pkg models.Package) (string, *Health, error) {
	repo, err := in.Repository(ctx, pkg)
	if err != nil {
		return "", nil, err
	}

	project, ok := repourl.ParseProject(repo)
	if !ok || in.DepsDev == nil {
		return repo, nil, nil
	}

	health, err := in.DepsDev.Project(ctx, project.Host, project.Owner, project.Name)
	if errors.Is(err, ErrNotFound) {
		cmdlogger.Debugf("Looked up %s in deps.dev: no project data", project.Key())

		return repo, nil, nil
	}
	if err != nil {
		return repo, nil, err
	}

	return repo, &health, nil
}
