// Package scanner looks up the vulnerabilities of packages in the OSV
// advisory feed.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/ossf/osv-schema/bindings/go/osvschema"
	"github.com/sbomscope/sbomscope/internal/cmdlogger"
	"github.com/sbomscope/sbomscope/internal/config"
	"github.com/sbomscope/sbomscope/internal/ecosystem"
	"github.com/sbomscope/sbomscope/internal/osvdev"
	"github.com/sbomscope/sbomscope/internal/vulns"
	"github.com/sbomscope/sbomscope/pkg/models"
	"golang.org/x/sync/errgroup"
)

// ErrScanInFlight is returned when a package is asked to be scanned while a
// scan of the same package is still running.
var ErrScanInFlight = errors.New("scan already in progress")

// Matcher fetches every advisory matching a query.
type Matcher interface {
	QueryAll(ctx context.Context, query *osvdev.Query) ([]*osvschema.Vulnerability, error)
}

// ScanError records a package whose advisory lookup failed.
type ScanError struct {
	PackageID   string
	PackageName string
	Err         error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("failed to scan %s (%s): %v", e.PackageName, e.PackageID, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

type Scanner struct {
	matcher       Matcher
	config        *config.Config
	maxConcurrent int

	// package ids with a scan running, used as a set
	inFlight sync.Map
}

// New creates a scanner; the config provides the concurrency limit and the
// list of vulnerabilities to hide.
func New(matcher Matcher, cfg *config.Config) *Scanner {
	return &Scanner{
		matcher:       matcher,
		config:        cfg,
		maxConcurrent: max(cfg.OSV.MaxConcurrentScans, 1),
	}
}

// Scannable reports whether the package can be looked up in the advisory feed.
func Scannable(pkg models.Package) bool {
	_, ok := ecosystem.Resolve(pkg)

	return ok
}

// ScanPackage looks up the vulnerabilities of a single package.
//
// The package is always returned marked as scanned unless a scan of it is
// already running, in which case it is returned unchanged with ErrScanInFlight.
// A failed lookup results in a *ScanError alongside the package with no
// fetched vulnerabilities.
func (s *Scanner) ScanPackage(ctx context.Context, pkg models.Package) (models.Package, error) {
	result, err := s.scan(ctx, pkg)
	if err != nil && !errors.Is(err, ErrScanInFlight) {
		cmdlogger.Warnf("%v", err)
	}

	return result, err
}

// ScanAll scans every scannable package concurrently, returning the packages
// with the results merged in along with every lookup that failed.
//
// One failed lookup does not affect any of the others.
func (s *Scanner) ScanAll(ctx context.Context, pkgs []models.Package) ([]models.Package, []ScanError) {
	scannable := slices.DeleteFunc(slices.Clone(pkgs), func(pkg models.Package) bool {
		return !Scannable(pkg)
	})

	results := make([]models.Package, len(scannable))
	errs := make([]error, len(scannable))

	var g errgroup.Group
	g.SetLimit(s.maxConcurrent)

	for i, pkg := range scannable {
		g.Go(func() error {
			cmdlogger.Debugf("Scanning %s@%s", pkg.Name, pkg.Version)
			results[i], errs[i] = s.scan(ctx, pkg)

			// failures are reported through errs so that siblings are never cancelled
			return nil
		})
	}
	_ = g.Wait()

	var scanErrs []ScanError
	for _, err := range errs {
		var scanErr *ScanError
		if errors.As(err, &scanErr) {
			cmdlogger.Warnf("%v", scanErr)
			scanErrs = append(scanErrs, *scanErr)
		}
	}

	return models.MergeByID(pkgs, results), scanErrs
}

func (s *Scanner) scan(ctx context.Context, pkg models.Package) (models.Package, error) {
	if _, running := s.inFlight.LoadOrStore(pkg.ID, struct{}{}); running {
		return pkg, ErrScanInFlight
	}
	defer s.inFlight.Delete(pkg.ID)

	target, ok := ecosystem.Resolve(pkg)
	if !ok {
		return pkg.WithScanResult(nil), nil
	}

	fetched, err := s.matcher.QueryAll(ctx, osvdev.NewQuery(target.Name, string(target.Ecosystem), target.Version))
	if err != nil {
		return pkg.WithScanResult(nil), &ScanError{PackageID: pkg.ID, PackageName: pkg.Name, Err: err}
	}

	fetched = vulns.Reconcile(pkg.DeclaredVulnerabilities, fetched)

	return pkg.WithScanResult(s.withoutIgnored(fetched)), nil
}

// withoutIgnored drops the vulnerabilities the config says to ignore, by id or
// by any of their aliases.
func (s *Scanner) withoutIgnored(fetched []*osvschema.Vulnerability) []*osvschema.Vulnerability {
	if s.config == nil || len(s.config.IgnoredVulns) == 0 {
		return fetched
	}

	kept := make([]*osvschema.Vulnerability, 0, len(fetched))
	for _, v := range fetched {
		if !s.shouldIgnore(v) {
			kept = append(kept, v)
		}
	}

	return kept
}

func (s *Scanner) shouldIgnore(v *osvschema.Vulnerability) bool {
	for _, id := range vulns.IdentityOfFetched(v) {
		if ignore, entry := s.config.ShouldIgnore(id); ignore {
			entry.MarkAsUsed()

			return true
		}
	}

	return false
}
