// Package config manages the configuration for sbomscope.
package config

import (
	"slices"
	"sync/atomic"
	"time"

	"github.com/sbomscope/sbomscope/internal/cmdlogger"
	"github.com/sbomscope/sbomscope/internal/osvdev"
)

// FileName is the name of the config file looked for alongside the SBOMs.
var FileName = "sbomscope.toml"

type Config struct {
	// SBOMDir is the directory documents are loaded from
	SBOMDir      string         `toml:"SBOMDir,omitempty"`
	OSV          OSVConfig      `toml:"OSV"`
	DepsDev      DepsDevConfig  `toml:"DepsDev"`
	Registries   RegistryConfig `toml:"Registries"`
	IgnoredVulns []*IgnoreEntry `toml:"IgnoredVulns"`
	// The path to config file that this config was loaded from,
	// set after having successfully parsed the file
	LoadPath string `toml:"-"`
}

type OSVConfig struct {
	APIBaseURL         string `toml:"APIBaseURL"`
	MaxRetryAttempts   int    `toml:"MaxRetryAttempts"`
	MaxConcurrentScans int    `toml:"MaxConcurrentScans"`
	UserAgent          string `toml:"UserAgent"`
}

type DepsDevConfig struct {
	Address  string `toml:"Address"`
	Disabled bool   `toml:"Disabled"`
}

// RegistryConfig holds the base URLs of the package registries that are
// asked for the source repository of a package.
type RegistryConfig struct {
	NPM      string `toml:"NPM"`
	PyPI     string `toml:"PyPI"`
	RubyGems string `toml:"RubyGems"`
	NuGet    string `toml:"NuGet"`
	// Go is where go-import metadata is fetched from, which when empty is
	// the host named by the import path itself
	Go       string `toml:"Go"`
	CratesIO string `toml:"CratesIO"`
}

type IgnoreEntry struct {
	ID          string    `toml:"id"`
	IgnoreUntil time.Time `toml:"ignoreUntil,omitempty"`
	Reason      string    `toml:"reason,omitempty"`

	used atomic.Bool
}

func (ie *IgnoreEntry) MarkAsUsed() {
	ie.used.Store(true)
}

func (ie *IgnoreEntry) Used() bool {
	return ie.used.Load()
}

// Default returns the configuration used when there is no config file.
func Default() Config {
	osv := osvdev.DefaultConfig()

	return Config{
		SBOMDir: ".",
		OSV: OSVConfig{
			APIBaseURL:         osvdev.DefaultBaseURL,
			MaxRetryAttempts:   osv.MaxRetryAttempts,
			MaxConcurrentScans: 10,
			UserAgent:          osv.UserAgent,
		},
		DepsDev: DepsDevConfig{
			Address: "api.deps.dev:443",
		},
		Registries: RegistryConfig{
			NPM:      "https://registry.npmjs.org",
			PyPI:     "https://pypi.org",
			RubyGems: "https://rubygems.org",
			NuGet:    "https://api.nuget.org",
			CratesIO: "https://crates.io",
		},
	}
}

func (c *Config) UnusedIgnoredVulns() []*IgnoreEntry {
	unused := make([]*IgnoreEntry, 0, len(c.IgnoredVulns))

	for _, entry := range c.IgnoredVulns {
		if !entry.Used() {
			unused = append(unused, entry)
		}
	}

	return unused
}

// ShouldIgnore reports whether the vulnerability with the given id should be
// hidden, along with the entry that matched it.
func (c *Config) ShouldIgnore(vulnID string) (bool, *IgnoreEntry) {
	index := slices.IndexFunc(c.IgnoredVulns, func(e *IgnoreEntry) bool { return e.ID == vulnID })
	if index == -1 {
		return false, &IgnoreEntry{}
	}
	ignoredLine := c.IgnoredVulns[index]

	return shouldIgnoreTimestamp(ignoredLine.IgnoreUntil), ignoredLine
}

func shouldIgnoreTimestamp(ignoreUntil time.Time) bool {
	if ignoreUntil.IsZero() {
		// If IgnoreUntil is not set, should ignore.
		return true
	}
	// Should ignore if IgnoreUntil is still after current time
	// Takes timezone offsets into account if it is specified. otherwise it's using local time
	return ignoreUntil.After(time.Now())
}

func (c *Config) warnAboutDuplicates() {
	seen := make(map[string]struct{})

	for _, vuln := range c.IgnoredVulns {
		if _, ok := seen[vuln.ID]; ok {
			cmdlogger.Warnf("warning: %s has multiple ignores for %s - only the first will be used!", c.LoadPath, vuln.ID)
		}
		seen[vuln.ID] = struct{}{}
	}
}
