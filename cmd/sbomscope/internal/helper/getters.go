package helper

import (
	"errors"
	"net/http"

	"github.com/sbomscope/sbomscope/internal/cmdlogger"
	"github.com/sbomscope/sbomscope/internal/config"
	"github.com/sbomscope/sbomscope/internal/depsdev"
	"github.com/sbomscope/sbomscope/internal/filter"
	"github.com/sbomscope/sbomscope/internal/inventory"
	"github.com/sbomscope/sbomscope/internal/osvdev"
	"github.com/sbomscope/sbomscope/internal/repourl"
	"github.com/sbomscope/sbomscope/internal/scanner"
	"github.com/sbomscope/sbomscope/pkg/models"
	"github.com/urfave/cli/v3"
)

// GetConfig returns the config to use, which is either the one passed with
// --config or the one in the SBOM directory.
//
// dir takes precedence over the --dir flag when it is not empty.
func GetConfig(cmd *cli.Command, dir string) config.Config {
	if dir == "" {
		dir = cmd.String("dir")
	}

	configPath := cmd.String("config")
	if configPath == "" {
		return config.ForDir(dir)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		cmdlogger.Errorf("%s at %s because: %v", cmdlogger.InvalidConfigPrefix, configPath, err)

		cfg = config.Default()
		cfg.SBOMDir = dir

		return cfg
	}

	cmdlogger.Infof("Loaded config from: %s", cfg.LoadPath)

	if cmd.IsSet("dir") || dir != cmd.String("dir") {
		cfg.SBOMDir = dir
	}

	return cfg
}

// GetInventory loads the documents selected with --document from the SBOM
// directory of the config.
//
// Documents that fail to load are reported, and the packages of the rest are
// still returned.
func GetInventory(cmd *cli.Command, cfg config.Config) (*inventory.Inventory, error) {
	inv, err := inventory.New(cfg.SBOMDir)
	if err != nil {
		return nil, err
	}

	err = inv.Select(cmd.String("document"))
	if errors.Is(err, inventory.ErrUnknownDocument) {
		return nil, err
	}
	if err != nil {
		cmdlogger.Errorf("Failed to load some documents: %v", err)
	}

	cmdlogger.Infof("Loaded %d packages from %d documents", len(inv.Packages()), len(inv.Documents()))

	return inv, nil
}

// GetFilterOptions returns the filter described by the listing flags.
func GetFilterOptions(cmd *cli.Command) filter.Options {
	return filter.Options{
		Source:         cmd.String("source"),
		Search:         cmd.String("search"),
		VulnerableOnly: cmd.Bool("vulnerable-only"),
	}
}

// GetPage returns the page of pkgs described by the listing flags.
func GetPage(cmd *cli.Command, pkgs []models.Package) filter.Page[models.Package] {
	if cmd.Bool("all-packages") {
		return filter.Paginate(pkgs, 1, max(len(pkgs), 1))
	}

	return filter.Paginate(pkgs, cmd.Int("page"), cmd.Int("page-size"))
}

// GetScanner returns a scanner that looks packages up in the advisory feed
// configured in cfg.
func GetScanner(cfg *config.Config, client *http.Client) *scanner.Scanner {
	osvConfig := osvdev.DefaultConfig()
	osvConfig.MaxRetryAttempts = cfg.OSV.MaxRetryAttempts
	osvConfig.UserAgent = cfg.OSV.UserAgent

	matcher := &osvdev.OSVClient{
		HTTPClient:  client,
		Config:      osvConfig,
		BaseHostURL: cfg.OSV.APIBaseURL,
	}

	return scanner.New(matcher, cfg)
}

// GetInsights returns what is used to find the project behind a package,
// which only asks deps.dev if it has not been disabled in cfg.
func GetInsights(cfg config.Config, client *http.Client) (*depsdev.Insights, error) {
	insights := &depsdev.Insights{
		Registries: repourl.New(client, cfg.Registries, cfg.OSV.UserAgent),
	}

	if cfg.DepsDev.Disabled {
		return insights, nil
	}

	ic, err := depsdev.NewInsightsClient(cfg.DepsDev.Address, cfg.OSV.UserAgent)
	if err != nil {
		return nil, err
	}
	insights.DepsDev = depsdev.NewClient(ic)

	return insights, nil
}

// LogUnusedIgnores reports ignore entries that did not match anything.
func LogUnusedIgnores(cfg *config.Config) {
	unused := cfg.UnusedIgnoredVulns()
	if len(unused) == 0 {
		return
	}

	cmdlogger.Infof("%s has unused ignores:", cfg.LoadPath)
	for _, entry := range unused {
		cmdlogger.Infof(" - %s", entry.ID)
	}
}
