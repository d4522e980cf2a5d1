package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/sbomscope/sbomscope/internal/config"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join("testdata", "valid", config.FileName)
	got, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := config.Default()
	want.SBOMDir = filepath.Join("testdata", "valid", "sboms")
	want.OSV.MaxConcurrentScans = 4
	want.OSV.UserAgent = "sbomscope-ci"
	want.DepsDev.Disabled = true
	want.Registries.NPM = "https://npm.example.com"
	want.IgnoredVulns = []*config.IgnoreEntry{
		{ID: "GHSA-2222-2222-2222", Reason: "Not reachable from our code"},
		{ID: "CVE-2020-0001", Reason: "Expired", IgnoreUntil: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	want.LoadPath = path

	opts := []cmp.Option{
		cmpopts.IgnoreUnexported(config.IgnoreEntry{}),
		cmpopts.EquateApproxTime(0),
	}
	if diff := cmp.Diff(want, got, opts...); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		dir     string
		wantErr string
	}{
		{name: "invalid toml", dir: "invalid", wantErr: "toml"},
		{name: "unknown keys", dir: "unknown-keys", wantErr: "unknown keys in config file: OSV.MaxConcurrentScan"},
		{name: "missing file", dir: "does-not-exist", wantErr: "no such file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.Load(filepath.Join("testdata", tt.dir, config.FileName))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want one containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_ZeroConcurrency(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	if err := os.WriteFile(path, []byte("[OSV]\nMaxConcurrentScans = 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := config.Load(path); err == nil {
		t.Errorf("Load() did not reject a concurrency of zero")
	}
}

func TestForDir_FallsBackToDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	got := config.ForDir(dir)

	want := config.Default()
	want.SBOMDir = dir

	if diff := cmp.Diff(want, got, cmpopts.IgnoreUnexported(config.IgnoreEntry{})); diff != "" {
		t.Errorf("ForDir() mismatch (-want +got):\n%s", diff)
	}
}

func TestConfig_ShouldIgnore(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(filepath.Join("testdata", "valid", config.FileName))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		id   string
		want bool
	}{
		{id: "GHSA-2222-2222-2222", want: true},
		{id: "CVE-2020-0001", want: false},
		{id: "CVE-2024-9999", want: false},
	}

	for _, tt := range tests {
		got, entry := cfg.ShouldIgnore(tt.id)
		if got != tt.want {
			t.Errorf("ShouldIgnore(%s) = %v, want %v", tt.id, got, tt.want)
		}
		if got {
			entry.MarkAsUsed()
		}
	}

	unused := cfg.UnusedIgnoredVulns()
	if len(unused) != 1 || unused[0].ID != "CVE-2020-0001" {
		t.Errorf("UnusedIgnoredVulns() = %v, want only CVE-2020-0001", unused)
	}
}

func TestLoad_Duplicates(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(filepath.Join("testdata", "duplicates", config.FileName))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	_, entry := cfg.ShouldIgnore("GHSA-1")
	if entry.Reason != "" {
		t.Errorf("ShouldIgnore() matched entry with reason %q, want the first entry", entry.Reason)
	}
}
