package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nugetnpm/pkg/convert"
	"github.com/matzehuels/nugetnpm/pkg/errors"
	"github.com/matzehuels/nugetnpm/pkg/nuget"

	nugetclient "github.com/matzehuels/nugetnpm/pkg/integrations/nuget"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(newViper(), "")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}

	if cfg.Converter.PackageDirectory != "packages" {
		t.Errorf("PackageDirectory = %q, want packages", cfg.Converter.PackageDirectory)
	}
	if !cfg.Converter.Recursive {
		t.Error("Recursive should default to true")
	}
	if want := []string{"netstandard2.0", "any"}; !reflect.DeepEqual(cfg.Converter.AllowedFrameworks, want) {
		t.Errorf("AllowedFrameworks = %v, want %v", cfg.Converter.AllowedFrameworks, want)
	}
	if cfg.Converter.MaxDepth != convert.DefaultMaxDepth {
		t.Errorf("MaxDepth = %d, want %d", cfg.Converter.MaxDepth, convert.DefaultMaxDepth)
	}
	if cfg.NuGet.PackageSource != nugetclient.DefaultSource {
		t.Errorf("PackageSource = %q", cfg.NuGet.PackageSource)
	}
	if cfg.Cache.TTL != defaultCacheTTL {
		t.Errorf("Cache.TTL = %v, want %v", cfg.Cache.TTL, defaultCacheTTL)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeFile(t, "nugetnpm.yaml", `
targetPackage: Contoso.Core
targetPackageVersion: 1.2.0
converter:
  packageDirectory: out
  recursive: false
  useMinVersionAsExact: true
  nameMapping: "@nuget/{0}"
  customNameMappings:
    Contoso.Core: "@contoso/core"
  excludedLibraries:
    byName:
      - NETStandard.Library
cache:
  ttl: 2h
`)

	cfg, err := loadConfig(newViper(), path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}

	if cfg.TargetPackage != "Contoso.Core" || cfg.TargetPackageVersion != "1.2.0" {
		t.Errorf("target = %s@%s", cfg.TargetPackage, cfg.TargetPackageVersion)
	}
	if cfg.Converter.Recursive {
		t.Error("Recursive should be false")
	}
	if cfg.Cache.TTL != 2*time.Hour {
		t.Errorf("Cache.TTL = %v, want 2h", cfg.Cache.TTL)
	}

	opts, err := cfg.Options()
	if err != nil {
		t.Fatalf("Options() error: %v", err)
	}
	if got := opts.Names.Name("Contoso.Core"); got != "@contoso/core" {
		t.Errorf("Name(Contoso.Core) = %q, want @contoso/core", got)
	}
	if got := opts.Names.Name("Contoso.Base"); got != "@nuget/contoso.base" {
		t.Errorf("Name(Contoso.Base) = %q, want @nuget/contoso.base", got)
	}
	if !opts.Filter.IsExcluded(nuget.Dependency{ID: "netstandard.library"}) {
		t.Error("NETStandard.Library should be excluded")
	}
	if !opts.Ranges.MinAsExact {
		t.Error("MinAsExact should be set")
	}
	if opts.PackageDir != "out" || opts.Recursive {
		t.Errorf("opts = %+v", opts)
	}
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("NUGETNPM_CONVERTER_RECURSIVE", "false")
	t.Setenv("NUGETNPM_CONVERTER_MAXDEPTH", "3")
	t.Setenv("NUGETNPM_NUGET_PACKAGESOURCE", "https://feed.example/v3/index.json")

	cfg, err := loadConfig(newViper(), "")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Converter.Recursive {
		t.Error("Recursive should be overridden by environment")
	}
	if cfg.Converter.MaxDepth != 3 {
		t.Errorf("MaxDepth = %d, want 3", cfg.Converter.MaxDepth)
	}
	if cfg.NuGet.PackageSource != "https://feed.example/v3/index.json" {
		t.Errorf("PackageSource = %q", cfg.NuGet.PackageSource)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig(newViper(), filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("loadConfig(missing) error = %v, want INVALID_CONFIG", err)
	}
}

func TestConvertFlagsOverrideConfig(t *testing.T) {
	path := writeFile(t, "nugetnpm.yaml", "converter:\n  packageDirectory: from-file\n")

	v := newViper()
	cmd := &cobra.Command{Use: "convert"}
	addConvertFlags(cmd, v)
	if err := cmd.Flags().Parse([]string{"--out", "from-flag", "--recursive=false", "--framework", "net45,netstandard1.3"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(v, path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Converter.PackageDirectory != "from-flag" {
		t.Errorf("PackageDirectory = %q, want from-flag", cfg.Converter.PackageDirectory)
	}
	if cfg.Converter.Recursive {
		t.Error("Recursive should be false")
	}
	if want := []string{"net45", "netstandard1.3"}; !reflect.DeepEqual(cfg.Converter.AllowedFrameworks, want) {
		t.Errorf("AllowedFrameworks = %v, want %v", cfg.Converter.AllowedFrameworks, want)
	}
}

func TestConfigRoot(t *testing.T) {
	tests := []struct {
		name    string
		pkg     string
		version string
		code    errors.Code
	}{
		{"valid", "Contoso.Core", "1.2", ""},
		{"missing package", "", "1.0.0", errors.ErrCodeInvalidConfig},
		{"unsafe package", "../evil", "1.0.0", errors.ErrCodeInvalidConfig},
		{"missing version", "Contoso.Core", "", errors.ErrCodeInvalidConfig},
		{"bad version", "Contoso.Core", "not-a-version", errors.ErrCodeInvalidVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{TargetPackage: tt.pkg, TargetPackageVersion: tt.version}
			id, err := cfg.Root()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("Root() error: %v", err)
				}
				if id.String() != "Contoso.Core@1.2.0" {
					t.Errorf("Root() = %s", id)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Root() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestConfigOptionsRulesFile(t *testing.T) {
	rulesPath := writeFile(t, "rules.toml", `
template = "@nuget/{0}"
exclude_patterns = ["System.*"]

[mappings]
"Newtonsoft.Json" = "json"
`)

	cfg := &Config{
		Converter: ConverterConfig{
			PackageDirectory: "out",
			RulesFile:        rulesPath,
			ExcludedLibraries: ExcludeConfig{
				ByName: []string{"Contoso.Legacy"},
			},
		},
		NuGet: NuGetConfig{PackageSource: nugetclient.DefaultSource},
	}
	opts, err := cfg.Options()
	if err != nil {
		t.Fatalf("Options() error: %v", err)
	}

	if got := opts.Names.Name("Serilog"); got != "@nuget/serilog" {
		t.Errorf("Name(Serilog) = %q", got)
	}
	if got := opts.Names.Name("newtonsoft.json"); got != "json" {
		t.Errorf("Name(newtonsoft.json) = %q", got)
	}
	for _, id := range []string{"System.Memory", "Contoso.Legacy"} {
		if !opts.Filter.IsExcluded(nuget.Dependency{ID: id}) {
			t.Errorf("%s should be excluded", id)
		}
	}
	if opts.Filter.IsExcluded(nuget.Dependency{ID: "Serilog"}) {
		t.Error("Serilog should not be excluded")
	}
}

func TestConfigOptionsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		code   errors.Code
	}{
		{"no package directory", func(c *Config) { c.Converter.PackageDirectory = "" }, errors.ErrCodeInvalidConfig},
		{"placeholders without directory", func(c *Config) { c.Converter.GeneratePlaceholders = true }, errors.ErrCodeInvalidConfig},
		{"bad pattern", func(c *Config) { c.Converter.ExcludedLibraries.ByPattern = []string{"["} }, errors.ErrCodeInvalidConfig},
		{"missing rules file", func(c *Config) { c.Converter.RulesFile = "/nonexistent/rules.toml" }, errors.ErrCodeInvalidConfig},
		{"empty source", func(c *Config) { c.NuGet.PackageSource = "" }, errors.ErrCodeInvalidConfig},
		{"file source", func(c *Config) { c.NuGet.PackageSource = "file:///srv/feed/index.json" }, errors.ErrCodeInvalidConfig},
		{"schemeless source", func(c *Config) { c.NuGet.PackageSource = "api.nuget.org/v3/index.json" }, errors.ErrCodeInvalidInput},
		{"empty framework", func(c *Config) { c.Converter.AllowedFrameworks = []string{"net45", " "} }, errors.ErrCodeInvalidFramework},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Converter: ConverterConfig{PackageDirectory: "out", AllowedFrameworks: []string{"netstandard2.0"}},
				NuGet:     NuGetConfig{PackageSource: nugetclient.DefaultSource},
			}
			if _, err := cfg.Options(); err != nil {
				t.Fatalf("base config invalid: %v", err)
			}

			tt.mutate(cfg)
			_, err := cfg.Options()
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Options() error = %v, want INVALID_CONFIG", err)
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Options() error = %v, want %s", err, tt.code)
			}
		})
	}
}
