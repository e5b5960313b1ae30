package cli

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/nugetnpm/pkg/convert"
	"github.com/matzehuels/nugetnpm/pkg/errors"
	"github.com/matzehuels/nugetnpm/pkg/npm"
	"github.com/matzehuels/nugetnpm/pkg/nuget"
	"github.com/matzehuels/nugetnpm/pkg/rules"

	nugetclient "github.com/matzehuels/nugetnpm/pkg/integrations/nuget"
)

// envPrefix prefixes environment overrides: NUGETNPM_CONVERTER_RECURSIVE=false.
const envPrefix = "NUGETNPM"

// defaultCacheTTL bounds how long registry responses are reused.
const defaultCacheTTL = 24 * time.Hour

// Config is the effective configuration of one run. It is loaded once and
// not modified afterwards.
type Config struct {
	TargetPackage        string          `mapstructure:"targetPackage" yaml:"targetPackage"`
	TargetPackageVersion string          `mapstructure:"targetPackageVersion" yaml:"targetPackageVersion"`
	Converter            ConverterConfig `mapstructure:"converter" yaml:"converter"`
	NuGet                NuGetConfig     `mapstructure:"nuget" yaml:"nuget"`
	Cache                CacheConfig     `mapstructure:"cache" yaml:"cache"`
}

// ConverterConfig holds the conversion settings.
type ConverterConfig struct {
	AllowedFrameworks        []string          `mapstructure:"allowedFrameworks" yaml:"allowedFrameworks"`
	PackageDirectory         string            `mapstructure:"packageDirectory" yaml:"packageDirectory"`
	PlaceholderDirectory     string            `mapstructure:"placeholderDirectory" yaml:"placeholderDirectory"`
	GeneratePlaceholders     bool              `mapstructure:"generatePlaceholders" yaml:"generatePlaceholders"`
	PreserveExistingPackages bool              `mapstructure:"preserveExistingPackages" yaml:"preserveExistingPackages"`
	Recursive                bool              `mapstructure:"recursive" yaml:"recursive"`
	UseMinVersionAsExact     bool              `mapstructure:"useMinVersionAsExact" yaml:"useMinVersionAsExact"`
	NameMapping              string            `mapstructure:"nameMapping" yaml:"nameMapping"`
	CustomNameMappings       map[string]string `mapstructure:"-" yaml:"customNameMappings,omitempty"`
	ExcludedLibraries        ExcludeConfig     `mapstructure:"excludedLibraries" yaml:"excludedLibraries"`
	RulesFile                string            `mapstructure:"rulesFile" yaml:"rulesFile,omitempty"`
	MaxDepth                 int               `mapstructure:"maxDepth" yaml:"maxDepth"`
}

// ExcludeConfig lists dependencies dropped from manifests and the walk.
type ExcludeConfig struct {
	ByName    []string `mapstructure:"byName" yaml:"byName"`
	ByPattern []string `mapstructure:"byPattern" yaml:"byPattern"`
}

// NuGetConfig selects the package feed.
type NuGetConfig struct {
	PackageSource string `mapstructure:"packageSource" yaml:"packageSource"`
}

// CacheConfig configures the registry response cache.
type CacheConfig struct {
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl"`
	RedisURL string        `mapstructure:"redisUrl" yaml:"redisUrl,omitempty"`
}

// =============================================================================
// Loading
// =============================================================================

// newViper returns a viper instance with defaults and environment overrides.
// Every key has a default so AutomaticEnv can resolve it during Unmarshal.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("targetPackage", "")
	v.SetDefault("targetPackageVersion", "")
	v.SetDefault("converter.allowedFrameworks", []string{"netstandard2.0", "any"})
	v.SetDefault("converter.packageDirectory", "packages")
	v.SetDefault("converter.placeholderDirectory", "")
	v.SetDefault("converter.generatePlaceholders", false)
	v.SetDefault("converter.preserveExistingPackages", false)
	v.SetDefault("converter.recursive", true)
	v.SetDefault("converter.useMinVersionAsExact", false)
	v.SetDefault("converter.nameMapping", "")
	v.SetDefault("converter.excludedLibraries.byName", []string{})
	v.SetDefault("converter.excludedLibraries.byPattern", []string{})
	v.SetDefault("converter.rulesFile", "")
	v.SetDefault("converter.maxDepth", convert.DefaultMaxDepth)
	v.SetDefault("nuget.packageSource", nugetclient.DefaultSource)
	v.SetDefault("cache.ttl", defaultCacheTTL)
	v.SetDefault("cache.redisUrl", "")
	return v
}

// loadConfig reads the config file (explicit path, or nugetnpm.* in the
// working directory when present) and decodes the merged settings.
func loadConfig(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(appName)
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !stderrors.As(err, &notFound) {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	// Package ids contain dots, which viper splits on; read the table whole.
	cfg.Converter.CustomNameMappings = v.GetStringMapString("converter.customNameMappings")
	return &cfg, nil
}

// bindFlags binds command flags to configuration keys. Flags only take
// precedence when set on the command line.
func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) error {
	for name, key := range keys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			return fmt.Errorf("unknown flag %q", name)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Conversion
// =============================================================================

// Root returns the identity of the package to convert.
func (c *Config) Root() (nuget.Identity, error) {
	if c.TargetPackage == "" {
		return nuget.Identity{}, errors.New(errors.ErrCodeInvalidConfig, "target package is required")
	}
	if err := errors.ValidatePackageID(c.TargetPackage); err != nil {
		return nuget.Identity{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "target package")
	}
	if c.TargetPackageVersion == "" {
		return nuget.Identity{}, errors.New(errors.ErrCodeInvalidConfig, "target package version is required")
	}
	return nuget.NewIdentity(c.TargetPackage, c.TargetPackageVersion)
}

// Rules merges the rules file, if any, with the naming and exclusion
// settings. Configuration entries override the file.
func (c *Config) Rules() (*rules.Rules, error) {
	var file *rules.Rules
	if c.Converter.RulesFile != "" {
		r, err := rules.Load(c.Converter.RulesFile)
		if err != nil {
			return nil, err
		}
		file = r
	}
	return rules.Merge(file, &rules.Rules{
		Template:        c.Converter.NameMapping,
		Mappings:        c.Converter.CustomNameMappings,
		Exclude:         c.Converter.ExcludedLibraries.ByName,
		ExcludePatterns: c.Converter.ExcludedLibraries.ByPattern,
	}), nil
}

// Options converts the configuration into validated converter options.
func (c *Config) Options() (convert.Options, error) {
	r, err := c.Rules()
	if err != nil {
		return convert.Options{}, err
	}
	mapper, err := r.Mapper()
	if err != nil {
		return convert.Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "name mapping")
	}
	excluded, err := r.Filter()
	if err != nil {
		return convert.Options{}, err
	}

	if err := errors.ValidateURL(c.NuGet.PackageSource); err != nil {
		return convert.Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "nuget.packageSource")
	}

	frameworks := make([]nuget.Framework, 0, len(c.Converter.AllowedFrameworks))
	for i, f := range c.Converter.AllowedFrameworks {
		if strings.TrimSpace(f) == "" {
			return convert.Options{}, errors.Wrap(errors.ErrCodeInvalidConfig,
				errors.New(errors.ErrCodeInvalidFramework, "entry %d is empty", i), "converter.allowedFrameworks")
		}
		frameworks = append(frameworks, nuget.ParseFramework(f))
	}

	opts := convert.Options{
		Names:                mapper,
		Filter:               excluded,
		Ranges:               npm.RangeTranslator{MinAsExact: c.Converter.UseMinVersionAsExact},
		AllowedFrameworks:    frameworks,
		PackageDir:           c.Converter.PackageDirectory,
		PlaceholderDir:       c.Converter.PlaceholderDirectory,
		GeneratePlaceholders: c.Converter.GeneratePlaceholders,
		PreserveExisting:     c.Converter.PreserveExistingPackages,
		Recursive:            c.Converter.Recursive,
		MaxDepth:             c.Converter.MaxDepth,
	}.WithDefaults()
	if err := opts.Validate(); err != nil {
		return convert.Options{}, err
	}
	return opts, nil
}

// =============================================================================
// Command
// =============================================================================

// configCommand creates the config command, which prints the effective
// configuration.
func (c *CLI) configCommand() *cobra.Command {
	v := newViper()
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Long:  `Print the configuration that convert would use after merging defaults, the config file, NUGETNPM_* environment variables and flags.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, c.configFile)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(cfg)
		},
	}
	addConvertFlags(cmd, v)
	registerConvertCompletions(cmd)
	return cmd
}
