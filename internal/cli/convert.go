package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/nugetnpm/pkg/convert"
	"github.com/matzehuels/nugetnpm/pkg/observability"
	"github.com/matzehuels/nugetnpm/pkg/render"

	nugetclient "github.com/matzehuels/nugetnpm/pkg/integrations/nuget"
)

var _ convert.Registry = (*nugetclient.Client)(nil)

// convertFlags holds flags that are not part of the configuration file.
type convertFlags struct {
	noCache  bool
	refresh  bool
	graph    string
	detailed bool
}

// convertFlagKeys maps configuration flags to their keys.
var convertFlagKeys = map[string]string{
	"out":                   "converter.packageDirectory",
	"framework":             "converter.allowedFrameworks",
	"placeholders":          "converter.placeholderDirectory",
	"generate-placeholders": "converter.generatePlaceholders",
	"preserve":              "converter.preserveExistingPackages",
	"recursive":             "converter.recursive",
	"min-as-exact":          "converter.useMinVersionAsExact",
	"name-template":         "converter.nameMapping",
	"exclude":               "converter.excludedLibraries.byName",
	"exclude-pattern":       "converter.excludedLibraries.byPattern",
	"rules":                 "converter.rulesFile",
	"max-depth":             "converter.maxDepth",
	"source":                "nuget.packageSource",
	"cache-ttl":             "cache.ttl",
	"redis-url":             "cache.redisUrl",
}

// addConvertFlags registers the configuration flags on cmd and binds them
// to v.
func addConvertFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.Flags()
	flags.StringP("out", "o", "packages", "output directory (local path or afs URL)")
	flags.StringSliceP("framework", "f", []string{"netstandard2.0", "any"}, "allowed target frameworks, in preference order")
	flags.String("placeholders", "", "placeholder output directory")
	flags.Bool("generate-placeholders", false, "also write manifest-only packages to the placeholder directory")
	flags.Bool("preserve", false, "keep packages whose package.json already exists")
	flags.Bool("recursive", true, "convert dependencies")
	flags.Bool("min-as-exact", false, "pin dependencies to their minimum version")
	flags.String("name-template", "", `npm name template; "{0}" is replaced by the lower-cased id`)
	flags.StringSlice("exclude", nil, "dependency ids to drop")
	flags.StringSlice("exclude-pattern", nil, "glob patterns of dependency ids to drop")
	flags.String("rules", "", "TOML file with name mappings and exclusions")
	flags.Int("max-depth", convert.DefaultMaxDepth, "maximum dependency depth")
	flags.String("source", nugetclient.DefaultSource, "NuGet v3 service index URL")
	flags.Duration("cache-ttl", defaultCacheTTL, "registry response cache lifetime")
	flags.String("redis-url", "", "cache registry responses in Redis instead of on disk")

	cobra.CheckErr(bindFlags(v, cmd, convertFlagKeys))
}

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	v := newViper()
	var f convertFlags

	cmd := &cobra.Command{
		Use:   "convert [package] [version]",
		Short: "Convert a NuGet package and its dependencies to npm packages",
		Long: `Convert a NuGet package and its dependencies to npm packages.

Every visited package version gets <out>/<id>@<version>/package.json plus the
library files of the selected target framework. The package may also be set
with targetPackage and targetPackageVersion in the config file.`,
		Example: `  nugetnpm convert Newtonsoft.Json 13.0.3 -o ./npm
  nugetnpm convert Serilog 3.1.1 --framework netstandard2.0 --exclude NETStandard.Library
  nugetnpm convert Polly 8.2.0 --name-template "@nuget/{0}" --graph polly.svg`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				v.Set("targetPackage", args[0])
			}
			if len(args) > 1 {
				v.Set("targetPackageVersion", args[1])
			}
			cfg, err := loadConfig(v, c.configFile)
			if err != nil {
				return err
			}
			return c.runConvert(cmd.Context(), cfg, f)
		},
	}

	addConvertFlags(cmd, v)
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the registry response cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "refetch registry responses, updating the cache")
	cmd.Flags().StringVar(&f.graph, "graph", "", "write the walked graph to a .dot or .svg file")
	cmd.Flags().BoolVar(&f.detailed, "graph-detailed", false, "include npm names, frameworks and file counts in the graph")
	registerConvertCompletions(cmd)

	return cmd
}

// runConvert performs one conversion run.
func (c *CLI) runConvert(ctx context.Context, cfg *Config, f convertFlags) error {
	root, err := cfg.Root()
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	logger := c.Logger.With("run", uuid.NewString())

	rc, err := newCache(ctx, f.noCache, cfg.Cache.RedisURL)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer rc.Close()

	client := nugetclient.NewClient(rc, cfg.NuGet.PackageSource, cfg.Cache.TTL)
	client.SetRefresh(f.refresh)

	stats := newRunStats(logger)
	observability.SetConvertHooks(stats)
	observability.SetCacheHooks(stats)
	observability.SetHTTPHooks(stats)
	defer observability.Reset()

	conv, err := convert.New(client, opts, logger)
	if err != nil {
		return err
	}

	logger.Info("Converting", "package", root, "source", client.Source(), "out", opts.PackageDir)
	prog := newProgress(logger)
	res, err := conv.Generate(ctx, root)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Converted %d packages", len(res.Nodes)))

	if f.graph != "" {
		if err := render.WriteFile(ctx, f.graph, res, render.Options{Detailed: f.detailed}); err != nil {
			return fmt.Errorf("write graph: %w", err)
		}
	}

	printSummary(res, stats)
	if f.graph != "" {
		printFile(f.graph)
	}
	return nil
}
