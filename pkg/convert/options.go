package convert

import (
	"github.com/matzehuels/nugetnpm/pkg/errors"
	"github.com/matzehuels/nugetnpm/pkg/filter"
	"github.com/matzehuels/nugetnpm/pkg/names"
	"github.com/matzehuels/nugetnpm/pkg/npm"
	"github.com/matzehuels/nugetnpm/pkg/nuget"
)

// DefaultMaxDepth bounds recursion when Options.MaxDepth is unset.
const DefaultMaxDepth = 50

// Options configures a conversion. It is built once per run and not
// modified afterwards.
type Options struct {
	Names                npm.NameMapper      // Name mapper chain (default: lower-cased id)
	Filter               filter.Filter       // Excluded dependencies (default: none)
	Ranges               npm.RangeTranslator // Version range rendering
	AllowedFrameworks    []nuget.Framework   // Dependency group preference, in order
	PackageDir           string              // Output root (local path or afs URL)
	PlaceholderDir       string              // Manifest-only output root
	GeneratePlaceholders bool                // Also write manifests to PlaceholderDir
	PreserveExisting     bool                // Skip nodes whose manifest already exists
	Recursive            bool                // Walk dependencies
	MaxDepth             int                 // Recursion limit (default: 50)
	ManifestName         string              // Manifest file name (default: package.json)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Names == nil {
		chain, _ := names.Combined(names.Default(""))
		opts.Names = chain
	}
	if opts.Filter == nil {
		opts.Filter = filter.None
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.ManifestName == "" {
		opts.ManifestName = npm.ManifestFile
	}
	return opts
}

// Validate reports configuration errors. It expects defaults applied.
func (o Options) Validate() error {
	if o.PackageDir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "package directory is required")
	}
	if o.GeneratePlaceholders && o.PlaceholderDir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "placeholder directory is required when placeholders are enabled")
	}
	if err := errors.ValidateManifestFilename(o.ManifestName); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "manifest name")
	}
	return nil
}
