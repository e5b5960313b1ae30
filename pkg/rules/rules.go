// Package rules loads naming and exclusion rules from a TOML file.
//
// A rules file keeps long mapping tables out of the main configuration:
//
//	template = "@nuget/{0}"
//	exclude = ["NETStandard.Library"]
//	exclude_patterns = ["System.*", "Microsoft.NETCore.*"]
//
//	[mappings]
//	"Newtonsoft.Json" = "@vendor/json"
//
// Rules from the file are merged with those from configuration; see [Merge].
package rules

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/nugetnpm/pkg/errors"
	"github.com/matzehuels/nugetnpm/pkg/filter"
	"github.com/matzehuels/nugetnpm/pkg/names"
)

// Rules holds naming and exclusion settings.
type Rules struct {
	Template        string            `toml:"template" yaml:"template,omitempty"`
	Mappings        map[string]string `toml:"mappings" yaml:"mappings,omitempty"`
	Exclude         []string          `toml:"exclude" yaml:"exclude,omitempty"`
	ExcludePatterns []string          `toml:"exclude_patterns" yaml:"excludePatterns,omitempty"`
}

// Load reads a rules file.
func Load(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read rules file")
	}
	r, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "rules file %s", path)
	}
	return r, nil
}

// Parse decodes TOML rules. Unknown keys are rejected so typos surface.
func Parse(data []byte) (*Rules, error) {
	var r Rules
	md, err := toml.Decode(string(data), &r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode rules")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown rules keys: %s", strings.Join(keys, ", "))
	}
	return &r, nil
}

// Merge combines rule sets left to right. A later non-empty template wins,
// later mappings override earlier ones and exclusion lists accumulate.
func Merge(sets ...*Rules) *Rules {
	out := &Rules{Mappings: map[string]string{}}
	for _, r := range sets {
		if r == nil {
			continue
		}
		if r.Template != "" {
			out.Template = r.Template
		}
		for k, v := range r.Mappings {
			out.Mappings[k] = v
		}
		out.Exclude = append(out.Exclude, r.Exclude...)
		out.ExcludePatterns = append(out.ExcludePatterns, r.ExcludePatterns...)
	}
	return out
}

// Mapper builds the name mapper chain: per-package mappings first, then the
// default template.
func (r *Rules) Mapper() (*names.Chain, error) {
	return names.Combined(names.Custom(r.Mappings), names.Default(r.Template))
}

// Filter builds the exclusion filter.
func (r *Rules) Filter() (filter.Filter, error) {
	patterns, err := filter.ByPattern(r.ExcludePatterns...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "exclude_patterns")
	}
	return filter.Any(filter.ByID(r.Exclude...), patterns), nil
}
