// Package filter decides which dependency edges are dropped from the
// converted graph. A dropped edge is neither written to the parent's
// manifest nor walked.
package filter

import (
	"path"
	"strings"

	"github.com/matzehuels/nugetnpm/pkg/errors"
	"github.com/matzehuels/nugetnpm/pkg/nuget"
)

// Filter is the exclusion policy.
type Filter interface {
	IsExcluded(dep nuget.Dependency) bool
}

// Func adapts a function to Filter.
type Func func(dep nuget.Dependency) bool

// IsExcluded implements Filter.
func (f Func) IsExcluded(dep nuget.Dependency) bool { return f(dep) }

// None excludes nothing.
var None Filter = Func(func(nuget.Dependency) bool { return false })

// IDFilter excludes dependencies by package id.
type IDFilter struct {
	ids map[string]struct{}
}

// ByID excludes every dependency whose id is in ids, regardless of the
// version range. Ids match case-insensitively.
func ByID(ids ...string) *IDFilter {
	f := &IDFilter{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			f.ids[strings.ToLower(id)] = struct{}{}
		}
	}
	return f
}

// IsExcluded implements Filter.
func (f *IDFilter) IsExcluded(dep nuget.Dependency) bool {
	_, ok := f.ids[strings.ToLower(dep.ID)]
	return ok
}

// PatternFilter excludes dependencies whose id matches a glob.
type PatternFilter struct {
	patterns []string
}

// ByPattern excludes ids matching any of the path.Match patterns, e.g.
// "System.*" or "runtime.*.Microsoft.*". Matching ignores case.
func ByPattern(patterns ...string) (*PatternFilter, error) {
	f := &PatternFilter{}
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if _, err := path.Match(p, ""); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "exclude pattern %q", p)
		}
		f.patterns = append(f.patterns, p)
	}
	return f, nil
}

// IsExcluded implements Filter.
func (f *PatternFilter) IsExcluded(dep nuget.Dependency) bool {
	id := strings.ToLower(dep.ID)
	for _, p := range f.patterns {
		if ok, _ := path.Match(p, id); ok {
			return true
		}
	}
	return false
}

// AnyOf excludes a dependency when at least one of filters does.
type AnyOf []Filter

// Any combines filters; nil entries are skipped.
func Any(filters ...Filter) AnyOf {
	out := make(AnyOf, 0, len(filters))
	for _, f := range filters {
		if f != nil {
			out = append(out, f)
		}
	}
	return out
}

// IsExcluded implements Filter.
func (a AnyOf) IsExcluded(dep nuget.Dependency) bool {
	for _, f := range a {
		if f.IsExcluded(dep) {
			return true
		}
	}
	return false
}
