package nuget

import (
	"slices"
	"strings"
)

// Identity uniquely identifies a package version. Ids compare
// case-insensitively, as they do on every NuGet feed.
type Identity struct {
	ID      string  `json:"id"`
	Version Version `json:"version"`
}

// NewIdentity parses version and returns the identity.
func NewIdentity(id, version string) (Identity, error) {
	v, err := ParseVersion(version)
	if err != nil {
		return Identity{}, err
	}
	return Identity{ID: strings.TrimSpace(id), Version: v}, nil
}

// Key is the visit key for i: lower-cased id, "@", normalized version.
func (i Identity) Key() string {
	return strings.ToLower(i.ID) + "@" + i.Version.String()
}

// Dir is the output directory name for i. It keeps the registry's id
// casing, matching "<id>@<version>".
func (i Identity) Dir() string {
	return i.ID + "@" + i.Version.String()
}

// String implements fmt.Stringer.
func (i Identity) String() string { return i.Dir() }

// Equal reports whether i and o name the same package version.
func (i Identity) Equal(o Identity) bool {
	return strings.EqualFold(i.ID, o.ID) && i.Version.Equal(o.Version)
}

// Dependency is one edge of the graph: the parent requires ID within Range.
type Dependency struct {
	ID    string       `json:"id"`
	Range VersionRange `json:"range"`
}

// DependencyGroup is the dependency set declared for one target framework.
type DependencyGroup struct {
	Framework    Framework    `json:"framework"`
	Dependencies []Dependency `json:"dependencies"`
}

// DependencyInfo is what the registry knows about a package's dependencies.
// Groups keep the declaration order of the package.
type DependencyInfo struct {
	Identity Identity          `json:"identity"`
	Groups   []DependencyGroup `json:"groups"`
}

// SelectGroup returns the first group, in declaration order, whose
// framework appears in allowed. It returns false when nothing matches.
func (d *DependencyInfo) SelectGroup(allowed []Framework) (DependencyGroup, bool) {
	for _, g := range d.Groups {
		if slices.ContainsFunc(allowed, g.Framework.Equal) {
			return g, true
		}
	}
	return DependencyGroup{}, false
}

// Metadata is the descriptive part of a package. Missing fields are empty.
type Metadata struct {
	Authors     string   `json:"authors,omitempty"`
	Description string   `json:"description,omitempty"`
	ProjectURL  string   `json:"projectUrl,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// SplitTags splits a nuspec tag string. Tags are separated by whitespace
// or commas; empty entries are dropped and order is kept.
func SplitTags(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}
