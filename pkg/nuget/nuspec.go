package nuget

import (
	"encoding/xml"
	"strings"

	"github.com/matzehuels/nugetnpm/pkg/errors"
)

// Nuspec is the package manifest shipped inside every .nupkg and served by
// the flat container endpoint.
type Nuspec struct {
	Identity Identity
	Metadata Metadata
	Groups   []DependencyGroup
}

// Element names are matched without namespace since the nuspec schema URI
// changed between NuGet releases.
type nuspecXML struct {
	Metadata struct {
		ID           string `xml:"id"`
		Version      string `xml:"version"`
		Authors      string `xml:"authors"`
		Description  string `xml:"description"`
		ProjectURL   string `xml:"projectUrl"`
		Tags         string `xml:"tags"`
		Dependencies struct {
			Groups []struct {
				TargetFramework string          `xml:"targetFramework,attr"`
				Dependencies    []dependencyXML `xml:"dependency"`
			} `xml:"group"`
			Flat []dependencyXML `xml:"dependency"`
		} `xml:"dependencies"`
	} `xml:"metadata"`
}

type dependencyXML struct {
	ID      string `xml:"id,attr"`
	Version string `xml:"version,attr"`
}

// ParseNuspec decodes a nuspec document. A legacy flat <dependencies> list
// becomes a single group for [AnyFramework].
func ParseNuspec(data []byte) (*Nuspec, error) {
	var doc nuspecXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode nuspec")
	}
	m := doc.Metadata

	id, err := NewIdentity(m.ID, m.Version)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "nuspec identity %s", m.ID)
	}
	if id.ID == "" {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "nuspec has no id")
	}

	spec := &Nuspec{
		Identity: id,
		Metadata: Metadata{
			Authors:     strings.TrimSpace(m.Authors),
			Description: strings.TrimSpace(m.Description),
			ProjectURL:  strings.TrimSpace(m.ProjectURL),
			Tags:        SplitTags(m.Tags),
		},
	}

	for _, g := range m.Dependencies.Groups {
		deps, err := parseDependencies(g.Dependencies)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "nuspec %s", id)
		}
		spec.Groups = append(spec.Groups, DependencyGroup{
			Framework:    ParseFramework(g.TargetFramework),
			Dependencies: deps,
		})
	}
	if len(m.Dependencies.Flat) > 0 {
		deps, err := parseDependencies(m.Dependencies.Flat)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "nuspec %s", id)
		}
		spec.Groups = append(spec.Groups, DependencyGroup{Framework: AnyFramework, Dependencies: deps})
	}
	return spec, nil
}

func parseDependencies(in []dependencyXML) ([]Dependency, error) {
	out := make([]Dependency, 0, len(in))
	for _, d := range in {
		r, err := ParseVersionRange(d.Version)
		if err != nil {
			return nil, err
		}
		out = append(out, Dependency{ID: strings.TrimSpace(d.ID), Range: r})
	}
	return out, nil
}

// DependencyInfo returns the dependency view of the nuspec.
func (n *Nuspec) DependencyInfo() *DependencyInfo {
	return &DependencyInfo{Identity: n.Identity, Groups: n.Groups}
}
