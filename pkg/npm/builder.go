package npm

import (
	"github.com/matzehuels/nugetnpm/pkg/nuget"
)

// NameMapper maps a NuGet id to an npm package name. It must be total.
type NameMapper interface {
	Name(id string) string
}

// Builder assembles manifests from package data.
type Builder struct {
	Names  NameMapper
	Ranges RangeTranslator

	// OnDuplicate, if set, is called when two dependencies map to the
	// same npm name. The later dependency wins.
	OnDuplicate func(name string, first, second nuget.Dependency)
}

// Build returns the manifest of id. deps must already be filtered.
func (b *Builder) Build(id nuget.Identity, meta nuget.Metadata, deps []nuget.Dependency) *Manifest {
	m := &Manifest{
		Name:         b.Names.Name(id.ID),
		DisplayName:  id.ID,
		Version:      id.Version.String(),
		Dependencies: make(map[string]string, len(deps)),
		Description:  meta.Description,
		Author:       meta.Authors,
		Homepage:     meta.ProjectURL,
		Keywords:     append([]string{}, meta.Tags...),
	}

	seen := make(map[string]nuget.Dependency, len(deps))
	for _, d := range deps {
		name := b.Names.Name(d.ID)
		if prev, dup := seen[name]; dup && b.OnDuplicate != nil {
			b.OnDuplicate(name, prev, d)
		}
		seen[name] = d
		m.Dependencies[name] = b.Ranges.Translate(d.Range)
	}
	return m
}
