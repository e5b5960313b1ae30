package npm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/nugetnpm/pkg/names"
	"github.com/matzehuels/nugetnpm/pkg/nuget"
)

func TestManifest_MarshalFieldOrder(t *testing.T) {
	m := &Manifest{Name: "@nuget/a", DisplayName: "A", Version: "1.0.0"}
	data, err := m.Marshal()
	require.NoError(t, err)

	want := `{
  "name": "@nuget/a",
  "displayName": "A",
  "version": "1.0.0",
  "dependencies": {},
  "description": "",
  "author": "",
  "homepage": "",
  "keywords": []
}
`
	assert.Equal(t, want, string(data))
}

func TestManifest_RoundTripUnicode(t *testing.T) {
	m := &Manifest{
		Name:         "@nuget/ünï",
		DisplayName:  "Ünï",
		Version:      "1.0.0-β",
		Dependencies: map[string]string{"@nuget/b": ">=1.0.0 <2.0.0"},
		Description:  "日本語 <tags> & \"quotes\"\n",
		Author:       "Jürgen, 李",
		Homepage:     "https://example.com/?a=1&b=2",
		Keywords:     []string{"émoji-🎉", "plain"},
	}
	data, err := m.Marshal()
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "日本語 <tags> &"))

	back, err := ReadManifest(data)
	require.NoError(t, err)
	assert.Equal(t, m, back)

	_, err = ReadManifest([]byte("{"))
	assert.Error(t, err)
}

func TestBuilder_Build(t *testing.T) {
	chain, err := names.Combined(
		names.Custom(map[string]string{"B": "@vendor/{0}"}),
		names.Default("@nuget/{0}"),
	)
	require.NoError(t, err)

	id, err := nuget.NewIdentity("A", "1.0")
	require.NoError(t, err)

	b := &Builder{Names: chain}
	m := b.Build(id, nuget.Metadata{
		Authors:     "Someone",
		Description: "desc",
		ProjectURL:  "https://a.example",
		Tags:        []string{"x", "y"},
	}, []nuget.Dependency{
		{ID: "B", Range: mustRange(t, "[1.2.0,2.0.0)")},
		{ID: "Cee", Range: mustRange(t, "")},
	})

	assert.Equal(t, "@nuget/a", m.Name)
	assert.Equal(t, "A", m.DisplayName)
	assert.Equal(t, "1.0.0", m.Version)
	assert.Equal(t, "Someone", m.Author)
	assert.Equal(t, "https://a.example", m.Homepage)
	assert.Equal(t, []string{"x", "y"}, m.Keywords)
	assert.Equal(t, map[string]string{
		"@vendor/B":  ">=1.2.0 <2.0.0",
		"@nuget/cee": "",
	}, m.Dependencies)
}

func TestBuilder_EmptyMetadata(t *testing.T) {
	id, err := nuget.NewIdentity("A", "1.0")
	require.NoError(t, err)

	m := (&Builder{Names: plainNames(t)}).Build(id, nuget.Metadata{}, nil)
	assert.NotNil(t, m.Keywords)
	assert.Empty(t, m.Keywords)
	assert.Empty(t, m.Dependencies)
	assert.Equal(t, "", m.Description)
}

func TestBuilder_DuplicateNameLaterWins(t *testing.T) {
	id, err := nuget.NewIdentity("A", "1.0")
	require.NoError(t, err)

	var dups []string
	b := &Builder{
		Names:  plainNames(t),
		Ranges: RangeTranslator{MinAsExact: true},
		OnDuplicate: func(name string, first, second nuget.Dependency) {
			dups = append(dups, name+":"+first.ID+"->"+second.ID)
		},
	}
	m := b.Build(id, nuget.Metadata{}, []nuget.Dependency{
		{ID: "Dup", Range: mustRange(t, "1.0")},
		{ID: "Other", Range: mustRange(t, "3.0")},
		{ID: "DUP", Range: mustRange(t, "2.0")},
	})

	assert.Equal(t, map[string]string{"dup": "2.0.0", "other": "3.0.0"}, m.Dependencies)
	assert.Equal(t, []string{"dup:Dup->DUP"}, dups)
}

func plainNames(t *testing.T) *names.Chain {
	t.Helper()
	c, err := names.Combined(names.Default(""))
	require.NoError(t, err)
	return c
}
