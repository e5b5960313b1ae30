package nuget

import (
	"archive/zip"
	"bytes"
	"io"
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/matzehuels/nugetnpm/pkg/errors"
)

// FrameworkItems lists the archive paths of one lib/<tfm> folder.
type FrameworkItems struct {
	Framework Framework
	Items     []string
}

// PackageReader exposes the library content of a package archive.
type PackageReader interface {
	// LibItems groups files under lib/ by target framework.
	LibItems() []FrameworkItems
	// Open opens an archive path returned by LibItems.
	Open(name string) (io.ReadCloser, error)
}

// ZipReader reads a .nupkg held in memory.
type ZipReader struct {
	files map[string]*zip.File
	lib   []FrameworkItems
}

// OpenPackage reads the zip directory of a .nupkg.
func OpenPackage(data []byte) (*ZipReader, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPackage, err, "open package archive")
	}

	r := &ZipReader{files: make(map[string]*zip.File, len(zr.File))}
	groups := make(map[string]*FrameworkItems)
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := unescape(f.Name)
		r.files[name] = f

		rest, ok := strings.CutPrefix(name, "lib/")
		if !ok {
			continue
		}
		fw := AnyFramework
		if folder, _, nested := strings.Cut(rest, "/"); nested {
			fw = ParseFramework(folder)
		}
		g, ok := groups[fw.String()]
		if !ok {
			g = &FrameworkItems{Framework: fw}
			groups[fw.String()] = g
		}
		g.Items = append(g.Items, name)
	}

	for _, k := range slices.Sorted(maps.Keys(groups)) {
		g := groups[k]
		slices.Sort(g.Items)
		r.lib = append(r.lib, *g)
	}
	return r, nil
}

// LibItems implements PackageReader.
func (r *ZipReader) LibItems() []FrameworkItems { return r.lib }

// Open implements PackageReader.
func (r *ZipReader) Open(name string) (io.ReadCloser, error) {
	f, ok := r.files[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidPath, "%s not in archive", name)
	}
	return f.Open()
}

// unescape decodes the percent-encoding NuGet applies to archive entry
// names ("a%2Bb.dll" for "a+b.dll").
func unescape(name string) string {
	if !strings.Contains(name, "%") {
		return name
	}
	if u, err := url.PathUnescape(name); err == nil {
		return u
	}
	return name
}
