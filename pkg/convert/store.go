package convert

import (
	"bytes"
	"context"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
)

// Store writes the output tree below a root. The root is a local path or
// any URL the afs service understands (file://, mem://, s3://, ...).
type Store struct {
	fs   afs.Service
	root string
}

// NewStore returns a store rooted at root. Relative local paths are made
// absolute against the working directory.
func NewStore(root string) *Store {
	if !strings.Contains(root, "://") {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
	}
	return &Store{fs: afs.New(), root: root}
}

// Root returns the store root.
func (s *Store) Root() string { return s.root }

// URL returns the location of the slash-separated relative path rel.
func (s *Store) URL(rel string) string {
	if strings.Contains(s.root, "://") {
		return strings.TrimRight(s.root, "/") + "/" + strings.TrimLeft(rel, "/")
	}
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

// Exists reports whether rel exists.
func (s *Store) Exists(ctx context.Context, rel string) (bool, error) {
	return s.fs.Exists(ctx, s.URL(rel))
}

// WriteFile writes data to rel, creating parent directories.
func (s *Store) WriteFile(ctx context.Context, rel string, data []byte) error {
	return s.WriteStream(ctx, rel, bytes.NewReader(data))
}

// WriteStream copies r to rel, creating parent directories.
func (s *Store) WriteStream(ctx context.Context, rel string, r io.Reader) error {
	if dir := path.Dir(rel); dir != "." {
		// Upload reports the real failure if the directory cannot be made.
		_ = s.fs.Create(ctx, s.URL(dir), 0o755, true)
	}
	return s.fs.Upload(ctx, s.URL(rel), 0o644, r)
}

// ReadFile returns the content of rel.
func (s *Store) ReadFile(ctx context.Context, rel string) ([]byte, error) {
	return s.fs.DownloadWithURL(ctx, s.URL(rel))
}
