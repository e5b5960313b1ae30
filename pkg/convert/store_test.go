package convert

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_WriteReadExists(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := NewStore(root)

	ok, err := s.Exists(ctx, "A@1.0.0/package.json")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.WriteFile(ctx, "A@1.0.0/package.json", []byte("{}\n")))
	require.NoError(t, s.WriteStream(ctx, "A@1.0.0/lib/net6.0/A.dll", strings.NewReader("dll")))

	ok, err = s.Exists(ctx, "A@1.0.0/package.json")
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := s.ReadFile(ctx, "A@1.0.0/lib/net6.0/A.dll")
	require.NoError(t, err)
	assert.Equal(t, "dll", string(data))

	onDisk, err := os.ReadFile(filepath.Join(root, "A@1.0.0", "package.json"))
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(onDisk))
}

func TestStore_URL(t *testing.T) {
	assert.Equal(t, "mem://localhost/out/A@1.0.0/package.json",
		NewStore("mem://localhost/out/").URL("A@1.0.0/package.json"))

	s := NewStore("relative/out")
	assert.True(t, filepath.IsAbs(s.Root()))
	assert.Equal(t, filepath.Join(s.Root(), "A@1.0.0", "package.json"), s.URL("A@1.0.0/package.json"))
}
