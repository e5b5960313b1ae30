package npm

import (
	"bytes"
	"encoding/json"

	"github.com/matzehuels/nugetnpm/pkg/errors"
)

// ManifestFile is the default manifest file name.
const ManifestFile = "package.json"

// Manifest is the package.json written for every converted package.
// Field order is the serialized order.
type Manifest struct {
	Name         string            `json:"name"`
	DisplayName  string            `json:"displayName"`
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies"`
	Description  string            `json:"description"`
	Author       string            `json:"author"`
	Homepage     string            `json:"homepage"`
	Keywords     []string          `json:"keywords"`
}

// Marshal encodes m as indented UTF-8 JSON with a trailing newline.
// Non-ASCII text and HTML characters are written verbatim.
func (m *Manifest) Marshal() ([]byte, error) {
	out := *m
	if out.Dependencies == nil {
		out.Dependencies = map[string]string{}
	}
	if out.Keywords == nil {
		out.Keywords = []string{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode manifest %s", m.Name)
	}
	return buf.Bytes(), nil
}

// ReadManifest decodes a manifest written by [Manifest.Marshal].
func ReadManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode manifest")
	}
	return &m, nil
}
