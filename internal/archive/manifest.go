package archive

import (
	"encoding/json"
	"fmt"
	"io"
)

// ManifestName is the bundle entry holding the manifest.
const ManifestName = "manifest.json"

// Manifest describes the documents in a bundle.
type Manifest struct {
	Title   string          `json:"title,omitempty"`
	Sources []ManifestEntry `json:"sources,omitempty"`
}

// ManifestEntry names the version carried by one bundle file.
type ManifestEntry struct {
	Path string `json:"path"`
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Lookup returns the entry for a bundle file.
func (m *Manifest) Lookup(path string) (ManifestEntry, bool) {
	if m == nil {
		return ManifestEntry{}, false
	}
	for _, e := range m.Sources {
		if e.Path == path {
			return e, true
		}
	}
	return ManifestEntry{}, false
}

// ReadManifest reads manifest.json from the bundle. A bundle without one
// returns nil and no error.
func ReadManifest(bundlePath string) (*Manifest, error) {
	var m *Manifest
	err := Walk(bundlePath, func(name string, r io.Reader) (bool, error) {
		if name != ManifestName {
			return false, nil
		}
		m = &Manifest{}
		if err := json.NewDecoder(r).Decode(m); err != nil {
			return true, fmt.Errorf("decode manifest: %w", err)
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}
