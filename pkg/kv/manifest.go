package kv

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/coolbeans/bdlex/pkg/manifest"
)

// ManifestKey is the fixed key the corpus manifest is stored under.
const ManifestKey = "manifest.json"

// LoadManifest reads the manifest from the store. A store with no
// manifest yet yields a fresh empty one stamped with now.
func LoadManifest(store Store, now time.Time) (manifest.Manifest, error) {
	data, err := store.Get(ManifestKey)
	if err == ErrKeyNotFound {
		return manifest.New(now), nil
	}
	if err != nil {
		return manifest.Manifest{}, fmt.Errorf("load manifest: %w", err)
	}

	var m manifest.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return manifest.Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	if m.Acts == nil {
		m.Acts = make(map[string]manifest.Entry)
	}
	if m.Volumes == nil {
		m.Volumes = make(map[string]manifest.VolumeRecord)
	}
	if m.VersionHistory == nil {
		m.VersionHistory = make(map[string][]manifest.ArchivedEntry)
	}
	return m, nil
}

// SaveManifest writes the manifest to the store as indented JSON.
func SaveManifest(store Store, m manifest.Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := store.Set(ManifestKey, data); err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}
	return nil
}
