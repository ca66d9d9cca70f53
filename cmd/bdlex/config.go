package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/coolbeans/bdlex/pkg/kv"
	"github.com/coolbeans/bdlex/pkg/manifest"
)

// DefaultConfigFile is looked up in the working directory when no
// explicit --config is given.
const DefaultConfigFile = ".bdlex.yaml"

// Config is the optional tool configuration.
type Config struct {
	// Store selects the persistence backend: "file" or "badger".
	Store string `yaml:"store"`

	// StorePath is the backend's directory.
	StorePath string `yaml:"store_path"`

	// HashAlgorithm selects the content hash: "sha256" or "blake3".
	HashAlgorithm string `yaml:"hash_algorithm"`

	// DefaultLanguage tags extractions that carry no --language flag.
	DefaultLanguage string `yaml:"default_language"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Store:           "file",
		StorePath:       ".bdlex",
		HashAlgorithm:   "sha256",
		DefaultLanguage: string(manifest.LanguageBengali),
	}
}

// LoadConfig reads a yaml config file, layering it over the defaults.
// An absent default file is not an error; an explicitly named one is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// openStore opens the configured persistence backend.
func openStore(cfg Config) (kv.Store, error) {
	switch cfg.Store {
	case "", "file":
		return kv.OpenFileStore(cfg.StorePath)
	case "badger":
		return kv.OpenBadger(kv.DefaultBadgerConfig(cfg.StorePath))
	default:
		return nil, fmt.Errorf("unknown store backend %q (want file or badger)", cfg.Store)
	}
}

// loadManifest opens the store and reads the manifest from it.
func loadManifest(cfg Config) (kv.Store, manifest.Manifest, error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, manifest.Manifest{}, err
	}
	m, err := kv.LoadManifest(store, time.Now().UTC())
	if err != nil {
		store.Close()
		return nil, manifest.Manifest{}, err
	}
	return store, m, nil
}
