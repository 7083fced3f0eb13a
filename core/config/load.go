package config

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load loads the configuration from the directory.
func Load(path string) (*Configuration, error) {
	return load(afero.NewOsFs(), path)
}

// configDir resolves path to the absolute configuration directory.
func configDir(path string) string {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}
	// BasePathFs needs a rooted path to contain its files.
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path
}

func load(base afero.Fs, path string) (*Configuration, error) {
	configFs := afero.NewBasePathFs(base, configDir(path))
	configContents, err := afero.ReadFile(configFs, ConfigurationName)
	if err != nil {
		return nil, err
	}
	var out Configuration
	if err := yaml.UnmarshalStrict(configContents, &out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	out.configFs = configFs
	return &out, nil
}

// LoadOrDefault loads the configuration from the directory, falling back to
// the built-in defaults if there is no configuration file there.
func LoadOrDefault(path string) (*Configuration, error) {
	return loadOrDefault(afero.NewOsFs(), path)
}

func loadOrDefault(base afero.Fs, path string) (*Configuration, error) {
	cfg, err := load(base, path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = defaultConfig()
		cfg.configFs = afero.NewBasePathFs(base, configDir(path))
		return cfg, nil
	}
	return cfg, err
}
