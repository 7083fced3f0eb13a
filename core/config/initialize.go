package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Initialize writes the default configuration to the directory. An existing
// configuration is left alone.
func Initialize(dir string, logger *log.Logger) (*Configuration, error) {
	return initialize(afero.NewOsFs(), dir, logger)
}

func initialize(base afero.Fs, dir string, logger *log.Logger) (*Configuration, error) {
	dir = configDir(dir)
	if err := base.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	configFs := afero.NewBasePathFs(base, dir)
	exists, err := afero.Exists(configFs, ConfigurationName)
	switch {
	case err != nil:
		return nil, err
	case exists:
		logger.Printf("%s already exists, skipping", filepath.Join(dir, ConfigurationName))
	default:
		logger.Printf("writing %s", filepath.Join(dir, ConfigurationName))
		if err := afero.WriteFile(configFs, ConfigurationName, defaultConfigData, 0600); err != nil {
			return nil, fmt.Errorf("couldn't write config: %w", err)
		}
	}

	// Ensure the event log is writable.
	fd, err := configFs.OpenFile(EventLogName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}
	fd.Close()

	return load(base, dir)
}
