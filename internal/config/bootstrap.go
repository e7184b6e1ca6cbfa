package config

import (
	"errors"
	"os"
	"path/filepath"
)

const FileName = "config.yml"

// EnsureUserConfig writes Default() to <dataDir>/config.yml unless a config
// already exists there. created reports whether a new file was written.
func EnsureUserConfig(dataDir string) (path string, created bool, err error) {
	path = filepath.Join(dataDir, FileName)

	_, err = os.Stat(path)
	if err == nil {
		return path, false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", false, err
	}

	if err := SaveAtomic(path, Default()); err != nil {
		return "", false, err
	}
	return path, true, nil
}

// LoadFromDir loads <dataDir>/config.yml, falling back to Default() when the
// file does not exist.
func LoadFromDir(dataDir string) (Config, string, error) {
	path := filepath.Join(dataDir, FileName)
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), "", nil
	}
	if err != nil {
		return cfg, path, err
	}
	return cfg, path, nil
}
