package runtimeconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
var ErrConfigNotFound = errors.New("docsite config: file not found")

// Load reads a YAML config file over DefaultConfig and validates the result.
// Relative docs and output dirs are resolved against the file's directory.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}
	if err != nil {
		return Config{}, fmt.Errorf("docsite config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("docsite config: %s: %w", path, err)
	}
	ResolvePaths(&cfg, filepath.Dir(path))
	return cfg, nil
}

// Parse decodes YAML over DefaultConfig and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if len(data) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("decode yaml: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ResolvePaths makes relative docs and output dirs relative to dir.
func ResolvePaths(cfg *Config, dir string) {
	if cfg == nil || dir == "" {
		return
	}
	if cfg.Docs.Dir != "" && !filepath.IsAbs(cfg.Docs.Dir) {
		cfg.Docs.Dir = filepath.Join(dir, cfg.Docs.Dir)
	}
	if cfg.Generator.OutputDir != "" && !filepath.IsAbs(cfg.Generator.OutputDir) {
		cfg.Generator.OutputDir = filepath.Join(dir, cfg.Generator.OutputDir)
	}
}
