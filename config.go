package docsite

import "github.com/goliatone/go-docsite/internal/runtimeconfig"

// Config aggregates the docs site settings.
type Config = runtimeconfig.Config

// DefaultConfig returns defaults that build ./docs into ./build.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML config file. Relative directories are resolved
// against the file's directory.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
