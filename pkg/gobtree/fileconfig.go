package gobtree

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig is a YAML-backed declarative form of the same fields the
// fluent Builder exposes, for deployments that prefer to check a config
// file into source control over wiring up Builder calls in code.
type FileConfig struct {
	Path         string `yaml:"path"`
	Degree       int    `yaml:"degree"`
	KeySizeBytes int    `yaml:"key_size_bytes"`
	CacheSize    int    `yaml:"cache_size"`
}

// DefaultFileConfig mirrors the Builder's defaults.
func DefaultFileConfig() *FileConfig {
	return &FileConfig{
		Degree:       defaultDegree,
		KeySizeBytes: defaultKeySizeBytes,
		CacheSize:    defaultCacheSize,
	}
}

// LoadFileConfig reads and parses a FileConfig from configPath.
func LoadFileConfig(configPath string) (*FileConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, newError(IOError, "read config file", err)
	}
	cfg := DefaultFileConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, newError(FormatError, "parse config file", err)
	}
	return cfg, nil
}

// SaveFileConfig writes cfg to configPath as YAML.
func SaveFileConfig(cfg *FileConfig, configPath string) error {
	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return newError(IOError, "create config directory", err)
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return newError(FormatError, "marshal config", err)
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return newError(IOError, "write config file", err)
	}
	return nil
}

// OpenFileConfig builds a tree from cfg, using cmp and valueCodec for the
// parts a declarative file cannot express. A method cannot carry its own
// type parameter, so this takes the FileConfig as a plain argument instead
// of hanging off it.
func OpenFileConfig[T any](cfg *FileConfig, cmp Comparator[T], valueCodec Codec[T]) (*BTree[T], error) {
	if cfg.Path == "" {
		return nil, newError(ConfigError, "open from file config", fmt.Errorf("path is required"))
	}
	b := NewBuilder(cmp, valueCodec).
		Path(cfg.Path).
		Degree(cfg.Degree).
		KeySizeBytes(cfg.KeySizeBytes).
		CacheSize(cfg.CacheSize)
	return b.Open()
}

// OpenFromFile loads configPath and opens the tree it describes.
func OpenFromFile[T any](configPath string, cmp Comparator[T], valueCodec Codec[T]) (*BTree[T], error) {
	cfg, err := LoadFileConfig(configPath)
	if err != nil {
		return nil, err
	}
	return OpenFileConfig(cfg, cmp, valueCodec)
}
