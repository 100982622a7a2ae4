// Package iofs prepares the file system layout of FungiDB: configuration,
// cache and log directories and the default config.yaml.
package iofs

import (
	"bytes"
	_ "embed"
	"errors"
	"io"
	"os"

	"github.com/gnames/fungidb/pkg/config"
	"gopkg.in/yaml.v3"
)

// ConfigYAML is the commented default configuration file.
//
//go:embed config.yaml
var ConfigYAML string

// EnsureDirs creates config, cache and log directories if they are missing.
func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.CacheDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

// EnsureConfigFile writes the default config.yaml if it does not exist yet.
// An existing file is never overwritten, but it has to be a valid YAML
// document that maps to the configuration structure.
func EnsureConfigFile(homeDir string) error {
	configPath := config.ConfigFilePath(homeDir)

	if _, err := os.Stat(configPath); err == nil {
		return CheckConfigFile(configPath)
	}

	if err := os.WriteFile(configPath, []byte(ConfigYAML), 0644); err != nil {
		return CopyFileError(configPath, err)
	}

	return nil
}

// CheckConfigFile decodes the file at path and reports a ConfigTemplateError
// for malformed YAML or fields of the wrong type.
func CheckConfigFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return ReadFileError(path, err)
	}

	var cfg config.Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	err = dec.Decode(&cfg)
	// empty file is fine, defaults apply
	if err != nil && !errors.Is(err, io.EOF) {
		return ConfigTemplateError(path, err)
	}
	return nil
}
