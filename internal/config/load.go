package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/docwiki/internal/foundation/errors"
)

// envFiles are loaded (if present) before the configuration is expanded.
var envFiles = []string{".env", ".env.local"}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, derrors.NotFoundError("configuration file not found").
			WithContext("path", configPath).
			Build()
	}
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "read configuration file").
			WithContext("path", configPath).
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.source = configPath
	cfg.resolvePaths(filepath.Dir(configPath))

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes configuration bytes on top of Default. Environment variables
// are expanded first. Unknown keys are rejected. Paths are left as written.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "decode configuration").
			Fatal().
			UserAction().
			Build()
	}
	applyDefaults(cfg)
	return cfg, nil
}

// resolvePaths makes relative input paths relative to the configuration file.
// The output directory stays relative to the working directory, like --output.
func (c *Config) resolvePaths(baseDir string) {
	if c.ContextDirectory == "" {
		c.ContextDirectory = baseDir
	} else if !filepath.IsAbs(c.ContextDirectory) {
		c.ContextDirectory = filepath.Join(baseDir, c.ContextDirectory)
	}
	if c.Modules != "" && !filepath.IsAbs(c.Modules) {
		c.Modules = filepath.Join(baseDir, c.Modules)
	}
	if c.Metrics.Textfile != "" && !filepath.IsAbs(c.Metrics.Textfile) {
		c.Metrics.Textfile = filepath.Join(baseDir, c.Metrics.Textfile)
	}
}

// loadEnvFiles loads .env/.env.local from the working directory.
// Existing process environment variables are not overwritten.
func loadEnvFiles() error {
	present := make([]string, 0, len(envFiles))
	for _, name := range envFiles {
		if _, err := os.Stat(name); err == nil {
			present = append(present, name)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return derrors.WrapError(err, derrors.CategoryConfig, "load environment file").
			Fatal().
			UserAction().
			Build()
	}
	return nil
}
