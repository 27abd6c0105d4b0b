package config

import (
	"fmt"
	"log/slog"
	"path"
	"strings"

	derrors "git.home.luguber.info/inful/docwiki/internal/foundation/errors"
)

// Validate checks the configuration for errors that must stop docwiki before
// any file is touched.
func Validate(cfg *Config) error {
	if _, err := ParseLogLevel(cfg.Logging.Level); err != nil {
		return err
	}
	switch cfg.Logging.Format {
	case "text", "json":
	default:
		return derrors.ConfigError("invalid logging format").
			WithContext("format", cfg.Logging.Format).
			Build()
	}
	if strings.ContainsAny(cfg.Renderer.Extension, `/\`) {
		return derrors.ConfigError("extension must not contain a path separator").
			WithContext("extension", cfg.Renderer.Extension).
			Build()
	}
	return ValidatePages(cfg.Renderer.Pages)
}

// ValidatePages checks every page definition recursively. The first problem
// found is returned; its context carries the page's position in the tree.
func ValidatePages(specs []PageSpec) error {
	return validateLevel(specs, "pages")
}

func validateLevel(specs []PageSpec, where string) error {
	seen := make(map[string]int, len(specs))
	for i, spec := range specs {
		at := fmt.Sprintf("%s[%d]", where, i)
		if err := validatePage(spec, at); err != nil {
			return err
		}
		if spec.Name != "" {
			if first, dup := seen[spec.Name]; dup {
				return derrors.ConfigError("duplicate page name").
					WithContext("name", spec.Name).
					WithContext("first", fmt.Sprintf("%s[%d]", where, first)).
					WithContext("second", at).
					Build()
			}
			seen[spec.Name] = i
		}
		if err := validateLevel(spec.Children, at+".children"); err != nil {
			return err
		}
	}
	return nil
}

func validatePage(spec PageSpec, at string) error {
	malformed := func(msg string) error {
		return derrors.ConfigError(msg).
			WithContext("page", at).
			WithContext("title", spec.Title).
			Build()
	}
	if strings.TrimSpace(spec.Title) == "" {
		return malformed("page title is required")
	}
	if spec.Name != "" {
		if spec.Name == "." || spec.Name == ".." || strings.ContainsAny(spec.Name, `/\`) {
			return malformed("page name must be a single path segment")
		}
	}
	if spec.Source != "" && len(spec.Contents) > 0 {
		return malformed("page cannot declare both source and contents")
	}
	for _, sel := range spec.Contents {
		if strings.TrimSpace(sel) == "" {
			return malformed("page contents contain an empty selector")
		}
		if _, err := path.Match(sel, ""); err != nil {
			return malformed("page contents contain an invalid selector")
		}
	}
	return nil
}

// ParseLogLevel maps a configured level name to a slog level.
func ParseLogLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo, derrors.WrapError(err, derrors.CategoryConfig, "invalid logging level").
			Fatal().
			UserAction().
			WithContext("level", raw).
			Build()
	}
	return level, nil
}
