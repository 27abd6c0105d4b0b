package config

import "strings"

const (
	DefaultOutputDirectory = "docs"
	DefaultExtension       = ".md"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
)

// Default returns a configuration with every option at its default.
// Decoding YAML on top of it keeps defaults for keys the file omits, which is
// how clean_render and render_typehint_in_data_header default to true.
func Default() *Config {
	return &Config{
		Renderer: RendererConfig{
			OutputDirectory:     DefaultOutputDirectory,
			CleanRender:         true,
			InsertHeaderAnchors: false,
			RenderTypehint:      true,
			Extension:           DefaultExtension,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// applyDefaults restores values that an explicit empty string in the file cleared.
func applyDefaults(cfg *Config) {
	if cfg.Renderer.OutputDirectory == "" {
		cfg.Renderer.OutputDirectory = DefaultOutputDirectory
	}
	if cfg.Renderer.Extension == "" {
		cfg.Renderer.Extension = DefaultExtension
	}
	if !strings.HasPrefix(cfg.Renderer.Extension, ".") {
		cfg.Renderer.Extension = "." + cfg.Renderer.Extension
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
}
