// Package config loads and validates the docwiki YAML configuration.
//
// The file mirrors the renderer options of a markdown-wiki renderer plus the
// page tree definition. Loading is a fixed sequence: .env files, environment
// expansion, strict YAML decoding over a defaulted struct, path resolution and
// validation. Structural page rules (duplicate names, source vs contents) are
// enforced here so configuration errors surface before any filesystem work.
package config

// DefaultConfigFile is the file name used when no --config flag is given.
const DefaultConfigFile = "docwiki.yaml"

// Config represents the application configuration.
type Config struct {
	// Modules is the module dump written by the extraction collaborator.
	Modules string `yaml:"modules"`
	// ContextDirectory is the base for relative `source:` documents.
	// Defaults to the directory containing the configuration file.
	ContextDirectory string         `yaml:"context_directory"`
	Renderer         RendererConfig `yaml:"renderer"`
	Metrics          MetricsConfig  `yaml:"metrics"`
	Logging          LoggingConfig  `yaml:"logging"`

	// path of the file this configuration was loaded from; empty for in-memory configs.
	source string
}

// RendererConfig holds the markdown-wiki renderer options.
type RendererConfig struct {
	OutputDirectory     string     `yaml:"output_directory"`
	CleanRender         bool       `yaml:"clean_render"`
	InsertHeaderAnchors bool       `yaml:"insert_header_anchors"`
	RenderTypehint      bool       `yaml:"render_typehint_in_data_header"`
	Extension           string     `yaml:"extension"`
	FrontMatter         bool       `yaml:"front_matter"`
	Pages               []PageSpec `yaml:"pages"`
}

// PageSpec is one node of the page tree as written in the configuration.
type PageSpec struct {
	Title    string     `yaml:"title"`
	Name     string     `yaml:"name,omitempty"`
	Source   string     `yaml:"source,omitempty"`
	Contents []string   `yaml:"contents,omitempty"`
	Children []PageSpec `yaml:"children,omitempty"`
}

// MetricsConfig controls Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Source returns the path the configuration was loaded from.
func (c *Config) Source() string { return c.source }
