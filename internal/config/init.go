package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/docwiki/internal/foundation/errors"
)

const exampleHeader = `# docwiki configuration
#
# pages: each entry needs a title. A name makes the page a file (<name>.md);
# pages without a name only group their children. "source" copies a static
# document, "contents" selects modules from the module dump by name.
`

// Example returns the configuration written by `docwiki init`.
func Example() *Config {
	cfg := Default()
	cfg.Modules = "modules.yaml"
	cfg.Renderer.Pages = []PageSpec{
		{Title: "Home", Name: "index", Source: "README.md"},
		{
			Title:    "API Documentation",
			Name:     "api",
			Contents: []string{"*"},
			Children: []PageSpec{
				{Title: "Internals", Name: "internals", Contents: []string{"*._*"}},
			},
		},
	}
	return cfg
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return derrors.NewError(derrors.CategoryValidation, "configuration file already exists (use --force to overwrite)").
			UserAction().
			WithContext("path", configPath).
			Build()
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "stat configuration file").Build()
	}

	data, err := yaml.Marshal(Example())
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryInternal, "marshal example configuration").Fatal().Build()
	}
	if err := os.WriteFile(configPath, append([]byte(exampleHeader), data...), 0o600); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "write configuration file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
