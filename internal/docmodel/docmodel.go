// Package docmodel holds the documentation entities ("modules") produced by an
// external extraction step.
//
// The page engine treats a []Module as opaque and only forwards it. The
// content generator is the one consumer that reads the fields.
package docmodel

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/docwiki/internal/foundation/errors"
)

// Kind classifies an API object.
type Kind string

const (
	KindModule   Kind = "module"
	KindClass    Kind = "class"
	KindFunction Kind = "function"
	KindData     Kind = "data"
)

// Object is one documented API object inside a module.
type Object struct {
	Kind      Kind     `yaml:"kind"`
	Name      string   `yaml:"name"`
	Docstring string   `yaml:"docstring,omitempty"`
	Signature string   `yaml:"signature,omitempty"`
	Datatype  string   `yaml:"datatype,omitempty"`
	Value     string   `yaml:"value,omitempty"`
	Members   []Object `yaml:"members,omitempty"`
}

// Module is the root of one extracted entity tree. Name is dotted
// (for example "pkg.sub.mod") and is what page selectors match.
type Module struct {
	Name      string   `yaml:"name"`
	Docstring string   `yaml:"docstring,omitempty"`
	Members   []Object `yaml:"members,omitempty"`
}

// Load reads an ordered module list from a YAML or JSON file.
// An empty path yields an empty set.
func Load(path string) ([]Module, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, derrors.NotFoundError("module dump not found").
			WithContext("path", path).
			Build()
	}
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "read module dump").
			WithContext("path", path).
			Build()
	}
	return Parse(data)
}

// Parse decodes a module list. JSON input is accepted as YAML.
func Parse(data []byte) ([]Module, error) {
	var modules []Module
	if err := yaml.Unmarshal(data, &modules); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryValidation, "decode module dump").
			Fatal().
			Build()
	}
	for i, m := range modules {
		if m.Name == "" {
			return nil, derrors.ValidationError("module without a name").
				WithContext("index", i).
				Build()
		}
	}
	return modules, nil
}

// Count returns the number of objects in the module, the module itself included.
func (m Module) Count() int {
	var count func([]Object) int
	count = func(objs []Object) int {
		n := len(objs)
		for _, o := range objs {
			n += count(o.Members)
		}
		return n
	}
	return 1 + count(m.Members)
}
