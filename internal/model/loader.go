package model

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Load reads and builds a model snapshot from a YAML file.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read model file %s", path)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "model file %s", path)
	}

	return m, nil
}

// Parse builds a model snapshot from YAML data.
func Parse(data []byte) (*Model, error) {
	var doc Document

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse model YAML")
	}

	return Build(&doc)
}
