package dsl

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	goshape "github.com/reoring/goshape"
	"gopkg.in/yaml.v3"
)

// Decode reads a YAML (or JSON) document into a Definition. Unknown
// properties are rejected.
func Decode(data []byte) (*Definition, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDefinition, err)
	}
	def := &Definition{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      def,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDefinition, err)
	}
	return def, nil
}

// Load decodes and builds a schema definition.
func Load(data []byte, opts ...Option) (goshape.Schema, error) {
	def, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Build(def, opts...)
}

// LoadFile is Load for a file on disk.
func LoadFile(path string, opts ...Option) (goshape.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Load(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
