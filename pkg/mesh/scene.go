package mesh

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scene is a YAML-described collection of meshes, used by the export tool as
// its input format.
type Scene struct {
	Meshes []*Mesh `yaml:"meshes"`
}

// ParseScene parses a YAML scene description and validates every mesh in it.
func ParseScene(data []byte) (*Scene, error) {
	var scene Scene
	if err := yaml.Unmarshal(data, &scene); err != nil {
		return nil, fmt.Errorf("parsing scene: %w", err)
	}
	for _, m := range scene.Meshes {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
		}
	}
	return &scene, nil
}

// LoadScene reads and parses a scene description file.
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene from %s: %w", path, err)
	}
	return ParseScene(data)
}
