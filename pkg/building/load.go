package building

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// File is the on-disk layout of a registry file.
type File struct {
	Floors []Floor `json:"floors" yaml:"floors"`
}

// Load reads a YAML (.yaml, .yml) or JSON floor table and validates it.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read building file: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes a floor table. ext selects the format; anything other than
// .yaml or .yml is treated as JSON.
func Parse(data []byte, ext string) (*Registry, error) {
	var file File
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse building YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse building JSON: %w", err)
		}
	}

	// Hand-edited files may carry decomposed accents; labels are matched
	// against composed text.
	for i := range file.Floors {
		file.Floors[i].Label = norm.NFC.String(file.Floors[i].Label)
		for j := range file.Floors[i].Rooms {
			file.Floors[i].Rooms[j].Label = norm.NFC.String(file.Floors[i].Rooms[j].Label)
		}
	}

	return NewRegistry(file.Floors)
}

// MarshalYAML renders the registry in the file layout Load accepts.
func (r *Registry) MarshalYAML() (interface{}, error) {
	return File{Floors: r.Floors()}, nil
}

// MarshalJSON renders the registry in the file layout Load accepts.
func (r *Registry) MarshalJSON() ([]byte, error) {
	return json.Marshal(File{Floors: r.Floors()})
}

// LoadOrDefault loads path, or returns the built-in floor plan when path is empty.
func LoadOrDefault(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
