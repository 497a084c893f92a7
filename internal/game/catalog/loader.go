package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadVehicles reads all *.yaml files from dir in file-name order, parses each as a
// VehicleDef, validates it, and returns the collected slice.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid VehicleDefs or the first encountered error.
func LoadVehicles(dir string) ([]*VehicleDef, error) {
	var out []*VehicleDef
	err := eachYAML(dir, func(path string, data []byte) error {
		var v VehicleDef
		if err := yaml.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("cannot parse file %q: %w", path, err)
		}
		if err := v.Validate(); err != nil {
			return fmt.Errorf("invalid vehicle in %q: %w", path, err)
		}
		out = append(out, &v)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("LoadVehicles: %w", err)
	}
	return out, nil
}

// LoadModules reads all *.yaml files from dir in file-name order, parses each as a
// ModuleDef, validates it, and returns the collected slice.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid ModuleDefs or the first encountered error.
func LoadModules(dir string) ([]*ModuleDef, error) {
	var out []*ModuleDef
	err := eachYAML(dir, func(path string, data []byte) error {
		var m ModuleDef
		if err := yaml.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("cannot parse file %q: %w", path, err)
		}
		if err := m.Validate(); err != nil {
			return fmt.Errorf("invalid module in %q: %w", path, err)
		}
		out = append(out, &m)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("LoadModules: %w", err)
	}
	return out, nil
}

// Load reads vehicles and modules from their directories and builds a Catalog.
//
// Precondition: both directories are readable.
// Postcondition: returns a valid Catalog or a non-nil error.
func Load(vehiclesDir, modulesDir string) (*Catalog, error) {
	modules, err := LoadModules(modulesDir)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	vehicles, err := LoadVehicles(vehiclesDir)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return New(vehicles, modules)
}

// eachYAML calls fn for every *.yaml file in dir; os.ReadDir returns entries sorted by name.
func eachYAML(dir string, fn func(path string, data []byte) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("cannot read directory %q: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("cannot read file %q: %w", path, err)
		}
		if err := fn(path, data); err != nil {
			return err
		}
	}
	return nil
}
