// Package catalog provides the immutable set of vehicle and module options
// available for a session, loaded from YAML content files.
package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateID is returned when two entries of the same kind share an ID.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrUnknownModule is returned when a mount default references a module that is not in the catalog.
	ErrUnknownModule = errors.New("unknown module")
	// ErrIncompatibleDefault is returned when a mount default does not accept the mount's type.
	ErrIncompatibleDefault = errors.New("default module incompatible with mount type")
)

// MountDef declares one module-mount position on a vehicle.
type MountDef struct {
	// Type is the mount type tag matched against ModuleDef.MountTypes.
	Type string `yaml:"type"`
	// DefaultModule is the ID of the module fitted by default; empty means no default.
	DefaultModule string `yaml:"default_module"`
}

// VehicleDef defines the static properties of a vehicle loaded from YAML.
type VehicleDef struct {
	ID     string     `yaml:"id"`
	Name   string     `yaml:"name"`
	Mounts []MountDef `yaml:"mounts"`
}

// Validate checks that the VehicleDef satisfies its invariants.
//
// Postcondition: returns nil iff ID and Name are set and every mount has a type.
func (v *VehicleDef) Validate() error {
	var errs []error
	if v.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if v.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	for i, m := range v.Mounts {
		if m.Type == "" {
			errs = append(errs, fmt.Errorf("mount %d Type must not be empty", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("vehicle validation failed: %v", errs)
	}
	return nil
}

// ModuleDef defines the static properties of a mountable module loaded from YAML.
type ModuleDef struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	MountTypes []string `yaml:"mount_types"`
}

// Validate checks that the ModuleDef satisfies its invariants.
//
// Postcondition: returns nil iff ID and Name are set and at least one mount type is declared.
func (m *ModuleDef) Validate() error {
	var errs []error
	if m.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if m.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if len(m.MountTypes) == 0 {
		errs = append(errs, errors.New("MountTypes must not be empty"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("module validation failed: %v", errs)
	}
	return nil
}

// Accepts reports whether the module can be fitted to a mount of the given type.
func (m *ModuleDef) Accepts(mountType string) bool {
	for _, t := range m.MountTypes {
		if t == mountType {
			return true
		}
	}
	return false
}

// Vehicle is a catalog vehicle resolved to indices.
type Vehicle struct {
	Def *VehicleDef
	// DefaultModules holds one module index per mount; -1 where the mount has no default.
	DefaultModules []int
}

// MountCount returns the number of module-mount positions on the vehicle.
func (v *Vehicle) MountCount() int {
	return len(v.Def.Mounts)
}

// MountType returns the type tag of mount i, or "" if i is out of range.
func (v *Vehicle) MountType(i int) string {
	if i < 0 || i >= len(v.Def.Mounts) {
		return ""
	}
	return v.Def.Mounts[i].Type
}

// Module is a catalog module.
type Module struct {
	Def *ModuleDef
}

// Catalog is the read-only, index-addressed set of vehicles and modules for a session.
// Indices follow the order the definitions were supplied in.
type Catalog struct {
	vehicles     []*Vehicle
	modules      []*Module
	vehicleIndex map[string]int
	moduleIndex  map[string]int
}

// New builds a Catalog from vehicle and module definitions.
//
// Precondition: every def must be non-nil.
// Postcondition: returns a Catalog or an error wrapping ErrDuplicateID, ErrUnknownModule,
// or ErrIncompatibleDefault; the Catalog retains its own copies of the input slices.
func New(vehicles []*VehicleDef, modules []*ModuleDef) (*Catalog, error) {
	c := &Catalog{
		vehicles:     make([]*Vehicle, 0, len(vehicles)),
		modules:      make([]*Module, 0, len(modules)),
		vehicleIndex: make(map[string]int, len(vehicles)),
		moduleIndex:  make(map[string]int, len(modules)),
	}

	for _, d := range modules {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("catalog: New: module %q: %w", d.ID, err)
		}
		if _, exists := c.moduleIndex[d.ID]; exists {
			return nil, fmt.Errorf("catalog: New: module %q: %w", d.ID, ErrDuplicateID)
		}
		c.moduleIndex[d.ID] = len(c.modules)
		c.modules = append(c.modules, &Module{Def: d})
	}

	for _, d := range vehicles {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("catalog: New: vehicle %q: %w", d.ID, err)
		}
		if _, exists := c.vehicleIndex[d.ID]; exists {
			return nil, fmt.Errorf("catalog: New: vehicle %q: %w", d.ID, ErrDuplicateID)
		}
		defaults := make([]int, len(d.Mounts))
		for i, m := range d.Mounts {
			defaults[i] = -1
			if m.DefaultModule == "" {
				continue
			}
			mi, ok := c.moduleIndex[m.DefaultModule]
			if !ok {
				return nil, fmt.Errorf("catalog: New: vehicle %q mount %d default %q: %w", d.ID, i, m.DefaultModule, ErrUnknownModule)
			}
			if !c.modules[mi].Def.Accepts(m.Type) {
				return nil, fmt.Errorf("catalog: New: vehicle %q mount %d default %q on %q: %w", d.ID, i, m.DefaultModule, m.Type, ErrIncompatibleDefault)
			}
			defaults[i] = mi
		}
		c.vehicleIndex[d.ID] = len(c.vehicles)
		c.vehicles = append(c.vehicles, &Vehicle{Def: d, DefaultModules: defaults})
	}
	return c, nil
}

// VehicleCount returns the number of vehicles in the catalog.
func (c *Catalog) VehicleCount() int { return len(c.vehicles) }

// ModuleCount returns the number of modules in the catalog.
func (c *Catalog) ModuleCount() int { return len(c.modules) }

// Vehicle returns the vehicle at index i, or nil if i is out of range.
func (c *Catalog) Vehicle(i int) *Vehicle {
	if i < 0 || i >= len(c.vehicles) {
		return nil
	}
	return c.vehicles[i]
}

// Module returns the module at index i, or nil if i is out of range.
func (c *Catalog) Module(i int) *Module {
	if i < 0 || i >= len(c.modules) {
		return nil
	}
	return c.modules[i]
}

// VehicleIndex returns the index of the vehicle with the given ID.
//
// Postcondition: ok is true iff the id is in the catalog.
func (c *Catalog) VehicleIndex(id string) (int, bool) {
	i, ok := c.vehicleIndex[id]
	return i, ok
}

// ModuleIndex returns the index of the module with the given ID.
//
// Postcondition: ok is true iff the id is in the catalog.
func (c *Catalog) ModuleIndex(id string) (int, bool) {
	i, ok := c.moduleIndex[id]
	return i, ok
}

// Compatible reports whether module m may be fitted to mount of vehicle v.
// Out-of-range indices are never compatible.
func (c *Catalog) Compatible(v, mount, m int) bool {
	veh := c.Vehicle(v)
	mod := c.Module(m)
	if veh == nil || mod == nil || mount < 0 || mount >= veh.MountCount() {
		return false
	}
	return mod.Def.Accepts(veh.MountType(mount))
}
