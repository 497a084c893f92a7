package loadout

import "github.com/cory-johannsen/ironclad/internal/config"

// Policy holds the engine's selection and persistence rules. It is fixed for the
// lifetime of an Engine.
type Policy struct {
	// ExclusiveVehicles forbids one vehicle from being bound to more than one slot.
	ExclusiveVehicles bool
	// ExclusiveModules forbids one module from appearing at more than one (slot, mount) pair.
	ExclusiveModules bool
	// SlotPerVehicle generates one default slot per catalog vehicle; otherwise SlotCount slots.
	SlotPerVehicle bool
	// SlotCount is the number of default slots when SlotPerVehicle is false.
	SlotCount int
	// MinVisibleSlots is the minimum number of slot positions a display shows.
	MinVisibleSlots int
	// ApplyVehicleSelectionImmediately commits the working slot after every vehicle selection.
	ApplyVehicleSelectionImmediately bool
	// ApplyModuleSelectionImmediately commits the working slot after every module selection.
	ApplyModuleSelectionImmediately bool
	// RestoreLastActiveSlot keeps the persisted active slot on load; otherwise the first slot is activated.
	RestoreLastActiveSlot bool
}

// DefaultPolicy returns the policy used when no configuration is supplied.
func DefaultPolicy() Policy {
	return Policy{
		ExclusiveVehicles:                true,
		ExclusiveModules:                 false,
		SlotPerVehicle:                   true,
		SlotCount:                        3,
		ApplyVehicleSelectionImmediately: true,
		ApplyModuleSelectionImmediately:  true,
		RestoreLastActiveSlot:            true,
	}
}

// NewPolicy builds a Policy from the loadout configuration section.
func NewPolicy(cfg config.LoadoutConfig) Policy {
	return Policy{
		ExclusiveVehicles:                cfg.ExclusiveVehicles,
		ExclusiveModules:                 cfg.ExclusiveModules,
		SlotPerVehicle:                   cfg.SlotPerVehicle,
		SlotCount:                        cfg.SlotCount,
		MinVisibleSlots:                  cfg.MinVisibleSlots,
		ApplyVehicleSelectionImmediately: cfg.ApplyVehicleSelectionImmediately,
		ApplyModuleSelectionImmediately:  cfg.ApplyModuleSelectionImmediately,
		RestoreLastActiveSlot:            cfg.RestoreLastActiveSlot,
	}
}
