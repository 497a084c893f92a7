package loadout

import "github.com/cory-johannsen/ironclad/internal/game/catalog"

// Repair converts a persisted Record into SlotData that is valid against cat and p.
// It only ever narrows selections toward None or empty and never fails.
//
// The steps run in a fixed order:
//  1. vehicles out of catalog range become None
//  2. with ExclusiveVehicles, a vehicle already claimed by a lower slot is cleared
//  3. module lists of slots with a vehicle are truncated or padded with None to the mount count
//  4. module lists of slots without a vehicle are emptied
//  5. modules out of catalog range, or not accepted by their mount type, become None
//  6. with ExclusiveModules, a module already retained at an earlier (slot, mount) is cleared
//  7. the active slot is clamped into range; without RestoreLastActiveSlot the first slot is activated
//
// Postcondition: Repair(Repair(rec).Record()) equals Repair(rec).
func Repair(rec Record, cat *catalog.Catalog, p Policy) SlotData {
	slots := make([]Slot, len(rec.Slots))

	for i, sr := range rec.Slots {
		if cat.Vehicle(sr.SelectedVehicleIndex) != nil {
			slots[i].Vehicle = Some(sr.SelectedVehicleIndex)
		}
	}

	if p.ExclusiveVehicles {
		claimed := make(map[int]bool)
		for i := range slots {
			v, ok := slots[i].Vehicle.Get()
			if !ok {
				continue
			}
			if claimed[v] {
				slots[i].Vehicle = None
				continue
			}
			claimed[v] = true
		}
	}

	for i, sr := range rec.Slots {
		v, ok := slots[i].Vehicle.Get()
		if !ok {
			slots[i].Modules = nil
			continue
		}
		n := cat.Vehicle(v).MountCount()
		if n == 0 {
			continue
		}
		mods := make([]Ref, n)
		for k := 0; k < n && k < len(sr.SelectedModules); k++ {
			mods[k] = Some(sr.SelectedModules[k])
		}
		slots[i].Modules = mods
	}

	for i := range slots {
		v, _ := slots[i].Vehicle.Get()
		for k, m := range slots[i].Modules {
			idx, ok := m.Get()
			if !ok {
				continue
			}
			if !cat.Compatible(v, k, idx) {
				slots[i].Modules[k] = None
			}
		}
	}

	if p.ExclusiveModules {
		retained := make(map[int]bool)
		for i := range slots {
			for k, m := range slots[i].Modules {
				idx, ok := m.Get()
				if !ok {
					continue
				}
				if retained[idx] {
					slots[i].Modules[k] = None
					continue
				}
				retained[idx] = true
			}
		}
	}

	data := SlotData{Slots: slots}
	if len(slots) > 0 {
		active := clamp(rec.ActiveSlotIndex, -1, len(slots)-1)
		if !p.RestoreLastActiveSlot {
			active = 0
		}
		data.Active = Some(active)
	}
	if len(data.Slots) == 0 {
		data.Slots = nil
	}
	return data
}

// Defaults generates fresh SlotData from the catalog: one slot per vehicle when
// p.SlotPerVehicle is set, otherwise p.SlotCount slots. Each slot is fitted with its
// vehicle's default modules; under ExclusiveModules a default already fitted to an
// earlier slot is left empty.
func Defaults(cat *catalog.Catalog, p Policy) SlotData {
	n := p.SlotCount
	if p.SlotPerVehicle {
		n = cat.VehicleCount()
	}
	if n <= 0 {
		return SlotData{}
	}

	used := make(map[int]bool)
	data := SlotData{Slots: make([]Slot, n), Active: Some(0)}
	for i := range data.Slots {
		v := -1
		switch {
		case i < cat.VehicleCount():
			v = i
		case !p.ExclusiveVehicles && cat.VehicleCount() > 0:
			v = i % cat.VehicleCount()
		}
		veh := cat.Vehicle(v)
		if veh == nil {
			continue
		}
		data.Slots[i] = Slot{
			Vehicle: Some(v),
			Modules: fitDefaults(veh, used, p.ExclusiveModules),
		}
	}
	return data
}

// fitDefaults returns veh's default modules, one per mount. With exclusive set,
// defaults present in used become None and every fitted module is added to used.
func fitDefaults(veh *catalog.Vehicle, used map[int]bool, exclusive bool) []Ref {
	if veh.MountCount() == 0 {
		return nil
	}
	mods := make([]Ref, veh.MountCount())
	for k, d := range veh.DefaultModules {
		if d < 0 {
			continue
		}
		if exclusive {
			if used[d] {
				continue
			}
			used[d] = true
		}
		mods[k] = Some(d)
	}
	return mods
}

func clamp(i, lo, hi int) int {
	if i < lo {
		return lo
	}
	if i > hi {
		return hi
	}
	return i
}
