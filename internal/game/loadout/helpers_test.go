package loadout_test

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/cory-johannsen/ironclad/internal/game/catalog"
	"github.com/cory-johannsen/ironclad/internal/game/loadout"
)

// uniformCatalog returns a catalog whose vehicle i has mountCounts[i] mounts of type "any",
// and moduleCount modules that all accept "any". Mount k of vehicle i defaults to module
// (i+k) % moduleCount, or has no default when moduleCount is 0.
func uniformCatalog(t *testing.T, mountCounts []int, moduleCount int) *catalog.Catalog {
	t.Helper()
	modules := make([]*catalog.ModuleDef, moduleCount)
	for i := range modules {
		id := fmt.Sprintf("m%d", i)
		modules[i] = &catalog.ModuleDef{ID: id, Name: id, MountTypes: []string{"any"}}
	}
	vehicles := make([]*catalog.VehicleDef, len(mountCounts))
	for i, n := range mountCounts {
		id := fmt.Sprintf("v%d", i)
		v := &catalog.VehicleDef{ID: id, Name: id}
		for k := 0; k < n; k++ {
			m := catalog.MountDef{Type: "any"}
			if moduleCount > 0 {
				m.DefaultModule = fmt.Sprintf("m%d", (i+k)%moduleCount)
			}
			v.Mounts = append(v.Mounts, m)
		}
		vehicles[i] = v
	}
	c, err := catalog.New(vehicles, modules)
	if err != nil {
		t.Fatalf("building catalog: %v", err)
	}
	return c
}

// rec builds a Record from vehicle indices and module lists.
func rec(active int, slots ...loadout.SlotRecord) loadout.Record {
	return loadout.Record{ActiveSlotIndex: active, Slots: slots}
}

func slotRec(vehicle int, modules ...int) loadout.SlotRecord {
	if modules == nil {
		modules = []int{}
	}
	return loadout.SlotRecord{SelectedVehicleIndex: vehicle, SelectedModules: modules}
}

// refs converts ints to Refs; negative values become None.
func refs(ids ...int) []loadout.Ref {
	out := make([]loadout.Ref, len(ids))
	for i, id := range ids {
		out[i] = loadout.Some(id)
	}
	return out
}

// eventRecorder collects events delivered to a subscriber.
type eventRecorder struct {
	events []loadout.Event
}

func (r *eventRecorder) record(ev loadout.Event) {
	r.events = append(r.events, ev)
}

func (r *eventRecorder) reset() {
	r.events = nil
}

// drawCatalog generates a random catalog with mount types "a" and "b" whose defaults
// are always compatible.
func drawCatalog(t *rapid.T) *catalog.Catalog {
	types := []string{"a", "b"}
	moduleCount := rapid.IntRange(0, 7).Draw(t, "module_count")
	modules := make([]*catalog.ModuleDef, moduleCount)
	for i := range modules {
		id := fmt.Sprintf("m%d", i)
		accepts := rapid.SliceOfNDistinct(rapid.SampledFrom(types), 1, 2, rapid.ID[string]).Draw(t, id+"_types")
		modules[i] = &catalog.ModuleDef{ID: id, Name: id, MountTypes: accepts}
	}

	vehicleCount := rapid.IntRange(1, 5).Draw(t, "vehicle_count")
	vehicles := make([]*catalog.VehicleDef, vehicleCount)
	for i := range vehicles {
		id := fmt.Sprintf("v%d", i)
		v := &catalog.VehicleDef{ID: id, Name: id}
		mounts := rapid.IntRange(0, 3).Draw(t, id+"_mounts")
		for k := 0; k < mounts; k++ {
			mt := rapid.SampledFrom(types).Draw(t, fmt.Sprintf("%s_mount%d_type", id, k))
			m := catalog.MountDef{Type: mt}
			var compatible []string
			for _, mod := range modules {
				if mod.Accepts(mt) {
					compatible = append(compatible, mod.ID)
				}
			}
			if len(compatible) > 0 && rapid.Bool().Draw(t, fmt.Sprintf("%s_mount%d_has_default", id, k)) {
				m.DefaultModule = rapid.SampledFrom(compatible).Draw(t, fmt.Sprintf("%s_mount%d_default", id, k))
			}
			v.Mounts = append(v.Mounts, m)
		}
		vehicles[i] = v
	}

	c, err := catalog.New(vehicles, modules)
	if err != nil {
		t.Fatalf("building catalog: %v", err)
	}
	return c
}

func drawPolicy(t *rapid.T) loadout.Policy {
	return loadout.Policy{
		ExclusiveVehicles:                rapid.Bool().Draw(t, "exclusive_vehicles"),
		ExclusiveModules:                 rapid.Bool().Draw(t, "exclusive_modules"),
		SlotPerVehicle:                   rapid.Bool().Draw(t, "slot_per_vehicle"),
		SlotCount:                        rapid.IntRange(0, 6).Draw(t, "slot_count"),
		MinVisibleSlots:                  rapid.IntRange(0, 8).Draw(t, "min_visible_slots"),
		ApplyVehicleSelectionImmediately: rapid.Bool().Draw(t, "apply_vehicle_immediately"),
		ApplyModuleSelectionImmediately:  rapid.Bool().Draw(t, "apply_module_immediately"),
		RestoreLastActiveSlot:            rapid.Bool().Draw(t, "restore_last_active"),
	}
}

// drawRecord generates persisted data that may reference entries outside the catalog.
func drawRecord(t *rapid.T) loadout.Record {
	n := rapid.IntRange(0, 6).Draw(t, "slots")
	r := loadout.Record{
		ActiveSlotIndex: rapid.IntRange(-3, 8).Draw(t, "active"),
		Slots:           make([]loadout.SlotRecord, n),
	}
	for i := range r.Slots {
		r.Slots[i] = loadout.SlotRecord{
			SelectedVehicleIndex: rapid.IntRange(-2, 7).Draw(t, fmt.Sprintf("slot%d_vehicle", i)),
			SelectedModules:      rapid.SliceOfN(rapid.IntRange(-2, 9), 0, 5).Draw(t, fmt.Sprintf("slot%d_modules", i)),
		}
	}
	return r
}

// checkInvariants fails t when committed or working data violates the slot invariants.
func checkInvariants(t *rapid.T, e *loadout.Engine) {
	cat := e.Catalog()
	p := e.Policy()
	slots := e.Slots()
	all := append(slots, e.Working())

	for i, s := range all {
		v, ok := s.Vehicle.Get()
		if !ok {
			if len(s.Modules) != 0 {
				t.Fatalf("slot %d: no vehicle but %d modules", i, len(s.Modules))
			}
			continue
		}
		if got, want := len(s.Modules), cat.Vehicle(v).MountCount(); got != want {
			t.Fatalf("slot %d: vehicle %d has %d mounts, got %d modules", i, v, want, got)
		}
		for k, m := range s.Modules {
			if idx, ok := m.Get(); ok && !cat.Compatible(v, k, idx) {
				t.Fatalf("slot %d mount %d: module %d incompatible", i, k, idx)
			}
		}
	}

	if p.ExclusiveVehicles {
		seen := make(map[int]int)
		for i, s := range slots {
			if v, ok := s.Vehicle.Get(); ok {
				if j, dup := seen[v]; dup {
					t.Fatalf("vehicle %d bound to slots %d and %d", v, j, i)
				}
				seen[v] = i
			}
		}
	}
	if p.ExclusiveModules {
		seen := make(map[int]bool)
		for i, s := range slots {
			for k, m := range s.Modules {
				if idx, ok := m.Get(); ok {
					if seen[idx] {
						t.Fatalf("module %d duplicated at slot %d mount %d", idx, i, k)
					}
					seen[idx] = true
				}
			}
		}
	}

	if a, ok := e.ActiveSlotIndex().Get(); ok && a >= len(slots) {
		t.Fatalf("active slot %d out of range %d", a, len(slots))
	}
}
