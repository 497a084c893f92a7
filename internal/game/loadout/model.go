// Package loadout tracks per-slot vehicle and module selections, enforces the
// exclusivity policies across slots, and repairs persisted data against the
// current catalog.
package loadout

import "strconv"

// Ref is an optional index into a catalog list. The zero value is None.
type Ref struct {
	index int
	set   bool
}

// None is the empty Ref.
var None Ref

// Some returns a Ref holding i. A negative i yields None.
func Some(i int) Ref {
	if i < 0 {
		return None
	}
	return Ref{index: i, set: true}
}

// Get returns the held index and whether one is set.
func (r Ref) Get() (int, bool) {
	return r.index, r.set
}

// IsNone reports whether r holds no index.
func (r Ref) IsNone() bool {
	return !r.set
}

// Int returns the held index, or -1 for None. It is the persisted form of a Ref.
func (r Ref) Int() int {
	if !r.set {
		return -1
	}
	return r.index
}

// String implements fmt.Stringer.
func (r Ref) String() string {
	if !r.set {
		return "none"
	}
	return strconv.Itoa(r.index)
}

// Slot binds one vehicle and its per-mount module selections.
//
// Invariant: when Vehicle is set, len(Modules) equals that vehicle's mount count;
// when Vehicle is None, Modules is empty.
type Slot struct {
	Vehicle Ref
	Modules []Ref
}

// Clone returns a deep copy of s; the copy shares no backing storage with s.
func (s Slot) Clone() Slot {
	return Slot{Vehicle: s.Vehicle, Modules: cloneRefs(s.Modules)}
}

// Equal reports whether s and o hold the same vehicle and module selections.
func (s Slot) Equal(o Slot) bool {
	if s.Vehicle != o.Vehicle || len(s.Modules) != len(o.Modules) {
		return false
	}
	for i := range s.Modules {
		if s.Modules[i] != o.Modules[i] {
			return false
		}
	}
	return true
}

// SlotData is the committed loadout: every slot plus the active slot.
//
// Invariant: Active is None or a valid index into Slots.
type SlotData struct {
	Slots  []Slot
	Active Ref
}

// Clone returns a deep copy of d.
func (d SlotData) Clone() SlotData {
	out := SlotData{Active: d.Active}
	if len(d.Slots) > 0 {
		out.Slots = make([]Slot, len(d.Slots))
		for i, s := range d.Slots {
			out.Slots[i] = s.Clone()
		}
	}
	return out
}

// Record converts d to its persisted form.
func (d SlotData) Record() Record {
	rec := Record{ActiveSlotIndex: d.Active.Int(), Slots: make([]SlotRecord, len(d.Slots))}
	for i, s := range d.Slots {
		mods := make([]int, len(s.Modules))
		for k, m := range s.Modules {
			mods[k] = m.Int()
		}
		rec.Slots[i] = SlotRecord{SelectedVehicleIndex: s.Vehicle.Int(), SelectedModules: mods}
	}
	return rec
}

// Record is the persisted shape of SlotData. -1 stands for "no selection" at every position.
type Record struct {
	ActiveSlotIndex int          `json:"activeSlotIndex"`
	Slots           []SlotRecord `json:"slots"`
}

// SlotRecord is the persisted shape of a Slot.
type SlotRecord struct {
	SelectedVehicleIndex int   `json:"selectedVehicleIndex"`
	SelectedModules      []int `json:"selectedModules"`
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	out := Record{ActiveSlotIndex: r.ActiveSlotIndex, Slots: make([]SlotRecord, len(r.Slots))}
	for i, s := range r.Slots {
		out.Slots[i] = SlotRecord{
			SelectedVehicleIndex: s.SelectedVehicleIndex,
			SelectedModules:      append([]int{}, s.SelectedModules...),
		}
	}
	return out
}

func cloneRefs(refs []Ref) []Ref {
	if len(refs) == 0 {
		return nil
	}
	out := make([]Ref, len(refs))
	copy(out, refs)
	return out
}
