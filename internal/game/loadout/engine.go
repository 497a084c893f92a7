package loadout

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/ironclad/internal/game/catalog"
)

// State is the engine's persistence lifecycle state.
type State int

const (
	// StateUninitialized means no data has been loaded or generated yet.
	StateUninitialized State = iota
	// StateLoaded means slot data is in place but the working slot has not been synchronized.
	StateLoaded
	// StateReady means the working slot and selections reflect the loaded data.
	StateReady
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoaded:
		return "loaded"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Engine owns the committed SlotData and a working copy of the active slot, and
// exposes every selection, cycling, and commit operation.
//
// Engine is not safe for concurrent use; every operation runs to completion,
// including its notifications, before returning.
type Engine struct {
	cat    *catalog.Catalog
	policy Policy
	store  Store
	logger *zap.Logger

	state   State
	data    SlotData
	working Slot
	mount   Ref

	subs    []*subscriber
	depth   int
	changed bool
	loaded  bool
}

// NewEngine creates an Engine over cat with the given policy and persistence store.
//
// Precondition: cat must be non-nil. store may be nil, in which case nothing is ever
// loaded and Save/Delete are no-ops. logger may be nil.
// Postcondition: State() == StateUninitialized and there are no slots.
func NewEngine(cat *catalog.Catalog, policy Policy, store Store, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cat:    cat,
		policy: policy,
		store:  store,
		logger: logger,
	}
}

// SelectSlot activates slot i, clamped to [-1, SlotCount()-1] where -1 means no slot.
// The working slot is reverted from the new active slot and mount 0 is selected.
func (e *Engine) SelectSlot(i int) {
	e.begin()
	defer e.end()
	e.selectSlot(i)
}

func (e *Engine) selectSlot(i int) {
	e.data.Active = Some(clamp(i, -1, len(e.data.Slots)-1))
	e.revert()
	e.selectModuleMount(0)
	e.changed = true
}

// CycleSlot moves the active slot one step forward or backward. With wrap, stepping
// past either end continues at the opposite end; without wrap the index is clamped,
// so cycling at a boundary re-selects the boundary slot.
func (e *Engine) CycleSlot(forward, wrap bool) {
	n := len(e.data.Slots)
	if n == 0 {
		return
	}
	e.SelectSlot(cycleIndex(e.data.Active.Int(), n, forward, wrap))
}

// ClearActiveSlot removes the vehicle and modules from the active slot.
func (e *Engine) ClearActiveSlot() {
	e.begin()
	defer e.end()
	active := e.activeSlot()
	if active == nil {
		return
	}
	*active = Slot{}
	e.revert()
	e.selectModuleMount(0)
	e.changed = true
}

// SelectableVehicles returns the catalog vehicle indices that may be selected for the
// active slot, in ascending order. Under ExclusiveVehicles a vehicle bound to another
// slot is excluded. With no active slot the result is empty.
func (e *Engine) SelectableVehicles() []int {
	active, ok := e.data.Active.Get()
	if !ok {
		return nil
	}
	claimed := make(map[int]bool)
	if e.policy.ExclusiveVehicles {
		for j, s := range e.data.Slots {
			if v, ok := s.Vehicle.Get(); ok && j != active {
				claimed[v] = true
			}
		}
	}
	out := make([]int, 0, e.cat.VehicleCount())
	for v := 0; v < e.cat.VehicleCount(); v++ {
		if !claimed[v] {
			out = append(out, v)
		}
	}
	return out
}

// SelectVehicle puts vehicle v into the working slot. It is a no-op when v is not in
// SelectableVehicles or is already the working vehicle. Re-selecting the committed
// vehicle restores its committed modules; any other vehicle is fitted with its default
// modules, leaving empty any default that another slot already uses under ExclusiveModules.
func (e *Engine) SelectVehicle(v int) {
	e.begin()
	defer e.end()

	if !contains(e.SelectableVehicles(), v) {
		e.logger.Debug("vehicle not selectable", zap.Int("vehicle", v), zap.Stringer("slot", e.data.Active))
		return
	}
	if e.working.Vehicle == Some(v) {
		return
	}

	active := e.activeSlot()
	e.working.Vehicle = Some(v)
	if active.Vehicle == Some(v) {
		e.working.Modules = cloneRefs(active.Modules)
	} else {
		used := make(map[int]bool)
		if e.policy.ExclusiveModules {
			activeIdx, _ := e.data.Active.Get()
			for j, s := range e.data.Slots {
				if j == activeIdx {
					continue
				}
				markUsed(used, s.Modules, -1)
			}
		}
		e.working.Modules = fitDefaults(e.cat.Vehicle(v), used, e.policy.ExclusiveModules)
	}

	if e.policy.ApplyVehicleSelectionImmediately {
		e.commit()
	}
	e.selectModuleMount(0)
	e.changed = true
}

// CycleVehicle selects the next or previous entry of SelectableVehicles relative to the
// working vehicle, with the same wrap and clamp rules as CycleSlot. Clamping onto the
// working vehicle is a SelectVehicle no-op and sends no notification.
func (e *Engine) CycleVehicle(forward, wrap bool) {
	list := e.SelectableVehicles()
	if len(list) == 0 {
		return
	}
	cur := indexOf(list, e.working.Vehicle)
	e.SelectVehicle(list[cycleIndex(cur, len(list), forward, wrap)])
}

// SelectModuleMount selects mount i of the working vehicle, clamped to
// [-1, mount count-1] where -1 means no mount. Uncommitted module edits are
// discarded by reverting from the active slot; a pending, uncommitted vehicle
// change is kept.
func (e *Engine) SelectModuleMount(i int) {
	e.begin()
	defer e.end()
	e.selectModuleMount(i)
}

func (e *Engine) selectModuleMount(i int) {
	e.mount = Some(clamp(i, -1, len(e.working.Modules)-1))
	if active := e.activeSlot(); active == nil || active.Vehicle == e.working.Vehicle {
		e.revert()
	}
	e.changed = true
}

// CycleModuleMount moves the selected mount one step forward or backward, with the
// same wrap and clamp rules as CycleSlot.
func (e *Engine) CycleModuleMount(forward, wrap bool) {
	n := len(e.working.Modules)
	if n == 0 {
		return
	}
	e.SelectModuleMount(cycleIndex(e.mount.Int(), n, forward, wrap))
}

// SelectableModules returns the catalog module indices that may be fitted to the
// selected mount, in ascending order: modules accepting the mount's type and, under
// ExclusiveModules, not fitted at any other (slot, mount) pair. The module currently
// at the selected mount is always eligible.
func (e *Engine) SelectableModules() []int {
	mount, ok := e.mount.Get()
	if !ok {
		return nil
	}
	v, ok := e.working.Vehicle.Get()
	if !ok {
		return nil
	}
	veh := e.cat.Vehicle(v)
	if veh == nil || mount >= veh.MountCount() {
		return nil
	}
	mountType := veh.MountType(mount)

	used := make(map[int]bool)
	if e.policy.ExclusiveModules {
		active, hasActive := e.data.Active.Get()
		for j, s := range e.data.Slots {
			if hasActive && j == active {
				continue
			}
			markUsed(used, s.Modules, -1)
		}
		markUsed(used, e.working.Modules, mount)
	}

	out := make([]int, 0, e.cat.ModuleCount())
	for m := 0; m < e.cat.ModuleCount(); m++ {
		if used[m] || !e.cat.Module(m).Def.Accepts(mountType) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// SelectModule fits m to the selected mount of the working slot; None clears the mount.
// It is a no-op when no mount is selected or m is set but not in SelectableModules.
func (e *Engine) SelectModule(m Ref) {
	e.begin()
	defer e.end()

	mount, ok := e.mount.Get()
	if !ok || mount >= len(e.working.Modules) {
		e.logger.Debug("no mount selected", zap.Stringer("module", m))
		return
	}
	if idx, set := m.Get(); set && !contains(e.SelectableModules(), idx) {
		e.logger.Debug("module not selectable", zap.Int("module", idx), zap.Int("mount", mount))
		return
	}

	e.working.Modules[mount] = m
	if e.policy.ApplyModuleSelectionImmediately {
		e.commit()
	}
	e.changed = true
}

// CycleModule selects the next or previous entry of SelectableModules relative to the
// module at the selected mount, with the same wrap and clamp rules as CycleSlot.
func (e *Engine) CycleModule(forward, wrap bool) {
	list := e.SelectableModules()
	if len(list) == 0 {
		return
	}
	mount, _ := e.mount.Get()
	cur := -1
	if mount < len(e.working.Modules) {
		cur = indexOf(list, e.working.Modules[mount])
	}
	e.SelectModule(Some(list[cycleIndex(cur, len(list), forward, wrap)]))
}

// CommitWorkingToActive copies the working slot into the active slot.
// It is a no-op when there is no active slot.
func (e *Engine) CommitWorkingToActive() {
	e.begin()
	defer e.end()
	e.commit()
}

func (e *Engine) commit() {
	active := e.activeSlot()
	if active == nil {
		return
	}
	*active = e.working.Clone()
	e.changed = true
}

// RevertWorkingFromActive copies the active slot into the working slot, or clears the
// working slot when there is no active slot.
func (e *Engine) RevertWorkingFromActive() {
	e.begin()
	defer e.end()
	e.revert()
	e.mount = Some(clamp(e.mount.Int(), -1, len(e.working.Modules)-1))
}

func (e *Engine) revert() {
	if active := e.activeSlot(); active != nil {
		e.working = active.Clone()
	} else {
		e.working = Slot{}
	}
	e.changed = true
}

// LoadPersistent loads slot data from the store and repairs it against the catalog,
// or generates defaults when the store holds nothing or fails. The active slot is then
// selected, and EventDataLoaded followed by EventLoadoutChanged is raised.
//
// Postcondition: State() == StateReady.
func (e *Engine) LoadPersistent(ctx context.Context) {
	e.begin()
	defer e.end()

	var (
		rec   Record
		found bool
		err   error
	)
	if e.store != nil {
		rec, found, err = e.store.Load(ctx)
	}
	if err != nil {
		e.logger.Warn("loading loadout failed; using defaults", zap.Error(err))
		found = false
	}

	if found {
		e.data = Repair(rec, e.cat, e.policy)
		e.logger.Info("loadout loaded",
			zap.Int("slots", len(e.data.Slots)),
			zap.Stringer("active", e.data.Active),
		)
	} else {
		e.data = Defaults(e.cat, e.policy)
		e.logger.Info("loadout defaults generated", zap.Int("slots", len(e.data.Slots)))
	}
	e.state = StateLoaded

	e.selectSlot(e.data.Active.Int())
	e.state = StateReady
	e.loaded = true
	e.changed = true
}

// SavePersistent writes the committed slot data to the store. Uncommitted working
// edits are not saved.
//
// Postcondition: returns the store's error, if any.
func (e *Engine) SavePersistent(ctx context.Context) error {
	if e.store == nil {
		return nil
	}
	if err := e.store.Save(ctx, e.data.Record()); err != nil {
		return fmt.Errorf("loadout: SavePersistent: %w", err)
	}
	e.logger.Info("loadout saved", zap.Int("slots", len(e.data.Slots)))
	return nil
}

// DeletePersistent removes the persisted slot data. With regenerate set, the engine's
// slot data is replaced by fresh defaults and the first slot is selected.
//
// Postcondition: returns the store's error, if any; on error the engine state is unchanged.
func (e *Engine) DeletePersistent(ctx context.Context, regenerate bool) error {
	e.begin()
	defer e.end()

	if e.store != nil {
		if err := e.store.Delete(ctx); err != nil {
			return fmt.Errorf("loadout: DeletePersistent: %w", err)
		}
	}
	e.logger.Info("loadout deleted", zap.Bool("regenerate", regenerate))
	if !regenerate {
		return nil
	}
	e.data = Defaults(e.cat, e.policy)
	e.selectSlot(e.data.Active.Int())
	e.state = StateReady
	return nil
}

// State returns the engine's lifecycle state.
func (e *Engine) State() State { return e.state }

// Catalog returns the catalog the engine selects from.
func (e *Engine) Catalog() *catalog.Catalog { return e.cat }

// Policy returns the engine's policy.
func (e *Engine) Policy() Policy { return e.policy }

// SlotCount returns the number of slots.
func (e *Engine) SlotCount() int { return len(e.data.Slots) }

// VisibleSlotCount returns the number of slot positions a display should show:
// SlotCount, but at least Policy.MinVisibleSlots.
func (e *Engine) VisibleSlotCount() int {
	return max(len(e.data.Slots), e.policy.MinVisibleSlots)
}

// ActiveSlotIndex returns the index of the active slot, or None.
func (e *Engine) ActiveSlotIndex() Ref { return e.data.Active }

// SelectedMount returns the selected mount of the working vehicle, or None.
func (e *Engine) SelectedMount() Ref { return e.mount }

// Slot returns a copy of the committed slot i.
//
// Postcondition: ok is false iff i is out of range.
func (e *Engine) Slot(i int) (Slot, bool) {
	if i < 0 || i >= len(e.data.Slots) {
		return Slot{}, false
	}
	return e.data.Slots[i].Clone(), true
}

// Slots returns a copy of every committed slot.
func (e *Engine) Slots() []Slot {
	return e.data.Clone().Slots
}

// Working returns a copy of the working slot.
func (e *Engine) Working() Slot { return e.working.Clone() }

// Snapshot returns a copy of the committed slot data.
func (e *Engine) Snapshot() SlotData { return e.data.Clone() }

// HasUncommittedChanges reports whether the working slot differs from the active slot.
func (e *Engine) HasUncommittedChanges() bool {
	active := e.activeSlot()
	if active == nil {
		return false
	}
	return !active.Equal(e.working)
}

// activeSlot returns a pointer to the committed active slot, or nil.
func (e *Engine) activeSlot() *Slot {
	i, ok := e.data.Active.Get()
	if !ok || i >= len(e.data.Slots) {
		return nil
	}
	return &e.data.Slots[i]
}

// cycleIndex steps cur one position through a list of n entries, n > 0. cur may be -1
// when nothing is selected.
func cycleIndex(cur, n int, forward, wrap bool) int {
	next := cur - 1
	if forward {
		next = cur + 1
	}
	if wrap {
		switch {
		case next >= n:
			return 0
		case next < 0:
			return n - 1
		}
		return next
	}
	return clamp(next, 0, n-1)
}

// markUsed adds every set module in mods to used, skipping position skip.
func markUsed(used map[int]bool, mods []Ref, skip int) {
	for k, m := range mods {
		if idx, ok := m.Get(); ok && k != skip {
			used[idx] = true
		}
	}
}

func indexOf(list []int, r Ref) int {
	idx, ok := r.Get()
	if !ok {
		return -1
	}
	for i, v := range list {
		if v == idx {
			return i
		}
	}
	return -1
}

func contains(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
