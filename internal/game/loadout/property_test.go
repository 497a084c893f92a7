package loadout_test

import (
	"context"
	"testing"

	"pgregory.net/rapid"

	"github.com/cory-johannsen/ironclad/internal/game/loadout"
	"github.com/cory-johannsen/ironclad/internal/storage/memory"
)

// drawEngine returns a ready engine over a random catalog, policy, and persisted record.
func drawEngine(t *rapid.T) *loadout.Engine {
	cat := drawCatalog(t)
	p := drawPolicy(t)
	store := memory.NewStore()
	if rapid.Bool().Draw(t, "has_saved_data") {
		store = memory.NewStoreWith(drawRecord(t))
	}
	e := loadout.NewEngine(cat, p, store, nil)
	e.LoadPersistent(context.Background())
	return e
}

// applyRandomOp performs one randomly chosen engine operation.
func applyRandomOp(t *rapid.T, e *loadout.Engine, step int) {
	forward := rapid.Bool().Draw(t, "forward")
	wrap := rapid.Bool().Draw(t, "wrap")
	switch rapid.IntRange(0, 11).Draw(t, "op") {
	case 0:
		e.SelectSlot(rapid.IntRange(-2, 7).Draw(t, "slot"))
	case 1:
		e.CycleSlot(forward, wrap)
	case 2:
		e.ClearActiveSlot()
	case 3:
		e.SelectVehicle(rapid.IntRange(-1, 6).Draw(t, "vehicle"))
	case 4:
		e.CycleVehicle(forward, wrap)
	case 5:
		e.SelectModuleMount(rapid.IntRange(-1, 4).Draw(t, "mount"))
	case 6:
		e.CycleModuleMount(forward, wrap)
	case 7:
		e.SelectModule(loadout.Some(rapid.IntRange(-1, 8).Draw(t, "module")))
	case 8:
		e.CycleModule(forward, wrap)
	case 9:
		e.CommitWorkingToActive()
	case 10:
		e.RevertWorkingFromActive()
	case 11:
		if err := e.DeletePersistent(context.Background(), true); err != nil {
			t.Fatalf("step %d: delete: %v", step, err)
		}
	}
}

func TestProperty_InvariantsHoldAcrossOperations(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := drawEngine(t)
		checkInvariants(t, e)
		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			applyRandomOp(t, e, i)
			checkInvariants(t, e)
		}
	})
}

func TestProperty_CycleSlotWrapReturnsToStart(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := drawEngine(t)
		n := e.SlotCount()
		if n == 0 {
			t.Skip("no slots")
		}
		e.SelectSlot(rapid.IntRange(0, n-1).Draw(t, "start"))
		start := e.ActiveSlotIndex()
		forward := rapid.Bool().Draw(t, "forward")
		for i := 0; i < n; i++ {
			e.CycleSlot(forward, true)
		}
		if got := e.ActiveSlotIndex(); got != start {
			t.Fatalf("after %d wrapped cycles expected slot %v, got %v", n, start, got)
		}
	})
}

func TestProperty_CommitThenRevertKeepsWorking(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := drawEngine(t)
		steps := rapid.IntRange(0, 15).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			applyRandomOp(t, e, i)
		}
		before := e.Working()
		e.CommitWorkingToActive()
		e.RevertWorkingFromActive()
		after := e.Working()
		if _, ok := e.ActiveSlotIndex().Get(); ok && !before.Equal(after) {
			t.Fatalf("commit+revert changed working: %+v -> %+v", before, after)
		}
		if e.HasUncommittedChanges() {
			t.Fatal("working differs from active after commit+revert")
		}
	})
}

func TestProperty_OneNotificationPerOperation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := drawEngine(t)
		events := &eventRecorder{}
		e.Subscribe(events.record)
		steps := rapid.IntRange(1, 20).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			events.reset()
			applyRandomOp(t, e, i)
			if len(events.events) > 1 {
				t.Fatalf("step %d: %d notifications", i, len(events.events))
			}
			for _, ev := range events.events {
				if ev != loadout.EventLoadoutChanged {
					t.Fatalf("step %d: unexpected event %v", i, ev)
				}
			}
		}
	})
}
