package command

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/ironclad/internal/game/catalog"
	"github.com/cory-johannsen/ironclad/internal/game/loadout"
)

// RenderLoadout formats every visible slot, marking the active one, followed by the
// slot being edited with the selected mount marked.
//
// Precondition: e must not be nil.
// Postcondition: Returns a multi-line string with one section per visible slot.
func RenderLoadout(e *loadout.Engine) string {
	cat := e.Catalog()
	active, hasActive := e.ActiveSlotIndex().Get()

	var sb strings.Builder
	for i := 0; i < e.VisibleSlotCount(); i++ {
		label := fmt.Sprintf("Slot %d", i+1)
		s, ok := e.Slot(i)
		if !ok {
			sb.WriteString(label + ": locked\n")
			continue
		}
		if hasActive && i == active {
			label += " [active]"
		}
		sb.WriteString(label + ": " + vehicleName(cat, s.Vehicle) + "\n")
		writeMounts(&sb, cat, s, loadout.None)
	}

	if !hasActive {
		sb.WriteString("No slot selected.")
		return sb.String()
	}

	w := e.Working()
	heading := "Editing: " + vehicleName(cat, w.Vehicle)
	if e.HasUncommittedChanges() {
		heading += " (uncommitted)"
	}
	sb.WriteString(heading + "\n")
	writeMounts(&sb, cat, w, e.SelectedMount())
	return strings.TrimRight(sb.String(), "\n")
}

// writeMounts writes one line per mount of s; the mount equal to selected gets a '>' marker.
func writeMounts(sb *strings.Builder, cat *catalog.Catalog, s loadout.Slot, selected loadout.Ref) {
	v, ok := s.Vehicle.Get()
	if !ok {
		return
	}
	veh := cat.Vehicle(v)
	for k, m := range s.Modules {
		marker := " "
		if sel, ok := selected.Get(); ok && sel == k {
			marker = ">"
		}
		fmt.Fprintf(sb, " %s Mount %d (%s): %s\n", marker, k+1, veh.MountType(k), moduleName(cat, m))
	}
}

// vehicleName returns the display name of the referenced vehicle, or "empty".
func vehicleName(cat *catalog.Catalog, r loadout.Ref) string {
	i, ok := r.Get()
	if !ok {
		return "empty"
	}
	if v := cat.Vehicle(i); v != nil {
		return v.Def.Name
	}
	return "unknown"
}

// moduleName returns the display name of the referenced module, or "empty".
func moduleName(cat *catalog.Catalog, r loadout.Ref) string {
	i, ok := r.Get()
	if !ok {
		return "empty"
	}
	if m := cat.Module(i); m != nil {
		return m.Def.Name
	}
	return "unknown"
}

// renderOptions lists the selectable vehicles or modules as "id  Name" lines.
func renderOptions(e *loadout.Engine, what string) string {
	cat := e.Catalog()
	var sb strings.Builder
	switch what {
	case "vehicles":
		list := e.SelectableVehicles()
		if len(list) == 0 {
			return "No vehicles can be selected."
		}
		sb.WriteString("Vehicles:\n")
		for _, v := range list {
			def := cat.Vehicle(v).Def
			fmt.Fprintf(&sb, "  %-16s %s (%d mounts)\n", def.ID, def.Name, len(def.Mounts))
		}
	case "modules":
		list := e.SelectableModules()
		if len(list) == 0 {
			return "No modules can be fitted to the selected mount."
		}
		sb.WriteString("Modules:\n")
		for _, m := range list {
			def := cat.Module(m).Def
			fmt.Fprintf(&sb, "  %-16s %s\n", def.ID, def.Name)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
