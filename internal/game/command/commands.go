// Package command provides the loadout console: the command registry, the line parser,
// and the handlers that drive a loadout engine from text input.
package command

// Categories for organizing commands.
const (
	CategorySelection = "selection"
	CategoryEditing   = "editing"
	CategoryStorage   = "storage"
	CategorySystem    = "system"
)

// Handler identifiers mapping commands to console handlers.
const (
	HandlerShow    = "show"
	HandlerList    = "list"
	HandlerSlot    = "slot"
	HandlerVehicle = "vehicle"
	HandlerMount   = "mount"
	HandlerModule  = "module"
	HandlerCommit  = "commit"
	HandlerRevert  = "revert"
	HandlerClear   = "clear"
	HandlerSave    = "save"
	HandlerReset   = "reset"
	HandlerHelp    = "help"
	HandlerQuit    = "quit"
)

// Command defines a console command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the argument form, e.g. "slot <n|next|prev|none>".
	Usage string
	// Help is the short help text.
	Help string
	// Category groups the command for help output.
	Category string
	// Handler maps to the console handler.
	Handler string
}

// BuiltinCommands returns all console commands.
func BuiltinCommands() []Command {
	return []Command{
		// Selection commands
		{Name: "show", Aliases: []string{"ls", "status"}, Usage: "show", Help: "Show every slot and the slot being edited", Category: CategorySelection, Handler: HandlerShow},
		{Name: "list", Aliases: []string{"options"}, Usage: "list [vehicles|modules]", Help: "List the vehicles or modules that can be selected now", Category: CategorySelection, Handler: HandlerList},
		{Name: "slot", Aliases: []string{"sl"}, Usage: "slot <n|next|prev|none>", Help: "Activate a slot", Category: CategorySelection, Handler: HandlerSlot},
		{Name: "mount", Aliases: []string{"mt"}, Usage: "mount <n|next|prev|none>", Help: "Select a module mount on the vehicle being edited", Category: CategorySelection, Handler: HandlerMount},

		// Editing commands
		{Name: "vehicle", Aliases: []string{"veh", "v"}, Usage: "vehicle <id|next|prev>", Help: "Put a vehicle in the active slot", Category: CategoryEditing, Handler: HandlerVehicle},
		{Name: "module", Aliases: []string{"mod"}, Usage: "module <id|none|next|prev>", Help: "Fit a module to the selected mount", Category: CategoryEditing, Handler: HandlerModule},
		{Name: "commit", Aliases: []string{"apply"}, Usage: "commit", Help: "Apply pending edits to the active slot", Category: CategoryEditing, Handler: HandlerCommit},
		{Name: "revert", Aliases: []string{"undo"}, Usage: "revert", Help: "Discard pending edits", Category: CategoryEditing, Handler: HandlerRevert},
		{Name: "clear", Aliases: []string{"empty"}, Usage: "clear", Help: "Remove the vehicle and modules from the active slot", Category: CategoryEditing, Handler: HandlerClear},

		// Storage commands
		{Name: "save", Aliases: []string{"w"}, Usage: "save", Help: "Save the committed loadout", Category: CategoryStorage, Handler: HandlerSave},
		{Name: "reset", Aliases: nil, Usage: "reset", Help: "Delete the saved loadout and restore the defaults", Category: CategoryStorage, Handler: HandlerReset},

		// System commands
		{Name: "help", Aliases: []string{"?"}, Usage: "help", Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "quit", Aliases: []string{"exit", "q"}, Usage: "quit", Help: "Leave the console", Category: CategorySystem, Handler: HandlerQuit},
	}
}

// categoryOrder is the order categories appear in help output.
var categoryOrder = []string{CategorySelection, CategoryEditing, CategoryStorage, CategorySystem}
