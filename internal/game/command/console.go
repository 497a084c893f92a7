package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/ironclad/internal/game/loadout"
)

// handlerFunc executes one resolved command and returns the text shown to the user.
type handlerFunc func(ctx context.Context, args []string) string

// Console drives a loadout engine from text commands.
type Console struct {
	engine   *loadout.Engine
	registry *Registry
	wrap     bool
	logger   *zap.Logger
	handlers map[string]handlerFunc
}

// NewConsole creates a Console over e. With wrap set, next/prev arguments wrap around
// at either end of a list instead of stopping at the boundary.
//
// Precondition: e and registry must not be nil; e should have been loaded.
// Postcondition: Returns a Console with a handler for every built-in handler identifier.
func NewConsole(e *loadout.Engine, registry *Registry, wrap bool, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Console{engine: e, registry: registry, wrap: wrap, logger: logger}
	c.handlers = map[string]handlerFunc{
		HandlerShow:    c.handleShow,
		HandlerList:    c.handleList,
		HandlerSlot:    c.handleSlot,
		HandlerVehicle: c.handleVehicle,
		HandlerMount:   c.handleMount,
		HandlerModule:  c.handleModule,
		HandlerCommit:  c.handleCommit,
		HandlerRevert:  c.handleRevert,
		HandlerClear:   c.handleClear,
		HandlerSave:    c.handleSave,
		HandlerReset:   c.handleReset,
		HandlerHelp:    c.handleHelp,
	}
	return c
}

// Execute parses and runs one line of input.
//
// Postcondition: out is the text to display (possibly empty); quit is true only for the quit command.
func (c *Console) Execute(ctx context.Context, line string) (out string, quit bool) {
	p := Parse(line)
	if p.Command == "" {
		return "", false
	}
	cmd, ok := c.registry.Resolve(p.Command)
	if !ok {
		return fmt.Sprintf("Unknown command %q. Type 'help' for a list of commands.", p.Command), false
	}
	if cmd.Handler == HandlerQuit {
		return "Goodbye.", true
	}
	h, ok := c.handlers[cmd.Handler]
	if !ok {
		return fmt.Sprintf("Command %q is not available here.", cmd.Name), false
	}
	c.logger.Debug("console command", zap.String("command", cmd.Name), zap.Strings("args", p.Args))
	return h(ctx, p.Args), false
}

func (c *Console) handleShow(_ context.Context, _ []string) string {
	return RenderLoadout(c.engine)
}

func (c *Console) handleList(_ context.Context, args []string) string {
	if len(args) == 0 {
		return renderOptions(c.engine, "vehicles") + "\n" + renderOptions(c.engine, "modules")
	}
	switch what := strings.ToLower(args[0]); what {
	case "vehicles", "vehicle", "v":
		return renderOptions(c.engine, "vehicles")
	case "modules", "module", "m":
		return renderOptions(c.engine, "modules")
	default:
		return "Usage: list [vehicles|modules]"
	}
}

func (c *Console) handleSlot(_ context.Context, args []string) string {
	if len(args) != 1 {
		return "Usage: slot <n|next|prev|none>"
	}
	e := c.engine
	switch forward, step := stepArg(args[0]); {
	case step:
		if e.SlotCount() == 0 {
			return "There are no slots."
		}
		e.CycleSlot(forward, c.wrap)
	case noneArg(args[0]):
		e.SelectSlot(-1)
	default:
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > e.SlotCount() {
			return fmt.Sprintf("Invalid slot %q. Use a number between 1 and %d.", args[0], e.SlotCount())
		}
		e.SelectSlot(n - 1)
	}
	return RenderLoadout(e)
}

func (c *Console) handleVehicle(_ context.Context, args []string) string {
	if len(args) != 1 {
		return "Usage: vehicle <id|next|prev>"
	}
	e := c.engine
	if e.ActiveSlotIndex().IsNone() {
		return "Select a slot first."
	}
	if forward, step := stepArg(args[0]); step {
		if len(e.SelectableVehicles()) == 0 {
			return "No vehicles can be selected."
		}
		e.CycleVehicle(forward, c.wrap)
		return RenderLoadout(e)
	}

	v, ok := e.Catalog().VehicleIndex(args[0])
	if !ok {
		return fmt.Sprintf("Unknown vehicle %q.", args[0])
	}
	if !containsInt(e.SelectableVehicles(), v) {
		return fmt.Sprintf("%s is already in another slot.", e.Catalog().Vehicle(v).Def.Name)
	}
	e.SelectVehicle(v)
	return RenderLoadout(e)
}

func (c *Console) handleMount(_ context.Context, args []string) string {
	if len(args) != 1 {
		return "Usage: mount <n|next|prev|none>"
	}
	e := c.engine
	mounts := len(e.Working().Modules)
	switch forward, step := stepArg(args[0]); {
	case step:
		if mounts == 0 {
			return "The vehicle being edited has no mounts."
		}
		e.CycleModuleMount(forward, c.wrap)
	case noneArg(args[0]):
		e.SelectModuleMount(-1)
	default:
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > mounts {
			return fmt.Sprintf("Invalid mount %q. Use a number between 1 and %d.", args[0], mounts)
		}
		e.SelectModuleMount(n - 1)
	}
	return RenderLoadout(e)
}

func (c *Console) handleModule(_ context.Context, args []string) string {
	if len(args) != 1 {
		return "Usage: module <id|none|next|prev>"
	}
	e := c.engine
	if e.SelectedMount().IsNone() {
		return "Select a mount first."
	}
	switch forward, step := stepArg(args[0]); {
	case step:
		if len(e.SelectableModules()) == 0 {
			return "No modules can be fitted to the selected mount."
		}
		e.CycleModule(forward, c.wrap)
	case noneArg(args[0]):
		e.SelectModule(loadout.None)
	default:
		m, ok := e.Catalog().ModuleIndex(args[0])
		if !ok {
			return fmt.Sprintf("Unknown module %q.", args[0])
		}
		if !containsInt(e.SelectableModules(), m) {
			return fmt.Sprintf("%s cannot be fitted to the selected mount.", e.Catalog().Module(m).Def.Name)
		}
		e.SelectModule(loadout.Some(m))
	}
	return RenderLoadout(e)
}

func (c *Console) handleCommit(_ context.Context, _ []string) string {
	if !c.engine.HasUncommittedChanges() {
		return "Nothing to commit."
	}
	c.engine.CommitWorkingToActive()
	return RenderLoadout(c.engine)
}

func (c *Console) handleRevert(_ context.Context, _ []string) string {
	if !c.engine.HasUncommittedChanges() {
		return "Nothing to revert."
	}
	c.engine.RevertWorkingFromActive()
	return RenderLoadout(c.engine)
}

func (c *Console) handleClear(_ context.Context, _ []string) string {
	if c.engine.ActiveSlotIndex().IsNone() {
		return "Select a slot first."
	}
	c.engine.ClearActiveSlot()
	return RenderLoadout(c.engine)
}

func (c *Console) handleSave(ctx context.Context, _ []string) string {
	if err := c.engine.SavePersistent(ctx); err != nil {
		c.logger.Error("saving loadout", zap.Error(err))
		return fmt.Sprintf("Save failed: %v", err)
	}
	if c.engine.HasUncommittedChanges() {
		return "Loadout saved. Uncommitted edits were not saved."
	}
	return "Loadout saved."
}

func (c *Console) handleReset(ctx context.Context, _ []string) string {
	if err := c.engine.DeletePersistent(ctx, true); err != nil {
		c.logger.Error("resetting loadout", zap.Error(err))
		return fmt.Sprintf("Reset failed: %v", err)
	}
	return "Loadout reset to defaults.\n" + RenderLoadout(c.engine)
}

func (c *Console) handleHelp(_ context.Context, _ []string) string {
	return c.registry.HelpText()
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
