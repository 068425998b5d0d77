package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for scenario scripts.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every .lua file in scriptsDir.
// A missing directory loads nothing.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scenario scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// WorldInfo describes the world to a scenario script.
type WorldInfo struct {
	XZ       int
	Y        int
	MapClear int
}

// Placement is one explicitly placed unit.
type Placement struct {
	Kind    string // "human" or "lander"
	X, Y, Z int
}

// Scenario is what a script asks to be placed at start or reset.
type Scenario struct {
	Humans int // random humans
	Aliens int // random landers
	Units  []Placement
}

// Scenario calls the Lua scenario(world) function. ok is false when no
// script defines it or the call fails; callers fall back to configured counts.
func (e *Engine) Scenario(info WorldInfo) (Scenario, bool) {
	fn := e.vm.GetGlobal("scenario")
	if fn == lua.LNil {
		return Scenario{}, false
	}

	t := e.vm.NewTable()
	t.RawSetString("xz", lua.LNumber(info.XZ))
	t.RawSetString("y", lua.LNumber(info.Y))
	t.RawSetString("map_clear", lua.LNumber(info.MapClear))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua scenario error", zap.Error(err))
		return Scenario{}, false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua scenario returned non-table")
		return Scenario{}, false
	}

	sc := Scenario{
		Humans: lInt(rt, "humans"),
		Aliens: lInt(rt, "aliens"),
	}
	if units, ok := rt.RawGetString("units").(*lua.LTable); ok {
		units.ForEach(func(_, v lua.LValue) {
			row, ok := v.(*lua.LTable)
			if !ok {
				return
			}
			sc.Units = append(sc.Units, Placement{
				Kind: lStr(row, "kind"),
				X:    lInt(row, "x"),
				Y:    lInt(row, "y"),
				Z:    lInt(row, "z"),
			})
		})
	}
	return sc, true
}

// lInt reads an integer field from a Lua table.
func lInt(t *lua.LTable, key string) int {
	return int(lua.LVAsNumber(t.RawGetString(key)))
}

// lStr reads a string field from a Lua table.
func lStr(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
