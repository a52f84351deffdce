package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/mattex/internal/plugin"
	"github.com/dshills/mattex/internal/surface"
)

// newModule builds the mx table.
func (s *Script) newModule() *lua.LTable {
	L := s.st.L
	mod := L.NewTable()

	L.SetFuncs(mod, map[string]lua.LGFunction{
		"plugin":       s.luaPlugin,
		"scene":        s.luaScene,
		"call":         s.luaCall,
		"has":          s.luaHas,
		"capabilities": s.luaCapabilities,
	})
	for _, name := range surface.BaseCapabilities {
		mod.RawSetString(name, L.NewFunction(s.sugar(name)))
	}
	return mod
}

// bound returns the bound surface or raises ErrNoSurface.
func (s *Script) bound() (*surface.Surface, bool) {
	if s.surface == nil {
		s.st.raise(ErrNoSurface)
		return nil, false
	}
	return s.surface, true
}

// luaPlugin implements mx.plugin{name=, description=, requires={...}, funcs={...}}.
func (s *Script) luaPlugin(L *lua.LState) int {
	t := L.CheckTable(1)

	name, ok := t.RawGetString("name").(lua.LString)
	if !ok || name == "" {
		return s.st.raise(fmt.Errorf("%w: name must be a non-empty string", ErrInvalidPlugin))
	}
	d := plugin.Descriptor[surface.Capability]{
		Name:  string(name),
		Funcs: make(map[string]surface.Capability),
	}

	switch desc := t.RawGetString("description").(type) {
	case lua.LString:
		d.Description = string(desc)
	case *lua.LNilType:
	default:
		return s.st.raise(fmt.Errorf("%w: %s: description must be a string", ErrInvalidPlugin, name))
	}

	switch req := t.RawGetString("requires").(type) {
	case *lua.LTable:
		for i := 1; i <= req.Len(); i++ {
			r, ok := req.RawGetInt(i).(lua.LString)
			if !ok {
				return s.st.raise(fmt.Errorf("%w: %s: requires[%d] must be a string", ErrInvalidPlugin, name, i))
			}
			d.Requires = append(d.Requires, string(r))
		}
	case *lua.LNilType:
	default:
		return s.st.raise(fmt.Errorf("%w: %s: requires must be a list", ErrInvalidPlugin, name))
	}

	funcs, ok := t.RawGetString("funcs").(*lua.LTable)
	if !ok {
		return s.st.raise(fmt.Errorf("%w: %s: funcs must be a table", ErrInvalidPlugin, name))
	}
	var bad error
	funcs.ForEach(func(k, v lua.LValue) {
		if bad != nil {
			return
		}
		key, kok := k.(lua.LString)
		fn, fok := v.(*lua.LFunction)
		if !kok || !fok {
			bad = fmt.Errorf("%w: %s: funcs must map names to functions", ErrInvalidPlugin, name)
			return
		}
		d.Funcs[string(key)] = s.capability(fn)
	})
	if bad != nil {
		return s.st.raise(bad)
	}

	s.plugins = append(s.plugins, d)
	s.logger.Debug("declared plugin %s with %d funcs", d.Name, len(d.Funcs))
	return 0
}

// luaScene implements mx.scene(name, fn).
func (s *Script) luaScene(L *lua.LState) int {
	name, ok := L.Get(1).(lua.LString)
	if !ok || name == "" {
		return s.st.raise(fmt.Errorf("%w: name must be a non-empty string", ErrInvalidScene))
	}
	fn, ok := L.Get(2).(*lua.LFunction)
	if !ok {
		return s.st.raise(fmt.Errorf("%w: %s: draw must be a function", ErrInvalidScene, name))
	}
	s.scenes = append(s.scenes, &Scene{name: string(name), fn: fn, script: s})
	return 0
}

// luaCall implements mx.call(name, ...).
func (s *Script) luaCall(L *lua.LState) int {
	name := L.CheckString(1)
	surf, ok := s.bound()
	if !ok {
		return 0
	}
	if err := surf.Call(name, s.br.args(L, 2)...); err != nil {
		return s.st.raise(err)
	}
	return 0
}

// luaHas implements mx.has(name).
func (s *Script) luaHas(L *lua.LState) int {
	name := L.CheckString(1)
	surf, ok := s.bound()
	if !ok {
		return 0
	}
	L.Push(lua.LBool(surf.HasCapability(name)))
	return 1
}

// luaCapabilities implements mx.capabilities().
func (s *Script) luaCapabilities(L *lua.LState) int {
	surf, ok := s.bound()
	if !ok {
		return 0
	}
	L.Push(s.br.toLua(surf.Capabilities()))
	return 1
}

// sugar returns mx.<name>(...), shorthand for mx.call(name, ...).
func (s *Script) sugar(name string) lua.LGFunction {
	return func(L *lua.LState) int {
		surf, ok := s.bound()
		if !ok {
			return 0
		}
		if err := surf.Call(name, s.br.args(L, 1)...); err != nil {
			return s.st.raise(err)
		}
		return 0
	}
}
