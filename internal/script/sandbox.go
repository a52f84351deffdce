package script

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/mattex/internal/logging"
)

// ModuleName is the module scripts load with require.
const ModuleName = "mx"

// Globals removed from every state. They would load code from disk or
// from strings outside the sandboxed require.
var removedGlobals = []string{"dofile", "loadfile", "load", "loadstring", "module"}

// Built-in modules require may return.
var safeModules = map[string]bool{
	"string": true,
	"table":  true,
	"math":   true,
}

func installSandbox(L *lua.LState, logger *logging.Logger) {
	for _, name := range removedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	installPrint(L, logger)
	installRequire(L)
}

// installPrint sends print output to the logger instead of stdout.
func installPrint(L *lua.LState, logger *logging.Logger) {
	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		logger.Info("%s", strings.Join(parts, "\t"))
		return 0
	}))
}

// installRequire restricts require to safe built-ins and the mx module.
// package.path and package.cpath are cleared so nothing is read from disk.
func installRequire(L *lua.LState) {
	if pkg, ok := L.GetGlobal("package").(*lua.LTable); ok {
		L.SetField(pkg, "path", lua.LString(""))
		L.SetField(pkg, "cpath", lua.LString(""))
	}

	original := L.GetGlobal("require")
	L.SetGlobal("require", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		if !safeModules[name] && name != ModuleName {
			L.RaiseError("module %q is not available", name)
			return 0
		}
		L.Push(original)
		L.Push(lua.LString(name))
		L.Call(1, 1)
		return 1
	}))
}
