package script

import (
	"context"
	"fmt"
	"image/color"
	"reflect"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/mattex/internal/style"
	"github.com/dshills/mattex/internal/surface"
)

// bridge converts values between Go and Lua.
//
// Lua functions become surface.GraphFunc values so they can be passed to
// graph and to plugin capabilities. Colors and properties become tables
// that surface.Args decodes back.
type bridge struct {
	st *state
}

// toGo converts a Lua value to a Go value.
func (b *bridge) toGo(lv lua.LValue) any {
	return b.toGoVisited(lv, make(map[*lua.LTable]bool))
}

func (b *bridge) toGoVisited(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case nil, *lua.LNilType:
		return nil
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		return b.tableToGo(v, visited)
	case *lua.LFunction:
		return b.graphFunc(v)
	case *lua.LUserData:
		return v.Value
	default:
		return nil
	}
}

// tableToGo returns a []any for sequences and a map[string]any otherwise.
func (b *bridge) tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	isArray := true
	maxN, count := 0, 0
	t.ForEach(func(k, _ lua.LValue) {
		count++
		if kn, ok := k.(lua.LNumber); ok {
			if n := int(kn); float64(n) == float64(kn) && n > 0 {
				maxN = max(maxN, n)
				return
			}
		}
		isArray = false
	})

	if isArray && maxN > 0 && count == maxN {
		arr := make([]any, maxN)
		for i := 1; i <= maxN; i++ {
			arr[i-1] = b.toGoVisited(t.RawGetInt(i), visited)
		}
		return arr
	}

	m := make(map[string]any, count)
	t.ForEach(func(k, v lua.LValue) {
		var key string
		switch kv := k.(type) {
		case lua.LString:
			key = string(kv)
		case lua.LNumber:
			key = fmt.Sprintf("%v", float64(kv))
		default:
			key = k.String()
		}
		m[key] = b.toGoVisited(v, visited)
	})
	return m
}

// toLua converts a Go value to a Lua value.
func (b *bridge) toLua(v any) lua.LValue {
	L := b.st.L
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return val
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int32:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float32:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case color.RGBA:
		return lua.LString(style.Hex(val))
	case style.ColorDetails:
		t := L.NewTable()
		t.RawSetString("stroke", lua.LString(style.Hex(val.Stroke)))
		t.RawSetString("fill", lua.LString(style.Hex(val.Fill)))
		return t
	case style.Properties:
		t := L.NewTable()
		t.RawSetString("sw", lua.LNumber(val.StrokeWidth))
		return t
	case surface.GraphFunc:
		return b.goFunc(val)
	case func(float64) float64:
		return b.goFunc(surface.Plain(val))
	case []any:
		t := L.NewTable()
		for i, e := range val {
			t.RawSetInt(i+1, b.toLua(e))
		}
		return t
	case []string:
		t := L.NewTable()
		for i, e := range val {
			t.RawSetInt(i+1, lua.LString(e))
		}
		return t
	case map[string]any:
		t := L.NewTable()
		for k, e := range val {
			t.RawSetString(k, b.toLua(e))
		}
		return t
	default:
		return b.reflectToLua(v)
	}
}

// reflectToLua converts other slices and maps; anything else becomes userdata.
func (b *bridge) reflectToLua(v any) lua.LValue {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return lua.LNil
		}
		return b.toLua(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		t := b.st.L.NewTable()
		for i := 0; i < rv.Len(); i++ {
			t.RawSetInt(i+1, b.toLua(rv.Index(i).Interface()))
		}
		return t
	case reflect.Map:
		t := b.st.L.NewTable()
		for _, key := range rv.MapKeys() {
			t.RawSet(b.toLua(key.Interface()), b.toLua(rv.MapIndex(key).Interface()))
		}
		return t
	default:
		ud := b.st.L.NewUserData()
		ud.Value = v
		return ud
	}
}

// graphFunc wraps a Lua function taking and returning a number.
func (b *bridge) graphFunc(fn *lua.LFunction) surface.GraphFunc {
	return func(x float64) (float64, error) {
		ret, err := b.st.call(context.Background(), fn, 1, lua.LNumber(x))
		if err != nil {
			return 0, err
		}
		n, ok := ret[0].(lua.LNumber)
		if !ok {
			return 0, fmt.Errorf("%w, got %s", ErrBadReturn, ret[0].Type())
		}
		return float64(n), nil
	}
}

// goFunc exposes a GraphFunc to Lua.
func (b *bridge) goFunc(fn surface.GraphFunc) *lua.LFunction {
	return b.st.L.NewFunction(func(L *lua.LState) int {
		y, err := fn(float64(L.CheckNumber(1)))
		if err != nil {
			return b.st.raise(err)
		}
		L.Push(lua.LNumber(y))
		return 1
	})
}

// args converts the Lua arguments from index first onward.
func (b *bridge) args(L *lua.LState, first int) []any {
	n := L.GetTop()
	if n < first {
		return nil
	}
	out := make([]any, 0, n-first+1)
	for i := first; i <= n; i++ {
		out = append(out, b.toGo(L.Get(i)))
	}
	return out
}
