package script

import (
	"context"
	"errors"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/mattex/internal/logging"
)

// DefaultExecutionTimeout bounds one top-level call into Lua.
const DefaultExecutionTimeout = 5 * time.Second

// state wraps a sandboxed gopher-lua state.
//
// gopher-lua's LState is not goroutine-safe; a state must be driven from one
// goroutine. Calls may nest (Lua calling Go calling Lua); only the outermost
// call installs the execution context.
type state struct {
	L       *lua.LState
	name    string
	timeout time.Duration
	logger  *logging.Logger

	depth   int
	pending error
	closed  bool
}

func newState(name string, timeout time.Duration, logger *logging.Logger) *state {
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})
	openSafeLibraries(L)

	s := &state{
		L:       L,
		name:    name,
		timeout: timeout,
		logger:  logger,
	}
	installSandbox(L, logger)
	return s
}

// openSafeLibraries opens only the libraries scripts may use.
// io, os and debug are never opened.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage},
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
}

// run executes src as the main chunk.
func (s *state) run(ctx context.Context, src string) error {
	fn, err := s.L.Load(strings.NewReader(src), s.name)
	if err != nil {
		return &Error{Script: s.name, Message: err.Error()}
	}
	_, err = s.call(ctx, fn, 0)
	return err
}

// call invokes fn and returns its nret results (all results for lua.MultRet).
func (s *state) call(ctx context.Context, fn *lua.LFunction, nret int, args ...lua.LValue) ([]lua.LValue, error) {
	if s.closed {
		return nil, ErrStateClosed
	}

	if s.depth == 0 {
		if ctx == nil {
			ctx = context.Background()
		}
		if s.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}
		s.L.SetContext(ctx)
		defer s.L.RemoveContext()
		s.pending = nil
	}
	s.depth++
	defer func() { s.depth-- }()

	top := s.L.GetTop()
	err := s.L.CallByParam(lua.P{Fn: fn, NRet: nret, Protect: true}, args...)
	if err != nil {
		return nil, s.wrap(ctx, err)
	}

	n := s.L.GetTop() - top
	if n <= 0 {
		return nil, nil
	}
	results := make([]lua.LValue, n)
	for i := range results {
		results[i] = s.L.Get(top + i + 1)
	}
	s.L.Pop(n)
	return results, nil
}

// wrap turns a Lua failure into an *Error carrying the Go cause.
func (s *state) wrap(ctx context.Context, err error) error {
	e := &Error{Script: s.name, Err: s.pending}
	s.pending = nil

	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) && apiErr.Object != nil {
		e.Message = apiErr.Object.String()
	} else {
		e.Message = err.Error()
	}
	if e.Err == nil && ctx != nil && ctx.Err() != nil {
		e.Err = ctx.Err()
	}
	return e
}

// raise aborts the running Lua function with err.
// The last Go error raised is kept as the cause of the resulting *Error.
func (s *state) raise(err error) int {
	s.pending = err
	s.L.RaiseError("%s", err.Error())
	return 0
}

func (s *state) close() {
	if s.closed {
		return
	}
	s.L.Close()
	s.closed = true
}
