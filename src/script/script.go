// Package script drives a bout from Lua. A script defines tick(frame) and
// feeds key events through press, release, keydown and keyup, reading the
// match back through a handful of query functions.
package script

import (
	"errors"
	"fmt"
	"io"
	"log"

	lua "github.com/yuin/gopher-lua"

	"github.com/SKANL/test-game-2d-sub000/src/input"
	"github.com/SKANL/test-game-2d-sub000/src/match"
)

var ErrNoTick = errors.New("script: no tick function defined")

// Runner owns one Lua state bound to a match and a recognizer.
type Runner struct {
	// Finished is set once the script calls finish().
	Finished bool

	l      *lua.LState
	m      *match.Match
	rec    *input.Recognizer
	logger *log.Logger
	tick   lua.LValue
}

func New(m *match.Match, rec *input.Recognizer, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	r := &Runner{
		l:      lua.NewState(),
		m:      m,
		rec:    rec,
		logger: logger,
	}
	r.register()
	return r
}

func (r *Runner) Close() { r.l.Close() }

// LoadFile runs the script's top level and looks up tick.
func (r *Runner) LoadFile(path string) error {
	if err := r.l.DoFile(path); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return r.bindTick()
}

func (r *Runner) LoadString(src string) error {
	if err := r.l.DoString(src); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return r.bindTick()
}

func (r *Runner) bindTick() error {
	fn := r.l.GetGlobal("tick")
	if fn.Type() != lua.LTFunction {
		return ErrNoTick
	}
	r.tick = fn
	return nil
}

// Tick calls tick(frame). Errors raised in Lua come back as Go errors.
func (r *Runner) Tick(frame int) error {
	if r.tick == nil {
		return ErrNoTick
	}
	if err := r.l.CallByParam(lua.P{Fn: r.tick, NRet: 0, Protect: true}, lua.LNumber(frame)); err != nil {
		return fmt.Errorf("script: frame %d: %w", frame, err)
	}
	return nil
}

func luaRegister(l *lua.LState, name string, f func(*lua.LState) int) {
	l.Register(name, f)
}

func strArg(l *lua.LState, argi int) string {
	if !lua.LVCanConvToString(l.Get(argi)) {
		l.RaiseError("\nArgument %v is not a string: %v\n", argi, l.Get(argi))
	}
	return l.ToString(argi)
}

func numArg(l *lua.LState, argi int) float64 {
	num, ok := l.Get(argi).(lua.LNumber)
	if !ok {
		l.RaiseError("\nArgument %v is not a number: %v\n", argi, l.Get(argi))
	}
	return float64(num)
}

// playerArg reads a 1-based player number and returns the side index.
func playerArg(l *lua.LState, argi int) int {
	p := int(numArg(l, argi))
	if p != 1 && p != 2 {
		l.RaiseError("\nArgument %v is not a player number: %v\n", argi, p)
	}
	return p - 1
}

func actionArg(l *lua.LState, argi int) input.Action {
	name := strArg(l, argi)
	a, ok := input.ParseAction(name)
	if !ok || a >= input.NumActions {
		l.RaiseError("\nArgument %v is not an action: %v\n", argi, name)
	}
	return a
}

func (r *Runner) register() {
	l := r.l
	luaRegister(l, "press", func(l *lua.LState) int {
		r.rec.SetHeld(playerArg(l, 1), actionArg(l, 2), true)
		return 0
	})
	luaRegister(l, "release", func(l *lua.LState) int {
		r.rec.SetHeld(playerArg(l, 1), actionArg(l, 2), false)
		return 0
	})
	luaRegister(l, "keydown", func(l *lua.LState) int {
		r.rec.KeyDown(input.Key(strArg(l, 1)))
		return 0
	})
	luaRegister(l, "keyup", func(l *lua.LState) int {
		r.rec.KeyUp(input.Key(strArg(l, 1)))
		return 0
	})
	luaRegister(l, "health", func(l *lua.LState) int {
		l.Push(lua.LNumber(r.m.Fighter(playerArg(l, 1)).Health))
		return 1
	})
	luaRegister(l, "meter", func(l *lua.LState) int {
		l.Push(lua.LNumber(r.m.Fighter(playerArg(l, 1)).SuperMeter))
		return 1
	})
	luaRegister(l, "state", func(l *lua.LState) int {
		l.Push(lua.LString(r.m.Fighter(playerArg(l, 1)).State))
		return 1
	})
	luaRegister(l, "posx", func(l *lua.LState) int {
		l.Push(lua.LNumber(r.m.Fighter(playerArg(l, 1)).Position.X()))
		return 1
	})
	luaRegister(l, "status", func(l *lua.LState) int {
		l.Push(lua.LString(r.m.Status))
		return 1
	})
	luaRegister(l, "round", func(l *lua.LState) int {
		l.Push(lua.LNumber(r.m.Round))
		return 1
	})
	luaRegister(l, "score", func(l *lua.LState) int {
		l.Push(lua.LNumber(r.m.Scores.Of(playerArg(l, 1))))
		return 1
	})
	luaRegister(l, "timer", func(l *lua.LState) int {
		l.Push(lua.LNumber(r.m.Timer))
		return 1
	})
	luaRegister(l, "pause", func(l *lua.LState) int {
		l.Push(lua.LBool(r.m.Pause()))
		return 1
	})
	luaRegister(l, "resume", func(l *lua.LState) int {
		l.Push(lua.LBool(r.m.Resume()))
		return 1
	})
	luaRegister(l, "log", func(l *lua.LState) int {
		r.logger.Printf("script: %s", strArg(l, 1))
		return 0
	})
	luaRegister(l, "finish", func(*lua.LState) int {
		r.Finished = true
		return 0
	})
}
