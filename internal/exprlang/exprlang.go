// Package exprlang evaluates the small numeric expression language
// behind the host CLI's --times and --voltages flags.
//
// The original Python host tool evaluates those flags directly with
// Python's eval() over numpy (original_source/host/cli.py: "times =
// eval(args.times, globals(), {})"). A Go binary has no safe analogue
// of "eval a numpy expression," so this package embeds gopher-lua
// (present, unused, in the teacher's go.mod — see SPEC_FULL.md) as a
// small embedded expression evaluator: the flag's value is wrapped as
// "return <expr>" and run against a prelude of vector helpers standing
// in for the numpy functions the original expressions lean on. The Lua
// state opens the full standard library, os and io included, so an
// expression is not sandboxed.
package exprlang

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// prelude defines the vector helpers available to --times/--voltages
// expressions: range/linspace to build a series, map/scale/addk to
// transform one elementwise, lastof to take its final element, and
// pi/sin/cos/sqrt aliased from Lua's math library, mirroring the numpy
// spellings the original expressions use
// (np.arange, np.cos, 2*np.pi, ...).
// These are declared without "local": the prelude and the expression
// itself run as two separate DoString chunks, and only globals survive
// from one chunk to the next in the same Lua state.
const prelude = `
function range(n)
  local out = {}
  for i = 0, n - 1 do out[i + 1] = i end
  return out
end

function linspace(a, b, n)
  local out = {}
  if n < 2 then out[1] = a; return out end
  local step = (b - a) / (n - 1)
  for i = 0, n - 1 do out[i + 1] = a + step * i end
  return out
end

function map(vec, fn)
  local out = {}
  for i, x in ipairs(vec) do out[i] = fn(x, i - 1) end
  return out
end

function scale(vec, k) return map(vec, function(x) return x * k end) end
function addk(vec, k) return map(vec, function(x) return x + k end) end
function lastof(vec) return vec[#vec] end

pi = math.pi
sin, cos, sqrt = math.sin, math.cos, math.sqrt
`

// Eval runs a Lua expression and returns the numeric series it
// evaluates to. env supplies additional globals (e.g. the already
// evaluated times series bound to "t" for a --voltages expression
// that references it, matching the original tool's
// eval(args.voltages, globals(), dict(t=times))).
func Eval(expr string, env map[string][]float64) ([]float64, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: false})
	defer L.Close()

	if err := L.DoString(prelude); err != nil {
		return nil, fmt.Errorf("exprlang: prelude: %w", err)
	}
	for name, series := range env {
		L.SetGlobal(name, toLuaTable(L, series))
	}

	if err := L.DoString("return " + expr); err != nil {
		return nil, fmt.Errorf("exprlang: evaluating %q: %w", expr, err)
	}
	ret := L.Get(-1)
	L.Pop(1)

	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("exprlang: expression %q did not return a series (got %s)", expr, ret.Type())
	}
	return fromLuaTable(tbl)
}

func toLuaTable(L *lua.LState, series []float64) *lua.LTable {
	t := L.NewTable()
	for i, v := range series {
		t.RawSetInt(i+1, lua.LNumber(v))
	}
	return t
}

func fromLuaTable(t *lua.LTable) ([]float64, error) {
	n := t.Len()
	out := make([]float64, n)
	for i := 1; i <= n; i++ {
		v := t.RawGetInt(i)
		num, ok := v.(lua.LNumber)
		if !ok {
			return nil, fmt.Errorf("exprlang: element %d is not a number (got %s)", i, v.Type())
		}
		out[i-1] = float64(num)
	}
	return out, nil
}
