package lua

import (
	"fmt"
	"log/slog"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/docline/internal/renderer/layout"
)

// IndentFuncName is the global a script defines to compute indentation.
const IndentFuncName = "indent"

// IndentRule is a layout.IndentRule backed by a Lua function
// indent(text, tabWidth) returning a cell count. Lines the script fails on
// fall back to the width of their leading whitespace.
type IndentRule struct {
	state    *State
	logger   *slog.Logger
	fallback layout.IndentRule
}

// NewIndentRule runs script in a new sandboxed state and returns a rule
// calling its indent function.
func NewIndentRule(script string, opts ...StateOption) (*IndentRule, error) {
	state := NewState(opts...)
	r := &IndentRule{
		state:    state,
		logger:   state.logger,
		fallback: layout.WhitespaceIndent{},
	}

	if err := r.state.DoString(script); err != nil {
		r.state.Close()
		return nil, fmt.Errorf("loading indent script: %w", err)
	}
	if r.state.GetGlobal(IndentFuncName).Type() != lua.LTFunction {
		r.state.Close()
		return nil, ErrNoIndentFunc
	}
	return r, nil
}

// Indent implements layout.IndentRule.
func (r *IndentRule) Indent(text []rune, tabWidth int) int {
	n, err := r.Eval(string(text), tabWidth)
	if err != nil {
		r.logger.Warn("indent script failed", "error", err)
		return r.fallback.Indent(text, tabWidth)
	}
	return n
}

// Eval calls the script's indent function. Negative results become 0.
func (r *IndentRule) Eval(text string, tabWidth int) (int, error) {
	ret, err := r.state.Call(IndentFuncName, lua.LString(text), lua.LNumber(tabWidth))
	if err != nil {
		return 0, err
	}
	if len(ret) == 0 {
		return 0, fmt.Errorf("%s returned no value", IndentFuncName)
	}
	num, ok := ret[0].(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("%s returned %s, expected a number", IndentFuncName, ret[0].Type())
	}
	return max(int(num), 0), nil
}

// Close releases the Lua state. Later calls use the fallback rule.
func (r *IndentRule) Close() error {
	return r.state.Close()
}
