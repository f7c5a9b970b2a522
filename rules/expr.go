package rules

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	goshape "github.com/reoring/goshape"
)

// Env is the environment expressions are evaluated in. Undefined values are
// exposed as nil.
type Env struct {
	Value   any            `expr:"value"`
	Parent  any            `expr:"parent"`
	Context map[string]any `expr:"context"`
	Path    string         `expr:"path"`
}

// Expr compiles expression into a test that passes when it evaluates to
// true, for example `value >= parent.min`. Absent values pass unless
// checkAbsent is set.
func Expr(name, expression string, checkAbsent bool, msg ...string) (*goshape.Test, error) {
	program, err := expr.Compile(expression, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("rules: compile %q: %w", expression, err)
	}
	return &goshape.Test{
		Name:    name,
		Message: message(msg, "${path} does not satisfy "+expression),
		Params:  goshape.Params{"expr": expression},
		Fn: func(tc *goshape.TestContext, value any) (bool, error) {
			if goshape.IsAbsent(value) && !checkAbsent {
				return true, nil
			}
			return run(program, Env{
				Value:   defined(value),
				Parent:  defined(tc.Parent),
				Context: tc.ContextBag,
				Path:    tc.Path,
			})
		},
	}, nil
}

// MustExpr is like Expr but panics on compile errors.
func MustExpr(name, expression string, checkAbsent bool, msg ...string) *goshape.Test {
	t, err := Expr(name, expression, checkAbsent, msg...)
	if err != nil {
		panic(err)
	}
	return t
}

func run(program *vm.Program, env Env) (bool, error) {
	out, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("rules: evaluate: %w", err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

func defined(v any) any {
	if v == goshape.Undefined {
		return nil
	}
	return v
}
