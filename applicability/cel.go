package applicability

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/ext"

	"github.com/broady/tyflow"
)

// CEL is an applicability predicate written as a CEL expression over the
// target's method, path and operation name, for example
//
//	method in ["POST", "PUT"] && path.startsWith("/admin/")
//
// The string extension library is available.
type CEL struct {
	expr    string
	program cel.Program
}

// NewCEL compiles expr. Expressions whose static type is neither bool nor
// dyn are rejected.
func NewCEL(expr string) (*CEL, error) {
	env, err := cel.NewEnv(
		cel.Variable("method", cel.StringType),
		cel.Variable("path", cel.StringType),
		cel.Variable("operation", cel.StringType),
		ext.Strings(),
	)
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("cel compile: %w", issues.Err())
	}
	if out := ast.OutputType().String(); out != "bool" && out != "dyn" {
		return nil, fmt.Errorf("cel compile: expression yields %s, want bool", out)
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("cel program: %w", err)
	}
	return &CEL{expr: expr, program: prg}, nil
}

// Applies evaluates the expression against t. Evaluation errors and
// non-bool results mean the answer cannot be determined.
func (c *CEL) Applies(t *tyflow.Target) (bool, error) {
	out, _, err := c.program.Eval(map[string]any{
		"method":    t.Method,
		"path":      t.Path,
		"operation": t.Name,
	})
	if err != nil {
		return false, fmt.Errorf("cel eval %q: %w", c.expr, err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("cel eval %q: result is %s, want bool", c.expr, out.Type().TypeName())
	}
	return b, nil
}

func (c *CEL) String() string { return c.expr }
