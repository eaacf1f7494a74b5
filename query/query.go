package query

import (
	"maps"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Input is the data an expression is evaluated against
type Input struct {
	Status int
	Body   any
}

// Query is a compiled expression. It is safe for concurrent use.
type Query struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
}

// CompilerOption configures a Compiler
type CompilerOption func(*Compiler)

// WithCache enables caching of compiled queries, keeping at most size entries
func WithCache(size int) CompilerOption {
	return func(c *Compiler) {
		if size > 0 {
			c.cache = newLRUCache(size)
		}
	}
}

// WithFunctions adds helper functions available to expressions
func WithFunctions(funcs map[string]any) CompilerOption {
	return func(c *Compiler) {
		maps.Copy(c.helpers, funcs)
	}
}

// Compiler compiles expressions into queries
type Compiler struct {
	helpers map[string]any
	cache   *lruCache
}

// NewCompiler creates a compiler with the default helper functions
func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{helpers: helperFunctions()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile parses and compiles expression
func (c *Compiler) Compile(expression string) (*Query, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if q, ok := c.cache.Get(expression); ok {
			return q, nil
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(c.helpers),
		expr.AllowUndefinedVariables(), // response fields are only known at run time
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	q := &Query{expression: expression, program: program, helpers: c.helpers}
	if c.cache != nil {
		c.cache.Put(expression, q)
	}
	return q, nil
}

// Clear removes all cached queries
func (c *Compiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached queries
func (c *Compiler) Size() int {
	if c.cache != nil {
		return c.cache.Len()
	}
	return 0
}

// Expression returns the original expression
func (q *Query) Expression() string {
	return q.expression
}

// Evaluate runs the query against in and returns its result
func (q *Query) Evaluate(in Input) (any, error) {
	result, err := expr.Run(q.program, environment(in, q.helpers))
	if err != nil {
		return nil, &EvaluationError{
			Expression: q.expression,
			Reason:     "failed to evaluate expression",
			Err:        err,
		}
	}
	return result, nil
}

// environment builds the run-time environment for in.
// Top-level object fields never shadow body, status or helpers.
func environment(in Input, helpers map[string]any) map[string]any {
	env := make(map[string]any, 32)
	if obj, ok := in.Body.(map[string]any); ok {
		maps.Copy(env, obj)
	}
	maps.Copy(env, helpers)
	env["body"] = in.Body
	env["status"] = in.Status
	return env
}

func helperFunctions() map[string]any {
	funcs := make(map[string]any, 16)
	addHelperFunctions(funcs)
	return funcs
}

// addHelperFunctions adds all helper functions to env.
// contains, startsWith and endsWith are expr operators, so the
// case-insensitive variants take an "i" prefix.
func addHelperFunctions(env map[string]any) {
	// String helpers
	env["icontains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["istartsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["iendsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	// Date helpers
	env["parseTime"] = func(s string) time.Time {
		t, _ := time.Parse(time.RFC3339, s)
		return t
	}
	env["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
}
