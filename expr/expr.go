// Package expr implements the expression engine used to define filters and
// derived variables over trees, resource units, saplings and dead trees
// (spec.md §4.8), delegating parsing/evaluation to govaluate — the same
// library the teacher depends on for exactly this shape of problem.
package expr

import (
	"fmt"

	"github.com/Knetic/govaluate"
)

// Wrapper exposes an entity's named numeric fields to an Expression,
// generalizing the teacher's reflection-based Cell.getValue(varName string)
// (framework.go) into an explicit interface so each entity type controls
// its own exposed variable set instead of reflecting over arbitrary struct
// tags at evaluation time.
type Wrapper interface {
	// Names returns the variable names this wrapper exposes.
	Names() []string
	// Value returns the value of the named variable, or an error if it is
	// not one of Names().
	Value(name string) (float64, error)
}

// Expression is a compiled arithmetic/boolean expression over a Wrapper's
// variables.
type Expression struct {
	source string
	compiled *govaluate.EvaluableExpression
}

// Compile parses src as a govaluate expression.
func Compile(src string) (*Expression, error) {
	c, err := govaluate.NewEvaluableExpression(src)
	if err != nil {
		return nil, fmt.Errorf("expr: compile %q: %w", src, err)
	}
	return &Expression{source: src, compiled: c}, nil
}

// Source returns the original expression text.
func (e *Expression) Source() string { return e.source }

// Eval evaluates the expression against w's variables.
func (e *Expression) Eval(w Wrapper) (float64, error) {
	params := make(map[string]interface{}, len(w.Names()))
	for _, n := range w.Names() {
		v, err := w.Value(n)
		if err != nil {
			return 0, fmt.Errorf("expr: %w", err)
		}
		params[n] = v
	}
	result, err := e.compiled.Evaluate(params)
	if err != nil {
		return 0, fmt.Errorf("expr: evaluate %q: %w", e.source, err)
	}
	switch v := result.(type) {
	case float64:
		return v, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("expr: %q evaluated to non-numeric type %T", e.source, result)
	}
}

// EvalBool evaluates the expression as a filter predicate (nonzero == true).
func (e *Expression) EvalBool(w Wrapper) (bool, error) {
	v, err := e.Eval(w)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// Linearizer caches Expression results along a single independent variable,
// implementing spec.md §4.8's optional linearization of expensive
// expressions by piecewise-linear interpolation between cached samples.
type Linearizer struct {
	expr       *Expression
	varName    string
	lo, hi     float64
	steps      int
	samples    []float64
	sampled    bool
}

// NewLinearizer builds a linearizer for expr over varName sampled at steps
// equally spaced points between lo and hi.
func NewLinearizer(e *Expression, varName string, lo, hi float64, steps int) *Linearizer {
	if steps < 2 {
		steps = 2
	}
	return &Linearizer{expr: e, varName: varName, lo: lo, hi: hi, steps: steps}
}

type scalarWrapper struct {
	name string
	val  float64
}

func (s scalarWrapper) Names() []string { return []string{s.name} }
func (s scalarWrapper) Value(name string) (float64, error) {
	if name != s.name {
		return 0, fmt.Errorf("expr: linearizer wrapper has no variable %q", name)
	}
	return s.val, nil
}

func (l *Linearizer) ensureSampled() error {
	if l.sampled {
		return nil
	}
	l.samples = make([]float64, l.steps)
	step := (l.hi - l.lo) / float64(l.steps-1)
	for i := 0; i < l.steps; i++ {
		x := l.lo + float64(i)*step
		v, err := l.expr.Eval(scalarWrapper{name: l.varName, val: x})
		if err != nil {
			return err
		}
		l.samples[i] = v
	}
	l.sampled = true
	return nil
}

// Eval returns the piecewise-linear interpolated value at x, clamped to
// [lo, hi]. The underlying expression is sampled once, lazily, on first use.
func (l *Linearizer) Eval(x float64) (float64, error) {
	if err := l.ensureSampled(); err != nil {
		return 0, err
	}
	if x <= l.lo {
		return l.samples[0], nil
	}
	if x >= l.hi {
		return l.samples[len(l.samples)-1], nil
	}
	step := (l.hi - l.lo) / float64(l.steps-1)
	idx := int((x - l.lo) / step)
	if idx >= l.steps-1 {
		idx = l.steps - 2
	}
	x0 := l.lo + float64(idx)*step
	frac := (x - x0) / step
	return l.samples[idx] + frac*(l.samples[idx+1]-l.samples[idx]), nil
}
