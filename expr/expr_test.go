package expr

import "testing"

type fakeWrapper struct{ vars map[string]float64 }

func (f fakeWrapper) Names() []string {
	names := make([]string, 0, len(f.vars))
	for n := range f.vars {
		names = append(names, n)
	}
	return names
}
func (f fakeWrapper) Value(name string) (float64, error) { return f.vars[name], nil }

func TestCompileAndEval(t *testing.T) {
	e, err := Compile("dbh * 2 + height")
	if err != nil {
		t.Fatal(err)
	}
	w := fakeWrapper{vars: map[string]float64{"dbh": 10, "height": 5}}
	got, err := e.Eval(w)
	if err != nil {
		t.Fatal(err)
	}
	if got != 25 {
		t.Errorf("got %v, want 25", got)
	}
}

func TestEvalBool(t *testing.T) {
	e, err := Compile("dbh > 20")
	if err != nil {
		t.Fatal(err)
	}
	ok, err := e.EvalBool(fakeWrapper{vars: map[string]float64{"dbh": 25}})
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("expected true")
	}
}

func TestLinearizerReturnsExactSamplePoint(t *testing.T) {
	e, err := Compile("x * x")
	if err != nil {
		t.Fatal(err)
	}
	l := NewLinearizer(e, "x", 0, 10, 11)
	got, err := l.Eval(5)
	if err != nil {
		t.Fatal(err)
	}
	if got != 25 {
		t.Errorf("got %v, want 25 (exact sample point)", got)
	}
}

func TestCompileInvalidExpression(t *testing.T) {
	if _, err := Compile("dbh +* 2"); err == nil {
		t.Error("expected compile error")
	}
}
