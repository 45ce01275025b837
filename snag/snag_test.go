package snag

import (
	"math"
	"testing"

	"github.com/landscape-sim/forestsim/species"
)

func TestDBHClassFor(t *testing.T) {
	cases := []struct {
		dbh  float64
		want DBHClass
	}{
		{5, ClassSmall},
		{19.9, ClassSmall},
		{20, ClassMedium},
		{49.9, ClassMedium},
		{50, ClassLarge},
		{100, ClassLarge},
	}
	for _, c := range cases {
		if got := dbhClassFor(c.dbh); got != c.want {
			t.Errorf("dbhClassFor(%v) = %v, want %v", c.dbh, got, c.want)
		}
	}
}

func TestStepOtherWoodRotation(t *testing.T) {
	s := New()
	s.Cohorts[ClassSmall].C = 100
	s.Cohorts[ClassSmall].Halflife = 1e-9 // effectively everything falls immediately
	s.Cohorts[ClassSmall].Ksw = 0
	if _, _, _, err := s.Step(1.0); err != nil {
		t.Fatal(err)
	}
	if s.OtherWood[1].C <= 0 {
		t.Errorf("expected fallen mass in slot 1 after rotation, got %v", s.OtherWood[1].C)
	}
	// Rotate otherWoodSlots-2 more times; the original fallen mass should
	// then sit in the oldest slot and be returned as litter by the next call.
	for i := 0; i < otherWoodSlots-2; i++ {
		s.Step(1.0)
	}
	_, litterC, _, err := s.Step(1.0)
	if err != nil {
		t.Fatal(err)
	}
	if litterC <= 0 {
		t.Errorf("expected litter carbon after %d rotations, got %v", otherWoodSlots, litterC)
	}
}

func TestStepNegativeClimateFactorErrors(t *testing.T) {
	s := New()
	if _, _, _, err := s.Step(-1); err == nil {
		t.Error("expected error for negative climate factor")
	}
}

func TestStepDecaySurvivalMatchesDocumentedFormula(t *testing.T) {
	s := New()
	s.Cohorts[ClassMedium].C = 100
	s.Cohorts[ClassMedium].Ksw = 0.05
	s.Cohorts[ClassMedium].Halflife = 10
	if _, _, _, err := s.Step(1.0); err != nil {
		t.Fatal(err)
	}
	// Decay alone (exp(-Ksw*re)) leaves 100*exp(-0.05); fall then removes a
	// further fraction, so post-step carbon must be strictly less than that.
	survived := 100 * math.Exp(-0.05)
	if s.Cohorts[ClassMedium].C > survived+1e-9 {
		t.Errorf("post-decay carbon %v should not exceed the decay-only survival %v", s.Cohorts[ClassMedium].C, survived)
	}
}

func TestMergeDeadStemWeightsKswByCarbon(t *testing.T) {
	co := &Cohort{Class: ClassSmall}
	spA := &species.Species{SnagKsw: 0.1, SnagHalflife: 10}
	spB := &species.Species{SnagKsw: 0.3, SnagHalflife: 20}
	co.mergeDeadStem(spA, 10, 0.1, 1)
	co.mergeDeadStem(spB, 10, 0.1, 1)
	if math.Abs(co.Ksw-0.2) > 1e-9 {
		t.Errorf("got Ksw=%v, want 0.2 (equal-carbon weighted average)", co.Ksw)
	}
	if math.Abs(co.Halflife-15) > 1e-9 {
		t.Errorf("got Halflife=%v, want 15 (equal-stem weighted average)", co.Halflife)
	}
}
