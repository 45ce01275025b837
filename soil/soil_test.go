package soil

import (
	"math"
	"testing"
)

func TestCNPairWeightedAverage(t *testing.T) {
	p := CNPair{C: 10, N: 1, K: 0.1}
	p.AddBiomass(10, 1, 0.3)
	if math.Abs(p.K-0.2) > 1e-9 {
		t.Errorf("got k=%v, want 0.2", p.K)
	}
	if p.C != 20 {
		t.Errorf("got C=%v, want 20", p.C)
	}
}

func TestCNPoolAggregate(t *testing.T) {
	pool := &CNPool{}
	pool.Add(CNPair{C: 5, N: 0.5, K: 0.1})
	pool.Add(CNPair{C: 15, N: 1.5, K: 0.5})
	agg := pool.Aggregate()
	if agg.C != 20 {
		t.Errorf("got C=%v, want 20", agg.C)
	}
}

func TestStepMassBalance(t *testing.T) {
	s := New()
	s.Young.C = 100
	s.Young.K = 0.5
	if err := s.Step(1.0); err != nil {
		t.Fatal(err)
	}
	if s.Young.C >= 100 {
		t.Errorf("young pool should have decayed, got %v", s.Young.C)
	}
	if s.YearCarbonToAtmosphere <= 0 {
		t.Errorf("expected nonzero atmosphere flux, got %v", s.YearCarbonToAtmosphere)
	}
	// Mass balance: decayed carbon = humified (now in Old) + atmosphere.
	decayed := 100 - s.Young.C
	accounted := s.Old.C + s.YearCarbonToAtmosphere
	if math.Abs(decayed-accounted) > 1e-9 {
		t.Errorf("mass balance violated: decayed=%v accounted=%v", decayed, accounted)
	}
}

func TestStepNegativeClimateFactorErrors(t *testing.T) {
	s := New()
	if err := s.Step(-1); err == nil {
		t.Error("expected error for negative climate factor")
	}
}

func TestDisturbRemovesOnlyTargetedPool(t *testing.T) {
	s := New()
	s.Young.C = 10
	s.Refractory.C = 20
	s.Old.C = 100
	if err := s.Disturb(0.5, 0, 0); err != nil {
		t.Fatal(err)
	}
	if s.Refractory.C != 10 {
		t.Errorf("got refractory C=%v, want 10", s.Refractory.C)
	}
	if s.Young.C != 10 {
		t.Errorf("young pool should be untouched, got %v", s.Young.C)
	}
	if s.Old.C != 100 {
		t.Errorf("SOM pool should be untouched, got %v", s.Old.C)
	}
	if s.YearCarbonToDisturbance != 10 {
		t.Errorf("got totalToDisturbance=%v, want 10", s.YearCarbonToDisturbance)
	}
}

func TestDisturbRejectsOutOfRangeFraction(t *testing.T) {
	s := New()
	if err := s.Disturb(1.5, 0, 0); err == nil {
		t.Error("expected an error for a disturbance fraction outside [0,1]")
	}
}
