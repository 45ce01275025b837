package tree

import (
	"testing"

	"github.com/landscape-sim/forestsim/species"
)

func testSpecies() *species.Species {
	return &species.Species{
		ID: "piab", Name: "Picea abies",
		HDRatioIntercept: 2, HDRatioSlope: 0.4,
		SpecificLeafArea: 6, LightResponseClass: 3,
		MaxAge: 400, ProbStressMortality: 0.01,
	}
}

func TestLightResponseStep(t *testing.T) {
	tr := &Tree{Species: testSpecies()}
	env := &Environment{AvailableLightFraction: 0.8}
	if err := LightResponseStep(tr, env); err != nil {
		t.Fatal(err)
	}
	if tr.LightResponse <= 0 || tr.LightResponse > 1 {
		t.Errorf("light response %v out of (0,1]", tr.LightResponse)
	}
}

func TestPartitionStepDrainsReserve(t *testing.T) {
	tr := &Tree{Species: testSpecies(), NPPReserve: 10}
	if err := PartitionStep(tr, &Environment{}); err != nil {
		t.Fatal(err)
	}
	if tr.NPPReserve != 0 {
		t.Errorf("reserve not drained: %v", tr.NPPReserve)
	}
	if tr.StemMass+tr.BranchMass+tr.RootMass+tr.FoliageMass != 10 {
		t.Errorf("partitioned mass doesn't sum to input NPP: %v", tr.StemMass+tr.BranchMass+tr.RootMass+tr.FoliageMass)
	}
}

func TestMortalityStepAgeCutoff(t *testing.T) {
	sp := testSpecies()
	sp.MaxAge = 10
	tr := &Tree{Species: sp, Age: 10}
	if err := MortalityStep(tr, &Environment{}, 0.99); err != nil {
		t.Fatal(err)
	}
	if !tr.IsDead() {
		t.Error("tree at MaxAge should be dead")
	}
}

func TestRUProductionSplitsAreaByLeafAreaShare(t *testing.T) {
	a := &Tree{Species: testSpecies(), LeafArea: 10, LightResponse: 1}
	b := &Tree{Species: testSpecies(), LeafArea: 30, LightResponse: 1}
	shares := RUProduction([]*Tree{a, b}, 1000, 3)
	if shares[b] <= shares[a] {
		t.Errorf("tree with 3x leaf area should get a larger intercepted-area share, got a=%v b=%v", shares[a], shares[b])
	}
	if shares[a]+shares[b] <= 0 {
		t.Error("expected nonzero total intercepted area")
	}
}

func TestRUProductionDenserStandLeavesLessAreaPerTree(t *testing.T) {
	a := &Tree{Species: testSpecies(), LeafArea: 10, LightResponse: 1}
	sparse := RUProduction([]*Tree{a}, 1000, 1)

	a2 := &Tree{Species: testSpecies(), LeafArea: 10, LightResponse: 1}
	b2 := &Tree{Species: testSpecies(), LeafArea: 10, LightResponse: 1}
	dense := RUProduction([]*Tree{a2, b2}, 1000, 1)

	if dense[a2] >= sparse[a] {
		t.Errorf("adding a competing tree at the same LAI should shrink a's share: sparse=%v dense=%v", sparse[a], dense[a2])
	}
}

func TestProductionStepUsesInterceptedArea(t *testing.T) {
	tr := &Tree{Species: testSpecies()}
	env := &Environment{SoilWaterAvailable: 1, VPDResponse: 1, NitrogenResponse: 1, InterceptedArea: 5}
	if err := ProductionStep(tr, env); err != nil {
		t.Fatal(err)
	}
	if tr.NPPReserve <= 0 {
		t.Errorf("expected nonzero NPP reserve from nonzero intercepted area, got %v", tr.NPPReserve)
	}
}

func TestTotalStemBiomassIncludesReserve(t *testing.T) {
	tr := &Tree{StemMass: 5, NPPReserve: 2}
	if got := tr.TotalStemBiomass(); got != 7 {
		t.Errorf("got %v, want 7", got)
	}
	if got := tr.AbovegroundBiomass(); got != 5 {
		t.Errorf("AbovegroundBiomass should exclude NPPReserve, got %v", got)
	}
}
