package output

import (
	"math"
	"strings"
	"testing"
)

func TestAggregateMeanSum(t *testing.T) {
	vals := []float64{1, 2, 3, 4}
	mean, err := Aggregate(ReduceMean, vals)
	if err != nil {
		t.Fatal(err)
	}
	if mean != 2.5 {
		t.Errorf("got %v, want 2.5", mean)
	}
	sum, err := Aggregate(ReduceSum, vals)
	if err != nil {
		t.Fatal(err)
	}
	if sum != 10 {
		t.Errorf("got %v, want 10", sum)
	}
}

func TestAggregateMedian(t *testing.T) {
	vals := []float64{4, 1, 3, 2}
	got, err := Aggregate(ReduceP50, vals)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-2.5) > 0.5 {
		t.Errorf("got %v, want ~2.5", got)
	}
}

func TestAggregateEmptyIsZero(t *testing.T) {
	got, err := Aggregate(ReduceMean, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("got %v, want 0", got)
	}
}

func TestTableAddRowWrongWidth(t *testing.T) {
	table := NewTable([]Column{{Name: "a"}, {Name: "b"}})
	if err := table.AddRow([]interface{}{1}); err == nil {
		t.Error("expected error for wrong row width")
	}
}

func TestClassifyCompositionDominantAdmixed(t *testing.T) {
	got := ClassifyComposition(map[string]float64{"piab": 9, "fasy": 1})
	if got.Dominant != "piab" {
		t.Errorf("got dominant %q, want piab (90%% share exceeds 66%% threshold)", got.Dominant)
	}
	if len(got.Admixed) != 0 {
		t.Errorf("fasy's 10%% share is below the 20%% admixture threshold, got admixed %v", got.Admixed)
	}
}

func TestClassifyCompositionNoDominant(t *testing.T) {
	got := ClassifyComposition(map[string]float64{"piab": 5, "fasy": 5})
	if got.Dominant != "" {
		t.Errorf("got dominant %q, want none (50/50 split, below 66%% threshold)", got.Dominant)
	}
	if got.String() != "mixed" {
		t.Errorf("got %q, want mixed", got.String())
	}
}

func TestClassifyCompositionWorkedExample(t *testing.T) {
	// spec.md §4.9 scenario 5: dominant PISY, admixed fasy.
	got := ClassifyComposition(map[string]float64{"PISY": 7, "fasy": 2, "other": 1})
	want := "PISY fasy"
	if got.String() != want {
		t.Errorf("got %q, want %q", got.String(), want)
	}
}

func TestClassifyStructureWorkedExample(t *testing.T) {
	class, label := ClassifyStructure(12)
	if class != 3 {
		t.Errorf("got class %d, want 3", class)
	}
	if label != "8m-12m" {
		t.Errorf("got label %q, want 8m-12m", label)
	}
}

func TestSVDStateLabelWorkedExample(t *testing.T) {
	s := SVDState{
		StructureLabel: "8m-12m",
		Function:       "2-4",
		Composition:    Composition{Dominant: "PISY", Admixed: []string{"fasy"}},
	}
	got := s.Label()
	if !strings.HasPrefix(got, "PISY fasy ") {
		t.Errorf("got %q, want prefix %q", got, "PISY fasy ")
	}
	if !strings.Contains(got, "8m-12m") {
		t.Errorf("got %q, want it to contain 8m-12m", got)
	}
	if !strings.Contains(got, "2-4") {
		t.Errorf("got %q, want it to contain 2-4", got)
	}
}

func TestNeighborhoodContributionSingleMatchingDominant(t *testing.T) {
	center := SVDState{Composition: Composition{Dominant: "PISY"}}
	neighbors := []SVDState{
		{Composition: Composition{Dominant: "PISY"}},
		{Composition: Composition{Dominant: "PISY"}},
	}
	got := NeighborhoodContribution(center, neighbors)
	for _, c := range got {
		if c != 1.0 {
			t.Errorf("got %v, want 1.0 for a single matching dominant", c)
		}
	}
}

func TestNeighborhoodContributionTwoDistinctOneMatching(t *testing.T) {
	center := SVDState{Composition: Composition{Dominant: "PISY"}}
	neighbors := []SVDState{
		{Composition: Composition{Dominant: "PISY"}},
		{Composition: Composition{Dominant: "fasy"}},
	}
	got := NeighborhoodContribution(center, neighbors)
	if got[0] != 0.67 {
		t.Errorf("got %v, want 0.67 for the matching neighbor", got[0])
	}
	if got[1] != 0.33 {
		t.Errorf("got %v, want 0.33 for the non-matching neighbor", got[1])
	}
}
