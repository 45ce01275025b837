package model

import (
	"testing"

	"github.com/ctessum/geom"
	"github.com/landscape-sim/forestsim/climate"
	"github.com/landscape-sim/forestsim/species"
	"github.com/landscape-sim/forestsim/tree"
)

func newTestTree(sp *species.Species, x, y float64) *tree.Tree {
	return &tree.Tree{ID: nextTreeID(), Species: sp, X: x, Y: y, DBH: 20, Height: 10, LeafArea: 15, StemMass: 100}
}

func testConfig() Config {
	return Config{
		Extent:         geom.Bounds{Min: geom.Point{X: 0, Y: 0}, Max: geom.Point{X: 200, Y: 200}},
		LIFCellSize:    2,
		HeightCellSize: 10,
		RUCellSize:     100,
		RandomSeed:     1,
	}
}

func testSpeciesSet() *species.Set {
	sp := species.NewSet()
	piab := &species.Species{
		ID: "piab", Name: "Picea abies",
		HDRatioIntercept: 2, HDRatioSlope: 0.4,
		SpecificLeafArea: 6, LightResponseClass: 3,
		MaxAge: 400, ProbStressMortality: 0.001,
	}
	sp.Add(piab)
	sp.AddStamp(species.NewStamp(piab, 40, 5))
	return sp
}

func TestSetupCreatesResourceUnitGrid(t *testing.T) {
	m, err := Setup(testConfig(), testSpeciesSet(), nil)
	if err != nil {
		t.Fatal(err)
	}
	// 200m extent / 100m RU cells = 2x2 = 4 resource units.
	if len(m.ResourceUnitList) != 4 {
		t.Errorf("got %d resource units, want 4", len(m.ResourceUnitList))
	}
}

func TestSetupRejectsDegenerateExtent(t *testing.T) {
	cfg := testConfig()
	cfg.Extent.Max.X = cfg.Extent.Min.X
	if _, err := Setup(cfg, testSpeciesSet(), nil); err == nil {
		t.Error("expected an error for a degenerate extent")
	}
}

func TestRunYearAdvancesWithoutError(t *testing.T) {
	m, err := Setup(testConfig(), testSpeciesSet(), nil)
	if err != nil {
		t.Fatal(err)
	}
	sp := testSpeciesSet().All()[0]
	unit := m.ResourceUnitList[0]
	for i := 0; i < 3; i++ {
		unit.AddTree(newTestTree(sp, unit.X, unit.Y))
	}
	if err := m.RunYear(); err != nil {
		t.Fatal(err)
	}
	if m.Year != 1 {
		t.Errorf("got year %d, want 1", m.Year)
	}
}

func TestRunYearDraysWaterFromConfiguredClimate(t *testing.T) {
	// A bone-dry configured climate year should drive soil moisture down
	// from its initial full-bucket state; the water cycle must actually
	// respond to the wired climate.Table rather than a fixed aggregate.
	dry := &climate.Table{Days: []climate.Day{
		{Year: 1, DOY: 1, Precipitation: 0, MeanTemp: 25, Radiation: 500},
	}}
	m, err := Setup(testConfig(), testSpeciesSet(), dry)
	if err != nil {
		t.Fatal(err)
	}
	unit := m.ResourceUnitList[0]
	before := unit.Water.SoilMoisture
	if err := m.RunYear(); err != nil {
		t.Fatal(err)
	}
	if unit.Water.SoilMoisture >= before {
		t.Errorf("soil moisture should have dropped under a zero-precipitation configured year, got %v (was %v)", unit.Water.SoilMoisture, before)
	}
}

func TestSVDStatesCoversEveryResourceUnit(t *testing.T) {
	m, err := Setup(testConfig(), testSpeciesSet(), nil)
	if err != nil {
		t.Fatal(err)
	}
	states := m.SVDStates()
	if len(states) != len(m.ResourceUnitList) {
		t.Errorf("got %d states, want %d", len(states), len(m.ResourceUnitList))
	}
}
