// Package model implements the top-level landscape orchestrator: setup
// (spec.md §4.1's loadProject) and the annual pipeline (spec.md §4.1's
// runYear), wiring together every other package. Grounded on the teacher's
// framework.go (InitInMAPdata, the parallelized setup loop) and run.go (the
// DomainManipulator stage sequence run by RunYear).
package model

import (
	"fmt"

	"github.com/ctessum/geom"
	"github.com/landscape-sim/forestsim/climate"
	"github.com/landscape-sim/forestsim/grid"
	"github.com/landscape-sim/forestsim/hooks"
	"github.com/landscape-sim/forestsim/light"
	"github.com/landscape-sim/forestsim/output"
	"github.com/landscape-sim/forestsim/randstream"
	"github.com/landscape-sim/forestsim/ru"
	"github.com/landscape-sim/forestsim/sapling"
	"github.com/landscape-sim/forestsim/scheduler"
	"github.com/landscape-sim/forestsim/species"
	"github.com/landscape-sim/forestsim/standgrid"
	"github.com/landscape-sim/forestsim/tree"
)

// Config is the static project configuration read at setup time (spec.md
// §6's model.* configuration-key table).
type Config struct {
	Extent          geom.Bounds
	LIFCellSize     float64 // m, default 2
	HeightCellSize  float64 // m, default 10
	RUCellSize      float64 // m, default 100
	Torus           bool
	RandomSeed      int64
	ExpressionLinearizationEnabled bool
	Latitude        float64 // degrees, for phenology day-length
}

// Model is the running landscape simulation.
type Model struct {
	cfg Config

	ResourceUnitList []*ru.ResourceUnit
	byID             map[int]*ru.ResourceUnit

	Species *species.Set
	Light   *light.Engine
	Stands  *standgrid.StandGrid
	Climate *climate.Table

	// currentYearClimate holds the daily records NextYear handed out for the
	// year in progress, used by climateReFactor to drive snag/soil
	// decomposition from the configured climate rather than a fixed re=1.
	currentYearClimate []climate.Day

	// Outputs accumulates one row per resource unit per year of SVD state
	// (spec.md §4.9), flushed by the caller at its own interval.
	Outputs *output.Table

	Hooks hooks.Registry

	Year int
}

// ResourceUnits implements hooks.Landscape.
func (m *Model) ResourceUnits() []*ru.ResourceUnit { return m.ResourceUnitList }

// Setup implements spec.md §4.1's loadProject: validates the project
// dimensions, allocates the LIF/height/RU grids, constructs one
// ResourceUnit per RU grid cell, wires the shared climate table into every
// unit, and validates each unit's stockable-area fraction (every unit starts
// at 1). Errors here are fatal
// (spec.md §7) and are wrapped with a phase prefix, matching the teacher's
// fmt.Errorf("inmap.X: %v", err) convention. climateTable may be nil, in
// which case every resource unit falls back to DayInputsFor's fixed
// aggregate (no project climate.file configured).
func Setup(cfg Config, sp *species.Set, climateTable *climate.Table) (*Model, error) {
	if cfg.LIFCellSize <= 0 || cfg.HeightCellSize <= 0 || cfg.RUCellSize <= 0 {
		return nil, fmt.Errorf("model: setup of the world: cell sizes must be positive")
	}
	if cfg.Extent.Max.X <= cfg.Extent.Min.X || cfg.Extent.Max.Y <= cfg.Extent.Min.Y {
		return nil, fmt.Errorf("model: setup of the world: degenerate extent %v", cfg.Extent)
	}

	lif := grid.NewFloat64Grid(cfg.Extent, cfg.LIFCellSize)
	height := grid.NewFloat64Grid(cfg.Extent, cfg.HeightCellSize)
	standCells := grid.New[int](cfg.Extent, cfg.HeightCellSize)

	m := &Model{
		cfg:     cfg,
		byID:    make(map[int]*ru.ResourceUnit),
		Species: sp,
		Light:   light.NewEngine(lif, height, sp, cfg.Torus),
		Stands:  standgrid.New(standCells),
		Climate: climateTable,
		Outputs: output.NewTable([]output.Column{
			{Name: "year", Type: output.TypeInt},
			{Name: "ru", Type: output.TypeInt},
			{Name: "structure", Type: output.TypeString},
			{Name: "function", Type: output.TypeString},
			{Name: "composition", Type: output.TypeString},
		}),
	}

	ruGrid := grid.New[int](cfg.Extent, cfg.RUCellSize)
	id := 0
	for y := 0; y < ruGrid.NY; y++ {
		for x := 0; x < ruGrid.NX; x++ {
			center := ruGrid.CellCenter(x, y)
			unit := ru.New(id, center.X, center.Y)
			unit.Climate = climateTable
			m.ResourceUnitList = append(m.ResourceUnitList, unit)
			m.byID[id] = unit
			id++
		}
	}

	if err := scheduler.Run(len(m.ResourceUnitList), func(i int) error {
		return m.ResourceUnitList[i].Validate()
	}); err != nil {
		return nil, fmt.Errorf("model: setup of the world: %w", err)
	}

	return m, nil
}

// ResourceUnit returns the resource unit with the given id, or an error.
func (m *Model) ResourceUnit(id int) (*ru.ResourceUnit, error) {
	r, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("model: unknown resource unit %d", id)
	}
	return r, nil
}

// RunYear executes one simulated year's pipeline (spec.md §4.1):
//  1. advance the climate table's read cursor
//  2. begin-year hooks
//  3. reset light grids
//  4. apply light-influence patterns for every live tree
//  5. write the height grid
//  6. per-tree light response, production (3-PG), partitioning, allometric
//     growth and mortality, plus senescence turnover -> soil litter input
//  7. sapling growth/establishment/promotion
//  8. disturbance hooks (each registered Disturbance's Run)
//  9. snag and soil decomposition
// 10. compaction
// 11. SVD output emission
func (m *Model) RunYear() error {
	m.Year++
	stages := []scheduler.Stage{
		{Name: "advance-climate", Run: m.stageAdvanceClimate},
		{Name: "begin-year", Run: m.stageBeginYear},
		{Name: "reset-light", Run: m.stageResetLight},
		{Name: "apply-lip", Run: m.stageApplyLIP},
		{Name: "write-height", Run: m.stageWriteHeight},
		{Name: "tree-growth", Run: m.stageTreeGrowth},
		{Name: "sapling", Run: m.stageSapling},
		{Name: "disturbance", Run: func() error {
			for _, d := range m.Hooks.Disturbances {
				if err := d.Run(); err != nil {
					return fmt.Errorf("disturbance %s: %w", d.Name(), err)
				}
			}
			return nil
		}},
		{Name: "decomposition", Run: m.stageDecomposition},
		{Name: "compact", Run: m.stageCompact},
		{Name: "output", Run: m.stageOutput},
	}
	return scheduler.RunStages(stages)
}

// stageAdvanceClimate pulls this year's daily climate records from the
// shared table (spec.md §4.1's "Climate.nextYear" pipeline step). A model
// with no configured climate table (m.Climate == nil) simply carries no
// daily records for the year; climateReFactor and ru.DayInputsFor both
// treat that as the documented fallback.
func (m *Model) stageAdvanceClimate() error {
	if m.Climate == nil {
		m.currentYearClimate = nil
		return nil
	}
	days, err := m.Climate.NextYear()
	if err != nil {
		return fmt.Errorf("model: advance climate: %w", err)
	}
	m.currentYearClimate = days
	return nil
}

func (m *Model) stageBeginYear() error {
	for _, d := range m.Hooks.Disturbances {
		if err := d.YearBegin(); err != nil {
			return fmt.Errorf("begin-year hook %s: %w", d.Name(), err)
		}
	}
	return nil
}

func (m *Model) stageResetLight() error {
	m.Light.ResetLIF()
	m.Light.ResetHeight()
	return nil
}

func (m *Model) stageApplyLIP() error {
	return scheduler.Run(len(m.ResourceUnitList), func(i int) error {
		unit := m.ResourceUnitList[i]
		for _, t := range unit.LiveTrees() {
			if err := m.Light.ApplyLIP(t); err != nil {
				return err
			}
		}
		return nil
	})
}

func (m *Model) stageWriteHeight() error {
	return scheduler.Run(len(m.ResourceUnitList), func(i int) error {
		unit := m.ResourceUnitList[i]
		for _, t := range unit.LiveTrees() {
			if err := m.Light.WriteHeight(t); err != nil {
				return err
			}
		}
		return nil
	})
}

// climateReFactor computes the soil/snag decomposition climate factor re
// for a resource unit (spec.md §4.4/§4.5), averaging delayed temperature
// across the year's daily climate records and combining it with the
// unit's current soil-moisture availability fraction. With no climate
// table configured, the delayed-temperature term defaults to 0 and re
// reduces to the moisture factor alone.
func (m *Model) climateReFactor(unit *ru.ResourceUnit) float64 {
	var tempSum float64
	for _, d := range m.currentYearClimate {
		tempSum += d.DelayedTemperature
	}
	var avgTemp float64
	if len(m.currentYearClimate) > 0 {
		avgTemp = tempSum / float64(len(m.currentYearClimate))
	}
	moisture := 1.0
	if unit.Water != nil {
		span := unit.Water.FieldCapacity - unit.Water.WiltingPoint
		if span > 0 {
			moisture = (unit.Water.SoilMoisture - unit.Water.WiltingPoint) / span
		}
	}
	return climate.ReFactor(avgTemp, moisture)
}

func (m *Model) stageTreeGrowth() error {
	return scheduler.Run(len(m.ResourceUnitList), func(i int) error {
		unit := m.ResourceUnitList[i]
		rnd := randstream.For(m.cfg.RandomSeed, unit.ID, m.Year)
		lai := unit.LeafAreaIndex()

		inputs, err := unit.DayInputsFor(m.Year)
		if err != nil {
			return fmt.Errorf("ru %d day inputs: %w", unit.ID, err)
		}
		_, availability, err := unit.Water.StepDay(inputs)
		if err != nil {
			return fmt.Errorf("ru %d water step: %w", unit.ID, err)
		}

		live := unit.LiveTrees()
		envs := make(map[*tree.Tree]*tree.Environment, len(live))
		for _, t := range live {
			lif, err := m.Light.ReadLIF(t, lai)
			if err != nil {
				return err
			}
			env := &tree.Environment{
				AvailableLightFraction: lif,
				SoilWaterAvailable:     availability,
				VPDResponse:            1,
				NitrogenResponse:       1,
			}
			if err := tree.LightResponseStep(t, env); err != nil {
				return fmt.Errorf("ru %d tree %d: %w", unit.ID, t.ID, err)
			}
			envs[t] = env
		}

		// calculateInterceptedArea (spec.md §4.3 step 2): bound the unit's
		// total effective light-interception area by LAI via Beer-Lambert,
		// then split it across trees by leaf-area-weighted light response so
		// stand density caps per-tree production.
		shares := tree.RUProduction(live, unit.StockableArea(), lai)

		for _, t := range live {
			env := envs[t]
			env.InterceptedArea = shares[t]
			steps := []tree.GrowthStep{tree.ProductionStep, tree.PartitionStep, tree.AllometricGrowthStep}
			for _, step := range steps {
				if err := step(t, env); err != nil {
					return fmt.Errorf("ru %d tree %d: %w", unit.ID, t.ID, err)
				}
			}
			if err := tree.MortalityStep(t, env, rnd.Float64()); err != nil {
				return err
			}
			if t.IsDead() {
				m.Hooks.NotifyTreeDeath(t, tree.RemovalDeath)
				continue
			}
			litterFoliage, litterRoot := tree.SenescenceTurnoverStep(t, env)
			litter := litterFoliage + litterRoot
			var litterN float64
			if t.Species.CNFoliage > 0 {
				litterN += litterFoliage / t.Species.CNFoliage
			}
			if t.Species.CNWood > 0 {
				litterN += litterRoot / t.Species.CNWood
			}
			unit.Soil.AddLitter(litter, litterN, t.Species.SnagKyl)
		}
		return nil
	})
}

func (m *Model) stageSapling() error {
	return scheduler.Run(len(m.ResourceUnitList), func(i int) error {
		unit := m.ResourceUnitList[i]
		lai := unit.LeafAreaIndex()
		available := 1.0
		if lai >= 3 {
			available = 0.1
		}
		for _, cell := range unit.SaplingGrid {
			promoted := cell.GrowthStep(available)
			for _, co := range promoted {
				newTree := &tree.Tree{
					ID:      nextTreeID(),
					Species: co.Species,
					X:       unit.X,
					Y:       unit.Y,
					DBH:     4,
					Height:  sapling.PromotionHeight,
				}
				unit.AddTree(newTree)
			}
			cell.RemovePromoted(promoted)
		}
		return nil
	})
}

func (m *Model) stageDecomposition() error {
	return scheduler.Run(len(m.ResourceUnitList), func(i int) error {
		unit := m.ResourceUnitList[i]
		re := m.climateReFactor(unit)
		carbonToAtmo, litterC, litterN, err := unit.Snag.Step(re)
		if err != nil {
			return fmt.Errorf("ru %d snag step: %w", unit.ID, err)
		}
		// Fallen snag material is refractory (branch/coarse wood), not
		// labile litter (spec.md §4.4/§4.5 pool routing).
		unit.Soil.AddDeadwood(litterC, litterN, 0.3)
		if err := unit.Soil.Step(re); err != nil {
			return fmt.Errorf("ru %d soil step: %w", unit.ID, err)
		}
		unit.Soil.YearCarbonToAtmosphere += carbonToAtmo
		return nil
	})
}

func (m *Model) stageCompact() error {
	return scheduler.Run(len(m.ResourceUnitList), func(i int) error {
		m.ResourceUnitList[i].CompactTrees(true)
		return nil
	})
}

// stageOutput emits one SVD row per resource unit for the year just
// completed (spec.md §4.1's output-emission step, §4.9's SVD classifier).
func (m *Model) stageOutput() error {
	states := m.SVDStates()
	for _, unit := range m.ResourceUnitList {
		s := states[unit.ID]
		row := []interface{}{m.Year, unit.ID, s.StructureLabel, s.Function, s.Composition.String()}
		if err := m.Outputs.AddRow(row); err != nil {
			return fmt.Errorf("ru %d output row: %w", unit.ID, err)
		}
	}
	return nil
}

// SVDStates returns the current SVD (structure, function, composition)
// classification for every resource unit (spec.md §4.9).
func (m *Model) SVDStates() map[int]output.SVDState {
	out := make(map[int]output.SVDState, len(m.ResourceUnitList))
	for _, unit := range m.ResourceUnitList {
		live := unit.LiveTrees()
		if len(live) == 0 {
			class, label := output.ClassifyStructure(0)
			out[unit.ID] = output.SVDState{Structure: class, StructureLabel: label, Function: output.ClassifyFunction(0)}
			continue
		}
		var topHeight float64
		bySpecies := make(map[string]float64)
		for _, t := range live {
			if t.Height > topHeight {
				topHeight = t.Height
			}
			ba := 0.00007854 * t.DBH * t.DBH // pi/4 * (DBH/100)^2, m2
			bySpecies[t.Species.ID] += ba
		}
		class, label := output.ClassifyStructure(topHeight)
		out[unit.ID] = output.SVDState{
			Structure:      class,
			StructureLabel: label,
			Function:       output.ClassifyFunction(unit.LeafAreaIndex()),
			Composition:    output.ClassifyComposition(bySpecies),
		}
	}
	return out
}

var treeIDCounter uint64

func nextTreeID() uint64 {
	treeIDCounter++
	return treeIDCounter
}
