package cliutil

import (
	"fmt"
	"os"

	"github.com/ctessum/geom"
	"github.com/landscape-sim/forestsim/config"
	"github.com/landscape-sim/forestsim/logging"
	"github.com/landscape-sim/forestsim/model"
	"github.com/landscape-sim/forestsim/ru"
	"github.com/landscape-sim/forestsim/snapshot"
	"github.com/landscape-sim/forestsim/species"
)

func modelConfigFrom(cfg *config.Cfg) model.Config {
	v := cfg.V
	return model.Config{
		Extent: geom.Bounds{
			Min: geom.Point{X: v.GetFloat64("model.world.extent.xmin"), Y: v.GetFloat64("model.world.extent.ymin")},
			Max: geom.Point{X: v.GetFloat64("model.world.extent.xmax"), Y: v.GetFloat64("model.world.extent.ymax")},
		},
		LIFCellSize:    v.GetFloat64("model.world.cellsize.lif"),
		HeightCellSize: v.GetFloat64("model.world.cellsize.height"),
		RUCellSize:     v.GetFloat64("model.world.cellsize.ru"),
		Torus:          v.GetBool("model.world.torus"),
		RandomSeed:     v.GetInt64("model.settings.randomSeed"),
		ExpressionLinearizationEnabled: v.GetBool("model.settings.expressionLinearizationEnabled"),
		Latitude:       v.GetFloat64("model.world.latitude"),
	}
}

// setupModel builds a Model from the bound project configuration. No
// climate.file loader exists yet, so every setup runs with climate wired
// to nil and each resource unit falls back to DayInputsFor's fixed
// aggregate (see ru.ResourceUnit.DayInputsFor's documented fallback).
func setupModel(cfg *config.Cfg) (*model.Model, error) {
	sp := species.NewSet()
	m, err := model.Setup(modelConfigFrom(cfg), sp, nil)
	if err != nil {
		return nil, fmt.Errorf("cliutil: %w", err)
	}
	return m, nil
}

func runYears(cfg *config.Cfg, years int) error {
	m, err := setupModel(cfg)
	if err != nil {
		return fmt.Errorf("cliutil: run: %w", err)
	}
	logger := logging.NewYearLogger(os.Stdout)
	for i := 0; i < years; i++ {
		if err := m.RunYear(); err != nil {
			logger.LogStageError(m.Year, err)
			return fmt.Errorf("cliutil: run: %w", err)
		}
		logger.LogYear(m.Year)
	}
	return nil
}

// saveSnapshot runs the configured number of years against the project
// file's setup, then writes a gob-encoded landscape snapshot to path.
func saveSnapshot(cfg *config.Cfg, years int, path string) error {
	m, err := setupModel(cfg)
	if err != nil {
		return fmt.Errorf("cliutil: snapshot save: %w", err)
	}
	for i := 0; i < years; i++ {
		if err := m.RunYear(); err != nil {
			return fmt.Errorf("cliutil: snapshot save: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cliutil: snapshot save: %w", err)
	}
	defer f.Close()
	if err := snapshot.Save(f, m.Year, m.ResourceUnits()); err != nil {
		return fmt.Errorf("cliutil: snapshot save: %w", err)
	}
	return nil
}

// loadSnapshot sets up a Model from the project file, re-inserts every
// tree recorded in the snapshot at path, and reports the snapshot's
// recorded year.
func loadSnapshot(cfg *config.Cfg, path string) (year int, err error) {
	m, err := setupModel(cfg)
	if err != nil {
		return 0, fmt.Errorf("cliutil: snapshot load: %w", err)
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("cliutil: snapshot load: %w", err)
	}
	defer f.Close()
	byID := make(map[int]*ru.ResourceUnit, len(m.ResourceUnitList))
	for _, unit := range m.ResourceUnits() {
		byID[unit.ID] = unit
	}
	year, err = snapshot.Load(f, byID)
	if err != nil {
		return 0, fmt.Errorf("cliutil: snapshot load: %w", err)
	}
	return year, nil
}

func printGrid(cfg *config.Cfg) error {
	mc := modelConfigFrom(cfg)
	nx := int((mc.Extent.Max.X - mc.Extent.Min.X) / mc.RUCellSize)
	ny := int((mc.Extent.Max.Y - mc.Extent.Min.Y) / mc.RUCellSize)
	fmt.Fprintf(os.Stdout, "resource-unit grid: %d x %d cells (%g m extent, %g m cells)\n",
		nx, ny, mc.Extent.Max.X-mc.Extent.Min.X, mc.RUCellSize)
	return nil
}
