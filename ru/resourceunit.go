// Package ru implements the ResourceUnit, the 100m landscape cell that owns
// its trees, saplings, soil, snag, and water-cycle state (spec.md §3, §4.1),
// plus the bounded per-resource-unit disturbance history ring (§4.9).
package ru

import (
	"fmt"
	"sync"

	"github.com/landscape-sim/forestsim/climate"
	"github.com/landscape-sim/forestsim/sapling"
	"github.com/landscape-sim/forestsim/snag"
	"github.com/landscape-sim/forestsim/soil"
	"github.com/landscape-sim/forestsim/tree"
	"github.com/landscape-sim/forestsim/water"
)

// DisturbanceSource identifies what recorded an entry in a ResourceUnit's
// disturbance history ring.
type DisturbanceSource int

const (
	DisturbanceUnknown DisturbanceSource = iota
	DisturbanceWind
	DisturbanceFire
	DisturbanceBarkBeetle
	DisturbanceManagement
)

// disturbanceHistorySize is the bounded ring-buffer length for
// ResourceUnit.DisturbanceHistory, per spec.md §4.9.
const disturbanceHistorySize = 50

// DisturbanceEvent is one entry in a ResourceUnit's disturbance history.
type DisturbanceEvent struct {
	Year int
	Source DisturbanceSource
	Info   string
}

// ResourceUnit is the 100m landscape cell. Embedded sync.RWMutex matches
// the teacher's Cell (framework.go) embedding a mutex directly on the hot
// per-entity struct for spec.md §5's "parallel per RU" concurrency model.
type ResourceUnit struct {
	sync.RWMutex

	ID int
	X, Y float64 // m, resource-unit position (model.Setup passes the cell center)
	StockableAreaFraction float64

	Trees treeList
	SaplingGrid []*sapling.Cell // fine-resolution cells inside this RU

	Soil *soil.Soil
	Snag *snag.Snag
	Water *water.Data
	Climate *climate.Table // nil falls back to a fixed aggregate in DayInputsFor

	disturbanceHistory [disturbanceHistorySize]DisturbanceEvent
	disturbanceCount   int // total ever recorded, for ring position and reporting
}

// New allocates a ResourceUnit with fresh soil, snag and water-cycle state.
func New(id int, x, y float64) *ResourceUnit {
	return &ResourceUnit{
		ID:    id,
		X:     x,
		Y:     y,
		StockableAreaFraction: 1,
		Soil:  soil.New(),
		Snag:  snag.New(),
		Water: water.NewData(200, 50),
	}
}

// AddTree inserts a newly established or promoted tree into this RU's
// owned tree vector.
func (r *ResourceUnit) AddTree(t *tree.Tree) {
	t.StandID = 0
	r.Trees.add(t)
}

// LiveTrees returns every currently-live tree, in no particular order.
func (r *ResourceUnit) LiveTrees() []*tree.Tree {
	all := r.Trees.array()
	out := make([]*tree.Tree, 0, len(all))
	for _, t := range all {
		if !t.IsDead() {
			out = append(out, t)
		}
	}
	return out
}

// AllTrees returns every tree in the vector, live or dead (not yet
// compacted), matching spec.md's Tree invariant that dead trees remain
// until compaction.
func (r *ResourceUnit) AllTrees() []*tree.Tree {
	return r.Trees.array()
}

// CompactTrees removes dead trees from the vector, routing each one into
// the snag system first. trackIndividually selects whether large dead
// stems are tracked individually (snag.Snag.DeadTrees) or merged into the
// standing-cohort pools.
func (r *ResourceUnit) CompactTrees(trackIndividually bool) {
	var toRemove []*tree.Tree
	for _, t := range r.Trees.array() {
		if t.IsDead() {
			toRemove = append(toRemove, t)
		}
	}
	for _, t := range toRemove {
		r.Snag.AddDeadTree(t, trackIndividually)
	}
	r.Trees.compact(func(t *tree.Tree) bool { return !t.IsDead() })
}

// NotifyDisturbance appends an entry to the bounded disturbance history
// ring, overwriting the oldest entry once the ring is full.
func (r *ResourceUnit) NotifyDisturbance(year int, source DisturbanceSource, info string) {
	idx := r.disturbanceCount % disturbanceHistorySize
	r.disturbanceHistory[idx] = DisturbanceEvent{Year: year, Source: source, Info: info}
	r.disturbanceCount++
}

// DisturbanceHistory returns the recorded disturbance events in
// chronological order (oldest first among retained entries).
func (r *ResourceUnit) DisturbanceHistory() []DisturbanceEvent {
	n := r.disturbanceCount
	if n > disturbanceHistorySize {
		n = disturbanceHistorySize
	}
	out := make([]DisturbanceEvent, 0, n)
	if r.disturbanceCount <= disturbanceHistorySize {
		for i := 0; i < n; i++ {
			out = append(out, r.disturbanceHistory[i])
		}
		return out
	}
	start := r.disturbanceCount % disturbanceHistorySize
	for i := 0; i < disturbanceHistorySize; i++ {
		out = append(out, r.disturbanceHistory[(start+i)%disturbanceHistorySize])
	}
	return out
}

// StockableArea returns the stockable area of this resource unit in m2,
// given the fixed 100m x 100m resource-unit grid cell size.
func (r *ResourceUnit) StockableArea() float64 {
	return 10000 * r.StockableAreaFraction
}

// LeafAreaIndex returns the sum of live trees' leaf area divided by the
// stockable area, used by the light engine's LAI < 3 blending rule
// (spec.md §4.2) and by the sapling stage's light-availability estimate.
func (r *ResourceUnit) LeafAreaIndex() float64 {
	area := r.StockableArea()
	if area <= 0 {
		return 0
	}
	var total float64
	for _, t := range r.LiveTrees() {
		total += t.LeafArea
	}
	return total / area
}

// DayInputsFor returns a year-aggregated water.DayInputs for this resource
// unit, summed/averaged across every day of the given simulated year drawn
// from r.Climate (spec.md §4.1's "Climate.nextYear → per-RU reset" step).
// PotentialET is derived from summed radiation by a fixed Priestley-Taylor-
// style conversion factor, since no canopy-free reference-ET series is
// carried in climate.Day. If no climate table is configured, the RU falls
// back to a fixed regional aggregate rather than erroring, so a project
// without a climate.file entry can still run.
func (r *ResourceUnit) DayInputsFor(year int) (water.DayInputs, error) {
	if r.Climate == nil {
		return water.DayInputs{
			Precipitation: 800,
			Temperature:   10,
			PotentialET:   600,
			LAI:           r.LeafAreaIndex(),
		}, nil
	}
	days, err := r.Climate.YearDays(year)
	if err != nil {
		return water.DayInputs{}, fmt.Errorf("ru %d: %w", r.ID, err)
	}
	var precip, tempSum, radSum float64
	for _, d := range days {
		precip += d.Precipitation
		tempSum += d.MeanTemp
		radSum += d.Radiation
	}
	n := float64(len(days))
	return water.DayInputs{
		Precipitation: precip,
		Temperature:   tempSum / n,
		PotentialET:   radSum * 0.03, // MJ/m2 -> mm/yr reference-ET, Priestley-Taylor-style factor
		LAI:           r.LeafAreaIndex(),
	}, nil
}

// Validate checks internal consistency invariants a careful caller expects
// to hold after setup (spec.md §7: setup/input-data errors are fatal).
func (r *ResourceUnit) Validate() error {
	if r.StockableAreaFraction < 0 || r.StockableAreaFraction > 1 {
		return fmt.Errorf("ru %d: stockable area fraction %v out of [0,1]", r.ID, r.StockableAreaFraction)
	}
	return nil
}
