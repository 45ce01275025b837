// Package sapling implements establishment, growth and promotion of
// regeneration below the 4m minimum tree height threshold (spec.md §4.7),
// the Reineke-curve represented-stem-number statistic, and browsing
// pressure.
package sapling

import (
	"math"

	"github.com/landscape-sim/forestsim/species"
)

// PromotionHeight is the height (m) at which a sapling cohort is promoted
// to individual tree.Tree status.
const PromotionHeight = 4.0

// NSAPCELLS is the fixed number of sapling slots a single Cell can hold
// (spec.md §3's SaplingCell capacity). Establish refuses new cohorts once
// the cell is full.
const NSAPCELLS = 5

// Cohort is one species' regeneration cohort on a single SaplingCell,
// tracked statistically (represented stem count + mean height) rather than
// as individuals, per spec.md §3 SaplingCell.
type Cohort struct {
	Species *species.Species
	Height  float64 // m, mean height of the cohort
	Age     int
	RepresentedStems float64 // stems/ha this cohort statistically represents
	BrowsingPressure float64 // 0..1, fraction of annual height growth suppressed
}

// Grass reports whether a Cell is under grass cover rather than available
// for sapling establishment (spec.md §4.7: grass-covered cells exclude any
// sapling growth, distinct from an empty cell that is merely unoccupied).
type Cell struct {
	Cohorts []*Cohort
	Grass   bool
}

// Establish adds a new cohort of sp at the site, or increases the
// represented-stem count of an existing cohort of the same species at
// establishment height. It is a no-op while the cell is under grass cover
// (spec.md §4.7) or once NSAPCELLS slots are already occupied.
func (c *Cell) Establish(sp *species.Species, stems float64) {
	if c.Grass {
		return
	}
	for _, co := range c.Cohorts {
		if co.Species.ID == sp.ID && co.Height < 0.5 {
			co.RepresentedStems += stems
			return
		}
	}
	if len(c.Cohorts) >= NSAPCELLS {
		return
	}
	c.Cohorts = append(c.Cohorts, &Cohort{Species: sp, Height: 0.05, RepresentedStems: stems})
}

// GrowthStep advances every cohort's height by a light- and browsing-limited
// annual increment, ages it, and returns the cohorts (if any) that crossed
// PromotionHeight this year for removal/promotion by the caller.
func (c *Cell) GrowthStep(availableLightFraction float64) []*Cohort {
	if c.Grass {
		return nil
	}
	var promoted []*Cohort
	for _, co := range c.Cohorts {
		increment := 0.3 * availableLightFraction * (1 - co.BrowsingPressure)
		if increment < 0.01 {
			increment = 0.01 // minimum height growth even in deep shade
		}
		co.Height += increment
		co.Age++
		if co.Height >= PromotionHeight {
			promoted = append(promoted, co)
		}
	}
	return promoted
}

// RemovePromoted drops cohorts that have been promoted to trees, compacting
// the Cohorts slice.
func (c *Cell) RemovePromoted(promoted []*Cohort) {
	promotedSet := make(map[*Cohort]bool, len(promoted))
	for _, p := range promoted {
		promotedSet[p] = true
	}
	out := c.Cohorts[:0]
	for _, co := range c.Cohorts {
		if !promotedSet[co] {
			out = append(out, co)
		}
	}
	c.Cohorts = out
}

// ReinekeStems returns the self-thinning-limited maximum stem count per
// hectare for a cohort at its current mean height, using the Reineke
// stand-density-index relationship referenced by spec.md §4.7. refDBH is
// an assumed characteristic DBH (cm) derived from height via the species
// HD ratio, used because Reineke's rule is DBH-based.
func (co *Cohort) ReinekeStems(maxSDI float64) float64 {
	refDBH := (co.Height - co.Species.HDRatioIntercept) / co.Species.HDRatioSlope
	if refDBH <= 0 {
		return co.RepresentedStems
	}
	// SDI = N * (DBH/25)^1.605 (Reineke 1933); solve for N given maxSDI.
	limit := maxSDI / math.Pow(refDBH/25.0, 1.605)
	if co.RepresentedStems > limit {
		return limit
	}
	return co.RepresentedStems
}

// ApplyBrowsing sets the browsing pressure applied to every cohort on the
// cell for the coming growth step (spec.md §4.7 browsing).
func (c *Cell) ApplyBrowsing(pressure float64) {
	for _, co := range c.Cohorts {
		co.BrowsingPressure = pressure
	}
}
